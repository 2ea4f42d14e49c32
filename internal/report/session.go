// Package report writes the derived outputs of one generation run: CSV
// tables, PNG charts, and a standalone HTML report, all under a fresh
// timestamped session directory.
package report

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Session owns the output directory of a single generation run.
type Session struct {
	Dir string
}

// NewSession creates visualizationRoot/session_<timestamp> and returns a
// Session rooted there.
func NewSession(outputRoot string) (*Session, error) {
	return newSessionAt(outputRoot, time.Now())
}

func newSessionAt(outputRoot string, now time.Time) (*Session, error) {
	dir := filepath.Join(outputRoot, "session_"+now.Format("20060102_150405"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("unable to create session directory %s: %w", dir, err)
	}
	return &Session{Dir: dir}, nil
}

// Charts lists the PNG files under the session directory, relative to it.
func (s *Session) Charts() ([]string, error) { return s.glob(".png") }

// Tables lists the CSV files under the session directory, relative to it.
func (s *Session) Tables() ([]string, error) { return s.glob(".csv") }

func (s *Session) glob(ext string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(s.Dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ext) {
			return nil
		}
		rel, err := filepath.Rel(s.Dir, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
