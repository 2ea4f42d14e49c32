// Package server is the thin web layer around the generation pipeline:
// file upload, background job status polling, and output file serving.
package server

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/clram/resultviz/internal/appconfig"
	"github.com/clram/resultviz/internal/job"
	"github.com/clram/resultviz/internal/results"
)

// Server wires the HTTP routes to one job runner.
type Server struct {
	cfg    *appconfig.Config
	runner *job.Runner
}

// New builds a server around cfg and runner.
func New(cfg *appconfig.Config, runner *job.Runner) *Server {
	return &Server{cfg: cfg, runner: runner}
}

// Handler returns the route mux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("POST /upload", s.handleUpload)
	mux.HandleFunc("GET /status", s.handleStatus)
	mux.HandleFunc("GET /chart/{file...}", s.handleFile(false))
	mux.HandleFunc("GET /download/{file...}", s.handleFile(true))
	mux.HandleFunc("GET /table/{file...}", s.handleTable)
	mux.HandleFunc("POST /reset", s.handleReset)
	return mux
}

// ListenAndServe runs the web interface until the listener fails.
func (s *Server) ListenAndServe() error {
	srv := &http.Server{
		Addr:              s.cfg.ListenAddr(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Printf("listening on %s (uploads=%s output=%s)", srv.Addr, s.cfg.UploadDir, s.cfg.OutputDir)
	return srv.ListenAndServe()
}

type errResp struct {
	Error string `json:"error"`
}

type okResp struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes())

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errResp{Error: "no file provided"})
		return
	}
	defer file.Close()

	name := filepath.Base(header.Filename)
	if name == "" || name == "." {
		writeJSON(w, http.StatusBadRequest, errResp{Error: "no file selected"})
		return
	}
	if !results.SupportedExtension(name) {
		writeJSON(w, http.StatusBadRequest, errResp{Error: "invalid file type; use CSV, JSON, or TXT"})
		return
	}

	if err := os.MkdirAll(s.cfg.UploadDir, 0o755); err != nil {
		writeJSON(w, http.StatusInternalServerError, errResp{Error: "unable to create upload directory"})
		return
	}

	stored := filepath.Join(s.cfg.UploadDir, time.Now().Format("20060102_150405")+"_"+sanitizeName(name))
	dst, err := os.Create(stored)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errResp{Error: "unable to store upload"})
		return
	}
	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		writeJSON(w, http.StatusInternalServerError, errResp{Error: "unable to store upload"})
		return
	}
	dst.Close()

	if err := s.runner.Start(stored); err != nil {
		if errors.Is(err, job.ErrAlreadyRunning) {
			writeJSON(w, http.StatusConflict, errResp{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusInternalServerError, errResp{Error: err.Error()})
		return
	}

	log.Printf("upload accepted: %s", stored)
	writeJSON(w, http.StatusOK, okResp{Success: true, Message: "file uploaded, generation started"})
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.runner.Status().Snapshot())
}

func (s *Server) handleFile(asAttachment bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path, ok := s.outputFile(r.PathValue("file"))
		if !ok {
			writeJSON(w, http.StatusNotFound, errResp{Error: "file not found"})
			return
		}
		if asAttachment {
			w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(path)))
		}
		http.ServeFile(w, r, path)
	}
}

// handleTable parses an output CSV back into JSON records for in-browser
// table rendering.
func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	path, ok := s.outputFile(r.PathValue("file"))
	if !ok || !strings.EqualFold(filepath.Ext(path), ".csv") {
		writeJSON(w, http.StatusNotFound, errResp{Error: "file not found"})
		return
	}

	f, err := os.Open(path)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errResp{Error: "file not found"})
		return
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errResp{Error: "unable to parse table"})
		return
	}
	if len(rows) == 0 {
		writeJSON(w, http.StatusOK, []map[string]string{})
		return
	}

	header := rows[0]
	records := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(row) {
				record[name] = row[i]
			}
		}
		records = append(records, record)
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleReset(w http.ResponseWriter, _ *http.Request) {
	if !s.runner.Status().Reset() {
		writeJSON(w, http.StatusConflict, errResp{Error: "a generation job is still running"})
		return
	}
	writeJSON(w, http.StatusOK, okResp{Success: true, Message: "reset complete"})
}

// outputFile resolves a requested file against the current session output
// directory, rejecting traversal outside it.
func (s *Server) outputFile(requested string) (string, bool) {
	outputDir := s.runner.Status().Snapshot().OutputDir
	if outputDir == "" || requested == "" {
		return "", false
	}

	cleaned := filepath.Clean("/" + filepath.FromSlash(requested))
	path := filepath.Join(outputDir, cleaned)

	root, err := filepath.Abs(outputDir)
	if err != nil {
		return "", false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	if abs != root && !strings.HasPrefix(abs, root+string(filepath.Separator)) {
		return "", false
	}
	if _, err := os.Stat(abs); err != nil {
		return "", false
	}
	return abs, true
}

func sanitizeName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
