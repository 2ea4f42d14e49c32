// Package job runs one generation pipeline in the background and exposes
// its progress through an explicit, mutex-guarded status object. Nothing
// here is process-global: each Runner owns its own Status.
package job

import "sync"

// Snapshot is a point-in-time copy of a job's status, safe to serialize.
type Snapshot struct {
	Running   bool     `json:"running"`
	Progress  int      `json:"progress"`
	Message   string   `json:"message"`
	OutputDir string   `json:"output_dir,omitempty"`
	Charts    []string `json:"charts"`
	Tables    []string `json:"tables"`
	Error     string   `json:"error,omitempty"`
	Warnings  []string `json:"warnings,omitempty"`
}

// Status tracks one runner's generation state.
type Status struct {
	mu       sync.Mutex
	snapshot Snapshot
}

// NewStatus returns an idle status.
func NewStatus() *Status {
	return &Status{snapshot: Snapshot{Message: "Ready"}}
}

// Snapshot returns a copy of the current state.
func (s *Status) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := s.snapshot
	out.Charts = append([]string(nil), s.snapshot.Charts...)
	out.Tables = append([]string(nil), s.snapshot.Tables...)
	out.Warnings = append([]string(nil), s.snapshot.Warnings...)
	return out
}

// Running reports whether a run is active.
func (s *Status) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot.Running
}

// Reset returns the status to idle. It refuses to clear a running job.
func (s *Status) Reset() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot.Running {
		return false
	}
	s.snapshot = Snapshot{Message: "Ready"}
	return true
}

func (s *Status) begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot.Running {
		return false
	}
	s.snapshot = Snapshot{Running: true, Message: "Starting..."}
	return true
}

func (s *Status) update(progress int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Progress = progress
	s.snapshot.Message = message
}

func (s *Status) setOutputDir(dir string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.OutputDir = dir
}

func (s *Status) warn(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Warnings = append(s.snapshot.Warnings, message)
}

func (s *Status) finish(charts, tables []string, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Running = false
	s.snapshot.Progress = 100
	s.snapshot.Message = message
	s.snapshot.Charts = charts
	s.snapshot.Tables = tables
}

func (s *Status) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Running = false
	s.snapshot.Error = err.Error()
	s.snapshot.Message = "Error: " + err.Error()
}
