package server

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/clram/resultviz/internal/appconfig"
	"github.com/clram/resultviz/internal/job"
)

const sampleLog = `Model: gpt-4
Category: reasoning
Success: true

Model: claude
Category: coding
Success: false
`

func newTestServer(t *testing.T) (*Server, *job.Runner) {
	t.Helper()
	dir := t.TempDir()
	cfg := &appconfig.Config{
		UploadDir: filepath.Join(dir, "uploads"),
		OutputDir: filepath.Join(dir, "output"),
	}
	cfg.ApplyDefaults()
	runner := job.NewRunner(cfg.OutputDir)
	return New(cfg, runner), runner
}

func multipartBody(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("CreateFormFile error: %v", err)
	}
	if _, err := io.WriteString(part, content); err != nil {
		t.Fatalf("WriteString error: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}
	return &body, writer.FormDataContentType()
}

func waitForIdle(t *testing.T, runner *job.Runner) job.Snapshot {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for {
		snapshot := runner.Status().Snapshot()
		if !snapshot.Running && (snapshot.Progress == 100 || snapshot.Error != "") {
			return snapshot
		}
		if time.Now().After(deadline) {
			t.Fatalf("job did not finish: %+v", snapshot)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d want 200", rec.Code)
	}
}

func TestUploadRejectsUnsupportedExtension(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)
	body, contentType := multipartBody(t, "data.yaml", "a: 1\n")

	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status=%d want 400: %s", rec.Code, rec.Body)
	}
}

func TestUploadRejectsMissingFile(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/upload", bytes.NewBufferString(""))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status=%d want 400: %s", rec.Code, rec.Body)
	}
}

func TestUploadStartsGeneration(t *testing.T) {
	t.Parallel()

	srv, runner := newTestServer(t)
	body, contentType := multipartBody(t, "run.txt", sampleLog)

	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d want 200: %s", rec.Code, rec.Body)
	}

	snapshot := waitForIdle(t, runner)
	if snapshot.Error != "" {
		t.Fatalf("generation failed: %s", snapshot.Error)
	}
	if len(snapshot.Tables) == 0 {
		t.Fatalf("no tables generated")
	}
}

func TestStatusEndpoint(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d want 200", rec.Code)
	}
	var snapshot job.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snapshot); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if snapshot.Message != "Ready" {
		t.Fatalf("message=%q want Ready", snapshot.Message)
	}
}

func TestTableEndpointReturnsRecords(t *testing.T) {
	t.Parallel()

	srv, runner := newTestServer(t)
	body, contentType := multipartBody(t, "run.txt", sampleLog)
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	srv.Handler().ServeHTTP(httptest.NewRecorder(), req)
	waitForIdle(t, runner)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/table/canonical_table.csv", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d want 200: %s", rec.Code, rec.Body)
	}

	var records []map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &records); err != nil {
		t.Fatalf("decode table: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0]["model"] != "gpt-4" {
		t.Fatalf("unexpected first record: %v", records[0])
	}
}

func TestFileEndpointsRejectTraversal(t *testing.T) {
	t.Parallel()

	srv, runner := newTestServer(t)
	body, contentType := multipartBody(t, "run.txt", sampleLog)
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	srv.Handler().ServeHTTP(httptest.NewRecorder(), req)
	snapshot := waitForIdle(t, runner)

	secret := filepath.Join(filepath.Dir(snapshot.OutputDir), "secret.txt")
	if err := os.WriteFile(secret, []byte("nope"), 0o644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/download/../secret.txt", nil))
	if rec.Code == http.StatusOK {
		t.Fatalf("traversal outside the session dir must not be served")
	}
}

func TestFileEndpointWithoutSession(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/chart/whatever.png", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status=%d want 404", rec.Code)
	}
}

func TestResetEndpoint(t *testing.T) {
	t.Parallel()

	srv, runner := newTestServer(t)
	body, contentType := multipartBody(t, "run.txt", sampleLog)
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	srv.Handler().ServeHTTP(httptest.NewRecorder(), req)
	waitForIdle(t, runner)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/reset", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d want 200: %s", rec.Code, rec.Body)
	}
	if got := runner.Status().Snapshot(); got.OutputDir != "" || got.Message != "Ready" {
		t.Fatalf("status not reset: %+v", got)
	}
}
