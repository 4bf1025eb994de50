package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger("warn", "json", &buf)

	logger.Info("hidden")
	logger.Warn("shown", "board", "abc")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 log line, got %d: %q", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("expected JSON output: %v", err)
	}
	if rec["msg"] != "shown" || rec["board"] != "abc" {
		t.Fatalf("unexpected record %v", rec)
	}

	buf.Reset()
	newLogger("bogus", "text", &buf).Info("hello")
	if !strings.Contains(buf.String(), "msg=hello") {
		t.Fatalf("expected text output at info level, got %q", buf.String())
	}
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger("info", "json", &buf)

	h := requestLogger(logger, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short and stout"))
	}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/api/boards", nil))

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode log: %v", err)
	}
	if rec["status"] != float64(http.StatusTeapot) || rec["bytes"] != float64(15) || rec["path"] != "/api/boards" {
		t.Fatalf("unexpected record %v", rec)
	}
}
