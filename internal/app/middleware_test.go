package app

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWithRequestLoggingCapturesStatus(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))

	h := WithRequestLogging(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}), log)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/brew", nil))

	if rec.Code != http.StatusTeapot {
		t.Fatalf("status=%d", rec.Code)
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line not JSON: %v", err)
	}
	if entry["msg"] != "http.request" {
		t.Fatalf("msg=%v", entry["msg"])
	}
	if int(entry["status"].(float64)) != http.StatusTeapot {
		t.Fatalf("logged status=%v", entry["status"])
	}
	if entry["path"] != "/brew" {
		t.Fatalf("logged path=%v", entry["path"])
	}
	if int(entry["bytes"].(float64)) != len("short and stout") {
		t.Fatalf("logged bytes=%v", entry["bytes"])
	}
}

func TestWithAPIKey(t *testing.T) {
	okHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	h := WithAPIKey(okHandler, "s3cret")

	do := func(path, key string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if key != "" {
			req.Header.Set("x-api-key", key)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	if rec := do("/categories", "s3cret"); rec.Code != http.StatusOK {
		t.Fatalf("valid key: status=%d", rec.Code)
	}

	rec := do("/categories", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing key: status=%d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] != "Access Denied" {
		t.Fatalf("missing key body=%q", rec.Body.String())
	}

	rec = do("/categories", "wrong")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("wrong key: status=%d", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] != "Invalid API key" {
		t.Fatalf("wrong key body=%q", rec.Body.String())
	}

	// Health and scrape endpoints bypass the gate.
	for _, path := range []string{"/healthz", "/readyz", "/metrics"} {
		if rec := do(path, ""); rec.Code != http.StatusOK {
			t.Fatalf("%s without key: status=%d", path, rec.Code)
		}
	}
}

func TestWithAPIKeyDisabledWhenEmpty(t *testing.T) {
	okHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	h := WithAPIKey(okHandler, "")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/categories", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d", rec.Code)
	}
}

func TestWithRequestLoggingDefaultsTo200(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))

	h := WithRequestLogging(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}), log)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line not JSON: %v", err)
	}
	if int(entry["status"].(float64)) != http.StatusOK {
		t.Fatalf("logged status=%v", entry["status"])
	}
}
