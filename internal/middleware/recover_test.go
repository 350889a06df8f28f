package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRecover_ConvertsPanicTo500(t *testing.T) {
	rec := NewRecover(nil)
	handler := rec.Apply(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest(http.MethodGet, "/friends/abc/list", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}

	var response struct {
		Error string `json:"error"`
		Stack string `json:"stack"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if response.Error != "boom" {
		t.Fatalf("expected panic message, got %q", response.Error)
	}
	if !strings.Contains(response.Stack, "goroutine") {
		t.Fatal("expected stack trace in response")
	}
}

func TestRecover_PassesThrough(t *testing.T) {
	rec := NewRecover(nil)
	handler := rec.Apply(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}
}
