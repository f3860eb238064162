package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func TestRequestID_GeneratesWhenAbsent(t *testing.T) {
	var captured string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = GetRequestID(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/api/v1/graph", nil)
	w := httptest.NewRecorder()
	RequestID(handler).ServeHTTP(w, req)

	if captured == "" {
		t.Fatal("expected request ID in context")
	}
	if _, err := uuid.Parse(captured); err != nil {
		t.Errorf("expected valid UUID, got %q: %v", captured, err)
	}
	if got := w.Header().Get("X-Request-ID"); got != captured {
		t.Errorf("response header %q doesn't match context %q", got, captured)
	}
}

func TestRequestID_PropagatesExisting(t *testing.T) {
	var captured string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = GetRequestID(r.Context())
	})

	req := httptest.NewRequest("GET", "/api/v1/graph", nil)
	req.Header.Set("X-Request-ID", "existing-req-123")
	w := httptest.NewRecorder()
	RequestID(handler).ServeHTTP(w, req)

	if captured != "existing-req-123" {
		t.Errorf("expected existing request ID, got %q", captured)
	}
	if got := w.Header().Get("X-Request-ID"); got != "existing-req-123" {
		t.Errorf("expected response header to echo existing ID, got %q", got)
	}
}

func TestGetRequestID_EmptyWithoutMiddleware(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if got := GetRequestID(req.Context()); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestRequestLogging_PreservesStatus(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	req := httptest.NewRequest("GET", "/api/v1/graph", nil)
	w := httptest.NewRecorder()
	RequestLogging(nil)(handler).ServeHTTP(w, req)

	if w.Code != http.StatusTeapot {
		t.Errorf("expected status %d, got %d", http.StatusTeapot, w.Code)
	}
}
