package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequestIDAssigned(t *testing.T) {
	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromCtx(r.Context())
	})

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/", nil)

	RequestID(next).ServeHTTP(w, r)

	if seen == "" {
		t.Error("request id not stored in context")
	}
	if got := w.Header().Get(RequestIDHeader); got != seen {
		t.Errorf("response header: got %q, want %q", got, seen)
	}
}

func TestRequestIDReusesIncoming(t *testing.T) {
	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromCtx(r.Context())
	})

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set(RequestIDHeader, "upstream-id")

	RequestID(next).ServeHTTP(w, r)

	if seen != "upstream-id" {
		t.Errorf("got %q, want the upstream id reused", seen)
	}
}

func TestRequestIDFromCtxEmpty(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	if RequestIDFromCtx(r.Context()) != "" {
		t.Error("expected empty id without middleware")
	}
}
