package client

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		status int
		want   ErrorClass
	}{
		{status: http.StatusOK, want: ""},
		{status: http.StatusNotModified, want: ""},
		{status: http.StatusBadRequest, want: ErrorClassClient},
		{status: http.StatusNotFound, want: ErrorClassClient},
		{status: http.StatusTooManyRequests, want: ErrorClassRateLimit},
		{status: http.StatusInternalServerError, want: ErrorClassServer},
		{status: http.StatusServiceUnavailable, want: ErrorClassServer},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status_%d", tt.status), func(t *testing.T) {
			if got := ClassifyStatus(tt.status); got != tt.want {
				t.Errorf("ClassifyStatus(%d) = %q, want %q", tt.status, got, tt.want)
			}
		})
	}
}

func TestShouldRetry(t *testing.T) {
	tests := []struct {
		name   string
		class  ErrorClass
		method string
		want   bool
	}{
		{name: "client GET", class: ErrorClassClient, method: http.MethodGet, want: false},
		{name: "server GET", class: ErrorClassServer, method: http.MethodGet, want: true},
		{name: "network GET", class: ErrorClassNetwork, method: http.MethodGet, want: true},
		{name: "rate limit GET", class: ErrorClassRateLimit, method: http.MethodGet, want: true},
		{name: "server POST", class: ErrorClassServer, method: http.MethodPost, want: false},
		{name: "network POST", class: ErrorClassNetwork, method: http.MethodPost, want: false},
		{name: "rate limit POST", class: ErrorClassRateLimit, method: http.MethodPost, want: true},
		{name: "unknown", class: "", method: http.MethodGet, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shouldRetry(tt.class, tt.method); got != tt.want {
				t.Errorf("shouldRetry(%q, %s) = %v, want %v", tt.class, tt.method, got, tt.want)
			}
		})
	}
}

func TestRequestError(t *testing.T) {
	err := &RequestError{
		StatusCode: http.StatusNotFound,
		ErrorClass: ErrorClassClient,
		Method:     http.MethodGet,
		Path:       "/charts/abc",
		Body:       []byte(`{"messages":["Chart not found: abc"]}`),
	}

	want := `seats client error (status 404) for GET /charts/abc: {"messages":["Chart not found: abc"]}`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	wrapped := fmt.Errorf("retrieve chart: %w", err)
	if !errors.Is(wrapped, ErrRequestFailed) {
		t.Error("errors.Is(wrapped, ErrRequestFailed) = false")
	}

	var reqErr *RequestError
	if !errors.As(wrapped, &reqErr) {
		t.Fatal("errors.As failed")
	}
	if reqErr.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", reqErr.StatusCode)
	}
}

func TestRequestError_TruncatesBody(t *testing.T) {
	err := &RequestError{
		StatusCode: http.StatusInternalServerError,
		ErrorClass: ErrorClassServer,
		Body:       []byte(strings.Repeat("x", 2000)),
	}

	msg := err.Error()
	if !strings.HasSuffix(msg, "...") {
		t.Errorf("expected truncated body, got %d bytes", len(msg))
	}
	if len(msg) > 600 {
		t.Errorf("message too long: %d bytes", len(msg))
	}
}

func TestResponse_Err(t *testing.T) {
	ok := &Response{StatusCode: http.StatusNoContent}
	if err := ok.Err(); err != nil {
		t.Errorf("Err() for 204 = %v, want nil", err)
	}

	bad := &Response{StatusCode: http.StatusBadRequest, Body: []byte("bad"), method: http.MethodGet, path: "/x"}
	var reqErr *RequestError
	if !errors.As(bad.Err(), &reqErr) {
		t.Fatalf("Err() for 400 = %v, want *RequestError", bad.Err())
	}
	if reqErr.ErrorClass != ErrorClassClient || string(reqErr.Body) != "bad" {
		t.Errorf("unexpected RequestError %+v", reqErr)
	}
}
