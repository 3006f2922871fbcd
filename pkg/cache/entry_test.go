package cache

import (
	"net/http"
	"testing"
	"time"
)

func TestEntry_IsExpired(t *testing.T) {
	tests := []struct {
		name    string
		expires time.Time
		want    bool
	}{
		{
			name:    "expired entry",
			expires: time.Now().Add(-1 * time.Hour),
			want:    true,
		},
		{
			name:    "valid entry",
			expires: time.Now().Add(1 * time.Hour),
			want:    false,
		},
		{
			name:    "just expired",
			expires: time.Now().Add(-1 * time.Second),
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := &Entry{Expires: tt.expires}
			if got := entry.IsExpired(); got != tt.want {
				t.Errorf("IsExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEntry_TTL(t *testing.T) {
	tests := []struct {
		name    string
		expires time.Time
		wantMin time.Duration
		wantMax time.Duration
	}{
		{
			name:    "one hour remaining",
			expires: time.Now().Add(1 * time.Hour),
			wantMin: 59 * time.Minute,
			wantMax: 61 * time.Minute,
		},
		{
			name:    "already expired",
			expires: time.Now().Add(-1 * time.Hour),
			wantMin: 0,
			wantMax: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := &Entry{Expires: tt.expires}
			got := entry.TTL()
			if got < tt.wantMin || got > tt.wantMax {
				t.Errorf("TTL() = %v, want between %v and %v", got, tt.wantMin, tt.wantMax)
			}
		})
	}
}

func TestNewEntry(t *testing.T) {
	lastModified := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		statusCode int
		header     http.Header
		retention  time.Duration
		wantNil    bool
	}{
		{
			name:       "etag response",
			statusCode: http.StatusOK,
			header:     http.Header{"Etag": []string{`"v1"`}},
			retention:  time.Minute,
		},
		{
			name:       "last-modified response",
			statusCode: http.StatusOK,
			header:     http.Header{"Last-Modified": []string{lastModified.Format(http.TimeFormat)}},
			retention:  time.Minute,
		},
		{
			name:       "no validator",
			statusCode: http.StatusOK,
			header:     http.Header{"Content-Type": []string{"application/json"}},
			retention:  time.Minute,
			wantNil:    true,
		},
		{
			name:       "no-store",
			statusCode: http.StatusOK,
			header: http.Header{
				"Etag":          []string{`"v1"`},
				"Cache-Control": []string{"private, no-store"},
			},
			retention: time.Minute,
			wantNil:   true,
		},
		{
			name:       "non-200 status",
			statusCode: http.StatusNotFound,
			header:     http.Header{"Etag": []string{`"v1"`}},
			retention:  time.Minute,
			wantNil:    true,
		},
		{
			name:       "zero retention",
			statusCode: http.StatusOK,
			header:     http.Header{"Etag": []string{`"v1"`}},
			wantNil:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := NewEntry(tt.statusCode, tt.header, []byte(`{"items":[]}`), tt.retention)
			if tt.wantNil {
				if entry != nil {
					t.Errorf("NewEntry() = %+v, want nil", entry)
				}
				return
			}
			if entry == nil {
				t.Fatal("NewEntry() returned nil")
			}
			if entry.ETag != tt.header.Get("ETag") {
				t.Errorf("ETag = %q, want %q", entry.ETag, tt.header.Get("ETag"))
			}
			if string(entry.Data) != `{"items":[]}` {
				t.Errorf("Data = %s", entry.Data)
			}
			if entry.TTL() <= 0 || entry.TTL() > tt.retention {
				t.Errorf("TTL() = %v, want within %v", entry.TTL(), tt.retention)
			}
		})
	}
}

func TestShouldMakeConditionalRequest(t *testing.T) {
	tests := []struct {
		name  string
		entry *Entry
		want  bool
	}{
		{name: "nil entry", entry: nil, want: false},
		{name: "entry with ETag", entry: &Entry{ETag: `"abc123"`}, want: true},
		{name: "entry with Last-Modified", entry: &Entry{LastModified: time.Now()}, want: true},
		{name: "entry without validators", entry: &Entry{Data: []byte("data")}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldMakeConditionalRequest(tt.entry); got != tt.want {
				t.Errorf("ShouldMakeConditionalRequest() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAddConditionalHeaders(t *testing.T) {
	tests := []struct {
		name       string
		entry      *Entry
		wantHeader string
		wantValue  string
	}{
		{
			name:       "add If-None-Match with ETag",
			entry:      &Entry{ETag: `"abc123"`},
			wantHeader: "If-None-Match",
			wantValue:  `"abc123"`,
		},
		{
			name:       "add If-Modified-Since with Last-Modified",
			entry:      &Entry{LastModified: time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)},
			wantHeader: "If-Modified-Since",
			wantValue:  "Sun, 01 Jan 2023 12:00:00 GMT",
		},
		{
			name: "prefer ETag over Last-Modified",
			entry: &Entry{
				ETag:         `"abc123"`,
				LastModified: time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC),
			},
			wantHeader: "If-None-Match",
			wantValue:  `"abc123"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest("GET", "https://example.com", nil)
			AddConditionalHeaders(req, tt.entry)

			if got := req.Header.Get(tt.wantHeader); got != tt.wantValue {
				t.Errorf("Header %s = %v, want %v", tt.wantHeader, got, tt.wantValue)
			}
		})
	}
}

func TestAddConditionalHeaders_NilInputs(t *testing.T) {
	// Should not panic with nil inputs
	AddConditionalHeaders(nil, &Entry{ETag: "test"})
	AddConditionalHeaders(&http.Request{}, nil)
	AddConditionalHeaders(&http.Request{}, &Entry{ETag: "test"})
}
