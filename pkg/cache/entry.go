package cache

import (
	"net/http"
	"strings"
	"time"
)

// Entry represents a stored GET response.
type Entry struct {
	// Data is the response body
	Data []byte `json:"data"`

	// ETag for conditional requests (If-None-Match)
	ETag string `json:"etag"`

	// Expires is when the entry is dropped from the cache
	Expires time.Time `json:"expires"`

	// LastModified is taken from the Last-Modified header
	LastModified time.Time `json:"last_modified"`

	// StatusCode is the HTTP status code of the stored response
	StatusCode int `json:"status_code"`

	// Headers are the response headers
	Headers http.Header `json:"headers"`

	// CachedAt is when we stored this response
	CachedAt time.Time `json:"cached_at"`
}

// NewEntry builds an entry from a response that was already read into memory.
// It returns nil when the response carries no validator or forbids storage,
// since such an entry could never be revalidated.
func NewEntry(statusCode int, header http.Header, body []byte, retention time.Duration) *Entry {
	if statusCode != http.StatusOK || retention <= 0 {
		return nil
	}
	if strings.Contains(strings.ToLower(header.Get("Cache-Control")), "no-store") {
		return nil
	}

	now := time.Now()
	entry := &Entry{
		Data:       body,
		ETag:       header.Get("ETag"),
		StatusCode: statusCode,
		Headers:    header.Clone(),
		CachedAt:   now,
		Expires:    now.Add(retention),
	}

	if lastModStr := header.Get("Last-Modified"); lastModStr != "" {
		if lastMod, err := http.ParseTime(lastModStr); err == nil {
			entry.LastModified = lastMod
		}
	}

	if !ShouldMakeConditionalRequest(entry) {
		return nil
	}
	return entry
}

// IsExpired returns true if the entry has expired.
func (e *Entry) IsExpired() bool {
	return time.Now().After(e.Expires)
}

// TTL returns the time until expiration.
// Returns 0 if already expired.
func (e *Entry) TTL() time.Duration {
	ttl := time.Until(e.Expires)
	if ttl < 0 {
		return 0
	}
	return ttl
}

// ShouldMakeConditionalRequest reports whether the entry carries a validator.
func ShouldMakeConditionalRequest(entry *Entry) bool {
	if entry == nil {
		return false
	}
	return entry.ETag != "" || !entry.LastModified.IsZero()
}

// AddConditionalHeaders adds If-None-Match (ETag) or If-Modified-Since to req.
func AddConditionalHeaders(req *http.Request, entry *Entry) {
	if entry == nil || req == nil {
		return
	}
	if req.Header == nil {
		req.Header = http.Header{}
	}

	// ETag is the stronger validator
	if entry.ETag != "" {
		req.Header.Set("If-None-Match", entry.ETag)
	} else if !entry.LastModified.IsZero() {
		req.Header.Set("If-Modified-Since", entry.LastModified.Format(http.TimeFormat))
	}
}
