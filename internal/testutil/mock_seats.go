// Package testutil provides an in-memory seating API server for tests.
package testutil

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// DefaultPageSize is used when a request carries no pageSize.
const DefaultPageSize = 20

// MockResponse defines a canned answer for one path.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockItem is one element of a paginated collection.
type MockItem struct {
	// Label is matched by the filter and used for label sorting.
	Label string

	// Status is used for status sorting.
	Status string

	// Fields are rendered as the item's JSON object; "id" is added.
	Fields map[string]any

	id int64
}

// RecordedRequest is a request the server received.
type RecordedRequest struct {
	Method string
	Path   string

	// EscapedPath is the path as sent on the wire.
	EscapedPath string

	RawQuery string
	Header   http.Header
	Body     []byte
}

// MockSeats is an in-memory seating API. Paths registered with Add serve the
// cursor pagination contract: newest first by default, sorting by label,
// status or ascending date, substring filtering on the label, and
// after/before cursors equal to item ids.
type MockSeats struct {
	server *httptest.Server

	mu              sync.RWMutex
	nextID          int64
	collections     map[string][]*MockItem
	sortKeys        map[string]string
	handlers        map[string]http.HandlerFunc
	defaultPageSize int
	requests        []RecordedRequest
}

// NewMockSeats starts a mock server.
func NewMockSeats() *MockSeats {
	mock := &MockSeats{
		collections:     make(map[string][]*MockItem),
		sortKeys:        map[string]string{"objectLabel": "label", "name": "label", "status": "status", "date:asc": "date"},
		handlers:        make(map[string]http.HandlerFunc),
		defaultPageSize: DefaultPageSize,
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		mock.mu.Lock()
		mock.requests = append(mock.requests, RecordedRequest{
			Method:      r.Method,
			Path:        r.URL.Path,
			EscapedPath: r.URL.EscapedPath(),
			RawQuery:    r.URL.RawQuery,
			Header:      r.Header.Clone(),
			Body:        body,
		})
		handler, hasHandler := mock.handlers[r.Method+" "+r.URL.Path]
		if !hasHandler {
			handler, hasHandler = mock.handlers[r.URL.Path]
		}
		_, isCollection := mock.collections[r.URL.Path]
		mock.mu.Unlock()

		switch {
		case hasHandler:
			handler(w, r)
		case isCollection && r.Method == http.MethodGet:
			mock.serveCollection(w, r)
		default:
			writeJSON(w, http.StatusNotFound, map[string]any{"messages": []string{"not found: " + r.URL.Path}})
		}
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockSeats) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockSeats) Close() {
	m.server.Close()
}

// SetDefaultPageSize changes the page size used when none is requested.
func (m *MockSeats) SetDefaultPageSize(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultPageSize = n
}

// Add appends an item to the collection at path and returns its id.
// Ids grow with insertion, so the newest item has the highest id.
func (m *MockSeats) Add(path string, item MockItem) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	item.id = m.nextID
	m.collections[path] = append(m.collections[path], &item)
	return item.id
}

// EnsureCollection registers an empty collection at path.
func (m *MockSeats) EnsureCollection(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.collections[path]; !ok {
		m.collections[path] = []*MockItem{}
	}
}

// SetHandler sets a custom handler for a path. A key of the form
// "POST /path" matches only that method.
func (m *MockSeats) SetHandler(key string, handler http.HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[key] = handler
}

// SetResponse configures a canned response for a path or "METHOD /path".
func (m *MockSeats) SetResponse(key string, resp MockResponse) {
	m.SetHandler(key, func(w http.ResponseWriter, r *http.Request) {
		if resp.Delay > 0 {
			select {
			case <-time.After(resp.Delay):
			case <-r.Context().Done():
				return
			}
		}
		for k, v := range resp.Headers {
			w.Header().Set(k, v)
		}
		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// Requests returns a copy of every request received so far.
func (m *MockSeats) Requests() []RecordedRequest {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]RecordedRequest(nil), m.requests...)
}

// RequestCount returns the number of requests received.
func (m *MockSeats) RequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.requests)
}

// LastRequest returns the most recent request.
func (m *MockSeats) LastRequest() RecordedRequest {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.requests) == 0 {
		return RecordedRequest{}
	}
	return m.requests[len(m.requests)-1]
}

// Reset forgets recorded requests.
func (m *MockSeats) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = nil
}

func (m *MockSeats) serveCollection(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	m.mu.RLock()
	items := append([]*MockItem(nil), m.collections[r.URL.Path]...)
	sortKind, sortOK := m.sortKeys[query.Get("sort")]
	pageSize := m.defaultPageSize
	m.mu.RUnlock()

	if query.Has("sort") && !sortOK {
		writeError(w, http.StatusBadRequest, "unknown sort: "+query.Get("sort"))
		return
	}
	if query.Has("after") && query.Has("before") {
		writeError(w, http.StatusBadRequest, "after and before are mutually exclusive")
		return
	}
	if query.Has("pageSize") {
		n, err := strconv.Atoi(query.Get("pageSize"))
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "invalid pageSize")
			return
		}
		pageSize = n
	}

	ordered := canonicalOrder(items, sortKind)
	if query.Has("filter") {
		filter := query.Get("filter")
		filtered := ordered[:0]
		for _, item := range ordered {
			if strings.Contains(item.Label, filter) {
				filtered = append(filtered, item)
			}
		}
		ordered = filtered
	}

	start, end := 0, min(pageSize, len(ordered))
	switch {
	case query.Has("after"):
		idx := indexOf(ordered, query.Get("after"))
		if idx < 0 {
			writeError(w, http.StatusBadRequest, "unknown cursor: "+query.Get("after"))
			return
		}
		start = idx + 1
		end = min(start+pageSize, len(ordered))
	case query.Has("before"):
		idx := indexOf(ordered, query.Get("before"))
		if idx < 0 {
			writeError(w, http.StatusBadRequest, "unknown cursor: "+query.Get("before"))
			return
		}
		end = idx
		start = max(0, end-pageSize)
	}

	page := ordered[start:end]
	rendered := make([]map[string]any, 0, len(page))
	for _, item := range page {
		obj := make(map[string]any, len(item.Fields)+1)
		for k, v := range item.Fields {
			obj[k] = v
		}
		obj["id"] = item.id
		rendered = append(rendered, obj)
	}

	var next, prev any
	if len(page) > 0 && end < len(ordered) {
		next = strconv.FormatInt(page[len(page)-1].id, 10)
	}
	if len(page) > 0 && start > 0 {
		prev = strconv.FormatInt(page[0].id, 10)
	}

	body, _ := json.Marshal(map[string]any{
		"items":                  rendered,
		"nextPageStartsAfter":    next,
		"previousPageEndsBefore": prev,
	})

	// Pages carry an ETag so cached clients can revalidate
	sum := sha256.Sum256(body)
	etag := `"` + hex.EncodeToString(sum[:8]) + `"`
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// canonicalOrder sorts newest first, then applies the requested sort stably.
func canonicalOrder(items []*MockItem, kind string) []*MockItem {
	sort.SliceStable(items, func(i, j int) bool { return items[i].id > items[j].id })
	switch kind {
	case "label":
		sort.SliceStable(items, func(i, j int) bool { return items[i].Label < items[j].Label })
	case "status":
		sort.SliceStable(items, func(i, j int) bool { return items[i].Status < items[j].Status })
	case "date":
		sort.SliceStable(items, func(i, j int) bool { return items[i].id < items[j].id })
	}
	return items
}

func indexOf(items []*MockItem, cursor string) int {
	id, err := strconv.ParseInt(cursor, 10, 64)
	if err != nil {
		return -1
	}
	for i, item := range items {
		if item.id == id {
			return i
		}
	}
	return -1
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"messages": []string{message}})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
