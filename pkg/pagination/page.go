package pagination

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Cursor is an opaque position marker issued by the server.
// The zero value stands for JSON null: no page in that direction.
type Cursor string

// UnmarshalJSON accepts a JSON string, a JSON number or null.
func (c *Cursor) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = Cursor(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("cursor must be a string, number or null, got %s", data)
	}
	*c = Cursor(n.String())
	return nil
}

// MarshalJSON writes the zero cursor as null.
func (c Cursor) MarshalJSON() ([]byte, error) {
	if c == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(c))
}

// Direction selects which page FetchPage returns relative to a cursor.
type Direction int

const (
	// First is the start of the collection; the cursor is ignored.
	First Direction = iota

	// After is the page immediately following the cursor.
	After

	// Before is the page immediately preceding the cursor.
	Before
)

// String returns the lower-case name used in logs and metrics.
func (d Direction) String() string {
	switch d {
	case First:
		return "first"
	case After:
		return "after"
	case Before:
		return "before"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Page is one contiguous slice of a collection.
type Page[T any] struct {
	Items []T `json:"items"`

	// NextPageStartsAfter is the id of the last item when more items lie forward.
	NextPageStartsAfter Cursor `json:"nextPageStartsAfter"`

	// PreviousPageEndsBefore is the id of the first item when more items lie backward.
	PreviousPageEndsBefore Cursor `json:"previousPageEndsBefore"`
}

// HasNext reports whether a page follows this one.
func (p *Page[T]) HasNext() bool {
	return p.NextPageStartsAfter != ""
}

// HasPrevious reports whether a page precedes this one.
func (p *Page[T]) HasPrevious() bool {
	return p.PreviousPageEndsBefore != ""
}
