package pagination

import (
	"fmt"
	"strings"
)

// SortMode selects the server-side ordering of a collection.
type SortMode int

const (
	// SortNone keeps the resource's default order (newest first for most resources).
	SortNone SortMode = iota

	// SortByLabel orders by object label.
	SortByLabel

	// SortByStatus orders by object status.
	SortByStatus

	// SortByDateAscending orders oldest first.
	SortByDateAscending
)

// String returns the CLI name of the mode.
func (m SortMode) String() string {
	switch m {
	case SortNone:
		return "none"
	case SortByLabel:
		return "label"
	case SortByStatus:
		return "status"
	case SortByDateAscending:
		return "date-asc"
	default:
		return fmt.Sprintf("SortMode(%d)", int(m))
	}
}

func (m SortMode) valid() bool {
	return m >= SortNone && m <= SortByDateAscending
}

// ParseSortMode parses the names produced by SortMode.String.
// The empty string is SortNone.
func ParseSortMode(s string) (SortMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return SortNone, nil
	case "label":
		return SortByLabel, nil
	case "status":
		return SortByStatus, nil
	case "date-asc", "date":
		return SortByDateAscending, nil
	default:
		return SortNone, fmt.Errorf("%w: unknown sort mode %q", ErrInvalidParameters, s)
	}
}

// Params configures sorting, filtering and page size of a page request.
// The zero value means no sort, no filter and the server's default page size.
//
// Params is a value type: the builder methods return a modified copy and never
// change the receiver.
type Params struct {
	sort        SortMode
	filter      string
	hasFilter   bool
	pageSize    int
	pageSizeSet bool
}

// SortBy returns a copy sorted by mode.
func (p Params) SortBy(mode SortMode) Params {
	p.sort = mode
	return p
}

// WithFilter returns a copy that keeps only items whose label contains
// substring. An empty substring removes the filter.
func (p Params) WithFilter(substring string) Params {
	p.filter = substring
	p.hasFilter = substring != ""
	return p
}

// WithPageSize returns a copy requesting n items per page.
// Validate rejects n <= 0.
func (p Params) WithPageSize(n int) Params {
	p.pageSize = n
	p.pageSizeSet = true
	return p
}

// Sort returns the sort mode.
func (p Params) Sort() SortMode {
	return p.sort
}

// Filter returns the filter substring and whether one is set.
func (p Params) Filter() (string, bool) {
	return p.filter, p.hasFilter
}

// PageSize returns the requested page size and whether one is set.
func (p Params) PageSize() (int, bool) {
	return p.pageSize, p.pageSizeSet
}

// Validate reports caller errors. The returned error wraps ErrInvalidParameters.
func (p Params) Validate() error {
	if p.pageSizeSet && p.pageSize <= 0 {
		return fmt.Errorf("%w: page size must be >= 1 (got %d)", ErrInvalidParameters, p.pageSize)
	}
	if !p.sort.valid() {
		return fmt.Errorf("%w: unknown sort mode %d", ErrInvalidParameters, int(p.sort))
	}
	return nil
}
