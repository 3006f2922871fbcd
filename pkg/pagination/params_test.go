package pagination

import (
	"errors"
	"testing"
)

func TestParams_BuildersReturnCopies(t *testing.T) {
	base := Params{}
	sorted := base.SortBy(SortByLabel)
	filtered := sorted.WithFilter("A-")
	sized := filtered.WithPageSize(5)

	if base.Sort() != SortNone {
		t.Errorf("base sort changed to %v", base.Sort())
	}
	if _, ok := sorted.Filter(); ok {
		t.Error("SortBy copy should not carry a filter")
	}
	if _, ok := filtered.PageSize(); ok {
		t.Error("WithFilter copy should not carry a page size")
	}

	if sized.Sort() != SortByLabel {
		t.Errorf("Sort() = %v, want label", sized.Sort())
	}
	if f, ok := sized.Filter(); !ok || f != "A-" {
		t.Errorf("Filter() = (%q, %v), want (A-, true)", f, ok)
	}
	if n, ok := sized.PageSize(); !ok || n != 5 {
		t.Errorf("PageSize() = (%d, %v), want (5, true)", n, ok)
	}
}

func TestParams_WithEmptyFilterClears(t *testing.T) {
	p := Params{}.WithFilter("x").WithFilter("")
	if _, ok := p.Filter(); ok {
		t.Error("empty filter should clear the filter")
	}
}

func TestParams_Validate(t *testing.T) {
	tests := []struct {
		name    string
		params  Params
		wantErr bool
	}{
		{name: "zero value", params: Params{}},
		{name: "page size one", params: Params{}.WithPageSize(1)},
		{name: "all options", params: Params{}.SortBy(SortByDateAscending).WithFilter("a").WithPageSize(100)},
		{name: "page size zero", params: Params{}.WithPageSize(0), wantErr: true},
		{name: "negative page size", params: Params{}.WithPageSize(-3), wantErr: true},
		{name: "unknown sort", params: Params{}.SortBy(SortMode(42)), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidParameters) {
					t.Errorf("Validate() = %v, want ErrInvalidParameters", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}

func TestParseSortMode(t *testing.T) {
	tests := []struct {
		input   string
		want    SortMode
		wantErr bool
	}{
		{input: "", want: SortNone},
		{input: "label", want: SortByLabel},
		{input: "Status", want: SortByStatus},
		{input: "date-asc", want: SortByDateAscending},
		{input: "size", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSortMode(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidParameters) {
					t.Errorf("ParseSortMode(%q) error = %v, want ErrInvalidParameters", tt.input, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseSortMode(%q) = (%v, %v), want %v", tt.input, got, err, tt.want)
			}
			if tt.input != "" {
				if round, _ := ParseSortMode(got.String()); round != got {
					t.Errorf("String() %q does not parse back", got.String())
				}
			}
		})
	}
}
