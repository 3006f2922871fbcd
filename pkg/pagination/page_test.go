package pagination

import (
	"encoding/json"
	"testing"
)

func TestCursor_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Cursor
		wantErr bool
	}{
		{name: "string", input: `"123"`, want: "123"},
		{name: "number", input: `123`, want: "123"},
		{name: "large number", input: `9007199254740993`, want: "9007199254740993"},
		{name: "null", input: `null`, want: ""},
		{name: "opaque string", input: `"abc:def"`, want: "abc:def"},
		{name: "boolean", input: `true`, wantErr: true},
		{name: "object", input: `{}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Cursor
			err := json.Unmarshal([]byte(tt.input), &c)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Unmarshal(%s) expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unmarshal(%s) unexpected error: %v", tt.input, err)
			}
			if c != tt.want {
				t.Errorf("Unmarshal(%s) = %q, want %q", tt.input, c, tt.want)
			}
		})
	}
}

func TestPage_JSON(t *testing.T) {
	var page Page[int]
	body := `{"items":[1,2],"nextPageStartsAfter":2,"previousPageEndsBefore":null}`
	if err := json.Unmarshal([]byte(body), &page); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}

	if !page.HasNext() || page.NextPageStartsAfter != "2" {
		t.Errorf("NextPageStartsAfter = %q, want 2", page.NextPageStartsAfter)
	}
	if page.HasPrevious() {
		t.Error("HasPrevious() = true for null cursor")
	}

	out, err := json.Marshal(page)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	want := `{"items":[1,2],"nextPageStartsAfter":"2","previousPageEndsBefore":null}`
	if string(out) != want {
		t.Errorf("Marshal = %s, want %s", out, want)
	}
}

func TestDirection_String(t *testing.T) {
	for dir, want := range map[Direction]string{First: "first", After: "after", Before: "before"} {
		if dir.String() != want {
			t.Errorf("%d.String() = %q, want %q", int(dir), dir.String(), want)
		}
	}
}
