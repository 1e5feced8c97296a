package io

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/waypoints/pkg/errors"
	"github.com/matzehuels/waypoints/pkg/waypoint"
)

func sample() []waypoint.Waypoint {
	return []waypoint.Waypoint{
		waypoint.New(39.1178, -106.4452, 4401, "summit", "Mt. Elbert"),
		waypoint.New(33.4242, -111.9281, 360, "ASU Poly", "Mesa, AZ"),
		waypoint.New(0, 0, 0, "null island", ""),
	}
}

func TestRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(sample(), &buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	got, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}

	want := sample()
	if len(got) != len(want) {
		t.Fatalf("got %d waypoints, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("waypoint %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestMarshalFormat(t *testing.T) {
	data, err := Marshal(sample()[:1])
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	want := `{
  "summit": {
    "address": "Mt. Elbert",
    "ele": 4401,
    "lat": 39.1178,
    "lon": -106.4452,
    "name": "summit"
  }
}`
	if string(data) != want {
		t.Errorf("Marshal() =\n%s\nwant\n%s", data, want)
	}
}

func TestMarshalEmpty(t *testing.T) {
	data, err := Marshal(nil)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != "{}" {
		t.Errorf("Marshal(nil) = %q, want {}", data)
	}
}

func TestMarshalPreservesOrder(t *testing.T) {
	data, err := Marshal(sample())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	s := string(data)
	a := strings.Index(s, `"summit": {`)
	b := strings.Index(s, `"ASU Poly": {`)
	c := strings.Index(s, `"null island": {`)
	if !(a < b && b < c) {
		t.Errorf("keys out of entry order: %d %d %d", a, b, c)
	}
}

func TestParseArray(t *testing.T) {
	doc := `[
		{"name": "a", "address": "x", "lat": 1, "lon": 2, "ele": 3},
		{"name": "b", "latitude": 4, "longitude": 5, "elevation": 6}
	]`

	got, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []waypoint.Waypoint{
		waypoint.New(1, 2, 3, "a", "x"),
		waypoint.New(4, 5, 6, "b", ""),
	}
	if len(got) != len(want) {
		t.Fatalf("got %d waypoints, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("waypoint %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestParseObjectKeyAsName(t *testing.T) {
	doc := `{"camp": {"lat": 1, "lon": 2}, "peak": {"name": "summit", "lat": 3}}`

	got, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d waypoints, want 2", len(got))
	}
	if got[0].Name != "camp" {
		t.Errorf("missing name should fall back to key, got %q", got[0].Name)
	}
	if got[1].Name != "summit" {
		t.Errorf("explicit name should win over key, got %q", got[1].Name)
	}
}

func TestParseEmptyContainers(t *testing.T) {
	for _, doc := range []string{"{}", "[]", "  {}\n"} {
		got, err := Parse([]byte(doc))
		if err != nil {
			t.Errorf("Parse(%q): %v", doc, err)
		}
		if len(got) != 0 {
			t.Errorf("Parse(%q) = %d waypoints, want 0", doc, len(got))
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		wantLine string
	}{
		{"empty", "", ""},
		{"garbage", "not json", "line 1"},
		{"truncated object", `{"a": {"lat": 1}`, "line 1"},
		{"truncated array", `[`, "line 1"},
		{"scalar top level", `42`, "line 1"},
		{"string element", `["a"]`, "line 1"},
		{"null element", `[null]`, "line 1"},
		{"null value", "{\n  \"a\": null\n}", "line 2"},
		{"bad field type", `[{"name": "a", "lat": true}]`, ""},
		{"trailing data", "{}\n{}", "line 2"},
		{"syntax on line 3", "{\n  \"a\": {},\n  \"b\": {,}\n}", "line 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, errors.ErrCodeParse) {
				t.Errorf("code = %v, want %v (%v)", errors.GetCode(err), errors.ErrCodeParse, err)
			}
			if tt.wantLine != "" && !strings.Contains(err.Error(), tt.wantLine) {
				t.Errorf("error %q should mention %q", err, tt.wantLine)
			}
		})
	}
}

func TestImportExportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "waypoints.json")

	if err := ExportJSON(sample(), path); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.HasSuffix(raw, []byte("}\n")) {
		t.Error("exported file should end with a newline")
	}

	got, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if len(got) != len(sample()) {
		t.Errorf("got %d waypoints, want %d", len(got), len(sample()))
	}
}

func TestImportMissingFile(t *testing.T) {
	_, err := ImportJSON(filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, errors.ErrCodeIO) {
		t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeIO)
	}
}

func TestExportBadDirectory(t *testing.T) {
	err := ExportJSON(sample(), filepath.Join(t.TempDir(), "no", "such", "dir", "w.json"))
	if !errors.Is(err, errors.ErrCodeIO) {
		t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeIO)
	}
}

func TestMarshalDuplicateNames(t *testing.T) {
	wps := []waypoint.Waypoint{
		waypoint.New(1, 2, 3, "a", "first"),
		waypoint.New(4, 5, 6, "a", "second"),
	}

	data, err := Marshal(wps)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if n := strings.Count(string(data), `"a": {`); n != 2 {
		t.Errorf("document has %d \"a\" members, want 2:\n%s", n, data)
	}

	got, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(got) != 2 || got[0] != wps[0] || got[1] != wps[1] {
		t.Errorf("Parse() = %+v, want %+v", got, wps)
	}
}
