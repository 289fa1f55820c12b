package swatchfile

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/jsvensson/colorswap/internal/color"
	"github.com/jsvensson/colorswap/internal/swatch"
)

const sampleHCL = `
current = hsl(272.2, 47.4, 22.4)

settings {
  max_history     = 4
  variation_steps = [0.1, 0.2]
}

history {
  color     = "#3b1e54"
  timestamp = 1760000000000
}

history {
  color     = cmyk(0, 0, 0, 100)
  timestamp = 1759999990000
}

pinned {
  color     = "f0a"
  timestamp = 1760000005000
}

pinned {
  color     = tint("#3B1E54", 0.15)
  timestamp = 1760000006000
  generated = true
}
`

func TestParse(t *testing.T) {
	f, err := Parse("swatch.hcl", []byte(sampleHCL))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	want := &File{
		Current:        color.RGB{R: 59, G: 30, B: 84},
		MaxHistory:     4,
		VariationSteps: []float64{0.1, 0.2},
		History: []swatch.Entry{
			{Hex: "#3B1E54", RGB: color.RGB{R: 59, G: 30, B: 84}, Timestamp: 1760000000000},
			{Hex: "#000000", RGB: color.RGB{}, Timestamp: 1759999990000},
		},
		Pinned: []swatch.Entry{
			{Hex: "#FF00AA", RGB: color.RGB{R: 255, B: 170}, Timestamp: 1760000005000},
			{Hex: "#58406E", RGB: color.RGB{R: 88, G: 64, B: 110}, Timestamp: 1760000006000, Generated: true},
		},
	}
	if diff := cmp.Diff(want, f); diff != "" {
		t.Errorf("Parse mismatch (-want +got):\n%s", diff)
	}
}

func TestParseDefaults(t *testing.T) {
	f, err := Parse("empty.hcl", nil)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if diff := cmp.Diff(New(), f); diff != "" {
		t.Errorf("empty file mismatch (-want +got):\n%s", diff)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr string
	}{
		{"syntax", `current = `, "parsing HCL"},
		{"malformed current", `current = "#12345"`, "Malformed color"},
		{"current not a string", `current = 42`, "Invalid color"},
		{"unknown attribute", `colour = "#FFFFFF"`, "Unsupported argument"},
		{"unknown block", `palette {}`, "Unsupported block type"},
		{"history without color", "history {\n  timestamp = 1\n}", "color"},
		{"bad function call", `current = cmyk(1, 2)`, "cmyk"},
		{"bad max_history", "settings {\n  max_history = 0\n}", "max_history"},
		{"bad variation step", "settings {\n  variation_steps = [0.5, 1.5]\n}", "variation step"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("bad.hcl", []byte(tt.src))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func decodeSource(t *testing.T, src string) (*File, hcl.Diagnostics) {
	t.Helper()
	file, diags := hclsyntax.ParseConfig([]byte(src), "test.hcl", hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		t.Fatalf("parsing: %s", diags.Error())
	}
	return Decode(file.Body)
}

func TestDecodeWarnings(t *testing.T) {
	t.Run("duplicate pinned", func(t *testing.T) {
		f, diags := decodeSource(t, `
pinned {
  color = "#FF00AA"
}
pinned {
  color = "f0a"
}
`)
		if diags.HasErrors() {
			t.Fatalf("unexpected errors: %s", diags.Error())
		}
		if len(diags) != 1 || diags[0].Severity != hcl.DiagWarning {
			t.Fatalf("diags = %v, want one warning", diags)
		}
		if diags[0].Subject.Start.Line != 5 {
			t.Errorf("warning on line %d, want 5", diags[0].Subject.Start.Line)
		}
		if len(f.Pinned) != 1 {
			t.Errorf("len(Pinned) = %d, want 1", len(f.Pinned))
		}
	})

	t.Run("history over max", func(t *testing.T) {
		f, diags := decodeSource(t, `
settings {
  max_history = 1
}
history {
  color = "#000000"
}
history {
  color = "#FFFFFF"
}
`)
		if diags.HasErrors() {
			t.Fatalf("unexpected errors: %s", diags.Error())
		}
		if len(diags) != 1 || !strings.Contains(diags[0].Summary, "max_history") {
			t.Fatalf("diags = %v, want a max_history warning", diags)
		}
		if len(f.History) != 1 || f.History[0].Hex != "#000000" {
			t.Errorf("History = %v, want only #000000", f.History)
		}
	})
}

func TestDecodeMalformedColorRange(t *testing.T) {
	_, diags := decodeSource(t, "\npinned {\n  color = hex(\"nope\")\n}\n")
	if !diags.HasErrors() {
		t.Fatal("expected an error")
	}
	if got := diags[0].Subject.Start.Line; got != 3 {
		t.Errorf("error on line %d, want 3", got)
	}
}

func TestEncode(t *testing.T) {
	f := &File{
		Current:        color.RGB{R: 59, G: 30, B: 84},
		MaxHistory:     6,
		VariationSteps: []float64{0.15, 0.3, 0.45},
		History: []swatch.Entry{
			{Hex: "#3B1E54", RGB: color.RGB{R: 59, G: 30, B: 84}, Timestamp: 1760000000000},
		},
		Pinned: []swatch.Entry{
			{Hex: "#FF00AA", RGB: color.RGB{R: 255, B: 170}, Timestamp: 1760000005000},
			{Hex: "#58406E", RGB: color.RGB{R: 88, G: 64, B: 110}, Timestamp: 1760000006000, Generated: true},
		},
	}

	want := `current = "#3B1E54"

settings {
  max_history     = 6
  variation_steps = [0.15, 0.3, 0.45]
}

history {
  color     = "#3B1E54"
  timestamp = 1760000000000
}

pinned {
  color     = "#FF00AA"
  timestamp = 1760000005000
}

pinned {
  color     = "#58406E"
  timestamp = 1760000006000
  generated = true
}
`
	if diff := cmp.Diff(want, string(Encode(f))); diff != "" {
		t.Errorf("Encode mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	f, err := Parse("swatch.hcl", []byte(sampleHCL))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	back, err := Parse("encoded.hcl", Encode(f))
	if err != nil {
		t.Fatalf("Parse(Encode) error: %v\n%s", err, Encode(f))
	}
	if diff := cmp.Diff(f, back); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSessionRoundTrip(t *testing.T) {
	start := time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)
	now := start
	clock := func() time.Time {
		now = now.Add(time.Second)
		return now
	}

	s := swatch.New(swatch.WithClock(clock), swatch.WithMaxHistory(3))
	for _, h := range []string{"#FF0000", "#00FF00", "#0000FF"} {
		if _, err := s.Update(color.ModelHex, color.Hex(h)); err != nil {
			t.Fatalf("Update(%s) error: %v", h, err)
		}
	}
	s.Pin()
	s.ToggleVariations()

	f := FromSession(s)
	if f.MaxHistory != 3 {
		t.Errorf("MaxHistory = %d, want 3", f.MaxHistory)
	}

	restored := f.Session(swatch.WithClock(clock))
	if diff := cmp.Diff(s.Current(), restored.Current()); diff != "" {
		t.Errorf("Current mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(s.History(), restored.History()); diff != "" {
		t.Errorf("History mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(s.Pinned(), restored.Pinned()); diff != "" {
		t.Errorf("Pinned mismatch (-want +got):\n%s", diff)
	}
	if !restored.VariationsOpen() {
		t.Error("restored session lost its generated variations")
	}
}

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "swatch.hcl")

	f, err := Parse("swatch.hcl", []byte(sampleHCL))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if err := Save(path, f); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if diff := cmp.Diff(f, loaded); diff != "" {
		t.Errorf("Load mismatch (-want +got):\n%s", diff)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("directory holds %d files after Save, want 1", len(entries))
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.hcl"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load(missing) error = %v, want os.ErrNotExist", err)
	}
}
