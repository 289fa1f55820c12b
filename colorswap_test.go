package colorswap

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jsvensson/colorswap/internal/color"
	"github.com/jsvensson/colorswap/internal/swatch"
)

func TestOpenMissingFile(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "nope.hcl"))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	if got := s.Current().RGB; got != swatch.DefaultColor {
		t.Errorf("current = %v, want %v", got, swatch.DefaultColor)
	}
	if s.MaxHistory() != swatch.DefaultMaxHistory {
		t.Errorf("max history = %d, want %d", s.MaxHistory(), swatch.DefaultMaxHistory)
	}
}

func TestOpenInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.hcl")
	if err := os.WriteFile(path, []byte(`current = "#XYZ"`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(path); err == nil {
		t.Fatal("expected an error for a malformed current color")
	}
}

func TestSaveAndOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "colorswap", "swatch.hcl")

	s := swatch.New(swatch.WithMaxHistory(3))
	if _, err := s.Update(color.ModelHex, color.Hex("#FF00AA")); err != nil {
		t.Fatal(err)
	}
	s.Pin()
	if _, err := s.Update(color.ModelCMYK, color.CMYK{C: 100}); err != nil {
		t.Fatal(err)
	}

	if err := Save(path, s); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	got, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	if diff := cmp.Diff(s.Current(), got.Current()); diff != "" {
		t.Errorf("current mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(s.History(), got.History()); diff != "" {
		t.Errorf("history mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(s.Pinned(), got.Pinned()); diff != "" {
		t.Errorf("pinned mismatch (-want +got):\n%s", diff)
	}
	if got.MaxHistory() != 3 {
		t.Errorf("max history = %d, want 3", got.MaxHistory())
	}
}

func TestParseInput(t *testing.T) {
	tests := []struct {
		name      string
		model     string
		fields    []string
		wantModel color.Model
		want      color.Value
	}{
		{"hex", "hex", []string{"#3B1E54"}, color.ModelHex, color.Hex("#3B1E54")},
		{"rgb", "RGB", []string{"59", "30", "84"}, color.ModelRGB, color.RawRGB{R: 59, G: 30, B: 84}},
		{"rgb csv", "rgb", []string{"300,-20,84.4"}, color.ModelRGB, color.RawRGB{R: 300, G: -20, B: 84.4}},
		{"cmyk", "cmyk", []string{"0", "100", "33.3", "0"}, color.ModelCMYK, color.CMYK{M: 100, Y: 33.3}},
		{"hsl", "hsl", []string{"272.2", "47.4%", "22.4%"}, color.ModelHSL, color.HSL{H: 272.2, S: 47.4, L: 22.4}},
		{"hsv", "hsv", []string{"240", "100", "100"}, color.ModelHSV, color.HSV{H: 240, S: 100, V: 100}},
		{"name", "name", []string{"dark", "slate", "gray"}, color.ModelRGB, color.RGB{R: 47, G: 79, B: 79}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, v, err := ParseInput(tt.model, tt.fields)
			if err != nil {
				t.Fatalf("ParseInput() error: %v", err)
			}
			if m != tt.wantModel {
				t.Errorf("model = %s, want %s", m, tt.wantModel)
			}
			if diff := cmp.Diff(tt.want, v); diff != "" {
				t.Errorf("value mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseInputErrors(t *testing.T) {
	tests := []struct {
		name   string
		model  string
		fields []string
	}{
		{"unknown model", "lab", []string{"50", "0", "0"}},
		{"too few fields", "cmyk", []string{"0", "0", "0"}},
		{"not a number", "rgb", []string{"a", "b", "c"}},
		{"unknown name", "name", []string{"blurple"}},
		{"hex with two fields", "hex", []string{"#000", "#FFF"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseInput(tt.model, tt.fields)
			if !errors.Is(err, color.ErrMalformed) {
				t.Errorf("ParseInput() error = %v, want ErrMalformed", err)
			}
		})
	}
}
