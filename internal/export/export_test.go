package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"text/template"

	"github.com/jsvensson/colorswap/internal/color"
)

func testRecord() color.Record {
	return color.FromRGB(color.RGB{R: 59, G: 30, B: 84})
}

func setupTemplateDir(t *testing.T, templates map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range templates {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestFileName(t *testing.T) {
	if got := FileName(testRecord()); got != "color-3B1E54.json" {
		t.Errorf("FileName() = %q, want %q", got, "color-3B1E54.json")
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, testRecord()); err != nil {
		t.Fatalf("WriteJSON() error: %v", err)
	}

	want := `{
  "hex": "#3B1E54",
  "rgb": {
    "r": 59,
    "g": 30,
    "b": 84
  },
  "cmyk": {
    "c": 29.8,
    "m": 64.3,
    "y": 0,
    "k": 67.1
  },
  "hsl": {
    "h": 272.2,
    "s": 47.4,
    "l": 22.4
  },
  "hsv": {
    "h": 272.2,
    "s": 64.3,
    "v": 32.9
  }
}
`
	if got := buf.String(); got != want {
		t.Errorf("WriteJSON() =\n%s\nwant\n%s", got, want)
	}
}

func TestRunJSONOnly(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "output")

	e := &Exporter{OutputDir: outDir}
	written, err := e.Run(testRecord())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	wantPath := filepath.Join(outDir, "color-3B1E54.json")
	if len(written) != 1 || written[0] != wantPath {
		t.Fatalf("Run() wrote %v, want [%s]", written, wantPath)
	}
	content, err := os.ReadFile(wantPath)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !strings.Contains(string(content), `"hex": "#3B1E54"`) {
		t.Errorf("JSON export missing hex, got:\n%s", content)
	}
}

func TestRun(t *testing.T) {
	tmplDir := setupTemplateDir(t, map[string]string{
		"test.txt.tmpl": `hex={{ .Hex }}
bare={{ hexBare .RGB }}
rgb={{ rgb .RGB }}
cmyk={{ cmyk .RGB }}
hsl={{ hsl .RGB }}
hsv={{ hsv .RGB }}
h={{ .HSL.H }}`,
	})
	outDir := filepath.Join(t.TempDir(), "output")

	e := &Exporter{
		TemplatesDir: tmplDir,
		OutputDir:    outDir,
	}

	written, err := e.Run(testRecord())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if len(written) != 2 {
		t.Errorf("Run() wrote %d files, want 2", len(written))
	}

	content, err := os.ReadFile(filepath.Join(outDir, "test.txt"))
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}

	got := string(content)
	wantLines := []string{
		"hex=#3B1E54",
		"bare=3B1E54",
		"rgb=rgb(59, 30, 84)",
		"cmyk=cmyk(29.8%, 64.3%, 0%, 67.1%)",
		"hsl=hsl(272.2, 47.4%, 22.4%)",
		"hsv=hsv(272.2, 64.3%, 32.9%)",
		"h=272.2",
	}
	for _, want := range wantLines {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q, got:\n%s", want, got)
		}
	}
}

func TestRunOnlyFilter(t *testing.T) {
	tmplDir := setupTemplateDir(t, map[string]string{
		"app1.txt.tmpl": "app1={{ .Hex }}",
		"app2.txt.tmpl": "app2={{ .Hex }}",
	})
	outDir := filepath.Join(t.TempDir(), "output")

	e := &Exporter{
		TemplatesDir: tmplDir,
		OutputDir:    outDir,
		Only:         []string{"app1.txt"},
	}

	if _, err := e.Run(testRecord()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	// app1 should exist
	if _, err := os.Stat(filepath.Join(outDir, "app1.txt")); err != nil {
		t.Error("app1.txt should exist")
	}

	// app2 should NOT exist
	if _, err := os.Stat(filepath.Join(outDir, "app2.txt")); err == nil {
		t.Error("app2.txt should not exist when filtered")
	}
}

func TestRunNoTemplates(t *testing.T) {
	tmplDir := t.TempDir() // empty directory
	outDir := filepath.Join(t.TempDir(), "output")

	e := &Exporter{
		TemplatesDir: tmplDir,
		OutputDir:    outDir,
	}

	if _, err := e.Run(testRecord()); err == nil {
		t.Error("expected error for empty templates dir")
	}
}

func TestRunBadTemplate(t *testing.T) {
	tmplDir := setupTemplateDir(t, map[string]string{
		"broken.txt.tmpl": "{{ hex .Nope }}",
	})
	outDir := filepath.Join(t.TempDir(), "output")

	e := &Exporter{
		TemplatesDir: tmplDir,
		OutputDir:    outDir,
	}

	if _, err := e.Run(testRecord()); err == nil {
		t.Error("expected error for template referencing a missing field")
	}
}

func TestFuncMap(t *testing.T) {
	data := buildTemplateData(testRecord())

	tests := []struct {
		name     string
		template string
		want     string
	}{
		{"hex", `{{ hex .RGB }}`, "#3B1E54"},
		{"tint piped to hex", `{{ tint .RGB 0.15 | hex }}`, "#58406E"},
		{"shade piped to hex", `{{ shade .RGB 0.3 | hex }}`, "#29153B"},
		{"full tint is white", `{{ tint .RGB 1.0 | hexBare }}`, "FFFFFF"},
		{"shade then rgb", `{{ shade .RGB 0.15 | rgb }}`, "rgb(50, 26, 71)"},
		{"record fields", `{{ .RGB.R }},{{ .RGB.G }},{{ .RGB.B }}`, "59,30,84"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := template.New("test").Funcs(data.FuncMap).Parse(tt.template)
			if err != nil {
				t.Fatalf("parse error: %v", err)
			}

			var buf bytes.Buffer
			if err := tmpl.Execute(&buf, data); err != nil {
				t.Fatalf("execute error: %v", err)
			}

			got := strings.TrimSpace(buf.String())
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
