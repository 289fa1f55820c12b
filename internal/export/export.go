// Package export writes a color record to disk as JSON and through
// user-supplied text templates.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"text/template"

	"github.com/jsvensson/colorswap/internal/color"
)

// FileName returns the JSON export name for rec, e.g. "color-3B1E54.json".
func FileName(rec color.Record) string {
	return "color-" + rec.RGB.HexBare() + ".json"
}

// WriteJSON writes rec as two-space indented JSON.
func WriteJSON(w io.Writer, rec color.Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rec); err != nil {
		return fmt.Errorf("encoding %s: %w", rec.Hex, err)
	}
	return nil
}

// Exporter writes a record's JSON file and renders templates against it.
type Exporter struct {
	OutputDir    string
	TemplatesDir string   // if empty, only the JSON file is written
	Only         []string // if non-empty, only render these template basenames
}

// Run writes the JSON export into OutputDir, then executes every .tmpl file
// in TemplatesDir and writes each output under its basename without the
// .tmpl suffix. It returns the paths written.
func (e *Exporter) Run(rec color.Record) ([]string, error) {
	if err := os.MkdirAll(e.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	jsonPath := filepath.Join(e.OutputDir, FileName(rec))
	if err := writeFile(jsonPath, func(w io.Writer) error { return WriteJSON(w, rec) }); err != nil {
		return nil, err
	}
	written := []string{jsonPath}

	if e.TemplatesDir == "" {
		return written, nil
	}

	pattern := filepath.Join(e.TemplatesDir, "*.tmpl")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return written, fmt.Errorf("globbing templates: %w", err)
	}
	if len(matches) == 0 {
		return written, fmt.Errorf("no .tmpl files found in %s", e.TemplatesDir)
	}

	data := buildTemplateData(rec)

	for _, tmplPath := range matches {
		baseName := strings.TrimSuffix(filepath.Base(tmplPath), ".tmpl")

		if !e.shouldRender(baseName) {
			continue
		}

		outPath, err := e.renderTemplate(tmplPath, baseName, data)
		if err != nil {
			return written, err
		}
		written = append(written, outPath)
	}

	return written, nil
}

func (e *Exporter) shouldRender(name string) bool {
	// If no names are specified, render all.
	if len(e.Only) == 0 {
		return true
	}

	return slices.Contains(e.Only, name)
}

func (e *Exporter) renderTemplate(tmplPath, outputName string, data templateData) (string, error) {
	tmpl, err := template.New(filepath.Base(tmplPath)).Funcs(data.FuncMap).ParseFiles(tmplPath)
	if err != nil {
		return "", fmt.Errorf("parsing template %s: %w", tmplPath, err)
	}

	outPath := filepath.Join(e.OutputDir, outputName)
	err = writeFile(outPath, func(w io.Writer) error {
		if err := tmpl.Execute(w, data); err != nil {
			return fmt.Errorf("executing template %s: %w", tmplPath, err)
		}
		return nil
	})
	return outPath, err
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// templateData is the data passed to templates: the record's fields plus
// the helper functions.
type templateData struct {
	color.Record
	FuncMap template.FuncMap
}

func buildTemplateData(rec color.Record) templateData {
	return templateData{
		Record:  rec,
		FuncMap: FuncMap(),
	}
}

// FuncMap returns the template helpers. Every helper takes a color.RGB,
// e.g. {{ cmyk .RGB }} or {{ tint .RGB 0.3 | hex }}.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"hex": func(c color.RGB) string {
			return c.Hex()
		},
		"hexBare": func(c color.RGB) string {
			return c.HexBare()
		},
		"rgb": func(c color.RGB) string {
			return c.String()
		},
		"cmyk": func(c color.RGB) string {
			return color.RGBToCMYK(c).String()
		},
		"hsl": func(c color.RGB) string {
			return color.RGBToHSL(c).String()
		},
		"hsv": func(c color.RGB) string {
			return color.RGBToHSV(c).String()
		},
		"tint": func(c color.RGB, factor float64) color.RGB {
			return color.Tint(c, factor)
		},
		"shade": func(c color.RGB, factor float64) color.RGB {
			return color.Shade(c, factor)
		},
	}
}
