// Package swatchfile reads and writes swatch sessions as HCL files.
//
// A swatch file records the current color, session settings, the history
// and the pinned list:
//
//	current = "#3B1E54"
//
//	settings {
//	  max_history     = 6
//	  variation_steps = [0.15, 0.3, 0.45]
//	}
//
//	history {
//	  color     = cmyk(29.8, 64.3, 0, 67.1)
//	  timestamp = 1760000000000
//	}
//
//	pinned {
//	  color     = "#FF00AA"
//	  timestamp = 1760000000000
//	}
//
// Colors may be written as hex strings or with any function from
// EvalContext. Encode always writes them back as canonical hex.
package swatchfile

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/jsvensson/colorswap/internal/color"
	"github.com/jsvensson/colorswap/internal/swatch"
	"github.com/tliron/commonlog"
	"github.com/zclconf/go-cty/cty"
)

var log = commonlog.GetLogger("colorswap.swatchfile")

// File is a decoded swatch file with every color normalized.
type File struct {
	Current        color.RGB
	MaxHistory     int
	VariationSteps []float64
	History        []swatch.Entry
	Pinned         []swatch.Entry
}

// New returns the file for a fresh session.
func New() *File {
	return &File{
		Current:        swatch.DefaultColor,
		MaxHistory:     swatch.DefaultMaxHistory,
		VariationSteps: slices.Clone(swatch.DefaultVariationSteps),
	}
}

// fileSchema is the gohcl view of a swatch file. Colors stay expressions so
// diagnostics can point at them.
type fileSchema struct {
	Current  hcl.Expression `hcl:"current,optional"`
	Settings *settingsBlock `hcl:"settings,block"`
	History  []entryBlock   `hcl:"history,block"`
	Pinned   []entryBlock   `hcl:"pinned,block"`
}

type settingsBlock struct {
	MaxHistory     *int      `hcl:"max_history,optional"`
	VariationSteps []float64 `hcl:"variation_steps,optional"`
	DefRange       hcl.Range `hcl:",def_range"`
}

type entryBlock struct {
	Color     hcl.Expression `hcl:"color"`
	Timestamp int64          `hcl:"timestamp,optional"`
	Generated bool           `hcl:"generated,optional"`
	DefRange  hcl.Range      `hcl:",def_range"`
}

// Parse parses and decodes swatch file source. Warnings are logged and
// otherwise ignored; any error diagnostic fails the parse.
func Parse(filename string, src []byte) (*File, error) {
	file, diags := hclsyntax.ParseConfig(src, filename, hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing HCL: %s", diags.Error())
	}

	f, diags := Decode(file.Body)
	if diags.HasErrors() {
		return nil, fmt.Errorf("decoding %s: %s", filename, diags.Error())
	}
	for _, d := range diags {
		log.Warningf("%s: %s", filename, d.Error())
	}
	return f, nil
}

// Load reads and parses the swatch file at path. A missing file yields an
// error matching os.ErrNotExist.
func Load(path string) (*File, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading swatch file: %w", err)
	}
	f, err := Parse(path, src)
	if err != nil {
		return nil, err
	}
	log.Debugf("loaded %s: current %s, %d history, %d pinned", path, f.Current.Hex(), len(f.History), len(f.Pinned))
	return f, nil
}

// Decode decodes a parsed body into a File. It never returns a nil File:
// on error diagnostics the File holds whatever could be decoded.
// Duplicate pinned colors and history beyond max_history are reported as
// warnings and dropped.
func Decode(body hcl.Body) (*File, hcl.Diagnostics) {
	f := New()

	ctx := EvalContext()
	var schema fileSchema
	diags := gohcl.DecodeBody(body, ctx, &schema)
	if diags.HasErrors() {
		return f, diags
	}

	if c, ok, d := evalColor(schema.Current, ctx, "current"); ok {
		f.Current = c
	} else {
		diags = append(diags, d...)
	}

	if s := schema.Settings; s != nil {
		if s.MaxHistory != nil {
			if *s.MaxHistory < 1 {
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Invalid max_history",
					Detail:   fmt.Sprintf("max_history must be at least 1, got %d.", *s.MaxHistory),
					Subject:  s.DefRange.Ptr(),
				})
			} else {
				f.MaxHistory = *s.MaxHistory
			}
		}
		if s.VariationSteps != nil {
			for _, step := range s.VariationSteps {
				if step <= 0 || step > 1 {
					diags = append(diags, &hcl.Diagnostic{
						Severity: hcl.DiagError,
						Summary:  "Invalid variation step",
						Detail:   fmt.Sprintf("Variation steps must be in (0, 1], got %g.", step),
						Subject:  s.DefRange.Ptr(),
					})
				}
			}
			if len(s.VariationSteps) > 0 {
				f.VariationSteps = s.VariationSteps
			}
		}
	}

	history, historyRanges, d := decodeEntries(schema.History, ctx, "history")
	diags = append(diags, d...)
	if len(history) > f.MaxHistory {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagWarning,
			Summary:  "History exceeds max_history",
			Detail:   fmt.Sprintf("Only the first %d of %d history entries are kept.", f.MaxHistory, len(history)),
			Subject:  historyRanges[f.MaxHistory].Ptr(),
		})
		history = history[:f.MaxHistory]
	}
	f.History = history

	pinned, pinnedRanges, d := decodeEntries(schema.Pinned, ctx, "pinned")
	diags = append(diags, d...)
	seen := make(map[string]bool, len(pinned))
	for i, e := range pinned {
		if seen[e.Hex] {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagWarning,
				Summary:  "Duplicate pinned color",
				Detail:   fmt.Sprintf("%s is already pinned.", e.Hex),
				Subject:  pinnedRanges[i].Ptr(),
			})
			continue
		}
		seen[e.Hex] = true
		f.Pinned = append(f.Pinned, e)
	}

	return f, diags
}

// decodeEntries returns the valid entries along with the block range of each.
func decodeEntries(blocks []entryBlock, ctx *hcl.EvalContext, kind string) ([]swatch.Entry, []hcl.Range, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	var entries []swatch.Entry
	ranges := make([]hcl.Range, 0, len(blocks))
	for _, b := range blocks {
		c, ok, d := evalColor(b.Color, ctx, kind+".color")
		if !ok {
			if len(d) == 0 {
				d = hcl.Diagnostics{{
					Severity: hcl.DiagError,
					Summary:  "Missing color",
					Detail:   fmt.Sprintf("Every %s block needs a color.", kind),
					Subject:  b.DefRange.Ptr(),
				}}
			}
			diags = append(diags, d...)
			continue
		}
		entries = append(entries, swatch.Entry{
			Hex:       c.Hex(),
			RGB:       c,
			Timestamp: b.Timestamp,
			Generated: b.Generated,
		})
		ranges = append(ranges, b.DefRange)
	}
	return entries, ranges, diags
}

// evalColor evaluates a color expression. ok is false when the expression is
// null or invalid; diagnostics are returned only for invalid ones.
func evalColor(expr hcl.Expression, ctx *hcl.EvalContext, name string) (color.RGB, bool, hcl.Diagnostics) {
	val, diags := expr.Value(ctx)
	if diags.HasErrors() {
		return color.RGB{}, false, diags
	}
	if val.IsNull() {
		return color.RGB{}, false, nil
	}
	if !val.IsKnown() || val.Type() != cty.String {
		return color.RGB{}, false, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid color",
			Detail:   fmt.Sprintf("%s must be a hex string or a color function.", name),
			Subject:  expr.Range().Ptr(),
		}}
	}

	c, err := color.ParseHex(val.AsString())
	if err != nil {
		return color.RGB{}, false, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Malformed color",
			Detail:   fmt.Sprintf("%s: %s.", name, err),
			Subject:  expr.Range().Ptr(),
		}}
	}
	return c, true, nil
}

// Session builds a swatch session from the file.
func (f *File) Session(opts ...swatch.Option) *swatch.Session {
	base := []swatch.Option{
		swatch.WithMaxHistory(f.MaxHistory),
		swatch.WithVariationSteps(f.VariationSteps...),
	}
	s := swatch.New(append(base, opts...)...)
	s.Restore(f.Current, f.History, f.Pinned)
	return s
}

// FromSession captures a session's state.
func FromSession(s *swatch.Session) *File {
	return &File{
		Current:        s.Current().RGB,
		MaxHistory:     s.MaxHistory(),
		VariationSteps: s.VariationSteps(),
		History:        s.History(),
		Pinned:         s.Pinned(),
	}
}

// Encode renders f as canonical HCL.
func Encode(f *File) []byte {
	out := hclwrite.NewEmptyFile()
	body := out.Body()

	body.SetAttributeValue("current", cty.StringVal(f.Current.Hex()))
	body.AppendNewline()

	settings := body.AppendNewBlock("settings", nil).Body()
	settings.SetAttributeValue("max_history", cty.NumberIntVal(int64(f.MaxHistory)))
	if len(f.VariationSteps) > 0 {
		steps := make([]cty.Value, 0, len(f.VariationSteps))
		for _, s := range f.VariationSteps {
			steps = append(steps, cty.NumberFloatVal(s))
		}
		settings.SetAttributeValue("variation_steps", cty.TupleVal(steps))
	}

	for _, e := range f.History {
		body.AppendNewline()
		appendEntry(body.AppendNewBlock("history", nil).Body(), e)
	}
	for _, e := range f.Pinned {
		body.AppendNewline()
		appendEntry(body.AppendNewBlock("pinned", nil).Body(), e)
	}

	return hclwrite.Format(out.Bytes())
}

func appendEntry(body *hclwrite.Body, e swatch.Entry) {
	body.SetAttributeValue("color", cty.StringVal(e.RGB.Hex()))
	body.SetAttributeValue("timestamp", cty.NumberIntVal(e.Timestamp))
	if e.Generated {
		body.SetAttributeValue("generated", cty.True)
	}
}

// Save writes f to path atomically, creating parent directories as needed.
func Save(path string, f *File) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".swatch-*.hcl")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if _, err := tmp.Write(Encode(f)); err != nil {
		tmp.Close()
		return fmt.Errorf("writing swatch file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing swatch file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}

	log.Debugf("saved %s", path)
	return nil
}
