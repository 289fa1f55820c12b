package swatchfile

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/jsvensson/colorswap/internal/color"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"golang.org/x/image/colornames"
)

// FunctionNames lists the color functions available in swatch files, in the
// order editors should offer them.
var FunctionNames = []string{"hex", "rgb", "cmyk", "hsl", "hsv", "named", "tint", "shade"}

// FunctionSignatures gives a short usage string per function.
var FunctionSignatures = map[string]string{
	"hex":   "hex(value)",
	"rgb":   "rgb(r, g, b)",
	"cmyk":  "cmyk(c, m, y, k)",
	"hsl":   "hsl(h, s, l)",
	"hsv":   "hsv(h, s, v)",
	"named": "named(name)",
	"tint":  "tint(color, factor)",
	"shade": "shade(color, factor)",
}

// EvalContext returns the HCL evaluation context for swatch files. Every
// function returns a canonical "#RRGGBB" string, so results can be nested,
// e.g. tint(cmyk(0, 50, 100, 0), 0.3).
func EvalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Functions: map[string]function.Function{
			"hex":   makeHexFunc(),
			"rgb":   makeModelFunc(color.ModelRGB, "r", "g", "b"),
			"cmyk":  makeModelFunc(color.ModelCMYK, "c", "m", "y", "k"),
			"hsl":   makeModelFunc(color.ModelHSL, "h", "s", "l"),
			"hsv":   makeModelFunc(color.ModelHSV, "h", "s", "v"),
			"named": makeNamedFunc(),
			"tint":  makeMixFunc("Mixes a color toward white by factor (0.0 to 1.0)", color.Tint),
			"shade": makeMixFunc("Mixes a color toward black by factor (0.0 to 1.0)", color.Shade),
		},
	}
}

// makeModelFunc creates an HCL function that converts numeric fields of the
// given model to hex, clamping them like any other dispatcher input.
// Usage: cmyk(0, 50, 100, 0) or hsl(272.2, 47.4, 22.4)
func makeModelFunc(model color.Model, fields ...string) function.Function {
	params := make([]function.Parameter, 0, len(fields))
	for _, f := range fields {
		params = append(params, function.Parameter{Name: f, Type: cty.Number})
	}

	return function.New(&function.Spec{
		Description: fmt.Sprintf("Converts %s values to a hex color", model),
		Params:      params,
		Type:        function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
			nums := make([]float64, 0, len(args))
			for _, a := range args {
				f, _ := a.AsBigFloat().Float64()
				nums = append(nums, f)
			}
			v, err := color.ValueOf(model, nums...)
			if err != nil {
				return cty.NilVal, err
			}
			rgb, err := color.ToRGB(model, v)
			if err != nil {
				return cty.NilVal, err
			}
			return cty.StringVal(rgb.Hex()), nil
		},
	})
}

// makeHexFunc creates an HCL function that validates and canonicalizes a
// hex string. Usage: hex("f0a")
func makeHexFunc() function.Function {
	return function.New(&function.Spec{
		Description: "Normalizes a 3 or 6 digit hex color to #RRGGBB",
		Params: []function.Parameter{
			{Name: "value", Type: cty.String},
		},
		Type: function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
			rgb, err := color.ToRGB(color.ModelHex, color.Hex(args[0].AsString()))
			if err != nil {
				return cty.NilVal, err
			}
			return cty.StringVal(rgb.Hex()), nil
		},
	})
}

// makeNamedFunc creates an HCL function that looks up a CSS/SVG color name.
// Usage: named("indigo")
func makeNamedFunc() function.Function {
	return function.New(&function.Spec{
		Description: "Looks up a CSS color name such as indigo",
		Params: []function.Parameter{
			{Name: "name", Type: cty.String},
		},
		Type: function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
			rgb, err := LookupName(args[0].AsString())
			if err != nil {
				return cty.NilVal, err
			}
			return cty.StringVal(rgb.Hex()), nil
		},
	})
}

// makeMixFunc creates an HCL function that blends a color by a factor.
// Usage: tint("#3B1E54", 0.15) or shade(hsl(210, 50, 40), 0.3)
func makeMixFunc(description string, mix func(color.RGB, float64) color.RGB) function.Function {
	return function.New(&function.Spec{
		Description: description,
		Params: []function.Parameter{
			{Name: "color", Type: cty.String},
			{Name: "factor", Type: cty.Number},
		},
		Type: function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
			c, err := color.ParseHex(args[0].AsString())
			if err != nil {
				return cty.NilVal, err
			}
			f, _ := args[1].AsBigFloat().Float64()
			return cty.StringVal(mix(c, f).Hex()), nil
		},
	})
}

// LookupName resolves a CSS/SVG color name, ignoring case, spaces, dashes
// and underscores ("Dark Slate Gray" works).
func LookupName(name string) (color.RGB, error) {
	key := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '_':
			return -1
		}
		return r
	}, strings.ToLower(name))

	c, ok := colornames.Map[key]
	if !ok {
		return color.RGB{}, fmt.Errorf("%w: unknown color name %q", color.ErrMalformed, name)
	}
	return color.RGB{R: c.R, G: c.G, B: c.B}, nil
}

// ColorNames returns every known color name, sorted.
func ColorNames() []string {
	names := make([]string, 0, len(colornames.Map))
	for n := range colornames.Map {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
