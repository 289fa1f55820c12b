package color

import (
	"fmt"
	"strconv"
	"strings"
)

// Model tags one of the five supported color representations.
type Model int

const (
	ModelRGB Model = iota + 1
	ModelCMYK
	ModelHSL
	ModelHSV
	ModelHex
)

// Models lists every supported model in display order.
var Models = []Model{ModelHex, ModelRGB, ModelCMYK, ModelHSL, ModelHSV}

// ErrUnknownModel is returned for model tags outside Models. It matches
// ErrMalformed under errors.Is.
var ErrUnknownModel = fmt.Errorf("%w: unknown color model", ErrMalformed)

func (m Model) String() string {
	switch m {
	case ModelRGB:
		return "RGB"
	case ModelCMYK:
		return "CMYK"
	case ModelHSL:
		return "HSL"
	case ModelHSV:
		return "HSV"
	case ModelHex:
		return "HEX"
	default:
		return fmt.Sprintf("Model(%d)", int(m))
	}
}

// ParseModel parses a model tag such as "cmyk" or "HEX", ignoring case.
func ParseModel(s string) (Model, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "RGB":
		return ModelRGB, nil
	case "CMYK":
		return ModelCMYK, nil
	case "HSL":
		return ModelHSL, nil
	case "HSV":
		return ModelHSV, nil
	case "HEX":
		return ModelHex, nil
	}
	return 0, fmt.Errorf("%w %q (valid: hex, rgb, cmyk, hsl, hsv)", ErrUnknownModel, s)
}

// Value is a color in one of the supported models. The set of
// implementations is closed: RGB, RawRGB, CMYK, HSL, HSV and Hex.
type Value interface {
	Model() Model
	isValue()
}

// RawRGB is unclamped RGB input, e.g. as typed into a form field.
type RawRGB struct {
	R, G, B float64
}

// Hex is a hex color string in any form ParseHex accepts.
type Hex string

func (RGB) Model() Model    { return ModelRGB }
func (RawRGB) Model() Model { return ModelRGB }
func (CMYK) Model() Model   { return ModelCMYK }
func (HSL) Model() Model    { return ModelHSL }
func (HSV) Model() Model    { return ModelHSV }
func (Hex) Model() Model    { return ModelHex }

func (RGB) isValue()    {}
func (RawRGB) isValue() {}
func (CMYK) isValue()   {}
func (HSL) isValue()    {}
func (HSV) isValue()    {}
func (Hex) isValue()    {}

// ToRGB normalizes a value in the given model into canonical RGB. Numeric
// fields are clamped into their valid ranges before conversion; hex strings
// are not clamped and fail closed. All failures wrap ErrMalformed, and ToRGB
// never panics.
func ToRGB(model Model, value Value) (rgb RGB, err error) {
	defer func() {
		if r := recover(); r != nil {
			rgb, err = RGB{}, fmt.Errorf("%w: converting %s value: %v", ErrMalformed, model, r)
		}
	}()

	if value == nil {
		return RGB{}, fmt.Errorf("%w: no %s value", ErrMalformed, model)
	}
	switch model {
	case ModelRGB, ModelCMYK, ModelHSL, ModelHSV, ModelHex:
	default:
		return RGB{}, ErrUnknownModel
	}
	if value.Model() != model {
		return RGB{}, fmt.Errorf("%w: %s value given for model %s", ErrMalformed, value.Model(), model)
	}

	switch v := value.(type) {
	case RGB:
		return v, nil
	case RawRGB:
		return RGB{
			R: toChannel(clamp(v.R, 0, 255)),
			G: toChannel(clamp(v.G, 0, 255)),
			B: toChannel(clamp(v.B, 0, 255)),
		}, nil
	case CMYK:
		return CMYKToRGB(CMYK{
			C: clamp(v.C, 0, 100),
			M: clamp(v.M, 0, 100),
			Y: clamp(v.Y, 0, 100),
			K: clamp(v.K, 0, 100),
		}), nil
	case HSL:
		return HSLToRGB(HSL{
			H: clamp(v.H, 0, 360),
			S: clamp(v.S, 0, 100),
			L: clamp(v.L, 0, 100),
		}), nil
	case HSV:
		return HSVToRGB(HSV{
			H: clamp(v.H, 0, 360),
			S: clamp(v.S, 0, 100),
			V: clamp(v.V, 0, 100),
		}), nil
	case Hex:
		return ParseHex(string(v))
	}
	return RGB{}, ErrUnknownModel
}

// Canonical is ToRGB using the value's own model tag.
func Canonical(v Value) (RGB, error) {
	if v == nil {
		return RGB{}, fmt.Errorf("%w: no value", ErrMalformed)
	}
	return ToRGB(v.Model(), v)
}

// Record bundles every representation of one canonical color. It is always
// rebuilt from RGB with FromRGB, never edited field by field.
type Record struct {
	Hex  string `json:"hex"`
	RGB  RGB    `json:"rgb"`
	CMYK CMYK   `json:"cmyk"`
	HSL  HSL    `json:"hsl"`
	HSV  HSV    `json:"hsv"`
}

// FromRGB expands a canonical color into its Record.
func FromRGB(c RGB) Record {
	return Record{
		Hex:  c.Hex(),
		RGB:  c,
		CMYK: RGBToCMYK(c),
		HSL:  RGBToHSL(c),
		HSV:  RGBToHSV(c),
	}
}

// ParseValue builds a Value for the model from textual fields: three numbers
// for RGB, HSL and HSV, four for CMYK, and a single string for HEX. Fields
// may also arrive as one comma-separated string, e.g. "0,50,100,0".
func ParseValue(model Model, fields []string) (Value, error) {
	if model == ModelHex {
		if len(fields) != 1 {
			return nil, fmt.Errorf("%w: HEX takes one value, got %d", ErrMalformed, len(fields))
		}
		return Hex(fields[0]), nil
	}

	nums, err := parseNumbers(fields)
	if err != nil {
		return nil, err
	}
	return ValueOf(model, nums...)
}

// ValueOf builds a Value for a numeric model from its fields in order:
// r, g, b / c, m, y, k / h, s, l / h, s, v.
func ValueOf(model Model, nums ...float64) (Value, error) {
	want := 3
	switch model {
	case ModelCMYK:
		want = 4
	case ModelRGB, ModelHSL, ModelHSV:
	case ModelHex:
		return nil, fmt.Errorf("%w: HEX is not a numeric model", ErrMalformed)
	default:
		return nil, ErrUnknownModel
	}
	if len(nums) != want {
		return nil, fmt.Errorf("%w: %s takes %d values, got %d", ErrMalformed, model, want, len(nums))
	}

	switch model {
	case ModelRGB:
		return RawRGB{R: nums[0], G: nums[1], B: nums[2]}, nil
	case ModelCMYK:
		return CMYK{C: nums[0], M: nums[1], Y: nums[2], K: nums[3]}, nil
	case ModelHSL:
		return HSL{H: nums[0], S: nums[1], L: nums[2]}, nil
	default:
		return HSV{H: nums[0], S: nums[1], V: nums[2]}, nil
	}
}

func parseNumbers(fields []string) ([]float64, error) {
	var nums []float64
	for _, f := range fields {
		for _, part := range strings.FieldsFunc(f, func(r rune) bool { return r == ',' || r == ' ' }) {
			part = strings.TrimSuffix(part, "%")
			n, err := strconv.ParseFloat(part, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %q is not a number", ErrMalformed, part)
			}
			nums = append(nums, n)
		}
	}
	return nums, nil
}
