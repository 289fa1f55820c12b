package color

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"fortio.org/safecast"
)

// ErrMalformed is the single failure kind of the conversion core: a HEX string
// that is not 3 or 6 hex digits, a value whose shape does not match its model,
// or an unknown model tag.
var ErrMalformed = errors.New("malformed color input")

// RGB is the canonical color representation. Every other model converts to
// and from RGB, never directly to another non-RGB model.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Hex returns the color as an uppercase hex string with leading #, e.g. "#3B1E54".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// HexBare returns the color as an uppercase hex string without leading #, e.g. "3B1E54".
func (c RGB) HexBare() string {
	return strings.TrimPrefix(c.Hex(), "#")
}

// String returns the color as an rgb() string, e.g. "rgb(59, 30, 84)".
func (c RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

// ParseHex parses "#3B1E54", "3b1e54", or the shorthand "F0A" into an RGB.
// Surrounding whitespace and a single leading # are ignored. Anything else
// yields an error wrapping ErrMalformed.
func ParseHex(s string) (RGB, error) {
	cleaned := strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(cleaned) {
	case 3:
		cleaned = string([]byte{
			cleaned[0], cleaned[0],
			cleaned[1], cleaned[1],
			cleaned[2], cleaned[2],
		})
	case 6:
	default:
		return RGB{}, fmt.Errorf("%w: hex color %q must be 3 or 6 hex digits", ErrMalformed, s)
	}

	var ch [3]uint8
	for i := range ch {
		v, err := strconv.ParseUint(cleaned[i*2:i*2+2], 16, 8)
		if err != nil {
			return RGB{}, fmt.Errorf("%w: hex color %q has non-hex characters", ErrMalformed, s)
		}
		ch[i] = uint8(v)
	}
	return RGB{R: ch[0], G: ch[1], B: ch[2]}, nil
}

// FromUnit builds an RGB from channels in [0, 1], as editors and pickers
// usually report them.
func FromUnit(r, g, b float64) RGB {
	return RGB{R: toChannel(r * 255), G: toChannel(g * 255), B: toChannel(b * 255)}
}

// Unit returns the channels normalized to [0, 1].
func (c RGB) Unit() (r, g, b float64) {
	return float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255
}

// toChannel rounds half away from zero and saturates into [0, 255].
func toChannel(v float64) uint8 {
	if math.IsNaN(v) {
		return 0
	}
	r := math.Round(v)
	c, err := safecast.Convert[uint8](r)
	if err != nil {
		if r > 0 {
			return 255
		}
		return 0
	}
	return c
}

// round1 rounds to one decimal place. Exact ties such as 272.25 round away
// from zero; inexact decimals like 0.15 round by their binary value.
func round1(v float64) float64 {
	r := math.Round(v*10) / 10
	if r == 0 {
		// no "-0" in output
		return 0
	}
	return r
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

// formatPct renders a percentage without trailing zeros, e.g. 64.3% or 0%.
func formatPct(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}
