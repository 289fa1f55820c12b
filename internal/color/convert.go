package color

import (
	"fmt"
	"math"
	"strconv"
)

// CMYK holds percentages in [0, 100] with one decimal of precision.
type CMYK struct {
	C float64 `json:"c"`
	M float64 `json:"m"`
	Y float64 `json:"y"`
	K float64 `json:"k"`
}

func (c CMYK) String() string {
	return fmt.Sprintf("cmyk(%s, %s, %s, %s)", formatPct(c.C), formatPct(c.M), formatPct(c.Y), formatPct(c.K))
}

// HSL holds hue in degrees [0, 360) and saturation/lightness percentages.
type HSL struct {
	H float64 `json:"h"`
	S float64 `json:"s"`
	L float64 `json:"l"`
}

func (c HSL) String() string {
	return fmt.Sprintf("hsl(%s, %s, %s)", strconv.FormatFloat(c.H, 'f', -1, 64), formatPct(c.S), formatPct(c.L))
}

// HSV holds hue in degrees [0, 360) and saturation/value percentages.
type HSV struct {
	H float64 `json:"h"`
	S float64 `json:"s"`
	V float64 `json:"v"`
}

func (c HSV) String() string {
	return fmt.Sprintf("hsv(%s, %s, %s)", strconv.FormatFloat(c.H, 'f', -1, 64), formatPct(c.S), formatPct(c.V))
}

// RGBToCMYK converts to CMYK. Pure black is special-cased to {0, 0, 0, 100}
// since the general formula divides by 1-k.
func RGBToCMYK(c RGB) CMYK {
	if c.R == 0 && c.G == 0 && c.B == 0 {
		return CMYK{K: 100}
	}
	r, g, b := c.Unit()

	k := 1 - max(r, g, b)
	return CMYK{
		C: round1((1 - r - k) / (1 - k) * 100),
		M: round1((1 - g - k) / (1 - k) * 100),
		Y: round1((1 - b - k) / (1 - k) * 100),
		K: round1(k * 100),
	}
}

// CMYKToRGB converts CMYK percentages to RGB, rounding each channel.
func CMYKToRGB(c CMYK) RGB {
	k := 1 - c.K/100
	return RGB{
		R: toChannel(255 * (1 - c.C/100) * k),
		G: toChannel(255 * (1 - c.M/100) * k),
		B: toChannel(255 * (1 - c.Y/100) * k),
	}
}

// hueOf returns the hue in degrees for normalized channels, given the
// largest channel and the chroma d. Achromatic colors have hue 0.
func hueOf(r, g, b, maxc, d float64) float64 {
	if d == 0 {
		return 0
	}
	var h float64
	switch maxc {
	case r:
		h = (g - b) / d
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}
	return h * 60
}

// RGBToHSL converts to HSL.
func RGBToHSL(c RGB) HSL {
	r, g, b := c.Unit()

	maxc := max(r, g, b)
	minc := min(r, g, b)
	l := (maxc + minc) / 2
	d := maxc - minc

	var s float64
	if d != 0 {
		s = d / (1 - math.Abs(2*l-1))
	}

	return HSL{
		H: round1(hueOf(r, g, b, maxc, d)),
		S: round1(s * 100),
		L: round1(l * 100),
	}
}

// HSLToRGB converts HSL to RGB. The hue wraps, so -30 and 330 are the same.
func HSLToRGB(c HSL) RGB {
	h := normalizeHue(c.H)
	s := c.S / 100
	l := c.L / 100

	if s == 0 {
		v := toChannel(l * 255)
		return RGB{R: v, G: v, B: v}
	}

	chroma := (1 - math.Abs(2*l-1)) * s
	return fromSector(h, chroma, l-chroma/2)
}

// RGBToHSV converts to HSV.
func RGBToHSV(c RGB) HSV {
	r, g, b := c.Unit()

	maxc := max(r, g, b)
	d := maxc - min(r, g, b)

	var s float64
	if maxc != 0 {
		s = d / maxc
	}

	return HSV{
		H: round1(hueOf(r, g, b, maxc, d)),
		S: round1(s * 100),
		V: round1(maxc * 100),
	}
}

// HSVToRGB converts HSV to RGB. The hue wraps like in HSLToRGB.
func HSVToRGB(c HSV) RGB {
	h := normalizeHue(c.H)
	v := c.V / 100
	chroma := v * (c.S / 100)
	return fromSector(h, chroma, v-chroma)
}

// fromSector picks the (r, g, b) triple for the 60° sector containing h and
// shifts it by m. Shared by HSL and HSV, which differ only in chroma and m.
func fromSector(h, chroma, m float64) RGB {
	x := chroma * (1 - math.Abs(math.Mod(h/60, 2)-1))

	var r, g, b float64
	switch {
	case h < 60:
		r, g = chroma, x
	case h < 120:
		r, g = x, chroma
	case h < 180:
		g, b = chroma, x
	case h < 240:
		g, b = x, chroma
	case h < 300:
		r, b = x, chroma
	default:
		r, b = chroma, x
	}

	return RGB{
		R: toChannel((r + m) * 255),
		G: toChannel((g + m) * 255),
		B: toChannel((b + m) * 255),
	}
}

// normalizeHue maps any angle into [0, 360), including negative ones.
func normalizeHue(h float64) float64 {
	return math.Mod(math.Mod(h, 360)+360, 360)
}
