package color

import "math"

var (
	White = RGB{R: 255, G: 255, B: 255}
	Black = RGB{}
)

// Mix moves each channel of base toward target by factor, which is clamped
// to [0, 1]. A factor of 0 returns base, 1 returns target.
func Mix(base, target RGB, factor float64) RGB {
	f := clamp(factor, 0, 1)
	if math.IsNaN(f) {
		f = 0
	}
	blend := func(from, to uint8) uint8 {
		return toChannel(float64(from) + (float64(to)-float64(from))*f)
	}
	return RGB{
		R: blend(base.R, target.R),
		G: blend(base.G, target.G),
		B: blend(base.B, target.B),
	}
}

// Tint returns the color mixed toward white.
func Tint(c RGB, factor float64) RGB {
	return Mix(c, White, factor)
}

// Shade returns the color mixed toward black.
func Shade(c RGB, factor float64) RGB {
	return Mix(c, Black, factor)
}
