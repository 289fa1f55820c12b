// Package colorswap converts colors between RGB, CMYK, HSL, HSV and HEX and
// keeps a swatch session (current color, history and pinned colors) in an
// HCL file.
package colorswap

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jsvensson/colorswap/internal/color"
	"github.com/jsvensson/colorswap/internal/swatch"
	"github.com/jsvensson/colorswap/internal/swatchfile"
)

// Open loads the session stored at path. A missing file yields a fresh
// session with default settings.
func Open(path string, opts ...swatch.Option) (*swatch.Session, error) {
	f, err := swatchfile.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		f = swatchfile.New()
	} else if err != nil {
		return nil, fmt.Errorf("opening swatch: %w", err)
	}
	return f.Session(opts...), nil
}

// Save writes the session to path.
func Save(path string, s *swatch.Session) error {
	if err := swatchfile.Save(path, swatchfile.FromSession(s)); err != nil {
		return fmt.Errorf("saving swatch: %w", err)
	}
	return nil
}

// ParseInput turns a model name and its fields, as typed on a command line,
// into a dispatcher input. Besides the five models it accepts "name" for a
// CSS color name, which resolves to RGB.
func ParseInput(model string, fields []string) (color.Model, color.Value, error) {
	if strings.EqualFold(strings.TrimSpace(model), "name") {
		c, err := swatchfile.LookupName(strings.Join(fields, " "))
		if err != nil {
			return 0, nil, err
		}
		return color.ModelRGB, c, nil
	}

	m, err := color.ParseModel(model)
	if err != nil {
		return 0, nil, err
	}
	v, err := color.ParseValue(m, fields)
	if err != nil {
		return 0, nil, err
	}
	return m, v, nil
}
