package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/jsvensson/colorswap/internal/color"
	"github.com/jsvensson/colorswap/internal/swatch"
	"github.com/muesli/termenv"
)

const swatchWidth = 6

// outputFor picks a color profile from w; plain writers get no escapes.
var outputFor = func(w io.Writer) *termenv.Output {
	return termenv.NewOutput(w)
}

func chip(out *termenv.Output, c color.RGB) string {
	return out.String(fmt.Sprintf("%*s", swatchWidth, "")).Background(out.Color(c.Hex())).String()
}

// printRecord writes the record as aligned model lines under a color chip.
func printRecord(w io.Writer, rec color.Record) {
	out := outputFor(w)
	fmt.Fprintf(out, "%s %s\n", chip(out, rec.RGB), rec.Hex)
	fmt.Fprintf(out, "  %-5s%s\n", "rgb", rec.RGB)
	fmt.Fprintf(out, "  %-5s%s\n", "cmyk", rec.CMYK)
	fmt.Fprintf(out, "  %-5s%s\n", "hsl", rec.HSL)
	fmt.Fprintf(out, "  %-5s%s\n", "hsv", rec.HSV)
}

// printEntries writes one indexed line per entry. Generated entries are
// marked with an asterisk.
func printEntries(w io.Writer, entries []swatch.Entry) {
	out := outputFor(w)
	if len(entries) == 0 {
		fmt.Fprintln(out, "(none)")
		return
	}
	for i, e := range entries {
		mark := " "
		if e.Generated {
			mark = "*"
		}
		fmt.Fprintf(out, "%2d %s %s%s %s\n", i, chip(out, e.RGB), e.Hex, mark, e.Time().UTC().Format(time.DateTime))
	}
}

func writeEntriesJSON(w io.Writer, entries []swatch.Entry) error {
	if entries == nil {
		entries = []swatch.Entry{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}
