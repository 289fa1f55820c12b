package lsp

import (
	"fmt"
	"strconv"

	"github.com/jsvensson/colorswap/internal/color"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// colorToLSP converts an internal color.RGB (uint8 RGB) to a protocol.Color (float32 0.0-1.0).
func colorToLSP(c color.RGB) protocol.Color {
	return protocol.Color{
		Red:   float32(c.R) / 255.0,
		Green: float32(c.G) / 255.0,
		Blue:  float32(c.B) / 255.0,
		Alpha: 1.0,
	}
}

// colorFromLSP converts a picker color back to canonical RGB, rounding each
// channel. Alpha is ignored.
func colorFromLSP(c protocol.Color) color.RGB {
	return color.FromUnit(float64(c.Red), float64(c.Green), float64(c.Blue))
}

// documentColors converts the analysis result's color locations into LSP ColorInformation items.
func documentColors(result *AnalysisResult) []protocol.ColorInformation {
	if result == nil {
		return []protocol.ColorInformation{}
	}

	infos := make([]protocol.ColorInformation, 0, len(result.Colors))
	for _, cl := range result.Colors {
		infos = append(infos, protocol.ColorInformation{
			Range: cl.Range,
			Color: colorToLSP(cl.Color),
		})
	}
	return infos
}

// presentations returns the HCL source text for c in every model, hex
// first: "#3B1E54", rgb(59, 30, 84), cmyk(29.8, 64.3, 0, 67.1) and so on.
func presentations(c color.RGB) []string {
	rec := color.FromRGB(c)
	return []string{
		strconv.Quote(rec.Hex),
		fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B),
		fmt.Sprintf("cmyk(%s, %s, %s, %s)", num(rec.CMYK.C), num(rec.CMYK.M), num(rec.CMYK.Y), num(rec.CMYK.K)),
		fmt.Sprintf("hsl(%s, %s, %s)", num(rec.HSL.H), num(rec.HSL.S), num(rec.HSL.L)),
		fmt.Sprintf("hsv(%s, %s, %s)", num(rec.HSV.H), num(rec.HSV.S), num(rec.HSV.V)),
	}
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// colorPresentation produces one presentation per color model for the picked
// color, each with a TextEdit that replaces the whole color expression.
// Ranges that do not hold a known color get no presentations.
func colorPresentation(result *AnalysisResult, params *protocol.ColorPresentationParams) []protocol.ColorPresentation {
	if result == nil || !hasColorAt(result, params.Range) {
		return []protocol.ColorPresentation{}
	}

	c := colorFromLSP(params.Color)
	texts := presentations(c)

	items := make([]protocol.ColorPresentation, 0, len(texts))
	for _, text := range texts {
		items = append(items, protocol.ColorPresentation{
			Label: text,
			TextEdit: &protocol.TextEdit{
				Range:   params.Range,
				NewText: text,
			},
		})
	}
	return items
}

func hasColorAt(result *AnalysisResult, r protocol.Range) bool {
	for _, cl := range result.Colors {
		if cl.Range == r {
			return true
		}
	}
	return false
}

// textDocumentDocumentColor handles textDocument/documentColor requests.
func (s *Server) textDocumentDocumentColor(_ *glsp.Context, params *protocol.DocumentColorParams) ([]protocol.ColorInformation, error) {
	uri := string(params.TextDocument.URI)
	result := s.getResult(uri)
	return documentColors(result), nil
}

// textDocumentColorPresentation handles textDocument/colorPresentation requests.
func (s *Server) textDocumentColorPresentation(_ *glsp.Context, params *protocol.ColorPresentationParams) ([]protocol.ColorPresentation, error) {
	uri := string(params.TextDocument.URI)
	return colorPresentation(s.getResult(uri), params), nil
}
