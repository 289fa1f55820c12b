package lsp

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/jsvensson/colorswap/internal/color"
	"github.com/jsvensson/colorswap/internal/swatchfile"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/zclconf/go-cty/cty"
)

const diagnosticSource = "colorswap"

var (
	DiagError   = protocol.DiagnosticSeverityError
	DiagWarning = protocol.DiagnosticSeverityWarning
)

// AnalysisResult holds all information produced by analyzing a swatch file.
type AnalysisResult struct {
	Diagnostics []protocol.Diagnostic
	File        *swatchfile.File // nil when the file does not parse
	Colors      []ColorLocation
}

// ColorLocation records a resolved color at a specific source position.
type ColorLocation struct {
	Range   protocol.Range
	Color   color.RGB
	Block   string // "current", "history" or "pinned"
	Literal bool   // true for a plain string literal, false for a function call
}

// hclPosToLSP converts an HCL position to an LSP position.
// HCL positions are 1-based; LSP positions are 0-based.
func hclPosToLSP(pos hcl.Pos) protocol.Position {
	return protocol.Position{
		Line:      uint32(pos.Line - 1),
		Character: uint32(pos.Column - 1),
	}
}

// hclRangeToLSP converts an HCL range to an LSP range.
func hclRangeToLSP(r hcl.Range) protocol.Range {
	return protocol.Range{
		Start: hclPosToLSP(r.Start),
		End:   hclPosToLSP(r.End),
	}
}

// Analyze parses swatch file content from memory and produces diagnostics and
// color locations. Decoding diagnostics come from swatchfile.Decode, so the
// editor reports exactly what loading the file would.
func Analyze(filename, content string) *AnalysisResult {
	result := &AnalysisResult{}

	file, diags := hclsyntax.ParseConfig([]byte(content), filename, hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		for _, d := range diags {
			result.Diagnostics = append(result.Diagnostics, hclDiagToLSP(d))
		}
		// Cannot proceed with semantic analysis if syntax is broken
		return result
	}

	f, diags := swatchfile.Decode(file.Body)
	result.File = f
	for _, d := range diags {
		result.Diagnostics = append(result.Diagnostics, hclDiagToLSP(d))
	}

	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return result
	}
	result.collectColors(body)

	return result
}

// collectColors records every color expression that evaluates cleanly.
// Invalid ones are already covered by the decode diagnostics.
func (r *AnalysisResult) collectColors(body *hclsyntax.Body) {
	ctx := swatchfile.EvalContext()

	if attr, ok := body.Attributes["current"]; ok {
		r.addColor(attr.Expr, ctx, "current")
	}
	for _, block := range body.Blocks {
		if block.Type != "history" && block.Type != "pinned" {
			continue
		}
		if attr, ok := block.Body.Attributes["color"]; ok {
			r.addColor(attr.Expr, ctx, block.Type)
		}
	}
}

func (r *AnalysisResult) addColor(expr hclsyntax.Expression, ctx *hcl.EvalContext, block string) {
	val, diags := expr.Value(ctx)
	if diags.HasErrors() || val.IsNull() || !val.IsKnown() || val.Type() != cty.String {
		return
	}
	c, err := color.ParseHex(val.AsString())
	if err != nil {
		return
	}
	r.Colors = append(r.Colors, ColorLocation{
		Range:   hclRangeToLSP(expr.Range()),
		Color:   c,
		Block:   block,
		Literal: isStringLiteral(expr),
	})
}

// isStringLiteral returns true for a quoted string with no interpolation.
func isStringLiteral(expr hclsyntax.Expression) bool {
	t, ok := expr.(*hclsyntax.TemplateExpr)
	return ok && t.IsStringLiteral()
}

// hclDiagToLSP converts an HCL diagnostic to an LSP diagnostic.
func hclDiagToLSP(d *hcl.Diagnostic) protocol.Diagnostic {
	sev := DiagError
	if d.Severity == hcl.DiagWarning {
		sev = DiagWarning
	}

	diag := protocol.Diagnostic{
		Severity: &sev,
		Message:  d.Summary,
		Source:   strPtr(diagnosticSource),
	}

	if d.Detail != "" {
		diag.Message = d.Summary + ": " + d.Detail
	}

	if d.Subject != nil {
		diag.Range = hclRangeToLSP(*d.Subject)
	}

	return diag
}

func strPtr(s string) *string {
	return &s
}
