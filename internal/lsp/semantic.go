package lsp

import (
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/jsvensson/colorswap/internal/color"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/zclconf/go-cty/cty"
)

// Semantic token types we'll use (indices 0-5)
var semanticTokenTypes = []string{
	"keyword",  // 0: block names (settings, history, pinned)
	"property", // 1: attribute names
	"string",   // 2: hex color literals
	"function", // 3: color functions such as cmyk() and tint()
	"number",   // 4: numeric literals
	"comment",  // 5: comments
}

// Semantic token modifiers (bit flags)
var semanticTokenModifiers = []string{
	"declaration", // bit 0: defining a new symbol
}

// tokenTypeIndices maps type names to their indices for fast lookup
var tokenTypeIndices map[string]uint32

func init() {
	tokenTypeIndices = make(map[string]uint32, len(semanticTokenTypes))
	for i, t := range semanticTokenTypes {
		tokenTypeIndices[t] = uint32(i)
	}
}

// SemanticToken represents a single token with its metadata
type SemanticToken struct {
	Line      uint32 // 0-based line number
	StartChar uint32 // 0-based character offset
	Length    uint32
	Type      uint32 // index into semanticTokenTypes
	Modifiers uint32 // bit flags
}

// encodeTokens converts tokens to LSP format (5 integers per token)
// Uses delta encoding for line numbers and character positions
func encodeTokens(tokens []SemanticToken) []uint32 {
	if len(tokens) == 0 {
		return []uint32{}
	}

	// Sort tokens by position
	sort.Slice(tokens, func(i, j int) bool {
		if tokens[i].Line != tokens[j].Line {
			return tokens[i].Line < tokens[j].Line
		}
		return tokens[i].StartChar < tokens[j].StartChar
	})

	data := make([]uint32, 0, len(tokens)*5)

	var prevLine uint32 = 0
	var prevChar uint32 = 0

	for _, tok := range tokens {
		deltaLine := tok.Line - prevLine
		var deltaStart uint32
		if deltaLine == 0 {
			deltaStart = tok.StartChar - prevChar
		} else {
			deltaStart = tok.StartChar
		}

		data = append(data,
			deltaLine,
			deltaStart,
			tok.Length,
			tok.Type,
			tok.Modifiers,
		)

		prevLine = tok.Line
		prevChar = tok.StartChar
	}

	return data
}

// semanticTokensFull generates semantic tokens for the entire document content
func semanticTokensFull(content string) []uint32 {
	file, diags := hclsyntax.ParseConfig([]byte(content), "", hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		// Return empty tokens if parsing fails
		return []uint32{}
	}

	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return []uint32{}
	}

	var tokens []SemanticToken
	tokens = extractTokensFromBody(body, tokens)
	tokens = extractComments([]byte(content), tokens)

	return encodeTokens(tokens)
}

// extractTokensFromBody extracts tokens from an HCL body
func extractTokensFromBody(body *hclsyntax.Body, tokens []SemanticToken) []SemanticToken {
	// Extract block type tokens
	for _, block := range body.Blocks {
		tokens = append(tokens, SemanticToken{
			Line:      uint32(block.DefRange().Start.Line - 1),
			StartChar: uint32(block.DefRange().Start.Column - 1),
			Length:    uint32(len(block.Type)),
			Type:      tokenTypeIndices["keyword"],
			Modifiers: 0,
		})

		// Recurse into block body
		tokens = extractTokensFromBody(block.Body, tokens)
	}

	// Extract attribute tokens
	for name, attr := range body.Attributes {
		// Attribute name (with declaration modifier)
		tokens = append(tokens, SemanticToken{
			Line:      uint32(attr.SrcRange.Start.Line - 1),
			StartChar: uint32(attr.SrcRange.Start.Column - 1),
			Length:    uint32(len(name)),
			Type:      tokenTypeIndices["property"],
			Modifiers: 1, // declaration bit
		})

		// Extract tokens from the expression
		tokens = extractTokensFromExpr(attr.Expr, tokens)
	}

	return tokens
}

// extractTokensFromExpr extracts tokens from an HCL expression
func extractTokensFromExpr(expr hclsyntax.Expression, tokens []SemanticToken) []SemanticToken {
	switch e := expr.(type) {
	case *hclsyntax.LiteralValueExpr:
		tokens = extractTokensFromLiteral(e, tokens)
	case *hclsyntax.TemplateExpr:
		tokens = extractTokensFromTemplate(e, tokens)
	case *hclsyntax.FunctionCallExpr:
		tokens = extractTokensFromFunctionCall(e, tokens)
	case *hclsyntax.UnaryOpExpr:
		tokens = extractTokensFromExpr(e.Val, tokens)
	case *hclsyntax.TupleConsExpr:
		for _, item := range e.Exprs {
			tokens = extractTokensFromExpr(item, tokens)
		}
	}
	return tokens
}

// extractTokensFromLiteral handles number literals
func extractTokensFromLiteral(expr *hclsyntax.LiteralValueExpr, tokens []SemanticToken) []SemanticToken {
	if expr.Val.Type() == cty.Number {
		tokens = append(tokens, rangeToken(expr.SrcRange, tokenTypeIndices["number"]))
	}
	return tokens
}

// extractTokensFromTemplate handles quoted strings. Only hex colors are
// tokenized; other strings keep the editor's default highlighting.
func extractTokensFromTemplate(expr *hclsyntax.TemplateExpr, tokens []SemanticToken) []SemanticToken {
	if !expr.IsStringLiteral() || expr.SrcRange.Start.Line != expr.SrcRange.End.Line {
		return tokens
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return tokens
	}
	if _, err := color.ParseHex(val.AsString()); err != nil || !strings.HasPrefix(val.AsString(), "#") {
		return tokens
	}
	return append(tokens, rangeToken(expr.SrcRange, tokenTypeIndices["string"]))
}

// extractTokensFromFunctionCall handles function calls like cmyk()
func extractTokensFromFunctionCall(expr *hclsyntax.FunctionCallExpr, tokens []SemanticToken) []SemanticToken {
	// Tokenize the function name
	tokens = append(tokens, SemanticToken{
		Line:      uint32(expr.NameRange.Start.Line - 1),
		StartChar: uint32(expr.NameRange.Start.Column - 1),
		Length:    uint32(len(expr.Name)),
		Type:      tokenTypeIndices["function"],
		Modifiers: 0,
	})

	// Recurse into arguments
	for _, arg := range expr.Args {
		tokens = extractTokensFromExpr(arg, tokens)
	}

	return tokens
}

// extractComments lexes the source for single-line comments. Block comments
// spanning several lines are skipped.
func extractComments(src []byte, tokens []SemanticToken) []SemanticToken {
	lexed, _ := hclsyntax.LexConfig(src, "", hcl.Pos{Line: 1, Column: 1})
	for _, tok := range lexed {
		if tok.Type != hclsyntax.TokenComment {
			continue
		}
		// line comments include their trailing newline
		text := strings.TrimRight(string(tok.Bytes), "\r\n")
		if strings.Contains(text, "\n") {
			continue
		}
		tokens = append(tokens, SemanticToken{
			Line:      uint32(tok.Range.Start.Line - 1),
			StartChar: uint32(tok.Range.Start.Column - 1),
			Length:    uint32(len(text)),
			Type:      tokenTypeIndices["comment"],
			Modifiers: 0,
		})
	}
	return tokens
}

// rangeToken builds a token covering a single-line range.
func rangeToken(r hcl.Range, typ uint32) SemanticToken {
	return SemanticToken{
		Line:      uint32(r.Start.Line - 1),
		StartChar: uint32(r.Start.Column - 1),
		Length:    uint32(r.End.Column - r.Start.Column),
		Type:      typ,
		Modifiers: 0,
	}
}

// semanticTokensLegend describes the token types and modifiers to the client.
func semanticTokensLegend() protocol.SemanticTokensLegend {
	return protocol.SemanticTokensLegend{
		TokenTypes:     semanticTokenTypes,
		TokenModifiers: semanticTokenModifiers,
	}
}

// textDocumentSemanticTokensFull handles textDocument/semanticTokens/full requests.
func (s *Server) textDocumentSemanticTokensFull(_ *glsp.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	content, ok := s.docs.Get(string(params.TextDocument.URI))
	if !ok {
		return nil, nil
	}
	return &protocol.SemanticTokens{Data: semanticTokensFull(content)}, nil
}
