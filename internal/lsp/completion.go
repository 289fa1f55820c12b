package lsp

import (
	"fmt"
	"strings"

	"github.com/jsvensson/colorswap/internal/swatchfile"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// splitLines splits content into lines, preserving empty trailing lines.
func splitLines(content string) []string {
	return strings.Split(content, "\n")
}

// blockContext represents the kind of block the cursor is in.
type blockContext int

const (
	contextRoot     blockContext = iota
	contextSettings              // inside settings {}
	contextEntry                 // inside history {} or pinned {}
	contextUnknown               // inside any other block
)

// topLevelBlocks are the valid top-level block names.
var topLevelBlocks = []string{"settings", "history", "pinned"}

// blockAttributes lists the attributes valid in each context.
var blockAttributes = map[blockContext][]string{
	contextRoot:     {"current"},
	contextSettings: {"max_history", "variation_steps"},
	contextEntry:    {"color", "timestamp", "generated"},
}

// functionSnippets are the insert texts for color functions at a value position.
var functionSnippets = map[string]string{
	"hex":   `hex("${1:#000000}")`,
	"rgb":   "rgb(${1:r}, ${2:g}, ${3:b})",
	"cmyk":  "cmyk(${1:c}, ${2:m}, ${3:y}, ${4:k})",
	"hsl":   "hsl(${1:h}, ${2:s}, ${3:l})",
	"hsv":   "hsv(${1:h}, ${2:s}, ${3:v})",
	"named": `named("${1:indigo}")`,
	"tint":  "tint(${1:color}, ${2:0.15})",
	"shade": "shade(${1:color}, ${2:0.15})",
}

// complete produces completion items given an analysis result, document content,
// and cursor position. This is the core logic, decoupled from the LSP protocol
// handler for testability.
func complete(result *AnalysisResult, content string, pos protocol.Position) []protocol.CompletionItem {
	lines := splitLines(content)
	if int(pos.Line) >= len(lines) {
		return nil
	}

	line := lines[pos.Line]
	charPos := min(int(pos.Character), len(line))
	textBeforeCursor := line[:charPos]

	// Inside named("...") offer CSS color names
	if isNamedArgument(textBeforeCursor) {
		return colorNameCompletions()
	}

	// Check for value position (after "=" or an open paren): offer functions
	if isValuePosition(textBeforeCursor) {
		return valueCompletions()
	}

	// Determine which block the cursor is in by scanning backwards
	ctx := determineBlockContext(lines, int(pos.Line))

	switch ctx {
	case contextRoot:
		items := attributeCompletions(ctx, lines, int(pos.Line), result)
		return append(items, topLevelCompletions()...)
	case contextSettings, contextEntry:
		return attributeCompletions(ctx, lines, int(pos.Line), result)
	}

	return nil
}

// isNamedArgument reports whether the cursor sits inside the string argument
// of an unfinished named(" call.
func isNamedArgument(textBeforeCursor string) bool {
	idx := strings.LastIndex(textBeforeCursor, `named("`)
	if idx == -1 {
		return false
	}
	return !strings.Contains(textBeforeCursor[idx+len(`named("`):], `"`)
}

// isValuePosition returns true if the text before the cursor indicates we are
// at a value position: after an "=" sign, an open paren or a comma, with
// nothing meaningful following it.
func isValuePosition(textBeforeCursor string) bool {
	trimmed := strings.TrimSpace(textBeforeCursor)
	if trimmed == "" {
		return false
	}
	if strings.HasSuffix(trimmed, "(") || (strings.HasSuffix(trimmed, ",") && strings.Contains(trimmed, "(")) {
		return true
	}
	eqIdx := strings.LastIndex(trimmed, "=")
	if eqIdx == -1 {
		return false
	}
	afterEq := strings.TrimSpace(trimmed[eqIdx+1:])
	return afterEq == ""
}

// valueCompletions returns function snippets for a value position.
func valueCompletions() []protocol.CompletionItem {
	snippetFormat := protocol.InsertTextFormatSnippet

	items := make([]protocol.CompletionItem, 0, len(swatchfile.FunctionNames))
	for _, name := range swatchfile.FunctionNames {
		snippet := functionSnippets[name]
		items = append(items, protocol.CompletionItem{
			Label:            name,
			Kind:             completionKindPtr(protocol.CompletionItemKindFunction),
			Detail:           strPtr(swatchfile.FunctionSignatures[name]),
			InsertText:       &snippet,
			InsertTextFormat: &snippetFormat,
		})
	}
	return items
}

// colorNameCompletions returns every CSS color name with its hex as detail.
func colorNameCompletions() []protocol.CompletionItem {
	names := swatchfile.ColorNames()
	kind := protocol.CompletionItemKindColor

	items := make([]protocol.CompletionItem, 0, len(names))
	for _, name := range names {
		c, err := swatchfile.LookupName(name)
		if err != nil {
			continue
		}
		hex := c.Hex()
		items = append(items, protocol.CompletionItem{
			Label:  name,
			Kind:   &kind,
			Detail: &hex,
			// editors draw a swatch for color items documented with a hex value
			Documentation: hex,
		})
	}
	return items
}

// determineBlockContext scans from the top of the file down to the cursor line
// to determine which block the cursor is in, using brace nesting.
func determineBlockContext(lines []string, cursorLine int) blockContext {
	var stack []string

	for i := 0; i <= cursorLine; i++ {
		line := strings.TrimSpace(lines[i])

		opens := strings.Count(line, "{")
		closes := strings.Count(line, "}")

		// Process opening braces: extract the block name (first word on the line)
		if opens > 0 {
			parts := strings.Fields(line)
			if len(parts) >= 1 {
				name := strings.TrimSuffix(parts[0], "{")
				for range opens {
					stack = append(stack, name)
				}
			}
		}

		// Process closing braces
		for range closes {
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}

	if len(stack) == 0 {
		return contextRoot
	}

	switch stack[len(stack)-1] {
	case "settings":
		return contextSettings
	case "history", "pinned":
		return contextEntry
	default:
		return contextUnknown
	}
}

// attributeCompletions returns the attributes valid in ctx, excluding names
// already defined in the block surrounding the cursor.
func attributeCompletions(ctx blockContext, lines []string, cursorLine int, result *AnalysisResult) []protocol.CompletionItem {
	defined := findDefinedAttributes(lines, cursorLine, ctx == contextRoot)
	kind := protocol.CompletionItemKindProperty

	var items []protocol.CompletionItem
	for _, name := range blockAttributes[ctx] {
		if defined[name] {
			continue
		}
		item := protocol.CompletionItem{
			Label: name,
			Kind:  &kind,
		}
		if detail := attributeDetail(name, result); detail != "" {
			item.Detail = &detail
		}
		items = append(items, item)
	}

	return items
}

// attributeDetail describes an attribute, using the decoded file for
// current values where one is known.
func attributeDetail(name string, result *AnalysisResult) string {
	var f *swatchfile.File
	if result != nil {
		f = result.File
	}
	switch name {
	case "current":
		if f != nil {
			return "current color, now " + f.Current.Hex()
		}
		return "current color"
	case "max_history":
		if f != nil {
			return fmt.Sprintf("history length, now %d", f.MaxHistory)
		}
		return "history length"
	case "variation_steps":
		return "tint and shade factors"
	case "color":
		return "hex string or color function"
	case "timestamp":
		return "unix milliseconds"
	case "generated":
		return "true for tint and shade variations"
	}
	return ""
}

// findDefinedAttributes scans the current block (from the nearest opening brace
// before cursorLine to its closing brace) and returns attribute names already
// defined (lines containing "name = ..."). At the root only top-level lines
// are considered.
func findDefinedAttributes(lines []string, cursorLine int, root bool) map[string]bool {
	defined := make(map[string]bool)

	if root {
		depth := 0
		for _, l := range lines {
			line := strings.TrimSpace(l)
			if depth == 0 {
				addDefined(defined, line)
			}
			depth += strings.Count(line, "{") - strings.Count(line, "}")
		}
		return defined
	}

	// Scan backwards to find the opening brace of the current block
	startLine := 0
	depth := 0
	for i := cursorLine; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		closes := strings.Count(line, "}")
		opens := strings.Count(line, "{")
		depth += closes - opens
		if depth < 0 {
			startLine = i + 1
			break
		}
	}

	// Scan forward until the block closes
	depth = 0
	for i := startLine; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if depth == 0 {
			addDefined(defined, line)
		}
		depth += strings.Count(line, "{") - strings.Count(line, "}")
		if depth < 0 {
			break
		}
	}

	return defined
}

func addDefined(defined map[string]bool, line string) {
	if eqIdx := strings.Index(line, "="); eqIdx > 0 {
		name := strings.TrimSpace(line[:eqIdx])
		if !strings.Contains(name, " ") && !strings.Contains(name, "{") {
			defined[name] = true
		}
	}
}

// topLevelCompletions returns completion items for top-level block names.
func topLevelCompletions() []protocol.CompletionItem {
	snippetFormat := protocol.InsertTextFormatSnippet
	kind := protocol.CompletionItemKindSnippet

	var items []protocol.CompletionItem
	for _, name := range topLevelBlocks {
		snippet := name + " {\n  $0\n}"
		if name != "settings" {
			snippet = name + " {\n  color = \"${1:#000000}\"\n  $0\n}"
		}
		items = append(items, protocol.CompletionItem{
			Label:            name,
			Kind:             &kind,
			InsertText:       &snippet,
			InsertTextFormat: &snippetFormat,
		})
	}

	return items
}

// completionKindPtr returns a pointer to a CompletionItemKind.
func completionKindPtr(k protocol.CompletionItemKind) *protocol.CompletionItemKind {
	return &k
}

// textDocumentCompletion is the LSP handler for textDocument/completion requests.
func (s *Server) textDocumentCompletion(_ *glsp.Context, params *protocol.CompletionParams) (any, error) {
	uri := string(params.TextDocument.URI)

	content, ok := s.docs.Get(uri)
	if !ok {
		return nil, nil
	}

	items := complete(s.getResult(uri), content, params.Position)
	return items, nil
}
