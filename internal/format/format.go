package format

import (
	"cmp"
	"regexp"
	"slices"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
)

var multipleBlankLines = regexp.MustCompile(`\n{3,}`)
var blankLineAfterOpenBrace = regexp.MustCompile(`\{\n\s*\n`)
var blankLineBeforeCloseBrace = regexp.MustCompile(`\n\s*\n(\s*\})`)
var hexLiteral = regexp.MustCompile(`"#(?:[0-9a-fA-F]{6}|[0-9a-fA-F]{3})"`)

// attributeOrder is the canonical attribute order per block type.
// Attributes not listed keep their relative order after the listed ones.
var attributeOrder = map[string][]string{
	"settings": {"max_history", "variation_steps"},
	"history":  {"color", "timestamp", "generated"},
	"pinned":   {"color", "timestamp", "generated"},
}

// Format takes HCL source content and returns it formatted according to
// HCL canonical style rules. It uses hclwrite.Format which handles
// indentation, spacing, and newline normalization. Hex color literals are
// upper-cased and block attributes are put in canonical order.
//
// The formatter works even on partial/invalid HCL, making it suitable
// for use while the user is still typing. Reordering is skipped when the
// content does not parse.
func Format(content string) (string, error) {
	src := reorderAttributes([]byte(content))
	formatted := hclwrite.Format(src)
	// Collapse multiple consecutive blank lines into a single blank line.
	collapsed := multipleBlankLines.ReplaceAllString(string(formatted), "\n\n")
	// Remove blank lines immediately after opening braces.
	collapsed = blankLineAfterOpenBrace.ReplaceAllString(collapsed, "{\n")
	// Remove blank lines immediately before closing braces.
	collapsed = blankLineBeforeCloseBrace.ReplaceAllString(collapsed, "\n${1}")
	collapsed = hexLiteral.ReplaceAllStringFunc(collapsed, strings.ToUpper)
	return collapsed, nil
}

// reorderAttributes rewrites top-level blocks whose attributes are out of
// canonical order. Comments attached to an attribute move with it.
func reorderAttributes(src []byte) []byte {
	syntaxFile, diags := hclsyntax.ParseConfig(src, "", hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return src
	}
	writeFile, diags := hclwrite.ParseConfig(src, "", hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return src
	}

	syntaxBlocks := syntaxFile.Body.(*hclsyntax.Body).Blocks
	writeBlocks := writeFile.Body().Blocks()
	if len(syntaxBlocks) != len(writeBlocks) {
		return src
	}

	changed := false
	for i, block := range syntaxBlocks {
		order, ok := attributeOrder[block.Type]
		if !ok {
			continue
		}
		current := sourceOrder(block.Body)
		want := canonicalOrder(current, order)
		if slices.Equal(current, want) {
			continue
		}

		body := writeBlocks[i].Body()
		attrs := make(map[string]*hclwrite.Attribute, len(want))
		for _, name := range want {
			attrs[name] = body.RemoveAttribute(name)
		}
		for _, name := range want {
			body.AppendUnstructuredTokens(attrs[name].BuildTokens(nil))
		}
		changed = true
	}

	if !changed {
		return src
	}
	return writeFile.Bytes()
}

// sourceOrder lists a body's attribute names in the order they appear.
func sourceOrder(body *hclsyntax.Body) []string {
	attrs := make([]*hclsyntax.Attribute, 0, len(body.Attributes))
	for _, a := range body.Attributes {
		attrs = append(attrs, a)
	}
	slices.SortFunc(attrs, func(a, b *hclsyntax.Attribute) int {
		return cmp.Compare(a.SrcRange.Start.Byte, b.SrcRange.Start.Byte)
	})

	names := make([]string, len(attrs))
	for i, a := range attrs {
		names[i] = a.Name
	}
	return names
}

func canonicalOrder(names, order []string) []string {
	rank := func(name string) int {
		if i := slices.Index(order, name); i >= 0 {
			return i
		}
		return len(order)
	}
	sorted := slices.Clone(names)
	slices.SortStableFunc(sorted, func(a, b string) int {
		return cmp.Compare(rank(a), rank(b))
	})
	return sorted
}
