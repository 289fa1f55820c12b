package lsp

import (
	"testing"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

func TestNewServer_RegistersHandlers(t *testing.T) {
	s := NewServer("test", 0)
	h := &s.handler

	registered := map[string]bool{
		"initialize":                     h.Initialize != nil,
		"textDocument/didOpen":           h.TextDocumentDidOpen != nil,
		"textDocument/didChange":         h.TextDocumentDidChange != nil,
		"textDocument/didClose":          h.TextDocumentDidClose != nil,
		"textDocument/hover":             h.TextDocumentHover != nil,
		"textDocument/completion":        h.TextDocumentCompletion != nil,
		"textDocument/documentColor":     h.TextDocumentColor != nil,
		"textDocument/colorPresentation": h.TextDocumentColorPresentation != nil,
		"textDocument/formatting":        h.TextDocumentFormatting != nil,
		"textDocument/semanticTokens":    h.TextDocumentSemanticTokensFull != nil,
	}
	for method, ok := range registered {
		if !ok {
			t.Errorf("no handler registered for %s", method)
		}
	}
}

func TestInitialize_Capabilities(t *testing.T) {
	s := NewServer("1.2.3", 0)

	res, err := s.initialize(nil, &protocol.InitializeParams{})
	if err != nil {
		t.Fatalf("initialize() error: %v", err)
	}
	result, ok := res.(protocol.InitializeResult)
	if !ok {
		t.Fatalf("initialize() returned %T, want protocol.InitializeResult", res)
	}

	caps := result.Capabilities
	if caps.ColorProvider == nil {
		t.Error("expected a color provider")
	}
	if caps.HoverProvider == nil {
		t.Error("expected a hover provider")
	}
	if caps.DocumentFormattingProvider == nil {
		t.Error("expected a formatting provider")
	}
	if caps.CompletionProvider == nil {
		t.Error("expected a completion provider")
	}
	if caps.SemanticTokensProvider == nil {
		t.Error("expected a semantic tokens provider")
	}
	if result.ServerInfo == nil || result.ServerInfo.Name != serverName {
		t.Errorf("server info = %+v, want name %q", result.ServerInfo, serverName)
	}
	if v := result.ServerInfo.Version; v == nil || *v != "1.2.3" {
		t.Errorf("server version = %v, want 1.2.3", v)
	}
}

func TestDidOpenCachesAnalysis(t *testing.T) {
	s := NewServer("test", 0)
	uri := "file:///swatch.hcl"

	err := s.textDocumentDidOpen(nil, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:     protocol.DocumentUri(uri),
			Text:    "current = \"#3B1E54\"\n",
			Version: 1,
		},
	})
	if err != nil {
		t.Fatalf("didOpen error: %v", err)
	}

	colors, err := s.textDocumentDocumentColor(nil, &protocol.DocumentColorParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: protocol.DocumentUri(uri)},
	})
	if err != nil {
		t.Fatalf("documentColor error: %v", err)
	}
	if len(colors) != 1 {
		t.Fatalf("got %d colors, want 1", len(colors))
	}

	if err := s.textDocumentDidClose(nil, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: protocol.DocumentUri(uri)},
	}); err != nil {
		t.Fatalf("didClose error: %v", err)
	}
	if s.getResult(uri) != nil {
		t.Error("analysis still cached after close")
	}
}
