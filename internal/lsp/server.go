package lsp

import (
	"sync"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

const serverName = "swatch-lsp"

type Server struct {
	handler   protocol.Handler
	docs      *DocumentStore
	version   string
	verbosity int
	log       commonlog.Logger

	mu      sync.RWMutex
	results map[string]*AnalysisResult
}

func NewServer(version string, verbosity int) *Server {
	s := &Server{
		docs:      NewDocumentStore(),
		version:   version,
		verbosity: verbosity,
		log:       commonlog.GetLogger("colorswap.lsp"),
		results:   make(map[string]*AnalysisResult),
	}

	s.handler = protocol.Handler{
		Initialize:                     s.initialize,
		Initialized:                    s.initialized,
		Shutdown:                       s.shutdown,
		SetTrace:                       s.setTrace,
		TextDocumentDidOpen:            s.textDocumentDidOpen,
		TextDocumentDidChange:          s.textDocumentDidChange,
		TextDocumentDidClose:           s.textDocumentDidClose,
		TextDocumentHover:              s.textDocumentHover,
		TextDocumentCompletion:         s.textDocumentCompletion,
		TextDocumentColor:              s.textDocumentDocumentColor,
		TextDocumentColorPresentation:  s.textDocumentColorPresentation,
		TextDocumentFormatting:         s.textDocumentFormatting,
		TextDocumentSemanticTokensFull: s.textDocumentSemanticTokensFull,
	}

	return s
}

func (s *Server) Run() error {
	commonlog.Configure(s.verbosity, nil)
	srv := server.NewServer(&s.handler, serverName, false)
	return srv.RunStdio()
}

func (s *Server) initialize(_ *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := s.handler.CreateServerCapabilities()

	syncKind := protocol.TextDocumentSyncKindFull
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: &protocol.True,
		Change:    &syncKind,
	}
	capabilities.CompletionProvider = &protocol.CompletionOptions{
		TriggerCharacters: []string{"=", "(", `"`},
	}
	capabilities.SemanticTokensProvider = &protocol.SemanticTokensOptions{
		Legend: semanticTokensLegend(),
		Full:   true,
	}

	if params.ClientInfo != nil {
		s.log.Infof("initializing for %s", params.ClientInfo.Name)
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    serverName,
			Version: &s.version,
		},
	}, nil
}

func (s *Server) initialized(_ *glsp.Context, _ *protocol.InitializedParams) error {
	return nil
}

func (s *Server) shutdown(_ *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

func (s *Server) setTrace(_ *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	uri := string(params.TextDocument.URI)
	s.docs.Open(uri, params.TextDocument.Text, params.TextDocument.Version)
	s.analyze(ctx, uri)
	return nil
}

func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := string(params.TextDocument.URI)
	for _, change := range params.ContentChanges {
		if c, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			s.docs.Update(uri, c.Text, params.TextDocument.Version)
		}
	}
	s.analyze(ctx, uri)
	return nil
}

func (s *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := string(params.TextDocument.URI)
	s.docs.Close(uri)

	s.mu.Lock()
	delete(s.results, uri)
	s.mu.Unlock()

	// clear stale diagnostics in the editor
	s.publish(ctx, uri, nil, nil)
	return nil
}

// analyze re-analyzes uri, caches the result and publishes its diagnostics.
func (s *Server) analyze(ctx *glsp.Context, uri string) {
	content, ok := s.docs.Get(uri)
	if !ok {
		return
	}

	result := Analyze(uri, content)

	s.mu.Lock()
	s.results[uri] = result
	s.mu.Unlock()

	s.log.Debugf("analyzed %s: %d diagnostics, %d colors", uri, len(result.Diagnostics), len(result.Colors))

	var version *protocol.UInteger
	if v, ok := s.docs.Version(uri); ok {
		u := protocol.UInteger(v)
		version = &u
	}
	s.publish(ctx, uri, version, result.Diagnostics)
}

func (s *Server) publish(ctx *glsp.Context, uri string, version *protocol.UInteger, diags []protocol.Diagnostic) {
	if ctx == nil {
		return
	}
	if diags == nil {
		diags = []protocol.Diagnostic{}
	}
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         protocol.DocumentUri(uri),
		Version:     version,
		Diagnostics: diags,
	})
}

// getResult returns the cached analysis for uri, or nil if it is not open.
func (s *Server) getResult(uri string) *AnalysisResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.results[uri]
}
