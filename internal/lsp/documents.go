package lsp

import "sync"

// document is an open editor buffer.
type document struct {
	content string
	version int32
}

// DocumentStore holds open document contents keyed by URI.
type DocumentStore struct {
	mu   sync.RWMutex
	docs map[string]document
}

func NewDocumentStore() *DocumentStore {
	return &DocumentStore{docs: make(map[string]document)}
}

func (s *DocumentStore) Open(uri, content string, version int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[uri] = document{content: content, version: version}
}

// Update replaces the content of uri. Updates older than the stored version
// are ignored.
func (s *DocumentStore) Update(uri, content string, version int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.docs[uri]; ok && version < old.version {
		return
	}
	s.docs[uri] = document{content: content, version: version}
}

func (s *DocumentStore) Close(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, uri)
}

func (s *DocumentStore) Get(uri string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[uri]
	return doc.content, ok
}

// Version returns the stored version of uri.
func (s *DocumentStore) Version(uri string) (int32, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[uri]
	return doc.version, ok
}
