// Package memory is an in-process vector store using brute-force cosine
// similarity. It backs tests and local runs without a Chroma server.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/shagatomte19/bus-booking-system-rag/internal/vectorstore"
)

// ErrNoEmbedder is returned when the store was built without an
// embeddings client (no API key configured).
var ErrNoEmbedder = errors.New("memory: no embedder configured")

type entry struct {
	doc    vectorstore.Document
	vector []float32
}

type Store struct {
	mu       sync.RWMutex
	embedder vectorstore.Embedder
	entries  []entry
}

func New(embedder vectorstore.Embedder) *Store {
	return &Store{embedder: embedder}
}

// Add upserts documents keyed by ID.
func (s *Store) Add(ctx context.Context, docs []vectorstore.Document) error {
	if len(docs) == 0 {
		return nil
	}
	if s.embedder == nil {
		return ErrNoEmbedder
	}
	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Text
	}
	vectors, err := s.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, d := range docs {
		replaced := false
		for j := range s.entries {
			if s.entries[j].doc.ID == d.ID {
				s.entries[j] = entry{doc: d, vector: vectors[i]}
				replaced = true
				break
			}
		}
		if !replaced {
			s.entries = append(s.entries, entry{doc: d, vector: vectors[i]})
		}
	}
	return nil
}

func (s *Store) Query(ctx context.Context, text string, topK int) ([]vectorstore.Document, error) {
	if topK <= 0 {
		topK = 5
	}
	if s.embedder == nil {
		return nil, ErrNoEmbedder
	}
	vector, err := s.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	type scored struct {
		doc   vectorstore.Document
		score float32
	}
	results := make([]scored, 0, len(s.entries))
	for _, e := range s.entries {
		results = append(results, scored{doc: e.doc, score: dot(e.vector, vector)})
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].score > results[j].score })

	if topK > len(results) {
		topK = len(results)
	}
	out := make([]vectorstore.Document, 0, topK)
	for i := 0; i < topK; i++ {
		out = append(out, results[i].doc)
	}
	return out, nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries), nil
}

func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	return nil
}

func dot(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float32
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
