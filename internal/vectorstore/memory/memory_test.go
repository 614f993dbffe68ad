package memory

import (
	"context"
	"testing"

	"github.com/shagatomte19/bus-booking-system-rag/internal/vectorstore"
)

// axisEmbedder maps known texts to fixed unit vectors.
type axisEmbedder struct {
	vectors map[string][]float32
}

func (e axisEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = e.vectors[t]
	}
	return out, nil
}

func (e axisEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return e.vectors[text], nil
}

func TestQueryRanksBySimilarity(t *testing.T) {
	emb := axisEmbedder{vectors: map[string][]float32{
		"contact info": {1, 0, 0},
		"route info":   {0, 1, 0},
		"baggage info": {0.9, 0.1, 0},
		"phones?":      {1, 0, 0},
	}}
	s := New(emb)

	docs := []vectorstore.Document{
		{ID: "a", Text: "contact info"},
		{ID: "b", Text: "route info"},
		{ID: "c", Text: "baggage info"},
	}
	if err := s.Add(context.Background(), docs); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	hits, err := s.Query(context.Background(), "phones?", 2)
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if len(hits) != 2 || hits[0].ID != "a" || hits[1].ID != "c" {
		t.Fatalf("unexpected ranking: %+v", hits)
	}
}

func TestAddUpsertsByID(t *testing.T) {
	emb := axisEmbedder{vectors: map[string][]float32{
		"old": {1, 0},
		"new": {0, 1},
	}}
	s := New(emb)

	if err := s.Add(context.Background(), []vectorstore.Document{{ID: "a", Text: "old"}}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := s.Add(context.Background(), []vectorstore.Document{{ID: "a", Text: "new"}}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	count, err := s.Count(context.Background())
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 1 {
		t.Fatalf("upsert should not grow the store, count=%d", count)
	}
}

func TestResetEmptiesStore(t *testing.T) {
	emb := axisEmbedder{vectors: map[string][]float32{"x": {1}}}
	s := New(emb)
	if err := s.Add(context.Background(), []vectorstore.Document{{ID: "a", Text: "x"}}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := s.Reset(context.Background()); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	count, _ := s.Count(context.Background())
	if count != 0 {
		t.Fatalf("expected empty store after reset, count=%d", count)
	}
}

func TestNilEmbedderIsAnError(t *testing.T) {
	s := New(nil)
	if err := s.Add(context.Background(), []vectorstore.Document{{ID: "a", Text: "x"}}); err != ErrNoEmbedder {
		t.Fatalf("expected ErrNoEmbedder, got %v", err)
	}
	if _, err := s.Query(context.Background(), "x", 3); err != ErrNoEmbedder {
		t.Fatalf("expected ErrNoEmbedder, got %v", err)
	}
}
