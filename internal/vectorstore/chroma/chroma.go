// Package chroma is a minimal REST client to a Chroma server, covering
// only the operations the RAG pipeline needs: get-or-create collection,
// add, query, count, and reset.
package chroma

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shagatomte19/bus-booking-system-rag/internal/vectorstore"
)

type Config struct {
	Host       string
	Port       string
	Collection string
	Embedder   vectorstore.Embedder
	Timeout    time.Duration
}

type Store struct {
	baseURL      string
	collection   string
	collectionID string
	embedder     vectorstore.Embedder
	client       *http.Client
}

// New connects to the Chroma server and resolves (or creates) the
// target collection.
func New(ctx context.Context, cfg Config) (*Store, error) {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	s := &Store{
		baseURL:    fmt.Sprintf("http://%s:%s/api/v1", cfg.Host, cfg.Port),
		collection: cfg.Collection,
		embedder:   cfg.Embedder,
		client:     &http.Client{Timeout: timeout},
	}
	if err := s.ensureCollection(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureCollection(ctx context.Context) error {
	body := map[string]any{
		"name":          s.collection,
		"get_or_create": true,
		"metadata":      map[string]any{"description": "Bus provider information and policies"},
	}
	var out struct {
		ID string `json:"id"`
	}
	if err := s.postJSON(ctx, s.baseURL+"/collections", body, &out); err != nil {
		return fmt.Errorf("chroma: create collection: %w", err)
	}
	s.collectionID = out.ID
	return nil
}

func (s *Store) Add(ctx context.Context, docs []vectorstore.Document) error {
	if len(docs) == 0 {
		return nil
	}
	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Text
	}
	vectors, err := s.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return fmt.Errorf("chroma: embed documents: %w", err)
	}

	ids := make([]string, len(docs))
	metadatas := make([]map[string]any, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
		metadatas[i] = map[string]any{
			"provider":    d.Meta.Provider,
			"source_file": d.Meta.SourceFile,
			"chunk_type":  d.Meta.ChunkType,
		}
	}

	body := map[string]any{
		"ids":        ids,
		"embeddings": vectors,
		"documents":  texts,
		"metadatas":  metadatas,
	}
	url := fmt.Sprintf("%s/collections/%s/add", s.baseURL, s.collectionID)
	if err := s.postJSON(ctx, url, body, nil); err != nil {
		return fmt.Errorf("chroma: add documents: %w", err)
	}
	return nil
}

func (s *Store) Query(ctx context.Context, text string, topK int) ([]vectorstore.Document, error) {
	if topK <= 0 {
		topK = 5
	}
	vector, err := s.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("chroma: embed query: %w", err)
	}

	body := map[string]any{
		"query_embeddings": [][]float32{vector},
		"n_results":        topK,
		"include":          []string{"documents", "metadatas"},
	}
	var out struct {
		IDs       [][]string         `json:"ids"`
		Documents [][]string         `json:"documents"`
		Metadatas [][]map[string]any `json:"metadatas"`
	}
	url := fmt.Sprintf("%s/collections/%s/query", s.baseURL, s.collectionID)
	if err := s.postJSON(ctx, url, body, &out); err != nil {
		return nil, fmt.Errorf("chroma: query: %w", err)
	}
	if len(out.Documents) == 0 {
		return []vectorstore.Document{}, nil
	}

	docs := make([]vectorstore.Document, 0, len(out.Documents[0]))
	for i, text := range out.Documents[0] {
		doc := vectorstore.Document{Text: text}
		if len(out.IDs) > 0 && i < len(out.IDs[0]) {
			doc.ID = out.IDs[0][i]
		}
		if len(out.Metadatas) > 0 && i < len(out.Metadatas[0]) {
			meta := out.Metadatas[0][i]
			if v, ok := meta["provider"].(string); ok {
				doc.Meta.Provider = v
			}
			if v, ok := meta["source_file"].(string); ok {
				doc.Meta.SourceFile = v
			}
			if v, ok := meta["chunk_type"].(string); ok {
				doc.Meta.ChunkType = v
			}
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	url := fmt.Sprintf("%s/collections/%s/count", s.baseURL, s.collectionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return 0, fmt.Errorf("chroma: count failed: %s", resp.Status)
	}
	var count int
	if err := json.NewDecoder(resp.Body).Decode(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// Reset drops and recreates the collection.
func (s *Store) Reset(ctx context.Context) error {
	url := fmt.Sprintf("%s/collections/%s", s.baseURL, s.collection)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return s.ensureCollection(ctx)
}

func (s *Store) postJSON(ctx context.Context, url string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("POST %s failed: %s: %s", url, resp.Status, bytes.TrimSpace(payload))
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
