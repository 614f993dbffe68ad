// Package vectorstore defines the document store used by the RAG
// pipeline plus the embedding capability it depends on.
package vectorstore

import "context"

// Chunk types stored per provider document.
const (
	ChunkComplete = "complete"
	ChunkContact  = "contact"
	ChunkAddress  = "address"
)

// Metadata classifies one indexed chunk.
type Metadata struct {
	Provider   string `json:"provider"`
	SourceFile string `json:"source_file"`
	ChunkType  string `json:"chunk_type"`
}

// Document is one retrievable unit of indexed text. IDs follow the
// "{provider}_{chunk_type}" convention.
type Document struct {
	ID   string
	Text string
	Meta Metadata
}

// Store persists document chunks and answers similarity queries.
type Store interface {
	Add(ctx context.Context, docs []Document) error
	Query(ctx context.Context, text string, topK int) ([]Document, error)
	Count(ctx context.Context) (int, error)
	Reset(ctx context.Context) error
}

// Embedder converts text into embedding vectors. The langchaingo
// embeddings.Embedder satisfies this interface.
type Embedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}
