// Package rag indexes provider documents into the vector store and
// answers free-text questions grounded on the retrieved chunks.
package rag

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/tmc/langchaingo/llms"

	"github.com/shagatomte19/bus-booking-system-rag/internal/llm"
	"github.com/shagatomte19/bus-booking-system-rag/internal/vectorstore"
)

const docBoundary = "\n\n=== DOCUMENT START ===\n\n"

const answerPromptTemplate = `You are a helpful assistant for a bus ticket booking system. Answer the user's question based ONLY on the information provided below.

IMPORTANT:
- Use ALL the information from the documents below
- Format your response in a clean, readable way
- If contact details exist, format them with emojis: 📍 for address, 📞 for phone, 📧 for email, 🌐 for website
- Use bullet points or numbered lists for clarity
- Do not say information is missing if it's in the documents
- Keep the response concise but complete

=== DOCUMENTS ===
%s

=== USER QUESTION ===
%s

Provide a well-formatted answer using ALL relevant information from the documents above.`

// Pipeline composes the vector store and the LLM. A nil Completer means
// generation runs in degraded mode.
type Pipeline struct {
	Store vectorstore.Store
	LLM   llm.Completer
}

func NewPipeline(store vectorstore.Store, completer llm.Completer) *Pipeline {
	return &Pipeline{Store: store, LLM: completer}
}

// Result is the outcome of one RAG question.
type Result struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
}

// IndexDocuments reads every .txt file under dir into the vector store.
// Indexing is skipped entirely when the collection already holds
// documents; there is no incremental re-index.
func (p *Pipeline) IndexDocuments(ctx context.Context, dir string) error {
	files, err := filepath.Glob(filepath.Join(dir, "*.txt"))
	if err != nil {
		return err
	}
	if len(files) == 0 {
		log.Printf("[RAG] action=index msg=no provider files found in %s", dir)
		return nil
	}

	count, err := p.Store.Count(ctx)
	if err != nil {
		return fmt.Errorf("rag: count documents: %w", err)
	}
	if count > 0 {
		log.Printf("[RAG] action=index msg=collection already has %d documents, skipping", count)
		return nil
	}

	var docs []vectorstore.Document
	for _, path := range files {
		content, err := os.ReadFile(path)
		if err != nil {
			log.Printf("[RAG] action=index msg=error reading %s: %v", path, err)
			continue
		}
		provider := providerNameFromFile(path)
		chunks := buildChunks(provider, filepath.Base(path), string(content))
		docs = append(docs, chunks...)
		log.Printf("[RAG] action=index msg=prepared %s: %d chunks", provider, len(chunks))
	}

	if len(docs) == 0 {
		return nil
	}
	if err := p.Store.Add(ctx, docs); err != nil {
		return fmt.Errorf("rag: add documents: %w", err)
	}
	log.Printf("[RAG] action=index msg=indexed %d document chunks", len(docs))
	return nil
}

// Reindex drops the collection and indexes dir from scratch, returning
// the resulting document count.
func (p *Pipeline) Reindex(ctx context.Context, dir string) (int, error) {
	if err := p.Store.Reset(ctx); err != nil {
		return 0, fmt.Errorf("rag: reset collection: %w", err)
	}
	if err := p.IndexDocuments(ctx, dir); err != nil {
		return 0, err
	}
	return p.Store.Count(ctx)
}

// RetrieveContext fetches similarity hits and re-ranks them: complete
// chunks of providers named in the query first, then contact/address
// chunks, then the remainder in store order, de-duplicated by text.
// The re-rank only reorders the window the store returned.
func (p *Pipeline) RetrieveContext(ctx context.Context, query string, topK int) ([]vectorstore.Document, error) {
	fetch := topK + 3
	if fetch > 10 {
		fetch = 10
	}
	hits, err := p.Store.Query(ctx, query, fetch)
	if err != nil {
		log.Printf("[RAG] action=retrieve msg=error retrieving context: %v", err)
		return []vectorstore.Document{}, nil
	}

	queryLower := strings.ToLower(query)
	mentioned := map[string]bool{}
	for _, h := range hits {
		if h.Meta.Provider != "" && strings.Contains(queryLower, strings.ToLower(h.Meta.Provider)) {
			mentioned[h.Meta.Provider] = true
		}
	}

	final := []vectorstore.Document{}
	seen := map[string]bool{}

	for _, h := range hits {
		if h.Meta.ChunkType == vectorstore.ChunkComplete && mentioned[h.Meta.Provider] {
			final = append(final, h)
			seen[h.Text] = true
		}
	}
	for _, h := range hits {
		if h.Meta.ChunkType == vectorstore.ChunkContact || h.Meta.ChunkType == vectorstore.ChunkAddress {
			if !seen[h.Text] {
				final = append(final, h)
				seen[h.Text] = true
			}
		}
	}
	for _, h := range hits {
		if !seen[h.Text] && len(final) < topK {
			final = append(final, h)
			seen[h.Text] = true
		}
	}

	if len(final) > topK {
		final = final[:topK]
	}
	return final, nil
}

// GenerateAnswer asks the LLM to answer strictly from the supplied
// chunks. Failures degrade to fixed strings; they are never propagated.
func (p *Pipeline) GenerateAnswer(ctx context.Context, query string, docs []vectorstore.Document) string {
	if p.LLM == nil {
		return "Error: LLM API key not configured. Please set LLM_API_KEY environment variable."
	}
	if len(docs) == 0 {
		return "I couldn't find any relevant information about that in the bus provider documents."
	}

	parts := make([]string, len(docs))
	for i, d := range docs {
		parts[i] = fmt.Sprintf("Provider: %s\nContent:\n%s", d.Meta.Provider, d.Text)
	}
	prompt := fmt.Sprintf(answerPromptTemplate, strings.Join(parts, docBoundary), query)

	answer, err := p.LLM.Complete(ctx, prompt, llms.WithMaxTokens(1000), llms.WithTemperature(0.3))
	if err != nil {
		log.Printf("[RAG] action=generate msg=error generating answer: %v", err)
		return fmt.Sprintf("Error generating response: %v", err)
	}
	return answer
}

// Ask runs retrieval plus generation. Sources is the de-duplicated set
// of provider names among the retrieved chunks.
func (p *Pipeline) Ask(ctx context.Context, question string) Result {
	docs, _ := p.RetrieveContext(ctx, question, 5)
	answer := p.GenerateAnswer(ctx, question, docs)

	sources := []string{}
	seen := map[string]bool{}
	for _, d := range docs {
		if d.Meta.Provider != "" && !seen[d.Meta.Provider] {
			seen[d.Meta.Provider] = true
			sources = append(sources, d.Meta.Provider)
		}
	}
	return Result{Answer: answer, Sources: sources}
}
