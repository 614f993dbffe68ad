// Command seed creates the schema, loads the reference dataset and
// indexes the provider documents. Meant to run once before the API
// server, typically as an init container.
package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"

	intconfig "github.com/shagatomte19/bus-booking-system-rag/internal/config"
	"github.com/shagatomte19/bus-booking-system-rag/internal/rag"
	"github.com/shagatomte19/bus-booking-system-rag/internal/seed"
	"github.com/shagatomte19/bus-booking-system-rag/internal/vectorstore/chroma"
)

const (
	maxAttempts = 15
	retryDelay  = 2 * time.Second
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
	env := intconfig.LoadEnv()

	db, err := intconfig.Open(env)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// the database container may still be starting
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err = db.PingContext(ctx)
		cancel()
		if err == nil {
			break
		}
		log.Printf("[SEED] action=wait msg=database not ready (attempt %d/%d): %v", attempt, maxAttempts, err)
		time.Sleep(retryDelay)
	}
	if err != nil {
		log.Fatalf("database never became ready: %v", err)
	}

	if err := seed.EnsureSchema(db); err != nil {
		log.Fatalf("schema creation failed: %v", err)
	}
	if err := seed.Run(db, env.SeedDataPath); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}

	if env.ChromaHost == "" || env.EmbedAPIKey == "" {
		log.Println("[SEED] action=index msg=skipping document indexing (no Chroma host or embeddings key)")
		return
	}

	client, err := openai.New(
		openai.WithToken(env.EmbedAPIKey),
		openai.WithBaseURL(env.EmbedBaseURL),
		openai.WithEmbeddingModel(env.EmbedModel),
	)
	if err != nil {
		log.Fatalf("failed to build embeddings client: %v", err)
	}
	embedder, err := embeddings.NewEmbedder(client)
	if err != nil {
		log.Fatalf("failed to build embedder: %v", err)
	}

	var store *chroma.Store
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		store, err = chroma.New(ctx, chroma.Config{
			Host:       env.ChromaHost,
			Port:       env.ChromaPort,
			Collection: env.CollectionName,
			Embedder:   embedder,
		})
		cancel()
		if err == nil {
			break
		}
		log.Printf("[SEED] action=wait msg=chroma not ready (attempt %d/%d): %v", attempt, maxAttempts, err)
		time.Sleep(retryDelay)
	}
	if err != nil {
		log.Fatalf("chroma never became ready: %v", err)
	}

	pipeline := rag.NewPipeline(store, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	if err := pipeline.IndexDocuments(ctx, env.ProviderDocsDir); err != nil {
		log.Fatalf("document indexing failed: %v", err)
	}

	log.Println("[SEED] action=done msg=seed completed")
}
