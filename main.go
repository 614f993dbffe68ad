package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"

	intconfig "github.com/shagatomte19/bus-booking-system-rag/internal/config"
	api "github.com/shagatomte19/bus-booking-system-rag/internal/http"
	"github.com/shagatomte19/bus-booking-system-rag/internal/http/handlers"
	"github.com/shagatomte19/bus-booking-system-rag/internal/llm"
	"github.com/shagatomte19/bus-booking-system-rag/internal/queryrouter"
	"github.com/shagatomte19/bus-booking-system-rag/internal/rag"
	"github.com/shagatomte19/bus-booking-system-rag/internal/repositories"
	"github.com/shagatomte19/bus-booking-system-rag/internal/services"
	"github.com/shagatomte19/bus-booking-system-rag/internal/vectorstore"
	"github.com/shagatomte19/bus-booking-system-rag/internal/vectorstore/chroma"
	"github.com/shagatomte19/bus-booking-system-rag/internal/vectorstore/memory"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	env := intconfig.LoadEnv()
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	db := intconfig.ConnectDB(env)
	defer intconfig.CloseDB()

	routerLLM := newCompleter(env.LLMAPIKey, env.LLMBaseURL, env.RouterModel)
	ragLLM := newCompleter(env.LLMAPIKey, env.LLMBaseURL, env.RAGModel)

	embedder := newEmbedder(env)
	store := newStore(env, embedder)

	pipeline := rag.NewPipeline(store, ragLLM)

	indexCtx, cancelIndex := context.WithTimeout(context.Background(), 2*time.Minute)
	if err := pipeline.IndexDocuments(indexCtx, env.ProviderDocsDir); err != nil {
		log.Printf("warning: document indexing failed: %v", err)
	}
	cancelIndex()

	districtRepo := repositories.DistrictRepo{DB: db}
	providerRepo := repositories.ProviderRepo{DB: db}
	bookingRepo := repositories.BookingRepo{DB: db}

	searchSvc := services.SearchService{DistrictRepo: districtRepo, ProviderRepo: providerRepo, DB: db}
	bookingSvc := services.BookingService{BookingRepo: bookingRepo, ProviderRepo: providerRepo, DB: db}
	ticketSvc := services.TicketService{Bookings: bookingSvc}

	qr := &queryrouter.Router{
		LLM:       routerLLM,
		RAG:       pipeline,
		Search:    searchSvc,
		Districts: districtRepo,
	}

	handlerSet := &handlers.API{
		Env:       env,
		Bookings:  bookingSvc,
		Search:    searchSvc,
		Tickets:   ticketSvc,
		Districts: districtRepo,
		Providers: providerRepo,
		Router:    qr,
		RAG:       pipeline,
	}

	r := api.NewRouter(handlerSet)

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("server listening on http://localhost%s", env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server shutdown failed: %v", err)
	}

	log.Println("server stopped cleanly.")
}

// newCompleter builds a chat-completion client, or nil when no key is
// configured. The nil stays an untyped interface value so downstream
// `== nil` checks keep working.
func newCompleter(apiKey, baseURL, model string) llm.Completer {
	client, err := llm.New(llm.Config{APIKey: apiKey, BaseURL: baseURL, Model: model})
	if err != nil {
		log.Fatalf("failed to build completion client for %s: %v", model, err)
	}
	if client == nil {
		log.Printf("warning: LLM_API_KEY not set, %s runs in template mode", model)
		return nil
	}
	return client
}

func newEmbedder(env intconfig.Env) vectorstore.Embedder {
	if env.EmbedAPIKey == "" {
		log.Println("warning: no embeddings key configured, document retrieval disabled")
		return nil
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
	return embedder
}

func newStore(env intconfig.Env, embedder vectorstore.Embedder) vectorstore.Store {
	if env.ChromaHost == "" || embedder == nil {
		if env.ChromaHost != "" {
			log.Println("warning: Chroma configured but embeddings unavailable, using in-process store")
		}
		return memory.New(embedder)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	store, err := chroma.New(ctx, chroma.Config{
		Host:       env.ChromaHost,
		Port:       env.ChromaPort,
		Collection: env.CollectionName,
		Embedder:   embedder,
	})
	if err != nil {
		log.Fatalf("failed to connect to Chroma at %s:%s: %v", env.ChromaHost, env.ChromaPort, err)
	}
	return store
}
