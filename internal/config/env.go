package config

import (
	"os"
	"strings"
)

type Env struct {
	AppAddr string
	GinMode string

	DBUser string
	DBPass string
	DBHost string
	DBName string

	// Chat-completion API (OpenRouter-compatible). Empty key means the
	// question-answering endpoints run in degraded template mode.
	LLMAPIKey   string
	LLMBaseURL  string
	RouterModel string
	RAGModel    string

	// Embeddings API. Falls back to the LLM key when unset.
	EmbedAPIKey  string
	EmbedBaseURL string
	EmbedModel   string

	// Vector store. Empty ChromaHost selects the in-process store.
	ChromaHost      string
	ChromaPort      string
	CollectionName  string
	ProviderDocsDir string
	SeedDataPath    string

	AdminUsername     string
	AdminPasswordHash string
	JWTSecret         string
}

func LoadEnv() Env {
	env := Env{
		AppAddr: getenv("APP_ADDR", ":8001"),
		GinMode: getenv("GIN_MODE", ""),

		DBUser: getenv("DB_USER", "root"),
		DBPass: getenv("DB_PASS", ""),
		DBHost: getenv("DB_HOST", "127.0.0.1:3306"),
		DBName: getenv("DB_NAME", "bus_booking"),

		LLMAPIKey:   getenv("LLM_API_KEY", ""),
		LLMBaseURL:  getenv("LLM_BASE_URL", "https://openrouter.ai/api/v1"),
		RouterModel: getenv("ROUTER_MODEL", "openai/gpt-oss-20b:free"),
		RAGModel:    getenv("RAG_MODEL", "openai/gpt-4o-mini"),

		EmbedAPIKey:  getenv("EMBED_API_KEY", ""),
		EmbedBaseURL: getenv("EMBED_BASE_URL", "https://api.openai.com/v1"),
		EmbedModel:   getenv("EMBED_MODEL", "text-embedding-3-small"),

		ChromaHost:      getenv("CHROMA_HOST", ""),
		ChromaPort:      getenv("CHROMA_PORT", "8000"),
		CollectionName:  getenv("CHROMA_COLLECTION", "bus_providers"),
		ProviderDocsDir: getenv("PROVIDER_DOCS_DIR", "data/providers"),
		SeedDataPath:    getenv("SEED_DATA_PATH", "data/data.json"),

		AdminUsername:     getenv("ADMIN_USERNAME", ""),
		AdminPasswordHash: getenv("ADMIN_PASSWORD_HASH", ""),
		JWTSecret:         getenv("JWT_SECRET", ""),
	}
	if env.EmbedAPIKey == "" {
		env.EmbedAPIKey = env.LLMAPIKey
	}
	return env
}

func getenv(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}
