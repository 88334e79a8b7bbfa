// Package config loads service configuration from the environment.
// A .env file in the working directory is honored when present.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every tunable of the service.
type Config struct {
	ServerAddr string

	OllamaURL            string
	OllamaModel          string
	OllamaEmbedModel     string
	OllamaStartupTimeout time.Duration

	CorpusPath string
	DataPath   string
	TopK       int

	// RedisAddr empty means the semantic response cache is disabled.
	RedisAddr      string
	CacheThreshold float32

	WatchCorpus bool
}

// Load reads configuration from the environment with sensible defaults.
func Load() Config {
	godotenv.Load()

	return Config{
		ServerAddr:           getEnv("SERVER_ADDR", ":8000"),
		OllamaURL:            getEnv("OLLAMA_URL", "http://localhost:11434"),
		OllamaModel:          getEnv("OLLAMA_MODEL", "mistral"),
		OllamaEmbedModel:     getEnv("OLLAMA_EMBED_MODEL", "nomic-embed-text"),
		OllamaStartupTimeout: getDuration("OLLAMA_STARTUP_TIMEOUT", 30*time.Second),
		CorpusPath:           getEnv("CORPUS_PATH", "final.csv"),
		DataPath:             getEnv("DATA_PATH", "./data"),
		TopK:                 getInt("TOP_K", 3),
		RedisAddr:            getEnv("REDIS_ADDR", ""),
		CacheThreshold:       getFloat32("CACHE_THRESHOLD", 0.95),
		WatchCorpus:          getBool("WATCH_CORPUS", true),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getFloat32(key string, fallback float32) float32 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 32); err == nil {
			return float32(f)
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
