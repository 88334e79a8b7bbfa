// Stylux server: retrieval-augmented fashion suggestion chat backend.
// Composition root - every dependency is constructed and wired here.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"stylux/internal/adapters/cache"
	"stylux/internal/adapters/corpus"
	"stylux/internal/adapters/corpuswatch"
	"stylux/internal/adapters/embedding"
	"stylux/internal/adapters/llm"
	"stylux/internal/adapters/vectordb"
	"stylux/internal/config"
	"stylux/internal/domain/ports"
	"stylux/internal/domain/usecases"
	httpserver "stylux/internal/infrastructure/http"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatalf("[ERROR] %v", err)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	store, err := vectordb.NewSQLiteStore(cfg.DataPath)
	if err != nil {
		return err
	}
	defer store.Close()

	embedder := embedding.NewOllamaAdapter(cfg.OllamaURL, cfg.OllamaEmbedModel)
	generator := llm.NewOllamaLLMAdapter(cfg.OllamaURL, cfg.OllamaModel)
	corpusSource := corpus.NewCSVSource(cfg.CorpusPath)

	supervisor := llm.NewSupervisor(cfg.OllamaURL, cfg.OllamaStartupTimeout)
	if err := supervisor.EnsureReady(ctx); err != nil {
		return err
	}
	defer supervisor.Stop()

	ingestUC := usecases.NewIngestUseCase(embedder, store, corpusSource)
	if err := ingestUC.EnsurePopulated(ctx); err != nil {
		return err
	}

	var responseCache ports.ResponseCache
	if cfg.RedisAddr != "" {
		redisCache, err := cache.NewRedisCache(cfg.RedisAddr, cfg.CacheThreshold)
		if err != nil {
			log.Printf("[ERROR] Redis unavailable, semantic cache disabled: %v", err)
		} else {
			defer redisCache.Close()
			responseCache = redisCache
			log.Printf("[INFO] Semantic response cache enabled (threshold %.2f)", cfg.CacheThreshold)
		}
	}

	chatUC := usecases.NewChatUseCase(embedder, store, generator, responseCache, cfg.TopK)
	server := httpserver.NewServer(chatUC, cfg.ServerAddr)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return server.Start(ctx)
	})

	if cfg.WatchCorpus {
		g.Go(func() error {
			watchCorpus(ctx, corpusSource.Path())
			return nil
		})
	}

	return g.Wait()
}

// watchCorpus logs when the corpus file changes after startup. The vector
// store is populate-once, so the change is not ingested; operators wipe
// the data directory and restart to pick up a new corpus.
func watchCorpus(ctx context.Context, path string) {
	if _, err := os.Stat(path); err != nil {
		log.Printf("[DEBUG] Corpus file %s not present, watcher disabled", path)
		return
	}

	watcher, err := corpuswatch.NewFSNotifyWatcher()
	if err != nil {
		log.Printf("[ERROR] Starting corpus watcher: %v", err)
		return
	}
	defer watcher.Stop()

	events, err := watcher.Watch(ctx, path)
	if err != nil {
		log.Printf("[ERROR] Watching corpus file: %v", err)
		return
	}

	for event := range events {
		switch event.Operation {
		case ports.CorpusModified, ports.CorpusCreated:
			log.Printf("[INFO] Corpus file %s changed; vector store is now stale. Remove the data directory and restart to re-ingest.", event.Path)
		case ports.CorpusRemoved:
			log.Printf("[INFO] Corpus file %s removed; existing vector store remains in use.", event.Path)
		}
	}
}
