// Package ports defines interfaces for external dependencies.
// Clean Architecture: These are the boundaries - usecases depend on these abstractions,
// not concrete implementations. Adapters implement these interfaces.
package ports

import (
	"context"

	"stylux/internal/domain/entities"
)

// EmbeddingService generates vector embeddings for text.
// Embeddings are deterministic for a given model and input, and have
// constant dimensionality across calls for a given model instance.
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts efficiently.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// LLMService generates text responses from a language model.
type LLMService interface {
	// Generate produces a response for the given prompt.
	Generate(ctx context.Context, prompt string) (string, error)
}

// VectorStore persists and queries corpus examples by embedding similarity.
type VectorStore interface {
	// Insert saves one example. Inserting an existing id overwrites it.
	Insert(ctx context.Context, example entities.Example) error

	// Query finds the topK most similar examples to a query embedding,
	// ranked by similarity descending, ties broken by insertion order.
	// Returns fewer than topK when the collection is smaller.
	Query(ctx context.Context, embedding []float32, topK int) ([]entities.RetrievedExample, error)

	// Count returns the number of stored examples.
	Count(ctx context.Context) (int, error)
}

// CorpusSource reads the example dataset used to seed the vector store.
type CorpusSource interface {
	// Rows returns all complete rows in file order. Rows missing a
	// required field are dropped, not reported as errors.
	Rows(ctx context.Context) ([]entities.CorpusRow, error)
}

// ResponseCache is an optional semantic cache over generated responses.
// Implementations must never make a chat request fail; errors are
// surfaced to the caller for logging only.
type ResponseCache interface {
	// Lookup returns a cached response whose prompt embedding is
	// sufficiently similar to the query embedding.
	Lookup(ctx context.Context, embedding []float32) (response string, score float32, ok bool)

	// Store saves a generated response keyed by its prompt.
	Store(ctx context.Context, embedding []float32, prompt, response string) error
}

// CorpusWatcher monitors the corpus file for changes.
type CorpusWatcher interface {
	// Watch starts monitoring the file and emits events until ctx ends.
	Watch(ctx context.Context, path string) (<-chan CorpusEvent, error)

	// Stop stops the watcher.
	Stop() error
}

// CorpusEvent is a change to the corpus file on disk.
type CorpusEvent struct {
	Path      string
	Operation CorpusOperation
}

// CorpusOperation is the type of corpus file change.
type CorpusOperation int

const (
	CorpusCreated CorpusOperation = iota
	CorpusModified
	CorpusRemoved
)
