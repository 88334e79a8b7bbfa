// Package vectordb - memory.go is an in-memory store for tests and local
// development. Same contract as SQLiteStore, no persistence.
package vectordb

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"stylux/internal/domain/entities"
)

// InMemoryStore is a simple in-memory vector store.
type InMemoryStore struct {
	mu       sync.RWMutex
	examples []entities.Example
	index    map[string]int // id -> position in examples
}

// NewInMemoryStore creates a new in-memory vector store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		index: make(map[string]int),
	}
}

// Insert saves one example. An existing id is overwritten in place.
func (s *InMemoryStore) Insert(ctx context.Context, example entities.Example) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(example.Embedding) == 0 {
		return fmt.Errorf("example %s has no embedding", example.ID)
	}
	if pos, ok := s.index[example.ID]; ok {
		s.examples[pos] = example
		return nil
	}
	s.index[example.ID] = len(s.examples)
	s.examples = append(s.examples, example)
	return nil
}

// Query finds the topK most similar examples to a query embedding.
func (s *InMemoryStore) Query(ctx context.Context, embedding []float32, topK int) ([]entities.RetrievedExample, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]entities.RetrievedExample, 0, len(s.examples))
	for _, ex := range s.examples {
		results = append(results, entities.RetrievedExample{
			Question: ex.Question,
			Answer:   ex.Answer,
			Score:    cosineSimilarity(embedding, ex.Embedding),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// Count returns the number of stored examples.
func (s *InMemoryStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.examples), nil
}
