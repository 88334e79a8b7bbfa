// Package usecases contains application business rules.
// Clean Architecture: Usecases orchestrate entities and depend on port interfaces.
// They contain NO framework code, NO external dependencies - just pure business logic.
package usecases

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"stylux/internal/domain/entities"
	"stylux/internal/domain/ports"
)

// IngestUseCase seeds the vector store from the corpus.
// Single Responsibility: Only ingestion logic.
type IngestUseCase struct {
	embedder ports.EmbeddingService
	store    ports.VectorStore
	corpus   ports.CorpusSource
}

// NewIngestUseCase creates an IngestUseCase with injected dependencies.
func NewIngestUseCase(
	embedder ports.EmbeddingService,
	store ports.VectorStore,
	corpus ports.CorpusSource,
) *IngestUseCase {
	return &IngestUseCase{
		embedder: embedder,
		store:    store,
		corpus:   corpus,
	}
}

// EnsurePopulated ingests the corpus if and only if the store is empty.
// The store is the long-lived source of truth after first population:
// a changed corpus file is ignored once entries exist.
func (uc *IngestUseCase) EnsurePopulated(ctx context.Context) error {
	count, err := uc.store.Count(ctx)
	if err != nil {
		return fmt.Errorf("counting store entries: %w", err)
	}
	if count > 0 {
		log.Printf("[INFO] Vector store already populated (%d entries), skipping ingestion", count)
		return nil
	}

	log.Printf("[INFO] Vector store is empty, populating from corpus...")
	return uc.ingest(ctx)
}

// ingest reads, canonicalizes, embeds, and stores every complete corpus row.
func (uc *IngestUseCase) ingest(ctx context.Context) error {
	rows, err := uc.corpus.Rows(ctx)
	if err != nil {
		return fmt.Errorf("reading corpus: %w", err)
	}
	if len(rows) == 0 {
		log.Printf("[INFO] Corpus has no complete rows, nothing to ingest")
		return nil
	}

	questions := make([]string, len(rows))
	for i, row := range rows {
		questions[i] = CanonicalQuestion(row)
	}

	embeddings, err := uc.embedder.EmbedBatch(ctx, questions)
	if err != nil {
		return fmt.Errorf("embedding corpus questions: %w", err)
	}

	for i, row := range rows {
		example := entities.Example{
			ID:        strconv.Itoa(row.Index),
			Question:  questions[i],
			Answer:    row.WhyThisOutfit,
			Embedding: embeddings[i],
		}
		if err := uc.store.Insert(ctx, example); err != nil {
			return fmt.Errorf("inserting example %s: %w", example.ID, err)
		}
	}

	log.Printf("[OK] Stored %d corpus examples in the vector store", len(rows))
	return nil
}

// CanonicalQuestion synthesizes the stored question text for a corpus row.
func CanonicalQuestion(row entities.CorpusRow) string {
	return fmt.Sprintf(
		"What outfit is recommended for a %s skin tone with preferred colors %s and style %s?",
		row.SkinTone, row.PreferredColors, row.Style,
	)
}
