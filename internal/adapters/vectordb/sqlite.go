// Package vectordb provides vector store adapters.
// Clean Architecture: Adapter implementing ports.VectorStore.
// SQLite gives single-file persistence that survives restarts.
package vectordb

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"stylux/internal/domain/entities"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStore implements ports.VectorStore with SQLite-based persistence.
// Similarity search is a brute-force cosine scan, which is plenty for a
// single-collection corpus of a few thousand examples.
type SQLiteStore struct {
	mu        sync.RWMutex
	db        *sql.DB
	dataPath  string
	dimension int // 0 until the first insert or load
}

// NewSQLiteStore creates a persistent vector store under dataPath.
func NewSQLiteStore(dataPath string) (*SQLiteStore, error) {
	if dataPath == "" {
		dataPath = "./data"
	}

	if err := os.MkdirAll(dataPath, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataPath, "examples.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	store := &SQLiteStore{
		db:       db,
		dataPath: dataPath,
	}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	if err := store.loadDimension(); err != nil {
		db.Close()
		return nil, fmt.Errorf("loading embedding dimension: %w", err)
	}

	return store, nil
}

// initSchema creates the necessary tables.
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS examples (
		id TEXT PRIMARY KEY,
		question TEXT NOT NULL,
		answer TEXT NOT NULL,
		embedding BLOB NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// loadDimension recovers the embedding dimension from an existing database.
func (s *SQLiteStore) loadDimension() error {
	var size int
	err := s.db.QueryRow("SELECT length(embedding) FROM examples LIMIT 1").Scan(&size)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return err
	}
	s.dimension = size / 4
	return nil
}

// Insert saves one example. An existing id is overwritten.
func (s *SQLiteStore) Insert(ctx context.Context, example entities.Example) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(example.Embedding) == 0 {
		return fmt.Errorf("example %s has no embedding", example.ID)
	}
	if s.dimension == 0 {
		s.dimension = len(example.Embedding)
	} else if len(example.Embedding) != s.dimension {
		return fmt.Errorf("example %s has dimension %d, store expects %d",
			example.ID, len(example.Embedding), s.dimension)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO examples (id, question, answer, embedding)
		VALUES (?, ?, ?, ?)
	`, example.ID, example.Question, example.Answer, encodeEmbedding(example.Embedding))
	if err != nil {
		return fmt.Errorf("inserting example: %w", err)
	}
	return nil
}

// Query finds the topK most similar examples to a query embedding,
// ranked by cosine similarity descending, ties broken by insertion order.
func (s *SQLiteStore) Query(ctx context.Context, embedding []float32, topK int) ([]entities.RetrievedExample, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Rowid order is insertion order; the stable sort below preserves it
	// across equal scores.
	rows, err := s.db.QueryContext(ctx, `
		SELECT question, answer, embedding FROM examples ORDER BY rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("querying examples: %w", err)
	}
	defer rows.Close()

	var results []entities.RetrievedExample
	for rows.Next() {
		var question, answer string
		var blob []byte
		if err := rows.Scan(&question, &answer, &blob); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		stored := decodeEmbedding(blob)
		results = append(results, entities.RetrievedExample{
			Question: question,
			Answer:   answer,
			Score:    cosineSimilarity(embedding, stored),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading rows: %w", err)
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
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM examples").Scan(&count)
	return count, err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// encodeEmbedding packs a vector as little-endian float32 bytes.
func encodeEmbedding(vec []float32) []byte {
	b := make([]byte, len(vec)*4)
	for i, v := range vec {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(v))
	}
	return b
}

// decodeEmbedding unpacks little-endian float32 bytes into a vector.
func decodeEmbedding(b []byte) []float32 {
	vec := make([]float32, len(b)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4 : (i+1)*4]))
	}
	return vec
}

// cosineSimilarity calculates cosine similarity between two vectors.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
