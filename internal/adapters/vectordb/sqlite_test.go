package vectordb

import (
	"context"
	"os"
	"testing"

	"stylux/internal/domain/entities"
)

func TestSQLiteStore_InsertAndQuery(t *testing.T) {
	dir, _ := os.MkdirTemp("", "vectordb-test-*")
	defer os.RemoveAll(dir)

	store, err := NewSQLiteStore(dir)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	examples := []entities.Example{
		{ID: "0", Question: "blue casual", Answer: "a0", Embedding: []float32{1, 0, 0}},
		{ID: "1", Question: "red formal", Answer: "a1", Embedding: []float32{0, 1, 0}},
		{ID: "2", Question: "green sporty", Answer: "a2", Embedding: []float32{0, 0, 1}},
	}
	for _, ex := range examples {
		if err := store.Insert(ctx, ex); err != nil {
			t.Fatalf("insert failed: %v", err)
		}
	}

	results, err := store.Query(ctx, []float32{1, 0, 0}, 2)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Question != "blue casual" {
		t.Errorf("exact match should rank first, got %s", results[0].Question)
	}
	if results[0].Score < 0.999 {
		t.Errorf("exact match should score ~1, got %f", results[0].Score)
	}
}

func TestSQLiteStore_FewerThanTopK(t *testing.T) {
	dir, _ := os.MkdirTemp("", "vectordb-test-*")
	defer os.RemoveAll(dir)

	store, _ := NewSQLiteStore(dir)
	defer store.Close()

	ctx := context.Background()
	store.Insert(ctx, entities.Example{ID: "0", Question: "q", Answer: "a", Embedding: []float32{1, 0}})

	results, err := store.Query(ctx, []float32{1, 0}, 5)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("expected 1 result from 1-entry store, got %d", len(results))
	}
}

func TestSQLiteStore_TiesBreakByInsertionOrder(t *testing.T) {
	dir, _ := os.MkdirTemp("", "vectordb-test-*")
	defer os.RemoveAll(dir)

	store, _ := NewSQLiteStore(dir)
	defer store.Close()

	ctx := context.Background()
	// Identical embeddings, identical scores.
	store.Insert(ctx, entities.Example{ID: "0", Question: "first", Answer: "a", Embedding: []float32{1, 0}})
	store.Insert(ctx, entities.Example{ID: "1", Question: "second", Answer: "b", Embedding: []float32{1, 0}})

	results, err := store.Query(ctx, []float32{1, 0}, 2)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if results[0].Question != "first" || results[1].Question != "second" {
		t.Errorf("ties should keep insertion order, got %s, %s", results[0].Question, results[1].Question)
	}
}

func TestSQLiteStore_Count(t *testing.T) {
	dir, _ := os.MkdirTemp("", "vectordb-test-*")
	defer os.RemoveAll(dir)

	store, _ := NewSQLiteStore(dir)
	defer store.Close()

	ctx := context.Background()
	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("fresh store should be empty, got %d", count)
	}

	store.Insert(ctx, entities.Example{ID: "0", Question: "q", Answer: "a", Embedding: []float32{1}})
	store.Insert(ctx, entities.Example{ID: "1", Question: "q", Answer: "a", Embedding: []float32{2}})

	count, _ = store.Count(ctx)
	if count != 2 {
		t.Errorf("expected 2 entries, got %d", count)
	}
}

func TestSQLiteStore_DuplicateIDOverwrites(t *testing.T) {
	dir, _ := os.MkdirTemp("", "vectordb-test-*")
	defer os.RemoveAll(dir)

	store, _ := NewSQLiteStore(dir)
	defer store.Close()

	ctx := context.Background()
	store.Insert(ctx, entities.Example{ID: "0", Question: "old", Answer: "old", Embedding: []float32{1, 0}})
	store.Insert(ctx, entities.Example{ID: "0", Question: "new", Answer: "new", Embedding: []float32{1, 0}})

	count, _ := store.Count(ctx)
	if count != 1 {
		t.Fatalf("duplicate id should overwrite, got %d entries", count)
	}

	results, _ := store.Query(ctx, []float32{1, 0}, 1)
	if results[0].Question != "new" {
		t.Errorf("expected overwritten entry, got %s", results[0].Question)
	}
}

func TestSQLiteStore_DimensionMismatch(t *testing.T) {
	dir, _ := os.MkdirTemp("", "vectordb-test-*")
	defer os.RemoveAll(dir)

	store, _ := NewSQLiteStore(dir)
	defer store.Close()

	ctx := context.Background()
	store.Insert(ctx, entities.Example{ID: "0", Question: "q", Answer: "a", Embedding: []float32{1, 0, 0}})

	err := store.Insert(ctx, entities.Example{ID: "1", Question: "q", Answer: "a", Embedding: []float32{1, 0}})
	if err == nil {
		t.Error("mismatched embedding dimension should fail")
	}
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	dir, _ := os.MkdirTemp("", "vectordb-test-*")
	defer os.RemoveAll(dir)

	ctx := context.Background()

	store, _ := NewSQLiteStore(dir)
	store.Insert(ctx, entities.Example{ID: "0", Question: "persisted", Answer: "a", Embedding: []float32{1, 0}})
	store.Close()

	reopened, err := NewSQLiteStore(dir)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	count, _ := reopened.Count(ctx)
	if count != 1 {
		t.Fatalf("expected persisted entry, got %d", count)
	}

	// Dimension is recovered from disk; a mismatched insert must still fail.
	if err := reopened.Insert(ctx, entities.Example{ID: "1", Question: "q", Answer: "a", Embedding: []float32{1}}); err == nil {
		t.Error("dimension check should survive reopen")
	}
}

func TestEmbeddingCodec_RoundTrip(t *testing.T) {
	vec := []float32{0.25, -1.5, 3.375, 0}
	got := decodeEmbedding(encodeEmbedding(vec))

	if len(got) != len(vec) {
		t.Fatalf("length mismatch: %d vs %d", len(got), len(vec))
	}
	for i := range vec {
		if got[i] != vec[i] {
			t.Errorf("index %d: got %f, want %f", i, got[i], vec[i])
		}
	}
}

func TestCosineSimilarity(t *testing.T) {
	cases := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"length mismatch", []float32{1, 0}, []float32{1}, 0},
		{"zero vector", []float32{0, 0}, []float32{1, 0}, 0},
	}

	for _, tc := range cases {
		got := cosineSimilarity(tc.a, tc.b)
		if got < tc.want-1e-6 || got > tc.want+1e-6 {
			t.Errorf("%s: got %f, want %f", tc.name, got, tc.want)
		}
	}
}
