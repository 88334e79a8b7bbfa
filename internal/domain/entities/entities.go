// Package entities contains core business entities.
// These are the enterprise business rules - pure domain objects with no external dependencies.
package entities

// Example is a stored question/answer pair from the fashion corpus.
// This is a core entity - no knowledge of storage or external systems.
type Example struct {
	ID        string
	Question  string
	Answer    string
	Embedding []float32 // Vector representation (populated by adapter)
}

// RetrievedExample is one similarity-search hit paired with its score.
type RetrievedExample struct {
	Question string
	Answer   string
	Score    float64 // Cosine similarity to the query
}

// ChatMessage represents a conversation turn.
type ChatMessage struct {
	Sender    string // "user" or "bot"
	Text      string
	Timestamp string
}

// ChatRequest represents a query with conversation context.
type ChatRequest struct {
	Message string
	History []ChatMessage
}

// ChatResponse represents the generated suggestion with fallback options.
// SuggestedOptions are the retrieved answers so a client can still offer
// choices when generation quality is poor.
type ChatResponse struct {
	Response         string
	SuggestedOptions []string
}

// CorpusRow is one record of the source dataset before canonicalization.
// Index is the row's position in the source file, kept stable even when
// earlier rows are dropped, so stored ids survive corpus cleanup.
type CorpusRow struct {
	Index             int
	SkinTone          string
	RecommendedOutfit string
	WhyThisOutfit     string
	Shade             string
	PreferredColors   string
	Style             string
}

// Complete reports whether every required field is present.
// Incomplete rows are dropped before ingestion.
func (r CorpusRow) Complete() bool {
	return r.SkinTone != "" &&
		r.RecommendedOutfit != "" &&
		r.WhyThisOutfit != "" &&
		r.Shade != "" &&
		r.PreferredColors != "" &&
		r.Style != ""
}
