// Package usecases - chat.go handles retrieval and response generation.
package usecases

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"stylux/internal/domain/entities"
	"stylux/internal/domain/ports"
)

// ErrBlankResponse is returned when the generation service produced no
// usable text. The HTTP layer maps it to a generic server error.
var ErrBlankResponse = errors.New("generation service returned a blank response")

// historyWindow is how many trailing conversation turns are carried
// into the prompt.
const historyWindow = 6

// ChatUseCase handles retrieval-augmented chat.
type ChatUseCase struct {
	embedder ports.EmbeddingService
	store    ports.VectorStore
	llm      ports.LLMService
	cache    ports.ResponseCache
	topK     int
}

// NewChatUseCase creates a ChatUseCase with injected dependencies.
// cache may be nil when semantic caching is disabled.
func NewChatUseCase(
	embedder ports.EmbeddingService,
	store ports.VectorStore,
	llm ports.LLMService,
	cache ports.ResponseCache,
	topK int,
) *ChatUseCase {
	if topK <= 0 {
		topK = 3
	}
	return &ChatUseCase{
		embedder: embedder,
		store:    store,
		llm:      llm,
		cache:    cache,
		topK:     topK,
	}
}

// Chat retrieves similar corpus examples, composes a prompt, and asks the
// generation model for a suggestion. The retrieved answers are always
// returned as suggested options, even when generation quality is poor.
func (uc *ChatUseCase) Chat(ctx context.Context, req *entities.ChatRequest) (*entities.ChatResponse, error) {
	queryEmbedding, err := uc.embedder.Embed(ctx, req.Message)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	examples, err := uc.store.Query(ctx, queryEmbedding, uc.topK)
	if err != nil {
		return nil, fmt.Errorf("querying vector store: %w", err)
	}

	options := make([]string, len(examples))
	for i, ex := range examples {
		options[i] = ex.Answer
	}

	prompt := BuildPrompt(req.Message, req.History, examples)

	if uc.cache != nil {
		if cached, score, ok := uc.cache.Lookup(ctx, queryEmbedding); ok {
			log.Printf("[INFO] Semantic cache hit (score %.4f)", score)
			return &entities.ChatResponse{Response: cached, SuggestedOptions: options}, nil
		}
	}

	response, err := uc.llm.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generating response: %w", err)
	}
	if strings.TrimSpace(response) == "" {
		return nil, ErrBlankResponse
	}

	if uc.cache != nil {
		if err := uc.cache.Store(ctx, queryEmbedding, prompt, response); err != nil {
			log.Printf("[ERROR] Caching response: %v", err)
		}
	}

	return &entities.ChatResponse{
		Response:         response,
		SuggestedOptions: options,
	}, nil
}

// Retrieve returns the topK stored examples most similar to the query.
func (uc *ChatUseCase) Retrieve(ctx context.Context, query string) ([]entities.RetrievedExample, error) {
	embedding, err := uc.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	return uc.store.Query(ctx, embedding, uc.topK)
}

// BuildPrompt composes the generation prompt from the user message, recent
// conversation turns, and the retrieved examples.
func BuildPrompt(message string, history []entities.ChatMessage, examples []entities.RetrievedExample) string {
	var sb strings.Builder

	if len(history) > 0 {
		turns := history
		if len(turns) > historyWindow {
			turns = turns[len(turns)-historyWindow:]
		}
		sb.WriteString("Conversation so far:\n")
		for _, turn := range turns {
			sb.WriteString(turn.Sender)
			sb.WriteString(": ")
			sb.WriteString(turn.Text)
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	sb.WriteString("User: ")
	sb.WriteString(message)
	sb.WriteString("\n\nHere are some similar Q&A examples:\n")

	pairs := make([]string, len(examples))
	for i, ex := range examples {
		pairs[i] = fmt.Sprintf("Q: %s\nA: %s", ex.Question, ex.Answer)
	}
	sb.WriteString(strings.Join(pairs, "\n"))

	sb.WriteString("\n\nPlease provide a fashion suggestion considering the above details and user preferences.")
	return sb.String()
}
