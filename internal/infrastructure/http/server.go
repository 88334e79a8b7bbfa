// Package http provides the HTTP server infrastructure.
// Clean Architecture: Framework/driver layer - outermost circle.
package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"stylux/internal/domain/entities"
	"stylux/internal/domain/usecases"
)

// Server is the HTTP server for the chat API.
type Server struct {
	chatUseCase *usecases.ChatUseCase
	addr        string
}

// NewServer creates a new HTTP server.
func NewServer(chatUC *usecases.ChatUseCase, addr string) *Server {
	return &Server{
		chatUseCase: chatUC,
		addr:        addr,
	}
}

// chatRequest is the wire format of POST /chat.
type chatRequest struct {
	Message             string        `json:"message"`
	ConversationHistory []chatMessage `json:"conversation_history"`
}

type chatMessage struct {
	Sender    string `json:"sender"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// chatResponse is the wire format of a successful chat reply.
type chatResponse struct {
	Response         string   `json:"response"`
	SuggestedOptions []string `json:"suggested_options,omitempty"`
}

// errorResponse is the wire format of any failure. Detail never carries
// internal error text across the trust boundary.
type errorResponse struct {
	Detail string `json:"detail"`
}

// Start runs the HTTP server until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/chat", s.handleChat)
	mux.HandleFunc("/test", s.handleTest)

	server := &http.Server{
		Addr:         s.addr,
		Handler:      corsMiddleware(loggingMiddleware(mux)),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 300 * time.Second, // Generation against a cold local model is slow
	}

	log.Printf("[INFO] Stylux server starting on %s", s.addr)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	err := server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// handleChat runs one retrieval-augmented chat turn.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Detail: "Method Not Allowed"})
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "Invalid request body"})
		return
	}
	if req.Message == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "Message is required"})
		return
	}

	history := make([]entities.ChatMessage, len(req.ConversationHistory))
	for i, m := range req.ConversationHistory {
		history[i] = entities.ChatMessage{Sender: m.Sender, Text: m.Text, Timestamp: m.Timestamp}
	}

	resp, err := s.chatUseCase.Chat(r.Context(), &entities.ChatRequest{
		Message: req.Message,
		History: history,
	})
	if err != nil {
		// Diagnostic detail is for operators only.
		log.Printf("[ERROR] Chat request failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: "Internal Server Error"})
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Response:         resp.Response,
		SuggestedOptions: resp.SuggestedOptions,
	})
}

// handleTest is the liveness probe.
func (s *Server) handleTest(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "API is running"})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %v", r.Method, r.URL.Path, time.Since(start))
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			return
		}
		next.ServeHTTP(w, r)
	})
}
