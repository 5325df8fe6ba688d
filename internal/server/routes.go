package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/daeunko/curator/internal/curator"
	"github.com/daeunko/curator/internal/llm"
)

// RegisterChatRoutes mounts the chat endpoints on the given router.
func RegisterChatRoutes(r chi.Router, answerer Answerer) {
	h := &chatHandler{answerer: answerer}
	r.Post("/api/chat", h.handleChat)
	r.Get("/api/chat/ws", h.handleWebSocket)
}

// RegisterLearningRoutes mounts the read-only learning endpoints.
func RegisterLearningRoutes(r chi.Router, stats LearningStats) {
	h := &learningHandler{stats: stats}
	r.Get("/api/learning/stats", h.handleStats)
	r.Get("/api/learning/keywords", h.handleKeywords)
	r.Get("/api/learning/questions", h.handleQuestions)
}

type chatHandler struct {
	answerer Answerer
}

func (h *chatHandler) handleChat(w http.ResponseWriter, r *http.Request) {
	var req curator.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	resp, err := h.answerer.Answer(r.Context(), req)
	if err != nil {
		status, msg := statusFor(err)
		writeError(w, status, msg)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// statusFor maps pipeline errors to HTTP statuses. Anything past input
// validation only surfaces when every fallback failed too.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, curator.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	case llm.IsQuota(err):
		return http.StatusTooManyRequests, "generation quota exhausted, try again later"
	case errors.Is(err, curator.ErrUnavailable):
		return http.StatusInternalServerError, "recommendation service unavailable"
	default:
		log.Printf("server: chat request failed: %v", err)
		return http.StatusInternalServerError, "internal server error"
	}
}

type learningHandler struct {
	stats LearningStats
}

func (h *learningHandler) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.Stats(r.Context())
	if err != nil {
		log.Printf("server: stats query failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *learningHandler) handleKeywords(w http.ResponseWriter, r *http.Request) {
	keywords, err := h.stats.PopularKeywords(r.Context(), limitParam(r, 10))
	if err != nil {
		log.Printf("server: keywords query failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load keywords")
		return
	}
	if keywords == nil {
		keywords = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"keywords": keywords})
}

func (h *learningHandler) handleQuestions(w http.ResponseWriter, r *http.Request) {
	questions, err := h.stats.FrequentQuestions(r.Context(), limitParam(r, 5))
	if err != nil {
		log.Printf("server: questions query failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load questions")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"questions": questions})
}

func limitParam(r *http.Request, fallback int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 || limit > 100 {
		return fallback
	}
	return limit
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("server: encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
