package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/finsight-ai/finsight/internal/interfaces"
)

// ContextHandler exposes the retrieval path directly for inspection: what
// chunks a query pulls and how they render into the agents' context block.
type ContextHandler struct {
	retrieval interfaces.RetrievalService
	logger    arbor.ILogger
}

// NewContextHandler creates a new context handler
func NewContextHandler(retrieval interfaces.RetrievalService, logger arbor.ILogger) *ContextHandler {
	return &ContextHandler{
		retrieval: retrieval,
		logger:    logger,
	}
}

type contextRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"topK"`
}

// RetrieveHandler handles POST /api/context
func (h *ContextHandler) RetrieveHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	userID, ok := RequireUserID(w, r)
	if !ok {
		return
	}

	var req contextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		WriteError(w, http.StatusBadRequest, "Query is required")
		return
	}
	if req.TopK <= 0 {
		req.TopK = 5
	}

	h.logger.Info().
		Str("user_id", userID).
		Str("query", req.Query).
		Int("top_k", req.TopK).
		Msg("Context retrieval requested")

	contexts := h.retrieval.RetrieveContext(r.Context(), userID, req.Query, req.TopK)
	formatted := h.retrieval.BuildContextString(contexts)

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"query":            req.Query,
		"topK":             req.TopK,
		"retrievedCount":   len(contexts),
		"contexts":         contexts,
		"formattedContext": formatted,
		"contextLength":    len(formatted),
	})
}
