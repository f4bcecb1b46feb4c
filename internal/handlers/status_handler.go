package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/finsight-ai/finsight/internal/common"
	"github.com/finsight-ai/finsight/internal/interfaces"
)

// StatusHandler reports application status
type StatusHandler struct {
	config *common.Config
	chunks interfaces.ChunkStorage
	llm    interfaces.LLMService
	logger arbor.ILogger
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(config *common.Config, chunks interfaces.ChunkStorage, llm interfaces.LLMService, logger arbor.ILogger) *StatusHandler {
	return &StatusHandler{
		config: config,
		chunks: chunks,
		llm:    llm,
		logger: logger,
	}
}

// GetStatusHandler handles GET /api/status
func (h *StatusHandler) GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	chunkCount, err := h.chunks.CountChunks()
	if err != nil {
		h.logger.Warn().Err(err).Msg("Failed to count chunks for status")
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":       "ok",
		"environment":  h.config.Environment,
		"llm_provider": h.llm.Provider(),
		"chunk_count":  chunkCount,
	})
}

// HealthHandler handles GET /api/health: probes the LLM provider
func (h *StatusHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	if err := h.llm.HealthCheck(r.Context()); err != nil {
		h.logger.Error().Err(err).Msg("LLM health check failed")
		WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
