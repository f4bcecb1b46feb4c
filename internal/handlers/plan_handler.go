package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/finsight-ai/finsight/internal/interfaces"
	"github.com/finsight-ai/finsight/internal/models"
)

// PlanHandler exposes plan generation over HTTP
type PlanHandler struct {
	planService interfaces.PlanService
	logger      arbor.ILogger
}

// NewPlanHandler creates a new plan handler
func NewPlanHandler(planService interfaces.PlanService, logger arbor.ILogger) *PlanHandler {
	return &PlanHandler{
		planService: planService,
		logger:      logger,
	}
}

type planRequest struct {
	Question string `json:"question"`
	Legacy   bool   `json:"legacy"`
}

// GeneratePlanHandler handles POST /api/plan. The structured response is the
// default; the legacy flat format is returned when the request sets "legacy".
func (h *PlanHandler) GeneratePlanHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	userID, ok := RequireUserID(w, r)
	if !ok {
		return
	}

	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.Question) == "" {
		WriteJSON(w, http.StatusBadRequest, &models.StructuredPlan{
			Success: false,
			Error:   "Question is required",
		})
		return
	}

	h.logger.Info().
		Str("user_id", userID).
		Str("question", req.Question).
		Bool("legacy", req.Legacy).
		Msg("Plan generation requested")

	if req.Legacy {
		plan := h.planService.GeneratePlan(r.Context(), userID, req.Question)
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"success":   true,
			"plan":      plan.Plan,
			"citations": plan.Citations,
			"question":  req.Question,
		})
		return
	}

	WriteJSON(w, http.StatusOK, h.planService.GenerateStructuredPlan(r.Context(), userID, req.Question))
}
