package interfaces

import (
	"context"

	"github.com/finsight-ai/finsight/internal/models"
)

// Agent is a role-specialized text-generation wrapper sharing the common
// retrieval and generation infrastructure.
type Agent interface {
	// Name returns the agent's registry name ("spending", "budget", "investment")
	Name() string

	// Execute answers the query for the user in the agent's role
	Execute(ctx context.Context, userID, query string) (string, error)
}

// PlanService coordinates the specialized agents into one cited report
type PlanService interface {
	// GeneratePlan produces the legacy flat plan document
	GeneratePlan(ctx context.Context, userID, question string) *models.PlanResponse

	// GenerateStructuredPlan produces the structured plan response. It never
	// returns an error for partial agent failures; Success is false only
	// when the pipeline could not run at all.
	GenerateStructuredPlan(ctx context.Context, userID, question string) *models.StructuredPlan
}
