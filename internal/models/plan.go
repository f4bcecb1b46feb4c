package models

// Agent response map keys. A missing key means the agent was not selected; a
// present key holding a degraded-service message means it was selected but
// failed.
const (
	AgentKeySpending   = "spending_analysis"
	AgentKeyBudget     = "budget_plan"
	AgentKeyInvestment = "investment_advice"
)

// Citation links a generated statement back to a specific transaction.
// Fields are populated from the authoritative transaction record when it
// still exists, otherwise reconstructed by parsing the chunk's summary text.
type Citation struct {
	TransactionID string `json:"transactionId"`
	Merchant      string `json:"merchant,omitempty"`
	Amount        string `json:"amount,omitempty"`
	Currency      string `json:"currency,omitempty"`
	Category      string `json:"category,omitempty"`
	Date          string `json:"date,omitempty"`
	Description   string `json:"description,omitempty"`
}

// PlanSections organizes the per-agent outputs in their fixed document order
type PlanSections struct {
	SpendingAnalysis      string `json:"spendingAnalysis,omitempty"`
	BudgetRecommendations string `json:"budgetRecommendations,omitempty"`
	InvestmentAdvice      string `json:"investmentAdvice,omitempty"`
}

// PlanResponse is the legacy flat plan format: the assembled markdown
// document plus one citation line per retrieved transaction.
type PlanResponse struct {
	Plan           string            `json:"plan"`
	Citations      []string          `json:"citations"`
	AgentResponses map[string]string `json:"agentResponses"`
}

// StructuredPlan is the structured plan-generation response. Success is false
// only when the pipeline could not run at all; partial agent failures are
// reported inside Sections/AgentResponses, never as a top-level error.
type StructuredPlan struct {
	Success        bool              `json:"success"`
	Question       string            `json:"question,omitempty"`
	Summary        string            `json:"summary,omitempty"`
	Sections       *PlanSections     `json:"sections,omitempty"`
	Citations      []Citation        `json:"citations,omitempty"`
	AgentResponses map[string]string `json:"agentResponses,omitempty"`
	Error          string            `json:"error,omitempty"`
}
