package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/finsight-ai/finsight/internal/interfaces"
	"github.com/finsight-ai/finsight/internal/models"
)

// DefaultCitationTopK is the retrieval depth of the coordinator's own pass
// used for citation building.
const DefaultCitationTopK = 15

// fallbackSummary is used when no agent output yields a usable summary
const fallbackSummary = "Financial analysis based on your transaction history."

// Coordinator implements PlanService. It classifies the question, dispatches
// the selected agents with per-agent failure isolation, and assembles their
// outputs into a cited plan document.
type Coordinator struct {
	spending     interfaces.Agent
	budget       interfaces.Agent
	investment   interfaces.Agent
	retrieval    interfaces.RetrievalService
	transactions interfaces.TransactionStorage
	citationTopK int
	logger       arbor.ILogger
}

// NewCoordinator wires the three specialized agents into a plan service.
func NewCoordinator(
	spending, budget, investment interfaces.Agent,
	retrieval interfaces.RetrievalService,
	transactions interfaces.TransactionStorage,
	citationTopK int,
	logger arbor.ILogger,
) interfaces.PlanService {
	if citationTopK <= 0 {
		citationTopK = DefaultCitationTopK
	}
	return &Coordinator{
		spending:     spending,
		budget:       budget,
		investment:   investment,
		retrieval:    retrieval,
		transactions: transactions,
		citationTopK: citationTopK,
		logger:       logger,
	}
}

// agentResult isolates one agent's outcome so a failure never propagates
// past its own section.
type agentResult struct {
	key  string
	text string
	err  error
}

func (c *Coordinator) runAgents(ctx context.Context, userID, question string) map[string]agentResult {
	active := DetermineActiveAgents(question)
	c.logger.Info().
		Str("user_id", userID).
		Strs("agents", active).
		Msg("Dispatching agents for plan generation")

	results := make(map[string]agentResult, len(active))
	for _, name := range active {
		var agent interfaces.Agent
		var key string
		switch name {
		case AgentSpending:
			agent, key = c.spending, models.AgentKeySpending
		case AgentBudget:
			agent, key = c.budget, models.AgentKeyBudget
		case AgentInvestment:
			agent, key = c.investment, models.AgentKeyInvestment
		default:
			continue
		}

		text, err := agent.Execute(ctx, userID, question)
		if err != nil {
			c.logger.Error().
				Err(err).
				Str("agent", name).
				Str("user_id", userID).
				Msg("Agent execution failed")
		}
		results[key] = agentResult{key: key, text: text, err: err}
	}
	return results
}

// GeneratePlan produces the legacy flat plan document. A failed agent
// contributes a degraded-service message carrying the error text.
func (c *Coordinator) GeneratePlan(ctx context.Context, userID, question string) *models.PlanResponse {
	c.logger.Info().
		Str("user_id", userID).
		Str("question", question).
		Msg("Generating plan")

	contexts := c.retrieval.RetrieveContext(ctx, userID, question, c.citationTopK)
	citations := c.buildCitations(contexts)
	results := c.runAgents(ctx, userID, question)

	agentResponses := make(map[string]string, len(results))
	for key, result := range results {
		if result.err != nil {
			agentResponses[key] = degradedMessage(key, result.err)
		} else {
			agentResponses[key] = result.text
		}
	}

	citationStrings := make([]string, 0, len(citations))
	for _, citation := range citations {
		citationStrings = append(citationStrings,
			fmt.Sprintf("Transaction ID: %s - %s", citation.TransactionID, citation.Description))
	}

	return &models.PlanResponse{
		Plan:           combineAgentResponses(agentResponses, question),
		Citations:      citationStrings,
		AgentResponses: agentResponses,
	}
}

// GenerateStructuredPlan produces the structured plan response. Failed agents
// appear as degraded section text but are omitted from AgentResponses.
func (c *Coordinator) GenerateStructuredPlan(ctx context.Context, userID, question string) *models.StructuredPlan {
	c.logger.Info().
		Str("user_id", userID).
		Str("question", question).
		Msg("Generating structured plan")

	contexts := c.retrieval.RetrieveContext(ctx, userID, question, c.citationTopK)
	citations := c.buildCitations(contexts)
	results := c.runAgents(ctx, userID, question)

	sections := &models.PlanSections{}
	agentResponses := make(map[string]string)

	if result, ok := results[models.AgentKeySpending]; ok {
		if result.err != nil {
			sections.SpendingAnalysis = "Unable to analyze spending at this time."
		} else {
			sections.SpendingAnalysis = result.text
			agentResponses[models.AgentKeySpending] = result.text
		}
	}
	if result, ok := results[models.AgentKeyBudget]; ok {
		if result.err != nil {
			sections.BudgetRecommendations = "Unable to create budget plan at this time."
		} else {
			sections.BudgetRecommendations = result.text
			agentResponses[models.AgentKeyBudget] = result.text
		}
	}
	if result, ok := results[models.AgentKeyInvestment]; ok {
		if result.err != nil {
			sections.InvestmentAdvice = "Unable to provide investment advice at this time."
		} else {
			sections.InvestmentAdvice = result.text
			agentResponses[models.AgentKeyInvestment] = result.text
		}
	}

	return &models.StructuredPlan{
		Success:        true,
		Question:       question,
		Summary:        extractSummary(sections.SpendingAnalysis),
		Sections:       sections,
		Citations:      citations,
		AgentResponses: agentResponses,
	}
}

// degradedMessage is one agent's substitute section text after a failure
func degradedMessage(key string, err error) string {
	switch key {
	case models.AgentKeySpending:
		return fmt.Sprintf("Unable to analyze spending at this time. Error: %s", err.Error())
	case models.AgentKeyBudget:
		return fmt.Sprintf("Unable to create budget plan at this time. Error: %s", err.Error())
	case models.AgentKeyInvestment:
		return fmt.Sprintf("Unable to provide investment advice at this time. Error: %s", err.Error())
	default:
		return fmt.Sprintf("Unable to complete analysis at this time. Error: %s", err.Error())
	}
}

// combineAgentResponses assembles the flat plan document: restated question
// followed by the present sections in fixed order.
func combineAgentResponses(responses map[string]string, question string) string {
	var plan strings.Builder
	plan.WriteString("# Financial Plan\n\n")
	plan.WriteString(fmt.Sprintf("Based on your question: %q\n\n", question))

	if text, ok := responses[models.AgentKeySpending]; ok {
		plan.WriteString("## Spending Analysis\n\n")
		plan.WriteString(text)
		plan.WriteString("\n\n")
	}
	if text, ok := responses[models.AgentKeyBudget]; ok {
		plan.WriteString("## Budget Recommendations\n\n")
		plan.WriteString(text)
		plan.WriteString("\n\n")
	}
	if text, ok := responses[models.AgentKeyInvestment]; ok {
		plan.WriteString("## Investment Advice\n\n")
		plan.WriteString(text)
		plan.WriteString("\n\n")
	}
	return plan.String()
}

// extractSummary pulls a short summary from the spending analysis: the line
// after a "Summary" heading when one exists and is under 500 characters,
// otherwise the first 200 characters of the analysis.
func extractSummary(spendingAnalysis string) string {
	if spendingAnalysis == "" {
		return fallbackSummary
	}

	lines := strings.Split(spendingAnalysis, "\n")
	for i, line := range lines {
		if strings.Contains(line, "Summary") && i+1 < len(lines) {
			candidate := strings.TrimSpace(lines[i+1])
			if candidate != "" && len(candidate) < 500 {
				return candidate
			}
		}
	}

	if len(spendingAnalysis) > 200 {
		return spendingAnalysis[:200] + "..."
	}
	return spendingAnalysis
}

// formatAmount renders a transaction amount the way the chunk summary does
func formatAmount(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}
