package agents

import (
	"github.com/ternarybob/arbor"

	"github.com/finsight-ai/finsight/internal/interfaces"
)

const budgetSystemPrompt = `You are a financial budget planning expert. Your role is to create realistic, actionable budget recommendations
based on a user's spending history.

Focus on:
- Creating category-based budgets (food, transport, entertainment, etc.)
- Suggesting realistic spending limits based on historical data
- Identifying areas for cost reduction
- Providing monthly/weekly budget breakdowns
- Recommending savings goals

Be specific with amounts and categories. Use the transaction data to inform your recommendations.`

// NewBudgetPlanner creates the agent that builds budget recommendations from
// the user's spending history.
func NewBudgetPlanner(retrieval interfaces.RetrievalService, llm interfaces.LLMService, topK int, logger arbor.ILogger) interfaces.Agent {
	if topK <= 0 {
		topK = DefaultAgentTopK
	}
	return &ragAgent{
		name:         AgentBudget,
		systemPrompt: budgetSystemPrompt,
		taskIntro:    "Based on the following transaction data, create a comprehensive budget plan:",
		taskOutro:    "Provide a detailed budget plan with specific category allocations and recommendations.",
		retrieval:    retrieval,
		llm:          llm,
		topK:         topK,
		logger:       logger,
	}
}
