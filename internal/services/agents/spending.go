package agents

import (
	"github.com/ternarybob/arbor"

	"github.com/finsight-ai/finsight/internal/interfaces"
)

const spendingSystemPrompt = `You are a financial spending analyst. Your role is to analyze transaction data and identify spending patterns,
trends, and insights. Be specific, data-driven, and actionable in your analysis.

Focus on:
- Spending categories and amounts
- Recurring expenses
- Unusual or large transactions
- Spending trends over time
- Areas where spending could be optimized

Provide clear, concise insights with specific examples from the transaction data.`

// NewSpendingAnalyst creates the agent that analyzes spending patterns from
// the user's transaction history.
func NewSpendingAnalyst(retrieval interfaces.RetrievalService, llm interfaces.LLMService, topK int, logger arbor.ILogger) interfaces.Agent {
	if topK <= 0 {
		topK = DefaultAgentTopK
	}
	return &ragAgent{
		name:         AgentSpending,
		systemPrompt: spendingSystemPrompt,
		taskIntro:    "Based on the following transaction data, analyze the user's spending patterns:",
		taskOutro:    "Provide a detailed spending analysis with specific insights and recommendations.",
		retrieval:    retrieval,
		llm:          llm,
		topK:         topK,
		logger:       logger,
	}
}
