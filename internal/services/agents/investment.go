package agents

import (
	"github.com/ternarybob/arbor"

	"github.com/finsight-ai/finsight/internal/interfaces"
)

const investmentSystemPrompt = `You are a financial investment advisor. Your role is to provide investment recommendations based on a user's
financial situation, spending patterns, and available funds.

Focus on:
- Analyzing disposable income from spending patterns
- Recommending investment strategies (savings accounts, stocks, bonds, etc.)
- Suggesting appropriate risk levels
- Providing actionable investment steps
- Considering the user's spending habits when recommending investment amounts

Be realistic and conservative. Base recommendations on actual financial data.`

// NewInvestmentAdvisor creates the agent that recommends investment steps
// informed by the user's spending patterns.
func NewInvestmentAdvisor(retrieval interfaces.RetrievalService, llm interfaces.LLMService, topK int, logger arbor.ILogger) interfaces.Agent {
	if topK <= 0 {
		topK = DefaultAgentTopK
	}
	return &ragAgent{
		name:         AgentInvestment,
		systemPrompt: investmentSystemPrompt,
		taskIntro:    "Based on the following transaction data, provide investment recommendations:",
		taskOutro:    "Provide detailed investment advice with specific recommendations and strategies.",
		retrieval:    retrieval,
		llm:          llm,
		topK:         topK,
		logger:       logger,
	}
}
