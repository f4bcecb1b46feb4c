package agents

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetermineActiveAgents(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected []string
	}{
		{
			name:     "spending keyword",
			query:    "How much did I spend on transport?",
			expected: []string{AgentSpending},
		},
		{
			name:     "budget keyword",
			query:    "Help me allocate my monthly income",
			expected: []string{AgentBudget},
		},
		{
			name:     "investment keyword",
			query:    "Should I invest in index funds?",
			expected: []string{AgentInvestment},
		},
		{
			name:     "spending and budget",
			query:    "Where does my money go and what budget should I set?",
			expected: []string{AgentSpending, AgentBudget},
		},
		{
			name:     "case insensitive",
			query:    "WHERE did my EXPENSES go?",
			expected: []string{AgentSpending},
		},
		{
			name:     "no match activates all",
			query:    "Tell me about my finances",
			expected: []string{AgentSpending, AgentBudget, AgentInvestment},
		},
		{
			name:     "empty query activates all",
			query:    "",
			expected: []string{AgentSpending, AgentBudget, AgentInvestment},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetermineActiveAgents(tt.query))
		})
	}
}
