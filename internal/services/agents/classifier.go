package agents

import "strings"

// Agent registry names used by the classifier and coordinator
const (
	AgentSpending   = "spending"
	AgentBudget     = "budget"
	AgentInvestment = "investment"
)

var (
	spendingTerms   = []string{"spending", "expense", "where", "how much"}
	budgetTerms     = []string{"budget", "plan", "allocate", "limit"}
	investmentTerms = []string{"invest", "save", "grow", "return"}
)

// DetermineActiveAgents selects which agents answer the question by keyword
// match against the lowercased query. A question matching no term set
// activates all three agents.
func DetermineActiveAgents(query string) []string {
	lower := strings.ToLower(query)

	var active []string
	if containsAny(lower, spendingTerms) {
		active = append(active, AgentSpending)
	}
	if containsAny(lower, budgetTerms) {
		active = append(active, AgentBudget)
	}
	if containsAny(lower, investmentTerms) {
		active = append(active, AgentInvestment)
	}

	if len(active) == 0 {
		active = []string{AgentSpending, AgentBudget, AgentInvestment}
	}
	return active
}

func containsAny(s string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}
