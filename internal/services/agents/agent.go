package agents

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/finsight-ai/finsight/internal/interfaces"
)

// DefaultAgentTopK is the retrieval depth each specialized agent uses when
// no override is configured.
const DefaultAgentTopK = 10

// ragAgent is the shared shape of the specialized agents: a fixed system
// prompt plus a task framing, grounded by retrieved transaction context.
type ragAgent struct {
	name         string
	systemPrompt string
	taskIntro    string // framing line above the context block
	taskOutro    string // instruction line below the question
	retrieval    interfaces.RetrievalService
	llm          interfaces.LLMService
	topK         int
	logger       arbor.ILogger
}

func (a *ragAgent) Name() string {
	return a.name
}

// Execute retrieves grounding context for the query and asks the LLM to
// answer in the agent's role. Retrieval degradation is silent (the prompt
// carries the no-data sentinel); generation errors surface to the caller.
func (a *ragAgent) Execute(ctx context.Context, userID, query string) (string, error) {
	a.logger.Info().
		Str("agent", a.name).
		Str("user_id", userID).
		Msg("Agent executing")

	contexts := a.retrieval.RetrieveContext(ctx, userID, query, a.topK)
	contextString := a.retrieval.BuildContextString(contexts)

	userPrompt := fmt.Sprintf("%s\n\n%s\n\nUser's question: %s\n\n%s",
		a.taskIntro, contextString, query, a.taskOutro)

	return a.llm.Generate(ctx, a.systemPrompt, userPrompt)
}
