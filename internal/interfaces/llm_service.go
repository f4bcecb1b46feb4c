package interfaces

import "context"

// LLMService defines the generation gateway: a role-prompted chat completion
// against one configured provider. Implementations distinguish retryable
// transient provider failures from fatal ones; retry policy is internal to
// the implementation and bounded.
type LLMService interface {
	// Generate sends the system instructions and user prompt to the
	// provider and returns the generated text. Errors are fatal to the
	// calling agent; transient failures have already been retried.
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)

	// HealthCheck verifies the provider is reachable and authenticated
	HealthCheck(ctx context.Context) error

	// Provider returns the provider name ("gemini" or "claude")
	Provider() string

	// Close releases provider resources
	Close() error
}
