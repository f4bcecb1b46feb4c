package embeddings

import "fmt"

// ProviderError is returned when an embedding provider call fails. It carries
// the provider name, the HTTP status when one was received, and the provider
// message.
type ProviderError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s embeddings: status %d: %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s embeddings: %s", e.Provider, e.Message)
}
