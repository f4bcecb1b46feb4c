package interfaces

import "context"

// EmbeddingService converts text into fixed-dimension numeric vectors via a
// pluggable provider selected by configuration. Dimensionality is fixed per
// provider/model and must be uniform across all chunks compared for
// similarity.
type EmbeddingService interface {
	// Embed generates an embedding vector for a single text
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts. The result always
	// has the same length as the input: a provider that embeds per-item
	// substitutes a zero vector for any item that fails, so callers matching
	// chunk count to embedding count stay aligned.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension returns the configured vector dimensionality
	Dimension() int

	// ProviderName returns the active provider ("openai" or "gemini")
	ProviderName() string
}
