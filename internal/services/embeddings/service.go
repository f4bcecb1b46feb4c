package embeddings

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/finsight-ai/finsight/internal/common"
	"github.com/finsight-ai/finsight/internal/interfaces"
)

// provider is one embedding backend. embedSingle fails loudly; embedBatch is
// allowed to be best-effort where the underlying API is per-item.
type provider interface {
	name() string
	embedSingle(ctx context.Context, text string) ([]float32, error)
	embedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Service implements the EmbeddingService interface, delegating to exactly
// one provider selected by configuration at startup.
type Service struct {
	provider  provider
	dimension int
	logger    arbor.ILogger
}

// NewService creates an embedding service for the configured provider
func NewService(cfg *common.Config, logger arbor.ILogger) (interfaces.EmbeddingService, error) {
	var p provider
	switch cfg.Embeddings.Provider {
	case "openai":
		p = newOpenAIProvider(&cfg.Embeddings, logger)
	case "gemini":
		gp, err := newGeminiProvider(cfg, logger)
		if err != nil {
			return nil, err
		}
		p = gp
	default:
		return nil, fmt.Errorf("unsupported embeddings provider: %s", cfg.Embeddings.Provider)
	}

	logger.Info().
		Str("provider", p.name()).
		Int("dimension", cfg.Embeddings.Dimension).
		Msg("Embedding service initialized")

	return &Service{
		provider:  p,
		dimension: cfg.Embeddings.Dimension,
		logger:    logger,
	}, nil
}

// Embed generates an embedding vector for a single text
func (s *Service) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("text cannot be empty for embedding generation")
	}

	start := time.Now()
	vector, err := s.provider.embedSingle(ctx, text)
	if err != nil {
		return nil, err
	}

	s.logger.Debug().
		Str("provider", s.provider.name()).
		Int("embedding_dim", len(vector)).
		Dur("duration", time.Since(start)).
		Msg("Generated embedding")

	return vector, nil
}

// EmbedBatch generates embeddings for multiple texts. The result always has
// the same length as the input.
func (s *Service) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	start := time.Now()
	vectors, err := s.provider.embedBatch(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("provider returned %d embeddings for %d texts", len(vectors), len(texts))
	}

	s.logger.Info().
		Str("provider", s.provider.name()).
		Int("count", len(vectors)).
		Dur("duration", time.Since(start)).
		Msg("Generated embeddings")

	return vectors, nil
}

// Dimension returns the configured vector dimensionality
func (s *Service) Dimension() int {
	return s.dimension
}

// ProviderName returns the active provider name
func (s *Service) ProviderName() string {
	return s.provider.name()
}
