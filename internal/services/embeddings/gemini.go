package embeddings

import (
	"context"

	"github.com/ternarybob/arbor"
	"google.golang.org/genai"

	"github.com/finsight-ai/finsight/internal/common"
)

const defaultGeminiEmbedModel = "text-embedding-004"

// geminiProvider generates embeddings via the Gemini API. The API is called
// per item; a best-effort batch substitutes a zero vector for any item that
// fails so the result stays aligned with the input.
type geminiProvider struct {
	client    *genai.Client
	model     string
	dimension int
	logger    arbor.ILogger
}

func newGeminiProvider(cfg *common.Config, logger arbor.ILogger) (*geminiProvider, error) {
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  cfg.Gemini.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, &ProviderError{Provider: "gemini", Message: "failed to create client: " + err.Error()}
	}

	model := cfg.Embeddings.Model
	if model == "" {
		model = defaultGeminiEmbedModel
	}

	return &geminiProvider{
		client:    client,
		model:     model,
		dimension: cfg.Embeddings.Dimension,
		logger:    logger,
	}, nil
}

func (p *geminiProvider) name() string { return "gemini" }

func (p *geminiProvider) embedSingle(ctx context.Context, text string) ([]float32, error) {
	return p.embedOne(ctx, text)
}

func (p *geminiProvider) embedOne(ctx context.Context, text string) ([]float32, error) {
	outputDim := int32(p.dimension)
	result, err := p.client.Models.EmbedContent(ctx, p.model,
		[]*genai.Content{genai.NewContentFromText(text, genai.RoleUser)},
		&genai.EmbedContentConfig{OutputDimensionality: &outputDim})
	if err != nil {
		return nil, &ProviderError{Provider: p.name(), Message: err.Error()}
	}
	if result == nil || len(result.Embeddings) == 0 || len(result.Embeddings[0].Values) == 0 {
		return nil, &ProviderError{Provider: p.name(), Message: "empty embedding in response"}
	}
	return result.Embeddings[0].Values, nil
}

func (p *geminiProvider) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vector, err := p.embedOne(ctx, text)
		if err != nil {
			// Substitute a zero vector so batch size invariants hold for
			// callers matching chunk count to embedding count. The chunk
			// stays "pending" and is retried by the processing sweep.
			p.logger.Warn().
				Err(err).
				Int("index", i).
				Msg("Embedding failed for batch item, substituting zero vector")
			vectors[i] = ZeroVector(p.dimension)
			continue
		}
		vectors[i] = vector
	}

	p.logger.Debug().
		Int("count", len(vectors)).
		Str("model", p.model).
		Msg("Generated embeddings via Gemini")

	return vectors, nil
}
