package embeddings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/finsight-ai/finsight/internal/common"
	"github.com/finsight-ai/finsight/internal/httpclient"
)

const defaultOpenAIEmbedModel = "text-embedding-3-small"

// openAIProvider generates embeddings via the OpenAI REST API. The API
// accepts the whole batch in one request, so batch calls are all-or-nothing.
type openAIProvider struct {
	apiURL    string
	apiKey    string
	model     string
	dimension int
	client    *http.Client
	logger    arbor.ILogger
}

func newOpenAIProvider(cfg *common.EmbeddingsConfig, logger arbor.ILogger) *openAIProvider {
	model := cfg.Model
	if model == "" {
		model = defaultOpenAIEmbedModel
	}
	apiURL := cfg.OpenAI.APIURL
	if apiURL == "" {
		apiURL = "https://api.openai.com/v1"
	}
	return &openAIProvider{
		apiURL:    apiURL,
		apiKey:    cfg.OpenAI.APIKey,
		model:     model,
		dimension: cfg.Dimension,
		client:    httpclient.NewDefaultHTTPClient(30 * time.Second),
		logger:    logger,
	}
}

func (p *openAIProvider) name() string { return "openai" }

func (p *openAIProvider) embedSingle(ctx context.Context, text string) ([]float32, error) {
	vectors, err := p.embedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

type openAIEmbedRequest struct {
	Model      string   `json:"model"`
	Input      []string `json:"input"`
	Dimensions int      `json:"dimensions,omitempty"`
}

type openAIEmbedResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

func (p *openAIProvider) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	reqBody := openAIEmbedRequest{
		Model: p.model,
		Input: texts,
	}
	// text-embedding-3-* models accept a reduced output dimensionality
	if p.dimension > 0 {
		reqBody.Dimensions = p.dimension
	}

	data, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal embeddings request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiURL+"/embeddings", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to build embeddings request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, &ProviderError{Provider: p.name(), Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ProviderError{Provider: p.name(), StatusCode: resp.StatusCode, Message: err.Error()}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &ProviderError{Provider: p.name(), StatusCode: resp.StatusCode, Message: string(body)}
	}

	var parsed openAIEmbedResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, &ProviderError{Provider: p.name(), StatusCode: resp.StatusCode, Message: "invalid response body: " + err.Error()}
	}
	if len(parsed.Data) != len(texts) {
		return nil, &ProviderError{
			Provider: p.name(),
			Message:  fmt.Sprintf("expected %d embeddings, got %d", len(texts), len(parsed.Data)),
		}
	}

	// The API documents data as input-ordered, but index is authoritative
	vectors := make([][]float32, len(texts))
	for _, item := range parsed.Data {
		if item.Index < 0 || item.Index >= len(vectors) {
			return nil, &ProviderError{Provider: p.name(), Message: fmt.Sprintf("embedding index %d out of range", item.Index)}
		}
		vectors[item.Index] = item.Embedding
	}

	p.logger.Debug().
		Int("count", len(vectors)).
		Str("model", p.model).
		Msg("Generated embeddings via OpenAI")

	return vectors, nil
}
