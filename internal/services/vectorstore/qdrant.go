package vectorstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"

	"github.com/finsight-ai/finsight/internal/common"
	"github.com/finsight-ai/finsight/internal/httpclient"
	"github.com/finsight-ai/finsight/internal/interfaces"
)

// QdrantIndex is a minimal REST client to a Qdrant collection. It assumes
// cosine distance and creates the collection on first use if missing.
// Datapoints are namespaced by user id via payload filters.
type QdrantIndex struct {
	url        string
	apiKey     string
	collection string
	dimension  int
	client     *http.Client
	logger     arbor.ILogger
}

// NewQdrantIndex creates the remote index client and ensures the collection
// exists with the expected vector dimension.
func NewQdrantIndex(config *common.VectorIndexConfig, dimension int, logger arbor.ILogger) (*QdrantIndex, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("invalid vector dimension: %d", dimension)
	}

	q := &QdrantIndex{
		url:        config.URL,
		apiKey:     config.APIKey,
		collection: config.Collection,
		dimension:  dimension,
		client:     httpclient.NewDefaultHTTPClient(common.ParseDurationOr(config.Timeout, 15*time.Second)),
		logger:     logger,
	}

	if err := q.ensureCollection(); err != nil {
		return nil, fmt.Errorf("failed to initialize vector index collection: %w", err)
	}

	logger.Info().
		Str("collection", q.collection).
		Int("dimension", dimension).
		Msg("Vector index initialized")

	return q, nil
}

func (q *QdrantIndex) ensureCollection() error {
	// Qdrant returns 200 if the collection already exists with the same schema
	body := map[string]any{
		"vectors": map[string]any{
			"size":     q.dimension,
			"distance": "Cosine",
		},
	}
	return q.putJSON(fmt.Sprintf("%s/collections/%s", q.url, q.collection), body, nil)
}

func (q *QdrantIndex) Upsert(ctx context.Context, userID, transactionID, chunkID string, vector []float32) (string, error) {
	datapointID := uuid.New().String()
	body := map[string]any{
		"points": []map[string]any{
			{
				"id":     datapointID,
				"vector": vector,
				"payload": map[string]any{
					"user_id":        userID,
					"transaction_id": transactionID,
					"chunk_id":       chunkID,
				},
			},
		},
	}
	url := fmt.Sprintf("%s/collections/%s/points?wait=true", q.url, q.collection)
	if err := q.doJSON(ctx, http.MethodPut, url, body, nil); err != nil {
		return "", err
	}
	return datapointID, nil
}

func (q *QdrantIndex) Query(ctx context.Context, userID string, vector []float32, topK int) ([]interfaces.IndexMatch, error) {
	if topK <= 0 {
		topK = 5
	}
	req := map[string]any{
		"vector":       vector,
		"limit":        topK,
		"with_payload": true,
		"filter": map[string]any{
			"must": []map[string]any{
				{"key": "user_id", "match": map[string]any{"value": userID}},
			},
		},
	}
	var resp struct {
		Result []struct {
			ID      any            `json:"id"`
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	url := fmt.Sprintf("%s/collections/%s/points/search", q.url, q.collection)
	if err := q.doJSON(ctx, http.MethodPost, url, req, &resp); err != nil {
		return nil, err
	}

	matches := make([]interfaces.IndexMatch, 0, len(resp.Result))
	for _, r := range resp.Result {
		match := interfaces.IndexMatch{
			DatapointID: fmt.Sprintf("%v", r.ID),
			Score:       NormalizeScore(r.Score),
			Metadata:    make(map[string]string, len(r.Payload)),
		}
		for k, v := range r.Payload {
			if s, ok := v.(string); ok {
				match.Metadata[k] = s
			}
		}
		matches = append(matches, match)
	}
	return matches, nil
}

func (q *QdrantIndex) Delete(ctx context.Context, datapointID string) error {
	body := map[string]any{
		"points": []string{datapointID},
	}
	url := fmt.Sprintf("%s/collections/%s/points/delete?wait=true", q.url, q.collection)
	return q.doJSON(ctx, http.MethodPost, url, body, nil)
}

// NormalizeScore maps a cosine similarity in [-1, 1] onto [0, 1], clamping
// out-of-range inputs.
func NormalizeScore(cosine float64) float64 {
	normalized := (cosine + 1) / 2
	if normalized < 0 {
		return 0
	}
	if normalized > 1 {
		return 1
	}
	return normalized
}

func (q *QdrantIndex) putJSON(url string, body, out any) error {
	return q.doJSON(context.Background(), http.MethodPut, url, body, out)
}

func (q *QdrantIndex) doJSON(ctx context.Context, method, url string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if q.apiKey != "" {
		req.Header.Set("api-key", q.apiKey)
	}

	resp, err := q.client.Do(req)
	if err != nil {
		return fmt.Errorf("vector index request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("vector index %s %s failed: %s", method, url, resp.Status)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
