package interfaces

import "context"

// RetrievedContext is a prompt-ready projection of one retrieved chunk. It is
// never persisted.
type RetrievedContext struct {
	Text          string `json:"text"`
	TransactionID string `json:"transaction_id"`
	ChunkID       string `json:"chunk_id"`
	Source        string `json:"source"` // Source-type tag, currently always "transaction"
}

// RetrievalService embeds a query, searches the vector store, and renders the
// results into grounding context for the agents.
type RetrievalService interface {
	// RetrieveContext returns up to topK relevant contexts for the query.
	// A failed query embedding yields an empty slice rather than an error so
	// downstream agents degrade to "no grounding context".
	RetrieveContext(ctx context.Context, userID, query string, topK int) []RetrievedContext

	// BuildContextString renders contexts as a numbered list; an empty input
	// yields a fixed "no relevant data" sentinel so the downstream prompt is
	// always well-formed.
	BuildContextString(contexts []RetrievedContext) string
}
