package models

import "time"

// TransactionChunk is a bounded-length fragment of one transaction's text
// summary, the unit of embedding and retrieval. A chunk is "pending" until an
// embedding has been stored for it; the embedding itself is kept in its
// serialized string form and decoded on read.
type TransactionChunk struct {
	ID            string    `json:"id" badgerhold:"key"`
	UserID        string    `json:"user_id" badgerhold:"index"`
	TransactionID string    `json:"transaction_id" badgerhold:"index"`
	ChunkText     string    `json:"chunk_text"`
	ChunkIndex    int       `json:"chunk_index"` // Ordinal among chunks of the same transaction
	Embedding     string    `json:"embedding"`   // Serialized vector, empty while pending
	DatapointID   string    `json:"datapoint_id" badgerhold:"index"` // Remote index id, set only on successful mirror
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// IsEmbedded reports whether an embedding has been computed and stored
func (c *TransactionChunk) IsEmbedded() bool {
	return c.Embedding != ""
}

// SimilarityResult pairs a chunk with its similarity score in [0, 1]
type SimilarityResult struct {
	Chunk *TransactionChunk `json:"chunk"`
	Score float64           `json:"score"`
}
