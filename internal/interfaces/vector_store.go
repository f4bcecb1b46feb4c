package interfaces

import (
	"context"

	"github.com/finsight-ai/finsight/internal/models"
)

// VectorStore persists chunk+vector pairs and answers top-K similarity
// queries. The durable copy always lives in local storage; a remote
// vector-search backend, when configured, is a best-effort mirror used for
// the read path with the local exhaustive scan as guaranteed fallback.
type VectorStore interface {
	// StoreChunk persists one chunk with its embedding. The local record is
	// written first so an identity is assigned; mirroring into the remote
	// index is best-effort and never fails the call.
	StoreChunk(ctx context.Context, userID, transactionID, chunkText string, vector []float32, chunkIndex int) error

	// StoreChunks persists parallel slices of chunk texts and vectors for
	// one transaction, assigning ordinal indices in order.
	StoreChunks(ctx context.Context, userID, transactionID string, chunkTexts []string, vectors [][]float32) error

	// Search returns up to topK chunks for the user ranked by descending
	// similarity to the query vector.
	Search(ctx context.Context, userID string, queryVector []float32, topK int) ([]models.SimilarityResult, error)

	// DeleteByUser removes all of a user's chunks, locally and remotely
	DeleteByUser(ctx context.Context, userID string) error

	// DeleteByTransaction removes a transaction's chunks, locally and remotely
	DeleteByTransaction(ctx context.Context, transactionID string) error
}

// IndexMatch is one ranked result from a remote vector-search backend:
// an opaque datapoint id, a similarity score normalized to [0, 1], and any
// metadata the backend stored alongside the vector.
type IndexMatch struct {
	DatapointID string
	Score       float64
	Metadata    map[string]string
}

// VectorIndex is the optional remote vector-search backend. Implementations
// namespace datapoints by user id so queries never cross user boundaries.
type VectorIndex interface {
	// Upsert stores a vector with its metadata and returns the opaque
	// datapoint id the backend assigned (or confirmed).
	Upsert(ctx context.Context, userID, transactionID, chunkID string, vector []float32) (string, error)

	// Query returns up to topK nearest datapoints restricted to the user
	Query(ctx context.Context, userID string, vector []float32, topK int) ([]IndexMatch, error)

	// Delete removes a datapoint by its opaque id
	Delete(ctx context.Context, datapointID string) error
}
