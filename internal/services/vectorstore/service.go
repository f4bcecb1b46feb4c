package vectorstore

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/finsight-ai/finsight/internal/common"
	"github.com/finsight-ai/finsight/internal/interfaces"
	"github.com/finsight-ai/finsight/internal/models"
	"github.com/finsight-ai/finsight/internal/services/embeddings"
)

// Service implements the VectorStore interface. BadgerDB holds the durable
// copy of every chunk; when a remote index is configured it is mirrored on
// writes and preferred on reads, with the local exhaustive scan as the
// guaranteed fallback.
//
// Search holds the user's read lock for the duration of the query, so a
// concurrent chunk-set rewrite (which holds the write lock) can never expose
// the gap between its delete and its recreate.
type Service struct {
	chunks interfaces.ChunkStorage
	index  interfaces.VectorIndex // nil when the remote backend is disabled
	locks  *common.UserLocks
	logger arbor.ILogger
}

// NewService creates a vector store over the given chunk storage. index may
// be nil, in which case all search goes through the local scan. locks is the
// registry shared with the writers that rebuild chunk sets.
func NewService(chunks interfaces.ChunkStorage, index interfaces.VectorIndex, locks *common.UserLocks, logger arbor.ILogger) interfaces.VectorStore {
	return &Service{
		chunks: chunks,
		index:  index,
		locks:  locks,
		logger: logger,
	}
}

func (s *Service) StoreChunk(ctx context.Context, userID, transactionID, chunkText string, vector []float32, chunkIndex int) error {
	if userID == "" {
		return fmt.Errorf("user ID is required")
	}
	if chunkText == "" {
		return fmt.Errorf("chunk text is required")
	}

	chunk := &models.TransactionChunk{
		ID:            common.NewChunkID(),
		UserID:        userID,
		TransactionID: transactionID,
		ChunkText:     chunkText,
		ChunkIndex:    chunkIndex,
		Embedding:     embeddings.EncodeVector(vector),
	}

	// Local write first so the chunk has an identity even if mirroring fails
	if err := s.chunks.SaveChunk(chunk); err != nil {
		return fmt.Errorf("failed to persist chunk: %w", err)
	}

	s.mirrorChunk(ctx, chunk, vector)
	return nil
}

func (s *Service) StoreChunks(ctx context.Context, userID, transactionID string, chunkTexts []string, vectors [][]float32) error {
	if len(chunkTexts) != len(vectors) {
		return fmt.Errorf("chunk texts and vectors length mismatch: %d != %d", len(chunkTexts), len(vectors))
	}
	for i := range chunkTexts {
		if err := s.StoreChunk(ctx, userID, transactionID, chunkTexts[i], vectors[i], i); err != nil {
			return fmt.Errorf("failed to store chunk %d: %w", i, err)
		}
	}
	return nil
}

// mirrorChunk pushes the chunk into the remote index. Failure only logs; the
// local copy already holds the data and the local scan will serve it.
func (s *Service) mirrorChunk(ctx context.Context, chunk *models.TransactionChunk, vector []float32) {
	if s.index == nil || embeddings.IsZeroVector(vector) {
		return
	}

	datapointID, err := s.index.Upsert(ctx, chunk.UserID, chunk.TransactionID, chunk.ID, vector)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("chunk_id", chunk.ID).
			Msg("Failed to mirror chunk into vector index")
		return
	}

	chunk.DatapointID = datapointID
	if err := s.chunks.UpdateChunk(chunk); err != nil {
		s.logger.Warn().
			Err(err).
			Str("chunk_id", chunk.ID).
			Msg("Failed to record datapoint id for mirrored chunk")
	}
}

func (s *Service) Search(ctx context.Context, userID string, queryVector []float32, topK int) ([]models.SimilarityResult, error) {
	s.locks.RLock(userID)
	defer s.locks.RUnlock(userID)

	if s.index != nil {
		results, err := s.searchRemote(ctx, userID, queryVector, topK)
		if err == nil {
			return results, nil
		}
		s.logger.Warn().
			Err(err).
			Str("user_id", userID).
			Msg("Vector index search failed, falling back to local scan")
	}
	return s.searchLocal(userID, queryVector, topK)
}

// searchRemote queries the remote index and resolves each match back to its
// local chunk, preferring the stored datapoint id and falling back to the
// chunk_id metadata the index carries.
func (s *Service) searchRemote(ctx context.Context, userID string, queryVector []float32, topK int) ([]models.SimilarityResult, error) {
	matches, err := s.index.Query(ctx, userID, queryVector, topK)
	if err != nil {
		return nil, err
	}

	results := make([]models.SimilarityResult, 0, len(matches))
	for _, match := range matches {
		chunk, err := s.chunks.GetChunkByDatapointID(match.DatapointID)
		if err != nil {
			if chunkID := match.Metadata["chunk_id"]; chunkID != "" {
				chunk, err = s.chunks.GetChunk(chunkID)
			}
		}
		if err != nil || chunk == nil {
			s.logger.Warn().
				Str("datapoint_id", match.DatapointID).
				Msg("Vector index match has no local chunk, skipping")
			continue
		}
		results = append(results, models.SimilarityResult{
			Chunk: chunk,
			Score: match.Score,
		})
	}
	return results, nil
}

// searchLocal is the exhaustive cosine scan over the user's embedded chunks.
func (s *Service) searchLocal(userID string, queryVector []float32, topK int) ([]models.SimilarityResult, error) {
	chunks, err := s.chunks.GetEmbeddedChunksByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load chunks for search: %w", err)
	}
	return rankLocal(chunks, queryVector, topK), nil
}

func (s *Service) DeleteByUser(ctx context.Context, userID string) error {
	if s.index != nil {
		chunks, err := s.chunks.GetChunksByUser(userID)
		if err == nil {
			s.deleteRemote(ctx, chunks)
		}
	}
	if err := s.chunks.DeleteChunksByUser(userID); err != nil {
		return fmt.Errorf("failed to delete chunks for user: %w", err)
	}
	return nil
}

func (s *Service) DeleteByTransaction(ctx context.Context, transactionID string) error {
	if s.index != nil {
		chunks, err := s.chunks.GetChunksByTransaction(transactionID)
		if err == nil {
			s.deleteRemote(ctx, chunks)
		}
	}
	if err := s.chunks.DeleteChunksByTransaction(transactionID); err != nil {
		return fmt.Errorf("failed to delete chunks for transaction: %w", err)
	}
	return nil
}

func (s *Service) deleteRemote(ctx context.Context, chunks []*models.TransactionChunk) {
	for _, chunk := range chunks {
		if chunk.DatapointID == "" {
			continue
		}
		if err := s.index.Delete(ctx, chunk.DatapointID); err != nil {
			s.logger.Warn().
				Err(err).
				Str("datapoint_id", chunk.DatapointID).
				Msg("Failed to delete datapoint from vector index")
		}
	}
}
