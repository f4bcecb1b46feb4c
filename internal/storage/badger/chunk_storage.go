package badger

import (
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/finsight-ai/finsight/internal/interfaces"
	"github.com/finsight-ai/finsight/internal/models"
	"github.com/finsight-ai/finsight/internal/services/embeddings"
)

// ChunkStorage implements the ChunkStorage interface for Badger
type ChunkStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewChunkStorage creates a new ChunkStorage instance
func NewChunkStorage(db *BadgerDB, logger arbor.ILogger) interfaces.ChunkStorage {
	return &ChunkStorage{
		db:     db,
		logger: logger,
	}
}

func (s *ChunkStorage) SaveChunk(chunk *models.TransactionChunk) error {
	if chunk.ID == "" {
		return fmt.Errorf("chunk ID is required")
	}
	if chunk.ChunkText == "" {
		return fmt.Errorf("chunk text is required")
	}

	now := time.Now()
	if chunk.CreatedAt.IsZero() {
		chunk.CreatedAt = now
	}
	chunk.UpdatedAt = now

	if err := s.db.Store().Upsert(chunk.ID, chunk); err != nil {
		return fmt.Errorf("failed to save chunk: %w", err)
	}
	return nil
}

func (s *ChunkStorage) UpdateChunk(chunk *models.TransactionChunk) error {
	return s.SaveChunk(chunk)
}

func (s *ChunkStorage) GetChunk(id string) (*models.TransactionChunk, error) {
	var chunk models.TransactionChunk
	if err := s.db.Store().Get(id, &chunk); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("chunk not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get chunk: %w", err)
	}
	return &chunk, nil
}

func (s *ChunkStorage) GetChunkByDatapointID(datapointID string) (*models.TransactionChunk, error) {
	var chunks []models.TransactionChunk
	err := s.db.Store().Find(&chunks, badgerhold.Where("DatapointID").Eq(datapointID))
	if err != nil {
		return nil, fmt.Errorf("failed to find chunk by datapoint id: %w", err)
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("chunk not found for datapoint: %s", datapointID)
	}
	return &chunks[0], nil
}

func (s *ChunkStorage) GetChunksByUser(userID string) ([]*models.TransactionChunk, error) {
	var chunks []models.TransactionChunk
	err := s.db.Store().Find(&chunks, badgerhold.Where("UserID").Eq(userID))
	if err != nil {
		return nil, fmt.Errorf("failed to get chunks for user: %w", err)
	}
	return toPointers(chunks), nil
}

// GetEmbeddedChunksByUser returns the user's chunks that have a stored
// embedding. Zero-vector embeddings are filtered later by the search path;
// here the filter is only presence.
func (s *ChunkStorage) GetEmbeddedChunksByUser(userID string) ([]*models.TransactionChunk, error) {
	var chunks []models.TransactionChunk
	err := s.db.Store().Find(&chunks, badgerhold.Where("UserID").Eq(userID).And("Embedding").Ne(""))
	if err != nil {
		return nil, fmt.Errorf("failed to get embedded chunks for user: %w", err)
	}
	return toPointers(chunks), nil
}

func (s *ChunkStorage) GetChunksByTransaction(transactionID string) ([]*models.TransactionChunk, error) {
	var chunks []models.TransactionChunk
	err := s.db.Store().Find(&chunks, badgerhold.Where("TransactionID").Eq(transactionID))
	if err != nil {
		return nil, fmt.Errorf("failed to get chunks for transaction: %w", err)
	}
	return toPointers(chunks), nil
}

// GetPendingChunks returns chunks whose embedding is absent or is a zero
// vector, i.e. chunks whose embedding never succeeded.
func (s *ChunkStorage) GetPendingChunks(limit int) ([]*models.TransactionChunk, error) {
	var chunks []models.TransactionChunk
	query := badgerhold.Where("Embedding").MatchFunc(func(ra *badgerhold.RecordAccess) (bool, error) {
		encoded, ok := ra.Field().(string)
		if !ok {
			return false, nil
		}
		return encoded == "" || embeddings.IsZeroVector(embeddings.DecodeVector(encoded)), nil
	})
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := s.db.Store().Find(&chunks, query); err != nil {
		return nil, fmt.Errorf("failed to get pending chunks: %w", err)
	}
	return toPointers(chunks), nil
}

func (s *ChunkStorage) DeleteChunksByUser(userID string) error {
	err := s.db.Store().DeleteMatching(&models.TransactionChunk{}, badgerhold.Where("UserID").Eq(userID))
	if err != nil {
		return fmt.Errorf("failed to delete chunks for user: %w", err)
	}
	return nil
}

func (s *ChunkStorage) DeleteChunksByTransaction(transactionID string) error {
	err := s.db.Store().DeleteMatching(&models.TransactionChunk{}, badgerhold.Where("TransactionID").Eq(transactionID))
	if err != nil {
		return fmt.Errorf("failed to delete chunks for transaction: %w", err)
	}
	return nil
}

func (s *ChunkStorage) CountChunks() (int, error) {
	count, err := s.db.Store().Count(&models.TransactionChunk{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count chunks: %w", err)
	}
	return int(count), nil
}

func toPointers(chunks []models.TransactionChunk) []*models.TransactionChunk {
	result := make([]*models.TransactionChunk, len(chunks))
	for i := range chunks {
		result[i] = &chunks[i]
	}
	return result
}
