package transactions

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/finsight-ai/finsight/internal/common"
	"github.com/finsight-ai/finsight/internal/interfaces"
	"github.com/finsight-ai/finsight/internal/models"
	"github.com/finsight-ai/finsight/internal/services/chunker"
)

// Service is the consuming edge of transaction ingestion: it persists
// transaction records and maintains their chunk/embedding projections under a
// delete-then-recreate discipline.
//
// Reprocessing rewrites a user's chunk set while plan requests may be reading
// it. Rewrites hold the user's write lock in the shared registry; the search
// path holds the read lock, so reads never land between the delete and the
// recreate.
type Service struct {
	transactions interfaces.TransactionStorage
	chunker      *chunker.Service
	embedder     interfaces.EmbeddingService
	vectorStore  interfaces.VectorStore
	locks        *common.UserLocks
	logger       arbor.ILogger
}

func NewService(
	transactions interfaces.TransactionStorage,
	chunkerService *chunker.Service,
	embedder interfaces.EmbeddingService,
	vectorStore interfaces.VectorStore,
	locks *common.UserLocks,
	logger arbor.ILogger,
) *Service {
	return &Service{
		transactions: transactions,
		chunker:      chunkerService,
		embedder:     embedder,
		vectorStore:  vectorStore,
		locks:        locks,
		logger:       logger,
	}
}

// UpsertTransaction saves the transaction record and rebuilds its chunks.
// A missing ID is assigned.
func (s *Service) UpsertTransaction(ctx context.Context, tx *models.Transaction) error {
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}
	if tx.UserID == "" {
		return fmt.Errorf("transaction user ID is required")
	}
	if tx.ID == "" {
		tx.ID = common.NewTransactionID()
	}

	if err := s.transactions.SaveTransaction(tx); err != nil {
		return fmt.Errorf("failed to save transaction: %w", err)
	}

	return s.ReprocessTransaction(ctx, tx)
}

// ReprocessTransaction deletes the transaction's existing chunks and rebuilds
// them: chunk the summary, embed the chunks, store chunk+vector pairs. A
// chunk whose embedding failed is stored with a zero vector and picked up by
// the background sweep.
func (s *Service) ReprocessTransaction(ctx context.Context, tx *models.Transaction) error {
	s.locks.Lock(tx.UserID)
	defer s.locks.Unlock(tx.UserID)

	if err := s.vectorStore.DeleteByTransaction(ctx, tx.ID); err != nil {
		return fmt.Errorf("failed to delete existing chunks: %w", err)
	}

	chunkTexts := s.chunker.ChunkTransaction(tx)
	if len(chunkTexts) == 0 {
		s.logger.Warn().
			Str("transaction_id", tx.ID).
			Msg("Transaction produced no chunks, skipping embedding")
		return nil
	}

	vectors, err := s.embedder.EmbedBatch(ctx, chunkTexts)
	if err != nil {
		return fmt.Errorf("failed to embed transaction chunks: %w", err)
	}

	if err := s.vectorStore.StoreChunks(ctx, tx.UserID, tx.ID, chunkTexts, vectors); err != nil {
		return fmt.Errorf("failed to store transaction chunks: %w", err)
	}

	s.logger.Info().
		Str("transaction_id", tx.ID).
		Str("user_id", tx.UserID).
		Int("chunks", len(chunkTexts)).
		Msg("Transaction reprocessed")

	return nil
}

func (s *Service) GetTransaction(id string) (*models.Transaction, error) {
	return s.transactions.GetTransaction(id)
}

func (s *Service) ListTransactions(userID string) ([]*models.Transaction, error) {
	return s.transactions.GetTransactionsByUser(userID)
}

// DeleteTransaction removes the record and its chunk projections
func (s *Service) DeleteTransaction(ctx context.Context, userID, id string) error {
	s.locks.Lock(userID)
	defer s.locks.Unlock(userID)

	if err := s.vectorStore.DeleteByTransaction(ctx, id); err != nil {
		return fmt.Errorf("failed to delete transaction chunks: %w", err)
	}
	if err := s.transactions.DeleteTransaction(id); err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return nil
}

// DeleteUserData removes all of a user's transactions and chunks
func (s *Service) DeleteUserData(ctx context.Context, userID string) error {
	s.locks.Lock(userID)
	defer s.locks.Unlock(userID)

	if err := s.vectorStore.DeleteByUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete user chunks: %w", err)
	}
	if err := s.transactions.DeleteTransactionsByUser(userID); err != nil {
		return fmt.Errorf("failed to delete user transactions: %w", err)
	}
	return nil
}
