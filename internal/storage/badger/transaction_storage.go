package badger

import (
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/finsight-ai/finsight/internal/interfaces"
	"github.com/finsight-ai/finsight/internal/models"
)

// TransactionStorage implements the TransactionStorage interface for Badger
type TransactionStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewTransactionStorage creates a new TransactionStorage instance
func NewTransactionStorage(db *BadgerDB, logger arbor.ILogger) interfaces.TransactionStorage {
	return &TransactionStorage{
		db:     db,
		logger: logger,
	}
}

func (s *TransactionStorage) SaveTransaction(tx *models.Transaction) error {
	if tx.ID == "" {
		return fmt.Errorf("transaction ID is required")
	}
	if tx.UserID == "" {
		return fmt.Errorf("transaction user ID is required")
	}

	now := time.Now()
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = now
	}
	tx.UpdatedAt = now

	if err := s.db.Store().Upsert(tx.ID, tx); err != nil {
		return fmt.Errorf("failed to save transaction: %w", err)
	}
	return nil
}

func (s *TransactionStorage) GetTransaction(id string) (*models.Transaction, error) {
	var tx models.Transaction
	if err := s.db.Store().Get(id, &tx); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("transaction not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &tx, nil
}

func (s *TransactionStorage) GetTransactionsByUser(userID string) ([]*models.Transaction, error) {
	var txs []models.Transaction
	err := s.db.Store().Find(&txs, badgerhold.Where("UserID").Eq(userID))
	if err != nil {
		return nil, fmt.Errorf("failed to get transactions for user: %w", err)
	}
	result := make([]*models.Transaction, len(txs))
	for i := range txs {
		result[i] = &txs[i]
	}
	return result, nil
}

func (s *TransactionStorage) DeleteTransaction(id string) error {
	if err := s.db.Store().Delete(id, &models.Transaction{}); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil
		}
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return nil
}

func (s *TransactionStorage) DeleteTransactionsByUser(userID string) error {
	err := s.db.Store().DeleteMatching(&models.Transaction{}, badgerhold.Where("UserID").Eq(userID))
	if err != nil {
		return fmt.Errorf("failed to delete transactions for user: %w", err)
	}
	return nil
}
