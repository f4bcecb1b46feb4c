package interfaces

import (
	"github.com/finsight-ai/finsight/internal/models"
)

// ChunkStorage - interface for transaction chunk persistence
type ChunkStorage interface {
	SaveChunk(chunk *models.TransactionChunk) error
	UpdateChunk(chunk *models.TransactionChunk) error
	GetChunk(id string) (*models.TransactionChunk, error)
	GetChunkByDatapointID(datapointID string) (*models.TransactionChunk, error)
	GetChunksByUser(userID string) ([]*models.TransactionChunk, error)
	GetEmbeddedChunksByUser(userID string) ([]*models.TransactionChunk, error)
	GetChunksByTransaction(transactionID string) ([]*models.TransactionChunk, error)
	GetPendingChunks(limit int) ([]*models.TransactionChunk, error)
	DeleteChunksByUser(userID string) error
	DeleteChunksByTransaction(transactionID string) error
	CountChunks() (int, error)
}

// TransactionStorage - interface for transaction record persistence
type TransactionStorage interface {
	SaveTransaction(tx *models.Transaction) error
	GetTransaction(id string) (*models.Transaction, error)
	GetTransactionsByUser(userID string) ([]*models.Transaction, error)
	DeleteTransaction(id string) error
	DeleteTransactionsByUser(userID string) error
}

// StorageManager provides access to all storage interfaces over one database
type StorageManager interface {
	ChunkStorage() ChunkStorage
	TransactionStorage() TransactionStorage
	Close() error
}
