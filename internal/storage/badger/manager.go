package badger

import (
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/finsight-ai/finsight/internal/common"
	"github.com/finsight-ai/finsight/internal/interfaces"
)

// Manager provides access to all storage services backed by a single
// Badger database.
type Manager struct {
	db           *BadgerDB
	chunks       interfaces.ChunkStorage
	transactions interfaces.TransactionStorage
	logger       arbor.ILogger
}

// NewManager opens the Badger database and wires the storage services.
func NewManager(config *common.BadgerConfig, logger arbor.ILogger) (interfaces.StorageManager, error) {
	db, err := NewBadgerDB(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}

	return &Manager{
		db:           db,
		chunks:       NewChunkStorage(db, logger),
		transactions: NewTransactionStorage(db, logger),
		logger:       logger,
	}, nil
}

func (m *Manager) ChunkStorage() interfaces.ChunkStorage {
	return m.chunks
}

func (m *Manager) TransactionStorage() interfaces.TransactionStorage {
	return m.transactions
}

func (m *Manager) Close() error {
	m.logger.Info().Msg("Closing storage manager")
	return m.db.Close()
}
