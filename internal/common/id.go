package common

import (
	"github.com/google/uuid"
)

// NewTransactionID generates a unique transaction ID with the "txn_" prefix
func NewTransactionID() string {
	return "txn_" + uuid.New().String()
}

// NewChunkID generates a unique chunk ID with the "chunk_" prefix
func NewChunkID() string {
	return "chunk_" + uuid.New().String()
}
