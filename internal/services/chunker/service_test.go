package chunker

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/finsight-ai/finsight/internal/models"
)

func TestSplit(t *testing.T) {
	logger := arbor.NewLogger()
	service := NewService(500, logger)

	tests := []struct {
		name           string
		text           string
		expectedChunks int
	}{
		{
			name:           "empty text",
			text:           "",
			expectedChunks: 0,
		},
		{
			name:           "short text single chunk",
			text:           "Transaction: Tesco | Amount: -5.00 GBP",
			expectedChunks: 1,
		},
		{
			name:           "exactly max size single chunk",
			text:           strings.Repeat("a", 500),
			expectedChunks: 1,
		},
		{
			name:           "one over max splits in two",
			text:           strings.Repeat("a", 501),
			expectedChunks: 2,
		},
		{
			name:           "two times max plus one splits in three",
			text:           strings.Repeat("a", 1001),
			expectedChunks: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := service.Split(tt.text)
			assert.Len(t, chunks, tt.expectedChunks)

			// Concatenation must reconstruct the input exactly
			assert.Equal(t, tt.text, strings.Join(chunks, ""))

			// No chunk exceeds the maximum
			for _, chunk := range chunks {
				assert.LessOrEqual(t, len(chunk), 500)
			}
		})
	}
}

func TestSplit_CustomMaxSize(t *testing.T) {
	logger := arbor.NewLogger()
	service := NewService(10, logger)

	chunks := service.Split("abcdefghijklmnopqrstuvwxyz")
	require.Len(t, chunks, 3)
	assert.Equal(t, "abcdefghij", chunks[0])
	assert.Equal(t, "klmnopqrst", chunks[1])
	assert.Equal(t, "uvwxyz", chunks[2])
}

func TestSplit_DefaultsOnInvalidMaxSize(t *testing.T) {
	logger := arbor.NewLogger()
	service := NewService(0, logger)

	chunks := service.Split(strings.Repeat("x", DefaultMaxChunkSize+1))
	assert.Len(t, chunks, 2)
}

func TestChunkTransaction(t *testing.T) {
	logger := arbor.NewLogger()
	service := NewService(500, logger)

	tx := &models.Transaction{
		ID:          "txn_1",
		UserID:      "user_1",
		Description: "Weekly groceries",
		Merchant:    "Tesco",
		Amount:      -42.50,
		Currency:    "GBP",
		Category:    "GROCERIES",
		Timestamp:   time.Date(2025, 11, 14, 0, 0, 0, 0, time.UTC),
	}

	chunks := service.ChunkTransaction(tx)
	require.Len(t, chunks, 1)
	assert.Contains(t, chunks[0], "Weekly groceries")
	assert.Contains(t, chunks[0], "-42.50 GBP")
	assert.Contains(t, chunks[0], "GROCERIES")
}
