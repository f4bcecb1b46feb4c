package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTextSummary(t *testing.T) {
	tests := []struct {
		name     string
		tx       Transaction
		expected string
	}{
		{
			name: "all fields",
			tx: Transaction{
				Description: "LOTHIAN BUSES",
				Merchant:    "Edinburgh",
				Amount:      -2.5,
				Currency:    "GBP",
				Category:    "Transport",
				Timestamp:   time.Date(2024, 11, 15, 8, 30, 0, 0, time.UTC),
			},
			expected: "Transaction: LOTHIAN BUSES at Edinburgh | Amount: -2.50 GBP | Category: Transport | Date: 2024-11-15T08:30:00Z",
		},
		{
			name: "missing description renders Unknown",
			tx: Transaction{
				Amount:   -5,
				Currency: "GBP",
			},
			expected: "Transaction: Unknown | Amount: -5.00 GBP",
		},
		{
			name: "no merchant omits at clause",
			tx: Transaction{
				Description: "Refund",
				Amount:      10,
				Currency:    "EUR",
				Category:    "REFUND",
			},
			expected: "Transaction: Refund | Amount: 10.00 EUR | Category: REFUND",
		},
		{
			name: "non-utc timestamp normalized",
			tx: Transaction{
				Description: "Coffee",
				Amount:      -3,
				Currency:    "GBP",
				Timestamp:   time.Date(2024, 11, 15, 9, 30, 0, 0, time.FixedZone("CET", 3600)),
			},
			expected: "Transaction: Coffee | Amount: -3.00 GBP | Date: 2024-11-15T08:30:00Z",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.tx.TextSummary())
		})
	}
}

func TestIsEmbedded(t *testing.T) {
	pending := &TransactionChunk{}
	assert.False(t, pending.IsEmbedded())

	embedded := &TransactionChunk{Embedding: "[0.1,0.2]"}
	assert.True(t, embedded.IsEmbedded())
}
