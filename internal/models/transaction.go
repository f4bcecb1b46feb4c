package models

import (
	"strconv"
	"strings"
	"time"
)

// Transaction is a single bank transaction belonging to one user. Records are
// written by the ingestion path and only read during question answering.
type Transaction struct {
	ID          string    `json:"id" badgerhold:"key"`
	UserID      string    `json:"user_id" badgerhold:"index"`
	Description string    `json:"description"`
	Merchant    string    `json:"merchant"`
	Amount      float64   `json:"amount"`
	Currency    string    `json:"currency"`
	Category    string    `json:"category"`
	Timestamp   time.Time `json:"timestamp"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TextSummary renders the canonical one-line text form of the transaction.
// This rendering is the unit of chunking and embedding, and the citation
// parser depends on its field order.
//
// Example: "Transaction: LOTHIAN BUSES at Edinburgh | Amount: -2.50 GBP |
// Category: Transport | Date: 2024-11-15T08:30:00Z"
func (t *Transaction) TextSummary() string {
	var sb strings.Builder
	sb.WriteString("Transaction: ")
	if t.Description != "" {
		sb.WriteString(t.Description)
	} else {
		sb.WriteString("Unknown")
	}
	if t.Merchant != "" {
		sb.WriteString(" at ")
		sb.WriteString(t.Merchant)
	}
	sb.WriteString(" | Amount: ")
	sb.WriteString(strconv.FormatFloat(t.Amount, 'f', 2, 64))
	sb.WriteString(" ")
	sb.WriteString(t.Currency)
	if t.Category != "" {
		sb.WriteString(" | Category: ")
		sb.WriteString(t.Category)
	}
	if !t.Timestamp.IsZero() {
		sb.WriteString(" | Date: ")
		sb.WriteString(t.Timestamp.UTC().Format(time.RFC3339))
	}
	return sb.String()
}
