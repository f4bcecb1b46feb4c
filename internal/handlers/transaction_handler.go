package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/finsight-ai/finsight/internal/models"
	"github.com/finsight-ai/finsight/internal/services/transactions"
)

// TransactionHandler exposes transaction upsert, listing, and deletion
type TransactionHandler struct {
	service *transactions.Service
	logger  arbor.ILogger
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(service *transactions.Service, logger arbor.ILogger) *TransactionHandler {
	return &TransactionHandler{
		service: service,
		logger:  logger,
	}
}

// TransactionsHandler handles /api/transactions: GET lists the user's
// transactions, POST upserts one and rebuilds its chunks.
func (h *TransactionHandler) TransactionsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := RequireUserID(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.listTransactions(w, userID)
	case http.MethodPost:
		h.upsertTransaction(w, r, userID)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *TransactionHandler) listTransactions(w http.ResponseWriter, userID string) {
	txs, err := h.service.ListTransactions(userID)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to list transactions")
		WriteError(w, http.StatusInternalServerError, "Failed to fetch transactions")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"count":        len(txs),
		"transactions": txs,
	})
}

func (h *TransactionHandler) upsertTransaction(w http.ResponseWriter, r *http.Request, userID string) {
	var tx models.Transaction
	if err := json.NewDecoder(r.Body).Decode(&tx); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	tx.UserID = userID

	if err := h.service.UpsertTransaction(r.Context(), &tx); err != nil {
		h.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to upsert transaction")
		WriteError(w, http.StatusInternalServerError, "Failed to save transaction")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message":     "Transaction saved",
		"transaction": &tx,
	})
}

// TransactionByIDHandler handles /api/transactions/{id}: GET fetches one
// record, DELETE removes the record and its chunks.
func (h *TransactionHandler) TransactionByIDHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := RequireUserID(w, r)
	if !ok {
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/transactions/")
	if id == "" || strings.Contains(id, "/") {
		WriteError(w, http.StatusBadRequest, "Transaction id is required")
		return
	}

	switch r.Method {
	case http.MethodGet:
		tx, err := h.service.GetTransaction(id)
		if err != nil || tx.UserID != userID {
			WriteError(w, http.StatusNotFound, "Transaction not found")
			return
		}
		WriteJSON(w, http.StatusOK, tx)
	case http.MethodDelete:
		if err := h.service.DeleteTransaction(r.Context(), userID, id); err != nil {
			h.logger.Error().Err(err).Str("transaction_id", id).Msg("Failed to delete transaction")
			WriteError(w, http.StatusInternalServerError, "Failed to delete transaction")
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"message": "Transaction deleted"})
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
