package transactions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/finsight-ai/finsight/internal/common"
	"github.com/finsight-ai/finsight/internal/models"
	"github.com/finsight-ai/finsight/internal/services/chunker"
)

type stubTransactionStorage struct {
	saved        map[string]*models.Transaction
	deleted      []string
	deletedUsers []string
}

func newStubTransactionStorage() *stubTransactionStorage {
	return &stubTransactionStorage{saved: make(map[string]*models.Transaction)}
}

func (s *stubTransactionStorage) SaveTransaction(tx *models.Transaction) error {
	s.saved[tx.ID] = tx
	return nil
}

func (s *stubTransactionStorage) GetTransaction(id string) (*models.Transaction, error) {
	if tx, ok := s.saved[id]; ok {
		return tx, nil
	}
	return nil, errors.New("transaction not found")
}

func (s *stubTransactionStorage) GetTransactionsByUser(userID string) ([]*models.Transaction, error) {
	var result []*models.Transaction
	for _, tx := range s.saved {
		if tx.UserID == userID {
			result = append(result, tx)
		}
	}
	return result, nil
}

func (s *stubTransactionStorage) DeleteTransaction(id string) error {
	delete(s.saved, id)
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubTransactionStorage) DeleteTransactionsByUser(userID string) error {
	s.deletedUsers = append(s.deletedUsers, userID)
	return nil
}

type stubEmbedder struct {
	err error
}

func (s *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []float32{1, 0}, nil
}

func (s *stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{1, 0}
	}
	return vectors, nil
}

func (s *stubEmbedder) Dimension() int       { return 2 }
func (s *stubEmbedder) ProviderName() string { return "stub" }

type storedBatch struct {
	userID        string
	transactionID string
	chunkTexts    []string
}

type stubVectorStore struct {
	stored              []storedBatch
	deletedTransactions []string
	deletedUsers        []string
	storeErr            error
	onDelete            func()
}

func (s *stubVectorStore) StoreChunk(ctx context.Context, userID, transactionID, chunkText string, vector []float32, chunkIndex int) error {
	return s.StoreChunks(ctx, userID, transactionID, []string{chunkText}, [][]float32{vector})
}

func (s *stubVectorStore) StoreChunks(ctx context.Context, userID, transactionID string, chunkTexts []string, vectors [][]float32) error {
	if s.storeErr != nil {
		return s.storeErr
	}
	s.stored = append(s.stored, storedBatch{userID: userID, transactionID: transactionID, chunkTexts: chunkTexts})
	return nil
}

func (s *stubVectorStore) Search(ctx context.Context, userID string, queryVector []float32, topK int) ([]models.SimilarityResult, error) {
	return nil, nil
}

func (s *stubVectorStore) DeleteByUser(ctx context.Context, userID string) error {
	s.deletedUsers = append(s.deletedUsers, userID)
	return nil
}

func (s *stubVectorStore) DeleteByTransaction(ctx context.Context, transactionID string) error {
	s.deletedTransactions = append(s.deletedTransactions, transactionID)
	if s.onDelete != nil {
		s.onDelete()
	}
	return nil
}

func newTestService(storage *stubTransactionStorage, embedder *stubEmbedder, store *stubVectorStore) *Service {
	return newTestServiceWithLocks(storage, embedder, store, common.NewUserLocks())
}

func newTestServiceWithLocks(storage *stubTransactionStorage, embedder *stubEmbedder, store *stubVectorStore, locks *common.UserLocks) *Service {
	logger := arbor.NewLogger()
	return NewService(storage, chunker.NewService(0, logger), embedder, store, locks, logger)
}

func testTransaction() *models.Transaction {
	return &models.Transaction{
		ID:        "txn_1",
		UserID:    "user_1",
		Merchant:  "LOTHIAN BUSES",
		Amount:    -2.50,
		Currency:  "GBP",
		Category:  "Transport",
		Timestamp: time.Date(2024, 11, 15, 8, 30, 0, 0, time.UTC),
	}
}

func TestUpsertTransaction_RebuildsChunks(t *testing.T) {
	storage := newStubTransactionStorage()
	store := &stubVectorStore{}
	service := newTestService(storage, &stubEmbedder{}, store)

	tx := testTransaction()
	require.NoError(t, service.UpsertTransaction(context.Background(), tx))

	// Record saved, stale chunks dropped, new chunks stored
	assert.Contains(t, storage.saved, "txn_1")
	assert.Equal(t, []string{"txn_1"}, store.deletedTransactions)
	require.Len(t, store.stored, 1)
	assert.Equal(t, "user_1", store.stored[0].userID)
	assert.Equal(t, "txn_1", store.stored[0].transactionID)
	require.Len(t, store.stored[0].chunkTexts, 1)
	assert.Contains(t, store.stored[0].chunkTexts[0], "LOTHIAN BUSES")
}

func TestUpsertTransaction_AssignsID(t *testing.T) {
	storage := newStubTransactionStorage()
	service := newTestService(storage, &stubEmbedder{}, &stubVectorStore{})

	tx := testTransaction()
	tx.ID = ""
	require.NoError(t, service.UpsertTransaction(context.Background(), tx))

	assert.NotEmpty(t, tx.ID)
	assert.Contains(t, storage.saved, tx.ID)
}

func TestUpsertTransaction_RequiresUser(t *testing.T) {
	service := newTestService(newStubTransactionStorage(), &stubEmbedder{}, &stubVectorStore{})

	tx := testTransaction()
	tx.UserID = ""
	assert.Error(t, service.UpsertTransaction(context.Background(), tx))

	assert.Error(t, service.UpsertTransaction(context.Background(), nil))
}

func TestReprocessTransaction_EmbedFailureKeepsRecord(t *testing.T) {
	storage := newStubTransactionStorage()
	store := &stubVectorStore{}
	service := newTestService(storage, &stubEmbedder{err: errors.New("provider down")}, store)

	err := service.UpsertTransaction(context.Background(), testTransaction())
	require.Error(t, err)

	// The transaction record survives; only the chunk rebuild failed
	assert.Contains(t, storage.saved, "txn_1")
	assert.Empty(t, store.stored)
}

func TestReprocessTransaction_BlocksReadsUntilRewriteCompletes(t *testing.T) {
	locks := common.NewUserLocks()
	storage := newStubTransactionStorage()
	store := &stubVectorStore{}

	deleting := make(chan struct{})
	finish := make(chan struct{})
	store.onDelete = func() {
		close(deleting)
		<-finish
	}

	service := newTestServiceWithLocks(storage, &stubEmbedder{}, store, locks)

	done := make(chan error, 1)
	go func() {
		done <- service.UpsertTransaction(context.Background(), testTransaction())
	}()

	// Rewrite in progress: old chunks deleted, new ones not yet stored
	<-deleting

	readAcquired := make(chan struct{})
	go func() {
		locks.RLock("user_1")
		locks.RUnlock("user_1")
		close(readAcquired)
	}()

	select {
	case <-readAcquired:
		t.Fatal("read proceeded during chunk-set rewrite")
	case <-time.After(50 * time.Millisecond):
	}

	close(finish)
	require.NoError(t, <-done)

	select {
	case <-readAcquired:
	case <-time.After(time.Second):
		t.Fatal("read never proceeded after rewrite completed")
	}

	require.Len(t, store.stored, 1)
}

func TestDeleteTransaction_RemovesChunksFirst(t *testing.T) {
	storage := newStubTransactionStorage()
	storage.saved["txn_1"] = testTransaction()
	store := &stubVectorStore{}
	service := newTestService(storage, &stubEmbedder{}, store)

	require.NoError(t, service.DeleteTransaction(context.Background(), "user_1", "txn_1"))

	assert.Equal(t, []string{"txn_1"}, store.deletedTransactions)
	assert.Equal(t, []string{"txn_1"}, storage.deleted)
}

func TestDeleteUserData(t *testing.T) {
	storage := newStubTransactionStorage()
	store := &stubVectorStore{}
	service := newTestService(storage, &stubEmbedder{}, store)

	require.NoError(t, service.DeleteUserData(context.Background(), "user_1"))

	assert.Equal(t, []string{"user_1"}, store.deletedUsers)
	assert.Equal(t, []string{"user_1"}, storage.deletedUsers)
}
