package vectorstore

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/finsight-ai/finsight/internal/common"
	"github.com/finsight-ai/finsight/internal/interfaces"
	"github.com/finsight-ai/finsight/internal/models"
)

// memoryChunkStorage is an in-memory ChunkStorage for exercising the vector
// store without a database.
type memoryChunkStorage struct {
	chunks map[string]*models.TransactionChunk
}

func newMemoryChunkStorage() *memoryChunkStorage {
	return &memoryChunkStorage{chunks: make(map[string]*models.TransactionChunk)}
}

func (m *memoryChunkStorage) SaveChunk(chunk *models.TransactionChunk) error {
	copied := *chunk
	m.chunks[chunk.ID] = &copied
	return nil
}

func (m *memoryChunkStorage) UpdateChunk(chunk *models.TransactionChunk) error {
	return m.SaveChunk(chunk)
}

func (m *memoryChunkStorage) GetChunk(id string) (*models.TransactionChunk, error) {
	if chunk, ok := m.chunks[id]; ok {
		return chunk, nil
	}
	return nil, fmt.Errorf("chunk not found: %s", id)
}

func (m *memoryChunkStorage) GetChunkByDatapointID(datapointID string) (*models.TransactionChunk, error) {
	for _, chunk := range m.chunks {
		if chunk.DatapointID == datapointID {
			return chunk, nil
		}
	}
	return nil, fmt.Errorf("chunk not found for datapoint: %s", datapointID)
}

func (m *memoryChunkStorage) GetChunksByUser(userID string) ([]*models.TransactionChunk, error) {
	var result []*models.TransactionChunk
	for _, chunk := range m.chunks {
		if chunk.UserID == userID {
			result = append(result, chunk)
		}
	}
	return result, nil
}

func (m *memoryChunkStorage) GetEmbeddedChunksByUser(userID string) ([]*models.TransactionChunk, error) {
	var result []*models.TransactionChunk
	for _, chunk := range m.chunks {
		if chunk.UserID == userID && chunk.IsEmbedded() {
			result = append(result, chunk)
		}
	}
	return result, nil
}

func (m *memoryChunkStorage) GetChunksByTransaction(transactionID string) ([]*models.TransactionChunk, error) {
	var result []*models.TransactionChunk
	for _, chunk := range m.chunks {
		if chunk.TransactionID == transactionID {
			result = append(result, chunk)
		}
	}
	return result, nil
}

func (m *memoryChunkStorage) GetPendingChunks(limit int) ([]*models.TransactionChunk, error) {
	return nil, nil
}

func (m *memoryChunkStorage) DeleteChunksByUser(userID string) error {
	for id, chunk := range m.chunks {
		if chunk.UserID == userID {
			delete(m.chunks, id)
		}
	}
	return nil
}

func (m *memoryChunkStorage) DeleteChunksByTransaction(transactionID string) error {
	for id, chunk := range m.chunks {
		if chunk.TransactionID == transactionID {
			delete(m.chunks, id)
		}
	}
	return nil
}

func (m *memoryChunkStorage) CountChunks() (int, error) {
	return len(m.chunks), nil
}

// stubIndex is a scripted VectorIndex
type stubIndex struct {
	upsertErr error
	queryErr  error
	matches   []interfaces.IndexMatch
	upserted  int
	deleted   []string
	nextID    int
}

func (s *stubIndex) Upsert(ctx context.Context, userID, transactionID, chunkID string, vector []float32) (string, error) {
	if s.upsertErr != nil {
		return "", s.upsertErr
	}
	s.upserted++
	s.nextID++
	return fmt.Sprintf("dp_%d", s.nextID), nil
}

func (s *stubIndex) Query(ctx context.Context, userID string, vector []float32, topK int) ([]interfaces.IndexMatch, error) {
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	return s.matches, nil
}

func (s *stubIndex) Delete(ctx context.Context, datapointID string) error {
	s.deleted = append(s.deleted, datapointID)
	return nil
}

func TestStoreChunk_LocalFirstWithMirror(t *testing.T) {
	storage := newMemoryChunkStorage()
	index := &stubIndex{}
	service := NewService(storage, index, common.NewUserLocks(), arbor.NewLogger())

	err := service.StoreChunk(context.Background(), "user_1", "txn_1", "chunk text", []float32{0.1, 0.2}, 0)
	require.NoError(t, err)

	assert.Equal(t, 1, index.upserted)
	chunks, _ := storage.GetChunksByUser("user_1")
	require.Len(t, chunks, 1)
	assert.Equal(t, "dp_1", chunks[0].DatapointID)
	assert.True(t, chunks[0].IsEmbedded())
}

func TestStoreChunk_MirrorFailureDoesNotFailWrite(t *testing.T) {
	storage := newMemoryChunkStorage()
	index := &stubIndex{upsertErr: errors.New("index down")}
	service := NewService(storage, index, common.NewUserLocks(), arbor.NewLogger())

	err := service.StoreChunk(context.Background(), "user_1", "txn_1", "chunk text", []float32{0.1, 0.2}, 0)
	require.NoError(t, err)

	chunks, _ := storage.GetChunksByUser("user_1")
	require.Len(t, chunks, 1)
	assert.Empty(t, chunks[0].DatapointID)
}

func TestStoreChunk_ZeroVectorNotMirrored(t *testing.T) {
	storage := newMemoryChunkStorage()
	index := &stubIndex{}
	service := NewService(storage, index, common.NewUserLocks(), arbor.NewLogger())

	err := service.StoreChunk(context.Background(), "user_1", "txn_1", "chunk text", []float32{0, 0}, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, index.upserted)

	// Stored locally regardless, as a pending chunk for the sweep
	chunks, _ := storage.GetChunksByUser("user_1")
	assert.Len(t, chunks, 1)
}

func TestStoreChunks_LengthMismatch(t *testing.T) {
	service := NewService(newMemoryChunkStorage(), nil, common.NewUserLocks(), arbor.NewLogger())

	err := service.StoreChunks(context.Background(), "user_1", "txn_1",
		[]string{"a", "b"}, [][]float32{{0.1}})
	assert.Error(t, err)
}

func TestSearch_RemoteFirst(t *testing.T) {
	storage := newMemoryChunkStorage()
	storage.SaveChunk(&models.TransactionChunk{
		ID: "chunk_1", UserID: "user_1", TransactionID: "txn_1",
		ChunkText: "remote hit", Embedding: "[1,0]", DatapointID: "dp_1",
	})

	index := &stubIndex{
		matches: []interfaces.IndexMatch{
			{DatapointID: "dp_1", Score: 0.92},
		},
	}
	service := NewService(storage, index, common.NewUserLocks(), arbor.NewLogger())

	results, err := service.Search(context.Background(), "user_1", []float32{1, 0}, 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "chunk_1", results[0].Chunk.ID)
	assert.Equal(t, 0.92, results[0].Score)
}

func TestSearch_RemoteResolvesViaChunkIDMetadata(t *testing.T) {
	storage := newMemoryChunkStorage()
	storage.SaveChunk(&models.TransactionChunk{
		ID: "chunk_1", UserID: "user_1", TransactionID: "txn_1",
		ChunkText: "hit", Embedding: "[1,0]",
	})

	// Datapoint id unknown locally; chunk_id payload carries the link
	index := &stubIndex{
		matches: []interfaces.IndexMatch{
			{DatapointID: "dp_unknown", Score: 0.8, Metadata: map[string]string{"chunk_id": "chunk_1"}},
		},
	}
	service := NewService(storage, index, common.NewUserLocks(), arbor.NewLogger())

	results, err := service.Search(context.Background(), "user_1", []float32{1, 0}, 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "chunk_1", results[0].Chunk.ID)
}

func TestSearch_UnresolvableMatchSkipped(t *testing.T) {
	storage := newMemoryChunkStorage()
	index := &stubIndex{
		matches: []interfaces.IndexMatch{
			{DatapointID: "dp_orphan", Score: 0.8},
		},
	}
	service := NewService(storage, index, common.NewUserLocks(), arbor.NewLogger())

	results, err := service.Search(context.Background(), "user_1", []float32{1, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_RemoteFailureFallsBackToLocal(t *testing.T) {
	storage := newMemoryChunkStorage()
	storage.SaveChunk(&models.TransactionChunk{
		ID: "chunk_1", UserID: "user_1", TransactionID: "txn_1",
		ChunkText: "local hit", Embedding: "[1,0]",
	})

	index := &stubIndex{queryErr: errors.New("index down")}
	service := NewService(storage, index, common.NewUserLocks(), arbor.NewLogger())

	results, err := service.Search(context.Background(), "user_1", []float32{1, 0}, 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "chunk_1", results[0].Chunk.ID)
}

func TestSearch_NoIndexUsesLocalScan(t *testing.T) {
	storage := newMemoryChunkStorage()
	storage.SaveChunk(&models.TransactionChunk{
		ID: "chunk_1", UserID: "user_1", ChunkText: "a", Embedding: "[1,0]",
	})
	storage.SaveChunk(&models.TransactionChunk{
		ID: "chunk_2", UserID: "user_2", ChunkText: "b", Embedding: "[1,0]",
	})

	service := NewService(storage, nil, common.NewUserLocks(), arbor.NewLogger())

	// Only user_1's chunks are visible
	results, err := service.Search(context.Background(), "user_1", []float32{1, 0}, 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "chunk_1", results[0].Chunk.ID)
}

func TestSearch_WaitsForChunkRewrite(t *testing.T) {
	storage := newMemoryChunkStorage()
	storage.SaveChunk(&models.TransactionChunk{
		ID: "chunk_1", UserID: "user_1", ChunkText: "a", Embedding: "[1,0]",
	})

	locks := common.NewUserLocks()
	service := NewService(storage, nil, locks, arbor.NewLogger())

	// A rewrite holds the user's write lock
	locks.Lock("user_1")

	results := make(chan []models.SimilarityResult, 1)
	go func() {
		r, err := service.Search(context.Background(), "user_1", []float32{1, 0}, 5)
		assert.NoError(t, err)
		results <- r
	}()

	select {
	case <-results:
		t.Fatal("search proceeded while a rewrite held the write lock")
	case <-time.After(50 * time.Millisecond):
	}

	locks.Unlock("user_1")

	select {
	case r := <-results:
		assert.Len(t, r, 1)
	case <-time.After(time.Second):
		t.Fatal("search never completed after the rewrite finished")
	}
}

func TestDeleteByTransaction_RemovesRemoteMirrors(t *testing.T) {
	storage := newMemoryChunkStorage()
	storage.SaveChunk(&models.TransactionChunk{
		ID: "chunk_1", UserID: "user_1", TransactionID: "txn_1",
		Embedding: "[1,0]", DatapointID: "dp_1",
	})
	storage.SaveChunk(&models.TransactionChunk{
		ID: "chunk_2", UserID: "user_1", TransactionID: "txn_1",
		Embedding: "", // never mirrored
	})

	index := &stubIndex{}
	service := NewService(storage, index, common.NewUserLocks(), arbor.NewLogger())

	require.NoError(t, service.DeleteByTransaction(context.Background(), "txn_1"))

	assert.Equal(t, []string{"dp_1"}, index.deleted)
	count, _ := storage.CountChunks()
	assert.Equal(t, 0, count)
}
