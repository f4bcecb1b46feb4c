package vectorstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight-ai/finsight/internal/models"
	"github.com/finsight-ai/finsight/internal/services/embeddings"
)

func TestCosine(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float64
	}{
		{
			name:     "identical vectors score 1",
			a:        []float32{1, 2, 3},
			b:        []float32{1, 2, 3},
			expected: 1,
		},
		{
			name:     "orthogonal vectors score 0",
			a:        []float32{1, 0},
			b:        []float32{0, 1},
			expected: 0,
		},
		{
			name:     "opposite vectors score -1",
			a:        []float32{1, 0},
			b:        []float32{-1, 0},
			expected: -1,
		},
		{
			name:     "length mismatch scores 0",
			a:        []float32{1, 2},
			b:        []float32{1, 2, 3},
			expected: 0,
		},
		{
			name:     "zero magnitude scores 0",
			a:        []float32{0, 0, 0},
			b:        []float32{1, 2, 3},
			expected: 0,
		},
		{
			name:     "empty vectors score 0",
			a:        nil,
			b:        nil,
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Cosine(tt.a, tt.b), 1e-9)
		})
	}
}

func chunkWithVector(id string, vector []float32) *models.TransactionChunk {
	return &models.TransactionChunk{
		ID:        id,
		UserID:    "user_1",
		ChunkText: "text " + id,
		Embedding: embeddings.EncodeVector(vector),
	}
}

func TestRankLocal(t *testing.T) {
	query := []float32{1, 0}
	chunks := []*models.TransactionChunk{
		chunkWithVector("chunk_c", []float32{0, 1}),     // orthogonal
		chunkWithVector("chunk_a", []float32{1, 0}),     // identical
		chunkWithVector("chunk_b", []float32{0.9, 0.1}), // close
	}

	results := rankLocal(chunks, query, 10)
	require.Len(t, results, 3)

	assert.Equal(t, "chunk_a", results[0].Chunk.ID)
	assert.InDelta(t, 1.0, results[0].Score, 1e-9)
	assert.Equal(t, "chunk_b", results[1].Chunk.ID)
	assert.Equal(t, "chunk_c", results[2].Chunk.ID)

	// Scores are non-increasing
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
	}
}

func TestRankLocal_TopKCap(t *testing.T) {
	query := []float32{1, 0}
	chunks := []*models.TransactionChunk{
		chunkWithVector("chunk_1", []float32{1, 0}),
		chunkWithVector("chunk_2", []float32{0.5, 0.5}),
		chunkWithVector("chunk_3", []float32{0, 1}),
	}

	results := rankLocal(chunks, query, 2)
	assert.Len(t, results, 2)
}

func TestRankLocal_SkipsUnusableEmbeddings(t *testing.T) {
	query := []float32{1, 0}
	chunks := []*models.TransactionChunk{
		chunkWithVector("chunk_ok", []float32{1, 0}),
		chunkWithVector("chunk_zero", []float32{0, 0}),
		{ID: "chunk_pending", UserID: "user_1", Embedding: ""},
		{ID: "chunk_corrupt", UserID: "user_1", Embedding: "[1.0,oops]"},
	}

	results := rankLocal(chunks, query, 10)
	require.Len(t, results, 1)
	assert.Equal(t, "chunk_ok", results[0].Chunk.ID)
}

func TestRankLocal_ScoresNormalizedToUnitRange(t *testing.T) {
	query := []float32{1, 0}
	chunks := []*models.TransactionChunk{
		chunkWithVector("chunk_same", []float32{1, 0}),
		chunkWithVector("chunk_orth", []float32{0, 1}),
		chunkWithVector("chunk_opp", []float32{-1, 0}),
	}

	results := rankLocal(chunks, query, 10)
	require.Len(t, results, 3)

	// Same [0, 1] scale as the remote index for identical geometry
	assert.Equal(t, "chunk_same", results[0].Chunk.ID)
	assert.InDelta(t, 1.0, results[0].Score, 1e-9)
	assert.Equal(t, "chunk_orth", results[1].Chunk.ID)
	assert.InDelta(t, 0.5, results[1].Score, 1e-9)
	assert.Equal(t, "chunk_opp", results[2].Chunk.ID)
	assert.InDelta(t, 0.0, results[2].Score, 1e-9)

	for _, result := range results {
		assert.GreaterOrEqual(t, result.Score, 0.0)
		assert.LessOrEqual(t, result.Score, 1.0)
	}
}

func TestRankLocal_TieBreakAscendingChunkID(t *testing.T) {
	query := []float32{1, 0}
	chunks := []*models.TransactionChunk{
		chunkWithVector("chunk_b", []float32{2, 0}),
		chunkWithVector("chunk_a", []float32{1, 0}),
	}

	// Both score exactly 1 against the query
	results := rankLocal(chunks, query, 10)
	require.Len(t, results, 2)
	assert.Equal(t, "chunk_a", results[0].Chunk.ID)
	assert.Equal(t, "chunk_b", results[1].Chunk.ID)
}

func TestNormalizeScore(t *testing.T) {
	assert.InDelta(t, 1.0, NormalizeScore(1), 1e-9)
	assert.InDelta(t, 0.5, NormalizeScore(0), 1e-9)
	assert.InDelta(t, 0.0, NormalizeScore(-1), 1e-9)
	assert.Equal(t, 1.0, NormalizeScore(1.5))
	assert.Equal(t, 0.0, NormalizeScore(-2))
}
