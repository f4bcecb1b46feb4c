package vectorstore

import (
	"math"
	"sort"

	"github.com/finsight-ai/finsight/internal/models"
	"github.com/finsight-ai/finsight/internal/services/embeddings"
)

// Cosine computes cosine similarity between two vectors. Mismatched lengths
// and zero-magnitude inputs score 0 rather than erroring, so a corrupt or
// pending embedding simply ranks last.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// rankLocal scores the candidate chunks against the query vector and returns
// the top K by descending similarity. Chunks without a usable embedding are
// skipped. Scores are normalized onto [0, 1] so local results use the same
// scale as the remote index. Equal scores break ties by ascending chunk id so
// ranking is deterministic.
func rankLocal(chunks []*models.TransactionChunk, queryVector []float32, topK int) []models.SimilarityResult {
	results := make([]models.SimilarityResult, 0, len(chunks))
	for _, chunk := range chunks {
		vector := embeddings.DecodeVector(chunk.Embedding)
		if vector == nil || embeddings.IsZeroVector(vector) {
			continue
		}
		results = append(results, models.SimilarityResult{
			Chunk: chunk,
			Score: NormalizeScore(Cosine(queryVector, vector)),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Chunk.ID < results[j].Chunk.ID
	})

	if topK > 0 && len(results) > topK {
		results = results[:topK]
	}
	return results
}
