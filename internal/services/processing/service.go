package processing

import (
	"context"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/finsight-ai/finsight/internal/interfaces"
	"github.com/finsight-ai/finsight/internal/services/embeddings"
)

// Stats summarizes one re-embedding sweep
type Stats struct {
	Scanned  int
	Embedded int
	Failed   int
	Duration time.Duration
}

// Service re-embeds chunks whose embedding never succeeded: chunks stored
// with an empty or zero vector after a provider failure. Each sweep is
// bounded so a large backlog drains over successive runs.
type Service struct {
	chunks   interfaces.ChunkStorage
	embedder interfaces.EmbeddingService
	limit    int
	logger   arbor.ILogger
}

// DefaultSweepLimit bounds one sweep when no limit is configured
const DefaultSweepLimit = 100

func NewService(chunks interfaces.ChunkStorage, embedder interfaces.EmbeddingService, limit int, logger arbor.ILogger) *Service {
	if limit <= 0 {
		limit = DefaultSweepLimit
	}
	return &Service{
		chunks:   chunks,
		embedder: embedder,
		limit:    limit,
		logger:   logger,
	}
}

// ProcessPending re-embeds up to the configured number of pending chunks.
// Per-chunk failures are counted and left pending for the next sweep.
func (s *Service) ProcessPending(ctx context.Context) (*Stats, error) {
	startTime := time.Now()

	pending, err := s.chunks.GetPendingChunks(s.limit)
	if err != nil {
		return nil, err
	}

	stats := &Stats{Scanned: len(pending)}
	for _, chunk := range pending {
		if ctx.Err() != nil {
			break
		}

		vector, err := s.embedder.Embed(ctx, chunk.ChunkText)
		if err != nil {
			stats.Failed++
			s.logger.Warn().
				Err(err).
				Str("chunk_id", chunk.ID).
				Msg("Re-embedding failed, chunk stays pending")
			continue
		}

		chunk.Embedding = embeddings.EncodeVector(vector)
		if err := s.chunks.UpdateChunk(chunk); err != nil {
			stats.Failed++
			s.logger.Warn().
				Err(err).
				Str("chunk_id", chunk.ID).
				Msg("Failed to persist re-embedded chunk")
			continue
		}
		stats.Embedded++
	}

	stats.Duration = time.Since(startTime)
	return stats, nil
}
