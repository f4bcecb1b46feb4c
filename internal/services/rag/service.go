package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/finsight-ai/finsight/internal/interfaces"
)

// NoContextSentinel is returned by BuildContextString when retrieval found
// nothing, so agent prompts always contain a well-formed context section.
const NoContextSentinel = "No relevant transaction data found."

// Service implements RetrievalService: embed the query, search the vector
// store, render the hits as grounding context.
type Service struct {
	embedder interfaces.EmbeddingService
	store    interfaces.VectorStore
	logger   arbor.ILogger
}

func NewService(embedder interfaces.EmbeddingService, store interfaces.VectorStore, logger arbor.ILogger) interfaces.RetrievalService {
	return &Service{
		embedder: embedder,
		store:    store,
		logger:   logger,
	}
}

// RetrieveContext returns up to topK contexts for the query. Retrieval
// degrades to an empty slice on embedding or search failure; the agents then
// answer from general knowledge against the no-context sentinel.
func (s *Service) RetrieveContext(ctx context.Context, userID, query string, topK int) []interfaces.RetrievedContext {
	queryVector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("user_id", userID).
			Msg("Failed to embed query, returning empty context")
		return nil
	}

	results, err := s.store.Search(ctx, userID, queryVector, topK)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("user_id", userID).
			Msg("Similarity search failed, returning empty context")
		return nil
	}

	contexts := make([]interfaces.RetrievedContext, 0, len(results))
	for _, result := range results {
		contexts = append(contexts, interfaces.RetrievedContext{
			Text:          result.Chunk.ChunkText,
			TransactionID: result.Chunk.TransactionID,
			ChunkID:       result.Chunk.ID,
			Source:        "transaction",
		})
	}

	s.logger.Debug().
		Str("user_id", userID).
		Int("count", len(contexts)).
		Msg("Retrieved context for query")

	return contexts
}

// BuildContextString renders the contexts as a numbered list under a fixed
// header. Empty input yields the no-context sentinel.
func (s *Service) BuildContextString(contexts []interfaces.RetrievedContext) string {
	if len(contexts) == 0 {
		return NoContextSentinel
	}

	var b strings.Builder
	b.WriteString("Relevant transaction context:\n\n")
	for i, c := range contexts {
		b.WriteString(fmt.Sprintf("[%d] %s (Source: %s, ID: %s)\n", i+1, c.Text, c.Source, c.TransactionID))
	}
	return b.String()
}
