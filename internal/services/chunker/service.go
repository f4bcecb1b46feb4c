package chunker

import (
	"github.com/ternarybob/arbor"

	"github.com/finsight-ai/finsight/internal/models"
)

// DefaultMaxChunkSize is the maximum chunk length in characters
const DefaultMaxChunkSize = 500

// Service splits transaction text summaries into bounded-length chunks.
// Splitting is purely positional; transaction summaries are short structured
// lines, so word-boundary splitting buys nothing here.
type Service struct {
	maxChunkSize int
	logger       arbor.ILogger
}

// NewService creates a new chunking service
func NewService(maxChunkSize int, logger arbor.ILogger) *Service {
	if maxChunkSize <= 0 {
		maxChunkSize = DefaultMaxChunkSize
	}
	return &Service{
		maxChunkSize: maxChunkSize,
		logger:       logger,
	}
}

// Split divides text into chunks of at most maxChunkSize characters. Text
// within the limit comes back as a single chunk; empty input yields nil.
// The concatenation of the chunks always reconstructs the input exactly.
func (s *Service) Split(text string) []string {
	if text == "" {
		return nil
	}
	if len(text) <= s.maxChunkSize {
		return []string{text}
	}

	chunks := make([]string, 0, len(text)/s.maxChunkSize+1)
	for start := 0; start < len(text); start += s.maxChunkSize {
		end := start + s.maxChunkSize
		if end > len(text) {
			end = len(text)
		}
		chunks = append(chunks, text[start:end])
	}
	return chunks
}

// ChunkTransaction splits a transaction's canonical text summary
func (s *Service) ChunkTransaction(tx *models.Transaction) []string {
	return s.Split(tx.TextSummary())
}

// ChunkTransactions splits a batch of transactions, preserving order
func (s *Service) ChunkTransactions(txs []*models.Transaction) []string {
	var all []string
	for _, tx := range txs {
		all = append(all, s.ChunkTransaction(tx)...)
	}
	s.logger.Info().
		Int("chunks", len(all)).
		Int("transactions", len(txs)).
		Msg("Created chunks from transactions")
	return all
}
