package agents

import (
	"regexp"
	"strings"

	"github.com/finsight-ai/finsight/internal/interfaces"
	"github.com/finsight-ai/finsight/internal/models"
)

// transactionPattern matches the chunk summary format:
// "Transaction: MERCHANT | Amount: -5.00 GBP | Category: PURCHASE | Date: 2025-11-14T00:00:00Z"
var transactionPattern = regexp.MustCompile(`Transaction: ([^|]+) \| Amount: ([^|]+) \| Category: ([^|]+) \| Date: (.+)`)

// buildCitations resolves each retrieved context to a citation. The
// authoritative transaction record is preferred; when it no longer exists the
// citation is reconstructed from the chunk text itself.
func (c *Coordinator) buildCitations(contexts []interfaces.RetrievedContext) []models.Citation {
	citations := make([]models.Citation, 0, len(contexts))
	for _, ctx := range contexts {
		citation := models.Citation{
			TransactionID: ctx.TransactionID,
		}

		if tx, err := c.transactions.GetTransaction(ctx.TransactionID); err == nil && tx != nil {
			citation.Merchant = tx.Merchant
			citation.Amount = formatAmount(tx.Amount)
			citation.Currency = tx.Currency
			citation.Category = tx.Category
			if !tx.Timestamp.IsZero() {
				citation.Date = tx.Timestamp.UTC().Format("2006-01-02T15:04:05Z")
			}
			citation.Description = tx.Description
		} else {
			parseCitationFromText(ctx.Text, &citation)
		}

		citations = append(citations, citation)
	}
	return citations
}

// parseCitationFromText reconstructs citation fields from the chunk summary.
// Unparseable text falls back to the full text as the description.
func parseCitationFromText(text string, citation *models.Citation) {
	matches := transactionPattern.FindStringSubmatch(text)
	if matches == nil {
		citation.Description = text
		return
	}

	citation.Merchant = strings.TrimSpace(matches[1])
	amountStr := strings.TrimSpace(matches[2])
	if parts := strings.Fields(amountStr); len(parts) >= 2 {
		citation.Amount = parts[0]
		citation.Currency = parts[1]
	} else {
		citation.Amount = amountStr
	}
	citation.Category = strings.TrimSpace(matches[3])
	citation.Date = strings.TrimSpace(matches[4])
	citation.Description = strings.TrimSpace(matches[1])
}
