package basket

import (
	"strings"

	"github.com/a7med3yad/DataProject/domain/market"
)

// Tokens splits a raw comma-separated items field into distinct item names
// in first-appearance order: tokens are trimmed, empty tokens dropped,
// duplicates collapsed. Callers that need the original ordering (input-order
// tie-breaks) use this; Encode layers the set semantics on top.
func Tokens(items string) []string {
	if strings.TrimSpace(items) == "" {
		return nil
	}

	raw := strings.Split(items, ",")
	seen := make(map[string]bool, len(raw))
	tokens := make([]string, 0, len(raw))
	for _, token := range raw {
		token = strings.TrimSpace(token)
		if token == "" || seen[token] {
			continue
		}
		seen[token] = true
		tokens = append(tokens, token)
	}
	return tokens
}

// Encode converts a record's raw comma-separated items field into a
// Transaction. An empty or missing items field yields an empty Transaction.
func Encode(items string) market.Transaction {
	return market.NewTransaction(Tokens(items))
}

// EncodeAll produces one Transaction per Record at the same ordinal index.
func EncodeAll(records []market.Record) []market.Transaction {
	transactions := make([]market.Transaction, len(records))
	for i, record := range records {
		transactions[i] = Encode(record.Items)
	}
	return transactions
}
