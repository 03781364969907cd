package market

import (
	"sort"
	"strconv"
	"strings"
)

// Record is one grocery transaction row as loaded from the uploaded file.
// Age and Total are nil when the source cell was empty or not numeric; string
// fields use "" as their missing marker. Records are never mutated after load.
type Record struct {
	Customer    string   `json:"customer"`
	Age         *int     `json:"age"`
	City        string   `json:"city"`
	PaymentType string   `json:"payment_type"`
	Items       string   `json:"items"`
	Total       *float64 `json:"total"`
}

// FieldCount is the number of schema fields in a Record.
const FieldCount = 6

// MissingFieldCount returns how many of the record's fields are missing.
func (r Record) MissingFieldCount() int {
	missing := 0
	if r.Customer == "" {
		missing++
	}
	if r.Age == nil {
		missing++
	}
	if r.City == "" {
		missing++
	}
	if r.PaymentType == "" {
		missing++
	}
	if r.Items == "" {
		missing++
	}
	if r.Total == nil {
		missing++
	}
	return missing
}

// Complete reports whether every field of the record is present.
func (r Record) Complete() bool {
	return r.MissingFieldCount() == 0
}

// Key returns a canonical string for exact-duplicate detection. Only defined
// for complete records; the cleaning reporter drops incomplete rows first.
func (r Record) Key() string {
	var b strings.Builder
	b.WriteString(r.Customer)
	b.WriteByte('\x1f')
	b.WriteString(strconv.Itoa(*r.Age))
	b.WriteByte('\x1f')
	b.WriteString(r.City)
	b.WriteByte('\x1f')
	b.WriteString(r.PaymentType)
	b.WriteByte('\x1f')
	b.WriteString(r.Items)
	b.WriteByte('\x1f')
	b.WriteString(strconv.FormatFloat(*r.Total, 'g', -1, 64))
	return b.String()
}

// Transaction is the set of distinct item names from one record, stored
// sorted for deterministic iteration. An empty transaction is valid.
type Transaction []string

// NewTransaction builds a sorted, deduplicated transaction from item tokens.
func NewTransaction(items []string) Transaction {
	if len(items) == 0 {
		return Transaction{}
	}
	seen := make(map[string]bool, len(items))
	tx := make(Transaction, 0, len(items))
	for _, item := range items {
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		tx = append(tx, item)
	}
	sort.Strings(tx)
	return tx
}

// Contains reports whether every item of the given set occurs in the
// transaction. Both sides must be sorted.
func (t Transaction) Contains(items []string) bool {
	i := 0
	for _, want := range items {
		for i < len(t) && t[i] < want {
			i++
		}
		if i >= len(t) || t[i] != want {
			return false
		}
		i++
	}
	return true
}

// Rule is an association rule mined from the transaction list.
type Rule struct {
	Antecedent []string `json:"antecedent"`
	Consequent []string `json:"consequent"`
	Support    float64  `json:"support"`
	Confidence float64  `json:"confidence"`
	Lift       float64  `json:"lift"`
}
