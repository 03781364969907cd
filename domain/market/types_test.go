package market

import "testing"

func TestAnalysisParamsValidate(t *testing.T) {
	if err := DefaultAnalysisParams().Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}

	invalid := []AnalysisParams{
		{NumClusters: 1, MinSupport: 0.05, MinConfidence: 0.06},
		{NumClusters: 5, MinSupport: 0.05, MinConfidence: 0.06},
		{NumClusters: 3, MinSupport: 0, MinConfidence: 0.06},
		{NumClusters: 3, MinSupport: 1.5, MinConfidence: 0.06},
		{NumClusters: 3, MinSupport: 0.05, MinConfidence: 0},
	}
	for _, params := range invalid {
		if err := params.Validate(); err == nil {
			t.Errorf("expected rejection for %+v", params)
		}
	}
}

func TestTransactionContains(t *testing.T) {
	tx := NewTransaction([]string{"milk", "bread", "milk", "eggs"})
	if len(tx) != 3 {
		t.Fatalf("expected duplicates collapsed, got %v", tx)
	}

	if !tx.Contains([]string{"bread", "milk"}) {
		t.Error("subset lookup failed")
	}
	if tx.Contains([]string{"bread", "tea"}) {
		t.Error("found item that is not in the transaction")
	}
	if !tx.Contains(nil) {
		t.Error("empty set is a subset of any transaction")
	}
}

func TestRecordMissingFields(t *testing.T) {
	age, total := 30, 99.5
	complete := Record{Customer: "a", Age: &age, City: "Cairo", PaymentType: "Cash", Items: "milk", Total: &total}
	if !complete.Complete() || complete.MissingFieldCount() != 0 {
		t.Errorf("complete record misreported: %d missing", complete.MissingFieldCount())
	}

	empty := Record{}
	if empty.MissingFieldCount() != FieldCount {
		t.Errorf("empty record should miss all %d fields, got %d", FieldCount, empty.MissingFieldCount())
	}
}
