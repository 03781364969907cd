package aggregate

import (
	"testing"

	"github.com/a7med3yad/DataProject/domain/market"
	"github.com/a7med3yad/DataProject/internal/basket"
)

func record(customer string, age int, city, payment, items string, total float64) market.Record {
	a, t := age, total
	return market.Record{
		Customer:    customer,
		Age:         &a,
		City:        city,
		PaymentType: payment,
		Items:       items,
		Total:       &t,
	}
}

func summarize(records []market.Record) Summary {
	return Summarize(records, basket.EncodeAll(records))
}

func TestSummarize(t *testing.T) {
	records := []market.Record{
		record("alice", 25, "Cairo", "Cash", "milk, bread", 100),
		record("bob", 30, "Cairo", "Cash", "milk, eggs", 50),
		record("carol", 25, "Giza", "Credit Card", "tea, sugar", 250),
		record("dave", 40, "Giza", "Cash", "tea", 200),
	}

	summary := summarize(records)

	t.Run("payment_shares", func(t *testing.T) {
		if len(summary.PaymentShares) != 2 {
			t.Fatalf("expected 2 payment types, got %d", len(summary.PaymentShares))
		}
		cash := summary.PaymentShares[0]
		if cash.Type != "Cash" || cash.Count != 3 {
			t.Errorf("expected Cash x3 first, got %+v", cash)
		}
		if cash.Percent != 75 {
			t.Errorf("expected 75%%, got %g", cash.Percent)
		}
	})

	t.Run("spend_by_age_ascending", func(t *testing.T) {
		if len(summary.SpendByAge) != 3 {
			t.Fatalf("expected 3 ages, got %d", len(summary.SpendByAge))
		}
		if summary.SpendByAge[0].Age != 25 || summary.SpendByAge[0].Total != 350 {
			t.Errorf("age 25 should total 350, got %+v", summary.SpendByAge[0])
		}
	})

	t.Run("spend_by_city_descending", func(t *testing.T) {
		if summary.SpendByCity[0].City != "Giza" || summary.SpendByCity[0].Total != 450 {
			t.Errorf("Giza should lead with 450, got %+v", summary.SpendByCity[0])
		}
	})

	t.Run("city_top_items", func(t *testing.T) {
		byCity := make(map[string]CityTopItem)
		for _, top := range summary.CityTopItems {
			byCity[top.City] = top
		}
		if byCity["Cairo"].Item != "milk" || byCity["Cairo"].Count != 2 {
			t.Errorf("Cairo top item should be milk x2, got %+v", byCity["Cairo"])
		}
		if byCity["Giza"].Item != "tea" {
			t.Errorf("Giza top item should be tea, got %+v", byCity["Giza"])
		}
	})

	t.Run("top_items_share", func(t *testing.T) {
		for _, freq := range summary.TopItems {
			if freq.Share < 0 || freq.Share > 1 {
				t.Errorf("item %s share %g outside [0,1]", freq.Item, freq.Share)
			}
		}
		if summary.TopItems[0].Item != "milk" && summary.TopItems[0].Item != "tea" {
			t.Errorf("expected milk or tea on top, got %+v", summary.TopItems[0])
		}
	})

	t.Run("spend_distribution", func(t *testing.T) {
		dist := summary.Spend
		if dist.Min != 50 || dist.Max != 250 {
			t.Errorf("expected min 50 max 250, got %+v", dist)
		}
		if dist.Median != 150 {
			t.Errorf("expected median 150, got %g", dist.Median)
		}
	})
}

func TestSummarize_TieBrokenByInputOrder(t *testing.T) {
	t.Run("across_rows", func(t *testing.T) {
		records := []market.Record{
			record("a", 20, "Cairo", "Cash", "bread, milk", 10),
			record("b", 20, "Cairo", "Cash", "eggs", 10),
		}

		summary := summarize(records)
		if len(summary.CityTopItems) != 1 {
			t.Fatalf("expected one city, got %d", len(summary.CityTopItems))
		}
		// bread, eggs and milk all occur once; bread was encountered first
		if summary.CityTopItems[0].Item != "bread" {
			t.Errorf("tie should go to first-encountered item, got %q", summary.CityTopItems[0].Item)
		}
	})

	t.Run("within_one_row", func(t *testing.T) {
		// input order and alphabetical order disagree: zucchini is written
		// first but sorts last
		records := []market.Record{
			record("a", 20, "Cairo", "Cash", "zucchini, apple", 10),
		}

		summary := summarize(records)
		if len(summary.CityTopItems) != 1 {
			t.Fatalf("expected one city, got %d", len(summary.CityTopItems))
		}
		if summary.CityTopItems[0].Item != "zucchini" {
			t.Errorf("tie should go to first-encountered item %q, got %q",
				"zucchini", summary.CityTopItems[0].Item)
		}
	})
}

func TestSummarize_EmptyDataset(t *testing.T) {
	summary := summarize(nil)
	if len(summary.PaymentShares) != 0 || len(summary.TopItems) != 0 {
		t.Errorf("expected empty summary, got %+v", summary)
	}
	if summary.Spend != (SpendDistribution{}) {
		t.Errorf("expected zero distribution, got %+v", summary.Spend)
	}
}
