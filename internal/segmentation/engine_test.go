package segmentation

import (
	"fmt"
	"testing"

	"github.com/a7med3yad/DataProject/domain/market"
	"github.com/a7med3yad/DataProject/internal/testkit"
)

func record(customer string, age int, total float64) market.Record {
	a, t := age, total
	return market.Record{
		Customer:    customer,
		Age:         &a,
		City:        "Cairo",
		PaymentType: "Cash",
		Items:       "milk",
		Total:       &t,
	}
}

// spend magnitude dominates the unnormalized distance, so the high-spend
// age must land in its own cluster
func TestSegment_SpendDominatesClustering(t *testing.T) {
	ages := []int{20, 20, 40, 40, 60, 60}
	spends := []float64{10, 10, 500, 500, 12, 12}

	records := make([]market.Record, len(ages))
	for i := range ages {
		records[i] = record(fmt.Sprintf("customer_%d", i), ages[i], spends[i])
	}

	engine := NewEngine(DefaultConfig())
	result := engine.Segment(records, 2)

	labelByAge := make(map[int]int)
	for _, a := range result.Ages {
		labelByAge[a.Age] = a.Cluster
	}

	if labelByAge[40] == labelByAge[20] {
		t.Errorf("age 40 (high spend) should not share a cluster with age 20")
	}
	if labelByAge[20] != labelByAge[60] {
		t.Errorf("ages 20 and 60 (similar spend) should cluster together, got %d and %d",
			labelByAge[20], labelByAge[60])
	}
}

func TestSegment_LabelInvariants(t *testing.T) {
	records := testkit.NewGroceryDataGenerator(testkit.DefaultGroceryConfig()).Generate()
	engine := NewEngine(DefaultConfig())

	for _, k := range []int{2, 3, 4} {
		t.Run(fmt.Sprintf("k=%d", k), func(t *testing.T) {
			result := engine.Segment(records, k)

			seenAges := make(map[int]int)
			for _, a := range result.Ages {
				if a.Cluster < 1 || a.Cluster > k {
					t.Errorf("age %d has label %d outside [1,%d]", a.Age, a.Cluster, k)
				}
				seenAges[a.Age]++
			}
			for age, count := range seenAges {
				if count != 1 {
					t.Errorf("age %d labeled %d times, expected exactly once", age, count)
				}
			}

			for _, customer := range result.Customers {
				if customer.Cluster < 1 || customer.Cluster > k {
					t.Errorf("customer %s has label %d outside [1,%d]", customer.Customer, customer.Cluster, k)
				}
			}
		})
	}
}

func TestSegment_SeededRunsAreReproducible(t *testing.T) {
	records := testkit.NewGroceryDataGenerator(testkit.DefaultGroceryConfig()).Generate()
	engine := NewEngine(DefaultConfig())

	first := engine.Segment(records, 3)
	second := engine.Segment(records, 3)

	if len(first.Ages) != len(second.Ages) {
		t.Fatalf("runs disagree on age count: %d vs %d", len(first.Ages), len(second.Ages))
	}
	for i := range first.Ages {
		if first.Ages[i] != second.Ages[i] {
			t.Errorf("age %d differs between seeded runs: %+v vs %+v",
				first.Ages[i].Age, first.Ages[i], second.Ages[i])
		}
	}
}

func TestSegment_EdgeCases(t *testing.T) {
	t.Run("fewer_ages_than_clusters", func(t *testing.T) {
		records := []market.Record{
			record("a", 25, 100),
			record("b", 30, 200),
		}
		result := NewEngine(DefaultConfig()).Segment(records, 4)
		if result.NumClusters != 2 {
			t.Errorf("expected k clamped to 2, got %d", result.NumClusters)
		}
		for _, a := range result.Ages {
			if a.Cluster < 1 || a.Cluster > result.NumClusters {
				t.Errorf("label %d outside [1,%d]", a.Cluster, result.NumClusters)
			}
		}
	})

	t.Run("single_distinct_age", func(t *testing.T) {
		records := []market.Record{
			record("a", 25, 100),
			record("b", 25, 200),
		}
		result := NewEngine(DefaultConfig()).Segment(records, 3)
		if result.NumClusters != 1 {
			t.Errorf("one distinct age should yield one cluster, got %d", result.NumClusters)
		}
		if len(result.Ages) != 1 || result.Ages[0].Cluster != 1 {
			t.Errorf("expected the single age labeled 1, got %+v", result.Ages)
		}
		for _, customer := range result.Customers {
			if customer.Cluster != 1 {
				t.Errorf("customer %s should carry label 1, got %d", customer.Customer, customer.Cluster)
			}
		}
	})

	t.Run("rows_without_age_or_total_are_skipped", func(t *testing.T) {
		incomplete := record("c", 40, 10)
		incomplete.Total = nil
		records := []market.Record{record("a", 25, 100), record("b", 30, 200), incomplete}

		result := NewEngine(DefaultConfig()).Segment(records, 2)
		if len(result.Ages) != 2 {
			t.Errorf("expected 2 aggregated ages, got %d", len(result.Ages))
		}
	})

	t.Run("empty_dataset", func(t *testing.T) {
		result := NewEngine(DefaultConfig()).Segment(nil, 3)
		if len(result.Ages) != 0 || len(result.Customers) != 0 {
			t.Errorf("expected empty result, got %+v", result)
		}
	})
}
