package testkit

import (
	"strings"
	"testing"
)

func TestGenerate_Deterministic(t *testing.T) {
	config := DefaultGroceryConfig()
	first := NewGroceryDataGenerator(config).Generate()
	second := NewGroceryDataGenerator(config).Generate()

	if len(first) != len(second) {
		t.Fatalf("seeded runs produced different sizes: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Customer != second[i].Customer || first[i].Items != second[i].Items {
			t.Fatalf("seeded runs diverge at row %d", i)
		}
	}
}

func TestGenerate_Shape(t *testing.T) {
	config := DefaultGroceryConfig()
	records := NewGroceryDataGenerator(config).Generate()

	if len(records) < config.CustomerCount*config.OrdersPerCust {
		t.Fatalf("expected at least %d records, got %d",
			config.CustomerCount*config.OrdersPerCust, len(records))
	}

	complete := 0
	for _, record := range records {
		if record.Complete() {
			complete++
		}
		if record.Age != nil && (*record.Age < 18 || *record.Age > 72) {
			t.Errorf("age %d outside generator range", *record.Age)
		}
	}
	if complete == 0 {
		t.Error("expected mostly complete records")
	}
}

func TestCSV_RoundShape(t *testing.T) {
	records := NewGroceryDataGenerator(DefaultGroceryConfig()).Generate()
	csv := CSV(records[:5])

	lines := strings.Split(strings.TrimSpace(csv), "\n")
	if len(lines) != 6 {
		t.Fatalf("expected header + 5 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "customer,age,city,payment_type,items,total") {
		t.Errorf("unexpected header: %s", lines[0])
	}
}
