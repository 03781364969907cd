package testkit

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"github.com/a7med3yad/DataProject/domain/market"
)

// GroceryGeneratorConfig configures the synthetic transaction generator.
type GroceryGeneratorConfig struct {
	CustomerCount    int     `json:"customer_count"`
	OrdersPerCust    int     `json:"orders_per_customer"`
	MissingFieldRate float64 `json:"missing_field_rate"`
	DuplicateRate    float64 `json:"duplicate_rate"`
	Seed             int64   `json:"seed"`
}

// DefaultGroceryConfig returns sensible defaults for demo data.
func DefaultGroceryConfig() GroceryGeneratorConfig {
	return GroceryGeneratorConfig{
		CustomerCount:    120,
		OrdersPerCust:    3,
		MissingFieldRate: 0.02,
		DuplicateRate:    0.02,
		Seed:             42,
	}
}

var cities = []string{"Cairo", "Giza", "Alexandria", "Mansoura", "Aswan"}

var paymentTypes = []string{"Cash", "Credit Card", "Mobile Wallet"}

// baskets are item groups bought together, so association rules exist in
// the generated data
var baskets = [][]string{
	{"milk", "bread", "eggs"},
	{"tea", "sugar", "biscuits"},
	{"rice", "oil", "lentils"},
	{"chicken", "spices", "rice"},
	{"cheese", "bread", "olives"},
}

var extraItems = []string{"water", "juice", "chocolate", "yogurt", "pasta", "tomatoes"}

// GroceryDataGenerator produces deterministic, realistic grocery records.
type GroceryDataGenerator struct {
	config GroceryGeneratorConfig
	rng    *rand.Rand
}

// NewGroceryDataGenerator creates a generator seeded from the config.
func NewGroceryDataGenerator(config GroceryGeneratorConfig) *GroceryDataGenerator {
	return &GroceryDataGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Generate produces the full record set. Some records get missing fields and
// some complete records are repeated verbatim, per the configured rates, so
// cleaning diagnostics have something to report.
func (g *GroceryDataGenerator) Generate() []market.Record {
	var records []market.Record

	for i := 0; i < g.config.CustomerCount; i++ {
		customer := fmt.Sprintf("customer_%03d", i+1)
		age := 18 + g.rng.Intn(55)
		city := cities[g.rng.Intn(len(cities))]

		for o := 0; o < g.config.OrdersPerCust; o++ {
			record := g.order(customer, age, city)

			if g.rng.Float64() < g.config.MissingFieldRate {
				record = g.blankRandomField(record)
			}
			records = append(records, record)

			if record.Complete() && g.rng.Float64() < g.config.DuplicateRate {
				records = append(records, record)
			}
		}
	}

	return records
}

func (g *GroceryDataGenerator) order(customer string, age int, city string) market.Record {
	basket := baskets[g.rng.Intn(len(baskets))]
	items := append([]string(nil), basket...)
	if g.rng.Float64() < 0.5 {
		items = append(items, extraItems[g.rng.Intn(len(extraItems))])
	}

	// older shoppers spend more on average, giving the clustering a signal
	base := 40.0 + float64(age)*3.5
	total := base + g.rng.Float64()*60.0

	a, t := age, total
	return market.Record{
		Customer:    customer,
		Age:         &a,
		City:        city,
		PaymentType: paymentTypes[g.rng.Intn(len(paymentTypes))],
		Items:       strings.Join(items, ", "),
		Total:       &t,
	}
}

func (g *GroceryDataGenerator) blankRandomField(record market.Record) market.Record {
	switch g.rng.Intn(4) {
	case 0:
		record.Age = nil
	case 1:
		record.Total = nil
	case 2:
		record.Items = ""
	default:
		record.PaymentType = ""
	}
	return record
}

// CSV renders records in the upload file format, for loader tests and demo
// downloads. Missing values render as empty cells.
func CSV(records []market.Record) string {
	var b strings.Builder
	b.WriteString("customer,age,city,payment_type,items,total\n")
	for _, r := range records {
		age := ""
		if r.Age != nil {
			age = strconv.Itoa(*r.Age)
		}
		total := ""
		if r.Total != nil {
			total = strconv.FormatFloat(*r.Total, 'f', 2, 64)
		}
		fmt.Fprintf(&b, "%s,%s,%s,%s,%q,%s\n", r.Customer, age, r.City, r.PaymentType, r.Items, total)
	}
	return b.String()
}
