package aggregate

import (
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/a7med3yad/DataProject/domain/market"
	"github.com/a7med3yad/DataProject/internal/basket"
)

// PaymentShare is one slice of the payment-type pie chart.
type PaymentShare struct {
	Type    string  `json:"type"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// AgeSpend is one bar of the spend-by-age chart.
type AgeSpend struct {
	Age   int     `json:"age"`
	Total float64 `json:"total"`
}

// CitySpend is one bar of the spend-by-city chart, ordered by descending
// spend.
type CitySpend struct {
	City  string  `json:"city"`
	Total float64 `json:"total"`
}

// CityTopItem is the best-selling item of one city.
type CityTopItem struct {
	City  string `json:"city"`
	Item  string `json:"item"`
	Count int    `json:"count"`
}

// ItemFrequency is one bar of the item-frequency charts. Share is the
// fraction of transactions containing the item.
type ItemFrequency struct {
	Item  string  `json:"item"`
	Count int     `json:"count"`
	Share float64 `json:"share"`
}

// SpendDistribution is the five-number summary behind the spend boxplot.
type SpendDistribution struct {
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
}

// Summary bundles every descriptive output consumed by the charts and the
// insights text.
type Summary struct {
	PaymentShares []PaymentShare    `json:"payment_shares"`
	SpendByAge    []AgeSpend        `json:"spend_by_age"`
	SpendByCity   []CitySpend       `json:"spend_by_city"`
	CityTopItems  []CityTopItem     `json:"city_top_items"`
	TopItems      []ItemFrequency   `json:"top_items"`
	Spend         SpendDistribution `json:"spend"`
}

// TopItemLimit caps the item-frequency charts.
const TopItemLimit = 10

// Summarize computes every grouped summary over the raw record set. Rows
// missing the field a grouping needs are skipped for that grouping only.
func Summarize(records []market.Record, transactions []market.Transaction) Summary {
	return Summary{
		PaymentShares: paymentShares(records),
		SpendByAge:    spendByAge(records),
		SpendByCity:   spendByCity(records),
		CityTopItems:  cityTopItems(records),
		TopItems:      topItems(transactions),
		Spend:         spendDistribution(records),
	}
}

func paymentShares(records []market.Record) []PaymentShare {
	counts := make(map[string]int)
	total := 0
	for _, record := range records {
		if record.PaymentType == "" {
			continue
		}
		counts[record.PaymentType]++
		total++
	}

	shares := make([]PaymentShare, 0, len(counts))
	for paymentType, count := range counts {
		shares = append(shares, PaymentShare{
			Type:    paymentType,
			Count:   count,
			Percent: 100 * float64(count) / float64(total),
		})
	}
	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Count != shares[j].Count {
			return shares[i].Count > shares[j].Count
		}
		return shares[i].Type < shares[j].Type
	})
	return shares
}

func spendByAge(records []market.Record) []AgeSpend {
	totals := make(map[int]float64)
	for _, record := range records {
		if record.Age == nil || record.Total == nil {
			continue
		}
		totals[*record.Age] += *record.Total
	}

	byAge := make([]AgeSpend, 0, len(totals))
	for age, total := range totals {
		byAge = append(byAge, AgeSpend{Age: age, Total: total})
	}
	sort.Slice(byAge, func(i, j int) bool { return byAge[i].Age < byAge[j].Age })
	return byAge
}

func spendByCity(records []market.Record) []CitySpend {
	totals := make(map[string]float64)
	for _, record := range records {
		if record.City == "" || record.Total == nil {
			continue
		}
		totals[record.City] += *record.Total
	}

	byCity := make([]CitySpend, 0, len(totals))
	for city, total := range totals {
		byCity = append(byCity, CitySpend{City: city, Total: total})
	}
	sort.Slice(byCity, func(i, j int) bool {
		if byCity[i].Total != byCity[j].Total {
			return byCity[i].Total > byCity[j].Total
		}
		return byCity[i].City < byCity[j].City
	})
	return byCity
}

// cityTopItems finds the most frequent item per city. Ties go to the item
// first encountered in input order, so items are taken from the raw token
// stream rather than the sorted Transaction.
func cityTopItems(records []market.Record) []CityTopItem {
	type cityItems struct {
		counts map[string]int
		order  []string
	}

	cities := make(map[string]*cityItems)
	var cityOrder []string
	for _, record := range records {
		if record.City == "" {
			continue
		}
		ci, ok := cities[record.City]
		if !ok {
			ci = &cityItems{counts: make(map[string]int)}
			cities[record.City] = ci
			cityOrder = append(cityOrder, record.City)
		}
		for _, item := range basket.Tokens(record.Items) {
			if ci.counts[item] == 0 {
				ci.order = append(ci.order, item)
			}
			ci.counts[item]++
		}
	}

	topItems := make([]CityTopItem, 0, len(cityOrder))
	for _, city := range cityOrder {
		ci := cities[city]
		top := CityTopItem{City: city}
		for _, item := range ci.order {
			if ci.counts[item] > top.Count {
				top.Item = item
				top.Count = ci.counts[item]
			}
		}
		if top.Count > 0 {
			topItems = append(topItems, top)
		}
	}
	return topItems
}

func topItems(transactions []market.Transaction) []ItemFrequency {
	counts := make(map[string]int)
	for _, tx := range transactions {
		for _, item := range tx {
			counts[item]++
		}
	}

	frequencies := make([]ItemFrequency, 0, len(counts))
	for item, count := range counts {
		frequencies = append(frequencies, ItemFrequency{
			Item:  item,
			Count: count,
			Share: float64(count) / float64(len(transactions)),
		})
	}
	sort.Slice(frequencies, func(i, j int) bool {
		if frequencies[i].Count != frequencies[j].Count {
			return frequencies[i].Count > frequencies[j].Count
		}
		return frequencies[i].Item < frequencies[j].Item
	})

	if len(frequencies) > TopItemLimit {
		frequencies = frequencies[:TopItemLimit]
	}
	return frequencies
}

func spendDistribution(records []market.Record) SpendDistribution {
	var totals []float64
	for _, record := range records {
		if record.Total != nil {
			totals = append(totals, *record.Total)
		}
	}
	if len(totals) == 0 {
		return SpendDistribution{}
	}

	dist := SpendDistribution{}
	dist.Min, _ = stats.Min(totals)
	dist.Max, _ = stats.Max(totals)
	dist.Median, _ = stats.Median(totals)
	dist.Mean, _ = stats.Mean(totals)
	if quartiles, err := stats.Quartile(totals); err == nil {
		dist.Q1 = quartiles.Q1
		dist.Q3 = quartiles.Q3
	}
	return dist
}
