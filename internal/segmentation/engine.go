package segmentation

import (
	"log"
	"math/rand"
	"sort"

	"github.com/a7med3yad/DataProject/domain/market"
)

// Config holds the k-means tuning knobs shared by every segmentation run.
type Config struct {
	Restarts      int
	MaxIterations int
	Seed          int64
}

// DefaultConfig returns the restart/iteration settings used by the server.
func DefaultConfig() Config {
	return Config{
		Restarts:      10,
		MaxIterations: 100,
		Seed:          42,
	}
}

// AgeCluster is one point of the cluster scatter plot: an age, its total
// spend across the dataset, and its cluster label in [1, k].
type AgeCluster struct {
	Age        int     `json:"age"`
	TotalSpend float64 `json:"total_spend"`
	Cluster    int     `json:"cluster"`
}

// CustomerSegment is one row of the cluster-membership table.
type CustomerSegment struct {
	Customer   string  `json:"customer"`
	Age        int     `json:"age"`
	TotalSpend float64 `json:"total_spend"`
	Cluster    int     `json:"cluster"`
}

// Result is the segmentation output consumed by the presentation layer.
// NumClusters is the effective cluster count: it equals the requested count
// unless the dataset has fewer distinct ages, in which case it is clamped to
// that number and can fall below the configurable 2-4 range (a one-age
// dataset yields a single cluster).
type Result struct {
	NumClusters int               `json:"num_clusters"`
	Ages        []AgeCluster      `json:"ages"`
	Customers   []CustomerSegment `json:"customers"`
	WCSS        float64           `json:"wcss"`
}

// Engine clusters ages by spending behavior and joins customers to the
// cluster of their age.
type Engine struct {
	config Config
}

// NewEngine creates a segmentation engine.
func NewEngine(config Config) *Engine {
	return &Engine{config: config}
}

// Segment aggregates total spend by age, clusters the (age, spend) points
// with k-means, and labels each customer with the cluster of their age.
//
// Age and spend enter the distance metric unscaled, so the larger-magnitude
// spend axis dominates the partition. That matches the dashboard's observed
// behavior and is kept intentionally.
//
// Rows missing age or total are excluded from the aggregation. When fewer
// distinct ages exist than requested clusters, k is clamped so every label
// stays in [1, k].
func (e *Engine) Segment(records []market.Record, numClusters int) Result {
	ages := aggregateSpendByAge(records)
	if len(ages) == 0 {
		return Result{NumClusters: numClusters, Ages: []AgeCluster{}, Customers: []CustomerSegment{}}
	}

	k := numClusters
	if k > len(ages) {
		log.Printf("[Segmentation] only %d distinct ages; clamping clusters from %d", len(ages), numClusters)
		k = len(ages)
	}

	points := make([][]float64, len(ages))
	for i, a := range ages {
		points[i] = []float64{float64(a.Age), a.TotalSpend}
	}

	rng := rand.New(rand.NewSource(e.config.Seed))
	run := runKMeans(points, k, e.config.Restarts, e.config.MaxIterations, rng)

	labels := canonicalLabels(ages, run.assignments, k)
	labelByAge := make(map[int]int, len(ages))
	for i := range ages {
		ages[i].Cluster = labels[run.assignments[i]]
		labelByAge[ages[i].Age] = ages[i].Cluster
	}

	log.Printf("[Segmentation] %d ages into %d clusters (wcss=%.2f)", len(ages), k, run.wcss)

	return Result{
		NumClusters: k,
		Ages:        ages,
		Customers:   customerSegments(records, labelByAge),
		WCSS:        run.wcss,
	}
}

// aggregateSpendByAge sums total spend per age, ordered by ascending age
func aggregateSpendByAge(records []market.Record) []AgeCluster {
	totals := make(map[int]float64)
	for _, record := range records {
		if record.Age == nil || record.Total == nil {
			continue
		}
		totals[*record.Age] += *record.Total
	}

	ages := make([]AgeCluster, 0, len(totals))
	for age, total := range totals {
		ages = append(ages, AgeCluster{Age: age, TotalSpend: total})
	}
	sort.Slice(ages, func(i, j int) bool { return ages[i].Age < ages[j].Age })
	return ages
}

// canonicalLabels maps raw partition indices to labels 1..k ordered by
// ascending mean spend, so the labeling is deterministic for a given
// partition even though k-means numbering is arbitrary.
func canonicalLabels(ages []AgeCluster, assignments []int, k int) map[int]int {
	spendSum := make([]float64, k)
	sizes := make([]int, k)
	for i, a := range ages {
		spendSum[assignments[i]] += a.TotalSpend
		sizes[assignments[i]]++
	}

	order := make([]int, k)
	for c := range order {
		order[c] = c
	}
	sort.Slice(order, func(i, j int) bool {
		mi, mj := meanSpend(spendSum, sizes, order[i]), meanSpend(spendSum, sizes, order[j])
		if mi != mj {
			return mi < mj
		}
		return order[i] < order[j]
	})

	labels := make(map[int]int, k)
	for rank, c := range order {
		labels[c] = rank + 1
	}
	return labels
}

func meanSpend(spendSum []float64, sizes []int, c int) float64 {
	if sizes[c] == 0 {
		return 0
	}
	return spendSum[c] / float64(sizes[c])
}

// customerSegments aggregates per-customer spend and joins the cluster label
// of the customer's (assumed unique) age
func customerSegments(records []market.Record, labelByAge map[int]int) []CustomerSegment {
	type customerAgg struct {
		age   int
		spend float64
	}

	aggs := make(map[string]*customerAgg)
	var order []string
	for _, record := range records {
		if record.Customer == "" || record.Age == nil || record.Total == nil {
			continue
		}
		agg, ok := aggs[record.Customer]
		if !ok {
			agg = &customerAgg{age: *record.Age}
			aggs[record.Customer] = agg
			order = append(order, record.Customer)
		}
		agg.spend += *record.Total
	}
	sort.Strings(order)

	segments := make([]CustomerSegment, 0, len(order))
	for _, customer := range order {
		agg := aggs[customer]
		segments = append(segments, CustomerSegment{
			Customer:   customer,
			Age:        agg.age,
			TotalSpend: agg.spend,
			Cluster:    labelByAge[agg.age],
		})
	}
	return segments
}
