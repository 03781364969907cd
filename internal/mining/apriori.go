package mining

import (
	"log"
	"sort"
	"strings"

	"github.com/a7med3yad/DataProject/domain/market"
)

// Config holds the mining thresholds. MinRuleLength is the minimum total
// item count of a rule (antecedent + consequent); the default of 2 means at
// least one item on each side.
type Config struct {
	MinSupport    float64
	MinConfidence float64
	MinRuleLength int
}

// DefaultConfig returns mining defaults matching the dashboard's initial
// slider positions.
func DefaultConfig() Config {
	return Config{
		MinSupport:    0.05,
		MinConfidence: 0.06,
		MinRuleLength: 2,
	}
}

// Itemset is a frequent itemset with its support over all transactions.
type Itemset struct {
	Items   []string `json:"items"`
	Support float64  `json:"support"`
	Count   int      `json:"count"`
}

// Result bundles the frequent itemsets and the rules derived from them.
// Both may be empty; an empty result is the "no rules found" state, not an
// error.
type Result struct {
	Itemsets []Itemset     `json:"itemsets"`
	Rules    []market.Rule `json:"rules"`
}

// Miner runs APriori frequent-itemset discovery and rule generation.
type Miner struct {
	config Config
}

// NewMiner creates a miner with the given thresholds.
func NewMiner(config Config) *Miner {
	if config.MinRuleLength < 2 {
		config.MinRuleLength = 2
	}
	return &Miner{config: config}
}

// Mine discovers frequent itemsets level by level, pruning candidates whose
// support falls below MinSupport, then derives association rules from every
// frequent itemset of size >= 2. Empty transactions are tolerated; they
// count toward the transaction total but contribute no itemsets.
func (m *Miner) Mine(transactions []market.Transaction) Result {
	result := Result{Itemsets: []Itemset{}, Rules: []market.Rule{}}
	total := len(transactions)
	if total == 0 {
		return result
	}

	// support counts for every frequent itemset found so far, keyed by the
	// canonical sorted item list
	counts := make(map[string]int)

	level := m.frequentSingletons(transactions, counts)
	var frequent [][]string
	for len(level) > 0 {
		frequent = append(frequent, level...)

		candidates := generateCandidates(level)
		level = m.countAndPrune(candidates, transactions, counts)
	}

	log.Printf("[Miner] %d frequent itemsets over %d transactions (min_support=%.3f)",
		len(frequent), total, m.config.MinSupport)

	for _, items := range frequent {
		result.Itemsets = append(result.Itemsets, Itemset{
			Items:   items,
			Support: float64(counts[itemsetKey(items)]) / float64(total),
			Count:   counts[itemsetKey(items)],
		})
		if len(items) >= m.config.MinRuleLength {
			result.Rules = append(result.Rules, m.rulesFrom(items, counts, total)...)
		}
	}

	sortItemsets(result.Itemsets)
	sortRules(result.Rules)

	log.Printf("[Miner] %d rules retained (min_confidence=%.3f)", len(result.Rules), m.config.MinConfidence)
	return result
}

// frequentSingletons returns all 1-itemsets meeting MinSupport
func (m *Miner) frequentSingletons(transactions []market.Transaction, counts map[string]int) [][]string {
	itemCounts := make(map[string]int)
	for _, tx := range transactions {
		for _, item := range tx {
			itemCounts[item]++
		}
	}

	minCount := m.minCount(len(transactions))
	var frequent [][]string
	for item, count := range itemCounts {
		if count >= minCount {
			itemset := []string{item}
			counts[itemsetKey(itemset)] = count
			frequent = append(frequent, itemset)
		}
	}

	// deterministic level order for candidate generation
	sort.Slice(frequent, func(i, j int) bool { return frequent[i][0] < frequent[j][0] })
	return frequent
}

// generateCandidates joins frequent k-itemsets sharing their first k-1 items
// into (k+1)-candidates, then prunes any candidate with an infrequent
// k-subset (anti-monotonicity).
func generateCandidates(level [][]string) [][]string {
	frequentKeys := make(map[string]bool, len(level))
	for _, items := range level {
		frequentKeys[itemsetKey(items)] = true
	}

	k := len(level[0])
	var candidates [][]string
	for i := 0; i < len(level); i++ {
		for j := i + 1; j < len(level); j++ {
			a, b := level[i], level[j]
			if !samePrefix(a, b, k-1) {
				continue
			}

			candidate := make([]string, k+1)
			copy(candidate, a)
			candidate[k] = b[k-1]
			if candidate[k-1] > candidate[k] {
				candidate[k-1], candidate[k] = candidate[k], candidate[k-1]
			}

			if hasInfrequentSubset(candidate, frequentKeys) {
				continue
			}
			candidates = append(candidates, candidate)
		}
	}
	return candidates
}

func samePrefix(a, b []string, n int) bool {
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func hasInfrequentSubset(candidate []string, frequentKeys map[string]bool) bool {
	subset := make([]string, 0, len(candidate)-1)
	for skip := range candidate {
		subset = subset[:0]
		for i, item := range candidate {
			if i != skip {
				subset = append(subset, item)
			}
		}
		if !frequentKeys[itemsetKey(subset)] {
			return true
		}
	}
	return false
}

// countAndPrune scans the transactions once per candidate set and keeps the
// candidates meeting MinSupport
func (m *Miner) countAndPrune(candidates [][]string, transactions []market.Transaction, counts map[string]int) [][]string {
	if len(candidates) == 0 {
		return nil
	}

	candidateCounts := make([]int, len(candidates))
	for _, tx := range transactions {
		for i, candidate := range candidates {
			if tx.Contains(candidate) {
				candidateCounts[i]++
			}
		}
	}

	minCount := m.minCount(len(transactions))
	var frequent [][]string
	for i, candidate := range candidates {
		if candidateCounts[i] >= minCount {
			counts[itemsetKey(candidate)] = candidateCounts[i]
			frequent = append(frequent, candidate)
		}
	}
	return frequent
}

// rulesFrom derives every antecedent/consequent split of a frequent itemset
// and keeps the rules meeting MinConfidence. Every proper subset of a
// frequent itemset is itself frequent, so its support count is available.
func (m *Miner) rulesFrom(items []string, counts map[string]int, total int) []market.Rule {
	itemsetCount := counts[itemsetKey(items)]
	support := float64(itemsetCount) / float64(total)

	var rules []market.Rule
	n := len(items)
	for mask := 1; mask < (1 << n); mask++ {
		if mask == (1<<n)-1 {
			continue // consequent must be non-empty
		}

		antecedent := make([]string, 0, n-1)
		consequent := make([]string, 0, n-1)
		for i := 0; i < n; i++ {
			if mask&(1<<i) != 0 {
				antecedent = append(antecedent, items[i])
			} else {
				consequent = append(consequent, items[i])
			}
		}

		antecedentCount := counts[itemsetKey(antecedent)]
		if antecedentCount == 0 {
			continue
		}
		confidence := float64(itemsetCount) / float64(antecedentCount)
		if confidence < m.config.MinConfidence {
			continue
		}

		consequentSupport := float64(counts[itemsetKey(consequent)]) / float64(total)
		lift := 0.0
		if consequentSupport > 0 {
			lift = confidence / consequentSupport
		}

		rules = append(rules, market.Rule{
			Antecedent: antecedent,
			Consequent: consequent,
			Support:    support,
			Confidence: confidence,
			Lift:       lift,
		})
	}
	return rules
}

func (m *Miner) minCount(total int) int {
	// smallest integer count whose support fraction reaches the threshold
	minCount := int(m.config.MinSupport * float64(total))
	if float64(minCount) < m.config.MinSupport*float64(total) {
		minCount++
	}
	if minCount < 1 {
		minCount = 1
	}
	return minCount
}

func itemsetKey(items []string) string {
	return strings.Join(items, "\x1f")
}

func sortItemsets(itemsets []Itemset) {
	sort.Slice(itemsets, func(i, j int) bool {
		if itemsets[i].Support != itemsets[j].Support {
			return itemsets[i].Support > itemsets[j].Support
		}
		return itemsetKey(itemsets[i].Items) < itemsetKey(itemsets[j].Items)
	})
}

// sortRules orders rules for display: confidence desc, support desc, then
// antecedent for a stable tie-break
func sortRules(rules []market.Rule) {
	sort.Slice(rules, func(i, j int) bool {
		if rules[i].Confidence != rules[j].Confidence {
			return rules[i].Confidence > rules[j].Confidence
		}
		if rules[i].Support != rules[j].Support {
			return rules[i].Support > rules[j].Support
		}
		return itemsetKey(rules[i].Antecedent) < itemsetKey(rules[j].Antecedent)
	})
}
