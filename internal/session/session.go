package session

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/a7med3yad/DataProject/domain/market"
	"github.com/a7med3yad/DataProject/internal/aggregate"
	"github.com/a7med3yad/DataProject/internal/basket"
	"github.com/a7med3yad/DataProject/internal/cleaning"
	"github.com/a7med3yad/DataProject/internal/errors"
	"github.com/a7med3yad/DataProject/internal/insights"
	"github.com/a7med3yad/DataProject/internal/mining"
	"github.com/a7med3yad/DataProject/internal/segmentation"
)

// GraphEdge is one edge of the rule visualization: an antecedent label
// pointing at a consequent label, weighted by the rule's metrics.
type GraphEdge struct {
	Source     string  `json:"source"`
	Target     string  `json:"target"`
	Support    float64 `json:"support"`
	Confidence float64 `json:"confidence"`
}

// Results is the full derived output bundle for one dataset + parameter
// combination. It is rebuilt as a whole on every recomputation and never
// mutated afterwards.
type Results struct {
	Cleaning     cleaning.Report     `json:"cleaning"`
	Mining       mining.Result       `json:"mining"`
	RuleGraph    []GraphEdge         `json:"rule_graph"`
	Segmentation segmentation.Result `json:"segmentation"`
	Summary      aggregate.Summary   `json:"summary"`
	Insights     insights.Block      `json:"insights"`
}

// Session holds one user's loaded dataset, last valid parameters, and
// derived results. Sessions are fully isolated from each other; the record
// slice is immutable once loaded.
type Session struct {
	ID string

	mu           sync.RWMutex
	records      []market.Record
	transactions []market.Transaction
	params       market.AnalysisParams
	results      *Results

	segmenter *segmentation.Engine
}

func newSession(id string, segConfig segmentation.Config) *Session {
	return &Session{
		ID:        id,
		params:    market.DefaultAnalysisParams(),
		segmenter: segmentation.NewEngine(segConfig),
	}
}

// LoadRecords replaces the session's dataset and recomputes every output
// with the current parameters.
func (s *Session) LoadRecords(ctx context.Context, records []market.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = records
	s.transactions = basket.EncodeAll(records)
	return s.recompute(ctx)
}

// SetParams validates and applies new analysis parameters, recomputing the
// results. Invalid parameters are rejected before any computation and the
// previous results stay in place.
func (s *Session) SetParams(ctx context.Context, params market.AnalysisParams) error {
	if err := params.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.params
	s.params = params
	if s.records == nil {
		return nil // applied once a dataset arrives
	}
	if err := s.recompute(ctx); err != nil {
		s.params = previous
		return err
	}
	return nil
}

// Params returns the session's current analysis parameters.
func (s *Session) Params() market.AnalysisParams {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.params
}

// Results returns the latest derived outputs, or NOT_FOUND when no dataset
// has been loaded yet.
func (s *Session) Results() (*Results, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.results == nil {
		return nil, errors.NotFound("dataset")
	}
	return s.results, nil
}

// recompute rebuilds the results bundle. The four stages share only the
// immutable record and transaction slices, so they run concurrently and
// write to disjoint fields. Caller holds the write lock.
func (s *Session) recompute(ctx context.Context) error {
	startTime := time.Now()
	results := &Results{}

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		results.Cleaning = cleaning.Analyze(s.records)
		return nil
	})
	g.Go(func() error {
		miner := mining.NewMiner(mining.Config{
			MinSupport:    s.params.MinSupport,
			MinConfidence: s.params.MinConfidence,
			MinRuleLength: 2,
		})
		results.Mining = miner.Mine(s.transactions)
		results.RuleGraph = ruleGraph(results.Mining.Rules)
		return nil
	})
	g.Go(func() error {
		results.Segmentation = s.segmenter.Segment(s.records, s.params.NumClusters)
		return nil
	})
	g.Go(func() error {
		results.Summary = aggregate.Summarize(s.records, s.transactions)
		results.Insights = insights.Build(results.Summary)
		return nil
	})
	if err := g.Wait(); err != nil {
		return errors.Wrap(err, "recomputation failed")
	}

	s.results = results
	log.Printf("[Session %s] recomputed in %.2fms (%d records, %d rules)",
		s.ID, float64(time.Since(startTime).Nanoseconds())/1e6, len(s.records), len(results.Mining.Rules))
	return nil
}

func ruleGraph(rules []market.Rule) []GraphEdge {
	edges := make([]GraphEdge, 0, len(rules))
	for _, rule := range rules {
		edges = append(edges, GraphEdge{
			Source:     strings.Join(rule.Antecedent, ", "),
			Target:     strings.Join(rule.Consequent, ", "),
			Support:    rule.Support,
			Confidence: rule.Confidence,
		})
	}
	return edges
}
