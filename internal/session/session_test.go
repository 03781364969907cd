package session

import (
	"context"
	"testing"

	"github.com/a7med3yad/DataProject/domain/market"
	"github.com/a7med3yad/DataProject/internal/errors"
	"github.com/a7med3yad/DataProject/internal/segmentation"
	"github.com/a7med3yad/DataProject/internal/testkit"
)

func newTestRegistry() *Registry {
	return NewRegistry(segmentation.DefaultConfig())
}

func demoRecords() []market.Record {
	return testkit.NewGroceryDataGenerator(testkit.DefaultGroceryConfig()).Generate()
}

func TestSession_LoadAndRecompute(t *testing.T) {
	s := newTestRegistry().Create()
	ctx := context.Background()

	if _, err := s.Results(); errors.GetCode(err) != errors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND before any dataset, got %v", err)
	}

	if err := s.LoadRecords(ctx, demoRecords()); err != nil {
		t.Fatalf("LoadRecords failed: %v", err)
	}

	results, err := s.Results()
	if err != nil {
		t.Fatalf("Results failed: %v", err)
	}

	if results.Cleaning.DuplicateCount == 0 {
		t.Errorf("demo data includes duplicates; cleaning report saw none")
	}
	if results.Cleaning.MissingCount == 0 {
		t.Errorf("demo data includes missing fields; cleaning report saw none")
	}
	if len(results.Mining.Rules) == 0 {
		t.Errorf("expected rules from demo data at default thresholds")
	}
	if len(results.RuleGraph) != len(results.Mining.Rules) {
		t.Errorf("rule graph should carry one edge per rule")
	}
	if len(results.Segmentation.Ages) == 0 {
		t.Errorf("expected age clusters")
	}
	if len(results.Summary.CityTopItems) == 0 {
		t.Errorf("expected per-city top items")
	}
	if results.Insights.HTML == "" {
		t.Errorf("expected rendered insights")
	}
}

func TestSession_InvalidParamsKeepPreviousResults(t *testing.T) {
	s := newTestRegistry().Create()
	ctx := context.Background()

	if err := s.LoadRecords(ctx, demoRecords()); err != nil {
		t.Fatalf("LoadRecords failed: %v", err)
	}
	before, _ := s.Results()

	err := s.SetParams(ctx, market.AnalysisParams{NumClusters: 9, MinSupport: 0.05, MinConfidence: 0.06})
	if errors.GetCode(err) != errors.CodeConfigInvalid {
		t.Fatalf("expected CONFIG_INVALID, got %v", err)
	}

	after, _ := s.Results()
	if after != before {
		t.Errorf("rejected params must not replace the previous results")
	}
	if s.Params() != market.DefaultAnalysisParams() {
		t.Errorf("rejected params must not be stored, got %+v", s.Params())
	}
}

func TestSession_ParamChangeRecomputes(t *testing.T) {
	s := newTestRegistry().Create()
	ctx := context.Background()

	if err := s.LoadRecords(ctx, demoRecords()); err != nil {
		t.Fatalf("LoadRecords failed: %v", err)
	}
	loose, _ := s.Results()

	strict := market.AnalysisParams{NumClusters: 2, MinSupport: 0.9, MinConfidence: 0.9}
	if err := s.SetParams(ctx, strict); err != nil {
		t.Fatalf("SetParams failed: %v", err)
	}

	results, _ := s.Results()
	if len(results.Mining.Rules) > len(loose.Mining.Rules) {
		t.Errorf("stricter thresholds produced more rules (%d > %d)",
			len(results.Mining.Rules), len(loose.Mining.Rules))
	}
	if results.Segmentation.NumClusters != 2 {
		t.Errorf("expected 2 clusters after the change, got %d", results.Segmentation.NumClusters)
	}

	// a strict-threshold empty rule set is a valid state, not an error
	if results.Mining.Rules == nil {
		t.Errorf("rules should be an empty slice, not nil")
	}
}

func TestRegistry_Isolation(t *testing.T) {
	registry := newTestRegistry()
	ctx := context.Background()

	a := registry.Create()
	b := registry.Create()
	if a.ID == b.ID {
		t.Fatal("sessions must have distinct IDs")
	}

	if err := a.LoadRecords(ctx, demoRecords()); err != nil {
		t.Fatalf("LoadRecords failed: %v", err)
	}
	if _, err := b.Results(); errors.GetCode(err) != errors.CodeNotFound {
		t.Errorf("loading data into one session must not affect another")
	}

	registry.Remove(a.ID)
	if _, err := registry.Get(a.ID); errors.GetCode(err) != errors.CodeNotFound {
		t.Errorf("removed session should not be retrievable")
	}
}
