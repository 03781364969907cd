package market

import (
	"fmt"

	"github.com/a7med3yad/DataProject/internal/errors"
)

// Parameter bounds exposed to the presentation layer.
const (
	MinClusters = 2
	MaxClusters = 4

	ThresholdFloor = 0.001
	ThresholdCeil  = 1.0
)

// AnalysisParams is the user-tunable configuration applied on every
// recomputation. A params value is validated before any computation runs.
type AnalysisParams struct {
	NumClusters   int     `json:"num_clusters"`
	MinSupport    float64 `json:"min_support"`
	MinConfidence float64 `json:"min_confidence"`
}

// DefaultAnalysisParams returns the parameter values used before the user
// touches any control.
func DefaultAnalysisParams() AnalysisParams {
	return AnalysisParams{
		NumClusters:   3,
		MinSupport:    0.05,
		MinConfidence: 0.06,
	}
}

// Validate rejects out-of-range parameters with a CONFIG_INVALID error.
func (p AnalysisParams) Validate() error {
	if p.NumClusters < MinClusters || p.NumClusters > MaxClusters {
		return errors.ConfigInvalid(fmt.Sprintf("num_clusters must be between %d and %d, got %d", MinClusters, MaxClusters, p.NumClusters))
	}
	if p.MinSupport < ThresholdFloor || p.MinSupport > ThresholdCeil {
		return errors.ConfigInvalid(fmt.Sprintf("min_support must be in [%g, %g], got %g", ThresholdFloor, ThresholdCeil, p.MinSupport))
	}
	if p.MinConfidence < ThresholdFloor || p.MinConfidence > ThresholdCeil {
		return errors.ConfigInvalid(fmt.Sprintf("min_confidence must be in [%g, %g], got %g", ThresholdFloor, ThresholdCeil, p.MinConfidence))
	}
	return nil
}
