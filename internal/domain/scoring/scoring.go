// Package scoring converts environmental readings and a historical risk
// classification into a risk assessment.
package scoring

import (
	"github.com/jonboulle/clockwork"

	"github.com/okian/ember/internal/domain/model"
)

// Additive point rule breakpoints. Each variable contributes at most one
// bucket; branches are evaluated hottest-first.
const (
	tempHighThreshold     = 35.0
	tempModerateThreshold = 30.0
	humidityDryThreshold  = 30.0
	windHighThreshold     = 20.0
	windModerateThreshold = 15.0
	vegSparseThreshold    = 0.5
	vegModerateThreshold  = 0.7

	tempHighPoints     = 3
	tempModeratePoints = 2
	humidityDryPoints  = 2
	windHighPoints     = 3
	windModeratePoints = 2
	vegSparsePoints    = 3
	vegModeratePoints  = 2
)

// Classification cutoffs for the summed score.
const (
	highCutoff     = 8
	moderateCutoff = 5
)

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithClock sets the time source used for assessment timestamps.
// Tests inject a fake clock for deterministic output.
func WithClock(c clockwork.Clock) Option {
	return func(s *Scorer) {
		if c != nil {
			s.clock = c
		}
	}
}

// Scorer computes risk assessments with the additive point rule.
// It is stateless apart from its time source and safe for concurrent use.
type Scorer struct {
	clock clockwork.Clock
}

// New creates a Scorer with configuration options. The real clock is used
// unless overridden.
func New(opts ...Option) *Scorer {
	s := &Scorer{clock: clockwork.NewRealClock()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score maps the four environmental readings into a weighted integer score,
// derives the base classification, then reconciles it with the location's
// historical risk. Inputs are assumed range-validated by the boundary.
//
// Reconciliation is a one-step upgrade only: a High historical risk lifts a
// Low or Moderate base to Moderate and never downgrades an already-High
// assessment.
func (s *Scorer) Score(input model.EnvironmentalInput, historical model.HistoricalRisk) model.Assessment {
	score := riskScore(input)

	var level model.RiskLevel
	switch {
	case score >= highCutoff:
		level = model.RiskHigh
	case score >= moderateCutoff:
		level = model.RiskModerate
	default:
		level = model.RiskLow
	}

	if historical == model.HistoricalHigh && level != model.RiskHigh {
		level = model.RiskModerate
	}

	return model.Assessment{
		Score:       score,
		Level:       level,
		GeneratedAt: s.clock.Now().UTC(),
	}
}

// riskScore sums the point contributions of the four variables. Only one
// bucket applies per variable.
func riskScore(in model.EnvironmentalInput) int {
	score := 0

	if in.Temperature > tempHighThreshold {
		score += tempHighPoints
	} else if in.Temperature > tempModerateThreshold {
		score += tempModeratePoints
	}

	if in.Humidity < humidityDryThreshold {
		score += humidityDryPoints
	}

	if in.WindSpeed > windHighThreshold {
		score += windHighPoints
	} else if in.WindSpeed > windModerateThreshold {
		score += windModeratePoints
	}

	// Exactly 0.5 falls in the moderate bucket.
	if in.VegetationIndex < vegSparseThreshold {
		score += vegSparsePoints
	} else if in.VegetationIndex < vegModerateThreshold {
		score += vegModeratePoints
	}

	return score
}
