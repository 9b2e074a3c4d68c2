package model

import (
	"math"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskportal/pkg/domain/types"
)

// Scoring is a likelihood/impact assessment of a risk. RiskLevel is always
// likelihood × impact and RiskLevelCategory is always derived from it; the
// two categorical fields are never stored independently of the numbers.
type Scoring struct {
	Likelihood        int                     `json:"likelihood"`
	Impact            int                     `json:"impact"`
	RiskLevel         int                     `json:"riskLevel"`
	RiskLevelCategory types.RiskLevelCategory `json:"riskLevelCategory"`
}

// NewScoring builds a Scoring from a likelihood/impact pair, deriving the
// level and its category. Both inputs must be integers in [1,5].
func NewScoring(likelihood, impact int) (Scoring, error) {
	if likelihood < 1 || likelihood > 5 {
		return Scoring{}, goerr.New("likelihood must be between 1 and 5", goerr.V("likelihood", likelihood))
	}
	if impact < 1 || impact > 5 {
		return Scoring{}, goerr.New("impact must be between 1 and 5", goerr.V("impact", impact))
	}

	level := likelihood * impact
	return Scoring{
		Likelihood:        likelihood,
		Impact:            impact,
		RiskLevel:         level,
		RiskLevelCategory: types.RiskLevelCategoryFromScore(level),
	}, nil
}

// RiskReduction returns the absolute score reduction from initial to residual.
func RiskReduction(initial, residual Scoring) int {
	return initial.RiskLevel - residual.RiskLevel
}

// RiskReductionPercentage returns the rounded percentage reduction from the
// initial to the residual score. A zero initial score yields 0.
func RiskReductionPercentage(initial, residual Scoring) int {
	if initial.RiskLevel <= 0 {
		return 0
	}
	reduction := float64(initial.RiskLevel - residual.RiskLevel)
	return int(math.Round(reduction / float64(initial.RiskLevel) * 100))
}

// CalculateMitigationEffectiveness rates the mitigation by percentage risk
// reduction: at least 70% is High, at least 40% is Medium, otherwise Low.
// A zero initial score is treated as 0% reduction.
func CalculateMitigationEffectiveness(initial, residual Scoring) types.MitigationEffectiveness {
	pct := RiskReductionPercentage(initial, residual)
	switch {
	case pct >= 70:
		return types.EffectivenessHigh
	case pct >= 40:
		return types.EffectivenessMedium
	default:
		return types.EffectivenessLow
	}
}
