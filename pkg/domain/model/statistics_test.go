package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskportal/pkg/domain/model"
	"github.com/secmon-lab/riskportal/pkg/domain/types"
)

func TestCalculateRiskStatistics(t *testing.T) {
	scoring := func(l, i int) model.Scoring {
		s, err := model.NewScoring(l, i)
		gt.NoError(t, err).Required()
		return s
	}

	t.Run("empty register", func(t *testing.T) {
		stats := model.CalculateRiskStatistics(nil)
		gt.Value(t, stats.TotalRisks).Equal(0)
		gt.Value(t, stats.AverageRiskReduction).Equal(0.0)
		gt.Value(t, stats.MitigatedRisksCount).Equal(0)
	})

	t.Run("mixed register", func(t *testing.T) {
		critical := newTestRisk("CRITICAL", types.CategorySecurityData, scoring(5, 5), scoring(4, 5))
		critical.AgreedMitigation = "Access restrictions"
		high := newTestRisk("HIGH", types.CategorySecurityData, scoring(4, 4), scoring(3, 4))
		low := newTestRisk("LOW", types.CategoryBehavioral, scoring(2, 2), scoring(1, 2))

		stats := model.CalculateRiskStatistics([]*model.Risk{critical, high, low})

		gt.Value(t, stats.TotalRisks).Equal(3)
		gt.Value(t, stats.ByCategory[types.CategorySecurityData]).Equal(2)
		gt.Value(t, stats.ByCategory[types.CategoryBehavioral]).Equal(1)
		gt.Value(t, stats.ByInitialLevel[types.LevelCritical]).Equal(2)
		gt.Value(t, stats.ByResidualLevel[types.LevelCritical]).Equal(1)
		gt.Value(t, stats.ByResidualLevel[types.LevelHigh]).Equal(1)
		gt.Value(t, stats.ByResidualLevel[types.LevelLow]).Equal(1)
		gt.Value(t, stats.CriticalRisksCount).Equal(1)
		gt.Value(t, stats.HighRisksCount).Equal(1)
		gt.Value(t, stats.MitigatedRisksCount).Equal(1)

		// reductions: 25-20=5, 16-12=4, 4-2=2 -> average 11/3
		gt.Value(t, stats.AverageRiskReduction).Equal(11.0 / 3.0)
	})
}

func TestCalculateControlStatistics(t *testing.T) {
	controls := []*model.Control{
		{
			MitigationID:         "ACC-01",
			Category:             types.ControlCategoryAccuracy,
			ImplementationStatus: types.StatusImplemented,
			Effectiveness:        types.ControlEffectivenessHigh,
			Compliance: model.Compliance{
				GDPRArticle: "Art. 22",
				NIST80053:   "AC-2",
			},
		},
		{
			MitigationID: "SEC-01",
			Category:     types.ControlCategorySecurity,
			Compliance:   model.Compliance{GDPRArticle: "Art. 32"},
		},
	}

	stats := model.CalculateControlStatistics(controls)

	gt.Value(t, stats.TotalControls).Equal(2)
	gt.Value(t, stats.ByCategory[types.ControlCategoryAccuracy]).Equal(1)
	gt.Value(t, stats.ByImplementationStatus[types.StatusImplemented]).Equal(1)
	// empty status and effectiveness fall into the default buckets
	gt.Value(t, stats.ByImplementationStatus[types.StatusNotStarted]).Equal(1)
	gt.Value(t, stats.ByEffectiveness[types.ControlEffectivenessNotAssessed]).Equal(1)
	gt.Value(t, stats.ComplianceCoverage.GDPR).Equal(2)
	gt.Value(t, stats.ComplianceCoverage.NIST).Equal(1)
	gt.Value(t, stats.ComplianceCoverage.HIPAA).Equal(0)
}

func TestCalculateUseCaseStatistics(t *testing.T) {
	useCases := []*model.UseCase{
		{
			ID:           "UC-001",
			Title:        "Document Summarization",
			BusinessArea: "R&D",
			AICategories: []string{"Natural Language Processing", "Content Generation"},
			Status:       "Pilot",
			Impact:       model.UseCaseImpact{CostSaving: 120000, EffortMonths: 6},
		},
		{
			ID:           "UC-002",
			Title:        "Invoice Matching",
			BusinessArea: "Finance",
			Status:       "Concept",
			Impact:       model.UseCaseImpact{CostSaving: 80000},
		},
	}

	stats := model.CalculateUseCaseStatistics(useCases)

	gt.Value(t, stats.Total).Equal(2)
	gt.Value(t, stats.ByStatus["Pilot"]).Equal(1)
	gt.Value(t, stats.ByBusinessArea["Finance"]).Equal(1)
	gt.Value(t, stats.ByAICategory["Content Generation"]).Equal(1)
	gt.Value(t, stats.TotalCostSaving).Equal(200000.0)
	// average is over use cases that declare an effort
	gt.Value(t, stats.AverageEffortMonths).Equal(6.0)
}
