package model

import "github.com/secmon-lab/riskportal/pkg/domain/types"

// RiskStatistics are aggregate counts over the full risk register.
type RiskStatistics struct {
	TotalRisks           int                               `json:"totalRisks"`
	ByCategory           map[types.RiskCategory]int        `json:"byCategory"`
	ByInitialLevel       map[types.RiskLevelCategory]int   `json:"byInitialLevel"`
	ByResidualLevel      map[types.RiskLevelCategory]int   `json:"byResidualLevel"`
	AverageRiskReduction float64                           `json:"averageRiskReduction"`
	CriticalRisksCount   int                               `json:"criticalRisksCount"`
	HighRisksCount       int                               `json:"highRisksCount"`
	MitigatedRisksCount  int                               `json:"mitigatedRisksCount"`
}

// CalculateRiskStatistics recomputes risk statistics from scratch.
// Critical/High counts are over residual levels; a risk counts as
// mitigated when it has a non-empty agreed mitigation.
func CalculateRiskStatistics(risks []*Risk) *RiskStatistics {
	stats := &RiskStatistics{
		TotalRisks:      len(risks),
		ByCategory:      make(map[types.RiskCategory]int),
		ByInitialLevel:  make(map[types.RiskLevelCategory]int),
		ByResidualLevel: make(map[types.RiskLevelCategory]int),
	}

	totalReduction := 0
	for _, r := range risks {
		stats.ByCategory[r.RiskCategory]++
		stats.ByInitialLevel[r.InitialScoring.RiskLevelCategory]++
		stats.ByResidualLevel[r.ResidualScoring.RiskLevelCategory]++
		totalReduction += r.RiskReduction

		switch r.ResidualScoring.RiskLevelCategory {
		case types.LevelCritical:
			stats.CriticalRisksCount++
		case types.LevelHigh:
			stats.HighRisksCount++
		}

		if r.AgreedMitigation != "" {
			stats.MitigatedRisksCount++
		}
	}

	if len(risks) > 0 {
		stats.AverageRiskReduction = float64(totalReduction) / float64(len(risks))
	}
	return stats
}

// ComplianceCoverage counts how many controls have a non-empty value for
// each compliance framework field.
type ComplianceCoverage struct {
	CFRPart11 int `json:"cfrPart11"`
	HIPAA     int `json:"hipaa"`
	GDPR      int `json:"gdpr"`
	EUAIAct   int `json:"euAiAct"`
	NIST      int `json:"nist"`
	SOC2      int `json:"soc2"`
}

// ControlStatistics are aggregate counts over the full control register.
type ControlStatistics struct {
	TotalControls          int                                `json:"totalControls"`
	ByCategory             map[types.ControlCategory]int      `json:"byCategory"`
	ByImplementationStatus map[types.ImplementationStatus]int `json:"byImplementationStatus"`
	ByEffectiveness        map[types.ControlEffectiveness]int `json:"byEffectiveness"`
	ComplianceCoverage     ComplianceCoverage                 `json:"complianceCoverage"`
}

// CalculateControlStatistics recomputes control statistics from scratch.
// Controls without a status or rating are bucketed under "Not Started"
// and "Not Assessed" respectively.
func CalculateControlStatistics(controls []*Control) *ControlStatistics {
	stats := &ControlStatistics{
		TotalControls:          len(controls),
		ByCategory:             make(map[types.ControlCategory]int),
		ByImplementationStatus: make(map[types.ImplementationStatus]int),
		ByEffectiveness:        make(map[types.ControlEffectiveness]int),
	}

	for _, c := range controls {
		stats.ByCategory[c.Category]++

		status := c.ImplementationStatus
		if status == "" {
			status = types.StatusNotStarted
		}
		stats.ByImplementationStatus[status]++

		effectiveness := c.Effectiveness
		if effectiveness == "" {
			effectiveness = types.ControlEffectivenessNotAssessed
		}
		stats.ByEffectiveness[effectiveness]++

		if c.Compliance.CFRPart11Annex11 != "" {
			stats.ComplianceCoverage.CFRPart11++
		}
		if c.Compliance.HIPAASafeguard != "" {
			stats.ComplianceCoverage.HIPAA++
		}
		if c.Compliance.GDPRArticle != "" {
			stats.ComplianceCoverage.GDPR++
		}
		if c.Compliance.EUAIActArticle != "" {
			stats.ComplianceCoverage.EUAIAct++
		}
		if c.Compliance.NIST80053 != "" {
			stats.ComplianceCoverage.NIST++
		}
		if c.Compliance.SOC2TSC != "" {
			stats.ComplianceCoverage.SOC2++
		}
	}
	return stats
}

// UseCaseStatistics are aggregate counts over the AI use case portfolio.
type UseCaseStatistics struct {
	Total               int                `json:"total"`
	ByStatus            map[string]int     `json:"byStatus"`
	ByBusinessArea      map[string]int     `json:"byBusinessArea"`
	ByAICategory        map[string]int     `json:"byAiCategory"`
	TotalCostSaving     float64            `json:"totalCostSaving"`
	AverageEffortMonths float64            `json:"averageEffortMonths"`
}

// CalculateUseCaseStatistics recomputes use case statistics from scratch.
// The effort average is taken over use cases that declare an effort.
func CalculateUseCaseStatistics(useCases []*UseCase) *UseCaseStatistics {
	stats := &UseCaseStatistics{
		Total:          len(useCases),
		ByStatus:       make(map[string]int),
		ByBusinessArea: make(map[string]int),
		ByAICategory:   make(map[string]int),
	}

	totalEffort := 0.0
	effortCount := 0
	for _, u := range useCases {
		if u.Status != "" {
			stats.ByStatus[u.Status]++
		}
		if u.BusinessArea != "" {
			stats.ByBusinessArea[u.BusinessArea]++
		}
		for _, cat := range u.AICategories {
			stats.ByAICategory[cat]++
		}
		stats.TotalCostSaving += u.Impact.CostSaving
		if u.Impact.EffortMonths > 0 {
			totalEffort += u.Impact.EffortMonths
			effortCount++
		}
	}

	if effortCount > 0 {
		stats.AverageEffortMonths = totalEffort / float64(effortCount)
	}
	return stats
}
