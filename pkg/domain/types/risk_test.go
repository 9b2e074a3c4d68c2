package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskportal/pkg/domain/types"
)

func TestNewRiskID(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected types.RiskID
		wantErr  bool
	}{
		{
			name:     "simple name",
			input:    "Sensitive Information Leakage",
			expected: "RISK-SENSITIVE-INFORMATION-LEAKAGE",
		},
		{
			name:     "punctuation is stripped",
			input:    "Hallucination (Generated Content)",
			expected: "RISK-HALLUCINATION-GENERATED-CONTENT",
		},
		{
			name:     "extra whitespace collapses",
			input:    "  Model   Drift  ",
			expected: "RISK-MODEL-DRIFT",
		},
		{
			name:     "digits are kept",
			input:    "GPT4 Misuse",
			expected: "RISK-GPT4-MISUSE",
		},
		{
			name:     "lowercase is upcased",
			input:    "bias in outputs",
			expected: "RISK-BIAS-IN-OUTPUTS",
		},
		{
			name:    "empty name",
			input:   "",
			wantErr: true,
		},
		{
			name:    "punctuation only",
			input:   "!!! ???",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := types.NewRiskID(tt.input)
			if tt.wantErr {
				gt.Error(t, err)
				return
			}
			gt.NoError(t, err).Required()
			gt.Value(t, id).Equal(tt.expected)
			gt.NoError(t, id.Validate())
		})
	}
}

func TestRiskIDValidate(t *testing.T) {
	tests := []struct {
		name    string
		id      types.RiskID
		wantErr bool
	}{
		{name: "valid single segment", id: "RISK-HALLUCINATION"},
		{name: "valid multi segment", id: "RISK-SENSITIVE-INFORMATION-LEAKAGE"},
		{name: "valid with digits", id: "RISK-GPT4-MISUSE"},
		{name: "empty", id: "", wantErr: true},
		{name: "missing prefix", id: "HALLUCINATION", wantErr: true},
		{name: "lowercase segment", id: "RISK-hallucination", wantErr: true},
		{name: "trailing hyphen", id: "RISK-MODEL-", wantErr: true},
		{name: "bare prefix", id: "RISK-", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.id.Validate()
			if tt.wantErr {
				gt.Error(t, err)
			} else {
				gt.NoError(t, err)
			}
		})
	}
}

func TestRiskLevelCategoryFromScore(t *testing.T) {
	tests := []struct {
		score    int
		expected types.RiskLevelCategory
	}{
		{1, types.LevelLow},
		{5, types.LevelLow},
		{6, types.LevelMedium},
		{10, types.LevelMedium},
		{11, types.LevelHigh},
		{15, types.LevelHigh},
		{16, types.LevelCritical},
		{25, types.LevelCritical},
	}

	for _, tt := range tests {
		gt.Value(t, types.RiskLevelCategoryFromScore(tt.score)).Equal(tt.expected)
	}
}

func TestRiskCategoryValidate(t *testing.T) {
	for _, c := range types.RiskCategories() {
		gt.NoError(t, c.Validate())
	}

	gt.Error(t, types.RiskCategory("Unknown Risks").Validate())
	gt.Error(t, types.RiskCategory("").Validate())
}
