package model_test

import (
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskportal/pkg/domain/model"
	"github.com/secmon-lab/riskportal/pkg/domain/types"
)

func TestRiskInputValidate(t *testing.T) {
	valid := func() *model.RiskInput {
		return &model.RiskInput{
			Risk:            "Prompt Injection",
			RiskCategory:    types.CategorySecurityData,
			RiskDescription: "Untrusted input steers the model",
			InitialScoring:  model.ScoringInput{Likelihood: 4, Impact: 4},
			ResidualScoring: model.ScoringInput{Likelihood: 2, Impact: 3},
		}
	}

	t.Run("valid input", func(t *testing.T) {
		gt.NoError(t, valid().Validate())
	})

	t.Run("collects every failure", func(t *testing.T) {
		in := &model.RiskInput{}
		err := in.Validate()
		gt.Error(t, err)

		var vErr *model.ValidationError
		gt.Bool(t, errors.As(err, &vErr)).True()
		// name, category, description, initial scoring, residual scoring
		gt.Array(t, vErr.Messages).Length(5)
	})

	t.Run("unknown category", func(t *testing.T) {
		in := valid()
		in.RiskCategory = "Made Up Risks"
		err := in.Validate()

		var vErr *model.ValidationError
		gt.Bool(t, errors.As(err, &vErr)).True()
		gt.Array(t, vErr.Messages).Length(1)
	})

	t.Run("out of range scoring", func(t *testing.T) {
		in := valid()
		in.InitialScoring.Likelihood = 6
		gt.Error(t, in.Validate())

		in = valid()
		in.ResidualScoring.Impact = 0
		gt.Error(t, in.Validate())
	})
}

func TestRiskUpdateInputApply(t *testing.T) {
	risk := newTestRisk("PROMPT-INJECTION", types.CategorySecurityData,
		model.Scoring{Likelihood: 4, Impact: 4}, model.Scoring{Likelihood: 3, Impact: 3})
	risk.Recompute()

	newName := "Prompt Injection (revised)"
	newScoring := model.ScoringInput{Likelihood: 1, Impact: 2}
	in := &model.RiskUpdateInput{
		Risk:            &newName,
		ResidualScoring: &newScoring,
	}
	gt.NoError(t, in.Validate())

	in.Apply(risk)

	gt.Value(t, risk.Risk).Equal(newName)
	// untouched fields survive
	gt.Value(t, risk.RiskCategory).Equal(types.CategorySecurityData)
	gt.Value(t, risk.InitialScoring.RiskLevel).Equal(16)
	// derived fields follow the new residual scoring
	gt.Value(t, risk.ResidualScoring.RiskLevel).Equal(2)
	gt.Value(t, risk.ResidualScoring.RiskLevelCategory).Equal(types.LevelLow)
	gt.Value(t, risk.RiskReduction).Equal(14)
}

func TestRiskUpdateInputValidate(t *testing.T) {
	empty := ""
	in := &model.RiskUpdateInput{Risk: &empty}
	gt.Error(t, in.Validate())

	badScoring := model.ScoringInput{Likelihood: 9, Impact: 1}
	in = &model.RiskUpdateInput{InitialScoring: &badScoring}
	gt.Error(t, in.Validate())

	now := time.Now()
	in = &model.RiskUpdateInput{LastUpdated: &now}
	gt.NoError(t, in.Validate())
}

func TestRiskClone(t *testing.T) {
	risk := newTestRisk("CLONE", types.CategoryOther,
		model.Scoring{Likelihood: 2, Impact: 2}, model.Scoring{Likelihood: 1, Impact: 1})
	risk.RelatedControlIDs = []types.ControlID{"ACC-01"}
	risk.ProposedOversightOwnership = []string{"Legal"}

	clone := risk.Clone()
	clone.RelatedControlIDs[0] = "SEC-99"
	clone.ProposedOversightOwnership[0] = "Finance"

	gt.Value(t, risk.RelatedControlIDs[0]).Equal(types.ControlID("ACC-01"))
	gt.Value(t, risk.ProposedOversightOwnership[0]).Equal("Legal")
}

func TestControlInputValidate(t *testing.T) {
	valid := func() *model.ControlInput {
		return &model.ControlInput{
			MitigationID:          "ACC-01",
			MitigationDescription: "Human review of model outputs",
			Category:              types.ControlCategoryAccuracy,
		}
	}

	t.Run("valid minimal input", func(t *testing.T) {
		gt.NoError(t, valid().Validate())
	})

	t.Run("bad ID pattern", func(t *testing.T) {
		in := valid()
		in.MitigationID = "ACCOUNT-1"
		gt.Error(t, in.Validate())
	})

	t.Run("compliance score bounds", func(t *testing.T) {
		in := valid()
		score := 1.5
		in.ComplianceScore = &score
		gt.Error(t, in.Validate())

		score = 0.8
		gt.NoError(t, in.Validate())
	})

	t.Run("optional enums validated when set", func(t *testing.T) {
		in := valid()
		in.ImplementationStatus = "Done"
		gt.Error(t, in.Validate())

		in = valid()
		in.Effectiveness = types.ControlEffectivenessMedium
		gt.NoError(t, in.Validate())
	})
}

func TestUseCaseInputValidate(t *testing.T) {
	t.Run("title required", func(t *testing.T) {
		gt.Error(t, (&model.UseCaseInput{}).Validate())
		gt.NoError(t, (&model.UseCaseInput{Title: "Document Triage"}).Validate())
	})

	t.Run("execution levels validated when set", func(t *testing.T) {
		in := &model.UseCaseInput{
			Title:     "Document Triage",
			Execution: model.UseCaseExecution{Feasibility: "Extreme"},
		}
		gt.Error(t, in.Validate())

		in.Execution.Feasibility = types.MaturityHigh
		gt.NoError(t, in.Validate())
	})
}
