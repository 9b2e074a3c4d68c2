package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskportal/pkg/domain/interfaces"
	"github.com/secmon-lab/riskportal/pkg/domain/model"
	"github.com/secmon-lab/riskportal/pkg/domain/types"
	"github.com/secmon-lab/riskportal/pkg/repository/memory"
	"github.com/secmon-lab/riskportal/pkg/usecase"
)

func validControlInput(id types.ControlID) *model.ControlInput {
	return &model.ControlInput{
		MitigationID:          id,
		MitigationDescription: "Human review of generated content",
		Category:              types.ControlCategoryAccuracy,
	}
}

func TestCreateControl(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults status and effectiveness", func(t *testing.T) {
		uc := usecase.New(memory.New())

		created, err := uc.Control.CreateControl(ctx, validControlInput("ACC-01"))
		gt.NoError(t, err).Required()

		gt.Value(t, created.ImplementationStatus).Equal(types.StatusNotStarted)
		gt.Value(t, created.Effectiveness).Equal(types.ControlEffectivenessNotAssessed)
	})

	t.Run("keeps explicit status and effectiveness", func(t *testing.T) {
		uc := usecase.New(memory.New())

		input := validControlInput("ACC-02")
		input.ImplementationStatus = types.StatusImplemented
		input.Effectiveness = types.ControlEffectivenessHigh

		created, err := uc.Control.CreateControl(ctx, input)
		gt.NoError(t, err).Required()

		gt.Value(t, created.ImplementationStatus).Equal(types.StatusImplemented)
		gt.Value(t, created.Effectiveness).Equal(types.ControlEffectivenessHigh)
	})

	t.Run("rejects malformed IDs", func(t *testing.T) {
		uc := usecase.New(memory.New())

		_, err := uc.Control.CreateControl(ctx, validControlInput("WRONG-1"))
		gt.Error(t, err)

		var vErr *model.ValidationError
		gt.Bool(t, errors.As(err, &vErr)).True()
	})

	t.Run("surfaces duplicate IDs", func(t *testing.T) {
		uc := usecase.New(memory.New())

		_, err := uc.Control.CreateControl(ctx, validControlInput("GOV-01"))
		gt.NoError(t, err).Required()

		_, err = uc.Control.CreateControl(ctx, validControlInput("GOV-01"))
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, interfaces.ErrAlreadyExists)).True()
	})
}

func TestUpdateControl(t *testing.T) {
	ctx := context.Background()

	t.Run("applies partial update", func(t *testing.T) {
		uc := usecase.New(memory.New())
		created, err := uc.Control.CreateControl(ctx, validControlInput("LOG-01"))
		gt.NoError(t, err).Required()

		status := types.StatusInProgress
		updated, err := uc.Control.UpdateControl(ctx, created.MitigationID, &model.ControlUpdateInput{
			ImplementationStatus: &status,
		})
		gt.NoError(t, err).Required()

		gt.Value(t, updated.ImplementationStatus).Equal(types.StatusInProgress)
		gt.Value(t, updated.MitigationDescription).Equal(created.MitigationDescription)
	})

	t.Run("rejects stale LastUpdated with ErrConflict", func(t *testing.T) {
		uc := usecase.New(memory.New())
		created, err := uc.Control.CreateControl(ctx, validControlInput("LOG-02"))
		gt.NoError(t, err).Required()

		stale := created.LastUpdated.Add(-time.Second)
		notes := "late"
		_, err = uc.Control.UpdateControl(ctx, created.MitigationID, &model.ControlUpdateInput{
			ImplementationNotes: &notes,
			LastUpdated:         &stale,
		})
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, usecase.ErrConflict)).True()
	})
}

func TestSetControlRisks(t *testing.T) {
	ctx := context.Background()
	uc := usecase.New(memory.New())

	risk, err := uc.Risk.CreateRisk(ctx, validRiskInput())
	gt.NoError(t, err).Required()
	control, err := uc.Control.CreateControl(ctx, validControlInput("SEC-09"))
	gt.NoError(t, err).Required()

	updated, err := uc.Control.SetControlRisks(ctx, control.MitigationID, []types.RiskID{risk.ID, risk.ID})
	gt.NoError(t, err).Required()
	gt.Array(t, updated.RelatedRiskIDs).Length(1)

	linked, err := uc.Risk.GetRisk(ctx, risk.ID)
	gt.NoError(t, err).Required()
	gt.Array(t, linked.RelatedControlIDs).Length(1)
	gt.Value(t, linked.RelatedControlIDs[0]).Equal(control.MitigationID)
}

func TestControlStatisticsUseCase(t *testing.T) {
	ctx := context.Background()
	uc := usecase.New(memory.New())

	input := validControlInput("ACC-03")
	input.ImplementationStatus = types.StatusImplemented
	_, err := uc.Control.CreateControl(ctx, input)
	gt.NoError(t, err).Required()

	stats, err := uc.Control.ControlStatistics(ctx)
	gt.NoError(t, err).Required()
	gt.Value(t, stats.TotalControls).Equal(1)
	gt.Value(t, stats.ByImplementationStatus[types.StatusImplemented]).Equal(1)
}
