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

func TestCreateUseCase(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns ID and defaults status to Concept", func(t *testing.T) {
		uc := usecase.New(memory.New())

		created, err := uc.UseCase.CreateUseCase(ctx, &model.UseCaseInput{
			Title: "Automated Literature Review",
		})
		gt.NoError(t, err).Required()

		gt.Value(t, created.ID).Equal(types.UseCaseID("UC-001"))
		gt.Value(t, created.Status).Equal("Concept")
	})

	t.Run("requires a title", func(t *testing.T) {
		uc := usecase.New(memory.New())

		_, err := uc.UseCase.CreateUseCase(ctx, &model.UseCaseInput{})
		gt.Error(t, err)

		var vErr *model.ValidationError
		gt.Bool(t, errors.As(err, &vErr)).True()
	})

	t.Run("validates vocabulary against the taxonomy", func(t *testing.T) {
		uc := usecase.New(memory.New(), usecase.WithTaxonomy(model.DefaultTaxonomy()))

		_, err := uc.UseCase.CreateUseCase(ctx, &model.UseCaseInput{
			Title:        "Sales Forecasting",
			BusinessArea: "Astrology",
		})
		gt.Error(t, err)

		var vErr *model.ValidationError
		gt.Bool(t, errors.As(err, &vErr)).True()

		_, err = uc.UseCase.CreateUseCase(ctx, &model.UseCaseInput{
			Title:        "Sales Forecasting",
			BusinessArea: "Finance",
			AICategories: []string{"Predictive Analytics"},
			Status:       "Under Review",
		})
		gt.NoError(t, err)
	})
}

func TestUpdateUseCase(t *testing.T) {
	ctx := context.Background()

	t.Run("applies partial update", func(t *testing.T) {
		uc := usecase.New(memory.New())
		created, err := uc.UseCase.CreateUseCase(ctx, &model.UseCaseInput{Title: "Invoice Matching"})
		gt.NoError(t, err).Required()

		status := "Pilot"
		updated, err := uc.UseCase.UpdateUseCase(ctx, created.ID, &model.UseCaseUpdateInput{
			Status: &status,
		})
		gt.NoError(t, err).Required()
		gt.Value(t, updated.Status).Equal("Pilot")
		gt.Value(t, updated.Title).Equal(created.Title)
	})

	t.Run("rejects stale LastUpdated with ErrConflict", func(t *testing.T) {
		uc := usecase.New(memory.New())
		created, err := uc.UseCase.CreateUseCase(ctx, &model.UseCaseInput{Title: "Contract Review"})
		gt.NoError(t, err).Required()

		stale := created.LastUpdated.Add(-time.Second)
		title := "Contract Review v2"
		_, err = uc.UseCase.UpdateUseCase(ctx, created.ID, &model.UseCaseUpdateInput{
			Title:       &title,
			LastUpdated: &stale,
		})
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, usecase.ErrConflict)).True()
	})
}

func TestAssociateRisks(t *testing.T) {
	ctx := context.Background()
	uc := usecase.New(memory.New())

	risk, err := uc.Risk.CreateRisk(ctx, validRiskInput())
	gt.NoError(t, err).Required()
	created, err := uc.UseCase.CreateUseCase(ctx, &model.UseCaseInput{Title: "Chat Assistant"})
	gt.NoError(t, err).Required()

	updated, err := uc.UseCase.AssociateRisks(ctx, created.ID, []types.RiskID{risk.ID, risk.ID})
	gt.NoError(t, err).Required()
	gt.Array(t, updated.RelatedRiskIDs).Length(1)
	gt.Value(t, updated.RiskCount).Equal(1)

	_, err = uc.UseCase.AssociateRisks(ctx, created.ID, []types.RiskID{"RISK-UNKNOWN"})
	gt.Error(t, err)
	gt.Bool(t, errors.Is(err, interfaces.ErrNotFound)).True()
}

func TestUseCaseStatisticsUseCase(t *testing.T) {
	ctx := context.Background()
	uc := usecase.New(memory.New())

	_, err := uc.UseCase.CreateUseCase(ctx, &model.UseCaseInput{
		Title:  "Document Summarization",
		Status: "Pilot",
		Impact: model.UseCaseImpact{CostSaving: 50000},
	})
	gt.NoError(t, err).Required()

	stats, err := uc.UseCase.UseCaseStatistics(ctx)
	gt.NoError(t, err).Required()
	gt.Value(t, stats.Total).Equal(1)
	gt.Value(t, stats.ByStatus["Pilot"]).Equal(1)
	gt.Value(t, stats.TotalCostSaving).Equal(50000.0)
}

func TestTaxonomyAccessor(t *testing.T) {
	uc := usecase.New(memory.New())
	gt.Value(t, uc.Taxonomy()).NotNil()
	gt.Bool(t, uc.Taxonomy().HasOwner("Legal")).True()

	custom := &model.Taxonomy{Owners: []string{"Only Owner"}}
	uc = usecase.New(memory.New(), usecase.WithTaxonomy(custom))
	gt.Bool(t, uc.Taxonomy().HasOwner("Only Owner")).True()
	gt.Bool(t, uc.Taxonomy().HasOwner("Legal")).False()
}
