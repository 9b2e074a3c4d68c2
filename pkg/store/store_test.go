package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskportal/pkg/domain/model"
	"github.com/secmon-lab/riskportal/pkg/domain/types"
	"github.com/secmon-lab/riskportal/pkg/repository/memory"
	"github.com/secmon-lab/riskportal/pkg/store"
	"github.com/secmon-lab/riskportal/pkg/usecase"
)

// localAPI adapts the server-side use case layer to the store API so
// the stores can be exercised without a network round trip.
type localAPI struct {
	uc *usecase.UseCases

	listRisksErr    error
	createRiskCalls int
}

func (a *localAPI) ListRisks(ctx context.Context) ([]*model.Risk, error) {
	if a.listRisksErr != nil {
		return nil, a.listRisksErr
	}
	return a.uc.Risk.ListRisks(ctx)
}

func (a *localAPI) CreateRisk(ctx context.Context, input *model.RiskInput) (*model.Risk, error) {
	a.createRiskCalls++
	return a.uc.Risk.CreateRisk(ctx, input)
}

func (a *localAPI) UpdateRisk(ctx context.Context, id types.RiskID, input *model.RiskUpdateInput) (*model.Risk, error) {
	return a.uc.Risk.UpdateRisk(ctx, id, input)
}

func (a *localAPI) DeleteRisk(ctx context.Context, id types.RiskID) error {
	return a.uc.Risk.DeleteRisk(ctx, id)
}

func (a *localAPI) SetRiskControls(ctx context.Context, id types.RiskID, controlIDs []types.ControlID) (*model.Risk, error) {
	return a.uc.Risk.SetRiskControls(ctx, id, controlIDs)
}

func (a *localAPI) RiskStatistics(ctx context.Context) (*model.RiskStatistics, error) {
	return a.uc.Risk.RiskStatistics(ctx)
}

func (a *localAPI) ListControls(ctx context.Context) ([]*model.Control, error) {
	return a.uc.Control.ListControls(ctx)
}

func (a *localAPI) CreateControl(ctx context.Context, input *model.ControlInput) (*model.Control, error) {
	return a.uc.Control.CreateControl(ctx, input)
}

func (a *localAPI) UpdateControl(ctx context.Context, id types.ControlID, input *model.ControlUpdateInput) (*model.Control, error) {
	return a.uc.Control.UpdateControl(ctx, id, input)
}

func (a *localAPI) DeleteControl(ctx context.Context, id types.ControlID) error {
	return a.uc.Control.DeleteControl(ctx, id)
}

func (a *localAPI) SetControlRisks(ctx context.Context, id types.ControlID, riskIDs []types.RiskID) (*model.Control, error) {
	return a.uc.Control.SetControlRisks(ctx, id, riskIDs)
}

func (a *localAPI) ControlStatistics(ctx context.Context) (*model.ControlStatistics, error) {
	return a.uc.Control.ControlStatistics(ctx)
}

func (a *localAPI) ListUseCases(ctx context.Context) ([]*model.UseCase, error) {
	return a.uc.UseCase.ListUseCases(ctx)
}

func (a *localAPI) CreateUseCase(ctx context.Context, input *model.UseCaseInput) (*model.UseCase, error) {
	return a.uc.UseCase.CreateUseCase(ctx, input)
}

func (a *localAPI) UpdateUseCase(ctx context.Context, id types.UseCaseID, input *model.UseCaseUpdateInput) (*model.UseCase, error) {
	return a.uc.UseCase.UpdateUseCase(ctx, id, input)
}

func (a *localAPI) DeleteUseCase(ctx context.Context, id types.UseCaseID) error {
	return a.uc.UseCase.DeleteUseCase(ctx, id)
}

func (a *localAPI) AssociateUseCaseRisks(ctx context.Context, id types.UseCaseID, riskIDs []types.RiskID) (*model.UseCase, error) {
	return a.uc.UseCase.AssociateRisks(ctx, id, riskIDs)
}

func (a *localAPI) UseCaseStatistics(ctx context.Context) (*model.UseCaseStatistics, error) {
	return a.uc.UseCase.UseCaseStatistics(ctx)
}

func newTestStores(t *testing.T) (*store.Stores, *localAPI) {
	t.Helper()

	api := &localAPI{uc: usecase.New(memory.New())}
	return store.New(api), api
}

func storeRiskInput(name string) *model.RiskInput {
	return &model.RiskInput{
		Risk:            name,
		RiskCategory:    types.CategorySecurityData,
		RiskDescription: "description of " + name,
		InitialScoring:  model.ScoringInput{Likelihood: 4, Impact: 4},
		ResidualScoring: model.ScoringInput{Likelihood: 2, Impact: 2},
	}
}

func TestLoadAll(t *testing.T) {
	stores, api := newTestStores(t)
	ctx := context.Background()

	_, err := api.uc.Risk.CreateRisk(ctx, storeRiskInput("Prompt Injection"))
	gt.NoError(t, err).Required()
	_, err = api.uc.Control.CreateControl(ctx, &model.ControlInput{
		MitigationID:          "SEC-01",
		MitigationDescription: "Input sanitization",
		Category:              types.ControlCategorySecurity,
	})
	gt.NoError(t, err).Required()
	_, err = api.uc.UseCase.CreateUseCase(ctx, &model.UseCaseInput{Title: "Chat Assistant"})
	gt.NoError(t, err).Required()

	gt.NoError(t, stores.LoadAll(ctx)).Required()

	gt.Array(t, stores.Risks.Risks()).Length(1)
	gt.Array(t, stores.Controls.Controls()).Length(1)
	gt.Array(t, stores.UseCases.UseCases()).Length(1)
	gt.Bool(t, stores.Risks.IsLoading()).False()
}

func TestLoadAbsorbsErrors(t *testing.T) {
	stores, api := newTestStores(t)
	ctx := context.Background()

	_, err := api.uc.Risk.CreateRisk(ctx, storeRiskInput("Model Drift"))
	gt.NoError(t, err).Required()

	stores.Risks.Load(ctx)
	gt.NoError(t, stores.Risks.Error())
	gt.Array(t, stores.Risks.Risks()).Length(1)

	// A failed reload keeps the previously loaded list
	api.listRisksErr = errors.New("backend unavailable")
	stores.Risks.Load(ctx)
	gt.Error(t, stores.Risks.Error())
	gt.Array(t, stores.Risks.Risks()).Length(1)
	gt.Bool(t, stores.Risks.IsLoading()).False()

	// A successful reload clears the stored error
	api.listRisksErr = nil
	stores.Risks.Load(ctx)
	gt.NoError(t, stores.Risks.Error())
}

func TestRiskStoreViews(t *testing.T) {
	stores, api := newTestStores(t)
	ctx := context.Background()

	_, err := api.uc.Risk.CreateRisk(ctx, storeRiskInput("Alpha Leak"))
	gt.NoError(t, err).Required()
	behavioral := storeRiskInput("Zeta Bias")
	behavioral.RiskCategory = types.CategoryBehavioral
	_, err = api.uc.Risk.CreateRisk(ctx, behavioral)
	gt.NoError(t, err).Required()

	stores.Risks.Load(ctx)

	t.Run("filter narrows the view without touching the list", func(t *testing.T) {
		stores.Risks.SetFilter(&model.RiskFilter{
			Categories: []types.RiskCategory{types.CategoryBehavioral},
		})
		gt.Array(t, stores.Risks.Filtered()).Length(1)
		gt.Array(t, stores.Risks.Risks()).Length(2)
	})

	t.Run("search combines with the filter", func(t *testing.T) {
		stores.Risks.SetSearchTerm("alpha")
		gt.Array(t, stores.Risks.Filtered()).Length(0)

		stores.Risks.ClearFilters()
		gt.Array(t, stores.Risks.Filtered()).Length(2)
	})

	t.Run("sort shapes the view", func(t *testing.T) {
		stores.Risks.SetSort(&model.RiskSort{
			Field:     types.RiskSortByName,
			Direction: types.SortDescending,
		})
		got := stores.Risks.Filtered()
		gt.Value(t, got[0].Risk).Equal("Zeta Bias")
	})

	t.Run("local statistics reflect the loaded list", func(t *testing.T) {
		stats := stores.Risks.Statistics()
		gt.Value(t, stats.TotalRisks).Equal(2)
	})
}

func TestSelectionClearedOnDelete(t *testing.T) {
	stores, api := newTestStores(t)
	ctx := context.Background()

	created, err := api.uc.Risk.CreateRisk(ctx, storeRiskInput("Ephemeral"))
	gt.NoError(t, err).Required()
	stores.Risks.Load(ctx)

	stores.Risks.Select(created.ID)
	gt.Value(t, stores.Risks.Selected()).NotNil()

	gt.NoError(t, stores.Risks.Delete(ctx, created.ID)).Required()
	gt.Value(t, stores.Risks.Selected()).Nil()
	gt.Array(t, stores.Risks.Risks()).Length(0)
}

func TestRelationshipMirroring(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T) (*store.Stores, *localAPI, types.RiskID) {
		stores, api := newTestStores(t)
		risk, err := api.uc.Risk.CreateRisk(ctx, storeRiskInput("Data Leakage"))
		gt.NoError(t, err).Required()
		_, err = api.uc.Control.CreateControl(ctx, &model.ControlInput{
			MitigationID:          "SEC-01",
			MitigationDescription: "Output filtering",
			Category:              types.ControlCategorySecurity,
		})
		gt.NoError(t, err).Required()
		gt.NoError(t, stores.LoadAll(ctx)).Required()
		return stores, api, risk.ID
	}

	t.Run("risk-side edit patches the control store", func(t *testing.T) {
		stores, _, riskID := seed(t)

		_, err := stores.Risks.SetControls(ctx, riskID, []types.ControlID{"SEC-01"})
		gt.NoError(t, err).Required()

		control := stores.Controls.Get("SEC-01")
		gt.Value(t, control).NotNil()
		gt.Array(t, control.RelatedRiskIDs).Length(1)
		gt.Value(t, control.RelatedRiskIDs[0]).Equal(riskID)
	})

	t.Run("control-side edit patches the risk store", func(t *testing.T) {
		stores, _, riskID := seed(t)

		_, err := stores.Controls.SetRisks(ctx, "SEC-01", []types.RiskID{riskID})
		gt.NoError(t, err).Required()

		risk := stores.Risks.Get(riskID)
		gt.Value(t, risk).NotNil()
		gt.Array(t, risk.RelatedControlIDs).Length(1)
		gt.Value(t, risk.RelatedControlIDs[0]).Equal(types.ControlID("SEC-01"))
	})

	t.Run("clearing the set detaches the inverse side", func(t *testing.T) {
		stores, _, riskID := seed(t)

		_, err := stores.Risks.SetControls(ctx, riskID, []types.ControlID{"SEC-01"})
		gt.NoError(t, err).Required()
		_, err = stores.Risks.SetControls(ctx, riskID, nil)
		gt.NoError(t, err).Required()

		control := stores.Controls.Get("SEC-01")
		gt.Array(t, control.RelatedRiskIDs).Length(0)
	})

	t.Run("risk deletion detaches controls and use cases", func(t *testing.T) {
		stores, api, riskID := seed(t)

		useCase, err := api.uc.UseCase.CreateUseCase(ctx, &model.UseCaseInput{Title: "Chat Assistant"})
		gt.NoError(t, err).Required()
		_, err = api.uc.UseCase.AssociateRisks(ctx, useCase.ID, []types.RiskID{riskID})
		gt.NoError(t, err).Required()
		gt.NoError(t, stores.LoadAll(ctx)).Required()

		_, err = stores.Risks.SetControls(ctx, riskID, []types.ControlID{"SEC-01"})
		gt.NoError(t, err).Required()

		gt.NoError(t, stores.Risks.Delete(ctx, riskID)).Required()

		control := stores.Controls.Get("SEC-01")
		gt.Array(t, control.RelatedRiskIDs).Length(0)

		uc := stores.UseCases.Get(useCase.ID)
		gt.Value(t, uc).NotNil()
		gt.Array(t, uc.RelatedRiskIDs).Length(0)
		gt.Value(t, uc.RiskCount).Equal(0)
	})

	t.Run("control deletion detaches risks", func(t *testing.T) {
		stores, _, riskID := seed(t)

		_, err := stores.Risks.SetControls(ctx, riskID, []types.ControlID{"SEC-01"})
		gt.NoError(t, err).Required()

		gt.NoError(t, stores.Controls.Delete(ctx, "SEC-01")).Required()

		risk := stores.Risks.Get(riskID)
		gt.Array(t, risk.RelatedControlIDs).Length(0)
	})
}

func TestSubscribe(t *testing.T) {
	stores, _ := newTestStores(t)
	ctx := context.Background()

	var calls int
	unsubscribe := stores.Risks.Subscribe(func() { calls++ })

	_, err := stores.Risks.Create(ctx, storeRiskInput("Observed"))
	gt.NoError(t, err).Required()
	gt.Bool(t, calls > 0).True()

	before := calls
	unsubscribe()
	stores.Risks.SetSearchTerm("anything")
	gt.Value(t, calls).Equal(before)
}

func TestWriteErrorsAreStoredAndReturned(t *testing.T) {
	stores, api := newTestStores(t)
	ctx := context.Background()

	// Invalid input is rejected locally, before any API call
	_, err := stores.Risks.Create(ctx, &model.RiskInput{})
	gt.Error(t, err)
	gt.Error(t, stores.Risks.Error())
	gt.Value(t, api.createRiskCalls).Equal(0)

	// The next successful write clears the stored error
	_, err = stores.Risks.Create(ctx, storeRiskInput("Recovered"))
	gt.NoError(t, err).Required()
	gt.NoError(t, stores.Risks.Error())
	gt.Value(t, api.createRiskCalls).Equal(1)
}
