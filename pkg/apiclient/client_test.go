package apiclient_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskportal/pkg/apiclient"
	httpctrl "github.com/secmon-lab/riskportal/pkg/controller/http"
	"github.com/secmon-lab/riskportal/pkg/domain/model"
	"github.com/secmon-lab/riskportal/pkg/domain/types"
	"github.com/secmon-lab/riskportal/pkg/repository/memory"
	"github.com/secmon-lab/riskportal/pkg/usecase"
)

func newTestClient(t *testing.T) *apiclient.Client {
	t.Helper()

	uc := usecase.New(memory.New(), usecase.WithTaxonomy(model.DefaultTaxonomy()))
	server, err := httpctrl.New(uc)
	gt.NoError(t, err).Required()

	ts := httptest.NewServer(server)
	t.Cleanup(ts.Close)

	return apiclient.New(ts.URL, apiclient.WithHTTPClient(ts.Client()))
}

func clientRiskInput() *model.RiskInput {
	return &model.RiskInput{
		Risk:            "Unauthorized Data Access",
		RiskCategory:    types.CategorySecurityData,
		RiskDescription: "Model reveals records outside the caller's scope",
		InitialScoring:  model.ScoringInput{Likelihood: 3, Impact: 5},
		ResidualScoring: model.ScoringInput{Likelihood: 1, Impact: 3},
	}
}

func TestClientRiskRoundTrip(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	created, err := client.CreateRisk(ctx, clientRiskInput())
	gt.NoError(t, err).Required()
	gt.Value(t, created.ID).Equal(types.RiskID("RISK-UNAUTHORIZED-DATA-ACCESS"))
	gt.Value(t, created.InitialScoring.RiskLevel).Equal(15)

	fetched, err := client.GetRisk(ctx, created.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, fetched.Risk).Equal(created.Risk)

	notes := "reviewed by security"
	updated, err := client.UpdateRisk(ctx, created.ID, &model.RiskUpdateInput{Notes: &notes})
	gt.NoError(t, err).Required()
	gt.Value(t, updated.Notes).Equal(notes)

	risks, err := client.ListRisks(ctx)
	gt.NoError(t, err).Required()
	gt.Array(t, risks).Length(1)

	stats, err := client.RiskStatistics(ctx)
	gt.NoError(t, err).Required()
	gt.Value(t, stats.TotalRisks).Equal(1)

	gt.NoError(t, client.DeleteRisk(ctx, created.ID)).Required()

	_, err = client.GetRisk(ctx, created.ID)
	gt.Error(t, err)
}

func TestClientRelationships(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	risk, err := client.CreateRisk(ctx, clientRiskInput())
	gt.NoError(t, err).Required()

	control, err := client.CreateControl(ctx, &model.ControlInput{
		MitigationID:          "ACC-01",
		MitigationDescription: "Scoped retrieval with access checks",
		Category:              types.ControlCategoryAccuracy,
	})
	gt.NoError(t, err).Required()
	gt.Value(t, control.ImplementationStatus).Equal(types.StatusNotStarted)

	linked, err := client.SetRiskControls(ctx, risk.ID, []types.ControlID{control.MitigationID})
	gt.NoError(t, err).Required()
	gt.Array(t, linked.RelatedControlIDs).Length(1)

	inverse, err := client.GetControl(ctx, control.MitigationID)
	gt.NoError(t, err).Required()
	gt.Array(t, inverse.RelatedRiskIDs).Length(1)
	gt.Value(t, inverse.RelatedRiskIDs[0]).Equal(risk.ID)

	useCase, err := client.CreateUseCase(ctx, &model.UseCaseInput{Title: "Support Ticket Triage"})
	gt.NoError(t, err).Required()
	gt.Value(t, useCase.ID).Equal(types.UseCaseID("UC-001"))

	associated, err := client.AssociateUseCaseRisks(ctx, useCase.ID, []types.RiskID{risk.ID})
	gt.NoError(t, err).Required()
	gt.Value(t, associated.RiskCount).Equal(1)
}

func TestClientErrorMessages(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	t.Run("validation details are joined into the message", func(t *testing.T) {
		_, err := client.CreateRisk(ctx, &model.RiskInput{})
		gt.Error(t, err)
		gt.Bool(t, strings.Contains(err.Error(), "validation failed")).True()
		gt.Bool(t, strings.Contains(err.Error(), "Risk name is required")).True()
	})

	t.Run("not found is surfaced", func(t *testing.T) {
		_, err := client.GetRisk(ctx, "RISK-MISSING")
		gt.Error(t, err)
	})
}

func TestClientTaxonomy(t *testing.T) {
	client := newTestClient(t)

	taxonomy, err := client.Taxonomy(context.Background())
	gt.NoError(t, err).Required()
	gt.Bool(t, taxonomy.HasOwner("Legal")).True()
}
