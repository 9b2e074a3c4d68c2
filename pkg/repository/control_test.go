package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskportal/pkg/domain/interfaces"
	"github.com/secmon-lab/riskportal/pkg/domain/types"
)

func runControlRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create keeps the caller-supplied mitigation ID", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Control().Create(ctx, testControl("ACC-01"))
		gt.NoError(t, err).Required()

		gt.Value(t, created.MitigationID).Equal(types.ControlID("ACC-01"))
		gt.Bool(t, created.CreatedAt.IsZero()).False()
		gt.Array(t, created.RelatedRiskIDs).Length(0)
	})

	t.Run("Create rejects duplicate IDs", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Control().Create(ctx, testControl("SEC-01"))
		gt.NoError(t, err).Required()

		_, err = repo.Control().Create(ctx, testControl("SEC-01"))
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, interfaces.ErrAlreadyExists)).True()
	})

	t.Run("List returns controls ordered by ID", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Control().Create(ctx, testControl("SEC-01"))
		gt.NoError(t, err).Required()
		_, err = repo.Control().Create(ctx, testControl("ACC-01"))
		gt.NoError(t, err).Required()

		controls, err := repo.Control().List(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, controls).Length(2)
		gt.Value(t, controls[0].MitigationID).Equal(types.ControlID("ACC-01"))
		gt.Value(t, controls[1].MitigationID).Equal(types.ControlID("SEC-01"))
	})

	t.Run("Update preserves CreatedAt and relationships", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		risk, err := repo.Risk().Create(ctx, testRisk("Overreliance"))
		gt.NoError(t, err).Required()
		created, err := repo.Control().Create(ctx, testControl("GOV-01"))
		gt.NoError(t, err).Required()
		_, err = repo.Control().SetRisks(ctx, created.MitigationID, []types.RiskID{risk.ID})
		gt.NoError(t, err).Required()

		time.Sleep(10 * time.Millisecond)

		modified := created.Clone()
		modified.ImplementationStatus = types.StatusImplemented
		modified.RelatedRiskIDs = nil

		updated, err := repo.Control().Update(ctx, modified)
		gt.NoError(t, err).Required()

		gt.Value(t, updated.ImplementationStatus).Equal(types.StatusImplemented)
		gt.Bool(t, updated.CreatedAt.Equal(created.CreatedAt)).True()
		gt.Bool(t, updated.LastUpdated.After(created.LastUpdated)).True()
		gt.Array(t, updated.RelatedRiskIDs).Length(1)
	})

	t.Run("SetRisks keeps both sides in sync", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		riskA, err := repo.Risk().Create(ctx, testRisk("Risk Alpha"))
		gt.NoError(t, err).Required()
		riskB, err := repo.Risk().Create(ctx, testRisk("Risk Bravo"))
		gt.NoError(t, err).Required()
		control, err := repo.Control().Create(ctx, testControl("LOG-01"))
		gt.NoError(t, err).Required()

		updated, err := repo.Control().SetRisks(ctx, control.MitigationID, []types.RiskID{riskA.ID, riskB.ID})
		gt.NoError(t, err).Required()
		gt.Array(t, updated.RelatedRiskIDs).Length(2)

		for _, rid := range []types.RiskID{riskA.ID, riskB.ID} {
			r, err := repo.Risk().Get(ctx, rid)
			gt.NoError(t, err).Required()
			gt.Array(t, r.RelatedControlIDs).Length(1)
			gt.Value(t, r.RelatedControlIDs[0]).Equal(control.MitigationID)
		}

		updated, err = repo.Control().SetRisks(ctx, control.MitigationID, []types.RiskID{riskB.ID})
		gt.NoError(t, err).Required()
		gt.Array(t, updated.RelatedRiskIDs).Length(1)

		dropped, err := repo.Risk().Get(ctx, riskA.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, dropped.RelatedControlIDs).Length(0)
	})

	t.Run("SetRisks rejects unknown risks", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		control, err := repo.Control().Create(ctx, testControl("TEST-01"))
		gt.NoError(t, err).Required()

		_, err = repo.Control().SetRisks(ctx, control.MitigationID, []types.RiskID{"RISK-UNKNOWN"})
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, interfaces.ErrNotFound)).True()
	})

	t.Run("Delete detaches the control from risks", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		risk, err := repo.Risk().Create(ctx, testRisk("Training Data Poisoning"))
		gt.NoError(t, err).Required()
		control, err := repo.Control().Create(ctx, testControl("SEC-05"))
		gt.NoError(t, err).Required()
		_, err = repo.Risk().SetControls(ctx, risk.ID, []types.ControlID{control.MitigationID})
		gt.NoError(t, err).Required()

		gt.NoError(t, repo.Control().Delete(ctx, control.MitigationID)).Required()

		_, err = repo.Control().Get(ctx, control.MitigationID)
		gt.Bool(t, errors.Is(err, interfaces.ErrNotFound)).True()

		detached, err := repo.Risk().Get(ctx, risk.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, detached.RelatedControlIDs).Length(0)
	})
}

func TestMemoryControlRepository(t *testing.T) {
	runControlRepositoryTest(t, newMemoryRepository)
}

func TestFirestoreControlRepository(t *testing.T) {
	runControlRepositoryTest(t, newFirestoreRepository)
}
