package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskportal/pkg/domain/interfaces"
	"github.com/secmon-lab/riskportal/pkg/domain/model"
	"github.com/secmon-lab/riskportal/pkg/domain/types"
)

type ControlUseCase struct {
	repo interfaces.Repository
}

func NewControlUseCase(repo interfaces.Repository) *ControlUseCase {
	return &ControlUseCase{
		repo: repo,
	}
}

func (uc *ControlUseCase) CreateControl(ctx context.Context, input *model.ControlInput) (*model.Control, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	control := &model.Control{
		MitigationID:          input.MitigationID,
		MitigationDescription: input.MitigationDescription,
		Category:              input.Category,
		Compliance:            input.Compliance,
		ImplementationStatus:  input.ImplementationStatus,
		ImplementationNotes:   input.ImplementationNotes,
		Effectiveness:         input.Effectiveness,
		ComplianceScore:       input.ComplianceScore,
	}
	if control.ImplementationStatus == "" {
		control.ImplementationStatus = types.StatusNotStarted
	}
	if control.Effectiveness == "" {
		control.Effectiveness = types.ControlEffectivenessNotAssessed
	}

	created, err := uc.repo.Control().Create(ctx, control)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create control")
	}

	return created, nil
}

func (uc *ControlUseCase) GetControl(ctx context.Context, id types.ControlID) (*model.Control, error) {
	control, err := uc.repo.Control().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get control")
	}

	return control, nil
}

func (uc *ControlUseCase) ListControls(ctx context.Context) ([]*model.Control, error) {
	controls, err := uc.repo.Control().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list controls")
	}

	return controls, nil
}

func (uc *ControlUseCase) UpdateControl(ctx context.Context, id types.ControlID, input *model.ControlUpdateInput) (*model.Control, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	existing, err := uc.repo.Control().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get control")
	}

	if input.LastUpdated != nil && !input.LastUpdated.Equal(existing.LastUpdated) {
		return nil, goerr.Wrap(ErrConflict, "control was updated concurrently",
			goerr.V("id", id),
			goerr.V("expected", *input.LastUpdated),
			goerr.V("actual", existing.LastUpdated))
	}

	input.Apply(existing)

	updated, err := uc.repo.Control().Update(ctx, existing)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update control")
	}

	return updated, nil
}

func (uc *ControlUseCase) DeleteControl(ctx context.Context, id types.ControlID) error {
	if err := uc.repo.Control().Delete(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete control")
	}

	return nil
}

// SetControlRisks replaces the risks related to a control. The inverse
// side of each affected risk is kept in sync by the repository.
func (uc *ControlUseCase) SetControlRisks(ctx context.Context, id types.ControlID, riskIDs []types.RiskID) (*model.Control, error) {
	seen := make(map[types.RiskID]bool, len(riskIDs))
	deduped := make([]types.RiskID, 0, len(riskIDs))
	for _, rid := range riskIDs {
		if err := rid.Validate(); err != nil {
			return nil, goerr.Wrap(err, "invalid risk ID", goerr.V("id", rid))
		}
		if !seen[rid] {
			seen[rid] = true
			deduped = append(deduped, rid)
		}
	}

	control, err := uc.repo.Control().SetRisks(ctx, id, deduped)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to set control risks")
	}

	return control, nil
}

func (uc *ControlUseCase) ControlStatistics(ctx context.Context) (*model.ControlStatistics, error) {
	controls, err := uc.repo.Control().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list controls")
	}

	return model.CalculateControlStatistics(controls), nil
}
