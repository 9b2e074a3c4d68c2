package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskportal/pkg/domain/interfaces"
	"github.com/secmon-lab/riskportal/pkg/domain/model"
	"github.com/secmon-lab/riskportal/pkg/domain/types"
)

type RiskUseCase struct {
	repo     interfaces.Repository
	taxonomy *model.Taxonomy
}

func NewRiskUseCase(repo interfaces.Repository, taxonomy *model.Taxonomy) *RiskUseCase {
	return &RiskUseCase{
		repo:     repo,
		taxonomy: taxonomy,
	}
}

func (uc *RiskUseCase) CreateRisk(ctx context.Context, input *model.RiskInput) (*model.Risk, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if err := uc.validateOwners(input.ProposedOversightOwnership); err != nil {
		return nil, err
	}

	id, err := types.NewRiskID(input.Risk)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to derive risk ID", goerr.V("name", input.Risk))
	}

	risk := &model.Risk{
		ID:              id,
		RiskCategory:    input.RiskCategory,
		Risk:            input.Risk,
		RiskDescription: input.RiskDescription,
		InitialScoring: model.Scoring{
			Likelihood: input.InitialScoring.Likelihood,
			Impact:     input.InitialScoring.Impact,
		},
		ResidualScoring: model.Scoring{
			Likelihood: input.ResidualScoring.Likelihood,
			Impact:     input.ResidualScoring.Impact,
		},
		AgreedMitigation:           input.AgreedMitigation,
		ExampleMitigations:         input.ExampleMitigations,
		Notes:                      input.Notes,
		ProposedOversightOwnership: input.ProposedOversightOwnership,
		ProposedSupport:            input.ProposedSupport,
	}
	risk.Recompute()

	created, err := uc.repo.Risk().Create(ctx, risk)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create risk")
	}

	return created, nil
}

func (uc *RiskUseCase) GetRisk(ctx context.Context, id types.RiskID) (*model.Risk, error) {
	risk, err := uc.repo.Risk().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get risk")
	}

	return risk, nil
}

func (uc *RiskUseCase) ListRisks(ctx context.Context) ([]*model.Risk, error) {
	risks, err := uc.repo.Risk().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list risks")
	}

	return risks, nil
}

func (uc *RiskUseCase) UpdateRisk(ctx context.Context, id types.RiskID, input *model.RiskUpdateInput) (*model.Risk, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if input.ProposedOversightOwnership != nil {
		if err := uc.validateOwners(input.ProposedOversightOwnership); err != nil {
			return nil, err
		}
	}

	existing, err := uc.repo.Risk().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get risk")
	}

	if input.LastUpdated != nil && !input.LastUpdated.Equal(existing.LastUpdated) {
		return nil, goerr.Wrap(ErrConflict, "risk was updated concurrently",
			goerr.V("id", id),
			goerr.V("expected", *input.LastUpdated),
			goerr.V("actual", existing.LastUpdated))
	}

	input.Apply(existing)

	updated, err := uc.repo.Risk().Update(ctx, existing)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update risk")
	}

	return updated, nil
}

func (uc *RiskUseCase) DeleteRisk(ctx context.Context, id types.RiskID) error {
	if err := uc.repo.Risk().Delete(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete risk")
	}

	return nil
}

// SetRiskControls replaces the controls related to a risk. The inverse
// side of each affected control is kept in sync by the repository.
func (uc *RiskUseCase) SetRiskControls(ctx context.Context, id types.RiskID, controlIDs []types.ControlID) (*model.Risk, error) {
	seen := make(map[types.ControlID]bool, len(controlIDs))
	deduped := make([]types.ControlID, 0, len(controlIDs))
	for _, cid := range controlIDs {
		if err := cid.Validate(); err != nil {
			return nil, goerr.Wrap(err, "invalid control ID", goerr.V("id", cid))
		}
		if !seen[cid] {
			seen[cid] = true
			deduped = append(deduped, cid)
		}
	}

	risk, err := uc.repo.Risk().SetControls(ctx, id, deduped)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to set risk controls")
	}

	return risk, nil
}

func (uc *RiskUseCase) RiskStatistics(ctx context.Context) (*model.RiskStatistics, error) {
	risks, err := uc.repo.Risk().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list risks")
	}

	return model.CalculateRiskStatistics(risks), nil
}

func (uc *RiskUseCase) validateOwners(owners []string) error {
	if uc.taxonomy == nil {
		return nil
	}

	var msgs []string
	for _, owner := range owners {
		if !uc.taxonomy.HasOwner(owner) {
			msgs = append(msgs, "Unknown oversight owner: "+owner)
		}
	}
	if len(msgs) > 0 {
		return &model.ValidationError{Messages: msgs}
	}
	return nil
}
