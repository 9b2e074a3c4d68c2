package memory

import (
	"context"
	"slices"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskportal/pkg/domain/model"
	"github.com/secmon-lab/riskportal/pkg/domain/types"
)

type riskRepository struct {
	state *state
}

func (r *riskRepository) Create(ctx context.Context, risk *model.Risk) (*model.Risk, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()

	if _, exists := r.state.risks[risk.ID]; exists {
		return nil, goerr.Wrap(ErrAlreadyExists, "risk already exists", goerr.V("id", risk.ID))
	}

	now := time.Now().UTC()
	created := risk.Clone()
	created.CreatedAt = now
	created.LastUpdated = now
	if created.RelatedControlIDs == nil {
		created.RelatedControlIDs = []types.ControlID{}
	}

	r.state.risks[created.ID] = created
	return created.Clone(), nil
}

func (r *riskRepository) Get(ctx context.Context, id types.RiskID) (*model.Risk, error) {
	r.state.mu.RLock()
	defer r.state.mu.RUnlock()

	risk, exists := r.state.risks[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "risk not found", goerr.V("id", id))
	}
	return risk.Clone(), nil
}

func (r *riskRepository) List(ctx context.Context) ([]*model.Risk, error) {
	r.state.mu.RLock()
	defer r.state.mu.RUnlock()

	risks := make([]*model.Risk, 0, len(r.state.risks))
	for _, risk := range r.state.risks {
		risks = append(risks, risk.Clone())
	}
	slices.SortFunc(risks, func(a, b *model.Risk) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return risks, nil
}

func (r *riskRepository) Update(ctx context.Context, risk *model.Risk) (*model.Risk, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()

	existing, exists := r.state.risks[risk.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "risk not found", goerr.V("id", risk.ID))
	}

	updated := risk.Clone()
	updated.CreatedAt = existing.CreatedAt
	updated.RelatedControlIDs = append([]types.ControlID(nil), existing.RelatedControlIDs...)
	updated.LastUpdated = time.Now().UTC()

	r.state.risks[updated.ID] = updated
	return updated.Clone(), nil
}

func (r *riskRepository) Delete(ctx context.Context, id types.RiskID) error {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()

	if _, exists := r.state.risks[id]; !exists {
		return goerr.Wrap(ErrNotFound, "risk not found", goerr.V("id", id))
	}

	delete(r.state.risks, id)

	// Clear the inverse side of every relationship touching this risk
	for _, control := range r.state.controls {
		control.RelatedRiskIDs = slices.DeleteFunc(control.RelatedRiskIDs, func(rid types.RiskID) bool {
			return rid == id
		})
	}
	for _, useCase := range r.state.useCases {
		useCase.RelatedRiskIDs = slices.DeleteFunc(useCase.RelatedRiskIDs, func(rid types.RiskID) bool {
			return rid == id
		})
		useCase.RiskCount = len(useCase.RelatedRiskIDs)
	}
	return nil
}

func (r *riskRepository) SetControls(ctx context.Context, id types.RiskID, controlIDs []types.ControlID) (*model.Risk, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()

	risk, exists := r.state.risks[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "risk not found", goerr.V("id", id))
	}
	for _, cid := range controlIDs {
		if _, exists := r.state.controls[cid]; !exists {
			return nil, goerr.Wrap(ErrNotFound, "control not found", goerr.V("id", cid))
		}
	}

	// Remove the risk from controls no longer referenced, add to new ones
	for cid, control := range r.state.controls {
		has := slices.Contains(control.RelatedRiskIDs, id)
		wants := slices.Contains(controlIDs, cid)
		switch {
		case wants && !has:
			control.RelatedRiskIDs = append(control.RelatedRiskIDs, id)
		case !wants && has:
			control.RelatedRiskIDs = slices.DeleteFunc(control.RelatedRiskIDs, func(rid types.RiskID) bool {
				return rid == id
			})
		}
	}

	risk.RelatedControlIDs = append([]types.ControlID(nil), controlIDs...)
	risk.LastUpdated = time.Now().UTC()
	return risk.Clone(), nil
}
