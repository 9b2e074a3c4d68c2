package memory

import (
	"context"
	"slices"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskportal/pkg/domain/model"
	"github.com/secmon-lab/riskportal/pkg/domain/types"
)

type controlRepository struct {
	state *state
}

func (r *controlRepository) Create(ctx context.Context, control *model.Control) (*model.Control, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()

	if _, exists := r.state.controls[control.MitigationID]; exists {
		return nil, goerr.Wrap(ErrAlreadyExists, "control already exists", goerr.V("id", control.MitigationID))
	}

	now := time.Now().UTC()
	created := control.Clone()
	created.CreatedAt = now
	created.LastUpdated = now
	if created.RelatedRiskIDs == nil {
		created.RelatedRiskIDs = []types.RiskID{}
	}

	r.state.controls[created.MitigationID] = created
	return created.Clone(), nil
}

func (r *controlRepository) Get(ctx context.Context, id types.ControlID) (*model.Control, error) {
	r.state.mu.RLock()
	defer r.state.mu.RUnlock()

	control, exists := r.state.controls[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "control not found", goerr.V("id", id))
	}
	return control.Clone(), nil
}

func (r *controlRepository) List(ctx context.Context) ([]*model.Control, error) {
	r.state.mu.RLock()
	defer r.state.mu.RUnlock()

	controls := make([]*model.Control, 0, len(r.state.controls))
	for _, control := range r.state.controls {
		controls = append(controls, control.Clone())
	}
	slices.SortFunc(controls, func(a, b *model.Control) int {
		switch {
		case a.MitigationID < b.MitigationID:
			return -1
		case a.MitigationID > b.MitigationID:
			return 1
		}
		return 0
	})
	return controls, nil
}

func (r *controlRepository) Update(ctx context.Context, control *model.Control) (*model.Control, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()

	existing, exists := r.state.controls[control.MitigationID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "control not found", goerr.V("id", control.MitigationID))
	}

	updated := control.Clone()
	updated.CreatedAt = existing.CreatedAt
	updated.RelatedRiskIDs = append([]types.RiskID(nil), existing.RelatedRiskIDs...)
	updated.LastUpdated = time.Now().UTC()

	r.state.controls[updated.MitigationID] = updated
	return updated.Clone(), nil
}

func (r *controlRepository) Delete(ctx context.Context, id types.ControlID) error {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()

	if _, exists := r.state.controls[id]; !exists {
		return goerr.Wrap(ErrNotFound, "control not found", goerr.V("id", id))
	}

	delete(r.state.controls, id)

	for _, risk := range r.state.risks {
		risk.RelatedControlIDs = slices.DeleteFunc(risk.RelatedControlIDs, func(cid types.ControlID) bool {
			return cid == id
		})
	}
	return nil
}

func (r *controlRepository) SetRisks(ctx context.Context, id types.ControlID, riskIDs []types.RiskID) (*model.Control, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()

	control, exists := r.state.controls[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "control not found", goerr.V("id", id))
	}
	for _, rid := range riskIDs {
		if _, exists := r.state.risks[rid]; !exists {
			return nil, goerr.Wrap(ErrNotFound, "risk not found", goerr.V("id", rid))
		}
	}

	for rid, risk := range r.state.risks {
		has := slices.Contains(risk.RelatedControlIDs, id)
		wants := slices.Contains(riskIDs, rid)
		switch {
		case wants && !has:
			risk.RelatedControlIDs = append(risk.RelatedControlIDs, id)
		case !wants && has:
			risk.RelatedControlIDs = slices.DeleteFunc(risk.RelatedControlIDs, func(cid types.ControlID) bool {
				return cid == id
			})
		}
	}

	control.RelatedRiskIDs = append([]types.RiskID(nil), riskIDs...)
	control.LastUpdated = time.Now().UTC()
	return control.Clone(), nil
}
