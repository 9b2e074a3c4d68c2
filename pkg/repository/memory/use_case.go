package memory

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskportal/pkg/domain/model"
	"github.com/secmon-lab/riskportal/pkg/domain/types"
)

type useCaseRepository struct {
	state *state
}

func (r *useCaseRepository) Create(ctx context.Context, useCase *model.UseCase) (*model.UseCase, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()

	now := time.Now().UTC()
	created := useCase.Clone()
	created.ID = types.UseCaseID(fmt.Sprintf("UC-%03d", r.state.useCaseNextID))
	r.state.useCaseNextID++
	created.CreatedAt = now
	created.LastUpdated = now
	if created.RelatedRiskIDs == nil {
		created.RelatedRiskIDs = []types.RiskID{}
	}
	created.RiskCount = len(created.RelatedRiskIDs)

	r.state.useCases[created.ID] = created
	return created.Clone(), nil
}

func (r *useCaseRepository) Get(ctx context.Context, id types.UseCaseID) (*model.UseCase, error) {
	r.state.mu.RLock()
	defer r.state.mu.RUnlock()

	useCase, exists := r.state.useCases[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "use case not found", goerr.V("id", id))
	}
	return useCase.Clone(), nil
}

func (r *useCaseRepository) List(ctx context.Context) ([]*model.UseCase, error) {
	r.state.mu.RLock()
	defer r.state.mu.RUnlock()

	useCases := make([]*model.UseCase, 0, len(r.state.useCases))
	for _, useCase := range r.state.useCases {
		useCases = append(useCases, useCase.Clone())
	}
	slices.SortFunc(useCases, func(a, b *model.UseCase) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return useCases, nil
}

func (r *useCaseRepository) Update(ctx context.Context, useCase *model.UseCase) (*model.UseCase, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()

	existing, exists := r.state.useCases[useCase.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "use case not found", goerr.V("id", useCase.ID))
	}

	updated := useCase.Clone()
	updated.CreatedAt = existing.CreatedAt
	updated.RelatedRiskIDs = append([]types.RiskID(nil), existing.RelatedRiskIDs...)
	updated.RiskCount = len(updated.RelatedRiskIDs)
	updated.LastUpdated = time.Now().UTC()

	r.state.useCases[updated.ID] = updated
	return updated.Clone(), nil
}

func (r *useCaseRepository) Delete(ctx context.Context, id types.UseCaseID) error {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()

	if _, exists := r.state.useCases[id]; !exists {
		return goerr.Wrap(ErrNotFound, "use case not found", goerr.V("id", id))
	}
	delete(r.state.useCases, id)
	return nil
}

func (r *useCaseRepository) SetRisks(ctx context.Context, id types.UseCaseID, riskIDs []types.RiskID) (*model.UseCase, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()

	useCase, exists := r.state.useCases[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "use case not found", goerr.V("id", id))
	}
	for _, rid := range riskIDs {
		if _, exists := r.state.risks[rid]; !exists {
			return nil, goerr.Wrap(ErrNotFound, "risk not found", goerr.V("id", rid))
		}
	}

	useCase.RelatedRiskIDs = append([]types.RiskID(nil), riskIDs...)
	useCase.RiskCount = len(useCase.RelatedRiskIDs)
	useCase.LastUpdated = time.Now().UTC()
	return useCase.Clone(), nil
}
