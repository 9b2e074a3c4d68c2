package interfaces

import (
	"context"

	"github.com/secmon-lab/riskportal/pkg/domain/model"
	"github.com/secmon-lab/riskportal/pkg/domain/types"
)

type UseCaseRepository interface {
	// Create creates a new use case with an auto-generated UC-### ID
	Create(ctx context.Context, useCase *model.UseCase) (*model.UseCase, error)

	// Get retrieves a use case by ID
	Get(ctx context.Context, id types.UseCaseID) (*model.UseCase, error)

	// List retrieves all use cases ordered by ID
	List(ctx context.Context) ([]*model.UseCase, error)

	// Update updates an existing use case
	Update(ctx context.Context, useCase *model.UseCase) (*model.UseCase, error)

	// Delete deletes a use case by ID
	Delete(ctx context.Context, id types.UseCaseID) error

	// SetRisks replaces the set of risks associated with the use case.
	// Risks do not hold the inverse reference; the association lives on
	// the use case only, so this validates the risks and replaces the set.
	SetRisks(ctx context.Context, id types.UseCaseID, riskIDs []types.RiskID) (*model.UseCase, error)
}
