package interfaces

import (
	"context"

	"github.com/secmon-lab/riskportal/pkg/domain/model"
	"github.com/secmon-lab/riskportal/pkg/domain/types"
)

type ControlRepository interface {
	// Create creates a new control with its caller-supplied mitigation ID
	Create(ctx context.Context, control *model.Control) (*model.Control, error)

	// Get retrieves a control by ID
	Get(ctx context.Context, id types.ControlID) (*model.Control, error)

	// List retrieves all controls
	List(ctx context.Context) ([]*model.Control, error)

	// Update updates an existing control
	Update(ctx context.Context, control *model.Control) (*model.Control, error)

	// Delete deletes a control by ID and removes the control from the
	// related ID sets of all risks referencing it.
	Delete(ctx context.Context, id types.ControlID) error

	// SetRisks replaces the set of risks related to the control,
	// updating both sides of the relationship atomically.
	SetRisks(ctx context.Context, id types.ControlID, riskIDs []types.RiskID) (*model.Control, error)
}
