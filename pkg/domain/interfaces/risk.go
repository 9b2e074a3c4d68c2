package interfaces

import (
	"context"

	"github.com/secmon-lab/riskportal/pkg/domain/model"
	"github.com/secmon-lab/riskportal/pkg/domain/types"
)

type RiskRepository interface {
	// Create creates a new risk. The ID must already be derived from the
	// risk name; timestamps are assigned here.
	Create(ctx context.Context, risk *model.Risk) (*model.Risk, error)

	// Get retrieves a risk by ID
	Get(ctx context.Context, id types.RiskID) (*model.Risk, error)

	// List retrieves all risks
	List(ctx context.Context) ([]*model.Risk, error)

	// Update updates an existing risk
	Update(ctx context.Context, risk *model.Risk) (*model.Risk, error)

	// Delete deletes a risk by ID and removes the risk from the related
	// ID sets of all controls and use cases referencing it.
	Delete(ctx context.Context, id types.RiskID) error

	// SetControls replaces the set of controls related to the risk. Both
	// sides of the relationship are updated atomically so that
	// C ∈ R.relatedControlIds ⇔ R ∈ C.relatedRiskIds always holds.
	SetControls(ctx context.Context, id types.RiskID, controlIDs []types.ControlID) (*model.Risk, error)
}
