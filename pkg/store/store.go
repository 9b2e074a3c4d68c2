package store

import (
	"context"

	"github.com/secmon-lab/riskportal/pkg/domain/model"
	"github.com/secmon-lab/riskportal/pkg/domain/types"
	"golang.org/x/sync/errgroup"
)

// RiskAPI is the slice of the register API the risk store consumes.
type RiskAPI interface {
	ListRisks(ctx context.Context) ([]*model.Risk, error)
	CreateRisk(ctx context.Context, input *model.RiskInput) (*model.Risk, error)
	UpdateRisk(ctx context.Context, id types.RiskID, input *model.RiskUpdateInput) (*model.Risk, error)
	DeleteRisk(ctx context.Context, id types.RiskID) error
	SetRiskControls(ctx context.Context, id types.RiskID, controlIDs []types.ControlID) (*model.Risk, error)
	RiskStatistics(ctx context.Context) (*model.RiskStatistics, error)
}

// ControlAPI is the slice of the register API the control store consumes.
type ControlAPI interface {
	ListControls(ctx context.Context) ([]*model.Control, error)
	CreateControl(ctx context.Context, input *model.ControlInput) (*model.Control, error)
	UpdateControl(ctx context.Context, id types.ControlID, input *model.ControlUpdateInput) (*model.Control, error)
	DeleteControl(ctx context.Context, id types.ControlID) error
	SetControlRisks(ctx context.Context, id types.ControlID, riskIDs []types.RiskID) (*model.Control, error)
	ControlStatistics(ctx context.Context) (*model.ControlStatistics, error)
}

// UseCaseAPI is the slice of the register API the use case store consumes.
type UseCaseAPI interface {
	ListUseCases(ctx context.Context) ([]*model.UseCase, error)
	CreateUseCase(ctx context.Context, input *model.UseCaseInput) (*model.UseCase, error)
	UpdateUseCase(ctx context.Context, id types.UseCaseID, input *model.UseCaseUpdateInput) (*model.UseCase, error)
	DeleteUseCase(ctx context.Context, id types.UseCaseID) error
	AssociateUseCaseRisks(ctx context.Context, id types.UseCaseID, riskIDs []types.RiskID) (*model.UseCase, error)
	UseCaseStatistics(ctx context.Context) (*model.UseCaseStatistics, error)
}

// API is the full register API surface consumed by the store hub.
type API interface {
	RiskAPI
	ControlAPI
	UseCaseAPI
}

// Stores wires the per-entity stores together so that relationship
// edits observed through one store are mirrored into the others.
type Stores struct {
	Risks    *RiskStore
	Controls *ControlStore
	UseCases *UseCaseStore
	UI       *UIStore
}

func New(api API) *Stores {
	s := &Stores{
		Risks:    NewRiskStore(api),
		Controls: NewControlStore(api),
		UseCases: NewUseCaseStore(api),
		UI:       NewUIStore(),
	}

	// Keep the inverse side of relationship edits in sync locally, the
	// same way the repository does on the server.
	s.Risks.onControlsSet = s.Controls.applyRiskAttachment
	s.Risks.onDeleted = func(id types.RiskID) {
		s.Controls.detachRisk(id)
		s.UseCases.detachRisk(id)
	}
	s.Controls.onRisksSet = s.Risks.applyControlAttachment
	s.Controls.onDeleted = s.Risks.detachControl

	return s
}

// LoadAll refreshes every entity store concurrently. Per-store failures
// are absorbed into the store states, so the only error returned here
// is context cancellation.
func (s *Stores) LoadAll(ctx context.Context) error {
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		s.Risks.Load(ctx)
		return ctx.Err()
	})
	eg.Go(func() error {
		s.Controls.Load(ctx)
		return ctx.Err()
	})
	eg.Go(func() error {
		s.UseCases.Load(ctx)
		return ctx.Err()
	})
	return eg.Wait()
}

// subscribers is a minimal change-notification list shared by the
// entity stores. Callbacks run synchronously after each state change,
// outside the store lock.
type subscribers struct {
	nextID    int
	callbacks map[int]func()
}

func (s *subscribers) add(fn func()) (unsubscribe func()) {
	if s.callbacks == nil {
		s.callbacks = make(map[int]func())
	}
	id := s.nextID
	s.nextID++
	s.callbacks[id] = fn
	return func() {
		delete(s.callbacks, id)
	}
}

func (s *subscribers) snapshot() []func() {
	fns := make([]func(), 0, len(s.callbacks))
	for _, fn := range s.callbacks {
		fns = append(fns, fn)
	}
	return fns
}
