package memory

import (
	"sync"

	"github.com/secmon-lab/riskportal/pkg/domain/interfaces"
	"github.com/secmon-lab/riskportal/pkg/domain/model"
	"github.com/secmon-lab/riskportal/pkg/domain/types"
)

// Backend-agnostic sentinels, aliased for brevity within this package
var (
	ErrNotFound      = interfaces.ErrNotFound
	ErrAlreadyExists = interfaces.ErrAlreadyExists
)

// state is the shared storage of the in-memory backend. Relationship
// edits touch risks and controls together, so all entity maps live
// behind one lock.
type state struct {
	mu            sync.RWMutex
	risks         map[types.RiskID]*model.Risk
	controls      map[types.ControlID]*model.Control
	useCases      map[types.UseCaseID]*model.UseCase
	useCaseNextID int
}

// Memory is an in-memory Repository implementation for development and
// testing.
type Memory struct {
	risk    *riskRepository
	control *controlRepository
	useCase *useCaseRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	s := &state{
		risks:         make(map[types.RiskID]*model.Risk),
		controls:      make(map[types.ControlID]*model.Control),
		useCases:      make(map[types.UseCaseID]*model.UseCase),
		useCaseNextID: 1,
	}

	return &Memory{
		risk:    &riskRepository{state: s},
		control: &controlRepository{state: s},
		useCase: &useCaseRepository{state: s},
	}
}

func (m *Memory) Risk() interfaces.RiskRepository {
	return m.risk
}

func (m *Memory) Control() interfaces.ControlRepository {
	return m.control
}

func (m *Memory) UseCase() interfaces.UseCaseRepository {
	return m.useCase
}

func (m *Memory) Close() error {
	return nil
}
