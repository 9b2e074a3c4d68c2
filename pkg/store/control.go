package store

import (
	"context"
	"slices"
	"sync"

	"github.com/secmon-lab/riskportal/pkg/domain/model"
	"github.com/secmon-lab/riskportal/pkg/domain/types"
)

// ControlStore holds the client-side control state, mirroring the
// structure of RiskStore.
type ControlStore struct {
	api ControlAPI

	mu         sync.RWMutex
	controls   []*model.Control
	loading    bool
	err        error
	generation int

	filter     *model.ControlFilter
	sortBy     *model.ControlSort
	searchTerm string
	selectedID types.ControlID

	subs subscribers

	onRisksSet func(controlID types.ControlID, riskIDs []types.RiskID)
	onDeleted  func(id types.ControlID)
}

func NewControlStore(api ControlAPI) *ControlStore {
	return &ControlStore{api: api}
}

func (s *ControlStore) Subscribe(fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subs.add(fn)
}

func (s *ControlStore) notify() {
	s.mu.RLock()
	fns := s.subs.snapshot()
	s.mu.RUnlock()
	for _, fn := range fns {
		fn()
	}
}

// Load refreshes the list from the API, absorbing failures into the
// store state. Overlapping loads resolve to the most recent one.
func (s *ControlStore) Load(ctx context.Context) {
	s.mu.Lock()
	s.loading = true
	s.generation++
	gen := s.generation
	s.mu.Unlock()
	s.notify()

	controls, err := s.api.ListControls(ctx)

	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return
	}
	s.loading = false
	if err != nil {
		s.err = err
	} else {
		s.err = nil
		s.controls = controls
	}
	s.mu.Unlock()
	s.notify()
}

func (s *ControlStore) Controls() []*model.Control {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*model.Control(nil), s.controls...)
}

func (s *ControlStore) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *ControlStore) Error() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *ControlStore) SetFilter(filter *model.ControlFilter) {
	s.mu.Lock()
	s.filter = filter
	s.mu.Unlock()
	s.notify()
}

func (s *ControlStore) SetSort(sortBy *model.ControlSort) {
	s.mu.Lock()
	s.sortBy = sortBy
	s.mu.Unlock()
	s.notify()
}

func (s *ControlStore) SetSearchTerm(term string) {
	s.mu.Lock()
	s.searchTerm = term
	s.mu.Unlock()
	s.notify()
}

func (s *ControlStore) ClearFilters() {
	s.mu.Lock()
	s.filter = nil
	s.sortBy = nil
	s.searchTerm = ""
	s.mu.Unlock()
	s.notify()
}

func (s *ControlStore) Filtered() []*model.Control {
	s.mu.RLock()
	controls := append([]*model.Control(nil), s.controls...)
	filter := s.filter
	sortBy := s.sortBy
	term := s.searchTerm
	s.mu.RUnlock()

	result := model.ApplyControlFilter(controls, filter, term)
	if sortBy != nil {
		result = model.SortControls(result, *sortBy)
	}
	return result
}

func (s *ControlStore) Statistics() *model.ControlStatistics {
	s.mu.RLock()
	controls := append([]*model.Control(nil), s.controls...)
	s.mu.RUnlock()
	return model.CalculateControlStatistics(controls)
}

func (s *ControlStore) FetchStatistics(ctx context.Context) (*model.ControlStatistics, error) {
	return s.api.ControlStatistics(ctx)
}

func (s *ControlStore) Select(id types.ControlID) {
	s.mu.Lock()
	s.selectedID = id
	s.mu.Unlock()
	s.notify()
}

func (s *ControlStore) ClearSelection() {
	s.mu.Lock()
	s.selectedID = ""
	s.mu.Unlock()
	s.notify()
}

func (s *ControlStore) Selected() *model.Control {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selectedID == "" {
		return nil
	}
	for _, c := range s.controls {
		if c.MitigationID == s.selectedID {
			return c
		}
	}
	return nil
}

func (s *ControlStore) Get(id types.ControlID) *model.Control {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.controls {
		if c.MitigationID == id {
			return c
		}
	}
	return nil
}

func (s *ControlStore) Create(ctx context.Context, input *model.ControlInput) (*model.Control, error) {
	if err := input.Validate(); err != nil {
		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
		s.notify()
		return nil, err
	}

	created, err := s.api.CreateControl(ctx, input)

	s.mu.Lock()
	if err != nil {
		s.err = err
	} else {
		s.err = nil
		s.controls = append(s.controls, created)
	}
	s.mu.Unlock()
	s.notify()

	return created, err
}

func (s *ControlStore) Update(ctx context.Context, id types.ControlID, input *model.ControlUpdateInput) (*model.Control, error) {
	updated, err := s.api.UpdateControl(ctx, id, input)

	s.mu.Lock()
	if err != nil {
		s.err = err
	} else {
		s.err = nil
		s.replaceLocked(updated)
	}
	s.mu.Unlock()
	s.notify()

	return updated, err
}

func (s *ControlStore) Delete(ctx context.Context, id types.ControlID) error {
	err := s.api.DeleteControl(ctx, id)

	var onDeleted func(types.ControlID)
	s.mu.Lock()
	if err != nil {
		s.err = err
	} else {
		s.err = nil
		s.controls = slices.DeleteFunc(s.controls, func(c *model.Control) bool {
			return c.MitigationID == id
		})
		if s.selectedID == id {
			s.selectedID = ""
		}
		onDeleted = s.onDeleted
	}
	s.mu.Unlock()
	s.notify()

	if err == nil && onDeleted != nil {
		onDeleted(id)
	}
	return err
}

// SetRisks replaces the risks related to a control and mirrors the
// inverse side into the risk store.
func (s *ControlStore) SetRisks(ctx context.Context, id types.ControlID, riskIDs []types.RiskID) (*model.Control, error) {
	updated, err := s.api.SetControlRisks(ctx, id, riskIDs)

	var onSet func(types.ControlID, []types.RiskID)
	s.mu.Lock()
	if err != nil {
		s.err = err
	} else {
		s.err = nil
		s.replaceLocked(updated)
		onSet = s.onRisksSet
	}
	s.mu.Unlock()
	s.notify()

	if err == nil && onSet != nil {
		onSet(id, riskIDs)
	}
	return updated, err
}

func (s *ControlStore) replaceLocked(updated *model.Control) {
	for i, c := range s.controls {
		if c.MitigationID == updated.MitigationID {
			s.controls[i] = updated
			return
		}
	}
	s.controls = append(s.controls, updated)
}

// applyRiskAttachment mirrors a risk-side relationship edit: the risk
// now relates to exactly controlIDs, so every loaded control adds or
// drops the risk accordingly.
func (s *ControlStore) applyRiskAttachment(riskID types.RiskID, controlIDs []types.ControlID) {
	s.mu.Lock()
	for _, c := range s.controls {
		wants := slices.Contains(controlIDs, c.MitigationID)
		has := slices.Contains(c.RelatedRiskIDs, riskID)
		switch {
		case wants && !has:
			c.RelatedRiskIDs = append(c.RelatedRiskIDs, riskID)
		case !wants && has:
			c.RelatedRiskIDs = slices.DeleteFunc(c.RelatedRiskIDs, func(rid types.RiskID) bool {
				return rid == riskID
			})
		}
	}
	s.mu.Unlock()
	s.notify()
}

// detachRisk drops a deleted risk from every loaded control.
func (s *ControlStore) detachRisk(id types.RiskID) {
	s.mu.Lock()
	for _, c := range s.controls {
		c.RelatedRiskIDs = slices.DeleteFunc(c.RelatedRiskIDs, func(rid types.RiskID) bool {
			return rid == id
		})
	}
	s.mu.Unlock()
	s.notify()
}
