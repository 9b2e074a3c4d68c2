package store

import (
	"context"
	"slices"
	"sync"

	"github.com/secmon-lab/riskportal/pkg/domain/model"
	"github.com/secmon-lab/riskportal/pkg/domain/types"
)

// RiskStore holds the client-side risk state: the loaded list, the
// filter/sort/search view configuration and the current selection.
// Derived views are recomputed from the full list on every read.
type RiskStore struct {
	api RiskAPI

	mu         sync.RWMutex
	risks      []*model.Risk
	loading    bool
	err        error
	generation int

	filter     *model.RiskFilter
	sortBy     *model.RiskSort
	searchTerm string
	selectedID types.RiskID

	subs subscribers

	onControlsSet func(riskID types.RiskID, controlIDs []types.ControlID)
	onDeleted     func(id types.RiskID)
}

func NewRiskStore(api RiskAPI) *RiskStore {
	return &RiskStore{api: api}
}

// Subscribe registers a callback invoked after every state change. The
// returned function removes the subscription.
func (s *RiskStore) Subscribe(fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subs.add(fn)
}

func (s *RiskStore) notify() {
	s.mu.RLock()
	fns := s.subs.snapshot()
	s.mu.RUnlock()
	for _, fn := range fns {
		fn()
	}
}

// Load refreshes the list from the API. Failures are absorbed into the
// store state rather than returned; when loads overlap, only the most
// recently started one is allowed to land.
func (s *RiskStore) Load(ctx context.Context) {
	s.mu.Lock()
	s.loading = true
	s.generation++
	gen := s.generation
	s.mu.Unlock()
	s.notify()

	risks, err := s.api.ListRisks(ctx)

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
		s.risks = risks
	}
	s.mu.Unlock()
	s.notify()
}

// Risks returns a snapshot of the full loaded list.
func (s *RiskStore) Risks() []*model.Risk {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*model.Risk(nil), s.risks...)
}

func (s *RiskStore) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *RiskStore) Error() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *RiskStore) SetFilter(filter *model.RiskFilter) {
	s.mu.Lock()
	s.filter = filter
	s.mu.Unlock()
	s.notify()
}

func (s *RiskStore) SetSort(sortBy *model.RiskSort) {
	s.mu.Lock()
	s.sortBy = sortBy
	s.mu.Unlock()
	s.notify()
}

func (s *RiskStore) SetSearchTerm(term string) {
	s.mu.Lock()
	s.searchTerm = term
	s.mu.Unlock()
	s.notify()
}

// ClearFilters resets filter, sort and search to their zero state.
func (s *RiskStore) ClearFilters() {
	s.mu.Lock()
	s.filter = nil
	s.sortBy = nil
	s.searchTerm = ""
	s.mu.Unlock()
	s.notify()
}

// Filtered returns the list as shaped by the current filter, search
// term and sort order.
func (s *RiskStore) Filtered() []*model.Risk {
	s.mu.RLock()
	risks := append([]*model.Risk(nil), s.risks...)
	filter := s.filter
	sortBy := s.sortBy
	term := s.searchTerm
	s.mu.RUnlock()

	result := model.ApplyRiskFilter(risks, filter, term)
	if sortBy != nil {
		result = model.SortRisks(result, *sortBy)
	}
	return result
}

// Statistics computes aggregate figures over the full loaded list.
func (s *RiskStore) Statistics() *model.RiskStatistics {
	s.mu.RLock()
	risks := append([]*model.Risk(nil), s.risks...)
	s.mu.RUnlock()
	return model.CalculateRiskStatistics(risks)
}

// FetchStatistics asks the server for aggregate figures instead of
// computing them locally.
func (s *RiskStore) FetchStatistics(ctx context.Context) (*model.RiskStatistics, error) {
	return s.api.RiskStatistics(ctx)
}

func (s *RiskStore) Select(id types.RiskID) {
	s.mu.Lock()
	s.selectedID = id
	s.mu.Unlock()
	s.notify()
}

func (s *RiskStore) ClearSelection() {
	s.mu.Lock()
	s.selectedID = ""
	s.mu.Unlock()
	s.notify()
}

// Selected returns the currently selected risk, or nil when nothing is
// selected or the selection no longer exists.
func (s *RiskStore) Selected() *model.Risk {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selectedID == "" {
		return nil
	}
	for _, r := range s.risks {
		if r.ID == s.selectedID {
			return r
		}
	}
	return nil
}

// Get returns the risk with the given ID from the loaded list.
func (s *RiskStore) Get(id types.RiskID) *model.Risk {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.risks {
		if r.ID == id {
			return r
		}
	}
	return nil
}

// Create submits a new risk. Validation runs locally before any
// network call; the error is both stored for the view layer and
// returned to the caller.
func (s *RiskStore) Create(ctx context.Context, input *model.RiskInput) (*model.Risk, error) {
	if err := input.Validate(); err != nil {
		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
		s.notify()
		return nil, err
	}

	created, err := s.api.CreateRisk(ctx, input)

	s.mu.Lock()
	if err != nil {
		s.err = err
	} else {
		s.err = nil
		s.risks = append(s.risks, created)
	}
	s.mu.Unlock()
	s.notify()

	return created, err
}

// Update submits a partial update and replaces the stored entry.
func (s *RiskStore) Update(ctx context.Context, id types.RiskID, input *model.RiskUpdateInput) (*model.Risk, error) {
	updated, err := s.api.UpdateRisk(ctx, id, input)

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

// Delete removes a risk. The selection is cleared when it pointed at
// the deleted entry, and the other stores drop their references.
func (s *RiskStore) Delete(ctx context.Context, id types.RiskID) error {
	err := s.api.DeleteRisk(ctx, id)

	var onDeleted func(types.RiskID)
	s.mu.Lock()
	if err != nil {
		s.err = err
	} else {
		s.err = nil
		s.risks = slices.DeleteFunc(s.risks, func(r *model.Risk) bool {
			return r.ID == id
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

// SetControls replaces the controls related to a risk and mirrors the
// inverse side into the control store.
func (s *RiskStore) SetControls(ctx context.Context, id types.RiskID, controlIDs []types.ControlID) (*model.Risk, error) {
	updated, err := s.api.SetRiskControls(ctx, id, controlIDs)

	var onSet func(types.RiskID, []types.ControlID)
	s.mu.Lock()
	if err != nil {
		s.err = err
	} else {
		s.err = nil
		s.replaceLocked(updated)
		onSet = s.onControlsSet
	}
	s.mu.Unlock()
	s.notify()

	if err == nil && onSet != nil {
		onSet(id, controlIDs)
	}
	return updated, err
}

func (s *RiskStore) replaceLocked(updated *model.Risk) {
	for i, r := range s.risks {
		if r.ID == updated.ID {
			s.risks[i] = updated
			return
		}
	}
	s.risks = append(s.risks, updated)
}

// applyControlAttachment mirrors a control-side relationship edit: the
// control now relates to exactly riskIDs, so every loaded risk adds or
// drops the control accordingly.
func (s *RiskStore) applyControlAttachment(controlID types.ControlID, riskIDs []types.RiskID) {
	s.mu.Lock()
	for _, r := range s.risks {
		wants := slices.Contains(riskIDs, r.ID)
		has := slices.Contains(r.RelatedControlIDs, controlID)
		switch {
		case wants && !has:
			r.RelatedControlIDs = append(r.RelatedControlIDs, controlID)
		case !wants && has:
			r.RelatedControlIDs = slices.DeleteFunc(r.RelatedControlIDs, func(cid types.ControlID) bool {
				return cid == controlID
			})
		}
	}
	s.mu.Unlock()
	s.notify()
}

// detachControl drops a deleted control from every loaded risk.
func (s *RiskStore) detachControl(id types.ControlID) {
	s.mu.Lock()
	for _, r := range s.risks {
		r.RelatedControlIDs = slices.DeleteFunc(r.RelatedControlIDs, func(cid types.ControlID) bool {
			return cid == id
		})
	}
	s.mu.Unlock()
	s.notify()
}
