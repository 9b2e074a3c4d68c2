package store

import (
	"context"
	"slices"
	"sync"

	"github.com/secmon-lab/riskportal/pkg/domain/model"
	"github.com/secmon-lab/riskportal/pkg/domain/types"
)

// UseCaseStore holds the client-side AI use case state. Filtering is
// evaluated locally over the loaded list, like the other stores.
type UseCaseStore struct {
	api UseCaseAPI

	mu         sync.RWMutex
	useCases   []*model.UseCase
	loading    bool
	err        error
	generation int

	filter     *model.UseCaseFilter
	sortBy     *model.UseCaseSort
	selectedID types.UseCaseID

	subs subscribers
}

func NewUseCaseStore(api UseCaseAPI) *UseCaseStore {
	return &UseCaseStore{api: api}
}

func (s *UseCaseStore) Subscribe(fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subs.add(fn)
}

func (s *UseCaseStore) notify() {
	s.mu.RLock()
	fns := s.subs.snapshot()
	s.mu.RUnlock()
	for _, fn := range fns {
		fn()
	}
}

// Load refreshes the list from the API, absorbing failures into the
// store state. Overlapping loads resolve to the most recent one.
func (s *UseCaseStore) Load(ctx context.Context) {
	s.mu.Lock()
	s.loading = true
	s.generation++
	gen := s.generation
	s.mu.Unlock()
	s.notify()

	useCases, err := s.api.ListUseCases(ctx)

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
		s.useCases = useCases
	}
	s.mu.Unlock()
	s.notify()
}

func (s *UseCaseStore) UseCases() []*model.UseCase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*model.UseCase(nil), s.useCases...)
}

func (s *UseCaseStore) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *UseCaseStore) Error() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *UseCaseStore) SetFilter(filter *model.UseCaseFilter) {
	s.mu.Lock()
	s.filter = filter
	s.mu.Unlock()
	s.notify()
}

func (s *UseCaseStore) SetSort(sortBy *model.UseCaseSort) {
	s.mu.Lock()
	s.sortBy = sortBy
	s.mu.Unlock()
	s.notify()
}

func (s *UseCaseStore) ClearFilters() {
	s.mu.Lock()
	s.filter = nil
	s.sortBy = nil
	s.mu.Unlock()
	s.notify()
}

func (s *UseCaseStore) Filtered() []*model.UseCase {
	s.mu.RLock()
	useCases := append([]*model.UseCase(nil), s.useCases...)
	filter := s.filter
	sortBy := s.sortBy
	s.mu.RUnlock()

	result := model.ApplyUseCaseFilter(useCases, filter)
	if sortBy != nil {
		result = model.SortUseCases(result, *sortBy)
	}
	return result
}

func (s *UseCaseStore) Statistics() *model.UseCaseStatistics {
	s.mu.RLock()
	useCases := append([]*model.UseCase(nil), s.useCases...)
	s.mu.RUnlock()
	return model.CalculateUseCaseStatistics(useCases)
}

func (s *UseCaseStore) FetchStatistics(ctx context.Context) (*model.UseCaseStatistics, error) {
	return s.api.UseCaseStatistics(ctx)
}

func (s *UseCaseStore) Select(id types.UseCaseID) {
	s.mu.Lock()
	s.selectedID = id
	s.mu.Unlock()
	s.notify()
}

func (s *UseCaseStore) ClearSelection() {
	s.mu.Lock()
	s.selectedID = ""
	s.mu.Unlock()
	s.notify()
}

func (s *UseCaseStore) Selected() *model.UseCase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selectedID == "" {
		return nil
	}
	for _, u := range s.useCases {
		if u.ID == s.selectedID {
			return u
		}
	}
	return nil
}

func (s *UseCaseStore) Get(id types.UseCaseID) *model.UseCase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.useCases {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func (s *UseCaseStore) Create(ctx context.Context, input *model.UseCaseInput) (*model.UseCase, error) {
	if err := input.Validate(); err != nil {
		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
		s.notify()
		return nil, err
	}

	created, err := s.api.CreateUseCase(ctx, input)

	s.mu.Lock()
	if err != nil {
		s.err = err
	} else {
		s.err = nil
		s.useCases = append(s.useCases, created)
	}
	s.mu.Unlock()
	s.notify()

	return created, err
}

func (s *UseCaseStore) Update(ctx context.Context, id types.UseCaseID, input *model.UseCaseUpdateInput) (*model.UseCase, error) {
	updated, err := s.api.UpdateUseCase(ctx, id, input)

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

func (s *UseCaseStore) Delete(ctx context.Context, id types.UseCaseID) error {
	err := s.api.DeleteUseCase(ctx, id)

	s.mu.Lock()
	if err != nil {
		s.err = err
	} else {
		s.err = nil
		s.useCases = slices.DeleteFunc(s.useCases, func(u *model.UseCase) bool {
			return u.ID == id
		})
		if s.selectedID == id {
			s.selectedID = ""
		}
	}
	s.mu.Unlock()
	s.notify()

	return err
}

// AssociateRisks replaces the risks linked to a use case. The
// association is one-sided, so no other store needs patching.
func (s *UseCaseStore) AssociateRisks(ctx context.Context, id types.UseCaseID, riskIDs []types.RiskID) (*model.UseCase, error) {
	updated, err := s.api.AssociateUseCaseRisks(ctx, id, riskIDs)

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

func (s *UseCaseStore) replaceLocked(updated *model.UseCase) {
	for i, u := range s.useCases {
		if u.ID == updated.ID {
			s.useCases[i] = updated
			return
		}
	}
	s.useCases = append(s.useCases, updated)
}

// detachRisk drops a deleted risk from every loaded use case and fixes
// the derived count.
func (s *UseCaseStore) detachRisk(id types.RiskID) {
	s.mu.Lock()
	for _, u := range s.useCases {
		u.RelatedRiskIDs = slices.DeleteFunc(u.RelatedRiskIDs, func(rid types.RiskID) bool {
			return rid == id
		})
		u.RiskCount = len(u.RelatedRiskIDs)
	}
	s.mu.Unlock()
	s.notify()
}
