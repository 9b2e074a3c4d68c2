package store

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/secmon-lab/riskportal/pkg/utils/async"
)

// NotificationLevel is the severity of a user-facing notification
type NotificationLevel string

const (
	NotificationError   NotificationLevel = "error"
	NotificationWarning NotificationLevel = "warning"
	NotificationSuccess NotificationLevel = "success"
	NotificationInfo    NotificationLevel = "info"
)

// Notification is a transient user-facing message.
type Notification struct {
	ID        string            `json:"id"`
	Level     NotificationLevel `json:"level"`
	Message   string            `json:"message"`
	CreatedAt time.Time         `json:"createdAt"`
}

// UIStore holds cross-cutting view state: notifications, open modals
// and a global loading counter for overlapping async operations.
type UIStore struct {
	mu            sync.RWMutex
	notifications []Notification
	openModals    map[string]bool
	loadingCount  int
	autoDismiss   time.Duration

	subs subscribers
}

func NewUIStore() *UIStore {
	return &UIStore{
		openModals:  make(map[string]bool),
		autoDismiss: 5 * time.Second,
	}
}

// SetAutoDismiss changes the notification lifetime. Zero disables
// automatic dismissal.
func (s *UIStore) SetAutoDismiss(d time.Duration) {
	s.mu.Lock()
	s.autoDismiss = d
	s.mu.Unlock()
}

func (s *UIStore) Subscribe(fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subs.add(fn)
}

func (s *UIStore) notify() {
	s.mu.RLock()
	fns := s.subs.snapshot()
	s.mu.RUnlock()
	for _, fn := range fns {
		fn()
	}
}

func (s *UIStore) ShowError(msg string) string {
	return s.push(NotificationError, msg)
}

func (s *UIStore) ShowWarning(msg string) string {
	return s.push(NotificationWarning, msg)
}

func (s *UIStore) ShowSuccess(msg string) string {
	return s.push(NotificationSuccess, msg)
}

func (s *UIStore) ShowInfo(msg string) string {
	return s.push(NotificationInfo, msg)
}

func (s *UIStore) push(level NotificationLevel, msg string) string {
	n := Notification{
		ID:        uuid.NewString(),
		Level:     level,
		Message:   msg,
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	s.notifications = append(s.notifications, n)
	after := s.autoDismiss
	s.mu.Unlock()
	s.notify()

	if after > 0 {
		async.Dispatch(context.Background(), func(ctx context.Context) error {
			time.Sleep(after)
			s.Dismiss(n.ID)
			return nil
		})
	}

	return n.ID
}

func (s *UIStore) Dismiss(id string) {
	s.mu.Lock()
	s.notifications = slices.DeleteFunc(s.notifications, func(n Notification) bool {
		return n.ID == id
	})
	s.mu.Unlock()
	s.notify()
}

func (s *UIStore) Notifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Notification(nil), s.notifications...)
}

func (s *UIStore) OpenModal(name string) {
	s.mu.Lock()
	s.openModals[name] = true
	s.mu.Unlock()
	s.notify()
}

func (s *UIStore) CloseModal(name string) {
	s.mu.Lock()
	delete(s.openModals, name)
	s.mu.Unlock()
	s.notify()
}

func (s *UIStore) IsModalOpen(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.openModals[name]
}

// BeginLoading increments the global loading counter. Every call must
// be paired with EndLoading.
func (s *UIStore) BeginLoading() {
	s.mu.Lock()
	s.loadingCount++
	s.mu.Unlock()
	s.notify()
}

func (s *UIStore) EndLoading() {
	s.mu.Lock()
	if s.loadingCount > 0 {
		s.loadingCount--
	}
	s.mu.Unlock()
	s.notify()
}

func (s *UIStore) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadingCount > 0
}
