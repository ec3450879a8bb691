package memory

import (
	"context"
	"sync"
	"time"

	"github.com/campus-hub/grading-system/internal/domain/notification"
)

// maxNotifications bounds the in-memory history.
const maxNotifications = 500

// NotificationStore implements notification.Repository as a bounded log.
type NotificationStore struct {
	mu    sync.RWMutex
	items []notification.Notification
}

// NewNotificationStore creates an empty store.
func NewNotificationStore() *NotificationStore {
	return &NotificationStore{}
}

var _ notification.Repository = (*NotificationStore)(nil)

// Save implements notification.Repository. An existing id is replaced in place.
func (s *NotificationStore) Save(_ context.Context, n *notification.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == n.ID {
			s.items[i] = *n
			return nil
		}
	}
	s.items = append(s.items, *n)
	if len(s.items) > maxNotifications {
		s.items = s.items[len(s.items)-maxNotifications:]
	}
	return nil
}

// Recent implements notification.Repository.
func (s *NotificationStore) Recent(_ context.Context, limit int) ([]notification.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > len(s.items) {
		limit = len(s.items)
	}
	out := make([]notification.Notification, 0, limit)
	for i := len(s.items) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.items[i])
	}
	return out, nil
}

// DeliveryTracker implements notification.DeliveryTracker in process memory.
type DeliveryTracker struct {
	mu    sync.Mutex
	stats notification.DeliveryStats
}

// NewDeliveryTracker creates a zeroed tracker.
func NewDeliveryTracker() *DeliveryTracker {
	return &DeliveryTracker{}
}

var _ notification.DeliveryTracker = (*DeliveryTracker)(nil)

// RecordAttempt implements notification.DeliveryTracker.
func (t *DeliveryTracker) RecordAttempt(_ context.Context, at time.Time) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stats.TotalAttempts++
	t.stats.LastAttempt = &at
	return nil
}

// RecordSuccess implements notification.DeliveryTracker. It clears the last error.
func (t *DeliveryTracker) RecordSuccess(_ context.Context, at time.Time) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stats.TotalSuccesses++
	t.stats.LastSuccess = &at
	t.stats.LastError = nil
	return nil
}

// RecordFailure implements notification.DeliveryTracker.
func (t *DeliveryTracker) RecordFailure(_ context.Context, reason string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stats.TotalFailures++
	t.stats.LastError = &reason
	return nil
}

// Stats implements notification.DeliveryTracker.
func (t *DeliveryTracker) Stats(_ context.Context) (notification.DeliveryStats, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stats, nil
}
