package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/campus-hub/grading-system/internal/domain/shared"
	"github.com/campus-hub/grading-system/internal/domain/student"
)

// StudentStore implements student.Repository.
type StudentStore struct {
	mu     sync.RWMutex
	byID   map[int64]student.Student
	nextID int64
}

// NewStudentStore creates an empty store.
func NewStudentStore() *StudentStore {
	return &StudentStore{byID: make(map[int64]student.Student), nextID: 1}
}

var _ student.Repository = (*StudentStore)(nil)

// List implements student.Repository.
func (s *StudentStore) List(_ context.Context, f student.Filter) ([]student.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]student.Student, 0, len(s.byID))
	for _, st := range s.byID {
		if search != "" && !strings.Contains(strings.ToLower(st.Name), search) {
			continue
		}
		if f.Major != "" && (st.Major == nil || *st.Major != f.Major) {
			continue
		}
		out = append(out, st)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// GetByID implements student.Repository.
func (s *StudentStore) GetByID(_ context.Context, id int64) (*student.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.byID[id]
	if !ok {
		return nil, shared.ErrStudentNotFound
	}
	return &st, nil
}

// Create implements student.Repository.
func (s *StudentStore) Create(_ context.Context, st *student.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.byID {
		if strings.EqualFold(existing.Email, st.Email) {
			return shared.ErrStudentAlreadyExists
		}
	}

	st.ID = s.nextID
	s.nextID++
	s.byID[st.ID] = *st
	return nil
}

// Delete implements student.Repository.
func (s *StudentStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return shared.ErrStudentNotFound
	}
	delete(s.byID, id)
	return nil
}

// Majors implements student.Repository.
func (s *StudentStore) Majors(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, st := range s.byID {
		if st.Major == nil || *st.Major == "" {
			continue
		}
		if _, ok := seen[*st.Major]; ok {
			continue
		}
		seen[*st.Major] = struct{}{}
		out = append(out, *st.Major)
	}
	sort.Strings(out)
	return out, nil
}
