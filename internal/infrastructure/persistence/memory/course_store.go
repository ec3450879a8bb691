package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/campus-hub/grading-system/internal/domain/course"
	"github.com/campus-hub/grading-system/internal/domain/shared"
)

// CourseStore implements course.Repository.
type CourseStore struct {
	mu     sync.RWMutex
	byID   map[int64]course.Course
	nextID int64
}

// NewCourseStore creates an empty store.
func NewCourseStore() *CourseStore {
	return &CourseStore{byID: make(map[int64]course.Course), nextID: 1}
}

var _ course.Repository = (*CourseStore)(nil)

// List implements course.Repository.
func (s *CourseStore) List(_ context.Context, semester string) ([]course.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]course.Course, 0, len(s.byID))
	for _, c := range s.byID {
		if semester != "" && c.Semester != semester {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Code != out[j].Code {
			return out[i].Code < out[j].Code
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// GetByID implements course.Repository.
func (s *CourseStore) GetByID(_ context.Context, id int64) (*course.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.byID[id]
	if !ok {
		return nil, shared.ErrCourseNotFound
	}
	return &c, nil
}

// Create implements course.Repository.
func (s *CourseStore) Create(_ context.Context, c *course.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.byID {
		if existing.Code == c.Code {
			return shared.ErrCourseAlreadyExists
		}
	}
	c.ID = s.nextID
	s.nextID++
	s.byID[c.ID] = *c
	return nil
}

// Delete implements course.Repository.
func (s *CourseStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return shared.ErrCourseNotFound
	}
	delete(s.byID, id)
	return nil
}
