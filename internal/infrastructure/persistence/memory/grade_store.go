package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/campus-hub/grading-system/internal/domain/grade"
	"github.com/campus-hub/grading-system/internal/domain/shared"
)

// GradeStore implements grade.Repository.
type GradeStore struct {
	mu     sync.RWMutex
	byID   map[int64]grade.Grade
	nextID int64
}

// NewGradeStore creates an empty store.
func NewGradeStore() *GradeStore {
	return &GradeStore{byID: make(map[int64]grade.Grade), nextID: 1}
}

var _ grade.Repository = (*GradeStore)(nil)

// List implements grade.Repository.
func (s *GradeStore) List(_ context.Context, f grade.Filter) ([]grade.Grade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	course := strings.ToLower(f.Course)
	out := make([]grade.Grade, 0, len(s.byID))
	for _, g := range s.byID {
		if f.StudentID != 0 && g.StudentID != f.StudentID {
			continue
		}
		if course != "" && !strings.Contains(strings.ToLower(g.Course), course) {
			continue
		}
		if f.Semester != "" && g.Semester != f.Semester {
			continue
		}
		out = append(out, g)
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Semester != b.Semester {
			return a.Semester > b.Semester
		}
		if a.Course != b.Course {
			return a.Course < b.Course
		}
		return a.ID < b.ID
	})
	return out, nil
}

// GetByID implements grade.Repository.
func (s *GradeStore) GetByID(_ context.Context, id int64) (*grade.Grade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.byID[id]
	if !ok {
		return nil, shared.ErrGradeNotFound
	}
	return &g, nil
}

// Create implements grade.Repository.
func (s *GradeStore) Create(_ context.Context, g *grade.Grade) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g.ID = s.nextID
	s.nextID++
	s.byID[g.ID] = *g
	return nil
}

// Delete implements grade.Repository.
func (s *GradeStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return shared.ErrGradeNotFound
	}
	delete(s.byID, id)
	return nil
}

// Semesters implements grade.Repository.
func (s *GradeStore) Semesters(_ context.Context) ([]string, error) {
	out := s.distinct(func(g grade.Grade) string { return g.Semester })
	sort.Sort(sort.Reverse(sort.StringSlice(out)))
	return out, nil
}

// Courses implements grade.Repository.
func (s *GradeStore) Courses(_ context.Context) ([]string, error) {
	out := s.distinct(func(g grade.Grade) string { return g.Course })
	sort.Strings(out)
	return out, nil
}

func (s *GradeStore) distinct(key func(grade.Grade) string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, g := range s.byID {
		k := key(g)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
