// Package course models the course catalog.
package course

import (
	"context"
	"strings"

	"github.com/campus-hub/grading-system/internal/domain/shared"
)

// Course is a catalog entry. Grades reference courses by name only.
type Course struct {
	ID         int64  `json:"id"`
	Code       string `json:"code"`
	Name       string `json:"name"`
	Credits    int    `json:"credits"`
	Instructor string `json:"instructor,omitempty"`
	Semester   string `json:"semester,omitempty"`
}

// Validate checks a course submitted for creation.
func (c *Course) Validate() error {
	c.Code = strings.ToUpper(strings.TrimSpace(c.Code))
	c.Name = strings.TrimSpace(c.Name)
	c.Instructor = strings.TrimSpace(c.Instructor)
	c.Semester = strings.TrimSpace(c.Semester)

	if c.Code == "" {
		return shared.Validation("course", "Validate", "code is required")
	}
	if len(c.Name) < 2 {
		return shared.Validation("course", "Validate", "name must be at least 2 characters")
	}
	if c.Credits < 1 || c.Credits > 6 {
		return shared.Validation("course", "Validate", "credits must be between 1 and 6")
	}
	return nil
}

// Repository defines storage operations for courses.
type Repository interface {
	// List returns courses ordered by code. An empty semester matches all.
	List(ctx context.Context, semester string) ([]Course, error)

	// GetByID returns shared.ErrCourseNotFound if there is no such course.
	GetByID(ctx context.Context, id int64) (*Course, error)

	// Create assigns the id. Returns shared.ErrCourseAlreadyExists on a duplicate code.
	Create(ctx context.Context, c *Course) error

	// Delete returns shared.ErrCourseNotFound if there is no such course.
	Delete(ctx context.Context, id int64) error
}
