package student

import "context"

// Filter narrows a directory listing. Zero values match everything.
type Filter struct {
	// Search is a case-insensitive substring of the name.
	Search string
	// Major is an exact major name.
	Major string
}

// Repository defines storage operations for students.
type Repository interface {
	// List returns students ordered by name, then id.
	List(ctx context.Context, filter Filter) ([]Student, error)

	// GetByID returns shared.ErrStudentNotFound if there is no such student.
	GetByID(ctx context.Context, id int64) (*Student, error)

	// Create assigns the id. Returns shared.ErrStudentAlreadyExists on a duplicate email.
	Create(ctx context.Context, s *Student) error

	// Delete returns shared.ErrStudentNotFound if there is no such student.
	Delete(ctx context.Context, id int64) error

	// Majors returns the distinct non-empty majors, sorted.
	Majors(ctx context.Context) ([]string, error)
}
