package grade

import "context"

// Filter narrows a ledger listing. Zero values match everything.
type Filter struct {
	StudentID int64
	// Course is a case-insensitive substring of the course name.
	Course string
	// Semester is an exact semester name.
	Semester string
}

// Repository defines storage operations for grades.
type Repository interface {
	// List returns grades ordered by semester descending, then course, then id.
	List(ctx context.Context, filter Filter) ([]Grade, error)

	// GetByID returns shared.ErrGradeNotFound if there is no such grade.
	GetByID(ctx context.Context, id int64) (*Grade, error)

	// Create assigns the id.
	Create(ctx context.Context, g *Grade) error

	// Delete returns shared.ErrGradeNotFound if there is no such grade.
	Delete(ctx context.Context, id int64) error

	// Semesters returns distinct semesters, descending.
	Semesters(ctx context.Context) ([]string, error)

	// Courses returns distinct course names, ascending.
	Courses(ctx context.Context) ([]string, error)
}
