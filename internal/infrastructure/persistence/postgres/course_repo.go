package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/campus-hub/grading-system/internal/domain/course"
	"github.com/campus-hub/grading-system/internal/domain/shared"
)

// CourseRepository implements course.Repository for PostgreSQL.
type CourseRepository struct {
	conn *Connection
}

// NewCourseRepository creates a new CourseRepository.
func NewCourseRepository(conn *Connection) *CourseRepository {
	return &CourseRepository{conn: conn}
}

var _ course.Repository = (*CourseRepository)(nil)

const courseColumns = `id, code, name, credits, COALESCE(instructor, ''), COALESCE(semester, '')`

// List implements course.Repository.
func (r *CourseRepository) List(ctx context.Context, semester string) ([]course.Course, error) {
	ctx, cancel := r.conn.withTimeout(ctx)
	defer cancel()

	q := "SELECT " + courseColumns + " FROM courses"
	var args []any
	if semester != "" {
		q += " WHERE semester = $1"
		args = append(args, semester)
	}
	q += " ORDER BY code, id"

	rows, err := r.conn.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	defer rows.Close()

	out := make([]course.Course, 0)
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// GetByID implements course.Repository.
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*course.Course, error) {
	ctx, cancel := r.conn.withTimeout(ctx)
	defer cancel()

	c, err := scanCourse(r.conn.QueryRow(ctx, "SELECT "+courseColumns+" FROM courses WHERE id = $1", id))
	if IsNoRows(err) {
		return nil, shared.ErrCourseNotFound
	}
	return c, err
}

// Create implements course.Repository.
func (r *CourseRepository) Create(ctx context.Context, c *course.Course) error {
	ctx, cancel := r.conn.withTimeout(ctx)
	defer cancel()

	err := r.conn.QueryRow(ctx,
		`INSERT INTO courses (code, name, credits, instructor, semester)
		 VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, '')) RETURNING id`,
		c.Code, c.Name, c.Credits, c.Instructor, c.Semester,
	).Scan(&c.ID)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrCourseAlreadyExists
		}
		return fmt.Errorf("failed to create course: %w", err)
	}
	return nil
}

// Delete implements course.Repository.
func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := r.conn.withTimeout(ctx)
	defer cancel()

	tag, err := r.conn.Exec(ctx, "DELETE FROM courses WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrCourseNotFound
	}
	return nil
}

func scanCourse(row pgx.Row) (*course.Course, error) {
	var c course.Course
	if err := row.Scan(&c.ID, &c.Code, &c.Name, &c.Credits, &c.Instructor, &c.Semester); err != nil {
		if IsNoRows(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan course: %w", err)
	}
	return &c, nil
}
