package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/campus-hub/grading-system/internal/domain/shared"
	"github.com/campus-hub/grading-system/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// StudentRepository implements student.Repository for PostgreSQL.
type StudentRepository struct {
	conn *Connection
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(conn *Connection) *StudentRepository {
	return &StudentRepository{conn: conn}
}

var _ student.Repository = (*StudentRepository)(nil)

const studentColumns = `id, name, email, age, major, gpa`

// buildStudentQuery renders the list query for a filter.
func buildStudentQuery(f student.Filter) (string, []any) {
	var (
		where []string
		args  []any
	)
	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, "%"+s+"%")
		where = append(where, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	if f.Major != "" {
		args = append(args, f.Major)
		where = append(where, fmt.Sprintf("major = $%d", len(args)))
	}

	q := "SELECT " + studentColumns + " FROM students"
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	return q + " ORDER BY name, id", args
}

// List implements student.Repository.
func (r *StudentRepository) List(ctx context.Context, f student.Filter) ([]student.Student, error) {
	ctx, cancel := r.conn.withTimeout(ctx)
	defer cancel()

	q, args := buildStudentQuery(f)
	rows, err := r.conn.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	defer rows.Close()

	out := make([]student.Student, 0)
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

// GetByID implements student.Repository.
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*student.Student, error) {
	ctx, cancel := r.conn.withTimeout(ctx)
	defer cancel()

	row := r.conn.QueryRow(ctx, "SELECT "+studentColumns+" FROM students WHERE id = $1", id)
	s, err := scanStudent(row)
	if IsNoRows(err) {
		return nil, shared.ErrStudentNotFound
	}
	return s, err
}

// Create implements student.Repository.
func (r *StudentRepository) Create(ctx context.Context, s *student.Student) error {
	ctx, cancel := r.conn.withTimeout(ctx)
	defer cancel()

	err := r.conn.QueryRow(ctx,
		`INSERT INTO students (name, email, age, major, gpa) VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		s.Name, s.Email, s.Age, s.Major, s.GPA,
	).Scan(&s.ID)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrStudentAlreadyExists
		}
		return fmt.Errorf("failed to create student: %w", err)
	}
	return nil
}

// Delete implements student.Repository.
func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := r.conn.withTimeout(ctx)
	defer cancel()

	tag, err := r.conn.Exec(ctx, "DELETE FROM students WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrStudentNotFound
	}
	return nil
}

// Majors implements student.Repository.
func (r *StudentRepository) Majors(ctx context.Context) ([]string, error) {
	return queryStrings(ctx, r.conn,
		"SELECT DISTINCT major FROM students WHERE major IS NOT NULL AND major <> '' ORDER BY major")
}

func scanStudent(row pgx.Row) (*student.Student, error) {
	var s student.Student
	if err := row.Scan(&s.ID, &s.Name, &s.Email, &s.Age, &s.Major, &s.GPA); err != nil {
		if IsNoRows(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan student: %w", err)
	}
	return &s, nil
}

// queryStrings runs a single-column text query.
func queryStrings(ctx context.Context, conn *Connection, q string, args ...any) ([]string, error) {
	ctx, cancel := conn.withTimeout(ctx)
	defer cancel()

	rows, err := conn.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
