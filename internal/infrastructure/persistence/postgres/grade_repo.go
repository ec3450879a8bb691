package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/campus-hub/grading-system/internal/domain/grade"
	"github.com/campus-hub/grading-system/internal/domain/shared"
)

// GradeRepository implements grade.Repository for PostgreSQL.
type GradeRepository struct {
	conn *Connection
}

// NewGradeRepository creates a new GradeRepository.
func NewGradeRepository(conn *Connection) *GradeRepository {
	return &GradeRepository{conn: conn}
}

var _ grade.Repository = (*GradeRepository)(nil)

const gradeColumns = `id, student_id, course, grade, semester, credits`

// buildGradeQuery renders the list query for a filter.
func buildGradeQuery(f grade.Filter) (string, []any) {
	var (
		where []string
		args  []any
	)
	if f.StudentID != 0 {
		args = append(args, f.StudentID)
		where = append(where, fmt.Sprintf("student_id = $%d", len(args)))
	}
	if f.Course != "" {
		args = append(args, "%"+f.Course+"%")
		where = append(where, fmt.Sprintf("course ILIKE $%d", len(args)))
	}
	if f.Semester != "" {
		args = append(args, f.Semester)
		where = append(where, fmt.Sprintf("semester = $%d", len(args)))
	}

	q := "SELECT " + gradeColumns + " FROM grades"
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	return q + " ORDER BY semester DESC, course, id", args
}

// List implements grade.Repository.
func (r *GradeRepository) List(ctx context.Context, f grade.Filter) ([]grade.Grade, error) {
	ctx, cancel := r.conn.withTimeout(ctx)
	defer cancel()

	q, args := buildGradeQuery(f)
	rows, err := r.conn.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list grades: %w", err)
	}
	defer rows.Close()

	out := make([]grade.Grade, 0)
	for rows.Next() {
		g, err := scanGrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *g)
	}
	return out, rows.Err()
}

// GetByID implements grade.Repository.
func (r *GradeRepository) GetByID(ctx context.Context, id int64) (*grade.Grade, error) {
	ctx, cancel := r.conn.withTimeout(ctx)
	defer cancel()

	g, err := scanGrade(r.conn.QueryRow(ctx, "SELECT "+gradeColumns+" FROM grades WHERE id = $1", id))
	if IsNoRows(err) {
		return nil, shared.ErrGradeNotFound
	}
	return g, err
}

// Create implements grade.Repository.
func (r *GradeRepository) Create(ctx context.Context, g *grade.Grade) error {
	ctx, cancel := r.conn.withTimeout(ctx)
	defer cancel()

	err := r.conn.QueryRow(ctx,
		`INSERT INTO grades (student_id, course, grade, semester, credits) VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		g.StudentID, g.Course, string(g.Letter), g.Semester, g.Credits,
	).Scan(&g.ID)
	if err != nil {
		return fmt.Errorf("failed to create grade: %w", err)
	}
	return nil
}

// Delete implements grade.Repository.
func (r *GradeRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := r.conn.withTimeout(ctx)
	defer cancel()

	tag, err := r.conn.Exec(ctx, "DELETE FROM grades WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete grade: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrGradeNotFound
	}
	return nil
}

// Semesters implements grade.Repository.
func (r *GradeRepository) Semesters(ctx context.Context) ([]string, error) {
	return queryStrings(ctx, r.conn, "SELECT DISTINCT semester FROM grades ORDER BY semester DESC")
}

// Courses implements grade.Repository.
func (r *GradeRepository) Courses(ctx context.Context) ([]string, error) {
	return queryStrings(ctx, r.conn, "SELECT DISTINCT course FROM grades ORDER BY course")
}

func scanGrade(row pgx.Row) (*grade.Grade, error) {
	var (
		g      grade.Grade
		letter string
	)
	if err := row.Scan(&g.ID, &g.StudentID, &g.Course, &letter, &g.Semester, &g.Credits); err != nil {
		if IsNoRows(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan grade: %w", err)
	}
	g.Letter = grade.Letter(letter)
	return &g, nil
}
