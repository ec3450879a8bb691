package query

import (
	"context"

	"github.com/campus-hub/grading-system/internal/domain/analytics"
	"github.com/campus-hub/grading-system/internal/domain/grade"
	"github.com/campus-hub/grading-system/internal/domain/shared"
	"github.com/campus-hub/grading-system/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET STUDENT GPA QUERY
// ══════════════════════════════════════════════════════════════════════════════

// GetStudentGPAQuery содержит параметры запроса GPA студента.
type GetStudentGPAQuery struct {
	StudentID int64
}

// Validate проверяет корректность параметров запроса.
func (q GetStudentGPAQuery) Validate() error {
	if q.StudentID <= 0 {
		return shared.WrapError("query", "GetStudentGPA", shared.ErrInvalidID,
			"student_id must be a positive integer", nil)
	}
	return nil
}

// GetStudentGPAHandler обрабатывает запрос GPA студента.
type GetStudentGPAHandler struct {
	fetcher *Fetcher
}

// NewGetStudentGPAHandler создаёт новый обработчик.
func NewGetStudentGPAHandler(fetcher *Fetcher) *GetStudentGPAHandler {
	return &GetStudentGPAHandler{fetcher: fetcher}
}

// Handle computes the GPA. A student unknown to the directory is NotFound
// unless the ledger still holds grades for that id; those are computed
// under the sentinel name with warnings.
func (h *GetStudentGPAHandler) Handle(ctx context.Context, q GetStudentGPAQuery) (*Result[analytics.StudentGPA], error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	ds, err := h.fetcher.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	s, known := ds.Index[q.StudentID]
	name := s.Name
	if !known {
		name = student.UnknownName
	}

	gpa, err := analytics.ComputeStudentGPA(q.StudentID, name, ds.Grades)
	if err != nil {
		return nil, err
	}

	if known {
		return &Result[analytics.StudentGPA]{Data: gpa}, nil
	}
	if gpa.GradesCount == 0 {
		return nil, shared.ErrStudentNotFound
	}

	own := filterGrades(ds.Grades, func(g grade.Grade) bool { return g.StudentID == q.StudentID })
	return &Result[analytics.StudentGPA]{
		Data:     gpa,
		Warnings: analytics.MissingReferences(ds.Index, own),
	}, nil
}

func filterGrades(grades []grade.Grade, keep func(grade.Grade) bool) []grade.Grade {
	var out []grade.Grade
	for _, g := range grades {
		if keep(g) {
			out = append(out, g)
		}
	}
	return out
}
