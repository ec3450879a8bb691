package query

import (
	"context"

	"github.com/campus-hub/grading-system/internal/domain/analytics"
	"github.com/campus-hub/grading-system/internal/domain/grade"
	"github.com/campus-hub/grading-system/internal/domain/shared"
)

// GetCourseAverageQuery selects a course by its exact, case-sensitive name.
type GetCourseAverageQuery struct {
	Course string
}

// Validate проверяет, что курс указан.
func (q GetCourseAverageQuery) Validate() error {
	if q.Course == "" {
		return shared.Validation("query", "GetCourseAverage", "course is required")
	}
	return nil
}

// GetCourseAverageHandler computes course statistics.
type GetCourseAverageHandler struct {
	fetcher *Fetcher
}

// NewGetCourseAverageHandler создаёт новый обработчик.
func NewGetCourseAverageHandler(fetcher *Fetcher) *GetCourseAverageHandler {
	return &GetCourseAverageHandler{fetcher: fetcher}
}

// Handle returns zeros for a course with no grades. Grades of students the
// directory does not know still count and produce warnings.
func (h *GetCourseAverageHandler) Handle(ctx context.Context, q GetCourseAverageQuery) (*Result[analytics.CourseAverage], error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	ds, err := h.fetcher.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	avg, err := analytics.ComputeCourseAverage(q.Course, ds.Grades)
	if err != nil {
		return nil, err
	}

	matched := filterGrades(ds.Grades, func(g grade.Grade) bool { return g.Course == q.Course })
	return &Result[analytics.CourseAverage]{
		Data:     avg,
		Warnings: analytics.MissingReferences(ds.Index, matched),
	}, nil
}
