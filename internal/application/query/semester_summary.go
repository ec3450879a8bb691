package query

import (
	"context"

	"github.com/campus-hub/grading-system/internal/domain/analytics"
	"github.com/campus-hub/grading-system/internal/domain/grade"
	"github.com/campus-hub/grading-system/internal/domain/shared"
)

// GetSemesterSummaryQuery selects a semester by exact name.
type GetSemesterSummaryQuery struct {
	Semester string
}

// Validate проверяет, что семестр указан.
func (q GetSemesterSummaryQuery) Validate() error {
	if q.Semester == "" {
		return shared.Validation("query", "GetSemesterSummary", "semester is required")
	}
	return nil
}

// GetSemesterSummaryHandler computes the pooled semester summary.
type GetSemesterSummaryHandler struct {
	fetcher *Fetcher
}

// NewGetSemesterSummaryHandler создаёт новый обработчик.
func NewGetSemesterSummaryHandler(fetcher *Fetcher) *GetSemesterSummaryHandler {
	return &GetSemesterSummaryHandler{fetcher: fetcher}
}

// Handle выполняет запрос.
func (h *GetSemesterSummaryHandler) Handle(ctx context.Context, q GetSemesterSummaryQuery) (*Result[analytics.SemesterSummary], error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	ds, err := h.fetcher.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	summary, err := analytics.ComputeSemesterSummary(q.Semester, ds.Grades)
	if err != nil {
		return nil, err
	}

	matched := filterGrades(ds.Grades, func(g grade.Grade) bool { return g.Semester == q.Semester })
	return &Result[analytics.SemesterSummary]{
		Data:     summary,
		Warnings: analytics.MissingReferences(ds.Index, matched),
	}, nil
}
