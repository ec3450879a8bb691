package query

import (
	"context"

	"github.com/campus-hub/grading-system/internal/domain/analytics"
	"github.com/campus-hub/grading-system/internal/domain/shared"
)

// GetTopStudentsQuery содержит параметры рейтинга.
type GetTopStudentsQuery struct {
	// Limit - размер рейтинга. 0 означает значение по умолчанию.
	Limit int
}

// Validate применяет значение по умолчанию и отклоняет отрицательный limit.
func (q *GetTopStudentsQuery) Validate() error {
	if q.Limit < 0 {
		return shared.WrapError("query", "GetTopStudents", shared.ErrInvalidLimit,
			"limit must be a positive integer", nil)
	}
	if q.Limit == 0 {
		q.Limit = analytics.DefaultTopLimit
	}
	return nil
}

// GetTopStudentsHandler ranks directory students by GPA.
type GetTopStudentsHandler struct {
	fetcher *Fetcher
}

// NewGetTopStudentsHandler создаёт новый обработчик.
func NewGetTopStudentsHandler(fetcher *Fetcher) *GetTopStudentsHandler {
	return &GetTopStudentsHandler{fetcher: fetcher}
}

// Handle выполняет запрос.
func (h *GetTopStudentsHandler) Handle(ctx context.Context, q GetTopStudentsQuery) (*Result[[]analytics.RankedStudent], error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	ds, err := h.fetcher.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	ranked, warnings, err := analytics.RankStudents(ds.Students, ds.Grades, q.Limit)
	if err != nil {
		return nil, err
	}
	return &Result[[]analytics.RankedStudent]{Data: ranked, Warnings: warnings}, nil
}
