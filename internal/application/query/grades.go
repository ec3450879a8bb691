package query

import (
	"context"

	"github.com/campus-hub/grading-system/internal/application/enrichment"
	"github.com/campus-hub/grading-system/internal/domain/grade"
	"github.com/campus-hub/grading-system/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GRADE LEDGER READS
// Чтение журнала с подстановкой имён студентов. Если справочник недоступен,
// поведение зависит от режима: strict - ошибка 503, иначе записи без имён.
// ══════════════════════════════════════════════════════════════════════════════

// GradeListing is a ledger read as served to clients.
type GradeListing struct {
	// Grades is []grade.Grade when enrichment was not requested and
	// []grade.EnrichedGrade otherwise.
	Grades     any
	Count      int
	Warnings   []shared.Warning
	Enrichment enrichment.Status
}

// ListGradesQuery содержит фильтры списка оценок.
type ListGradesQuery struct {
	Filter grade.Filter
	Enrich bool
}

// Validate проверяет корректность фильтров.
func (q ListGradesQuery) Validate() error {
	if q.Filter.StudentID < 0 {
		return shared.WrapError("query", "ListGrades", shared.ErrInvalidID,
			"student_id must be a positive integer", nil)
	}
	return nil
}

// GradeReader serves ledger listings.
type GradeReader struct {
	repo     grade.Repository
	enricher *enrichment.Enricher
	strict   bool
}

// NewGradeReader создаёт обработчик чтения. strict включает отказ при
// недоступном справочнике.
func NewGradeReader(repo grade.Repository, enricher *enrichment.Enricher, strict bool) *GradeReader {
	return &GradeReader{repo: repo, enricher: enricher, strict: strict}
}

// List returns the filtered ledger.
func (h *GradeReader) List(ctx context.Context, q ListGradesQuery) (*GradeListing, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	grades, err := h.repo.List(ctx, q.Filter)
	if err != nil {
		return nil, err
	}

	if !q.Enrich {
		return &GradeListing{Grades: grades, Count: len(grades)}, nil
	}

	res, err := h.enricher.EnrichAll(ctx, grades)
	if err != nil {
		if h.strict {
			return nil, err
		}
		res = h.enricher.Unenriched(grades)
	}
	return listing(res), nil
}

// Get returns one enriched grade.
func (h *GradeReader) Get(ctx context.Context, id int64) (*GradeListing, error) {
	if id <= 0 {
		return nil, shared.WrapError("query", "GetGrade", shared.ErrInvalidID,
			"id must be a positive integer", nil)
	}

	g, err := h.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	res, err := h.enricher.EnrichOne(ctx, *g)
	if err != nil {
		if h.strict {
			return nil, err
		}
		res = h.enricher.Unenriched([]grade.Grade{*g})
	}
	return listing(res), nil
}

func listing(res *enrichment.Result) *GradeListing {
	return &GradeListing{
		Grades:     res.Grades,
		Count:      len(res.Grades),
		Warnings:   res.Warnings,
		Enrichment: res.Status,
	}
}
