// Package enrichment attaches student names to ledger grades by resolving
// student_id against the Student Directory.
package enrichment

import (
	"context"

	"github.com/campus-hub/grading-system/internal/domain/grade"
	"github.com/campus-hub/grading-system/internal/domain/shared"
	"github.com/campus-hub/grading-system/internal/domain/student"
	"github.com/campus-hub/grading-system/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONTRACTS
// ══════════════════════════════════════════════════════════════════════════════

// StudentLookup is the read side of the Student Directory.
type StudentLookup interface {
	ListStudents(ctx context.Context) ([]student.Student, error)
	// GetStudent returns an error matching shared.ErrNotFound for an unknown id.
	GetStudent(ctx context.Context, id int64) (*student.Student, error)
}

// Recorder observes enrichment outcomes. Optional.
type Recorder interface {
	EnrichmentCompleted(status string, missing int)
}

// Status describes how complete an enrichment pass was.
type Status string

const (
	// StatusComplete - every grade resolved to a student.
	StatusComplete Status = "complete"
	// StatusDegraded - some grades reference unknown students.
	StatusDegraded Status = "degraded"
	// StatusUnavailable - the directory could not be reached; names are absent.
	StatusUnavailable Status = "unavailable"
)

// Result is the outcome of one enrichment pass.
type Result struct {
	Grades   []grade.EnrichedGrade
	Warnings []shared.Warning
	Status   Status
}

// ══════════════════════════════════════════════════════════════════════════════
// ENRICHER
// ══════════════════════════════════════════════════════════════════════════════

// Enricher joins grades with directory students.
type Enricher struct {
	lookup   StudentLookup
	recorder Recorder
	log      *logger.Logger
}

// NewEnricher creates an Enricher. recorder may be nil.
func NewEnricher(lookup StudentLookup, recorder Recorder, log *logger.Logger) *Enricher {
	if log == nil {
		log = logger.Discard()
	}
	return &Enricher{
		lookup:   lookup,
		recorder: recorder,
		log:      log.With(logger.Component("enrichment")),
	}
}

// EnrichAll resolves every grade with a single directory listing, so the
// number of upstream calls does not depend on the number of grades.
//
// A grade whose student is missing keeps its place with the sentinel name
// and a missing_reference warning. If the directory is unreachable the
// whole pass fails with an UpstreamUnavailable error; deciding what to
// return to the client is up to the caller.
func (e *Enricher) EnrichAll(ctx context.Context, grades []grade.Grade) (*Result, error) {
	if len(grades) == 0 {
		return e.finish(&Result{Grades: []grade.EnrichedGrade{}, Status: StatusComplete}), nil
	}

	students, err := e.lookup.ListStudents(ctx)
	if err != nil {
		e.log.Warn("student directory lookup failed", logger.Err(err), logger.Int("grades", len(grades)))
		return nil, asUpstream(err, "ListStudents")
	}
	index := student.Index(students)

	res := &Result{Grades: make([]grade.EnrichedGrade, len(grades))}
	for i, g := range grades {
		s, ok := index[g.StudentID]
		if !ok {
			res.Grades[i] = withName(g, student.UnknownName)
			res.Warnings = append(res.Warnings, shared.MissingReference(g.ID, g.StudentID))
			continue
		}
		res.Grades[i] = withName(g, s.Name)
	}
	return e.finish(res), nil
}

// EnrichOne resolves a single grade with a get-by-id call.
func (e *Enricher) EnrichOne(ctx context.Context, g grade.Grade) (*Result, error) {
	s, err := e.lookup.GetStudent(ctx, g.StudentID)
	switch {
	case err == nil:
		return e.finish(&Result{Grades: []grade.EnrichedGrade{withName(g, s.Name)}}), nil
	case shared.IsNotFound(err):
		return e.finish(&Result{
			Grades:   []grade.EnrichedGrade{withName(g, student.UnknownName)},
			Warnings: []shared.Warning{shared.MissingReference(g.ID, g.StudentID)},
		}), nil
	default:
		e.log.Warn("student directory lookup failed", logger.Err(err), logger.GradeID(g.ID))
		return nil, asUpstream(err, "GetStudent")
	}
}

// Unenriched wraps grades without names, for callers that choose to serve
// data while the directory is down.
func (e *Enricher) Unenriched(grades []grade.Grade) *Result {
	res := &Result{Grades: make([]grade.EnrichedGrade, len(grades)), Status: StatusUnavailable}
	for i, g := range grades {
		res.Grades[i] = grade.EnrichedGrade{Grade: g}
	}
	e.record(res)
	return res
}

func (e *Enricher) finish(res *Result) *Result {
	if len(res.Warnings) > 0 {
		res.Status = StatusDegraded
		e.log.Warn("grades reference unknown students", logger.Int("missing", len(res.Warnings)))
	} else {
		res.Status = StatusComplete
	}
	e.record(res)
	return res
}

func (e *Enricher) record(res *Result) {
	if e.recorder != nil {
		e.recorder.EnrichmentCompleted(string(res.Status), len(res.Warnings))
	}
}

func withName(g grade.Grade, name string) grade.EnrichedGrade {
	n := name
	return grade.EnrichedGrade{Grade: g, StudentName: &n}
}

// asUpstream keeps an existing upstream error as is and wraps anything else
// as a directory failure.
func asUpstream(err error, op string) error {
	if shared.IsUpstreamUnavailable(err) {
		return err
	}
	return shared.UpstreamUnavailable(shared.UpstreamStudentDirectory, op, err)
}
