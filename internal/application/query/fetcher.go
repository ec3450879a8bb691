// Package query contains the read operations of the aggregation engine.
package query

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/campus-hub/grading-system/internal/domain/grade"
	"github.com/campus-hub/grading-system/internal/domain/shared"
	"github.com/campus-hub/grading-system/internal/domain/student"
	"github.com/campus-hub/grading-system/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// UPSTREAM SOURCES
// ══════════════════════════════════════════════════════════════════════════════

// StudentSource lists the whole Student Directory.
type StudentSource interface {
	ListStudents(ctx context.Context) ([]student.Student, error)
}

// GradeSource lists the Grade Ledger.
type GradeSource interface {
	ListGrades(ctx context.Context, filter grade.Filter) ([]grade.Grade, error)
}

// Dataset is the request-scoped join input.
type Dataset struct {
	Students []student.Student
	Grades   []grade.Grade
	Index    map[int64]student.Student
}

// Result carries computed data together with non-fatal warnings.
type Result[T any] struct {
	Data     T
	Warnings []shared.Warning
}

// ══════════════════════════════════════════════════════════════════════════════
// FETCHER
// ══════════════════════════════════════════════════════════════════════════════

// Fetcher загружает обе коллекции параллельно. Join начинается только
// после завершения обоих запросов; первая ошибка отменяет второй запрос.
// Повторов нет: таймаут и retry - забота границы сервиса.
type Fetcher struct {
	students StudentSource
	grades   GradeSource
	log      *logger.Logger
}

// NewFetcher создаёт Fetcher.
func NewFetcher(students StudentSource, grades GradeSource, log *logger.Logger) *Fetcher {
	if log == nil {
		log = logger.Discard()
	}
	return &Fetcher{
		students: students,
		grades:   grades,
		log:      log.With(logger.Component("fetcher")),
	}
}

// Fetch returns both collections or an UpstreamUnavailable error naming the
// upstream that failed first.
func (f *Fetcher) Fetch(ctx context.Context) (*Dataset, error) {
	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)

	var (
		students []student.Student
		grades   []grade.Grade
	)

	g.Go(func() error {
		var err error
		students, err = f.students.ListStudents(gctx)
		if err != nil {
			return upstreamError(err, shared.UpstreamStudentDirectory, "ListStudents")
		}
		return nil
	})

	g.Go(func() error {
		var err error
		grades, err = f.grades.ListGrades(gctx, grade.Filter{})
		if err != nil {
			return upstreamError(err, shared.UpstreamGradeLedger, "ListGrades")
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		f.log.Warn("upstream fetch failed",
			logger.Upstream(shared.UpstreamOf(err)),
			logger.Err(err),
			logger.Latency(time.Since(start)),
		)
		return nil, err
	}

	f.log.Debug("upstream fetch complete",
		logger.Int("students", len(students)),
		logger.Int("grades", len(grades)),
		logger.Latency(time.Since(start)),
	)

	return &Dataset{
		Students: students,
		Grades:   grades,
		Index:    student.Index(students),
	}, nil
}

func upstreamError(err error, upstream, op string) error {
	if shared.IsUpstreamUnavailable(err) {
		return err
	}
	return shared.UpstreamUnavailable(upstream, op, err)
}
