package query

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-hub/grading-system/internal/application/enrichment"
	"github.com/campus-hub/grading-system/internal/domain/grade"
	"github.com/campus-hub/grading-system/internal/domain/shared"
	"github.com/campus-hub/grading-system/internal/domain/student"
	"github.com/campus-hub/grading-system/internal/infrastructure/persistence/memory"
)

type lookupStub struct {
	studentsStub
}

func (l lookupStub) GetStudent(ctx context.Context, id int64) (*student.Student, error) {
	if l.err != nil {
		return nil, l.err
	}
	for _, s := range l.students {
		if s.ID == id {
			s := s
			return &s, nil
		}
	}
	return nil, shared.ErrStudentNotFound
}

func gradeLedger(t *testing.T) *memory.GradeStore {
	t.Helper()
	store := memory.NewGradeStore()
	for _, g := range []grade.Grade{
		{StudentID: 1, Course: "CS101", Letter: "A", Semester: "Fall 2024", Credits: 3},
		{StudentID: 42, Course: "CS101", Letter: "B", Semester: "Fall 2024", Credits: 3},
	} {
		g := g
		require.NoError(t, store.Create(context.Background(), &g))
	}
	return store
}

func TestGradeReader_ListEnrichesWithSentinel(t *testing.T) {
	reader := NewGradeReader(gradeLedger(t), enrichment.NewEnricher(lookupStub{directory()}, nil, nil), false)

	out, err := reader.List(context.Background(), ListGradesQuery{Enrich: true})
	require.NoError(t, err)

	grades := out.Grades.([]grade.EnrichedGrade)
	require.Len(t, grades, 2)
	assert.Equal(t, enrichment.StatusDegraded, out.Enrichment)
	assert.Equal(t, "Alice Johnson", *grades[0].StudentName)
	assert.Equal(t, student.UnknownName, *grades[1].StudentName)
	require.Len(t, out.Warnings, 1)
	assert.Equal(t, int64(42), out.Warnings[0].StudentID)
}

func TestGradeReader_ListWithoutEnrichmentSkipsDirectory(t *testing.T) {
	down := lookupStub{studentsStub{err: errors.New("must not be called")}}
	reader := NewGradeReader(gradeLedger(t), enrichment.NewEnricher(down, nil, nil), true)

	out, err := reader.List(context.Background(), ListGradesQuery{Enrich: false})
	require.NoError(t, err)

	assert.Len(t, out.Grades.([]grade.Grade), 2)
	assert.Empty(t, out.Enrichment)
}

func TestGradeReader_DirectoryDown(t *testing.T) {
	down := lookupStub{studentsStub{err: errors.New("connection refused")}}

	t.Run("lenient serves records without names", func(t *testing.T) {
		reader := NewGradeReader(gradeLedger(t), enrichment.NewEnricher(down, nil, nil), false)

		out, err := reader.List(context.Background(), ListGradesQuery{Enrich: true})
		require.NoError(t, err)
		assert.Equal(t, enrichment.StatusUnavailable, out.Enrichment)
		for _, g := range out.Grades.([]grade.EnrichedGrade) {
			assert.Nil(t, g.StudentName)
		}
	})

	t.Run("strict fails naming the directory", func(t *testing.T) {
		reader := NewGradeReader(gradeLedger(t), enrichment.NewEnricher(down, nil, nil), true)

		_, err := reader.List(context.Background(), ListGradesQuery{Enrich: true})
		require.Error(t, err)
		assert.Equal(t, shared.UpstreamStudentDirectory, shared.UpstreamOf(err))

		_, err = reader.Get(context.Background(), 1)
		assert.True(t, shared.IsUpstreamUnavailable(err))
	})
}

func TestGradeReader_Get(t *testing.T) {
	reader := NewGradeReader(gradeLedger(t), enrichment.NewEnricher(lookupStub{directory()}, nil, nil), false)

	out, err := reader.Get(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, enrichment.StatusDegraded, out.Enrichment)
	assert.Len(t, out.Warnings, 1)

	_, err = reader.Get(context.Background(), 99)
	assert.True(t, shared.IsNotFound(err))

	_, err = reader.Get(context.Background(), 0)
	assert.True(t, shared.IsValidation(err))
}
