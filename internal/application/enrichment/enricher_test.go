package enrichment

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-hub/grading-system/internal/domain/grade"
	"github.com/campus-hub/grading-system/internal/domain/shared"
	"github.com/campus-hub/grading-system/internal/domain/student"
	"github.com/campus-hub/grading-system/pkg/logger"
)

type fakeLookup struct {
	students  []student.Student
	err       error
	listCalls int
	getCalls  int
}

func (f *fakeLookup) ListStudents(context.Context) ([]student.Student, error) {
	f.listCalls++
	return f.students, f.err
}

func (f *fakeLookup) GetStudent(_ context.Context, id int64) (*student.Student, error) {
	f.getCalls++
	if f.err != nil {
		return nil, f.err
	}
	for _, s := range f.students {
		if s.ID == id {
			s := s
			return &s, nil
		}
	}
	return nil, shared.ErrStudentNotFound
}

type fakeRecorder struct {
	statuses []string
}

func (r *fakeRecorder) EnrichmentCompleted(status string, _ int) {
	r.statuses = append(r.statuses, status)
}

var grades = []grade.Grade{
	{ID: 1, StudentID: 1, Course: "Math", Letter: grade.A, Semester: "Fall 2024", Credits: 3},
	{ID: 2, StudentID: 2, Course: "Math", Letter: grade.B, Semester: "Fall 2024", Credits: 3},
	{ID: 3, StudentID: 1, Course: "Art", Letter: grade.C, Semester: "Fall 2024", Credits: 3},
}

func TestEnrichAll_SingleLookup(t *testing.T) {
	lookup := &fakeLookup{students: []student.Student{{ID: 1, Name: "Alice"}, {ID: 2, Name: "Bob"}}}
	rec := &fakeRecorder{}
	e := NewEnricher(lookup, rec, logger.Discard())

	res, err := e.EnrichAll(context.Background(), grades)
	require.NoError(t, err)

	assert.Equal(t, 1, lookup.listCalls)
	assert.Zero(t, lookup.getCalls)
	assert.Equal(t, StatusComplete, res.Status)
	assert.Empty(t, res.Warnings)
	require.Len(t, res.Grades, 3)
	assert.Equal(t, "Alice", *res.Grades[0].StudentName)
	assert.Equal(t, "Bob", *res.Grades[1].StudentName)
	assert.Equal(t, []string{"complete"}, rec.statuses)
}

func TestEnrichAll_MissingStudentKeepsRecord(t *testing.T) {
	lookup := &fakeLookup{students: []student.Student{{ID: 1, Name: "Alice"}}}
	e := NewEnricher(lookup, nil, nil)

	res, err := e.EnrichAll(context.Background(), grades)
	require.NoError(t, err)

	require.Len(t, res.Grades, 3)
	assert.Equal(t, StatusDegraded, res.Status)
	assert.Equal(t, student.UnknownName, *res.Grades[1].StudentName)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, shared.MissingReference(2, 2), res.Warnings[0])
}

func TestEnrichAll_DirectoryDown(t *testing.T) {
	lookup := &fakeLookup{err: errors.New("connection refused")}
	e := NewEnricher(lookup, nil, nil)

	res, err := e.EnrichAll(context.Background(), grades)
	assert.Nil(t, res)
	assert.True(t, shared.IsUpstreamUnavailable(err))
	assert.Equal(t, shared.UpstreamStudentDirectory, shared.UpstreamOf(err))
}

func TestEnrichAll_NoGradesSkipsLookup(t *testing.T) {
	lookup := &fakeLookup{err: errors.New("down")}
	e := NewEnricher(lookup, nil, nil)

	res, err := e.EnrichAll(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, res.Grades)
	assert.Zero(t, lookup.listCalls)
}

func TestEnrichOne(t *testing.T) {
	lookup := &fakeLookup{students: []student.Student{{ID: 1, Name: "Alice"}}}
	e := NewEnricher(lookup, nil, nil)

	res, err := e.EnrichOne(context.Background(), grades[0])
	require.NoError(t, err)
	assert.Equal(t, "Alice", *res.Grades[0].StudentName)
	assert.Equal(t, StatusComplete, res.Status)

	res, err = e.EnrichOne(context.Background(), grades[1])
	require.NoError(t, err)
	assert.Equal(t, student.UnknownName, *res.Grades[0].StudentName)
	assert.Equal(t, StatusDegraded, res.Status)
	assert.Len(t, res.Warnings, 1)
}

func TestUnenriched(t *testing.T) {
	rec := &fakeRecorder{}
	e := NewEnricher(&fakeLookup{}, rec, nil)

	res := e.Unenriched(grades)
	assert.Equal(t, StatusUnavailable, res.Status)
	for _, g := range res.Grades {
		assert.Nil(t, g.StudentName)
	}
	assert.Equal(t, []string{"unavailable"}, rec.statuses)
}
