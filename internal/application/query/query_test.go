package query

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-hub/grading-system/internal/domain/grade"
	"github.com/campus-hub/grading-system/internal/domain/shared"
	"github.com/campus-hub/grading-system/internal/domain/student"
)

type studentsStub struct {
	students []student.Student
	err      error
	delay    time.Duration
}

func (s studentsStub) ListStudents(ctx context.Context) ([]student.Student, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.students, s.err
}

type gradesStub struct {
	grades    []grade.Grade
	err       error
	cancelled *atomic.Bool
	block     bool
}

func (s gradesStub) ListGrades(ctx context.Context, _ grade.Filter) ([]grade.Grade, error) {
	if s.block {
		<-ctx.Done()
		if s.cancelled != nil {
			s.cancelled.Store(true)
		}
		return nil, ctx.Err()
	}
	return s.grades, s.err
}

func directory() studentsStub {
	return studentsStub{students: []student.Student{
		{ID: 1, Name: "Alice Johnson"},
		{ID: 2, Name: "Bob Smith"},
		{ID: 3, Name: "Carol White"},
	}}
}

func ledger() gradesStub {
	return gradesStub{grades: []grade.Grade{
		{ID: 1, StudentID: 1, Course: "Physics", Letter: grade.A, Semester: "Fall 2024", Credits: 4},
		{ID: 2, StudentID: 2, Course: "Art", Letter: grade.F, Semester: "Fall 2024", Credits: 1},
		{ID: 3, StudentID: 2, Course: "Physics", Letter: grade.B, Semester: "Spring 2025", Credits: 4},
		{ID: 4, StudentID: 42, Course: "Physics", Letter: grade.C, Semester: "Spring 2025", Credits: 3},
	}}
}

func TestFetcher_UpstreamFailureNamesUpstream(t *testing.T) {
	tests := []struct {
		name     string
		students StudentSource
		grades   GradeSource
		want     string
	}{
		{"directory down", studentsStub{err: errors.New("connection refused")}, ledger(), shared.UpstreamStudentDirectory},
		{"ledger down", directory(), gradesStub{err: errors.New("status 502")}, shared.UpstreamGradeLedger},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := NewFetcher(tt.students, tt.grades, nil).Fetch(context.Background())
			assert.Nil(t, ds)
			assert.True(t, shared.IsUpstreamUnavailable(err))
			assert.Equal(t, tt.want, shared.UpstreamOf(err))
		})
	}
}

func TestFetcher_FailureCancelsSibling(t *testing.T) {
	var cancelled atomic.Bool
	f := NewFetcher(
		studentsStub{err: errors.New("boom"), delay: 10 * time.Millisecond},
		gradesStub{block: true, cancelled: &cancelled},
		nil,
	)

	_, err := f.Fetch(context.Background())
	require.Error(t, err)
	assert.True(t, cancelled.Load())
}

func TestGetStudentGPA(t *testing.T) {
	h := NewGetStudentGPAHandler(NewFetcher(directory(), ledger(), nil))

	res, err := h.Handle(context.Background(), GetStudentGPAQuery{StudentID: 2})
	require.NoError(t, err)
	assert.Equal(t, "Bob Smith", res.Data.StudentName)
	// (0×1 + 3.0×4) / 5 = 2.4
	assert.Equal(t, 2.4, res.Data.GPA)
	assert.Equal(t, 5, res.Data.TotalCredits)
	assert.Empty(t, res.Warnings)
}

func TestGetStudentGPA_KnownStudentWithoutGrades(t *testing.T) {
	h := NewGetStudentGPAHandler(NewFetcher(directory(), ledger(), nil))

	res, err := h.Handle(context.Background(), GetStudentGPAQuery{StudentID: 3})
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Data.GPA)
	assert.Zero(t, res.Data.GradesCount)
}

func TestGetStudentGPA_UnknownStudent(t *testing.T) {
	h := NewGetStudentGPAHandler(NewFetcher(directory(), ledger(), nil))

	_, err := h.Handle(context.Background(), GetStudentGPAQuery{StudentID: 77})
	assert.True(t, shared.IsNotFound(err))

	res, err := h.Handle(context.Background(), GetStudentGPAQuery{StudentID: 42})
	require.NoError(t, err)
	assert.Equal(t, student.UnknownName, res.Data.StudentName)
	assert.Equal(t, 2.0, res.Data.GPA)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, int64(4), res.Warnings[0].GradeID)
}

func TestGetStudentGPA_InvalidID(t *testing.T) {
	h := NewGetStudentGPAHandler(NewFetcher(directory(), ledger(), nil))
	_, err := h.Handle(context.Background(), GetStudentGPAQuery{StudentID: 0})
	assert.True(t, shared.IsValidation(err))
}

func TestGetCourseAverage(t *testing.T) {
	h := NewGetCourseAverageHandler(NewFetcher(directory(), ledger(), nil))

	res, err := h.Handle(context.Background(), GetCourseAverageQuery{Course: "Physics"})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Data.GradesCount)
	assert.Equal(t, 3, res.Data.StudentsCount)
	assert.Equal(t, map[string]int{"A": 1, "B": 1, "C": 1}, res.Data.GradeDistribution)
	require.Len(t, res.Warnings, 1)

	_, err = h.Handle(context.Background(), GetCourseAverageQuery{})
	assert.True(t, shared.IsValidation(err))
}

func TestGetSemesterSummary_Pooled(t *testing.T) {
	h := NewGetSemesterSummaryHandler(NewFetcher(directory(), ledger(), nil))

	res, err := h.Handle(context.Background(), GetSemesterSummaryQuery{Semester: "Fall 2024"})
	require.NoError(t, err)
	assert.Equal(t, 3.2, res.Data.AverageGPA)
	assert.Equal(t, 2, res.Data.TotalStudents)
	assert.Equal(t, []string{"Art", "Physics"}, res.Data.Courses)
	assert.Empty(t, res.Warnings)
}

func TestGetTopStudents(t *testing.T) {
	h := NewGetTopStudentsHandler(NewFetcher(directory(), ledger(), nil))

	res, err := h.Handle(context.Background(), GetTopStudentsQuery{})
	require.NoError(t, err)
	require.Len(t, res.Data, 3)
	assert.Equal(t, []int64{1, 2, 3}, []int64{res.Data[0].StudentID, res.Data[1].StudentID, res.Data[2].StudentID})
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, int64(42), res.Warnings[0].StudentID)

	res, err = h.Handle(context.Background(), GetTopStudentsQuery{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, res.Data, 1)

	_, err = h.Handle(context.Background(), GetTopStudentsQuery{Limit: -1})
	assert.ErrorIs(t, err, shared.ErrInvalidLimit)
}

func TestGetTopStudents_DirectoryDown(t *testing.T) {
	h := NewGetTopStudentsHandler(NewFetcher(studentsStub{err: errors.New("timeout")}, ledger(), nil))

	res, err := h.Handle(context.Background(), GetTopStudentsQuery{})
	assert.Nil(t, res)
	assert.Equal(t, shared.UpstreamStudentDirectory, shared.UpstreamOf(err))
}
