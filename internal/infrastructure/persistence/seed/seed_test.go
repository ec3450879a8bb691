package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-hub/grading-system/internal/domain/course"
	"github.com/campus-hub/grading-system/internal/domain/grade"
	"github.com/campus-hub/grading-system/internal/domain/student"
	"github.com/campus-hub/grading-system/internal/infrastructure/persistence/memory"
)

func TestSeedData_IsValid(t *testing.T) {
	for _, s := range Students() {
		s := s
		assert.NoError(t, s.Validate(), s.Email)
	}
	for _, g := range Grades() {
		g := g
		assert.NoError(t, g.Validate(), g.Course)
	}
	for _, c := range Courses() {
		c := c
		assert.NoError(t, c.Validate(), c.Code)
	}
}

func TestLoad_Idempotent(t *testing.T) {
	ctx := context.Background()
	students := memory.NewStudentStore()

	n, err := LoadStudents(ctx, students)
	require.NoError(t, err)
	assert.Equal(t, 10, n)

	n, err = LoadStudents(ctx, students)
	require.NoError(t, err)
	assert.Zero(t, n)

	all, err := students.List(ctx, student.Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 10)

	alice, err := students.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Alice Johnson", alice.Name)
}

func TestLoadGradesAndCourses(t *testing.T) {
	ctx := context.Background()
	grades := memory.NewGradeStore()
	courses := memory.NewCourseStore()

	n, err := LoadGrades(ctx, grades)
	require.NoError(t, err)
	assert.Equal(t, 21, n)

	fall, err := grades.List(ctx, grade.Filter{Semester: "Fall 2024"})
	require.NoError(t, err)
	assert.Len(t, fall, 14)

	n, err = LoadCourses(ctx, courses)
	require.NoError(t, err)
	assert.Equal(t, len(Courses()), n)

	list, err := courses.List(ctx, "Spring 2024")
	require.NoError(t, err)
	assert.Equal(t, []course.Course{{ID: 4, Code: "CS320", Name: "Computer Networks", Credits: 3, Instructor: "Dr. Radia Perlman", Semester: "Spring 2024"}}, list)
}
