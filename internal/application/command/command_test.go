package command

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-hub/grading-system/internal/domain/course"
	"github.com/campus-hub/grading-system/internal/domain/grade"
	"github.com/campus-hub/grading-system/internal/domain/notification"
	"github.com/campus-hub/grading-system/internal/domain/shared"
	"github.com/campus-hub/grading-system/internal/domain/student"
	"github.com/campus-hub/grading-system/internal/infrastructure/persistence/memory"
)

type directoryStub struct {
	students map[int64]student.Student
	err      error
}

func (d directoryStub) GetStudent(_ context.Context, id int64) (*student.Student, error) {
	if d.err != nil {
		return nil, d.err
	}
	s, ok := d.students[id]
	if !ok {
		return nil, shared.NewDomainError(shared.UpstreamStudentDirectory, "GetStudent", shared.ErrNotFound, "student not found")
	}
	return &s, nil
}

type notifierStub struct {
	calls []string
}

func (n *notifierStub) NotifyGradeCreated(_ context.Context, g grade.Grade, name string) []notification.Notification {
	n.calls = append(n.calls, name)
	return []notification.Notification{{ID: "n-1", Event: notification.EventGradeCreated, GradeID: g.ID, Status: notification.StatusSent}}
}

func aliceDirectory() directoryStub {
	return directoryStub{students: map[int64]student.Student{1: {ID: 1, Name: "Alice Johnson"}}}
}

func TestCreateGrade_StoresAndNotifies(t *testing.T) {
	repo := memory.NewGradeStore()
	notifier := &notifierStub{}
	h := NewCreateGradeHandler(repo, aliceDirectory(), notifier, nil)

	res, err := h.Handle(context.Background(), CreateGradeCommand{
		StudentID: 1, Course: " CS101 ", Letter: "A-", Semester: "Fall 2024",
	})
	require.NoError(t, err)

	assert.NotZero(t, res.Grade.ID)
	assert.Equal(t, "CS101", res.Grade.Course)
	assert.Equal(t, grade.Letter("A-"), res.Grade.Letter)
	assert.Equal(t, grade.DefaultCredits, res.Grade.Credits)
	require.NotNil(t, res.Grade.StudentName)
	assert.Equal(t, "Alice Johnson", *res.Grade.StudentName)
	assert.Equal(t, []string{"Alice Johnson"}, notifier.calls)
	require.Len(t, res.Notifications, 1)

	stored, err := repo.GetByID(context.Background(), res.Grade.ID)
	require.NoError(t, err)
	assert.Equal(t, res.Grade.Grade, *stored)
}

func TestCreateGrade_Rejections(t *testing.T) {
	tests := []struct {
		name      string
		directory directoryStub
		cmd       CreateGradeCommand
		check     func(t *testing.T, err error)
	}{
		{
			name:      "unknown letter",
			directory: aliceDirectory(),
			cmd:       CreateGradeCommand{StudentID: 1, Course: "CS101", Letter: "E", Semester: "Fall 2024"},
			check:     func(t *testing.T, err error) { assert.True(t, errors.Is(err, shared.ErrUnknownGrade)) },
		},
		{
			name:      "credits out of range",
			directory: aliceDirectory(),
			cmd:       CreateGradeCommand{StudentID: 1, Course: "CS101", Letter: "A", Semester: "Fall 2024", Credits: 7},
			check:     func(t *testing.T, err error) { assert.True(t, shared.IsValidation(err)) },
		},
		{
			name:      "student missing from directory",
			directory: aliceDirectory(),
			cmd:       CreateGradeCommand{StudentID: 2, Course: "CS101", Letter: "A", Semester: "Fall 2024"},
			check: func(t *testing.T, err error) {
				assert.True(t, shared.IsValidation(err))
				assert.False(t, shared.IsNotFound(err))
			},
		},
		{
			name:      "directory down",
			directory: directoryStub{err: errors.New("dial tcp: connection refused")},
			cmd:       CreateGradeCommand{StudentID: 1, Course: "CS101", Letter: "A", Semester: "Fall 2024"},
			check: func(t *testing.T, err error) {
				assert.Equal(t, shared.UpstreamStudentDirectory, shared.UpstreamOf(err))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := memory.NewGradeStore()
			notifier := &notifierStub{}
			h := NewCreateGradeHandler(repo, tt.directory, notifier, nil)

			res, err := h.Handle(context.Background(), tt.cmd)
			require.Error(t, err)
			assert.Nil(t, res)
			tt.check(t, err)

			all, _ := repo.List(context.Background(), grade.Filter{})
			assert.Empty(t, all, "nothing is stored on rejection")
			assert.Empty(t, notifier.calls)
		})
	}
}

func TestCreateGrade_NilNotifier(t *testing.T) {
	h := NewCreateGradeHandler(memory.NewGradeStore(), aliceDirectory(), nil, nil)

	res, err := h.Handle(context.Background(), CreateGradeCommand{StudentID: 1, Course: "MATH201", Letter: "B", Semester: "Fall 2024", Credits: 4})
	require.NoError(t, err)
	assert.Empty(t, res.Notifications)
	assert.NotNil(t, res.Notifications)
}

func TestDeleteGrade(t *testing.T) {
	repo := memory.NewGradeStore()
	g := grade.Grade{StudentID: 1, Course: "CS101", Letter: "A", Semester: "Fall 2024", Credits: 3}
	require.NoError(t, repo.Create(context.Background(), &g))

	h := NewDeleteGradeHandler(repo, nil)
	require.NoError(t, h.Handle(context.Background(), g.ID))
	assert.True(t, shared.IsNotFound(h.Handle(context.Background(), g.ID)))
	assert.True(t, shared.IsValidation(h.Handle(context.Background(), 0)))
}

func TestCreateStudent(t *testing.T) {
	repo := memory.NewStudentStore()
	h := NewCreateStudentHandler(repo, nil)

	major := "  Physics "
	s, err := h.Handle(context.Background(), CreateStudentCommand{Name: "Zoe Park", Email: "zoe@uni.edu", Major: &major})
	require.NoError(t, err)
	assert.NotZero(t, s.ID)
	assert.Equal(t, "Physics", *s.Major)

	_, err = h.Handle(context.Background(), CreateStudentCommand{Name: "Zoe Again", Email: "zoe@uni.edu"})
	assert.True(t, shared.IsAlreadyExists(err))

	_, err = h.Handle(context.Background(), CreateStudentCommand{Name: "Z", Email: "z@uni.edu"})
	assert.True(t, shared.IsValidation(err))

	age := 15
	_, err = h.Handle(context.Background(), CreateStudentCommand{Name: "Young", Email: "y@uni.edu", Age: &age})
	assert.True(t, shared.IsValidation(err))
}

func TestDeleteStudent(t *testing.T) {
	repo := memory.NewStudentStore()
	created, err := NewCreateStudentHandler(repo, nil).Handle(context.Background(),
		CreateStudentCommand{Name: "Zoe Park", Email: "zoe@uni.edu"})
	require.NoError(t, err)

	h := NewDeleteStudentHandler(repo, nil)
	require.NoError(t, h.Handle(context.Background(), created.ID))
	assert.True(t, shared.IsNotFound(h.Handle(context.Background(), created.ID)))
}

func TestCourseCommands(t *testing.T) {
	repo := memory.NewCourseStore()
	create := NewCreateCourseHandler(repo, nil)

	c, err := create.Handle(context.Background(), course.Course{
		Code: "CS101", Name: "Intro to Programming", Credits: 3, Instructor: "Dr. Smith", Semester: "Fall 2024",
	})
	require.NoError(t, err)
	assert.NotZero(t, c.ID)

	_, err = create.Handle(context.Background(), course.Course{
		Code: "CS101", Name: "Duplicate", Credits: 3, Semester: "Fall 2024",
	})
	assert.True(t, shared.IsAlreadyExists(err))

	del := NewDeleteCourseHandler(repo)
	require.NoError(t, del.Handle(context.Background(), c.ID))
	assert.True(t, shared.IsNotFound(del.Handle(context.Background(), c.ID)))
}
