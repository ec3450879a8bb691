package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-hub/grading-system/internal/domain/course"
	"github.com/campus-hub/grading-system/internal/domain/grade"
	"github.com/campus-hub/grading-system/internal/domain/notification"
	"github.com/campus-hub/grading-system/internal/domain/shared"
	"github.com/campus-hub/grading-system/internal/domain/student"
)

func strPtr(s string) *string { return &s }

func TestStudentStore(t *testing.T) {
	ctx := context.Background()
	s := NewStudentStore()

	require.NoError(t, s.Create(ctx, &student.Student{Name: "Bob Smith", Email: "bob@u.edu", Major: strPtr("Math")}))
	require.NoError(t, s.Create(ctx, &student.Student{Name: "Alice Johnson", Email: "alice@u.edu", Major: strPtr("CS")}))
	require.NoError(t, s.Create(ctx, &student.Student{Name: "Alicia Keys", Email: "alicia@u.edu"}))

	err := s.Create(ctx, &student.Student{Name: "Bobby", Email: "BOB@u.edu"})
	assert.True(t, shared.IsAlreadyExists(err))

	all, err := s.List(ctx, student.Filter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice Johnson", "Alicia Keys", "Bob Smith"}, names(all))

	found, err := s.List(ctx, student.Filter{Search: "ALIC"})
	require.NoError(t, err)
	assert.Len(t, found, 2)

	cs, err := s.List(ctx, student.Filter{Major: "CS"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice Johnson"}, names(cs))

	majors, err := s.Majors(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"CS", "Math"}, majors)

	require.NoError(t, s.Delete(ctx, 1))
	_, err = s.GetByID(ctx, 1)
	assert.True(t, shared.IsNotFound(err))
	assert.True(t, shared.IsNotFound(s.Delete(ctx, 1)))
}

func names(list []student.Student) []string {
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = s.Name
	}
	return out
}

func TestGradeStore(t *testing.T) {
	ctx := context.Background()
	s := NewGradeStore()

	for _, g := range []grade.Grade{
		{StudentID: 1, Course: "Data Structures", Letter: grade.A, Semester: "Fall 2024", Credits: 4},
		{StudentID: 2, Course: "Calculus I", Letter: grade.B, Semester: "Fall 2024", Credits: 4},
		{StudentID: 1, Course: "Web Development", Letter: grade.BPlus, Semester: "Spring 2024", Credits: 3},
	} {
		g := g
		require.NoError(t, s.Create(ctx, &g))
	}

	all, err := s.List(ctx, grade.Filter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []int64{3, 2, 1}, []int64{all[0].ID, all[1].ID, all[2].ID})

	byCourse, err := s.List(ctx, grade.Filter{Course: "data"})
	require.NoError(t, err)
	assert.Len(t, byCourse, 1)

	byStudent, err := s.List(ctx, grade.Filter{StudentID: 1, Semester: "Spring 2024"})
	require.NoError(t, err)
	assert.Len(t, byStudent, 1)

	sems, err := s.Semesters(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Spring 2024", "Fall 2024"}, sems)

	courses, err := s.Courses(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Calculus I", "Data Structures", "Web Development"}, courses)

	assert.True(t, shared.IsNotFound(s.Delete(ctx, 99)))
}

func TestCourseStore(t *testing.T) {
	ctx := context.Background()
	s := NewCourseStore()

	require.NoError(t, s.Create(ctx, &course.Course{Code: "MATH101", Name: "Calculus I", Credits: 4, Semester: "Fall 2024"}))
	require.NoError(t, s.Create(ctx, &course.Course{Code: "CS101", Name: "Programming", Credits: 4, Semester: "Spring 2025"}))
	assert.True(t, shared.IsAlreadyExists(s.Create(ctx, &course.Course{Code: "CS101", Name: "Again", Credits: 3})))

	all, err := s.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "CS101", all[0].Code)

	fall, err := s.List(ctx, "Fall 2024")
	require.NoError(t, err)
	assert.Len(t, fall, 1)
}

func TestNotificationStore_RecentNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewNotificationStore()

	for _, id := range []notification.NotificationID{"a", "b", "c"} {
		require.NoError(t, s.Save(ctx, &notification.Notification{ID: id, Status: notification.StatusPending}))
	}
	require.NoError(t, s.Save(ctx, &notification.Notification{ID: "b", Status: notification.StatusSent}))

	recent, err := s.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, notification.NotificationID("c"), recent[0].ID)
	assert.Equal(t, notification.StatusSent, recent[1].Status)
}

func TestDeliveryTracker(t *testing.T) {
	ctx := context.Background()
	tr := NewDeliveryTracker()
	now := time.Now()

	require.NoError(t, tr.RecordAttempt(ctx, now))
	require.NoError(t, tr.RecordFailure(ctx, "timeout"))
	require.NoError(t, tr.RecordAttempt(ctx, now))
	require.NoError(t, tr.RecordSuccess(ctx, now))

	st, err := tr.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), st.TotalAttempts)
	assert.Equal(t, int64(1), st.TotalSuccesses)
	assert.Equal(t, int64(1), st.TotalFailures)
	assert.Nil(t, st.LastError)
	assert.NotNil(t, st.LastSuccess)
}
