// Package seed loads the demo dataset into empty repositories.
package seed

import (
	"context"
	"fmt"

	"github.com/campus-hub/grading-system/internal/domain/course"
	"github.com/campus-hub/grading-system/internal/domain/grade"
	"github.com/campus-hub/grading-system/internal/domain/student"
)

func ptr[T any](v T) *T { return &v }

// Students returns the demo directory. Ids are assigned by the store in
// this order, 1 through 10, which the grade seed relies on.
func Students() []student.Student {
	return []student.Student{
		{Name: "Alice Johnson", Email: "alice@university.edu", Age: ptr(20), Major: ptr("Computer Science"), GPA: ptr(3.8)},
		{Name: "Bob Smith", Email: "bob@university.edu", Age: ptr(22), Major: ptr("Mathematics"), GPA: ptr(3.5)},
		{Name: "Charlie Brown", Email: "charlie@university.edu", Age: ptr(21), Major: ptr("Physics"), GPA: ptr(3.9)},
		{Name: "Diana Prince", Email: "diana@university.edu", Age: ptr(19), Major: ptr("Engineering"), GPA: ptr(3.7)},
		{Name: "Edward Norton", Email: "edward@university.edu", Age: ptr(23), Major: ptr("Computer Science"), GPA: ptr(3.2)},
		{Name: "Fiona Apple", Email: "fiona@university.edu", Age: ptr(20), Major: ptr("Biology"), GPA: ptr(3.6)},
		{Name: "George Lucas", Email: "george@university.edu", Age: ptr(22), Major: ptr("Film Studies"), GPA: ptr(3.4)},
		{Name: "Hannah Montana", Email: "hannah@university.edu", Age: ptr(21), Major: ptr("Music"), GPA: ptr(3.9)},
		{Name: "Ian McKellen", Email: "ian@university.edu", Age: ptr(24), Major: ptr("Theater"), GPA: ptr(3.1)},
		{Name: "Julia Roberts", Email: "julia@university.edu", Age: ptr(20), Major: ptr("Chemistry"), GPA: ptr(3.8)},
	}
}

// Grades returns the demo ledger.
func Grades() []grade.Grade {
	rows := []struct {
		student  int64
		course   string
		letter   grade.Letter
		semester string
		credits  int
	}{
		{1, "Introduction to Programming", grade.A, "Fall 2024", 4},
		{1, "Data Structures", grade.AMinus, "Fall 2024", 4},
		{1, "Web Development", grade.BPlus, "Spring 2024", 3},
		{2, "Calculus I", grade.B, "Fall 2024", 4},
		{2, "Linear Algebra", grade.AMinus, "Fall 2024", 3},
		{3, "Quantum Mechanics", grade.A, "Fall 2024", 4},
		{3, "Classical Mechanics", grade.A, "Spring 2024", 4},
		{4, "Thermodynamics", grade.BPlus, "Fall 2024", 3},
		{4, "Circuit Design", grade.AMinus, "Fall 2024", 4},
		{5, "Operating Systems", grade.CPlus, "Fall 2024", 4},
		{5, "Computer Networks", grade.B, "Spring 2024", 3},
		{6, "Molecular Biology", grade.AMinus, "Fall 2024", 4},
		{6, "Genetics", grade.A, "Spring 2024", 4},
		{7, "Film History", grade.BPlus, "Fall 2024", 3},
		{7, "Screenwriting", grade.B, "Spring 2024", 3},
		{8, "Music Theory", grade.A, "Fall 2024", 4},
		{8, "Performance Art", grade.A, "Fall 2024", 2},
		{9, "Shakespeare Studies", grade.C, "Fall 2024", 3},
		{9, "Modern Drama", grade.BMinus, "Spring 2024", 3},
		{10, "Organic Chemistry", grade.AMinus, "Fall 2024", 4},
		{10, "Analytical Chemistry", grade.A, "Spring 2024", 3},
	}

	out := make([]grade.Grade, len(rows))
	for i, r := range rows {
		out[i] = grade.Grade{StudentID: r.student, Course: r.course, Letter: r.letter, Semester: r.semester, Credits: r.credits}
	}
	return out
}

// Courses returns the demo catalog.
func Courses() []course.Course {
	return []course.Course{
		{Code: "CS101", Name: "Introduction to Programming", Credits: 4, Instructor: "Dr. Ada Lovelace", Semester: "Fall 2024"},
		{Code: "CS201", Name: "Data Structures", Credits: 4, Instructor: "Dr. Donald Knuth", Semester: "Fall 2024"},
		{Code: "CS310", Name: "Operating Systems", Credits: 4, Instructor: "Dr. Ken Thompson", Semester: "Fall 2024"},
		{Code: "CS320", Name: "Computer Networks", Credits: 3, Instructor: "Dr. Radia Perlman", Semester: "Spring 2024"},
		{Code: "MATH101", Name: "Calculus I", Credits: 4, Instructor: "Dr. Emmy Noether", Semester: "Fall 2024"},
		{Code: "MATH210", Name: "Linear Algebra", Credits: 3, Instructor: "Dr. Gilbert Strang", Semester: "Fall 2024"},
		{Code: "PHYS301", Name: "Quantum Mechanics", Credits: 4, Instructor: "Dr. Paul Dirac", Semester: "Fall 2024"},
		{Code: "CHEM220", Name: "Organic Chemistry", Credits: 4, Instructor: "Dr. Rosalind Franklin", Semester: "Fall 2024"},
	}
}

// LoadStudents inserts Students into repo and returns how many were added.
func LoadStudents(ctx context.Context, repo student.Repository) (int, error) {
	existing, err := repo.List(ctx, student.Filter{})
	if err != nil {
		return 0, fmt.Errorf("seed students: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}
	for _, s := range Students() {
		s := s
		if err := repo.Create(ctx, &s); err != nil {
			return 0, fmt.Errorf("seed student %s: %w", s.Email, err)
		}
	}
	return len(Students()), nil
}

// LoadGrades inserts Grades into an empty repo.
func LoadGrades(ctx context.Context, repo grade.Repository) (int, error) {
	existing, err := repo.List(ctx, grade.Filter{})
	if err != nil {
		return 0, fmt.Errorf("seed grades: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}
	rows := Grades()
	for i := range rows {
		if err := repo.Create(ctx, &rows[i]); err != nil {
			return 0, fmt.Errorf("seed grade %d: %w", i+1, err)
		}
	}
	return len(rows), nil
}

// LoadCourses inserts Courses into an empty repo.
func LoadCourses(ctx context.Context, repo course.Repository) (int, error) {
	existing, err := repo.List(ctx, "")
	if err != nil {
		return 0, fmt.Errorf("seed courses: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}
	rows := Courses()
	for i := range rows {
		if err := repo.Create(ctx, &rows[i]); err != nil {
			return 0, fmt.Errorf("seed course %s: %w", rows[i].Code, err)
		}
	}
	return len(rows), nil
}
