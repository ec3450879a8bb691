package analytics

import (
	"sort"

	"github.com/campus-hub/grading-system/internal/domain/grade"
	"github.com/campus-hub/grading-system/internal/domain/shared"
	"github.com/campus-hub/grading-system/internal/domain/student"
)

// DefaultTopLimit is used when the caller does not pass a limit.
const DefaultTopLimit = 10

// ══════════════════════════════════════════════════════════════════════════════
// RESULT TYPES
// ══════════════════════════════════════════════════════════════════════════════

// StudentGPA is the transcript summary of one student.
type StudentGPA struct {
	StudentID    int64   `json:"student_id"`
	StudentName  string  `json:"student_name"`
	GPA          float64 `json:"gpa"`
	GradesCount  int     `json:"grades_count"`
	TotalCredits int     `json:"total_credits"`
}

// CourseAverage summarizes every grade recorded for one course.
type CourseAverage struct {
	Course            string         `json:"course"`
	AverageGPA        float64        `json:"average_gpa"`
	GradesCount       int            `json:"grades_count"`
	StudentsCount     int            `json:"students_count"`
	GradeDistribution map[string]int `json:"grade_distribution"`
}

// SemesterSummary pools every grade of one semester.
type SemesterSummary struct {
	Semester      string   `json:"semester"`
	TotalStudents int      `json:"total_students"`
	TotalGrades   int      `json:"total_grades"`
	AverageGPA    float64  `json:"average_gpa"`
	Courses       []string `json:"courses"`
}

// RankedStudent is one row of the top-students ranking.
type RankedStudent struct {
	Rank         int     `json:"rank"`
	StudentID    int64   `json:"student_id"`
	StudentName  string  `json:"student_name"`
	GPA          float64 `json:"gpa"`
	GradesCount  int     `json:"grades_count"`
	TotalCredits int     `json:"total_credits"`
}

// ══════════════════════════════════════════════════════════════════════════════
// QUERIES
// ══════════════════════════════════════════════════════════════════════════════

// ComputeStudentGPA считает GPA по оценкам студента studentID.
// Студент без оценок получает 0.0 и grades_count = 0.
func ComputeStudentGPA(studentID int64, name string, grades []grade.Grade) (StudentGPA, error) {
	var acc Accumulator
	for _, g := range grades {
		if g.StudentID != studentID {
			continue
		}
		if err := acc.Add(g); err != nil {
			return StudentGPA{}, err
		}
	}
	return StudentGPA{
		StudentID:    studentID,
		StudentName:  name,
		GPA:          acc.GPA(),
		GradesCount:  acc.Count(),
		TotalCredits: acc.Credits(),
	}, nil
}

// ComputeCourseAverage фильтрует оценки по точному (с учётом регистра)
// названию курса.
func ComputeCourseAverage(course string, grades []grade.Grade) (CourseAverage, error) {
	matched := filter(grades, func(g grade.Grade) bool { return g.Course == course })

	acc, err := accumulate(matched)
	if err != nil {
		return CourseAverage{}, err
	}

	dist := make(map[string]int)
	for _, g := range matched {
		dist[string(g.Letter)]++
	}

	return CourseAverage{
		Course:            course,
		AverageGPA:        acc.GPA(),
		GradesCount:       acc.Count(),
		StudentsCount:     distinctStudents(matched),
		GradeDistribution: dist,
	}, nil
}

// ComputeSemesterSummary pools all grades of the semester into one weighted
// average. It is not a mean of per-student GPAs.
func ComputeSemesterSummary(semester string, grades []grade.Grade) (SemesterSummary, error) {
	matched := filter(grades, func(g grade.Grade) bool { return g.Semester == semester })

	acc, err := accumulate(matched)
	if err != nil {
		return SemesterSummary{}, err
	}

	seen := make(map[string]struct{})
	courses := make([]string, 0)
	for _, g := range matched {
		if _, ok := seen[g.Course]; ok {
			continue
		}
		seen[g.Course] = struct{}{}
		courses = append(courses, g.Course)
	}
	sort.Strings(courses)

	return SemesterSummary{
		Semester:      semester,
		TotalStudents: distinctStudents(matched),
		TotalGrades:   acc.Count(),
		AverageGPA:    acc.GPA(),
		Courses:       courses,
	}, nil
}

// RankStudents ranks every directory student by GPA, descending, ties broken
// by ascending id. Students without grades rank at 0.0. Grades pointing at
// unknown students are left out and reported as warnings.
func RankStudents(students []student.Student, grades []grade.Grade, limit int) ([]RankedStudent, []shared.Warning, error) {
	if limit <= 0 {
		return nil, nil, shared.WrapError("analytics", "RankStudents", shared.ErrInvalidLimit,
			"limit must be a positive integer", nil)
	}

	accs := make(map[int64]*Accumulator, len(students))
	for _, s := range students {
		accs[s.ID] = &Accumulator{}
	}

	var warnings []shared.Warning
	for _, g := range grades {
		acc, ok := accs[g.StudentID]
		if !ok {
			// validate the letter anyway so corrupt data is never skipped
			if _, err := g.Letter.Tenths(); err != nil {
				return nil, nil, err
			}
			warnings = append(warnings, shared.MissingReference(g.ID, g.StudentID))
			continue
		}
		if err := acc.Add(g); err != nil {
			return nil, nil, err
		}
	}

	type row struct {
		s   student.Student
		acc *Accumulator
		h   int64
	}
	rows := make([]row, 0, len(students))
	for _, s := range students {
		acc := accs[s.ID]
		rows = append(rows, row{s: s, acc: acc, h: acc.Hundredths()})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].h != rows[j].h {
			return rows[i].h > rows[j].h
		}
		return rows[i].s.ID < rows[j].s.ID
	})

	if len(rows) > limit {
		rows = rows[:limit]
	}

	ranked := make([]RankedStudent, len(rows))
	for i, r := range rows {
		ranked[i] = RankedStudent{
			Rank:         i + 1,
			StudentID:    r.s.ID,
			StudentName:  r.s.Name,
			GPA:          r.acc.GPA(),
			GradesCount:  r.acc.Count(),
			TotalCredits: r.acc.Credits(),
		}
	}
	return ranked, warnings, nil
}

// MissingReferences returns a warning for every grade whose student is not
// in the index, in grade order.
func MissingReferences(index map[int64]student.Student, grades []grade.Grade) []shared.Warning {
	var warnings []shared.Warning
	for _, g := range grades {
		if _, ok := index[g.StudentID]; !ok {
			warnings = append(warnings, shared.MissingReference(g.ID, g.StudentID))
		}
	}
	return warnings
}

// ─── helpers ───

func filter(grades []grade.Grade, keep func(grade.Grade) bool) []grade.Grade {
	out := make([]grade.Grade, 0, len(grades))
	for _, g := range grades {
		if keep(g) {
			out = append(out, g)
		}
	}
	return out
}

func distinctStudents(grades []grade.Grade) int {
	ids := make(map[int64]struct{}, len(grades))
	for _, g := range grades {
		ids[g.StudentID] = struct{}{}
	}
	return len(ids)
}
