package student

import (
	"strings"

	"github.com/campus-hub/grading-system/internal/domain/shared"
)

// UnknownName is shown in place of a student name when the directory has
// no record for a referenced id.
const UnknownName = "Unknown"

// Age and self-reported GPA bounds accepted by the directory.
const (
	MinAge = 16
	MaxAge = 100
	MinGPA = 0.0
	MaxGPA = 4.0
)

// Student is a directory record. Age, Major and GPA are optional.
type Student struct {
	ID    int64    `json:"id"`
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Age   *int     `json:"age,omitempty"`
	Major *string  `json:"major,omitempty"`
	GPA   *float64 `json:"gpa,omitempty"`
}

// Validate checks the fields a client may set.
func (s *Student) Validate() error {
	s.Name = strings.TrimSpace(s.Name)
	s.Email = strings.TrimSpace(s.Email)

	if len(s.Name) < 2 {
		return shared.Validation("student", "Validate", "name must be at least 2 characters")
	}
	if !strings.Contains(s.Email, "@") {
		return shared.Validation("student", "Validate", "email must contain @")
	}
	if s.Age != nil && (*s.Age < MinAge || *s.Age > MaxAge) {
		return shared.Validation("student", "Validate", "age must be between %d and %d", MinAge, MaxAge)
	}
	if s.GPA != nil && (*s.GPA < MinGPA || *s.GPA > MaxGPA) {
		return shared.Validation("student", "Validate", "gpa must be between %.1f and %.1f", MinGPA, MaxGPA)
	}
	if s.Major != nil {
		m := strings.TrimSpace(*s.Major)
		if m == "" {
			s.Major = nil
		} else {
			s.Major = &m
		}
	}
	return nil
}

// Index maps students by id.
func Index(students []Student) map[int64]Student {
	byID := make(map[int64]Student, len(students))
	for _, s := range students {
		byID[s.ID] = s
	}
	return byID
}
