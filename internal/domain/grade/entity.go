package grade

import (
	"strings"

	"github.com/campus-hub/grading-system/internal/domain/shared"
)

// Credit bounds accepted by the ledger.
const (
	MinCredits     = 1
	MaxCredits     = 6
	DefaultCredits = 3
)

// Grade is a ledger record. Course is free text and is not checked
// against the course catalog.
type Grade struct {
	ID        int64  `json:"id"`
	StudentID int64  `json:"student_id"`
	Course    string `json:"course"`
	Letter    Letter `json:"grade"`
	Semester  string `json:"semester"`
	Credits   int    `json:"credits"`
}

// EnrichedGrade is a Grade with the student's name resolved at read time.
// A nil StudentName means the record has not been enriched.
type EnrichedGrade struct {
	Grade
	StudentName *string `json:"student_name"`
}

// Validate checks a grade submitted for creation. A zero Credits value is
// replaced with DefaultCredits.
func (g *Grade) Validate() error {
	g.Course = strings.TrimSpace(g.Course)
	g.Semester = strings.TrimSpace(g.Semester)

	if g.StudentID <= 0 {
		return shared.Validation("grade", "Validate", "student_id is required")
	}
	if len(g.Course) < 2 {
		return shared.Validation("grade", "Validate", "course must be at least 2 characters")
	}
	letter, err := ParseLetter(string(g.Letter))
	if err != nil {
		return err
	}
	g.Letter = letter
	if g.Semester == "" {
		return shared.Validation("grade", "Validate", "semester is required")
	}
	if g.Credits == 0 {
		g.Credits = DefaultCredits
	}
	if g.Credits < MinCredits || g.Credits > MaxCredits {
		return shared.Validation("grade", "Validate", "credits must be between %d and %d", MinCredits, MaxCredits)
	}
	return nil
}
