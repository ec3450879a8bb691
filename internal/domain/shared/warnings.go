package shared

import "fmt"

// WarningCode classifies a non-fatal condition attached to a response.
type WarningCode string

const (
	// WarningMissingReference means a grade points at a student id the
	// directory does not know.
	WarningMissingReference WarningCode = "missing_reference"
)

// Warning is a partial-failure note. It travels next to the data it
// describes and never replaces it.
type Warning struct {
	Code      WarningCode `json:"code"`
	GradeID   int64       `json:"grade_id,omitempty"`
	StudentID int64       `json:"student_id,omitempty"`
	Message   string      `json:"message"`
}

// MissingReference builds the warning for a grade whose student is unknown.
func MissingReference(gradeID, studentID int64) Warning {
	return Warning{
		Code:      WarningMissingReference,
		GradeID:   gradeID,
		StudentID: studentID,
		Message:   fmt.Sprintf("grade %d references unknown student %d", gradeID, studentID),
	}
}
