package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_IsMatchesKindAndCause(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := UpstreamUnavailable(UpstreamStudentDirectory, "ListStudents", cause)

	assert.True(t, errors.Is(err, ErrUpstreamUnavailable))
	assert.True(t, errors.Is(err, cause))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "student-directory.ListStudents")
}

func TestIsValidation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"validation", Validation("grade", "Validate", "bad %s", "letter"), true},
		{"unknown grade", fmt.Errorf("aggregate: %w", ErrUnknownGrade), true},
		{"invalid limit", ErrInvalidLimit, true},
		{"not found", ErrStudentNotFound, false},
		{"upstream", UpstreamUnavailable(UpstreamGradeLedger, "ListGrades", nil), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidation(tt.err))
		})
	}
}

func TestUpstreamOf(t *testing.T) {
	inner := UpstreamUnavailable(UpstreamGradeLedger, "ListGrades", errors.New("status 502"))
	wrapped := WrapError("analytics", "StudentGPA", ErrUpstreamUnavailable, "fetch failed", inner)

	assert.Equal(t, "analytics", UpstreamOf(wrapped))
	assert.Equal(t, UpstreamGradeLedger, UpstreamOf(fmt.Errorf("handler: %w", inner)))
	assert.Equal(t, "", UpstreamOf(ErrStudentNotFound))
	assert.Equal(t, "", UpstreamOf(nil))
}

func TestMissingReferenceWarning(t *testing.T) {
	w := MissingReference(7, 42)

	assert.Equal(t, WarningMissingReference, w.Code)
	assert.Equal(t, "grade 7 references unknown student 42", w.Message)
	assert.Equal(t, int64(42), w.StudentID)
}
