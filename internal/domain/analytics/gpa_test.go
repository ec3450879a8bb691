package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-hub/grading-system/internal/domain/grade"
	"github.com/campus-hub/grading-system/internal/domain/shared"
)

func g(id, studentID int64, course string, letter grade.Letter, semester string, credits int) grade.Grade {
	return grade.Grade{ID: id, StudentID: studentID, Course: course, Letter: letter, Semester: semester, Credits: credits}
}

func TestAccumulator_WeightedAverage(t *testing.T) {
	var acc Accumulator
	require.NoError(t, acc.Add(g(1, 1, "Math", grade.A, "Fall 2024", 3)))
	require.NoError(t, acc.Add(g(2, 1, "Physics", grade.B, "Fall 2024", 3)))

	assert.Equal(t, 3.5, acc.GPA())
	assert.Equal(t, 2, acc.Count())
	assert.Equal(t, 6, acc.Credits())
}

func TestAccumulator_Empty(t *testing.T) {
	var acc Accumulator
	assert.Equal(t, 0.0, acc.GPA())
	assert.Zero(t, acc.Count())
	assert.Zero(t, acc.Credits())
}

func TestAccumulator_RoundHalfToEven(t *testing.T) {
	tests := []struct {
		name   string
		grades []grade.Grade
		want   float64
	}{
		// (3.7 + 12.0) / 4 = 3.925
		{"half rounds down to even", []grade.Grade{g(1, 1, "X", grade.AMinus, "S", 1), g(2, 1, "Y", grade.A, "S", 3)}, 3.92},
		// (2.7 + 12.0) / 4 = 3.675
		{"half rounds up to even", []grade.Grade{g(1, 1, "X", grade.BMinus, "S", 1), g(2, 1, "Y", grade.A, "S", 3)}, 3.68},
		// (4.0 + 3.7 + 3.3) / 3 = 3.6666...
		{"above half rounds up", []grade.Grade{g(1, 1, "X", grade.A, "S", 1), g(2, 1, "Y", grade.AMinus, "S", 1), g(3, 1, "Z", grade.BPlus, "S", 1)}, 3.67},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc, err := accumulate(tt.grades)
			require.NoError(t, err)
			assert.Equal(t, tt.want, acc.GPA())
		})
	}
}

func TestAccumulator_RejectsBadInput(t *testing.T) {
	var acc Accumulator

	err := acc.Add(g(1, 1, "Math", grade.Letter("E"), "Fall 2024", 3))
	assert.ErrorIs(t, err, shared.ErrUnknownGrade)
	assert.True(t, shared.IsValidation(err))

	err = acc.Add(g(2, 1, "Math", grade.A, "Fall 2024", 0))
	assert.True(t, shared.IsValidation(err))
	assert.Zero(t, acc.Count())
}

func TestDivHalfEven(t *testing.T) {
	assert.Equal(t, int64(2), divHalfEven(5, 2))
	assert.Equal(t, int64(4), divHalfEven(7, 2))
	assert.Equal(t, int64(3), divHalfEven(8, 3))
	assert.Equal(t, int64(0), divHalfEven(0, 7))
}
