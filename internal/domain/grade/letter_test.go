package grade

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-hub/grading-system/internal/domain/shared"
)

func TestPointTable(t *testing.T) {
	want := map[Letter]float64{
		A: 4.0, AMinus: 3.7, BPlus: 3.3, B: 3.0, BMinus: 2.7, CPlus: 2.3,
		C: 2.0, CMinus: 1.7, DPlus: 1.3, D: 1.0, DMinus: 0.7, F: 0.0,
	}

	require.Len(t, Letters(), len(want))
	for letter, points := range want {
		got, err := letter.Points()
		require.NoError(t, err, letter)
		assert.InDelta(t, points, got, 1e-9, letter)
	}
}

func TestParseLetter(t *testing.T) {
	l, err := ParseLetter(" B+ ")
	require.NoError(t, err)
	assert.Equal(t, BPlus, l)

	for _, bad := range []string{"A+", "a", "E", "", "B++"} {
		_, err := ParseLetter(bad)
		assert.ErrorIs(t, err, shared.ErrUnknownGrade, bad)
		assert.True(t, shared.IsValidation(err), bad)
		assert.False(t, shared.IsNotFound(err), bad)
	}
}

func TestLetters_OrderedBestFirst(t *testing.T) {
	letters := Letters()
	for i := 1; i < len(letters); i++ {
		prev, _ := letters[i-1].Tenths()
		cur, _ := letters[i].Tenths()
		assert.Greater(t, prev, cur)
	}

	letters[0] = F
	assert.Equal(t, A, Letters()[0], "Letters must return a copy")
}

func TestGrade_Validate(t *testing.T) {
	g := Grade{StudentID: 1, Course: " Calculus I ", Letter: "A-", Semester: "Fall 2024"}
	require.NoError(t, g.Validate())
	assert.Equal(t, DefaultCredits, g.Credits)
	assert.Equal(t, "Calculus I", g.Course)

	tests := []struct {
		name  string
		grade Grade
	}{
		{"missing student", Grade{Course: "Calculus", Letter: A, Semester: "Fall 2024"}},
		{"short course", Grade{StudentID: 1, Course: "C", Letter: A, Semester: "Fall 2024"}},
		{"bad letter", Grade{StudentID: 1, Course: "Calculus", Letter: "Z", Semester: "Fall 2024"}},
		{"no semester", Grade{StudentID: 1, Course: "Calculus", Letter: A}},
		{"too many credits", Grade{StudentID: 1, Course: "Calculus", Letter: A, Semester: "Fall 2024", Credits: 7}},
		{"negative credits", Grade{StudentID: 1, Course: "Calculus", Letter: A, Semester: "Fall 2024", Credits: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, shared.IsValidation(tt.grade.Validate()))
		})
	}
}
