// Package grade holds the grade record, the letter-to-points table and the
// validation shared by every service that touches grades.
package grade

import (
	"strings"

	"github.com/campus-hub/grading-system/internal/domain/shared"
)

// Letter is a letter grade such as "A-" or "F".
type Letter string

const (
	A      Letter = "A"
	AMinus Letter = "A-"
	BPlus  Letter = "B+"
	B      Letter = "B"
	BMinus Letter = "B-"
	CPlus  Letter = "C+"
	C      Letter = "C"
	CMinus Letter = "C-"
	DPlus  Letter = "D+"
	D      Letter = "D"
	DMinus Letter = "D-"
	F      Letter = "F"
)

// pointTable stores points in tenths so weighted sums stay exact integers.
// It is the single source of truth for which letters exist.
var pointTable = map[Letter]int64{
	A:      40,
	AMinus: 37,
	BPlus:  33,
	B:      30,
	BMinus: 27,
	CPlus:  23,
	C:      20,
	CMinus: 17,
	DPlus:  13,
	D:      10,
	DMinus: 7,
	F:      0,
}

// orderedLetters lists the table from best to worst.
var orderedLetters = []Letter{A, AMinus, BPlus, B, BMinus, CPlus, C, CMinus, DPlus, D, DMinus, F}

// Letters returns the valid letters from best to worst.
func Letters() []Letter {
	out := make([]Letter, len(orderedLetters))
	copy(out, orderedLetters)
	return out
}

// ParseLetter validates s against the point table. Surrounding spaces are
// ignored; case is not.
func ParseLetter(s string) (Letter, error) {
	l := Letter(strings.TrimSpace(s))
	if _, ok := pointTable[l]; !ok {
		return "", shared.WrapError("grade", "ParseLetter", shared.ErrUnknownGrade,
			"unknown grade letter "+quote(s), nil)
	}
	return l, nil
}

// Tenths returns the grade points multiplied by ten.
func (l Letter) Tenths() (int64, error) {
	p, ok := pointTable[l]
	if !ok {
		return 0, shared.WrapError("grade", "Points", shared.ErrUnknownGrade,
			"unknown grade letter "+quote(string(l)), nil)
	}
	return p, nil
}

// Points returns the grade points on the 4.0 scale.
func (l Letter) Points() (float64, error) {
	p, err := l.Tenths()
	if err != nil {
		return 0, err
	}
	return float64(p) / 10, nil
}

// Valid reports whether the letter is in the point table.
func (l Letter) Valid() bool {
	_, ok := pointTable[l]
	return ok
}

func quote(s string) string {
	return `"` + s + `"`
}
