// Package analytics holds the pure aggregation functions: student GPA,
// course average, semester summary and the top-students ranking.
//
// Arithmetic is done in integers (points in tenths), so half-to-even
// rounding to two decimals is deterministic.
package analytics

import (
	"github.com/campus-hub/grading-system/internal/domain/grade"
	"github.com/campus-hub/grading-system/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// WEIGHTED AVERAGE
// ══════════════════════════════════════════════════════════════════════════════

// Accumulator накапливает Σ(points×credits) и Σ(credits) по набору оценок.
// Нулевое значение готово к использованию.
type Accumulator struct {
	weighted int64 // Σ(tenths × credits)
	credits  int64
	count    int
}

// Add включает оценку в сумму. Неизвестная буква или неположительные
// кредиты - ошибка валидации.
func (a *Accumulator) Add(g grade.Grade) error {
	tenths, err := g.Letter.Tenths()
	if err != nil {
		return err
	}
	if g.Credits <= 0 {
		return shared.NewDomainError("analytics", "Add", shared.ErrValueOutOfRange,
			"grade has non-positive credits")
	}
	a.weighted += tenths * int64(g.Credits)
	a.credits += int64(g.Credits)
	a.count++
	return nil
}

// Count returns the number of grades added.
func (a *Accumulator) Count() int { return a.count }

// Credits returns the unrounded credit sum.
func (a *Accumulator) Credits() int { return int(a.credits) }

// GPA returns the weighted average rounded to two decimals, half to even.
// An empty accumulator yields 0.
func (a *Accumulator) GPA() float64 {
	return float64(a.Hundredths()) / 100
}

// Hundredths returns the rounded GPA multiplied by 100.
func (a *Accumulator) Hundredths() int64 {
	if a.credits == 0 {
		return 0
	}
	// GPA×100 = (weighted/10)/credits×100 = 10×weighted/credits
	return divHalfEven(10*a.weighted, a.credits)
}

// divHalfEven divides two non-negative integers rounding half to even.
func divHalfEven(n, d int64) int64 {
	q, r := n/d, n%d
	switch {
	case 2*r > d:
		q++
	case 2*r == d && q%2 == 1:
		q++
	}
	return q
}

// accumulate is a shortcut for folding a whole slice.
func accumulate(grades []grade.Grade) (Accumulator, error) {
	var acc Accumulator
	for _, g := range grades {
		if err := acc.Add(g); err != nil {
			return Accumulator{}, err
		}
	}
	return acc, nil
}
