// Package similarity holds the precomputed item-item model: an ordered set of
// canonical titles (the pivot index) and the dense score table over it.
//
// The model is produced offline and is never modified here. An Index is
// immutable once built and may be shared by any number of goroutines.
package similarity

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrEmptyIndex     = errors.New("similarity index has no titles")
	ErrDuplicateTitle = errors.New("duplicate pivot title")
	ErrShape          = errors.New("score table does not match pivot index")
	ErrNonFinite      = errors.New("score is not a finite number")
)

// Index is the pivot index plus its N×N score table. Positions 0..N-1 are the
// only valid coordinates into the table.
type Index struct {
	titles []string
	scores [][]float64
}

// New validates titles and scores and returns an Index over copies of both.
func New(titles []string, scores [][]float64) (*Index, error) {
	n := len(titles)
	if n == 0 {
		return nil, ErrEmptyIndex
	}
	if len(scores) != n {
		return nil, fmt.Errorf("%w: %d titles, %d rows", ErrShape, n, len(scores))
	}

	seen := make(map[string]int, n)
	for i, t := range titles {
		if j, ok := seen[t]; ok {
			return nil, fmt.Errorf("%w: %q at %d and %d", ErrDuplicateTitle, t, j, i)
		}
		seen[t] = i
	}

	ix := &Index{
		titles: make([]string, n),
		scores: make([][]float64, n),
	}
	copy(ix.titles, titles)
	for i, row := range scores {
		if len(row) != n {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrShape, i, len(row), n)
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: [%d][%d]", ErrNonFinite, i, j)
			}
		}
		ix.scores[i] = append([]float64(nil), row...)
	}
	return ix, nil
}

// Len returns N, the number of pivot titles.
func (ix *Index) Len() int {
	return len(ix.titles)
}

// Title returns the canonical title at position p.
func (ix *Index) Title(p int) string {
	return ix.titles[p]
}

// Titles returns the pivot titles in index order.
func (ix *Index) Titles() []string {
	return append([]string(nil), ix.titles...)
}

// Row returns the scores from p to every pivot position.
func (ix *Index) Row(p int) []float64 {
	return append([]float64(nil), ix.scores[p]...)
}

// Score returns matrix[i][j].
func (ix *Index) Score(i, j int) float64 {
	return ix.scores[i][j]
}
