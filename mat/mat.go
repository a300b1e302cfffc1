package mat

import (
	"errors"
	"fmt"
	"slices"

	"gonum.org/v1/gonum/mat"
)

var (
	ErrEmptyArray   = errors.New("empty array")
	ErrColMismatch  = errors.New("column size mismatch")
	ErrInvalidLag   = errors.New("lags must be positive")
	ErrNotEnoughObs = errors.New("not enough observations for the requested lags")
)

// NewDenseFromArray builds a row ordered dense matrix from a slice of rows
func NewDenseFromArray(x [][]float64) (*mat.Dense, error) {
	if len(x) == 0 || len(x[0]) == 0 {
		return nil, ErrEmptyArray
	}
	n := len(x[0])
	data := make([]float64, 0, len(x)*n)
	for i, row := range x {
		if len(row) != n {
			return nil, fmt.Errorf("at row %d, %w", i, ErrColMismatch)
		}
		data = append(data, row...)
	}
	return mat.NewDense(len(x), n, data), nil
}

// NewLagMatrix returns the design matrix of lagged values of y along with the aligned target.
// Row i corresponds to observation t = max(lags) + i with column j holding y[t-lags[j]].
func NewLagMatrix(y []float64, lags []int) (*mat.Dense, []float64, error) {
	if len(lags) == 0 {
		return nil, nil, ErrEmptyArray
	}
	maxLag := slices.Max(lags)
	if slices.Min(lags) < 1 {
		return nil, nil, ErrInvalidLag
	}
	m := len(y) - maxLag
	if m < 1 {
		return nil, nil, fmt.Errorf("%d observations with max lag %d, %w", len(y), maxLag, ErrNotEnoughObs)
	}

	x := mat.NewDense(m, len(lags), nil)
	target := make([]float64, 0, m)
	for i := 0; i < m; i++ {
		t := maxLag + i
		for j, lag := range lags {
			x.Set(i, j, y[t-lag])
		}
		target = append(target, y[t])
	}
	return x, target, nil
}
