package mat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestNewDenseFromArray(t *testing.T) {
	testData := map[string]struct {
		err error
		x   [][]float64
		m   int
		n   int
	}{
		"nil input":              {ErrEmptyArray, nil, 0, 0},
		"empty input":            {ErrEmptyArray, [][]float64{}, 0, 0},
		"empty row":              {ErrEmptyArray, [][]float64{{}}, 0, 0},
		"single element":         {nil, [][]float64{{1}}, 1, 1},
		"one row multiple cols":  {nil, [][]float64{{1, 2, 3}}, 1, 3},
		"multiple rows one col":  {nil, [][]float64{{1}, {2}, {3}}, 3, 1},
		"multiple rows and cols": {nil, [][]float64{{1, 2, 3}, {4, 5, 6}}, 2, 3},
		"inconsistent cols":      {ErrColMismatch, [][]float64{{1, 2, 3}, {4, 5}}, 0, 0},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			mx, err := NewDenseFromArray(td.x)
			if td.err != nil {
				require.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)

			m, n := mx.Dims()
			assert.Equal(t, td.m, m, "m")
			assert.Equal(t, td.n, n, "n")

			for ri, row := range td.x {
				assert.Equal(t, row, mat.Row(nil, ri, mx), "array")
			}
		})
	}
}

func TestNewLagMatrix(t *testing.T) {
	testData := map[string]struct {
		y        []float64
		lags     []int
		expected [][]float64
		target   []float64
		err      error
	}{
		"no lags":        {y: []float64{1, 2}, err: ErrEmptyArray},
		"zero lag":       {y: []float64{1, 2}, lags: []int{0}, err: ErrInvalidLag},
		"too short":      {y: []float64{1, 2}, lags: []int{2}, err: ErrNotEnoughObs},
		"single lag": {
			y:        []float64{1, 2, 3, 4},
			lags:     []int{1},
			expected: [][]float64{{1}, {2}, {3}},
			target:   []float64{2, 3, 4},
		},
		"regular and seasonal lag": {
			y:        []float64{1, 2, 3, 4, 5},
			lags:     []int{1, 2},
			expected: [][]float64{{2, 1}, {3, 2}, {4, 3}},
			target:   []float64{3, 4, 5},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			x, target, err := NewLagMatrix(td.y, td.lags)
			if td.err != nil {
				require.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, td.target, target)

			m, _ := x.Dims()
			require.Equal(t, len(td.expected), m)
			for ri, row := range td.expected {
				assert.Equal(t, row, mat.Row(nil, ri, x))
			}
		})
	}
}
