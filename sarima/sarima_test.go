package sarima

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderValidate(t *testing.T) {
	testData := map[string]struct {
		order Order
		err   error
	}{
		"default":           {order: DefaultOrder()},
		"ar only":           {order: Order{P: 1}},
		"moving average":    {order: Order{P: 1, Q: 1}, err: ErrUnsupportedOrder},
		"seasonal ma":       {order: Order{SP: 1, SQ: 1, M: 2}, err: ErrUnsupportedOrder},
		"negative":          {order: Order{P: -1}, err: ErrUnsupportedOrder},
		"seasonal no cycle": {order: Order{SP: 1, M: 1}, err: ErrUnsupportedOrder},
	}
	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			err := td.order.Validate()
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			assert.Nil(t, err)
		})
	}
	assert.Equal(t, "(1,1,0)(1,0,0,2)", DefaultOrder().String())
	assert.Equal(t, 3, DefaultOrder().MinObservations())
}

func TestExpandPolynomial(t *testing.T) {
	// (1 - 0.5B)(1 - 0.3B^2) = 1 - 0.5B - 0.3B^2 + 0.15B^3
	poly := expandPolynomial([]float64{0.5}, []float64{0.3}, 2)
	require.Len(t, poly, 4)
	assert.InDelta(t, 0.0, poly[0], 1e-12)
	assert.InDelta(t, 0.5, poly[1], 1e-12)
	assert.InDelta(t, 0.3, poly[2], 1e-12)
	assert.InDelta(t, -0.15, poly[3], 1e-12)
}

func TestFitRecoversCoefficients(t *testing.T) {
	testData := map[string]struct {
		order Order
		ar    float64
		sar   float64
	}{
		"regular ar": {
			order: Order{P: 1},
			ar:    0.6,
		},
		"seasonal ar with differencing": {
			order: DefaultOrder(),
			ar:    0.5,
			sar:   0.3,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			rng := rand.New(rand.NewPCG(11, 29))
			n := 500
			w := make([]float64, n)
			for i := range w {
				val := rng.NormFloat64()
				if i >= 1 {
					val += td.ar * w[i-1]
				}
				if i >= 2 {
					val += td.sar * w[i-2]
				}
				if i >= 3 {
					val -= td.ar * td.sar * w[i-3]
				}
				w[i] = val
			}
			y := w
			if td.order.D == 1 {
				y = make([]float64, n+1)
				y[0] = 100
				for i, v := range w {
					y[i+1] = y[i] + v
				}
			}

			m, err := New(td.order)
			require.Nil(t, err)
			require.Nil(t, m.Fit(y))

			require.Len(t, m.ARCoeffs(), 1)
			assert.InDelta(t, td.ar, m.ARCoeffs()[0], 0.1)
			if td.order.SP > 0 {
				require.Len(t, m.SARCoeffs(), 1)
				assert.InDelta(t, td.sar, m.SARCoeffs()[0], 0.1)
			}
			assert.InDelta(t, 1.0, m.Variance(), 0.2)
		})
	}
}

func TestPredictIntegratesDifferences(t *testing.T) {
	testData := map[string]struct {
		order    Order
		y        func(i int) float64
		horizon  int
		inSample int
	}{
		"linear trend": {
			order:    Order{P: 1, D: 1},
			y:        func(i int) float64 { return 2 + 3*float64(i) },
			horizon:  3,
			inSample: 2,
		},
		"trend with yearly cycle": {
			order: DefaultOrder(),
			y: func(i int) float64 {
				s := 3.0
				if i%2 == 1 {
					s = -3.0
				}
				return 10 + 2*float64(i) + s
			},
			horizon:  3,
			inSample: 4,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			n := 12
			y := make([]float64, n)
			for i := range y {
				y[i] = td.y(i)
			}
			m, err := New(td.order)
			require.Nil(t, err)
			require.Nil(t, m.Fit(y))

			res, err := m.Predict(n, n+td.horizon-1)
			require.Nil(t, err)
			require.Len(t, res, td.horizon)
			for h := 0; h < td.horizon; h++ {
				assert.InDelta(t, td.y(n+h), res[h], 1e-6, "step %d", h+1)
			}

			fitted, err := m.Predict(0, n-1)
			require.Nil(t, err)
			require.Len(t, fitted, n)
			assert.True(t, math.IsNaN(fitted[0]), "differencing consumes the first point")
			for i := td.inSample; i < n; i++ {
				assert.InDelta(t, y[i], fitted[i], 1e-6, "index %d", i)
			}
		})
	}
}

func TestPredictSpansTrainingEnd(t *testing.T) {
	y := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	m, err := New(Order{P: 1, D: 1})
	require.Nil(t, err)
	require.Nil(t, m.Fit(y))

	res, err := m.Predict(6, 9)
	require.Nil(t, err)
	require.Len(t, res, 4)
	assert.InDelta(t, 7.0, res[0], 1e-6)
	assert.InDelta(t, 8.0, res[1], 1e-6)
	assert.InDelta(t, 9.0, res[2], 1e-6)
	assert.InDelta(t, 10.0, res[3], 1e-6)
}

func TestFitShortSeries(t *testing.T) {
	// too short to condition on the lags so pre-sample values are zero
	m, err := New(DefaultOrder())
	require.Nil(t, err)
	require.Nil(t, m.Fit([]float64{5, 7, 9}))
	res, err := m.Predict(3, 5)
	require.Nil(t, err)
	require.Len(t, res, 3)
	for _, v := range res {
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
	}
}

func TestModelErrors(t *testing.T) {
	_, err := New(Order{P: 1, Q: 1})
	assert.ErrorIs(t, err, ErrUnsupportedOrder)

	m, err := New(DefaultOrder())
	require.Nil(t, err)

	_, err = m.Predict(0, 1)
	assert.ErrorIs(t, err, ErrUnfitted)

	assert.ErrorIs(t, m.Fit([]float64{1, 2}), ErrInsufficientData)
	assert.ErrorIs(t, m.Fit([]float64{1, math.NaN(), 3, 4}), ErrNonFinite)
	assert.ErrorIs(t, m.Fit([]float64{1, math.Inf(1), 3, 4}), ErrNonFinite)

	require.Nil(t, m.Fit([]float64{1, 3, 2, 5, 4, 7}))
	_, err = m.Predict(3, 2)
	assert.ErrorIs(t, err, ErrInvalidRange)
	_, err = m.Predict(-1, 2)
	assert.ErrorIs(t, err, ErrInvalidRange)

	var nilModel *Model
	_, err = nilModel.Predict(0, 1)
	assert.ErrorIs(t, err, ErrUnfitted)
}
