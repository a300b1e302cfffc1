// Package sarima implements a seasonal autoregressive integrated model SARIMA(p,d,0)(P,D,0,m)
// estimated by conditional sum of squares. Stationarity of the autoregressive polynomials is
// not enforced so explosive fits are kept as estimated.
package sarima

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/ceres-egressos/go-semester-forecaster/linearmodel"
	mat_ "github.com/ceres-egressos/go-semester-forecaster/mat"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
)

var (
	ErrUnsupportedOrder = errors.New("unsupported model order")
	ErrInsufficientData = errors.New("insufficient data points for the model order")
	ErrNonFinite        = errors.New("non-finite value")
	ErrUnfitted         = errors.New("model has not been fit")
	ErrInvalidRange     = errors.New("invalid prediction range")
	ErrOptimize         = errors.New("unable to optimize sum of squares")
)

const (
	DefaultMaxIterations = 2000
	DefaultTolerance     = 1e-10
)

// Model is a fitted or unfitted SARIMA model over a univariate series
type Model struct {
	order Order

	MaxIterations int
	Tolerance     float64

	arCoeffs  []float64
	sarCoeffs []float64
	poly      []float64 // expanded lag polynomial, poly[k] weighs lag k
	variance  float64
	sse       float64

	n         int
	stages    [][]float64 // stages[0] is the input, each next stage is differenced at lags[i]
	lags      []int
	residuals []float64 // residuals of the fully differenced stage
	cond      int       // residuals before cond are not part of the objective
	fitted    bool
}

// New creates an unfitted model with the given order
func New(order Order) (*Model, error) {
	if err := order.Validate(); err != nil {
		return nil, err
	}
	return &Model{
		order:         order,
		MaxIterations: DefaultMaxIterations,
		Tolerance:     DefaultTolerance,
	}, nil
}

func (m *Model) Order() Order {
	return m.order
}

// ARCoeffs returns the non-seasonal autoregressive coefficients
func (m *Model) ARCoeffs() []float64 {
	return slices.Clone(m.arCoeffs)
}

// SARCoeffs returns the seasonal autoregressive coefficients
func (m *Model) SARCoeffs() []float64 {
	return slices.Clone(m.sarCoeffs)
}

// Variance returns the residual variance of the fit
func (m *Model) Variance() float64 {
	return m.variance
}

// Residuals returns the one step residuals on the differenced series. Residuals used to
// condition the fit are NaN.
func (m *Model) Residuals() []float64 {
	res := slices.Clone(m.residuals)
	for i := 0; i < m.cond && i < len(res); i++ {
		res[i] = math.NaN()
	}
	return res
}

// Fit estimates the autoregressive coefficients from y
func (m *Model) Fit(y []float64) error {
	if m == nil {
		return ErrUnfitted
	}
	m.fitted = false
	if len(y) < m.order.MinObservations() {
		return fmt.Errorf("need at least %d points for %s, got %d, %w",
			m.order.MinObservations(), m.order, len(y), ErrInsufficientData)
	}
	for i, v := range y {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("input at index %d, %w", i, ErrNonFinite)
		}
	}

	m.n = len(y)
	m.stages, m.lags = difference(y, m.order)
	w := m.stages[len(m.stages)-1]

	nParams := m.order.P + m.order.SP
	maxLag := m.order.P + m.order.SP*m.order.M
	m.cond = 0
	if len(w)-maxLag >= nParams+1 {
		m.cond = maxLag
	}

	params := make([]float64, nParams)
	if nParams > 0 {
		var err error
		params, err = m.optimize(w)
		if err != nil {
			return err
		}
	}
	m.arCoeffs = slices.Clone(params[:m.order.P])
	m.sarCoeffs = slices.Clone(params[m.order.P:])
	m.poly = expandPolynomial(m.arCoeffs, m.sarCoeffs, m.order.M)

	m.residuals = residualsOf(w, m.poly)
	var sse float64
	cnt := 0
	for t := m.cond; t < len(w); t++ {
		sse += m.residuals[t] * m.residuals[t]
		cnt++
	}
	m.sse = sse
	if cnt > nParams {
		m.variance = sse / float64(cnt-nParams)
	} else {
		m.variance = sse / float64(cnt)
	}
	if math.IsNaN(m.sse) || math.IsInf(m.sse, 0) {
		return fmt.Errorf("sum of squares, %w", ErrNonFinite)
	}

	m.fitted = true
	return nil
}

func (m *Model) objective(w []float64) func(x []float64) float64 {
	return func(x []float64) float64 {
		poly := expandPolynomial(x[:m.order.P], x[m.order.P:], m.order.M)
		res := residualsOf(w, poly)
		sse := floats.Dot(res[m.cond:], res[m.cond:])
		if math.IsNaN(sse) || math.IsInf(sse, 0) {
			return math.MaxFloat64
		}
		return sse
	}
}

func (m *Model) optimize(w []float64) ([]float64, error) {
	f := m.objective(w)

	init := m.initialEstimate(w)
	initF := f(init)

	settings := &optimize.Settings{
		MajorIterations: m.MaxIterations,
		Converger: &optimize.FunctionConverge{
			Absolute:   m.Tolerance,
			Iterations: 100,
		},
	}
	res, err := optimize.Minimize(optimize.Problem{Func: f}, slices.Clone(init), settings, &optimize.NelderMead{})
	if res == nil || !allFinite(res.X) {
		if err == nil {
			err = ErrNonFinite
		}
		if allFinite(init) && initF < math.MaxFloat64 {
			return init, nil
		}
		return nil, fmt.Errorf("%w, %w", ErrOptimize, err)
	}
	if res.F < initF {
		return res.X, nil
	}
	return init, nil
}

// initialEstimate regresses the differenced series on its regular and seasonal lags ignoring
// the multiplicative cross terms. Falls back to zeros if the regression cannot be solved.
func (m *Model) initialEstimate(w []float64) []float64 {
	params := make([]float64, m.order.P+m.order.SP)

	lagIdx := make(map[int]int)
	var lags []int
	for i := 1; i <= m.order.P; i++ {
		lagIdx[i] = i - 1
		lags = append(lags, i)
	}
	for j := 1; j <= m.order.SP; j++ {
		lag := j * m.order.M
		if _, exists := lagIdx[lag]; exists {
			continue
		}
		lagIdx[lag] = m.order.P + j - 1
		lags = append(lags, lag)
	}

	x, target, err := mat_.NewLagMatrix(w, lags)
	if err != nil {
		return params
	}
	ols, err := linearmodel.NewOLSRegression(&linearmodel.OLSOptions{FitIntercept: false})
	if err != nil {
		return params
	}
	if err := ols.Fit(x, mat.NewDense(len(target), 1, target)); err != nil {
		return params
	}
	coef := ols.Coef()
	if !allFinite(coef) {
		return params
	}
	for i, lag := range lags {
		params[lagIdx[lag]] = coef[i]
	}
	return params
}

// Predict returns values for the training index range [start, end]. Indices before the end of
// the training data are one step ahead fitted values, NaN where differencing or conditioning
// consumed the history. Indices past the training data are recursive forecasts.
func (m *Model) Predict(start, end int) ([]float64, error) {
	if m == nil || !m.fitted {
		return nil, ErrUnfitted
	}
	if start < 0 || end < start {
		return nil, fmt.Errorf("start %d, end %d, %w", start, end, ErrInvalidRange)
	}

	var forecasts []float64
	if end >= m.n {
		forecasts = m.forecast(end - m.n + 1)
	}

	offset := m.n - len(m.residuals)
	y := m.stages[0]
	out := make([]float64, 0, end-start+1)
	for i := start; i <= end; i++ {
		if i >= m.n {
			out = append(out, forecasts[i-m.n])
			continue
		}
		j := i - offset
		if j < m.cond || j < 0 {
			out = append(out, math.NaN())
			continue
		}
		out = append(out, y[i]-m.residuals[j])
	}
	return out, nil
}

// forecast projects h steps past the training data and integrates them back through each
// differencing stage
func (m *Model) forecast(h int) []float64 {
	w := m.stages[len(m.stages)-1]
	ext := make([]float64, len(w), len(w)+h)
	copy(ext, w)
	for step := 0; step < h; step++ {
		t := len(ext)
		var val float64
		for k := 1; k < len(m.poly); k++ {
			if t-k < 0 {
				break
			}
			val += m.poly[k] * ext[t-k]
		}
		ext = append(ext, val)
	}
	f := ext[len(w):]

	for s := len(m.stages) - 2; s >= 0; s-- {
		lag := m.lags[s]
		stage := m.stages[s]
		lvl := make([]float64, len(stage), len(stage)+h)
		copy(lvl, stage)
		for step := 0; step < h; step++ {
			t := len(lvl)
			lvl = append(lvl, f[step]+lvl[t-lag])
		}
		f = lvl[len(stage):]
	}
	return slices.Clone(f)
}

// difference applies the regular then seasonal differences returning every intermediate stage
func difference(y []float64, order Order) ([][]float64, []int) {
	stages := [][]float64{slices.Clone(y)}
	var lags []int
	for i := 0; i < order.D; i++ {
		stages = append(stages, diff(stages[len(stages)-1], 1))
		lags = append(lags, 1)
	}
	for i := 0; i < order.SD; i++ {
		stages = append(stages, diff(stages[len(stages)-1], order.M))
		lags = append(lags, order.M)
	}
	return stages, lags
}

func diff(x []float64, lag int) []float64 {
	if len(x) <= lag {
		return []float64{}
	}
	out := make([]float64, len(x)-lag)
	for i := lag; i < len(x); i++ {
		out[i-lag] = x[i] - x[i-lag]
	}
	return out
}

// expandPolynomial multiplies (1 - sum ar_i B^i)(1 - sum sar_j B^(j*m)) and returns the lag
// weights a_k of w_t = sum a_k w_(t-k), with a_0 unused.
func expandPolynomial(ar, sar []float64, m int) []float64 {
	regular := make([]float64, len(ar)+1)
	regular[0] = 1
	for i, c := range ar {
		regular[i+1] = -c
	}
	seasonal := make([]float64, len(sar)*m+1)
	seasonal[0] = 1
	for j, c := range sar {
		seasonal[(j+1)*m] = -c
	}

	prod := make([]float64, len(regular)+len(seasonal)-1)
	for i, a := range regular {
		for j, b := range seasonal {
			prod[i+j] += a * b
		}
	}
	for k := range prod {
		prod[k] = -prod[k]
	}
	prod[0] = 0
	return prod
}

// residualsOf computes w_t - sum a_k w_(t-k) with pre-sample values taken as zero
func residualsOf(w, poly []float64) []float64 {
	res := make([]float64, len(w))
	for t := range w {
		pred := 0.0
		for k := 1; k < len(poly) && t-k >= 0; k++ {
			pred += poly[k] * w[t-k]
		}
		res[t] = w[t] - pred
	}
	return res
}

func allFinite(x []float64) bool {
	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
