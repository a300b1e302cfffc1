package timedataset

import (
	"math"
	"math/rand/v2"

	"github.com/ceres-egressos/go-semester-forecaster/period"
	"gonum.org/v1/gonum/floats"
)

// GenerateP returns n contiguous periods starting at start
func GenerateP(start period.Period, n int) []period.Period {
	if n <= 0 {
		return []period.Period{}
	}
	return period.Range(start, start.Next(n-1))
}

type Series []float64

func (s Series) Add(src Series) Series {
	floats.Add(s, src)
	return s
}

// SetConst overwrites the values from start (inclusive) to end (exclusive)
func (s Series) SetConst(p []period.Period, val float64, start, end period.Period) Series {
	for i := 0; i < len(s); i++ {
		if !p[i].Before(start) && p[i].Before(end) {
			s[i] = val
		}
	}
	return s
}

func GenerateConstY(n int, val float64) Series {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, val)
	}
	return Series(y)
}

// GenerateTrendY returns a line starting at bias growing by slope every period
func GenerateTrendY(n int, bias, slope float64) Series {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, bias+slope*float64(i))
	}
	return Series(y)
}

// GenerateSeasonalY alternates between +amp in first halves and -amp in second halves
func GenerateSeasonalY(p []period.Period, amp float64) Series {
	y := make([]float64, 0, len(p))
	for _, pnt := range p {
		if pnt.Half() == 1 {
			y = append(y, amp)
			continue
		}
		y = append(y, -amp)
	}
	return Series(y)
}

// GenerateARY simulates an autoregressive process driven by gaussian noise with the given
// coefficients on lags 1..len(coef)
func GenerateARY(n int, coef []float64, noiseScale float64, rng *rand.Rand) Series {
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		val := rng.NormFloat64() * noiseScale
		for j, c := range coef {
			if i-j-1 < 0 {
				break
			}
			val += c * y[i-j-1]
		}
		y[i] = val
	}
	return Series(y)
}

func GenerateNoise(n int, noiseScale float64, rng *rand.Rand) Series {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, rng.NormFloat64()*noiseScale)
	}
	return Series(y)
}

// Round rounds each value to the nearest integer in place
func (s Series) Round() Series {
	for i, v := range s {
		s[i] = math.Round(v)
	}
	return s
}
