package timedataset

import "github.com/ceres-egressos/go-semester-forecaster/period"

type PeriodSlice []period.Period

func (p PeriodSlice) StartPeriod() period.Period {
	var start period.Period
	if len(p) < 1 {
		return start
	}
	return p[0]
}

func (p PeriodSlice) EndPeriod() period.Period {
	var end period.Period
	if len(p) < 1 {
		return end
	}
	return p[len(p)-1]
}

// IsContiguous reports whether each period immediately follows the previous one
func (p PeriodSlice) IsContiguous() bool {
	for i := 1; i < len(p); i++ {
		if p[i].Sub(p[i-1]) != 1 {
			return false
		}
	}
	return true
}
