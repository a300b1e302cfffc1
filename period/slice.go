package period

import "slices"

// Sort orders periods in place from earliest to latest
func Sort(p []Period) {
	slices.SortFunc(p, Period.Compare)
}

// IsStrictlyIncreasing reports whether every period is after the previous one
func IsStrictlyIncreasing(p []Period) bool {
	for i := 1; i < len(p); i++ {
		if !p[i].After(p[i-1]) {
			return false
		}
	}
	return true
}

// Difference returns the periods of a that are not in b, preserving the order of a
func Difference(a, b []Period) []Period {
	exclude := make(map[Period]struct{}, len(b))
	for _, p := range b {
		exclude[p] = struct{}{}
	}
	out := make([]Period, 0, len(a))
	for _, p := range a {
		if _, exists := exclude[p]; exists {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Union returns the sorted, de-duplicated periods of all inputs
func Union(sets ...[]Period) []Period {
	seen := make(map[Period]struct{})
	out := make([]Period, 0)
	for _, set := range sets {
		for _, p := range set {
			if _, exists := seen[p]; exists {
				continue
			}
			seen[p] = struct{}{}
			out = append(out, p)
		}
	}
	Sort(out)
	return out
}

// Labels converts periods to their labels
func Labels(p []Period) []string {
	out := make([]string, 0, len(p))
	for _, pnt := range p {
		out = append(out, pnt.Label())
	}
	return out
}
