// Package period encodes academic semesters as half-year periods. A period is labelled
// "YYYY.P" where P is 1 for the first half of the year and 2 for the second, and maps to a
// canonical instant at the start of its half (January 1st or July 1st, UTC).
package period

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidPeriod  = errors.New("invalid period")
	ErrMalformedLabel = errors.New("malformed period label")
)

const (
	MinYear = 1
	MaxYear = 9999

	// PerYear is the number of periods in a calendar year
	PerYear = 2
)

// Period is a single half-year. The zero value is not a valid period.
type Period struct {
	year int
	half int
}

// Encode returns the period for the given year and half of year.
func Encode(year, half int) (Period, error) {
	if half != 1 && half != 2 {
		return Period{}, fmt.Errorf("half must be 1 or 2, got %d, %w", half, ErrInvalidPeriod)
	}
	if year < MinYear || year > MaxYear {
		return Period{}, fmt.Errorf("year must be within [%d, %d], got %d, %w", MinYear, MaxYear, year, ErrInvalidPeriod)
	}
	return Period{year: year, half: half}, nil
}

// MustEncode is like Encode but panics on an invalid year or half.
func MustEncode(year, half int) Period {
	p, err := Encode(year, half)
	if err != nil {
		panic(err)
	}
	return p
}

// Decode parses a "YYYY.P" label. Surrounding whitespace is ignored, anything else that does
// not conform results in ErrMalformedLabel.
func Decode(label string) (Period, error) {
	s := strings.TrimSpace(label)
	if len(s) != 6 || s[4] != '.' {
		return Period{}, fmt.Errorf("%q, %w", label, ErrMalformedLabel)
	}

	year := 0
	for i := 0; i < 4; i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return Period{}, fmt.Errorf("%q, %w", label, ErrMalformedLabel)
		}
		year = year*10 + int(c-'0')
	}

	var half int
	switch s[5] {
	case '1':
		half = 1
	case '2':
		half = 2
	default:
		return Period{}, fmt.Errorf("%q, %w", label, ErrMalformedLabel)
	}

	p, err := Encode(year, half)
	if err != nil {
		return Period{}, fmt.Errorf("%q, %w", label, ErrMalformedLabel)
	}
	return p, nil
}

// FromTime returns the period containing t. Months January through June belong to the first
// half, July through December to the second.
func FromTime(t time.Time) Period {
	t = t.UTC()
	half := 1
	if t.Month() > time.June {
		half = 2
	}
	return Period{year: t.Year(), half: half}
}

// Year returns the calendar year of the period
func (p Period) Year() int {
	return p.year
}

// Half returns 1 or 2 for a valid period
func (p Period) Half() int {
	return p.half
}

// IsZero reports whether p is the zero value
func (p Period) IsZero() bool {
	return p.year == 0 && p.half == 0
}

// Time returns the canonical instant of the period
func (p Period) Time() time.Time {
	month := time.January
	if p.half == 2 {
		month = time.July
	}
	return time.Date(p.year, month, 1, 0, 0, 0, 0, time.UTC)
}

// Label returns the "YYYY.P" form of the period. The half is derived from the canonical
// instant so that Decode(p.Label()) == p.
func (p Period) Label() string {
	if p.IsZero() {
		return ""
	}
	t := p.Time()
	half := 1
	if t.Month() > time.June {
		half = 2
	}
	return fmt.Sprintf("%04d.%d", t.Year(), half)
}

func (p Period) String() string {
	return p.Label()
}

// index is the number of half-year steps since year 0
func (p Period) index() int {
	return p.year*PerYear + p.half - 1
}

func fromIndex(idx int) Period {
	return Period{year: idx / PerYear, half: idx%PerYear + 1}
}

// Next advances the period by n half-year steps. Negative n moves backwards.
func (p Period) Next(n int) Period {
	return fromIndex(p.index() + n)
}

// Sub returns the signed number of half-year steps from q to p
func (p Period) Sub(q Period) int {
	return p.index() - q.index()
}

// Compare returns -1, 0 or 1 if p is before, equal to or after q
func (p Period) Compare(q Period) int {
	switch d := p.Sub(q); {
	case d < 0:
		return -1
	case d > 0:
		return 1
	default:
		return 0
	}
}

func (p Period) Before(q Period) bool {
	return p.Sub(q) < 0
}

func (p Period) After(q Period) bool {
	return p.Sub(q) > 0
}

// MarshalText encodes the period as its label
func (p Period) MarshalText() ([]byte, error) {
	if p.IsZero() {
		return []byte{}, nil
	}
	return []byte(p.Label()), nil
}

// UnmarshalText decodes a label. An empty label decodes to the zero period.
func (p *Period) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*p = Period{}
		return nil
	}
	dec, err := Decode(string(b))
	if err != nil {
		return err
	}
	*p = dec
	return nil
}

// Range returns every period from start to end inclusive. An empty slice is returned if end
// is before start.
func Range(start, end Period) []Period {
	n := end.Sub(start) + 1
	if n <= 0 {
		return []Period{}
	}
	out := make([]Period, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, start.Next(i))
	}
	return out
}

// Window returns the h periods strictly after last
func Window(last Period, h int) []Period {
	if h <= 0 {
		return []Period{}
	}
	return Range(last.Next(1), last.Next(h))
}
