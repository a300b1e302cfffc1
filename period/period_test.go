package period

import (
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	testData := map[string]struct {
		year     int
		half     int
		expected time.Time
		err      error
	}{
		"first half":       {2024, 1, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), nil},
		"second half":      {2024, 2, time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), nil},
		"half zero":        {2024, 0, time.Time{}, ErrInvalidPeriod},
		"half three":       {2024, 3, time.Time{}, ErrInvalidPeriod},
		"year out of band": {10000, 1, time.Time{}, ErrInvalidPeriod},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			p, err := Encode(td.year, td.half)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, td.expected, p.Time())
		})
	}
}

func TestDecode(t *testing.T) {
	testData := map[string]struct {
		label    string
		expected Period
		err      error
	}{
		"valid first half":  {"2024.1", MustEncode(2024, 1), nil},
		"valid second half": {"1999.2", MustEncode(1999, 2), nil},
		"surrounding space": {" 2020.2 ", MustEncode(2020, 2), nil},
		"third half":        {"2024.3", Period{}, ErrMalformedLabel},
		"zero half":         {"2024.0", Period{}, ErrMalformedLabel},
		"letters":           {"abc", Period{}, ErrMalformedLabel},
		"empty":             {"", Period{}, ErrMalformedLabel},
		"two digit half":    {"2024.12", Period{}, ErrMalformedLabel},
		"short year":        {"202.1", Period{}, ErrMalformedLabel},
		"comma separator":   {"2024,1", Period{}, ErrMalformedLabel},
		"year zero":         {"0000.1", Period{}, ErrMalformedLabel},
		"signed":            {"-024.1", Period{}, ErrMalformedLabel},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			p, err := Decode(td.label)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				assert.True(t, p.IsZero())
				return
			}
			require.Nil(t, err)
			assert.Equal(t, td.expected, p)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	for year := MinYear; year <= MaxYear; year += 37 {
		for half := 1; half <= 2; half++ {
			p, err := Encode(year, half)
			require.Nil(t, err)

			dec, err := Decode(p.Label())
			require.Nil(t, err)
			assert.Equal(t, p, dec, p.Label())
			assert.Equal(t, p, FromTime(p.Time()))
		}
	}
}

func TestFromTime(t *testing.T) {
	testData := map[string]struct {
		t        time.Time
		expected string
	}{
		"january":     {time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC), "2023.1"},
		"end of june": {time.Date(2023, 6, 30, 23, 59, 0, 0, time.UTC), "2023.1"},
		"july":        {time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC), "2023.2"},
		"december":    {time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), "2023.2"},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, td.expected, FromTime(td.t).Label())
		})
	}
}

func TestNext(t *testing.T) {
	testData := map[string]struct {
		start    Period
		n        int
		expected Period
	}{
		"zero steps":        {MustEncode(2024, 2), 0, MustEncode(2024, 2)},
		"into next year":    {MustEncode(2024, 2), 1, MustEncode(2025, 1)},
		"within year":       {MustEncode(2024, 1), 1, MustEncode(2024, 2)},
		"three steps":       {MustEncode(2024, 2), 3, MustEncode(2026, 1)},
		"backwards":         {MustEncode(2025, 1), -1, MustEncode(2024, 2)},
		"backwards further": {MustEncode(2025, 1), -4, MustEncode(2023, 1)},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			res := td.start.Next(td.n)
			assert.Equal(t, td.expected, res)
			assert.Equal(t, td.n, res.Sub(td.start))
		})
	}
}

func TestCompare(t *testing.T) {
	a := MustEncode(2020, 2)
	b := MustEncode(2021, 1)

	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 1, b.Compare(a))
	assert.Equal(t, 0, a.Compare(a))
	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.True(t, a.Time().Before(b.Time()))
}

func TestRangeAndWindow(t *testing.T) {
	start := MustEncode(2022, 1)
	end := MustEncode(2024, 2)

	r := Range(start, end)
	assert.Equal(t, []string{"2022.1", "2022.2", "2023.1", "2023.2", "2024.1", "2024.2"}, Labels(r))
	assert.True(t, IsStrictlyIncreasing(r))
	assert.Equal(t, []Period{}, Range(end, start))

	w := Window(end, 3)
	assert.Equal(t, []string{"2025.1", "2025.2", "2026.1"}, Labels(w))
	assert.Equal(t, []Period{}, Window(end, 0))
}

func TestSetOperations(t *testing.T) {
	a := Range(MustEncode(2020, 1), MustEncode(2021, 2))
	b := []Period{MustEncode(2020, 2), MustEncode(2022, 1)}

	assert.Equal(t, []string{"2020.1", "2021.1", "2021.2"}, Labels(Difference(a, b)))
	assert.Equal(t, []string{"2020.1", "2020.2", "2021.1", "2021.2", "2022.1"}, Labels(Union(b, a)))
	assert.Equal(t, []Period{}, Union())

	unsorted := []Period{MustEncode(2021, 2), MustEncode(2020, 1), MustEncode(2020, 2)}
	assert.False(t, IsStrictlyIncreasing(unsorted))
	Sort(unsorted)
	assert.True(t, IsStrictlyIncreasing(unsorted))
	assert.False(t, IsStrictlyIncreasing([]Period{MustEncode(2020, 1), MustEncode(2020, 1)}))
}

func TestTextMarshal(t *testing.T) {
	type doc struct {
		Start Period `json:"start"`
		End   Period `json:"end"`
	}

	in := doc{Start: MustEncode(2019, 2), End: MustEncode(2024, 1)}
	out, err := json.Marshal(in)
	require.Nil(t, err)
	assert.JSONEq(t, `{"start":"2019.2","end":"2024.1"}`, string(out))

	var dec doc
	require.Nil(t, json.Unmarshal(out, &dec))
	assert.Equal(t, in, dec)

	var bad Period
	assert.ErrorIs(t, bad.UnmarshalText([]byte("2019.5")), ErrMalformedLabel)
}
