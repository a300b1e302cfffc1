package forecaster

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/ceres-egressos/go-semester-forecaster/period"
	"github.com/ceres-egressos/go-semester-forecaster/timedataset"
)

var (
	ErrEmptyPanel       = errors.New("no panel or uninitialized")
	ErrUnorderedPeriods = errors.New("panel periods are not strictly increasing")
	ErrDuplicatePeriod  = errors.New("duplicate period label")
	ErrDuplicateColumn  = errors.New("duplicate column")
	ErrPanelShape       = errors.New("panel data does not match periods and columns")
	ErrUnknownColumn    = errors.New("unknown column")
)

// Panel is a period by course table stored column-major. A NaN cell is a missing value.
type Panel struct {
	Periods []period.Period
	Columns []string
	Data    [][]float64 // Data[column][row]
}

// NewPanel validates and copies the inputs into a panel. Periods must be strictly increasing,
// columns unique and data must hold one slice per column with one value per period.
func NewPanel(periods []period.Period, columns []string, data [][]float64) (*Panel, error) {
	if !period.IsStrictlyIncreasing(periods) {
		return nil, ErrUnorderedPeriods
	}
	seen := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		if _, exists := seen[c]; exists {
			return nil, fmt.Errorf("%q, %w", c, ErrDuplicateColumn)
		}
		seen[c] = struct{}{}
	}
	if len(data) != len(columns) {
		return nil, fmt.Errorf("got %d data columns for %d columns, %w", len(data), len(columns), ErrPanelShape)
	}
	p := &Panel{
		Periods: slices.Clone(periods),
		Columns: slices.Clone(columns),
		Data:    make([][]float64, len(columns)),
	}
	if p.Periods == nil {
		p.Periods = []period.Period{}
	}
	if p.Columns == nil {
		p.Columns = []string{}
	}
	for i, col := range data {
		if len(col) != len(periods) {
			return nil, fmt.Errorf("column %q has %d values for %d periods, %w", columns[i], len(col), len(periods), ErrPanelShape)
		}
		p.Data[i] = slices.Clone(col)
	}
	return p, nil
}

// NumRows returns the number of periods
func (p *Panel) NumRows() int {
	if p == nil {
		return 0
	}
	return len(p.Periods)
}

// NumColumns returns the number of courses
func (p *Panel) NumColumns() int {
	if p == nil {
		return 0
	}
	return len(p.Columns)
}

func (p *Panel) ColumnIndex(name string) (int, bool) {
	if p == nil {
		return 0, false
	}
	idx := slices.Index(p.Columns, name)
	return idx, idx >= 0
}

func (p *Panel) periodIndex(pd period.Period) (int, bool) {
	return slices.BinarySearchFunc(p.Periods, pd, period.Period.Compare)
}

// HasPeriod reports whether the panel has a row for the period
func (p *Panel) HasPeriod(pd period.Period) bool {
	if p == nil {
		return false
	}
	_, found := p.periodIndex(pd)
	return found
}

// Column returns a copy of the values of a column including NaNs
func (p *Panel) Column(name string) ([]float64, bool) {
	idx, ok := p.ColumnIndex(name)
	if !ok {
		return nil, false
	}
	return slices.Clone(p.Data[idx]), true
}

// Value returns the cell at the period and column. Missing rows, columns and NaN cells are not
// found.
func (p *Panel) Value(pd period.Period, name string) (float64, bool) {
	col, ok := p.ColumnIndex(name)
	if !ok {
		return math.NaN(), false
	}
	row, ok := p.periodIndex(pd)
	if !ok {
		return math.NaN(), false
	}
	v := p.Data[col][row]
	return v, !math.IsNaN(v)
}

// Series returns the non-NaN cells of a column as a dataset
func (p *Panel) Series(name string) (*timedataset.TimeDataset, error) {
	idx, ok := p.ColumnIndex(name)
	if !ok {
		return nil, fmt.Errorf("%q, %w", name, ErrUnknownColumn)
	}
	td := &timedataset.TimeDataset{P: p.Periods, Y: p.Data[idx]}
	return td.DropNan(), nil
}

// FilledSeries returns a column over every period of the panel with NaN cells replaced by fill
func (p *Panel) FilledSeries(name string, fill float64) (*timedataset.TimeDataset, error) {
	idx, ok := p.ColumnIndex(name)
	if !ok {
		return nil, fmt.Errorf("%q, %w", name, ErrUnknownColumn)
	}
	y := make([]float64, len(p.Periods))
	for i, v := range p.Data[idx] {
		if math.IsNaN(v) {
			v = fill
		}
		y[i] = v
	}
	return &timedataset.TimeDataset{P: slices.Clone(p.Periods), Y: y}, nil
}

// Rows returns the values row-major
func (p *Panel) Rows() [][]float64 {
	if p == nil {
		return nil
	}
	rows := make([][]float64, len(p.Periods))
	for r := range rows {
		rows[r] = make([]float64, len(p.Columns))
		for c := range p.Columns {
			rows[r][c] = p.Data[c][r]
		}
	}
	return rows
}

func (p *Panel) Copy() *Panel {
	if p == nil {
		return nil
	}
	out := &Panel{
		Periods: slices.Clone(p.Periods),
		Columns: slices.Clone(p.Columns),
		Data:    make([][]float64, len(p.Data)),
	}
	for i, col := range p.Data {
		out.Data[i] = slices.Clone(col)
	}
	return out
}

// DropColumns returns a copy of the panel without the columns matching
func (p *Panel) DropColumns(match func(string) bool) *Panel {
	if p == nil {
		return nil
	}
	out := &Panel{
		Periods: slices.Clone(p.Periods),
		Columns: make([]string, 0, len(p.Columns)),
		Data:    make([][]float64, 0, len(p.Data)),
	}
	for i, c := range p.Columns {
		if match(c) {
			continue
		}
		out.Columns = append(out.Columns, c)
		out.Data = append(out.Data, slices.Clone(p.Data[i]))
	}
	return out
}

// CourseName maps a course key of the form "id - name" to its name. Keys without the separator
// are returned trimmed.
func CourseName(key string) string {
	if _, name, found := strings.Cut(key, " - "); found {
		return strings.TrimSpace(name)
	}
	return strings.TrimSpace(key)
}
