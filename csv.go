package forecaster

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/ceres-egressos/go-semester-forecaster/period"
)

// PeriodColumn is the header of the first column of a persisted panel
const PeriodColumn = "period"

var (
	ErrMissingInputFile = errors.New("input file does not exist")
	ErrMissingHeader    = errors.New("missing header row")
	ErrMalformedCell    = errors.New("malformed numeric cell")
)

type panelRow struct {
	p      period.Period
	values []float64
}

// ReadPanelCSV reads a panel where the first column holds period labels and the remaining
// columns one course each. Rows with a malformed label are dropped, empty cells are NaN.
func ReadPanelCSV(r io.Reader) (*Panel, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrMissingHeader
	}
	if err != nil {
		return nil, fmt.Errorf("unable to read header, %w", err)
	}
	if len(header) == 0 {
		return nil, ErrMissingHeader
	}
	columns := header[1:]

	var rows []panelRow
	seen := make(map[period.Period]int)
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("unable to read line %d, %w", line, err)
		}
		if len(record) == 0 || (len(record) == 1 && strings.TrimSpace(record[0]) == "") {
			continue
		}

		pd, err := period.Decode(record[0])
		if err != nil {
			slog.Warn("dropping row with malformed period label", "line", line, "label", record[0], "error", err.Error())
			continue
		}
		if prev, exists := seen[pd]; exists {
			return nil, fmt.Errorf("%s on lines %d and %d, %w", pd, prev, line, ErrDuplicatePeriod)
		}
		seen[pd] = line

		if len(record)-1 > len(columns) {
			return nil, fmt.Errorf("line %d has %d cells for %d columns, %w", line, len(record)-1, len(columns), ErrPanelShape)
		}
		values := make([]float64, len(columns))
		for i := range values {
			values[i] = math.NaN()
			if i+1 >= len(record) {
				continue
			}
			cell := strings.TrimSpace(record[i+1])
			if cell == "" {
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d column %q value %q, %w", line, columns[i], cell, ErrMalformedCell)
			}
			values[i] = v
		}
		rows = append(rows, panelRow{p: pd, values: values})
	}

	slices.SortFunc(rows, func(a, b panelRow) int {
		return a.p.Compare(b.p)
	})
	periods := make([]period.Period, len(rows))
	data := make([][]float64, len(columns))
	for c := range data {
		data[c] = make([]float64, len(rows))
	}
	for r, row := range rows {
		periods[r] = row.p
		for c, v := range row.values {
			data[c][r] = v
		}
	}
	return NewPanel(periods, columns, data)
}

// ReadPanelFile reads a panel from a csv file
func ReadPanelFile(path string) (*Panel, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s, %w", path, ErrMissingInputFile)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadPanelCSV(f)
}

// WritePanelCSV writes the panel with the period label as the first column. Values are written
// with the given number of decimals, or the shortest representation when decimals is negative.
// NaN cells are left empty.
func WritePanelCSV(w io.Writer, p *Panel, decimals int) error {
	if p == nil {
		return ErrEmptyPanel
	}
	writer := csv.NewWriter(w)
	header := append([]string{PeriodColumn}, p.Columns...)
	if err := writer.Write(header); err != nil {
		return err
	}
	record := make([]string, len(p.Columns)+1)
	for r, pd := range p.Periods {
		record[0] = pd.Label()
		for c := range p.Columns {
			record[c+1] = formatCell(p.Data[c][r], decimals)
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WritePanelFile writes the panel to a csv file, truncating any existing file
func WritePanelFile(path string, p *Panel, decimals int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WritePanelCSV(f, p, decimals); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func formatCell(v float64, decimals int) string {
	if math.IsNaN(v) {
		return ""
	}
	s := strconv.FormatFloat(v, 'f', decimals, 64)
	// rounding a small negative value leaves a signed zero
	if strings.TrimLeft(s, "-0.") == "" {
		return strings.TrimPrefix(s, "-")
	}
	return s
}
