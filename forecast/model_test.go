package forecast

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ceres-egressos/go-semester-forecaster/forecast/options"
	"github.com/ceres-egressos/go-semester-forecaster/period"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelTablePrint(t *testing.T) {
	testData := map[string]struct {
		m        Model
		prefix   string
		indent   string
		header   string
		expected [][]string
	}{
		"no input": {
			header: "Forecast:\n" +
				"Training Window:  -  (0 observations)\n" +
				"Weights:\n",
			expected: [][]string{
				{"Type", "Lag", "Value"},
				{"variance", "0.000"},
			},
		},
		"full model with prefix and indent": {
			m: Model{
				TrainStart:   period.MustEncode(2019, 1),
				TrainEnd:     period.MustEncode(2024, 2),
				Observations: 12,
				Options:      options.NewDefaultOptions(options.MetricCount),
				Scores: &Scores{
					MAPE: 0.1234,
					MSE:  1.2345,
					R2:   0.0123,
				},
				Weights: Weights{
					AR:         []float64{0.5},
					SeasonalAR: []float64{-0.25},
					Variance:   1.5,
				},
			},
			prefix: "--",
			indent: "**",
			header: "--Forecast:\n" +
				"--**Training Window: 2019.1 - 2024.2 (12 observations)\n" +
				"--**Options:\n" +
				"--****Metric: count    Order: SARIMA(1,1,0)(1,0,0,2)\n" +
				"--****Horizon: 3    Min Observations: 10    Decimals: 2\n" +
				"--Scores:\n" +
				"--**MAPE: 0.123    MSE: 1.234    R2: 0.012\n" +
				"--Weights:\n",
			expected: [][]string{
				{"--**Type", "Lag", "Value"},
				{"--**ar", "1", "0.500"},
				{"--**seasonal_ar", "1", "-0.250"},
				{"--**variance", "1.500"},
			},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			require.Nil(t, td.m.TablePrint(&buf, td.prefix, td.indent))
			out := buf.String()
			require.True(t, strings.HasPrefix(out, td.header), out)

			rows := strings.Split(strings.TrimSuffix(strings.TrimPrefix(out, td.header), "\n"), "\n")
			require.Len(t, rows, len(td.expected))
			for i, row := range rows {
				assert.Equal(t, td.expected[i], strings.Fields(row))
			}
		})
	}
}

func TestModelJSON(t *testing.T) {
	m := Model{
		TrainStart: period.MustEncode(2020, 2),
		TrainEnd:   period.MustEncode(2024, 1),
		Options:    options.NewDefaultOptions(options.MetricContinuous),
		Weights:    Weights{AR: []float64{0.1}, SeasonalAR: []float64{0.2}},
	}
	out, err := json.Marshal(m)
	require.Nil(t, err)
	assert.Contains(t, string(out), `"train_start":"2020.2"`)
	assert.Contains(t, string(out), `"metric":"continuous"`)

	var res Model
	require.Nil(t, json.Unmarshal(out, &res))
	assert.Equal(t, m, res)
}
