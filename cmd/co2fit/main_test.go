package main

import (
	"bytes"
	"encoding/json"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/co2-fit-explorer/internal/adapter/noaa"
	"github.com/couchcryptid/co2-fit-explorer/internal/config"
	"github.com/couchcryptid/co2-fit-explorer/internal/domain"
	"github.com/couchcryptid/co2-fit-explorer/internal/observability"
	"github.com/couchcryptid/co2-fit-explorer/internal/session"
)

var samplePath = filepath.Join("..", "..", "internal", "adapter", "noaa", "testdata", "mlo_sample.csv")

func newTestApp() *app {
	return &app{
		cfg: &config.Config{
			DataPath:        samplePath,
			ValueColumn:     "co2",
			PreambleLines:   noaa.DefaultPreambleLines,
			PredictionYear:  2030,
			HTTPAddr:        ":8080",
			LogLevel:        "error",
			LogFormat:       "json",
			ShutdownTimeout: time.Second,
		},
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: observability.NewMetricsForTesting(),
	}
}

func run(t *testing.T, a *app, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(io.Discard)
	err := root.Execute()
	return out.String(), err
}

func TestFilterCmd(t *testing.T) {
	out, err := run(t, newTestApp(), "", "filter", "--from", "2015", "--to", "2015.2")
	require.NoError(t, err)
	assert.Equal(t, "date,co2\n2015.0417,425.2\n2015.125,425.82\n", out)
}

func TestFilterCmd_EmptyRange(t *testing.T) {
	out, err := run(t, newTestApp(), "", "filter", "--from", "1990", "--to", "2000")
	require.NoError(t, err)
	assert.Equal(t, "date,co2\n", out)
}

func TestFilterCmd_FullRecordByDefault(t *testing.T) {
	out, err := run(t, newTestApp(), "", "filter", "--column", "fit")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, "date,fit", lines[0])
	assert.Len(t, lines, 1+142)
}

func TestFilterCmd_UnknownColumn(t *testing.T) {
	_, err := run(t, newTestApp(), "", "filter", "--column", "methane")
	require.ErrorIs(t, err, noaa.ErrUnknownColumn)
}

func TestProjectCmd(t *testing.T) {
	out, err := run(t, newTestApp(), "", "project", "--slope", "2", "--intercept", "315", "--from", "1958", "--to", "1963")
	require.NoError(t, err)
	assert.Equal(t, "x,y\n1958,315\n1963,325\n", out)

	// Anchored at the smallest x, not the first.
	out, err = run(t, newTestApp(), "", "project", "--intercept", "300", "--x", "2000,1990,2010")
	require.NoError(t, err)
	assert.Equal(t, "x,y\n2000,320\n1990,300\n2010,340\n", out)

	_, err = run(t, newTestApp(), "", "project", "--intercept", "300", "--from", "1990")
	require.Error(t, err)
}

func TestPredictCmd(t *testing.T) {
	out, err := run(t, newTestApp(), "", "predict", "--slope", "2", "--intercept", "315", "--initial", "1958")
	require.NoError(t, err)
	assert.Equal(t, "Predicted CO2 in 2030: 459.00 ppm\n", out)

	out, err = run(t, newTestApp(), "", "predict", "--slope", "0", "--intercept", "400", "--initial", "2015", "--target", "2015")
	require.NoError(t, err)
	assert.Equal(t, "Predicted CO2 in 2015: 400.00 ppm\n", out)
}

func TestReportCmd_JSON(t *testing.T) {
	at := time.Date(2026, time.May, 4, 9, 30, 0, 0, time.UTC)
	domain.SetClock(clockwork.NewFakeClockAt(at))
	t.Cleanup(func() { domain.SetClock(nil) })

	a := newTestApp()
	out, err := run(t, a, "", "report")
	require.NoError(t, err)

	var rep report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))

	_, err = uuid.Parse(rep.RunID)
	require.NoError(t, err)
	assert.True(t, at.Equal(rep.GeneratedAt), "generated_at %s", rep.GeneratedAt)
	assert.Equal(t, "co2", rep.Source.Column)
	assert.Equal(t, 141, rep.Source.Points)
	assert.InDelta(t, 2030, rep.Target, 0)

	require.Len(t, rep.Frames, 2)
	assert.Equal(t, session.Early, rep.Frames[0].Session)
	assert.Len(t, rep.Frames[0].Observed, 57)
	assert.Len(t, rep.Frames[1].Observed, 60)

	require.Len(t, rep.Predictions, 2)
	assert.InDelta(t, 457.37, rep.Predictions[0].Value, 1e-9)
	assert.Equal(t, "Predicted CO2 in 2030: 457.37 ppm", rep.Predictions[0].Message)
	assert.InDelta(t, 463.45, rep.Predictions[1].Value, 1e-9)

	assert.InDelta(t, 144, testutil.ToFloat64(a.metrics.RowsLoaded), 0)
}

func TestReportCmd_Text(t *testing.T) {
	out, err := run(t, newTestApp(), "", "report", "--format", "text", "--target", "2040")
	require.NoError(t, err)
	assert.Contains(t, out, "Predicted CO2 in 2040: 477.37 ppm\n")
	assert.Contains(t, out, "Predicted CO2 in 2040: 483.45 ppm\n")
	assert.True(t, strings.HasPrefix(out, "early [1958, 1963] slope=2 intercept=313.37 observed=57"))
}

func TestReportCmd_SessionsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`prediction_year: 2050
sessions:
  - name: start
    from: 1958
    to: 1960
    slope: 1.5
    intercept: 314
`), 0o600))

	out, err := run(t, newTestApp(), "", "report", "--sessions", path)
	require.NoError(t, err)

	var rep report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	require.Len(t, rep.Predictions, 1)
	assert.Equal(t, "start", rep.Predictions[0].Session)
	assert.InDelta(t, 2050, rep.Predictions[0].Year, 0)
	assert.InDelta(t, 452.12, rep.Predictions[0].Value, 1e-9)
}

func TestReportCmd_SessionWithoutData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`sessions:
  - name: gap
    from: 1990
    to: 2000
`), 0o600))

	_, err := run(t, newTestApp(), "", "report", "--sessions", path)
	require.ErrorIs(t, err, session.ErrNoDataInRange)
}

func TestExploreCmd(t *testing.T) {
	a := newTestApp()
	stdin := `# lower the early slope and confirm
early slope 1
early confirm
bogus
recent intercept 1000
`
	out, err := run(t, a, stdin, "explore")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5, "two initial frames plus three accepted adjustments")

	var last struct {
		Frame   session.Frame `json:"frame"`
		Message string        `json:"message"`
	}
	require.NoError(t, json.Unmarshal([]byte(lines[3]), &last))
	assert.Equal(t, session.Early, last.Frame.Session)
	assert.Equal(t, "Predicted CO2 in 2030: 385.37 ppm", last.Message)

	require.NoError(t, json.Unmarshal([]byte(lines[4]), &last))
	assert.InDelta(t, 443.45, last.Frame.Params.Intercept, 1e-9, "intercept clamps to the slider maximum")

	assert.InDelta(t, 1, testutil.ToFloat64(a.metrics.AdjustmentsRejected), 0)
	assert.InDelta(t, 4, testutil.ToFloat64(a.metrics.AdjustmentsConsumed), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(a.metrics.PredictionsComputed.WithLabelValues(session.Early)), 0)
}

func TestExploreCmd_TextFormat(t *testing.T) {
	out, err := run(t, newTestApp(), "recent confirm\n", "explore", "--format", "text")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(out, "Predicted CO2 in 2030: 463.45 ppm\n"))
}

func TestInitialResults(t *testing.T) {
	series, err := domain.NewTimeSeries("co2", []domain.Observation{
		{Date: 1959.5, Value: 316},
		{Date: 2016.5, Value: 404},
	})
	require.NoError(t, err)
	sessions, err := session.FromSpecs(series, session.DefaultSpecs())
	require.NoError(t, err)

	results := initialResults(session.NewController(series, sessions, 2030))
	require.Len(t, results, 2)
	assert.Equal(t, session.Early, results[0].Frame.Session)
	assert.Equal(t, session.Recent, results[1].Frame.Session)
	for _, r := range results {
		assert.Nil(t, r.Prediction, "initial frames carry no prediction")
		assert.Len(t, r.Frame.Observed, 1)
	}
}

func TestReportCmd_MissingDataFile(t *testing.T) {
	_, err := run(t, newTestApp(), "", "report", "--data", filepath.Join(t.TempDir(), "absent.csv"))
	require.ErrorIs(t, err, fs.ErrNotExist)
	assert.Contains(t, err.Error(), "CO2_DATA_PATH")
	assert.Contains(t, err.Error(), "gensample")
}
