//go:build integration

package integration_test

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/co2-fit-explorer/internal/adapter/console"
	httpadapter "github.com/couchcryptid/co2-fit-explorer/internal/adapter/http"
	"github.com/couchcryptid/co2-fit-explorer/internal/adapter/noaa"
	"github.com/couchcryptid/co2-fit-explorer/internal/observability"
	"github.com/couchcryptid/co2-fit-explorer/internal/pipeline"
	"github.com/couchcryptid/co2-fit-explorer/internal/session"
)

const samplePath = "../adapter/noaa/testdata/mlo_sample.csv"

type frameLine struct {
	Frame   session.Frame `json:"frame"`
	Message string        `json:"message"`
}

func status(t *testing.T, base, path string) (int, string) {
	t.Helper()
	resp, err := http.Get(base + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

// TestExplorePipeline drives the full stack: the sample CSV is loaded, the
// default sessions are built from it, adjustments stream through the pipeline
// and frames come out of the console writer while the ops server reports
// readiness and metrics.
func TestExplorePipeline(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := slog.Default()
	metrics := observability.NewMetrics()

	ds, err := noaa.NewLoader(noaa.DefaultOptions(), logger, metrics).LoadFile(samplePath)
	require.NoError(t, err)
	series, err := ds.Series(noaa.ColumnCO2)
	require.NoError(t, err)
	sessions, err := session.FromSpecs(series, session.DefaultSpecs())
	require.NoError(t, err)
	controller := session.NewController(series, sessions, 2030)

	inR, inW := io.Pipe()
	outR, outW := io.Pipe()
	writer, err := console.NewWriter(outW, console.FormatJSON)
	require.NoError(t, err)

	p := pipeline.New(console.NewReader(inR), pipeline.NewTransformer(controller, logger), writer, logger, metrics)

	ops := httptest.NewServer(httpadapter.NewServer(":0", p, logger))
	defer ops.Close()

	code, _ := status(t, ops.URL, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, code)

	done := make(chan error, 1)
	go func() {
		defer outW.Close()
		var initial []session.Result
		for _, f := range controller.Render() {
			initial = append(initial, session.Result{Frame: f})
		}
		if err := p.Emit(ctx, initial...); err != nil {
			done <- err
			return
		}
		done <- p.Run(ctx)
	}()

	frames := bufio.NewScanner(outR)
	next := func() frameLine {
		t.Helper()
		require.True(t, frames.Scan(), "expected another frame")
		var fl frameLine
		require.NoError(t, json.Unmarshal(frames.Bytes(), &fl))
		return fl
	}

	assert.Equal(t, session.Early, next().Frame.Session)
	assert.Equal(t, session.Recent, next().Frame.Session)

	code, _ = status(t, ops.URL, "/readyz")
	assert.Equal(t, http.StatusOK, code)

	_, err = io.WriteString(inW, "recent slope 1.5\n")
	require.NoError(t, err)
	fl := next()
	assert.Equal(t, session.Recent, fl.Frame.Session)
	assert.Len(t, fl.Frame.Observed, 60)
	assert.InDelta(t, 1.5, fl.Frame.Params.Slope, 0)

	_, err = io.WriteString(inW, "nowhere slope 1\nrecent confirm\n")
	require.NoError(t, err)
	fl = next()
	assert.Equal(t, "Predicted CO2 in 2030: 455.95 ppm", fl.Message)

	require.NoError(t, inW.Close())
	require.NoError(t, <-done)
	assert.False(t, frames.Scan(), "no frames after input closes")

	code, body := status(t, ops.URL, "/frames?session=recent")
	require.Equal(t, http.StatusOK, code)
	var latest session.Frame
	require.NoError(t, json.Unmarshal([]byte(body), &latest))
	assert.InDelta(t, 1.5, latest.Params.Slope, 0)

	code, body = status(t, ops.URL, "/metrics")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `co2fit_frames_rendered_total{session="recent"} 3`)
	assert.Contains(t, body, "co2fit_adjustments_rejected_total 1")
	assert.Contains(t, body, "co2fit_adjustments_consumed_total 3")
	assert.Contains(t, body, "co2fit_csv_rows_loaded_total 144")
	assert.True(t, strings.Contains(body, "co2fit_pipeline_running 0"))
}
