package console

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/couchcryptid/co2-fit-explorer/internal/domain"
	"github.com/couchcryptid/co2-fit-explorer/internal/session"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// envelope is one JSON line written per result.
type envelope struct {
	Frame      session.Frame      `json:"frame"`
	Prediction *domain.Prediction `json:"prediction,omitempty"`
	Message    string             `json:"message,omitempty"`
}

// Writer renders results to a stream, one line per frame in json format or
// a short summary line in text format. Confirmed predictions always carry the
// "Predicted CO2 in <year>: <ppm> ppm" message. It implements pipeline.Loader.
type Writer struct {
	out    io.Writer
	format string
}

// NewWriter creates a Writer. An empty format means json.
func NewWriter(out io.Writer, format string) (*Writer, error) {
	switch format {
	case "":
		format = FormatJSON
	case FormatJSON, FormatText:
	default:
		return nil, fmt.Errorf("unknown output format %q (want %s or %s)", format, FormatJSON, FormatText)
	}
	return &Writer{out: out, format: format}, nil
}

// Load writes res.
func (w *Writer) Load(_ context.Context, res session.Result) error {
	if w.format == FormatText {
		return w.writeText(res)
	}

	env := envelope{Frame: res.Frame, Prediction: res.Prediction}
	if res.Prediction != nil {
		env.Message = res.Prediction.String()
	}
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("serialize frame: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.out.Write(data); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

func (w *Writer) writeText(res session.Result) error {
	f := res.Frame
	_, err := fmt.Fprintf(w.out, "%s [%s, %s] slope=%s intercept=%s observed=%d line=%s\n",
		f.Session, num(f.Range.Min), num(f.Range.Max),
		num(f.Params.Slope), num(f.Params.Intercept),
		len(f.Observed), lineText(f.Line))
	if err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	if res.Prediction != nil {
		if _, err := fmt.Fprintln(w.out, res.Prediction.String()); err != nil {
			return fmt.Errorf("write prediction: %w", err)
		}
	}
	return nil
}

func lineText(pts []domain.Point) string {
	if len(pts) == 0 {
		return "-"
	}
	first, last := pts[0], pts[len(pts)-1]
	return fmt.Sprintf("(%s,%s)-(%s,%s)", num(first.X), num(first.Y), num(last.X), num(last.Y))
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
