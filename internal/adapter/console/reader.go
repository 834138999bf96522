package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/couchcryptid/co2-fit-explorer/internal/session"
)

type line struct {
	n    int
	text string
	err  error
}

// Reader reads adjustment lines such as "early slope 1.3" from a stream.
// Blank lines and text after '#' are ignored. It implements pipeline.Extractor.
type Reader struct {
	src       io.Reader
	once      sync.Once
	closeOnce sync.Once
	lines     chan line
	done      chan struct{}
	stopped   chan struct{}
}

// NewReader creates a Reader over src.
func NewReader(src io.Reader) *Reader {
	return &Reader{
		src:     src,
		lines:   make(chan line),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// Close stops delivering lines; later Extract calls return io.EOF. A read
// already blocked inside src is released only when src returns.
func (r *Reader) Close() error {
	r.closeOnce.Do(func() { close(r.done) })
	return nil
}

// Extract returns the next adjustment. It returns io.EOF at the end of the
// stream and ctx.Err() if the context is cancelled while waiting for input.
// Lines that do not parse are returned as errors wrapping
// session.ErrMalformedAdjustment or session.ErrUnknownField.
func (r *Reader) Extract(ctx context.Context) (session.Adjustment, error) {
	r.once.Do(func() { go r.scan() })

	for {
		select {
		case <-ctx.Done():
			return session.Adjustment{}, ctx.Err()
		case <-r.done:
			return session.Adjustment{}, io.EOF
		case l, ok := <-r.lines:
			if !ok {
				return session.Adjustment{}, io.EOF
			}
			if l.err != nil {
				return session.Adjustment{}, fmt.Errorf("read adjustments: %w", l.err)
			}
			text := stripComment(l.text)
			if text == "" {
				continue
			}
			adj, err := session.ParseAdjustment(text)
			if err != nil {
				return session.Adjustment{}, fmt.Errorf("line %d: %w", l.n, err)
			}
			return adj, nil
		}
	}
}

// scan feeds lines to Extract so that a blocked read does not prevent
// cancellation.
func (r *Reader) scan() {
	defer close(r.stopped)
	defer close(r.lines)
	sc := bufio.NewScanner(r.src)
	n := 0
	for sc.Scan() {
		n++
		if !r.send(line{n: n, text: sc.Text()}) {
			return
		}
	}
	if err := sc.Err(); err != nil {
		r.send(line{n: n, err: err})
	}
}

// send hands l to Extract, giving up once the reader is closed.
func (r *Reader) send(l line) bool {
	select {
	case r.lines <- l:
		return true
	case <-r.done:
		return false
	}
}

func stripComment(s string) string {
	if i := strings.IndexByte(s, '#'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
