// Package scene runs Lua scripts that draw onto a screen.
//
// A script sees a small drawing API (size, put, set, fill, layer, write,
// move, remove, clear, log) bound to one screen. Positions in the API are
// 1-indexed like Lua itself: put(1, 1, "hi") writes to the top-left corner.
// Layers are referred to by opaque string ids.
//
// Each run gets a fresh sandboxed interpreter. Layers created by the previous
// run are removed before the next one starts, so re-running an edited script
// replaces its layers instead of stacking new ones on top.
package scene

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dshills/tessera/internal/renderer/grid"
	"github.com/dshills/tessera/internal/renderer/screen"
)

// Default limits for a single run.
const (
	DefaultInstructionLimit = 1_000_000
	DefaultTimeout          = 2 * time.Second
)

// Errors returned by Run and RunString.
var (
	// ErrInstructionLimit is returned when a script exceeds its call budget.
	ErrInstructionLimit = errors.New("scene instruction limit exceeded")

	// ErrUnknownLayer is raised inside a script that names a missing layer.
	ErrUnknownLayer = errors.New("unknown layer")
)

// Logger receives messages from log() and print().
type Logger interface {
	Info(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...any) {}

// Runner executes scene scripts against a screen. A Runner is not safe for
// concurrent use; it shares the caller's screen without locking.
type Runner struct {
	screen *screen.Screen
	logger Logger

	instructionLimit int
	timeout          time.Duration

	// Layers created by the current run, keyed by id.
	layers map[string]*grid.Layer
	order  []string

	calls    int
	limitHit bool
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger routes log() and print() output to l.
func WithLogger(l Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithInstructionLimit bounds the number of drawing API calls per run.
// Zero or less disables the limit.
func WithInstructionLimit(limit int) Option {
	return func(r *Runner) {
		r.instructionLimit = limit
	}
}

// WithTimeout bounds the wall-clock time of a run. Zero or less disables it.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		r.timeout = d
	}
}

// NewRunner creates a runner drawing onto s.
func NewRunner(s *screen.Screen, opts ...Option) *Runner {
	r := &Runner{
		screen:           s,
		logger:           nopLogger{},
		instructionLimit: DefaultInstructionLimit,
		timeout:          DefaultTimeout,
		layers:           make(map[string]*grid.Layer),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the script at path.
func (r *Runner) Run(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("scene: %w", err)
	}
	return r.run(ctx, path, string(data))
}

// RunString executes code as a script named "<string>".
func (r *Runner) RunString(ctx context.Context, code string) error {
	return r.run(ctx, "<string>", code)
}

func (r *Runner) run(ctx context.Context, name, code string) error {
	r.Reset()

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	L := newSandboxedState()
	defer L.Close()
	L.SetContext(ctx)
	r.install(L)

	fn, err := L.Load(strings.NewReader(code), name)
	if err != nil {
		return fmt.Errorf("scene %s: %w", name, err)
	}
	L.Push(fn)
	err = L.PCall(0, 0, nil)
	r.screen.MarkDirty()

	switch {
	case err == nil:
		return nil
	case r.limitHit:
		return fmt.Errorf("scene %s: %w (%d calls)", name, ErrInstructionLimit, r.instructionLimit)
	case ctx.Err() != nil:
		return fmt.Errorf("scene %s: %w", name, ctx.Err())
	default:
		return fmt.Errorf("scene %s: %w", name, err)
	}
}

// Reset removes every layer created by the previous run from the screen.
func (r *Runner) Reset() {
	for _, id := range r.order {
		// A layer the caller already detached is not an error here.
		_ = r.screen.RemoveLayer(r.layers[id])
	}
	clear(r.layers)
	r.order = r.order[:0]
	r.calls = 0
	r.limitHit = false
}

// Layer returns the layer created under id by the last run.
func (r *Runner) Layer(id string) (*grid.Layer, bool) {
	l, ok := r.layers[id]
	return l, ok
}

// LayerIDs returns the ids of the last run's layers in creation order.
func (r *Runner) LayerIDs() []string {
	ids := make([]string, len(r.order))
	copy(ids, r.order)
	return ids
}

// Calls returns the number of drawing API calls made by the last run.
func (r *Runner) Calls() int {
	return r.calls
}
