// Package screen ties a base grid, its layers and a renderer together.
//
// A Screen tracks whether anything changed since the last Display. The
// state is advisory: Display always renders, Refresh renders only when the
// screen is dirty. Screens do no locking; callers serialize access.
package screen

import (
	"errors"
	"fmt"
	"slices"

	"github.com/dshills/tessera/internal/renderer/compositor"
	"github.com/dshills/tessera/internal/renderer/core"
	"github.com/dshills/tessera/internal/renderer/grid"
)

// ErrNilRenderer is returned by New when no renderer is given.
var ErrNilRenderer = errors.New("nil renderer")

// State reports whether the screen has changes not yet displayed.
type State uint8

const (
	// StateDirty means the last displayed frame may be stale.
	StateDirty State = iota
	// StateClean means nothing changed since the last successful Display.
	StateClean
)

func (s State) String() string {
	switch s {
	case StateClean:
		return "clean"
	case StateDirty:
		return "dirty"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// Renderer receives flattened frames.
type Renderer interface {
	Render(frame *grid.Grid) error
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(frame *grid.Grid) error

// Render calls f(frame).
func (f RendererFunc) Render(frame *grid.Grid) error {
	return f(frame)
}

// Option configures a Screen.
type Option func(*Screen)

// WithFiller sets the cell used for new and cleared base cells.
// The default is core.EmptyCell.
func WithFiller(c core.Cell) Option {
	return func(s *Screen) {
		s.filler = c
	}
}

// WithCompositor sets the compositor used to flatten frames.
func WithCompositor(c *compositor.Compositor) Option {
	return func(s *Screen) {
		if c != nil {
			s.comp = c
		}
	}
}

// Screen is a base grid plus an ordered stack of layers.
type Screen struct {
	base     *grid.Grid
	layers   []*grid.Layer
	renderer Renderer
	comp     *compositor.Compositor
	filler   core.Cell
	state    State
}

// New creates a screen of the given size. New screens start dirty.
func New(size core.Size, r Renderer, opts ...Option) (*Screen, error) {
	if r == nil {
		return nil, ErrNilRenderer
	}
	s := &Screen{
		renderer: r,
		comp:     compositor.New(),
		filler:   core.EmptyCell(),
		state:    StateDirty,
	}
	for _, opt := range opts {
		opt(s)
	}

	base, err := grid.New(size, s.filler)
	if err != nil {
		return nil, fmt.Errorf("screen: %w", err)
	}
	s.base = base
	return s, nil
}

// Size returns the screen dimensions.
func (s *Screen) Size() core.Size {
	return s.base.Size()
}

// State returns the current display state.
func (s *Screen) State() State {
	return s.state
}

// IsDirty returns true if the screen has undisplayed changes.
func (s *Screen) IsDirty() bool {
	return s.state == StateDirty
}

// MarkDirty flags the screen for redisplay. Use it after mutating a layer
// that is already attached.
func (s *Screen) MarkDirty() {
	s.state = StateDirty
}

// Compositor returns the compositor, whose Stats describe the last frame.
func (s *Screen) Compositor() *compositor.Compositor {
	return s.comp
}

// SetCharacterAt replaces a base cell.
func (s *Screen) SetCharacterAt(pos core.Position, c core.Cell) error {
	if err := s.base.Set(pos, c); err != nil {
		return err
	}
	s.state = StateDirty
	return nil
}

// CharacterAt returns a base cell. Layers are not consulted.
func (s *Screen) CharacterAt(pos core.Position) (core.Cell, error) {
	return s.base.Get(pos)
}

// WriteString writes text into the base grid.
func (s *Screen) WriteString(pos core.Position, text string, style core.Style) (int, error) {
	n, err := s.base.WriteString(pos, text, style)
	if n > 0 {
		s.state = StateDirty
	}
	return n, err
}

// Fill sets every base cell to c.
func (s *Screen) Fill(c core.Cell) {
	s.base.Fill(c)
	s.state = StateDirty
}

// Clear resets every base cell to the filler.
func (s *Screen) Clear() {
	s.base.Fill(s.filler)
	s.state = StateDirty
}

// DrawImage copies img into the base grid, clipping at the edges.
func (s *Screen) DrawImage(img *grid.Grid, opts grid.DrawOptions) {
	img.DrawOnto(s.base, opts)
	s.state = StateDirty
}

// Resize changes the base grid size, keeping the overlapping cells.
// Layers keep their offsets.
func (s *Screen) Resize(size core.Size) error {
	if size == s.base.Size() {
		return nil
	}
	base, err := s.base.Resize(size, s.filler)
	if err != nil {
		return fmt.Errorf("screen: %w", err)
	}
	s.base = base
	s.state = StateDirty
	return nil
}

// AddLayer puts layer on top of the stack.
func (s *Screen) AddLayer(layer *grid.Layer) {
	s.layers = append(s.layers, layer)
	s.state = StateDirty
}

// Layers returns the layers bottom to top. The slice is a copy.
func (s *Screen) Layers() []*grid.Layer {
	return slices.Clone(s.layers)
}

// RemoveLayer detaches layer. Layers are matched by identity; a layer that
// is not attached yields core.ErrLayerNotFound and leaves the state alone.
func (s *Screen) RemoveLayer(layer *grid.Layer) error {
	i := slices.Index(s.layers, layer)
	if i < 0 {
		return core.ErrLayerNotFound
	}
	s.layers = slices.Delete(s.layers, i, i+1)
	s.state = StateDirty
	return nil
}

// Flatten composites the current base and layers without rendering.
func (s *Screen) Flatten() *grid.Grid {
	return s.comp.Flatten(s.base, s.layers)
}

// Display flattens the screen and hands the frame to the renderer. The
// screen becomes clean only when rendering succeeds.
func (s *Screen) Display() error {
	frame := s.Flatten()
	if err := s.renderer.Render(frame); err != nil {
		return fmt.Errorf("screen: render: %w", err)
	}
	s.state = StateClean
	return nil
}

// Refresh displays the screen if it is dirty and reports whether it did.
func (s *Screen) Refresh() (bool, error) {
	if s.state == StateClean {
		return false, nil
	}
	if err := s.Display(); err != nil {
		return false, err
	}
	return true, nil
}
