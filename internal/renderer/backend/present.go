package backend

import (
	"errors"

	"github.com/dshills/tessera/internal/renderer/core"
	"github.com/dshills/tessera/internal/renderer/grid"
)

// ErrNotInitialized is returned when presenting to a backend whose Init
// has not succeeded.
var ErrNotInitialized = errors.New("backend not initialized")

// GridPresenter draws flattened frames on a Backend. It satisfies the
// screen package's Renderer interface.
type GridPresenter struct {
	backend Backend
	ready   bool
	cursor  *core.Position
}

// NewGridPresenter creates a presenter for an initialized backend.
func NewGridPresenter(b Backend) *GridPresenter {
	return &GridPresenter{backend: b, ready: true}
}

// SetCursor shows the cursor at pos after each frame, or hides it when
// pos is nil.
func (p *GridPresenter) SetCursor(pos *core.Position) {
	p.cursor = pos
}

// Detach stops the presenter from writing to its backend, typically
// because the backend was shut down.
func (p *GridPresenter) Detach() {
	p.ready = false
}

// Render writes every cell of frame into the backend and shows it.
// Continuation cells are skipped; the wide cell before them covers them.
// Backend cells outside the frame are cleared.
func (p *GridPresenter) Render(frame *grid.Grid) error {
	if !p.ready {
		return ErrNotInitialized
	}

	bw, bh := p.backend.Size()
	fs := frame.Size()
	if bw > fs.Width || bh > fs.Height {
		empty := core.EmptyCell()
		p.backend.Fill(core.NewRect(0, fs.Width, bh, bw), empty)
		p.backend.Fill(core.NewRect(fs.Height, 0, bh, fs.Width), empty)
	}

	frame.Each(func(pos core.Position, c core.Cell) {
		if c.IsContinuation() {
			return
		}
		p.backend.SetCell(pos.X, pos.Y, c)
	})

	if p.cursor != nil {
		p.backend.ShowCursor(p.cursor.X, p.cursor.Y)
	} else {
		p.backend.HideCursor()
	}
	p.backend.Show()
	return nil
}
