package backend

import (
	"sync"

	"github.com/dshills/tessera/internal/renderer/core"
	"github.com/dshills/tessera/internal/renderer/grid"
)

// frameBuffer holds the frame being drawn (back) and the cells last sent to
// the terminal (front). Only back cells written since the last commit are
// compared against front.
//
// A buffer with a non-positive dimension holds no cells and ignores writes.
type frameBuffer struct {
	back    *grid.Grid
	front   []core.Cell
	touched []bool
	redraw  bool
}

func newFrameBuffer(width, height int) *frameBuffer {
	fb := &frameBuffer{redraw: true}
	fb.allocate(core.SizeOf(width, height))
	return fb
}

func (fb *frameBuffer) allocate(size core.Size) {
	if !size.Valid() {
		fb.back, fb.front, fb.touched = nil, nil, nil
		return
	}
	fb.back, _ = grid.New(size, core.EmptyCell())
	fb.front = make([]core.Cell, size.Area())
	fb.touched = make([]bool, size.Area())
}

func (fb *frameBuffer) size() core.Size {
	if fb.back == nil {
		return core.Size{}
	}
	return fb.back.Size()
}

func (fb *frameBuffer) index(pos core.Position) int {
	return pos.Y*fb.back.Width() + pos.X
}

// resize keeps the overlapping part of the back frame and forces a redraw,
// since the terminal contents are unknown after a resize.
func (fb *frameBuffer) resize(width, height int) {
	size := core.SizeOf(width, height)
	if size == fb.size() {
		return
	}
	old := fb.back
	fb.allocate(size)
	if old != nil && fb.back != nil {
		old.DrawOnto(fb.back, grid.DrawOptions{})
	}
	fb.redraw = true
}

func (fb *frameBuffer) set(pos core.Position, cell core.Cell) {
	if fb.back == nil || fb.back.Set(pos, cell) != nil {
		return
	}
	fb.touched[fb.index(pos)] = true
}

func (fb *frameBuffer) get(pos core.Position) core.Cell {
	if fb.back == nil {
		return core.EmptyCell()
	}
	c, err := fb.back.Get(pos)
	if err != nil {
		return core.EmptyCell()
	}
	return c
}

func (fb *frameBuffer) fill(rect core.Rect, cell core.Cell) {
	if fb.back == nil {
		return
	}
	fb.back.Update(rect, func(pos core.Position, _ core.Cell) core.Cell {
		fb.touched[fb.index(pos)] = true
		return cell
	})
}

func (fb *frameBuffer) clear() {
	if fb.back == nil {
		return
	}
	fb.back.Clear()
	for i := range fb.touched {
		fb.touched[i] = true
	}
}

// each calls fn for every cell a commit would write.
func (fb *frameBuffer) each(fn func(i int, pos core.Position, cell core.Cell)) {
	if fb.back == nil {
		return
	}
	fb.back.Each(func(pos core.Position, c core.Cell) {
		i := fb.index(pos)
		if fb.redraw || (fb.touched[i] && !c.Equals(fb.front[i])) {
			fn(i, pos, c)
		}
	})
}

// pending reports whether a commit would write anything.
func (fb *frameBuffer) pending() bool {
	n := 0
	fb.each(func(int, core.Position, core.Cell) { n++ })
	return n > 0
}

// commit passes every cell that differs from the front frame to write, in
// reading order, then makes the back frame the new front.
func (fb *frameBuffer) commit(write func(x, y int, cell core.Cell)) {
	fb.each(func(i int, pos core.Position, c core.Cell) {
		write(pos.X, pos.Y, c)
		fb.front[i] = c
	})
	clear(fb.touched)
	fb.redraw = false
}

// BufferedBackend wraps a Backend so that Show writes only the cells that
// changed since the previous Show.
//
// The buffer is guarded so that resize callbacks, which arrive on the
// goroutine polling for events, can run while a frame is being drawn.
type BufferedBackend struct {
	mu      sync.Mutex
	backend Backend
	buffer  *frameBuffer
}

// NewBufferedBackend creates a buffered wrapper around a backend.
func NewBufferedBackend(backend Backend) *BufferedBackend {
	width, height := backend.Size()
	return &BufferedBackend{
		backend: backend,
		buffer:  newFrameBuffer(width, height),
	}
}

func (b *BufferedBackend) Init() error {
	if err := b.backend.Init(); err != nil {
		return err
	}
	width, height := b.backend.Size()
	b.resize(width, height)
	b.backend.OnResize(b.resize)
	return nil
}

func (b *BufferedBackend) resize(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buffer.resize(width, height)
}

func (b *BufferedBackend) Shutdown() {
	b.backend.Shutdown()
}

func (b *BufferedBackend) Size() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	size := b.buffer.size()
	return size.Width, size.Height
}

func (b *BufferedBackend) OnResize(callback func(width, height int)) {
	b.backend.OnResize(func(w, h int) {
		b.resize(w, h)
		callback(w, h)
	})
}

func (b *BufferedBackend) SetCell(x, y int, cell core.Cell) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buffer.set(core.Pos(x, y), cell)
}

func (b *BufferedBackend) GetCell(x, y int) core.Cell {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buffer.get(core.Pos(x, y))
}

func (b *BufferedBackend) Fill(rect core.Rect, cell core.Cell) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buffer.fill(rect, cell)
}

func (b *BufferedBackend) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buffer.clear()
}

// Show writes the changed cells to the wrapped backend and shows it.
func (b *BufferedBackend) Show() {
	b.flush()
	b.backend.Show()
}

// Sync rewrites every cell and asks the wrapped backend for a full redraw.
func (b *BufferedBackend) Sync() {
	b.mu.Lock()
	b.buffer.redraw = true
	b.mu.Unlock()

	b.flush()
	b.backend.Sync()
}

func (b *BufferedBackend) flush() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buffer.commit(b.backend.SetCell)
}

func (b *BufferedBackend) ShowCursor(x, y int) {
	b.backend.ShowCursor(x, y)
}

func (b *BufferedBackend) HideCursor() {
	b.backend.HideCursor()
}

func (b *BufferedBackend) PollEvent() Event {
	return b.backend.PollEvent()
}

func (b *BufferedBackend) PostEvent(event Event) {
	b.backend.PostEvent(event)
}

func (b *BufferedBackend) HasTrueColor() bool {
	return b.backend.HasTrueColor()
}
