package grid

import (
	"github.com/dshills/tessera/internal/renderer/core"
)

// Layer is a grid positioned over a parent grid. Its offset may be negative
// or extend past the parent; only the overlapping part is ever composited.
type Layer struct {
	grid   *Grid
	offset core.Position
}

// NewLayer creates a layer of the given size filled with initial and placed
// at offset in parent coordinates.
func NewLayer(size core.Size, initial core.Cell, offset core.Position) (*Layer, error) {
	g, err := New(size, initial)
	if err != nil {
		return nil, err
	}
	return &Layer{grid: g, offset: offset}, nil
}

// LayerFrom wraps an existing grid as a layer. The grid is not copied.
func LayerFrom(g *Grid, offset core.Position) *Layer {
	return &Layer{grid: g, offset: offset}
}

// Grid returns the layer's cells.
func (l *Layer) Grid() *Grid {
	return l.grid
}

// Size returns the layer dimensions.
func (l *Layer) Size() core.Size {
	return l.grid.size
}

// Offset returns the layer's top-left corner in parent coordinates.
func (l *Layer) Offset() core.Position {
	return l.offset
}

// MoveTo places the layer's top-left corner at pos.
func (l *Layer) MoveTo(pos core.Position) {
	l.offset = pos
}

// MoveBy shifts the layer by dx, dy.
func (l *Layer) MoveBy(dx, dy int) {
	l.offset = l.offset.Translate(dx, dy)
}

// ParentBounds returns the area the layer covers in parent coordinates.
func (l *Layer) ParentBounds() core.Rect {
	return core.RectAt(l.offset, l.grid.size)
}

// Get returns the cell at a layer-local position.
func (l *Layer) Get(pos core.Position) (core.Cell, error) {
	return l.grid.Get(pos)
}

// Set replaces the cell at a layer-local position.
func (l *Layer) Set(pos core.Position, c core.Cell) error {
	return l.grid.Set(pos, c)
}

// Fill sets every layer cell to c.
func (l *Layer) Fill(c core.Cell) {
	l.grid.Fill(c)
}

// WriteString writes s at a layer-local position.
func (l *Layer) WriteString(pos core.Position, s string, style core.Style) (int, error) {
	return l.grid.WriteString(pos, s, style)
}

// CoversParentPosition reports whether the layer has a cell over parentPos.
func (l *Layer) CoversParentPosition(parentPos core.Position) bool {
	return l.grid.InBounds(parentPos.Sub(l.offset))
}

// CellForParentPosition returns the layer cell over parentPos, or an
// ErrOutOfBounds error when the layer does not cover it.
func (l *Layer) CellForParentPosition(parentPos core.Position) (core.Cell, error) {
	return l.grid.Get(parentPos.Sub(l.offset))
}

// CellAt is the unchecked form of CellForParentPosition for compositing
// loops that have already clipped to ParentBounds.
func (l *Layer) CellAt(parentPos core.Position) core.Cell {
	local := parentPos.Sub(l.offset)
	return l.grid.at(local.X, local.Y)
}
