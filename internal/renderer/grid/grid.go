// Package grid provides fixed-size grids of styled cells and the layers
// that are composited over them.
//
// A Grid never changes dimensions after construction. Get and Set report
// positions outside the grid with core.ErrOutOfBounds; nothing is clamped.
// Drawing one grid onto another (DrawOnto) clips instead, since partially
// visible images are the normal case there.
package grid

import (
	"github.com/dshills/tessera/internal/renderer/core"
)

// Grid is a rectangular, row-major array of cells.
type Grid struct {
	size  core.Size
	cells []core.Cell
}

// New creates a grid with every cell set to filler.
func New(size core.Size, filler core.Cell) (*Grid, error) {
	if err := core.CheckSize(size); err != nil {
		return nil, err
	}
	g := &Grid{
		size:  size,
		cells: make([]core.Cell, size.Area()),
	}
	g.Fill(filler)
	return g, nil
}

// NewFrom creates a grid whose top-left region is copied from seed
// (seed[y][x]) and whose remaining cells are filler. Seed rows or columns
// beyond the grid size are ignored.
func NewFrom(size core.Size, seed [][]core.Cell, filler core.Cell) (*Grid, error) {
	g, err := New(size, filler)
	if err != nil {
		return nil, err
	}
	for y, row := range seed {
		if y >= size.Height {
			break
		}
		for x, c := range row {
			if x >= size.Width {
				break
			}
			g.cells[g.index(x, y)] = c
		}
	}
	return g, nil
}

// Size returns the grid dimensions.
func (g *Grid) Size() core.Size {
	return g.size
}

// Width returns the grid width.
func (g *Grid) Width() int {
	return g.size.Width
}

// Height returns the grid height.
func (g *Grid) Height() int {
	return g.size.Height
}

// Bounds returns the grid area anchored at the origin.
func (g *Grid) Bounds() core.Rect {
	return core.RectAt(core.Position{}, g.size)
}

// InBounds returns true if pos is within the grid.
func (g *Grid) InBounds(pos core.Position) bool {
	return g.size.Contains(pos)
}

func (g *Grid) index(x, y int) int {
	return y*g.size.Width + x
}

func (g *Grid) boundsError(pos core.Position) error {
	return &core.BoundsError{Pos: pos, Size: g.size}
}

// Get returns the cell at pos.
func (g *Grid) Get(pos core.Position) (core.Cell, error) {
	if !g.InBounds(pos) {
		return core.Cell{}, g.boundsError(pos)
	}
	return g.cells[g.index(pos.X, pos.Y)], nil
}

// Set replaces the cell at pos.
func (g *Grid) Set(pos core.Position, c core.Cell) error {
	if !g.InBounds(pos) {
		return g.boundsError(pos)
	}
	g.cells[g.index(pos.X, pos.Y)] = c
	return nil
}

// at returns the cell at x, y without bounds checking.
func (g *Grid) at(x, y int) core.Cell {
	return g.cells[g.index(x, y)]
}

// Fill sets every cell to c.
func (g *Grid) Fill(c core.Cell) {
	if len(g.cells) == 0 {
		return
	}
	g.cells[0] = c
	for filled := 1; filled < len(g.cells); filled *= 2 {
		copy(g.cells[filled:], g.cells[:filled])
	}
}

// Clear resets every cell to core.EmptyCell.
func (g *Grid) Clear() {
	g.Fill(core.EmptyCell())
}

// Clone returns an independent copy of the grid.
func (g *Grid) Clone() *Grid {
	cells := make([]core.Cell, len(g.cells))
	copy(cells, g.cells)
	return &Grid{size: g.size, cells: cells}
}

// Equals returns true if both grids have the same size and cells.
func (g *Grid) Equals(other *Grid) bool {
	if other == nil || g.size != other.size {
		return false
	}
	for i := range g.cells {
		if !g.cells[i].Equals(other.cells[i]) {
			return false
		}
	}
	return true
}

// Row returns a copy of row y.
func (g *Grid) Row(y int) ([]core.Cell, error) {
	if y < 0 || y >= g.size.Height {
		return nil, g.boundsError(core.Pos(0, y))
	}
	row := make([]core.Cell, g.size.Width)
	copy(row, g.cells[g.index(0, y):g.index(0, y+1)])
	return row, nil
}

// Each calls fn for every cell in reading order.
func (g *Grid) Each(fn func(pos core.Position, c core.Cell)) {
	for y := 0; y < g.size.Height; y++ {
		for x := 0; x < g.size.Width; x++ {
			fn(core.Pos(x, y), g.at(x, y))
		}
	}
}

// Update replaces every cell of area, clipped to the grid, with the result
// of fn applied to the current cell.
func (g *Grid) Update(area core.Rect, fn func(pos core.Position, c core.Cell) core.Cell) {
	area = area.Intersection(g.Bounds())
	for y := area.Top; y < area.Bottom; y++ {
		for x := area.Left; x < area.Right; x++ {
			i := g.index(x, y)
			g.cells[i] = fn(core.Pos(x, y), g.cells[i])
		}
	}
}

// RepairWide turns the orphaned halves of wide glyphs into spaces of the
// same style: a wide cell not followed by a continuation cell, and a
// continuation cell not preceded by a wide cell.
func (g *Grid) RepairWide() {
	for y := 0; y < g.size.Height; y++ {
		row := g.cells[g.index(0, y):g.index(0, y+1)]
		for x, c := range row {
			orphan := (c.Width == 2 && (x+1 == len(row) || !row[x+1].IsContinuation())) ||
				(c.IsContinuation() && (x == 0 || row[x-1].Width != 2))
			if orphan {
				row[x] = core.NewStyledCell(' ', c.Style)
			}
		}
	}
}

// WriteString writes s starting at pos with the given style and returns the
// number of cells written. Wide runes occupy two cells. The whole run is
// checked first: if any cell would fall outside the grid nothing is written.
func (g *Grid) WriteString(pos core.Position, s string, style core.Style) (int, error) {
	cells := core.CellsFromString(s, style)
	if len(cells) == 0 {
		return 0, nil
	}
	if !g.InBounds(pos) {
		return 0, g.boundsError(pos)
	}
	if last := pos.Translate(len(cells)-1, 0); !g.InBounds(last) {
		return 0, g.boundsError(last)
	}
	start := g.index(pos.X, pos.Y)
	copy(g.cells[start:start+len(cells)], cells)
	return len(cells), nil
}

// String returns the grid's runes, one line per row.
func (g *Grid) String() string {
	out := make([]rune, 0, g.size.Area()+g.size.Height)
	for y := 0; y < g.size.Height; y++ {
		if y > 0 {
			out = append(out, '\n')
		}
		for x := 0; x < g.size.Width; x++ {
			c := g.at(x, y)
			if c.IsContinuation() {
				continue
			}
			if c.Rune == 0 {
				out = append(out, ' ')
				continue
			}
			out = append(out, c.Rune)
		}
	}
	return string(out)
}
