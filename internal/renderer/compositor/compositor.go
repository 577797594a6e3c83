// Package compositor flattens a base grid and its layers into a single grid.
//
// Layers are applied in order: later layers paint over earlier ones, and a
// cell covered by several layers is the left fold of BlendCell over them.
// Neither the base grid nor any layer is modified.
package compositor

import (
	"github.com/dshills/tessera/internal/renderer/core"
	"github.com/dshills/tessera/internal/renderer/grid"
)

// BlendCell composites over on top of under.
//
// The background always blends. The glyph of over replaces the glyph of under
// only when over carries a visible glyph: a non-blank rune, or the
// continuation half of a wide rune, with a foreground alpha above zero. In
// that case the foreground is blended too and the width and attributes come
// from over.
func BlendCell(under, over core.Cell) core.Cell {
	out := under
	out.Style.Background = core.Blend(under.Style.Background, over.Style.Background)

	hasGlyph := over.IsContinuation() || !over.IsBlank()
	if !hasGlyph || over.Style.Foreground.IsTransparent() {
		return out
	}

	out.Rune = over.Rune
	out.Width = over.Width
	out.Style.Foreground = core.Blend(under.Style.Foreground, over.Style.Foreground)
	out.Style.Attributes = over.Style.Attributes
	return out
}

// Stats describes the most recent Flatten call.
type Stats struct {
	// Layers is the number of layers passed in.
	Layers int

	// Skipped counts layers that did not overlap the base grid.
	Skipped int

	// CellsBlended counts BlendCell applications.
	CellsBlended int
}

// Compositor flattens grids and records statistics for the last run.
// It holds no locks; callers serialize access.
type Compositor struct {
	stats Stats
}

// New creates a compositor.
func New() *Compositor {
	return &Compositor{}
}

// Stats returns statistics for the last Flatten call.
func (c *Compositor) Stats() Stats {
	return c.stats
}

// Flatten returns a new grid holding base with every layer blended over it.
// Each layer visits only the intersection of its parent bounds with the base.
// Wide glyphs split by a layer edge are replaced with spaces in the result.
func (c *Compositor) Flatten(base *grid.Grid, layers []*grid.Layer) *grid.Grid {
	c.stats = Stats{Layers: len(layers)}
	out := base.Clone()
	bounds := out.Bounds()

	for _, layer := range layers {
		if layer == nil {
			c.stats.Skipped++
			continue
		}
		area := layer.ParentBounds().Intersection(bounds)
		if area.IsEmpty() {
			c.stats.Skipped++
			continue
		}
		out.Update(area, func(pos core.Position, under core.Cell) core.Cell {
			return BlendCell(under, layer.CellAt(pos))
		})
		c.stats.CellsBlended += area.Width() * area.Height()
	}

	out.RepairWide()
	return out
}

// Flatten composites layers over base without keeping statistics.
func Flatten(base *grid.Grid, layers []*grid.Layer) *grid.Grid {
	return New().Flatten(base, layers)
}
