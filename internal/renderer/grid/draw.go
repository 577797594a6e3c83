package grid

import (
	"github.com/dshills/tessera/internal/renderer/core"
)

// DrawOptions selects the source region and destination placement for DrawOnto.
type DrawOptions struct {
	// DestOffset is where source position Start lands in the destination.
	DestOffset core.Position

	// Start is the first source position copied. It may be negative, in which
	// case the leading rows/columns have no source cells and are skipped.
	Start core.Position

	// Columns and Rows limit the copied window, counted from Start.
	// Zero means the full source width/height.
	Columns int
	Rows    int
}

// DrawOnto copies a window of g into dst. Source positions outside g and
// destination positions outside dst are skipped.
func (g *Grid) DrawOnto(dst *Grid, opts DrawOptions) {
	cols := opts.Columns
	if cols <= 0 {
		cols = g.size.Width
	}
	rows := opts.Rows
	if rows <= 0 {
		rows = g.size.Height
	}

	for sy := opts.Start.Y; sy < opts.Start.Y+rows; sy++ {
		if sy < 0 || sy >= g.size.Height {
			continue
		}
		dy := sy - opts.Start.Y + opts.DestOffset.Y
		if dy < 0 || dy >= dst.size.Height {
			continue
		}
		for sx := opts.Start.X; sx < opts.Start.X+cols; sx++ {
			if sx < 0 || sx >= g.size.Width {
				continue
			}
			dx := sx - opts.Start.X + opts.DestOffset.X
			if dx < 0 || dx >= dst.size.Width {
				continue
			}
			dst.cells[dst.index(dx, dy)] = g.at(sx, sy)
		}
	}
}

// Resize returns a grid of the requested size holding g's overlapping
// content, with new cells set to filler. When the size is unchanged g
// itself is returned.
func (g *Grid) Resize(size core.Size, filler core.Cell) (*Grid, error) {
	if size == g.size {
		return g, nil
	}
	resized, err := New(size, filler)
	if err != nil {
		return nil, err
	}
	g.DrawOnto(resized, DrawOptions{})
	return resized, nil
}
