package app

import (
	"errors"

	"github.com/dshills/tessera/internal/renderer/core"
	"github.com/dshills/tessera/internal/renderer/grid"
	"github.com/dshills/tessera/internal/renderer/screen"
)

// Built-in demo content.
const (
	DemoFirstRow  = "This is white text on black"
	DemoSecondRow = "Like the row above but with blue overlay."
)

// DemoOverlayColor is the translucent blue laid over the second row.
var DemoOverlayColor = core.RGBA(50, 50, 200, 127)

// DemoOrigin is where the first row of demo text starts. The demo keeps a
// one-cell margin at the top and left.
var DemoOrigin = core.Pos(1, 1)

// DrawDemo writes two rows of white-on-black text and covers the second
// row with a translucent blue layer, which it returns. Text that does not
// fit the screen is clipped.
func DrawDemo(s *screen.Screen) (*grid.Layer, error) {
	style := core.Style{Foreground: core.ColorWhite, Background: core.ColorBlack}

	for row, text := range []string{DemoFirstRow, DemoSecondRow} {
		for i, r := range []rune(text) {
			err := s.SetCharacterAt(DemoOrigin.Translate(i, row), core.NewStyledCell(r, style))
			if errors.Is(err, core.ErrOutOfBounds) {
				break
			}
			if err != nil {
				return nil, err
			}
		}
	}

	overlay := core.EmptyCell().WithBackground(DemoOverlayColor)
	layer, err := grid.NewLayer(core.SizeOf(len([]rune(DemoSecondRow)), 1), overlay, DemoOrigin.Translate(0, 1))
	if err != nil {
		return nil, err
	}
	s.AddLayer(layer)
	return layer, nil
}
