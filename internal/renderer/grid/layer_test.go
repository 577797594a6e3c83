package grid

import (
	"errors"
	"testing"

	"github.com/dshills/tessera/internal/renderer/core"
)

func TestNewLayer(t *testing.T) {
	l, err := NewLayer(core.SizeOf(3, 2), core.NewCell('L'), core.Pos(4, 1))
	if err != nil {
		t.Fatal(err)
	}
	if l.Size() != core.SizeOf(3, 2) {
		t.Errorf("Size() = %v, want 3x2", l.Size())
	}
	if l.Offset() != core.Pos(4, 1) {
		t.Errorf("Offset() = %v, want (4,1)", l.Offset())
	}
	c, err := l.Get(core.Pos(2, 1))
	if err != nil || c.Rune != 'L' {
		t.Errorf("Get(2,1) = %q, %v; want 'L'", c.Rune, err)
	}

	if _, err := NewLayer(core.SizeOf(0, 1), core.EmptyCell(), core.Position{}); !errors.Is(err, core.ErrInvalidDimensions) {
		t.Errorf("NewLayer(0x1) error = %v, want ErrInvalidDimensions", err)
	}
}

func TestLayerLocalBounds(t *testing.T) {
	l, _ := NewLayer(core.SizeOf(2, 2), core.EmptyCell(), core.Pos(10, 10))

	// Local coordinates ignore the offset.
	if err := l.Set(core.Pos(1, 1), core.NewCell('x')); err != nil {
		t.Errorf("Set(1,1) error: %v", err)
	}
	if err := l.Set(core.Pos(10, 10), core.NewCell('x')); !errors.Is(err, core.ErrOutOfBounds) {
		t.Errorf("Set(10,10) error = %v, want ErrOutOfBounds", err)
	}
}

func TestCoversParentPosition(t *testing.T) {
	tests := []struct {
		name   string
		offset core.Position
		pos    core.Position
		want   bool
	}{
		{"origin layer top-left", core.Pos(0, 0), core.Pos(0, 0), true},
		{"origin layer bottom-right", core.Pos(0, 0), core.Pos(2, 1), true},
		{"past right edge", core.Pos(0, 0), core.Pos(3, 0), false},
		{"past bottom edge", core.Pos(0, 0), core.Pos(0, 2), false},
		{"offset top-left", core.Pos(5, 3), core.Pos(5, 3), true},
		{"before offset", core.Pos(5, 3), core.Pos(4, 3), false},
		{"negative offset visible part", core.Pos(-2, -1), core.Pos(0, 0), true},
		{"negative offset hidden part", core.Pos(-2, -1), core.Pos(1, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, _ := NewLayer(core.SizeOf(3, 2), core.EmptyCell(), tt.offset)
			if got := l.CoversParentPosition(tt.pos); got != tt.want {
				t.Errorf("CoversParentPosition(%v) = %v, want %v", tt.pos, got, tt.want)
			}
		})
	}
}

func TestCellForParentPosition(t *testing.T) {
	l, _ := NewLayer(core.SizeOf(2, 1), core.EmptyCell(), core.Pos(3, 2))
	_ = l.Set(core.Pos(1, 0), core.NewCell('k'))

	c, err := l.CellForParentPosition(core.Pos(4, 2))
	if err != nil {
		t.Fatal(err)
	}
	if c.Rune != 'k' {
		t.Errorf("CellForParentPosition(4,2) = %q, want 'k'", c.Rune)
	}
	if got := l.CellAt(core.Pos(4, 2)); got.Rune != 'k' {
		t.Errorf("CellAt(4,2) = %q, want 'k'", got.Rune)
	}

	if _, err := l.CellForParentPosition(core.Pos(0, 0)); !errors.Is(err, core.ErrOutOfBounds) {
		t.Errorf("uncovered position error = %v, want ErrOutOfBounds", err)
	}
}

func TestLayerMove(t *testing.T) {
	l, _ := NewLayer(core.SizeOf(2, 2), core.EmptyCell(), core.Pos(1, 1))

	l.MoveBy(2, -3)
	if l.Offset() != core.Pos(3, -2) {
		t.Errorf("after MoveBy Offset() = %v, want (3,-2)", l.Offset())
	}

	l.MoveTo(core.Pos(0, 5))
	want := core.NewRect(5, 0, 7, 2)
	if got := l.ParentBounds(); got != want {
		t.Errorf("ParentBounds() = %+v, want %+v", got, want)
	}
}

func TestLayerFromSharesGrid(t *testing.T) {
	g := mustGrid(t, 2, 2, core.NewCell('a'))
	l := LayerFrom(g, core.Pos(1, 0))

	_ = g.Set(core.Pos(0, 0), core.NewCell('z'))
	if c, _ := l.CellForParentPosition(core.Pos(1, 0)); c.Rune != 'z' {
		t.Errorf("layer should see grid changes, got %q", c.Rune)
	}
	if l.Grid() != g {
		t.Error("Grid() should return the wrapped grid")
	}
}
