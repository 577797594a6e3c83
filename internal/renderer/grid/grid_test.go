package grid

import (
	"errors"
	"math"
	"testing"

	"github.com/dshills/tessera/internal/renderer/core"
)

func mustGrid(t *testing.T, w, h int, filler core.Cell) *Grid {
	t.Helper()
	g, err := New(core.SizeOf(w, h), filler)
	if err != nil {
		t.Fatalf("New(%dx%d) error: %v", w, h, err)
	}
	return g
}

func runeAt(t *testing.T, g *Grid, x, y int) rune {
	t.Helper()
	c, err := g.Get(core.Pos(x, y))
	if err != nil {
		t.Fatalf("Get(%d,%d) error: %v", x, y, err)
	}
	return c.Rune
}

func TestNewInvalidDimensions(t *testing.T) {
	tests := []struct {
		name string
		size core.Size
	}{
		{"zero width", core.SizeOf(0, 3)},
		{"zero height", core.SizeOf(3, 0)},
		{"negative", core.SizeOf(-1, -1)},
		{"area overflows", core.SizeOf(math.MaxInt/2+1, 4)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.size, core.EmptyCell())
			if !errors.Is(err, core.ErrInvalidDimensions) {
				t.Errorf("New(%v) error = %v, want ErrInvalidDimensions", tt.size, err)
			}
		})
	}
}

func TestNewFillsWithFiller(t *testing.T) {
	g := mustGrid(t, 4, 3, core.NewCell('a'))

	if g.Width() != 4 || g.Height() != 3 {
		t.Fatalf("size = %v, want 4x3", g.Size())
	}
	g.Each(func(pos core.Position, c core.Cell) {
		if c.Rune != 'a' {
			t.Errorf("cell %v = %q, want 'a'", pos, c.Rune)
		}
	})
}

func TestNewFrom(t *testing.T) {
	seed := [][]core.Cell{
		{core.NewCell('b'), core.NewCell('b'), core.NewCell('b'), core.NewCell('x')},
		{core.NewCell('b')},
	}
	g, err := NewFrom(core.SizeOf(3, 3), seed, core.NewCell('a'))
	if err != nil {
		t.Fatal(err)
	}

	want := "bbb\nbaa\naaa"
	if got := g.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestSetGetRoundTrip(t *testing.T) {
	g := mustGrid(t, 5, 4, core.EmptyCell())
	c := core.NewStyledCell('Q', core.NewStyle(core.ColorRed, core.ColorBlack))

	for y := 0; y < 4; y++ {
		for x := 0; x < 5; x++ {
			pos := core.Pos(x, y)
			if err := g.Set(pos, c); err != nil {
				t.Fatalf("Set(%v) error: %v", pos, err)
			}
			got, err := g.Get(pos)
			if err != nil {
				t.Fatalf("Get(%v) error: %v", pos, err)
			}
			if !got.Equals(c) {
				t.Errorf("Get(%v) = %+v, want %+v", pos, got, c)
			}
		}
	}
}

func TestOutOfBounds(t *testing.T) {
	g := mustGrid(t, 3, 2, core.EmptyCell())
	positions := []core.Position{
		core.Pos(-1, 0),
		core.Pos(0, -1),
		core.Pos(3, 0),
		core.Pos(0, 2),
		core.Pos(100, 100),
	}

	for _, pos := range positions {
		t.Run(pos.String(), func(t *testing.T) {
			if _, err := g.Get(pos); !errors.Is(err, core.ErrOutOfBounds) {
				t.Errorf("Get(%v) error = %v, want ErrOutOfBounds", pos, err)
			}
			err := g.Set(pos, core.NewCell('z'))
			if !errors.Is(err, core.ErrOutOfBounds) {
				t.Errorf("Set(%v) error = %v, want ErrOutOfBounds", pos, err)
			}
			var be *core.BoundsError
			if !errors.As(err, &be) || be.Pos != pos {
				t.Errorf("Set(%v) error should be a BoundsError for that position, got %v", pos, err)
			}
		})
	}

	// Nothing was clamped onto an edge cell.
	g.Each(func(pos core.Position, c core.Cell) {
		if c.Rune == 'z' {
			t.Errorf("out-of-bounds Set modified %v", pos)
		}
	})
}

func TestFillAndClear(t *testing.T) {
	g := mustGrid(t, 7, 3, core.EmptyCell())
	g.Fill(core.NewCell('#'))
	if got := g.String(); got != "#######\n#######\n#######" {
		t.Errorf("after Fill String() = %q", got)
	}

	g.Clear()
	g.Each(func(pos core.Position, c core.Cell) {
		if !c.Equals(core.EmptyCell()) {
			t.Errorf("after Clear cell %v = %+v, want EmptyCell", pos, c)
		}
	})
}

func TestCloneIsIndependent(t *testing.T) {
	g := mustGrid(t, 2, 2, core.NewCell('a'))
	c := g.Clone()

	if !g.Equals(c) {
		t.Fatal("clone should equal original")
	}
	_ = c.Set(core.Pos(1, 1), core.NewCell('b'))
	if g.Equals(c) {
		t.Error("modifying clone should not affect original")
	}
	if r := runeAt(t, g, 1, 1); r != 'a' {
		t.Errorf("original cell = %q, want 'a'", r)
	}
}

func TestEqualsDifferentSizes(t *testing.T) {
	a := mustGrid(t, 2, 3, core.EmptyCell())
	b := mustGrid(t, 3, 2, core.EmptyCell())
	if a.Equals(b) {
		t.Error("grids of different sizes should not be equal")
	}
	if a.Equals(nil) {
		t.Error("grid should not equal nil")
	}
}

func TestRow(t *testing.T) {
	g := mustGrid(t, 3, 2, core.NewCell('.'))
	_, _ = g.WriteString(core.Pos(0, 1), "abc", core.DefaultStyle())

	row, err := g.Row(1)
	if err != nil {
		t.Fatal(err)
	}
	if got := core.StringFromCells(row); got != "abc" {
		t.Errorf("Row(1) = %q, want %q", got, "abc")
	}

	row[0] = core.NewCell('z')
	if r := runeAt(t, g, 0, 1); r != 'a' {
		t.Error("Row should return a copy")
	}

	if _, err := g.Row(2); !errors.Is(err, core.ErrOutOfBounds) {
		t.Errorf("Row(2) error = %v, want ErrOutOfBounds", err)
	}
}

func TestUpdateClipsToGrid(t *testing.T) {
	g := mustGrid(t, 3, 2, core.NewCell('.'))

	var visited []core.Position
	g.Update(core.NewRect(-1, 1, 5, 9), func(pos core.Position, c core.Cell) core.Cell {
		visited = append(visited, pos)
		return c.WithRune('#')
	})

	if got, want := g.String(), ".##\n.##"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if len(visited) != 4 || visited[0] != core.Pos(1, 0) {
		t.Errorf("visited = %v, want the 4 in-bounds cells starting at (1,0)", visited)
	}

	g.Update(core.NewRect(5, 5, 6, 6), func(core.Position, core.Cell) core.Cell {
		t.Error("fn called for an area outside the grid")
		return core.Cell{}
	})
}

func TestRepairWide(t *testing.T) {
	style := core.NewStyle(core.ColorWhite, core.ColorBlue)
	g := mustGrid(t, 5, 1, core.NewCell('.'))
	if _, err := g.WriteString(core.Pos(0, 0), "世", style); err != nil {
		t.Fatal(err)
	}
	// A lone wide rune in the last column and a stray continuation.
	_ = g.Set(core.Pos(4, 0), core.NewStyledCell('界', style))
	_ = g.Set(core.Pos(2, 0), core.ContinuationCell(style))

	g.RepairWide()

	if got, want := g.String(), "世 . "; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	for _, x := range []int{2, 4} {
		c, _ := g.Get(core.Pos(x, 0))
		if c.Rune != ' ' || c.Width != 1 || !c.Style.Equals(style) {
			t.Errorf("cell %d = %+v, want a space in the original style", x, c)
		}
	}
	if c, _ := g.Get(core.Pos(1, 0)); !c.IsContinuation() {
		t.Errorf("intact continuation was replaced: %+v", c)
	}
}

func TestWriteString(t *testing.T) {
	tests := []struct {
		name    string
		pos     core.Position
		text    string
		wantN   int
		wantErr bool
		want    string
	}{
		{"start of row", core.Pos(0, 0), "hi", 2, false, "hi...\n....."},
		{"exact fit", core.Pos(2, 1), "abc", 3, false, ".....\n..abc"},
		{"overflow", core.Pos(3, 0), "abc", 0, true, ".....\n....."},
		{"bad start", core.Pos(0, 5), "a", 0, true, ".....\n....."},
		{"empty", core.Pos(9, 9), "", 0, false, ".....\n....."},
		{"wide rune", core.Pos(0, 0), "世x", 3, false, "世x..\n....."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := mustGrid(t, 5, 2, core.NewCell('.'))
			n, err := g.WriteString(tt.pos, tt.text, core.DefaultStyle())
			if (err != nil) != tt.wantErr {
				t.Fatalf("WriteString error = %v, wantErr %v", err, tt.wantErr)
			}
			if n != tt.wantN {
				t.Errorf("WriteString n = %d, want %d", n, tt.wantN)
			}
			if got := g.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWriteStringWideContinuation(t *testing.T) {
	g := mustGrid(t, 4, 1, core.EmptyCell())
	if _, err := g.WriteString(core.Pos(0, 0), "世", core.DefaultStyle()); err != nil {
		t.Fatal(err)
	}

	c, _ := g.Get(core.Pos(0, 0))
	if c.Width != 2 {
		t.Errorf("wide cell width = %d, want 2", c.Width)
	}
	next, _ := g.Get(core.Pos(1, 0))
	if !next.IsContinuation() {
		t.Errorf("cell after wide rune should be a continuation, got %+v", next)
	}
}
