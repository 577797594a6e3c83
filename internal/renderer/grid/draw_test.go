package grid

import (
	"testing"

	"github.com/dshills/tessera/internal/renderer/core"
)

// drawTarget returns a 3x3 grid of 'a' with 'b' at the origin.
func drawTarget(t *testing.T) *Grid {
	t.Helper()
	g := mustGrid(t, 3, 3, core.NewCell('a'))
	_ = g.Set(core.Pos(0, 0), core.NewCell('b'))
	return g
}

func TestDrawOnto(t *testing.T) {
	tests := []struct {
		name string
		src  core.Size
		opts DrawOptions
		want string
	}{
		{
			name: "single cell default",
			src:  core.SizeOf(1, 1),
			want: "caa\naaa\naaa",
		},
		{
			name: "row offset",
			src:  core.SizeOf(1, 1),
			opts: DrawOptions{DestOffset: core.Pos(0, 1)},
			want: "baa\ncaa\naaa",
		},
		{
			name: "column offset",
			src:  core.SizeOf(1, 1),
			opts: DrawOptions{DestOffset: core.Pos(1, 0)},
			want: "bca\naaa\naaa",
		},
		{
			name: "negative row offset",
			src:  core.SizeOf(2, 2),
			opts: DrawOptions{DestOffset: core.Pos(0, -1)},
			want: "cca\naaa\naaa",
		},
		{
			name: "negative column offset",
			src:  core.SizeOf(2, 2),
			opts: DrawOptions{DestOffset: core.Pos(-1, 0)},
			want: "caa\ncaa\naaa",
		},
		{
			name: "start row",
			src:  core.SizeOf(2, 2),
			opts: DrawOptions{Start: core.Pos(0, 1)},
			want: "cca\naaa\naaa",
		},
		{
			name: "start column",
			src:  core.SizeOf(2, 2),
			opts: DrawOptions{Start: core.Pos(1, 0)},
			want: "caa\ncaa\naaa",
		},
		{
			name: "negative start row",
			src:  core.SizeOf(2, 2),
			opts: DrawOptions{Start: core.Pos(0, -1)},
			want: "baa\ncca\naaa",
		},
		{
			name: "negative start column",
			src:  core.SizeOf(2, 2),
			opts: DrawOptions{Start: core.Pos(-1, 0)},
			want: "bca\naca\naaa",
		},
		{
			name: "limit rows",
			src:  core.SizeOf(2, 2),
			opts: DrawOptions{Rows: 1},
			want: "cca\naaa\naaa",
		},
		{
			name: "limit columns",
			src:  core.SizeOf(2, 2),
			opts: DrawOptions{Columns: 1},
			want: "caa\ncaa\naaa",
		},
		{
			name: "clipped past destination",
			src:  core.SizeOf(2, 2),
			opts: DrawOptions{DestOffset: core.Pos(2, 2)},
			want: "baa\naaa\naac",
		},
		{
			name: "entirely outside",
			src:  core.SizeOf(2, 2),
			opts: DrawOptions{DestOffset: core.Pos(5, 5)},
			want: "baa\naaa\naaa",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := drawTarget(t)
			src := mustGrid(t, tt.src.Width, tt.src.Height, core.NewCell('c'))

			src.DrawOnto(dst, tt.opts)

			if got := dst.String(); got != tt.want {
				t.Errorf("after DrawOnto:\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}
}

func TestDrawOntoLeavesSourceUntouched(t *testing.T) {
	src := mustGrid(t, 2, 2, core.NewCell('c'))
	before := src.Clone()

	src.DrawOnto(drawTarget(t), DrawOptions{DestOffset: core.Pos(1, 1)})

	if !src.Equals(before) {
		t.Error("DrawOnto modified the source grid")
	}
}

func TestResizeSameSizeReturnsReceiver(t *testing.T) {
	g := drawTarget(t)
	r, err := g.Resize(core.SizeOf(3, 3), core.NewCell('c'))
	if err != nil {
		t.Fatal(err)
	}
	if r != g {
		t.Error("Resize to the same size should return the receiver")
	}
}

func TestResizeGrow(t *testing.T) {
	g := drawTarget(t)
	r, err := g.Resize(core.SizeOf(4, 4), core.NewCell('c'))
	if err != nil {
		t.Fatal(err)
	}

	want := "baac\naaac\naaac\ncccc"
	if got := r.String(); got != want {
		t.Errorf("resized grid:\n%s\nwant:\n%s", got, want)
	}
	if g.Size() != core.SizeOf(3, 3) {
		t.Error("Resize must not change the original grid")
	}
}

func TestResizeShrink(t *testing.T) {
	g := drawTarget(t)
	r, err := g.Resize(core.SizeOf(1, 2), core.NewCell('c'))
	if err != nil {
		t.Fatal(err)
	}
	if got := r.String(); got != "b\na" {
		t.Errorf("resized grid = %q, want %q", got, "b\na")
	}
}

func TestResizeInvalid(t *testing.T) {
	g := drawTarget(t)
	if _, err := g.Resize(core.SizeOf(0, 2), core.EmptyCell()); err == nil {
		t.Error("Resize to zero width should fail")
	}
}
