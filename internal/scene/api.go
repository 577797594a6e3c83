package scene

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/tessera/internal/renderer/core"
	"github.com/dshills/tessera/internal/renderer/grid"
)

// MaxLayerCells bounds the area of a layer created by a script.
const MaxLayerCells = 1 << 20

// install binds the drawing API to L's globals.
func (r *Runner) install(L *lua.LState) {
	funcs := map[string]lua.LGFunction{
		"size":    r.luaSize,
		"put":     r.luaPut,
		"set":     r.luaSet,
		"fill":    r.luaFill,
		"layer":   r.luaLayer,
		"write":   r.luaWrite,
		"move":    r.luaMove,
		"remove":  r.luaRemove,
		"clear":   r.luaClear,
		"lighten": r.luaLighten,
		"darken":  r.luaDarken,
		"log":     r.luaLog,
		"print":   r.luaLog,
	}
	for name, fn := range funcs {
		L.SetGlobal(name, L.NewFunction(fn))
	}
}

// charge counts one API call against the run's budget and aborts the
// script once the budget is spent.
func (r *Runner) charge(L *lua.LState) {
	r.calls++
	if r.instructionLimit > 0 && r.calls > r.instructionLimit {
		r.limitHit = true
		L.RaiseError("instruction limit exceeded")
	}
}

// size() -> width, height
func (r *Runner) luaSize(L *lua.LState) int {
	r.charge(L)
	size := r.screen.Size()
	L.Push(lua.LNumber(size.Width))
	L.Push(lua.LNumber(size.Height))
	return 2
}

// put(x, y, text [, fg [, bg [, attrs]]]) -> cells written
func (r *Runner) luaPut(L *lua.LState) int {
	r.charge(L)
	pos := posArgs(L, 1, 2)
	text := L.CheckString(3)
	style := styleArgs(L, 4)

	written := 0
	for i, c := range core.CellsFromString(text, style) {
		if r.screen.SetCharacterAt(pos.Translate(i, 0), c) == nil {
			written++
		}
	}
	L.Push(lua.LNumber(written))
	return 1
}

// set(x, y, char [, fg [, bg]]) -> true when the cell was inside the screen
func (r *Runner) luaSet(L *lua.LState) int {
	r.charge(L)
	pos := posArgs(L, 1, 2)
	ch := runeArg(L, 3)
	style := styleArgs(L, 4)

	err := r.screen.SetCharacterAt(pos, core.NewStyledCell(ch, style))
	L.Push(lua.LBool(err == nil))
	return 1
}

// fill(char [, fg [, bg]])
func (r *Runner) luaFill(L *lua.LState) int {
	r.charge(L)
	ch := runeArg(L, 1)
	style := styleArgs(L, 2)
	r.screen.Fill(core.NewStyledCell(ch, style))
	return 0
}

// layer{x=, y=, w=, h=, char=, fg=, bg=} -> id
func (r *Runner) luaLayer(L *lua.LState) int {
	r.charge(L)
	t := L.CheckTable(1)

	x := fieldInt(L, t, "x", 1)
	y := fieldInt(L, t, "y", 1)
	w := fieldInt(L, t, "w", 0)
	h := fieldInt(L, t, "h", 0)
	if w > 0 && h > 0 && w > MaxLayerCells/h {
		L.ArgError(1, fmt.Sprintf("layer %dx%d exceeds %d cells", w, h, MaxLayerCells))
	}

	ch := ' '
	if v := t.RawGetString("char"); v != lua.LNil {
		s, ok := v.(lua.LString)
		if !ok || s == "" {
			L.ArgError(1, "char must be a non-empty string")
		}
		ch, _ = utf8.DecodeRuneInString(string(s))
	}
	style := core.DefaultStyle()
	style.Foreground = fieldColor(L, t, "fg", style.Foreground)
	style.Background = fieldColor(L, t, "bg", style.Background)

	layer, err := grid.NewLayer(core.SizeOf(w, h), core.NewStyledCell(ch, style), core.Pos(x-1, y-1))
	if err != nil {
		L.ArgError(1, err.Error())
	}

	id := uuid.NewString()
	r.layers[id] = layer
	r.order = append(r.order, id)
	r.screen.AddLayer(layer)

	L.Push(lua.LString(id))
	return 1
}

// write(id, x, y, text [, fg [, bg [, attrs]]]) -> cells written
// Positions are relative to the layer's top-left corner.
func (r *Runner) luaWrite(L *lua.LState) int {
	r.charge(L)
	layer := r.layerArg(L, 1)
	pos := posArgs(L, 2, 3)
	text := L.CheckString(4)
	style := styleArgs(L, 5)

	written := 0
	for i, c := range core.CellsFromString(text, style) {
		if layer.Set(pos.Translate(i, 0), c) == nil {
			written++
		}
	}
	if written > 0 {
		r.screen.MarkDirty()
	}
	L.Push(lua.LNumber(written))
	return 1
}

// move(id, x, y)
func (r *Runner) luaMove(L *lua.LState) int {
	r.charge(L)
	layer := r.layerArg(L, 1)
	layer.MoveTo(posArgs(L, 2, 3))
	r.screen.MarkDirty()
	return 0
}

// remove(id)
func (r *Runner) luaRemove(L *lua.LState) int {
	r.charge(L)
	id := L.CheckString(1)
	layer := r.layerArg(L, 1)

	if err := r.screen.RemoveLayer(layer); err != nil {
		L.RaiseError("remove %s: %v", id, err)
	}
	delete(r.layers, id)
	r.order = slices.DeleteFunc(r.order, func(s string) bool { return s == id })
	return 0
}

// clear()
func (r *Runner) luaClear(L *lua.LState) int {
	r.charge(L)
	r.screen.Clear()
	return 0
}

// log(...) and print(...)
func (r *Runner) luaLog(L *lua.LState) int {
	r.charge(L)
	parts := make([]string, L.GetTop())
	for i := range parts {
		parts[i] = L.ToStringMeta(L.Get(i + 1)).String()
	}
	r.logger.Info("%s", strings.Join(parts, " "))
	return 0
}

func (r *Runner) layerArg(L *lua.LState, n int) *grid.Layer {
	id := L.CheckString(n)
	layer, ok := r.layers[id]
	if !ok {
		L.RaiseError("%v: %s", ErrUnknownLayer, id)
	}
	return layer
}

// posArgs reads a 1-indexed x, y pair as a 0-indexed position.
func posArgs(L *lua.LState, xi, yi int) core.Position {
	return core.Pos(L.CheckInt(xi)-1, L.CheckInt(yi)-1)
}

func runeArg(L *lua.LState, n int) rune {
	s := L.CheckString(n)
	if s == "" {
		L.ArgError(n, "empty character")
	}
	ch, _ := utf8.DecodeRuneInString(s)
	return ch
}

// styleArgs reads optional fg, bg and attrs arguments starting at n.
func styleArgs(L *lua.LState, n int) core.Style {
	style := core.DefaultStyle()
	style.Foreground = colorArg(L, n, style.Foreground)
	style.Background = colorArg(L, n+1, style.Background)
	style.Attributes = attrsArg(L, n+2)
	return style
}

// lighten(color, amount) -> color mixed toward white by amount in [0, 1]
func (r *Runner) luaLighten(L *lua.LState) int {
	return r.shade(L, core.Color.Lighten)
}

// darken(color, amount) -> color mixed toward black by amount in [0, 1]
func (r *Runner) luaDarken(L *lua.LState) int {
	return r.shade(L, core.Color.Darken)
}

func (r *Runner) shade(L *lua.LState, fn func(core.Color, float64) core.Color) int {
	r.charge(L)
	if L.Get(1) == lua.LNil {
		L.ArgError(1, "color string expected")
	}
	c := colorArg(L, 1, core.Color{})
	amount := float64(L.CheckNumber(2))
	L.Push(lua.LString(fn(c, amount).String()))
	return 1
}

func colorArg(L *lua.LState, n int, def core.Color) core.Color {
	v := L.Get(n)
	if v == lua.LNil {
		return def
	}
	s, ok := v.(lua.LString)
	if !ok {
		L.ArgError(n, "color string expected")
	}
	c, err := core.ColorFromHex(string(s))
	if err != nil {
		L.ArgError(n, err.Error())
	}
	return c
}

// attrsArg parses a comma separated attribute list such as "bold,underline".
func attrsArg(L *lua.LState, n int) core.Attribute {
	v := L.Get(n)
	if v == lua.LNil {
		return core.AttrNone
	}
	s, ok := v.(lua.LString)
	if !ok {
		L.ArgError(n, "attribute string expected")
	}
	attrs := core.AttrNone
	for _, name := range strings.Split(string(s), ",") {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		a, ok := core.ParseAttribute(name)
		if !ok {
			L.ArgError(n, "unknown attribute "+name)
		}
		attrs = attrs.With(a)
	}
	return attrs
}

func fieldInt(L *lua.LState, t *lua.LTable, name string, def int) int {
	switch v := t.RawGetString(name).(type) {
	case *lua.LNilType:
		return def
	case lua.LNumber:
		if v < math.MinInt32 || v > math.MaxInt32 {
			L.ArgError(1, name+" is out of range")
		}
		return int(v)
	default:
		L.ArgError(1, name+" must be a number")
		return def
	}
}

func fieldColor(L *lua.LState, t *lua.LTable, name string, def core.Color) core.Color {
	v := t.RawGetString(name)
	if v == lua.LNil {
		return def
	}
	s, ok := v.(lua.LString)
	if !ok {
		L.ArgError(1, name+" must be a color string")
	}
	c, err := core.ColorFromHex(string(s))
	if err != nil {
		L.ArgError(1, name+": "+err.Error())
	}
	return c
}
