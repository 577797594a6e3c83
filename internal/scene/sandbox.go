package scene

import (
	lua "github.com/yuin/gopher-lua"
)

// newSandboxedState creates a Lua state with only the base, table, string
// and math libraries. Nothing a script runs can reach the file system, the
// process or other modules.
func newSandboxedState() *lua.LState {
	L := lua.NewState(lua.Options{
		SkipOpenLibs: true,
	})

	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range []string{
		"dofile",
		"loadfile",
		"load",
		"loadstring",
		"require",
		"module",
		"collectgarbage",
	} {
		L.SetGlobal(name, lua.LNil)
	}

	return L
}
