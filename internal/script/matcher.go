// Package script hosts Lua-defined leaf matchers for the offset map.
//
// A matcher script defines a single global function:
//
//	function match(leaf, text, from)
//	  return { { structoff = 0, from = 0, to = 1 }, ... }
//	end
//
// All offsets are zero-based byte offsets: structoff is relative to the
// leaf's structural start, from/to are absolute offsets into the
// serialized text. Returning nil (or nothing) means no match. Script
// errors degrade to "no match" through the warning callback; they never
// abort a build.
package script

import (
	"errors"
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/treetext/internal/offsetmap"
)

// ErrNoMatchFunction indicates the script does not define match().
var ErrNoMatchFunction = errors.New("script does not define match()")

// Matcher is an offsetmap.Matcher backed by a sandboxed Lua script.
// It owns one Lua VM and is not safe for concurrent use, matching the
// engine's single-writer model.
type Matcher struct {
	state *lua.LState
	fn    lua.LValue
	warn  func(string)
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithWarn installs a callback for script errors and malformed results.
func WithWarn(fn func(string)) Option {
	return func(m *Matcher) { m.warn = fn }
}

// NewMatcher compiles source in a sandboxed Lua state. Only the base,
// string, and table libraries are opened; loaders that reach the
// filesystem are removed.
func NewMatcher(source string, opts ...Option) (*Matcher, error) {
	m := &Matcher{}
	for _, opt := range opts {
		opt(m)
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, lib := range []struct {
		name string
		open lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.StringLibName, lua.OpenString},
		{lua.TabLibName, lua.OpenTable},
	} {
		if err := L.CallByParam(lua.P{
			Fn:      L.NewFunction(lib.open),
			NRet:    0,
			Protect: true,
		}, lua.LString(lib.name)); err != nil {
			L.Close()
			return nil, fmt.Errorf("open lua lib %s: %w", lib.name, err)
		}
	}
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		L.SetGlobal(name, lua.LNil)
	}

	if err := L.DoString(source); err != nil {
		L.Close()
		return nil, fmt.Errorf("load matcher script: %w", err)
	}
	fn := L.GetGlobal("match")
	if fn == lua.LNil {
		L.Close()
		return nil, ErrNoMatchFunction
	}

	m.state = L
	m.fn = fn
	return m, nil
}

// Close releases the Lua VM.
func (m *Matcher) Close() {
	if m.state != nil {
		m.state.Close()
		m.state = nil
	}
}

// Match invokes the script's match function and converts its result into
// offset map runs. Any script error or malformed run reports through the
// warning callback and yields no match.
func (m *Matcher) Match(leaf, text string, from int) ([]offsetmap.Run, bool) {
	if m.state == nil {
		return nil, false
	}
	err := m.state.CallByParam(lua.P{
		Fn:      m.fn,
		NRet:    1,
		Protect: true,
	}, lua.LString(leaf), lua.LString(text), lua.LNumber(from))
	if err != nil {
		m.warnf("script: match() failed: %v", err)
		return nil, false
	}
	ret := m.state.Get(-1)
	m.state.Pop(1)

	table, ok := ret.(*lua.LTable)
	if !ok {
		if ret != lua.LNil {
			m.warnf("script: match() returned %s, want table or nil", ret.Type())
		}
		return nil, false
	}

	var runs []offsetmap.Run
	n := table.Len()
	for i := 1; i <= n; i++ {
		entry, ok := table.RawGetInt(i).(*lua.LTable)
		if !ok {
			m.warnf("script: match() run %d is not a table", i)
			return nil, false
		}
		run, err := toRun(entry)
		if err != nil {
			m.warnf("script: match() run %d: %v", i, err)
			return nil, false
		}
		runs = append(runs, run)
	}
	return runs, len(runs) > 0
}

func toRun(t *lua.LTable) (offsetmap.Run, error) {
	structOff, err := intField(t, "structoff")
	if err != nil {
		return offsetmap.Run{}, err
	}
	from, err := intField(t, "from")
	if err != nil {
		return offsetmap.Run{}, err
	}
	to, err := intField(t, "to")
	if err != nil {
		return offsetmap.Run{}, err
	}
	if structOff < 0 || from < 0 || to < from {
		return offsetmap.Run{}, fmt.Errorf("invalid run {%d %d %d}", structOff, from, to)
	}
	return offsetmap.Run{StructOffset: structOff, TextStart: from, TextEnd: to}, nil
}

func intField(t *lua.LTable, name string) (int, error) {
	v := t.RawGetString(name)
	num, ok := v.(lua.LNumber)
	if !ok {
		return 0, fmt.Errorf("field %q is %s, want number", name, v.Type())
	}
	return int(num), nil
}

func (m *Matcher) warnf(format string, args ...any) {
	if m.warn != nil {
		m.warn(fmt.Sprintf(format, args...))
	}
}
