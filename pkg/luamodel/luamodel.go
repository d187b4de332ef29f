// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package luamodel runs a pin-level core model written in Lua.
//
// A script defines a global step() function, called once per model step,
// and talks to its pins through get(name) and set(name, value). The pins
// table, when present, replaces the default pin list:
//
//	pins = {
//	    { name = "clk", width = 1, dir = "in" },
//	    { name = "d_haddr", width = 32, dir = "out" },
//	}
package luamodel

import (
	"errors"
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/lassandro/dmtb/pkg/model"
)

const (
	FN_STEP  = "step"
	FN_GET   = "get"
	FN_SET   = "set"
	VAR_PINS = "pins"
)

var ErrNoStep = errors.New("Model script has no step function")

type Model struct {
	*model.PinSet

	state *lua.LState
	step  *lua.LFunction
}

func Load(path string) (*Model, error) {
	return load(func(L *lua.LState) error { return L.DoFile(path) })
}

func LoadString(source string) (*Model, error) {
	return load(func(L *lua.LState) error { return L.DoString(source) })
}

func load(run func(L *lua.LState) error) (*Model, error) {
	m := &Model{state: lua.NewState()}

	m.state.SetGlobal(FN_GET, m.state.NewFunction(m.get))
	m.state.SetGlobal(FN_SET, m.state.NewFunction(m.set))

	if err := run(m.state); err != nil {
		m.state.Close()
		return nil, err
	}

	step, ok := m.state.GetGlobal(FN_STEP).(*lua.LFunction)

	if !ok {
		m.state.Close()
		return nil, ErrNoStep
	}

	m.step = step

	pins, err := declaredPins(m.state.GetGlobal(VAR_PINS))

	if err != nil {
		m.state.Close()
		return nil, err
	}

	m.PinSet = model.NewPinSet(pins)

	return m, nil
}

func declaredPins(value lua.LValue) ([]model.Pin, error) {
	if value == lua.LNil {
		return model.CorePins, nil
	}

	table, ok := value.(*lua.LTable)

	if !ok {
		return nil, fmt.Errorf("%s must be a table, got %s", VAR_PINS, value.Type())
	}

	var pins []model.Pin
	seen := make(map[string]bool)

	for i := 1; i <= table.Len(); i++ {
		entry, ok := table.RawGetInt(i).(*lua.LTable)

		if !ok {
			return nil, fmt.Errorf("%s[%d] must be a table", VAR_PINS, i)
		}

		name, ok := entry.RawGetString("name").(lua.LString)

		if !ok || name == "" {
			return nil, fmt.Errorf("%s[%d] has no name", VAR_PINS, i)
		}

		width, ok := entry.RawGetString("width").(lua.LNumber)

		if !ok || width < 1 || width > 32 {
			return nil, fmt.Errorf("%s[%d] (%s) needs a width of 1 to 32", VAR_PINS, i, name)
		}

		if seen[string(name)] {
			return nil, fmt.Errorf("%s[%d] redeclares %s", VAR_PINS, i, name)
		}

		seen[string(name)] = true

		pin := model.Pin{Name: string(name), Width: uint(width)}

		switch dir := entry.RawGetString("dir"); dir {
		case lua.LNil, lua.LString("in"):
			pin.Direction = model.PIN_IN
		case lua.LString("out"):
			pin.Direction = model.PIN_OUT
		default:
			return nil, fmt.Errorf("%s[%d] (%s) has unknown dir %s", VAR_PINS, i, name, dir)
		}

		pins = append(pins, pin)
	}

	return pins, nil
}

func (m *Model) pin(L *lua.LState) string {
	name := L.CheckString(1)

	if m.PinSet == nil {
		L.RaiseError("Pins are not available while the script loads")
	}

	if !m.Has(name) {
		L.ArgError(1, fmt.Sprintf("undeclared pin %q", name))
	}

	return name
}

func (m *Model) get(L *lua.LState) int {
	L.Push(lua.LNumber(m.Uint(m.pin(L))))
	return 1
}

func (m *Model) set(L *lua.LState) int {
	name := m.pin(L)

	switch value := L.Get(2).(type) {
	case lua.LBool:
		m.SetBool(name, bool(value))
	case lua.LNumber:
		m.SetUint(name, uint32(int64(value)))
	default:
		L.ArgError(2, "expected boolean or number")
	}

	return 0
}

// Step panics if the script raises an error, like access to an undeclared
// pin from Go.
func (m *Model) Step() {
	err := m.state.CallByParam(lua.P{Fn: m.step, NRet: 0, Protect: true})

	if err != nil {
		panic(fmt.Errorf("model step: %w", err))
	}
}

func (m *Model) Close() {
	m.state.Close()
}
