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

package pseudo

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// luaRule expands a pseudo-instruction through a Lua function taking the
// instruction text and its line index and returning a table of lines.
type luaRule struct {
	state *lua.LState
	fn    *lua.LFunction
	name  string
}

func (rule *luaRule) Expand(inst string, index int) ([]string, error) {
	err := rule.state.CallByParam(
		lua.P{Fn: rule.fn, NRet: 1, Protect: true},
		lua.LString(inst),
		lua.LNumber(index),
	)

	if err != nil {
		return nil, &ExpandError{
			Index:    index,
			Mnemonic: rule.name,
			Reason:   err.Error(),
		}
	}

	result := rule.state.Get(-1)
	rule.state.Pop(1)

	lines, ok := result.(*lua.LTable)

	if !ok {
		return nil, &ExpandError{
			Index:    index,
			Mnemonic: rule.name,
			Reason:   "rule did not return a table",
		}
	}

	expansion := []string{}

	var badValue lua.LValue

	lines.ForEach(func(_, value lua.LValue) {
		if text, ok := value.(lua.LString); ok {
			expansion = append(expansion, string(text))
		} else if badValue == nil {
			badValue = value
		}
	})

	if badValue != nil {
		return nil, &ExpandError{
			Index:    index,
			Mnemonic: rule.name,
			Reason: fmt.Sprintf(
				"rule returned a non-string line (%s)",
				badValue.Type(),
			),
		}
	}

	return expansion, nil
}

// LoadLuaRules runs a Lua script and registers every entry of its global
// 'pseudos' table as an expansion rule. The returned table owns the
// interpreter; Close it when done.
func LoadLuaRules(path string) (*Table, error) {
	state := lua.NewState()

	if err := state.DoFile(path); err != nil {
		state.Close()
		return nil, err
	}

	pseudos, ok := state.GetGlobal("pseudos").(*lua.LTable)

	if !ok {
		state.Close()
		return nil, fmt.Errorf("%s: missing global 'pseudos' table", path)
	}

	table := NewTable()
	table.state = state

	var badKey string

	pseudos.ForEach(func(key, value lua.LValue) {
		name, nameOK := key.(lua.LString)
		fn, fnOK := value.(*lua.LFunction)

		if !nameOK || !fnOK {
			if badKey == "" {
				badKey = key.String()
			}

			return
		}

		table.Register(string(name), &luaRule{
			state: state,
			fn:    fn,
			name:  string(name),
		})
	})

	if badKey != "" {
		table.Close()

		return nil, fmt.Errorf(
			"%s: 'pseudos' entry '%s' is not a named function",
			path,
			badKey,
		)
	}

	return table, nil
}
