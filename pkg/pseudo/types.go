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
	"regexp"

	lua "github.com/yuin/gopher-lua"

	"github.com/lassandro/gorv32/pkg/assembler"
)

// Table maps pseudo-instruction mnemonics to their expansion rules. It
// implements assembler.PseudoRegistry.
type Table struct {
	rules map[string]assembler.PseudoRule
	state *lua.LState
}

// RuleFunc adapts a plain function to the assembler.PseudoRule interface.
type RuleFunc func(inst string, index int) ([]string, error)

func (fn RuleFunc) Expand(inst string, index int) ([]string, error) {
	return fn(inst, index)
}

// SubstitutionRule expands a pseudo-instruction by substituting its
// operands into a line template.
type SubstitutionRule struct {
	Mnemonic   string
	Parameters []string
	Template   []string

	patterns []*regexp.Regexp
}

type BadDefinitionError struct {
	Line   int
	Token  string
	Reason string
}

func (err *BadDefinitionError) Error() string {
	return fmt.Sprintf(
		"%02d: Bad pseudo definition '%s': %s",
		err.Line,
		err.Token,
		err.Reason,
	)
}

type ExpandError struct {
	Index    int
	Mnemonic string
	Reason   string
}

func (err *ExpandError) SourceLine() int {
	return err.Index
}

func (err *ExpandError) Error() string {
	return fmt.Sprintf(
		"%02d: Cannot expand pseudo-instruction '%s': %s",
		err.Index,
		err.Mnemonic,
		err.Reason,
	)
}
