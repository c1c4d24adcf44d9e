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

package assembler

import (
	"fmt"
)

type FormatType uint

func (format FormatType) String() string {
	switch format {
	case FORMAT_R:
		return "R"
	case FORMAT_I:
		return "I"
	case FORMAT_S:
		return "S"
	case FORMAT_SB:
		return "SB"
	case FORMAT_U:
		return "U"
	case FORMAT_UJ:
		return "UJ"
	}

	return "<invalid>"
}

type FieldData struct {
	Opcode string
	Funct3 string
	Funct7 string
}

type LabelTable struct {
	Addrs map[string]uint32
	Order []string
}

type Program struct {
	Words        []string
	Instructions []string
	Labels       *LabelTable
}

// PseudoRule rewrites one pseudo-instruction into core instruction lines.
// The index locates the line within the normalized program; returned lines
// must be non-empty and are never rescanned for further pseudos.
type PseudoRule interface {
	Expand(inst string, index int) ([]string, error)
}

// PseudoRegistry resolves pseudo-instruction mnemonics to their rules.
// Registries are injected into the pipeline per run.
type PseudoRegistry interface {
	Lookup(mnemonic string) (PseudoRule, bool)
}

type LineError interface {
	SourceLine() int
}

type BadInstructionError struct {
	Line     int
	Mnemonic string
}

func (err *BadInstructionError) SourceLine() int {
	return err.Line
}

func (err *BadInstructionError) Error() string {
	return fmt.Sprintf("%02d: Bad instruction '%s'", err.Line, err.Mnemonic)
}

type BadOperandsError struct {
	Line     int
	Mnemonic string
	Required string
	Received string
}

func (err *BadOperandsError) SourceLine() int {
	return err.Line
}

func (err *BadOperandsError) Error() string {
	return fmt.Sprintf(
		"%02d: Bad operands for '%s'\n\twant:%s\n\thave:%s",
		err.Line,
		err.Mnemonic,
		err.Required,
		err.Received,
	)
}

type BadRegisterError struct {
	Line int
	Name string
}

func (err *BadRegisterError) SourceLine() int {
	return err.Line
}

func (err *BadRegisterError) Error() string {
	return fmt.Sprintf("%02d: Bad register '%s'", err.Line, err.Name)
}

type BadImmediateError struct {
	Line     int
	Token    string
	Required string
}

func (err *BadImmediateError) SourceLine() int {
	return err.Line
}

func (err *BadImmediateError) Error() string {
	return fmt.Sprintf(
		"%02d: Bad immediate\n\twant:%s\n\thave:'%s'",
		err.Line,
		err.Required,
		err.Token,
	)
}

type BadLabelError struct {
	Line   int
	Label  string
	Reason string
}

func (err *BadLabelError) SourceLine() int {
	return err.Line
}

func (err *BadLabelError) Error() string {
	return fmt.Sprintf(
		"%02d: Bad label '%s': %s",
		err.Line,
		err.Label,
		err.Reason,
	)
}

type EmptyExpansionError struct {
	Line     int
	Mnemonic string
}

func (err *EmptyExpansionError) SourceLine() int {
	return err.Line
}

func (err *EmptyExpansionError) Error() string {
	return fmt.Sprintf(
		"%02d: Pseudo-instruction '%s' expanded to nothing",
		err.Line,
		err.Mnemonic,
	)
}
