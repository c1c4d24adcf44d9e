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
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode"

	"github.com/lassandro/gorv32/pkg/assembler"
)

func operandTokens(inst string) []string {
	return strings.Fields(strings.ReplaceAll(inst, ",", " "))
}

func validParameter(param string) bool {
	for i, char := range param {
		if char == '_' || unicode.IsLetter(char) {
			continue
		}

		if i > 0 && unicode.IsDigit(char) {
			continue
		}

		return false
	}

	return len(param) > 0
}

// NewTable returns an empty pseudo-instruction table.
func NewTable() *Table {
	return &Table{rules: make(map[string]assembler.PseudoRule)}
}

// Register binds a rule to a mnemonic, replacing any existing binding.
func (table *Table) Register(mnemonic string, rule assembler.PseudoRule) {
	table.rules[mnemonic] = rule
}

// Lookup implements assembler.PseudoRegistry.
func (table *Table) Lookup(mnemonic string) (assembler.PseudoRule, bool) {
	rule, ok := table.rules[mnemonic]
	return rule, ok
}

// Close releases any interpreter state owned by the table.
func (table *Table) Close() {
	if table.state != nil {
		table.state.Close()
		table.state = nil
	}
}

// NewSubstitutionRule compiles a substitution rule from its parameter
// names and template lines.
func NewSubstitutionRule(
	mnemonic string,
	parameters []string,
	template []string,
) *SubstitutionRule {
	rule := &SubstitutionRule{
		Mnemonic:   mnemonic,
		Parameters: parameters,
		Template:   template,
	}

	for _, param := range parameters {
		rule.patterns = append(
			rule.patterns,
			regexp.MustCompile(`\b`+regexp.QuoteMeta(param)+`\b`),
		)
	}

	return rule
}

// Expand implements assembler.PseudoRule. Each operand replaces its
// parameter wherever the parameter appears as a whole word in the
// template.
func (rule *SubstitutionRule) Expand(
	inst string,
	index int,
) ([]string, error) {
	tokens := operandTokens(inst)

	var operands []string

	if len(tokens) > 1 {
		operands = tokens[1:]
	}

	if len(operands) != len(rule.Parameters) {
		return nil, &ExpandError{
			Index:    index,
			Mnemonic: rule.Mnemonic,
			Reason: fmt.Sprintf(
				"want %d operands, have %d",
				len(rule.Parameters),
				len(operands),
			),
		}
	}

	expansion := make([]string, len(rule.Template))
	copy(expansion, rule.Template)

	for i, pattern := range rule.patterns {
		for j, line := range expansion {
			expansion[j] = pattern.ReplaceAllLiteralString(
				line, operands[i],
			)
		}
	}

	return expansion, nil
}

// LoadDefinitions reads a pseudo-instruction definition file. A definition
// opens with a header line naming the mnemonic and its parameters and
// ending in '=', followed by one or more template lines; ';' starts a
// comment. For example:
//
//	double rd, rs =
//	    add rd, rs, rs
func LoadDefinitions(r io.Reader) (*Table, error) {
	table := NewTable()

	var mnemonic string
	var parameters []string
	var template []string

	flush := func(line int) error {
		if mnemonic == "" {
			return nil
		}

		if len(template) == 0 {
			return &BadDefinitionError{
				Line:   line,
				Token:  mnemonic,
				Reason: "empty template",
			}
		}

		table.Register(
			mnemonic,
			NewSubstitutionRule(mnemonic, parameters, template),
		)

		mnemonic = ""
		parameters = nil
		template = nil

		return nil
	}

	scanner := bufio.NewScanner(r)

	line := 0

	for ; scanner.Scan(); line++ {
		text := scanner.Text()

		if comment := strings.Index(text, ";"); comment >= 0 {
			text = text[:comment]
		}

		text = strings.TrimSpace(text)

		if text == "" {
			continue
		}

		if strings.HasSuffix(text, "=") {
			if err := flush(line); err != nil {
				return nil, err
			}

			header := operandTokens(strings.TrimSuffix(text, "="))

			if len(header) == 0 {
				return nil, &BadDefinitionError{
					Line:   line,
					Token:  text,
					Reason: "missing mnemonic",
				}
			}

			if _, exists := table.rules[header[0]]; exists {
				return nil, &BadDefinitionError{
					Line:   line,
					Token:  header[0],
					Reason: "redeclared",
				}
			}

			for _, param := range header[1:] {
				if !validParameter(param) {
					return nil, &BadDefinitionError{
						Line:   line,
						Token:  param,
						Reason: "invalid parameter name",
					}
				}

				if assembler.IsRegisterName(param) {
					return nil, &BadDefinitionError{
						Line:   line,
						Token:  param,
						Reason: "parameter shadows a register name",
					}
				}
			}

			mnemonic = header[0]
			parameters = header[1:]

			continue
		}

		if mnemonic == "" {
			return nil, &BadDefinitionError{
				Line:   line,
				Token:  text,
				Reason: "template line outside a definition",
			}
		}

		template = append(template, text)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if err := flush(line); err != nil {
		return nil, err
	}

	return table, nil
}
