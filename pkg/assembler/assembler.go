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
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/lassandro/gorv32/pkg/encoding"
)

// instTokens splits an instruction line into its mnemonic and operands.
func instTokens(inst string) []string {
	return strings.Fields(strings.ReplaceAll(inst, ",", " "))
}

func isNumeric(token string) bool {
	_, err := strconv.ParseInt(token, 10, 64)
	return err == nil
}

// IsRegisterName reports whether token names a general purpose register.
func IsRegisterName(token string) bool {
	_, ok := registerNames[token]
	return ok
}

// RegisterID resolves a register name or alias to its numeric id.
func RegisterID(token string) (uint8, bool) {
	id, ok := registerNames[token]
	return id, ok
}

// InstructionFormat reports the encoding format and field data for the
// given mnemonic.
func InstructionFormat(mnemonic string) (FormatType, FieldData, bool) {
	format, ok := instFormats[mnemonic]

	if !ok {
		return FORMAT_INVALID, FieldData{}, false
	}

	return format, instFields[mnemonic], true
}

func operandRegister(
	mnemonic string,
	token string,
	index int,
) (string, error) {
	if strings.Contains(token, "(") {
		return "", &BadOperandsError{
			Line:     index,
			Mnemonic: mnemonic,
			Required: "register name",
			Received: "'" + token + "'",
		}
	}

	id, ok := registerNames[token]

	if !ok {
		return "", &BadRegisterError{Line: index, Name: token}
	}

	return encoding.UintToBin(uint64(id), FIELD_REGISTER), nil
}

func immediateBin(token string, size int, index int) (string, error) {
	bits, err := encoding.ParseDecToBin(token, size)

	if err != nil {
		return "", &BadImmediateError{
			Line:     index,
			Token:    token,
			Required: fmt.Sprintf("%d-bit signed value", size),
		}
	}

	return bits, nil
}

// parseBaseOffset splits an 'offset(base)' operand into its immediate and
// base register fields.
func parseBaseOffset(
	mnemonic string,
	token string,
	index int,
) (string, string, error) {
	pieces := strings.Split(strings.ReplaceAll(token, ")", ""), "(")

	if len(pieces) != 2 {
		return "", "", &BadImmediateError{
			Line:     index,
			Token:    token,
			Required: "offset(base) notation",
		}
	}

	imm, err := immediateBin(pieces[0], FIELD_IMM12, index)

	if err != nil {
		return "", "", err
	}

	base, err := operandRegister(mnemonic, pieces[1], index)

	if err != nil {
		return "", "", err
	}

	return imm, base, nil
}

// branchOffsetBin resolves a branch target, either a numeric byte offset
// or a program label, into its halfword offset field. Label offsets are
// measured from the branching instruction's own address.
func branchOffsetBin(
	token string,
	index int,
	labels map[string]uint32,
	size int,
) (string, error) {
	var offset int64

	if isNumeric(token) {
		offset, _ = strconv.ParseInt(token, 10, 64)
	} else if IsRegisterName(token) {
		return "", &BadImmediateError{
			Line:     index,
			Token:    token,
			Required: "numeric offset or label",
		}
	} else {
		target, ok := labels[token]

		if !ok {
			return "", &BadLabelError{
				Line:   index,
				Label:  token,
				Reason: "unknown",
			}
		}

		addr := MEMSPACE_TEXT + INSTRUCTION_BYTES*uint32(index)
		offset = int64(target) - int64(addr)
	}

	bits, err := encoding.DecToBin(offset>>1, size)

	if err != nil {
		return "", &BadImmediateError{
			Line:  index,
			Token: token,
			Required: fmt.Sprintf(
				"branch offset in %d..%d",
				-(1 << size),
				(1<<size)-1,
			),
		}
	}

	return bits, nil
}

// R    |funct7 |rs2  |rs1  |funct3|rd   |opcode |
// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ x4 ]
func assembleRType(
	mnemonic string,
	operands []string,
	fields FieldData,
	index int,
) (string, error) {
	if count := len(operands); count != 3 {
		return "", &BadOperandsError{
			Line:     index,
			Mnemonic: mnemonic,
			Required: "3 operands",
			Received: fmt.Sprintf("%d operands", count),
		}
	}

	rd, err := operandRegister(mnemonic, operands[0], index)

	if err != nil {
		return "", err
	}

	rs1, err := operandRegister(mnemonic, operands[1], index)

	if err != nil {
		return "", err
	}

	rs2, err := operandRegister(mnemonic, operands[2], index)

	if err != nil {
		return "", err
	}

	return encoding.JoinFields(
		fields.Funct7, rs2, rs1, fields.Funct3, rd, fields.Opcode,
	), nil
}

// I    |imm[11:0]    |rs1  |funct3|rd   |opcode |
// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ x4 ]
func assembleIType(
	mnemonic string,
	operands []string,
	fields FieldData,
	index int,
) (string, error) {
	if count := len(operands); count != 3 {
		return "", &BadOperandsError{
			Line:     index,
			Mnemonic: mnemonic,
			Required: "3 operands",
			Received: fmt.Sprintf("%d operands", count),
		}
	}

	rd, err := operandRegister(mnemonic, operands[0], index)

	if err != nil {
		return "", err
	}

	rs1, err := operandRegister(mnemonic, operands[1], index)

	if err != nil {
		return "", err
	}

	imm, err := immediateBin(operands[2], FIELD_IMM12, index)

	if err != nil {
		return "", err
	}

	return encoding.JoinFields(
		imm, rs1, fields.Funct3, rd, fields.Opcode,
	), nil
}

// Shift immediates occupy the low five bits of the I-type immediate field;
// srai additionally sets bit 30 of the word.
func assembleIShift(
	mnemonic string,
	operands []string,
	fields FieldData,
	index int,
) (string, error) {
	if count := len(operands); count != 3 {
		return "", &BadOperandsError{
			Line:     index,
			Mnemonic: mnemonic,
			Required: "3 operands",
			Received: fmt.Sprintf("%d operands", count),
		}
	}

	rd, err := operandRegister(mnemonic, operands[0], index)

	if err != nil {
		return "", err
	}

	rs1, err := operandRegister(mnemonic, operands[1], index)

	if err != nil {
		return "", err
	}

	shamt, err := strconv.ParseInt(operands[2], 10, 64)

	if err != nil || shamt < 0 || shamt > 31 {
		return "", &BadImmediateError{
			Line:     index,
			Token:    operands[2],
			Required: "shift amount in 0..31",
		}
	}

	imm := encoding.UintToBin(uint64(shamt), FIELD_IMM12)

	if mnemonic == "srai" {
		imm = "010000" + imm[6:]
	}

	return encoding.JoinFields(
		imm, rs1, fields.Funct3, rd, fields.Opcode,
	), nil
}

// Loads and indirect jumps take 'rd, offset(base)' operands, with
// 'rd, base, offset' and 'rd, offset (base)' accepted as spellings of
// the same form.
func assembleIOffset(
	mnemonic string,
	operands []string,
	fields FieldData,
	index int,
) (string, error) {
	if count := len(operands); count != 2 && count != 3 {
		return "", &BadOperandsError{
			Line:     index,
			Mnemonic: mnemonic,
			Required: "rd, offset(base)",
			Received: fmt.Sprintf("%d operands", count),
		}
	}

	rd, err := operandRegister(mnemonic, operands[0], index)

	if err != nil {
		return "", err
	}

	token := operands[1]

	if len(operands) == 3 {
		if strings.HasPrefix(operands[2], "(") {
			token = operands[1] + operands[2]
		} else {
			token = operands[2] + "(" + operands[1] + ")"
		}
	}

	imm, rs1, err := parseBaseOffset(mnemonic, token, index)

	if err != nil {
		return "", err
	}

	return encoding.JoinFields(
		imm, rs1, fields.Funct3, rd, fields.Opcode,
	), nil
}

// S    |imm[11:5]    |rs2  |rs1  |funct3|imm[4:0]|opcode |
// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ x4 ]
func assembleSType(
	mnemonic string,
	operands []string,
	fields FieldData,
	index int,
) (string, error) {
	if count := len(operands); count != 2 {
		return "", &BadOperandsError{
			Line:     index,
			Mnemonic: mnemonic,
			Required: "2 operands",
			Received: fmt.Sprintf("%d operands", count),
		}
	}

	rs2, err := operandRegister(mnemonic, operands[0], index)

	if err != nil {
		return "", err
	}

	imm, rs1, err := parseBaseOffset(mnemonic, operands[1], index)

	if err != nil {
		return "", err
	}

	return encoding.JoinFields(
		imm[:7], rs2, rs1, fields.Funct3, imm[7:], fields.Opcode,
	), nil
}

// SB   |imm[12|10:5] |rs2  |rs1  |funct3|imm[4:1|11]|opcode |
// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ x4 ]
func assembleSBType(
	mnemonic string,
	operands []string,
	fields FieldData,
	index int,
	labels map[string]uint32,
) (string, error) {
	if count := len(operands); count != 3 {
		return "", &BadOperandsError{
			Line:     index,
			Mnemonic: mnemonic,
			Required: "3 operands",
			Received: fmt.Sprintf("%d operands", count),
		}
	}

	imm, err := branchOffsetBin(operands[2], index, labels, FIELD_IMM12)

	if err != nil {
		return "", err
	}

	rs1, err := operandRegister(mnemonic, operands[0], index)

	if err != nil {
		return "", err
	}

	rs2, err := operandRegister(mnemonic, operands[1], index)

	if err != nil {
		return "", err
	}

	return encoding.JoinFields(
		imm[0:1]+imm[2:8],
		rs2,
		rs1,
		fields.Funct3,
		imm[8:12]+imm[1:2],
		fields.Opcode,
	), nil
}

// U    |imm[31:12]   |rd   |opcode |
// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ x4 ]
func assembleUType(
	mnemonic string,
	operands []string,
	fields FieldData,
	index int,
) (string, error) {
	if count := len(operands); count != 2 {
		return "", &BadOperandsError{
			Line:     index,
			Mnemonic: mnemonic,
			Required: "2 operands",
			Received: fmt.Sprintf("%d operands", count),
		}
	}

	rd, err := operandRegister(mnemonic, operands[0], index)

	if err != nil {
		return "", err
	}

	imm, err := immediateBin(operands[1], FIELD_IMM20, index)

	if err != nil {
		return "", err
	}

	return encoding.JoinFields(imm, rd, fields.Opcode), nil
}

// UJ   |imm[20|10:1|11|19:12]   |rd   |opcode |
// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ x4 ]
func assembleUJType(
	mnemonic string,
	operands []string,
	fields FieldData,
	index int,
	labels map[string]uint32,
) (string, error) {
	if count := len(operands); count != 2 {
		return "", &BadOperandsError{
			Line:     index,
			Mnemonic: mnemonic,
			Required: "2 operands",
			Received: fmt.Sprintf("%d operands", count),
		}
	}

	rd, err := operandRegister(mnemonic, operands[0], index)

	if err != nil {
		return "", err
	}

	imm, err := branchOffsetBin(operands[1], index, labels, FIELD_IMM20)

	if err != nil {
		return "", err
	}

	return encoding.JoinFields(
		imm[0:1]+imm[10:20]+imm[9:10]+imm[1:9],
		rd,
		fields.Opcode,
	), nil
}

// Assemble encodes a single instruction line into a 32-bit word of grouped
// binary digits. The index gives the instruction's position within the
// program and determines its address when resolving branch labels.
func Assemble(
	inst string,
	index int,
	labels map[string]uint32,
) (string, error) {
	tokens := instTokens(inst)

	if len(tokens) == 0 {
		return "", &BadInstructionError{Line: index, Mnemonic: inst}
	}

	mnemonic := tokens[0]
	operands := tokens[1:]
	fields := instFields[mnemonic]

	switch instFormats[mnemonic] {
	case FORMAT_R:
		return assembleRType(mnemonic, operands, fields, index)

	case FORMAT_I:
		switch mnemonic {
		case "lw", "jalr":
			return assembleIOffset(mnemonic, operands, fields, index)

		case "slli", "srli", "srai":
			return assembleIShift(mnemonic, operands, fields, index)
		}

		return assembleIType(mnemonic, operands, fields, index)

	case FORMAT_S:
		return assembleSType(mnemonic, operands, fields, index)

	case FORMAT_SB:
		return assembleSBType(mnemonic, operands, fields, index, labels)

	case FORMAT_U:
		return assembleUType(mnemonic, operands, fields, index)

	case FORMAT_UJ:
		return assembleUJType(mnemonic, operands, fields, index, labels)
	}

	return "", &BadInstructionError{Line: index, Mnemonic: mnemonic}
}

// CleanSource strips comments, leading whitespace, and empty lines from
// program text. Cleaning is idempotent.
func CleanSource(lines []string) []string {
	cleaned := make([]string, 0, len(lines))

	for _, line := range lines {
		line = strings.TrimLeftFunc(line, unicode.IsSpace)

		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}

		if comment := strings.Index(line, ";"); comment >= 0 {
			line = line[:comment]
		}

		cleaned = append(cleaned, line)
	}

	return cleaned
}

func splitLabel(line string) (string, string, bool) {
	colon := strings.Index(line, ":")

	if colon < 0 {
		return "", strings.TrimSpace(line), false
	}

	label := strings.TrimSpace(line[:colon])
	inst := strings.TrimSpace(line[colon+1:])

	return label, inst, true
}

// ExpandPseudos rewrites pseudo-instructions through the given registry. A
// nil registry leaves the program untouched. Expansions are spliced in
// place of their source line and are not rescanned, so a rule cannot
// recurse through its own output. A label stays attached to the first line
// of its expansion.
func ExpandPseudos(
	lines []string,
	registry PseudoRegistry,
) ([]string, error) {
	if registry == nil {
		return lines, nil
	}

	expanded := make([]string, 0, len(lines))

	for i, line := range lines {
		label, inst, labeled := splitLabel(line)

		if inst == "" {
			expanded = append(expanded, line)
			continue
		}

		tokens := instTokens(inst)

		if len(tokens) == 0 {
			expanded = append(expanded, line)
			continue
		}

		rule, ok := registry.Lookup(tokens[0])

		if !ok {
			expanded = append(expanded, line)
			continue
		}

		expansion, err := rule.Expand(inst, i)

		if err != nil {
			return nil, err
		}

		if len(expansion) == 0 {
			return nil, &EmptyExpansionError{
				Line:     i,
				Mnemonic: tokens[0],
			}
		}

		if labeled {
			expansion[0] = label + ": " + expansion[0]
		}

		expanded = append(expanded, expansion...)
	}

	return expanded, nil
}

// ParseLabels binds each label to the address of the next instruction and
// strips label declarations from the program text. Instruction addresses
// start at MEMSPACE_TEXT and advance one word at a time.
func ParseLabels(lines []string) ([]string, *LabelTable, error) {
	insts := make([]string, 0, len(lines))

	labels := &LabelTable{
		Addrs: make(map[string]uint32),
	}

	addr := MEMSPACE_TEXT

	for i, line := range lines {
		if !strings.Contains(line, ":") {
			insts = append(insts, line)
			addr += INSTRUCTION_BYTES
			continue
		}

		pieces := strings.SplitN(line, ":", 2)
		label := strings.TrimSpace(pieces[0])

		if len(strings.Fields(label)) > 1 {
			return nil, nil, &BadLabelError{
				Line:   i,
				Label:  label,
				Reason: "contains whitespace",
			}
		}

		if _, exists := labels.Addrs[label]; exists {
			return nil, nil, &BadLabelError{
				Line:   i,
				Label:  label,
				Reason: "redeclared",
			}
		}

		labels.Addrs[label] = addr
		labels.Order = append(labels.Order, label)

		if rest := strings.TrimSpace(pieces[1]); rest != "" {
			insts = append(insts, rest)
			addr += INSTRUCTION_BYTES
		}
	}

	return insts, labels, nil
}

// AssembleLines runs the assembly pipeline over program text: source
// cleaning, pseudo-instruction expansion, label collection, and
// instruction encoding. Assembly stops at the first error and returns no
// partial program.
func AssembleLines(
	lines []string,
	registry PseudoRegistry,
) (*Program, error) {
	cleaned := CleanSource(lines)

	expanded, err := ExpandPseudos(cleaned, registry)

	if err != nil {
		return nil, err
	}

	insts, labels, err := ParseLabels(expanded)

	if err != nil {
		return nil, err
	}

	words := make([]string, 0, len(insts))

	for i, inst := range insts {
		word, err := Assemble(inst, i, labels.Addrs)

		if err != nil {
			return nil, err
		}

		words = append(words, word)
	}

	return &Program{
		Words:        words,
		Instructions: insts,
		Labels:       labels,
	}, nil
}

// AssembleRV32Source assembles a complete program read from input.
func AssembleRV32Source(
	input io.Reader,
	registry PseudoRegistry,
) (*Program, error) {
	scanner := bufio.NewScanner(input)

	lines := []string{}

	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return AssembleLines(lines, registry)
}
