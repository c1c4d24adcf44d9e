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

package disasm

import (
	"fmt"

	"github.com/lassandro/gorv32/pkg/assembler"
	"github.com/lassandro/gorv32/pkg/encoding"
)

// Instruction is a decoded 32-bit word. Register fields outside the
// instruction's format carry no meaning.
type Instruction struct {
	Mnemonic string
	Format   assembler.FormatType
	Rd       uint8
	Rs1      uint8
	Rs2      uint8
	Imm      int32
}

type UnknownWordError struct {
	Word uint32
}

func (err *UnknownWordError) Error() string {
	return fmt.Sprintf("Unknown instruction word 0x%08x", err.Word)
}

// ABI names, keyed by register id
var registerName = [32]string{
	"zero", "ra", "sp", "gp", "tp", "t0", "t1", "t2",
	"s0", "s1", "a0", "a1", "a2", "a3", "a4", "a5",
	"a6", "a7", "s2", "s3", "s4", "s5", "s6", "s7",
	"s8", "s9", "s10", "s11", "t3", "t4", "t5", "t6",
}

var rTypeNames = map[uint32]string{
	0b0000000<<3 | 0b000: "add",
	0b0100000<<3 | 0b000: "sub",
	0b0000000<<3 | 0b100: "xor",
	0b0000000<<3 | 0b110: "or",
	0b0000000<<3 | 0b111: "and",
	0b0000000<<3 | 0b001: "sll",
	0b0000000<<3 | 0b101: "srl",
	0b0100000<<3 | 0b101: "sra",
	0b0000000<<3 | 0b010: "slt",
}

var branchNames = map[uint32]string{
	0b000: "beq",
	0b001: "bne",
	0b100: "blt",
	0b101: "bge",
}

func signExtend(value uint32, bits uint) int32 {
	return int32(value<<(32-bits)) >> (32 - bits)
}

// Decode recovers the instruction encoded in a 32-bit word.
func Decode(word uint32) (*Instruction, error) {
	opcode := word & 0x7F
	funct3 := (word >> 12) & 0x7
	funct7 := (word >> 25) & 0x7F

	inst := &Instruction{
		Rd:  uint8((word >> 7) & 0x1F),
		Rs1: uint8((word >> 15) & 0x1F),
		Rs2: uint8((word >> 20) & 0x1F),
	}

	switch opcode {
	case 0b0110011:
		name, ok := rTypeNames[funct7<<3|funct3]

		if !ok {
			return nil, &UnknownWordError{Word: word}
		}

		inst.Mnemonic = name
		inst.Format = assembler.FORMAT_R

	case 0b0010011:
		inst.Format = assembler.FORMAT_I
		inst.Imm = signExtend(word>>20, 12)

		switch funct3 {
		case 0b000:
			inst.Mnemonic = "addi"

		case 0b100:
			inst.Mnemonic = "xori"

		case 0b110:
			inst.Mnemonic = "ori"

		case 0b111:
			inst.Mnemonic = "andi"

		case 0b001:
			if funct7 != 0b0000000 {
				return nil, &UnknownWordError{Word: word}
			}

			inst.Mnemonic = "slli"
			inst.Imm = int32((word >> 20) & 0x1F)

		case 0b101:
			switch funct7 {
			case 0b0000000:
				inst.Mnemonic = "srli"
			case 0b0100000:
				inst.Mnemonic = "srai"
			default:
				return nil, &UnknownWordError{Word: word}
			}

			inst.Imm = int32((word >> 20) & 0x1F)

		default:
			return nil, &UnknownWordError{Word: word}
		}

	case 0b0000011:
		if funct3 != 0b010 {
			return nil, &UnknownWordError{Word: word}
		}

		inst.Mnemonic = "lw"
		inst.Format = assembler.FORMAT_I
		inst.Imm = signExtend(word>>20, 12)

	case 0b1100111:
		if funct3 != 0b000 {
			return nil, &UnknownWordError{Word: word}
		}

		inst.Mnemonic = "jalr"
		inst.Format = assembler.FORMAT_I
		inst.Imm = signExtend(word>>20, 12)

	case 0b0100011:
		if funct3 != 0b010 {
			return nil, &UnknownWordError{Word: word}
		}

		inst.Mnemonic = "sw"
		inst.Format = assembler.FORMAT_S
		inst.Imm = signExtend((word>>25)<<5|(word>>7)&0x1F, 12)

	case 0b1100011:
		name, ok := branchNames[funct3]

		if !ok {
			return nil, &UnknownWordError{Word: word}
		}

		offset := (word >> 31 << 12) |
			((word >> 7 & 0x1) << 11) |
			((word >> 25 & 0x3F) << 5) |
			((word >> 8 & 0xF) << 1)

		inst.Mnemonic = name
		inst.Format = assembler.FORMAT_SB
		inst.Imm = signExtend(offset, 13)

	case 0b0110111:
		inst.Mnemonic = "lui"
		inst.Format = assembler.FORMAT_U
		inst.Imm = int32(word) >> 12

	case 0b1101111:
		offset := (word >> 31 << 20) |
			((word >> 12 & 0xFF) << 12) |
			((word >> 20 & 0x1) << 11) |
			((word >> 21 & 0x3FF) << 1)

		inst.Mnemonic = "jal"
		inst.Format = assembler.FORMAT_UJ
		inst.Imm = signExtend(offset, 21)

	default:
		return nil, &UnknownWordError{Word: word}
	}

	return inst, nil
}

// DecodeBits decodes a binary word string, grouped or plain.
func DecodeBits(s string) (*Instruction, error) {
	word, err := encoding.DecodeWord(s)

	if err != nil {
		return nil, err
	}

	return Decode(word)
}

// DecodeHex decodes a hex word string, with or without a 0x prefix.
func DecodeHex(s string) (*Instruction, error) {
	bits, err := encoding.HexToBin(s)

	if err != nil {
		return nil, err
	}

	return DecodeBits(bits)
}

// String renders the instruction in assembly source form.
func (inst *Instruction) String() string {
	switch inst.Format {
	case assembler.FORMAT_R:
		return fmt.Sprintf(
			"%s %s, %s, %s",
			inst.Mnemonic,
			registerName[inst.Rd],
			registerName[inst.Rs1],
			registerName[inst.Rs2],
		)

	case assembler.FORMAT_I:
		if inst.Mnemonic == "lw" || inst.Mnemonic == "jalr" {
			return fmt.Sprintf(
				"%s %s, %d(%s)",
				inst.Mnemonic,
				registerName[inst.Rd],
				inst.Imm,
				registerName[inst.Rs1],
			)
		}

		return fmt.Sprintf(
			"%s %s, %s, %d",
			inst.Mnemonic,
			registerName[inst.Rd],
			registerName[inst.Rs1],
			inst.Imm,
		)

	case assembler.FORMAT_S:
		return fmt.Sprintf(
			"%s %s, %d(%s)",
			inst.Mnemonic,
			registerName[inst.Rs2],
			inst.Imm,
			registerName[inst.Rs1],
		)

	case assembler.FORMAT_SB:
		return fmt.Sprintf(
			"%s %s, %s, %d",
			inst.Mnemonic,
			registerName[inst.Rs1],
			registerName[inst.Rs2],
			inst.Imm,
		)

	case assembler.FORMAT_U, assembler.FORMAT_UJ:
		return fmt.Sprintf(
			"%s %s, %d",
			inst.Mnemonic,
			registerName[inst.Rd],
			inst.Imm,
		)
	}

	return inst.Mnemonic
}
