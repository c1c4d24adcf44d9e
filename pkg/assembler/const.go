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

const (
	FORMAT_INVALID FormatType = iota
	FORMAT_R
	FORMAT_I
	FORMAT_S
	FORMAT_SB
	FORMAT_U
	FORMAT_UJ
)

const (
	FIELD_REGISTER = 5
	FIELD_IMM12    = 12
	FIELD_IMM20    = 20
)

const (
	// Text segment base address; the first instruction word lives here
	MEMSPACE_TEXT uint32 = 0x00400000

	INSTRUCTION_BYTES uint32 = 4
)

var instFormats = map[string]FormatType{
	"add": FORMAT_R,
	"sub": FORMAT_R,
	"xor": FORMAT_R,
	"or":  FORMAT_R,
	"and": FORMAT_R,
	"sll": FORMAT_R,
	"srl": FORMAT_R,
	"sra": FORMAT_R,
	"slt": FORMAT_R,

	"addi": FORMAT_I,
	"xori": FORMAT_I,
	"ori":  FORMAT_I,
	"andi": FORMAT_I,
	"slli": FORMAT_I,
	"srli": FORMAT_I,
	"srai": FORMAT_I,
	"lw":   FORMAT_I,
	"jalr": FORMAT_I,

	"sw": FORMAT_S,

	"beq": FORMAT_SB,
	"bne": FORMAT_SB,
	"blt": FORMAT_SB,
	"bge": FORMAT_SB,

	"lui": FORMAT_U,

	"jal": FORMAT_UJ,
}

// Constant encoding fields per mnemonic; funct3/funct7 are empty where the
// format carries no such field
var instFields = map[string]FieldData{
	"add": {"0110011", "000", "0000000"},
	"sub": {"0110011", "000", "0100000"},
	"xor": {"0110011", "100", "0000000"},
	"or":  {"0110011", "110", "0000000"},
	"and": {"0110011", "111", "0000000"},
	"sll": {"0110011", "001", "0000000"},
	"srl": {"0110011", "101", "0000000"},
	"sra": {"0110011", "101", "0100000"},
	"slt": {"0110011", "010", "0000000"},

	"addi": {"0010011", "000", ""},
	"xori": {"0010011", "100", ""},
	"ori":  {"0010011", "110", ""},
	"andi": {"0010011", "111", ""},
	"slli": {"0010011", "001", ""},
	"srli": {"0010011", "101", ""},
	"srai": {"0010011", "101", ""},

	"lw":   {"0000011", "010", ""},
	"jalr": {"1100111", "000", ""},

	"sw": {"0100011", "010", ""},

	"beq": {"1100011", "000", ""},
	"bne": {"1100011", "001", ""},
	"blt": {"1100011", "100", ""},
	"bge": {"1100011", "101", ""},

	"lui": {"0110111", "", ""},

	"jal": {"1101111", "", ""},
}

var registerNames = map[string]uint8{
	"x0":  0,
	"x1":  1,
	"x2":  2,
	"x3":  3,
	"x4":  4,
	"x5":  5,
	"x6":  6,
	"x7":  7,
	"x8":  8,
	"x9":  9,
	"x10": 10,
	"x11": 11,
	"x12": 12,
	"x13": 13,
	"x14": 14,
	"x15": 15,
	"x16": 16,
	"x17": 17,
	"x18": 18,
	"x19": 19,
	"x20": 20,
	"x21": 21,
	"x22": 22,
	"x23": 23,
	"x24": 24,
	"x25": 25,
	"x26": 26,
	"x27": 27,
	"x28": 28,
	"x29": 29,
	"x30": 30,
	"x31": 31,

	"zero": 0,
	"ra":   1,
	"sp":   2,
	"gp":   3,
	"tp":   4,

	"t0": 5,
	"t1": 6,
	"t2": 7,

	"s0": 8,
	"fp": 8,
	"s1": 9,

	"a0": 10,
	"a1": 11,
	"a2": 12,
	"a3": 13,
	"a4": 14,
	"a5": 15,
	"a6": 16,
	"a7": 17,

	"s2":  18,
	"s3":  19,
	"s4":  20,
	"s5":  21,
	"s6":  22,
	"s7":  23,
	"s8":  24,
	"s9":  25,
	"s10": 26,
	"s11": 27,

	"t3": 28,
	"t4": 29,
	"t5": 30,
	"t6": 31,

	// Assembler temporary, kept as an x31 alias for older sources
	"at": 31,
}
