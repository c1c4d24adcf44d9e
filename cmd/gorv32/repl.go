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

package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/lassandro/gorv32/pkg/assembler"
	"github.com/lassandro/gorv32/pkg/disasm"
	"github.com/lassandro/gorv32/pkg/encoding"
)

const replHelp = `any instruction line assembles to its binary and hex words
decode   [word]      Decodes a binary or hex instruction word
register [name]      Shows a register's id and bit field
format   [mnemonic]  Shows an instruction's format and field data
clear                Clears the screen
help                 Shows this message
quit                 Exits the session`

func replDecode(w io.Writer, args []string) {
	const usage = "decode [word]"

	if len(args) == 0 {
		fmt.Fprintln(w, usage)
		return
	}

	token := strings.ReplaceAll(strings.Join(args, ""), " ", "")

	var inst *disasm.Instruction
	var err error

	if len(token) == encoding.WORD_BITS {
		inst, err = disasm.DecodeBits(token)
	} else {
		inst, err = disasm.DecodeHex(token)
	}

	if err != nil {
		fmt.Fprintf(w, "error: %v\n", err)
		return
	}

	fmt.Fprintln(w, inst)
}

func replRegister(w io.Writer, args []string) {
	const usage = "register [name]"

	if len(args) != 1 {
		fmt.Fprintln(w, usage)
		return
	}

	id, ok := assembler.RegisterID(args[0])

	if !ok {
		fmt.Fprintf(w, "error: '%s' is not a valid register\n", args[0])
		return
	}

	fmt.Fprintf(
		w,
		"x%d (%s)\n",
		id,
		encoding.UintToBin(uint64(id), assembler.FIELD_REGISTER),
	)
}

func replFormat(w io.Writer, args []string) {
	const usage = "format [mnemonic]"

	if len(args) != 1 {
		fmt.Fprintln(w, usage)
		return
	}

	format, fields, ok := assembler.InstructionFormat(args[0])

	if !ok {
		fmt.Fprintf(w, "error: '%s' is not a valid instruction\n", args[0])
		return
	}

	line := fmt.Sprintf("%s-type opcode:%s", format, fields.Opcode)

	if fields.Funct3 != "" {
		line += " funct3:" + fields.Funct3
	}

	if fields.Funct7 != "" {
		line += " funct7:" + fields.Funct7
	}

	fmt.Fprintln(w, line)
}

func replAssemble(w io.Writer, line string) {
	prog, err := assembler.AssembleLines([]string{line}, nil)

	if err != nil {
		fmt.Fprintf(w, "error: %v\n", err)
		return
	}

	for _, word := range prog.Words {
		hex, err := encoding.BinToHex(word)

		if err != nil {
			fmt.Fprintf(w, "error: %v\n", err)
			return
		}

		fmt.Fprintf(w, "%s // 0x%s\n", word, hex)
	}
}

func replCommand(w io.Writer, line string) bool {
	args := strings.Fields(line)

	if len(args) == 0 {
		return false
	}

	cmd := args[0]

	switch cmd {
	case "q", "quit", "exit":
		return true

	case "h", "help":
		fmt.Fprintln(w, replHelp)

	case "clear":
		fmt.Fprint(w, "\033[H\033[2J")

	case "d", "dis", "decode":
		replDecode(w, args[1:])

	case "r", "reg", "register":
		replRegister(w, args[1:])

	case "f", "fmt", "format":
		replFormat(w, args[1:])

	default:
		replAssemble(w, line)
	}

	return false
}

func termREPL(t *term.Terminal) int {
	for {
		line, err := t.ReadLine()

		if err != nil {
			if err != io.EOF {
				log.Println(err)
				return 1
			}

			return 0
		}

		if replCommand(t, line) {
			return 0
		}
	}
}

func pipeREPL() int {
	scanner := bufio.NewScanner(os.Stdin)

	for scanner.Scan() {
		if replCommand(os.Stdout, scanner.Text()) {
			return 0
		}
	}

	if err := scanner.Err(); err != nil {
		log.Println(err)
		return 1
	}

	return 0
}
