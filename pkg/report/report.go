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

package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/lassandro/gorv32/pkg/assembler"
	"github.com/lassandro/gorv32/pkg/encoding"
)

type Mode uint

const (
	MODE_VERBOSE Mode = iota
	MODE_BIN
	MODE_HEX
)

// ParseMode resolves a mode name given on the command line.
func ParseMode(name string) (Mode, bool) {
	switch name {
	case "verbose":
		return MODE_VERBOSE, true
	case "bin", "binary":
		return MODE_BIN, true
	case "hex":
		return MODE_HEX, true
	}

	return MODE_VERBOSE, false
}

// Write renders an assembled program one instruction per line. Verbose
// listings carry the word in binary and hex alongside the address, label,
// and source text; bin and hex listings lead with just the word in the
// matching base.
func Write(w io.Writer, prog *assembler.Program, mode Mode) error {
	labelAt := make(map[uint32]string)

	if prog.Labels != nil {
		for _, name := range prog.Labels.Order {
			labelAt[prog.Labels.Addrs[name]] = name
		}
	}

	for i, word := range prog.Words {
		addr := assembler.MEMSPACE_TEXT +
			assembler.INSTRUCTION_BYTES*uint32(i)

		label := ""

		if name, ok := labelAt[addr]; ok {
			label = name + ":"
		}

		source := strings.TrimRight(prog.Instructions[i], " \t")

		var err error

		switch mode {
		case MODE_HEX:
			var hex string

			hex, err = encoding.BinToHex(word)

			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(
				w, "%s // %#x - %s\t%s\n", hex, addr, label, source,
			)

		case MODE_BIN:
			_, err = fmt.Fprintf(
				w, "%s // %#x - %s\t%s\n", word, addr, label, source,
			)

		default:
			var hex string

			hex, err = encoding.BinToHex(word)

			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(
				w,
				"%s // 0x%s ;;; %#x - %s\t%s\n",
				word,
				hex,
				addr,
				label,
				source,
			)
		}

		if err != nil {
			return err
		}
	}

	return nil
}
