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
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/xyproto/env/v2"

	"github.com/lassandro/gorv32/pkg/assembler"
	"github.com/lassandro/gorv32/pkg/pseudo"
	"github.com/lassandro/gorv32/pkg/report"
)

var helpvar bool
var verbosevar bool
var modevar string
var outvar string
var pseudovar string
var luavar string

const usage = "gorv32-asm [-mode bin|hex|verbose] [-out outfile] " +
	"[-pseudos deffile] [-lua script] filename"

func init() {
	log.SetFlags(0)
	log.SetOutput(os.Stderr)
}

func init() {
	flag.BoolVar(&helpvar, "help", false, "Displays command usage")
	flag.BoolVar(
		&verbosevar, "verbose", false,
		"Lists each word with its hex value, address, label, and source "+
			"line, overriding -mode",
	)
	flag.StringVar(
		&modevar, "mode", env.Str("GORV32_MODE", "bin"),
		"Selects the listing format: bin, hex, or verbose. Defaults to "+
			"the GORV32_MODE environment variable when set",
	)
	flag.StringVar(
		&outvar, "out", "",
		"Writes the listing to the named file instead of stdout",
	)
	flag.StringVar(
		&pseudovar, "pseudos", "",
		"Loads pseudo-instruction expansions from a definition file",
	)
	flag.StringVar(
		&luavar, "lua", "",
		"Loads pseudo-instruction expansions from a Lua script",
	)
	flag.Parse()
}

func prefix(name string) string {
	if env.Bool("NO_COLOR") {
		return name + ":"
	}

	return fmt.Sprintf("\033[1m%s:\033[0m", name)
}

func gorv32_asm() int {
	if helpvar {
		fmt.Println(usage)
		flag.PrintDefaults()
		return 0
	}

	args := flag.Args()

	var input io.Reader

	if stat, _ := os.Stdin.Stat(); stat.Mode()&os.ModeCharDevice == 0 {
		input = os.Stdin
		log.SetPrefix(prefix("<stdin>"))
	} else {
		if len(args) != 1 {
			log.Println(usage)
			return 1
		}

		file, err := os.Open(args[0])

		if err != nil {
			log.Println(err)
			return 1
		}

		defer file.Close()

		filename := filepath.Base(file.Name())

		if stat, err := file.Stat(); err != nil {
			log.Println(err)
			return 1
		} else {
			if stat.IsDir() {
				log.Printf("%s is not a valid RV32 assembly file", filename)
				return 1
			}
		}

		input = file
		log.SetPrefix(prefix(filename))
	}

	mode, ok := report.ParseMode(modevar)

	if !ok {
		log.Printf("Unknown mode '%s'", modevar)
		return 1
	}

	if verbosevar {
		mode = report.MODE_VERBOSE
	}

	if pseudovar != "" && luavar != "" {
		log.Println("-pseudos and -lua are mutually exclusive")
		return 1
	}

	var registry assembler.PseudoRegistry

	if pseudovar != "" {
		file, err := os.Open(pseudovar)

		if err != nil {
			log.Println(err)
			return 1
		}

		table, err := pseudo.LoadDefinitions(file)
		file.Close()

		if err != nil {
			log.SetPrefix(prefix(filepath.Base(pseudovar)))
			log.Println(err)
			return 1
		}

		defer table.Close()
		registry = table
	}

	if luavar != "" {
		table, err := pseudo.LoadLuaRules(luavar)

		if err != nil {
			log.Println(err)
			return 1
		}

		defer table.Close()
		registry = table
	}

	prog, err := assembler.AssembleRV32Source(input, registry)

	if err != nil {
		log.Println(err)
		return 1
	}

	var output io.Writer = os.Stdout

	if outvar != "" {
		file, err := os.Create(outvar)

		if err != nil {
			log.Println(err)
			return 1
		}

		defer file.Close()

		output = file
	}

	if err := report.Write(output, prog, mode); err != nil {
		log.Println("Error writing listing")
		log.Println(err)
		return 1
	}

	return 0
}

func main() {
	os.Exit(gorv32_asm())
}
