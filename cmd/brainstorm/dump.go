// This file is part of brainstorm - https://github.com/pedrofgodinho/brainstorm
//
// Copyright 2024 The brainstorm Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/pedrofgodinho/brainstorm/internal/bsi"
	"github.com/pedrofgodinho/brainstorm/vm"
)

func red(s string) string    { return "\x1b[31m" + s + "\x1b[0m" }
func green(s string) string  { return "\x1b[32m" + s + "\x1b[0m" }
func yellow(s string) string { return "\x1b[33m" + s + "\x1b[0m" }
func blue(s string) string   { return "\x1b[1;34m" + s + "\x1b[0m" }
func dimmed(s string) string { return "\x1b[2m" + s + "\x1b[0m" }

// styleInstr picks the display style for one instruction of the program
// dump: green at the program counter, underlined red on a breakpoint,
// underlined green for both at once.
func styleInstr(i *vm.Instance, pc int, s string) string {
	switch {
	case pc == i.PC() && i.IsBreakpoint(pc):
		return "\x1b[4;32m" + s + "\x1b[0m"
	case pc == i.PC():
		return green(s)
	case i.IsBreakpoint(pc):
		return "\x1b[4;31m" + s + "\x1b[0m"
	}
	return s
}

func hexdumpLine(w io.Writer, i *vm.Instance, start, width int) {
	tape := i.Tape()
	fmt.Fprintf(w, " %s  ", yellow(fmt.Sprintf("%#0*x", width, start)))
	for k := 0; k < 16; k++ {
		if k == 8 {
			fmt.Fprint(w, " ")
		}
		if start+k < len(tape) {
			c := fmt.Sprintf("%02X", tape[start+k])
			if start+k == i.Ptr() {
				c = green(c)
			}
			fmt.Fprintf(w, "%s ", c)
		} else {
			fmt.Fprint(w, "   ")
		}
	}
	fmt.Fprint(w, "   ")
	for k := 0; k < 16 && start+k < len(tape); k++ {
		if k == 8 {
			fmt.Fprint(w, " ")
		}
		c := tape[start+k]
		s := "·"
		if c >= 32 && c <= 176 {
			s = string(rune(c))
		}
		if start+k == i.Ptr() {
			s = green(s)
		}
		fmt.Fprintf(w, "%s ", s)
	}
	fmt.Fprintln(w)
}

// dumpTape writes a hexdump of the tape, eliding runs of all-zero lines
// after the first one.
func dumpTape(w io.Writer, i *vm.Instance) error {
	ew, _ := w.(*bsi.ErrWriter)
	if ew == nil {
		ew = bsi.NewErrWriter(w)
	}
	tape := i.Tape()
	width := len(fmt.Sprintf("%#x", len(tape)))

	allZero := func(start int) bool {
		end := start + 16
		if end > len(tape) {
			end = len(tape)
		}
		for _, c := range tape[start:end] {
			if c != 0 {
				return false
			}
		}
		return true
	}

	firstZeroes, ellipsis := false, false
	for start := 0; start < len(tape); start += 16 {
		if allZero(start) {
			if !firstZeroes {
				hexdumpLine(ew, i, start, width)
				firstZeroes = true
			} else if !ellipsis {
				fmt.Fprintf(ew, "%*s   ....\n", width, "")
				ellipsis = true
			}
			continue
		}
		firstZeroes, ellipsis = false, false
		hexdumpLine(ew, i, start, width)
	}
	return ew.Err
}

// dumpProgram renders the whole program grouped by unit, with loop bodies
// indented and jump targets annotated. It returns the rendering and the
// index of the line holding the current instruction.
func dumpProgram(i *vm.Instance) (string, int) {
	var b strings.Builder
	p := i.Program()
	width := len(fmt.Sprintf("%#x", len(p.Code)-1))
	line, pcLine, indent := 0, 0, 0

	for _, u := range p.Units {
		fmt.Fprintf(&b, "%s  %s", yellow(fmt.Sprintf("%#0*x", width, u.Start)), yellow(u.Label))
		newLine, count := true, 0
		for pc := u.Start; pc < u.End; pc++ {
			in := p.Code[pc]
			switch in.Op {
			case vm.OpJnz:
				indent -= 2
				newLine = true
			case vm.OpJz:
				newLine = true
			}
			if newLine || count >= 5 {
				b.WriteByte('\n')
				line++
				fmt.Fprintf(&b, "%s    %s", dimmed(fmt.Sprintf("%#0*x", width, pc)), strings.Repeat(" ", indent))
				newLine, count = false, 0
			}
			if pc == i.PC() {
				pcLine = line
			}
			b.WriteString(styleInstr(i, pc, in.String()))
			b.WriteByte(' ')
			switch in.Op {
			case vm.OpJz:
				indent += 2
				newLine = true
				fmt.Fprintf(&b, " %s %s", dimmed("->"), dimmed(fmt.Sprintf("%#x", in.Arg)))
			case vm.OpJnz:
				newLine = true
				fmt.Fprintf(&b, " %s %s", dimmed("->"), dimmed(fmt.Sprintf("%#x", in.Arg)))
			}
			count++
		}
		b.WriteByte('\n')
		line++
	}
	return b.String(), pcLine
}

// dumpSection writes the listing lines surrounding the current instruction.
func dumpSection(w io.Writer, i *vm.Instance, before, after int) {
	dump, pcLine := dumpProgram(i)
	skip := pcLine - before
	if skip < 0 {
		skip = 0
	}
	lines := strings.Split(strings.TrimRight(dump, "\n"), "\n")
	for n := skip; n < len(lines) && n < skip+before+1+after; n++ {
		fmt.Fprintln(w, lines[n])
	}
}

// printState renders the full machine context: tape hexdump, the program
// section around the current instruction, and the registers.
func printState(w io.Writer, i *vm.Instance) error {
	ew, _ := w.(*bsi.ErrWriter)
	if ew == nil {
		ew = bsi.NewErrWriter(w)
	}

	fmt.Fprintln(ew, red("============================================= CTX ============================================="))

	fmt.Fprintln(ew, blue("Tape:"))
	dumpTape(ew, i)
	fmt.Fprintln(ew)

	fmt.Fprintln(ew, blue("Program:"))
	dumpSection(ew, i, 5, 5)

	fmt.Fprintln(ew)
	fmt.Fprintln(ew, blue("Registers:"))
	fmt.Fprintf(ew, "%s: %#x\n", yellow("PC"), i.PC())
	fmt.Fprintf(ew, "%s: %#x\n", yellow("TP"), i.Ptr())
	fmt.Fprintf(ew, "%s: %s\n", yellow("Current Unit"), i.Unit().Label)

	fmt.Fprintln(ew, red("=========================================== END CTX ==========================================="))
	return ew.Err
}
