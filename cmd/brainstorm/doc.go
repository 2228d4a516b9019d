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

// The brainstorm command line tool compiles and runs brainfuck programs on
// the tape machine implemented by github.com/pedrofgodinho/brainstorm/vm,
// either to completion or under an interactive debugger.
//
// Usage:
//
//	brainstorm [flags] program-file
//
//	-debug
//		  run the program under the interactive debugger
//	-disasm
//		  print the compiled program and exit
//	-eof policy
//		  end-of-input policy: dont-set, set-zero or set-minus-one
//		  (default dont-set)
//	-noraw
//		  disable raw terminal IO
//	-print-debug
//		  compile '#' characters into state dump instructions
//	-tape-size cells
//		  tape size in cells (default 65536)
//
// -debug: starts the interactive debugger instead of running the program
// directly. The debugger steps by instruction (ni), by unit (n), or to the
// next breakpoint (c); type help at the prompt for the full command list.
// Unit boundaries are declared in the source with ';' comment lines, which
// also name the unit in the context display.
//
// -eof: what an input instruction does to the current cell once program
// input is exhausted. With dont-set the cell keeps its previous value, the
// other two policies store 0 or 255 respectively.
//
// -print-debug: by default '#' characters in the source are ignored like
// any other comment character. With this flag they compile into
// instructions that dump the full machine context to stdout when executed.
//
// -noraw: upon startup, brainstorm switches the terminal to raw mode so
// that input instructions see single key presses. This flag disables that
// behavior and reads buffered lines instead; it is implied by -debug, where
// the shell owns the terminal.
package main
