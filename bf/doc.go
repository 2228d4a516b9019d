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

// Package bf compiles brainfuck source text into programs for the
// brainstorm tape machine (package vm).
//
// # Source language
//
// Eight characters are meaningful, everything else is comment text:
//
//	+	add one to the current cell, modulo 256
//	-	subtract one from the current cell, modulo 256
//	>	move the pointer one cell right
//	<	move the pointer one cell left
//	.	write the current cell as one byte of output
//	,	read one byte of input into the current cell
//	[	jump past the matching ] if the current cell is zero
//	]	jump back to the matching [ if the current cell is not zero
//	#	dump the machine state (only when compiled with snapshots on)
//
// In addition, a line whose first non-blank character is ';' declares a unit
// boundary: the rest of the line names the span of instructions between this
// boundary and the next. Units drive coarse-grained stepping in the
// debugger. A program with no ';' lines compiles to a single unit covering
// the whole instruction stream.
//
// # Compilation
//
// Runs of +/- and of >/< fold into single increment and move instructions
// carrying the net amount; a run with no net effect emits nothing at all.
// Brackets compile into conditional jumps with targets resolved at the
// closing bracket, and the stream is terminated by a single end marker, so
// the machine never scans for matches at run time.
package bf
