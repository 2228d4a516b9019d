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

package vm

import "strconv"

// Op identifies a tape machine instruction.
type Op uint8

// Tape machine instruction set.
const (
	OpEnd Op = iota // terminal marker, executing it halts the program
	OpInc           // add Arg to the current cell, modulo 256
	OpMove          // shift the pointer by Arg cells
	OpJz            // jump to Arg if the current cell is zero
	OpJnz           // jump to Arg if the current cell is not zero
	OpIn            // read one byte of input into the current cell
	OpOut           // write the current cell to output
	OpSnap          // request a state snapshot, no tape or pointer effect
)

// Instr is a single compiled instruction. The meaning of Arg depends on Op:
// an increment amount in [0, 255] for OpInc, a signed cell offset for OpMove,
// a jump target for OpJz and OpJnz, and unused otherwise.
type Instr struct {
	Op  Op
	Arg int
}

// String renders an instruction in source-like form: increments as +n or -n
// with n read as a signed byte, moves as >n or <n, and the remaining ops as
// their source character.
func (in Instr) String() string {
	switch in.Op {
	case OpInc:
		if v := int8(in.Arg); v > 0 {
			return "+" + strconv.Itoa(int(v))
		} else {
			return "-" + strconv.Itoa(-int(v))
		}
	case OpMove:
		if in.Arg > 0 {
			return ">" + strconv.Itoa(in.Arg)
		}
		return "<" + strconv.Itoa(-in.Arg)
	case OpJz:
		return "["
	case OpJnz:
		return "]"
	case OpIn:
		return ","
	case OpOut:
		return "."
	case OpSnap:
		return "#"
	case OpEnd:
		return "end"
	}
	return "?" + strconv.Itoa(int(in.Op))
}

// Unit is a named, contiguous half-open range [Start, End) of instruction
// indices. Units are used for coarse-grained stepping and display grouping.
type Unit struct {
	Label      string
	Start, End int
}

// Contains reports whether instruction index pc falls within the unit.
func (u *Unit) Contains(pc int) bool {
	return u.Start <= pc && pc < u.End
}

// Program is a compiled instruction stream plus its unit table. Programs are
// built once by the compiler and read-only thereafter: the units partition
// [0, len(Code)) in increasing order with no gaps or overlaps, the stream
// ends with exactly one OpEnd, and every jump target is a valid index.
type Program struct {
	Code  []Instr
	Units []Unit
}
