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

import "github.com/pkg/errors"

// Runtime errors. The engine never recovers from these internally: the
// stepping operation that hit one returns it and makes no further progress.
// ErrTapeOverrun and input errors leave the instance at the position it had
// just before the failing instruction; after ErrInvalidProgram the program
// counter is out of bounds and the instance must not be resumed.
var (
	ErrTapeOverrun    = errors.New("tried to move outside of tape")
	ErrInvalidProgram = errors.New("invalid program: program counter outside of the program")
)

// InputError reports a failed read from the input source, as opposed to
// ordinary end-of-input which is not an error.
type InputError struct {
	Err error
}

func (e *InputError) Error() string { return "failed to read input: " + e.Err.Error() }

// Cause returns the underlying read error.
func (e *InputError) Cause() error { return e.Err }

func (e *InputError) Unwrap() error { return e.Err }

// Step executes the single instruction at the program counter. It returns
// true if there is more program to execute and false once the program has
// halted. On error the instruction had no effect and the program counter is
// unchanged.
func (i *Instance) Step() (more bool, err error) {
	if i.pc < 0 || i.pc >= len(i.prog.Code) {
		return false, ErrInvalidProgram
	}
	in := i.prog.Code[i.pc]
	switch in.Op {
	case OpEnd:
		return false, nil
	case OpInc:
		i.tape[i.ptr] += byte(in.Arg)
	case OpMove:
		// Reject a candidate pointer off either end of the tape. The
		// negative check stands in for unsigned wraparound: an underflowed
		// pointer would land far beyond the tape length.
		p := i.ptr + in.Arg
		if p < 0 || p >= len(i.tape) {
			return false, ErrTapeOverrun
		}
		i.ptr = p
	case OpJz:
		if i.tape[i.ptr] == 0 {
			i.pc = in.Arg - 1
		}
	case OpJnz:
		if i.tape[i.ptr] != 0 {
			i.pc = in.Arg - 1
		}
	case OpOut:
		if err = i.writeOut(i.tape[i.ptr]); err != nil {
			return false, err
		}
	case OpIn:
		if err = i.readIn(); err != nil {
			return false, err
		}
	case OpSnap:
		if i.snapH != nil {
			if err = i.snapH(i); err != nil {
				return false, err
			}
		}
	}
	i.pc++
	i.insCount++

	// Resynchronize the current unit. Units partition the stream
	// contiguously, so scanning forward with wraparound always reaches the
	// containing unit, including after a backward jump that left the unit
	// index ahead of the program counter.
	for !i.prog.Units[i.unit].Contains(i.pc) {
		i.unit = (i.unit + 1) % len(i.prog.Units)
	}
	return true, nil
}

// StepUnit steps instructions until the current unit changes. It returns
// true if there is more program to execute and false once the program has
// halted. Jumps that stay inside the current unit do not count as leaving
// it.
func (i *Instance) StepUnit() (more bool, err error) {
	start := i.unit
	for {
		more, err = i.Step()
		if err != nil || !more {
			return false, err
		}
		if i.unit != start {
			return true, nil
		}
	}
}

// Run steps the program until it halts. A program that never reaches its end
// marker loops forever.
func (i *Instance) Run() error {
	for {
		more, err := i.Step()
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
}

// Continue steps the program until it halts or the program counter lands on
// a breakpoint. It returns true when paused at a breakpoint and false once
// the program has halted.
func (i *Instance) Continue() (paused bool, err error) {
	for {
		more, err := i.Step()
		if err != nil || !more {
			return false, err
		}
		if _, ok := i.breakpoints[i.pc]; ok {
			return true, nil
		}
	}
}
