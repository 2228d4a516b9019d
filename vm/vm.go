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

import (
	"io"
	"sort"

	"github.com/pkg/errors"
)

const defaultTapeSize = 64 * 1024

// Instance represents a tape machine instance. An Instance is owned by a
// single goroutine for its whole lifetime; none of its methods are safe for
// concurrent use.
type Instance struct {
	prog        *Program
	tape        []byte
	pc          int
	ptr         int
	unit        int
	breakpoints map[int]struct{}
	input       io.Reader
	output      io.Writer
	eof         EOFPolicy
	snapH       SnapshotHandler
	insCount    int64
}

// Option interface
type Option func(*Instance) error

// TapeSize sets the number of cells on the tape. The tape is zero-filled and
// its length is fixed for the lifetime of the instance. The default is 64K
// cells.
func TapeSize(size int) Option {
	return func(i *Instance) error {
		if size <= 0 {
			return errors.Errorf("invalid tape size %d", size)
		}
		i.tape = make([]byte, size)
		return nil
	}
}

// Input sets the byte source read by input instructions. A nil reader (the
// default) behaves like an exhausted source: every input instruction applies
// the configured end-of-input policy.
func Input(r io.Reader) Option {
	return func(i *Instance) error { i.input = r; return nil }
}

// Output sets the sink written by output instructions. If the writer has a
// Flush method it is flushed after every written byte, so external observers
// see output incrementally. A nil writer discards output.
func Output(w io.Writer) Option {
	return func(i *Instance) error { i.output = w; return nil }
}

// OnEOF sets the end-of-input policy applied to the current cell when an
// input instruction finds the input source exhausted. The default is
// EOFDontSet.
func OnEOF(p EOFPolicy) Option {
	return func(i *Instance) error {
		switch p {
		case EOFDontSet, EOFSetZero, EOFSetMinusOne:
			i.eof = p
			return nil
		}
		return errors.Errorf("invalid end-of-input policy %d", int(p))
	}
}

// SnapshotHandler is the function prototype for snapshot handlers.
type SnapshotHandler func(i *Instance) error

// BindSnapshotHandler binds the provided handler to snapshot instructions.
// The handler runs with the instance state exactly as it was when the
// instruction was reached; it must not mutate the instance. With no handler
// bound, snapshot instructions are no-ops.
func BindSnapshotHandler(h SnapshotHandler) Option {
	return func(i *Instance) error { i.snapH = h; return nil }
}

// SetOptions sets the provided options.
func (i *Instance) SetOptions(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(i); err != nil {
			return err
		}
	}
	return nil
}

// New creates a new tape machine instance executing the given program.
//
// The program must come out of the compiler untouched: the engine relies on
// its units partitioning the instruction stream and on jump targets being
// in-bounds. Options will be set by calling SetOptions.
func New(p *Program, opts ...Option) (*Instance, error) {
	if p == nil || len(p.Code) == 0 || len(p.Units) == 0 {
		return nil, errors.New("empty or incomplete program")
	}
	i := &Instance{
		prog:        p,
		breakpoints: make(map[int]struct{}),
	}
	if err := i.SetOptions(opts...); err != nil {
		return nil, err
	}
	if i.tape == nil {
		i.tape = make([]byte, defaultTapeSize)
	}
	return i, nil
}

// Program returns the program being executed.
func (i *Instance) Program() *Program {
	return i.prog
}

// Tape returns the tape. Cell changes will be reflected in the instance's
// tape, but re-slicing will not affect it.
func (i *Instance) Tape() []byte {
	return i.tape
}

// PC returns the program counter, the index of the next instruction to
// execute.
func (i *Instance) PC() int {
	return i.pc
}

// Ptr returns the tape pointer, the index of the current cell.
func (i *Instance) Ptr() int {
	return i.ptr
}

// UnitIndex returns the index of the unit containing the program counter.
func (i *Instance) UnitIndex() int {
	return i.unit
}

// Unit returns the unit containing the program counter.
func (i *Instance) Unit() Unit {
	return i.prog.Units[i.unit]
}

// InstructionCount returns the number of instructions executed so far.
func (i *Instance) InstructionCount() int64 {
	return i.insCount
}

// AddBreakpoint adds a breakpoint at the given instruction index.
// Breakpoints are consulted only by Continue, never by Step or StepUnit.
func (i *Instance) AddBreakpoint(pos int) {
	i.breakpoints[pos] = struct{}{}
}

// ClearBreakpoint removes the breakpoint at the given instruction index and
// reports whether one was present.
func (i *Instance) ClearBreakpoint(pos int) bool {
	if _, ok := i.breakpoints[pos]; !ok {
		return false
	}
	delete(i.breakpoints, pos)
	return true
}

// IsBreakpoint reports whether a breakpoint is set at the given instruction
// index.
func (i *Instance) IsBreakpoint(pos int) bool {
	_, ok := i.breakpoints[pos]
	return ok
}

// Breakpoints returns the breakpoint set as a sorted slice.
func (i *Instance) Breakpoints() []int {
	b := make([]int, 0, len(i.breakpoints))
	for pos := range i.breakpoints {
		b = append(b, pos)
	}
	sort.Ints(b)
	return b
}
