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

	"github.com/pkg/errors"
)

// EOFPolicy selects what an input instruction does to the current cell when
// the input source is exhausted.
type EOFPolicy int

// End-of-input policies.
const (
	EOFDontSet     EOFPolicy = iota // leave the cell unmodified
	EOFSetZero                      // set the cell to 0
	EOFSetMinusOne                  // set the cell to 255
)

func (p EOFPolicy) String() string {
	switch p {
	case EOFSetZero:
		return "set-zero"
	case EOFSetMinusOne:
		return "set-minus-one"
	default:
		return "dont-set"
	}
}

// Set implements flag.Value so that an EOFPolicy can be used directly with
// flag.Var.
func (p *EOFPolicy) Set(s string) error {
	switch s {
	case "dont-set":
		*p = EOFDontSet
	case "set-zero":
		*p = EOFSetZero
	case "set-minus-one":
		*p = EOFSetMinusOne
	default:
		return errors.Errorf("unknown end-of-input policy %q", s)
	}
	return nil
}

// Get implements flag.Getter.
func (p *EOFPolicy) Get() interface{} { return *p }

type flusher interface {
	Flush() error
}

// writeOut writes one byte to the output sink and flushes it so that output
// is observable across instruction boundaries.
func (i *Instance) writeOut(c byte) error {
	if i.output == nil {
		return nil
	}
	if _, err := i.output.Write([]byte{c}); err != nil {
		return errors.Wrap(err, "output write failed")
	}
	if f, ok := i.output.(flusher); ok {
		if err := f.Flush(); err != nil {
			return errors.Wrap(err, "output flush failed")
		}
	}
	return nil
}

// readIn reads one byte from the input source into the current cell. A
// single leading carriage return is discarded and one more byte is read in
// its place; this happens at most once per call, so a source emitting \r\r\n
// passes the second \r through as data. On end-of-input the configured
// policy is applied to the cell.
func (i *Instance) readIn() error {
	if i.input == nil {
		i.setEOFCell()
		return nil
	}
	var b [1]byte
	n, err := i.input.Read(b[:])
	if n == 1 && b[0] == '\r' {
		n, err = i.input.Read(b[:])
	}
	switch {
	case n > 0:
		i.tape[i.ptr] = b[0]
	case err == nil || err == io.EOF:
		i.setEOFCell()
	default:
		return &InputError{err}
	}
	return nil
}

func (i *Instance) setEOFCell() {
	switch i.eof {
	case EOFSetZero:
		i.tape[i.ptr] = 0
	case EOFSetMinusOne:
		i.tape[i.ptr] = 255
	}
}
