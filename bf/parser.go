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

package bf

import (
	"strings"

	"github.com/pedrofgodinho/brainstorm/vm"
)

// Labels given to units the source did not name.
const (
	preambleLabel = "(preamble)"
	programLabel  = "(program)"
)

type parser struct {
	code      []vm.Instr
	units     []vm.Unit
	open      []int    // emission positions of pending [
	pend      vm.Instr // run-length folding accumulator
	hasPend   bool
	snapshots bool
}

func newParser(snapshots bool) *parser {
	return &parser{snapshots: snapshots}
}

// flush terminates run-length folding and emits the accumulated instruction.
// Folded runs with no net effect emit nothing.
func (p *parser) flush() {
	if !p.hasPend {
		return
	}
	p.hasPend = false
	if p.pend.Arg == 0 {
		return
	}
	p.code = append(p.code, p.pend)
}

func (p *parser) emit(in vm.Instr) {
	p.flush()
	p.code = append(p.code, in)
}

// addInc folds a +1 or -1 (encoded as 255) into the pending increment with
// byte wraparound, so that a net zero run folds away entirely.
func (p *parser) addInc(delta byte) {
	if p.hasPend && p.pend.Op == vm.OpInc {
		p.pend.Arg = int(byte(p.pend.Arg) + delta)
		return
	}
	p.flush()
	p.pend, p.hasPend = vm.Instr{Op: vm.OpInc, Arg: int(delta)}, true
}

func (p *parser) addMove(delta int) {
	if p.hasPend && p.pend.Op == vm.OpMove {
		p.pend.Arg += delta
		return
	}
	p.flush()
	p.pend, p.hasPend = vm.Instr{Op: vm.OpMove, Arg: delta}, true
}

// unitLine closes the unit under construction and opens a new one with the
// given label. The first declared unit gets a synthetic preamble before it
// if instructions were already emitted, keeping the unit table a partition
// of the stream.
func (p *parser) unitLine(label string) {
	p.flush()
	if len(p.units) == 0 && len(p.code) > 0 {
		p.units = append(p.units, vm.Unit{Label: preambleLabel, Start: 0, End: len(p.code)})
	}
	if len(p.units) > 0 {
		p.units[len(p.units)-1].End = len(p.code)
	}
	p.units = append(p.units, vm.Unit{Label: label, Start: len(p.code)})
}

// line consumes one line of source text. Only eight characters are
// meaningful; everything else is comment text and does not interrupt
// folding.
func (p *parser) line(s string) error {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, ";") {
		p.unitLine(strings.TrimSpace(s[1:]))
		return nil
	}
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '+':
			p.addInc(1)
		case '-':
			p.addInc(255)
		case '>':
			p.addMove(1)
		case '<':
			p.addMove(-1)
		case '.':
			p.emit(vm.Instr{Op: vm.OpOut})
		case ',':
			p.emit(vm.Instr{Op: vm.OpIn})
		case '[':
			p.flush()
			p.open = append(p.open, len(p.code))
			p.code = append(p.code, vm.Instr{Op: vm.OpJz}) // target patched at ]
		case ']':
			p.flush()
			if len(p.open) == 0 {
				return ErrUnmatchedClose
			}
			o := p.open[len(p.open)-1]
			p.open = p.open[:len(p.open)-1]
			p.code[o].Arg = len(p.code) + 1
			p.code = append(p.code, vm.Instr{Op: vm.OpJnz, Arg: o + 1})
		case '#':
			if p.snapshots {
				p.emit(vm.Instr{Op: vm.OpSnap})
			}
		}
	}
	return nil
}

// finish terminates the program with its end marker and closes out the unit
// table so that it partitions [0, len(code)).
func (p *parser) finish() (*vm.Program, error) {
	p.flush()
	if len(p.open) > 0 {
		return nil, ErrUnmatchedOpen
	}
	p.code = append(p.code, vm.Instr{Op: vm.OpEnd})
	if len(p.units) == 0 {
		p.units = append(p.units, vm.Unit{Label: programLabel, Start: 0})
	}
	p.units[len(p.units)-1].End = len(p.code)
	return &vm.Program{Code: p.code, Units: p.units}, nil
}
