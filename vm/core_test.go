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

package vm_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/pedrofgodinho/brainstorm/bf"
	"github.com/pedrofgodinho/brainstorm/vm"
)

func compile(t testing.TB, src string) *vm.Program {
	t.Helper()
	p, err := bf.Compile(strings.NewReader(src), false)
	if err != nil {
		t.Fatalf("compile %q: %v", src, err)
	}
	return p
}

func setup(t testing.TB, src string, opts ...vm.Option) *vm.Instance {
	t.Helper()
	i, err := vm.New(compile(t, src), opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return i
}

func TestInstance_Run(t *testing.T) {
	i := setup(t, "+++[->+<]", vm.TapeSize(4))
	if err := i.Run(); err != nil {
		t.Fatal(err)
	}
	if c := i.Tape()[0]; c != 0 {
		t.Errorf("expected cell 0 to be 0, got %d", c)
	}
	if c := i.Tape()[1]; c != 3 {
		t.Errorf("expected cell 1 to be 3, got %d", c)
	}
	// halted on the end marker, not past it
	if pc := i.PC(); pc != len(i.Program().Code)-1 {
		t.Errorf("expected pc %d, got %d", len(i.Program().Code)-1, pc)
	}
}

func TestStep_tapeOverrun(t *testing.T) {
	for _, test := range []struct {
		src  string
		size int
		want error
	}{
		{"<", 4, vm.ErrTapeOverrun},
		{">", 1, vm.ErrTapeOverrun},
		{">>", 2, vm.ErrTapeOverrun}, // folded move, rejected as a whole
		{">", 2, nil},
	} {
		i := setup(t, test.src, vm.TapeSize(test.size))
		err := i.Run()
		if err != test.want {
			t.Errorf("run %q on %d cells: expected error %v, got %v", test.src, test.size, test.want, err)
			continue
		}
		if err != nil {
			// failed moves must leave the instance where it was
			if i.Ptr() != 0 || i.PC() != 0 {
				t.Errorf("run %q: state advanced after overrun: pc=%d ptr=%d", test.src, i.PC(), i.Ptr())
			}
		}
	}
}

func TestReadIn_eofPolicy(t *testing.T) {
	for _, test := range []struct {
		policy vm.EOFPolicy
		want   byte
	}{
		{vm.EOFDontSet, 3},
		{vm.EOFSetZero, 0},
		{vm.EOFSetMinusOne, 255},
	} {
		// with an exhausted source
		i := setup(t, "+++,", vm.TapeSize(4),
			vm.Input(strings.NewReader("")), vm.OnEOF(test.policy))
		if err := i.Run(); err != nil {
			t.Fatal(err)
		}
		if c := i.Tape()[0]; c != test.want {
			t.Errorf("policy %v: expected cell 0 to be %d, got %d", test.policy, test.want, c)
		}

		// and with no source at all
		i = setup(t, "+++,", vm.TapeSize(4), vm.OnEOF(test.policy))
		if err := i.Run(); err != nil {
			t.Fatal(err)
		}
		if c := i.Tape()[0]; c != test.want {
			t.Errorf("policy %v, nil input: expected cell 0 to be %d, got %d", test.policy, test.want, c)
		}
	}
}

func TestReadIn_crSkip(t *testing.T) {
	for _, test := range []struct {
		input string
		src   string
		want  byte
	}{
		{"x", ",", 'x'},
		{"ab", ",,", 'b'},
		{"\r\nx", ",", '\n'}, // leading CR discarded
		{"\r\r\n", ",", '\r'}, // discarded at most once, second CR is data
	} {
		i := setup(t, test.src, vm.TapeSize(4), vm.Input(strings.NewReader(test.input)))
		if err := i.Run(); err != nil {
			t.Fatal(err)
		}
		if c := i.Tape()[0]; c != test.want {
			t.Errorf("input %q: expected cell 0 to be %q, got %q", test.input, test.want, c)
		}
	}
}

var errRead = errors.New("device gone")

type failReader struct{}

func (failReader) Read([]byte) (int, error) { return 0, errRead }

func TestReadIn_error(t *testing.T) {
	i := setup(t, ",", vm.TapeSize(4), vm.Input(failReader{}))
	err := i.Run()
	ie, ok := err.(*vm.InputError)
	if !ok {
		t.Fatalf("expected *vm.InputError, got %T: %v", err, err)
	}
	if ie.Cause() != errRead {
		t.Errorf("expected cause %v, got %v", errRead, ie.Cause())
	}
	if i.PC() != 0 {
		t.Errorf("state advanced after input error: pc=%d", i.PC())
	}
}

// flushWriter records writes and flushes like a bufio.Writer would.
type flushWriter struct {
	buf     bytes.Buffer
	flushes int
	err     error
}

func (w *flushWriter) Write(p []byte) (int, error) {
	if w.err != nil {
		return 0, w.err
	}
	return w.buf.Write(p)
}

func (w *flushWriter) Flush() error {
	w.flushes++
	return nil
}

func TestWriteOut(t *testing.T) {
	var w flushWriter
	i := setup(t, "+.+.", vm.TapeSize(4), vm.Output(&w))
	if err := i.Run(); err != nil {
		t.Fatal(err)
	}
	if got := w.buf.Bytes(); !bytes.Equal(got, []byte{1, 2}) {
		t.Errorf("expected output [1 2], got %v", got)
	}
	// one flush per output instruction
	if w.flushes != 2 {
		t.Errorf("expected 2 flushes, got %d", w.flushes)
	}
}

func TestWriteOut_error(t *testing.T) {
	w := &flushWriter{err: errors.New("pipe closed")}
	i := setup(t, "+.", vm.TapeSize(4), vm.Output(w))
	err := i.Run()
	if err == nil {
		t.Fatal("expected a write error")
	}
	if errors.Cause(err) != w.err {
		t.Errorf("expected cause %v, got %v", w.err, errors.Cause(err))
	}
	if i.PC() != 1 {
		t.Errorf("expected pc 1, got %d", i.PC())
	}
}

const threeUnits = `; init
+++
; loop
[->+<]
; done
`

func TestStepUnit(t *testing.T) {
	i := setup(t, threeUnits, vm.TapeSize(4))
	if u := i.Unit(); u.Label != "init" {
		t.Fatalf("expected to start in unit init, got %s", u.Label)
	}

	more, err := i.StepUnit()
	if !more || err != nil {
		t.Fatalf("StepUnit: %v, %v", more, err)
	}
	if u, c := i.Unit(), i.InstructionCount(); u.Label != "loop" || c != 1 {
		t.Errorf("expected unit loop after 1 instruction, got %s after %d", u.Label, c)
	}

	// the whole loop runs as one unit step: backward jumps inside the unit
	// do not end it
	more, err = i.StepUnit()
	if !more || err != nil {
		t.Fatalf("StepUnit: %v, %v", more, err)
	}
	if u := i.Unit(); u.Label != "done" {
		t.Errorf("expected unit done, got %s", u.Label)
	}
	if c := i.InstructionCount(); c != 17 {
		t.Errorf("expected 17 instructions, got %d", c)
	}
	if c := i.Tape()[1]; c != 3 {
		t.Errorf("expected cell 1 to be 3, got %d", c)
	}

	more, err = i.StepUnit()
	if more || err != nil {
		t.Fatalf("expected clean halt, got %v, %v", more, err)
	}
	if c := i.InstructionCount(); c != 17 {
		t.Errorf("halt executed instructions: count %d", c)
	}
}

func TestStep_selfLoop(t *testing.T) {
	// +[] never halts; the backward jump stays in the only unit
	i := setup(t, "+[]", vm.TapeSize(4))
	for n := 0; n < 50; n++ {
		more, err := i.Step()
		if !more || err != nil {
			t.Fatalf("step %d: %v, %v", n, more, err)
		}
		if u := i.UnitIndex(); u != 0 {
			t.Fatalf("step %d: unit index %d", n, u)
		}
	}
	if pc := i.PC(); pc != 2 {
		t.Errorf("expected pc 2, got %d", pc)
	}
}

func TestContinue(t *testing.T) {
	i := setup(t, "+++[->+<]", vm.TapeSize(4))
	i.AddBreakpoint(2) // loop body entry, hit once per iteration

	for n := 0; n < 3; n++ {
		paused, err := i.Continue()
		if !paused || err != nil {
			t.Fatalf("continue %d: %v, %v", n, paused, err)
		}
		if pc := i.PC(); pc != 2 {
			t.Fatalf("continue %d: expected pc 2, got %d", n, pc)
		}
	}
	paused, err := i.Continue()
	if paused || err != nil {
		t.Fatalf("expected clean halt, got %v, %v", paused, err)
	}
	if c := i.Tape()[1]; c != 3 {
		t.Errorf("expected cell 1 to be 3, got %d", c)
	}
}

func TestBreakpoints(t *testing.T) {
	i := setup(t, "+", vm.TapeSize(4))
	for _, pos := range []int{3, 1, 2} {
		i.AddBreakpoint(pos)
	}
	if got := i.Breakpoints(); len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Errorf("expected breakpoints [1 2 3], got %v", got)
	}
	if !i.IsBreakpoint(2) || i.IsBreakpoint(4) {
		t.Error("IsBreakpoint misreported")
	}
	if !i.ClearBreakpoint(2) {
		t.Error("expected ClearBreakpoint(2) to report a removal")
	}
	if i.ClearBreakpoint(2) {
		t.Error("expected ClearBreakpoint(2) to report no breakpoint")
	}
	if got := i.Breakpoints(); len(got) != 2 {
		t.Errorf("expected 2 breakpoints, got %v", got)
	}
}

func TestStep_invalidProgram(t *testing.T) {
	// hand-built program whose jump escapes the instruction stream while
	// staying inside the declared unit
	p := &vm.Program{
		Code:  []vm.Instr{{Op: vm.OpJz, Arg: 5}, {Op: vm.OpEnd}},
		Units: []vm.Unit{{Label: "u", Start: 0, End: 6}},
	}
	i, err := vm.New(p, vm.TapeSize(4))
	if err != nil {
		t.Fatal(err)
	}
	more, err := i.Step()
	if !more || err != nil {
		t.Fatalf("step: %v, %v", more, err)
	}
	more, err = i.Step()
	if more || err != vm.ErrInvalidProgram {
		t.Fatalf("expected ErrInvalidProgram, got %v, %v", more, err)
	}
}

func TestSnapshotHandler(t *testing.T) {
	p, err := bf.Compile(strings.NewReader("+#+"), true)
	if err != nil {
		t.Fatal(err)
	}
	var snaps []int
	i, err := vm.New(p, vm.TapeSize(4), vm.BindSnapshotHandler(func(i *vm.Instance) error {
		snaps = append(snaps, i.PC())
		if c := i.Tape()[0]; c != 1 {
			t.Errorf("expected cell 0 to be 1 at snapshot, got %d", c)
		}
		return nil
	}))
	if err != nil {
		t.Fatal(err)
	}
	if err = i.Run(); err != nil {
		t.Fatal(err)
	}
	if len(snaps) != 1 || snaps[0] != 1 {
		t.Errorf("expected one snapshot at pc 1, got %v", snaps)
	}
	if c := i.Tape()[0]; c != 2 {
		t.Errorf("expected cell 0 to be 2, got %d", c)
	}

	// without a handler, snapshot instructions are no-ops
	i, err = vm.New(p, vm.TapeSize(4))
	if err != nil {
		t.Fatal(err)
	}
	if err = i.Run(); err != nil {
		t.Fatal(err)
	}

	// handler errors stop the program on the snapshot instruction
	errSnap := errors.New("snapshot failed")
	i, err = vm.New(p, vm.TapeSize(4), vm.BindSnapshotHandler(func(*vm.Instance) error {
		return errSnap
	}))
	if err != nil {
		t.Fatal(err)
	}
	if err = i.Run(); err != errSnap {
		t.Errorf("expected %v, got %v", errSnap, err)
	}
	if i.PC() != 1 {
		t.Errorf("expected pc 1, got %d", i.PC())
	}
}

func TestNew_errors(t *testing.T) {
	if _, err := vm.New(nil); err == nil {
		t.Error("expected an error for a nil program")
	}
	if _, err := vm.New(&vm.Program{}); err == nil {
		t.Error("expected an error for an empty program")
	}
	p := &vm.Program{Code: []vm.Instr{{Op: vm.OpEnd}}}
	if _, err := vm.New(p); err == nil {
		t.Error("expected an error for a program without units")
	}
	p.Units = []vm.Unit{{Label: "u", Start: 0, End: 1}}
	if _, err := vm.New(p, vm.TapeSize(0)); err == nil {
		t.Error("expected an error for tape size 0")
	}
	if _, err := vm.New(p, vm.OnEOF(vm.EOFPolicy(42))); err == nil {
		t.Error("expected an error for an unknown end-of-input policy")
	}
}

func TestEOFPolicy_flag(t *testing.T) {
	var p vm.EOFPolicy
	for _, s := range []string{"dont-set", "set-zero", "set-minus-one"} {
		if err := p.Set(s); err != nil {
			t.Fatal(err)
		}
		if got := p.String(); got != s {
			t.Errorf("expected %q, got %q", s, got)
		}
		if got := p.Get(); got != p {
			t.Errorf("Get: expected %v, got %v", p, got)
		}
	}
	if err := p.Set("on-eof-explode"); err == nil {
		t.Error("expected an error for an unknown policy name")
	}
}

func BenchmarkInstance_Run(b *testing.B) {
	p := compile(b, "++++++++++[>++++++++++[>+<-]<-]")
	for n := 0; n < b.N; n++ {
		b.StopTimer()
		i, err := vm.New(p, vm.TapeSize(16))
		if err != nil {
			b.Fatal(err)
		}
		b.StartTimer()
		if err = i.Run(); err != nil {
			b.Fatal(err)
		}
	}
}
