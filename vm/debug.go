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

// Report is the outcome of a debugger stepping command.
type Report struct {
	Running bool  // the program can still make progress
	Err     error // runtime error that stopped the program, if any
}

// Debugger drives an Instance on behalf of an interactive shell. It demotes
// runtime errors to a terminal halted-with-error report: once the program
// halts or fails, further stepping commands make no progress and keep
// reporting the recorded outcome. A failed instance cannot be resumed; build
// a new one to run the program again.
type Debugger struct {
	i       *Instance
	running bool
	err     error
}

// NewDebugger returns a Debugger driving the given instance. The debugger
// takes over stepping; the caller must not step the instance directly.
func NewDebugger(i *Instance) *Debugger {
	return &Debugger{i: i, running: true}
}

// Instance returns the instance under control, for read-only inspection by
// renderers.
func (d *Debugger) Instance() *Instance {
	return d.i
}

// Running reports whether the program can still make progress.
func (d *Debugger) Running() bool {
	return d.running
}

// Step executes a single instruction.
func (d *Debugger) Step() Report {
	return d.exec((*Instance).Step)
}

// StepUnit executes instructions until the current unit changes.
func (d *Debugger) StepUnit() Report {
	return d.exec((*Instance).StepUnit)
}

// Continue executes instructions until a breakpoint is hit or the program
// halts. A report with Running set means the program paused at a
// breakpoint.
func (d *Debugger) Continue() Report {
	return d.exec((*Instance).Continue)
}

func (d *Debugger) exec(step func(*Instance) (bool, error)) Report {
	if !d.running {
		return Report{Running: false, Err: d.err}
	}
	more, err := step(d.i)
	if err != nil {
		d.running, d.err = false, err
		return Report{Running: false, Err: err}
	}
	if !more {
		d.running = false
	}
	return Report{Running: more}
}

// AddBreakpoint adds a breakpoint at the given instruction index.
func (d *Debugger) AddBreakpoint(pos int) {
	d.i.AddBreakpoint(pos)
}

// ClearBreakpoint removes the breakpoint at the given instruction index and
// reports whether one was present.
func (d *Debugger) ClearBreakpoint(pos int) bool {
	return d.i.ClearBreakpoint(pos)
}
