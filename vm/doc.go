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

// Package vm implements the brainstorm tape machine.
//
// An Instance executes a compiled Program (see package bf) over a fixed-size
// tape of byte cells. Execution is driven one instruction at a time through
// Step, with Run, StepUnit and Continue layered on top of it, which makes
// the machine directly usable from an interactive debugger: StepUnit steps
// at the granularity of the named units the compiler carved the program
// into, and Continue runs to the next breakpoint.
//
// The Debugger type wraps an Instance for exactly that use case. It latches
// the halted state so that a shell can keep issuing commands after the
// program has stopped without tripping over runtime errors twice.
//
// Instances are not safe for concurrent use: one goroutine owns an instance
// from construction until the program halts.
package vm
