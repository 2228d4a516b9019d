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
	"fmt"
	"io"

	"github.com/pedrofgodinho/brainstorm/internal/bsi"
	"github.com/pedrofgodinho/brainstorm/vm"
)

// Dump writes a plain per-unit listing of the program to the specified
// io.Writer, one instruction per line with resolved jump targets. It will
// return any write error. Interactive front ends usually want their own
// annotated rendering; this one is meant for tests, logs and the -disasm
// flag.
func Dump(w io.Writer, p *vm.Program) error {
	ew, _ := w.(*bsi.ErrWriter)
	if ew == nil {
		ew = bsi.NewErrWriter(w)
	}
	width := len(fmt.Sprintf("%#x", len(p.Code)-1))
	for _, u := range p.Units {
		fmt.Fprintf(ew, "%#0*x  %s\n", width, u.Start, u.Label)
		for pc := u.Start; pc < u.End; pc++ {
			in := p.Code[pc]
			fmt.Fprintf(ew, "%#0*x    %s", width, pc, in)
			switch in.Op {
			case vm.OpJz, vm.OpJnz:
				fmt.Fprintf(ew, " -> %#x", in.Arg)
			}
			ew.Write([]byte{'\n'})
		}
	}
	return ew.Err
}
