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
	"bufio"
	"io"

	"github.com/pkg/errors"

	"github.com/pedrofgodinho/brainstorm/vm"
)

// Compile time errors. Both are fatal: no partial program is ever returned.
var (
	ErrUnmatchedOpen  = errors.New("[ has no matching ]")
	ErrUnmatchedClose = errors.New("] has no matching [")
)

// SourceError reports a failure reading the source text, as opposed to an
// error in the source itself.
type SourceError struct {
	Err error
}

func (e *SourceError) Error() string { return "failed to read source: " + e.Err.Error() }

// Cause returns the underlying read error.
func (e *SourceError) Cause() error { return e.Err }

func (e *SourceError) Unwrap() error { return e.Err }

// Compile compiles source text read from the supplied io.Reader and returns
// the resulting program.
//
// The snapshots parameter controls whether '#' characters compile to
// snapshot instructions; when false they are ignored entirely and do not
// even interrupt run-length folding of the operators around them.
func Compile(r io.Reader, snapshots bool) (*vm.Program, error) {
	p := newParser(snapshots)
	s := bufio.NewScanner(r)
	for s.Scan() {
		if err := p.line(s.Text()); err != nil {
			return nil, err
		}
	}
	if err := s.Err(); err != nil {
		return nil, &SourceError{err}
	}
	return p.finish()
}
