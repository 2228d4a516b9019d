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

package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/pedrofgodinho/brainstorm/bf"
	"github.com/pedrofgodinho/brainstorm/vm"
)

func atExit(i *vm.Instance, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "\n%+v\n", err)
	if i != nil {
		fmt.Fprintf(os.Stderr, "PC: %#x, TP: %#x, Unit: %s\n", i.PC(), i.Ptr(), i.Unit().Label)
	}
	os.Exit(1)
}

func setupIO() (raw bool, tearDown func()) {
	tearDown, err := setRawIO()
	if err != nil {
		return false, nil
	}
	return true, tearDown
}

func main() {
	var err error
	var i *vm.Instance

	// report errors last, after the terminal has been restored
	defer func() { atExit(i, err) }()

	var eofPolicy vm.EOFPolicy
	var tapeSize = flag.Int("tape-size", 64*1024, "tape size in `cells`")
	var printDebug = flag.Bool("print-debug", false, "compile '#' characters into state dump instructions")
	var debug = flag.Bool("debug", false, "run the program under the interactive debugger")
	var disasm = flag.Bool("disasm", false, "print the compiled program and exit")
	var noRawIO = flag.Bool("noraw", false, "disable raw terminal IO")
	flag.Var(&eofPolicy, "eof", "end-of-input `policy`: dont-set, set-zero or set-minus-one")

	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] program-file\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}

	f, e := os.Open(flag.Arg(0))
	if e != nil {
		err = e
		return
	}
	prog, e := bf.Compile(bufio.NewReader(f), *printDebug)
	f.Close()
	if e != nil {
		err = e
		return
	}

	if *disasm {
		err = bf.Dump(os.Stdout, prog)
		return
	}

	stdout := bufio.NewWriter(os.Stdout)
	defer stdout.Flush()

	opts := []vm.Option{
		vm.TapeSize(*tapeSize),
		vm.OnEOF(eofPolicy),
		vm.Output(stdout),
		vm.BindSnapshotHandler(func(i *vm.Instance) error {
			return printState(os.Stdout, i)
		}),
	}

	// In raw mode, ',' sees single key presses instead of whole lines. The
	// debugger shell does its own line editing, so raw mode stays off there.
	if !*noRawIO && !*debug {
		if rawtty, ioTearDownFn := setupIO(); rawtty {
			defer ioTearDownFn()
			opts = append(opts, vm.Input(os.Stdin))
		} else {
			opts = append(opts, vm.Input(bufio.NewReader(os.Stdin)))
		}
	} else {
		opts = append(opts, vm.Input(bufio.NewReader(os.Stdin)))
	}

	i, err = vm.New(prog, opts...)
	if err != nil {
		i = nil
		return
	}

	if *debug {
		err = runDebugger(i)
		return
	}
	err = i.Run()
}
