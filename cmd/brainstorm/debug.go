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
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/pedrofgodinho/brainstorm/vm"
)

const historyFile = ".brainstorm_history"

func debugHelp() {
	fmt.Println("Available commands: ")
	fmt.Println("  - h / help - prints this message")
	fmt.Println("  - q / quit - quits the debugger")
	fmt.Println("  - ctx / context - prints the context window")
	fmt.Println("  - p / program - prints the entire program units")
	fmt.Println("  - t / tape - prints the tape")
	fmt.Println("  - n / next - steps the interpreter by one unit")
	fmt.Println("  - ni / next-instruction - steps the interpreter by one instruction")
	fmt.Println("  - b / break - set a breakpoint at the specified location (hex)")
	fmt.Println("  - cl / clear - clear a breakpoint at the specified location (hex)")
	fmt.Println("  - c / continue - continue execution until breakpoint or halt")
}

// parseAddr reads an instruction index from the command's argument. Like the
// addresses in the program dump, arguments are hexadecimal with an optional
// 0x prefix.
func parseAddr(args []string) (int, bool) {
	if len(args) < 2 {
		return 0, false
	}
	v, err := strconv.ParseUint(strings.TrimPrefix(args[1], "0x"), 16, 32)
	if err != nil {
		return 0, false
	}
	return int(v), true
}

// reportStep prints the outcome of a stepping command.
func reportStep(r vm.Report) {
	if r.Err != nil {
		fmt.Println("Program has halted with an error:")
		fmt.Println(r.Err)
		return
	}
	if !r.Running {
		fmt.Println("Program has halted")
	}
}

// step guards a stepping command against an already-halted program and
// reports the outcome. It returns true when the context window should be
// shown.
func step(d *vm.Debugger, f func() vm.Report) bool {
	if !d.Running() {
		fmt.Println("Program is halted")
		return false
	}
	reportStep(f())
	return true
}

// runDebugger drives the instance from an interactive shell. An empty input
// line repeats the previous command.
func runDebugger(i *vm.Instance) error {
	d := vm.NewDebugger(i)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := ""
	if home, err := os.UserHomeDir(); err == nil {
		histPath = filepath.Join(home, historyFile)
		if f, err := os.Open(histPath); err == nil {
			ln.ReadHistory(f)
			f.Close()
		}
		defer func() {
			if f, err := os.Create(histPath); err == nil {
				ln.WriteHistory(f)
				f.Close()
			}
		}()
	}

	fmt.Println("Welcome to the brainstorm debugger")
	fmt.Println("Use command `help` for information on available commands")
	fmt.Println()
	printState(os.Stdout, i)

	var last string
	for {
		input, err := ln.Prompt("> ")
		switch err {
		case nil:
		case liner.ErrPromptAborted:
			continue
		case io.EOF:
			fmt.Println()
			return nil
		default:
			return err
		}

		input = strings.ToLower(strings.TrimSpace(input))
		if input == "" {
			input = last
		}
		if input == "" {
			continue
		}
		last = input
		ln.AppendHistory(input)

		args := strings.Fields(input)
		showCtx := false
		switch args[0] {
		case "h", "help":
			debugHelp()
		case "q", "quit":
			fmt.Println("Exiting debugger!")
			return nil
		case "ctx", "context":
			showCtx = true
		case "p", "program":
			dump, _ := dumpProgram(i)
			fmt.Print(dump)
		case "t", "tape":
			dumpTape(os.Stdout, i)
		case "n", "next":
			showCtx = step(d, d.StepUnit)
		case "ni", "next-instruction":
			showCtx = step(d, d.Step)
		case "c", "continue":
			showCtx = step(d, d.Continue)
		case "b", "break":
			if v, ok := parseAddr(args); ok {
				fmt.Printf("Added breakpoint at %#x\n", v)
				d.AddBreakpoint(v)
			} else {
				fmt.Println("Invalid breakpoint")
			}
		case "cl", "clear":
			if v, ok := parseAddr(args); ok {
				if d.ClearBreakpoint(v) {
					fmt.Printf("Cleared breakpoint at %#x\n", v)
				} else {
					fmt.Printf("No breakpoint at %#x\n", v)
				}
			} else {
				fmt.Println("Invalid breakpoint")
			}
		default:
			fmt.Printf("Unknown command: %s\n", input)
		}
		if showCtx {
			fmt.Println()
			printState(os.Stdout, i)
		}
	}
}
