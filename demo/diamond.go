/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: diamond.go
Description: Demo program generator for the Akaylee Instrument pass. Emits a
small serialized program with a diamond control-flow graph (entry, branch,
two arms, join) that can be fed straight into the instrument command.
*/

package main

import (
	"fmt"
	"os"

	"github.com/kleascm/akaylee-instrument/pkg/ir"
)

func main() {
	out := "diamond.json"
	if len(os.Args) > 1 {
		out = os.Args[1]
	}

	entry := &ir.BasicBlock{Label: "entry", Loc: &ir.Location{File: "demo/target.c", Line: 3}}
	branch := &ir.BasicBlock{Label: "check", Loc: &ir.Location{File: "demo/target.c", Line: 5}}
	left := &ir.BasicBlock{Label: "if.then", Loc: &ir.Location{File: "demo/target.c", Line: 6}}
	right := &ir.BasicBlock{Label: "if.else", Loc: &ir.Location{File: "demo/target.c", Line: 8}}
	join := &ir.BasicBlock{Label: "if.end", Loc: &ir.Location{File: "demo/target.c", Line: 10}}

	entry.Term = &ir.Jump{Target: branch}
	branch.Term = &ir.Branch{Cond: "%cmp", Then: left, Else: right}
	left.Term = &ir.Jump{Target: join}
	right.Term = &ir.Jump{Target: join}
	join.Term = &ir.Return{}

	join.Instrs = []*ir.Instr{
		{Op: ir.OpPhi, Result: "%merge", X: "%a", Y: "%b"},
	}

	prog := &ir.Program{
		Name: "demo",
		Functions: []*ir.Function{
			{Name: "target", Blocks: []*ir.BasicBlock{entry, branch, left, right, join}},
		},
	}

	f, err := os.Create(out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	if err := ir.EncodeProgram(f, prog); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Wrote demo program to %s\n", out)
	fmt.Println("Try: akaylee-instrument instrument --input", out, "--report-dir ./reports")
}
