/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: json.go
Description: JSON serialization for the Akaylee Instrument program
representation. Programs travel between toolchain stages as JSON files;
terminators are flattened to label references on encode and relinked to
block pointers on decode.
*/

package ir

import (
	"encoding/json"
	"fmt"
	"io"
)

// Terminator kind tags used in the serialized form
const (
	termJump        = "jump"
	termBranch      = "branch"
	termSwitch      = "switch"
	termReturn      = "return"
	termUnreachable = "unreachable"
)

// jsonTerm is the flattened terminator: block pointers become labels
type jsonTerm struct {
	Kind    string   `json:"kind"`
	Cond    string   `json:"cond,omitempty"`
	Value   string   `json:"value,omitempty"`
	Targets []string `json:"targets,omitempty"`
	Default string   `json:"default,omitempty"`
}

// jsonBlock mirrors BasicBlock with the terminator flattened
type jsonBlock struct {
	Label  string    `json:"label"`
	Instrs []*Instr  `json:"instrs,omitempty"`
	Term   *jsonTerm `json:"term"`
	Loc    *Location `json:"loc,omitempty"`
}

// jsonFunction mirrors Function
type jsonFunction struct {
	Name   string       `json:"name"`
	Blocks []*jsonBlock `json:"blocks"`
}

// jsonProgram mirrors Program
type jsonProgram struct {
	Name      string          `json:"name"`
	Functions []*jsonFunction `json:"functions"`
	Globals   []*Global       `json:"globals,omitempty"`
}

func flattenTerm(t Terminator, b *BasicBlock) (*jsonTerm, error) {
	label := func(blk *BasicBlock) string {
		if blk == nil {
			return ""
		}
		return blk.Label
	}
	switch term := t.(type) {
	case *Jump:
		return &jsonTerm{Kind: termJump, Targets: []string{label(term.Target)}}, nil
	case *Branch:
		return &jsonTerm{Kind: termBranch, Cond: term.Cond, Targets: []string{label(term.Then), label(term.Else)}}, nil
	case *Switch:
		targets := make([]string, len(term.Targets))
		for i, blk := range term.Targets {
			targets[i] = label(blk)
		}
		return &jsonTerm{Kind: termSwitch, Value: term.Value, Targets: targets, Default: label(term.Default)}, nil
	case *Return:
		return &jsonTerm{Kind: termReturn}, nil
	case *Unreachable:
		return &jsonTerm{Kind: termUnreachable}, nil
	case nil:
		return nil, fmt.Errorf("block %q has no terminator", b.Label)
	default:
		return nil, fmt.Errorf("block %q has unknown terminator %T", b.Label, t)
	}
}

func linkTerm(jt *jsonTerm, fn *Function, label string) (Terminator, error) {
	resolve := func(target string) (*BasicBlock, error) {
		if target == "" {
			return nil, nil
		}
		blk := fn.Block(target)
		if blk == nil {
			return nil, fmt.Errorf("block %q targets unknown block %q", label, target)
		}
		return blk, nil
	}
	if jt == nil {
		return nil, fmt.Errorf("block %q has no terminator", label)
	}
	switch jt.Kind {
	case termJump:
		if len(jt.Targets) != 1 {
			return nil, fmt.Errorf("block %q: jump needs one target", label)
		}
		target, err := resolve(jt.Targets[0])
		if err != nil {
			return nil, err
		}
		return &Jump{Target: target}, nil
	case termBranch:
		if len(jt.Targets) != 2 {
			return nil, fmt.Errorf("block %q: branch needs two targets", label)
		}
		then, err := resolve(jt.Targets[0])
		if err != nil {
			return nil, err
		}
		els, err := resolve(jt.Targets[1])
		if err != nil {
			return nil, err
		}
		return &Branch{Cond: jt.Cond, Then: then, Else: els}, nil
	case termSwitch:
		targets := make([]*BasicBlock, len(jt.Targets))
		for i, t := range jt.Targets {
			blk, err := resolve(t)
			if err != nil {
				return nil, err
			}
			targets[i] = blk
		}
		def, err := resolve(jt.Default)
		if err != nil {
			return nil, err
		}
		return &Switch{Value: jt.Value, Targets: targets, Default: def}, nil
	case termReturn:
		return &Return{}, nil
	case termUnreachable:
		return &Unreachable{}, nil
	default:
		return nil, fmt.Errorf("block %q has unknown terminator kind %q", label, jt.Kind)
	}
}

// EncodeProgram writes p to w as indented JSON
func EncodeProgram(w io.Writer, p *Program) error {
	jp := &jsonProgram{Name: p.Name, Globals: p.Globals}
	for _, fn := range p.Functions {
		jf := &jsonFunction{Name: fn.Name}
		for _, b := range fn.Blocks {
			jt, err := flattenTerm(b.Term, b)
			if err != nil {
				return fmt.Errorf("function %q: %w", fn.Name, err)
			}
			jf.Blocks = append(jf.Blocks, &jsonBlock{Label: b.Label, Instrs: b.Instrs, Term: jt, Loc: b.Loc})
		}
		jp.Functions = append(jp.Functions, jf)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(jp); err != nil {
		return fmt.Errorf("failed to encode program: %w", err)
	}
	return nil
}

// DecodeProgram reads a program from r, relinking terminator targets to
// block pointers. Decoding fails on dangling labels or missing terminators.
func DecodeProgram(r io.Reader) (*Program, error) {
	var jp jsonProgram
	if err := json.NewDecoder(r).Decode(&jp); err != nil {
		return nil, fmt.Errorf("failed to decode program: %w", err)
	}
	p := &Program{Name: jp.Name, Globals: jp.Globals}
	for _, jf := range jp.Functions {
		fn := &Function{Name: jf.Name}
		for _, jb := range jf.Blocks {
			fn.Blocks = append(fn.Blocks, &BasicBlock{Label: jb.Label, Instrs: jb.Instrs, Loc: jb.Loc})
		}
		// Second pass: every block exists, terminators can be linked
		for i, jb := range jf.Blocks {
			term, err := linkTerm(jb.Term, fn, jb.Label)
			if err != nil {
				return nil, fmt.Errorf("function %q: %w", jf.Name, err)
			}
			fn.Blocks[i].Term = term
		}
		p.Functions = append(p.Functions, fn)
	}
	return p, nil
}
