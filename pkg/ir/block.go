/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: block.go
Description: Basic block and terminator structures for the Akaylee Instrument
pass. A block is a straight-line instruction sequence ending in a single control
transfer; successors are derived from the terminator on demand. Also provides
the stable block identity constants baked into injected probes.
*/

package ir

import (
	"crypto/sha1"
	"encoding/binary"
)

// BasicBlock is a straight-line sequence of instructions ending in exactly
// one control transfer. Phi instructions, when present, form a leading prefix
// of Instrs and are block-entry metadata rather than executable logic.
type BasicBlock struct {
	Label  string     `json:"label"`        // Block label, unique within the function
	Instrs []*Instr   `json:"instrs"`       // Instructions, leading phis first
	Term   Terminator `json:"-"`            // Terminating control transfer
	Loc    *Location  `json:"loc,omitempty"` // Source location, may be nil
}

// Successors returns the blocks this block can transfer control to,
// derived from the terminator. Nil targets are skipped.
func (b *BasicBlock) Successors() []*BasicBlock {
	if b.Term == nil {
		return nil
	}
	var succs []*BasicBlock
	for _, s := range b.Term.targets() {
		if s != nil {
			succs = append(succs, s)
		}
	}
	return succs
}

// FirstInsertionPt returns the index in Instrs where new instructions may be
// inserted: after the leading phi prefix, before the block's original logic.
func (b *BasicBlock) FirstInsertionPt() int {
	for i, instr := range b.Instrs {
		if instr.Op != OpPhi {
			return i
		}
	}
	return len(b.Instrs)
}

// InsertAt inserts instrs into the block body at index i
func (b *BasicBlock) InsertAt(i int, instrs ...*Instr) {
	body := make([]*Instr, 0, len(b.Instrs)+len(instrs))
	body = append(body, b.Instrs[:i]...)
	body = append(body, instrs...)
	body = append(body, b.Instrs[i:]...)
	b.Instrs = body
}

// BlockAddress produces a stable 64-bit identity constant for b within f,
// derived from the function name and block label. The same block always
// yields the same value, and no other block in the function yields it.
// Entry blocks refuse address-taking: their identity cannot be separated
// from the function's own address, so ok is false for them.
func BlockAddress(f *Function, b *BasicBlock) (uint64, bool) {
	if f.Entry() == b {
		return 0, false
	}
	sum := sha1.Sum([]byte(f.Name + "." + b.Label))
	return binary.LittleEndian.Uint64(sum[:8]), true
}

// Terminator is the single control transfer ending a basic block
type Terminator interface {
	// targets returns the raw successor list, possibly containing nils
	targets() []*BasicBlock
}

// Jump transfers control unconditionally to Target
type Jump struct {
	Target *BasicBlock
}

func (t *Jump) targets() []*BasicBlock { return []*BasicBlock{t.Target} }

// Branch transfers control to Then or Else depending on the Cond register
type Branch struct {
	Cond string
	Then *BasicBlock
	Else *BasicBlock
}

func (t *Branch) targets() []*BasicBlock { return []*BasicBlock{t.Then, t.Else} }

// Switch transfers control to one of Targets selected by the Value register,
// falling back to Default
type Switch struct {
	Value   string
	Targets []*BasicBlock
	Default *BasicBlock
}

func (t *Switch) targets() []*BasicBlock {
	return append(append([]*BasicBlock{}, t.Targets...), t.Default)
}

// Return leaves the function
type Return struct{}

func (t *Return) targets() []*BasicBlock { return nil }

// Unreachable marks a block that control can never leave
type Unreachable struct{}

func (t *Unreachable) targets() []*BasicBlock { return nil }
