/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: program.go
Description: Program representation for the Akaylee Instrument pass. Defines the
program, function, and global symbol structures that the instrumentation pass
reads and annotates. The representation is owned by the surrounding toolchain;
the pass only appends instructions and declares symbols into it.
*/

package ir

// Linkage describes the visibility of a global symbol
type Linkage int

const (
	// LinkageExternal marks a symbol whose storage is supplied by another
	// component at link time (declared here, allocated elsewhere)
	LinkageExternal Linkage = iota
	// LinkageInternal marks a symbol local to this program
	LinkageInternal
)

// String returns the human-readable linkage name
func (l Linkage) String() string {
	switch l {
	case LinkageExternal:
		return "external"
	case LinkageInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Global represents a declared global symbol in the program.
// The instrumentation pass declares the shared coverage buffer pointer
// as an external global; its storage lives in the target's runtime.
type Global struct {
	Name    string  `json:"name"`    // Symbol name
	Linkage Linkage `json:"linkage"` // Symbol visibility
}

// Program is a collection of functions plus declared global symbols.
// It is mutated in place by the instrumentation pass and never copied.
type Program struct {
	Name      string      `json:"name"`      // Compilation unit name
	Functions []*Function `json:"functions"` // Functions in program order
	Globals   []*Global   `json:"globals"`   // Declared global symbols
}

// Global returns the declared global with the given name, or nil
func (p *Program) Global(name string) *Global {
	for _, g := range p.Globals {
		if g.Name == name {
			return g
		}
	}
	return nil
}

// DeclareGlobal declares a global symbol, returning the existing declaration
// if one with the same name is already present. Declaring is idempotent so a
// pass can safely declare its symbols once per compilation unit.
func (p *Program) DeclareGlobal(name string, linkage Linkage) *Global {
	if g := p.Global(name); g != nil {
		return g
	}
	g := &Global{Name: name, Linkage: linkage}
	p.Globals = append(p.Globals, g)
	return g
}

// Function is an ordered collection of basic blocks with a name.
// The entry block is always Blocks[0].
type Function struct {
	Name   string        `json:"name"`   // Function name
	Blocks []*BasicBlock `json:"blocks"` // Basic blocks in layout order
}

// Entry returns the function's entry block, or nil for a declaration-only
// function with no body
func (f *Function) Entry() *BasicBlock {
	if len(f.Blocks) == 0 {
		return nil
	}
	return f.Blocks[0]
}

// Block returns the block with the given label, or nil
func (f *Function) Block(label string) *BasicBlock {
	for _, b := range f.Blocks {
		if b.Label == label {
			return b
		}
	}
	return nil
}

// Predecessors computes the blocks that can transfer control to b.
// The control-flow graph is not stored: predecessors are derived from
// every block's terminator each time they are needed, so there is no
// separate graph structure to keep consistent while the pass mutates
// the program.
func (f *Function) Predecessors(b *BasicBlock) []*BasicBlock {
	var preds []*BasicBlock
	for _, candidate := range f.Blocks {
		for _, succ := range candidate.Successors() {
			if succ == b {
				preds = append(preds, candidate)
				break
			}
		}
	}
	return preds
}
