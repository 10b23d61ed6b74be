/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: machine.go
Description: Small register machine for the Akaylee Instrument toolchain.
Executes instruction sequences from the program representation against a
byte-addressable coverage region, standing in for the instrumented target's
runtime so generated probes can be validated end to end.
*/

package interp

import (
	"encoding/binary"
	"fmt"

	"github.com/kleascm/akaylee-instrument/pkg/ir"
)

// Machine executes instructions against a flat memory region. Addresses are
// byte offsets into the region; 64-bit values are little-endian. Globals map
// symbol names to pointer values, mirroring the link step that resolves the
// declared buffer symbol to real storage.
type Machine struct {
	mem     []byte
	globals map[string]uint64
	regs    map[string]uint64
}

// NewMachine creates a machine with a memory region of size bytes
func NewMachine(size int) *Machine {
	return &Machine{
		mem:     make([]byte, size),
		globals: make(map[string]uint64),
		regs:    make(map[string]uint64),
	}
}

// BindGlobal resolves a global symbol to a pointer value. The coverage buffer
// symbol is typically bound to 0, the base of the region.
func (m *Machine) BindGlobal(sym string, addr uint64) {
	m.globals[sym] = addr
}

// Load64 reads the 64-bit value at the byte address addr
func (m *Machine) Load64(addr uint64) (uint64, error) {
	if addr+8 > uint64(len(m.mem)) {
		return 0, fmt.Errorf("load of 8 bytes at %d exceeds region of %d bytes", addr, len(m.mem))
	}
	return binary.LittleEndian.Uint64(m.mem[addr:]), nil
}

// Store64 writes a 64-bit value at the byte address addr. A store past the
// region fails the machine the way a wild write would crash a real target:
// the generated probes carry no bounds check of their own.
func (m *Machine) Store64(addr, val uint64) error {
	if addr+8 > uint64(len(m.mem)) {
		return fmt.Errorf("store of 8 bytes at %d exceeds region of %d bytes", addr, len(m.mem))
	}
	binary.LittleEndian.PutUint64(m.mem[addr:], val)
	return nil
}

// Cursor returns the value of slot 0, the record cursor
func (m *Machine) Cursor() uint64 {
	v, _ := m.Load64(0)
	return v
}

// Slot returns the 64-bit value of the i-th slot of the region
func (m *Machine) Slot(i int) uint64 {
	v, _ := m.Load64(uint64(i) * 8)
	return v
}

// Reg returns the current value of a register (zero if never written)
func (m *Machine) Reg(name string) uint64 {
	return m.regs[name]
}

// SetReg writes a register directly, for seeding branch conditions
func (m *Machine) SetReg(name string, val uint64) {
	m.regs[name] = val
}

func (m *Machine) operand(reg string, imm int64) (uint64, error) {
	if reg == "" {
		return uint64(imm), nil
	}
	v, ok := m.regs[reg]
	if !ok {
		return 0, fmt.Errorf("read of unwritten register %s", reg)
	}
	return v, nil
}

// Exec executes a single instruction. Phis are block-entry metadata and are
// skipped; the nosanitize mark is sanitizer metadata with no semantics here.
func (m *Machine) Exec(instr *ir.Instr) error {
	switch instr.Op {
	case ir.OpPhi:
		return nil

	case ir.OpConst64:
		m.regs[instr.Result] = uint64(instr.Imm)
		return nil

	case ir.OpLoadPtr:
		addr, ok := m.globals[instr.Sym]
		if !ok {
			return fmt.Errorf("unresolved global symbol %s", instr.Sym)
		}
		m.regs[instr.Result] = addr
		return nil

	case ir.OpGEP:
		base, err := m.operand(instr.X, 0)
		if err != nil {
			return err
		}
		off, err := m.operand(instr.Y, instr.Imm)
		if err != nil {
			return err
		}
		m.regs[instr.Result] = base + off
		return nil

	case ir.OpLoad64:
		addr, err := m.operand(instr.X, 0)
		if err != nil {
			return err
		}
		v, err := m.Load64(addr)
		if err != nil {
			return err
		}
		m.regs[instr.Result] = v
		return nil

	case ir.OpStore64:
		val, err := m.operand(instr.X, 0)
		if err != nil {
			return err
		}
		addr, err := m.operand(instr.Y, 0)
		if err != nil {
			return err
		}
		return m.Store64(addr, val)

	case ir.OpShl:
		x, err := m.operand(instr.X, 0)
		if err != nil {
			return err
		}
		m.regs[instr.Result] = x << uint(instr.Imm)
		return nil

	case ir.OpAdd:
		x, err := m.operand(instr.X, 0)
		if err != nil {
			return err
		}
		y, err := m.operand(instr.Y, instr.Imm)
		if err != nil {
			return err
		}
		m.regs[instr.Result] = x + y
		return nil

	case ir.OpAtomicAdd64:
		addr, err := m.operand(instr.X, 0)
		if err != nil {
			return err
		}
		old, err := m.Load64(addr)
		if err != nil {
			return err
		}
		if err := m.Store64(addr, old+uint64(instr.Imm)); err != nil {
			return err
		}
		m.regs[instr.Result] = old
		return nil

	default:
		return fmt.Errorf("unknown instruction op %q", instr.Op)
	}
}

// ExecBlock executes every instruction of a block body in order. The
// terminator is not executed; control flow is driven by the caller.
func (m *Machine) ExecBlock(b *ir.BasicBlock) error {
	for _, instr := range b.Instrs {
		if err := m.Exec(instr); err != nil {
			return fmt.Errorf("block %q: %w", b.Label, err)
		}
	}
	return nil
}

// ExecPath executes the named blocks of fn in order, verifying that each
// step follows a real control-flow edge. This reproduces one concrete
// execution of the function, which is exactly what a coverage probe records.
func (m *Machine) ExecPath(fn *ir.Function, labels ...string) error {
	var prev *ir.BasicBlock
	for _, label := range labels {
		b := fn.Block(label)
		if b == nil {
			return fmt.Errorf("function %q has no block %q", fn.Name, label)
		}
		if prev != nil && !isEdge(prev, b) {
			return fmt.Errorf("no edge from %q to %q in %q", prev.Label, b.Label, fn.Name)
		}
		if err := m.ExecBlock(b); err != nil {
			return err
		}
		prev = b
	}
	return nil
}

func isEdge(from, to *ir.BasicBlock) bool {
	for _, succ := range from.Successors() {
		if succ == to {
			return true
		}
	}
	return false
}
