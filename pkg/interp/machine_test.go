/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: machine_test.go
Description: Unit tests for the register machine. Covers individual
instruction semantics, memory bounds behavior, global symbol resolution,
and control-flow edge validation during path execution.
*/

package interp_test

import (
	"testing"

	"github.com/kleascm/akaylee-instrument/pkg/interp"
	"github.com/kleascm/akaylee-instrument/pkg/ir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMachineArithmetic tests const, shl, and add semantics
func TestMachineArithmetic(t *testing.T) {
	m := interp.NewMachine(64)

	require.NoError(t, m.Exec(&ir.Instr{Op: ir.OpConst64, Result: "%a", Imm: 5}))
	require.NoError(t, m.Exec(&ir.Instr{Op: ir.OpShl, Result: "%b", X: "%a", Imm: 3}))
	assert.Equal(t, uint64(40), m.Reg("%b"))

	require.NoError(t, m.Exec(&ir.Instr{Op: ir.OpAdd, Result: "%c", X: "%b", Imm: 2}))
	assert.Equal(t, uint64(42), m.Reg("%c"))

	require.NoError(t, m.Exec(&ir.Instr{Op: ir.OpAdd, Result: "%d", X: "%a", Y: "%c"}))
	assert.Equal(t, uint64(47), m.Reg("%d"))
}

// TestMachineMemory tests 64-bit load/store round-trips through registers
func TestMachineMemory(t *testing.T) {
	m := interp.NewMachine(64)
	m.BindGlobal("__akaylee_area_ptr", 0)

	require.NoError(t, m.Exec(&ir.Instr{Op: ir.OpLoadPtr, Result: "%base", Sym: "__akaylee_area_ptr"}))
	require.NoError(t, m.Exec(&ir.Instr{Op: ir.OpGEP, Result: "%p", X: "%base", Imm: 16}))
	require.NoError(t, m.Exec(&ir.Instr{Op: ir.OpConst64, Result: "%v", Imm: 0xdead}))
	require.NoError(t, m.Exec(&ir.Instr{Op: ir.OpStore64, X: "%v", Y: "%p"}))

	require.NoError(t, m.Exec(&ir.Instr{Op: ir.OpLoad64, Result: "%r", X: "%p"}))
	assert.Equal(t, uint64(0xdead), m.Reg("%r"))
	assert.Equal(t, uint64(0xdead), m.Slot(2))
}

// TestMachineAtomicAdd tests fetch-add semantics: result is the old value
func TestMachineAtomicAdd(t *testing.T) {
	m := interp.NewMachine(64)
	require.NoError(t, m.Store64(0, 7))

	require.NoError(t, m.Exec(&ir.Instr{Op: ir.OpConst64, Result: "%p", Imm: 0}))
	require.NoError(t, m.Exec(&ir.Instr{Op: ir.OpAtomicAdd64, Result: "%old", X: "%p", Imm: 1}))

	assert.Equal(t, uint64(7), m.Reg("%old"))
	assert.Equal(t, uint64(8), m.Cursor())
}

// TestMachinePhiSkipped tests that phis execute as metadata
func TestMachinePhiSkipped(t *testing.T) {
	m := interp.NewMachine(8)
	require.NoError(t, m.Exec(&ir.Instr{Op: ir.OpPhi, Result: "%m", X: "%a", Y: "%b"}))
	assert.Equal(t, uint64(0), m.Reg("%m"))
}

// TestMachineUnresolvedGlobal tests the link-time contract: an unbound
// symbol fails execution
func TestMachineUnresolvedGlobal(t *testing.T) {
	m := interp.NewMachine(8)
	err := m.Exec(&ir.Instr{Op: ir.OpLoadPtr, Result: "%b", Sym: "__missing"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unresolved global")
}

// TestMachineUnwrittenRegister tests that reads of never-written registers
// are diagnosed rather than silently zero
func TestMachineUnwrittenRegister(t *testing.T) {
	m := interp.NewMachine(8)
	err := m.Exec(&ir.Instr{Op: ir.OpAdd, Result: "%r", X: "%ghost", Imm: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unwritten register")
}

// TestMachineOutOfRangeStore tests that wild writes fail the machine the
// way they would crash a real target
func TestMachineOutOfRangeStore(t *testing.T) {
	m := interp.NewMachine(16)
	err := m.Store64(16, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds region")

	// Storing the last full slot still works
	assert.NoError(t, m.Store64(8, 1))
}

// TestExecPathValidatesEdges tests that only real control-flow edges may be
// walked
func TestExecPathValidatesEdges(t *testing.T) {
	entry := &ir.BasicBlock{Label: "entry"}
	a := &ir.BasicBlock{Label: "a"}
	b := &ir.BasicBlock{Label: "b"}
	entry.Term = &ir.Jump{Target: a}
	a.Term = &ir.Return{}
	b.Term = &ir.Return{}
	fn := &ir.Function{Name: "f", Blocks: []*ir.BasicBlock{entry, a, b}}

	m := interp.NewMachine(8)
	require.NoError(t, m.ExecPath(fn, "entry", "a"))

	err := m.ExecPath(fn, "entry", "b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no edge")

	err = m.ExecPath(fn, "entry", "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no block")
}
