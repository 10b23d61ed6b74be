/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: ir_test.go
Description: Unit tests for the program representation. Covers derived
control-flow queries, block identity constants, insertion points, source
location resolution, and JSON round-tripping of whole programs.
*/

package ir_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/kleascm/akaylee-instrument/pkg/ir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// diamond builds entry -> check -> {if.then, if.else} -> if.end
func diamond() *ir.Function {
	entry := &ir.BasicBlock{Label: "entry"}
	check := &ir.BasicBlock{Label: "check"}
	then := &ir.BasicBlock{Label: "if.then"}
	els := &ir.BasicBlock{Label: "if.else"}
	join := &ir.BasicBlock{Label: "if.end"}

	entry.Term = &ir.Jump{Target: check}
	check.Term = &ir.Branch{Cond: "%cmp", Then: then, Else: els}
	then.Term = &ir.Jump{Target: join}
	els.Term = &ir.Jump{Target: join}
	join.Term = &ir.Return{}

	return &ir.Function{Name: "target", Blocks: []*ir.BasicBlock{entry, check, then, els, join}}
}

// TestSuccessorsDerivedFromTerminator tests the on-demand successor queries
func TestSuccessorsDerivedFromTerminator(t *testing.T) {
	fn := diamond()
	check := fn.Block("check")
	join := fn.Block("if.end")

	assert.Len(t, fn.Block("entry").Successors(), 1)
	assert.Len(t, check.Successors(), 2)
	assert.Empty(t, join.Successors())

	succs := check.Successors()
	assert.Equal(t, "if.then", succs[0].Label)
	assert.Equal(t, "if.else", succs[1].Label)
}

// TestSuccessorsSkipNilTargets tests that unset switch targets are dropped
func TestSuccessorsSkipNilTargets(t *testing.T) {
	a := &ir.BasicBlock{Label: "a"}
	b := &ir.BasicBlock{Label: "b"}
	a.Term = &ir.Switch{Value: "%v", Targets: []*ir.BasicBlock{b, nil}, Default: nil}

	succs := a.Successors()
	require.Len(t, succs, 1)
	assert.Equal(t, "b", succs[0].Label)
}

// TestPredecessorsDerived tests predecessor computation over the function
func TestPredecessorsDerived(t *testing.T) {
	fn := diamond()

	assert.Empty(t, fn.Predecessors(fn.Block("entry")))

	preds := fn.Predecessors(fn.Block("if.end"))
	require.Len(t, preds, 2)
	assert.Equal(t, "if.then", preds[0].Label)
	assert.Equal(t, "if.else", preds[1].Label)

	preds = fn.Predecessors(fn.Block("check"))
	require.Len(t, preds, 1)
	assert.Equal(t, "entry", preds[0].Label)
}

// TestBlockAddress tests identity constants: stable, distinct, and refused
// for entry blocks
func TestBlockAddress(t *testing.T) {
	fn := diamond()

	_, ok := ir.BlockAddress(fn, fn.Entry())
	assert.False(t, ok, "entry blocks must refuse address-taking")

	a1, ok := ir.BlockAddress(fn, fn.Block("if.then"))
	require.True(t, ok)
	a2, ok := ir.BlockAddress(fn, fn.Block("if.then"))
	require.True(t, ok)
	assert.Equal(t, a1, a2, "identity must be stable")

	b1, ok := ir.BlockAddress(fn, fn.Block("if.else"))
	require.True(t, ok)
	assert.NotEqual(t, a1, b1, "identity must be block-unique")
}

// TestFirstInsertionPt tests that insertion lands after the phi prefix
func TestFirstInsertionPt(t *testing.T) {
	b := &ir.BasicBlock{Label: "join", Term: &ir.Return{}}
	assert.Equal(t, 0, b.FirstInsertionPt())

	b.Instrs = []*ir.Instr{
		{Op: ir.OpPhi, Result: "%m"},
		{Op: ir.OpPhi, Result: "%n"},
		{Op: ir.OpAdd, Result: "%s", X: "%m", Y: "%n"},
	}
	assert.Equal(t, 2, b.FirstInsertionPt())

	b.InsertAt(b.FirstInsertionPt(), &ir.Instr{Op: ir.OpConst64, Result: "%c", Imm: 7})
	require.Len(t, b.Instrs, 4)
	assert.Equal(t, ir.OpPhi, b.Instrs[0].Op)
	assert.Equal(t, ir.OpPhi, b.Instrs[1].Op)
	assert.Equal(t, ir.OpConst64, b.Instrs[2].Op)
	assert.Equal(t, ir.OpAdd, b.Instrs[3].Op)
}

// TestLocationFilename tests the inlined-at fallback chain
func TestLocationFilename(t *testing.T) {
	loc := &ir.Location{File: "foo.c", Line: 10}
	assert.Equal(t, "foo.c", loc.Filename())

	inlined := &ir.Location{Line: 3, InlinedAt: &ir.Location{File: "caller.c", Line: 42}}
	assert.Equal(t, "caller.c", inlined.Filename())

	empty := &ir.Location{Line: 3, InlinedAt: &ir.Location{Line: 42}}
	assert.Equal(t, "", empty.Filename())
}

// TestDeclareGlobalIdempotent tests repeated symbol declaration
func TestDeclareGlobalIdempotent(t *testing.T) {
	prog := &ir.Program{Name: "unit"}
	g1 := prog.DeclareGlobal("__akaylee_area_ptr", ir.LinkageExternal)
	g2 := prog.DeclareGlobal("__akaylee_area_ptr", ir.LinkageExternal)

	assert.Same(t, g1, g2)
	assert.Len(t, prog.Globals, 1)
	assert.Equal(t, ir.LinkageExternal, g1.Linkage)
}

// TestProgramJSONRoundTrip tests that a program survives encode/decode with
// its control flow relinked
func TestProgramJSONRoundTrip(t *testing.T) {
	fn := diamond()
	fn.Block("if.end").Instrs = []*ir.Instr{{Op: ir.OpPhi, Result: "%m", X: "%a", Y: "%b"}}
	fn.Block("check").Loc = &ir.Location{File: "/src/foo.c", Line: 5}
	prog := &ir.Program{Name: "unit", Functions: []*ir.Function{fn}}
	prog.DeclareGlobal("__akaylee_area_ptr", ir.LinkageExternal)

	var buf bytes.Buffer
	require.NoError(t, ir.EncodeProgram(&buf, prog))

	decoded, err := ir.DecodeProgram(&buf)
	require.NoError(t, err)
	require.Len(t, decoded.Functions, 1)

	dfn := decoded.Functions[0]
	require.Len(t, dfn.Blocks, 5)
	assert.Equal(t, "/src/foo.c", dfn.Block("check").Loc.File)
	assert.Len(t, dfn.Block("if.end").Instrs, 1)
	assert.NotNil(t, decoded.Global("__akaylee_area_ptr"))

	// Terminators must point at the decoded blocks, not labels
	branch, ok := dfn.Block("check").Term.(*ir.Branch)
	require.True(t, ok)
	assert.Same(t, dfn.Block("if.then"), branch.Then)
	assert.Same(t, dfn.Block("if.else"), branch.Else)

	preds := dfn.Predecessors(dfn.Block("if.end"))
	assert.Len(t, preds, 2)
}

// TestDecodeProgramDanglingLabel tests that broken references are rejected
func TestDecodeProgramDanglingLabel(t *testing.T) {
	input := `{
		"name": "broken",
		"functions": [{
			"name": "f",
			"blocks": [{"label": "entry", "term": {"kind": "jump", "targets": ["missing"]}}]
		}]
	}`
	_, err := ir.DecodeProgram(strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}

// TestEncodeProgramMissingTerminator tests that unterminated blocks are rejected
func TestEncodeProgramMissingTerminator(t *testing.T) {
	prog := &ir.Program{
		Name: "broken",
		Functions: []*ir.Function{
			{Name: "f", Blocks: []*ir.BasicBlock{{Label: "entry"}}},
		},
	}
	var buf bytes.Buffer
	err := ir.EncodeProgram(&buf, prog)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "terminator")
}
