/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: filter_test.go
Description: Unit tests for the block eligibility filter. Pins down the
allow-list semantics (suffix match, inlined-at fallback, unknown-location
default) and the exact one-hop predecessor semantics of the structural
redundancy rule, including the diamond join case.
*/

package instrument_test

import (
	"testing"

	"github.com/kleascm/akaylee-instrument/pkg/instrument"
	"github.com/kleascm/akaylee-instrument/pkg/ir"
	"github.com/stretchr/testify/assert"
)

// diamond builds entry -> check -> {if.then, if.else} -> if.end with source
// locations on the arms
func diamond() *ir.Function {
	entry := &ir.BasicBlock{Label: "entry", Loc: &ir.Location{File: "/src/path/foo.c", Line: 1}}
	check := &ir.BasicBlock{Label: "check", Loc: &ir.Location{File: "/src/path/foo.c", Line: 5}}
	then := &ir.BasicBlock{Label: "if.then", Loc: &ir.Location{File: "/src/path/foo.c", Line: 6}}
	els := &ir.BasicBlock{Label: "if.else", Loc: &ir.Location{File: "/src/path/bar.c", Line: 8}}
	join := &ir.BasicBlock{Label: "if.end", Loc: &ir.Location{File: "/src/path/foo.c", Line: 10}}

	entry.Term = &ir.Jump{Target: check}
	check.Term = &ir.Branch{Cond: "%cmp", Then: then, Else: els}
	then.Term = &ir.Jump{Target: join}
	els.Term = &ir.Jump{Target: join}
	join.Term = &ir.Return{}

	return &ir.Function{Name: "target", Blocks: []*ir.BasicBlock{entry, check, then, els, join}}
}

// TestEntryBlockNeverEligible tests that blocks without predecessors are
// always rejected
func TestEntryBlockNeverEligible(t *testing.T) {
	fn := diamond()
	filter := instrument.NewFilter(nil)

	assert.False(t, filter.Eligible(fn, fn.Block("entry")))
}

// TestSoleSuccessorRejected tests that a block whose only predecessor has a
// single successor is redundant
func TestSoleSuccessorRejected(t *testing.T) {
	fn := diamond()
	filter := instrument.NewFilter(nil)

	// check's only predecessor is entry, which jumps unconditionally
	assert.False(t, filter.Eligible(fn, fn.Block("check")))
}

// TestBranchTargetsAccepted tests that blocks reached through a real branch
// are selected
func TestBranchTargetsAccepted(t *testing.T) {
	fn := diamond()
	filter := instrument.NewFilter(nil)

	assert.True(t, filter.Eligible(fn, fn.Block("if.then")))
	assert.True(t, filter.Eligible(fn, fn.Block("if.else")))
}

// TestDiamondJoinRejected pins the one-hop predecessor semantics: the join
// of a diamond is rejected because its direct predecessors each have exactly
// one successor, even though their common ancestor branched
func TestDiamondJoinRejected(t *testing.T) {
	fn := diamond()
	filter := instrument.NewFilter(nil)

	assert.False(t, filter.Eligible(fn, fn.Block("if.end")))
}

// TestBranchWithIdenticalArmsRejected tests that a branch whose arms reach
// the same block offers no real choice
func TestBranchWithIdenticalArmsRejected(t *testing.T) {
	entry := &ir.BasicBlock{Label: "entry"}
	check := &ir.BasicBlock{Label: "check"}
	next := &ir.BasicBlock{Label: "next"}
	entry.Term = &ir.Jump{Target: check}
	check.Term = &ir.Branch{Cond: "%c", Then: next, Else: next}
	next.Term = &ir.Return{}
	fn := &ir.Function{Name: "degenerate", Blocks: []*ir.BasicBlock{entry, check, next}}

	filter := instrument.NewFilter(nil)
	assert.False(t, filter.Eligible(fn, fn.Block("next")))
}

// TestSwitchTargetsAccepted tests that switch targets count as branch targets
func TestSwitchTargetsAccepted(t *testing.T) {
	entry := &ir.BasicBlock{Label: "entry"}
	dispatch := &ir.BasicBlock{Label: "dispatch"}
	caseA := &ir.BasicBlock{Label: "case.a"}
	caseB := &ir.BasicBlock{Label: "case.b"}
	done := &ir.BasicBlock{Label: "done"}
	entry.Term = &ir.Jump{Target: dispatch}
	dispatch.Term = &ir.Switch{Value: "%v", Targets: []*ir.BasicBlock{caseA, caseB}, Default: done}
	caseA.Term = &ir.Jump{Target: done}
	caseB.Term = &ir.Jump{Target: done}
	done.Term = &ir.Return{}
	fn := &ir.Function{Name: "switcher", Blocks: []*ir.BasicBlock{entry, dispatch, caseA, caseB, done}}

	filter := instrument.NewFilter(nil)
	assert.True(t, filter.Eligible(fn, caseA))
	assert.True(t, filter.Eligible(fn, caseB))
	// done is also a switch default, so it is a branch target too
	assert.True(t, filter.Eligible(fn, done))
}

// TestAllowListSuffixMatch tests that full paths match bare-name entries
func TestAllowListSuffixMatch(t *testing.T) {
	fn := diamond()
	filter := instrument.NewFilter(instrument.AllowList{"foo.c"})

	// if.then resolved to /src/path/foo.c: suffix matches
	assert.True(t, filter.Eligible(fn, fn.Block("if.then")))
	// if.else resolved to /src/path/bar.c: rejected outright
	assert.False(t, filter.Eligible(fn, fn.Block("if.else")))
}

// TestAllowListUnknownLocationEligible tests the conservative default for
// blocks with no resolvable location
func TestAllowListUnknownLocationEligible(t *testing.T) {
	fn := diamond()
	fn.Block("if.then").Loc = nil
	filter := instrument.NewFilter(instrument.AllowList{"nothing-matches.c"})

	assert.True(t, filter.Eligible(fn, fn.Block("if.then")))
}

// TestAllowListInlinedAtFallback tests filename resolution through the
// inlining chain
func TestAllowListInlinedAtFallback(t *testing.T) {
	fn := diamond()
	fn.Block("if.then").Loc = &ir.Location{Line: 2, InlinedAt: &ir.Location{File: "/inc/foo.c", Line: 40}}
	fn.Block("if.else").Loc = &ir.Location{Line: 2, InlinedAt: &ir.Location{File: "/inc/bar.c", Line: 41}}
	filter := instrument.NewFilter(instrument.AllowList{"foo.c"})

	assert.True(t, filter.Eligible(fn, fn.Block("if.then")))
	assert.False(t, filter.Eligible(fn, fn.Block("if.else")))
}

// TestAllowListEmptyFilenameEligible tests that a location whose whole chain
// lacks a filename falls back to eligible
func TestAllowListEmptyFilenameEligible(t *testing.T) {
	fn := diamond()
	fn.Block("if.then").Loc = &ir.Location{Line: 2}
	filter := instrument.NewFilter(instrument.AllowList{"foo.c"})

	assert.True(t, filter.Eligible(fn, fn.Block("if.then")))
}

// TestAllowListRejectionShortCircuits tests that a rejected location skips
// the structural rules entirely: even a perfect branch target is rejected
func TestAllowListRejectionShortCircuits(t *testing.T) {
	fn := diamond()
	filter := instrument.NewFilter(instrument.AllowList{"baz.c"})

	assert.False(t, filter.Eligible(fn, fn.Block("if.then")))
	assert.False(t, filter.Eligible(fn, fn.Block("if.else")))
}
