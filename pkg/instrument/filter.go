/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: filter.go
Description: Block eligibility filter for the Akaylee Instrument pass. Decides
per basic block whether a coverage probe is worth injecting, combining the
source allow-list, a structural redundancy rule over the control-flow graph,
and the block's ability to yield a stable identity constant.
*/

package instrument

import (
	"github.com/kleascm/akaylee-instrument/pkg/ir"
)

// Filter decides which basic blocks receive a coverage probe. It is a pure
// function of the block's structural position and source location; it never
// mutates the program.
type Filter struct {
	allowList AllowList
}

// NewFilter creates a filter with the given allow-list (nil disables the
// location rule)
func NewFilter(list AllowList) *Filter {
	return &Filter{allowList: list}
}

// Eligible reports whether b should be instrumented. Rules are applied in
// order and the first rejection wins: allow-list, structural redundancy,
// addressability.
func (f *Filter) Eligible(fn *ir.Function, b *ir.BasicBlock) bool {
	if !f.allowListed(b) {
		return false
	}
	if !isBranchTarget(fn, b) {
		return false
	}
	_, ok := ir.BlockAddress(fn, b)
	return ok
}

// allowListed applies the location rule. With an empty allow-list every block
// passes. With a non-empty list, a block whose location cannot be resolved at
// all is still eligible: losing coverage silently is worse than instrumenting
// a block of unknown origin.
func (f *Filter) allowListed(b *ir.BasicBlock) bool {
	if f.allowList.Empty() {
		return true
	}
	if b.Loc == nil {
		return true
	}
	filename := b.Loc.Filename()
	if filename == "" {
		return true
	}
	return f.allowList.Matches(filename)
}

// isBranchTarget applies the structural redundancy rule: a block is worth
// instrumenting only if at least one of its direct predecessors had a real
// choice of successor. A block whose every path in comes from a
// single-successor predecessor is implied by that predecessor's execution and
// carries no information; the same goes for a block with no predecessors.
// This rule alone drops roughly 5-10% of otherwise eligible blocks.
func isBranchTarget(fn *ir.Function, b *ir.BasicBlock) bool {
	for _, pred := range fn.Predecessors(b) {
		if distinctSuccessors(pred) > 1 {
			return true
		}
	}
	return false
}

// distinctSuccessors counts a block's distinct successor blocks. A branch
// whose arms both reach the same block offers no real choice and counts one.
func distinctSuccessors(b *ir.BasicBlock) int {
	seen := make(map[*ir.BasicBlock]struct{})
	for _, succ := range b.Successors() {
		seen[succ] = struct{}{}
	}
	return len(seen)
}
