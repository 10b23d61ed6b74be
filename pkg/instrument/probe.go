/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: probe.go
Description: Coverage probe injector for the Akaylee Instrument pass. Appends
a record-and-advance sequence at an eligible block's first insertion point:
the block's identity constant is written at the shared buffer slot named by
the cursor, and the cursor is bumped. An opt-in variant claims the slot with
an atomic fetch-add for multi-threaded targets.
*/

package instrument

import (
	"fmt"

	"github.com/kleascm/akaylee-instrument/pkg/ir"
)

// AreaPtrSymbol is the external global holding the base pointer of the shared
// coverage buffer. The pass declares it; the target's runtime allocates the
// buffer and resolves the symbol before instrumented code runs.
const AreaPtrSymbol = "__akaylee_area_ptr"

// RecordShift converts a cursor value (in 8-byte units) to a byte offset
const RecordShift = 3

// Injector emits coverage probes into eligible blocks. Register names are
// drawn from a monotonically increasing sequence so probes never collide with
// each other or with existing program registers.
type Injector struct {
	atomic bool
	seq    int
}

// NewInjector creates an injector. With atomic set, probes claim their record
// slot with an atomic fetch-add on the cursor instead of the default
// load/add/store sequence.
func NewInjector(atomic bool) *Injector {
	return &Injector{atomic: atomic}
}

func (in *Injector) reg(name string) string {
	in.seq++
	return fmt.Sprintf("%%cov%d.%s", in.seq, name)
}

// Inject appends a probe for b at its first insertion point and returns the
// block's identity constant. The caller has already established eligibility;
// Inject fails only if the block unexpectedly refuses address-taking.
//
// The emitted sequence implements map[map[0]++] = blockaddr:
//
//	base   = load area ptr
//	curp   = base + 0           ; address of the cursor slot
//	cur    = load64 curp
//	off    = cur << 3
//	slot   = base + off
//	store64 blockaddr -> slot
//	store64 cur+1     -> curp
//
// Every memory access is marked nosanitize: the probe is tracing
// infrastructure and must not trip sanitizers or recursively trace itself.
// The cursor update is not synchronized and there is no bounds check; both
// are accepted costs on a path executed at every probe.
func (in *Injector) Inject(fn *ir.Function, b *ir.BasicBlock) (uint64, error) {
	addr, ok := ir.BlockAddress(fn, b)
	if !ok {
		return 0, fmt.Errorf("block %q in %q does not support address-taking", b.Label, fn.Name)
	}

	base := in.reg("base")
	curp := in.reg("curp")
	cur := in.reg("cur")
	off := in.reg("off")
	slot := in.reg("slot")
	id := in.reg("id")

	var probe []*ir.Instr
	if in.atomic {
		probe = []*ir.Instr{
			{Op: ir.OpLoadPtr, Result: base, Sym: AreaPtrSymbol, NoSanitize: true},
			{Op: ir.OpGEP, Result: curp, X: base, Imm: 0},
			{Op: ir.OpAtomicAdd64, Result: cur, X: curp, Imm: 1, NoSanitize: true},
			{Op: ir.OpShl, Result: off, X: cur, Imm: RecordShift},
			{Op: ir.OpGEP, Result: slot, X: base, Y: off},
			{Op: ir.OpConst64, Result: id, Imm: int64(addr)},
			{Op: ir.OpStore64, X: id, Y: slot, NoSanitize: true},
		}
	} else {
		inc := in.reg("inc")
		probe = []*ir.Instr{
			{Op: ir.OpLoadPtr, Result: base, Sym: AreaPtrSymbol, NoSanitize: true},
			{Op: ir.OpGEP, Result: curp, X: base, Imm: 0},
			{Op: ir.OpLoad64, Result: cur, X: curp, NoSanitize: true},
			{Op: ir.OpShl, Result: off, X: cur, Imm: RecordShift},
			{Op: ir.OpGEP, Result: slot, X: base, Y: off},
			{Op: ir.OpConst64, Result: id, Imm: int64(addr)},
			{Op: ir.OpStore64, X: id, Y: slot, NoSanitize: true},
			{Op: ir.OpAdd, Result: inc, X: cur, Imm: 1},
			{Op: ir.OpStore64, X: inc, Y: curp, NoSanitize: true},
		}
	}

	b.InsertAt(b.FirstInsertionPt(), probe...)
	return addr, nil
}
