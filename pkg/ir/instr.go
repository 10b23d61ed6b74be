/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: instr.go
Description: Instruction set for the Akaylee Instrument program representation.
Covers the small register-machine vocabulary the coverage probes are built
from: global pointer loads, address arithmetic, 64-bit memory traffic, and an
atomic fetch-add for the optional synchronized cursor variant.
*/

package ir

// Op identifies an instruction kind
type Op string

const (
	// OpPhi is block-entry metadata merging values from predecessors.
	// Phis always form a leading prefix of a block's instructions.
	OpPhi Op = "phi"
	// OpConst64 materializes the 64-bit immediate Imm into Result
	OpConst64 Op = "const64"
	// OpLoadPtr loads the pointer value of the global symbol Sym into Result
	OpLoadPtr Op = "loadptr"
	// OpGEP computes Result = X + Y (register) or Result = X + Imm when Y
	// is empty; pointer arithmetic in bytes
	OpGEP Op = "gep"
	// OpLoad64 loads the 64-bit value at address register X into Result
	OpLoad64 Op = "load64"
	// OpStore64 stores the value register X to the address register Y
	OpStore64 Op = "store64"
	// OpShl computes Result = X << Imm
	OpShl Op = "shl"
	// OpAdd computes Result = X + Y (register) or Result = X + Imm when Y
	// is empty
	OpAdd Op = "add"
	// OpAtomicAdd64 atomically adds Imm to the 64-bit value at address
	// register X and places the previous value in Result
	OpAtomicAdd64 Op = "atomicadd64"
)

// Instr is a single instruction. Operand meaning depends on Op; unused
// fields are left zero. Result names a virtual register, unique within the
// enclosing function.
type Instr struct {
	Op         Op     `json:"op"`                   // Instruction kind
	Result     string `json:"result,omitempty"`     // Destination register, "" for stores
	Sym        string `json:"sym,omitempty"`        // Global symbol operand (OpLoadPtr)
	X          string `json:"x,omitempty"`          // First register operand
	Y          string `json:"y,omitempty"`          // Second register operand
	Imm        int64  `json:"imm,omitempty"`        // Immediate operand
	NoSanitize bool   `json:"no_sanitize,omitempty"` // Exempt from sanitizer instrumentation
}
