package vm

// opcode.go names the major opcode field RV64I/M/A instructions are
// dispatched on.
//
//go:generate stringer -type Opcode -output opcode_string.go

// Opcode is the 7-bit major opcode field of an instruction word.
type Opcode uint32

// Major opcodes used by this implementation's subset of RV64IMA.
const (
	OpLoad   Opcode = 0x03
	OpFence  Opcode = 0x0f
	OpImm    Opcode = 0x13
	OpAUIPC  Opcode = 0x17
	OpImm32  Opcode = 0x1b
	OpStore  Opcode = 0x23
	OpAMO    Opcode = 0x2f
	OpOp     Opcode = 0x33
	OpLUI    Opcode = 0x37
	OpOp32   Opcode = 0x3b
	OpBranch Opcode = 0x63
	OpJALR   Opcode = 0x67
	OpJAL    Opcode = 0x6f
	OpSystem Opcode = 0x73
)
