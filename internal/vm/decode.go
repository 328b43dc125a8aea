package vm

// decode.go extracts the fixed-position fields every RV64 instruction
// encoding shares, leaving format-specific immediate assembly to the
// exec_*.go file that handles each opcode group.

type decoded struct {
	raw    uint32
	opcode Opcode
	rd     uint32
	rs1    uint32
	rs2    uint32
	funct3 uint32
	funct7 uint32
}

func decode(raw uint32) decoded {
	return decoded{
		raw:    raw,
		opcode: Opcode(raw & 0x7f),
		rd:     (raw >> 7) & 0x1f,
		rs1:    (raw >> 15) & 0x1f,
		rs2:    (raw >> 20) & 0x1f,
		funct3: (raw >> 12) & 0x7,
		funct7: (raw >> 25) & 0x7f,
	}
}

// execute decodes and runs one instruction, mutating the hart's register
// file, CSRs, and PC in place. The caller must already have advanced PC
// past the instruction being executed; every pc-relative computation in
// the exec_*.go files subtracts those 4 bytes back out.
func (h *Hart) execute(raw uint32) error {
	h.X.Set(0, 0)

	d := decode(raw)

	switch d.opcode {
	case OpLoad:
		return h.execLoad(d)
	case OpFence:
		return h.execFence(d)
	case OpImm:
		return h.execImm(d)
	case OpAUIPC:
		return h.execAUIPC(d)
	case OpImm32:
		return h.execImm32(d)
	case OpStore:
		return h.execStore(d)
	case OpAMO:
		return h.execAMO(d)
	case OpOp:
		return h.execOp(d)
	case OpLUI:
		return h.execLUI(d)
	case OpOp32:
		return h.execOp32(d)
	case OpBranch:
		return h.execBranch(d)
	case OpJALR:
		return h.execJALR(d)
	case OpJAL:
		return h.execJAL(d)
	case OpSystem:
		return h.execSystem(d)
	default:
		return NewException(IllegalInstruction)
	}
}
