package vm

// exec_amo.go implements the atomic-memory-operation opcode group, limited
// to the two operations xv6 actually emits: amoswap and amoadd, each in
// 32-bit (.w) and 64-bit (.d) widths.
//
// These are performed as a plain read-modify-write with no reservation
// tracking: the single-hart model has no outside observer for the
// atomicity to matter to.

const (
	amoFuncSwap = 0x01
	amoFuncAdd  = 0x00
)

func (h *Hart) execAMO(d decoded) error {
	funct5 := d.funct7 >> 2
	addr := h.X.Get(d.rs1)

	switch d.funct3 {
	case 0x2: // .w
		old, err := h.load32(addr)
		if err != nil {
			return err
		}

		rs2 := uint32(h.X.Get(d.rs2))

		var next uint32

		switch funct5 {
		case amoFuncSwap:
			next = rs2
		case amoFuncAdd:
			next = old + rs2
		default:
			return NewException(IllegalInstruction)
		}

		if err := h.store32(addr, next); err != nil {
			return err
		}

		h.X.Set(d.rd, Sext32(old))

		return nil
	case 0x3: // .d
		old, err := h.load64(addr)
		if err != nil {
			return err
		}

		rs2 := h.X.Get(d.rs2)

		var next uint64

		switch funct5 {
		case amoFuncSwap:
			next = rs2
		case amoFuncAdd:
			next = old + rs2
		default:
			return NewException(IllegalInstruction)
		}

		if err := h.store64(addr, next); err != nil {
			return err
		}

		h.X.Set(d.rd, old)

		return nil
	default:
		return NewException(IllegalInstruction)
	}
}
