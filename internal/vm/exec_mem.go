package vm

// exec_mem.go implements the load, store, and fence opcode groups.

// iImm assembles the 12-bit sign-extended I-type immediate.
func iImm(raw uint32) uint64 { return Sext(uint64(raw)>>20, 12) }

// sImm assembles the 12-bit sign-extended S-type immediate.
func sImm(raw uint32) uint64 {
	hi := (raw >> 25) & 0x7f
	lo := (raw >> 7) & 0x1f
	return Sext(uint64(hi)<<5|uint64(lo), 12)
}

func (h *Hart) execLoad(d decoded) error {
	addr := h.X.Get(d.rs1) + iImm(d.raw)

	switch d.funct3 {
	case 0x0: // lb
		v, err := h.load8(addr)
		if err != nil {
			return err
		}

		h.X.Set(d.rd, Sext(uint64(v), 8))

		return nil
	case 0x1: // lh
		v, err := h.load16(addr)
		if err != nil {
			return err
		}

		h.X.Set(d.rd, Sext(uint64(v), 16))

		return nil
	case 0x2: // lw
		v, err := h.load32(addr)
		if err != nil {
			return err
		}

		h.X.Set(d.rd, Sext32(v))

		return nil
	case 0x3: // ld
		v, err := h.load64(addr)
		if err != nil {
			return err
		}

		h.X.Set(d.rd, v)

		return nil
	case 0x4: // lbu
		v, err := h.load8(addr)
		if err != nil {
			return err
		}

		h.X.Set(d.rd, uint64(v))

		return nil
	case 0x5: // lhu
		v, err := h.load16(addr)
		if err != nil {
			return err
		}

		h.X.Set(d.rd, uint64(v))

		return nil
	case 0x6: // lwu
		v, err := h.load32(addr)
		if err != nil {
			return err
		}

		h.X.Set(d.rd, uint64(v))

		return nil
	default:
		return NewException(IllegalInstruction)
	}
}

func (h *Hart) execFence(d decoded) error {
	if d.funct3 != 0x0 {
		return NewException(IllegalInstruction)
	}

	return nil
}

func (h *Hart) execStore(d decoded) error {
	addr := h.X.Get(d.rs1) + sImm(d.raw)
	val := h.X.Get(d.rs2)

	switch d.funct3 {
	case 0x0: // sb
		return h.store8(addr, uint8(val))
	case 0x1: // sh
		return h.store16(addr, uint16(val))
	case 0x2: // sw
		return h.store32(addr, uint32(val))
	case 0x3: // sd
		return h.store64(addr, val)
	default:
		return NewException(IllegalInstruction)
	}
}
