package vm

// exec_jump.go implements the two unconditional-jump opcodes, JAL and
// JALR.
//
// Both write the link address as the already-advanced PC (the address of
// the instruction following the jump).

// jImm assembles the 21-bit sign-extended J-type immediate.
func jImm(raw uint32) uint64 {
	b20 := (raw >> 31) & 0x1
	b19_12 := (raw >> 12) & 0xff
	b11 := (raw >> 20) & 0x1
	b10_1 := (raw >> 21) & 0x3ff

	bits := b20<<20 | b19_12<<12 | b11<<11 | b10_1<<1

	return Sext(uint64(bits), 21)
}

func (h *Hart) execJAL(d decoded) error {
	h.X.Set(d.rd, h.PC)
	h.PC = h.PC + jImm(d.raw) - 4

	return nil
}

func (h *Hart) execJALR(d decoded) error {
	if d.funct3 != 0x0 {
		return NewException(IllegalInstruction)
	}

	target := (h.X.Get(d.rs1) + iImm(d.raw)) &^ 1
	h.X.Set(d.rd, h.PC)
	h.PC = target

	return nil
}
