package vm

// exec_system.go implements the SYSTEM opcode group: ecall, ebreak, sret,
// mret, sfence.vma (no-op here), and the six CSR read-modify-write
// variants.

const (
	sysECALL     = 0x000
	sysEBREAK    = 0x001
	sysSRET      = 0x102
	sysMRET      = 0x302
	sysWFI       = 0x105
	sysSFENCEVMA = 0x09 // top 7 bits of the instruction word (funct7)
)

func (h *Hart) execSystem(d decoded) error {
	switch d.funct3 {
	case 0x0:
		return h.execSystemPriv(d)
	case 0x1: // csrrw
		return h.execCSR(d, func(old, rs1 uint64) (uint64, bool) { return rs1, true })
	case 0x2: // csrrs
		return h.execCSR(d, func(old, rs1 uint64) (uint64, bool) { return old | rs1, d.rs1 != 0 })
	case 0x3: // csrrc
		return h.execCSR(d, func(old, rs1 uint64) (uint64, bool) { return old &^ rs1, d.rs1 != 0 })
	case 0x5: // csrrwi
		return h.execCSRI(d, func(old uint64, uimm uint64) (uint64, bool) { return uimm, true })
	case 0x6: // csrrsi
		return h.execCSRI(d, func(old uint64, uimm uint64) (uint64, bool) { return old | uimm, uimm != 0 })
	case 0x7: // csrrci
		return h.execCSRI(d, func(old uint64, uimm uint64) (uint64, bool) { return old &^ uimm, uimm != 0 })
	default:
		return NewException(IllegalInstruction)
	}
}

func (h *Hart) execSystemPriv(d decoded) error {
	if d.funct7 == sysSFENCEVMA {
		return nil // no-op: this implementation re-derives translations on every access.
	}

	imm12 := (d.raw >> 20) & 0xfff

	switch imm12 {
	case sysECALL:
		switch h.Mode {
		case User:
			return NewException(EnvironmentCallFromUMode)
		case Supervisor:
			return NewException(EnvironmentCallFromSMode)
		default:
			return NewException(EnvironmentCallFromMMode)
		}
	case sysEBREAK:
		return NewException(Breakpoint)
	case sysSRET:
		h.execSRET()
		return nil
	case sysMRET:
		h.execMRET()
		return nil
	case sysWFI:
		return nil // polled, not blocking: the driver loop already checks interrupts every step.
	default:
		return NewException(IllegalInstruction)
	}
}

// execSRET implements the sret instruction: restore the privilege mode
// and interrupt-enable state saved by the trap that led to Supervisor
// mode, then resume at SEPC.
func (h *Hart) execSRET() {
	sstatus := h.CSR.Load(csrSSTATUS)

	if sstatus&sstatusSPPBit != 0 {
		h.Mode = Supervisor
	} else {
		h.Mode = User
	}

	if sstatus&sstatusSPIEBit != 0 {
		sstatus |= sstatusSIEBit
	} else {
		sstatus &^= sstatusSIEBit
	}

	sstatus |= sstatusSPIEBit
	sstatus &^= sstatusSPPBit

	h.CSR.Store(csrSSTATUS, sstatus)
	h.PC = h.CSR.Load(csrSEPC)
}

// execMRET implements the mret instruction: restore the privilege mode
// and interrupt-enable state saved by the trap that led to Machine mode,
// then resume at MEPC. MPP==0b10 is treated as User, since this
// implementation never runs a reserved privilege mode.
func (h *Hart) execMRET() {
	mstatus := h.CSR.Load(csrMSTATUS)
	mpp := (mstatus & mstatusMPPMask) >> mstatusMPPLow

	switch mpp {
	case 0b01:
		h.Mode = Supervisor
	case 0b11:
		h.Mode = Machine
	default:
		h.Mode = User
	}

	if mstatus&mstatusMPIEBit != 0 {
		mstatus |= mstatusMIEBit
	} else {
		mstatus &^= mstatusMIEBit
	}

	mstatus |= mstatusMPIEBit
	mstatus &^= mstatusMPPMask

	h.CSR.Store(csrMSTATUS, mstatus)
	h.PC = h.CSR.Load(csrMEPC)
}

// execCSR implements csrrw/csrrs/csrrc: the new value is computed from the
// CSR's prior value and rs1 by next, which also reports whether a write
// should occur at all (csrrs/csrrc with rs1==x0 read-only).
func (h *Hart) execCSR(d decoded, next func(old, rs1 uint64) (uint64, bool)) error {
	csr := uint64(d.raw>>20) & 0xfff

	old := h.loadCSR(csr)
	rs1 := h.X.Get(d.rs1)

	if val, write := next(old, rs1); write {
		h.storeCSR(csr, val)
	}

	h.X.Set(d.rd, old)

	return nil
}

// execCSRI implements csrrwi/csrrsi/csrrci: the 5-bit rs1 field is a
// zero-extended immediate instead of a register index.
func (h *Hart) execCSRI(d decoded, next func(old, uimm uint64) (uint64, bool)) error {
	csr := uint64(d.raw>>20) & 0xfff
	uimm := uint64(d.rs1)

	old := h.loadCSR(csr)

	if val, write := next(old, uimm); write {
		h.storeCSR(csr, val)
	}

	h.X.Set(d.rd, old)

	return nil
}
