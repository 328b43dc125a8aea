package vm

// csr.go defines the control-and-status register file.
//
// It follows the same shape as a named-bit-field status register, widened
// from one sixteen-bit status word to a flat 4096-entry array addressed by
// CSR number.

const numCSR = 4096

// CSRFile is the hart's control-and-status register bank.
type CSRFile [numCSR]uint64

// CSR addresses used by this implementation.
const (
	// Machine-mode CSRs.
	csrMHARTID  = 0xf14
	csrMSTATUS  = 0x300
	csrMEDELEG  = 0x302
	csrMIDELEG  = 0x303
	csrMIE      = 0x304
	csrMTVEC    = 0x305
	csrMSCRATCH = 0x340
	csrMEPC     = 0x341
	csrMCAUSE   = 0x342
	csrMTVAL    = 0x343
	csrMIP      = 0x344

	// Supervisor-mode CSRs.
	csrSSTATUS  = 0x100
	csrSIE      = 0x104
	csrSTVEC    = 0x105
	csrSSCRATCH = 0x140
	csrSEPC     = 0x141
	csrSCAUSE   = 0x142
	csrSTVAL    = 0x143
	csrSIP      = 0x144
	csrSATP     = 0x180
)

// MIP/MIE bit positions.
const (
	mipSSIP = 1 << 1
	mipMSIP = 1 << 3
	mipSTIP = 1 << 5
	mipMTIP = 1 << 7
	mipSEIP = 1 << 9
	mipMEIP = 1 << 11
)

// MSTATUS/SSTATUS bit positions.
const (
	mstatusMIEBit  = 1 << 3
	mstatusMPIEBit = 1 << 7
	mstatusMPPLow  = 11 // two-bit field at [12:11]
	mstatusMPPMask = 0b11 << mstatusMPPLow

	sstatusSIEBit  = 1 << 1
	sstatusSPIEBit = 1 << 5
	sstatusSPPBit  = 1 << 8
)

// satpModeSv39 is the SATP.MODE value that enables Sv39 paging.
const satpModeSv39 = 8

// pageSize is the Sv39 page size in bytes.
const pageSize = 4096

// Load reads a CSR. SIE is an alias into MIE masked by MIDELEG and MHARTID
// always reads zero; every other CSR is plain storage.
func (c *CSRFile) Load(addr uint64) uint64 {
	switch addr {
	case csrSIE:
		return c[csrMIE] & c[csrMIDELEG]
	case csrMHARTID:
		return 0
	default:
		return c[addr&(numCSR-1)]
	}
}

// Store writes a CSR. Writing SIE updates the MIE bits selected by MIDELEG,
// leaving the rest of MIE untouched, and writes to MHARTID are ignored; every
// other CSR is plain storage.
func (c *CSRFile) Store(addr, val uint64) {
	switch addr {
	case csrSIE:
		mideleg := c[csrMIDELEG]
		c[csrMIE] = (c[csrMIE] &^ mideleg) | (val & mideleg)
	case csrMHARTID:
		// Read-only: single-hart model.
	default:
		c[addr&(numCSR-1)] = val
	}
}
