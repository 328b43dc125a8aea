package vm

import "testing"

// TestSIEMirrorsMIEMasked checks the SIE alias: a read of SIE equals MIE
// masked by MIDELEG, both before and after a write to SIE.
func TestSIEMirrorsMIEMasked(tt *testing.T) {
	var csr CSRFile

	csr.Store(csrMIDELEG, 0b1010_1010)
	csr.Store(csrMIE, 0b1111_0000)

	if got, want := csr.Load(csrSIE), csr.Load(csrMIE)&csr.Load(csrMIDELEG); got != want {
		tt.Errorf("sie: want %#b, got %#b", want, got)
	}

	csr.Store(csrSIE, 0b0000_1111)

	if got, want := csr.Load(csrSIE), csr.Load(csrMIE)&csr.Load(csrMIDELEG); got != want {
		tt.Errorf("sie after write: want %#b, got %#b", want, got)
	}

	// Bits outside MIDELEG must not be touched by a write to SIE: the high
	// nibble keeps MIE's original 1111, masked to the bits MIDELEG clears
	// (0101), and the low nibble takes the written value masked to the bits
	// MIDELEG sets (1010).
	if got, want := csr.Load(csrMIE), uint64(0b1111_0000)&^uint64(0b1010_1010)|uint64(0b0000_1111)&uint64(0b1010_1010); got != want {
		tt.Errorf("mie after sie write: want %#b, got %#b", want, got)
	}
}

func TestMHARTIDReadOnlyZero(tt *testing.T) {
	var csr CSRFile

	csr.Store(csrMHARTID, 0xff)

	if got := csr.Load(csrMHARTID); got != 0 {
		tt.Errorf("mhartid: want 0, got %#x", got)
	}
}

func TestSATPUpdatesPagingState(tt *testing.T) {
	h := newTestHart()

	h.storeCSR(csrSATP, (satpModeSv39<<60)|0x1234)

	if !h.pagingEnabled {
		tt.Error("paging should be enabled after an Sv39 SATP write")
	}

	if want := uint64(0x1234) * pageSize; h.pageTable != want {
		tt.Errorf("page table base: want %#x, got %#x", want, h.pageTable)
	}

	h.storeCSR(csrSATP, 0)

	if h.pagingEnabled {
		tt.Error("paging should be disabled when SATP.MODE != 8")
	}
}
