package vm

import (
	"testing"
)

func newTestHart() *Hart {
	bus := NewBus(NewRAM(), NewCLINT(), NewPLIC(), NewUART(nil, nil), NewVIRTIO(make([]byte, 4096)))
	return New(bus)
}

// step writes one pre-encoded instruction word at the hart's current PC,
// then single-steps it, the same fetch/advance/execute sequence Run uses.
func step(tt *testing.T, h *Hart, instr uint32) error {
	tt.Helper()

	if err := h.Bus.Store32(h.PC, instr); err != nil {
		tt.Fatalf("store instruction: %v", err)
	}

	fetched, err := h.fetch()
	if err != nil {
		return err
	}

	h.PC += 4

	return h.execute(fetched)
}

// TestADDIThenADD adds two immediates into separate registers and sums
// them into a third.
func TestADDIThenADD(tt *testing.T) {
	h := newTestHart()
	start := h.PC

	if err := step(tt, h, iAddi(1, 0, 5)); err != nil {
		tt.Fatalf("addi: %v", err)
	}

	if err := step(tt, h, iAddi(2, 0, 7)); err != nil {
		tt.Fatalf("addi: %v", err)
	}

	if err := step(tt, h, iAdd(3, 1, 2)); err != nil {
		tt.Fatalf("add: %v", err)
	}

	if got := h.X.Get(1); got != 5 {
		tt.Errorf("x1: want 5, got %d", got)
	}

	if got := h.X.Get(2); got != 7 {
		tt.Errorf("x2: want 7, got %d", got)
	}

	if got := h.X.Get(3); got != 12 {
		tt.Errorf("x3: want 12, got %d", got)
	}

	if h.PC != start+12 {
		tt.Errorf("pc: want %#x, got %#x", start+12, h.PC)
	}
}

// TestAUIPC checks that auipc computes relative to the instruction's own
// address, not the already-advanced PC.
func TestAUIPC(tt *testing.T) {
	h := newTestHart()
	h.PC = 0x8000_0000

	if err := step(tt, h, iAUIPC(5, 0x1000)); err != nil {
		tt.Fatalf("auipc: %v", err)
	}

	if want := uint64(0x8000_1000); h.X.Get(5) != want {
		tt.Errorf("x5: want %#x, got %#x", want, h.X.Get(5))
	}
}

// TestJALForward checks the link register and target of a short forward
// jump.
func TestJALForward(tt *testing.T) {
	h := newTestHart()
	p := h.PC

	if err := step(tt, h, iJAL(1, 8)); err != nil {
		tt.Fatalf("jal: %v", err)
	}

	if want := p + 4; h.X.Get(1) != want {
		tt.Errorf("x1: want %#x, got %#x", want, h.X.Get(1))
	}

	if want := p + 8; h.PC != want {
		tt.Errorf("pc: want %#x, got %#x", want, h.PC)
	}
}

// TestLittleEndianWordStoreLoad round-trips a doubleword through RAM and
// checks the byte order in memory.
func TestLittleEndianWordStoreLoad(tt *testing.T) {
	h := newTestHart()

	h.X.Set(1, 0x0102_0304_0506_0708)
	h.X.Set(2, RAMBase+0x100)

	if err := step(tt, h, iSD(2, 1, 0)); err != nil {
		tt.Fatalf("sd: %v", err)
	}

	if err := step(tt, h, iLD(3, 2, 0)); err != nil {
		tt.Fatalf("ld: %v", err)
	}

	if want := uint64(0x0102_0304_0506_0708); h.X.Get(3) != want {
		tt.Errorf("x3: want %#x, got %#x", want, h.X.Get(3))
	}

	b, err := h.Bus.Load8(RAMBase + 0x100)
	if err != nil {
		tt.Fatalf("load8: %v", err)
	}

	if b != 0x08 {
		tt.Errorf("byte at base: want 0x08, got %#x", b)
	}
}

// TestCSRRoundTrip swaps MSCRATCH with a register twice via csrrw.
func TestCSRRoundTrip(tt *testing.T) {
	h := newTestHart()

	h.CSR.Store(csrMSCRATCH, 0xaaaa)
	h.X.Set(2, 0xbbbb)

	if err := step(tt, h, iCSRRW(1, csrMSCRATCH, 2)); err != nil {
		tt.Fatalf("csrrw: %v", err)
	}

	if h.X.Get(1) != 0xaaaa {
		tt.Errorf("x1: want 0xaaaa, got %#x", h.X.Get(1))
	}

	if h.CSR.Load(csrMSCRATCH) != 0xbbbb {
		tt.Errorf("mscratch: want 0xbbbb, got %#x", h.CSR.Load(csrMSCRATCH))
	}

	if err := step(tt, h, iCSRRW(1, csrMSCRATCH, 2)); err != nil {
		tt.Fatalf("csrrw: %v", err)
	}

	if h.X.Get(1) != 0xbbbb {
		tt.Errorf("x1: want 0xbbbb, got %#x", h.X.Get(1))
	}

	if h.CSR.Load(csrMSCRATCH) != 0xbbbb {
		tt.Errorf("mscratch: want 0xbbbb, got %#x", h.CSR.Load(csrMSCRATCH))
	}
}

// TestECALLFromUModeIsDelegated checks that an ecall from User mode with
// the matching MEDELEG bit set lands in Supervisor mode at STVEC. It runs
// the full fetch/execute/deliver sequence Run uses, since execute alone
// returns the trap rather than delivering it.
func TestECALLFromUModeIsDelegated(tt *testing.T) {
	h := newTestHart()
	h.Mode = User

	h.CSR.Store(csrMEDELEG, 1<<8)
	h.CSR.Store(csrSTVEC, 0x8000_2000)

	pc := h.PC

	if err := h.Bus.Store32(h.PC, iECALL()); err != nil {
		tt.Fatalf("store: %v", err)
	}

	fetched, err := h.fetch()
	if err != nil {
		tt.Fatalf("fetch: %v", err)
	}

	h.PC += 4

	execErr := h.execute(fetched)

	trap, ok := execErr.(Trap)
	if !ok {
		tt.Fatalf("expected a Trap, got %T: %v", execErr, execErr)
	}

	Deliver(h, trap)

	if h.Mode != Supervisor {
		tt.Errorf("mode: want Supervisor, got %s", h.Mode)
	}

	if h.CSR.Load(csrSEPC) != pc {
		tt.Errorf("sepc: want %#x, got %#x", pc, h.CSR.Load(csrSEPC))
	}

	if h.CSR.Load(csrSCAUSE) != 8 {
		tt.Errorf("scause: want 8, got %d", h.CSR.Load(csrSCAUSE))
	}

	if h.PC != 0x8000_2000 {
		tt.Errorf("pc: want stvec (%#x), got %#x", 0x8000_2000, h.PC)
	}
}

// TestZeroRegisterInvariant checks that x0 reads as zero after any
// executed instruction, even one that names x0 as its destination.
func TestZeroRegisterInvariant(tt *testing.T) {
	h := newTestHart()

	if err := step(tt, h, iAddi(0, 0, 5)); err != nil {
		tt.Fatalf("addi: %v", err)
	}

	if h.X.Get(0) != 0 {
		tt.Errorf("x0: want 0, got %d", h.X.Get(0))
	}
}
