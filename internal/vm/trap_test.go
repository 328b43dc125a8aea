package vm

import "testing"

// TestMRETRestoresMachineState checks that mret pops the mode and
// interrupt-enable state a machine trap stacked.
func TestMRETRestoresMachineState(tt *testing.T) {
	h := newTestHart()

	h.CSR.Store(csrMEPC, RAMBase+0x40)
	h.CSR.Store(csrMSTATUS, mstatusMPIEBit) // MPP=00 (User), MPIE=1, MIE=0

	if err := step(tt, h, iMRET()); err != nil {
		tt.Fatalf("mret: %v", err)
	}

	if h.Mode != User {
		tt.Errorf("mode: want User, got %s", h.Mode)
	}

	if h.PC != RAMBase+0x40 {
		tt.Errorf("pc: want mepc, got %#x", h.PC)
	}

	mstatus := h.CSR.Load(csrMSTATUS)

	if mstatus&mstatusMIEBit == 0 {
		tt.Error("MIE should be restored from MPIE")
	}

	if mstatus&mstatusMPIEBit == 0 {
		tt.Error("MPIE should read 1 after mret")
	}
}

// TestSRETRestoresSupervisorState checks the supervisor-side return path.
func TestSRETRestoresSupervisorState(tt *testing.T) {
	h := newTestHart()
	h.Mode = Supervisor

	h.CSR.Store(csrSEPC, RAMBase+0x80)
	h.CSR.Store(csrSSTATUS, sstatusSPPBit|sstatusSPIEBit)

	if err := step(tt, h, iSRET()); err != nil {
		tt.Fatalf("sret: %v", err)
	}

	if h.Mode != Supervisor {
		tt.Errorf("mode: want Supervisor (SPP=1), got %s", h.Mode)
	}

	if h.PC != RAMBase+0x80 {
		tt.Errorf("pc: want sepc, got %#x", h.PC)
	}

	sstatus := h.CSR.Load(csrSSTATUS)

	if sstatus&sstatusSIEBit == 0 {
		tt.Error("SIE should be restored from SPIE")
	}

	if sstatus&sstatusSPPBit != 0 {
		tt.Error("SPP should read 0 after sret")
	}
}

// TestUARTInterruptReachesClaimRegister checks the poll path: a pending
// UART byte becomes a supervisor external interrupt, with the IRQ number
// parked in the PLIC claim register for the guest's handler to read.
func TestUARTInterruptReachesClaimRegister(tt *testing.T) {
	h := newTestHart()

	h.CSR.Store(csrMSTATUS, mstatusMIEBit)
	h.CSR.Store(csrMIE, mipSEIP)

	h.Bus.UART.interrupt.Store(true)

	trap, ok, err := h.checkPendingInterrupt()
	if err != nil {
		tt.Fatalf("checkPendingInterrupt: %v", err)
	}

	if !ok {
		tt.Fatal("expected a pending interrupt")
	}

	if !trap.IsInterrupt || trap.Interrupt != SupervisorExternalInterrupt {
		tt.Errorf("want supervisor external interrupt, got %s", trap)
	}

	claim, loadErr := h.Bus.PLIC.Load(plicSClaim, 4)
	if loadErr != nil {
		tt.Fatalf("load sclaim: %v", loadErr)
	}

	if claim != UARTIRQ {
		tt.Errorf("sclaim: want %d, got %d", UARTIRQ, claim)
	}

	if h.CSR.Load(csrMIP)&mipSEIP != 0 {
		tt.Error("SEIP should be cleared once the interrupt is returned")
	}
}

// TestInterruptCauseHasSignBit checks the cause encoding the delivery
// routine writes for asynchronous traps.
func TestInterruptCauseHasSignBit(tt *testing.T) {
	trap := NewInterrupt(SupervisorExternalInterrupt)

	if want := uint64(1)<<63 | 9; trap.Cause() != want {
		tt.Errorf("cause: want %#x, got %#x", want, trap.Cause())
	}
}
