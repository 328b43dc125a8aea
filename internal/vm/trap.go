package vm

// trap.go defines the trap taxonomy and the trap-delivery routine.
//
// Exceptions and interrupts share one Trap type, a tagged union carrying
// whichever kind was raised. Both satisfy error so a trap can ride the
// ordinary return path out of fetch, translate, and execute.

import "fmt"

// Exception identifies a synchronous trap raised by fetch, translate,
// decode, or execute.
type Exception uint8

// Exception kinds and their architectural cause codes.
const (
	InstructionAddressMisaligned Exception = iota
	InstructionAccessFault
	IllegalInstruction
	Breakpoint
	LoadAddressMisaligned
	LoadAccessFault
	StoreAMOAddressMisaligned
	StoreAMOAccessFault
	EnvironmentCallFromUMode
	EnvironmentCallFromSMode
	EnvironmentCallFromMMode
	InstructionPageFault
	LoadPageFault
	StoreAMOPageFault
)

// exceptionCauses maps every Exception kind to its architectural cause code.
// Cause codes 10 and 14 are reserved by the architecture, so the codes skip
// them: EnvironmentCallFromMMode (enum value 10) maps to 11, and
// StoreAMOPageFault (enum value 13) maps to 15.
var exceptionCauses = [...]uint64{
	InstructionAddressMisaligned: 0,
	InstructionAccessFault:       1,
	IllegalInstruction:           2,
	Breakpoint:                   3,
	LoadAddressMisaligned:        4,
	LoadAccessFault:              5,
	StoreAMOAddressMisaligned:    6,
	StoreAMOAccessFault:          7,
	EnvironmentCallFromUMode:     8,
	EnvironmentCallFromSMode:     9,
	EnvironmentCallFromMMode:     11,
	InstructionPageFault:         12,
	LoadPageFault:                13,
	StoreAMOPageFault:            15,
}

// Code returns the exception's architectural cause code.
func (e Exception) Code() uint64 { return exceptionCauses[e] }

// Fatal reports whether the exception must terminate the driver loop.
func (e Exception) Fatal() bool {
	switch e {
	case InstructionAddressMisaligned, InstructionAccessFault,
		LoadAccessFault, StoreAMOAddressMisaligned, StoreAMOAccessFault:
		return true
	default:
		return false
	}
}

var exceptionNames = [...]string{
	InstructionAddressMisaligned: "instruction-address-misaligned",
	InstructionAccessFault:       "instruction-access-fault",
	IllegalInstruction:           "illegal-instruction",
	Breakpoint:                   "breakpoint",
	LoadAddressMisaligned:        "load-address-misaligned",
	LoadAccessFault:              "load-access-fault",
	StoreAMOAddressMisaligned:    "store/amo-address-misaligned",
	StoreAMOAccessFault:          "store/amo-access-fault",
	EnvironmentCallFromUMode:     "ecall-from-u-mode",
	EnvironmentCallFromSMode:     "ecall-from-s-mode",
	EnvironmentCallFromMMode:     "ecall-from-m-mode",
	InstructionPageFault:         "instruction-page-fault",
	LoadPageFault:                "load-page-fault",
	StoreAMOPageFault:            "store/amo-page-fault",
}

func (e Exception) String() string {
	if int(e) < len(exceptionNames) {
		return exceptionNames[e]
	}

	return fmt.Sprintf("Exception(%d)", uint8(e))
}

func (e Exception) Error() string { return e.String() }

// Interrupt identifies an asynchronous trap raised by an external event.
type Interrupt uint8

// Interrupt kinds and their architectural cause codes.
const (
	UserSoftwareInterrupt Interrupt = iota
	SupervisorSoftwareInterrupt
	MachineSoftwareInterrupt
	UserTimerInterrupt
	SupervisorTimerInterrupt
	MachineTimerInterrupt
	UserExternalInterrupt
	SupervisorExternalInterrupt
	MachineExternalInterrupt
)

var interruptCauses = [...]uint64{
	UserSoftwareInterrupt:       0,
	SupervisorSoftwareInterrupt: 1,
	MachineSoftwareInterrupt:    3,
	UserTimerInterrupt:          4,
	SupervisorTimerInterrupt:    5,
	MachineTimerInterrupt:       7,
	UserExternalInterrupt:       8,
	SupervisorExternalInterrupt: 9,
	MachineExternalInterrupt:    11,
}

// Code returns the interrupt's architectural cause code, without the
// interrupt bit set; [Trap.Cause] sets that bit.
func (i Interrupt) Code() uint64 { return interruptCauses[i] }

var interruptNames = [...]string{
	UserSoftwareInterrupt:       "user-software-interrupt",
	SupervisorSoftwareInterrupt: "supervisor-software-interrupt",
	MachineSoftwareInterrupt:    "machine-software-interrupt",
	UserTimerInterrupt:          "user-timer-interrupt",
	SupervisorTimerInterrupt:    "supervisor-timer-interrupt",
	MachineTimerInterrupt:       "machine-timer-interrupt",
	UserExternalInterrupt:       "user-external-interrupt",
	SupervisorExternalInterrupt: "supervisor-external-interrupt",
	MachineExternalInterrupt:    "machine-external-interrupt",
}

func (i Interrupt) String() string {
	if int(i) < len(interruptNames) {
		return interruptNames[i]
	}

	return fmt.Sprintf("Interrupt(%d)", uint8(i))
}

// Trap is the tagged union of the two kinds of trap a hart can take. Exactly
// one of Exception/Interrupt is meaningful, selected by IsInterrupt.
type Trap struct {
	Exception   Exception
	Interrupt   Interrupt
	IsInterrupt bool
}

// NewException wraps an Exception as a Trap.
func NewException(e Exception) Trap { return Trap{Exception: e} }

// NewInterrupt wraps an Interrupt as a Trap.
func NewInterrupt(i Interrupt) Trap { return Trap{Interrupt: i, IsInterrupt: true} }

// Cause returns the trap's architectural cause code, with the sign bit set
// for interrupts.
func (t Trap) Cause() uint64 {
	if t.IsInterrupt {
		return (uint64(1) << 63) | t.Interrupt.Code()
	}

	return t.Exception.Code()
}

// Fatal reports whether the trap must halt the driver loop. Interrupts are
// never fatal.
func (t Trap) Fatal() bool {
	return !t.IsInterrupt && t.Exception.Fatal()
}

func (t Trap) String() string {
	if t.IsInterrupt {
		return t.Interrupt.String()
	}

	return t.Exception.String()
}

func (t Trap) Error() string { return t.String() }

// accessKind selects which page-fault or access-fault exception a failing
// memory access raises.
type accessKind uint8

const (
	accessInstruction accessKind = iota
	accessLoad
	accessStore
)

func (a accessKind) pageFault() Exception {
	switch a {
	case accessInstruction:
		return InstructionPageFault
	case accessLoad:
		return LoadPageFault
	default:
		return StoreAMOPageFault
	}
}

func (a accessKind) accessFault() Exception {
	switch a {
	case accessInstruction:
		return InstructionAccessFault
	case accessLoad:
		return LoadAccessFault
	default:
		return StoreAMOAccessFault
	}
}

// Deliver performs trap delivery: it picks Supervisor or Machine as the
// target privilege level via MEDELEG, stacks the previous interrupt-enable
// bit, records the originating PC, and sets PC to the target's trap vector.
//
// Interrupt delegation consults MEDELEG rather than MIDELEG. xv6 programs
// both delegation registers identically at boot, so the two never diverge
// for the target workload.
func Deliver(h *Hart, trap Trap) {
	exceptionPC := (h.PC - 4) & ^uint64(1)
	previousMode := h.Mode
	cause := trap.Cause()

	delegate := previousMode <= Supervisor && (h.CSR.Load(csrMEDELEG)>>(cause&0x3f))&1 != 0

	if delegate {
		h.Mode = Supervisor

		vector := h.CSR.Load(csrSTVEC)
		if trap.IsInterrupt && vector&1 == 1 {
			h.PC = (vector &^ 1) + 4*trap.Interrupt.Code()
		} else {
			h.PC = vector &^ 1
		}

		h.CSR.Store(csrSEPC, exceptionPC)
		h.CSR.Store(csrSCAUSE, cause)
		h.CSR.Store(csrSTVAL, 0)

		sstatus := h.CSR.Load(csrSSTATUS)
		if sstatus&sstatusSIEBit != 0 {
			sstatus |= sstatusSPIEBit
		} else {
			sstatus &^= sstatusSPIEBit
		}

		sstatus &^= sstatusSIEBit

		if previousMode == Supervisor {
			sstatus |= sstatusSPPBit
		} else {
			sstatus &^= sstatusSPPBit
		}

		h.CSR.Store(csrSSTATUS, sstatus)
	} else {
		h.Mode = Machine

		vector := h.CSR.Load(csrMTVEC)
		if trap.IsInterrupt && vector&1 == 1 {
			h.PC = (vector &^ 1) + 4*trap.Interrupt.Code()
		} else {
			h.PC = vector &^ 1
		}

		h.CSR.Store(csrMEPC, exceptionPC)
		h.CSR.Store(csrMCAUSE, cause)
		h.CSR.Store(csrMTVAL, 0)

		mstatus := h.CSR.Load(csrMSTATUS)
		if mstatus&mstatusMIEBit != 0 {
			mstatus |= mstatusMPIEBit
		} else {
			mstatus &^= mstatusMPIEBit
		}

		mstatus &^= mstatusMIEBit
		mstatus &^= mstatusMPPMask

		h.CSR.Store(csrMSTATUS, mstatus)
	}
}
