package vm

// hart.go defines the Hart type: the RISC-V core itself, and the
// fetch/execute/trap driver loop that steps it.

import (
	"context"
	"fmt"

	"github.com/xmyli/riscv-emulator/internal/log"
)

// Hart is a single RISC-V hardware thread.
type Hart struct {
	PC  uint64
	X   Reg
	CSR CSRFile
	Mode

	pagingEnabled bool
	pageTable     uint64

	Bus *Bus

	log *log.Logger
}

// OptionFn configures a Hart at construction time.
type OptionFn func(*Hart)

// WithLogger attaches a structured logger to the hart.
func WithLogger(logger *log.Logger) OptionFn {
	return func(h *Hart) { h.log = logger }
}

// WithBootImage copies image into the start of RAM before the hart's first
// instruction fetch.
func WithBootImage(image []byte) OptionFn {
	return func(h *Hart) {
		if err := h.Bus.RAM.LoadKernel(image); err != nil {
			h.log.Error("boot image", "error", err)
		}
	}
}

// New creates a Hart wired to bus, starting in Machine mode at RAMBase with
// the stack pointer (x2) initialized to the top of RAM.
func New(bus *Bus, opts ...OptionFn) *Hart {
	h := &Hart{
		PC:   RAMBase,
		Mode: Machine,
		Bus:  bus,
		log:  log.DefaultLogger(),
	}

	h.X.Set(2, RAMBase+RAMSize)

	for _, opt := range opts {
		opt(h)
	}

	return h
}

func (h *Hart) load8(addr uint64) (uint8, error) {
	p, err := translate(h, addr, accessLoad)
	if err != nil {
		return 0, err
	}

	return h.Bus.Load8(p)
}

func (h *Hart) load16(addr uint64) (uint16, error) {
	p, err := translate(h, addr, accessLoad)
	if err != nil {
		return 0, err
	}

	return h.Bus.Load16(p)
}

func (h *Hart) load32(addr uint64) (uint32, error) {
	p, err := translate(h, addr, accessLoad)
	if err != nil {
		return 0, err
	}

	return h.Bus.Load32(p)
}

func (h *Hart) load64(addr uint64) (uint64, error) {
	p, err := translate(h, addr, accessLoad)
	if err != nil {
		return 0, err
	}

	return h.Bus.Load64(p)
}

func (h *Hart) store8(addr uint64, val uint8) error {
	p, err := translate(h, addr, accessStore)
	if err != nil {
		return err
	}

	return h.Bus.Store8(p, val)
}

func (h *Hart) store16(addr uint64, val uint16) error {
	p, err := translate(h, addr, accessStore)
	if err != nil {
		return err
	}

	return h.Bus.Store16(p, val)
}

func (h *Hart) store32(addr uint64, val uint32) error {
	p, err := translate(h, addr, accessStore)
	if err != nil {
		return err
	}

	return h.Bus.Store32(p, val)
}

func (h *Hart) store64(addr uint64, val uint64) error {
	p, err := translate(h, addr, accessStore)
	if err != nil {
		return err
	}

	return h.Bus.Store64(p, val)
}

// loadCSR reads a CSR, applying the same SIE/MIE alias and mhartid
// pinning the raw CSRFile.Load implements.
func (h *Hart) loadCSR(addr uint64) uint64 { return h.CSR.Load(addr) }

// storeCSR writes a CSR and re-derives paging state if the write targets
// SATP.
func (h *Hart) storeCSR(addr, val uint64) {
	h.CSR.Store(addr, val)
	h.updatePaging(addr)
}

// fetch reads the 4-byte instruction at PC through the MMU.
func (h *Hart) fetch() (uint32, error) {
	p, err := translate(h, h.PC, accessInstruction)
	if err != nil {
		return 0, err
	}

	instr, err := h.Bus.Load32(p)
	if err != nil {
		return 0, NewException(InstructionAccessFault)
	}

	return instr, nil
}

// Run steps the hart until ctx is canceled or a fatal exception occurs.
func (h *Hart) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		instr, err := h.fetch()
		if err == nil {
			h.PC += 4
			err = h.execute(instr)
		}

		if err != nil {
			trap, ok := err.(Trap)
			if !ok {
				return err
			}

			Deliver(h, trap)

			if trap.Fatal() {
				return fmt.Errorf("hart: fatal trap: %w", trap)
			}
		}

		trap, ok, err := h.checkPendingInterrupt()
		if err != nil {
			return err
		}

		if ok {
			Deliver(h, trap)
		}
	}
}

// checkPendingInterrupt polls the UART and VIRTIO devices for a fresh
// interrupt, routes it through the PLIC claim register, then picks the
// highest-priority pending-and-enabled interrupt in the fixed order
// MEIP > MSIP > MTIP > SEIP > SSIP > STIP. A VIRTIO notification runs the
// disk transfer before its interrupt is delivered; a transfer failure is
// unrecoverable and surfaces as the returned error.
func (h *Hart) checkPendingInterrupt() (Trap, bool, error) {
	if (h.Mode == Machine && h.CSR.Load(csrMSTATUS)&mstatusMIEBit == 0) ||
		(h.Mode == Supervisor && h.CSR.Load(csrSSTATUS)&sstatusSIEBit == 0) {
		return Trap{}, false, nil
	}

	var irq uint64

	switch {
	case h.Bus.UART.IsInterrupting():
		irq = UARTIRQ
	case h.Bus.VIRTIO.IsInterrupting():
		if err := h.diskAccess(); err != nil {
			return Trap{}, false, err
		}

		irq = VIRTIOIRQ
	}

	if irq != 0 {
		_ = h.Bus.PLIC.Store(plicSClaim, 4, irq)
		h.CSR.Store(csrMIP, h.CSR.Load(csrMIP)|mipSEIP)
	}

	pending := h.CSR.Load(csrMIE) & h.CSR.Load(csrMIP)

	clear := func(bit uint64) { h.CSR.Store(csrMIP, h.CSR.Load(csrMIP)&^bit) }

	switch {
	case pending&mipMEIP != 0:
		clear(mipMEIP)
		return NewInterrupt(MachineExternalInterrupt), true, nil
	case pending&mipMSIP != 0:
		clear(mipMSIP)
		return NewInterrupt(MachineSoftwareInterrupt), true, nil
	case pending&mipMTIP != 0:
		clear(mipMTIP)
		return NewInterrupt(MachineTimerInterrupt), true, nil
	case pending&mipSEIP != 0:
		clear(mipSEIP)
		return NewInterrupt(SupervisorExternalInterrupt), true, nil
	case pending&mipSSIP != 0:
		clear(mipSSIP)
		return NewInterrupt(SupervisorSoftwareInterrupt), true, nil
	case pending&mipSTIP != 0:
		clear(mipSTIP)
		return NewInterrupt(SupervisorTimerInterrupt), true, nil
	default:
		return Trap{}, false, nil
	}
}

func (h *Hart) String() string {
	return fmt.Sprintf("Hart{pc: %#018x, mode: %s}", h.PC, h.Mode)
}

func (h *Hart) LogValue() log.Value {
	return log.GroupValue(
		log.String("pc", fmt.Sprintf("%#018x", h.PC)),
		log.String("mode", h.Mode.String()),
		log.Any("x", h.X),
	)
}
