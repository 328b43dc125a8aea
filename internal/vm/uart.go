package vm

// uart.go implements a minimal 16550-like serial port: a single input byte
// and a single output byte, gated by a line-status register.
//
// A mutex+condvar pair guards a one-byte receive buffer, filled by a
// background goroutine draining an injected io.Reader, with a one-shot
// atomic interrupt flag the driver loop polls and clears.

import (
	"bufio"
	"io"
	"sync"
	"sync/atomic"
)

const (
	// UARTBase is the UART's physical base address.
	UARTBase = 0x1000_0000
	// UARTSize is the size of the UART's address window.
	UARTSize = 0x100
	// UARTIRQ is the PLIC source number wired to the UART.
	UARTIRQ = 10

	uartRHR = UARTBase + 0
	uartTHR = UARTBase + 0
	uartLCR = UARTBase + 3
	uartLSR = UARTBase + 5

	uartLSRRX = 1 << 0
	uartLSRTX = 1 << 5
)

// UART is a single-byte-at-a-time serial console.
type UART struct {
	mu        sync.Mutex
	cond      *sync.Cond
	regs      [UARTSize]byte
	interrupt atomic.Bool
	out       io.Writer
}

// NewUART returns a UART whose output is written to out and whose input is
// read byte-by-byte from in on a background goroutine. A nil in disables
// input entirely; the UART then just discards reads.
func NewUART(in io.Reader, out io.Writer) *UART {
	u := &UART{out: out}
	u.cond = sync.NewCond(&u.mu)
	u.regs[uartLSR-UARTBase] |= uartLSRTX

	if in != nil {
		go u.listen(in)
	}

	return u
}

// listen drains in one byte at a time, translating '_' to a space and ';'
// to a newline the way the guest kernel's console driver expects, then
// parks until the previous byte has been consumed.
func (u *UART) listen(in io.Reader) {
	r := bufio.NewReader(in)

	for {
		c, err := r.ReadByte()
		if err != nil {
			return
		}

		u.mu.Lock()
		for u.regs[uartLSR-UARTBase]&uartLSRRX != 0 {
			u.cond.Wait()
		}

		switch c {
		case '_':
			u.regs[uartRHR-UARTBase] = ' '
		case ';':
			u.regs[uartRHR-UARTBase] = '\n'
		default:
			u.regs[uartRHR-UARTBase] = c
		}

		u.interrupt.Store(true)
		u.regs[uartLSR-UARTBase] |= uartLSRRX
		u.mu.Unlock()
	}
}

func (u *UART) Base() uint64 { return UARTBase }
func (u *UART) Size() uint64 { return UARTSize }

// Load reads a single register byte. Reading RHR clears the receive-ready
// bit and wakes the reader goroutine. Only 1-byte accesses are defined.
func (u *UART) Load(addr uint64, width int) (uint64, error) {
	if width != 1 {
		return 0, NewException(LoadAccessFault)
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	if addr == uartRHR {
		u.cond.Signal()
		u.regs[uartLSR-UARTBase] &^= uartLSRRX

		return uint64(u.regs[uartRHR-UARTBase]), nil
	}

	return uint64(u.regs[addr-UARTBase]), nil
}

// Store writes a single register byte. Writing THR emits the byte to the
// console output. Only 1-byte accesses are defined.
func (u *UART) Store(addr uint64, width int, val uint64) error {
	if width != 1 {
		return NewException(StoreAMOAccessFault)
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	if addr == uartTHR {
		if u.out != nil {
			_, _ = u.out.Write([]byte{byte(val)})
		}

		return nil
	}

	u.regs[addr-UARTBase] = byte(val)

	return nil
}

// IsInterrupting reports whether the UART has raised an interrupt since
// the last call, clearing the flag.
func (u *UART) IsInterrupting() bool {
	return u.interrupt.Swap(false)
}
