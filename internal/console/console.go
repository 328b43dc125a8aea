// Package console adapts the host terminal to the emulated UART.
//
// It puts the host terminal into raw mode so keystrokes reach the guest
// one at a time, with no local echo or line buffering, and restores it on
// exit. The UART device (vm.UART) owns the producer/consumer relationship
// with stdin internally (its own mutex, condition variable, and reader
// goroutine), so this package's job shrinks to: put the tty in raw mode,
// and hand the UART raw os.Stdin/os.Stdout directly.
package console

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// ErrNoTTY is returned by New if standard input is not a terminal. The
// emulator still runs in that case; raw mode and echo suppression simply
// don't apply.
var ErrNoTTY = errors.New("console: not a tty")

// Console owns the host terminal's raw-mode state for the lifetime of a
// boot.
type Console struct {
	fd    int
	state *term.State
}

// New puts os.Stdin into raw mode, if it is a terminal, and returns a
// Console whose Restore method undoes that. If stdin is not a terminal,
// New returns ErrNoTTY alongside a Console whose Restore is a no-op.
func New() (*Console, error) {
	fd := int(os.Stdin.Fd())

	if !term.IsTerminal(fd) {
		return &Console{fd: fd}, ErrNoTTY
	}

	state, err := term.MakeRaw(fd)
	if err != nil {
		return &Console{fd: fd}, fmt.Errorf("console: make raw: %w", err)
	}

	c := &Console{fd: fd, state: state}

	if err := c.setReadTimingImmediate(); err != nil {
		_ = term.Restore(fd, state)
		return &Console{fd: fd}, fmt.Errorf("console: termios: %w", err)
	}

	return c, nil
}

// setReadTimingImmediate configures VMIN=1, VTIME=0 so the UART's reader
// goroutine's blocking byte reads return as soon as a single keystroke is
// available, rather than waiting for a line.
func (c *Console) setReadTimingImmediate() error {
	termIO, err := unix.IoctlGetTermios(c.fd, getTermiosIoctl)
	if err != nil {
		return err
	}

	termIO.Cc[unix.VMIN] = 1
	termIO.Cc[unix.VTIME] = 0

	return unix.IoctlSetTermios(c.fd, setTermiosIoctl, termIO)
}

// Restore returns the terminal to its original state. Safe to call on a
// Console that never entered raw mode.
func (c *Console) Restore() {
	if c.state != nil {
		_ = term.Restore(c.fd, c.state)
	}
}
