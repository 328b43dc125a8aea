package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/xmyli/riscv-emulator/internal/cli"
	"github.com/xmyli/riscv-emulator/internal/console"
	"github.com/xmyli/riscv-emulator/internal/log"
	"github.com/xmyli/riscv-emulator/internal/vm"
)

// Boot returns the "boot" command: load a kernel image and a disk image
// and run the hart until it halts.
func Boot() cli.Command {
	return &booter{log: log.DefaultLogger()}
}

type booter struct {
	logLevel slog.Level
	log      *log.Logger
}

func (booter) Description() string {
	return "boot a kernel and disk image in the emulator"
}

func (booter) Usage(out io.Writer) error {
	_, err := fmt.Fprintln(out, `boot kernel.bin disk.img

Loads a RV64 kernel image at the base of RAM and attaches a disk image to
the virtio block device, then runs the hart until it halts on a fatal
exception or the process is interrupted.`)

	return err
}

func (b *booter) FlagSet() *cli.FlagSet {
	fs := flag.NewFlagSet("boot", flag.ExitOnError)
	fs.Func("loglevel", "set log `level`", func(s string) error {
		return b.logLevel.UnmarshalText([]byte(s))
	})

	return fs
}

// Run wires the bus, devices, and hart from the two image files named in
// args, then drives the hart to completion.
func (b *booter) Run(ctx context.Context, args []string, stdout io.Writer, logger *log.Logger) int {
	log.LogLevel.Set(b.logLevel)

	if len(args) < 2 {
		logger.Error("boot: expected kernel and disk image arguments")
		return 1
	}

	kernel, err := os.ReadFile(args[0])
	if err != nil {
		logger.Error("boot: reading kernel image", "err", err)
		return 1
	}

	disk, err := os.ReadFile(args[1])
	if err != nil {
		logger.Error("boot: reading disk image", "err", err)
		return 1
	}

	term, consoleErr := console.New()
	if consoleErr != nil && !errors.Is(consoleErr, console.ErrNoTTY) {
		logger.Error("boot: console", "err", consoleErr)
		return 1
	}

	defer term.Restore()

	bus := vm.NewBus(
		vm.NewRAM(),
		vm.NewCLINT(),
		vm.NewPLIC(),
		vm.NewUART(os.Stdin, stdout),
		vm.NewVIRTIO(disk),
	)

	hart := vm.New(bus,
		vm.WithLogger(logger),
		vm.WithBootImage(kernel),
	)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	logger.Info("booting", "kernel", args[0], "disk", args[1])

	err = hart.Run(ctx)

	switch {
	case err == nil, errors.Is(err, context.Canceled):
		logger.Info("halted")
		return 0
	case errors.Is(err, context.DeadlineExceeded):
		logger.Warn("boot timeout")
		return 0
	default:
		logger.Error("fatal", "err", err)
		return 1
	}
}
