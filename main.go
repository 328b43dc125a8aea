// Command riscv-emu is the command-line interface to the emulator, a RV64
// instruction-set emulator capable of booting a small operating system from
// a block device.
package main

import (
	"context"
	"os"

	"github.com/xmyli/riscv-emulator/internal/cli"
	"github.com/xmyli/riscv-emulator/internal/cli/cmd"
)

var commands = []cli.Command{
	cmd.Boot(),
}

// Entry point.
func main() {
	result :=
		cli.New(context.Background()).
			WithLogger(os.Stderr).
			WithCommands(commands).
			WithHelp(cmd.Help(commands)).
			Execute(os.Args[1:])

	os.Exit(result)
}
