package vm

// regs.go defines the general-purpose register file.

import (
	"fmt"
	"strings"

	"github.com/xmyli/riscv-emulator/internal/log"
)

// NumGPR is the number of general-purpose registers.
const NumGPR = 32

// Reg is the general-purpose register file. Register x0 reads as zero no
// matter what is stored there; Set enforces this on every write so callers
// never need to special-case it.
type Reg [NumGPR]uint64

// Get reads a register by index. Reading x0 always returns zero.
func (r *Reg) Get(i uint32) uint64 {
	return r[i&0x1f]
}

// Set writes a register by index. Writes to x0 are discarded.
func (r *Reg) Set(i uint32, val uint64) {
	if i&0x1f == 0 {
		return
	}

	r[i&0x1f] = val
}

func (r Reg) String() string {
	b := strings.Builder{}

	for i := 0; i < len(r); i += 4 {
		fmt.Fprintf(&b, "x%-2d %#018x  x%-2d %#018x  x%-2d %#018x  x%-2d %#018x\n",
			i, r[i], i+1, r[i+1], i+2, r[i+2], i+3, r[i+3])
	}

	return b.String()
}

func (r Reg) LogValue() log.Value {
	attrs := make([]log.Attr, 0, NumGPR)

	for i, val := range r {
		attrs = append(attrs, log.String(fmt.Sprintf("x%d", i), fmt.Sprintf("%#018x", val)))
	}

	return log.GroupValue(attrs...)
}

// Sext sign-extends the bottom n bits of val to a full 64-bit value.
func Sext(val uint64, n uint) uint64 {
	shift := 64 - n
	return uint64(int64(val<<shift) >> shift)
}

// Sext32 sign-extends a 32-bit result to 64 bits, as every RV64 "W" opcode
// must before writing its destination register.
func Sext32(val uint32) uint64 {
	return uint64(int64(int32(val)))
}
