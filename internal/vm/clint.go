package vm

// clint.go implements the core-local interrupter: the machine timer and
// its compare register, held as plain storage. The hart's interrupt polling
// does not read them.

import "fmt"

const (
	// CLINTBase is the CLINT's physical base address.
	CLINTBase = 0x0200_0000
	// CLINTSize is the size of the CLINT's address window.
	CLINTSize = 0x1_0000

	clintMTimeCmp = CLINTBase + 0x4000
	clintMTime    = CLINTBase + 0xbff8
)

// CLINT is the core-local interrupter, exposing MTIME and MTIMECMP.
type CLINT struct {
	mtime    uint64
	mtimecmp uint64
}

// NewCLINT returns a CLINT with both registers zeroed.
func NewCLINT() *CLINT { return &CLINT{} }

func (c *CLINT) Base() uint64 { return CLINTBase }
func (c *CLINT) Size() uint64 { return CLINTSize }

// Load reads MTIME or MTIMECMP. Only 8-byte accesses are defined; any
// other address in the window reads zero.
func (c *CLINT) Load(addr uint64, width int) (uint64, error) {
	if width != 8 {
		return 0, NewException(LoadAccessFault)
	}

	switch addr {
	case clintMTimeCmp:
		return c.mtimecmp, nil
	case clintMTime:
		return c.mtime, nil
	default:
		return 0, nil
	}
}

// Store writes MTIME or MTIMECMP. Only 8-byte accesses are defined.
func (c *CLINT) Store(addr uint64, width int, val uint64) error {
	if width != 8 {
		return NewException(StoreAMOAccessFault)
	}

	switch addr {
	case clintMTimeCmp:
		c.mtimecmp = val
	case clintMTime:
		c.mtime = val
	}

	return nil
}

func (c *CLINT) String() string {
	return fmt.Sprintf("CLINT{mtime: %#x, mtimecmp: %#x}", c.mtime, c.mtimecmp)
}
