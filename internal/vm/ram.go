package vm

// ram.go implements the hart's main memory: a flat byte slice backing
// little-endian loads and stores at a fixed base address, in every width
// RV64 can issue.

import (
	"encoding/binary"
	"fmt"
)

const (
	// RAMBase is the physical address at which RAM begins.
	RAMBase = 0x8000_0000

	// RAMSize is the size of RAM in bytes: 128 MiB.
	RAMSize = 128 << 20
)

// RAM is flat, byte-addressable physical memory.
type RAM struct {
	bytes []byte
}

// NewRAM allocates a zeroed RAM of RAMSize bytes.
func NewRAM() *RAM {
	return &RAM{bytes: make([]byte, RAMSize)}
}

func (m *RAM) contains(addr uint64, width int) bool {
	return addr >= RAMBase && addr+uint64(width) <= RAMBase+RAMSize
}

func (m *RAM) offset(addr uint64) uint64 {
	return addr - RAMBase
}

// Load8 reads a single byte.
func (m *RAM) Load8(addr uint64) (uint8, error) {
	if !m.contains(addr, 1) {
		return 0, NewException(LoadAccessFault)
	}

	return m.bytes[m.offset(addr)], nil
}

// Load16 reads a little-endian halfword.
func (m *RAM) Load16(addr uint64) (uint16, error) {
	if !m.contains(addr, 2) {
		return 0, NewException(LoadAccessFault)
	}

	off := m.offset(addr)

	return binary.LittleEndian.Uint16(m.bytes[off : off+2]), nil
}

// Load32 reads a little-endian word.
func (m *RAM) Load32(addr uint64) (uint32, error) {
	if !m.contains(addr, 4) {
		return 0, NewException(LoadAccessFault)
	}

	off := m.offset(addr)

	return binary.LittleEndian.Uint32(m.bytes[off : off+4]), nil
}

// Load64 reads a little-endian doubleword.
func (m *RAM) Load64(addr uint64) (uint64, error) {
	if !m.contains(addr, 8) {
		return 0, NewException(LoadAccessFault)
	}

	off := m.offset(addr)

	return binary.LittleEndian.Uint64(m.bytes[off : off+8]), nil
}

// Store8 writes a single byte.
func (m *RAM) Store8(addr uint64, val uint8) error {
	if !m.contains(addr, 1) {
		return NewException(StoreAMOAccessFault)
	}

	m.bytes[m.offset(addr)] = val

	return nil
}

// Store16 writes a little-endian halfword.
func (m *RAM) Store16(addr uint64, val uint16) error {
	if !m.contains(addr, 2) {
		return NewException(StoreAMOAccessFault)
	}

	off := m.offset(addr)
	binary.LittleEndian.PutUint16(m.bytes[off:off+2], val)

	return nil
}

// Store32 writes a little-endian word.
func (m *RAM) Store32(addr uint64, val uint32) error {
	if !m.contains(addr, 4) {
		return NewException(StoreAMOAccessFault)
	}

	off := m.offset(addr)
	binary.LittleEndian.PutUint32(m.bytes[off:off+4], val)

	return nil
}

// Store64 writes a little-endian doubleword.
func (m *RAM) Store64(addr uint64, val uint64) error {
	if !m.contains(addr, 8) {
		return NewException(StoreAMOAccessFault)
	}

	off := m.offset(addr)
	binary.LittleEndian.PutUint64(m.bytes[off:off+8], val)

	return nil
}

// LoadKernel copies a kernel image into the start of RAM.
func (m *RAM) LoadKernel(image []byte) error {
	if len(image) > len(m.bytes) {
		return fmt.Errorf("ram: kernel image (%d bytes) exceeds RAM size (%d bytes)", len(image), len(m.bytes))
	}

	copy(m.bytes, image)

	return nil
}
