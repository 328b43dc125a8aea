package vm

// disk.go implements the descriptor-chain walk that moves bytes between
// guest memory and the VIRTIO block device's backing image. Any failure
// here is unrecoverable: the error propagates out of the driver loop
// rather than being delivered to the guest as a trap.

import (
	"errors"
	"fmt"
)

const sectorSize = 512

// diskAccess walks the single supported virtqueue's descriptor chain and
// performs one read or write of the second descriptor's length, starting
// at the requested sector of the VIRTIO device's disk image, then
// acknowledges the request in the used ring.
func (h *Hart) diskAccess() error {
	v := h.Bus.VIRTIO

	descAddr := v.descAddr()
	availAddr := descAddr + 0x40
	usedAddr := descAddr + 4096

	offset, err := h.load16(availAddr + 1)
	if err != nil {
		return fmt.Errorf("disk access: %w", err)
	}

	index, err := h.load16(availAddr + uint64(offset)%QueueLen + 2)
	if err != nil {
		return fmt.Errorf("disk access: %w", err)
	}

	desc0 := descAddr + DescriptorSize*uint64(index)

	addr0, err := h.load64(desc0)
	if err != nil {
		return fmt.Errorf("disk access: %w", err)
	}

	next0, err := h.load16(desc0 + 14)
	if err != nil {
		return fmt.Errorf("disk access: %w", err)
	}

	desc1 := descAddr + DescriptorSize*uint64(next0)

	addr1, err := h.load64(desc1)
	if err != nil {
		return fmt.Errorf("disk access: %w", err)
	}

	len1, err := h.load32(desc1 + 8)
	if err != nil {
		return fmt.Errorf("disk access: %w", err)
	}

	flags1, err := h.load16(desc1 + 12)
	if err != nil {
		return fmt.Errorf("disk access: %w", err)
	}

	blkSector, err := h.load64(addr0 + 8)
	if err != nil {
		return fmt.Errorf("disk access: %w", err)
	}

	if len(v.disk) < int(blkSector)*sectorSize+int(len1) {
		return errors.New("disk access: request exceeds disk image size")
	}

	if flags1&2 == 0 {
		for i := uint32(0); i < len1; i++ {
			data, err := h.load8(addr1 + uint64(i))
			if err != nil {
				return fmt.Errorf("disk access: %w", err)
			}

			v.writeDisk(blkSector*sectorSize+uint64(i), data)
		}
	} else {
		for i := uint32(0); i < len1; i++ {
			data := v.readDisk(blkSector*sectorSize + uint64(i))
			if err := h.store8(addr1+uint64(i), data); err != nil {
				return fmt.Errorf("disk access: %w", err)
			}
		}
	}

	newID := v.newID()

	return h.store16(usedAddr+2, uint16(newID%QueueLen))
}
