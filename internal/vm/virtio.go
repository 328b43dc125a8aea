package vm

// virtio.go implements a legacy (pre-1.0) VIRTIO-MMIO block device: enough
// of the register file for an xv6-style driver to negotiate features, size
// its queue, and notify the device, plus the descriptor-chain walk that
// performs the actual sector transfer.
//
// The descriptor-chain walk lives on Hart in disk.go, since it issues
// ordinary loads and stores through the hart's translate-then-access path.

import "fmt"

const (
	// VIRTIOBase is the VIRTIO-MMIO device's physical base address.
	VIRTIOBase = 0x1000_1000
	// VIRTIOSize is the size of the VIRTIO-MMIO device's address window.
	VIRTIOSize = 0x1000
	// VIRTIOIRQ is the PLIC source number wired to the VIRTIO device.
	VIRTIOIRQ = 1

	// DescriptorSize is the size in bytes of one vring descriptor.
	DescriptorSize = 16
	// QueueLen is the number of descriptors in the single supported queue.
	QueueLen = 8

	virtioMagic          = VIRTIOBase + 0x000
	virtioVersion        = VIRTIOBase + 0x004
	virtioDeviceID       = VIRTIOBase + 0x008
	virtioVendorID       = VIRTIOBase + 0x00c
	virtioDeviceFeatures = VIRTIOBase + 0x010
	virtioDriverFeatures = VIRTIOBase + 0x020
	virtioGuestPageSize  = VIRTIOBase + 0x028
	virtioQueueSel       = VIRTIOBase + 0x030
	virtioQueueNumMax    = VIRTIOBase + 0x034
	virtioQueueNum       = VIRTIOBase + 0x038
	virtioQueuePFN       = VIRTIOBase + 0x040
	virtioQueueNotify    = VIRTIOBase + 0x050
	virtioStatus         = VIRTIOBase + 0x070

	virtioNoNotification = 0xffff_ffff
)

// VIRTIO is a legacy-v1 VIRTIO-MMIO block device backed by an in-memory
// disk image.
type VIRTIO struct {
	id             uint64
	driverFeatures uint32
	pageSize       uint32
	queueSel       uint32
	queueNum       uint32
	queuePFN       uint32
	queueNotify    uint32
	status         uint32
	disk           []byte
}

// NewVIRTIO returns a VIRTIO device backed by diskImage. The slice is owned
// by the device: reads and writes from the guest mutate it in place.
func NewVIRTIO(diskImage []byte) *VIRTIO {
	return &VIRTIO{queueNotify: virtioNoNotification, disk: diskImage}
}

func (v *VIRTIO) Base() uint64 { return VIRTIOBase }
func (v *VIRTIO) Size() uint64 { return VIRTIOSize }

// Load reads a device register. Only 4-byte accesses are defined.
func (v *VIRTIO) Load(addr uint64, width int) (uint64, error) {
	if width != 4 {
		return 0, NewException(LoadAccessFault)
	}

	switch addr {
	case virtioMagic:
		return 0x7472_6976, nil // "virt", little-endian
	case virtioVersion:
		return 0x1, nil
	case virtioDeviceID:
		return 0x2, nil
	case virtioVendorID:
		return 0x554d_4551, nil // "QEMU", little-endian
	case virtioDeviceFeatures:
		return 0, nil
	case virtioDriverFeatures:
		return uint64(v.driverFeatures), nil
	case virtioGuestPageSize:
		return uint64(v.pageSize), nil
	case virtioQueueSel:
		return uint64(v.queueSel), nil
	case virtioQueueNumMax:
		return QueueLen, nil
	case virtioQueueNum:
		return uint64(v.queueNum), nil
	case virtioQueuePFN:
		return uint64(v.queuePFN), nil
	case virtioStatus:
		return uint64(v.status), nil
	default:
		return 0, nil
	}
}

// Store writes a device register. Only 4-byte accesses are defined.
func (v *VIRTIO) Store(addr uint64, width int, val uint64) error {
	if width != 4 {
		return NewException(StoreAMOAccessFault)
	}

	switch addr {
	case virtioDriverFeatures:
		v.driverFeatures = uint32(val)
	case virtioGuestPageSize:
		v.pageSize = uint32(val)
	case virtioQueueSel:
		v.queueSel = uint32(val)
	case virtioQueueNum:
		v.queueNum = uint32(val)
	case virtioQueuePFN:
		v.queuePFN = uint32(val)
	case virtioQueueNotify:
		v.queueNotify = uint32(val)
	case virtioStatus:
		v.status = uint32(val)
	}

	return nil
}

// IsInterrupting reports whether the guest notified the queue since the
// last call, consuming the notification.
func (v *VIRTIO) IsInterrupting() bool {
	if v.queueNotify != virtioNoNotification {
		v.queueNotify = virtioNoNotification
		return true
	}

	return false
}

// newID returns the next request id, used to ack the used descriptor.
func (v *VIRTIO) newID() uint64 {
	v.id++
	return v.id
}

// descAddr is the guest-physical address of the descriptor table.
func (v *VIRTIO) descAddr() uint64 {
	return uint64(v.queuePFN) * uint64(v.pageSize)
}

func (v *VIRTIO) readDisk(addr uint64) byte {
	return v.disk[addr]
}

func (v *VIRTIO) writeDisk(addr uint64, val byte) {
	v.disk[addr] = val
}

func (v *VIRTIO) String() string {
	return fmt.Sprintf("VIRTIO{status: %#x, queuePFN: %#x, queueNotify: %#x}", v.status, v.queuePFN, v.queueNotify)
}
