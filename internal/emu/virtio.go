package emu

// Virtio is a legacy (pre-1.0) virtio-mmio block device: register file
// plus the raw backing disk image. The virtqueue itself lives in guest
// DRAM; Virtio only tracks enough register state to locate it
// (DescAddr) and to know when the driver has notified a new request.
type Virtio struct {
	id             uint64
	driverFeatures uint32
	pageSize       uint32
	queueSel       uint32
	queueNum       uint32
	queuePfn       uint32
	queueNotify    uint32
	status         uint32
	disk           []byte
}

// MaxQueue is both the queue count and the queue_notify sentinel used
// to mean "no request pending": guest code always notifies with index
// 0, so any value below MaxQueue signals an outstanding request.
const MaxQueue uint32 = 1

func NewVirtio(diskImage []byte) *Virtio {
	disk := make([]byte, len(diskImage))
	copy(disk, diskImage)
	return &Virtio{
		queueNotify: MaxQueue,
		disk:        disk,
	}
}

// IsInterrupting reports and clears a pending notification.
func (v *Virtio) IsInterrupting() bool {
	if v.queueNotify < MaxQueue {
		v.queueNotify = MaxQueue
		return true
	}
	return false
}

func (v *Virtio) Load(addr uint64, size uint64) (uint64, *Exception) {
	if size != 32 {
		return 0, NewException(LoadAccessFault, addr)
	}
	switch addr {
	case VirtioMagic:
		return 0x74726976, nil
	case VirtioVersion:
		return 0x1, nil
	case VirtioDeviceID:
		return 0x2, nil
	case VirtioVendorID:
		return 0x554d4551, nil
	case VirtioDeviceFeatures:
		return 0, nil
	case VirtioDriverFeatures:
		return uint64(v.driverFeatures), nil
	case VirtioQueueNumMax:
		return 8, nil
	case VirtioQueuePFN:
		return uint64(v.queuePfn), nil
	case VirtioStatus:
		return uint64(v.status), nil
	default:
		return 0, nil
	}
}

func (v *Virtio) Store(addr uint64, size uint64, value uint64) *Exception {
	if size != 32 {
		return NewException(StoreAMOAccessFault, addr)
	}
	val := uint32(value)
	switch addr {
	case VirtioDriverFeatures:
		v.driverFeatures = val
	case VirtioGuestPageSize:
		v.pageSize = val
	case VirtioQueueSel:
		v.queueSel = val
	case VirtioQueueNum:
		v.queueNum = val
	case VirtioQueuePFN:
		v.queuePfn = val
	case VirtioQueueNotify:
		v.queueNotify = val
	case VirtioStatus:
		v.status = val
	}
	return nil
}

// GetNewID returns a monotonically increasing, wrapping request id
// used to populate the used-ring element id.
func (v *Virtio) GetNewID() uint64 {
	v.id++
	return v.id
}

// DescAddr is the guest-physical address of the negotiated virtqueue.
func (v *Virtio) DescAddr() uint64 {
	return uint64(v.queuePfn) * uint64(v.pageSize)
}

func (v *Virtio) ReadDisk(addr uint64) uint64 {
	return uint64(v.disk[addr])
}

func (v *Virtio) WriteDisk(addr uint64, value uint64) {
	v.disk[addr] = byte(value)
}
