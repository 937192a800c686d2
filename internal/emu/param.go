package emu

// Memory map and device layout, following the QEMU virt machine
// conventions the teacher's CPU.readphysical/writephysical switch
// already assumed implicitly.
const (
	DramBase uint64 = 0x8000_0000
	DramSize uint64 = 128 * 1024 * 1024
	DramEnd  uint64 = DramBase + DramSize - 1

	ClintBase uint64 = 0x0200_0000
	ClintSize uint64 = 0x1_0000
	ClintEnd  uint64 = ClintBase + ClintSize - 1

	PlicBase uint64 = 0x0C00_0000
	PlicSize uint64 = 0x0400_0000
	PlicEnd  uint64 = PlicBase + PlicSize - 1

	PlicPending   uint64 = PlicBase + 0x1000
	PlicSenable   uint64 = PlicBase + 0x2000
	PlicSpriority uint64 = PlicBase + 0x20_1000
	PlicSclaim    uint64 = PlicBase + 0x20_1004

	UartBase uint64 = 0x1000_0000
	UartSize uint64 = 0x100
	UartEnd  uint64 = UartBase + UartSize - 1

	UartRHR uint64 = UartBase + 0
	UartTHR uint64 = UartBase + 0
	UartLSR uint64 = UartBase + 5

	LsrRX uint8 = 1 << 0
	LsrTX uint8 = 1 << 5

	UartIRQ uint32 = 10

	VirtioBase uint64 = 0x1000_1000
	VirtioSize uint64 = 0x1000
	VirtioEnd  uint64 = VirtioBase + VirtioSize - 1
	VirtioIRQ  uint32 = 1

	VirtioMagic          uint64 = VirtioBase + 0x000
	VirtioVersion        uint64 = VirtioBase + 0x004
	VirtioDeviceID       uint64 = VirtioBase + 0x008
	VirtioVendorID       uint64 = VirtioBase + 0x00c
	VirtioDeviceFeatures uint64 = VirtioBase + 0x010
	VirtioDriverFeatures uint64 = VirtioBase + 0x020
	VirtioGuestPageSize  uint64 = VirtioBase + 0x028
	VirtioQueueSel       uint64 = VirtioBase + 0x030
	VirtioQueueNumMax    uint64 = VirtioBase + 0x034
	VirtioQueueNum       uint64 = VirtioBase + 0x038
	VirtioQueueAlign     uint64 = VirtioBase + 0x03c
	VirtioQueuePFN       uint64 = VirtioBase + 0x040
	VirtioQueueNotify    uint64 = VirtioBase + 0x050
	VirtioInterruptStat  uint64 = VirtioBase + 0x060
	VirtioInterruptAck   uint64 = VirtioBase + 0x064
	VirtioStatus         uint64 = VirtioBase + 0x070

	PageSize   uint64 = 4096
	SectorSize uint64 = 512

	DescNum uint64 = 8

	VirtioBlkTIn  uint32 = 0
	VirtioBlkTOut uint32 = 1

	VringDescSize uint64 = 16
)
