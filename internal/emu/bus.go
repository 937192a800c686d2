package emu

// Bus dispatches loads and stores across the address space by range:
// DRAM, CLINT, PLIC, UART, and the virtio-mmio block device. Alignment
// is each device's own concern; the bus only routes.
type Bus struct {
	Clint  *Clint
	Plic   *Plic
	Uart   *Uart
	Virtio *Virtio
	Dram   *Dram
}

func NewBus(code []byte, diskImage []byte, uartIn *Uart) *Bus {
	return &Bus{
		Clint:  NewClint(),
		Plic:   NewPlic(),
		Uart:   uartIn,
		Virtio: NewVirtio(diskImage),
		Dram:   NewDram(code),
	}
}

func (b *Bus) Load(addr uint64, size uint64) (uint64, *Exception) {
	switch {
	case addr >= ClintBase && addr <= ClintEnd:
		return b.Clint.Load(addr, size)
	case addr >= PlicBase && addr <= PlicEnd:
		return b.Plic.Load(addr, size)
	case addr >= UartBase && addr <= UartEnd:
		return b.Uart.Load(addr, size)
	case addr >= VirtioBase && addr <= VirtioEnd:
		return b.Virtio.Load(addr, size)
	case addr >= DramBase:
		return b.Dram.Load(addr, size)
	default:
		return 0, NewException(LoadAccessFault, addr)
	}
}

func (b *Bus) Store(addr uint64, size uint64, value uint64) *Exception {
	switch {
	case addr >= ClintBase && addr <= ClintEnd:
		return b.Clint.Store(addr, size, value)
	case addr >= PlicBase && addr <= PlicEnd:
		return b.Plic.Store(addr, size, value)
	case addr >= UartBase && addr <= UartEnd:
		return b.Uart.Store(addr, size, value)
	case addr >= VirtioBase && addr <= VirtioEnd:
		return b.Virtio.Store(addr, size, value)
	case addr >= DramBase:
		return b.Dram.Store(addr, size, value)
	default:
		return NewException(StoreAMOAccessFault, addr)
	}
}
