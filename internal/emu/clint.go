package emu

// Clint is a minimal core-local interruptor: a word-addressable
// register file that accepts and returns stored values without side
// effects, so guest code that pokes at the CLINT region during boot
// does not fault. Real timer-interrupt delivery is out of scope.
type Clint struct {
	regs [ClintSize / 8]uint64
}

func NewClint() *Clint {
	return &Clint{}
}

func (c *Clint) Load(addr uint64, size uint64) (uint64, *Exception) {
	if size != 64 {
		return 0, NewException(LoadAccessFault, addr)
	}
	return c.regs[(addr-ClintBase)/8], nil
}

func (c *Clint) Store(addr uint64, size uint64, value uint64) *Exception {
	if size != 64 {
		return NewException(StoreAMOAccessFault, addr)
	}
	c.regs[(addr-ClintBase)/8] = value
	return nil
}
