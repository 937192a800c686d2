package emu

// Privilege is one of the three modes this core implements; Hypervisor
// mode is named only so CSR bit-width constants line up with the spec,
// it is never entered.
type Privilege uint8

const (
	User Privilege = iota
	Supervisor
	Hypervisor
	Machine
)

// Cpu is the emulated hart: 32 general-purpose registers, pc, current
// privilege mode, the CSR file, the memory bus, and the reservation
// state the A-extension's LR/SC pair needs.
type Cpu struct {
	regs [32]int64
	pc   uint64
	mode Privilege

	csrs *Csrs
	Bus  *Bus

	wfi bool

	reservationSet bool
	reservation    uint64

	count uint64

	// Trace, when non-nil, receives one line per retired instruction in
	// the teacher's "count -- [pc]: instr [regs]" format.
	Trace func(count uint64, pc uint64, instr uint32, regs [32]int64)
}

func NewCpu(bus *Bus) *Cpu {
	c := &Cpu{
		pc:   DramBase,
		mode: Machine,
		csrs: NewCsrs(),
		Bus:  bus,
	}
	c.regs[2] = int64(DramBase + DramSize) // sp
	return c
}

// Run drives the fetch/decode/execute/interrupt loop until a fatal
// exception is raised, then returns it.
func (c *Cpu) Run() *Exception {
	for {
		if exc := c.Step(); exc != nil {
			return exc
		}
	}
}

// Step executes exactly one instruction (or, during WFI, none) and
// then checks for a pending interrupt. It returns a non-nil exception
// only when that exception is fatal; non-fatal exceptions are
// delivered to the guest as traps and Step returns nil.
func (c *Cpu) Step() *Exception {
	startPC := c.pc

	if exc := c.stepInner(startPC); exc != nil {
		if exc.IsFatal() {
			return exc
		}
		c.HandleException(exc, startPC)
	}

	c.count++

	if i, ok := c.CheckPendingInterrupt(); ok {
		c.HandleInterrupt(i)
	}

	return nil
}

func (c *Cpu) stepInner(startPC uint64) *Exception {
	if c.wfi {
		if i, ok := c.CheckPendingInterrupt(); ok {
			c.wfi = false
			c.HandleInterrupt(i)
		}
		return nil
	}

	instr, exc := c.fetch()
	if exc != nil {
		return exc
	}

	if instr&0b11 == 0b11 {
		c.pc += 4
	} else {
		c.pc += 2
		instr, exc = c.decompress(instr & 0xffff)
		if exc != nil {
			return exc
		}
	}

	if c.Trace != nil {
		c.Trace(c.count, startPC, instr, c.regs)
	}

	exc = c.execute(instr, startPC)
	c.regs[0] = 0
	return exc
}

func (c *Cpu) fetch() (uint32, *Exception) {
	paddr, exc := c.Translate(c.pc, AccessInstruction)
	if exc != nil {
		return 0, NewException(InstructionPageFault, c.pc)
	}
	v, busExc := c.Bus.Load(paddr, 32)
	if busExc != nil {
		return 0, NewException(InstructionAccessFault, c.pc)
	}
	return uint32(v), nil
}

func (c *Cpu) ReadByte(addr uint64) (uint8, *Exception) {
	v, exc := c.read(addr, 8)
	return uint8(v), exc
}

func (c *Cpu) ReadHalf(addr uint64) (uint16, *Exception) {
	v, exc := c.read(addr, 16)
	return uint16(v), exc
}

func (c *Cpu) ReadWord(addr uint64) (uint32, *Exception) {
	v, exc := c.read(addr, 32)
	return uint32(v), exc
}

func (c *Cpu) ReadDouble(addr uint64) (uint64, *Exception) {
	return c.read(addr, 64)
}

func (c *Cpu) read(addr uint64, size uint64) (uint64, *Exception) {
	paddr, exc := c.Translate(addr, AccessLoad)
	if exc != nil {
		return 0, exc
	}
	v, busExc := c.Bus.Load(paddr, size)
	if busExc != nil {
		return 0, NewException(LoadAccessFault, addr)
	}
	return v, nil
}

func (c *Cpu) WriteByte(addr uint64, v uint8) *Exception {
	return c.write(addr, 8, uint64(v))
}

func (c *Cpu) WriteHalf(addr uint64, v uint16) *Exception {
	return c.write(addr, 16, uint64(v))
}

func (c *Cpu) WriteWord(addr uint64, v uint32) *Exception {
	return c.write(addr, 32, uint64(v))
}

func (c *Cpu) WriteDouble(addr uint64, v uint64) *Exception {
	return c.write(addr, 64, v)
}

func (c *Cpu) write(addr uint64, size uint64, v uint64) *Exception {
	paddr, exc := c.Translate(addr, AccessStore)
	if exc != nil {
		return exc
	}
	if busExc := c.Bus.Store(paddr, size, v); busExc != nil {
		return NewException(StoreAMOAccessFault, addr)
	}
	return nil
}

// PC returns the current program counter, for diagnostics.
func (c *Cpu) PC() uint64 { return c.pc }

// Mode returns the current privilege level, for diagnostics.
func (c *Cpu) Mode() Privilege { return c.mode }

// Reg returns the value of integer register n (0..31), for diagnostics.
func (c *Cpu) Reg(n int) int64 { return c.regs[n] }

// Csr returns the raw value of a CSR address, for diagnostics.
func (c *Cpu) Csr(addr uint16) uint64 { return c.csrs.Load(addr) }
