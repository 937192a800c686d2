package emu

// AccessType distinguishes the three page-table permission bits a
// translation must satisfy.
type AccessType uint8

const (
	AccessInstruction AccessType = iota
	AccessLoad
	AccessStore
)

const (
	pteV = 1 << 0
	pteR = 1 << 1
	pteW = 1 << 2
	pteX = 1 << 3
)

// Translate walks the Sv39 3-level page table rooted at satp to turn a
// guest-virtual address into a guest-physical one, assembling
// megapages and gigapages when a leaf PTE is found above level 0.
func (c *Cpu) Translate(addr uint64, access AccessType) (uint64, *Exception) {
	if !c.pagingEnabled() {
		return addr, nil
	}

	faultKind := pageFaultFor(access)

	vpn := [3]uint64{
		(addr >> 12) & 0x1ff,
		(addr >> 21) & 0x1ff,
		(addr >> 30) & 0x1ff,
	}

	rootPPN := c.csrs.Load(Satp) & 0xfffffffffff
	a := rootPPN * PageSize

	var pte uint64
	level := 2
	for {
		pteAddr := a + vpn[level]*8
		// Page tables are always DRAM-backed in this subset, so a bus
		// fault here is unreachable in practice; translated into the
		// walk's own fault kind rather than propagated verbatim since
		// the page-table access itself is not the faulting reference.
		v, exc := c.Bus.Load(pteAddr, 64)
		if exc != nil {
			return 0, NewException(faultKind, addr)
		}
		pte = v

		valid := pte&pteV != 0
		readable := pte&pteR != 0
		writable := pte&pteW != 0
		if !valid || (!readable && writable) {
			return 0, NewException(faultKind, addr)
		}
		if readable || pte&pteX != 0 {
			break
		}
		level--
		if level < 0 {
			return 0, NewException(faultKind, addr)
		}
		ppn := (pte >> 10) & 0xfffffffffff
		a = ppn * PageSize
	}

	// A/D bits and the U/SUM/MXR permission bits are never checked: a
	// real PTE must set A (and D on a store), but this subset does not
	// fault or set them on the emulator's behalf.
	switch access {
	case AccessInstruction:
		if pte&pteX == 0 {
			return 0, NewException(faultKind, addr)
		}
	case AccessLoad:
		if pte&pteR == 0 {
			return 0, NewException(faultKind, addr)
		}
	case AccessStore:
		if pte&pteW == 0 {
			return 0, NewException(faultKind, addr)
		}
	}

	ppn := [3]uint64{
		(pte >> 10) & 0x1ff,
		(pte >> 19) & 0x1ff,
		(pte >> 28) & 0x3ffffff,
	}
	offset := addr & 0xfff

	switch level {
	case 0:
		return ((pte>>10)&0xfffffffffff)<<12 | offset, nil
	case 1:
		if ppn[0] != 0 {
			return 0, NewException(faultKind, addr)
		}
		return ppn[2]<<30 | ppn[1]<<21 | vpn[0]<<12 | offset, nil
	case 2:
		if ppn[1] != 0 || ppn[0] != 0 {
			return 0, NewException(faultKind, addr)
		}
		return ppn[2]<<30 | vpn[1]<<21 | vpn[0]<<12 | offset, nil
	default:
		return 0, NewException(faultKind, addr)
	}
}

func pageFaultFor(access AccessType) ExceptionKind {
	switch access {
	case AccessInstruction:
		return InstructionPageFault
	case AccessStore:
		return StoreAMOPageFault
	default:
		return LoadPageFault
	}
}

// pagingEnabled reports whether Sv39 translation is active: satp mode
// field is 8 and the hart is not in Machine mode (Machine mode never
// translates its own loads/stores in this subset).
func (c *Cpu) pagingEnabled() bool {
	return c.csrs.Load(Satp)>>60 == 8 && c.mode != Machine
}
