package emu

// trapInfo bundles the five CSR addresses and status-field bit
// positions a trap needs, selected once per delivery rather than
// switched-on repeatedly.
type trapInfo struct {
	status, tvec, cause, tval, epc uint16
	pieBit, ieBit, ppBit           uint
	ppWidth                        uint64
}

func sTrapInfo() trapInfo {
	return trapInfo{Sstatus, Stvec, Scause, Stval, Sepc, 5, 1, 8, 0b1}
}

func mTrapInfo() trapInfo {
	return trapInfo{Mstatus, Mtvec, Mcause, Mtval, Mepc, 7, 3, 11, 0b11}
}

// HandleException delivers a synchronous trap: selects S-mode or
// M-mode per medeleg, records pc/cause/tval, computes the new pc from
// the target mode's tvec, and updates the interrupt-enable/previous-
// mode fields of the target status register.
func (c *Cpu) HandleException(e *Exception, faultPC uint64) {
	cause := e.Code()
	fromMode := c.mode
	trapInS := c.mode <= Supervisor && c.csrs.IsMedelegated(cause)

	var info trapInfo
	if trapInS {
		c.mode = Supervisor
		info = sTrapInfo()
	} else {
		c.mode = Machine
		info = mTrapInfo()
	}

	c.pc = c.csrs.Load(info.tvec) &^ 0b11
	c.csrs.Store(info.epc, faultPC)
	c.csrs.Store(info.cause, cause)
	c.csrs.Store(info.tval, e.Value())

	c.deliverStatus(info, fromMode)
}

// HandleInterrupt delivers an asynchronous trap, honoring the
// Direct/Vectored mode field of the target tvec.
func (c *Cpu) HandleInterrupt(i Interrupt) {
	cause := i.Code()
	fromMode := c.mode
	epc := c.pc
	trapInS := c.mode <= Supervisor && c.csrs.IsMidelegated(cause)

	var info trapInfo
	if trapInS {
		c.mode = Supervisor
		info = sTrapInfo()
	} else {
		c.mode = Machine
		info = mTrapInfo()
	}

	tvec := c.csrs.Load(info.tvec)
	tvecMode := tvec & 0b11
	tvecBase := tvec &^ 0b11
	if tvecMode == 1 {
		c.pc = tvecBase + (cause << 2)
	} else {
		c.pc = tvecBase
	}
	c.csrs.Store(info.epc, epc)
	c.csrs.Store(info.cause, cause|InterruptBit)
	c.csrs.Store(info.tval, 0)

	c.deliverStatus(info, fromMode)
}

func (c *Cpu) deliverStatus(info trapInfo, fromMode Privilege) {
	status := c.csrs.Load(info.status)
	ie := (status >> info.ieBit) & 1
	status = status&^(uint64(1)<<info.pieBit) | ie<<info.pieBit
	status &^= uint64(1) << info.ieBit

	var prevMode uint64
	switch fromMode {
	case Supervisor:
		prevMode = 0b01
	case Machine:
		prevMode = 0b11
	default:
		prevMode = 0b00
	}
	status = status&^(info.ppWidth<<info.ppBit) | (prevMode&info.ppWidth)<<info.ppBit
	c.csrs.Store(info.status, status)
}

// CheckPendingInterrupt reports the highest-priority interrupt ready
// for delivery, or (0, false) if none is pending. Interrupts disabled
// at the current privilege level (xIE=0) never fire; the priority
// order among simultaneous pending interrupts is MEI, MSI, MTI, SEI,
// SSI, STI, matching the privileged spec.
func (c *Cpu) CheckPendingInterrupt() (Interrupt, bool) {
	switch c.mode {
	case Machine:
		if c.csrs.MIE() == 0 {
			return 0, false
		}
	case Supervisor:
		if c.csrs.SIE() == 0 {
			return 0, false
		}
	}

	if c.Bus.Uart.IsInterrupting() {
		c.Bus.Plic.Store(PlicSclaim, 32, uint64(UartIRQ))
		c.csrs.Store(Mip, c.csrs.Load(Mip)|MipSEIP)
	} else if c.Bus.Virtio.IsInterrupting() {
		c.diskAccess()
		c.Bus.Plic.Store(PlicSclaim, 32, uint64(VirtioIRQ))
		c.csrs.Store(Mip, c.csrs.Load(Mip)|MipSEIP)
	}

	pending := c.csrs.Load(Mie) & c.csrs.Load(Mip)

	switch {
	case pending&MipMEIP != 0:
		c.csrs.Store(Mip, c.csrs.Load(Mip)&^MipMEIP)
		return MachineExternalInterrupt, true
	case pending&MipMSIP != 0:
		c.csrs.Store(Mip, c.csrs.Load(Mip)&^MipMSIP)
		return MachineSoftwareInterrupt, true
	case pending&MipMTIP != 0:
		c.csrs.Store(Mip, c.csrs.Load(Mip)&^MipMTIP)
		return MachineTimerInterrupt, true
	case pending&MipSEIP != 0:
		c.csrs.Store(Mip, c.csrs.Load(Mip)&^MipSEIP)
		return SupervisorExternalInterrupt, true
	case pending&MipSSIP != 0:
		c.csrs.Store(Mip, c.csrs.Load(Mip)&^MipSSIP)
		return SupervisorSoftwareInterrupt, true
	case pending&MipSTIP != 0:
		c.csrs.Store(Mip, c.csrs.Load(Mip)&^MipSTIP)
		return SupervisorTimerInterrupt, true
	default:
		return 0, false
	}
}
