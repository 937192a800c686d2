package emu

// diskAccess walks the negotiated virtqueue and performs one virtio
// block request: read the descriptor chain the driver published in
// the available ring, copy bytes between the disk image and DRAM
// according to the request's iotype, then publish the completion in
// the used ring. The status descriptor (the chain's third entry) is
// deliberately left unwritten, matching the upstream reference this
// subset is modeled on.
func (c *Cpu) diskAccess() {
	descBase := c.Bus.Virtio.DescAddr()
	availBase := descBase + VringDescSize*DescNum
	usedBase := descBase + PageSize

	availIdx, _ := c.Bus.Load(availBase+2, 16)
	head, _ := c.Bus.Load(availBase+4+2*(availIdx%DescNum), 16)

	desc0 := descBase + VringDescSize*head
	next0, _ := c.Bus.Load(desc0+14, 16)
	reqAddr, _ := c.Bus.Load(desc0+0, 64)

	sector, _ := c.Bus.Load(reqAddr+8, 64)
	iotype, _ := c.Bus.Load(reqAddr+0, 32)

	desc1 := descBase + VringDescSize*next0
	dataAddr, _ := c.Bus.Load(desc1+0, 64)
	dataLen, _ := c.Bus.Load(desc1+8, 32)

	switch uint32(iotype) {
	case VirtioBlkTIn:
		for i := uint64(0); i < dataLen; i++ {
			b := c.Bus.Virtio.ReadDisk(sector*SectorSize + i)
			c.Bus.Store(dataAddr+i, 8, b)
		}
	case VirtioBlkTOut:
		for i := uint64(0); i < dataLen; i++ {
			b, _ := c.Bus.Load(dataAddr+i, 8)
			c.Bus.Virtio.WriteDisk(sector*SectorSize+i, b)
		}
	}

	newID := c.Bus.Virtio.GetNewID()
	c.Bus.Store(usedBase+2, 16, newID%DescNum)
}
