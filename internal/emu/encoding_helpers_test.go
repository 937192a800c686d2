package emu

// Encoders mirroring decode.go's field layouts, used only by tests to
// build instructions from mnemonics instead of hand-written hex.

func encodeR(funct7, rs2, rs1, funct3, rd, opcode uint32) uint32 {
	return funct7<<25 | rs2<<20 | rs1<<15 | funct3<<12 | rd<<7 | opcode
}

func encodeI(imm int32, rs1, funct3, rd, opcode uint32) uint32 {
	return uint32(imm)<<20 | rs1<<15 | funct3<<12 | rd<<7 | opcode
}

func encodeS(imm int32, rs2, rs1, funct3, opcode uint32) uint32 {
	u := uint32(imm)
	imm115 := (u >> 5) & 0x7f
	imm40 := u & 0x1f
	return imm115<<25 | rs2<<20 | rs1<<15 | funct3<<12 | imm40<<7 | opcode
}

func encodeB(imm int32, rs2, rs1, funct3, opcode uint32) uint32 {
	u := uint32(imm)
	b12 := (u >> 12) & 1
	b11 := (u >> 11) & 1
	b105 := (u >> 5) & 0x3f
	b41 := (u >> 1) & 0xf
	return b12<<31 | b105<<25 | rs2<<20 | rs1<<15 | funct3<<12 | b41<<8 | b11<<7 | opcode
}

func encodeU(imm uint32, rd, opcode uint32) uint32 {
	return (imm & 0xfffff000) | rd<<7 | opcode
}

func encodeJ(imm int32, rd, opcode uint32) uint32 {
	u := uint32(imm)
	b20 := (u >> 20) & 1
	b101 := (u >> 1) & 0x3ff
	b11 := (u >> 11) & 1
	b1912 := (u >> 12) & 0xff
	return b20<<31 | b101<<21 | b11<<20 | b1912<<12 | rd<<7 | opcode
}

func encodeCSR(csr, rs, funct3, rd, opcode uint32) uint32 {
	return csr<<20 | rs<<15 | funct3<<12 | rd<<7 | opcode
}

const (
	opLoad    = 0b0000011
	opStore   = 0b0100011
	opOpImm   = 0b0010011
	opOp      = 0b0110011
	opLui     = 0b0110111
	opAuipc   = 0b0010111
	opJal     = 0b1101111
	opJalr    = 0b1100111
	opBranch  = 0b1100011
	opSystem  = 0b1110011
	opOpImm32 = 0b0011011
	opOp32    = 0b0111011
	opAmo     = 0b0101111
)
