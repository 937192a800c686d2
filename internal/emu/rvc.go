package emu

// decompress expands a 16-bit RVC instruction into its equivalent
// 32-bit base-ISA encoding, so the rest of the decoder never needs to
// know compressed instructions exist. Reserved and unimplemented
// encodings raise IllegalInstruction rather than panicking: a guest
// that executes one should trap, not crash the emulator.
func (c *Cpu) decompress(instr uint32) (uint32, *Exception) {
	illegal := func() (uint32, *Exception) {
		return 0, NewException(IllegalInstruction, uint64(instr))
	}

	op := instr & 0b11
	funct3 := (instr >> 13) & 0b111
	switch op {
	case 0b00:
		switch funct3 {
		case 0b000: // C.ADDI4SPN
			rd := (instr >> 2) & 0x7
			nzuimm := (instr>>7)&0x30 | (instr>>1)&0x3c0 | (instr>>4)&0x4 | (instr>>2)&0x8
			if nzuimm == 0 {
				return illegal()
			}
			return nzuimm<<20 | 2<<15 | (rd+8)<<7 | 0x13, nil
		case 0b010: // C.LW
			rs1 := (instr >> 7) & 0x7
			rd := (instr >> 2) & 0x7
			offset := (instr>>7)&0x38 | (instr<<1)&0x40 | (instr>>4)&0x4
			return offset<<20 | (rs1+8)<<15 | 2<<12 | (rd+8)<<7 | 0x3, nil
		case 0b011: // C.LD
			rs1 := (instr >> 7) & 0x7
			rd := (instr >> 2) & 0x7
			offset := (instr>>7)&0x38 | (instr<<1)&0xc0
			return offset<<20 | (rs1+8)<<15 | 3<<12 | (rd+8)<<7 | 0x3, nil
		case 0b110: // C.SW
			rs1 := (instr >> 7) & 0x7
			rs2 := (instr >> 2) & 0x7
			offset := (instr>>7)&0x38 | (instr<<1)&0x40 | (instr>>4)&0x4
			imm115 := (offset >> 5) & 0x3f
			imm40 := offset & 0x1f
			return imm115<<25 | (rs2+8)<<20 | (rs1+8)<<15 | 2<<12 | imm40<<7 | 0x23, nil
		case 0b111: // C.SD
			rs1 := (instr >> 7) & 0x7
			rs2 := (instr >> 2) & 0x7
			offset := (instr>>7)&0x38 | (instr<<1)&0xc0
			imm115 := (offset >> 5) & 0x7f
			imm40 := offset & 0x1f
			return imm115<<25 | (rs2+8)<<20 | (rs1+8)<<15 | 3<<12 | imm40<<7 | 0x23, nil
		default:
			return illegal()
		}
	case 0b01:
		switch funct3 {
		case 0b000: // C.ADDI / C.NOP
			r := instr & 0b111110000000
			imm := (instr>>7)&0x20 | (instr>>2)&0x1f
			if instr&0x1000 != 0 {
				imm |= 0xffffffc0
			}
			if r == 0 && imm == 0 {
				return 0x13, nil
			}
			return imm<<20 | r<<8 | r | 0x13, nil
		case 0b001: // C.ADDIW
			r := instr & 0b111110000000
			imm := (instr>>7)&0x20 | (instr>>2)&0x1f
			if instr&0x1000 != 0 {
				imm |= 0xffffffc0
			}
			if r == 0 {
				return illegal()
			}
			return imm<<20 | r<<8 | r | 0x1b, nil
		case 0b010: // C.LI
			r := instr & 0b111110000000
			imm := (instr>>7)&0x20 | (instr>>2)&0x1f
			if instr&0x1000 != 0 {
				imm |= 0xffffffc0
			}
			return imm<<20 | r | 0x13, nil
		case 0b011: // C.ADDI16SP / C.LUI
			r := instr & 0b111110000000
			if r == 0b100000000 {
				imm := (instr>>3)&0x200 | (instr>>2)&0x10 | (instr<<1)&0x40 | (instr<<4)&0x180 | (instr<<3)&0x20
				if instr&0x1000 != 0 {
					imm |= 0xfffffc00
				}
				if imm == 0 {
					return illegal()
				}
				return imm<<20 | r<<8 | r | 0x13, nil
			} else if r != 0 {
				nzimm := (instr<<5)&0x20000 | (instr<<10)&0x1f000
				if instr&0x1000 != 0 {
					nzimm |= 0xfffc0000
				}
				if nzimm == 0 {
					return illegal()
				}
				return nzimm | r | 0x37, nil
			}
			return illegal()
		case 0b100:
			funct2 := (instr >> 10) & 0x3
			switch funct2 {
			case 0b00: // C.SRLI
				rs1 := (instr >> 7) & 0x7
				shamt := (instr>>7)&0x20 | (instr>>2)&0x1f
				return shamt<<20 | (rs1+8)<<15 | 5<<12 | (rs1+8)<<7 | 0x13, nil
			case 0b01: // C.SRAI
				rs1 := (instr >> 7) & 0x7
				shamt := (instr>>7)&0x20 | (instr>>2)&0x1f
				return 0x20<<25 | shamt<<20 | (rs1+8)<<15 | 5<<12 | (rs1+8)<<7 | 0x13, nil
			case 0b10: // C.ANDI
				r := (instr >> 7) & 0x7
				imm := (instr>>7)&0x20 | (instr>>2)&0x1f
				if instr&0x1000 != 0 {
					imm |= 0xffffffc0
				}
				return imm<<20 | (r+8)<<15 | 7<<12 | (r+8)<<7 | 0x13, nil
			case 0b11:
				funct1 := (instr >> 12) & 1
				funct22 := (instr >> 5) & 0x3
				rs1 := (instr >> 7) & 0x7
				rs2 := (instr >> 2) & 0x7
				switch funct1 {
				case 0:
					switch funct22 {
					case 0b00: // C.SUB
						return 0x20<<25 | (rs2+8)<<20 | (rs1+8)<<15 | (rs1+8)<<7 | 0x33, nil
					case 0b01: // C.XOR
						return (rs2+8)<<20 | (rs1+8)<<15 | 4<<12 | (rs1+8)<<7 | 0x33, nil
					case 0b10: // C.OR
						return (rs2+8)<<20 | (rs1+8)<<15 | 6<<12 | (rs1+8)<<7 | 0x33, nil
					case 0b11: // C.AND
						return (rs2+8)<<20 | (rs1+8)<<15 | 7<<12 | (rs1+8)<<7 | 0x33, nil
					}
				case 1:
					switch funct22 {
					case 0b00: // C.SUBW
						return 0x20<<25 | (rs2+8)<<20 | (rs1+8)<<15 | (rs1+8)<<7 | 0x3b, nil
					case 0b01: // C.ADDW
						return (rs2+8)<<20 | (rs1+8)<<15 | (rs1+8)<<7 | 0x3b, nil
					}
				}
				return illegal()
			}
			return illegal()
		case 0b101: // C.J
			offset := (instr>>1)&0x800 | (instr>>7)&0x10 | (instr>>1)&0x300 | (instr<<2)&0x400 | (instr>>1)&0x40 | (instr<<1)&0x80 | (instr>>2)&0xe | (instr<<3)&0x20
			if instr&0x1000 != 0 {
				offset |= 0xfffff000
			}
			imm := (offset>>1)&0x80000 | (offset<<8)&0x7fe00 | (offset>>3)&0x100 | (offset>>12)&0xff
			return imm<<12 | 0x6f, nil
		case 0b110: // C.BEQZ
			r := (instr >> 7) & 0x7
			offset := (instr>>4)&0x100 | (instr>>7)&0x18 | (instr<<1)&0xc0 | (instr>>2)&0x6 | (instr<<3)&0x20
			if instr&0x1000 != 0 {
				offset |= 0xfffffe00
			}
			imm2 := (offset>>6)&0x40 | (offset>>5)&0x3f
			imm1 := (offset>>0)&0x1e | (offset>>11)&0x1
			return imm2<<25 | (r+8)<<20 | imm1<<7 | 0x63, nil
		case 0b111: // C.BNEZ
			r := (instr >> 7) & 0x7
			offset := (instr>>4)&0x100 | (instr>>7)&0x18 | (instr<<1)&0xc0 | (instr>>2)&0x6 | (instr<<3)&0x20
			if instr&0x1000 != 0 {
				offset |= 0xfffffe00
			}
			imm2 := (offset>>6)&0x40 | (offset>>5)&0x3f
			imm1 := (offset>>0)&0x1e | (offset>>11)&0x1
			return imm2<<25 | (r+8)<<20 | 1<<12 | imm1<<7 | 0x63, nil
		default:
			return illegal()
		}
	case 0b10:
		switch funct3 {
		case 0b000: // C.SLLI
			r := (instr >> 7) & 0x1f
			shamt := (instr>>7)&0x20 | (instr>>2)&0x1f
			if r == 0 {
				return illegal()
			}
			return shamt<<20 | r<<15 | 1<<12 | r<<7 | 0x13, nil
		case 0b010: // C.LWSP
			rd := (instr >> 7) & 0x1f
			offset := (instr>>7)&0x20 | (instr>>2)&0x1c | (instr<<4)&0xc0
			if rd == 0 {
				return illegal()
			}
			return offset<<20 | 2<<15 | 2<<12 | rd<<7 | 0x3, nil
		case 0b011: // C.LDSP
			rd := (instr >> 7) & 0x1f
			offset := (instr>>7)&0x20 | (instr>>2)&0x18 | (instr<<4)&0x1c0
			if rd == 0 {
				return illegal()
			}
			return offset<<20 | 2<<15 | 3<<12 | rd<<7 | 0x3, nil
		case 0b100:
			rs1 := (instr >> 7) & 0b11111
			rs2 := (instr >> 2) & 0b11111
			if instr&0x1000 == 0 {
				if rs1 == 0 {
					return illegal()
				}
				if rs2 == 0 { // C.JR
					return (rs1 << 15) | 0x67, nil
				}
				return (rs2 << 20) | (rs1 << 7) | 0x33, nil // C.MV
			}
			if rs2 == 0 {
				if rs1 == 0 { // C.EBREAK
					return 0x00100073, nil
				}
				return (rs1 << 15) | (1 << 7) | 0x67, nil // C.JALR
			}
			if rs1 == 0 {
				return illegal()
			}
			return (rs2 << 20) | (rs1 << 15) | (rs1 << 7) | 0x33, nil // C.ADD
		case 0b110: // C.SWSP
			rs2 := (instr >> 2) & 0x1f
			offset := (instr>>7)&0x3c | (instr>>1)&0xc0
			imm115 := (offset >> 5) & 0x3f
			imm40 := offset & 0x1f
			return imm115<<25 | rs2<<20 | 2<<15 | 2<<12 | imm40<<7 | 0x23, nil
		case 0b111: // C.SDSP
			rs2 := (instr >> 2) & 0x1f
			offset := (instr>>7)&0x38 | (instr>>1)&0x1c0
			imm115 := (offset >> 5) & 0x3f
			imm40 := offset & 0x1f
			return imm115<<25 | rs2<<20 | 2<<15 | 3<<12 | imm40<<7 | 0x23, nil
		default:
			return illegal()
		}
	default:
		return illegal()
	}
}
