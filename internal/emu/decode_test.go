package emu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// addi x5, x6, -1
func TestParseINegativeImmediate(t *testing.T) {
	instr := uint32(0xfff30293) // imm=-1 rs1=6(x6) funct3=0 rd=5
	op := parseI(instr)
	assert.Equal(t, int32(-1), op.imm)
	assert.Equal(t, uint32(6), op.rs1)
	assert.Equal(t, uint32(5), op.rd)
	assert.Equal(t, uint32(0), op.funct3)
}

// sd x7, 16(x8)
func TestParseSPositiveImmediate(t *testing.T) {
	instr := uint32(0x00743823)
	op := parseS(instr)
	assert.Equal(t, int32(16), op.imm)
	assert.Equal(t, uint32(8), op.rs1)
	assert.Equal(t, uint32(7), op.rs2)
}

func TestParseUExtractsUpperImmediate(t *testing.T) {
	// lui x1, 0x12345
	instr := uint32(0x123450b7)
	op := parseU(instr)
	assert.Equal(t, int64(0x12345000), op.imm)
	assert.Equal(t, uint32(1), op.rd)
}

func TestParseJSignExtends(t *testing.T) {
	// All instruction bits set: every imm fragment and rd is all-ones,
	// which exercises the sign-extension path end to end.
	op := parseJ(0xffffffff)
	assert.Equal(t, int32(-2), op.imm)
	assert.Equal(t, uint32(31), op.rd)
}

func TestParseCSRFields(t *testing.T) {
	// csrrw x1, mstatus, x2
	instr := uint32(0x300110F3)
	op := parseCSR(instr)
	assert.Equal(t, uint32(Mstatus), op.csr)
	assert.Equal(t, uint32(2), op.rs)
	assert.Equal(t, uint32(1), op.rd)
	assert.Equal(t, uint32(1), op.funct3)
}

func TestParseRFields(t *testing.T) {
	// add x3, x4, x5
	instr := uint32(0x005201b3)
	op := parseR(instr)
	assert.Equal(t, uint32(0), op.funct7)
	assert.Equal(t, uint32(5), op.rs2)
	assert.Equal(t, uint32(4), op.rs1)
	assert.Equal(t, uint32(3), op.rd)
}
