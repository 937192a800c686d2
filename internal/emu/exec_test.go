package emu

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExecAddAndAddi(t *testing.T) {
	c := newTestCpu()
	c.regs[1] = 10
	// addi x2, x1, 5
	exc := c.execute(encodeI(5, 1, 0b000, 2, opOpImm), 0)
	assert.Nil(t, exc)
	assert.Equal(t, int64(15), c.regs[2])

	c.regs[3] = 7
	// add x4, x2, x3
	exc = c.execute(encodeR(0, 3, 2, 0b000, 4, opOp), 0)
	assert.Nil(t, exc)
	assert.Equal(t, int64(22), c.regs[4])
}

func TestExecBranchTaken(t *testing.T) {
	c := newTestCpu()
	c.pc = DramBase
	c.regs[1] = 5
	c.regs[2] = 5
	// beq x1, x2, +8
	exc := c.execute(encodeB(8, 2, 1, 0b000, opBranch), DramBase)
	assert.Nil(t, exc)
	assert.Equal(t, DramBase+8, c.pc)
}

func TestExecBranchNotTaken(t *testing.T) {
	c := newTestCpu()
	c.pc = DramBase + 4
	c.regs[1] = 5
	c.regs[2] = 6
	exc := c.execute(encodeB(8, 2, 1, 0b000, opBranch), DramBase)
	assert.Nil(t, exc)
	assert.Equal(t, DramBase+4, c.pc) // unchanged: pc was already advanced past the branch
}

func TestExecLoadStoreRoundTrip(t *testing.T) {
	c := newTestCpu()
	c.regs[1] = int64(DramBase)
	c.regs[2] = -1

	exc := c.execute(encodeS(0, 2, 1, 0b011, opStore), 0) // sd x2, 0(x1)
	assert.Nil(t, exc)

	exc = c.execute(encodeI(0, 1, 0b011, 3, opLoad), 0) // ld x3, 0(x1)
	assert.Nil(t, exc)
	assert.Equal(t, int64(-1), c.regs[3])
}

func TestExecLoadByteSignAndZeroExtend(t *testing.T) {
	c := newTestCpu()
	c.regs[1] = int64(DramBase)
	assert.Nil(t, c.WriteByte(DramBase, 0xff))

	exc := c.execute(encodeI(0, 1, 0b000, 2, opLoad), 0) // lb
	assert.Nil(t, exc)
	assert.Equal(t, int64(-1), c.regs[2])

	exc = c.execute(encodeI(0, 1, 0b100, 3, opLoad), 0) // lbu
	assert.Nil(t, exc)
	assert.Equal(t, int64(0xff), c.regs[3])
}

func TestExecDivByZeroAndOverflow(t *testing.T) {
	c := newTestCpu()
	c.regs[1] = 10
	c.regs[2] = 0
	exc := c.execute(encodeR(1, 2, 1, 0b100, 3, opOp), 0) // div x3, x1, x2
	assert.Nil(t, exc)
	assert.Equal(t, int64(-1), c.regs[3])

	exc = c.execute(encodeR(1, 2, 1, 0b110, 4, opOp), 0) // rem x4, x1, x2
	assert.Nil(t, exc)
	assert.Equal(t, int64(10), c.regs[4])

	c.regs[1] = math.MinInt64
	c.regs[2] = -1
	exc = c.execute(encodeR(1, 2, 1, 0b100, 5, opOp), 0) // div overflow
	assert.Nil(t, exc)
	assert.Equal(t, int64(math.MinInt64), c.regs[5])
}

func TestExecMulhVariants(t *testing.T) {
	c := newTestCpu()
	c.regs[1] = -1
	c.regs[2] = -1
	// mulh x3, x1, x2: (-1)*(-1) = 1, high 64 bits of the 128-bit product are 0
	exc := c.execute(encodeR(1, 2, 1, 0b001, 3, opOp), 0)
	assert.Nil(t, exc)
	assert.Equal(t, int64(0), c.regs[3])

	c.regs[1] = ^int64(0) // all-ones, i.e. 2^64-1 unsigned
	c.regs[2] = ^int64(0)
	// mulhu x5, x1, x2: (2^64-1)^2 >> 64 == 2^64-2
	exc = c.execute(encodeR(1, 2, 1, 0b011, 5, opOp), 0)
	assert.Nil(t, exc)
	assert.Equal(t, ^int64(1), c.regs[5])
}

func TestExecAmoAdd(t *testing.T) {
	c := newTestCpu()
	c.regs[1] = int64(DramBase)
	assert.Nil(t, c.WriteDouble(DramBase, 100))

	c.regs[2] = 5
	// amoadd.d x3, x2, (x1): funct5=00000, aq/rl=00
	instr := encodeR(0, 2, 1, 0b011, 3, opAmo)
	exc := c.execute(instr, 0)
	assert.Nil(t, exc)
	assert.Equal(t, int64(100), c.regs[3]) // old value returned

	v, exc2 := c.ReadDouble(DramBase)
	assert.Nil(t, exc2)
	assert.Equal(t, uint64(105), v)
}

func TestExecCsrrw(t *testing.T) {
	c := newTestCpu()
	c.regs[1] = 0x42
	instr := encodeCSR(uint32(Mscratch), 1, 0b001, 2, opSystem) // csrrw x2, mscratch, x1
	exc := c.execute(instr, 0)
	assert.Nil(t, exc)
	assert.Equal(t, int64(0), c.regs[2]) // old mscratch was 0
	assert.Equal(t, uint64(0x42), c.csrs.Load(Mscratch))
}

func TestExecEcallRaisesPerMode(t *testing.T) {
	c := newTestCpu()
	c.mode = User
	exc := c.execute(encodeI(0, 0, 0, 0, opSystem), 0x1000)
	assert.NotNil(t, exc)
	assert.Equal(t, uint64(8), exc.Code())
}

func TestExecIllegalOpcodeTraps(t *testing.T) {
	c := newTestCpu()
	exc := c.execute(0x0000_0000, 0) // opcode 0 is not assigned
	assert.NotNil(t, exc)
	assert.Equal(t, IllegalInstruction, exc.kind)
}
