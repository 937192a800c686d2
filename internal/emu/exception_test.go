package emu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExceptionCode(t *testing.T) {
	cases := []struct {
		kind ExceptionKind
		code uint64
	}{
		{InstructionAddrMisaligned, 0},
		{InstructionAccessFault, 1},
		{IllegalInstruction, 2},
		{Breakpoint, 3},
		{LoadAccessMisaligned, 4},
		{LoadAccessFault, 5},
		{StoreAMOAddrMisaligned, 6},
		{StoreAMOAccessFault, 7},
		{EnvCallFromUMode, 8},
		{EnvCallFromSMode, 9},
		{EnvCallFromMMode, 11},
		{InstructionPageFault, 12},
		{LoadPageFault, 13},
		{StoreAMOPageFault, 15},
	}
	for _, c := range cases {
		e := NewException(c.kind, 0x1234)
		assert.Equal(t, c.code, e.Code())
		assert.Equal(t, uint64(0x1234), e.Value())
	}
}

func TestExceptionErrorImplementsError(t *testing.T) {
	var err error = NewException(IllegalInstruction, 0xdeadbeef)
	assert.Contains(t, err.Error(), "illegal instruction")
}

func TestExceptionIsFatal(t *testing.T) {
	assert.True(t, NewException(IllegalInstruction, 0).IsFatal())
	assert.True(t, NewException(LoadAccessFault, 0).IsFatal())
	assert.False(t, NewException(EnvCallFromUMode, 0).IsFatal())
	assert.False(t, NewException(InstructionPageFault, 0).IsFatal())
	assert.False(t, NewException(Breakpoint, 0).IsFatal())
}
