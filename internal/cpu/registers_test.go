package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPSRoundTrip(t *testing.T) {
	var r Registers
	for v := 0; v < 256; v++ {
		r.SetPS(byte(v))
		got := r.PS()
		assert.Equal(t, byte(v)&0b11011111, got, "value %#x", v)
	}
}

func TestPSBit5ForcedZero(t *testing.T) {
	var r Registers
	r.SetPS(0xFF)
	assert.Equal(t, byte(0xDF), r.PS(), "bit 5 must be forced to 0 on pack")
}

func TestResetClearsState(t *testing.T) {
	r := Registers{A: 1, X: 2, Y: 3, PC: 0x1234, SP: 0x10, Carry: true, Negative: true}
	r.Reset()
	assert.Equal(t, byte(0), r.A)
	assert.Equal(t, byte(0), r.X)
	assert.Equal(t, byte(0), r.Y)
	assert.Equal(t, uint16(0), r.PC)
	assert.Equal(t, byte(0xFF), r.SP)
	assert.Equal(t, byte(0), r.PS())
}

func TestCopyRestoreRoundTrip(t *testing.T) {
	r := Registers{A: 0x10, X: 0x20, Y: 0x30, PC: 0x4000, SP: 0x80, Carry: true, Negative: true}
	saved := r.Copy()

	r.A = 0xFF
	r.PC = 0x9999
	r.Carry = false

	r.Restore(saved)
	assert.Equal(t, byte(0x10), r.A)
	assert.Equal(t, uint16(0x4000), r.PC)
	assert.True(t, r.Carry)
}
