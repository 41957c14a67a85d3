package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newDispatcher() (*Dispatcher, *Registers, *Memory, *HookTable) {
	regs := &Registers{SP: 0xFF}
	mem := NewMemory()
	hooks := NewHookTable()
	mem.SetHooks(hooks)
	return NewDispatcher(regs, mem, hooks), regs, mem, hooks
}

// BRK pushes PC+2 then PS|B, sets I, and loads the
// IRQ/BRK vector at 0xFFFE.
func TestDispatchBrkFlow(t *testing.T) {
	d, regs, mem, _ := newDispatcher()
	regs.PC = 0x2000
	regs.SP = 0xFF
	assert.NoError(t, mem.WriteByte(0x2000, 0x00)) // BRK opcode
	assert.NoError(t, mem.WriteByte(0xFFFE, 0x90))
	assert.NoError(t, mem.WriteByte(0xFFFF, 0xA0))

	assert.NoError(t, d.Tick())

	assert.Equal(t, uint16(0xA090), regs.PC)
	assert.Equal(t, byte(0xFC), regs.SP)
	assert.True(t, regs.Interupt)

	b0, _ := mem.ReadByte(0x01FF)
	b1, _ := mem.ReadByte(0x01FE)
	b2, _ := mem.ReadByte(0x01FD)
	assert.Equal(t, byte(0x20), b0)
	assert.Equal(t, byte(0x02), b1)
	assert.Equal(t, byte(0x10), b2&0x10)
}

func TestDispatchAdvancesPCByInstructionLength(t *testing.T) {
	d, regs, mem, _ := newDispatcher()
	regs.PC = 0x1000
	assert.NoError(t, mem.WriteByte(0x1000, 0xA9)) // LDA #imm, length 2
	assert.NoError(t, mem.WriteByte(0x1001, 0x42))

	assert.NoError(t, d.Tick())
	assert.Equal(t, uint16(0x1002), regs.PC)
	assert.Equal(t, byte(0x42), regs.A)
}

func TestDispatchUndefinedOpcodeHaltsWithoutAdvancingPC(t *testing.T) {
	d, regs, mem, _ := newDispatcher()
	regs.PC = 0x1000
	assert.NoError(t, mem.WriteByte(0x1000, 0x02)) // undefined

	err := d.Tick()
	assert.Error(t, err)
	assert.IsType(t, &ErrInvalidOpcode{}, err)
	assert.Equal(t, uint16(0x1000), regs.PC)
}

func TestDispatchCodeHookRedirectAbandonsTick(t *testing.T) {
	d, regs, mem, hooks := newDispatcher()
	regs.PC = 0x1000
	assert.NoError(t, mem.WriteByte(0x1000, 0xA9))
	assert.NoError(t, mem.WriteByte(0x1001, 0x42))

	hooks.Add(HookCode, 0x1000, 0x1001, func(pc uint16, length int, userData any) {
		regs.PC = 0x5000
	}, nil, nil)

	assert.NoError(t, d.Tick())
	assert.Equal(t, uint16(0x5000), regs.PC)
	assert.Equal(t, byte(0), regs.A) // LDA never actually ran
}

func TestDispatchCodeHookWithoutRedirectRunsNormally(t *testing.T) {
	d, regs, mem, hooks := newDispatcher()
	regs.PC = 0x1000
	assert.NoError(t, mem.WriteByte(0x1000, 0xA9))
	assert.NoError(t, mem.WriteByte(0x1001, 0x42))

	observed := false
	hooks.Add(HookCode, 0x1000, 0x1001, func(pc uint16, length int, userData any) {
		observed = true
	}, nil, nil)

	assert.NoError(t, d.Tick())
	assert.True(t, observed)
	assert.Equal(t, byte(0x42), regs.A)
	assert.Equal(t, uint16(0x1002), regs.PC)
}

func TestDispatchResetLoadsVector(t *testing.T) {
	d, regs, mem, _ := newDispatcher()
	assert.NoError(t, mem.WriteByte(0xFFFC, 0x34))
	assert.NoError(t, mem.WriteByte(0xFFFD, 0x12))

	assert.NoError(t, d.Reset())
	assert.Equal(t, uint16(0x1234), regs.PC)
	assert.Equal(t, byte(0), regs.A)
}

func TestDispatchJsrRtsRoundTrip(t *testing.T) {
	d, regs, mem, _ := newDispatcher()
	regs.PC = 0x1000
	assert.NoError(t, mem.WriteByte(0x1000, 0x20)) // JSR abs
	assert.NoError(t, mem.WriteByte(0x1001, 0x00))
	assert.NoError(t, mem.WriteByte(0x1002, 0x30))
	assert.NoError(t, mem.WriteByte(0x3000, 0x60)) // RTS

	assert.NoError(t, d.Tick())
	assert.Equal(t, uint16(0x3000), regs.PC)

	assert.NoError(t, d.Tick())
	assert.Equal(t, uint16(0x1003), regs.PC)
}
