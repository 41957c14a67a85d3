package trap

import (
	"testing"

	"github.com/beebcore/beebcore/internal/cpu"
	"github.com/stretchr/testify/assert"
)

func TestOSBYTEDispatchPrefersMostSpecificKey(t *testing.T) {
	e := cpu.NewEmulator(nil)
	ob := NewOSBYTE()
	var calledVia string
	ob.OnA(0x80, func(a, x, y byte, e *cpu.Emulator) Result {
		calledVia = "A"
		return Handled()
	})
	ob.OnAX(0x80, 0x01, func(a, x, y byte, e *cpu.Emulator) Result {
		calledVia = "AX"
		return Handled()
	})
	ob.OnAXY(0x80, 0x01, 0x02, func(a, x, y byte, e *cpu.Emulator) Result {
		calledVia = "AXY"
		return Handled()
	})
	r := NewRegistry(e, nil)
	ob.Install(r)

	e.Regs.PC = cpu.OsbyteAddr
	e.Regs.A, e.Regs.X, e.Regs.Y = 0x80, 0x01, 0x02
	e.Regs.SP = 0xFD
	assert.NoError(t, e.Mem.WriteByte(0x1FE, 0x00))
	assert.NoError(t, e.Mem.WriteByte(0x1FF, 0x20))

	assert.NoError(t, e.Dispatcher.Tick())
	assert.Equal(t, "AXY", calledVia)
}

func TestOSBYTEFallsBackToLessSpecificKey(t *testing.T) {
	e := cpu.NewEmulator(nil)
	ob := NewOSBYTE()
	var calledVia string
	ob.OnA(0x80, func(a, x, y byte, e *cpu.Emulator) Result {
		calledVia = "A"
		return Handled()
	})
	r := NewRegistry(e, nil)
	ob.Install(r)

	e.Regs.PC = cpu.OsbyteAddr
	e.Regs.A, e.Regs.X, e.Regs.Y = 0x80, 0x09, 0x09
	e.Regs.SP = 0xFD
	assert.NoError(t, e.Mem.WriteByte(0x1FE, 0x00))
	assert.NoError(t, e.Mem.WriteByte(0x1FF, 0x20))

	assert.NoError(t, e.Dispatcher.Tick())
	assert.Equal(t, "A", calledVia)
}
