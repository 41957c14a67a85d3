package trap

import (
	"testing"

	"github.com/beebcore/beebcore/internal/cpu"
	"github.com/beebcore/beebcore/internal/hostio"
	"github.com/stretchr/testify/assert"
)

// OSWRCH trap writes the character, registry simulates
// the RTS back to the caller.
func TestOSWRCHTrapSimulatesRTS(t *testing.T) {
	e := cpu.NewEmulator(nil)
	console := hostio.NewMemConsole("")
	ci := NewCharIO(console)
	r := NewRegistry(e, nil)
	ci.Install(r)

	e.Regs.PC = cpu.OswrchAddr
	e.Regs.A = 0x41
	e.Regs.SP = 0xFD
	assert.NoError(t, e.Mem.WriteByte(0x1FE, 0x34)) // return address low
	assert.NoError(t, e.Mem.WriteByte(0x1FF, 0x12)) // return address high

	assert.NoError(t, e.Dispatcher.Tick())

	assert.Equal(t, []byte{'A'}, console.Output)
	assert.Equal(t, uint16(0x1235), e.Regs.PC)
}

func TestOSRDCHSetsEscapeFlag(t *testing.T) {
	e := cpu.NewEmulator(nil)
	console := hostio.NewMemConsole("\x1B")
	ci := NewCharIO(console)
	r := NewRegistry(e, nil)
	ci.Install(r)

	e.Regs.PC = cpu.OsrdchAddr
	e.Regs.SP = 0xFD
	assert.NoError(t, e.Mem.WriteByte(0x1FE, 0x00))
	assert.NoError(t, e.Mem.WriteByte(0x1FF, 0x20))

	assert.NoError(t, e.Dispatcher.Tick())

	assert.True(t, e.Regs.Carry)
	flag, err := e.Mem.ReadByte(0x00FF)
	assert.NoError(t, err)
	assert.Equal(t, byte(0x80), flag)
}

func TestOSRDCHReadsOrdinaryChar(t *testing.T) {
	e := cpu.NewEmulator(nil)
	console := hostio.NewMemConsole("Q")
	ci := NewCharIO(console)
	r := NewRegistry(e, nil)
	ci.Install(r)

	e.Regs.PC = cpu.OsrdchAddr
	e.Regs.SP = 0xFD
	assert.NoError(t, e.Mem.WriteByte(0x1FE, 0x00))
	assert.NoError(t, e.Mem.WriteByte(0x1FF, 0x20))

	assert.NoError(t, e.Dispatcher.Tick())

	assert.False(t, e.Regs.Carry)
	assert.Equal(t, byte('Q'), e.Regs.A)
}

func TestOSCLIDispatchesRegisteredCommand(t *testing.T) {
	e := cpu.NewEmulator(nil)
	console := hostio.NewMemConsole("")
	ci := NewCharIO(console)
	var gotArgs string
	ci.Command("RUN", func(args string) Result {
		gotArgs = args
		return Handled()
	})
	r := NewRegistry(e, nil)
	ci.Install(r)

	addr := uint16(0x1000)
	assert.NoError(t, e.Mem.WriteBytes(int(addr), []byte("*RUN FOO\r")))
	e.Regs.PC = cpu.OscliAddr
	e.Regs.X = byte(addr)
	e.Regs.Y = byte(addr >> 8)
	e.Regs.SP = 0xFD
	assert.NoError(t, e.Mem.WriteByte(0x1FE, 0x00))
	assert.NoError(t, e.Mem.WriteByte(0x1FF, 0x20))

	assert.NoError(t, e.Dispatcher.Tick())
	assert.Equal(t, "FOO", gotArgs)
}

func TestOSCLIFallsThroughWhenUnregistered(t *testing.T) {
	e := cpu.NewEmulator(nil)
	console := hostio.NewMemConsole("")
	ci := NewCharIO(console)
	r := NewRegistry(e, nil)
	ci.Install(r)

	addr := uint16(0x1000)
	assert.NoError(t, e.Mem.WriteBytes(int(addr), []byte("*UNKNOWN\r")))
	e.Regs.PC = cpu.OscliAddr
	e.Regs.X = byte(addr)
	e.Regs.Y = byte(addr >> 8)
	e.Regs.SP = 0xFD

	// No RTS is synthesized and PC is left untouched by the trap, so the
	// Dispatcher falls through to whatever instruction sits at OscliAddr
	// (the zero byte default decodes as BRK), matching "fall through to
	// ROM code" without actually modeling ROM.
	assert.NoError(t, e.Dispatcher.Tick())
	assert.Equal(t, uint16(0x0000), e.Regs.PC)
}
