package trap

import (
	"testing"

	"github.com/beebcore/beebcore/internal/cpu"
	"github.com/beebcore/beebcore/internal/hostio"
	"github.com/stretchr/testify/assert"
)

// OSWORD 0 readline with CR-terminated input: buffer filled including the
// CR, Y holds the length, carry clear.
func TestOSWORDReadlineCRTerminated(t *testing.T) {
	e := cpu.NewEmulator(nil)
	console := hostio.NewMemConsole("HELLO\r")
	ow := NewOSWORD(console)
	r := NewRegistry(e, nil)
	ow.Install(r)

	block := uint16(0x2000)
	assert.NoError(t, e.Mem.WriteWord(int(block)+0, 0x0800)) // buffer address
	assert.NoError(t, e.Mem.WriteByte(int(block)+2, 8))      // max length
	assert.NoError(t, e.Mem.WriteByte(int(block)+3, 0x20))   // min ASCII
	assert.NoError(t, e.Mem.WriteByte(int(block)+4, 0x7E))   // max ASCII

	e.Regs.PC = cpu.OswordAddr
	e.Regs.A = 0x00
	e.Regs.X = byte(block)
	e.Regs.Y = byte(block >> 8)
	e.Regs.SP = 0xFD
	assert.NoError(t, e.Mem.WriteByte(0x1FE, 0x00))
	assert.NoError(t, e.Mem.WriteByte(0x1FF, 0x20))

	assert.NoError(t, e.Dispatcher.Tick())

	got, err := e.Mem.ReadBytes(0x0800, 6)
	assert.NoError(t, err)
	assert.Equal(t, []byte("HELLO\r"), got)
	assert.Equal(t, byte(6), e.Regs.Y)
	assert.False(t, e.Regs.Carry)
}

func TestOSWORDReadlineEscape(t *testing.T) {
	e := cpu.NewEmulator(nil)
	console := hostio.NewMemConsole("\x1B")
	ow := NewOSWORD(console)
	r := NewRegistry(e, nil)
	ow.Install(r)

	block := uint16(0x2000)
	assert.NoError(t, e.Mem.WriteWord(int(block)+0, 0x0800))
	assert.NoError(t, e.Mem.WriteByte(int(block)+2, 8))
	assert.NoError(t, e.Mem.WriteByte(int(block)+3, 0x20))
	assert.NoError(t, e.Mem.WriteByte(int(block)+4, 0x7E))

	e.Regs.PC = cpu.OswordAddr
	e.Regs.A = 0x00
	e.Regs.X = byte(block)
	e.Regs.Y = byte(block >> 8)
	e.Regs.SP = 0xFD
	assert.NoError(t, e.Mem.WriteByte(0x1FE, 0x00))
	assert.NoError(t, e.Mem.WriteByte(0x1FF, 0x20))

	assert.NoError(t, e.Dispatcher.Tick())
	assert.True(t, e.Regs.Carry)
	assert.Equal(t, byte(0), e.Regs.Y)
}
