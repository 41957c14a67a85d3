package trap

import (
	"testing"

	"github.com/beebcore/beebcore/internal/cpu"
	"github.com/beebcore/beebcore/internal/hostio"
	"github.com/stretchr/testify/assert"
)

func TestInstallWiresEveryTrapAddress(t *testing.T) {
	e := cpu.NewEmulator(nil)
	console := hostio.NewMemConsole("")
	fs := hostio.NewMemFileSystem()
	s := Install(e, console, fs, nil)

	assert.NotNil(t, s.Registry)

	for _, addr := range []uint16{
		cpu.OswrchAddr, cpu.OsrdchAddr, cpu.OscliAddr, cpu.OsbyteAddr,
		cpu.OswordAddr, cpu.OsfileAddr, cpu.OsargsAddr, cpu.OsbgetAddr,
		cpu.OsbputAddr, cpu.OsfindAddr, cpu.OsfscAddr, cpu.OsgbpbAddr,
	} {
		_, ok := s.Registry.handlers[addr]
		assert.Truef(t, ok, "expected a handler installed at %#04x", addr)
	}
}

func TestInstallOSWRCHEndToEnd(t *testing.T) {
	e := cpu.NewEmulator(nil)
	console := hostio.NewMemConsole("")
	fs := hostio.NewMemFileSystem()
	Install(e, console, fs, nil)

	e.Regs.PC = cpu.OswrchAddr
	e.Regs.A = 'Z'
	e.Regs.SP = 0xFD
	assert.NoError(t, e.Mem.WriteByte(0x1FE, 0x00))
	assert.NoError(t, e.Mem.WriteByte(0x1FF, 0x20))

	assert.NoError(t, e.Dispatcher.Tick())
	assert.Equal(t, []byte("Z"), console.Output)
}
