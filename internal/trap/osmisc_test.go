package trap

import (
	"testing"

	"github.com/beebcore/beebcore/internal/cpu"
	"github.com/beebcore/beebcore/internal/hostio"
	"github.com/stretchr/testify/assert"
)

func TestOSFINDOpenAndClose(t *testing.T) {
	e := cpu.NewEmulator(nil)
	fs := hostio.NewMemFileSystem()
	of := NewOSFIND(fs)
	r := NewRegistry(e, nil)
	of.Install(r)

	nameAddr := uint16(0x1000)
	assert.NoError(t, e.Mem.WriteBytes(int(nameAddr), []byte("DATA\r")))

	primeRTS(t, e, cpu.OsfindAddr)
	e.Regs.A = byte(hostio.OpenOutput)
	e.Regs.X = byte(nameAddr)
	e.Regs.Y = byte(nameAddr >> 8)
	assert.NoError(t, e.Dispatcher.Tick())
	handle := e.Regs.A
	assert.NotEqual(t, byte(0), handle)

	primeRTS(t, e, cpu.OsfindAddr)
	e.Regs.A = 0
	e.Regs.Y = handle
	assert.NoError(t, e.Dispatcher.Tick())
}

func TestOSBGETPUTRoundTrip(t *testing.T) {
	e := cpu.NewEmulator(nil)
	fs := hostio.NewMemFileSystem()
	fs.Seed("DATA", nil, hostio.FileInfo{})
	h, err := fs.Open("DATA", hostio.OpenOutput)
	assert.NoError(t, err)

	bg := NewOSBGETPUT(fs)
	r := NewRegistry(e, nil)
	bg.Install(r)

	primeRTS(t, e, cpu.OsbputAddr)
	e.Regs.A = 'X'
	e.Regs.Y = byte(h)
	assert.NoError(t, e.Dispatcher.Tick())

	data, _, _ := fs.Load("DATA")
	assert.Equal(t, []byte("X"), data)
}

func TestOSARGSReadPtr(t *testing.T) {
	e := cpu.NewEmulator(nil)
	fs := hostio.NewMemFileSystem()
	fs.Seed("DATA", []byte("ABCDE"), hostio.FileInfo{})
	h, err := fs.Open("DATA", hostio.OpenInput)
	assert.NoError(t, err)
	assert.NoError(t, fs.PtrWrite(h, 3))

	oa := NewOSARGS(fs, 4, 0)
	r := NewRegistry(e, nil)
	oa.Install(r)

	primeRTS(t, e, cpu.OsargsAddr)
	e.Regs.A = 0x00
	e.Regs.Y = byte(h)
	e.Regs.X = 0x40
	assert.NoError(t, e.Dispatcher.Tick())

	ptr, err := e.Mem.ReadLongWord(0x40)
	assert.NoError(t, err)
	assert.Equal(t, uint32(3), ptr)
}

func TestOSGBPBPutSequential(t *testing.T) {
	e := cpu.NewEmulator(nil)
	fs := hostio.NewMemFileSystem()
	fs.Seed("DATA", nil, hostio.FileInfo{})
	h, err := fs.Open("DATA", hostio.OpenOutput)
	assert.NoError(t, err)

	gb := NewOSGBPB(fs)
	r := NewRegistry(e, nil)
	gb.Install(r)

	assert.NoError(t, e.Mem.WriteBytes(0x3000, []byte("HI")))
	block := uint16(0x1100)
	assert.NoError(t, e.Mem.WriteByte(int(block)+gbpbHandle, h))
	assert.NoError(t, e.Mem.WriteLongWord(int(block)+gbpbAddress, 0x3000))
	assert.NoError(t, e.Mem.WriteLongWord(int(block)+gbpbCount, 2))

	primeRTS(t, e, cpu.OsgbpbAddr)
	e.Regs.A = gbpbPutSeq
	e.Regs.X = byte(block)
	e.Regs.Y = byte(block >> 8)
	assert.NoError(t, e.Dispatcher.Tick())

	data, _, _ := fs.Load("DATA")
	assert.Equal(t, []byte("HI"), data)
	assert.False(t, e.Regs.Carry)
}

func TestOSFSCEOFCheck(t *testing.T) {
	e := cpu.NewEmulator(nil)
	fs := hostio.NewMemFileSystem()
	fs.Seed("DATA", []byte("A"), hostio.FileInfo{})
	h, err := fs.Open("DATA", hostio.OpenInput)
	assert.NoError(t, err)
	b, eof, err := fs.ReadByte(h)
	assert.NoError(t, err)
	assert.False(t, eof)
	assert.Equal(t, byte('A'), b)

	of := NewOSFSC(fs)
	r := NewRegistry(e, nil)
	of.Install(r)

	primeRTS(t, e, cpu.OsfscAddr)
	e.Regs.A = osfscEOF
	e.Regs.X = byte(h)
	assert.NoError(t, e.Dispatcher.Tick())
	assert.Equal(t, byte(0xFF), e.Regs.X)
}
