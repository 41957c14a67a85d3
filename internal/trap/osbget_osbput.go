package trap

import (
	"github.com/beebcore/beebcore/internal/cpu"
	"github.com/beebcore/beebcore/internal/hostio"
)

// OSBGETPUT installs the single-byte file read/write traps (OSBGET at
// 0xF4C9, OSBPUT at 0xF529). Both take the file handle in Y; OSBGET
// returns the byte in A with carry set at end of file.
type OSBGETPUT struct {
	fs hostio.FileSystem
}

// NewOSBGETPUT returns an OSBGETPUT bound to fs.
func NewOSBGETPUT(fs hostio.FileSystem) *OSBGETPUT {
	return &OSBGETPUT{fs: fs}
}

// Install binds both traps.
func (o *OSBGETPUT) Install(r *Registry) {
	r.Install(cpu.OsbgetAddr, "OSBGET", o.osbget)
	r.Install(cpu.OsbputAddr, "OSBPUT", o.osbput)
}

func (o *OSBGETPUT) osbget(e *cpu.Emulator) Result {
	handle := int(e.Regs.Y)
	b, eof, err := o.fs.ReadByte(handle)
	if err != nil {
		return Error(222, "Channel")
	}
	if eof {
		e.Regs.Carry = true
		return Handled()
	}
	e.Regs.Carry = false
	e.Regs.A = b
	return Handled()
}

func (o *OSBGETPUT) osbput(e *cpu.Emulator) Result {
	handle := int(e.Regs.Y)
	if err := o.fs.WriteByte(handle, e.Regs.A); err != nil {
		return Error(222, "Channel")
	}
	return Handled()
}
