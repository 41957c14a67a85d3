package trap

import (
	"github.com/beebcore/beebcore/internal/cpu"
	"github.com/beebcore/beebcore/internal/hostio"
)

// OSFIND dispatches 0xF3CA: A=0 closes a handle (or all handles if Y=0), any
// other A opens a filename at X|Y<<8 with A as the OpenMode byte.
type OSFIND struct {
	fs hostio.FileSystem
}

// NewOSFIND returns an OSFIND bound to fs.
func NewOSFIND(fs hostio.FileSystem) *OSFIND {
	return &OSFIND{fs: fs}
}

// Install binds the OSFIND trap at 0xF3CA.
func (o *OSFIND) Install(r *Registry) {
	r.Install(cpu.OsfindAddr, "OSFIND", o.call)
}

func (o *OSFIND) call(e *cpu.Emulator) Result {
	if e.Regs.A == 0 {
		return o.close(e, e.Regs.Y)
	}
	addr := uint16(e.Regs.X) | uint16(e.Regs.Y)<<8
	filename, err := e.Mem.ReadString(int(addr))
	if err != nil {
		return Error(0, err.Error())
	}
	handle, err := o.fs.Open(filename, hostio.OpenMode(e.Regs.A))
	if err != nil {
		e.Regs.A = 0
		return Handled()
	}
	e.Regs.A = byte(handle)
	return Handled()
}

func (o *OSFIND) close(e *cpu.Emulator, handle byte) Result {
	if handle == 0 {
		low, high := o.fs.HandleRange()
		for h := low; h <= high; h++ {
			_ = o.fs.Close(h)
		}
		return Handled()
	}
	if err := o.fs.Close(int(handle)); err != nil {
		return Error(222, "Channel")
	}
	return Handled()
}
