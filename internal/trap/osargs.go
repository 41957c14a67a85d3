package trap

import (
	"github.com/beebcore/beebcore/internal/cpu"
	"github.com/beebcore/beebcore/internal/hostio"
)

// OSARGS dispatches 0xF1E8: Y holds the file handle (0 means "no handle",
// i.e. a filesystem-wide query), X holds the zero-page address of the
// 4-byte result block. Note the block address is a raw zero-page pointer in
// X alone, not the X|Y<<8 form other OS calls use.
type OSARGS struct {
	fs         hostio.FileSystem
	filesystem byte   // value returned for "read current filesystem"
	cliArgs    uint32 // address returned for "read CLI args"
}

// NewOSARGS returns an OSARGS bound to fs. filesystemNum and cliArgsAddr
// are the values OSARGS 0/0/0x00 and 0/0/0x01 report; callers with no
// filesystem-number or CLI-args concept can pass 0.
func NewOSARGS(fs hostio.FileSystem, filesystemNum byte, cliArgsAddr uint32) *OSARGS {
	return &OSARGS{fs: fs, filesystem: filesystemNum, cliArgs: cliArgsAddr}
}

// Install binds the OSARGS trap at 0xF1E8.
func (o *OSARGS) Install(r *Registry) {
	r.Install(cpu.OsargsAddr, "OSARGS", o.call)
}

func (o *OSARGS) call(e *cpu.Emulator) Result {
	op := e.Regs.A
	fh := e.Regs.Y
	addr := int(e.Regs.X)

	if fh == 0 {
		switch op {
		case 0x00:
			e.Regs.A = o.filesystem
			return Handled()
		case 0x01:
			if err := e.Mem.WriteLongWord(addr, o.cliArgs); err != nil {
				return Error(0, err.Error())
			}
			return Handled()
		case 0xFF:
			return Handled()
		}
		return NotHandled()
	}

	switch op {
	case 0x00:
		ptr, err := o.fs.PtrRead(int(fh))
		if err != nil {
			return Error(222, "Channel")
		}
		if err := e.Mem.WriteLongWord(addr, ptr); err != nil {
			return Error(0, err.Error())
		}
		return Handled()
	case 0x01:
		ptr, err := e.Mem.ReadLongWord(addr)
		if err != nil {
			return Error(0, err.Error())
		}
		if err := o.fs.PtrWrite(int(fh), ptr); err != nil {
			return Error(222, "Channel")
		}
		return Handled()
	case 0x02:
		ext, err := o.fs.ExtRead(int(fh))
		if err != nil {
			return Error(222, "Channel")
		}
		if err := e.Mem.WriteLongWord(addr, ext); err != nil {
			return Error(0, err.Error())
		}
		return Handled()
	case 0xFF:
		return Handled()
	}
	return NotHandled()
}
