package trap

import (
	"github.com/beebcore/beebcore/internal/cpu"
	"github.com/beebcore/beebcore/internal/hostio"
)

// OSFILE control-block field offsets, relative to the block address passed
// in X|Y<<8. Each field is a 32-bit little-endian value.
const (
	osfileLoad   = 2
	osfileExec   = 6
	osfileLength = 10 // save start address / file length
	osfileAttr   = 14 // save end address / file attributes
)

// OSFILE dispatches 0xF27D calls by the reason code in A against a
// hostio.FileSystem.
type OSFILE struct {
	fs hostio.FileSystem
}

// NewOSFILE returns an OSFILE bound to fs.
func NewOSFILE(fs hostio.FileSystem) *OSFILE {
	return &OSFILE{fs: fs}
}

// Install binds the OSFILE trap at 0xF27D.
func (o *OSFILE) Install(r *Registry) {
	r.Install(cpu.OsfileAddr, "OSFILE", o.call)
}

func (o *OSFILE) call(e *cpu.Emulator) Result {
	addr := uint16(e.Regs.X) | uint16(e.Regs.Y)<<8
	filenamePtr, err := e.Mem.ReadWord(int(addr))
	if err != nil {
		return Error(0, err.Error())
	}
	filename, err := e.Mem.ReadString(int(filenamePtr))
	if err != nil {
		return Error(0, err.Error())
	}

	switch e.Regs.A {
	case 0:
		return o.save(e, addr, filename)
	case 1:
		return o.writeInfo(e, addr, filename)
	case 2:
		return o.writeLoad(e, addr, filename)
	case 3:
		return o.writeExec(e, addr, filename)
	case 4:
		return o.writeAttr(e, addr, filename)
	case 5:
		return o.readInfo(e, addr, filename)
	case 6:
		return o.delete(e, filename)
	case 0xFF:
		return o.load(e, addr, filename)
	}
	return NotHandled()
}

func (o *OSFILE) save(e *cpu.Emulator, addr uint16, filename string) Result {
	start, err := e.Mem.ReadLongWord(int(addr) + osfileLength)
	if err != nil {
		return Error(0, err.Error())
	}
	end, err := e.Mem.ReadLongWord(int(addr) + osfileAttr)
	if err != nil {
		return Error(0, err.Error())
	}
	load, err := e.Mem.ReadLongWord(int(addr) + osfileLoad)
	if err != nil {
		return Error(0, err.Error())
	}
	exec, err := e.Mem.ReadLongWord(int(addr) + osfileExec)
	if err != nil {
		return Error(0, err.Error())
	}
	length := int(end) - int(start)
	if length < 0 {
		length = 0
	}
	data, err := e.Mem.ReadBytes(int(start), length)
	if err != nil {
		return Error(0, err.Error())
	}
	if err := o.fs.Save(filename, data, hostio.FileInfo{Load: load, Exec: exec}); err != nil {
		return Error(193, "Can't save")
	}
	return Handled()
}

func (o *OSFILE) writeInfo(e *cpu.Emulator, addr uint16, filename string) Result {
	load, _ := e.Mem.ReadLongWord(int(addr) + osfileLoad)
	exec, _ := e.Mem.ReadLongWord(int(addr) + osfileExec)
	attr, _ := e.Mem.ReadLongWord(int(addr) + osfileAttr)
	info, err := o.fs.FileInfo(filename)
	if err != nil {
		return Error(214, "Not found")
	}
	info.Load, info.Exec, info.Attr = load, exec, attr
	if err := o.fs.SetFileInfo(filename, info); err != nil {
		return Error(193, "Can't write")
	}
	return Handled()
}

func (o *OSFILE) writeLoad(e *cpu.Emulator, addr uint16, filename string) Result {
	load, _ := e.Mem.ReadLongWord(int(addr) + osfileLoad)
	info, err := o.fs.FileInfo(filename)
	if err != nil {
		return Error(214, "Not found")
	}
	info.Load = load
	if err := o.fs.SetFileInfo(filename, info); err != nil {
		return Error(193, "Can't write")
	}
	return Handled()
}

func (o *OSFILE) writeExec(e *cpu.Emulator, addr uint16, filename string) Result {
	exec, _ := e.Mem.ReadLongWord(int(addr) + osfileExec)
	info, err := o.fs.FileInfo(filename)
	if err != nil {
		return Error(214, "Not found")
	}
	info.Exec = exec
	if err := o.fs.SetFileInfo(filename, info); err != nil {
		return Error(193, "Can't write")
	}
	return Handled()
}

func (o *OSFILE) writeAttr(e *cpu.Emulator, addr uint16, filename string) Result {
	attr, _ := e.Mem.ReadLongWord(int(addr) + osfileAttr)
	info, err := o.fs.FileInfo(filename)
	if err != nil {
		return Error(214, "Not found")
	}
	info.Attr = attr
	if err := o.fs.SetFileInfo(filename, info); err != nil {
		return Error(193, "Can't write")
	}
	return Handled()
}

func (o *OSFILE) readInfo(e *cpu.Emulator, addr uint16, filename string) Result {
	info, err := o.fs.FileInfo(filename)
	if err != nil {
		e.Regs.A = 0 // not found
		return Handled()
	}
	if err := e.Mem.WriteLongWord(int(addr)+osfileLoad, info.Load); err != nil {
		return Error(0, err.Error())
	}
	if err := e.Mem.WriteLongWord(int(addr)+osfileExec, info.Exec); err != nil {
		return Error(0, err.Error())
	}
	if err := e.Mem.WriteLongWord(int(addr)+osfileLength, info.Length); err != nil {
		return Error(0, err.Error())
	}
	if err := e.Mem.WriteLongWord(int(addr)+osfileAttr, info.Attr); err != nil {
		return Error(0, err.Error())
	}
	e.Regs.A = info.Type
	return Handled()
}

func (o *OSFILE) delete(e *cpu.Emulator, filename string) Result {
	if err := o.fs.Delete(filename); err != nil {
		return Error(214, "Not found")
	}
	return Handled()
}

func (o *OSFILE) load(e *cpu.Emulator, addr uint16, filename string) Result {
	execByte, err := e.Mem.ReadByte(int(addr) + osfileExec)
	if err != nil {
		return Error(0, err.Error())
	}
	data, info, err := o.fs.Load(filename)
	if err != nil {
		return Error(214, "File not found")
	}
	loadAddr := info.Load
	if execByte != 0 {
		loadAddr, err = e.Mem.ReadLongWord(int(addr) + osfileLoad)
		if err != nil {
			return Error(0, err.Error())
		}
	}
	if err := e.Mem.WriteBytes(int(loadAddr), data); err != nil {
		return Error(0, err.Error())
	}
	if err := e.Mem.WriteLongWord(int(addr)+osfileLoad, info.Load); err != nil {
		return Error(0, err.Error())
	}
	if err := e.Mem.WriteLongWord(int(addr)+osfileExec, info.Exec); err != nil {
		return Error(0, err.Error())
	}
	if err := e.Mem.WriteLongWord(int(addr)+osfileLength, info.Length); err != nil {
		return Error(0, err.Error())
	}
	if err := e.Mem.WriteLongWord(int(addr)+osfileAttr, info.Attr); err != nil {
		return Error(0, err.Error())
	}
	e.Regs.A = info.Type
	return Handled()
}
