package trap

import (
	"github.com/beebcore/beebcore/internal/cpu"
	"github.com/beebcore/beebcore/internal/hostio"
)

// OSGBPB control-block field offsets, relative to the block address in
// X|Y<<8, per the documented Acorn MOS multi-byte transfer convention:
// file handle, data address, byte count, sequential pointer.
const (
	gbpbHandle  = 0
	gbpbAddress = 1
	gbpbCount   = 5
	gbpbPtr     = 9
)

// OSGBPB reason codes handled: put bytes using the block's pointer (1), put
// bytes sequentially (2), get bytes using the pointer (3), get bytes
// sequentially (4). Codes 5/6 (read directory entries) have no filesystem
// directory-listing concept in hostio.FileSystem and are left NotHandled.
const (
	gbpbPutPtr = 1
	gbpbPutSeq = 2
	gbpbGetPtr = 3
	gbpbGetSeq = 4
)

// OSGBPB implements multi-byte file transfer against a hostio.FileSystem by
// looping single-byte reads and writes; the interface has no bulk transfer
// method to call through instead.
type OSGBPB struct {
	fs hostio.FileSystem
}

// NewOSGBPB returns an OSGBPB bound to fs.
func NewOSGBPB(fs hostio.FileSystem) *OSGBPB {
	return &OSGBPB{fs: fs}
}

// Install binds the OSGBPB trap at 0xFFA6.
func (o *OSGBPB) Install(r *Registry) {
	r.Install(cpu.OsgbpbAddr, "OSGBPB", o.call)
}

func (o *OSGBPB) call(e *cpu.Emulator) Result {
	block := uint16(e.Regs.X) | uint16(e.Regs.Y)<<8

	handleB, err := e.Mem.ReadByte(int(block) + gbpbHandle)
	if err != nil {
		return Error(0, err.Error())
	}
	handle := int(handleB)
	dataAddr, err := e.Mem.ReadLongWord(int(block) + gbpbAddress)
	if err != nil {
		return Error(0, err.Error())
	}
	count, err := e.Mem.ReadLongWord(int(block) + gbpbCount)
	if err != nil {
		return Error(0, err.Error())
	}

	switch e.Regs.A {
	case gbpbPutPtr, gbpbGetPtr:
		ptr, err := e.Mem.ReadLongWord(int(block) + gbpbPtr)
		if err != nil {
			return Error(0, err.Error())
		}
		if err := o.fs.PtrWrite(handle, ptr); err != nil {
			return Error(222, "Channel")
		}
	}

	switch e.Regs.A {
	case gbpbPutPtr, gbpbPutSeq:
		return o.put(e, handle, dataAddr, count, block)
	case gbpbGetPtr, gbpbGetSeq:
		return o.get(e, handle, dataAddr, count, block)
	}
	return NotHandled()
}

func (o *OSGBPB) put(e *cpu.Emulator, handle int, addr, count uint32, block uint16) Result {
	var i uint32
	for ; i < count; i++ {
		b, err := e.Mem.ReadByte(int(addr) + int(i))
		if err != nil {
			return Error(0, err.Error())
		}
		if err := o.fs.WriteByte(handle, b); err != nil {
			return Error(222, "Channel")
		}
	}
	return o.finish(e, handle, count-i, block)
}

func (o *OSGBPB) get(e *cpu.Emulator, handle int, addr, count uint32, block uint16) Result {
	var i uint32
	for ; i < count; i++ {
		b, eof, err := o.fs.ReadByte(handle)
		if err != nil {
			return Error(222, "Channel")
		}
		if eof {
			break
		}
		if err := e.Mem.WriteByte(int(addr)+int(i), int(b)); err != nil {
			return Error(0, err.Error())
		}
	}
	return o.finish(e, handle, count-i, block)
}

// finish writes back the updated sequential pointer and the number of
// bytes not transferred, and sets carry if the transfer hit EOF early.
func (o *OSGBPB) finish(e *cpu.Emulator, handle int, remaining uint32, block uint16) Result {
	ptr, err := o.fs.PtrRead(handle)
	if err == nil {
		_ = e.Mem.WriteLongWord(int(block)+gbpbPtr, ptr)
	}
	_ = e.Mem.WriteLongWord(int(block)+gbpbCount, remaining)
	e.Regs.Carry = remaining > 0
	return Handled()
}
