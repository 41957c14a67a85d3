package trap

import (
	"github.com/beebcore/beebcore/internal/cpu"
	"github.com/beebcore/beebcore/internal/hostio"
)

// OSWORD dispatches 0xE7EB calls on A, with a default handler plus a
// built-in OSWORD 0 (read line) implementation against a hostio.Console.
type OSWORD struct {
	console hostio.Console
	byA     map[byte]func(a byte, addr uint16, e *cpu.Emulator) Result
	def     func(a byte, addr uint16, e *cpu.Emulator) Result
}

// NewOSWORD returns an OSWORD with OSWORD 0 pre-registered against console.
func NewOSWORD(console hostio.Console) *OSWORD {
	o := &OSWORD{
		console: console,
		byA:     make(map[byte]func(a byte, addr uint16, e *cpu.Emulator) Result),
		def:     func(a byte, addr uint16, e *cpu.Emulator) Result { return NotHandled() },
	}
	o.byA[0x00] = o.readline
	return o
}

// OnA registers (or replaces) a handler for a given A reason code.
func (o *OSWORD) OnA(a byte, fn func(a byte, addr uint16, e *cpu.Emulator) Result) {
	o.byA[a] = fn
}

// Install binds the OSWORD trap at 0xE7EB.
func (o *OSWORD) Install(r *Registry) {
	r.Install(cpu.OswordAddr, "OSWORD", o.call)
}

func (o *OSWORD) call(e *cpu.Emulator) Result {
	a := e.Regs.A
	addr := uint16(e.Regs.X) | uint16(e.Regs.Y)<<8
	fn, ok := o.byA[a]
	if !ok {
		fn = o.def
	}
	return fn(a, addr, e)
}

// readline implements OSWORD 0: +0/1 buffer address, +2 max length, +3 min
// ASCII, +4 max ASCII. On return: C=0 if CR-terminated, C=1 if escape; Y =
// line length including CR.
func (o *OSWORD) readline(a byte, addr uint16, e *cpu.Emulator) Result {
	bufAddr, err := e.Mem.ReadWord(int(addr))
	if err != nil {
		return Error(0, err.Error())
	}
	maxLen, err := e.Mem.ReadByte(int(addr) + 2)
	if err != nil {
		return Error(0, err.Error())
	}
	minASCII, err := e.Mem.ReadByte(int(addr) + 3)
	if err != nil {
		return Error(0, err.Error())
	}
	maxASCII, err := e.Mem.ReadByte(int(addr) + 4)
	if err != nil {
		return Error(0, err.Error())
	}

	line, escaped, err := o.console.ReadLine(int(maxLen), minASCII, maxASCII)
	if err != nil {
		if err == hostio.ErrEOF {
			return Eof()
		}
		return Error(0, err.Error())
	}

	if escaped {
		e.Regs.Carry = true
		e.Regs.Y = 0
		return Handled()
	}

	data := append([]byte(line), 0x0D)
	if err := e.Mem.WriteBytes(int(bufAddr), data); err != nil {
		return Error(0, err.Error())
	}
	e.Regs.Carry = false
	e.Regs.Y = byte(len(data))
	return Handled()
}
