package trap

import "github.com/beebcore/beebcore/internal/cpu"

// OSBYTE dispatches 0xE772 calls by (A,X,Y), falling back to (A,X), then A,
// then a default handler. Real OSBYTE calls vary in whether X and Y are
// significant by A value, so the most specific registered key wins.
type OSBYTE struct {
	byAXY map[[3]byte]func(a, x, y byte, e *cpu.Emulator) Result
	byAX  map[[2]byte]func(a, x, y byte, e *cpu.Emulator) Result
	byA   map[byte]func(a, x, y byte, e *cpu.Emulator) Result
	def   func(a, x, y byte, e *cpu.Emulator) Result
}

// NewOSBYTE returns an OSBYTE whose default handler reports NotHandled,
// letting the ROM's own OSBYTE table run for anything uninstalled.
func NewOSBYTE() *OSBYTE {
	return &OSBYTE{
		byAXY: make(map[[3]byte]func(a, x, y byte, e *cpu.Emulator) Result),
		byAX:  make(map[[2]byte]func(a, x, y byte, e *cpu.Emulator) Result),
		byA:   make(map[byte]func(a, x, y byte, e *cpu.Emulator) Result),
		def:   func(a, x, y byte, e *cpu.Emulator) Result { return NotHandled() },
	}
}

// OnAXY registers a handler keyed by the exact (A,X,Y) triple.
func (o *OSBYTE) OnAXY(a, x, y byte, fn func(a, x, y byte, e *cpu.Emulator) Result) {
	o.byAXY[[3]byte{a, x, y}] = fn
}

// OnAX registers a handler keyed by (A,X), ignoring Y.
func (o *OSBYTE) OnAX(a, x byte, fn func(a, x, y byte, e *cpu.Emulator) Result) {
	o.byAX[[2]byte{a, x}] = fn
}

// OnA registers a handler keyed by A alone.
func (o *OSBYTE) OnA(a byte, fn func(a, x, y byte, e *cpu.Emulator) Result) {
	o.byA[a] = fn
}

// Install binds the OSBYTE trap at 0xE772.
func (o *OSBYTE) Install(r *Registry) {
	r.Install(cpu.OsbyteAddr, "OSBYTE", o.call)
}

func (o *OSBYTE) call(e *cpu.Emulator) Result {
	a, x, y := e.Regs.A, e.Regs.X, e.Regs.Y
	if fn, ok := o.byAXY[[3]byte{a, x, y}]; ok {
		return fn(a, x, y, e)
	}
	if fn, ok := o.byAX[[2]byte{a, x}]; ok {
		return fn(a, x, y, e)
	}
	if fn, ok := o.byA[a]; ok {
		return fn(a, x, y, e)
	}
	return o.def(a, x, y, e)
}
