package trap

import (
	"github.com/beebcore/beebcore/internal/cpu"
	"github.com/beebcore/beebcore/internal/emlog"
)

// Registry binds Handlers to trap addresses via code hooks on an Emulator:
// one flat address-keyed map, dispatched when execution reaches a bound
// address.
type Registry struct {
	emu        *cpu.Emulator
	log        *emlog.Logger
	handlers   map[uint16]namedHandler
	hooks      map[uint16]uint64
	pendingEOF error
}

type namedHandler struct {
	name string
	fn   Handler
}

// NewRegistry returns a Registry with no traps installed.
func NewRegistry(e *cpu.Emulator, log *emlog.Logger) *Registry {
	if log == nil {
		log = emlog.NewNop()
	}
	return &Registry{
		emu:      e,
		log:      log,
		handlers: make(map[uint16]namedHandler),
		hooks:    make(map[uint16]uint64),
	}
}

// Install binds h at addr. name is used only for logging. Installing twice
// at the same address replaces the handler without adding a second hook.
func (r *Registry) Install(addr uint16, name string, h Handler) {
	r.handlers[addr] = namedHandler{name: name, fn: h}
	r.log.TrapInstalled(name, addr)
	if _, ok := r.hooks[addr]; ok {
		return
	}
	handle := r.emu.HookAdd(cpu.HookCode, int(addr), int(addr)+1, func(pc uint16, length int, userData any) {
		r.dispatch(pc)
	}, nil, nil)
	r.hooks[addr] = handle
}

// Remove unbinds whatever handler is installed at addr.
func (r *Registry) Remove(addr uint16) {
	if handle, ok := r.hooks[addr]; ok {
		r.emu.HookDel(handle)
		delete(r.hooks, addr)
	}
	delete(r.handlers, addr)
}

func (r *Registry) dispatch(pc uint16) {
	nh, ok := r.handlers[pc]
	if !ok {
		return
	}
	result := nh.fn(r.emu)
	r.log.TrapDispatched(nh.name, pc, result.isHandled())

	switch {
	case result.isHandled():
		r.simulateRTS()
	case result.isError():
		r.raiseError(result.bbcError())
	case result.isEOF():
		r.pendingEOF = &cpu.ErrInputEOF{}
		r.emu.Stop()
	}
	// NotHandled: leave PC alone so Dispatcher.Tick runs the ROM instruction
	// at this address normally.
}

// simulateRTS pulls a return address off the guest stack and resumes just
// past it, the same transfer an actual RTS at this address would produce.
func (r *Registry) simulateRTS() {
	addr, err := r.emu.Dispatcher.PullWord()
	if err != nil {
		return
	}
	r.emu.Regs.PC = addr + 1
}

// raiseError writes the standard BBC error block at 0x0100 (a leading zero
// byte, the error number, the latin-1 message) and transfers control there.
func (r *Registry) raiseError(e *cpu.BBCError) {
	const base = 0x0100
	addr := base
	_ = r.emu.Mem.WriteByte(addr, 0x00)
	addr++
	_ = r.emu.Mem.WriteByte(addr, e.Num&0xFF)
	addr++
	for i := 0; i < len(e.Msg); i++ {
		_ = r.emu.Mem.WriteByte(addr, int(e.Msg[i]))
		addr++
	}
	_ = r.emu.Mem.WriteByte(addr, 0x00)
	r.emu.Regs.PC = base
}

// Run wraps Emulator.Run, surfacing an Eof result raised by any installed
// trap as cpu.ErrInputEOF once the run settles, matching the convention
// that InputEOFError propagates out of emu_start rather than being
// swallowed by the stop that triggered it.
func (r *Registry) Run(begin uint16, until *uint16, count int) error {
	r.pendingEOF = nil
	if err := r.emu.Run(begin, until, count); err != nil {
		return err
	}
	return r.pendingEOF
}
