package cpu

import (
	"github.com/beebcore/beebcore/internal/emlog"
)

// Canonical BBC Micro OS entry-point addresses, bound by the host-trap
// layer in internal/trap. Exported here because the facade's convenience
// I/O helpers (Oswrch/Write) call through OswrchAddr directly.
const (
	OswrchAddr = 0xE0A4
	OsrdchAddr = 0xDEC5
	OscliAddr  = 0xDF89
	OsbyteAddr = 0xE772
	OswordAddr = 0xE7EB
	OsfileAddr = 0xF27D
	OsargsAddr = 0xF1E8
	OsbgetAddr = 0xF4C9
	OsbputAddr = 0xF529
	OsfindAddr = 0xF3CA
	OsfscAddr  = 0xF1B1
	OsgbpbAddr = 0xFFA6
)

// sentinelCallAddr is the synthetic return target installed by Call to
// detect when a re-entrant guest call has unwound back out to the host.
// 0xFFFF sits above the vectors, so nothing legitimate executes there.
const sentinelCallAddr = 0xFFFF

// runContext is one frame of a (possibly nested) Run invocation. Nested
// Call-triggered runs push their own frame, so a stop request only unwinds
// the innermost frame rather than a single shared boolean.
type runContext struct {
	hasUntil bool
	until    uint16
	stop     bool
}

// Emulator is the public facade: register and memory access, hook
// add/remove, run/stop, and the re-entrant Call helper.
type Emulator struct {
	Regs       *Registers
	Mem        *Memory
	Hooks      *HookTable
	Dispatcher *Dispatcher

	runStack []*runContext
	log      *emlog.Logger
}

// NewEmulator builds an Emulator with fresh Registers, Memory, and
// HookTable, wired together the way the Dispatcher and Memory expect.
func NewEmulator(log *emlog.Logger) *Emulator {
	if log == nil {
		log = emlog.NewNop()
	}
	regs := &Registers{}
	mem := NewMemory()
	hooks := NewHookTable()
	mem.SetHooks(hooks)

	e := &Emulator{
		Regs:       regs,
		Mem:        mem,
		Hooks:      hooks,
		Dispatcher: NewDispatcher(regs, mem, hooks),
		log:        log,
	}
	e.Dispatcher.Log = log
	return e
}

// RegRead reads one of PC/SP/A/X/Y/PS by id.
func (e *Emulator) RegRead(id int) uint16 {
	switch id {
	case RegPC:
		return e.Regs.PC
	case RegSP:
		return uint16(e.Regs.SP)
	case RegA:
		return uint16(e.Regs.A)
	case RegX:
		return uint16(e.Regs.X)
	case RegY:
		return uint16(e.Regs.Y)
	case RegPS:
		return uint16(e.Regs.PS())
	}
	return 0
}

// RegWrite writes one of PC/SP/A/X/Y/PS by id. Writes to 8-bit registers
// mask to the low byte; writes to PC use all 16 bits.
func (e *Emulator) RegWrite(id int, value uint16) {
	switch id {
	case RegPC:
		e.Regs.PC = value
	case RegSP:
		e.Regs.SP = byte(value)
	case RegA:
		e.Regs.A = byte(value)
	case RegX:
		e.Regs.X = byte(value)
	case RegY:
		e.Regs.Y = byte(value)
	case RegPS:
		e.Regs.SetPS(byte(value))
	}
}

// MemRead delegates to Memory.ReadBytes; hooks fire.
func (e *Emulator) MemRead(addr uint16, size int) ([]byte, error) {
	return e.Mem.ReadBytes(int(addr), size)
}

// MemWrite delegates to Memory.WriteBytes; hooks fire.
func (e *Emulator) MemWrite(addr uint16, data []byte) error {
	return e.Mem.WriteBytes(int(addr), data)
}

// HookAdd registers a hook and returns an opaque handle.
func (e *Emulator) HookAdd(kind, begin, end int, code CodeHookFunc, mem MemHookFunc, userData any) uint64 {
	handle := e.Hooks.Add(kind, begin, end, code, mem, userData)
	e.log.HookInstalled(hookKindName(kind), begin, end)
	return handle
}

// HookDel unregisters a hook handle.
func (e *Emulator) HookDel(handle uint64) {
	e.Hooks.Del(handle)
}

func hookKindName(kind int) string {
	switch kind {
	case HookCode:
		return "code"
	case HookMemRead:
		return "mem_read"
	case HookMemWrite:
		return "mem_write"
	default:
		return "mixed"
	}
}

// Reset loads the reset vector, per Dispatcher.Reset.
func (e *Emulator) Reset() error {
	return e.Dispatcher.Reset()
}

// Run sets PC to begin and ticks until PC equals until (if hasUntil), until
// count instructions have run (0 = unlimited), or until Stop is called from
// within a hook. The run frame is always popped on return, including on an
// error path.
func (e *Emulator) Run(begin uint16, until *uint16, count int) (err error) {
	e.Regs.PC = begin
	ctx := &runContext{}
	if until != nil {
		ctx.hasUntil = true
		ctx.until = *until
	}
	e.runStack = append(e.runStack, ctx)
	defer func() {
		e.runStack = e.runStack[:len(e.runStack)-1]
	}()

	ticks := 0
	for {
		if ctx.stop {
			return nil
		}
		if ctx.hasUntil && e.Regs.PC == ctx.until {
			return nil
		}
		if err := e.Dispatcher.Tick(); err != nil {
			return err
		}
		ticks++
		if count > 0 && ticks >= count {
			return nil
		}
	}
}

// Stop clears the innermost run frame's flag. Safe to call from a hook.
func (e *Emulator) Stop() {
	if len(e.runStack) == 0 {
		return
	}
	e.runStack[len(e.runStack)-1].stop = true
}

// Call performs a re-entrant guest call: it snapshots the register bank,
// pushes the caller's PC, pushes a sentinel return address, optionally
// patches A/X/Y, installs a one-shot code hook at the sentinel that stops
// the nested run, and resumes at address until the sentinel is reached. On
// return the caller's PC is restored, and if preserveState is set the
// entire register bank is restored to its pre-call snapshot.
func (e *Emulator) Call(address uint16, a, x, y *byte, preserveState bool) error {
	saved := e.Regs.Copy()

	if err := e.Dispatcher.PushWord(e.Regs.PC); err != nil {
		return err
	}
	if err := e.Dispatcher.PushWord(sentinelCallAddr - 1); err != nil {
		return err
	}

	if a != nil {
		e.Regs.A = *a
	}
	if x != nil {
		e.Regs.X = *x
	}
	if y != nil {
		e.Regs.Y = *y
	}

	handle := e.Hooks.Add(HookCode, sentinelCallAddr, sentinelCallAddr+1,
		func(pc uint16, length int, userData any) { e.Stop() }, nil, nil)
	defer e.Hooks.Del(handle)

	until := uint16(sentinelCallAddr)
	if err := e.Run(address, &until, 0); err != nil {
		return err
	}

	callerPC, err := e.Dispatcher.PullWord()
	if err != nil {
		return err
	}
	e.Regs.PC = callerPC

	if preserveState {
		saved.PC = callerPC
		e.Regs.Restore(saved)
	}
	return nil
}

// Oswrch writes one character through the guest OSWRCH vector rather than
// poking a trap directly.
func (e *Emulator) Oswrch(ch byte) error {
	a := ch
	return e.Call(OswrchAddr, &a, nil, nil, true)
}

// Osasci writes one character with the OSASCI convention: carriage return
// expands to a line feed followed by the carriage return, anything else
// goes straight to OSWRCH.
func (e *Emulator) Osasci(ch byte) error {
	if ch == 0x0D {
		if err := e.Oswrch(0x0A); err != nil {
			return err
		}
	}
	return e.Oswrch(ch)
}

// Write writes a string through OSWRCH one character at a time.
func (e *Emulator) Write(s string) error {
	for i := 0; i < len(s); i++ {
		if err := e.Osasci(s[i]); err != nil {
			return err
		}
	}
	return nil
}

// WriteRaw writes bytes through OSWRCH without any CR translation.
func (e *Emulator) WriteRaw(data []byte) error {
	for _, b := range data {
		if err := e.Oswrch(b); err != nil {
			return err
		}
	}
	return nil
}
