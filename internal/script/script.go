// Package script lets a hook callback be supplied as JavaScript source
// instead of compiled Go, embedding goja so host tooling (the debugger, a
// scripted test harness) can install ad-hoc instrumentation without a
// rebuild.
package script

import (
	"fmt"

	"github.com/dop251/goja"

	"github.com/beebcore/beebcore/internal/cpu"
)

// Runtime wraps a goja.Runtime pre-seeded with an "emu" binding exposing
// register and memory access to scripts, plus a "log" function.
type Runtime struct {
	vm  *goja.Runtime
	emu *cpu.Emulator
}

// New builds a Runtime bound to e. The same Runtime can compile many hook
// functions; they share the same goja VM (and therefore any global state a
// script sets).
func New(e *cpu.Emulator) *Runtime {
	vm := goja.New()
	r := &Runtime{vm: vm, emu: e}
	r.bindEmu()
	return r
}

// emuBinding is the object exposed to scripts as the global "emu".
type emuBinding struct {
	e *cpu.Emulator
}

func (b emuBinding) RegRead(id int) uint16              { return b.e.RegRead(id) }
func (b emuBinding) RegWrite(id int, value int)         { b.e.RegWrite(id, uint16(value)) }
func (b emuBinding) MemReadByte(addr int) (byte, error) { return b.e.Mem.ReadByte(addr) }
func (b emuBinding) MemWriteByte(addr, value int) error { return b.e.Mem.WriteByte(addr, value) }
func (b emuBinding) Stop()                              { b.e.Stop() }

func (r *Runtime) bindEmu() {
	_ = r.vm.Set("emu", emuBinding{e: r.emu})
	_ = r.vm.Set("log", func(args ...any) {
		fmt.Println(args...)
	})
}

// CompileCodeHook compiles src as a JS function body and returns a
// cpu.CodeHookFunc that invokes it on every firing, passing pc and length
// as the function's first two arguments.
func (r *Runtime) CompileCodeHook(src string) (cpu.CodeHookFunc, error) {
	fn, err := r.compileFunc(src)
	if err != nil {
		return nil, err
	}
	return func(pc uint16, length int, userData any) {
		_, _ = fn(goja.Undefined(), r.vm.ToValue(pc), r.vm.ToValue(length))
	}, nil
}

// CompileMemHook compiles src as a JS function body and returns a
// cpu.MemHookFunc that invokes it on every firing, passing access, addr,
// size, and value (as a byte-value array, or null for reads).
func (r *Runtime) CompileMemHook(src string) (cpu.MemHookFunc, error) {
	fn, err := r.compileFunc(src)
	if err != nil {
		return nil, err
	}
	return func(access int, addr uint16, size int, value []byte, userData any) {
		var jsValue goja.Value
		if value == nil {
			jsValue = goja.Null()
		} else {
			jsValue = r.vm.ToValue(value)
		}
		_, _ = fn(goja.Undefined(), r.vm.ToValue(access), r.vm.ToValue(addr), r.vm.ToValue(size), jsValue)
	}, nil
}

// compileFunc wraps src in a function expression and runs it once to
// obtain a callable goja.Callable.
func (r *Runtime) compileFunc(src string) (goja.Callable, error) {
	wrapped := "(function(" + paramNames + ") {\n" + src + "\n})"
	v, err := r.vm.RunString(wrapped)
	if err != nil {
		return nil, fmt.Errorf("script: compile: %w", err)
	}
	fn, ok := goja.AssertFunction(v)
	if !ok {
		return nil, fmt.Errorf("script: %q did not evaluate to a function", src)
	}
	return fn, nil
}

// paramNames covers both hook shapes; scripts use whichever arguments are
// relevant and ignore the rest.
const paramNames = "pc_or_access, length_or_addr, size, value"
