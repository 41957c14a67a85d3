package cpu

import "github.com/beebcore/beebcore/internal/emlog"

// Dispatcher drives one tick: fetch, decode, resolve the address, execute,
// route the writeback, and commit PC.
type Dispatcher struct {
	Decoder  *Decoder
	Resolver AddressResolver
	EU       *ExecutionUnit
	WB       Writeback
	Regs     *Registers
	Mem      *Memory
	Hooks    *HookTable
	Log      *emlog.Logger
}

// NewDispatcher wires a Dispatcher over the given Registers and Memory.
func NewDispatcher(regs *Registers, mem *Memory, hooks *HookTable) *Dispatcher {
	return &Dispatcher{
		Decoder: NewDecoder(),
		EU:      NewExecutionUnit(),
		Regs:    regs,
		Mem:     mem,
		Hooks:   hooks,
	}
}

// Tick executes exactly one instruction. Before the instruction runs, code
// hooks covering PC are fired; a hook that mutates PC is observed as a
// redirection and the remainder of this tick is abandoned. An UNDEFINED
// opcode halts without advancing PC.
func (d *Dispatcher) Tick() error {
	pc := d.Regs.PC
	opcodeByte, err := d.Mem.ReadByte(int(pc))
	if err != nil {
		return err
	}

	meta := d.Decoder.Decode(opcodeByte)
	d.Regs.NextPC = pc + uint16(meta.Length)

	if d.Hooks != nil {
		d.Hooks.FireCode(pc, meta.Length)
		if d.Regs.PC != pc {
			return nil
		}
	}

	if meta.Mnemonic == MnemonicUndefined {
		return &ErrInvalidOpcode{Opcode: opcodeByte, PC: pc}
	}

	if d.Log != nil {
		d.Log.Trace(pc, "fetch", meta.Mnemonic, string(meta.Mode))
	}

	op, err := d.Resolver.Resolve(d.Regs, d.Mem, meta.Mode)
	if err != nil {
		return err
	}

	result, err := d.EU.Execute(meta.Mnemonic, op, d.Regs, d.Mem)
	if err != nil {
		return err
	}

	if err := d.WB.Apply(meta.Writeback, result, op, d.Regs, d.Mem); err != nil {
		return err
	}

	d.Regs.PC = d.Regs.NextPC
	return nil
}

// Reset clears the register bank and loads PC from the reset vector at
// 0xFFFC/FFFD.
func (d *Dispatcher) Reset() error {
	d.Regs.Reset()
	vector, err := d.Mem.ReadWord(0xFFFC)
	if err != nil {
		return err
	}
	d.Regs.PC = vector
	return nil
}

// PushByte, PushWord, PullByte, and PullWord are exposed so the host-trap
// layer can synthesize a return-from-subroutine without reimplementing
// stack arithmetic.

// PushByte pushes a single byte onto the hardware stack.
func (d *Dispatcher) PushByte(value byte) error {
	return d.EU.PushByte(d.Regs, d.Mem, value)
}

// PushWord pushes a 16-bit value, high byte first.
func (d *Dispatcher) PushWord(value uint16) error {
	return d.EU.PushWord(d.Regs, d.Mem, value)
}

// PullByte pulls a single byte off the hardware stack.
func (d *Dispatcher) PullByte() (byte, error) {
	return d.EU.PullByte(d.Regs, d.Mem)
}

// PullWord pulls a 16-bit value, low byte first.
func (d *Dispatcher) PullWord() (uint16, error) {
	return d.EU.PullWord(d.Regs, d.Mem)
}
