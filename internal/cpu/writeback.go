package cpu

// Writeback routes an ExecutionUnit Result to its static target. It never
// touches N/Z/C/V itself — those are set by the ExecutionUnit handler that
// defines a given mnemonic to affect them.
type Writeback struct{}

// Apply stores result at target, given the operand's previously computed
// effective address (used only by the M target).
func (Writeback) Apply(target WritebackTarget, result Result, op Operand, regs *Registers, mem *Memory) error {
	if !result.Present {
		return nil
	}
	switch target {
	case WritebackA:
		regs.A = byte(result.Value)
	case WritebackX:
		regs.X = byte(result.Value)
	case WritebackY:
		regs.Y = byte(result.Value)
	case WritebackSP:
		regs.SP = byte(result.Value)
	case WritebackPC:
		regs.NextPC = result.Value
	case WritebackPS:
		regs.SetPS(byte(result.Value))
	case WritebackM:
		return mem.WriteByte(int(op.Address), int(byte(result.Value)))
	case WritebackNW:
		// no-op
	}
	return nil
}
