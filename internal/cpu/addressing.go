package cpu

// Operand is the result of resolving one addressing mode: the value the
// instruction consumes and the effective address it would write to or
// branch to (0 and ignored for modes that have none).
type Operand struct {
	Value   byte
	Address uint16
}

// AddressResolver computes the effective address and operand value for each
// of the 13 addressing modes, reading the instruction's operand bytes out
// of memory starting at PC+1.
type AddressResolver struct{}

// Resolve dispatches on mode and returns the resolved operand.
func (AddressResolver) Resolve(regs *Registers, mem *Memory, mode AddressingMode) (Operand, error) {
	pc := regs.PC
	switch mode {
	case ModeImplicit, ModeAccumulator:
		return Operand{Value: regs.A, Address: 0}, nil

	case ModeImmediate:
		addr := pc + 1
		v, err := mem.ReadByte(int(addr))
		return Operand{Value: v, Address: addr}, err

	case ModeZeroPage:
		zp, err := mem.ReadByte(int(pc + 1))
		if err != nil {
			return Operand{}, err
		}
		v, err := mem.ReadByte(int(zp))
		return Operand{Value: v, Address: uint16(zp)}, err

	case ModeZeroPageX:
		return resolveZeroPageIndexed(regs, mem, regs.X)

	case ModeZeroPageY:
		return resolveZeroPageIndexed(regs, mem, regs.Y)

	case ModeRelative:
		b, err := mem.ReadSignedByte(int(pc + 1))
		if err != nil {
			return Operand{}, err
		}
		addr := pc + 2 + uint16(int16(b))
		return Operand{Value: byte(b), Address: addr}, nil

	case ModeAbsolute:
		addr, err := mem.ReadWord(int(pc + 1))
		if err != nil {
			return Operand{}, err
		}
		v, err := mem.ReadByte(int(addr))
		return Operand{Value: v, Address: addr}, err

	case ModeAbsoluteX:
		return resolveAbsoluteIndexed(regs, mem, regs.X)

	case ModeAbsoluteY:
		return resolveAbsoluteIndexed(regs, mem, regs.Y)

	case ModeIndirect:
		pointer, err := mem.ReadWord(int(pc + 1))
		if err != nil {
			return Operand{}, err
		}
		addr, err := readWordPageWrapped(mem, pointer)
		if err != nil {
			return Operand{}, err
		}
		return Operand{Address: addr}, nil

	case ModeIndexedX:
		base, err := mem.ReadByte(int(pc + 1))
		if err != nil {
			return Operand{}, err
		}
		zp := uint16(base+regs.X) & 0xFF
		addr, err := readWordZeroPageWrapped(mem, byte(zp))
		if err != nil {
			return Operand{}, err
		}
		v, err := mem.ReadByte(int(addr))
		return Operand{Value: v, Address: addr}, err

	case ModeIndirectY:
		zp, err := mem.ReadByte(int(pc + 1))
		if err != nil {
			return Operand{}, err
		}
		base, err := readWordZeroPageWrapped(mem, zp)
		if err != nil {
			return Operand{}, err
		}
		addr := base + uint16(regs.Y)
		v, err := mem.ReadByte(int(addr))
		return Operand{Value: v, Address: addr}, err
	}

	return Operand{}, nil
}

func resolveZeroPageIndexed(regs *Registers, mem *Memory, index byte) (Operand, error) {
	base, err := mem.ReadByte(int(regs.PC + 1))
	if err != nil {
		return Operand{}, err
	}
	addr := uint16(base + index) // wraps mod 256 by byte overflow
	v, err := mem.ReadByte(int(addr))
	return Operand{Value: v, Address: addr}, err
}

func resolveAbsoluteIndexed(regs *Registers, mem *Memory, index byte) (Operand, error) {
	base, err := mem.ReadWord(int(regs.PC + 1))
	if err != nil {
		return Operand{}, err
	}
	addr := base + uint16(index) // 16-bit wrap via uint16 arithmetic
	v, err := mem.ReadByte(int(addr))
	return Operand{Value: v, Address: addr}, err
}

// readWordPageWrapped reads a little-endian word at pointer, preserving the
// classic 6502 indirect-JMP bug: the high byte is fetched from
// (pointer & 0xFF00) | ((pointer+1) & 0xFF), never crossing into the next
// page.
func readWordPageWrapped(mem *Memory, pointer uint16) (uint16, error) {
	lo, err := mem.ReadByte(int(pointer))
	if err != nil {
		return 0, err
	}
	hiAddr := (pointer & 0xFF00) | ((pointer + 1) & 0xFF)
	hi, err := mem.ReadByte(int(hiAddr))
	if err != nil {
		return 0, err
	}
	return uint16(lo) | uint16(hi)<<8, nil
}

// readWordZeroPageWrapped reads a little-endian word at a zero-page
// pointer, wrapping the high-byte fetch within page zero.
func readWordZeroPageWrapped(mem *Memory, zp byte) (uint16, error) {
	lo, err := mem.ReadByte(int(zp))
	if err != nil {
		return 0, err
	}
	hi, err := mem.ReadByte(int(byte(zp + 1)))
	if err != nil {
		return 0, err
	}
	return uint16(lo) | uint16(hi)<<8, nil
}
