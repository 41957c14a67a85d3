package cpu

// Register ids used by the EmulatorFacade's RegRead/RegWrite, matching the
// Unicorn-style facade surface: 1=PC, 2=SP, 3=A, 4=X, 5=Y, 6=PS.
const (
	RegPC = 1
	RegSP = 2
	RegA  = 3
	RegX  = 4
	RegY  = 5
	RegPS = 6
)

// Flag bit positions within the packed PS byte.
const (
	FlagC byte = 1 << 0 // carry
	FlagZ byte = 1 << 1 // zero
	FlagI byte = 1 << 2 // interrupt-disable
	FlagD byte = 1 << 3 // decimal
	FlagB byte = 1 << 4 // break
	// bit 5 is unused; forced to 0 on Pack, ignored on Unpack.
	FlagV byte = 1 << 6 // overflow
	FlagN byte = 1 << 7 // negative
)

// Registers holds the 6502 register bank: A, X, Y, SP, PC, a decode-local
// "next PC" cursor, and the seven independent status flags.
type Registers struct {
	A, X, Y byte
	SP      byte
	PC      uint16
	NextPC  uint16

	Carry    bool
	Zero     bool
	Interupt bool
	Decimal  bool
	Break    bool
	Overflow bool
	Negative bool
}

// Reset zeros A/X/Y/PC/NextPC, sets SP to 0xFF, and clears all flags. It
// does not load the reset vector; the Dispatcher does that once Memory is
// available.
func (r *Registers) Reset() {
	r.A, r.X, r.Y = 0, 0, 0
	r.PC, r.NextPC = 0, 0
	r.SP = 0xFF
	r.SetPS(0)
}

// PS packs the seven flags into a byte. Bit 5 is always forced to 0.
func (r *Registers) PS() byte {
	var v byte
	if r.Carry {
		v |= FlagC
	}
	if r.Zero {
		v |= FlagZ
	}
	if r.Interupt {
		v |= FlagI
	}
	if r.Decimal {
		v |= FlagD
	}
	if r.Break {
		v |= FlagB
	}
	if r.Overflow {
		v |= FlagV
	}
	if r.Negative {
		v |= FlagN
	}
	return v
}

// SetPS unpacks a byte into the seven flags. Bit 5 is ignored.
func (r *Registers) SetPS(value byte) {
	r.Carry = value&FlagC != 0
	r.Zero = value&FlagZ != 0
	r.Interupt = value&FlagI != 0
	r.Decimal = value&FlagD != 0
	r.Break = value&FlagB != 0
	r.Overflow = value&FlagV != 0
	r.Negative = value&FlagN != 0
}

// SetNZ sets the Zero and Negative flags from an 8-bit result, the common
// flag update performed by load/transfer/logical instructions.
func (r *Registers) SetNZ(v byte) {
	r.Zero = v == 0
	r.Negative = v&0x80 != 0
}

// Copy returns an independent snapshot of the register bank, used by the
// facade's re-entrant Call to preserve caller state across a nested run.
func (r *Registers) Copy() Registers {
	return *r
}

// Restore overwrites the register bank with a previously captured snapshot.
func (r *Registers) Restore(saved Registers) {
	*r = saved
}
