package cpu

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"strconv"
	"strings"
)

//go:embed opcodes.csv
var defaultTable string

// AddressingMode tags how an instruction's operand/address is resolved.
type AddressingMode string

// The 13 addressing modes named by the decode table.
const (
	ModeImplicit      AddressingMode = "imp"
	ModeAccumulator   AddressingMode = "acc"
	ModeImmediate     AddressingMode = "imm"
	ModeZeroPage      AddressingMode = "zp"
	ModeZeroPageX     AddressingMode = "zpx"
	ModeZeroPageY     AddressingMode = "zpy"
	ModeRelative      AddressingMode = "rel"
	ModeAbsolute      AddressingMode = "abs"
	ModeAbsoluteX     AddressingMode = "abx"
	ModeAbsoluteY     AddressingMode = "aby"
	ModeIndirect      AddressingMode = "ind"
	ModeIndexedX      AddressingMode = "inx" // indexed-indirect, (zp,X)
	ModeIndirectY     AddressingMode = "iny" // indirect-indexed, (zp),Y
)

// WritebackTarget tags where the Dispatcher routes an ExecutionUnit result.
type WritebackTarget string

// The writeback targets named by the decode table.
const (
	WritebackA  WritebackTarget = "A"
	WritebackX  WritebackTarget = "X"
	WritebackY  WritebackTarget = "Y"
	WritebackM  WritebackTarget = "M"
	WritebackPC WritebackTarget = "PC"
	WritebackSP WritebackTarget = "SP"
	WritebackPS WritebackTarget = "PS"
	WritebackNW WritebackTarget = "NW"
)

// MnemonicUndefined is the sentinel mnemonic for unknown or absent opcodes.
const MnemonicUndefined = "UNDEFINED"

// InstructionMeta is one row of the static decode table.
type InstructionMeta struct {
	Mnemonic  string
	Mode      AddressingMode
	Writeback WritebackTarget
	Length    int
}

// Decoder holds the dense 256-entry opcode table. Lookup is O(1).
type Decoder struct {
	table [256]InstructionMeta
}

// NewDecoder builds a Decoder from the table embedded in this package.
// Unknown or absent opcodes resolve to UNDEFINED/imp/NW/1.
func NewDecoder() *Decoder {
	d := &Decoder{}
	for i := range d.table {
		d.table[i] = InstructionMeta{Mnemonic: MnemonicUndefined, Mode: ModeImplicit, Writeback: WritebackNW, Length: 1}
	}
	if err := d.Load(strings.NewReader(defaultTable)); err != nil {
		panic(fmt.Sprintf("cpu: embedded opcode table is invalid: %v", err))
	}
	return d
}

// Load replaces table entries from r, a CSV with header
// "opcode,mnemonic,addressing_mode,writeback_target,length_bytes". Rows not
// present are left at their previous value (UNDEFINED by default), so a
// caller may supply a partial alternate table.
func (d *Decoder) Load(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if lineNo == 1 && strings.HasPrefix(line, "opcode,") {
			continue
		}
		fields := strings.Split(line, ",")
		if len(fields) != 5 {
			return fmt.Errorf("cpu: decode table line %d: expected 5 fields, got %d", lineNo, len(fields))
		}

		opcode, err := parseByte(strings.TrimSpace(fields[0]))
		if err != nil {
			return fmt.Errorf("cpu: decode table line %d: opcode: %w", lineNo, err)
		}
		length, err := strconv.Atoi(strings.TrimSpace(fields[4]))
		if err != nil {
			return fmt.Errorf("cpu: decode table line %d: length: %w", lineNo, err)
		}

		d.table[opcode] = InstructionMeta{
			Mnemonic:  strings.TrimSpace(fields[1]),
			Mode:      AddressingMode(strings.TrimSpace(fields[2])),
			Writeback: WritebackTarget(strings.TrimSpace(fields[3])),
			Length:    length,
		}
	}
	return scanner.Err()
}

func parseByte(s string) (byte, error) {
	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
		base = 16
	}
	v, err := strconv.ParseUint(s, base, 16)
	if err != nil {
		return 0, err
	}
	return byte(v), nil
}

// Decode looks up the static metadata for opcode.
func (d *Decoder) Decode(opcode byte) InstructionMeta {
	return d.table[opcode]
}
