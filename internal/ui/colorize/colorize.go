// Package colorize provides terminal coloring for 6502 disassembly and
// trace output used by internal/debugtui. One role-keyed palette drives
// both the chroma style used for full instruction lines and the direct
// ANSI helpers used for single fields.
package colorize

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Palette roles for disassembly output. Mnemonics stay white; registers,
// operands, and labels each get one color so a trace line reads at a
// glance.
const (
	colMnemonic = "#FFFFFF"
	colRegister = "#87CEEB" // A/X/Y/SP/PS
	colNumber   = "#FF80C0" // immediates, hex operands, error text
	colLabel    = "#FFC800" // addresses, OS call names
	colComment  = "#FF8000"
	colString   = "#00FF00"
	colDetail   = "#B4B4B4" // secondary text, raw opcode bytes
	colBorder   = "#505050"
	colHeader   = "#569CD6"
)

// disasmDark maps the palette onto chroma token classes. There is no 6502
// lexer, so the NASM token classes stand in: keywords are mnemonics, names
// are registers, number literals are operands.
var disasmDark = styles.Register(chroma.MustNewStyle("disasm-dark", chroma.StyleEntries{
	chroma.Text:       colMnemonic,
	chroma.Background: "bg:#000000",

	chroma.Keyword:       colMnemonic,
	chroma.KeywordPseudo: colMnemonic,
	chroma.NameFunction:  colMnemonic,
	chroma.Operator:      colMnemonic,
	chroma.Punctuation:   colMnemonic,

	chroma.Name:         colRegister,
	chroma.NameBuiltin:  colRegister,
	chroma.NameVariable: colRegister,

	chroma.LiteralNumber:        colNumber,
	chroma.LiteralNumberHex:     colNumber,
	chroma.LiteralNumberBin:     colNumber,
	chroma.LiteralNumberInteger: colNumber,

	chroma.NameLabel:      colLabel,
	chroma.Comment:        colComment,
	chroma.CommentPreproc: colComment,
	chroma.String:         colString,
}))

// getAssemblyLexer returns an appropriate assembly lexer with fallbacks.
// NASM's token classes (mnemonic, register, immediate, comment) are close
// enough to 6502 assembly to drive the palette.
func getAssemblyLexer() chroma.Lexer {
	candidates := []string{"nasm", "gas", "GAS", "Gas"}
	for _, name := range candidates {
		if lexer := lexers.Get(name); lexer != nil {
			return lexer
		}
	}
	return nil
}

// getTerminalFormatter returns an appropriate terminal formatter.
func getTerminalFormatter() chroma.Formatter {
	candidates := []string{"terminal16m", "terminal256"}
	for _, name := range candidates {
		if formatter := formatters.Get(name); formatter != nil {
			return formatter
		}
	}
	return formatters.Fallback
}

// IsDisabled returns true if colors are disabled via environment.
func IsDisabled() bool {
	return os.Getenv("BEEB65_NO_COLOR") != "" || os.Getenv("NO_COLOR") != ""
}

// Instruction colorizes a disassembled 6502 instruction line using chroma.
func Instruction(insn string) string {
	if IsDisabled() {
		return insn
	}

	lexer := getAssemblyLexer()
	if lexer == nil {
		return insn
	}

	iterator, err := lexer.Tokenise(nil, insn)
	if err != nil {
		return insn
	}

	var buf strings.Builder
	if err := getTerminalFormatter().Format(&buf, disasmDark, iterator); err != nil {
		return insn
	}

	return strings.TrimSuffix(buf.String(), "\n")
}

// fg wraps s in a truecolor foreground escape for a "#RRGGBB" palette
// entry, or returns it unchanged when colors are disabled.
func fg(hex, s string) string {
	if IsDisabled() {
		return s
	}
	var r, g, b int
	if _, err := fmt.Sscanf(hex, "#%02X%02X%02X", &r, &g, &b); err != nil {
		return s
	}
	return fmt.Sprintf("\033[38;2;%d;%d;%dm%s\033[0m", r, g, b, s)
}

// Address formats a 16-bit address, e.g. "$E0A4".
func Address(addr uint16) string {
	return fg(colLabel, fmt.Sprintf("$%04X", addr))
}

// TrapName formats an OS call name.
func TrapName(name string) string {
	return fg(colLabel, name)
}

// Detail formats secondary detail text.
func Detail(detail string) string {
	return fg(colDetail, detail)
}

// Register formats a register value (A/X/Y/SP/PS).
func Register(s string) string {
	return fg(colRegister, s)
}

// Border formats panel border characters.
func Border(s string) string {
	return fg(colBorder, s)
}

// Header formats panel header text.
func Header(s string) string {
	return fg(colHeader, s)
}

// HexBytes formats raw opcode bytes.
func HexBytes(s string) string {
	return fg(colDetail, s)
}

// Error formats error messages.
func Error(s string) string {
	return fg(colNumber, s)
}
