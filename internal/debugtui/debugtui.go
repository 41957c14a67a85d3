// Package debugtui is a thin interactive step debugger over an
// *cpu.Emulator: single-step, a live register/flag panel, a memory page
// table, a scrolling trace log, and a bubbles/textinput prompt for jumping
// the page table to an address.
package debugtui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"

	"github.com/beebcore/beebcore/internal/cpu"
	"github.com/beebcore/beebcore/internal/emlog"
	"github.com/beebcore/beebcore/internal/trace"
	"github.com/beebcore/beebcore/internal/ui/colorize"
)

const pageRows = 8

// runInterval paces free-running mode so the trace panel stays readable.
const runInterval = 16 * time.Millisecond

type tickMsg struct{}

func runTick() tea.Cmd {
	return tea.Tick(runInterval, func(time.Time) tea.Msg { return tickMsg{} })
}

var borderStyle = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder())

// model is the bubbletea model driving the debugger screen.
type model struct {
	emu    *cpu.Emulator
	dec    *cpu.Decoder
	events *trace.Ring

	offset   uint16 // first address shown in the page table
	prevPC   uint16
	running  bool
	err      error
	quit     bool
	haveSink bool // true when a logger feeds the trace ring via SetOnTrace

	goTo   textinput.Model // "g" prompt: jump the page table to a hex address
	asking bool
}

// New builds a debugger model over emu, decoding instructions with dec and
// recording the last `history` trace events. When lg is non-nil its trace
// callback is pointed at the model's event ring, so instruction and trap
// events emitted anywhere in the core show up in the trace panel.
func New(emu *cpu.Emulator, dec *cpu.Decoder, lg *emlog.Logger, history int) tea.Model {
	ti := textinput.New()
	ti.Placeholder = "hex address, e.g. 2000"
	ti.CharLimit = 4
	ti.Width = 8

	m := model{
		emu:    emu,
		dec:    dec,
		events: trace.NewRing(history),
		offset: emu.Regs.PC &^ 0x0F,
		goTo:   ti,
	}
	if lg != nil {
		m.haveSink = true
		ring := m.events
		lg.SetOnTrace(func(pc uint16, category, name, detail string) {
			ring.Push(trace.NewEvent(pc, category, name, detail))
		})
	}
	return m
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.asking {
		return m.updateGoTo(msg)
	}

	switch msg := msg.(type) {
	case tickMsg:
		if !m.running || m.err != nil {
			m.running = false
			return m, nil
		}
		return m.step(), runTick()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quit = true
			return m, tea.Quit
		case " ", "s":
			return m.step(), nil
		case "r":
			m.running = !m.running
			if m.running {
				return m, runTick()
			}
			return m, nil
		case "g":
			m.asking = true
			m.goTo.SetValue("")
			m.goTo.Focus()
			return m, textinput.Blink
		case "up":
			m.offset -= 0x10
			return m, nil
		case "down":
			m.offset += 0x10
			return m, nil
		}
	}
	return m, nil
}

// updateGoTo drives the "g" address-jump prompt until Enter or Esc.
func (m model) updateGoTo(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			m.asking = false
			m.goTo.Blur()
			return m, nil
		case "enter":
			if addr, err := strconv.ParseUint(m.goTo.Value(), 16, 16); err == nil {
				m.offset = uint16(addr) &^ 0x0F
			}
			m.asking = false
			m.goTo.Blur()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.goTo, cmd = m.goTo.Update(msg)
	return m, cmd
}

// step advances one tick, recording any fatal error. Without a logger sink,
// fetch events are synthesized locally so the trace panel still fills.
func (m model) step() model {
	m.prevPC = m.emu.Regs.PC
	if !m.haveSink {
		meta := m.dec.Decode(mustByte(m.emu, m.prevPC))
		m.events.Push(trace.NewEvent(m.prevPC, "fetch", meta.Mnemonic, fmt.Sprintf("mode=%s", meta.Mode)))
	}
	if err := m.emu.Dispatcher.Tick(); err != nil {
		m.err = err
		ev := trace.NewEvent(m.prevPC, string(trace.Fallback), "halt", err.Error())
		m.events.Push(ev)
	}
	return m
}

func mustByte(e *cpu.Emulator, addr uint16) byte {
	b, err := e.Mem.ReadByte(int(addr))
	if err != nil {
		return 0
	}
	return b
}

func (m model) renderPage(start uint16) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s ", colorize.Address(start))
	for i := uint16(0); i < 16; i++ {
		addr := start + i
		val := mustByte(m.emu, addr)
		cell := fmt.Sprintf("%02x", val)
		if addr == m.emu.Regs.PC {
			cell = "[" + cell + "]"
		} else {
			cell = " " + colorize.HexBytes(cell) + " "
		}
		b.WriteString(cell)
	}
	return b.String()
}

func (m model) pageTable() string {
	rows := []string{colorize.Header("memory")}
	for i := 0; i < pageRows; i++ {
		rows = append(rows, m.renderPage(m.offset+uint16(i*16)))
	}
	return strings.Join(rows, "\n")
}

func (m model) status() string {
	r := m.emu.Regs
	flagBits := []struct {
		name string
		set  bool
	}{
		{"N", r.Negative}, {"V", r.Overflow}, {"B", r.Break},
		{"D", r.Decimal}, {"I", r.Interupt}, {"Z", r.Zero}, {"C", r.Carry},
	}
	var flags strings.Builder
	for _, f := range flagBits {
		if f.set {
			flags.WriteString(f.name)
		} else {
			flags.WriteString("-")
		}
	}
	return fmt.Sprintf(
		"%s\nPC: %s (was %s)\n%s\nflags: %s",
		colorize.Header("registers"),
		colorize.Address(r.PC), colorize.Address(m.prevPC),
		colorize.Register(fmt.Sprintf("A: %02x  X: %02x  Y: %02x  SP: %02x", r.A, r.X, r.Y, r.SP)),
		flags.String(),
	)
}

func (m model) trace() string {
	rows := []string{colorize.Header("trace")}
	for _, ev := range m.events.Recent(pageRows) {
		rows = append(rows, fmt.Sprintf("%s %-4s %s",
			colorize.Address(ev.PC), colorize.TrapName(ev.Name), colorize.Detail(ev.Detail)))
	}
	if m.err != nil {
		rows = append(rows, colorize.Error(m.err.Error()))
	}
	return strings.Join(rows, "\n")
}

func (m model) View() string {
	if m.quit {
		return ""
	}
	top := lipgloss.JoinHorizontal(lipgloss.Top,
		borderStyle.Render(m.pageTable()),
		borderStyle.Render(m.status()),
	)
	footer := colorize.Border("space/s: step  r: toggle run  up/down: scroll  g: goto address  q: quit")
	if m.asking {
		footer = "goto: " + m.goTo.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		top,
		borderStyle.Render(m.trace()),
		footer,
	)
}

// Dump renders the final register state for inspection after the TUI
// exits.
func Dump(emu *cpu.Emulator) string {
	return spew.Sdump(emu.Regs)
}

// Run starts the interactive debugger over emu until the user quits.
func Run(emu *cpu.Emulator, dec *cpu.Decoder, lg *emlog.Logger) error {
	_, err := tea.NewProgram(New(emu, dec, lg, 64)).Run()
	return err
}
