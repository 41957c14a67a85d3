package trap

import (
	"github.com/beebcore/beebcore/internal/cpu"
	"github.com/beebcore/beebcore/internal/hostio"
)

// OSFSC reason codes this trap understands. Only the subset needed by ROM
// code that polls end-of-file is implemented; anything else falls through
// to NotHandled so the ROM's own filing-system-control table runs.
const (
	osfscOpt = 0x00
	osfscEOF = 0x05
)

// OSFSC dispatches the filing-system-control vector at 0xF1B1, following
// the documented Acorn MOS reason-code table (A=5, X=channel, returns
// X=0xFF at EOF, X=0 otherwise).
type OSFSC struct {
	fs hostio.FileSystem
}

// NewOSFSC returns an OSFSC bound to fs.
func NewOSFSC(fs hostio.FileSystem) *OSFSC {
	return &OSFSC{fs: fs}
}

// Install binds the OSFSC trap at 0xF1B1.
func (o *OSFSC) Install(r *Registry) {
	r.Install(cpu.OsfscAddr, "OSFSC", o.call)
}

func (o *OSFSC) call(e *cpu.Emulator) Result {
	switch e.Regs.A {
	case osfscEOF:
		if o.fs.EOF(int(e.Regs.X)) {
			e.Regs.X = 0xFF
		} else {
			e.Regs.X = 0x00
		}
		return Handled()
	case osfscOpt:
		// *OPT has no storage-medium concept here; acknowledge and let the
		// caller move on rather than erroring.
		return Handled()
	}
	return NotHandled()
}
