package trap

import (
	"github.com/beebcore/beebcore/internal/cpu"
	"github.com/beebcore/beebcore/internal/emlog"
	"github.com/beebcore/beebcore/internal/hostio"
)

// Standard is the full host-trap layer bound to one console and
// filesystem. It keeps the individual trap objects addressable so a caller
// can extend one after installation (e.g. CharIO.Command for a custom "*"
// command).
type Standard struct {
	Registry  *Registry
	CharIO    *CharIO
	OSBYTE    *OSBYTE
	OSWORD    *OSWORD
	OSFILE    *OSFILE
	OSARGS    *OSARGS
	OSFIND    *OSFIND
	OSBGETPUT *OSBGETPUT
	OSGBPB    *OSGBPB
	OSFSC     *OSFSC
}

// Install builds a Standard and binds every trap onto e.
func Install(e *cpu.Emulator, console hostio.Console, fs hostio.FileSystem, log *emlog.Logger) *Standard {
	s := &Standard{
		Registry:  NewRegistry(e, log),
		CharIO:    NewCharIO(console),
		OSBYTE:    NewOSBYTE(),
		OSWORD:    NewOSWORD(console),
		OSFILE:    NewOSFILE(fs),
		OSARGS:    NewOSARGS(fs, 4, 0), // filesystem number 4 = DFS
		OSFIND:    NewOSFIND(fs),
		OSBGETPUT: NewOSBGETPUT(fs),
		OSGBPB:    NewOSGBPB(fs),
		OSFSC:     NewOSFSC(fs),
	}
	s.CharIO.Install(s.Registry)
	s.OSBYTE.Install(s.Registry)
	s.OSWORD.Install(s.Registry)
	s.OSFILE.Install(s.Registry)
	s.OSARGS.Install(s.Registry)
	s.OSFIND.Install(s.Registry)
	s.OSBGETPUT.Install(s.Registry)
	s.OSGBPB.Install(s.Registry)
	s.OSFSC.Install(s.Registry)
	return s
}
