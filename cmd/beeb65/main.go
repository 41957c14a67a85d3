// Command beeb65 is the CLI entry point for the 6502/BBC Micro emulator
// core: a root command with run/debug/info subcommands and a persistent
// -v flag for debug logging.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/beebcore/beebcore/internal/config"
	"github.com/beebcore/beebcore/internal/cpu"
	"github.com/beebcore/beebcore/internal/debugtui"
	"github.com/beebcore/beebcore/internal/emlog"
	"github.com/beebcore/beebcore/internal/trap"
	"github.com/beebcore/beebcore/internal/ui/colorize"
)

var (
	baseAddr   uint16
	maxInsn    int
	configPath string
	verbose    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "beeb65",
		Short: "A 6502 / BBC Micro execution engine with a host-trap OS layer",
		Long: `beeb65 runs raw 6502 binaries against a from-scratch 6502 core with a
Unicorn-style hook API and a BBC Micro OS-call trap layer (OSWRCH, OSRDCH,
OSFILE, OSWORD, and friends) bridged to the host terminal and filesystem.`,
	}

	runCmd := &cobra.Command{
		Use:   "run <image>",
		Short: "Load a binary and run it to completion",
		Args:  cobra.ExactArgs(1),
		RunE:  runImage,
	}
	runCmd.Flags().Uint16Var(&baseAddr, "base", 0x2000, "load address")
	runCmd.Flags().IntVar(&maxInsn, "max", 0, "max instructions to execute (0 = unlimited)")
	runCmd.Flags().StringVar(&configPath, "config", "", "beeb65.yaml path")
	rootCmd.AddCommand(runCmd)

	debugCmd := &cobra.Command{
		Use:   "debug <image>",
		Short: "Load a binary and step through it in the interactive TUI",
		Args:  cobra.ExactArgs(1),
		RunE:  debugImage,
	}
	debugCmd.Flags().Uint16Var(&baseAddr, "base", 0x2000, "load address")
	rootCmd.AddCommand(debugCmd)

	infoCmd := &cobra.Command{
		Use:   "info <image>",
		Short: "Show image size and the disassembly of its first bytes",
		Args:  cobra.ExactArgs(1),
		RunE:  showInfo,
	}
	rootCmd.AddCommand(infoCmd)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose debug logging")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func buildEmulator(image string) (*cpu.Emulator, error) {
	cfg := config.Default()
	if configPath != "" {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return nil, err
		}
	}

	emlog.Init(verbose || cfg.Debug)
	e := cpu.NewEmulator(emlog.L)

	for _, img := range cfg.Images {
		rom, err := os.ReadFile(img.Path)
		if err != nil {
			return nil, fmt.Errorf("beeb65: read rom %s: %w", img.Path, err)
		}
		if err := e.Mem.WriteBytes(int(img.Base), rom); err != nil {
			return nil, fmt.Errorf("beeb65: map rom %s: %w", img.Path, err)
		}
	}

	data, err := os.ReadFile(image)
	if err != nil {
		return nil, fmt.Errorf("beeb65: read image: %w", err)
	}
	if err := e.Mem.WriteBytes(int(baseAddr), data); err != nil {
		return nil, fmt.Errorf("beeb65: load image: %w", err)
	}

	if cfg.ResetVector != nil {
		if err := e.Mem.WriteWord(0xFFFC, *cfg.ResetVector); err != nil {
			return nil, fmt.Errorf("beeb65: set reset vector: %w", err)
		}
	}

	console := newStdioConsole()
	fs := newDiskFileSystem(filepath.Dir(image))
	installTraps(e, console, fs, cfg)
	return e, nil
}

// installTraps binds the host-trap layer, consulting cfg.Traps to decide
// which optional OS calls to wire in. OSWRCH/OSRDCH are always installed:
// a BBC Micro guest has no way to do character I/O without them.
func installTraps(e *cpu.Emulator, console *stdioConsole, fs *diskFileSystem, cfg *config.Config) {
	registry := trap.NewRegistry(e, emlog.L)
	ci := trap.NewCharIO(console)
	if cfg.Traps.OSCLI {
		ci.Install(registry)
	} else {
		ci.InstallChar(registry)
	}

	if cfg.Traps.OSBYTE {
		trap.NewOSBYTE().Install(registry)
	}
	if cfg.Traps.OSWORD {
		trap.NewOSWORD(console).Install(registry)
	}
	if cfg.Traps.OSFILE {
		trap.NewOSFILE(fs).Install(registry)
	}
	if cfg.Traps.OSARGS {
		trap.NewOSARGS(fs, 4, 0).Install(registry)
	}
	if cfg.Traps.OSFIND {
		trap.NewOSFIND(fs).Install(registry)
	}
	trap.NewOSBGETPUT(fs).Install(registry)
	if cfg.Traps.OSGBPB {
		trap.NewOSGBPB(fs).Install(registry)
	}
	if cfg.Traps.OSFSC {
		trap.NewOSFSC(fs).Install(registry)
	}
}

func runImage(cmd *cobra.Command, args []string) error {
	e, err := buildEmulator(args[0])
	if err != nil {
		return err
	}
	if err := e.Run(baseAddr, nil, maxInsn); err != nil {
		fmt.Fprintln(os.Stderr, "beeb65: run stopped:", err)
		return err
	}
	return nil
}

func debugImage(cmd *cobra.Command, args []string) error {
	e, err := buildEmulator(args[0])
	if err != nil {
		return err
	}
	e.Regs.PC = baseAddr
	dec := cpu.NewDecoder()
	if err := debugtui.Run(e, dec, emlog.L); err != nil {
		return err
	}
	fmt.Print(debugtui.Dump(e))
	return nil
}

func showInfo(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("beeb65: read image: %w", err)
	}
	dec := cpu.NewDecoder()
	fmt.Printf("image: %s (%d bytes)\n", args[0], len(data))
	for i := 0; i < len(data) && i < 32; {
		meta := dec.Decode(data[i])
		fmt.Printf("  +%04x  %s  %s\n", i,
			colorize.HexBytes(fmt.Sprintf("%02x", data[i])),
			colorize.Instruction(meta.Mnemonic))
		if meta.Length <= 0 {
			meta.Length = 1
		}
		i += meta.Length
	}
	return nil
}
