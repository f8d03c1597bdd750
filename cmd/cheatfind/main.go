// Command cheatfind is an interactive REPL over the cheat-search core: a
// value search against a simulated guest memory, iterative refinement, and
// a tree of pinned cheat entries with lock-to-value support. It exists to
// exercise pkg/finder, pkg/cheattree, and pkg/searchmodel end to end
// without the emulator's own UI; all REPL logic lives in internal/cli so
// this file stays a thin flag-parsing shim, the way the teacher's cmd/tk
// defers everything to internal/cli.Run.
package main

import (
	"fmt"
	"os"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/cheatfind/internal/cli"
	"github.com/calvinalkan/cheatfind/internal/config"
)

func main() {
	environ := os.Environ()
	env := make(map[string]string, len(environ))

	for _, e := range environ {
		if k, v, ok := strings.Cut(e, "="); ok {
			env[k] = v
		}
	}

	os.Exit(run(os.Args, env, os.Stdout, os.Stderr))
}

func run(args []string, env map[string]string, out, errOut *os.File) int {
	flags := flag.NewFlagSet("cheatfind", flag.ContinueOnError)
	flags.SetOutput(&strings.Builder{})

	flagConfig := flags.StringP("config", "c", "", "Use specified config `file` (JSONC)")
	flagBackend := flags.String("memory", "", "Memory backend: \"fake\" or \"real\"")
	flagFakeSize := flags.Uint32("fake-size", 0, "FakeMemory arena size in `bytes`")
	flagRealRAM := flags.Uint32("real-ram-size", 0, "RealMemory main RAM arena size in `bytes`")
	flagExRAM := flags.Uint32("ex-ram-size", 0, "RealMemory extended RAM arena size in `bytes`")
	flagSeed := flags.Bool("seed-demo-tree", false, "Pre-populate the cheat tree with demonstration entries")
	flagHelp := flags.BoolP("help", "h", false, "Show help")

	if err := flags.Parse(args[1:]); err != nil {
		fmt.Fprintln(errOut, "error:", err)
		return 1
	}

	if *flagHelp {
		printUsage(out, flags)
		return 0
	}

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintln(errOut, "error:", err)
		return 1
	}

	cfg, err := config.Load(config.LoadInput{
		ConfigPath:       *flagConfig,
		Dir:              cwd,
		Env:              env,
		MemoryBackend:    *flagBackend,
		MemoryBackendSet: flags.Changed("memory"),
		FakeSize:         *flagFakeSize,
		FakeSizeSet:      flags.Changed("fake-size"),
		RealRAMSize:      *flagRealRAM,
		RealRAMSizeSet:   flags.Changed("real-ram-size"),
		ExRAMSize:        *flagExRAM,
		ExRAMSizeSet:     flags.Changed("ex-ram-size"),
		SeedDemoTree:     *flagSeed,
		SeedDemoTreeSet:  flags.Changed("seed-demo-tree"),
	})
	if err != nil {
		fmt.Fprintln(errOut, "error:", err)
		return 1
	}

	core, closeMem, err := cli.New(cfg)
	if err != nil {
		fmt.Fprintln(errOut, "error:", err)
		return 1
	}
	defer closeMem()

	if cfg.SeedDemoTree {
		config.SeedDemoTree(core.Tree)
	}

	repl := cli.NewREPL(core, out)
	defer repl.Close()

	if err := repl.Run(); err != nil {
		fmt.Fprintln(errOut, "error:", err)
		return 1
	}

	return 0
}

func printUsage(out *os.File, flags *flag.FlagSet) {
	fmt.Fprintln(out, "Usage: cheatfind [options]")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Starts an interactive memory-search REPL over a simulated guest RAM.")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Options:")
	flags.SetOutput(out)
	flags.PrintDefaults()
}
