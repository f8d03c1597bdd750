// Package config loads cheatfind's session configuration — which guestmem
// backend to run the REPL against and how to size/seed it — the same
// layered, JSONC-tolerant way the teacher's ticket package loads .tk.json:
// defaults, then a global user config, then a project config file, then
// CLI overrides.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"
)

// ErrConfigFileNotFound is returned when an explicitly named config file
// does not exist.
var ErrConfigFileNotFound = errors.New("config file not found")

// ErrConfigInvalid wraps a parse or validation failure, naming the file.
var ErrConfigInvalid = errors.New("invalid config")

// ErrInvalidBackend is returned when MemoryBackend is set to anything other
// than "fake" or "real".
var ErrInvalidBackend = errors.New("memory_backend must be \"fake\" or \"real\"")

// FileName is the project-local config file name.
const FileName = ".cheatfind.json"

// Config holds the session's guestmem backend selection and sizing.
type Config struct {
	// MemoryBackend selects guestmem.NewFakeMemory ("fake") or
	// guestmem.NewRealMemory ("real").
	MemoryBackend string `json:"memory_backend,omitempty"`

	// FakeSize is the byte size of each of FakeMemory's two arenas when
	// MemoryBackend == "fake".
	FakeSize uint32 `json:"fake_size,omitempty"`

	// RealRAMSize and ExRAMSize size RealMemory's main and extended RAM
	// arenas when MemoryBackend == "real".
	RealRAMSize uint32 `json:"real_ram_size,omitempty"`
	ExRAMSize   uint32 `json:"ex_ram_size,omitempty"`

	// SeedDemoTree requests that the REPL populate the cheat tree with
	// the original source's five demonstration entries at startup (see
	// SeedDemoTree).
	SeedDemoTree bool `json:"seed_demo_tree,omitempty"`
}

// Default returns the configuration used when no file and no flags
// override it: a 64KiB FakeMemory backend, no demo entries.
func Default() Config {
	return Config{
		MemoryBackend: "fake",
		FakeSize:      64 << 10,
		RealRAMSize:   16 << 20,
		ExRAMSize:     0,
		SeedDemoTree:  false,
	}
}

// LoadInput holds the inputs to Load.
type LoadInput struct {
	// ConfigPath is an explicit --config path. If empty, Load falls back
	// to FileName in Dir, and silently proceeds with defaults if that is
	// absent too.
	ConfigPath string

	// Dir is the directory Load resolves a relative ConfigPath (or the
	// default file name) against; normally the process's working
	// directory.
	Dir string

	// Env is the process environment, used to locate the global config
	// file ($XDG_CONFIG_HOME or $HOME).
	Env map[string]string

	// Overrides, applied after any file is loaded. Each override takes
	// effect only when its *Set flag is true, zero values included; with
	// the flag false the value is ignored (matches the teacher's
	// flag.Changed-gated override style).
	MemoryBackend    string
	MemoryBackendSet bool
	FakeSize         uint32
	FakeSizeSet      bool
	RealRAMSize      uint32
	RealRAMSizeSet   bool
	ExRAMSize        uint32
	ExRAMSizeSet     bool
	SeedDemoTree     bool
	SeedDemoTreeSet  bool
}

// Load resolves a Config from defaults, an optional global config, an
// optional project config, and CLI overrides, in that precedence order
// (later wins).
func Load(in LoadInput) (Config, error) {
	cfg := Default()

	if globalCfg, path, err := loadGlobal(in.Env); err != nil {
		return Config{}, err
	} else if path != "" {
		cfg = merge(cfg, globalCfg)
	}

	projectCfg, path, err := loadProject(in)
	if err != nil {
		return Config{}, err
	}

	if path != "" {
		cfg = merge(cfg, projectCfg)
	}

	applyOverrides(&cfg, in)

	if cfg.MemoryBackend != "fake" && cfg.MemoryBackend != "real" {
		return Config{}, fmt.Errorf("%w: got %q", ErrInvalidBackend, cfg.MemoryBackend)
	}

	return cfg, nil
}

func merge(base, override Config) Config {
	if override.MemoryBackend != "" {
		base.MemoryBackend = override.MemoryBackend
	}

	if override.FakeSize != 0 {
		base.FakeSize = override.FakeSize
	}

	if override.RealRAMSize != 0 {
		base.RealRAMSize = override.RealRAMSize
	}

	if override.ExRAMSize != 0 {
		base.ExRAMSize = override.ExRAMSize
	}

	if override.SeedDemoTree {
		base.SeedDemoTree = true
	}

	return base
}

func applyOverrides(cfg *Config, in LoadInput) {
	if in.MemoryBackendSet {
		cfg.MemoryBackend = in.MemoryBackend
	}

	if in.FakeSizeSet {
		cfg.FakeSize = in.FakeSize
	}

	if in.RealRAMSizeSet {
		cfg.RealRAMSize = in.RealRAMSize
	}

	if in.ExRAMSizeSet {
		cfg.ExRAMSize = in.ExRAMSize
	}

	if in.SeedDemoTreeSet {
		cfg.SeedDemoTree = in.SeedDemoTree
	}
}

func globalConfigPath(env map[string]string) string {
	if xdg := env["XDG_CONFIG_HOME"]; xdg != "" {
		return filepath.Join(xdg, "cheatfind", "config.json")
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".config", "cheatfind", "config.json")
	}

	return ""
}

func loadGlobal(env map[string]string) (Config, string, error) {
	path := globalConfigPath(env)
	if path == "" {
		return Config{}, "", nil
	}

	return readConfigFile(path, false)
}

func loadProject(in LoadInput) (Config, string, error) {
	path := in.ConfigPath
	mustExist := path != ""

	if path == "" {
		path = FileName
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(in.Dir, path)
	}

	return readConfigFile(path, mustExist)
}

// readConfigFile loads and parses a JSONC config file. A missing optional
// file (mustExist == false) is reported as "not loaded", not an error.
func readConfigFile(path string, mustExist bool) (Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !mustExist {
			return Config{}, "", nil
		}

		if mustExist {
			return Config{}, "", fmt.Errorf("%w: %s", ErrConfigFileNotFound, path)
		}

		return Config{}, "", nil
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, "", fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, err)
	}

	var cfg Config
	if err := json.Unmarshal(standardized, &cfg); err != nil {
		return Config{}, "", fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, err)
	}

	return cfg, path, nil
}
