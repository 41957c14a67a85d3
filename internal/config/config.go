// Package config loads beeb65.yaml: the ROM image(s) to map, the reset
// vector override, and which optional host traps to install.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ROMImage describes one binary blob mapped into the guest address space
// at load.
type ROMImage struct {
	Path  string `yaml:"path"`
	Base  uint16 `yaml:"base"`
	Label string `yaml:"label,omitempty"`
}

// Traps lists which optional host-service traps to install; OSWRCH/OSRDCH
// are always installed (a BBC Micro guest cannot do character I/O without
// them), as are OSBGET/OSBPUT, and the rest are each individually
// switchable.
type Traps struct {
	OSCLI  bool `yaml:"oscli"`
	OSBYTE bool `yaml:"osbyte"`
	OSWORD bool `yaml:"osword"`
	OSFILE bool `yaml:"osfile"`
	OSARGS bool `yaml:"osargs"`
	OSFIND bool `yaml:"osfind"`
	OSGBPB bool `yaml:"osgbpb"`
	OSFSC  bool `yaml:"osfsc"`
}

// Config is the top-level beeb65.yaml document.
type Config struct {
	Images      []ROMImage `yaml:"images"`
	ResetVector *uint16    `yaml:"reset_vector,omitempty"`
	Traps       Traps      `yaml:"traps"`
	Debug       bool       `yaml:"debug"`
}

// Default returns a Config with every optional trap enabled, matching the
// behavior a bare `beeb65 run` gives with no config file present.
func Default() *Config {
	return &Config{
		Traps: Traps{
			OSCLI:  true,
			OSBYTE: true,
			OSWORD: true,
			OSFILE: true,
			OSARGS: true,
			OSFIND: true,
			OSGBPB: true,
			OSFSC:  true,
		},
	}
}

// Load reads and parses a beeb65.yaml file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}
