// Package config loads the optional TOML file behind the driver's --config
// flag, grounded on lookbusy1344-arm_emulator's config.go: a plain struct
// with toml tags, a Default() giving spec-exact behavior with no file
// present, and a Load that overlays whatever the file sets on top of that.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config controls the few behaviors spec.md leaves for a driver to decide,
// rather than anything the language itself defines.
type Config struct {
	Heap struct {
		// SizeHint preallocates the heap map's bucket count. Purely an
		// allocation hint; it never bounds what addresses a program may use.
		SizeHint int `toml:"size_hint"`
	} `toml:"heap"`
}

// Default returns the configuration a run gets with no --config file.
func Default() *Config {
	cfg := &Config{}
	cfg.Heap.SizeHint = 64
	return cfg
}

// Load reads path and overlays it on top of Default(). A missing file is not
// an error: it's equivalent to not passing --config at all.
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("parse config file %q: %w", path, err)
	}
	return cfg, nil
}
