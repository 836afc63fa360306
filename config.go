package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"

	"multirom/build"
	"multirom/log"
	"multirom/menu"
)

type Config struct {
	MenuTitle string `toml:"menu_title"`
	Output    string `toml:"output"` // <CODE> is replaced by the rom code
	Roms      string `toml:"roms"`
	Layout    string `toml:"layout"`
	Menu      string `toml:"menu"` // template file, defaults to the layout's

	Layouts map[string]menu.Layout `toml:"layouts"`
}

const DefaultFileMode = os.FileMode(0755)

var ConfigDir = sync.OnceValue(func() string {
	cfgdir, err := os.UserConfigDir()
	if err != nil {
		log.ModMain.Fatalf("failed to get user config directory: %v", err)
	}
	return filepath.Join(cfgdir, "multirom")
})

var defaultConfig = Config{
	MenuTitle: build.DefaultMenuTitle,
	Output:    build.DefaultOutput,
	Roms:      "roms",
	Layout:    "standard",
}

const cfgFilename = "config.toml"

// LoadConfig loads the configuration file at path. Settings missing from the
// file keep their default value.
func LoadConfig(path string) (Config, error) {
	cfg := defaultConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return defaultConfig, err
	}
	for name, l := range cfg.Layouts {
		if err := l.Validate(); err != nil {
			return defaultConfig, fmt.Errorf("layout %s: %w", name, err)
		}
	}
	return cfg, nil
}

// LoadConfigOrDefault loads the configuration from the multirom config
// directory, or provide a default one.
func LoadConfigOrDefault() Config {
	path := filepath.Join(ConfigDir(), cfgFilename)
	cfg, err := LoadConfig(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.ModMain.WarnZ("ignoring config file").String("path", path).Error("err", err).End()
		}
		return defaultConfig
	}
	return cfg
}

// EncodeConfig writes cfg as TOML. The built-in layouts are included so
// that they can serve as a starting point.
func EncodeConfig(w io.Writer, cfg Config) error {
	out := cfg
	out.Layouts = map[string]menu.Layout{
		"standard": menu.Standard(),
		"cn":       menu.CN(),
	}
	maps.Copy(out.Layouts, cfg.Layouts)
	return toml.NewEncoder(w).Encode(out)
}

// SaveConfig writes cfg to path, creating its directory if needed.
func SaveConfig(path string, cfg Config) error {
	var buf bytes.Buffer
	if err := EncodeConfig(&buf, cfg); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), DefaultFileMode); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}
