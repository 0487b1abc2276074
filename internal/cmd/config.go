package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
)

const configName = ".mdplantuml.toml"

// fileConfig mirrors the flags that can be preset in a configuration file.
type fileConfig struct {
	Renderer string `toml:"renderer"`
	Format   string `toml:"format"`
	Prefix   string `toml:"prefix"`
	Dir      string `toml:"dir"`
	Command  string `toml:"command"`
	Timeout  string `toml:"timeout"`
}

// findConfig walks up from dir looking for the configuration file.
func findConfig(dir string) (string, bool, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", false, err
	}

	for {
		candidate := filepath.Join(dir, configName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}

		dir = parent
	}
}

func loadConfig(path string) (fileConfig, toml.MetaData, error) {
	var cfg fileConfig

	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return fileConfig{}, meta, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) != 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}

		return fileConfig{}, meta, fmt.Errorf("%s: %w: %s", path, errUnknownKey, strings.Join(keys, ", "))
	}

	return cfg, meta, nil
}

// applyConfig copies configured values into opts for every flag the user did
// not set. Relative paths are resolved against the directory of the file.
func applyConfig(cmd *cobra.Command, opts *options, path string) error {
	cfg, meta, err := loadConfig(path)
	if err != nil {
		return err
	}

	base, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return err
	}

	unset := func(key, flag string) bool {
		return meta.IsDefined(key) && !changed(cmd, flag)
	}

	if unset("renderer", "renderer") {
		opts.renderer = resolve(base, cfg.Renderer)
	}

	if unset("format", "format") {
		opts.format = cfg.Format
	}

	if unset("prefix", "prefix") {
		opts.prefix = cfg.Prefix
	}

	if unset("dir", "dir") {
		opts.dir = resolve(base, cfg.Dir)
	}

	if unset("command", "command") {
		opts.command = cfg.Command
	}

	if unset("timeout", "timeout") {
		timeout, err := time.ParseDuration(cfg.Timeout)
		if err != nil {
			return fmt.Errorf("%s: timeout: %w", path, err)
		}

		opts.timeout = timeout
	}

	return nil
}

func changed(cmd *cobra.Command, name string) bool {
	flag := cmd.Flags().Lookup(name)

	return flag != nil && flag.Changed
}

func resolve(base, path string) string {
	if len(path) == 0 || filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(base, filepath.FromSlash(path))
}

var errUnknownKey = errors.New("unknown configuration keys")
