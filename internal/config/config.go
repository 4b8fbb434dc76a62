// Package config loads vulwitch.toml, the per-tree settings file of the
// lowering tool.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
)

// FileName is the settings file looked up from the working directory upwards.
const FileName = "vulwitch.toml"

// Config mirrors vulwitch.toml. Zero fields mean "not set"; command-line
// flags override whatever is set here.
type Config struct {
	// Requires is a semver constraint on the tool version, e.g. ">= 0.1, < 0.3".
	Requires string      `toml:"requires"`
	Lower    LowerConfig `toml:"lower"`
	Trace    TraceConfig `toml:"trace"`

	// Path is the file the config was read from; empty for Default().
	Path string `toml:"-"`
}

type LowerConfig struct {
	Jobs           int      `toml:"jobs"`
	Extensions     []string `toml:"extensions"`
	MaxRepairs     int      `toml:"max_repairs"`
	MaxDiagnostics int      `toml:"max_diagnostics"`
}

type TraceConfig struct {
	Level  string `toml:"level"`
	Output string `toml:"output"`
}

// Default is the configuration used when no vulwitch.toml is found.
func Default() Config {
	return Config{
		Lower: LowerConfig{MaxDiagnostics: 100},
		Trace: TraceConfig{Level: "off", Output: "-"},
	}
}

// Find walks up from startDir to locate vulwitch.toml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load reads path on top of Default(). Unknown keys are rejected so that a
// typo does not silently fall back to a default.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	cfg.Path = path
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Discover finds and loads the nearest vulwitch.toml above startDir, or
// returns Default() when there is none.
func Discover(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

func (c *Config) validate() error {
	switch {
	case c.Lower.Jobs < 0:
		return fmt.Errorf("[lower].jobs must not be negative, got %d", c.Lower.Jobs)
	case c.Lower.MaxDiagnostics < 0:
		return fmt.Errorf("[lower].max_diagnostics must not be negative, got %d", c.Lower.MaxDiagnostics)
	}
	for i, ext := range c.Lower.Extensions {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			return fmt.Errorf("[lower].extensions[%d] is empty", i)
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		c.Lower.Extensions[i] = ext
	}
	if c.Requires != "" {
		if _, err := semver.NewConstraint(c.Requires); err != nil {
			return fmt.Errorf("invalid requires %q: %w", c.Requires, err)
		}
	}
	return nil
}

// CheckRequires reports an error when toolVersion does not satisfy Requires.
// Pre-release builds are judged by their release version, so 0.2.0-dev
// satisfies ">= 0.2".
func (c Config) CheckRequires(toolVersion string) error {
	if strings.TrimSpace(c.Requires) == "" {
		return nil
	}
	constraint, err := semver.NewConstraint(c.Requires)
	if err != nil {
		return fmt.Errorf("invalid requires %q: %w", c.Requires, err)
	}
	v, err := semver.NewVersion(toolVersion)
	if err != nil {
		return fmt.Errorf("invalid tool version %q: %w", toolVersion, err)
	}
	if v.Prerelease() != "" {
		release, err := v.SetPrerelease("")
		if err != nil {
			return fmt.Errorf("invalid tool version %q: %w", toolVersion, err)
		}
		v = &release
	}
	if ok, errs := constraint.Validate(v); !ok {
		msgs := make([]string, 0, len(errs))
		for _, e := range errs {
			msgs = append(msgs, e.Error())
		}
		where := c.Path
		if where == "" {
			where = FileName
		}
		return fmt.Errorf("%s requires vulwitch %s: %s", where, c.Requires, strings.Join(msgs, "; "))
	}
	return nil
}
