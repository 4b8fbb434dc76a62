package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
requires = ">= 0.1.0"

[lower]
jobs = 4
extensions = [".c", "h"]
max_repairs = 2

[trace]
level = "phase"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Path != path || cfg.Requires != ">= 0.1.0" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Lower.Jobs != 4 || cfg.Lower.MaxRepairs != 2 {
		t.Fatalf("unexpected [lower] %+v", cfg.Lower)
	}
	if !reflect.DeepEqual(cfg.Lower.Extensions, []string{".c", ".h"}) {
		t.Fatalf("extensions not normalized: %v", cfg.Lower.Extensions)
	}
	// ключи, которых нет в файле, берутся из Default
	if cfg.Lower.MaxDiagnostics != 100 || cfg.Trace.Output != "-" || cfg.Trace.Level != "phase" {
		t.Fatalf("defaults not kept: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"syntax", "[lower\njobs = 1\n", "failed to parse TOML"},
		{"unknown key", "[lower]\njbos = 2\n", "unknown keys: lower.jbos"},
		{"negative jobs", "[lower]\njobs = -1\n", "[lower].jobs must not be negative"},
		{"empty extension", "[lower]\nextensions = [\"\"]\n", "[lower].extensions[0] is empty"},
		{"bad constraint", "requires = \">= banana\"\n", "invalid requires"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.body)
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Load error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestFind(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "src", "net")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	if path, ok, err := Find(nested); err != nil || (ok && strings.HasPrefix(path, root)) {
		t.Fatalf("Find without config = %q, %v, %v", path, ok, err)
	}

	want := writeConfig(t, root, "[lower]\njobs = 2\n")
	path, ok, err := Find(nested)
	if err != nil || !ok || path != want {
		t.Fatalf("Find = %q, %v, %v; want %q", path, ok, err, want)
	}

	cfg, err := Discover(nested)
	if err != nil || cfg.Lower.Jobs != 2 {
		t.Fatalf("Discover = %+v, %v", cfg, err)
	}
}

func TestCheckRequires(t *testing.T) {
	tests := []struct {
		requires string
		version  string
		ok       bool
	}{
		{"", "0.1.0", true},
		{">= 0.1.0", "0.1.0", true},
		{">= 0.1.0", "0.1.0-dev", true},
		{">= 0.2", "0.1.5", false},
		{"^0.1", "0.1.9", true},
		{">= 0.1, < 0.2", "0.2.0", false},
	}
	for _, tt := range tests {
		t.Run(tt.requires+"@"+tt.version, func(t *testing.T) {
			err := Config{Requires: tt.requires}.CheckRequires(tt.version)
			if (err == nil) != tt.ok {
				t.Fatalf("CheckRequires = %v, want ok=%v", err, tt.ok)
			}
			if err != nil && !strings.Contains(err.Error(), "vulwitch.toml requires vulwitch") {
				t.Fatalf("unexpected message: %v", err)
			}
		})
	}

	if err := (Config{Requires: ">= 0.1"}).CheckRequires("dev"); err == nil {
		t.Fatalf("expected an error for a non-semver tool version")
	}
}
