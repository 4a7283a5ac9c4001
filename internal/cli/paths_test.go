package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	if !strings.HasPrefix(dir, home) {
		t.Errorf("cacheDir() = %q, should be under home %q", dir, home)
	}

	expected := filepath.Join(home, ".cache", appName)
	if dir != expected {
		t.Errorf("cacheDir() = %q, want %q", dir, expected)
	}
}

func TestXDGDirs(t *testing.T) {
	tests := []struct {
		name string
		env  string
		fn   func() (string, error)
	}{
		{"cache", "XDG_CACHE_HOME", cacheDir},
		{"data", "XDG_DATA_HOME", dataDir},
		{"config", "XDG_CONFIG_HOME", configDir},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := t.TempDir()
			t.Setenv(tt.env, base)

			dir, err := tt.fn()
			if err != nil {
				t.Fatalf("error: %v", err)
			}
			if want := filepath.Join(base, appName); dir != want {
				t.Errorf("got %q, want %q", dir, want)
			}
		})
	}
}

func TestDefaultFiles(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "")
	t.Setenv("XDG_CONFIG_HOME", "/etc/xdg")

	home, _ := os.UserHomeDir()
	if p, _ := storePath(); p != filepath.Join(home, ".local", "share", appName, "graph.json") {
		t.Errorf("storePath() = %q", p)
	}
	if p, _ := defaultConfigPath(); p != filepath.Join("/etc/xdg", appName, "config.toml") {
		t.Errorf("defaultConfigPath() = %q", p)
	}
}
