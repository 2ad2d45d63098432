package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestGetDefaultOpener(t *testing.T) {
	expected := map[string]string{
		"darwin":  "open",
		"linux":   "xdg-open",
		"windows": "start",
	}

	opener := getDefaultOpener()

	if expectedOpener, ok := expected[runtime.GOOS]; ok {
		if opener != expectedOpener {
			t.Errorf("getDefaultOpener() = %s, want %s for %s", opener, expectedOpener, runtime.GOOS)
		}
	} else if opener != "open" {
		t.Errorf("getDefaultOpener() = %s, want 'open' for unknown OS", opener)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.TMDB.BaseURL != "https://api.themoviedb.org/3" {
		t.Errorf("TMDB.BaseURL = %s, want TMDB v3", cfg.TMDB.BaseURL)
	}
	if cfg.TMDB.Token != "" {
		t.Error("TMDB.Token must not have a default")
	}
	if cfg.Search.Debounce != 500*time.Millisecond {
		t.Errorf("Search.Debounce = %v, want 500ms", cfg.Search.Debounce)
	}
	if cfg.UI.SkeletonCount != 10 {
		t.Errorf("UI.SkeletonCount = %d, want 10", cfg.UI.SkeletonCount)
	}
	if cfg.UI.TrendingLimit != 10 {
		t.Errorf("UI.TrendingLimit = %d, want 10", cfg.UI.TrendingLimit)
	}
	if cfg.UI.DefaultCategory != "popular" {
		t.Errorf("UI.DefaultCategory = %s, want popular", cfg.UI.DefaultCategory)
	}
	if cfg.Media.DefaultOpener == "" {
		t.Error("Media.DefaultOpener should not be empty")
	}
	if cfg.Keys.Modifier != "ctrl" {
		t.Errorf("Keys.Modifier = %s, want 'ctrl'", cfg.Keys.Modifier)
	}
	if cfg.Log.Level != "off" {
		t.Errorf("Log.Level = %s, want off", cfg.Log.Level)
	}
}

func TestLoad_DefaultConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	chdir(t, t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Search.Debounce != 500*time.Millisecond {
		t.Errorf("Search.Debounce = %v, want 500ms", cfg.Search.Debounce)
	}
	if cfg.Media.Linux.Image[0] != "sxiv" {
		t.Errorf("Media.Linux.Image = %v, want sxiv first", cfg.Media.Linux.Image)
	}
}

func TestLoad_FromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "test-config.toml")
	configContent := `
[tmdb]
base_url = "http://localhost:9000/3"
token = "file-token"
http_timeout = "3s"

[search]
debounce = "250ms"

[ui]
default_category = "top_rated"

[ui.colors]
primary = "#FF0000"
`

	if writeErr := os.WriteFile(configPath, []byte(configContent), 0o644); writeErr != nil {
		t.Fatal(writeErr)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.TMDB.BaseURL != "http://localhost:9000/3" {
		t.Errorf("TMDB.BaseURL = %s", cfg.TMDB.BaseURL)
	}
	if cfg.TMDB.Token != "file-token" {
		t.Errorf("TMDB.Token = %s, want file-token", cfg.TMDB.Token)
	}
	if cfg.TMDB.HTTPTimeout != 3*time.Second {
		t.Errorf("TMDB.HTTPTimeout = %v, want 3s", cfg.TMDB.HTTPTimeout)
	}
	if cfg.Search.Debounce != 250*time.Millisecond {
		t.Errorf("Search.Debounce = %v, want 250ms", cfg.Search.Debounce)
	}
	if cfg.UI.DefaultCategory != "top_rated" {
		t.Errorf("UI.DefaultCategory = %s, want top_rated", cfg.UI.DefaultCategory)
	}
	if cfg.UI.Colors.Primary != "#FF0000" {
		t.Errorf("UI.Colors.Primary = %s, want '#FF0000'", cfg.UI.Colors.Primary)
	}
	// Unset keys keep their defaults
	if cfg.UI.Colors.Muted != "#94A3B8" {
		t.Errorf("UI.Colors.Muted = %s, want default", cfg.UI.Colors.Muted)
	}
}

func TestLoad_TokenFromEnvironment(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	chdir(t, t.TempDir())

	t.Run("prefixed variable", func(t *testing.T) {
		t.Setenv("MARQUEE_TMDB_TOKEN", "prefixed")
		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.TMDB.Token != "prefixed" {
			t.Errorf("TMDB.Token = %q, want prefixed", cfg.TMDB.Token)
		}
	})

	t.Run("TMDB_API_KEY alias", func(t *testing.T) {
		t.Setenv("TMDB_API_KEY", "aliased")
		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.TMDB.Token != "aliased" {
			t.Errorf("TMDB.Token = %q, want aliased", cfg.TMDB.Token)
		}
	})

	t.Run("nested override", func(t *testing.T) {
		t.Setenv("MARQUEE_SEARCH_DEBOUNCE", "1s")
		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.Search.Debounce != time.Second {
			t.Errorf("Search.Debounce = %v, want 1s", cfg.Search.Debounce)
		}
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
		wantAny bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing token", mutate: func(c *Config) { c.TMDB.Token = "" }, wantErr: ErrMissingToken},
		{name: "blank token", mutate: func(c *Config) { c.TMDB.Token = "   " }, wantErr: ErrMissingToken},
		{name: "bad base url", mutate: func(c *Config) { c.TMDB.BaseURL = "ftp://x" }, wantAny: true},
		{name: "zero timeout", mutate: func(c *Config) { c.TMDB.HTTPTimeout = 0 }, wantAny: true},
		{name: "zero debounce", mutate: func(c *Config) { c.Search.Debounce = 0 }, wantAny: true},
		{name: "zero trending limit", mutate: func(c *Config) { c.UI.TrendingLimit = 0 }, wantAny: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := TestConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
				}
			case tt.wantAny:
				if err == nil {
					t.Error("Validate() = nil, want error")
				}
			default:
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
			}
		})
	}
}

func TestSave(t *testing.T) {
	cfg := defaultConfig()
	cfg.TMDB.Token = "secret"
	cfg.TMDB.UserAgent = "test-save-agent"
	cfg.Search.Debounce = 750 * time.Millisecond
	cfg.UI.DefaultCategory = "upcoming"
	cfg.Keys.Modifier = "alt"
	cfg.Media.DefaultOpener = "test-opener"

	savePath := filepath.Join(t.TempDir(), "saved-config.toml")
	if saveErr := Save(cfg, savePath); saveErr != nil {
		t.Fatalf("Save() error = %v", saveErr)
	}

	data, err := os.ReadFile(savePath)
	if err != nil {
		t.Fatalf("Save() did not create config file: %v", err)
	}
	if strings.Contains(string(data), "secret") {
		t.Error("Save() must not write the token to disk")
	}

	loaded, err := Load(savePath)
	if err != nil {
		t.Fatalf("Failed to load saved config: %v", err)
	}

	if loaded.TMDB.UserAgent != cfg.TMDB.UserAgent {
		t.Errorf("Loaded TMDB.UserAgent = %s, want %s", loaded.TMDB.UserAgent, cfg.TMDB.UserAgent)
	}
	if loaded.Search.Debounce != cfg.Search.Debounce {
		t.Errorf("Loaded Search.Debounce = %v, want %v", loaded.Search.Debounce, cfg.Search.Debounce)
	}
	if loaded.UI.DefaultCategory != "upcoming" {
		t.Errorf("Loaded UI.DefaultCategory = %s, want upcoming", loaded.UI.DefaultCategory)
	}
	if loaded.Keys.Modifier != "alt" {
		t.Errorf("Loaded Keys.Modifier = %s, want alt", loaded.Keys.Modifier)
	}
	if loaded.Media.DefaultOpener != "test-opener" {
		t.Errorf("Loaded Media.DefaultOpener = %s, want test-opener", loaded.Media.DefaultOpener)
	}
}

func TestGenerateDefaultConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "generated.toml")
	if genErr := GenerateDefaultConfig(configPath); genErr != nil {
		t.Fatalf("GenerateDefaultConfig() error = %v", genErr)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load generated config: %v", err)
	}

	if cfg.Keys.Modifier != "ctrl" {
		t.Errorf("Generated config has Keys.Modifier = %s, want 'ctrl'", cfg.Keys.Modifier)
	}
	if cfg.UI.TrendingLimit != 10 {
		t.Errorf("Generated config has UI.TrendingLimit = %d, want 10", cfg.UI.TrendingLimit)
	}
}

func TestTestConfig(t *testing.T) {
	cfg := TestConfig()

	if cfg.TMDB.UserAgent != "marquee-test/1.0" {
		t.Errorf("TestConfig TMDB.UserAgent = %s, want 'marquee-test/1.0'", cfg.TMDB.UserAgent)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("TestConfig should validate: %v", err)
	}
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent to testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	oldwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(oldwd); err != nil {
			t.Fatal(err)
		}
	})
}
