package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/pders01/marquee/internal/validation"
	"github.com/spf13/viper"
)

// ErrMissingToken is returned by Validate when no TMDB bearer token is configured.
var ErrMissingToken = errors.New("tmdb token is not set (set MARQUEE_TMDB_TOKEN or TMDB_API_KEY, or tmdb.token in config)")

type Config struct {
	TMDB   TMDBConfig   `mapstructure:"tmdb"`
	Search SearchConfig `mapstructure:"search"`
	UI     UIConfig     `mapstructure:"ui"`
	Media  MediaConfig  `mapstructure:"media"`
	Keys   KeyConfig    `mapstructure:"keys"`
	Log    LogConfig    `mapstructure:"log"`
}

type TMDBConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	Token       string        `mapstructure:"token"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
	RateLimit   float64       `mapstructure:"rate_limit"`
	Burst       int           `mapstructure:"burst"`
	UserAgent   string        `mapstructure:"user_agent"`
	Language    string        `mapstructure:"language"`
}

type SearchConfig struct {
	Debounce       time.Duration `mapstructure:"debounce"`
	MaxQueryLength int           `mapstructure:"max_query_length"`
}

type UIConfig struct {
	Colors          UIColors `mapstructure:"colors"`
	SkeletonCount   int      `mapstructure:"skeleton_count"`
	TrendingLimit   int      `mapstructure:"trending_limit"`
	DefaultCategory string   `mapstructure:"default_category"`
}

type UIColors struct {
	Primary   string `mapstructure:"primary"`
	Secondary string `mapstructure:"secondary"`
	Accent    string `mapstructure:"accent"`
	Text      string `mapstructure:"text"`
	Muted     string `mapstructure:"muted"`
	Error     string `mapstructure:"error"`
	Rating    string `mapstructure:"rating"`
}

type MediaConfig struct {
	Darwin        MediaViewers `mapstructure:"darwin"`
	Linux         MediaViewers `mapstructure:"linux"`
	Windows       MediaViewers `mapstructure:"windows"`
	DefaultOpener string       `mapstructure:"default_opener"`
}

type MediaViewers struct {
	Image   []string `mapstructure:"image"`
	Browser []string `mapstructure:"browser"`
}

type KeyConfig struct {
	Modifier string `mapstructure:"modifier"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

func defaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		TMDB: TMDBConfig{
			BaseURL:     "https://api.themoviedb.org/3",
			HTTPTimeout: 15 * time.Second,
			RateLimit:   20,
			Burst:       5,
			UserAgent:   "marquee/1.0 (https://github.com/pders01/marquee)",
		},
		Search: SearchConfig{
			Debounce:       500 * time.Millisecond,
			MaxQueryLength: 256,
		},
		UI: UIConfig{
			Colors: UIColors{
				Primary:   "#C084FC",
				Secondary: "#F472B6",
				Accent:    "#A78BFA",
				Text:      "#EAEAEA",
				Muted:     "#94A3B8",
				Error:     "#F87171",
				Rating:    "#FACC15",
			},
			SkeletonCount:   10,
			TrendingLimit:   10,
			DefaultCategory: "popular",
		},
		Media: MediaConfig{
			Darwin: MediaViewers{
				Image:   []string{"qlmanage", "open"},
				Browser: []string{"open"},
			},
			Linux: MediaViewers{
				Image:   []string{"sxiv", "feh", "eog", "xdg-open"},
				Browser: []string{"xdg-open", "firefox", "chromium"},
			},
			Windows: MediaViewers{
				Image:   []string{"start"},
				Browser: []string{"start"},
			},
			DefaultOpener: getDefaultOpener(),
		},
		Keys: KeyConfig{
			Modifier: "ctrl",
		},
		Log: LogConfig{
			Level:      "off",
			File:       filepath.Join(homeDir, ".marquee", "marquee.log"),
			MaxSizeMB:  5,
			MaxBackups: 3,
		},
	}
}

func getDefaultOpener() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "linux":
		return "xdg-open"
	case "windows":
		return "start"
	default:
		return "open"
	}
}

// setDefaults registers every leaf key so environment overrides of nested
// keys are visible to Unmarshal.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("tmdb.base_url", cfg.TMDB.BaseURL)
	v.SetDefault("tmdb.token", cfg.TMDB.Token)
	v.SetDefault("tmdb.http_timeout", cfg.TMDB.HTTPTimeout)
	v.SetDefault("tmdb.rate_limit", cfg.TMDB.RateLimit)
	v.SetDefault("tmdb.burst", cfg.TMDB.Burst)
	v.SetDefault("tmdb.user_agent", cfg.TMDB.UserAgent)
	v.SetDefault("tmdb.language", cfg.TMDB.Language)

	v.SetDefault("search.debounce", cfg.Search.Debounce)
	v.SetDefault("search.max_query_length", cfg.Search.MaxQueryLength)

	v.SetDefault("ui.colors.primary", cfg.UI.Colors.Primary)
	v.SetDefault("ui.colors.secondary", cfg.UI.Colors.Secondary)
	v.SetDefault("ui.colors.accent", cfg.UI.Colors.Accent)
	v.SetDefault("ui.colors.text", cfg.UI.Colors.Text)
	v.SetDefault("ui.colors.muted", cfg.UI.Colors.Muted)
	v.SetDefault("ui.colors.error", cfg.UI.Colors.Error)
	v.SetDefault("ui.colors.rating", cfg.UI.Colors.Rating)
	v.SetDefault("ui.skeleton_count", cfg.UI.SkeletonCount)
	v.SetDefault("ui.trending_limit", cfg.UI.TrendingLimit)
	v.SetDefault("ui.default_category", cfg.UI.DefaultCategory)

	for goos, viewers := range map[string]MediaViewers{
		"darwin":  cfg.Media.Darwin,
		"linux":   cfg.Media.Linux,
		"windows": cfg.Media.Windows,
	} {
		v.SetDefault("media."+goos+".image", viewers.Image)
		v.SetDefault("media."+goos+".browser", viewers.Browser)
	}
	v.SetDefault("media.default_opener", cfg.Media.DefaultOpener)
	v.SetDefault("keys.modifier", cfg.Keys.Modifier)

	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.file", cfg.Log.File)
	v.SetDefault("log.max_size_mb", cfg.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", cfg.Log.MaxBackups)
}

func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v, defaultConfig())

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		homeDir, _ := os.UserHomeDir()
		configDir := filepath.Join(homeDir, ".config", "marquee")

		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(configDir)
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("MARQUEE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("tmdb.token", "MARQUEE_TMDB_TOKEN", "TMDB_API_KEY", "TMDB_TOKEN"); err != nil {
		return nil, fmt.Errorf("binding token env: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	config.Log.File = expandPath(config.Log.File)

	return &config, nil
}

// Validate checks the preconditions the application relies on at runtime.
// It is called once at startup so a missing token fails before any request.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.TMDB.Token) == "" {
		return ErrMissingToken
	}
	if _, err := validation.NewAPIURLValidator().ValidateAndNormalize(c.TMDB.BaseURL); err != nil {
		return fmt.Errorf("tmdb.base_url: %w", err)
	}
	if c.TMDB.HTTPTimeout <= 0 {
		return fmt.Errorf("tmdb.http_timeout must be positive, got %v", c.TMDB.HTTPTimeout)
	}
	if c.Search.Debounce <= 0 {
		return fmt.Errorf("search.debounce must be positive, got %v", c.Search.Debounce)
	}
	if c.UI.TrendingLimit <= 0 {
		return fmt.Errorf("ui.trending_limit must be positive, got %d", c.UI.TrendingLimit)
	}
	return nil
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}

	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	return path
}

// Save writes cfg as TOML. The token is never written to disk.
func Save(config *Config, path string) error {
	v := viper.New()

	tmdbCfg := map[string]interface{}{
		"base_url":     config.TMDB.BaseURL,
		"http_timeout": config.TMDB.HTTPTimeout.String(),
		"rate_limit":   config.TMDB.RateLimit,
		"burst":        config.TMDB.Burst,
		"user_agent":   config.TMDB.UserAgent,
		"language":     config.TMDB.Language,
	}

	searchCfg := map[string]interface{}{
		"debounce":         config.Search.Debounce.String(),
		"max_query_length": config.Search.MaxQueryLength,
	}

	uiCfg := map[string]interface{}{
		"colors": map[string]interface{}{
			"primary":   config.UI.Colors.Primary,
			"secondary": config.UI.Colors.Secondary,
			"accent":    config.UI.Colors.Accent,
			"text":      config.UI.Colors.Text,
			"muted":     config.UI.Colors.Muted,
			"error":     config.UI.Colors.Error,
			"rating":    config.UI.Colors.Rating,
		},
		"skeleton_count":   config.UI.SkeletonCount,
		"trending_limit":   config.UI.TrendingLimit,
		"default_category": config.UI.DefaultCategory,
	}

	viewers := func(m MediaViewers) map[string]interface{} {
		return map[string]interface{}{"image": m.Image, "browser": m.Browser}
	}
	mediaCfg := map[string]interface{}{
		"darwin":         viewers(config.Media.Darwin),
		"linux":          viewers(config.Media.Linux),
		"windows":        viewers(config.Media.Windows),
		"default_opener": config.Media.DefaultOpener,
	}

	logCfg := map[string]interface{}{
		"level":       config.Log.Level,
		"file":        config.Log.File,
		"max_size_mb": config.Log.MaxSizeMB,
		"max_backups": config.Log.MaxBackups,
	}

	v.Set("tmdb", tmdbCfg)
	v.Set("search", searchCfg)
	v.Set("ui", uiCfg)
	v.Set("media", mediaCfg)
	v.Set("keys", map[string]interface{}{"modifier": config.Keys.Modifier})
	v.Set("log", logCfg)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return v.WriteConfigAs(path)
}

func GenerateDefaultConfig(path string) error {
	return Save(defaultConfig(), path)
}
