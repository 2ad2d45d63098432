package config

import "time"

// TestConfig returns a config suitable for testing
func TestConfig() *Config {
	return &Config{
		TMDB: TMDBConfig{
			BaseURL:     "http://127.0.0.1:0/3",
			Token:       "test-token",
			HTTPTimeout: 5 * time.Second,
			UserAgent:   "marquee-test/1.0",
		},
		Search: SearchConfig{
			Debounce:       10 * time.Millisecond,
			MaxQueryLength: 256,
		},
		UI:    defaultConfig().UI,
		Media: defaultConfig().Media,
		Keys:  defaultConfig().Keys,
		Log: LogConfig{
			Level: "off",
		},
	}
}
