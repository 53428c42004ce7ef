package config

import "time"

// TestConfig returns a config suitable for testing
func TestConfig() *Config {
	return &Config{
		Source: SourceConfig{
			URL:         DefaultSourceURL,
			Format:      "json",
			HTTPTimeout: 5 * time.Second,
			UserAgent:   "stargaze-test/1.0",
			AllowLocal:  true, // httptest servers listen on 127.0.0.1
		},
		Window: defaultConfig().Window,
		Database: DatabaseConfig{
			Path:    "",
			Timeout: 1 * time.Second,
		},
		UI:    defaultConfig().UI,
		Media: defaultConfig().Media,
		Keys:  defaultConfig().Keys,
		Log:   LogConfig{Level: "off"},
	}
}
