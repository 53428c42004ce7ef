package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/viper"
)

const DefaultSourceURL = "https://cdn.jsdelivr.net/gh/GCA-Classroom/apod/data.json"

type Config struct {
	Source   SourceConfig   `mapstructure:"source"`
	Window   WindowConfig   `mapstructure:"window"`
	Database DatabaseConfig `mapstructure:"database"`
	UI       UIConfig       `mapstructure:"ui"`
	Media    MediaConfig    `mapstructure:"media"`
	Keys     KeyConfig      `mapstructure:"keys"`
	Log      LogConfig      `mapstructure:"log"`
}

type SourceConfig struct {
	URL         string        `mapstructure:"url"`
	Format      string        `mapstructure:"format"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
	UserAgent   string        `mapstructure:"user_agent"`
	AllowLocal  bool          `mapstructure:"allow_local"`
}

type WindowConfig struct {
	Earliest     string `mapstructure:"earliest"`
	Span         int    `mapstructure:"span"`
	DefaultStart string `mapstructure:"default_start"`
	DefaultEnd   string `mapstructure:"default_end"`
}

type DatabaseConfig struct {
	Path    string        `mapstructure:"path"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type UIConfig struct {
	Colors               UIColors `mapstructure:"colors"`
	MaxDescriptionLength int      `mapstructure:"max_description_length"`
	CardWidth            int      `mapstructure:"card_width"`
}

type UIColors struct {
	Primary   string `mapstructure:"primary"`
	Secondary string `mapstructure:"secondary"`
	Accent    string `mapstructure:"accent"`
	Text      string `mapstructure:"text"`
	Muted     string `mapstructure:"muted"`
	Error     string `mapstructure:"error"`
	Success   string `mapstructure:"success"`
}

type MediaConfig struct {
	Darwin        MediaPlayers `mapstructure:"darwin"`
	Linux         MediaPlayers `mapstructure:"linux"`
	Windows       MediaPlayers `mapstructure:"windows"`
	DefaultOpener string       `mapstructure:"default_opener"`
}

type MediaPlayers struct {
	Video []string `mapstructure:"video"`
	Image []string `mapstructure:"image"`
}

type KeyConfig struct {
	Modifier string      `mapstructure:"modifier"`
	Bindings KeyBindings `mapstructure:"bindings"`
}

type KeyBindings struct {
	Quit      string `mapstructure:"quit"`
	Fetch     string `mapstructure:"fetch"`
	Search    string `mapstructure:"search"`
	OpenMedia string `mapstructure:"open_media"`
	Back      string `mapstructure:"back"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

func defaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	dbPath := filepath.Join(homeDir, ".stargaze", "history.db")

	return &Config{
		Source: SourceConfig{
			URL:         DefaultSourceURL,
			Format:      "json",
			HTTPTimeout: 30 * time.Second,
			UserAgent:   "stargaze/1.0 (https://github.com/pders01/stargaze)",
			AllowLocal:  false,
		},
		Window: WindowConfig{
			Earliest:     "1995-06-16",
			Span:         9,
			DefaultStart: "2025-09-18",
			DefaultEnd:   "2025-10-01",
		},
		Database: DatabaseConfig{
			Path:    dbPath,
			Timeout: 1 * time.Second,
		},
		UI: UIConfig{
			Colors: UIColors{
				Primary:   "#FF6B6B",
				Secondary: "#4ECDC4",
				Accent:    "#95E1D3",
				Text:      "#EAEAEA",
				Muted:     "#94A3B8",
				Error:     "#F87171",
				Success:   "#4ADE80",
			},
			MaxDescriptionLength: 160,
			CardWidth:            72,
		},
		Media: MediaConfig{
			Darwin: MediaPlayers{
				Video: []string{"iina", "mpv", "vlc"},
				Image: []string{"preview", "open"},
			},
			Linux: MediaPlayers{
				Video: []string{"mpv", "vlc", "mplayer"},
				Image: []string{"sxiv", "feh", "eog", "xdg-open"},
			},
			Windows: MediaPlayers{
				Video: []string{"mpv", "vlc"},
				Image: []string{"start"},
			},
			DefaultOpener: DefaultOpener(),
		},
		Keys: KeyConfig{
			Modifier: "ctrl",
			Bindings: KeyBindings{
				Quit:      "q",
				Fetch:     "f",
				Search:    "s",
				OpenMedia: "o",
				Back:      "esc",
			},
		},
		Log: LogConfig{
			Level: "off",
			File:  "",
		},
	}
}

// DefaultOpener returns the platform command that opens a URL with its default application.
func DefaultOpener() string {
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

func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v, defaultConfig())

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		homeDir, _ := os.UserHomeDir()
		configDir := filepath.Join(homeDir, ".config", "stargaze")

		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(configDir)
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("STARGAZE")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	expandPaths(&config)

	return &config, nil
}

// setDefaults registers every leaf key so a file that sets part of a
// section keeps the defaults for the rest of it.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("source.url", cfg.Source.URL)
	v.SetDefault("source.format", cfg.Source.Format)
	v.SetDefault("source.http_timeout", cfg.Source.HTTPTimeout)
	v.SetDefault("source.user_agent", cfg.Source.UserAgent)
	v.SetDefault("source.allow_local", cfg.Source.AllowLocal)

	v.SetDefault("window.earliest", cfg.Window.Earliest)
	v.SetDefault("window.span", cfg.Window.Span)
	v.SetDefault("window.default_start", cfg.Window.DefaultStart)
	v.SetDefault("window.default_end", cfg.Window.DefaultEnd)

	v.SetDefault("database.path", cfg.Database.Path)
	v.SetDefault("database.timeout", cfg.Database.Timeout)

	v.SetDefault("ui.colors.primary", cfg.UI.Colors.Primary)
	v.SetDefault("ui.colors.secondary", cfg.UI.Colors.Secondary)
	v.SetDefault("ui.colors.accent", cfg.UI.Colors.Accent)
	v.SetDefault("ui.colors.text", cfg.UI.Colors.Text)
	v.SetDefault("ui.colors.muted", cfg.UI.Colors.Muted)
	v.SetDefault("ui.colors.error", cfg.UI.Colors.Error)
	v.SetDefault("ui.colors.success", cfg.UI.Colors.Success)
	v.SetDefault("ui.max_description_length", cfg.UI.MaxDescriptionLength)
	v.SetDefault("ui.card_width", cfg.UI.CardWidth)

	for goos, players := range map[string]MediaPlayers{
		"darwin":  cfg.Media.Darwin,
		"linux":   cfg.Media.Linux,
		"windows": cfg.Media.Windows,
	} {
		v.SetDefault("media."+goos+".video", players.Video)
		v.SetDefault("media."+goos+".image", players.Image)
	}
	v.SetDefault("media.default_opener", cfg.Media.DefaultOpener)

	v.SetDefault("keys.modifier", cfg.Keys.Modifier)
	v.SetDefault("keys.bindings.quit", cfg.Keys.Bindings.Quit)
	v.SetDefault("keys.bindings.fetch", cfg.Keys.Bindings.Fetch)
	v.SetDefault("keys.bindings.search", cfg.Keys.Bindings.Search)
	v.SetDefault("keys.bindings.open_media", cfg.Keys.Bindings.OpenMedia)
	v.SetDefault("keys.bindings.back", cfg.Keys.Bindings.Back)

	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.file", cfg.Log.File)
}

// Validate rejects values the pipeline cannot work with.
func (c *Config) Validate() error {
	if c.Source.URL == "" {
		return fmt.Errorf("source.url must not be empty")
	}
	switch c.Source.Format {
	case "", "json", "rss":
	default:
		return fmt.Errorf("source.format must be json or rss, got %q", c.Source.Format)
	}
	if c.Window.Span < 1 {
		return fmt.Errorf("window.span must be at least 1, got %d", c.Window.Span)
	}
	if _, err := time.Parse("2006-01-02", c.Window.Earliest); err != nil {
		return fmt.Errorf("window.earliest: %w", err)
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

func expandPaths(cfg *Config) {
	cfg.Database.Path = expandPath(cfg.Database.Path)
	cfg.Log.File = expandPath(cfg.Log.File)
}

func Save(config *Config, path string) error {
	v := viper.New()

	// Explicit maps keep snake_case keys and write durations as strings
	v.Set("source", map[string]interface{}{
		"url":          config.Source.URL,
		"format":       config.Source.Format,
		"http_timeout": config.Source.HTTPTimeout.String(),
		"user_agent":   config.Source.UserAgent,
		"allow_local":  config.Source.AllowLocal,
	})
	v.Set("window", map[string]interface{}{
		"earliest":      config.Window.Earliest,
		"span":          config.Window.Span,
		"default_start": config.Window.DefaultStart,
		"default_end":   config.Window.DefaultEnd,
	})
	v.Set("database", map[string]interface{}{
		"path":    config.Database.Path,
		"timeout": config.Database.Timeout.String(),
	})
	v.Set("ui", map[string]interface{}{
		"colors": map[string]interface{}{
			"primary":   config.UI.Colors.Primary,
			"secondary": config.UI.Colors.Secondary,
			"accent":    config.UI.Colors.Accent,
			"text":      config.UI.Colors.Text,
			"muted":     config.UI.Colors.Muted,
			"error":     config.UI.Colors.Error,
			"success":   config.UI.Colors.Success,
		},
		"max_description_length": config.UI.MaxDescriptionLength,
		"card_width":             config.UI.CardWidth,
	})
	v.Set("media", map[string]interface{}{
		"darwin":         playersMap(config.Media.Darwin),
		"linux":          playersMap(config.Media.Linux),
		"windows":        playersMap(config.Media.Windows),
		"default_opener": config.Media.DefaultOpener,
	})
	v.Set("keys", map[string]interface{}{
		"modifier": config.Keys.Modifier,
		"bindings": map[string]interface{}{
			"quit":       config.Keys.Bindings.Quit,
			"fetch":      config.Keys.Bindings.Fetch,
			"search":     config.Keys.Bindings.Search,
			"open_media": config.Keys.Bindings.OpenMedia,
			"back":       config.Keys.Bindings.Back,
		},
	})
	v.Set("log", map[string]interface{}{
		"level": config.Log.Level,
		"file":  config.Log.File,
	})

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return v.WriteConfigAs(path)
}

func playersMap(p MediaPlayers) map[string]interface{} {
	return map[string]interface{}{
		"video": p.Video,
		"image": p.Image,
	}
}

func GenerateDefaultConfig(path string) error {
	return Save(defaultConfig(), path)
}
