package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/fang"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/pders01/stargaze/internal/config"
	"github.com/pders01/stargaze/internal/controller"
	"github.com/pders01/stargaze/internal/debuglog"
	"github.com/pders01/stargaze/internal/search"
	"github.com/pders01/stargaze/internal/source"
	"github.com/pders01/stargaze/internal/storage"
	"github.com/pders01/stargaze/internal/tui"
	"github.com/pders01/stargaze/internal/validation"
	"github.com/pders01/stargaze/internal/window"
)

// Version is the version of the application, set at build time
var Version = "dev"

var (
	configPath string
	dbPath     string
	logLevel   string
	quiet      bool
	resume     bool
)

var rootCmd = &cobra.Command{
	Use:   "stargaze",
	Short: "Browse astronomy pictures by date range",
	Long: `stargaze fetches a dated picture feed, lets you pick a date window
and shows the entries in it as a gallery, newest first.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// .env is optional
		_ = godotenv.Load()
	},
	SilenceUsage: true,
	RunE:         runTUI,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		if !quiet {
			tui.ShowBanner(Version)
		}
		fmt.Printf("stargaze %s\n", Version)
		fmt.Println("Astronomy picture gallery")
		fmt.Println("github.com/pders01/stargaze")

		var names []string
		for _, f := range source.DefaultRegistry("").ListFormats() {
			names = append(names, f.Name())
		}
		fmt.Printf("Source formats: %s\n", strings.Join(names, ", "))
	},
}

var generateConfigCmd = &cobra.Command{
	Use:   "generate-config",
	Short: "Write the default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := pathValidator(configPath != "").ConfigPath(configPath)
		if err != nil {
			return fmt.Errorf("config path: %w", err)
		}
		if err := config.GenerateDefaultConfig(path); err != nil {
			return fmt.Errorf("failed to generate config: %w", err)
		}
		fmt.Printf("Generated default configuration at: %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to history database (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Debug log level: off, error, warn, info, debug")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "Skip the banner")
	rootCmd.Flags().BoolVar(&resume, "resume", false, "Start with the last fetched range instead of the default")

	rootCmd.AddCommand(versionCmd, generateConfigCmd, fetchCmd, historyCmd)
}

func main() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(Version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := setupLogging(cfg); err != nil {
		return err
	}
	defer debuglog.Close()

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	idx := search.New()
	ctrl, err := newController(cfg, store, idx)
	if err != nil {
		return err
	}

	initial := defaultRange(cfg)
	if resume {
		if last, err := store.GetLastRange(); err == nil && last != nil {
			initial = window.Range{Start: last.Start, End: last.End}
		}
	}
	sel := window.NewSelector(window.ComputeBound(time.Now(), cfg.Window.Earliest), cfg.Window.Span, initial)

	if !quiet {
		tui.ShowBanner(Version)
	}

	tui.ApplyTheme(cfg.UI.Colors)
	app := tui.NewApp(cfg, ctrl, sel, idx)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(cmd.Context()))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running ui: %w", err)
	}
	return nil
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if dbPath != "" {
		cfg.Database.Path = dbPath
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	return cfg, nil
}

// pathValidator is permissive for paths the user named explicitly and
// confined to the stargaze directories otherwise.
func pathValidator(explicit bool) *validation.PathValidator {
	if explicit {
		return validation.NewPermissivePathValidator()
	}
	return validation.NewPathValidator()
}

func setupLogging(cfg *config.Config) error {
	level := debuglog.ParseLogLevel(cfg.Log.Level)
	if level == debuglog.LevelOff {
		return debuglog.Setup(level)
	}

	v := pathValidator(cfg.Log.File != "")
	path, err := v.LogPath(cfg.Log.File)
	if err != nil {
		return fmt.Errorf("log path: %w", err)
	}
	if _, err := v.EnsureParentDir(path); err != nil {
		return fmt.Errorf("log path: %w", err)
	}
	return debuglog.Setup(level, path)
}

func openStore(cfg *config.Config) (*storage.Store, error) {
	v := pathValidator(dbPath != "")
	path, err := v.DBPath(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("database path: %w", err)
	}
	if _, err := v.EnsureParentDir(path); err != nil {
		return nil, fmt.Errorf("database path: %w", err)
	}
	return storage.NewStore(path, cfg.Database.Timeout)
}

// newController wires the configured source to a controller. A nil store
// disables the fetch journal.
func newController(cfg *config.Config, store *storage.Store, idx search.Indexer) (*controller.Controller, error) {
	src, err := source.New(cfg)
	if err != nil {
		return nil, err
	}

	opts := []controller.Option{controller.WithSourceURL(src.URL())}
	if idx != nil {
		opts = append(opts, controller.WithIndexer(idx))
	}
	if store != nil {
		opts = append(opts, controller.WithRecorder(store))
	}
	return controller.New(src, opts...), nil
}

func defaultRange(cfg *config.Config) window.Range {
	return window.Range{Start: cfg.Window.DefaultStart, End: cfg.Window.DefaultEnd}
}
