package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pders01/stargaze/internal/debuglog"
	"github.com/pders01/stargaze/internal/gallery"
	"github.com/pders01/stargaze/internal/storage"
	"github.com/pders01/stargaze/internal/window"
)

var (
	fetchStart     string
	fetchEnd       string
	fetchFormat    string
	fetchNoHistory bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch a date range and print the gallery",
	Long: `Runs one fetch cycle without the UI. Without --end the range spans the
configured number of days from --start. Without either flag the default
range is used.`,
	Args: cobra.NoArgs,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().StringVar(&fetchStart, "start", "", "First date (YYYY-MM-DD)")
	fetchCmd.Flags().StringVar(&fetchEnd, "end", "", "Last date (YYYY-MM-DD)")
	fetchCmd.Flags().StringVarP(&fetchFormat, "format", "f", gallery.FormatText, "Output format: text, json or yaml")
	fetchCmd.Flags().BoolVar(&fetchNoHistory, "no-history", false, "Do not record this fetch")
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := setupLogging(cfg); err != nil {
		return err
	}
	defer debuglog.Close()

	r, err := resolveRange(window.ComputeBound(time.Now(), cfg.Window.Earliest), cfg.Window.Span, fetchStart, fetchEnd, defaultRange(cfg))
	if err != nil {
		return err
	}

	var store *storage.Store
	if !fetchNoHistory {
		store, err = openStore(cfg)
		if err != nil {
			debuglog.Warnf("fetch history disabled: %v", err)
			store = nil
		} else {
			defer store.Close()
		}
	}

	ctrl, err := newController(cfg, store, nil)
	if err != nil {
		return err
	}

	g, ok := ctrl.Trigger(cmd.Context(), r)
	if !ok {
		return errors.New("fetch not started")
	}

	if err := gallery.Encode(cmd.OutOrStdout(), g, fetchFormat); err != nil {
		return err
	}

	if g.State == gallery.StateErrored {
		return fmt.Errorf("fetch failed: %w", ctrl.Err())
	}
	return nil
}

// resolveRange builds the fetch range from flags the way the date inputs do:
// the start derives the end, an explicit end overrides it.
func resolveRange(bound window.Bound, span int, start, end string, def window.Range) (window.Range, error) {
	if start == "" && end == "" {
		start, end = def.Start, def.End
	}

	sel := window.NewSelector(bound, span, window.Range{})
	if start == "" {
		return window.Range{}, errors.New("--start is required when --end is set")
	}
	if err := sel.SetStart(start); err != nil {
		return window.Range{}, fmt.Errorf("--start: %w", err)
	}
	if end != "" {
		if err := sel.SetEnd(end); err != nil {
			return window.Range{}, fmt.Errorf("--end: %w", err)
		}
	}
	return sel.Range(), nil
}
