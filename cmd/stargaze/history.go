package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/pders01/stargaze/internal/storage"
)

var (
	historyLimit int
	historyJSON  bool
	historyClear bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent fetch cycles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		if historyClear {
			if err := store.ClearHistory(); err != nil {
				return fmt.Errorf("clearing history: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "History cleared")
			return nil
		}

		entries, err := store.History(historyLimit)
		if err != nil {
			return fmt.Errorf("reading history: %w", err)
		}
		if historyJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(entries)
		}
		return writeHistory(cmd.OutOrStdout(), entries)
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of entries to show")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "Print entries as JSON")
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "Delete all recorded entries")
}

func writeHistory(w io.Writer, entries []*storage.HistoryEntry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No fetches recorded yet")
		return err
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("WHEN", "RANGE", "STATE", "ITEMS", "TOOK", "DETAIL")

	for _, e := range entries {
		detail := e.ErrorKind
		if e.Message != "" {
			detail = e.Message
		}
		t.Row(
			e.At.Local().Format("2006-01-02 15:04"),
			e.Start+" → "+e.End,
			e.State,
			strconv.Itoa(e.Count),
			(time.Duration(e.Duration) * time.Millisecond).String(),
			detail,
		)
	}

	_, err := fmt.Fprintln(w, t.String())
	return err
}
