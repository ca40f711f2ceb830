package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/whiteash/scratchpad"
	"github.com/whiteash/scratchpad/internal/tui"
)

// editCmd represents the edit command
var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the scratchpad editor",
	Long: `Open the full-screen editor. Changes save automatically after a
short quiet period; esc leaves, flushing anything pending.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		opts := storeOptions()

		if verbose {
			// stderr belongs to the editor, so debug logs go to a file.
			logPath := filepath.Join(os.TempDir(), "scratchpad.log")
			f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
			if err != nil {
				fatal("Failed to open log file", err)
			}
			defer f.Close()

			logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
			slog.SetDefault(logger)
			opts = append(opts, scratchpad.WithLogger(logger))
		}

		pad, err := scratchpad.New(profile, opts...)
		if err != nil {
			fatal("Failed to open scratchpad", err)
		}
		defer pad.Close()

		if err := tui.Run(pad); err != nil {
			fatal("Editor failed", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
}
