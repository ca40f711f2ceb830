package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/whiteash/scratchpad"
)

// writeCmd represents the write command
var writeCmd = &cobra.Command{
	Use:   "write [text]",
	Short: "Replace the note",
	Long: `Replace the note with the given text, or with stdin when no
argument is given. The write happens immediately, no debounce applies.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var content string
		if len(args) == 1 {
			content = args[0]
		} else {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				fatal("Failed to read stdin", err)
			}
			content = string(data)
		}

		store, err := scratchpad.Open(profile, storeOptions()...)
		if err != nil {
			fatal("Failed to open storage", err)
		}
		defer store.Close()

		ctx := context.Background()

		if err := store.Probe(ctx); err != nil {
			fatal("Storage unavailable", err)
		}

		if err := store.Set(ctx, scratchpad.KeyNotes, content); err != nil {
			if errors.Is(err, scratchpad.ErrQuotaExceeded) {
				fatal("Not saved (storage full)", err)
			}
			fatal("Failed to save note", err)
		}

		fmt.Printf("Saved %d bytes.\n", len(content))
	},
}

func init() {
	rootCmd.AddCommand(writeCmd)
}
