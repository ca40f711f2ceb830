package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/whiteash/scratchpad"
)

var (
	showJSON bool
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the note",
	Long:  `Print the saved note to stdout. Raw text by default, or a JSON envelope with --json.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		store, err := scratchpad.Open(profile, storeOptions()...)
		if err != nil {
			fatal("Failed to open storage", err)
		}
		defer store.Close()

		ctx := context.Background()

		content, err := store.Get(ctx, scratchpad.KeyNotes)
		if err != nil && !errors.Is(err, scratchpad.ErrNotFound) {
			fatal("Failed to read note", err)
		}

		if showJSON {
			theme, _ := store.Get(ctx, scratchpad.KeyTheme)
			envelope := map[string]any{
				"content": content,
				"theme":   scratchpad.ParseTheme(theme),
			}
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(envelope); err != nil {
				fatal("Failed to encode JSON", err)
			}
			return
		}

		fmt.Print(content)
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output in JSON format")
}
