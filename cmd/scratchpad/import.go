package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/whiteash/scratchpad"
	"gopkg.in/yaml.v3"
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a snapshot from stdin",
	Long: `Read a snapshot produced by export (YAML or JSON, which YAML
parses too) and replace the note and theme with its contents.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			fatal("Failed to read stdin", err)
		}

		var snap snapshot
		if err := yaml.Unmarshal(data, &snap); err != nil {
			fatal("Failed to parse snapshot", err)
		}

		// Unknown theme words degrade to light rather than failing the
		// whole import.
		theme := scratchpad.ParseTheme(snap.Theme)

		store, err := scratchpad.Open(profile, storeOptions()...)
		if err != nil {
			fatal("Failed to open storage", err)
		}
		defer store.Close()

		ctx := context.Background()

		if err := store.Probe(ctx); err != nil {
			fatal("Storage unavailable", err)
		}

		if err := store.Set(ctx, scratchpad.KeyNotes, snap.Content); err != nil {
			fatal("Failed to write note", err)
		}
		if err := store.Set(ctx, scratchpad.KeyTheme, string(theme)); err != nil {
			fatal("Failed to write theme", err)
		}

		fmt.Printf("Imported %d bytes, theme %s.\n", len(snap.Content), theme)
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
