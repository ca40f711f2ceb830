package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/whiteash/scratchpad"
	"gopkg.in/yaml.v3"
)

// snapshot is the portable form of a profile: the note, the theme and
// when it was taken.
type snapshot struct {
	Content    string `yaml:"content" json:"content"`
	Theme      string `yaml:"theme" json:"theme"`
	ExportedAt string `yaml:"exported_at" json:"exported_at"`
}

var (
	exportJSON bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the note and theme",
	Long:  `Write a snapshot of the profile to stdout, YAML by default or JSON with --json.`,
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
		theme, err := store.Get(ctx, scratchpad.KeyTheme)
		if err != nil && !errors.Is(err, scratchpad.ErrNotFound) {
			fatal("Failed to read theme", err)
		}

		snap := snapshot{
			Content:    content,
			Theme:      string(scratchpad.ParseTheme(theme)),
			ExportedAt: time.Now().UTC().Format(time.RFC3339),
		}

		if exportJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(snap); err != nil {
				fatal("Failed to encode JSON", err)
			}
			return
		}

		out, err := yaml.Marshal(snap)
		if err != nil {
			fatal("Failed to encode YAML", err)
		}
		fmt.Print(string(out))
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().BoolVar(&exportJSON, "json", false, "Output in JSON format")
}
