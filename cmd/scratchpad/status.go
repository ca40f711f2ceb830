package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/aretw0/introspection"
	"github.com/spf13/cobra"
	"github.com/whiteash/scratchpad"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check storage health and usage",
	Long: `Probe the storage the way the editor does on startup and report
whether writes can be expected to succeed, plus how much of the budget
is in use.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		store, err := scratchpad.Open(profile, storeOptions()...)
		if err != nil {
			fatal("Failed to open storage", err)
		}
		defer store.Close()

		ctx := context.Background()

		if err := store.Probe(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Storage: UNAVAILABLE (%v)\n", err)
			os.Exit(1)
		}
		fmt.Println("Storage: OK")

		if meterable, ok := store.(scratchpad.Meterable); ok {
			usage, err := meterable.Usage(ctx)
			if err != nil {
				fatal("Failed to read usage", err)
			}
			if usage.QuotaBytes > 0 {
				fmt.Printf("Usage: %d / %d bytes (%d keys)\n", usage.UsedBytes, usage.QuotaBytes, usage.Keys)
			} else {
				fmt.Printf("Usage: %d bytes (%d keys), no quota\n", usage.UsedBytes, usage.Keys)
			}
		}

		if verbose {
			if in, ok := store.(introspection.Introspectable); ok {
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")
				if err := encoder.Encode(in.State()); err != nil {
					fatal("Failed to encode state", err)
				}
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
