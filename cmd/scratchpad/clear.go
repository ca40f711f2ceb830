package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/whiteash/scratchpad"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the note",
	Long:  `Delete the saved note. Instances watching the profile fall back to an empty pad.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		store, err := scratchpad.Open(profile, storeOptions()...)
		if err != nil {
			fatal("Failed to open storage", err)
		}
		defer store.Close()

		if err := store.Delete(context.Background(), scratchpad.KeyNotes); err != nil {
			fatal("Failed to clear note", err)
		}

		fmt.Println("Note cleared.")
	},
}

func init() {
	rootCmd.AddCommand(clearCmd)
}
