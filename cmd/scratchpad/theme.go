package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/whiteash/scratchpad"
)

var themeCmd = &cobra.Command{
	Use:   "theme [light|dark]",
	Short: "Show or set the color theme",
	Long: `Without an argument, print the saved theme. With one, persist it
so every instance of the editor picks it up.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store, err := scratchpad.Open(profile, storeOptions()...)
		if err != nil {
			fatal("Failed to open storage", err)
		}
		defer store.Close()

		ctx := context.Background()

		if len(args) == 0 {
			value, err := store.Get(ctx, scratchpad.KeyTheme)
			if err != nil && !errors.Is(err, scratchpad.ErrNotFound) {
				fatal("Failed to read theme", err)
			}
			fmt.Println(scratchpad.ParseTheme(value))
			return
		}

		// ParseTheme maps anything unknown to light, so a round trip
		// that changes the word means the input was invalid.
		parsed := scratchpad.ParseTheme(args[0])
		if string(parsed) != args[0] {
			fatal("Invalid theme", fmt.Errorf("use %q or %q", scratchpad.ThemeLight, scratchpad.ThemeDark))
		}

		if err := store.Set(ctx, scratchpad.KeyTheme, string(parsed)); err != nil {
			fatal("Failed to save theme", err)
		}

		fmt.Printf("Theme set to %s.\n", parsed)
	},
}

func init() {
	rootCmd.AddCommand(themeCmd)
}
