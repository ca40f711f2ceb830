package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/whiteash/scratchpad"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch [pattern]",
	Short: "Follow changes to the profile",
	Long: `Print every observed change until interrupted. Useful to see
edits from other instances arrive. The optional glob pattern narrows
which keys are reported (default "scratchpad_*").`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		pattern := "scratchpad_*"
		if len(args) == 1 {
			pattern = args[0]
		}

		store, err := scratchpad.Open(profile, storeOptions()...)
		if err != nil {
			fatal("Failed to open storage", err)
		}
		defer store.Close()

		watchable, ok := store.(scratchpad.Watchable)
		if !ok {
			fatal("Watch unsupported", fmt.Errorf("the %s adapter has no change feed", adapter))
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		events, err := watchable.Watch(ctx, pattern)
		if err != nil {
			fatal("Failed to start watch", err)
		}

		fmt.Println("Watching for changes. Ctrl+C stops.")

		// The feed may stay open after a watcher failure, so the context
		// decides when to leave, not the channel alone.
		for {
			select {
			case <-ctx.Done():
				fmt.Println("Stopped.")
				return
			case ev, ok := <-events:
				if !ok {
					fmt.Println("Change feed closed.")
					return
				}
				fmt.Printf("%s  %s\n", time.Unix(ev.Timestamp, 0).Format(time.TimeOnly), ev)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
