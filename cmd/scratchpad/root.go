package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/whiteash/scratchpad"
)

var (
	verbose   bool
	profile   string
	adapter   string
	quota     int64
	noSandbox bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "scratchpad",
	Short: "A persistent scratchpad with debounced autosave",
	Long: `Scratchpad keeps one throwaway note that survives restarts.
Edits save automatically after a short quiet period, and other instances
pointed at the same profile pick them up live.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&profile, "profile", "p", "", "Profile directory (default ~/.scratchpad)")
	rootCmd.PersistentFlags().StringVar(&adapter, "adapter", "fs", "Storage adapter (fs, bolt, mem)")
	rootCmd.PersistentFlags().Int64Var(&quota, "quota", scratchpad.DefaultQuota, "Storage budget in bytes (0 = unlimited)")
	rootCmd.PersistentFlags().BoolVar(&noSandbox, "no-sandbox", false, "Operate on the real profile even under 'go run'")
}

// storeOptions assembles the options every subcommand shares.
func storeOptions() []scratchpad.Option {
	opts := []scratchpad.Option{
		scratchpad.WithAdapter(adapter),
		scratchpad.WithLogger(slog.Default()),
		scratchpad.WithQuota(quota),
	}
	if noSandbox {
		opts = append(opts, scratchpad.WithDevSafety(false))
	}
	return opts
}
