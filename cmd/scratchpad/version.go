package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/whiteash/scratchpad"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of scratchpad",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("scratchpad version %s\n", strings.TrimSpace(scratchpad.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
