package main

import (
	"fmt"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/japaniel/sentimenticon/pkg/sentimenticon"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the sentimenticon version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "sentimenticon %s (%s)\n",
			color.New(color.FgGreen, color.Bold).Sprint(sentimenticon.Version()), runtime.Version())
	},
}
