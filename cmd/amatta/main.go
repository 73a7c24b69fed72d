package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goalmate/amatta/cmd/amatta/commands"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "amatta",
		Short: "Command line client for the amatta to-do service",
		Long:  "CLI for listing todos, completing them and asking for product recommendations",
	}

	rootCmd.AddCommand(commands.NewListCmd())
	rootCmd.AddCommand(commands.NewAddCmd())
	rootCmd.AddCommand(commands.NewCompleteCmd())
	rootCmd.AddCommand(commands.NewRecommendCmd())
	rootCmd.AddCommand(commands.NewPreviewCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
