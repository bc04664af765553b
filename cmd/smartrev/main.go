package main

import (
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
)

var verbose bool

func main() {
	rootCmd := &cobra.Command{
		Use:   "smartrev",
		Short: "Multi-model code review for GitHub pull requests",
		Long: "smartrev fetches a pull request's unified diff, filters out " +
			"generated files, reviews the rest with several gateway models, " +
			"and synthesizes their outputs into a single report.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Progress logging is opt-in; warnings print to stderr
			// regardless.
			if !verbose {
				log.SetOutput(io.Discard)
			}
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(reviewCmd())
	rootCmd.AddCommand(fileHistoryCmd())
	rootCmd.AddCommand(modelsCmd())
	rootCmd.AddCommand(historyCmd())
	rootCmd.AddCommand(showCmd())
	rootCmd.AddCommand(deleteCmd())
	rootCmd.AddCommand(prsCmd())
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
