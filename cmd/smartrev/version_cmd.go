package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jalajpachoulydell/smart-code-review/internal/version"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the smartrev version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("smartrev %s\n", version.Version)
		},
	}
}
