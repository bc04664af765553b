package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jalajpachoulydell/smart-code-review/internal/backend"
	"github.com/jalajpachoulydell/smart-code-review/internal/config"
)

func modelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the known models and the current selection",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadGlobal()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			selected := make(map[string]bool)
			for _, m := range cfg.ResolveModels(nil) {
				selected[m] = true
			}
			base := cfg.ResolveBaseModel()

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "MODEL\tNAME\tSELECTED\tROLE")
			for _, spec := range backend.KnownModels() {
				sel := ""
				if selected[spec.ID] {
					sel = "yes"
				}
				role := ""
				if spec.ID == base {
					role = "base"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", spec.ID, spec.Label, sel, role)
			}
			return w.Flush()
		},
	}
}
