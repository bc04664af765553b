package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jalajpachoulydell/smart-code-review/internal/config"
	"github.com/jalajpachoulydell/smart-code-review/internal/github"
)

func prsCmd() *cobra.Command {
	var host string
	var openOnly bool

	cmd := &cobra.Command{
		Use:   "prs <owner/repo>",
		Short: "List the pull requests of a repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, repo, ok := strings.Cut(args[0], "/")
			if !ok || owner == "" || repo == "" {
				return fmt.Errorf("expected <owner>/<repo>, got %q", args[0])
			}

			cfg, err := config.LoadGlobal()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			gh, err := github.NewClient(cfg)
			if err != nil {
				return err
			}

			prs, err := gh.ListAllPRs(cmd.Context(), host, owner, repo)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "PR\tSTATE\tAUTHOR\tTITLE")
			for _, pr := range prs {
				if openOnly && !strings.EqualFold(pr.State, "open") {
					continue
				}
				fmt.Fprintf(w, "#%d\t%s\t%s\t%s\n",
					pr.Number, pr.State, pr.User.Login,
					truncateTitle(pr.Title, 70))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&host, "host", "github.com", "GitHub host (enterprise hosts supported)")
	cmd.Flags().BoolVar(&openOnly, "open", false, "list only open pull requests")
	return cmd
}
