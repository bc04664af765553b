package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jalajpachoulydell/smart-code-review/internal/storage"
)

func historyCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List saved reviews, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := storage.Open(storage.DefaultDBPath())
			if err != nil {
				return err
			}
			defer db.Close()

			reviews, err := db.ListReviews(limit)
			if err != nil {
				return err
			}
			if len(reviews) == 0 {
				fmt.Println("No saved reviews.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tWHEN\tPR\tTITLE")
			for _, r := range reviews {
				fmt.Fprintf(w, "%s\t%s\t%s/%s#%d\t%s\n",
					shortID(r.ID),
					r.CreatedAt.Local().Format("2006-01-02 15:04"),
					r.Owner, r.Repo, r.Number,
					truncateTitle(r.Title, 60))
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum reviews to list (0 = all)")
	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncateTitle(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
