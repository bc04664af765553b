package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jalajpachoulydell/smart-code-review/internal/storage"
)

func deleteCmd() *cobra.Command {
	var keepArtifact bool

	cmd := &cobra.Command{
		Use:   "delete <review-id>",
		Short: "Delete a saved review and its artifact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := storage.Open(storage.DefaultDBPath())
			if err != nil {
				return err
			}
			defer db.Close()

			id, err := db.ResolveReviewID(args[0])
			if err != nil {
				return err
			}
			r, err := db.GetReview(id)
			if err != nil {
				return err
			}
			if err := db.DeleteReview(id); err != nil {
				return err
			}

			if !keepArtifact && r.ArtifactPath != "" {
				if err := os.Remove(r.ArtifactPath); err != nil && !os.IsNotExist(err) {
					fmt.Fprintf(os.Stderr, "warning: artifact left behind: %v\n", err)
				}
			}
			fmt.Printf("Deleted review %s\n", shortID(id))
			return nil
		},
	}

	cmd.Flags().BoolVar(&keepArtifact, "keep-artifact", false,
		"remove only the index row, keep the report file")
	return cmd
}
