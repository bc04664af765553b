package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jalajpachoulydell/smart-code-review/internal/storage"
)

func showCmd() *cobra.Command {
	var raw bool
	var pathOnly bool

	cmd := &cobra.Command{
		Use:   "show <review-id>",
		Short: "Show a saved review",
		Long: `Show a saved review.

The id may be a unique prefix as printed by "smartrev history".
Markdown reviews are rendered for the terminal; HTML reviews print
the artifact path to open in a browser.`,
		Args: cobra.ExactArgs(1),
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

			if pathOnly {
				fmt.Println(r.ArtifactPath)
				return nil
			}

			if !strings.EqualFold(r.OutputFormat, "markdown") {
				fmt.Printf("%s/%s#%d: %s\n", r.Owner, r.Repo, r.Number, r.Title)
				fmt.Printf("Open in a browser: %s\n", r.ArtifactPath)
				return nil
			}

			body, err := os.ReadFile(r.ArtifactPath)
			if err != nil {
				return fmt.Errorf("read artifact: %w", err)
			}
			fmt.Print(renderMarkdown(string(body), raw))
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "print markdown without terminal rendering")
	cmd.Flags().BoolVar(&pathOnly, "path", false, "print only the artifact path")
	return cmd
}

// renderMarkdown pretty-prints markdown when stdout is a terminal and
// falls back to the raw text otherwise.
func renderMarkdown(body string, raw bool) string {
	if raw || !term.IsTerminal(int(os.Stdout.Fd())) {
		return body
	}

	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 || width > 120 {
		width = 120
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
		glamour.WithPreservedNewLines(),
	)
	if err != nil {
		return body
	}
	out, err := r.Render(body)
	if err != nil {
		return body
	}
	return out
}
