package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jalajpachoulydell/smart-code-review/internal/backend"
	"github.com/jalajpachoulydell/smart-code-review/internal/config"
	"github.com/jalajpachoulydell/smart-code-review/internal/gateway"
	"github.com/jalajpachoulydell/smart-code-review/internal/github"
	"github.com/jalajpachoulydell/smart-code-review/internal/prompt"
	"github.com/jalajpachoulydell/smart-code-review/internal/report"
	"github.com/jalajpachoulydell/smart-code-review/internal/review"
	"github.com/jalajpachoulydell/smart-code-review/internal/storage"
)

func fileHistoryCmd() *cobra.Command {
	var models []string
	var format string
	var sequential bool
	var noSave bool
	var maxCommits int
	var limit int
	var authorContains string
	var messageContains string

	cmd := &cobra.Command{
		Use:   "file-history <file-url>",
		Short: "Summarize one file's change history across commits",
		Long: `Summarize one file's change history across commits.

Takes a browser blob URL, fetches the file's commit history and each
commit's patch for that file, has the selected models describe the
per-commit changes and likely reasons, and merges their summaries
with the base model into one narrative report.

Examples:
  smartrev file-history https://github.com/octo/hello/blob/main/pkg/server.go
  smartrev file-history --limit 5 --author alice <url>`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadGlobal()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if format != "" {
				cfg.OutputFormat = format
			}
			if sequential {
				cfg.Parallel = false
			}
			return runFileHistory(cmd.Context(), cfg, args[0], fileHistoryOpts{
				models:          cfg.ResolveModels(models),
				maxCommits:      maxCommits,
				limit:           limit,
				authorContains:  authorContains,
				messageContains: messageContains,
				save:            !noSave,
			})
		},
	}

	cmd.Flags().StringSliceVar(&models, "models", nil,
		"models to run (default: configured or catalog selection)")
	cmd.Flags().StringVar(&format, "format", "",
		"output format: html or markdown (default from config)")
	cmd.Flags().BoolVar(&sequential, "sequential", false,
		"run models one at a time instead of in parallel")
	cmd.Flags().BoolVar(&noSave, "no-save", false,
		"do not record the summary in the local index")
	cmd.Flags().IntVar(&maxCommits, "max-commits", 300,
		"how far back to fetch the file's history")
	cmd.Flags().IntVarP(&limit, "limit", "n", 10,
		"summarize at most this many of the newest matching commits (0 = all fetched)")
	cmd.Flags().StringVar(&authorContains, "author", "",
		"keep only commits whose author contains this text")
	cmd.Flags().StringVar(&messageContains, "grep", "",
		"keep only commits whose message contains this text")
	return cmd
}

type fileHistoryOpts struct {
	models          []string
	maxCommits      int
	limit           int
	authorContains  string
	messageContains string
	save            bool
}

func runFileHistory(ctx context.Context, cfg *config.Config, fileURL string, opts fileHistoryOpts) error {
	if len(opts.models) == 0 {
		return fmt.Errorf("no models selected")
	}

	ref, err := github.ParseFileBlobURL(fileURL)
	if err != nil {
		return err
	}

	gh, err := github.NewClient(cfg)
	if err != nil {
		return err
	}

	log.Printf("file-history: fetching history for %s/%s:%s", ref.Owner, ref.Repo, ref.Path)
	commits, err := gh.ListFileCommits(ctx, ref, opts.maxCommits)
	if err != nil {
		return fmt.Errorf("fetch file history: %w", err)
	}
	filteredCount := len(filterCommits(commits, opts.authorContains, opts.messageContains))
	chosen := selectCommits(commits, opts.authorContains, opts.messageContains, opts.limit)
	if len(chosen) == 0 {
		return fmt.Errorf("no commits match the given filters for %s", ref.Path)
	}

	log.Printf("file-history: fetching patches for %d commit(s)", len(chosen))
	patches := make([]github.CommitPatch, len(chosen))
	for i, c := range chosen {
		patches[i], err = gh.FilePatchForCommit(ctx, ref, c.SHA)
		if err != nil {
			return fmt.Errorf("fetch patch for %s: %w", c.ShortSHA(), err)
		}
	}
	block := buildHistoryBlock(chosen, patches, ref.Path)

	triplet := prompt.BuildFileHistory(cfg.OutputFormat)
	header := historyHeader(ref, chosen, filteredCount, triplet.Hint)
	parts := []string{triplet.Template, prompt.DiffPayload(header, block)}

	tasks := make([]review.Task, len(opts.models))
	for i, m := range opts.models {
		tasks[i] = review.Task{
			BackendID: m,
			Request: backend.Request{
				System:        triplet.System,
				User:          parts,
				CorrelationID: cfg.CorrelationID,
			},
		}
	}

	gw, err := gateway.NewClient(cfg)
	if err != nil {
		return err
	}
	invoke := gw.Invoker()

	log.Printf("file-history: running %d model(s), parallel=%v", len(opts.models), cfg.Parallel)
	outcome := review.Run(ctx, tasks, invoke, review.Options{
		Parallel:       cfg.Parallel,
		ConcurrencyCap: cfg.ConcurrencyCap,
	})

	artifact, err := review.Synthesize(ctx, outcome, invoke, review.SynthesizeOpts{
		BaseBackend:   cfg.ResolveBaseModel(),
		System:        triplet.System,
		Template:      triplet.Template,
		Instruction:   prompt.FileHistorySynthesisInstruction,
		CorrelationID: cfg.CorrelationID,
	})
	if err != nil {
		return err
	}

	data := report.Data{
		Title: fmt.Sprintf("File History: %s/%s %s (%s)",
			ref.Owner, ref.Repo, ref.Path, shaRange(chosen)),
		PRURL:     fileURL,
		Owner:     ref.Owner,
		Repo:      ref.Repo,
		Synthesis: artifact,
	}
	for _, r := range outcome.Results {
		data.Sections = append(data.Sections, report.Section{
			Model:    r.BackendID,
			Fragment: r.Output,
		})
		if r.Status == review.TaskFailed {
			data.Failed = append(data.Failed, report.Failure{
				Model:   r.BackendID,
				Message: r.Error,
			})
		}
	}

	path, err := writeHistoryArtifact(cfg, ref, chosen, data)
	if err != nil {
		return err
	}

	if opts.save {
		if err := saveHistoryToIndex(ref, fileURL, data.Title, path, cfg.OutputFormat); err != nil {
			fmt.Fprintf(os.Stderr, "warning: index save failed: %v\n", err)
		}
	}

	fmt.Printf("Saved file-history summary -> %s\n", path)
	if len(data.Failed) > 0 {
		fmt.Printf("%d model(s) failed:\n", len(data.Failed))
		for _, f := range data.Failed {
			fmt.Printf("  - %s: %s\n", f.Model, f.Message)
		}
	}
	return nil
}

func filterCommits(commits []github.Commit, author, message string) []github.Commit {
	if author == "" && message == "" {
		return commits
	}
	var kept []github.Commit
	for _, c := range commits {
		if author != "" && !containsFold(c.AuthorName(), author) &&
			!containsFold(c.Author.Login, author) {
			continue
		}
		if message != "" && !containsFold(c.Commit.Message, message) {
			continue
		}
		kept = append(kept, c)
	}
	return kept
}

// selectCommits applies the author/message filters and keeps the
// newest limit commits (history arrives newest first).
func selectCommits(commits []github.Commit, author, message string, limit int) []github.Commit {
	kept := filterCommits(commits, author, message)
	if limit > 0 && len(kept) > limit {
		kept = kept[:limit]
	}
	return kept
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// buildHistoryBlock assembles one text block with a section per
// commit: metadata header, the file's patch in that commit, and the
// other files the commit touched.
func buildHistoryBlock(commits []github.Commit, patches []github.CommitPatch, filePath string) string {
	var b strings.Builder
	for i, c := range commits {
		fmt.Fprintf(&b, "=== Commit %s / %s / %s ===\n",
			c.ShortSHA(), c.DateDisplay(), c.AuthorName())
		if msg := c.Subject(); msg != "" {
			fmt.Fprintf(&b, "Message: %s\n", msg)
		}
		fmt.Fprintf(&b, "File: %s\n", filePath)

		patch := patches[i].Patch
		if patch == "" {
			patch = "(No patch for this file in this commit)"
		}
		b.WriteString(patch)
		b.WriteString("\n")

		if others := patches[i].OtherFiles; len(others) > 0 {
			b.WriteString("Other files modified:\n")
			for _, o := range others {
				fmt.Fprintf(&b, "- %s\n", o)
			}
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func historyHeader(ref github.FileRef, chosen []github.Commit, filteredCount int, hint string) string {
	shas := make([]string, len(chosen))
	for i, c := range chosen {
		shas[i] = c.ShortSHA()
	}
	return fmt.Sprintf(
		"Repository: %s/%s\nFile: %s\nSelected commits: %s\nSelected count: %d\nFiltered list size: %d\n%s",
		ref.Owner, ref.Repo, ref.Path, strings.Join(shas, ", "),
		len(chosen), filteredCount, hint)
}

func shaRange(chosen []github.Commit) string {
	if len(chosen) == 0 {
		return ""
	}
	if len(chosen) == 1 {
		return chosen[0].ShortSHA()
	}
	return chosen[0].ShortSHA() + ".." + chosen[len(chosen)-1].ShortSHA()
}

func writeHistoryArtifact(cfg *config.Config, ref github.FileRef, chosen []github.Commit, data report.Data) (string, error) {
	var body, ext string
	if strings.EqualFold(cfg.OutputFormat, "markdown") {
		body = report.BuildMarkdown(data)
		ext = "md"
	} else {
		var err error
		body, err = report.BuildHTML(data)
		if err != nil {
			return "", err
		}
		ext = "html"
	}

	dir := config.ReportsDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create reports directory: %w", err)
	}

	base := report.SafeName(fmt.Sprintf("%s-%s-filehist-%s-%s",
		ref.Owner, ref.Repo, filepath.Base(ref.Path), shaRange(chosen)))
	path := filepath.Join(dir, fmt.Sprintf("%s-%s.%s",
		base, report.Stamp(time.Now()), ext))
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		return "", fmt.Errorf("write artifact: %w", err)
	}
	return path, nil
}

func saveHistoryToIndex(ref github.FileRef, fileURL, title, path, format string) error {
	db, err := storage.Open(storage.DefaultDBPath())
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.SaveReview(storage.Review{
		PRURL:        fileURL,
		Host:         ref.Host,
		Owner:        ref.Owner,
		Repo:         ref.Repo,
		Title:        title,
		ArtifactPath: path,
		OutputFormat: format,
	})
	return err
}
