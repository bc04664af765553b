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
	"github.com/jalajpachoulydell/smart-code-review/internal/diff"
	"github.com/jalajpachoulydell/smart-code-review/internal/gateway"
	"github.com/jalajpachoulydell/smart-code-review/internal/generated"
	"github.com/jalajpachoulydell/smart-code-review/internal/github"
	"github.com/jalajpachoulydell/smart-code-review/internal/prompt"
	"github.com/jalajpachoulydell/smart-code-review/internal/report"
	"github.com/jalajpachoulydell/smart-code-review/internal/review"
	"github.com/jalajpachoulydell/smart-code-review/internal/storage"
)

func reviewCmd() *cobra.Command {
	var models []string
	var format string
	var sequential bool
	var noSave bool

	cmd := &cobra.Command{
		Use:   "review <pr-url>",
		Short: "Review a pull request with the configured models",
		Long: `Review a pull request with the configured models.

Fetches the PR's unified diff, excludes generated files per the
configured rules, runs one review per selected model, and merges the
outputs into a single report with the base synthesis model.

Examples:
  smartrev review https://github.com/octo/hello/pull/42
  smartrev review --models llama-3-8b-instruct --format markdown <url>`,
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
			return runReview(cmd.Context(), cfg, args[0],
				cfg.ResolveModels(models), !noSave)
		},
	}

	cmd.Flags().StringSliceVar(&models, "models", nil,
		"models to run (default: configured or catalog selection)")
	cmd.Flags().StringVar(&format, "format", "",
		"output format: html or markdown (default from config)")
	cmd.Flags().BoolVar(&sequential, "sequential", false,
		"run models one at a time instead of in parallel")
	cmd.Flags().BoolVar(&noSave, "no-save", false,
		"do not record the review in the local index")
	return cmd
}

func runReview(ctx context.Context, cfg *config.Config, prURL string, models []string, save bool) error {
	if len(models) == 0 {
		return fmt.Errorf("no models selected")
	}

	ref, err := github.ParsePRURL(prURL)
	if err != nil {
		return err
	}

	gh, err := github.NewClient(cfg)
	if err != nil {
		return err
	}

	log.Printf("review: fetching diff for %s/%s#%d", ref.Owner, ref.Repo, ref.Number)
	rawDiff, err := gh.PRDiff(ctx, ref)
	if err != nil {
		return fmt.Errorf("fetch PR diff: %w", err)
	}

	filtered := generated.Filter(rawDiff, cfg.Rules())
	for _, w := range filtered.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	if len(filtered.Skipped) > 0 {
		fmt.Fprintf(os.Stderr, "Excluded %d generated file(s): %s\n",
			len(filtered.Skipped), strings.Join(filtered.Skipped, ", "))
	}
	if strings.TrimSpace(filtered.Diff) == "" {
		return fmt.Errorf(
			"no reviewable changes after excluding generated files; " +
				"disable skip_generated in the config to include them")
	}

	meta, err := gh.PRMetaFor(ctx, ref)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: PR metadata unavailable: %v\n", err)
	}
	title := strings.TrimSpace(meta.Title)
	if title == "" {
		title = "Pull Request"
	}

	gw, err := gateway.NewClient(cfg)
	if err != nil {
		return err
	}
	invoke := gw.Invoker()

	triplet := prompt.Build(cfg.OutputFormat)
	header := fmt.Sprintf("Repository: %s/%s\nPR #%d: %s\nAuthor: %s\n%s",
		ref.Owner, ref.Repo, ref.Number, title, meta.User.Login, triplet.Hint)

	tasks := buildTasks(models, triplet, header, filtered.Diff,
		cfg.MaxChars, cfg.CorrelationID)

	log.Printf("review: running %d model(s), parallel=%v", len(models), cfg.Parallel)
	outcome := review.Run(ctx, tasks, invoke, review.Options{
		Parallel:       cfg.Parallel,
		ConcurrencyCap: cfg.ConcurrencyCap,
	})

	artifact, err := review.Synthesize(ctx, outcome, invoke, review.SynthesizeOpts{
		BaseBackend:   cfg.ResolveBaseModel(),
		System:        triplet.System,
		Template:      triplet.Template,
		CorrelationID: cfg.CorrelationID,
	})
	if err != nil {
		return err
	}

	data := report.Data{
		Title: fmt.Sprintf("PR Review: %s/%s #%d: %s",
			ref.Owner, ref.Repo, ref.Number, title),
		PRURL:        prURL,
		Owner:        ref.Owner,
		Repo:         ref.Repo,
		Number:       ref.Number,
		Synthesis:    artifact,
		SkippedFiles: filtered.Skipped,
		RuleWarnings: len(filtered.Warnings),
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

	path, err := writeArtifact(cfg, data)
	if err != nil {
		return err
	}

	if save {
		if err := saveToIndex(ref, prURL, title, meta.User.Login, path, cfg.OutputFormat); err != nil {
			fmt.Fprintf(os.Stderr, "warning: index save failed: %v\n", err)
		}
	}

	fmt.Printf("Saved review -> %s\n", path)
	if len(data.Failed) > 0 {
		fmt.Printf("%d model(s) failed:\n", len(data.Failed))
		for _, f := range data.Failed {
			fmt.Printf("  - %s: %s\n", f.Model, f.Message)
		}
	}
	return nil
}

// buildTasks creates one task per model. An oversized diff is split
// into line-aligned chunks, each sent as its own user message part,
// so a model still sees the whole change set in one call.
func buildTasks(models []string, triplet prompt.Triplet, header, diffText string, maxChars int, correlationID string) []review.Task {
	if maxChars <= 0 {
		maxChars = diff.DefaultMaxChars
	}

	var parts []string
	parts = append(parts, triplet.Template)
	if len(diffText) > maxChars {
		chunks := diff.ChunkText(diffText, maxChars)
		for i, c := range chunks {
			chunkHeader := fmt.Sprintf("%s\nDiff part %d of %d",
				header, i+1, len(chunks))
			parts = append(parts, prompt.DiffPayload(chunkHeader, c))
		}
	} else {
		parts = append(parts, prompt.DiffPayload(header, diffText))
	}

	tasks := make([]review.Task, len(models))
	for i, m := range models {
		tasks[i] = review.Task{
			BackendID: m,
			Request: backend.Request{
				System:        triplet.System,
				User:          parts,
				CorrelationID: correlationID,
			},
		}
	}
	return tasks
}

func writeArtifact(cfg *config.Config, data report.Data) (string, error) {
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

	base := report.SafeBaseFilename(data.Owner, data.Repo, data.Number, data.Title)
	path := filepath.Join(dir, fmt.Sprintf("%s-%s.%s",
		base, report.Stamp(time.Now()), ext))
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		return "", fmt.Errorf("write artifact: %w", err)
	}
	return path, nil
}

func saveToIndex(ref github.PRRef, prURL, title, author, path, format string) error {
	db, err := storage.Open(storage.DefaultDBPath())
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.SaveReview(storage.Review{
		PRURL:        prURL,
		Host:         ref.Host,
		Owner:        ref.Owner,
		Repo:         ref.Repo,
		Number:       ref.Number,
		Title:        title,
		Author:       author,
		ArtifactPath: path,
		OutputFormat: format,
	})
	return err
}
