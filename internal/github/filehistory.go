package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

var fileBlobURLRE = regexp.MustCompile(
	`^https?://([^/]+)/([^/]+)/([^/]+)/blob/([^/]+)/(.+)$`)

// FileRef identifies one file at a ref, as named by a browser blob
// URL.
type FileRef struct {
	Host  string
	Owner string
	Repo  string
	Ref   string
	Path  string
}

// ParseFileBlobURL extracts the file coordinates from a browser URL
// like https://github.com/owner/repo/blob/main/a/b.go.
func ParseFileBlobURL(fileURL string) (FileRef, error) {
	m := fileBlobURLRE.FindStringSubmatch(strings.TrimSpace(fileURL))
	if m == nil {
		return FileRef{}, fmt.Errorf(
			"invalid file URL %q (expected https://<host>/<owner>/<repo>/blob/<ref>/<path>)",
			fileURL)
	}
	return FileRef{Host: m[1], Owner: m[2], Repo: m[3], Ref: m[4], Path: m[5]}, nil
}

// Commit is one entry of a file's commit history.
type Commit struct {
	SHA    string `json:"sha"`
	Commit struct {
		Message string `json:"message"`
		Author  struct {
			Name string `json:"name"`
			Date string `json:"date"`
		} `json:"author"`
	} `json:"commit"`
	Author struct {
		Login string `json:"login"`
	} `json:"author"`
}

// ShortSHA returns the abbreviated commit id.
func (c Commit) ShortSHA() string {
	if len(c.SHA) > 7 {
		return c.SHA[:7]
	}
	return c.SHA
}

// AuthorName prefers the commit author's name and falls back to the
// GitHub login.
func (c Commit) AuthorName() string {
	if name := strings.TrimSpace(c.Commit.Author.Name); name != "" {
		return name
	}
	if c.Author.Login != "" {
		return c.Author.Login
	}
	return "-"
}

// Subject returns the first line of the commit message, capped.
func (c Commit) Subject() string {
	msg := c.Commit.Message
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		msg = msg[:i]
	}
	if len(msg) > 220 {
		msg = msg[:220]
	}
	return msg
}

// DateDisplay formats the commit date like "26 Jun 2025", falling
// back to the raw string when it does not parse.
func (c Commit) DateDisplay() string {
	raw := c.Commit.Author.Date
	if raw == "" {
		return "-"
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.Format("02 Jan 2006")
	}
	if ymd, _, ok := strings.Cut(raw, "T"); ok {
		if t, err := time.Parse("2006-01-02", ymd); err == nil {
			return t.Format("02 Jan 2006")
		}
	}
	return raw
}

// ListFileCommits pages through the commit history of one file,
// newest first, up to maxCommits entries.
func (c *Client) ListFileCommits(ctx context.Context, ref FileRef, maxCommits int) ([]Commit, error) {
	const perPage = 100
	if maxCommits <= 0 {
		maxCommits = 300
	}

	var all []Commit
	for page := 1; len(all) < maxCommits; page++ {
		u := fmt.Sprintf("%s/repos/%s/%s/commits?path=%s&sha=%s&per_page=%d&page=%d",
			c.apiBase(ref.Host), ref.Owner, ref.Repo,
			url.QueryEscape(ref.Path), url.QueryEscape(ref.Ref), perPage, page)

		body, status, err := c.get(ctx, u, "application/vnd.github+json")
		if err != nil {
			return nil, err
		}
		if status != http.StatusOK {
			return nil, fmt.Errorf("list file commits failed (%d): %s", status, body)
		}

		var batch []Commit
		if err := json.Unmarshal(body, &batch); err != nil {
			return nil, fmt.Errorf("parse commit list: %w", err)
		}
		if len(batch) == 0 {
			break
		}
		all = append(all, batch...)
		if len(batch) < perPage {
			break
		}
	}
	if len(all) > maxCommits {
		all = all[:maxCommits]
	}
	return all, nil
}

// CommitPatch is the slice of one commit relevant to a single file:
// that file's patch hunk plus the other files the commit touched.
type CommitPatch struct {
	Patch      string
	OtherFiles []string
}

// FilePatchForCommit fetches one commit's detail and extracts the
// patch for filePath (matching renames via previous_filename) and
// the list of other modified files.
func (c *Client) FilePatchForCommit(ctx context.Context, ref FileRef, sha string) (CommitPatch, error) {
	u := fmt.Sprintf("%s/repos/%s/%s/commits/%s",
		c.apiBase(ref.Host), ref.Owner, ref.Repo, sha)

	body, status, err := c.get(ctx, u, "application/vnd.github+json")
	if err != nil {
		return CommitPatch{}, err
	}
	if status != http.StatusOK {
		return CommitPatch{}, fmt.Errorf("fetch commit %s failed (%d): %s",
			sha, status, body)
	}

	var detail struct {
		Files []struct {
			Filename         string `json:"filename"`
			PreviousFilename string `json:"previous_filename"`
			Patch            string `json:"patch"`
		} `json:"files"`
	}
	if err := json.Unmarshal(body, &detail); err != nil {
		return CommitPatch{}, fmt.Errorf("parse commit detail: %w", err)
	}

	var cp CommitPatch
	for _, f := range detail.Files {
		if f.Filename == ref.Path || f.PreviousFilename == ref.Path {
			cp.Patch = f.Patch
			continue
		}
		if f.Filename != "" {
			cp.OtherFiles = append(cp.OtherFiles, f.Filename)
		}
	}
	return cp, nil
}
