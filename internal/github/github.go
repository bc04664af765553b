// Package github fetches pull-request diffs and metadata from the
// GitHub REST API, including GitHub Enterprise hosts.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jalajpachoulydell/smart-code-review/internal/config"
	"github.com/jalajpachoulydell/smart-code-review/internal/gateway"
)

var prURLRE = regexp.MustCompile(
	`^https?://([^/]+)/([^/]+)/([^/]+)/pull/(\d+)`)

// PRRef identifies one pull request.
type PRRef struct {
	Host   string
	Owner  string
	Repo   string
	Number int
}

// ParsePRURL extracts the PR coordinates from a browser URL like
// https://github.com/owner/repo/pull/123.
func ParsePRURL(prURL string) (PRRef, error) {
	m := prURLRE.FindStringSubmatch(strings.TrimSpace(prURL))
	if m == nil {
		return PRRef{}, fmt.Errorf(
			"invalid PR URL %q (expected https://<host>/<owner>/<repo>/pull/<number>)",
			prURL)
	}
	n, err := strconv.Atoi(m[4])
	if err != nil {
		return PRRef{}, fmt.Errorf("invalid PR number %q", m[4])
	}
	return PRRef{Host: m[1], Owner: m[2], Repo: m[3], Number: n}, nil
}

// APIBaseFromHost maps a browser host to its REST API base:
// github.com uses api.github.com, enterprise hosts use /api/v3.
func APIBaseFromHost(host string) string {
	if strings.EqualFold(host, "github.com") {
		return "https://api.github.com"
	}
	return "https://" + host + "/api/v3"
}

// Client provides access to the GitHub REST API.
type Client struct {
	token   string
	httpCli *http.Client
	// APIBase overrides host-derived API base resolution when set.
	// Used for GHE proxies and tests.
	APIBase string
}

// NewClient builds a GitHub client from config. Requires a token;
// reuses the gateway's extra CA bundle for enterprise hosts behind a
// private CA.
func NewClient(cfg *config.Config) (*Client, error) {
	token := strings.TrimSpace(cfg.GitHubToken)
	if token == "" {
		return nil, fmt.Errorf("github_token is not configured")
	}
	transport, err := gateway.NewTransport(cfg.ExtraCABundle)
	if err != nil {
		return nil, err
	}
	return &Client{
		token:   token,
		httpCli: &http.Client{Timeout: 60 * time.Second, Transport: transport},
	}, nil
}

func (c *Client) apiBase(host string) string {
	if c.APIBase != "" {
		return c.APIBase
	}
	return APIBaseFromHost(host)
}

func (c *Client) get(ctx context.Context, url, accept string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", accept)
	req.Header.Set("User-Agent", "smart-code-review")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")

	resp, err := c.httpCli.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("github request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response: %w", err)
	}
	return body, resp.StatusCode, nil
}

// PRDiff fetches the raw unified diff for a pull request.
func (c *Client) PRDiff(ctx context.Context, ref PRRef) (string, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/pulls/%d",
		c.apiBase(ref.Host), ref.Owner, ref.Repo, ref.Number)

	body, status, err := c.get(ctx, url, "application/vnd.github.v3.diff")
	if err != nil {
		return "", err
	}
	switch {
	case status == http.StatusUnauthorized:
		return "", fmt.Errorf(
			"GitHub 401 Unauthorized: ensure the token has repo read access")
	case status == http.StatusForbidden &&
		strings.Contains(strings.ToLower(string(body)), "rate limit"):
		return "", fmt.Errorf("GitHub rate limit hit (403), try again later")
	case status == http.StatusNotFound:
		return "", fmt.Errorf("PR #%d not found in %s/%s",
			ref.Number, ref.Owner, ref.Repo)
	case status != http.StatusOK:
		return "", fmt.Errorf("GitHub API error (%d): %s", status, body)
	}
	return string(body), nil
}

// PRMeta is the subset of pull-request metadata the report needs.
type PRMeta struct {
	Title string `json:"title"`
	User  struct {
		Login string `json:"login"`
	} `json:"user"`
	State string `json:"state"`
}

// PRMetaFor fetches PR metadata. Failures degrade to an empty meta
// rather than blocking the review; only transport-level errors are
// returned.
func (c *Client) PRMetaFor(ctx context.Context, ref PRRef) (PRMeta, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/pulls/%d",
		c.apiBase(ref.Host), ref.Owner, ref.Repo, ref.Number)

	body, status, err := c.get(ctx, url, "application/vnd.github+json")
	if err != nil {
		return PRMeta{}, err
	}
	if status != http.StatusOK {
		return PRMeta{}, nil
	}
	var meta PRMeta
	if err := json.Unmarshal(body, &meta); err != nil {
		return PRMeta{}, nil
	}
	return meta, nil
}

// PRSummary is one row of a repository PR listing.
type PRSummary struct {
	Number  int    `json:"number"`
	Title   string `json:"title"`
	State   string `json:"state"`
	HTMLURL string `json:"html_url"`
	User    struct {
		Login string `json:"login"`
	} `json:"user"`
}

// ListAllPRs pages through every PR of a repository, 100 per page.
func (c *Client) ListAllPRs(ctx context.Context, host, owner, repo string) ([]PRSummary, error) {
	const perPage = 100
	var all []PRSummary

	for page := 1; ; page++ {
		url := fmt.Sprintf("%s/repos/%s/%s/pulls?state=all&per_page=%d&page=%d",
			c.apiBase(host), owner, repo, perPage, page)

		body, status, err := c.get(ctx, url, "application/vnd.github+json")
		if err != nil {
			return nil, err
		}
		if status != http.StatusOK {
			return nil, fmt.Errorf("list PRs failed (%d): %s", status, body)
		}

		var batch []PRSummary
		if err := json.Unmarshal(body, &batch); err != nil {
			return nil, fmt.Errorf("parse PR list: %w", err)
		}
		if len(batch) == 0 {
			break
		}
		all = append(all, batch...)
		if len(batch) < perPage {
			break
		}
	}
	return all, nil
}
