package main

import (
	"strings"
	"testing"

	"github.com/jalajpachoulydell/smart-code-review/internal/github"
)

func historyCommit(sha, author, date, message string) github.Commit {
	var c github.Commit
	c.SHA = sha
	c.Commit.Author.Name = author
	c.Commit.Author.Date = date
	c.Commit.Message = message
	return c
}

func TestBuildHistoryBlock(t *testing.T) {
	commits := []github.Commit{
		historyCommit(strings.Repeat("a", 40), "Alice", "2025-06-26T13:24:23Z", "Add retry loop"),
		historyCommit(strings.Repeat("b", 40), "Bob", "2025-05-01T09:00:00Z", "Initial version"),
	}
	patches := []github.CommitPatch{
		{Patch: "@@ -1 +1 @@\n-a\n+b", OtherFiles: []string{"go.mod", "go.sum"}},
		{},
	}

	block := buildHistoryBlock(commits, patches, "pkg/server.go")

	for _, want := range []string{
		"=== Commit aaaaaaa / 26 Jun 2025 / Alice ===",
		"Message: Add retry loop",
		"File: pkg/server.go",
		"@@ -1 +1 @@",
		"Other files modified:\n- go.mod\n- go.sum",
		"=== Commit bbbbbbb / 01 May 2025 / Bob ===",
		"(No patch for this file in this commit)",
	} {
		if !strings.Contains(block, want) {
			t.Errorf("block missing %q in:\n%s", want, block)
		}
	}

	// Commits keep their given order, newest first.
	if strings.Index(block, "aaaaaaa") > strings.Index(block, "bbbbbbb") {
		t.Error("commit sections out of order")
	}
}

func TestSelectCommits(t *testing.T) {
	commits := []github.Commit{
		historyCommit("1111111", "Alice", "", "Fix parser bug"),
		historyCommit("2222222", "Bob", "", "Refactor config"),
		historyCommit("3333333", "alice smith", "", "Fix chunker edge case"),
		historyCommit("4444444", "Carol", "", "Docs"),
	}

	got := selectCommits(commits, "alice", "", 0)
	if len(got) != 2 || got[0].SHA != "1111111" || got[1].SHA != "3333333" {
		t.Errorf("author filter = %v", shaList(got))
	}

	got = selectCommits(commits, "", "fix", 0)
	if len(got) != 2 {
		t.Errorf("message filter = %v", shaList(got))
	}

	got = selectCommits(commits, "alice", "chunker", 0)
	if len(got) != 1 || got[0].SHA != "3333333" {
		t.Errorf("combined filter = %v", shaList(got))
	}

	got = selectCommits(commits, "", "", 2)
	if len(got) != 2 || got[0].SHA != "1111111" {
		t.Errorf("limit should keep the newest commits: %v", shaList(got))
	}

	if got := selectCommits(commits, "nobody", "", 0); len(got) != 0 {
		t.Errorf("unmatched filter = %v", shaList(got))
	}
}

func shaList(commits []github.Commit) []string {
	shas := make([]string, len(commits))
	for i, c := range commits {
		shas[i] = c.SHA
	}
	return shas
}

func TestHistoryHeader(t *testing.T) {
	ref := github.FileRef{Owner: "octo", Repo: "hello", Path: "pkg/server.go"}
	chosen := []github.Commit{
		historyCommit(strings.Repeat("a", 40), "", "", ""),
		historyCommit(strings.Repeat("b", 40), "", "", ""),
	}

	header := historyHeader(ref, chosen, 7, "format hint")
	for _, want := range []string{
		"Repository: octo/hello",
		"File: pkg/server.go",
		"Selected commits: aaaaaaa, bbbbbbb",
		"Selected count: 2",
		"Filtered list size: 7",
		"format hint",
	} {
		if !strings.Contains(header, want) {
			t.Errorf("header missing %q", want)
		}
	}
}

func TestShaRange(t *testing.T) {
	one := []github.Commit{historyCommit(strings.Repeat("a", 40), "", "", "")}
	if got := shaRange(one); got != "aaaaaaa" {
		t.Errorf("shaRange(one) = %q", got)
	}
	two := append(one, historyCommit(strings.Repeat("b", 40), "", "", ""))
	if got := shaRange(two); got != "aaaaaaa..bbbbbbb" {
		t.Errorf("shaRange(two) = %q", got)
	}
	if got := shaRange(nil); got != "" {
		t.Errorf("shaRange(nil) = %q", got)
	}
}
