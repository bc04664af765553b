package report

import (
	"strings"
	"testing"
	"time"
)

func sampleData() Data {
	return Data{
		Title:     "PR Review: octo/hello #42: Fix the thing",
		PRURL:     "https://github.com/octo/hello/pull/42",
		Owner:     "octo",
		Repo:      "hello",
		Number:    42,
		Synthesis: "<p>combined</p>",
		Sections: []Section{
			{Model: "alpha", Fragment: "<p>review A</p>"},
			{Model: "beta", Fragment: ""},
		},
		Failed: []Failure{
			{Model: "beta", Message: "gateway 503"},
		},
		SkippedFiles: []string{"gen/thing.pb.go"},
	}
}

func TestBuildHTML(t *testing.T) {
	out, err := BuildHTML(sampleData())
	if err != nil {
		t.Fatalf("BuildHTML: %v", err)
	}

	for _, want := range []string{
		"<!doctype html>",
		"Combined Review",
		"<p>combined</p>",
		"<p>review A</p>",
		"No output (model failed or returned empty)",
		"Failed Models",
		"gateway 503",
		"Excluded 1 generated file(s)",
		"gen/thing.pb.go",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q", want)
		}
	}

	// Sections appear in caller order.
	if strings.Index(out, "id='alpha'") > strings.Index(out, "id='beta'") {
		t.Error("sections out of order")
	}
}

func TestBuildHTML_EscapesMetadata(t *testing.T) {
	d := sampleData()
	d.Title = `<script>alert(1)</script>`
	out, err := BuildHTML(d)
	if err != nil {
		t.Fatalf("BuildHTML: %v", err)
	}
	if strings.Contains(out, "<script>alert(1)</script>") {
		t.Error("title not escaped")
	}
}

func TestBuildHTML_NoSynthesisSection(t *testing.T) {
	d := sampleData()
	d.Synthesis = ""
	out, err := BuildHTML(d)
	if err != nil {
		t.Fatalf("BuildHTML: %v", err)
	}
	if strings.Contains(out, "Combined Review") {
		t.Error("empty synthesis should not render a section")
	}
}

func TestBuildMarkdown(t *testing.T) {
	out := BuildMarkdown(sampleData())
	for _, want := range []string{
		"# PR Review",
		"## Combined Review",
		"## alpha",
		"review A",
		"## Failed Models",
		"**beta**",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown report missing %q", want)
		}
	}
}

func TestAnchor(t *testing.T) {
	tests := []struct{ in, want string }{
		{"llama-3-3-70b-instruct", "llama-3-3-70b-instruct"},
		{"Mistral Small 24B (3.1)", "mistral-small-24b-3-1"},
		{"  weird/name  ", "weird-name"},
	}
	for _, tt := range tests {
		if got := Anchor(tt.in); got != tt.want {
			t.Errorf("Anchor(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSafeBaseFilename(t *testing.T) {
	got := SafeBaseFilename("octo", "hello", 42, "Fix: the/thing!")
	if strings.ContainsAny(got, "/:! ") {
		t.Errorf("unsafe characters in %q", got)
	}
	if !strings.HasPrefix(got, "octo-hello-pr42") {
		t.Errorf("filename = %q", got)
	}

	long := strings.Repeat("x", 300)
	if got := SafeBaseFilename("o", "r", 1, long); len(got) > 120 {
		t.Errorf("filename not truncated: %d chars", len(got))
	}
}

func TestStamp(t *testing.T) {
	ts := time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)
	if got := Stamp(ts); got != "20250314-150926" {
		t.Errorf("Stamp = %q", got)
	}
}
