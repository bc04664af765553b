package prompt

import (
	"strings"
	"testing"
)

func TestBuild_DefaultIsHTML(t *testing.T) {
	for _, format := range []string{"", "html", "HTML", "weird"} {
		tr := Build(format)
		if !strings.Contains(tr.System, "valid HTML") {
			t.Errorf("Build(%q) did not return HTML prompts", format)
		}
		if !strings.Contains(tr.Template, "<section>") {
			t.Errorf("Build(%q) template missing section", format)
		}
	}
}

func TestBuild_Markdown(t *testing.T) {
	tr := Build("markdown")
	if !strings.Contains(tr.System, "structured Markdown") {
		t.Error("markdown system prompt wrong")
	}
	if !strings.Contains(tr.Hint, "## Review Table") {
		t.Error("markdown hint missing review table")
	}
	tr2 := Build(" Markdown ")
	if tr2.System != tr.System {
		t.Error("format matching should ignore case and spaces")
	}
}

func TestBuild_AlwaysAsksForTestCases(t *testing.T) {
	for _, format := range []string{"html", "markdown"} {
		tr := Build(format)
		if !strings.Contains(tr.System, "SUGGESTED TEST CASES") {
			t.Errorf("Build(%q) system prompt missing test case ask", format)
		}
	}
}

func TestDiffPayload(t *testing.T) {
	got := DiffPayload("Repo: o/r", "diff --git a/x b/x\n+1\n")
	if !strings.HasPrefix(got, "Repo: o/r\n\n```diff\n") {
		t.Errorf("payload prefix wrong:\n%s", got)
	}
	if !strings.HasSuffix(got, "```") {
		t.Errorf("payload not fenced:\n%s", got)
	}
}

func TestDiffPayload_NoHeaderAndNoNewline(t *testing.T) {
	got := DiffPayload("", "line without newline")
	if !strings.HasPrefix(got, "```diff\n") {
		t.Errorf("payload = %q", got)
	}
	if !strings.Contains(got, "line without newline\n```") {
		t.Error("missing newline before closing fence")
	}
}
