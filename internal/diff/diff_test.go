package diff

import (
	"reflect"
	"strings"
	"testing"
)

const twoFileDiff = `diff --git a/foo/bar.go b/foo/bar.go
index 1111111..2222222 100644
--- a/foo/bar.go
+++ b/foo/bar.go
@@ -1,3 +1,4 @@
 package bar
+// added
diff --git a/docs/readme.md b/docs/readme.md
index 3333333..4444444 100644
--- a/docs/readme.md
+++ b/docs/readme.md
@@ -1 +1,2 @@
 # readme
+more
`

func TestParse_TwoBlocks(t *testing.T) {
	doc := Parse(twoFileDiff)
	if len(doc.Blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(doc.Blocks))
	}
	if doc.Blocks[0].NewPath != "foo/bar.go" {
		t.Errorf("block 0 path = %q, want foo/bar.go",
			doc.Blocks[0].NewPath)
	}
	if doc.Blocks[1].NewPath != "docs/readme.md" {
		t.Errorf("block 1 path = %q, want docs/readme.md",
			doc.Blocks[1].NewPath)
	}
	// Blocks must cover the whole input in order.
	if got := doc.Blocks[0].RawText + doc.Blocks[1].RawText; got != twoFileDiff {
		t.Error("concatenated blocks do not reproduce the input")
	}
	if !strings.HasPrefix(doc.Blocks[1].RawText, "diff --git a/docs/readme.md") {
		t.Error("block 1 does not start at its header")
	}
}

func TestParse_NoHeader(t *testing.T) {
	text := "not a diff at all\njust some text\n"
	doc := Parse(text)
	if len(doc.Blocks) != 1 {
		t.Fatalf("expected 1 fallback block, got %d", len(doc.Blocks))
	}
	b := doc.Blocks[0]
	if b.NewPath != "" || b.OldPath != "" {
		t.Errorf("fallback block should have empty paths, got %q/%q",
			b.OldPath, b.NewPath)
	}
	if b.RawText != text {
		t.Error("fallback block should carry the whole text")
	}
}

func TestParse_Empty(t *testing.T) {
	if doc := Parse(""); len(doc.Blocks) != 0 {
		t.Errorf("expected no blocks for empty input, got %d",
			len(doc.Blocks))
	}
}

func TestParse_LeadingGarbage(t *testing.T) {
	text := "some preamble\n" + twoFileDiff
	doc := Parse(text)
	// Preamble before the first header is not part of any block;
	// the first block still starts at its header.
	if len(doc.Blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(doc.Blocks))
	}
	if !strings.HasPrefix(doc.Blocks[0].RawText, "diff --git a/foo/bar.go") {
		t.Error("block 0 does not start at its header")
	}
}

func TestParse_HeaderMidLineIgnored(t *testing.T) {
	text := "context diff --git a/x b/x\n"
	doc := Parse(text)
	if len(doc.Blocks) != 1 || doc.Blocks[0].NewPath != "" {
		t.Error("header not anchored at line start must not match")
	}
}

func TestExtractChangedFiles_Order(t *testing.T) {
	got := ExtractChangedFiles(twoFileDiff)
	want := []string{"foo/bar.go", "docs/readme.md"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractChangedFiles = %v, want %v", got, want)
	}
}

func TestExtractChangedFiles_Dedupe(t *testing.T) {
	text := "diff --git a/b.txt b/b.txt\n+x\n" +
		"diff --git a/a.txt b/a.txt\n+y\n" +
		"diff --git a/b.txt b/b.txt\n+z\n"
	got := ExtractChangedFiles(text)
	want := []string{"b.txt", "a.txt"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractChangedFiles = %v, want %v", got, want)
	}
}

func TestExtractChangedFiles_None(t *testing.T) {
	if got := ExtractChangedFiles("plain text"); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

func TestExtractChangedFiles_PathWithSpaces(t *testing.T) {
	text := "diff --git a/my dir/my file.txt b/my dir/my file.txt\n"
	got := ExtractChangedFiles(text)
	if len(got) != 1 || got[0] != "my dir/my file.txt" {
		t.Errorf("ExtractChangedFiles = %v", got)
	}
}
