// Package diff splits unified-diff text into per-file blocks and
// provides size-bounded chunking for oversized diffs.
package diff

import "regexp"

// fileHeaderRE matches the start of a per-file block in a unified
// diff. Paths may contain any character except newline.
var fileHeaderRE = regexp.MustCompile(`(?m)^diff --git a/(.+) b/(.+)$`)

// FileBlock is the contiguous span of a unified diff belonging to
// one changed file. RawText includes the "diff --git" header line.
type FileBlock struct {
	OldPath string
	NewPath string
	RawText string
}

// Document is an ordered sequence of file blocks. Order is the
// original diff order and is never reordered.
type Document struct {
	Blocks []FileBlock
}

// Parse splits diff text into per-file blocks. Each block spans from
// its "diff --git a/<A> b/<B>" header to the next header or end of
// text. Text with no header anywhere becomes a single block with
// empty paths rather than an error, so malformed input still flows
// through the pipeline.
func Parse(text string) Document {
	if text == "" {
		return Document{}
	}

	matches := fileHeaderRE.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return Document{Blocks: []FileBlock{{RawText: text}}}
	}

	blocks := make([]FileBlock, 0, len(matches))
	for i, m := range matches {
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		blocks = append(blocks, FileBlock{
			OldPath: text[m[2]:m[3]],
			NewPath: text[m[4]:m[5]],
			RawText: text[m[0]:end],
		})
	}
	return Document{Blocks: blocks}
}

// ExtractChangedFiles returns the target ("b/") path of every file
// header in the diff, deduplicated keeping the first occurrence.
// Order is first-appearance order, never sorted.
func ExtractChangedFiles(text string) []string {
	matches := fileHeaderRE.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(matches))
	uniq := make([]string, 0, len(matches))
	for _, m := range matches {
		path := m[2]
		if _, ok := seen[path]; ok {
			continue
		}
		seen[path] = struct{}{}
		uniq = append(uniq, path)
	}
	return uniq
}
