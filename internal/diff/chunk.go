package diff

import "strings"

// DefaultMaxChars is the per-chunk character budget used when the
// caller does not configure one.
const DefaultMaxChars = 12000

// ChunkText splits s into line-aligned chunks of at most maxChars
// characters. Lines are never split: a single line longer than
// maxChars occupies a chunk by itself. Concatenating the returned
// chunks reproduces s exactly.
func ChunkText(s string, maxChars int) []string {
	if s == "" {
		return nil
	}
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}

	var chunks []string
	var buf strings.Builder

	// Walk lines keeping the trailing newline with each line, so the
	// concatenation identity holds byte for byte.
	rest := s
	for rest != "" {
		var line string
		if i := strings.IndexByte(rest, '\n'); i >= 0 {
			line, rest = rest[:i+1], rest[i+1:]
		} else {
			line, rest = rest, ""
		}
		if buf.Len() > 0 && buf.Len()+len(line) > maxChars {
			chunks = append(chunks, buf.String())
			buf.Reset()
		}
		buf.WriteString(line)
	}
	if buf.Len() > 0 {
		chunks = append(chunks, buf.String())
	}
	return chunks
}
