// Package generated classifies diff file blocks as machine-produced
// so they can be excluded from review. Rules are evaluated fail-open:
// a malformed glob or regex disables that one rule and is reported as
// a warning, never aborting the filter.
package generated

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jalajpachoulydell/smart-code-review/internal/diff"
)

// headLines bounds how far into a block the marker scan looks.
const headLines = 120

// Rules is the classification rule set for one run. Immutable once
// built from config.
type Rules struct {
	// SkipGenerated disables all filtering when false.
	SkipGenerated bool
	// PathGlobs are shell-style wildcards matched against the
	// target path.
	PathGlobs []string
	// PathRegex is applied case-insensitively to the target path.
	PathRegex string
	// HeaderMarkers are case-insensitive substrings searched in the
	// first 120 lines of a block.
	HeaderMarkers []string
}

func (r Rules) empty() bool {
	return len(r.PathGlobs) == 0 && r.PathRegex == "" &&
		len(r.HeaderMarkers) == 0
}

// Result is the outcome of filtering one diff.
type Result struct {
	// Diff is the concatenation of non-generated blocks in original
	// order.
	Diff string
	// Skipped lists target paths of generated blocks in encounter
	// order.
	Skipped []string
	// Warnings describes rules that were skipped as malformed.
	Warnings []string
}

// matcher holds the rule set with patterns compiled once per run.
type matcher struct {
	globs    []*regexp.Regexp
	pathRE   *regexp.Regexp
	markers  []string
	warnings []string
}

func newMatcher(rules Rules) *matcher {
	m := &matcher{}
	for _, g := range rules.PathGlobs {
		re, err := compileGlob(g)
		if err != nil {
			m.warnings = append(m.warnings, fmt.Sprintf(
				"skipping malformed glob %q: %v", g, err))
			continue
		}
		m.globs = append(m.globs, re)
	}
	if rules.PathRegex != "" {
		re, err := regexp.Compile("(?i)" + rules.PathRegex)
		if err != nil {
			m.warnings = append(m.warnings, fmt.Sprintf(
				"skipping malformed regex %q: %v", rules.PathRegex, err))
		} else {
			m.pathRE = re
		}
	}
	for _, mk := range rules.HeaderMarkers {
		if mk = strings.ToLower(strings.TrimSpace(mk)); mk != "" {
			m.markers = append(m.markers, mk)
		}
	}
	return m
}

// generatedPath reports whether the target path matches any glob or
// the configured regex.
func (m *matcher) generatedPath(path string) bool {
	for _, g := range m.globs {
		if g.MatchString(path) {
			return true
		}
	}
	return m.pathRE != nil && m.pathRE.FindStringIndex(path) != nil
}

// generatedMarkers reports whether the head of the block contains
// any configured marker substring, case-insensitively.
func (m *matcher) generatedMarkers(blockText string) bool {
	if len(m.markers) == 0 {
		return false
	}
	lines := strings.SplitN(blockText, "\n", headLines+1)
	if len(lines) > headLines {
		lines = lines[:headLines]
	}
	head := strings.ToLower(strings.Join(lines, "\n"))
	for _, mk := range m.markers {
		if strings.Contains(head, mk) {
			return true
		}
	}
	return false
}

// Filter removes generated file blocks from a unified diff. When
// filtering is disabled, no rules are configured, or the text has no
// recognizable file headers, the input is returned unchanged with an
// empty skip list.
func Filter(text string, rules Rules) Result {
	if text == "" || !rules.SkipGenerated || rules.empty() {
		return Result{Diff: text}
	}

	doc := diff.Parse(text)
	if len(doc.Blocks) == 1 && doc.Blocks[0].NewPath == "" {
		// Unparsed fallback block: nothing to classify.
		return Result{Diff: text}
	}

	m := newMatcher(rules)
	res := Result{Warnings: m.warnings}

	var kept strings.Builder
	for _, b := range doc.Blocks {
		if m.generatedPath(b.NewPath) || m.generatedMarkers(b.RawText) {
			path := b.NewPath
			if path == "" {
				path = "(unknown)"
			}
			res.Skipped = append(res.Skipped, path)
			continue
		}
		kept.WriteString(b.RawText)
	}
	res.Diff = kept.String()
	return res
}

// compileGlob translates a shell-style wildcard into an anchored
// regexp. '*' matches any run of characters including separators,
// '?' matches one character, '[seq]' is a character class with '!'
// for negation. An unclosed class is treated as a literal '['.
func compileGlob(glob string) (*regexp.Regexp, error) {
	var b strings.Builder
	b.WriteString(`\A`)
	for i := 0; i < len(glob); {
		c := glob[i]
		i++
		switch c {
		case '*':
			b.WriteString(`.*`)
		case '?':
			b.WriteString(`.`)
		case '[':
			j := i
			if j < len(glob) && (glob[j] == '!' || glob[j] == '^') {
				j++
			}
			if j < len(glob) && glob[j] == ']' {
				j++
			}
			for j < len(glob) && glob[j] != ']' {
				j++
			}
			if j >= len(glob) {
				b.WriteString(`\[`)
				continue
			}
			seq := glob[i:j]
			i = j + 1
			b.WriteString("[")
			if strings.HasPrefix(seq, "!") {
				b.WriteString("^")
				seq = seq[1:]
			}
			// Escape only what a character class cares about.
			seq = strings.ReplaceAll(seq, `\`, `\\`)
			b.WriteString(seq)
			b.WriteString("]")
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
	}
	b.WriteString(`\z`)
	return regexp.Compile(b.String())
}
