package report

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

// blockTags is the heuristic for "this output is already HTML": any
// of these appearing means the fragment is embedded as-is.
var blockTags = []string{
	"<html", "<body", "<div", "<p", "<table", "<section",
	"<ul", "<ol", "<h1", "<h2", "<h3", "<h4", "<h5", "<h6",
}

// NormalizeFragment accepts model output that may be an HTML
// fragment, code-fenced, Markdown, or plain text, and returns an HTML
// fragment safe to embed in the report. Fences are unwrapped first;
// anything that does not look like HTML is converted from Markdown
// with all text escaped, so a model ignoring the format hint degrades
// to readable output instead of literal backticks or broken markup.
func NormalizeFragment(raw string) string {
	s := unwrapCodeFences(raw)
	s = strings.Trim(s, "`")
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if hasHTMLTags(s) {
		return s
	}
	return markdownToHTML(s)
}

// unwrapCodeFences removes a surrounding ``` fence pair, ignoring
// any language hint on the opening line.
func unwrapCodeFences(s string) string {
	text := strings.TrimSpace(s)
	if !strings.HasPrefix(text, "```") || !strings.HasSuffix(text, "```") {
		return text
	}
	lines := strings.Split(text, "\n")
	if len(lines) < 2 {
		return strings.Trim(text, "`")
	}
	return strings.Join(lines[1:len(lines)-1], "\n")
}

func hasHTMLTags(s string) bool {
	t := strings.ToLower(s)
	for _, tag := range blockTags {
		if strings.Contains(t, tag) {
			return true
		}
	}
	return false
}

var (
	headingRE  = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)
	orderedRE  = regexp.MustCompile(`^\s*\d+\.\s+(.*)$`)
	tableSepRE = regexp.MustCompile(`^[\s|:-]+$`)
)

// markdownToHTML is a small converter covering what review models
// actually emit: headings, bullet and numbered lists, pipe tables,
// horizontal rules, and paragraphs. Everything is escaped.
func markdownToHTML(md string) string {
	var b strings.Builder
	var tableBuf []string
	inUL, inOL := false, false

	closeLists := func() {
		if inUL {
			b.WriteString("</ul>\n")
			inUL = false
		}
		if inOL {
			b.WriteString("</ol>\n")
			inOL = false
		}
	}
	flushTable := func() {
		if len(tableBuf) > 0 {
			b.WriteString(pipeTableToHTML(tableBuf))
			tableBuf = nil
		}
	}

	for _, raw := range strings.Split(md, "\n") {
		line := strings.TrimRight(raw, " \t")

		if strings.Contains(line, "|") {
			closeLists()
			tableBuf = append(tableBuf, line)
			continue
		}
		flushTable()

		switch strings.TrimSpace(line) {
		case "---", "***", "___":
			closeLists()
			b.WriteString("<hr>\n")
			continue
		case "":
			closeLists()
			continue
		}

		if m := headingRE.FindStringSubmatch(line); m != nil {
			closeLists()
			level := len(m[1])
			fmt.Fprintf(&b, "<h%d>%s</h%d>\n", level,
				html.EscapeString(strings.TrimSpace(m[2])), level)
			continue
		}

		trimmed := strings.TrimLeft(line, " \t")
		if strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* ") {
			if !inUL {
				closeLists()
				b.WriteString("<ul>\n")
				inUL = true
			}
			fmt.Fprintf(&b, "<li>%s</li>\n", html.EscapeString(trimmed[2:]))
			continue
		}
		if m := orderedRE.FindStringSubmatch(line); m != nil {
			if !inOL {
				closeLists()
				b.WriteString("<ol>\n")
				inOL = true
			}
			fmt.Fprintf(&b, "<li>%s</li>\n", html.EscapeString(m[1]))
			continue
		}

		closeLists()
		fmt.Fprintf(&b, "<p>%s</p>\n", html.EscapeString(strings.TrimSpace(line)))
	}
	closeLists()
	flushTable()
	return strings.TrimSpace(b.String())
}

// pipeTableToHTML converts a contiguous block of pipe-table lines.
// A second row made only of dashes and colons is the header
// separator and is dropped.
func pipeTableToHTML(lines []string) string {
	var rows [][]string
	for i, ln := range lines {
		trimmed := strings.Trim(strings.TrimSpace(ln), "|")
		if i == 1 && tableSepRE.MatchString(trimmed) {
			continue
		}
		cells := strings.Split(trimmed, "|")
		for j := range cells {
			cells[j] = strings.TrimSpace(cells[j])
		}
		rows = append(rows, cells)
	}
	if len(rows) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("<table><thead><tr>")
	for _, h := range rows[0] {
		fmt.Fprintf(&b, "<th>%s</th>", html.EscapeString(h))
	}
	b.WriteString("</tr></thead><tbody>")
	for _, r := range rows[1:] {
		b.WriteString("<tr>")
		for _, c := range r {
			fmt.Fprintf(&b, "<td>%s</td>", html.EscapeString(c))
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</tbody></table>\n")
	return b.String()
}
