// Package report assembles the final review artifact: a standalone
// HTML document (or Markdown file) with the synthesized review, the
// per-model sections in caller order, and the failure list.
package report

import (
	"fmt"
	"html/template"
	"regexp"
	"strings"
	"time"
)

// Section is one model's review fragment.
type Section struct {
	Model string
	// Fragment is the model's raw output; BuildHTML normalizes it
	// (fence unwrap, Markdown conversion) before embedding.
	Fragment string
}

// Failure records one failed backend for the report's failure list.
type Failure struct {
	Model   string
	Message string
}

// Data is everything the report needs, in render order.
type Data struct {
	Title  string
	PRURL  string
	Owner  string
	Repo   string
	Number int
	// Synthesis is the combined artifact from the base model.
	Synthesis string
	// Sections follow the caller-supplied backend order.
	Sections []Section
	Failed   []Failure
	// SkippedFiles lists generated files excluded from review.
	SkippedFiles []string
	// RuleWarnings counts classification rules skipped as malformed.
	RuleWarnings int
}

const css = `
:root{--border:#d0d7de;--muted:#57606a;}
body{font-family:-apple-system,Segoe UI,Roboto,sans-serif;margin:0;background:#f6f8fa;}
.container{max-width:1200px;margin:0 auto;padding:24px;background:#fff;}
h1{font-size:22px;margin:0 0 6px 0;}
.meta{color:var(--muted);font-size:13px;margin:2px 0;}
.model-title{margin:4px 0 2px 0;}
.back{font-size:13px;margin:2px 0 12px 0;}
hr.sep{border:none;border-top:2px solid var(--border);margin:22px 0;}
.index-table,.model-section table{border-collapse:collapse;width:100%;table-layout:fixed;}
.index-table th,.index-table td,.model-section th,.model-section td{
  border:1px solid var(--border);padding:8px;text-align:left;
  overflow-wrap:anywhere;word-break:break-word;white-space:normal;}
pre,code{white-space:pre-wrap;word-wrap:break-word;overflow-wrap:anywhere;}
`

var pageTmpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"anchor": Anchor,
	"raw":    func(s string) template.HTML { return template.HTML(s) },
	"trunc":  func(s string) string { return truncate(s, 400) },
}).Parse(`<!doctype html><html><head><meta charset='utf-8'>
<title>{{.Title}}</title>
<style>{{.CSS}}</style></head><body>
<div class='container'>
<div class='header'>
<h1>{{.Title}}</h1>
{{if .PRURL}}<div class='meta'>PR:&nbsp;<a href='{{.PRURL}}' target='_blank'>{{.PRURL}}</a></div>{{end}}
<div class='meta'>Repo: {{.Owner}}/{{.Repo}}{{if .Number}} &nbsp;&nbsp; PR #{{.Number}}{{end}}</div>
{{if .SkippedFiles}}<div class='meta'>Excluded {{len .SkippedFiles}} generated file(s): {{range $i, $f := .SkippedFiles}}{{if $i}}, {{end}}{{$f}}{{end}}</div>{{end}}
{{if .RuleWarnings}}<div class='meta'>{{.RuleWarnings}} classification rule(s) skipped as malformed</div>{{end}}
</div>
{{if .Synthesis}}
<hr class='sep'>
<div class='model-section'><a id='synthesis'></a>
<h2 class='model-title'>Combined Review</h2>
{{raw .Synthesis}}
</div>
{{end}}
<a id='index'></a>
<h2>Index</h2>
<table class='index-table'><thead><tr><th>Model</th><th>Status</th></tr></thead><tbody>
{{range .Sections}}<tr><td><a href='#{{anchor .Model}}'>{{.Model}}</a></td><td>{{if .Fragment}}OK{{else}}Failed{{end}}</td></tr>
{{end}}</tbody></table>
{{range .Sections}}
<hr class='sep'>
<div class='model-section'><a id='{{anchor .Model}}'></a>
<h2 class='model-title'>{{.Model}}</h2>
<div class='back'><a href='#index'>Back to Index</a></div>
{{if .Fragment}}{{raw .Fragment}}{{else}}<p><em>No output (model failed or returned empty).</em></p>{{end}}
</div>
{{end}}
{{if .Failed}}
<hr class='sep'>
<h2>Failed Models</h2>
<ul>
{{range .Failed}}<li><strong>{{.Model}}</strong> &mdash; <span class='meta'>{{trunc .Message}}</span></li>
{{end}}</ul>
{{end}}
</div></body></html>
`))

type pageData struct {
	Data
	CSS template.CSS
}

// BuildHTML renders the full standalone HTML report. Model fragments
// are normalized first, so fenced or Markdown output still renders.
func BuildHTML(d Data) (string, error) {
	d.Synthesis = NormalizeFragment(d.Synthesis)
	sections := make([]Section, len(d.Sections))
	for i, s := range d.Sections {
		sections[i] = Section{Model: s.Model, Fragment: NormalizeFragment(s.Fragment)}
	}
	d.Sections = sections

	var b strings.Builder
	if err := pageTmpl.Execute(&b, pageData{Data: d, CSS: template.CSS(css)}); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return b.String(), nil
}

// BuildMarkdown renders the Markdown flavor of the report.
func BuildMarkdown(d Data) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", d.Title)
	if d.PRURL != "" {
		fmt.Fprintf(&b, "PR: %s\n\n", d.PRURL)
	}
	if d.Number > 0 {
		fmt.Fprintf(&b, "Repo: %s/%s | PR #%d\n\n", d.Owner, d.Repo, d.Number)
	} else {
		fmt.Fprintf(&b, "Repo: %s/%s\n\n", d.Owner, d.Repo)
	}
	if len(d.SkippedFiles) > 0 {
		fmt.Fprintf(&b, "Excluded %d generated file(s): %s\n\n",
			len(d.SkippedFiles), strings.Join(d.SkippedFiles, ", "))
	}

	if d.Synthesis != "" {
		b.WriteString("## Combined Review\n\n")
		b.WriteString(d.Synthesis)
		b.WriteString("\n\n")
	}

	for _, s := range d.Sections {
		fmt.Fprintf(&b, "---\n\n## %s\n\n", s.Model)
		if s.Fragment != "" {
			b.WriteString(s.Fragment)
		} else {
			b.WriteString("_No output (model failed or returned empty)._")
		}
		b.WriteString("\n\n")
	}

	if len(d.Failed) > 0 {
		b.WriteString("---\n\n## Failed Models\n\n")
		for _, f := range d.Failed {
			fmt.Fprintf(&b, "- **%s**: %s\n", f.Model, truncate(f.Message, 400))
		}
	}
	return b.String()
}

var anchorRE = regexp.MustCompile(`[^a-z0-9_-]+`)

// Anchor turns a model name into a safe fragment identifier.
func Anchor(model string) string {
	a := anchorRE.ReplaceAllString(strings.ToLower(model), "-")
	return strings.Trim(a, "-")
}

var unsafeFileRE = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SafeBaseFilename builds a filesystem-safe artifact base name from
// the PR coordinates and title.
func SafeBaseFilename(owner, repo string, number int, title string) string {
	return SafeName(fmt.Sprintf("%s-%s-pr%d-%s", owner, repo, number, title))
}

// SafeName replaces unsafe filename characters and caps the length.
func SafeName(raw string) string {
	base := unsafeFileRE.ReplaceAllString(raw, "_")
	base = strings.Trim(base, "_")
	const maxLen = 120
	if len(base) > maxLen {
		base = base[:maxLen]
	}
	return base
}

// Stamp formats a time for artifact filenames.
func Stamp(t time.Time) string {
	return t.Format("20060102-150405")
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
