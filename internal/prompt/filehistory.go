package prompt

import "strings"

const fileHistoryHTMLSystem = "You are a senior software engineer summarizing changes to ONE file " +
	"across multiple commits. Return only valid HTML (no markdown). For EACH commit, render a " +
	"bordered table block with a header row naming the commit (short sha, date, author) and two " +
	"columns: Change Summary as an ordered list (precise, code-aware, concise; include a small " +
	"'Other Files Modified' bulleted sub-section when provided) and Likely Reasons as bullet " +
	"points (speculative but grounded in the message and patch). Do NOT perform a formal review " +
	"or assign severities; this is descriptive. Conclude with an 'Overall Narrative' as bullet points."

const fileHistoryHTMLTemplate = `<section>
  <h2>Per-Commit Code Change Summary</h2>

  <!-- Repeat this table per commit -->
  <table>
    <thead>
      <tr><th colspan="2">Commit <shortsha> / <date> / <author></th></tr>
      <tr><th>Change Summary</th><th>Likely Reasons</th></tr>
    </thead>
    <tbody>
      <tr>
        <td>
          <ol>
            <li><Precise step 1: what changed, why it matters></li>
            <li><Precise step 2></li>
          </ol>
          <!-- Only if provided -->
          <div><strong>Other Files Modified</strong>
            <ul><li><other/file1></li></ul>
          </div>
        </td>
        <td>
          <ul>
            <li><Reason 1 (concise, inferred from context)></li>
            <li><Reason 2></li>
          </ul>
        </td>
      </tr>
    </tbody>
  </table>

  <h2>Overall Narrative</h2>
  <ul>
    <li><Crisp point about the direction of changes></li>
    <li><Crisp point about effects and impact></li>
  </ul>
</section>`

const fileHistoryHTMLHint = "Return a single HTML fragment only (no <html> wrapper)."

const fileHistoryMarkdownSystem = "You are a senior software engineer summarizing changes to a single " +
	"file across multiple commits. Return structured Markdown with a section per commit: Change " +
	"Summary as numbered bullets, Likely Reasons as bullet points, and an 'Other Files Modified' " +
	"bulleted list when other files are provided. Conclude with 'Overall Narrative' bullets."

const fileHistoryMarkdownTemplate = `## Commit <shortsha> / <date> / <author>
### Change Summary
1. Step 1
2. Step 2
#### Other Files Modified
- other/file1

### Likely Reasons
- reason 1
- reason 2

## Overall Narrative
- point 1
- point 2`

const fileHistoryMarkdownHint = "One section per commit; Overall Narrative as bullets."

// FileHistorySynthesisInstruction tells the base model how to merge
// the per-model file-history summaries.
const FileHistorySynthesisInstruction = "You are given multiple per-commit summaries for the SAME file. " +
	"Produce a SINGLE best summary that follows the requested template, preserving distinct " +
	"table blocks per commit. Merge overlapping points, keep concrete descriptions, include " +
	"'Other Files Modified' sections only when present, and keep 'Likely Reasons' concise. " +
	"Conclude with a single 'Overall Narrative' expressed as bullet points."

// BuildFileHistory returns the prompt triplet for the per-commit
// file-history summary. Anything other than "markdown" gets the HTML
// prompts, like Build.
func BuildFileHistory(outputFormat string) Triplet {
	if strings.EqualFold(strings.TrimSpace(outputFormat), "markdown") {
		return Triplet{
			System:   fileHistoryMarkdownSystem,
			Template: fileHistoryMarkdownTemplate,
			Hint:     fileHistoryMarkdownHint,
		}
	}
	return Triplet{
		System:   fileHistoryHTMLSystem,
		Template: fileHistoryHTMLTemplate,
		Hint:     fileHistoryHTMLHint,
	}
}
