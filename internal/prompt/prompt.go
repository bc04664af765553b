// Package prompt builds the system/user prompt triplets sent to the
// review backends, for HTML and Markdown output formats.
package prompt

import "strings"

// Triplet is the prompt set for one review call: the system
// instruction, the output template shown to the model, and a short
// format hint appended to the diff payload.
type Triplet struct {
	System   string
	Template string
	Hint     string
}

const htmlSystem = "You are a senior software engineer performing a rigorous code review " +
	"of a GitHub PR unified diff. Return only valid HTML (no markdown). Be precise, " +
	"concise, and actionable. Identify correctness, security, performance, concurrency, " +
	"API/contract, error handling, logging, testing, and maintainability issues. " +
	"Do not restate the entire diff; focus on material issues with specific lines/hunks. " +
	"In addition to the review, generate a prioritized set of SUGGESTED TEST CASES with " +
	"concrete inputs, steps, and expected outcomes. Cover happy-path, negative, " +
	"edge/boundary, error-handling, concurrency/race, performance, and security " +
	"scenarios as applicable."

const htmlTemplate = `<section>
  <h2>Change Requirement</h2>
  <p><strong>High-Level Summary:</strong> <one to two sentences describing the intent of this change></p>

  <h3>Key Points</h3>
  <ul>
    <li><Criterion 1></li>
    <li><Criterion 2></li>
  </ul>

  <h2>Change Summary by File</h2>
  <ul>
    <li><strong><file1></strong>
      <ol>
        <li><what changed and why it matters></li>
      </ol>
    </li>
  </ul>

  <h2>Review Table</h2>
  <table>
    <thead>
      <tr>
        <th>File</th>
        <th>Line No.</th>
        <th>Category</th>
        <th>Code Change Risk (LOW/MEDIUM/HIGH)</th>
        <th>Observation</th>
        <th>Recommendation</th>
      </tr>
    </thead>
    <tbody>
      <tr>
        <td>path/to/file</td><td>L87</td><td>Correctness</td><td>HIGH</td>
        <td>Wrong null check</td><td>Add explicit nil check</td>
      </tr>
    </tbody>
  </table>

  <h2>Suggested Test Cases</h2>
  <table>
    <thead>
      <tr>
        <th>ID</th>
        <th>Title</th>
        <th>Type</th>
        <th>Area / File</th>
        <th>Preconditions / Setup</th>
        <th>Steps (numbered)</th>
        <th>Expected Result</th>
        <th>Priority (P0/P1/P2)</th>
      </tr>
    </thead>
    <tbody>
      <tr>
        <td>TC-001</td>
        <td>Happy path example</td>
        <td>Functional</td>
        <td>path/to/file.go</td>
        <td>Valid config; service available</td>
        <td>1) ... 2) ... 3) ...</td>
        <td>Returns 200 with payload X</td>
        <td>P0</td>
      </tr>
    </tbody>
  </table>

  <h2>Overall Verdict</h2>
  <p><short paragraph on readiness and risk></p>
</section>`

const htmlHint = "Return a single HTML fragment only (no <html> wrapper). " +
	"Include the 'Suggested Test Cases' table."

const markdownSystem = "You are a senior software engineer performing a rigorous code review " +
	"of a GitHub PR unified diff. Always return output in structured Markdown. In addition " +
	"to review findings, produce a prioritized list of SUGGESTED TEST CASES with concrete " +
	"inputs, steps, and expected outcomes, covering happy-path, negative, edge/boundary, " +
	"error-handling, concurrency/race, performance, and security scenarios where applicable."

const markdownTemplate = `Using the unified diff below, produce:
0) Change Requirement - high-level summary and acceptance criteria.
1) Change Summary by File - step-wise bullets per file: what changed and why it matters.
2) Review Table - a markdown table with columns:
   File | Location | Category | Severity | Comment | Suggested fix
3) Suggested Test Cases - a markdown table with concrete steps and expected results.
4) Overall Verdict - short paragraph on readiness.`

const markdownHint = `OUTPUT FORMAT (strict):

## Change Requirement
**High-Level Summary:** <one to two sentences>

### Acceptance Criteria
- Criterion 1
- Criterion 2

## Change Summary by File
- **<file1>**
  1) <Step>
  2) <Step>

## Review Table
| File | Location | Category | Severity | Comment | Suggested fix |
|------|----------|----------|----------|---------|---------------|

## Suggested Test Cases
| ID | Title | Type | Area/File | Preconditions | Steps | Expected Result | Priority |
|----|-------|------|-----------|---------------|-------|-----------------|----------|

## Overall Verdict
<short paragraph>`

// Build returns the prompt triplet for the given output format.
// Anything other than "markdown" gets the HTML prompts.
func Build(outputFormat string) Triplet {
	if strings.EqualFold(strings.TrimSpace(outputFormat), "markdown") {
		return Triplet{
			System:   markdownSystem,
			Template: markdownTemplate,
			Hint:     markdownHint,
		}
	}
	return Triplet{
		System:   htmlSystem,
		Template: htmlTemplate,
		Hint:     htmlHint,
	}
}

// DiffPayload wraps the (possibly chunked) diff text for one user
// message part: header context first, then the fenced diff.
func DiffPayload(header, diffText string) string {
	var b strings.Builder
	if header != "" {
		b.WriteString(header)
		b.WriteString("\n\n")
	}
	b.WriteString("```diff\n")
	b.WriteString(diffText)
	if !strings.HasSuffix(diffText, "\n") {
		b.WriteString("\n")
	}
	b.WriteString("```")
	return b.String()
}
