package review

import (
	"fmt"
	"strings"
)

// NoSourcesMarker is sent to the base model when every backend came
// back empty, so the reducer still produces a valid (if degraded)
// artifact instead of erroring on empty input.
const NoSourcesMarker = "No sources."

// maxPerSource truncates one backend's output inside the synthesis
// payload so a single verbose model cannot blow the base model's
// context window.
const maxPerSource = 15000

// SynthesisInstruction tells the base model how to merge the
// per-backend reviews.
const SynthesisInstruction = "You are given multiple code reviews of the SAME unified diff, " +
	"each produced by a different model. Produce a SINGLE best review that " +
	"follows the requested output format. Merge overlapping findings, keep " +
	"concrete file/line references, drop duplicate observations, and keep " +
	"the 'Suggested Test Cases' section when any source has one. Conclude " +
	"with a single 'Overall Verdict'."

// BuildSynthesisSources renders the non-empty backend outputs as one
// sources payload, in the given result order. All-empty input yields
// NoSourcesMarker.
func BuildSynthesisSources(results []TaskResult) string {
	var srcs []string
	for _, r := range results {
		if r.Output == "" {
			continue
		}
		out := r.Output
		if len(out) > maxPerSource {
			out = out[:maxPerSource] + "\n\n...(truncated)"
		}
		srcs = append(srcs, fmt.Sprintf("### Model: %s\n%s", r.BackendID, out))
	}
	if len(srcs) == 0 {
		return NoSourcesMarker
	}
	return strings.Join(srcs, "\n\n")
}
