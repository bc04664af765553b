package review

import (
	"context"
	"fmt"
	"log"

	"github.com/jalajpachoulydell/smart-code-review/internal/backend"
)

// SynthesizeOpts controls the final reducer call.
type SynthesizeOpts struct {
	// BaseBackend is the backend that performs the synthesis.
	BaseBackend string
	// System and Template are the prompt parts for the base call,
	// matching the format the per-backend reviews were asked for.
	System   string
	Template string
	// Instruction overrides the default merge instruction. Empty
	// means SynthesisInstruction.
	Instruction string
	// CorrelationID is forwarded to the gateway.
	CorrelationID string
}

// Synthesize merges a settled orchestration outcome into one artifact
// by invoking the base backend once. Results are consumed in the
// order they appear in the outcome, which Run guarantees to be the
// caller-supplied backend order, so the call is deterministic.
//
// A failure here is fatal to the whole run: there is no partial
// artifact to fall back to.
func Synthesize(ctx context.Context, outcome Outcome, invoke backend.Invoker, opts SynthesizeOpts) (string, error) {
	sources := BuildSynthesisSources(outcome.Results)
	if sources == NoSourcesMarker {
		log.Printf("review: no backend produced output; synthesizing degraded artifact")
	}

	instruction := opts.Instruction
	if instruction == "" {
		instruction = SynthesisInstruction
	}
	req := backend.Request{
		System: opts.System,
		User: []string{
			opts.Template,
			instruction,
			sources,
		},
		CorrelationID: opts.CorrelationID,
	}

	out, err := invoke(ctx, opts.BaseBackend, req)
	if err != nil {
		return "", fmt.Errorf("synthesize with %s: %w", opts.BaseBackend, err)
	}
	return out, nil
}
