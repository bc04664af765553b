package review

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/jalajpachoulydell/smart-code-review/internal/backend"
)

func TestBuildSynthesisSources(t *testing.T) {
	results := []TaskResult{
		{BackendID: "alpha", Output: "finding A", Status: TaskDone},
		{BackendID: "beta", Status: TaskFailed, Error: "timeout"},
		{BackendID: "gamma", Output: "finding C", Status: TaskDone},
	}

	got := BuildSynthesisSources(results)
	ia := strings.Index(got, "### Model: alpha")
	ic := strings.Index(got, "### Model: gamma")
	if ia < 0 || ic < 0 {
		t.Fatalf("missing source sections:\n%s", got)
	}
	if ia > ic {
		t.Error("sources not in result order")
	}
	if strings.Contains(got, "beta") {
		t.Error("failed backend must not appear as a source")
	}
}

func TestBuildSynthesisSources_AllEmpty(t *testing.T) {
	results := []TaskResult{
		{BackendID: "alpha", Status: TaskFailed, Error: "x"},
		{BackendID: "beta", Status: TaskFailed, Error: "y"},
	}
	if got := BuildSynthesisSources(results); got != NoSourcesMarker {
		t.Errorf("BuildSynthesisSources = %q, want marker", got)
	}
}

func TestBuildSynthesisSources_Truncates(t *testing.T) {
	long := strings.Repeat("z", maxPerSource+1000)
	got := BuildSynthesisSources([]TaskResult{
		{BackendID: "alpha", Output: long, Status: TaskDone},
	})
	if len(got) > maxPerSource+200 {
		t.Errorf("source not truncated, len=%d", len(got))
	}
	if !strings.Contains(got, "(truncated)") {
		t.Error("missing truncation note")
	}
}

func TestSynthesize_CallsBaseOnce(t *testing.T) {
	outcome := Outcome{Results: []TaskResult{
		{BackendID: "alpha", Output: "review one", Status: TaskDone},
		{BackendID: "beta", Output: "review two", Status: TaskDone},
	}}

	calls := 0
	var gotID string
	var gotReq backend.Request
	invoke := func(_ context.Context, id string, req backend.Request) (string, error) {
		calls++
		gotID = id
		gotReq = req
		return "merged artifact", nil
	}

	out, err := Synthesize(context.Background(), outcome, invoke,
		SynthesizeOpts{
			BaseBackend: "base-model",
			System:      "sys",
			Template:    "tmpl",
		})
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if out != "merged artifact" {
		t.Errorf("artifact = %q", out)
	}
	if calls != 1 {
		t.Errorf("base backend invoked %d times, want 1", calls)
	}
	if gotID != "base-model" {
		t.Errorf("base backend id = %q", gotID)
	}
	if len(gotReq.User) != 3 {
		t.Fatalf("expected 3 user parts, got %d", len(gotReq.User))
	}
	if !strings.Contains(gotReq.User[2], "### Model: alpha") ||
		!strings.Contains(gotReq.User[2], "### Model: beta") {
		t.Error("sources payload missing model sections")
	}
}

func TestSynthesize_AllEmptyProducesArtifact(t *testing.T) {
	outcome := Outcome{Results: []TaskResult{
		{BackendID: "alpha", Status: TaskFailed, Error: "down"},
	}}

	invoke := func(_ context.Context, _ string, req backend.Request) (string, error) {
		if req.User[len(req.User)-1] != NoSourcesMarker {
			t.Errorf("expected no-sources marker, got %q",
				req.User[len(req.User)-1])
		}
		return "degraded artifact", nil
	}

	out, err := Synthesize(context.Background(), outcome, invoke,
		SynthesizeOpts{BaseBackend: "base"})
	if err != nil {
		t.Fatalf("Synthesize must not fail on empty sources: %v", err)
	}
	if out != "degraded artifact" {
		t.Errorf("artifact = %q", out)
	}
}

func TestSynthesize_InstructionOverride(t *testing.T) {
	outcome := Outcome{Results: []TaskResult{
		{BackendID: "alpha", Output: "summary", Status: TaskDone},
	}}

	var gotReq backend.Request
	invoke := func(_ context.Context, _ string, req backend.Request) (string, error) {
		gotReq = req
		return "merged", nil
	}

	_, err := Synthesize(context.Background(), outcome, invoke,
		SynthesizeOpts{
			BaseBackend: "base",
			Instruction: "merge the per-commit summaries",
		})
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if gotReq.User[1] != "merge the per-commit summaries" {
		t.Errorf("instruction = %q", gotReq.User[1])
	}

	_, err = Synthesize(context.Background(), outcome, invoke,
		SynthesizeOpts{BaseBackend: "base"})
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if gotReq.User[1] != SynthesisInstruction {
		t.Error("empty Instruction should fall back to the default")
	}
}

func TestSynthesize_FailureIsFatal(t *testing.T) {
	outcome := Outcome{Results: []TaskResult{
		{BackendID: "alpha", Output: "x", Status: TaskDone},
	}}
	invoke := func(context.Context, string, backend.Request) (string, error) {
		return "", fmt.Errorf("rate limited")
	}

	out, err := Synthesize(context.Background(), outcome, invoke,
		SynthesizeOpts{BaseBackend: "base"})
	if err == nil {
		t.Fatal("expected error")
	}
	if out != "" {
		t.Errorf("no artifact expected on synthesis failure, got %q", out)
	}
	if !strings.Contains(err.Error(), "rate limited") {
		t.Errorf("error should wrap the cause: %v", err)
	}
}
