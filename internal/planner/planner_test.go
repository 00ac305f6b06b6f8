package planner

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/abhijeet/cadence/internal/assistant"
)

// stubRunner records prompts and returns a canned result.
type stubRunner struct {
	prompts  []string
	injected []string
	result   assistant.Result
}

func (s *stubRunner) RunAndWait(_ context.Context, message string) (assistant.Result, error) {
	s.prompts = append(s.prompts, message)
	return s.result, nil
}

func (s *stubRunner) AddMessage(_ context.Context, content string) error {
	s.injected = append(s.injected, content)
	return nil
}

func TestSummarizeRendersPrevData(t *testing.T) {
	runner := &stubRunner{result: assistant.Result{Text: "summary"}}
	p := New(runner, NewTemplates())

	res, err := p.Summarize(context.Background(), "did X\ndid Y")
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if res.Text != "summary" {
		t.Errorf("text = %q", res.Text)
	}
	if len(runner.prompts) != 1 {
		t.Fatalf("prompts = %d, want 1", len(runner.prompts))
	}
	prompt := runner.prompts[0]
	if !strings.Contains(prompt, "did X\ndid Y") {
		t.Error("prompt should contain the previous day data")
	}
	if !strings.Contains(prompt, "Summarize the following day") {
		t.Error("prompt should use the summary template")
	}
}

func TestPlanRendersBothSlots(t *testing.T) {
	runner := &stubRunner{result: assistant.Result{Text: "plan"}}
	p := New(runner, NewTemplates())

	if _, err := p.Plan(context.Background(), "prev day text", "trend text"); err != nil {
		t.Fatalf("Plan: %v", err)
	}
	prompt := runner.prompts[0]
	for _, want := range []string{"prev day text", "trend text", "Time-Blocked", "Do not hype."} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestInjectContext(t *testing.T) {
	runner := &stubRunner{}
	p := New(runner, NewTemplates())

	if err := p.InjectContext(context.Background(), "pivot to the beta"); err != nil {
		t.Fatalf("InjectContext: %v", err)
	}
	if len(runner.injected) != 1 {
		t.Fatalf("injected = %d, want 1", len(runner.injected))
	}
	if runner.injected[0] != "Strategic Update:\npivot to the beta" {
		t.Errorf("injected = %q", runner.injected[0])
	}
	if len(runner.prompts) != 0 {
		t.Error("InjectContext must not start a run")
	}
}

func TestTemplateOverrideReload(t *testing.T) {
	dir := t.TempDir()
	override := filepath.Join(dir, summaryTemplateFile)
	if err := os.WriteFile(override, []byte("Short recap only:\n%s"), 0o644); err != nil {
		t.Fatal(err)
	}

	tpl := NewTemplates()
	if err := tpl.Reload(dir); err != nil {
		t.Fatalf("Reload: %v", err)
	}

	got := tpl.RenderSummary("day data")
	if got != "Short recap only:\nday data" {
		t.Errorf("rendered = %q", got)
	}
	// Plan template had no override file and keeps the default.
	if !strings.Contains(tpl.RenderPlan("a", "b"), "SYSTEM ROLE") {
		t.Error("plan template should fall back to the default")
	}
}
