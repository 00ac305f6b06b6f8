// Package planner turns day data into prompts and delegates them to the
// assistant thread.
package planner

import (
	"context"
	"fmt"

	"github.com/abhijeet/cadence/internal/assistant"
)

// Planner builds prompts from day data and runs them against the
// long-lived assistant conversation.
type Planner struct {
	runner    assistant.Runner
	templates *Templates
}

// New creates a Planner on top of an assistant runner.
func New(runner assistant.Runner, templates *Templates) *Planner {
	return &Planner{runner: runner, templates: templates}
}

// Summarize asks for a 2–3 line retrospective of the previous day.
func (p *Planner) Summarize(ctx context.Context, prevData string) (assistant.Result, error) {
	return p.runner.RunAndWait(ctx, p.templates.RenderSummary(prevData))
}

// Plan asks for the structured, time-blocked plan for the new day.
func (p *Planner) Plan(ctx context.Context, prevData, trend string) (assistant.Result, error) {
	return p.runner.RunAndWait(ctx, p.templates.RenderPlan(prevData, trend))
}

// InjectContext appends a strategic note to the assistant conversation
// without starting a run, so future generations see it.
func (p *Planner) InjectContext(ctx context.Context, note string) error {
	return p.runner.AddMessage(ctx, fmt.Sprintf("Strategic Update:\n%s", note))
}
