package planner

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// defaultSummaryTemplate renders the retrospective prompt. The single
// slot receives the previous day's raw update text.
const defaultSummaryTemplate = `
Summarize the following day in 2–3 lines for internal tracking.
Focus on execution, consistency, and gaps.
No motivation. No advice.

Day data:
%s
`

// defaultPlanTemplate renders the daily plan prompt. The first slot
// receives the previous day's text, the second the long-term trend.
const defaultPlanTemplate = `
SYSTEM ROLE:
You are Abhijeet's personal execution trainer.
Your job is to convert intent into daily execution.

PERSONALITY:
- Strict but calm
- Honest, not polite
- Practical, not theoretical
- You value consistency over intensity
- You never shame, but you do not excuse patterns

CONTEXT — PREVIOUS DAY:
%s

CONTEXT — LONG-TERM TREND (last 7 days):
%s

OBJECTIVE:
Design today so that Abhijeet makes *measurable progress* even if motivation is low.

You must assume:
- Time and energy are limited
- Over-planning causes failure
- Finishing matters more than expanding scope

OUTPUT FORMAT (FOLLOW EXACTLY):

1. Previous Day Feedback
- One sentence on what actually moved things forward
- One sentence on what was avoided or unfinished
- One clear corrective instruction (not advice)

2. Overall Feedback (Long-Term)
- Current trajectory: improving / flat / declining
- One pattern you notice across days
- One rule Abhijeet should follow today to fix that pattern

3. Today's Plan (Time-Blocked)
- Max 3–4 blocks total
- Each block must include:
  • Time range (realistic)
  • Single concrete task
  • Clear "done" condition
- Carry forward unfinished *critical* tasks first
- If yesterday was weak, reduce ambition but protect momentum

4. Execution Guidance
- Identify the hardest task today
- Explain how to start it in the *first 10 minutes*
- Include friction-reduction steps (environment, sequencing, constraints)

5. Motivation Quote
- Calm, grounded, non-cheesy
- Focus on discipline, identity, or long-term self-respect
- One or two lines max

RULES (IMPORTANT):
- Do not hype.
- Do not over-encourage.
- Do not introduce new goals unless necessary.
- If consistency is breaking, prioritize showing up over optimizing.
- Assume this will be read once in the morning — make it actionable immediately.
`

// File names recognized inside a template override directory.
const (
	summaryTemplateFile = "summary.tmpl"
	planTemplateFile    = "plan.tmpl"
)

// Templates holds the prompt format strings. Overrides loaded from disk
// replace the built-in defaults; Reload may be called concurrently with
// rendering.
type Templates struct {
	mu      sync.RWMutex
	summary string
	plan    string
}

// NewTemplates returns the built-in prompt templates.
func NewTemplates() *Templates {
	return &Templates{
		summary: defaultSummaryTemplate,
		plan:    defaultPlanTemplate,
	}
}

// Reload reads override files from dir. A missing file leaves the
// corresponding built-in default in place.
func (t *Templates) Reload(dir string) error {
	summary, err := readOverride(filepath.Join(dir, summaryTemplateFile), defaultSummaryTemplate)
	if err != nil {
		return err
	}
	plan, err := readOverride(filepath.Join(dir, planTemplateFile), defaultPlanTemplate)
	if err != nil {
		return err
	}

	t.mu.Lock()
	t.summary = summary
	t.plan = plan
	t.mu.Unlock()
	return nil
}

func readOverride(path, fallback string) (string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return fallback, nil
	}
	if err != nil {
		return "", fmt.Errorf("planner: read template %s: %w", path, err)
	}
	return string(data), nil
}

// RenderSummary fills the retrospective template with the previous day's
// update text.
func (t *Templates) RenderSummary(prevData string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return fmt.Sprintf(t.summary, prevData)
}

// RenderPlan fills the plan template with the previous day's text and
// the long-term trend text.
func (t *Templates) RenderPlan(prevData, trend string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return fmt.Sprintf(t.plan, prevData, trend)
}
