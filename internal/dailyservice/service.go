// Package dailyservice coordinates the store, planner, and notifier into
// the daily accountability cycle.
package dailyservice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/abhijeet/cadence/internal/apperr"
	"github.com/abhijeet/cadence/internal/assistant"
	"github.com/abhijeet/cadence/internal/models"
	"github.com/abhijeet/cadence/internal/notifier"
	"github.com/abhijeet/cadence/internal/store"
)

// Placeholder texts fed to the planner when there is nothing to report.
const (
	noPreviousData    = "No previous data."
	noUpdateSubmitted = "No update submitted."
)

// trendWindow is how many recent summaries form the long-term context.
const trendWindow = 7

// Cycle result statuses.
const (
	StatusEmailSent        = "email_sent"
	StatusEmailSuppressed  = "email_suppressed"
	StatusAlreadyGenerated = "already_generated"
)

// Generator is the planner surface the service depends on.
type Generator interface {
	Summarize(ctx context.Context, prevData string) (assistant.Result, error)
	Plan(ctx context.Context, prevData, trend string) (assistant.Result, error)
	InjectContext(ctx context.Context, note string) error
}

// CycleResult reports the outcome of one daily cycle.
type CycleResult struct {
	Status     string `json:"status"`
	Day        int    `json:"day"`
	PlanFailed bool   `json:"plan_failed,omitempty"`
}

// Options tune cycle behavior.
type Options struct {
	// OncePerDay guards against duplicate cycles on the same calendar
	// day: a repeat trigger returns the existing day number instead of
	// generating a new Day.
	OncePerDay bool
	// SuppressFailedPlanMail skips email delivery when the assistant run
	// failed and the plan is only the failure sentinel. The sentinel is
	// still persisted as the day's targets.
	SuppressFailedPlanMail bool
	// Now overrides the clock (tests).
	Now func() time.Time
}

// Service implements the daily accountability workflow.
type Service struct {
	store    store.Store
	gen      Generator
	notifier notifier.Notifier
	opts     Options

	flight singleflight.Group
}

// New creates a Service.
func New(st store.Store, gen Generator, n notifier.Notifier, opts Options) *Service {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{store: st, gen: gen, notifier: n, opts: opts}
}

// RunDailyCycle closes the previous Day (summary), generates and stores
// the next Day's plan, and emails it. Concurrent triggers for the same
// calendar date coalesce into a single cycle.
func (s *Service) RunDailyCycle(ctx context.Context) (CycleResult, error) {
	date := s.opts.Now().Format("2006-01-02")
	v, err, _ := s.flight.Do(date, func() (any, error) {
		return s.runCycle(ctx, date)
	})
	if err != nil {
		return CycleResult{}, err
	}
	return v.(CycleResult), nil
}

func (s *Service) runCycle(ctx context.Context, date string) (CycleResult, error) {
	lastNumber := 0
	prevData := noPreviousData

	last, err := s.store.LatestDay(ctx)
	switch {
	case err == nil:
		if s.opts.OncePerDay && last.Date == date {
			return CycleResult{Status: StatusAlreadyGenerated, Day: last.DayNumber}, nil
		}
		lastNumber = last.DayNumber

		updates, err := s.store.UpdatesForDay(ctx, lastNumber)
		if err != nil {
			return CycleResult{}, err
		}
		if len(updates) > 0 {
			prevData = strings.Join(updates, "\n")
		} else {
			prevData = noUpdateSubmitted
		}

		summary, err := s.gen.Summarize(ctx, prevData)
		if err != nil {
			return CycleResult{}, fmt.Errorf("summarize day %d: %w", lastNumber, err)
		}
		if err := s.store.SetSummary(ctx, lastNumber, summary.Text); err != nil {
			return CycleResult{}, err
		}

	case errors.Is(err, apperr.ErrNotFound):
		// First ever cycle.

	default:
		return CycleResult{}, err
	}

	summaries, err := s.store.RecentSummaries(ctx, trendWindow)
	if err != nil {
		return CycleResult{}, err
	}
	trend := strings.Join(summaries, "\n")

	plan, err := s.gen.Plan(ctx, prevData, trend)
	if err != nil {
		return CycleResult{}, fmt.Errorf("generate plan: %w", err)
	}

	dayNumber := lastNumber + 1
	if err := s.store.CreateDay(ctx, dayNumber, date, plan.Text); err != nil {
		return CycleResult{}, err
	}

	if plan.Failed && s.opts.SuppressFailedPlanMail {
		return CycleResult{Status: StatusEmailSuppressed, Day: dayNumber, PlanFailed: true}, nil
	}

	if err := s.notifier.Send(ctx, fmt.Sprintf("Day %d", dayNumber), plan.Text); err != nil {
		return CycleResult{}, err
	}
	return CycleResult{Status: StatusEmailSent, Day: dayNumber, PlanFailed: plan.Failed}, nil
}

// Checkin appends a progress update against the current Day. Empty text
// is a no-op. Returns apperr.ErrNotFound when no Day exists yet.
func (s *Service) Checkin(ctx context.Context, text string) error {
	if text == "" {
		return nil
	}
	last, err := s.store.LatestDay(ctx)
	if err != nil {
		return err
	}
	return s.store.AddUpdate(ctx, last.DayNumber, text)
}

// AddNote stores a strategic note and injects it into the assistant
// conversation so future plan generations see it. Empty text is a
// no-op. The two writes are independent; the store write happens first.
func (s *Service) AddNote(ctx context.Context, text string) error {
	if text == "" {
		return nil
	}
	if err := s.store.AddNote(ctx, text); err != nil {
		return err
	}
	return s.gen.InjectContext(ctx, text)
}

// LatestDay returns the current Day.
func (s *Service) LatestDay(ctx context.Context) (*models.Day, error) {
	return s.store.LatestDay(ctx)
}

// RecentSummaries returns up to n most recent closed-day summaries.
func (s *Service) RecentSummaries(ctx context.Context, n int) ([]string, error) {
	return s.store.RecentSummaries(ctx, n)
}
