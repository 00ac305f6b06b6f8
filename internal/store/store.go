// Package store provides persistence for days, updates, and strategic
// notes, with interchangeable SQLite and Firestore backends.
package store

import (
	"context"

	"github.com/abhijeet/cadence/internal/models"
)

// Store defines the record store contract. Consumers should depend on
// this interface rather than a concrete backend to facilitate testing
// with mocks.
type Store interface {
	// LatestDay returns the Day with the greatest day number, or
	// apperr.ErrNotFound when no Day exists yet.
	LatestDay(ctx context.Context) (*models.Day, error)

	// RecentSummaries returns up to n most recent non-null summaries,
	// most recent first.
	RecentSummaries(ctx context.Context, n int) ([]string, error)

	// UpdatesForDay returns all update texts for a day in insertion order.
	UpdatesForDay(ctx context.Context, dayNumber int) ([]string, error)

	// CreateDay inserts a new Day with a null summary. Returns
	// apperr.ErrDayExists when the day number is already taken.
	CreateDay(ctx context.Context, dayNumber int, date, targets string) error

	// SetSummary fills in a Day's retrospective summary. Returns
	// apperr.ErrNotFound when the day number is unknown.
	SetSummary(ctx context.Context, dayNumber int, summary string) error

	// AddUpdate appends a progress update against a day.
	AddUpdate(ctx context.Context, dayNumber int, text string) error

	// AddNote appends a standalone strategic note.
	AddNote(ctx context.Context, text string) error

	Close() error
}

// Verify both backends satisfy Store at compile time.
var (
	_ Store = (*SQLite)(nil)
	_ Store = (*Firestore)(nil)
)
