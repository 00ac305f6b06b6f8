package store

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/abhijeet/cadence/internal/apperr"
	"github.com/abhijeet/cadence/internal/models"
)

// Firestore collection names.
const (
	colDays    = "days"
	colUpdates = "updates"
	colNotes   = "notes"
)

// Firestore is the cloud document store backend. Credentials are picked
// up from the environment (application default credentials, auto-auth on
// Cloud Run).
type Firestore struct {
	client *firestore.Client
}

// OpenFirestore connects to the named project. An empty projectID lets
// the client library detect it from the environment.
func OpenFirestore(ctx context.Context, projectID string) (*Firestore, error) {
	if projectID == "" {
		projectID = firestore.DetectProjectID
	}
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("store: firestore client: %w", err)
	}
	return &Firestore{client: client}, nil
}

// Close closes the underlying client.
func (s *Firestore) Close() error {
	return s.client.Close()
}

func dayDocID(dayNumber int) string {
	return fmt.Sprintf("day_%d", dayNumber)
}

// LatestDay returns the Day with the greatest day number.
func (s *Firestore) LatestDay(ctx context.Context) (*models.Day, error) {
	iter := s.client.Collection(colDays).
		OrderBy("day_number", firestore.Desc).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if errors.Is(err, iterator.Done) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: latest day: %w", err)
	}
	return dayFromDoc(doc)
}

// RecentSummaries returns up to n most recent non-null summaries, most
// recent first. Firestore cannot filter on null inequality, so the scan
// walks days newest-first and skips the still-open ones until n
// summaries are collected.
func (s *Firestore) RecentSummaries(ctx context.Context, n int) ([]string, error) {
	iter := s.client.Collection(colDays).
		OrderBy("day_number", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	var out []string
	for len(out) < n {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("store: recent summaries: %w", err)
		}
		day, err := dayFromDoc(doc)
		if err != nil {
			return nil, err
		}
		if day.Summary != nil && *day.Summary != "" {
			out = append(out, *day.Summary)
		}
	}
	return out, nil
}

// UpdatesForDay returns all update texts for a day.
func (s *Firestore) UpdatesForDay(ctx context.Context, dayNumber int) ([]string, error) {
	iter := s.client.Collection(colUpdates).
		Where("day_number", "==", dayNumber).
		Documents(ctx)
	defer iter.Stop()

	var out []string
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("store: updates for day: %w", err)
		}
		if text, err := doc.DataAt("text"); err == nil {
			if str, ok := text.(string); ok {
				out = append(out, str)
			}
		}
	}
	return out, nil
}

// CreateDay inserts a new Day with a null summary. Create fails when the
// document already exists, which maps to apperr.ErrDayExists.
func (s *Firestore) CreateDay(ctx context.Context, dayNumber int, date, targets string) error {
	_, err := s.client.Collection(colDays).Doc(dayDocID(dayNumber)).Create(ctx, map[string]any{
		"day_number": dayNumber,
		"date":       date,
		"targets":    targets,
		"summary":    nil,
	})
	if status.Code(err) == codes.AlreadyExists {
		return apperr.ErrDayExists
	}
	if err != nil {
		return fmt.Errorf("store: create day: %w", err)
	}
	return nil
}

// SetSummary fills in a Day's retrospective summary.
func (s *Firestore) SetSummary(ctx context.Context, dayNumber int, summary string) error {
	_, err := s.client.Collection(colDays).Doc(dayDocID(dayNumber)).Update(ctx, []firestore.Update{
		{Path: "summary", Value: summary},
	})
	if status.Code(err) == codes.NotFound {
		return apperr.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("store: set summary: %w", err)
	}
	return nil
}

// AddUpdate appends a progress update against a day.
func (s *Firestore) AddUpdate(ctx context.Context, dayNumber int, text string) error {
	_, _, err := s.client.Collection(colUpdates).Add(ctx, map[string]any{
		"day_number": dayNumber,
		"text":       text,
		"timestamp":  firestore.ServerTimestamp,
	})
	if err != nil {
		return fmt.Errorf("store: add update: %w", err)
	}
	return nil
}

// AddNote appends a standalone strategic note.
func (s *Firestore) AddNote(ctx context.Context, text string) error {
	_, _, err := s.client.Collection(colNotes).Add(ctx, map[string]any{
		"text":      text,
		"timestamp": firestore.ServerTimestamp,
	})
	if err != nil {
		return fmt.Errorf("store: add note: %w", err)
	}
	return nil
}

func dayFromDoc(doc *firestore.DocumentSnapshot) (*models.Day, error) {
	var raw struct {
		DayNumber int     `firestore:"day_number"`
		Date      string  `firestore:"date"`
		Targets   string  `firestore:"targets"`
		Summary   *string `firestore:"summary"`
	}
	if err := doc.DataTo(&raw); err != nil {
		return nil, fmt.Errorf("store: decode day: %w", err)
	}
	return &models.Day{
		DayNumber: raw.DayNumber,
		Date:      raw.Date,
		Targets:   raw.Targets,
		Summary:   raw.Summary,
	}, nil
}
