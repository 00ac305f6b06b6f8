package store

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/abhijeet/cadence/internal/apperr"
)

func testStore(t *testing.T) *SQLite {
	t.Helper()
	f, err := os.CreateTemp("", "cadence-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	s, err := OpenSQLite(f.Name())
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLatestDayEmpty(t *testing.T) {
	s := testStore(t)
	_, err := s.LatestDay(context.Background())
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestLatestDayReturnsMax(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)

	for _, n := range []int{1, 2, 3} {
		if err := s.CreateDay(ctx, n, "2026-08-30", "plan"); err != nil {
			t.Fatalf("CreateDay(%d): %v", n, err)
		}
	}

	day, err := s.LatestDay(ctx)
	if err != nil {
		t.Fatalf("LatestDay: %v", err)
	}
	if day.DayNumber != 3 {
		t.Errorf("day number = %d, want 3", day.DayNumber)
	}
	if day.Summary != nil {
		t.Errorf("new day summary = %q, want nil", *day.Summary)
	}
}

func TestCreateDayDuplicate(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)

	if err := s.CreateDay(ctx, 1, "2026-08-30", "plan"); err != nil {
		t.Fatalf("first CreateDay: %v", err)
	}
	err := s.CreateDay(ctx, 1, "2026-08-30", "other plan")
	if !errors.Is(err, apperr.ErrDayExists) {
		t.Fatalf("duplicate CreateDay err = %v, want ErrDayExists", err)
	}
}

func TestSetSummary(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)

	if err := s.SetSummary(ctx, 42, "never existed"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("SetSummary on missing day err = %v, want ErrNotFound", err)
	}

	if err := s.CreateDay(ctx, 1, "2026-08-30", "plan"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetSummary(ctx, 1, "first"); err != nil {
		t.Fatalf("SetSummary: %v", err)
	}
	// Last write observed.
	if err := s.SetSummary(ctx, 1, "second"); err != nil {
		t.Fatalf("SetSummary again: %v", err)
	}

	day, err := s.LatestDay(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if day.Summary == nil || *day.Summary != "second" {
		t.Errorf("summary = %v, want %q", day.Summary, "second")
	}
}

func TestRecentSummariesCapAndSkipNull(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)

	for n := 1; n <= 10; n++ {
		if err := s.CreateDay(ctx, n, "2026-08-30", "plan"); err != nil {
			t.Fatal(err)
		}
	}
	// Close every other day; the rest keep a null summary.
	for n := 2; n <= 10; n += 2 {
		if err := s.SetSummary(ctx, n, "summary "+string(rune('0'+n/2))); err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.RecentSummaries(ctx, 7)
	if err != nil {
		t.Fatalf("RecentSummaries: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("len = %d, want 5 (only closed days)", len(got))
	}
	if got[0] != "summary 5" {
		t.Errorf("first = %q, want most recent summary", got[0])
	}

	got, err = s.RecentSummaries(ctx, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Errorf("len = %d, want at most 3", len(got))
	}
}

func TestUpdatesForDayInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)

	if err := s.CreateDay(ctx, 1, "2026-08-30", "plan"); err != nil {
		t.Fatal(err)
	}
	for _, text := range []string{"did X", "did Y", "did Z"} {
		if err := s.AddUpdate(ctx, 1, text); err != nil {
			t.Fatalf("AddUpdate(%q): %v", text, err)
		}
	}
	// Another day's updates must not leak in.
	if err := s.CreateDay(ctx, 2, "2026-08-31", "plan"); err != nil {
		t.Fatal(err)
	}
	if err := s.AddUpdate(ctx, 2, "other day"); err != nil {
		t.Fatal(err)
	}

	got, err := s.UpdatesForDay(ctx, 1)
	if err != nil {
		t.Fatalf("UpdatesForDay: %v", err)
	}
	want := []string{"did X", "did Y", "did Z"}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("updates[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestAddNote(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)

	if err := s.AddNote(ctx, "ship the beta this month"); err != nil {
		t.Fatalf("AddNote: %v", err)
	}

	var count int
	if err := s.conn.QueryRow(`SELECT count(*) FROM strategic_notes`).Scan(&count); err != nil {
		t.Fatalf("count notes: %v", err)
	}
	if count != 1 {
		t.Errorf("notes = %d, want 1", count)
	}
}
