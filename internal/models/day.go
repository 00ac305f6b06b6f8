// Package models defines the domain types for Cadence.
package models

// Day represents one cycle of the accountability loop: a generated plan
// plus, once the next cycle closes it, a retrospective summary.
//
// Updates (progress entries against a Day) and strategic notes are
// write-only from the application's point of view and travel as plain
// strings; only the Day round-trips.
type Day struct {
	DayNumber int     `json:"day_number"`
	Date      string  `json:"date"` // calendar date of creation, YYYY-MM-DD
	Targets   string  `json:"targets"`
	Summary   *string `json:"summary,omitempty"` // nil until the day is closed
}
