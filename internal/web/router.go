// Package web implements the Cadence HTTP surface using chi.
package web

import (
	"github.com/go-chi/chi/v5"

	"github.com/abhijeet/cadence/internal/dailyservice"
)

// NewRouter creates a chi router with all routes mounted.
func NewRouter(svc *dailyservice.Service) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()

	r.Get("/send_daily_email", h.SendDailyEmail)
	r.Get("/dashboard", h.Dashboard)
	r.Post("/daily_checkin", h.DailyCheckin)
	r.Post("/add_note", h.AddNote)

	return r
}
