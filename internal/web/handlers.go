package web

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/abhijeet/cadence/internal/apperr"
	"github.com/abhijeet/cadence/internal/dailyservice"
)

// Handler holds the HTTP route handlers.
type Handler struct {
	svc *dailyservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *dailyservice.Service) *Handler {
	return &Handler{svc: svc}
}

// SendDailyEmail handles GET /send_daily_email: run the full daily
// cycle and report the day number reached.
func (h *Handler) SendDailyEmail(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.RunDailyCycle(r.Context())
	if err != nil {
		slog.Error("daily cycle failed", slog.String("error", err.Error()))
		status := http.StatusInternalServerError
		if errors.Is(err, apperr.ErrRunTimeout) {
			status = http.StatusGatewayTimeout
		}
		writeJSON(w, status, errorBody("daily cycle failed"))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Dashboard handles GET /dashboard: the static check-in form.
func (h *Handler) Dashboard(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(dashboardHTML))
}

// DailyCheckin handles POST /daily_checkin: append a progress update
// against the current day. An empty submission is a no-op redirect.
func (h *Handler) DailyCheckin(w http.ResponseWriter, r *http.Request) {
	text := r.PostFormValue("completed")
	if text == "" {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	if err := h.svc.Checkin(r.Context(), text); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte("Generate daily plan first."))
			return
		}
		slog.Error("checkin failed", slog.String("error", err.Error()))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// AddNote handles POST /add_note: store a strategic note and inject it
// into the assistant conversation. An empty submission is a no-op
// redirect.
func (h *Handler) AddNote(w http.ResponseWriter, r *http.Request) {
	note := r.PostFormValue("note")
	if note == "" {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	if err := h.svc.AddNote(r.Context(), note); err != nil {
		slog.Error("add note failed", slog.String("error", err.Error()))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}
