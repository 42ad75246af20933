package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"habitledger/internal/core"
)

const (
	flashSuccess = "success"
	flashError   = "error"
)

// redirectWithFlash sends the POST-redirect-GET hop back to the index page
// with a one-shot message carried in the query string.
func redirectWithFlash(w http.ResponseWriter, r *http.Request, kind, message string) {
	q := url.Values{}
	q.Set("flash", message)
	q.Set("kind", kind)
	http.Redirect(w, r, "/?"+q.Encode(), http.StatusSeeOther)
}

// flashForError maps ledger errors to the user-facing message. Validation and
// not-found errors are recovered here; the request aborts with no mutation
// and the next render shows the message.
func flashForError(err error) string {
	switch {
	case errors.Is(err, core.ErrInvalidAmount):
		return "Please enter a valid amount"
	case errors.Is(err, core.ErrInvalidQuantity), errors.Is(err, core.ErrInvalidHabitID):
		return "Please enter valid values"
	case errors.Is(err, core.ErrEmptyDescription):
		return "Please enter a description"
	case errors.Is(err, core.ErrBountyNotFound):
		return "Bounty not found"
	case errors.Is(err, core.ErrBountyCompleted):
		return "Bounty already completed"
	default:
		return "Something went wrong, please try again"
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	flash := sanitizeInput(r.URL.Query().Get("flash"))
	kind := r.URL.Query().Get("kind")
	if kind != flashSuccess {
		kind = flashError
	}
	if flash == "" {
		kind = ""
	}

	view, err := s.buildIndexView(r.Context(), flash, kind)
	if err != nil {
		slog.ErrorContext(r.Context(), "Index view error", "error", err)
		http.Error(w, "could not load ledger", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "index.html", view); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err, "template", "index.html")
	}
}

func (s *Server) handleAddHabit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectWithFlash(w, r, flashError, "Invalid request format")
		return
	}

	cmd, err := parseHabitForm(r.Form)
	if err != nil {
		redirectWithFlash(w, r, flashError, flashForError(err))
		return
	}

	if _, err := s.svc.CreateHabit(r.Context(), cmd); err != nil {
		slog.ErrorContext(r.Context(), "Create habit failed", "error", err, "description", cmd.Description)
		redirectWithFlash(w, r, flashError, flashForError(err))
		return
	}

	redirectWithFlash(w, r, flashSuccess, "Habit added successfully!")
}

func (s *Server) handleAddTransaction(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectWithFlash(w, r, flashError, "Invalid request format")
		return
	}

	cmd, err := parseTransactionForm(r.Form)
	if err != nil {
		redirectWithFlash(w, r, flashError, flashForError(err))
		return
	}

	if _, err := s.svc.LogCompletion(r.Context(), cmd); err != nil {
		slog.ErrorContext(r.Context(), "Log completion failed", "error", err, "habit_id", cmd.HabitID)
		redirectWithFlash(w, r, flashError, flashForError(err))
		return
	}

	redirectWithFlash(w, r, flashSuccess,
		fmt.Sprintf("Transaction added successfully! (%dx)", cmd.Quantity))
}

func (s *Server) handleAddBounty(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectWithFlash(w, r, flashError, "Invalid request format")
		return
	}

	cmd, err := parseBountyForm(r.Form)
	if err != nil {
		redirectWithFlash(w, r, flashError, flashForError(err))
		return
	}

	if _, err := s.svc.CreateBounty(r.Context(), cmd); err != nil {
		slog.ErrorContext(r.Context(), "Create bounty failed", "error", err, "description", cmd.Description)
		redirectWithFlash(w, r, flashError, flashForError(err))
		return
	}

	redirectWithFlash(w, r, flashSuccess, "Bounty added successfully!")
}

func (s *Server) handleCompleteBounty(w http.ResponseWriter, r *http.Request) {
	idParam := strings.TrimSpace(chi.URLParam(r, "bountyID"))
	bountyID, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil {
		redirectWithFlash(w, r, flashError, "Bounty not found")
		return
	}

	if _, err := s.svc.CompleteBounty(r.Context(), bountyID); err != nil {
		slog.WarnContext(r.Context(), "Complete bounty failed", "error", err, "bounty_id", bountyID)
		redirectWithFlash(w, r, flashError, flashForError(err))
		return
	}

	msg := "Bounty completed!"
	if b, err := s.svc.Bounty(r.Context(), bountyID); err == nil {
		msg = fmt.Sprintf("Bounty completed: %s added to balance!", b.Reward.Dollars())
	}
	redirectWithFlash(w, r, flashSuccess, msg)
}

// handleToggleTheme acknowledges the client-side theme switch. The preference
// lives in the browser; there is nothing to persist here.
func (s *Server) handleToggleTheme(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "success"})
}
