package handlers

import (
	"net/http"
)

// Marketing returns the public platform counters shown on the home page.
func (h *Handlers) Marketing(w http.ResponseWriter, r *http.Request) {
	view, err := h.tracker.Marketing()
	if err != nil {
		h.writeError(w, "Marketing", err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Dashboard returns today's sessions, the week and month breakdowns and
// the recent history for the current user.
func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)
	view, err := h.tracker.Dashboard(user.ID)
	if err != nil {
		h.writeError(w, "Dashboard", err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Statistics returns the stats page data for the current user.
func (h *Handlers) Statistics(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)
	view, err := h.tracker.Stats(user.ID)
	if err != nil {
		h.writeError(w, "Statistics", err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
