package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"focus-tracker/internal/auth"
	"focus-tracker/internal/models"
	"focus-tracker/internal/storage"
	"focus-tracker/internal/tracker"
)

// Context key type to avoid collisions.
type contextKey string

const (
	// UserContextKey is the context key for the authenticated user.
	UserContextKey contextKey = "user"
	// SessionCookieName is the name of the login session cookie.
	SessionCookieName = "session"
	// DefaultSessionTTL is how long login sessions last (30 days).
	DefaultSessionTTL = 30 * 24 * time.Hour
)

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	db           *storage.DB
	tracker      *tracker.Service
	secureCookie bool
	sessionTTL   time.Duration
	now          func() time.Time
}

// NewHandlers creates a new Handlers instance. A zero sessionTTL uses
// DefaultSessionTTL.
func NewHandlers(db *storage.DB, svc *tracker.Service, secureCookie bool, sessionTTL time.Duration) *Handlers {
	if sessionTTL <= 0 {
		sessionTTL = DefaultSessionTTL
	}
	return &Handlers{
		db:           db,
		tracker:      svc,
		secureCookie: secureCookie,
		sessionTTL:   sessionTTL,
		now:          time.Now,
	}
}

// GetUserFromContext retrieves the authenticated user from request context.
func GetUserFromContext(r *http.Request) *models.User {
	if user, ok := r.Context().Value(UserContextKey).(*models.User); ok {
		return user
	}
	return nil
}

// AuthMiddleware wraps handlers to require authentication.
// It also implements rolling sessions: if a session is past the halfway point
// of its lifetime, it automatically renews the session.
func (h *Handlers) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookieName)
		if err != nil || cookie.Value == "" {
			writeMessage(w, http.StatusUnauthorized, "Unauthenticated.")
			return
		}

		info, err := h.db.ValidateLoginSessionWithInfo(cookie.Value)
		if err != nil {
			// Invalid or expired session, clear the cookie
			h.clearSessionCookie(w)
			writeMessage(w, http.StatusUnauthorized, "Unauthenticated.")
			return
		}

		now := h.now()
		if info.ExpiresAt.Sub(now) < h.sessionTTL/2 {
			if err := h.db.RenewLoginSession(cookie.Value, now.Add(h.sessionTTL)); err == nil {
				h.setSessionCookie(w, cookie.Value)
			} else {
				log.Printf("Failed to renew session: %v", err)
			}
		}

		ctx := context.WithValue(r.Context(), UserContextKey, info.User)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Login handles the login form submission.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid form submission.")
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")

	errs := map[string][]string{}
	if username == "" {
		errs["username"] = []string{"The username field is required."}
	}
	if password == "" {
		errs["password"] = []string{"The password field is required."}
	}
	if len(errs) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, validationResponse{Message: firstMessage(errs), Errors: errs})
		return
	}

	user, err := h.db.GetUserByUsername(username)
	if err != nil || !auth.CheckPassword(password, user.PasswordHash) {
		writeMessage(w, http.StatusUnauthorized, "Invalid username or password.")
		return
	}

	token, err := auth.GenerateSessionToken()
	if err != nil {
		log.Printf("Failed to generate session token: %v", err)
		writeMessage(w, http.StatusInternalServerError, "An error occurred. Please try again.")
		return
	}

	if err := h.db.CreateLoginSession(token, user.ID, h.now().Add(h.sessionTTL)); err != nil {
		log.Printf("Failed to create session: %v", err)
		writeMessage(w, http.StatusInternalServerError, "An error occurred. Please try again.")
		return
	}

	h.setSessionCookie(w, token)
	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

// Logout handles user logout.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		if err := h.db.DeleteLoginSession(cookie.Value); err != nil {
			log.Printf("Failed to delete session: %v", err)
		}
	}
	h.clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handlers) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

// CreateSession records a completed focus session for the current user.
func (h *Handlers) CreateSession(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)
	if err := r.ParseForm(); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid form submission.")
		return
	}

	duration, err := tracker.ParseInt("duration", r.FormValue("duration"))
	if err != nil {
		h.writeError(w, "CreateSession", err)
		return
	}
	session, err := h.tracker.RecordSession(user.ID, r.FormValue("task_description"), duration)
	if err != nil {
		h.writeError(w, "CreateSession", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Session completed successfully!",
		"session": session,
	})
}

// ListSessions returns a page of the current user's sessions, newest first.
func (h *Handlers) ListSessions(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)
	page := queryInt(r, "page")
	perPage := queryInt(r, "per_page")

	result, err := h.tracker.ListSessions(user.ID, page, perPage)
	if err != nil {
		h.writeError(w, "ListSessions", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// GetPreferences returns the current user's preferences, creating the
// defaults on first access.
func (h *Handlers) GetPreferences(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)
	prefs, err := h.tracker.Preferences(user.ID)
	if err != nil {
		h.writeError(w, "GetPreferences", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"settings": prefs})
}

// UpdatePreferences changes the current user's timer duration.
func (h *Handlers) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)
	if err := r.ParseForm(); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid form submission.")
		return
	}

	minutes, err := tracker.ParseInt("timer_duration", r.FormValue("timer_duration"))
	if err != nil {
		h.writeError(w, "UpdatePreferences", err)
		return
	}
	prefs, err := h.tracker.UpdatePreferences(user.ID, minutes)
	if err != nil {
		h.writeError(w, "UpdatePreferences", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"message":  "Settings updated successfully!",
		"settings": prefs,
	})
}

type validationResponse struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

// writeError answers 422 for validation failures and 500 for anything else.
func (h *Handlers) writeError(w http.ResponseWriter, op string, err error) {
	var verr *tracker.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusUnprocessableEntity, validationResponse{
			Message: verr.Message,
			Errors:  map[string][]string{verr.Field: {verr.Message}},
		})
		return
	}
	log.Printf("%s error: %v", op, err)
	writeMessage(w, http.StatusInternalServerError, "Internal server error")
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("JSON encode error: %v", err)
	}
}

func firstMessage(errs map[string][]string) string {
	for _, field := range []string{"username", "password"} {
		if msgs, ok := errs[field]; ok {
			return msgs[0]
		}
	}
	return "The given data was invalid."
}

// queryInt reads a positive integer query parameter; anything else is 0.
func queryInt(r *http.Request, name string) int {
	n, err := tracker.ParseInt(name, r.URL.Query().Get(name))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
