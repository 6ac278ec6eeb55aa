package tracker

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"focus-tracker/internal/models"
	"focus-tracker/internal/storage"
)

// Limits and defaults of user input.
const (
	DefaultTimerDuration     = 10
	MinTimerDuration         = 1
	MaxTimerDuration         = 120
	MaxTaskDescriptionLength = 255
	MinSessionDuration       = 1
	RecentSessionsLimit      = 10
	DefaultPageSize          = 20
	MaxPageSize              = 100
)

// Store is the persistence the service relies on. *storage.DB implements it.
type Store interface {
	CreateFocusSession(userID int64, taskDescription string, duration int, completedAt time.Time) (*models.FocusSession, error)
	ListFocusSessions(userID int64) ([]models.FocusSession, error)
	ListFocusSessionsBetween(userID int64, from, to time.Time) ([]models.FocusSession, error)
	RecentFocusSessions(userID int64, limit int) ([]models.FocusSession, error)
	PageFocusSessions(userID int64, limit, offset int) ([]models.FocusSession, int, error)
	PlatformCounts() (storage.PlatformCounts, error)
	GetOrCreatePreferences(userID int64, defaultDuration int) (*models.Preferences, error)
	SetTimerDuration(userID int64, minutes int) (*models.Preferences, error)
}

// Service records focus sessions and builds the reporting views.
type Service struct {
	store Store
	loc   *time.Location
	now   func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces the wall clock used for completion times and reports.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a Service whose calendar days are taken in loc.
func NewService(store Store, loc *time.Location, opts ...Option) *Service {
	if loc == nil {
		loc = time.Local
	}
	s := &Service{store: store, loc: loc, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the service clock's current instant in the service location.
func (s *Service) Now() time.Time {
	return s.now().In(s.loc)
}

// ValidateSession checks a session before it is recorded and returns the
// trimmed task description.
func (s *Service) ValidateSession(taskDescription string, duration int) (string, error) {
	taskDescription = strings.TrimSpace(taskDescription)
	switch {
	case taskDescription == "":
		return "", invalid("task_description", "The task description field is required.")
	case utf8.RuneCountInString(taskDescription) > MaxTaskDescriptionLength:
		return "", invalid("task_description", "The task description field must not be greater than %d characters.", MaxTaskDescriptionLength)
	case duration < MinSessionDuration:
		return "", invalid("duration", "The duration field must be at least %d.", MinSessionDuration)
	}
	return taskDescription, nil
}

// RecordSession validates and stores a completed focus session. The
// completion time is taken from the service clock.
func (s *Service) RecordSession(userID int64, taskDescription string, duration int) (*models.FocusSession, error) {
	taskDescription, err := s.ValidateSession(taskDescription, duration)
	if err != nil {
		return nil, err
	}

	session, err := s.store.CreateFocusSession(userID, taskDescription, duration, s.Now())
	if err != nil {
		return nil, fmt.Errorf("record session: %w", err)
	}
	return session, nil
}

// Preferences returns the user's preferences, creating the defaults on first access.
func (s *Service) Preferences(userID int64) (*models.Preferences, error) {
	prefs, err := s.store.GetOrCreatePreferences(userID, DefaultTimerDuration)
	if err != nil {
		return nil, fmt.Errorf("load preferences: %w", err)
	}
	return prefs, nil
}

// UpdatePreferences sets the user's timer duration.
func (s *Service) UpdatePreferences(userID int64, timerDuration int) (*models.Preferences, error) {
	if timerDuration < MinTimerDuration || timerDuration > MaxTimerDuration {
		return nil, invalid("timer_duration", "The timer duration field must be between %d and %d.", MinTimerDuration, MaxTimerDuration)
	}

	prefs, err := s.store.SetTimerDuration(userID, timerDuration)
	if err != nil {
		return nil, fmt.Errorf("update preferences: %w", err)
	}
	return prefs, nil
}

// SessionPage is one page of a user's sessions, newest first.
type SessionPage struct {
	Data        []models.FocusSession `json:"data"`
	CurrentPage int                   `json:"current_page"`
	PerPage     int                   `json:"per_page"`
	Total       int                   `json:"total"`
	LastPage    int                   `json:"last_page"`
}

// ListSessions returns a page of the user's sessions. Out of range page
// sizes fall back to the defaults.
func (s *Service) ListSessions(userID int64, page, perPage int) (*SessionPage, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPageSize
	}
	if perPage > MaxPageSize {
		perPage = MaxPageSize
	}

	sessions, total, err := s.store.PageFocusSessions(userID, perPage, (page-1)*perPage)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	lastPage := (total + perPage - 1) / perPage
	if lastPage < 1 {
		lastPage = 1
	}
	return &SessionPage{
		Data:        sessionsOrEmpty(sessions),
		CurrentPage: page,
		PerPage:     perPage,
		Total:       total,
		LastPage:    lastPage,
	}, nil
}

// sessionsOrEmpty keeps JSON lists as [] rather than null.
func sessionsOrEmpty(sessions []models.FocusSession) []models.FocusSession {
	if sessions == nil {
		return []models.FocusSession{}
	}
	return sessions
}
