package models

import "time"

// FocusSession represents one completed, timed focus session.
type FocusSession struct {
	ID              string    `json:"id"`
	UserID          int64     `json:"user_id"`
	TaskDescription string    `json:"task_description"`
	Duration        int       `json:"duration"` // minutes
	CompletedAt     time.Time `json:"completed_at"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Preferences holds the per-user timer settings.
type Preferences struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	TimerDuration int       `json:"timer_duration"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// User represents a user account.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// LoginSession represents an authenticated browser session.
type LoginSession struct {
	Token        string    `json:"token"`
	UserID       int64     `json:"user_id"`
	ExpiresAt    time.Time `json:"expires_at"`
	LastActivity time.Time `json:"last_activity"`
}
