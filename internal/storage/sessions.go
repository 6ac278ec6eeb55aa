package storage

import (
	"database/sql"
	"fmt"
	"time"

	"focus-tracker/internal/models"

	"github.com/google/uuid"
)

const focusSessionColumns = "id, user_id, task_description, duration, completed_at, created_at, updated_at"

func scanFocusSession(row interface{ Scan(dest ...any) error }) (models.FocusSession, error) {
	var s models.FocusSession
	err := row.Scan(&s.ID, &s.UserID, &s.TaskDescription, &s.Duration, &s.CompletedAt, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func (db *DB) queryFocusSessions(query string, args ...any) ([]models.FocusSession, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []models.FocusSession
	for rows.Next() {
		s, err := scanFocusSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// CreateFocusSession inserts a completed focus session for a user.
func (db *DB) CreateFocusSession(userID int64, taskDescription string, duration int, completedAt time.Time) (*models.FocusSession, error) {
	now := time.Now().UTC()
	s := models.FocusSession{
		ID:              uuid.NewString(),
		UserID:          userID,
		TaskDescription: taskDescription,
		Duration:        duration,
		CompletedAt:     completedAt.UTC(),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	_, err := db.conn.Exec(
		"INSERT INTO focus_sessions ("+focusSessionColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		s.ID, s.UserID, s.TaskDescription, s.Duration, s.CompletedAt, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetFocusSession retrieves a single focus session owned by userID.
func (db *DB) GetFocusSession(userID int64, id string) (*models.FocusSession, error) {
	row := db.conn.QueryRow(
		"SELECT "+focusSessionColumns+" FROM focus_sessions WHERE id = ? AND user_id = ?",
		id, userID,
	)
	s, err := scanFocusSession(row)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListFocusSessions returns every focus session of a user, oldest first.
func (db *DB) ListFocusSessions(userID int64) ([]models.FocusSession, error) {
	return db.queryFocusSessions(
		"SELECT "+focusSessionColumns+" FROM focus_sessions WHERE user_id = ? ORDER BY completed_at ASC, rowid ASC",
		userID,
	)
}

// ListFocusSessionsBetween returns a user's focus sessions completed within
// [from, to], oldest first.
func (db *DB) ListFocusSessionsBetween(userID int64, from, to time.Time) ([]models.FocusSession, error) {
	return db.queryFocusSessions(
		"SELECT "+focusSessionColumns+" FROM focus_sessions WHERE user_id = ? AND completed_at >= ? AND completed_at <= ? ORDER BY completed_at ASC, rowid ASC",
		userID, from.UTC(), to.UTC(),
	)
}

// RecentFocusSessions returns up to limit of a user's latest focus sessions, newest first.
func (db *DB) RecentFocusSessions(userID int64, limit int) ([]models.FocusSession, error) {
	sessions, _, err := db.PageFocusSessions(userID, limit, 0)
	return sessions, err
}

// PageFocusSessions returns one page of a user's focus sessions, newest
// first, along with the total number of sessions the user has.
func (db *DB) PageFocusSessions(userID int64, limit, offset int) ([]models.FocusSession, int, error) {
	var total int
	if err := db.conn.QueryRow("SELECT COUNT(*) FROM focus_sessions WHERE user_id = ?", userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count focus sessions: %w", err)
	}

	sessions, err := db.queryFocusSessions(
		"SELECT "+focusSessionColumns+" FROM focus_sessions WHERE user_id = ? ORDER BY completed_at DESC, rowid DESC LIMIT ? OFFSET ?",
		userID, limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	return sessions, total, nil
}

// PlatformCounts holds platform-wide aggregates.
type PlatformCounts struct {
	Sessions    int
	Minutes     int
	Users       int
	ActiveUsers int
}

// PlatformCounts aggregates session and user counts across every user.
func (db *DB) PlatformCounts() (PlatformCounts, error) {
	var c PlatformCounts
	var minutes sql.NullInt64
	err := db.conn.QueryRow(`
		SELECT COUNT(*), SUM(duration), COUNT(DISTINCT user_id)
		FROM focus_sessions
	`).Scan(&c.Sessions, &minutes, &c.ActiveUsers)
	if err != nil {
		return PlatformCounts{}, err
	}
	c.Minutes = int(minutes.Int64)

	if c.Users, err = db.UserCount(); err != nil {
		return PlatformCounts{}, err
	}
	return c, nil
}
