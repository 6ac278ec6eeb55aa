package storage

import (
	"fmt"
	"time"

	"focus-tracker/internal/models"
)

// GetPreferences retrieves the preferences row of a user.
func (db *DB) GetPreferences(userID int64) (*models.Preferences, error) {
	row := db.conn.QueryRow(
		"SELECT id, user_id, timer_duration, created_at, updated_at FROM user_preferences WHERE user_id = ?",
		userID,
	)

	var p models.Preferences
	if err := row.Scan(&p.ID, &p.UserID, &p.TimerDuration, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetOrCreatePreferences returns the user's preferences, inserting a row
// with defaultDuration if none exists. The insert is a single statement
// guarded by the unique user_id constraint, so concurrent first access
// cannot produce two rows.
func (db *DB) GetOrCreatePreferences(userID int64, defaultDuration int) (*models.Preferences, error) {
	now := time.Now().UTC()
	_, err := db.conn.Exec(`
		INSERT INTO user_preferences (user_id, timer_duration, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id) DO NOTHING`,
		userID, defaultDuration, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert preferences: %w", err)
	}
	return db.GetPreferences(userID)
}

// SetTimerDuration stores the timer duration for a user, creating the
// preferences row if needed.
func (db *DB) SetTimerDuration(userID int64, minutes int) (*models.Preferences, error) {
	now := time.Now().UTC()
	_, err := db.conn.Exec(`
		INSERT INTO user_preferences (user_id, timer_duration, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			timer_duration = excluded.timer_duration,
			updated_at = excluded.updated_at`,
		userID, minutes, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert timer duration: %w", err)
	}
	return db.GetPreferences(userID)
}
