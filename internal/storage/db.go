package storage

import (
	"database/sql"
	"strings"
	"time"

	"focus-tracker/internal/models"

	// Import sqlite driver
	_ "modernc.org/sqlite"
)

// dsnParams enables cascading deletes and writes timestamps in a
// lexically sortable layout so range queries compare correctly.
const dsnParams = "_pragma=foreign_keys(1)&_time_format=sqlite"

// DB wraps a sql.DB connection.
type DB struct {
	conn *sql.DB
}

// NewDB opens a database connection and runs migrations.
func NewDB(path string) (*DB, error) {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	conn, err := sql.Open("sqlite", path+sep+dsnParams)
	if err != nil {
		return nil, err
	}
	// SQLite serialises writers, and every ":memory:" connection would be
	// a separate database.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}

	return db, nil
}

func (db *DB) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS login_sessions (
			token TEXT PRIMARY KEY,
			user_id INTEGER NOT NULL,
			expires_at DATETIME NOT NULL,
			last_activity DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS focus_sessions (
			id TEXT PRIMARY KEY,
			user_id INTEGER NOT NULL,
			task_description TEXT NOT NULL,
			duration INTEGER NOT NULL CHECK (duration >= 1),
			completed_at DATETIME NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS focus_sessions_user_id_completed_at_index
			ON focus_sessions (user_id, completed_at)`,
		`CREATE TABLE IF NOT EXISTS user_preferences (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL UNIQUE,
			timer_duration INTEGER NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		)`,
	}

	for _, m := range migrations {
		if _, err := db.conn.Exec(m); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// CreateUser creates a new user with the given username and password hash.
func (db *DB) CreateUser(username, passwordHash string) (*models.User, error) {
	result, err := db.conn.Exec(
		"INSERT INTO users (username, password_hash) VALUES (?, ?)",
		username, passwordHash,
	)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return db.GetUserByID(id)
}

// DeleteUser removes a user; their focus sessions, preferences and login
// sessions go with them.
func (db *DB) DeleteUser(id int64) error {
	_, err := db.conn.Exec("DELETE FROM users WHERE id = ?", id)
	return err
}

// GetUserByID retrieves a user by ID.
func (db *DB) GetUserByID(id int64) (*models.User, error) {
	row := db.conn.QueryRow(
		"SELECT id, username, password_hash, created_at FROM users WHERE id = ?",
		id,
	)

	var u models.User
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByUsername retrieves a user by username.
func (db *DB) GetUserByUsername(username string) (*models.User, error) {
	row := db.conn.QueryRow(
		"SELECT id, username, password_hash, created_at FROM users WHERE username = ?",
		username,
	)

	var u models.User
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// UserCount returns the number of users in the database.
func (db *DB) UserCount() (int, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM users").Scan(&count)
	return count, err
}

// CreateLoginSession creates a new login session for a user.
func (db *DB) CreateLoginSession(token string, userID int64, expiresAt time.Time) error {
	now := time.Now().UTC()
	_, err := db.conn.Exec(
		"INSERT INTO login_sessions (token, user_id, expires_at, last_activity) VALUES (?, ?, ?, ?)",
		token, userID, expiresAt.UTC(), now,
	)
	return err
}

// LoginInfo holds login session validation data.
type LoginInfo struct {
	User         *models.User
	LastActivity time.Time
	ExpiresAt    time.Time
}

// ValidateLoginSession checks if a token is valid and returns the associated user.
func (db *DB) ValidateLoginSession(token string) (*models.User, error) {
	info, err := db.ValidateLoginSessionWithInfo(token)
	if err != nil {
		return nil, err
	}
	return info.User, nil
}

// ValidateLoginSessionWithInfo checks if a token is valid and returns session details.
func (db *DB) ValidateLoginSessionWithInfo(token string) (*LoginInfo, error) {
	row := db.conn.QueryRow(`
		SELECT u.id, u.username, u.password_hash, u.created_at, s.last_activity, s.expires_at
		FROM login_sessions s
		JOIN users u ON s.user_id = u.id
		WHERE s.token = ? AND s.expires_at > ?
	`, token, time.Now().UTC())

	var u models.User
	var lastActivity, expiresAt time.Time
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt, &lastActivity, &expiresAt); err != nil {
		return nil, err
	}
	return &LoginInfo{
		User:         &u,
		LastActivity: lastActivity,
		ExpiresAt:    expiresAt,
	}, nil
}

// RenewLoginSession updates last_activity and expires_at for a login session.
func (db *DB) RenewLoginSession(token string, newExpiresAt time.Time) error {
	now := time.Now().UTC()
	_, err := db.conn.Exec(
		"UPDATE login_sessions SET last_activity = ?, expires_at = ? WHERE token = ?",
		now, newExpiresAt.UTC(), token,
	)
	return err
}

// DeleteLoginSession removes a login session by token.
func (db *DB) DeleteLoginSession(token string) error {
	_, err := db.conn.Exec("DELETE FROM login_sessions WHERE token = ?", token)
	return err
}

// CleanExpiredLoginSessions removes all expired login sessions.
func (db *DB) CleanExpiredLoginSessions() error {
	_, err := db.conn.Exec("DELETE FROM login_sessions WHERE expires_at <= ?", time.Now().UTC())
	return err
}
