package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"focus-tracker/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type streams struct {
	stdin, stdout, stderr *bytes.Buffer
}

func newStreams(input string) streams {
	return streams{
		stdin:  bytes.NewBufferString(input),
		stdout: new(bytes.Buffer),
		stderr: new(bytes.Buffer),
	}
}

func (s streams) run(args ...string) error {
	return run(args, s.stdin, s.stdout, s.stderr)
}

func timerFor(t *testing.T, dbPath, username string) int {
	t.Helper()
	db, err := storage.NewDB(dbPath)
	require.NoError(t, err)
	defer db.Close()

	user, err := db.GetUserByUsername(username)
	require.NoError(t, err)
	prefs, err := db.GetPreferences(user.ID)
	require.NoError(t, err)
	return prefs.TimerDuration
}

func TestRun_Success(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "focus.db")
	s := newStreams("")

	require.NoError(t, s.run("-user", "ada", "-password", "secret", "-db", dbPath))

	assert.Contains(t, s.stdout.String(), "User ada created successfully")
	assert.Contains(t, s.stdout.String(), "timer 10 min")
	assert.Equal(t, 10, timerFor(t, dbPath, "ada"))
}

func TestRun_CustomTimer(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "focus.db")
	s := newStreams("")

	require.NoError(t, s.run("-user", "ada", "-password", "secret", "-timer", "45", "-db", dbPath))
	assert.Equal(t, 45, timerFor(t, dbPath, "ada"))
}

func TestRun_TimerOutOfRangeRollsBack(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "focus.db")
	s := newStreams("")

	err := s.run("-user", "ada", "-password", "secret", "-timer", "500", "-db", dbPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timer_duration")

	db, err := storage.NewDB(dbPath)
	require.NoError(t, err)
	defer db.Close()
	_, err = db.GetUserByUsername("ada")
	assert.Error(t, err, "user should not survive a rejected timer")
}

func TestRun_DuplicateUser(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "focus.db")
	s := newStreams("")
	args := []string{"-user", "ada", "-password", "secret", "-db", dbPath}

	require.NoError(t, s.run(args...), "first run should succeed")

	err := s.run(args...)
	require.Error(t, err, "expected error on duplicate user")
	assert.Contains(t, err.Error(), "already exists")
}

func TestRun_MissingUserFlag(t *testing.T) {
	s := newStreams("")

	err := s.run("-password", "secret")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required flags: user")
	assert.Contains(t, s.stdout.String(), "Usage:")
}

func TestRun_InteractivePassword(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "focus.db")
	s := newStreams("interactive_secret\n")

	require.NoError(t, s.run("-user", "grace", "-db", dbPath))

	assert.Contains(t, s.stdout.String(), "Password: ")
	assert.Contains(t, s.stdout.String(), "User grace created successfully")
}

func TestRun_InteractivePassword_Empty(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "focus.db")
	s := newStreams("\n")

	err := s.run("-user", "nobody", "-db", dbPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "password cannot be empty")
	assert.NoFileExists(t, dbPath, "nothing is opened before the password is known")
}

func TestRun_DBPathFromEnv(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "env.db")
	t.Setenv("DB_PATH", dbPath)
	s := newStreams("")

	require.NoError(t, s.run("-user", "envuser", "-password", "secret"))
	assert.FileExists(t, dbPath)
}

func TestRun_DBPathFromConfigFile(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "from-config.db")
	cfgPath := filepath.Join(dir, "focus.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("db_path: "+dbPath+"\n"), 0o644))
	s := newStreams("")

	require.NoError(t, s.run("-user", "cfguser", "-password", "secret", "-config", cfgPath))
	assert.FileExists(t, dbPath)
}

func TestRun_InvalidDBPath(t *testing.T) {
	s := newStreams("")

	// A directory is not a database file.
	err := s.run("-user", "failuser", "-password", "secret", "-db", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open database")
}

func TestRun_InvalidFlag(t *testing.T) {
	s := newStreams("")

	err := s.run("-invalid")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "flag provided but not defined")
}
