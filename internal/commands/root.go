package commands

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"focus-tracker/internal/config"
	"focus-tracker/internal/models"
	"focus-tracker/internal/storage"
	"focus-tracker/internal/tracker"

	"github.com/spf13/cobra"
)

// options are the persistent flags shared by every command.
type options struct {
	dbPath     string
	configPath string
	now        func() time.Time
}

// NewRootCmd builds the focusctl command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(time.Now)
}

func newRootCmd(now func() time.Time) *cobra.Command {
	opts := &options{now: now}

	root := &cobra.Command{
		Use:   "focusctl",
		Short: "Track focus sessions from the terminal",
		Long: `focusctl logs focus sessions, runs a countdown timer and prints the
same dashboard and statistics the web app serves, straight from the database.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.dbPath, "db", "", "Path to database file (overrides config)")
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to a YAML config file")

	root.AddCommand(
		newDashboardCmd(opts),
		newStatsCmd(opts),
		newPlatformCmd(opts),
		newLogCmd(opts),
		newSessionsCmd(opts),
		newPrefsCmd(opts),
		newTimerCmd(opts),
		newConfigCmd(opts),
	)
	return root
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

// env is an opened database with the service built on top of it.
type env struct {
	cfg *config.Config
	db  *storage.DB
	svc *tracker.Service
}

func (o *options) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.dbPath != "" {
		cfg.DBPath = o.dbPath
	}
	return cfg, nil
}

func (o *options) open() (*env, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	db, err := storage.NewDB(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return &env{
		cfg: cfg,
		db:  db,
		svc: tracker.NewService(db, loc, tracker.WithClock(o.now)),
	}, nil
}

func (e *env) Close() error {
	return e.db.Close()
}

func (e *env) user(username string) (*models.User, error) {
	user, err := e.db.GetUserByUsername(username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %q not found", username)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// withUser opens the database, resolves --user and calls fn.
func withUser(opts *options, username *string, fn func(cmd *cobra.Command, e *env, user *models.User) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		e, err := opts.open()
		if err != nil {
			return err
		}
		defer e.Close()

		user, err := e.user(*username)
		if err != nil {
			return err
		}
		return fn(cmd, e, user)
	}
}

func addUserFlag(cmd *cobra.Command, username *string) {
	cmd.Flags().StringVarP(username, "user", "u", "", "Username")
	_ = cmd.MarkFlagRequired("user")
}
