package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"focus-tracker/internal/auth"
	"focus-tracker/internal/config"
	"focus-tracker/internal/storage"
	"focus-tracker/internal/tracker"

	"golang.org/x/term"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("adduser", flag.ContinueOnError)
	fs.SetOutput(stderr)

	username := fs.String("user", "", "Username")
	passwordFlag := fs.String("password", "", "Password (optional, will prompt if omitted)")
	dbPath := fs.String("db", "", "Path to database file (default from config, DB_PATH or focus.db)")
	configPath := fs.String("config", "", "Path to a YAML config file")
	timer := fs.Int("timer", tracker.DefaultTimerDuration, "Initial focus timer length in minutes")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *username == "" {
		fmt.Fprintln(stdout, "Usage: adduser -user <username> [-password <password>] [-timer <minutes>] [-db <db_path>]")
		fs.PrintDefaults()
		return fmt.Errorf("missing required flags: user")
	}

	path := *dbPath
	if path == "" {
		cfg, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		path = cfg.DBPath
	}

	password := *passwordFlag
	if password == "" {
		fmt.Fprint(stdout, "Password: ")
		var err error
		password, err = readPassword(stdin)
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Fprintln(stdout)
	}
	if strings.TrimSpace(password) == "" {
		return fmt.Errorf("password cannot be empty")
	}

	db, err := storage.NewDB(path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if existing, err := db.GetUserByUsername(*username); err == nil && existing != nil {
		return fmt.Errorf("user %s already exists", *username)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user, err := db.CreateUser(*username, hash)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	// The location is irrelevant here: no calendar views are built.
	svc := tracker.NewService(db, nil)
	prefs, err := svc.UpdatePreferences(user.ID, *timer)
	if err != nil {
		if delErr := db.DeleteUser(user.ID); delErr != nil {
			return fmt.Errorf("%w (and failed to roll back user: %v)", err, delErr)
		}
		return err
	}

	fmt.Fprintf(stdout, "User %s created successfully with ID %d (timer %d min)\n", user.Username, user.ID, prefs.TimerDuration)
	return nil
}

func readPassword(stdin io.Reader) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	// Pipes and tests
	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
