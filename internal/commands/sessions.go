package commands

import (
	"fmt"

	"focus-tracker/internal/models"

	"github.com/spf13/cobra"
)

func newLogCmd(opts *options) *cobra.Command {
	var (
		username string
		task     string
		minutes  int
	)
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Record a completed focus session",
		Long: `Record a focus session that has just finished, for example one timed
with another tool.

Examples:
  focusctl log -u ada --task "Write report" --minutes 25`,
		Args: cobra.NoArgs,
		RunE: withUser(opts, &username, func(cmd *cobra.Command, e *env, user *models.User) error {
			s, err := e.svc.RecordSession(user.ID, task, minutes)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged %d min: %s (%s)\n", s.Duration, s.TaskDescription, s.ID)
			return nil
		}),
	}
	addUserFlag(cmd, &username)
	cmd.Flags().StringVarP(&task, "task", "t", "", "What you worked on")
	cmd.Flags().IntVarP(&minutes, "minutes", "m", 0, "Length of the session in minutes")
	_ = cmd.MarkFlagRequired("task")
	_ = cmd.MarkFlagRequired("minutes")
	return cmd
}

func newSessionsCmd(opts *options) *cobra.Command {
	var (
		username string
		page     int
		perPage  int
	)
	cmd := &cobra.Command{
		Use:     "sessions",
		Aliases: []string{"ls"},
		Short:   "List recorded sessions, newest first",
		Args:    cobra.NoArgs,
		RunE: withUser(opts, &username, func(cmd *cobra.Command, e *env, user *models.User) error {
			result, err := e.svc.ListSessions(user.ID, page, perPage)
			if err != nil {
				return err
			}

			p := newPrinter(cmd.OutOrStdout())
			p.section(fmt.Sprintf("Sessions (page %d of %d, %d total)", result.CurrentPage, result.LastPage, result.Total))
			if len(result.Data) == 0 {
				p.note("No sessions on this page.")
				return nil
			}
			for _, s := range result.Data {
				at := s.CompletedAt.In(e.svc.Now().Location())
				p.line("%s  %3d min  %s", at.Format("2006-01-02 15:04"), s.Duration, truncate(s.TaskDescription, 50))
			}
			return nil
		}),
	}
	addUserFlag(cmd, &username)
	cmd.Flags().IntVarP(&page, "page", "p", 1, "Page number")
	cmd.Flags().IntVar(&perPage, "per-page", 0, "Sessions per page (default 20, max 100)")
	return cmd
}

func newPrefsCmd(opts *options) *cobra.Command {
	var (
		username string
		set      int
	)
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show or change the focus timer length",
		Args:  cobra.NoArgs,
		RunE: withUser(opts, &username, func(cmd *cobra.Command, e *env, user *models.User) error {
			var (
				prefs *models.Preferences
				err   error
			)
			if cmd.Flags().Changed("set") {
				prefs, err = e.svc.UpdatePreferences(user.ID, set)
			} else {
				prefs, err = e.svc.Preferences(user.ID)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Timer duration: %d min\n", prefs.TimerDuration)
			return nil
		}),
	}
	addUserFlag(cmd, &username)
	cmd.Flags().IntVar(&set, "set", 0, "New timer length in minutes (1-120)")
	return cmd
}
