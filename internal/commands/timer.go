package commands

import (
	"fmt"

	"focus-tracker/internal/config"
	"focus-tracker/internal/models"
	"focus-tracker/internal/tui"

	"github.com/spf13/cobra"
)

func newTimerCmd(opts *options) *cobra.Command {
	var (
		username string
		task     string
		minutes  int
	)
	cmd := &cobra.Command{
		Use:   "timer",
		Short: "Run a focus countdown and record it when it finishes",
		Long: `Run an interactive countdown. The length defaults to the user's timer
preference. The session is recorded only if the countdown reaches zero.

Examples:
  focusctl timer -u ada --task "Write report"
  focusctl timer -u ada --task "Inbox" --minutes 5`,
		Args: cobra.NoArgs,
		RunE: withUser(opts, &username, func(cmd *cobra.Command, e *env, user *models.User) error {
			if !cmd.Flags().Changed("minutes") {
				prefs, err := e.svc.Preferences(user.ID)
				if err != nil {
					return err
				}
				minutes = prefs.TimerDuration
			}
			// Validate before the countdown rather than after it.
			if _, err := e.svc.ValidateSession(task, minutes); err != nil {
				return err
			}

			final, err := tui.RunCountdown(task, minutes, cmd.InOrStdin(), cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if !final.Finished() {
				fmt.Fprintln(cmd.OutOrStdout(), "Timer stopped early; nothing recorded.")
				return nil
			}

			s, err := e.svc.RecordSession(user.ID, task, minutes)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Session completed successfully! Logged %d min: %s\n", s.Duration, s.TaskDescription)
			return nil
		}),
	}
	addUserFlag(cmd, &username)
	cmd.Flags().StringVarP(&task, "task", "t", "", "What you are working on")
	cmd.Flags().IntVarP(&minutes, "minutes", "m", 0, "Override the timer length")
	_ = cmd.MarkFlagRequired("task")
	return cmd
}

func newConfigCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			return config.Write(cmd.OutOrStdout(), cfg)
		},
	}
}
