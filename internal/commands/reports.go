package commands

import (
	"fmt"
	"io"
	"strings"

	"focus-tracker/internal/models"
	"focus-tracker/internal/tracker"

	"github.com/spf13/cobra"
)

func newDashboardCmd(opts *options) *cobra.Command {
	var username string
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show today, this week, this month and recent sessions",
		Args:  cobra.NoArgs,
		RunE: withUser(opts, &username, func(cmd *cobra.Command, e *env, user *models.User) error {
			view, err := e.svc.Dashboard(user.ID)
			if err != nil {
				return err
			}
			renderDashboard(cmd.OutOrStdout(), view)
			return nil
		}),
	}
	addUserFlag(cmd, &username)
	return cmd
}

func newStatsCmd(opts *options) *cobra.Command {
	var username string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show lifetime statistics and milestones",
		Args:  cobra.NoArgs,
		RunE: withUser(opts, &username, func(cmd *cobra.Command, e *env, user *models.User) error {
			view, err := e.svc.Stats(user.ID)
			if err != nil {
				return err
			}
			renderStats(cmd.OutOrStdout(), view)
			return nil
		}),
	}
	addUserFlag(cmd, &username)
	return cmd
}

func newPlatformCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "platform",
		Short: "Show platform-wide counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.open()
			if err != nil {
				return err
			}
			defer e.Close()

			view, err := e.svc.Marketing()
			if err != nil {
				return err
			}
			p := newPrinter(cmd.OutOrStdout())
			p.section("Platform")
			p.field("Sessions", view.Stats.TotalSessions)
			p.field("Minutes", view.Stats.TotalMinutes)
			p.field("Hours", view.Stats.TotalHours)
			p.field("Users", view.Stats.TotalUsers)
			p.field("Active users", view.Stats.ActiveUsers)
			return nil
		},
	}
}

func renderDashboard(w io.Writer, view *tracker.DashboardView) {
	p := newPrinter(w)

	p.section("Today")
	p.field("Completed", view.TodayData.Completed)
	p.field("Minutes", view.TodayData.TotalMinutes)
	p.field("Timer", fmt.Sprintf("%d min", view.TimerDuration))
	for _, s := range view.TodayData.Sessions {
		p.line("%s  %3d min  %s", s.CompletedAt, s.Duration, truncate(s.TaskDescription, 50))
	}
	p.blank()

	p.section("This week")
	top := 0
	for _, d := range view.WeekData {
		top = max(top, d.TotalMinutes)
	}
	for _, d := range view.WeekData {
		marker := " "
		if d.IsToday {
			marker = "*"
		}
		p.line("%s%s %s  %s %4d min (%d)", marker, d.DayName, d.Date, p.meter(d.TotalMinutes, top), d.TotalMinutes, d.Count)
	}
	p.blank()

	p.section("This month")
	top = 0
	for _, wk := range view.MonthData {
		top = max(top, wk.TotalMinutes)
	}
	for _, wk := range view.MonthData {
		p.line("%-7s %s  %s %4d min (%d)", wk.WeekLabel, wk.DateRange, p.meter(wk.TotalMinutes, top), wk.TotalMinutes, wk.Count)
	}
	p.blank()

	p.section("Recent")
	if len(view.RecentSessions) == 0 {
		p.note("No sessions yet. Start one with 'focusctl timer'.")
		return
	}
	for _, s := range view.RecentSessions {
		p.line("%-16s %3d min  %s", s.CompletedAt, s.Duration, truncate(s.TaskDescription, 50))
	}
}

func renderStats(w io.Writer, view *tracker.StatsView) {
	p := newPrinter(w)
	all := view.AllTimeStats

	p.section("All time")
	p.field("Sessions", all.TotalSessions)
	p.field("Minutes", all.TotalMinutes)
	p.field("Hours", all.TotalHours)
	p.field("Avg per session", fmt.Sprintf("%.1f min", all.AveragePerSession))
	p.field("Days active", all.DaysActive)
	if all.FirstSessionDate != nil {
		p.field("First session", *all.FirstSessionDate)
	}
	p.blank()

	p.section("Periods")
	p.field("Today", fmt.Sprintf("%d sessions, %d min", view.TodayStats.Sessions, view.TodayStats.Minutes))
	p.field("This week", fmt.Sprintf("%d sessions, %d min, %.1f/day", view.WeekStats.Sessions, view.WeekStats.Minutes, view.WeekStats.AveragePerDay))
	p.field("This month", fmt.Sprintf("%d sessions, %d min, %.1f/day", view.MonthStats.Sessions, view.MonthStats.Minutes, view.MonthStats.AveragePerDay))
	p.blank()

	p.section("Patterns")
	if view.MostProductiveDay != nil {
		p.field("Best day", *view.MostProductiveDay)
	}
	if view.MostProductiveHour != nil {
		p.field("Best hour", fmt.Sprintf("%02d:00", *view.MostProductiveHour))
	}
	if view.MostProductiveDay == nil && view.MostProductiveHour == nil {
		p.note("Not enough sessions yet.")
	}
	p.blank()

	p.section("Milestones")
	if len(view.Milestones) == 0 {
		p.note("First milestone at 10 sessions.")
		return
	}
	reached := make([]string, 0, len(view.Milestones))
	for _, m := range view.Milestones {
		reached = append(reached, fmt.Sprint(m.Count))
	}
	p.line("%s", p.good.Render(strings.Join(reached, "  ")))
}
