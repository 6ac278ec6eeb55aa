package tracker

import (
	"fmt"
	"math"

	"focus-tracker/internal/stats"

	"github.com/dustin/go-humanize"
)

// TodaySession is a session listed on the dashboard's today panel.
type TodaySession struct {
	TaskDescription string `json:"task_description"`
	Duration        int    `json:"duration"`
	CompletedAt     string `json:"completed_at"`
}

// TodayData summarises the sessions completed today.
type TodayData struct {
	Completed    int            `json:"completed"`
	TotalMinutes int            `json:"totalMinutes"`
	Sessions     []TodaySession `json:"sessions"`
}

// RecentSession is a session in the dashboard's history list, with its
// completion time relative to now.
type RecentSession struct {
	ID              string `json:"id"`
	TaskDescription string `json:"task_description"`
	Duration        int    `json:"duration"`
	CompletedAt     string `json:"completed_at"`
}

// DashboardView is the data behind the dashboard.
type DashboardView struct {
	TimerDuration  int                `json:"timerDuration"`
	TodayData      TodayData          `json:"todayData"`
	WeekData       []stats.DayBucket  `json:"weekData"`
	MonthData      []stats.WeekBucket `json:"monthData"`
	RecentSessions []RecentSession    `json:"recentSessions"`
}

// Dashboard builds the dashboard for a user.
func (s *Service) Dashboard(userID int64) (*DashboardView, error) {
	prefs, err := s.Preferences(userID)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	from, to := stats.ReportRange(now)
	sessions, err := s.store.ListFocusSessionsBetween(userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("load dashboard sessions: %w", err)
	}
	sessions = stats.InLocation(sessions, s.loc)

	recent, err := s.store.RecentFocusSessions(userID, RecentSessionsLimit)
	if err != nil {
		return nil, fmt.Errorf("load recent sessions: %w", err)
	}

	todaySessions := stats.TodaySessions(sessions, now)
	today := TodayData{Sessions: make([]TodaySession, 0, len(todaySessions))}
	for _, fs := range todaySessions {
		today.Completed++
		today.TotalMinutes += fs.Duration
		today.Sessions = append(today.Sessions, TodaySession{
			TaskDescription: fs.TaskDescription,
			Duration:        fs.Duration,
			CompletedAt:     fs.CompletedAt.Format("15:04"),
		})
	}

	recentItems := make([]RecentSession, 0, len(recent))
	for _, fs := range recent {
		recentItems = append(recentItems, RecentSession{
			ID:              fs.ID,
			TaskDescription: fs.TaskDescription,
			Duration:        fs.Duration,
			CompletedAt:     humanize.RelTime(fs.CompletedAt, now, "ago", "from now"),
		})
	}

	return &DashboardView{
		TimerDuration:  prefs.TimerDuration,
		TodayData:      today,
		WeekData:       stats.Week(sessions, now),
		MonthData:      stats.Month(sessions, now),
		RecentSessions: recentItems,
	}, nil
}

// AllTimeView is the lifetime summary shown on the stats page.
type AllTimeView struct {
	TotalSessions     int     `json:"totalSessions"`
	TotalMinutes      int     `json:"totalMinutes"`
	TotalHours        float64 `json:"totalHours"`
	AveragePerSession float64 `json:"averagePerSession"`
	FirstSessionDate  *string `json:"firstSessionDate"`
	DaysActive        int     `json:"daysActive"`
}

// StatsView is the data behind the stats page.
type StatsView struct {
	TimerDuration      int               `json:"timerDuration"`
	AllTimeStats       AllTimeView       `json:"allTimeStats"`
	TodayStats         stats.Bucket      `json:"todayStats"`
	WeekStats          stats.PeriodStats `json:"weekStats"`
	MonthStats         stats.PeriodStats `json:"monthStats"`
	MostProductiveDay  *string           `json:"mostProductiveDay"`
	MostProductiveHour *int              `json:"mostProductiveHour"`
	Milestones         []stats.Milestone `json:"milestones"`
}

// Stats builds the stats page for a user.
func (s *Service) Stats(userID int64) (*StatsView, error) {
	prefs, err := s.Preferences(userID)
	if err != nil {
		return nil, err
	}

	all, err := s.store.ListFocusSessions(userID)
	if err != nil {
		return nil, fmt.Errorf("load sessions: %w", err)
	}
	all = stats.InLocation(all, s.loc)
	now := s.Now()

	lifetime := stats.AllTime(all)
	view := &StatsView{
		TimerDuration: prefs.TimerDuration,
		AllTimeStats: AllTimeView{
			TotalSessions:     lifetime.TotalSessions,
			TotalMinutes:      lifetime.TotalMinutes,
			TotalHours:        lifetime.TotalHours,
			AveragePerSession: lifetime.AveragePerSession,
			DaysActive:        lifetime.DaysActive,
		},
		TodayStats:         stats.Today(all, now),
		WeekStats:          stats.WeekPeriod(all, now),
		MonthStats:         stats.MonthPeriod(all, now),
		MostProductiveHour: stats.MostProductiveHour(all),
		Milestones:         stats.Milestones(lifetime.TotalSessions),
	}
	if lifetime.FirstSession != nil {
		first := lifetime.FirstSession.Format("Jan 02, 2006")
		view.AllTimeStats.FirstSessionDate = &first
	}
	if wd := stats.MostProductiveDay(all); wd != nil {
		name := wd.String()
		view.MostProductiveDay = &name
	}
	return view, nil
}

// MarketingStats holds the platform counters formatted for display.
type MarketingStats struct {
	TotalSessions string `json:"totalSessions"`
	TotalMinutes  string `json:"totalMinutes"`
	TotalHours    string `json:"totalHours"`
	TotalUsers    string `json:"totalUsers"`
	ActiveUsers   string `json:"activeUsers"`
}

// MarketingView is the data behind the public home page.
type MarketingView struct {
	Stats MarketingStats `json:"stats"`
}

// Platform returns the platform-wide counters.
func (s *Service) Platform() (stats.PlatformStats, error) {
	c, err := s.store.PlatformCounts()
	if err != nil {
		return stats.PlatformStats{}, fmt.Errorf("load platform counts: %w", err)
	}
	return stats.PlatformTotals(c.Sessions, c.Minutes, c.Users, c.ActiveUsers), nil
}

// Marketing builds the public home page counters. Hours are shown as a
// whole number.
func (s *Service) Marketing() (*MarketingView, error) {
	p, err := s.Platform()
	if err != nil {
		return nil, err
	}
	return &MarketingView{Stats: MarketingStats{
		TotalSessions: humanize.Comma(int64(p.TotalSessions)),
		TotalMinutes:  humanize.Comma(int64(p.TotalMinutes)),
		TotalHours:    humanize.Comma(int64(math.Round(p.TotalHours))),
		TotalUsers:    humanize.Comma(int64(p.TotalUsers)),
		ActiveUsers:   humanize.Comma(int64(p.ActiveUsers)),
	}}, nil
}
