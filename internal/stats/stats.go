// Package stats aggregates focus sessions into calendar buckets and
// lifetime statistics. Every function is pure: the reference instant is
// always passed in and calendar boundaries are computed in its location.
package stats

import (
	"fmt"
	"time"

	"focus-tracker/internal/models"
)

// Bucket holds the totals of a single period.
type Bucket struct {
	Sessions int     `json:"sessions"`
	Minutes  int     `json:"minutes"`
	Hours    float64 `json:"hours"`
}

// DayBucket is one day of the weekly breakdown.
type DayBucket struct {
	Key          string `json:"key"`
	Date         string `json:"date"`
	DayName      string `json:"dayName"`
	Count        int    `json:"count"`
	TotalMinutes int    `json:"totalMinutes"`
	IsToday      bool   `json:"isToday"`
}

// WeekBucket is one Monday-aligned chunk of the monthly breakdown.
type WeekBucket struct {
	Number       int       `json:"number"`
	WeekLabel    string    `json:"weekLabel"`
	DateRange    string    `json:"dateRange"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	Count        int       `json:"count"`
	TotalMinutes int       `json:"totalMinutes"`
}

// PeriodStats summarises a week or a month.
type PeriodStats struct {
	Sessions      int     `json:"sessions"`
	Minutes       int     `json:"minutes"`
	Hours         float64 `json:"hours"`
	AveragePerDay float64 `json:"averagePerDay"`
}

// AllTimeStats summarises every session a user has logged.
type AllTimeStats struct {
	TotalSessions     int        `json:"totalSessions"`
	TotalMinutes      int        `json:"totalMinutes"`
	TotalHours        float64    `json:"totalHours"`
	AveragePerSession float64    `json:"averagePerSession"`
	FirstSession      *time.Time `json:"firstSession"`
	DaysActive        int        `json:"daysActive"`
}

// Milestone is a cumulative session-count threshold.
type Milestone struct {
	Count    int  `json:"count"`
	Achieved bool `json:"achieved"`
}

// PlatformStats holds platform-wide counters.
type PlatformStats struct {
	TotalSessions int     `json:"totalSessions"`
	TotalMinutes  int     `json:"totalMinutes"`
	TotalHours    float64 `json:"totalHours"`
	TotalUsers    int     `json:"totalUsers"`
	ActiveUsers   int     `json:"activeUsers"`
}

// MilestoneLadder lists the thresholds in the order they are reported.
var MilestoneLadder = []int{10, 25, 50, 100, 250, 500, 1000}

// Div1 returns n/d rounded half-up to one decimal place, or 0 when d is 0.
// Inputs are non-negative counts, so the rounding is done in integers.
func Div1(n, d int) float64 {
	if d <= 0 {
		return 0
	}
	return float64((20*n+d)/(2*d)) / 10
}

// Hours converts minutes to hours rounded to one decimal place.
func Hours(minutes int) float64 {
	return Div1(minutes, 60)
}

// InLocation returns a copy of sessions with completion times expressed in loc.
func InLocation(sessions []models.FocusSession, loc *time.Location) []models.FocusSession {
	out := make([]models.FocusSession, len(sessions))
	for i, s := range sessions {
		s.CompletedAt = s.CompletedAt.In(loc)
		out[i] = s
	}
	return out
}

// Between returns the sessions completed within [from, to].
func Between(sessions []models.FocusSession, from, to time.Time) []models.FocusSession {
	var out []models.FocusSession
	for _, s := range sessions {
		if s.CompletedAt.Before(from) || s.CompletedAt.After(to) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// TodaySessions returns the sessions completed on now's calendar day.
func TodaySessions(sessions []models.FocusSession, now time.Time) []models.FocusSession {
	return Between(sessions, StartOfDay(now), EndOfDay(now))
}

func totals(sessions []models.FocusSession) (count, minutes int) {
	for _, s := range sessions {
		count++
		minutes += s.Duration
	}
	return count, minutes
}

func bucket(sessions []models.FocusSession) Bucket {
	count, minutes := totals(sessions)
	return Bucket{Sessions: count, Minutes: minutes, Hours: Hours(minutes)}
}

// Today totals the sessions completed on now's calendar day.
func Today(sessions []models.FocusSession, now time.Time) Bucket {
	return bucket(TodaySessions(sessions, now))
}

// Week breaks the Monday..Sunday week containing now into seven days.
func Week(sessions []models.FocusSession, now time.Time) []DayBucket {
	loc := now.Location()
	start := StartOfWeek(now)
	days := make([]DayBucket, 7)
	for i := range days {
		day := start.AddDate(0, 0, i)
		days[i] = DayBucket{
			Key:     day.Format(DayKeyLayout),
			Date:    day.Format(DayLabelLayout),
			DayName: day.Format("Mon"),
			IsToday: sameDate(day, now),
		}
	}

	for _, s := range Between(sessions, start, EndOfWeek(now)) {
		i := mondayIndex(s.CompletedAt.In(loc).Weekday())
		days[i].Count++
		days[i].TotalMinutes += s.Duration
	}
	return days
}

// Month partitions now's month into Monday-aligned weeks, starting with the
// Monday on or before the 1st and ending with the Sunday on or after the
// last day. Only sessions inside the month itself are counted, so the first
// and last chunks may show days of neighbouring months with no totals.
func Month(sessions []models.FocusSession, now time.Time) []WeekBucket {
	monthStart, monthEnd := StartOfMonth(now), EndOfMonth(now)
	inMonth := Between(sessions, monthStart, monthEnd)

	var weeks []WeekBucket
	n := 1
	for start := StartOfWeek(monthStart); !start.After(monthEnd); start = start.AddDate(0, 0, 7) {
		end := EndOfWeek(start)
		count, minutes := totals(Between(inMonth, start, end))
		weeks = append(weeks, WeekBucket{
			Number:       n,
			WeekLabel:    fmt.Sprintf("Week %d", n),
			DateRange:    start.Format(DayLabelLayout) + " - " + end.Format(DayLabelLayout),
			Start:        start,
			End:          end,
			Count:        count,
			TotalMinutes: minutes,
		})
		n++
	}
	return weeks
}

// WeekPeriod summarises the week containing now; the daily average is
// taken over all seven days.
func WeekPeriod(sessions []models.FocusSession, now time.Time) PeriodStats {
	count, minutes := totals(Between(sessions, StartOfWeek(now), EndOfWeek(now)))
	return PeriodStats{
		Sessions:      count,
		Minutes:       minutes,
		Hours:         Hours(minutes),
		AveragePerDay: Div1(count, 7),
	}
}

// MonthPeriod summarises the month containing now; the daily average is
// the pace so far, taken over the days elapsed including today.
func MonthPeriod(sessions []models.FocusSession, now time.Time) PeriodStats {
	count, minutes := totals(Between(sessions, StartOfMonth(now), EndOfMonth(now)))
	return PeriodStats{
		Sessions:      count,
		Minutes:       minutes,
		Hours:         Hours(minutes),
		AveragePerDay: Div1(count, now.Day()),
	}
}

// AllTime summarises every session. Calendar days are taken in the
// location of each completion time.
func AllTime(sessions []models.FocusSession) AllTimeStats {
	count, minutes := totals(sessions)
	out := AllTimeStats{
		TotalSessions:     count,
		TotalMinutes:      minutes,
		TotalHours:        Hours(minutes),
		AveragePerSession: Div1(minutes, count),
	}

	days := make(map[string]struct{})
	for _, s := range sessions {
		days[s.CompletedAt.Format(DayKeyLayout)] = struct{}{}
		if out.FirstSession == nil || s.CompletedAt.Before(*out.FirstSession) {
			first := s.CompletedAt
			out.FirstSession = &first
		}
	}
	out.DaysActive = len(days)
	return out
}

// MostProductiveDay returns the weekday with the most sessions, or nil when
// there are none. Ties go to the earlier day, Monday first.
func MostProductiveDay(sessions []models.FocusSession) *time.Weekday {
	var counts [7]int
	for _, s := range sessions {
		counts[mondayIndex(s.CompletedAt.Weekday())]++
	}
	best := argmax(counts[:])
	if best < 0 {
		return nil
	}
	wd := time.Weekday((best + 1) % 7)
	return &wd
}

// MostProductiveHour returns the hour of day (0-23) with the most sessions,
// or nil when there are none. Ties go to the earlier hour.
func MostProductiveHour(sessions []models.FocusSession) *int {
	var counts [24]int
	for _, s := range sessions {
		counts[s.CompletedAt.Hour()]++
	}
	best := argmax(counts[:])
	if best < 0 {
		return nil
	}
	return &best
}

// argmax returns the index of the first strictly greatest positive count,
// or -1 when every count is zero.
func argmax(counts []int) int {
	best, bestCount := -1, 0
	for i, c := range counts {
		if c > bestCount {
			best, bestCount = i, c
		}
	}
	return best
}

// Milestones returns the achieved thresholds of the ladder, in ladder order.
func Milestones(totalSessions int) []Milestone {
	achieved := []Milestone{}
	for _, threshold := range MilestoneLadder {
		if totalSessions >= threshold {
			achieved = append(achieved, Milestone{Count: threshold, Achieved: true})
		}
	}
	return achieved
}

// PlatformTotals builds platform stats from pre-aggregated counters.
func PlatformTotals(sessions, minutes, users, activeUsers int) PlatformStats {
	return PlatformStats{
		TotalSessions: sessions,
		TotalMinutes:  minutes,
		TotalHours:    Hours(minutes),
		TotalUsers:    users,
		ActiveUsers:   activeUsers,
	}
}

// Platform aggregates sessions across the given users. A user is active
// when at least one session belongs to them.
func Platform(sessions []models.FocusSession, userIDs []int64) PlatformStats {
	owners := make(map[int64]struct{})
	for _, s := range sessions {
		owners[s.UserID] = struct{}{}
	}
	active := 0
	for _, id := range userIDs {
		if _, ok := owners[id]; ok {
			active++
		}
	}
	count, minutes := totals(sessions)
	return PlatformTotals(count, minutes, len(userIDs), active)
}
