package stats

import "time"

// Layouts used for bucket keys and labels.
const (
	DayKeyLayout   = "2006-01-02"
	DayLabelLayout = "Jan 02"
)

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last instant of t's calendar day.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// StartOfWeek returns Monday 00:00 of the week containing t.
func StartOfWeek(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d-mondayIndex(t.Weekday()), 0, 0, 0, 0, t.Location())
}

// EndOfWeek returns the last instant of the Sunday closing t's week.
func EndOfWeek(t time.Time) time.Time {
	return StartOfWeek(t).AddDate(0, 0, 7).Add(-time.Nanosecond)
}

// StartOfMonth returns 00:00 on the first day of t's month.
func StartOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

// EndOfMonth returns the last instant of t's month.
func EndOfMonth(t time.Time) time.Time {
	return StartOfMonth(t).AddDate(0, 1, 0).Add(-time.Nanosecond)
}

// ReportRange returns the smallest [from, to] window covering both the
// week and the month containing now.
func ReportRange(now time.Time) (from, to time.Time) {
	from, to = StartOfWeek(now), EndOfWeek(now)
	if ms := StartOfMonth(now); ms.Before(from) {
		from = ms
	}
	if me := EndOfMonth(now); me.After(to) {
		to = me
	}
	return from, to
}

// mondayIndex maps Monday..Sunday to 0..6.
func mondayIndex(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
