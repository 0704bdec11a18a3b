// Package interval holds the closed-open time range arithmetic shared by
// availability computation and booking validation.
package interval

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

var (
	ErrEmptyInterval = errors.New("interval start must be before end")
	ErrInvalidClock  = errors.New("clock must be a zero-padded 24h HH:MM value")
)

// Interval is the half-open range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

func New(start, end time.Time) (Interval, error) {
	if !start.Before(end) {
		return Interval{}, ErrEmptyInterval
	}
	return Interval{Start: start, End: end}, nil
}

func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

func (i Interval) String() string {
	return fmt.Sprintf("[%s, %s)", i.Start.Format(time.RFC3339), i.End.Format(time.RFC3339))
}

// Overlaps reports whether a and b share any instant. Touching endpoints do
// not overlap.
func Overlaps(a, b Interval) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// Contains reports whether inner lies within outer, both endpoints inclusive.
func Contains(outer, inner Interval) bool {
	return !inner.Start.Before(outer.Start) && !inner.End.After(outer.End)
}

// DayOfWeek maps t to 0..6 with 0 = Sunday.
func DayOfWeek(t time.Time) int {
	return int(t.Weekday())
}

// DayBounds returns [00:00, next 00:00) of the calendar day of date in loc.
func DayBounds(date time.Time, loc *time.Location) Interval {
	d := date.In(loc)
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
	return Interval{Start: start, End: start.AddDate(0, 0, 1)}
}

// Split partitions window into consecutive step-long intervals starting at
// window.Start. A trailing remainder shorter than step is dropped.
func Split(window Interval, step time.Duration) []Interval {
	if step <= 0 {
		return nil
	}
	var out []Interval
	for cur := window.Start; !cur.Add(step).After(window.End); cur = cur.Add(step) {
		out = append(out, Interval{Start: cur, End: cur.Add(step)})
	}
	return out
}

// Clock is a wall time of day (hour and minute).
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock accepts exactly "HH:MM" in 24h form, e.g. "09:00" or "17:30".
func ParseClock(s string) (Clock, error) {
	if len(s) != 5 || s[2] != ':' {
		return Clock{}, ErrInvalidClock
	}
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return Clock{}, ErrInvalidClock
		}
	}
	h, _ := strconv.Atoi(s[:2])
	m, _ := strconv.Atoi(s[3:])
	if h > 23 || m > 59 {
		return Clock{}, ErrInvalidClock
	}
	return Clock{Hour: h, Minute: m}, nil
}

func (c Clock) minutes() int {
	return c.Hour*60 + c.Minute
}

func (c Clock) Before(other Clock) bool {
	return c.minutes() < other.minutes()
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// On places the clock on the calendar day of date in loc.
func (c Clock) On(date time.Time, loc *time.Location) time.Time {
	d := date.In(loc)
	return time.Date(d.Year(), d.Month(), d.Day(), c.Hour, c.Minute, 0, 0, loc)
}

// Window combines a calendar day with a start and end clock.
func Window(date time.Time, start, end Clock, loc *time.Location) (Interval, error) {
	return New(start.On(date, loc), end.On(date, loc))
}
