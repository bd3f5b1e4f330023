// Package wallclock converts between the clinic's fixed civil timezone and
// absolute instants. All operations are pure.
package wallclock

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

const dateKeyLayout = "2006-01-02"

var clockTimePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):([0-5][0-9])$`)

// Clock performs civil date/time conversions for one fixed timezone.
type Clock struct {
	loc *time.Location
}

// New returns a Clock for the given location.
func New(loc *time.Location) *Clock {
	if loc == nil {
		loc = time.UTC
	}
	return &Clock{loc: loc}
}

// Location returns the clock's timezone.
func (c *Clock) Location() *time.Location { return c.loc }

// LocalDateKey returns the civil calendar date of t in the clock's timezone,
// formatted "YYYY-MM-DD".
func (c *Clock) LocalDateKey(t time.Time) string {
	return t.In(c.loc).Format(dateKeyLayout)
}

// LocalWeekday returns the Sunday=0 weekday of t in the clock's timezone.
func (c *Clock) LocalWeekday(t time.Time) int {
	return int(t.In(c.loc).Weekday())
}

// ComposeInstant returns the absolute instant for the given local wall-clock
// date and time. The UTC offset is sampled once, at local noon of dateKey,
// and applied to the requested hour/minute. On days where the zone's offset
// changes between midnight and the requested hour (a daylight-saving
// transition) the result is approximate; that sampling strategy is the
// contract and must not be replaced with an exact per-instant lookup.
func (c *Clock) ComposeInstant(dateKey string, hour, minute int) (time.Time, error) {
	d, err := ParseDateKey(dateKey)
	if err != nil {
		return time.Time{}, err
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return time.Time{}, fmt.Errorf("wallclock: time %02d:%02d out of range", hour, minute)
	}

	noonUTC := time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, time.UTC)
	_, offset := noonUTC.In(c.loc).Zone()

	naive := time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, time.UTC)
	return naive.Add(-time.Duration(offset) * time.Second), nil
}

// ParseDateKey parses a "YYYY-MM-DD" date key into a UTC civil date.
func ParseDateKey(dateKey string) (time.Time, error) {
	d, err := time.Parse(dateKeyLayout, dateKey)
	if err != nil {
		return time.Time{}, fmt.Errorf("wallclock: invalid date %q", dateKey)
	}
	return d, nil
}

// AddDays shifts a "YYYY-MM-DD" date key by n civil days.
func AddDays(dateKey string, n int) (string, error) {
	d, err := ParseDateKey(dateKey)
	if err != nil {
		return "", err
	}
	return d.AddDate(0, 0, n).Format(dateKeyLayout), nil
}

// WeekdayOf returns the Sunday=0 weekday of a "YYYY-MM-DD" date key.
func WeekdayOf(dateKey string) (int, error) {
	d, err := ParseDateKey(dateKey)
	if err != nil {
		return 0, err
	}
	return int(d.Weekday()), nil
}

// ParseClockTime parses a 24-hour "HH:MM" string.
func ParseClockTime(s string) (hour, minute int, err error) {
	m := clockTimePattern.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, fmt.Errorf("wallclock: invalid time %q, want HH:MM", s)
	}
	hour, _ = strconv.Atoi(m[1])
	minute, _ = strconv.Atoi(m[2])
	return hour, minute, nil
}
