// Package temporal implements the two calendar systems the service runs on:
// civil-timezone day windows for match listings and the UTC Tuesday-anchored
// week buckets that key the weekly leaderboard. The two are deliberately not
// reconciled with each other.
package temporal

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrMalformedDate   = errors.New("malformed date")
	ErrUnknownTimeZone = errors.New("unknown time zone")
)

// AnchorWeekday is the weekday every week bucket starts on.
const AnchorWeekday = time.Tuesday

const dateLayout = "2006-01-02"

// ParseDate parses a strict YYYY-MM-DD calendar date.
func ParseDate(value string) (time.Time, error) {
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedDate, value)
	}
	return parsed, nil
}

// FormatDate renders the UTC calendar date of t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

// LoadZone resolves a named civil timezone.
func LoadZone(name string) (*time.Location, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty zone name", ErrUnknownTimeZone)
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTimeZone, name)
	}
	return loc, nil
}

// DayWindowUTC returns the half-open UTC interval [start, end) covering the
// civil day `date` (YYYY-MM-DD) in the named zone. Days crossing a DST
// transition come out with their true 23h or 25h span.
func DayWindowUTC(date, zone string) (time.Time, time.Time, error) {
	day, err := ParseDate(date)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	loc, err := LoadZone(zone)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	start := localMidnightUTC(day, loc)
	end := localMidnightUTC(day.AddDate(0, 0, 1), loc)
	return start, end, nil
}

// localMidnightUTC solves for the UTC instant of 00:00 local time on the
// given calendar date. It starts from a naive guess at midnight UTC and
// corrects it by the zone offset observed at the guess; the correction runs
// twice so a first pass that itself crosses a DST transition is absorbed.
// Offsets shift by at most a couple of hours, so the result is stable under
// further passes.
func localMidnightUTC(day time.Time, loc *time.Location) time.Time {
	naive := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)

	guess := naive
	for i := 0; i < 2; i++ {
		_, offset := guess.In(loc).Zone()
		corrected := naive.Add(-time.Duration(offset) * time.Second)
		if corrected.Equal(guess) {
			break
		}
		guess = corrected
	}
	return guess
}

// WeekBucketStart returns the UTC midnight of the most recent AnchorWeekday
// on or before the UTC calendar date of t. The weekly leaderboard cycle is a
// pure UTC calculation; no civil-zone correction applies here.
func WeekBucketStart(t time.Time) time.Time {
	u := t.UTC()
	day := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	back := (int(day.Weekday()) - int(AnchorWeekday) + 7) % 7
	return day.AddDate(0, 0, -back)
}

// CivilDate returns the YYYY-MM-DD calendar date of t as observed in loc.
func CivilDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(dateLayout)
}
