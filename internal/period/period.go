// Package period turns day, ISO week and month identifiers into inclusive
// ranges of instants in a given location.
package period

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var ErrInvalidPeriod = errors.New("invalid period")

const (
	KindDay   = "day"
	KindWeek  = "week"
	KindMonth = "month"
)

type ParseError struct {
	Kind   string
	Value  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Kind, e.Value, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return ErrInvalidPeriod
}

// Range is inclusive on both ends. End is the last whole second of the
// final local day.
type Range struct {
	Start time.Time
	End   time.Time
}

func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

type Date struct {
	Year  int
	Month time.Month
	Day   int
}

var (
	weekPattern  = regexp.MustCompile(`^(\d{4})-W(\d{2})$`)
	monthPattern = regexp.MustCompile(`^(\d{4})-(\d{2})$`)
)

// ParseDay parses a YYYY-MM-DD calendar date.
func ParseDay(s string, loc *time.Location) (Date, error) {
	t, err := time.ParseInLocation(time.DateOnly, s, loc)
	if err != nil {
		return Date{}, &ParseError{Kind: KindDay, Value: s, Reason: "expected a calendar date YYYY-MM-DD"}
	}
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}, nil
}

func DayRange(year int, month time.Month, day int, loc *time.Location) Range {
	return spanDays(year, month, day, 1, loc)
}

// ParseWeek parses a YYYY-Www ISO week identifier and returns the range from
// Monday 00:00:00 to Sunday 23:59:59 of that week.
func ParseWeek(s string, loc *time.Location) (Range, error) {
	match := weekPattern.FindStringSubmatch(s)
	if match == nil {
		return Range{}, &ParseError{Kind: KindWeek, Value: s, Reason: "expected YYYY-Www"}
	}
	year, _ := strconv.Atoi(match[1])
	week, _ := strconv.Atoi(match[2])

	r, err := WeekRange(year, week, loc)
	if err != nil {
		return Range{}, &ParseError{Kind: KindWeek, Value: s, Reason: err.Error()}
	}
	return r, nil
}

func WeekRange(isoYear, week int, loc *time.Location) (Range, error) {
	if week < 1 || week > WeeksInYear(isoYear) {
		return Range{}, fmt.Errorf("week %d is out of range for %d", week, isoYear)
	}

	// Week 1 is the week containing January 4th.
	jan4 := time.Date(isoYear, time.January, 4, 0, 0, 0, 0, loc)
	offset := (int(jan4.Weekday()) + 6) % 7
	return spanDays(isoYear, time.January, 4-offset+(week-1)*7, 7, loc), nil
}

// WeeksInYear returns 52 or 53, the number of ISO weeks in isoYear.
func WeeksInYear(isoYear int) int {
	_, week := time.Date(isoYear, time.December, 28, 12, 0, 0, 0, time.UTC).ISOWeek()
	return week
}

// ParseMonth parses a YYYY-MM month identifier.
func ParseMonth(s string) (int, time.Month, error) {
	match := monthPattern.FindStringSubmatch(s)
	if match == nil {
		return 0, 0, &ParseError{Kind: KindMonth, Value: s, Reason: "expected YYYY-MM"}
	}
	year, _ := strconv.Atoi(match[1])
	month, _ := strconv.Atoi(match[2])
	if month < 1 || month > 12 {
		return 0, 0, &ParseError{Kind: KindMonth, Value: s, Reason: "month must be between 01 and 12"}
	}
	return year, time.Month(month), nil
}

func MonthRange(year int, month time.Month, loc *time.Location) Range {
	days := time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
	return spanDays(year, month, 1, days, loc)
}

func spanDays(year int, month time.Month, day, days int, loc *time.Location) Range {
	start := time.Date(year, month, day, 0, 0, 0, 0, loc)
	next := time.Date(year, month, day+days, 0, 0, 0, 0, loc)
	return Range{
		Start: start,
		End:   next.Add(-time.Second),
	}
}
