package timeutil

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
)

// ErrInvalidTimeFormat is returned when a time string does not match
// H:MM or HH:MM with a valid hour and minute.
var ErrInvalidTimeFormat = errors.New("invalid time format")

// TimeOfDay is a normalized minute-of-day value (0-1439) together with
// the original textual form, kept for rendering only. Ordering always
// uses Minutes.
type TimeOfDay struct {
	Minutes int
	Raw     string
}

var timePattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)

// Normalize parses a school-day time string into a TimeOfDay.
// Accepted forms are H:MM and HH:MM with hours 0-23 and minutes 00-59.
// Hours 1-7 are reinterpreted as 13-19: times in that range are always
// meant as afternoon on a school day.
func Normalize(text string) (TimeOfDay, error) {
	trimmed := strings.TrimSpace(text)

	m := timePattern.FindStringSubmatch(trimmed)
	if m == nil {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, text)
	}

	hour, err := strconv.Atoi(m[1])
	if err != nil || hour > 23 {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, text)
	}

	minute, err := strconv.Atoi(m[2])
	if err != nil || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, text)
	}

	if hour >= 1 && hour <= 7 {
		hour += 12
	}

	return TimeOfDay{Minutes: hour*60 + minute, Raw: trimmed}, nil
}

// Sentinel returns the substitute TimeOfDay used when a time string
// cannot be parsed. It sorts after every valid time so malformed
// entries land at the end of a plan; callers pair it with a
// needs-review flag.
func Sentinel(raw string) TimeOfDay {
	return TimeOfDay{Minutes: 23*60 + 59, Raw: raw}
}

// Codec normalizes time strings with per-input memoization. The memo
// map is an explicit cache owned by the codec instance, not package
// state.
type Codec struct {
	mu   sync.Mutex
	memo map[string]TimeOfDay
}

// NewCodec creates a Codec with an empty memo.
func NewCodec() *Codec {
	return &Codec{memo: make(map[string]TimeOfDay)}
}

// Normalize parses text like the package-level Normalize, caching
// successful results by input string.
func (c *Codec) Normalize(text string) (TimeOfDay, error) {
	c.mu.Lock()
	if tod, ok := c.memo[text]; ok {
		c.mu.Unlock()
		return tod, nil
	}
	c.mu.Unlock()

	tod, err := Normalize(text)
	if err != nil {
		return TimeOfDay{}, err
	}

	c.mu.Lock()
	c.memo[text] = tod
	c.mu.Unlock()

	return tod, nil
}

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ParseDate parses a strict YYYY-MM-DD date string. Anything that does
// not match the pattern or is not a real calendar date is an error.
func ParseDate(text string) (time.Time, error) {
	if !datePattern.MatchString(text) {
		return time.Time{}, fmt.Errorf("date must be YYYY-MM-DD, got %q", text)
	}

	date, err := time.Parse("2006-01-02", text)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid calendar date %q: %w", text, err)
	}

	return date, nil
}

// DateKey formats a date as YYYY-MM-DD, the key format used across
// calendar sets and document names.
func DateKey(date time.Time) string {
	return date.Format("2006-01-02")
}

// ParseWeekday maps one of the seven English day names
// (case-insensitive) to a time.Weekday.
func ParseWeekday(name string) (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sunday":
		return time.Sunday, nil
	case "monday":
		return time.Monday, nil
	case "tuesday":
		return time.Tuesday, nil
	case "wednesday":
		return time.Wednesday, nil
	case "thursday":
		return time.Thursday, nil
	case "friday":
		return time.Friday, nil
	case "saturday":
		return time.Saturday, nil
	}
	return time.Sunday, fmt.Errorf("unknown weekday name %q", name)
}

// NextOnOrAfter returns the first date on or after the given date that
// falls on the given weekday.
func NextOnOrAfter(date time.Time, weekday time.Weekday) time.Time {
	offset := (int(weekday) - int(date.Weekday()) + 7) % 7
	return date.AddDate(0, 0, offset)
}

// StartOfDay returns the start of the day (00:00:00) for the given date
func StartOfDay(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
}
