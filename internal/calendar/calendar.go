package calendar

import "time"

// Classification is the schedule-type label for a date
type Classification int

const (
	Regular Classification = iota + 1
	EarlyDismissal
	TestingDay
)

// String returns the human-readable label for the classification
func (c Classification) String() string {
	switch c {
	case EarlyDismissal:
		return "early dismissal"
	case TestingDay:
		return "testing day"
	default:
		return "regular"
	}
}

// Sets holds the holiday and special-schedule date sets, keyed by
// YYYY-MM-DD. The sets are disjoint by convention, not enforced;
// classification precedence handles overlap.
type Sets struct {
	Holidays       map[string]bool
	EarlyDismissal map[string]bool
	TestingDay     map[string]bool
}

func newSets() *Sets {
	return &Sets{
		Holidays:       make(map[string]bool),
		EarlyDismissal: make(map[string]bool),
		TestingDay:     make(map[string]bool),
	}
}

// ClassTimes carries a class's configured time strings into effective
// time resolution. Override fields may be empty.
type ClassTimes struct {
	Regular        string
	EarlyDismissal string
	TestingDay     string
}

// Resolution is the effective time for one date, with an optional note
// and a flag set when the engine fell back to the regular time because
// no usable override was configured.
type Resolution struct {
	Time        string
	Note        string
	NeedsReview bool
}

// OccurrenceDate is one scheduled meeting date after resolution
type OccurrenceDate struct {
	Date           time.Time
	Classification Classification
	Resolution     Resolution
}
