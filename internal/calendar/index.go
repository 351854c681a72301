package calendar

import (
	"errors"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/username/unit-planner/internal/vault"
	"github.com/username/unit-planner/pkg/timeutil"
	"go.uber.org/zap"
)

const (
	defaultCacheTTL = 5 * time.Minute

	// One weekly candidate per iteration; 520 weeks is ten years of
	// lookahead before the search is declared unreachable.
	maxLookaheadWeeks = 520
)

// ErrWeekdayUnreachable is returned when holiday skipping exhausts the
// lookahead bound before collecting the requested occurrence count.
var ErrWeekdayUnreachable = errors.New("could not collect enough non-holiday dates within lookahead bound")

var horizontalRulePattern = regexp.MustCompile(`^(\*{3,}|-{3,}|_{3,})$`)

// Index classifies dates against the holiday and special-schedule
// calendars. Sets are loaded wholesale from two vault documents and
// cached with a freshness window; a stale read within the window is an
// accepted tradeoff.
type Index struct {
	store        vault.Store
	holidaysDoc  string
	schedulesDoc string
	cacheTTL     time.Duration
	logger       *zap.Logger

	mu       sync.RWMutex
	sets     *Sets
	loadedAt time.Time
}

// NewIndex creates an Index reading from the given calendar documents
func NewIndex(store vault.Store, holidaysDoc, schedulesDoc string, cacheTTL time.Duration, logger *zap.Logger) *Index {
	if cacheTTL == 0 {
		cacheTTL = defaultCacheTTL
	}

	return &Index{
		store:        store,
		holidaysDoc:  holidaysDoc,
		schedulesDoc: schedulesDoc,
		cacheTTL:     cacheTTL,
		logger:       logger,
	}
}

// Load replaces the cached sets from the two calendar documents. A
// missing or unreadable document yields an empty set for that source
// with a warning; Load never fails the caller. Within the freshness
// window the cached sets are returned without re-reading.
func (idx *Index) Load() *Sets {
	idx.mu.RLock()
	if idx.sets != nil && time.Since(idx.loadedAt) < idx.cacheTTL {
		sets := idx.sets
		idx.mu.RUnlock()
		return sets
	}
	idx.mu.RUnlock()

	sets := newSets()

	holidayText, err := idx.readSource(idx.holidaysDoc)
	if err != nil {
		idx.logger.Warn("Holiday calendar unavailable, treating as empty",
			zap.String("doc", idx.holidaysDoc),
			zap.Error(err))
	} else {
		for _, date := range vault.BulletedDates(holidayText) {
			sets.Holidays[date] = true
		}
	}

	scheduleText, err := idx.readSource(idx.schedulesDoc)
	if err != nil {
		idx.logger.Warn("Special-schedule calendar unavailable, treating as empty",
			zap.String("doc", idx.schedulesDoc),
			zap.Error(err))
	} else {
		parseScheduleSections(scheduleText, sets)
	}

	idx.mu.Lock()
	idx.sets = sets
	idx.loadedAt = time.Now()
	idx.mu.Unlock()

	idx.logger.Info("Calendar sets loaded",
		zap.Int("holidays", len(sets.Holidays)),
		zap.Int("early_dismissal", len(sets.EarlyDismissal)),
		zap.Int("testing_day", len(sets.TestingDay)))

	return sets
}

func (idx *Index) readSource(doc string) (string, error) {
	if !idx.store.Exists(doc) {
		return "", errors.New("document not found")
	}
	return idx.store.Read(doc)
}

// parseScheduleSections scans the special-schedule document. A header
// line (leading '#') containing "early dismissal" or "testing day",
// case-insensitive, opens a section; bulleted dates accumulate into
// the open section until a horizontal rule or the next header.
func parseScheduleSections(text string, sets *Sets) {
	var current map[string]bool

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "#") {
			lower := strings.ToLower(trimmed)
			switch {
			case strings.Contains(lower, "early dismissal"):
				current = sets.EarlyDismissal
			case strings.Contains(lower, "testing day"):
				current = sets.TestingDay
			default:
				current = nil
			}
			continue
		}

		if horizontalRulePattern.MatchString(trimmed) {
			current = nil
			continue
		}

		if current == nil {
			continue
		}

		if date, ok := vault.BulletDate(line); ok {
			current[date] = true
		}
	}
}

// Invalidate discards the cached sets so the next call re-reads the
// source documents.
func (idx *Index) Invalidate() {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.sets = nil
	idx.loadedAt = time.Time{}
	idx.logger.Info("Calendar cache invalidated")
}

// Classify returns the schedule type for the date. Early dismissal
// takes precedence over testing day, which takes precedence over
// regular, regardless of source ordering.
func (idx *Index) Classify(date time.Time) Classification {
	sets := idx.Load()
	key := timeutil.DateKey(date)

	switch {
	case sets.EarlyDismissal[key]:
		return EarlyDismissal
	case sets.TestingDay[key]:
		return TestingDay
	default:
		return Regular
	}
}

// IsHoliday reports whether the date is on the holiday list
func (idx *Index) IsHoliday(date time.Time) bool {
	return idx.Load().Holidays[timeutil.DateKey(date)]
}

// RecurrenceDates computes the occurrence dates for a weekly meeting:
// the first date on or after start matching the weekday, then one week
// at a time. Holiday candidates are skipped without consuming the
// count, so the result always has exactly count entries, strictly
// increasing. The search is bounded; a weekday whose occurrences are
// persistently blocked returns ErrWeekdayUnreachable.
func (idx *Index) RecurrenceDates(start time.Time, weekday time.Weekday, count int) ([]time.Time, error) {
	dates := make([]time.Time, 0, count)
	candidate := timeutil.NextOnOrAfter(timeutil.StartOfDay(start), weekday)

	for week := 0; len(dates) < count; week++ {
		if week >= maxLookaheadWeeks {
			idx.logger.Error("Recurrence lookahead bound exceeded",
				zap.Time("start", start),
				zap.String("weekday", weekday.String()),
				zap.Int("collected", len(dates)),
				zap.Int("target", count))
			return nil, ErrWeekdayUnreachable
		}

		if idx.IsHoliday(candidate) {
			idx.logger.Debug("Skipping holiday occurrence",
				zap.String("date", timeutil.DateKey(candidate)))
		} else {
			dates = append(dates, candidate)
		}

		candidate = candidate.AddDate(0, 0, 7)
	}

	return dates, nil
}

// placeholder values that mean a time was never actually configured
func isPlaceholderTime(text string) bool {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "", "?", "tbd", "n/a":
		return true
	}
	return false
}

// EffectiveTime resolves the class time for a schedule type. When the
// classification calls for an override that was never configured, the
// regular time is used and the result is flagged for human review; the
// engine never guesses a time on its own.
func EffectiveTime(times ClassTimes, classification Classification) Resolution {
	switch classification {
	case EarlyDismissal:
		if !isPlaceholderTime(times.EarlyDismissal) {
			return Resolution{
				Time: times.EarlyDismissal,
				Note: "early dismissal schedule",
			}
		}
		return Resolution{
			Time:        times.Regular,
			Note:        "early dismissal day, no early dismissal time configured - verify time",
			NeedsReview: true,
		}

	case TestingDay:
		if !isPlaceholderTime(times.TestingDay) && times.TestingDay != times.Regular {
			return Resolution{
				Time: times.TestingDay,
				Note: "testing day schedule",
			}
		}
		return Resolution{
			Time:        times.Regular,
			Note:        "testing day, no distinct testing time configured - verify time",
			NeedsReview: true,
		}

	default:
		return Resolution{Time: times.Regular}
	}
}

// Resolve classifies a date and resolves its effective time in one step
func (idx *Index) Resolve(date time.Time, times ClassTimes) OccurrenceDate {
	classification := idx.Classify(date)
	return OccurrenceDate{
		Date:           date,
		Classification: classification,
		Resolution:     EffectiveTime(times, classification),
	}
}
