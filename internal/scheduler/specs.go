package scheduler

import (
	"strconv"
	"time"

	"github.com/username/unit-planner/internal/calendar"
	"github.com/username/unit-planner/internal/vault"
	"github.com/username/unit-planner/pkg/timeutil"
)

// UnitSpec is a multi-day instructional unit as read from its vault
// document. The engine only ever writes back to ActiveClasses.
type UnitSpec struct {
	Name          string
	DocID         string
	Duration      int // occurrences, >= 1
	ActiveClasses []string
}

// ClassSpec is a recurring weekly class meeting as read from its vault
// document. Override times may be empty; the engine only ever writes
// back to CurrentUnits.
type ClassSpec struct {
	Name         string
	DocID        string
	Weekday      time.Weekday
	Times        calendar.ClassTimes
	CurrentUnits []string
}

// loadUnitSpec reads and validates a unit document. A missing or
// non-positive duration_days is a configuration error; active_classes
// fails soft to empty.
func loadUnitSpec(store vault.Store, docID, name string) (*UnitSpec, error) {
	text, err := store.Read(docID)
	if err != nil {
		return nil, err
	}

	durationStr, ok := vault.ScalarField(text, "duration_days")
	if !ok {
		return nil, &MissingConfigurationError{Doc: docID, Field: "duration_days"}
	}

	duration, err := strconv.Atoi(durationStr)
	if err != nil || duration < 1 {
		return nil, &MissingConfigurationError{Doc: docID, Field: "duration_days"}
	}

	classes, _ := vault.ListField(text, "active_classes")

	return &UnitSpec{
		Name:          name,
		DocID:         docID,
		Duration:      duration,
		ActiveClasses: classes,
	}, nil
}

// loadClassSpec reads and validates a class document. A missing or
// unrecognized day_of_week is a configuration error; time fields and
// current_units fail soft to empty.
func loadClassSpec(store vault.Store, docID, name string) (*ClassSpec, error) {
	text, err := store.Read(docID)
	if err != nil {
		return nil, err
	}

	weekdayStr, ok := vault.ScalarField(text, "day_of_week")
	if !ok {
		return nil, &MissingConfigurationError{Doc: docID, Field: "day_of_week"}
	}

	weekday, err := timeutil.ParseWeekday(weekdayStr)
	if err != nil {
		return nil, &MissingConfigurationError{Doc: docID, Field: "day_of_week"}
	}

	regular, _ := vault.ScalarField(text, "regular_time")
	early, _ := vault.ScalarField(text, "early_dismissal_time")
	testing, _ := vault.ScalarField(text, "testing_day_time")
	units, _ := vault.ListField(text, "current_units")

	return &ClassSpec{
		Name:    name,
		DocID:   docID,
		Weekday: weekday,
		Times: calendar.ClassTimes{
			Regular:        regular,
			EarlyDismissal: early,
			TestingDay:     testing,
		},
		CurrentUnits: units,
	}, nil
}
