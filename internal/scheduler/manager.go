package scheduler

import (
	"fmt"
	"time"

	"github.com/username/unit-planner/internal/calendar"
	"github.com/username/unit-planner/internal/config"
	"github.com/username/unit-planner/internal/plan"
	"github.com/username/unit-planner/internal/vault"
	"github.com/username/unit-planner/pkg/timeutil"
	"go.uber.org/zap"
)

// Manager drives unit assignment: it validates inputs, resolves the
// occurrence dates and effective times, and merges one entry per date
// into the day-plan documents.
type Manager struct {
	store  vault.Store
	index  *calendar.Index
	codec  *timeutil.Codec
	config *config.Config
	logger *zap.Logger
}

// NewManager creates a new assignment manager
func NewManager(
	cfg *config.Config,
	store vault.Store,
	index *calendar.Index,
	codec *timeutil.Codec,
	logger *zap.Logger,
) *Manager {
	return &Manager{
		store:  store,
		index:  index,
		codec:  codec,
		config: cfg,
		logger: logger,
	}
}

// DateOutcome records what happened for one occurrence date
type DateOutcome struct {
	Date           string
	Classification string
	Time           string
	Status         string
	Note           string
	Conflict       bool
	NeedsReview    bool
	Err            string
}

// Result aggregates an assignment run. Each date's merge commits
// independently; a late failure never rolls earlier dates back.
type Result struct {
	Unit     string
	Class    string
	Created  int
	Skipped  int
	Warnings int
	Failed   int
	Dates    []DateOutcome
	DryRun   bool
}

// Summary returns the human-readable outcome line
func (r *Result) Summary() string {
	s := fmt.Sprintf("%s -> %s: %d created, %d skipped, %d warnings",
		r.Unit, r.Class, r.Created, r.Skipped, r.Warnings)
	if r.Failed > 0 {
		s += fmt.Sprintf(", %d failed", r.Failed)
	}
	if r.DryRun {
		s += " (dry run)"
	}
	return s
}

func (m *Manager) unitDocID(name string) string {
	return m.config.Vault.UnitsDir + "/" + name + ".md"
}

func (m *Manager) classDocID(name string) string {
	return m.config.Vault.ClassesDir + "/" + name + ".md"
}

func (m *Manager) planDocID(date time.Time) string {
	return m.config.Vault.PlansDir + "/" + timeutil.DateKey(date) + ".md"
}

// Assign schedules every occurrence of the unit for the class starting
// from startDate. Validation and configuration failures abort before
// any mutation; per-date storage failures are recorded and the loop
// continues with the remaining dates. When dryRun is set nothing is
// persisted.
func (m *Manager) Assign(unitName, className, startDate string, dryRun bool) (*Result, error) {
	m.logger.Info("Starting unit assignment",
		zap.String("unit", unitName),
		zap.String("class", className),
		zap.String("start_date", startDate),
		zap.Bool("dry_run", dryRun))

	unitDoc := m.unitDocID(unitName)
	if !m.store.Exists(unitDoc) {
		return nil, &ValidationError{Field: "unit", Message: fmt.Sprintf("no unit document %s", unitDoc)}
	}

	classDoc := m.classDocID(className)
	if !m.store.Exists(classDoc) {
		return nil, &ValidationError{Field: "class", Message: fmt.Sprintf("no class document %s", classDoc)}
	}

	start, err := timeutil.ParseDate(startDate)
	if err != nil {
		return nil, &ValidationError{Field: "start date", Message: err.Error()}
	}

	unit, err := loadUnitSpec(m.store, unitDoc, unitName)
	if err != nil {
		return nil, err
	}

	class, err := loadClassSpec(m.store, classDoc, className)
	if err != nil {
		return nil, err
	}

	dates, err := m.index.RecurrenceDates(start, class.Weekday, unit.Duration)
	if err != nil {
		return nil, fmt.Errorf("failed to compute occurrence dates: %w", err)
	}

	result := &Result{Unit: unitName, Class: className, DryRun: dryRun}

	for i, date := range dates {
		outcome := m.mergeDate(date, unit, class, i+1, len(dates), dryRun)
		result.Dates = append(result.Dates, outcome)

		switch {
		case outcome.Err != "":
			result.Failed++
		case outcome.Status == plan.StatusSkipped.String():
			result.Skipped++
		default:
			result.Created++
		}

		if outcome.Err == "" && (outcome.Conflict || outcome.NeedsReview) {
			result.Warnings++
		}
	}

	if !dryRun {
		if err := m.recordAssignment(unit, class); err != nil {
			return nil, fmt.Errorf("failed to record assignment: %w", err)
		}
	}

	m.logger.Info("Unit assignment completed",
		zap.String("unit", unitName),
		zap.String("class", className),
		zap.Int("created", result.Created),
		zap.Int("skipped", result.Skipped),
		zap.Int("warnings", result.Warnings),
		zap.Int("failed", result.Failed))

	return result, nil
}

// mergeDate resolves one occurrence date and merges its entry into the
// day's plan document. Storage failures are reported in the outcome,
// not returned; earlier dates stay committed.
func (m *Manager) mergeDate(date time.Time, unit *UnitSpec, class *ClassSpec, occurrence, total int, dryRun bool) DateOutcome {
	occ := m.index.Resolve(date, class.Times)

	outcome := DateOutcome{
		Date:           timeutil.DateKey(date),
		Classification: occ.Classification.String(),
		Time:           occ.Resolution.Time,
		Note:           occ.Resolution.Note,
		NeedsReview:    occ.Resolution.NeedsReview,
	}

	planDoc := m.planDocID(date)

	text := ""
	if m.store.Exists(planDoc) {
		var err error
		text, err = m.store.Read(planDoc)
		if err != nil {
			m.logger.Error("Failed to read plan document",
				zap.String("doc", planDoc),
				zap.Error(err))
			outcome.Err = err.Error()
			return outcome
		}
	}

	merged := plan.Merge(text, plan.Request{
		Date:       date,
		Class:      class.Name,
		Unit:       unit.Name,
		Occurrence: occurrence,
		Total:      total,
		Time:       occ.Resolution.Time,
		Note:       occ.Resolution.Note,
	}, m.codec)

	outcome.Status = merged.Status.String()
	outcome.Conflict = merged.Conflict
	if merged.TimeInvalid {
		outcome.NeedsReview = true
	}

	if merged.Conflict {
		m.logger.Warn("Schedule conflict: another entry at the same time",
			zap.String("date", outcome.Date),
			zap.String("time", occ.Resolution.Time),
			zap.String("class", class.Name))
	}
	if outcome.NeedsReview {
		m.logger.Warn("Entry needs manual review",
			zap.String("date", outcome.Date),
			zap.String("class", class.Name),
			zap.String("note", occ.Resolution.Note))
	}

	if dryRun || merged.Status == plan.StatusSkipped {
		return outcome
	}

	var err error
	if merged.Status == plan.StatusCreated {
		err = m.store.Create(planDoc, merged.Text)
	} else {
		err = m.store.Write(planDoc, merged.Text)
	}
	if err != nil {
		m.logger.Error("Failed to persist plan document",
			zap.String("doc", planDoc),
			zap.Error(err))
		outcome.Err = err.Error()
	}

	return outcome
}

// recordAssignment cross-links the unit and class documents with
// set-union semantics; re-assigning is not an error.
func (m *Manager) recordAssignment(unit *UnitSpec, class *ClassSpec) error {
	unitText, err := m.store.Read(unit.DocID)
	if err != nil {
		return err
	}
	if updated, changed := vault.UpsertListValue(unitText, "active_classes", class.Name); changed {
		if err := m.store.Write(unit.DocID, updated); err != nil {
			return err
		}
	}

	classText, err := m.store.Read(class.DocID)
	if err != nil {
		return err
	}
	if updated, changed := vault.UpsertListValue(classText, "current_units", unit.Name); changed {
		if err := m.store.Write(class.DocID, updated); err != nil {
			return err
		}
	}

	return nil
}
