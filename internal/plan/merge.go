package plan

import (
	"fmt"
	"sort"
	"time"

	"github.com/username/unit-planner/pkg/timeutil"
)

// Status reports what a merge did to the document
type Status int

const (
	StatusCreated Status = iota + 1
	StatusSkipped
	StatusMutated
)

// String returns the human-readable label for the status
func (s Status) String() string {
	switch s {
	case StatusCreated:
		return "created"
	case StatusSkipped:
		return "skipped"
	case StatusMutated:
		return "mutated"
	default:
		return "unknown"
	}
}

// Request describes one entry to merge into a day's plan
type Request struct {
	Date       time.Time
	Class      string
	Unit       string
	Occurrence int // 1-based
	Total      int
	Time       string // effective time string
	Note       string // informational note, empty for regular days
}

// Outcome is the result of a merge
type Outcome struct {
	Status Status

	// Conflict is set when an existing entry has the same normalized
	// time. The entry is still inserted; conflicts are surfaced, not
	// blocking.
	Conflict bool

	// TimeInvalid is set when the request's time failed to normalize
	// and the sentinel was substituted.
	TimeInvalid bool

	Text string
}

// Merge inserts an entry block for the request into the document text,
// creating the skeleton when text is empty. Re-merging a class already
// present is a no-op that returns the input text byte-identical.
// Blocks stay ordered by ascending normalized time; the classes list
// field stays the alphabetical set of classes with a block.
func Merge(text string, req Request, codec *timeutil.Codec) Outcome {
	outcome := Outcome{Status: StatusMutated}

	var doc *Document
	if text == "" {
		doc = NewDocument(req.Date)
		outcome.Status = StatusCreated
	} else {
		doc = Parse(text, codec)
		if doc.Date == "" {
			doc.Date = timeutil.DateKey(req.Date)
		}
		if doc.DayOfWeek == "" {
			doc.DayOfWeek = req.Date.Weekday().String()
		}
	}

	if doc.HasClass(req.Class) {
		return Outcome{Status: StatusSkipped, Text: text}
	}

	tod, err := codec.Normalize(req.Time)
	if err != nil {
		tod = timeutil.Sentinel(req.Time)
		outcome.TimeInvalid = true
	}

	block := Block{
		Time:        tod,
		Class:       req.Class,
		Body:        blockBody(req),
		TimeInvalid: outcome.TimeInvalid,
	}

	insertAt := len(doc.Blocks)
	for i, existing := range doc.Blocks {
		if existing.Time.Minutes == tod.Minutes {
			outcome.Conflict = true
		}
		if existing.Time.Minutes > tod.Minutes && insertAt == len(doc.Blocks) {
			insertAt = i
		}
	}

	doc.Blocks = append(doc.Blocks, Block{})
	copy(doc.Blocks[insertAt+1:], doc.Blocks[insertAt:])
	doc.Blocks[insertAt] = block

	doc.Classes = insertClass(doc.Classes, req.Class)

	outcome.Text = doc.Serialize()
	return outcome
}

func blockBody(req Request) []string {
	body := []string{fmt.Sprintf("Unit: %s (day %d of %d)", req.Unit, req.Occurrence, req.Total)}
	if req.Note != "" {
		body = append(body, "Note: "+req.Note)
	}
	return body
}

// insertClass adds class to the list with set semantics, keeping it
// alphabetically sorted
func insertClass(classes []string, class string) []string {
	for _, c := range classes {
		if c == class {
			return classes
		}
	}
	classes = append(classes, class)
	sort.Strings(classes)
	return classes
}
