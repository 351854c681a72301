// Package plan models a per-day plan document as an explicit list of
// entry blocks. Merging works on the parsed form and serializes
// deterministically, so delimiter and ordering invariants hold by
// construction instead of by line surgery.
package plan

import (
	"regexp"
	"strings"
	"time"

	"github.com/username/unit-planner/internal/vault"
	"github.com/username/unit-planner/pkg/timeutil"
)

const delimiter = "---"

var (
	entryHeaderPattern = regexp.MustCompile(`^(\d{1,2}:\d{2})\s+—\s+(.+)$`)
	delimiterPattern   = regexp.MustCompile(`^-{3,}$`)
)

// Block is one entry block: the textual record of one class occurrence
type Block struct {
	Time  timeutil.TimeOfDay
	Class string
	Body  []string

	// TimeInvalid marks a header whose time failed to normalize; the
	// block carries the sentinel time and sorts last.
	TimeInvalid bool
}

// Document is a parsed day-plan document. Blocks are kept in ascending
// time order; Classes mirrors exactly the set of class names that have
// a block.
type Document struct {
	Date      string
	DayOfWeek string
	Classes   []string
	Preamble  []string
	Blocks    []Block
}

// NewDocument creates the minimal skeleton for a date with no entries
func NewDocument(date time.Time) *Document {
	return &Document{
		Date:      timeutil.DateKey(date),
		DayOfWeek: date.Weekday().String(),
		Classes:   []string{},
	}
}

// Parse scans raw document text into a Document. Entry-block headers
// have the exact form "time — class name"; body lines belong to the
// preceding header; delimiter lines separate blocks. Header times that
// fail to normalize get the sentinel time and are flagged.
func Parse(text string, codec *timeutil.Codec) *Document {
	doc := &Document{Classes: []string{}}

	if v, ok := vault.ScalarField(text, "date"); ok {
		doc.Date = v
	}
	if v, ok := vault.ScalarField(text, "day_of_week"); ok {
		doc.DayOfWeek = v
	}
	if v, ok := vault.ListField(text, "classes"); ok {
		doc.Classes = v
	}

	var current *Block

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)

		if m := entryHeaderPattern.FindStringSubmatch(trimmed); m != nil {
			doc.flush(current)
			current = &Block{Class: strings.TrimSpace(m[2])}

			tod, err := codec.Normalize(m[1])
			if err != nil {
				tod = timeutil.Sentinel(m[1])
				current.TimeInvalid = true
			}
			current.Time = tod
			continue
		}

		if delimiterPattern.MatchString(trimmed) {
			doc.flush(current)
			current = nil
			continue
		}

		if current != nil {
			current.Body = append(current.Body, line)
			continue
		}

		if len(doc.Blocks) == 0 {
			doc.Preamble = append(doc.Preamble, line)
		} else {
			// Stray content after a delimiter folds into the previous
			// block so serialization keeps one delimiter per block.
			last := &doc.Blocks[len(doc.Blocks)-1]
			last.Body = append(last.Body, line)
		}
	}

	doc.flush(current)
	doc.trimPreamble()

	return doc
}

func (d *Document) flush(b *Block) {
	if b == nil {
		return
	}
	// Drop trailing blank body lines; serialization re-adds one.
	for len(b.Body) > 0 && strings.TrimSpace(b.Body[len(b.Body)-1]) == "" {
		b.Body = b.Body[:len(b.Body)-1]
	}
	d.Blocks = append(d.Blocks, *b)
}

// trimPreamble removes the recognized header field lines and
// surrounding blanks, leaving only free-form content the author added.
func (d *Document) trimPreamble() {
	kept := []string{}
	for _, line := range d.Preamble {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "date:") ||
			strings.HasPrefix(trimmed, "day_of_week:") ||
			strings.HasPrefix(trimmed, "classes:") {
			continue
		}
		kept = append(kept, line)
	}

	for len(kept) > 0 && strings.TrimSpace(kept[0]) == "" {
		kept = kept[1:]
	}
	for len(kept) > 0 && strings.TrimSpace(kept[len(kept)-1]) == "" {
		kept = kept[:len(kept)-1]
	}

	d.Preamble = kept
}

// HasClass reports whether any entry block names the class
func (d *Document) HasClass(class string) bool {
	for _, b := range d.Blocks {
		if b.Class == class {
			return true
		}
	}
	return false
}

// Serialize renders the document: header fields, free-form preamble,
// then blocks in order with exactly one delimiter between adjacent
// blocks and one after the final block.
func (d *Document) Serialize() string {
	var sb strings.Builder

	sb.WriteString("date: \"" + d.Date + "\"\n")
	sb.WriteString("day_of_week: \"" + d.DayOfWeek + "\"\n")
	sb.WriteString(vault.FormatListField("classes", d.Classes) + "\n")
	sb.WriteString("\n")

	for _, line := range d.Preamble {
		sb.WriteString(line + "\n")
	}
	if len(d.Preamble) > 0 {
		sb.WriteString("\n")
	}

	for _, b := range d.Blocks {
		sb.WriteString(b.Time.Raw + " — " + b.Class + "\n")
		for _, line := range b.Body {
			sb.WriteString(line + "\n")
		}
		sb.WriteString("\n" + delimiter + "\n")
	}

	return sb.String()
}
