package plan

import (
	"strings"
	"testing"
	"time"

	"github.com/username/unit-planner/pkg/timeutil"
)

func TestNewDocument(t *testing.T) {
	date := time.Date(2025, 1, 14, 0, 0, 0, 0, time.UTC) // Tuesday
	doc := NewDocument(date)

	if doc.Date != "2025-01-14" {
		t.Errorf("Date = %q, want 2025-01-14", doc.Date)
	}
	if doc.DayOfWeek != "Tuesday" {
		t.Errorf("DayOfWeek = %q, want Tuesday", doc.DayOfWeek)
	}
	if len(doc.Classes) != 0 || len(doc.Blocks) != 0 {
		t.Errorf("skeleton must be empty, got %+v", doc)
	}
}

func TestParse(t *testing.T) {
	text := "date: \"2025-01-14\"\n" +
		"day_of_week: \"Tuesday\"\n" +
		"classes: [\"Period 3\", \"Period 5\"]\n" +
		"\n" +
		"Staff meeting moved to the library.\n" +
		"\n" +
		"9:00 — Period 3\n" +
		"Unit: Decimals (day 2 of 4)\n" +
		"\n" +
		"---\n" +
		"3:15 — Period 5\n" +
		"Unit: Fractions (day 1 of 3)\n" +
		"\n" +
		"---\n"

	doc := Parse(text, timeutil.NewCodec())

	if doc.Date != "2025-01-14" || doc.DayOfWeek != "Tuesday" {
		t.Errorf("header = %q/%q", doc.Date, doc.DayOfWeek)
	}
	if len(doc.Classes) != 2 {
		t.Errorf("Classes = %v, want 2 entries", doc.Classes)
	}
	if len(doc.Preamble) != 1 || doc.Preamble[0] != "Staff meeting moved to the library." {
		t.Errorf("Preamble = %v", doc.Preamble)
	}

	if len(doc.Blocks) != 2 {
		t.Fatalf("Blocks = %d, want 2", len(doc.Blocks))
	}

	first := doc.Blocks[0]
	if first.Class != "Period 3" || first.Time.Minutes != 9*60 {
		t.Errorf("first block = %q at %d", first.Class, first.Time.Minutes)
	}

	second := doc.Blocks[1]
	if second.Class != "Period 5" || second.Time.Minutes != 15*60+15 {
		t.Errorf("second block = %q at %d", second.Class, second.Time.Minutes)
	}
	if len(second.Body) != 1 || second.Body[0] != "Unit: Fractions (day 1 of 3)" {
		t.Errorf("second body = %v", second.Body)
	}
}

func TestParse_InvalidHeaderTimeGetsSentinel(t *testing.T) {
	text := "date: \"2025-01-14\"\nday_of_week: \"Tuesday\"\nclasses: [\"Period 3\"]\n\n99:99 — Period 3\nUnit: Fractions (day 1 of 3)\n\n---\n"

	doc := Parse(text, timeutil.NewCodec())

	if len(doc.Blocks) != 1 {
		t.Fatalf("Blocks = %d, want 1", len(doc.Blocks))
	}
	if !doc.Blocks[0].TimeInvalid {
		t.Error("expected TimeInvalid for unparseable header time")
	}
	if doc.Blocks[0].Time.Minutes != 23*60+59 {
		t.Errorf("sentinel minutes = %d, want 1439", doc.Blocks[0].Time.Minutes)
	}
}

func TestSerialize_DelimiterDiscipline(t *testing.T) {
	codec := timeutil.NewCodec()

	out := Merge("", Request{
		Date:  time.Date(2025, 1, 14, 0, 0, 0, 0, time.UTC),
		Class: "Period 3", Unit: "Fractions",
		Occurrence: 1, Total: 3, Time: "3:15",
	}, codec)

	out = Merge(out.Text, Request{
		Date:  time.Date(2025, 1, 14, 0, 0, 0, 0, time.UTC),
		Class: "Period 1", Unit: "Decimals",
		Occurrence: 1, Total: 2, Time: "9:00",
	}, codec)

	text := out.Text

	// Exactly one delimiter per block, the last one at the end.
	if got := strings.Count(text, "\n---\n"); got != 2 {
		t.Errorf("delimiter count = %d, want 2\n%s", got, text)
	}
	if !strings.HasSuffix(text, "---\n") {
		t.Errorf("document must end with a delimiter:\n%s", text)
	}

	// Round-trip stability.
	doc := Parse(text, codec)
	if doc.Serialize() != text {
		t.Errorf("serialize not stable:\n--- first ---\n%s\n--- second ---\n%s", text, doc.Serialize())
	}
}

func TestSerialize_PreservesPreamble(t *testing.T) {
	codec := timeutil.NewCodec()

	text := "date: \"2025-01-14\"\nday_of_week: \"Tuesday\"\nclasses: [\"Period 5\"]\n\nAssembly at 8am.\n\n3:15 — Period 5\nUnit: Fractions (day 1 of 3)\n\n---\n"

	out := Merge(text, Request{
		Date:  time.Date(2025, 1, 14, 0, 0, 0, 0, time.UTC),
		Class: "Period 1", Unit: "Decimals",
		Occurrence: 1, Total: 2, Time: "9:00",
	}, codec)

	if !strings.Contains(out.Text, "Assembly at 8am.") {
		t.Errorf("preamble content clobbered:\n%s", out.Text)
	}
}
