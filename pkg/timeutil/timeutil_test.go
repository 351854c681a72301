package timeutil

import (
	"errors"
	"testing"
	"time"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{"afternoon shift low", "3:15", 15*60 + 15, false},
		{"afternoon shift boundary 1", "1:00", 13 * 60, false},
		{"afternoon shift boundary 7", "7:45", 19*60 + 45, false},
		{"morning literal", "9:00", 9 * 60, false},
		{"hour 8 literal", "8:00", 8 * 60, false},
		{"midnight literal", "0:30", 30, false},
		{"two digit hour", "14:05", 14*60 + 5, false},
		{"late evening", "23:59", 23*60 + 59, false},
		{"surrounding whitespace", " 10:30 ", 10*60 + 30, false},
		{"missing minutes", "9", 0, true},
		{"single digit minutes", "9:5", 0, true},
		{"hour out of range", "24:00", 0, true},
		{"minute out of range", "9:60", 0, true},
		{"not a time", "noon", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tod, err := Normalize(tt.input)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("Normalize(%q) expected error, got %v", tt.input, tod)
				}
				if !errors.Is(err, ErrInvalidTimeFormat) {
					t.Errorf("Normalize(%q) error = %v, want ErrInvalidTimeFormat", tt.input, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("Normalize(%q) error = %v", tt.input, err)
			}
			if tod.Minutes != tt.want {
				t.Errorf("Normalize(%q).Minutes = %d, want %d", tt.input, tod.Minutes, tt.want)
			}
		})
	}
}

func TestNormalize_KeepsRawForm(t *testing.T) {
	tod, err := Normalize("3:15")
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if tod.Raw != "3:15" {
		t.Errorf("Raw = %q, want %q", tod.Raw, "3:15")
	}
}

func TestSentinel_SortsLast(t *testing.T) {
	sentinel := Sentinel("bogus")

	latest, err := Normalize("23:58")
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}

	if sentinel.Minutes <= latest.Minutes {
		t.Errorf("Sentinel.Minutes = %d, want > %d", sentinel.Minutes, latest.Minutes)
	}
	if sentinel.Raw != "bogus" {
		t.Errorf("Sentinel.Raw = %q, want original text", sentinel.Raw)
	}
}

func TestCodec_Memoizes(t *testing.T) {
	codec := NewCodec()

	first, err := codec.Normalize("3:15")
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}

	second, err := codec.Normalize("3:15")
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}

	if first != second {
		t.Errorf("memoized result differs: %v vs %v", first, second)
	}

	if _, ok := codec.memo["3:15"]; !ok {
		t.Error("expected memo entry for \"3:15\"")
	}

	if _, err := codec.Normalize("garbage"); err == nil {
		t.Error("expected error for invalid input")
	}
	if _, ok := codec.memo["garbage"]; ok {
		t.Error("invalid input must not be memoized")
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{"valid date", "2025-01-15", time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), false},
		{"leap day", "2024-02-29", time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), false},
		{"not a leap year", "2025-02-29", time.Time{}, true},
		{"month out of range", "2025-13-01", time.Time{}, true},
		{"missing zero padding", "2025-1-15", time.Time{}, true},
		{"wrong separator", "2025/01/15", time.Time{}, true},
		{"trailing text", "2025-01-15x", time.Time{}, true},
		{"empty", "", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)

			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDate(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && !got.Equal(tt.want) {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Weekday
		wantErr bool
	}{
		{"Tuesday", time.Tuesday, false},
		{"tuesday", time.Tuesday, false},
		{"SUNDAY", time.Sunday, false},
		{" friday ", time.Friday, false},
		{"Tues", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseWeekday(tt.input)

			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseWeekday(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseWeekday(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNextOnOrAfter(t *testing.T) {
	monday := time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		start   time.Time
		weekday time.Weekday
		want    time.Time
	}{
		{"same weekday returns same date", monday, time.Monday, monday},
		{"next day", monday, time.Tuesday, monday.AddDate(0, 0, 1)},
		{"wraps past weekend", monday, time.Sunday, monday.AddDate(0, 0, 6)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextOnOrAfter(tt.start, tt.weekday)

			if !got.Equal(tt.want) {
				t.Errorf("NextOnOrAfter(%v, %v) = %v, want %v",
					tt.start.Format("2006-01-02 Mon"), tt.weekday,
					got.Format("2006-01-02 Mon"), tt.want.Format("2006-01-02 Mon"))
			}
		})
	}
}
