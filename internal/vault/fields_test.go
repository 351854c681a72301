package vault

import (
	"reflect"
	"testing"
)

func TestScalarField(t *testing.T) {
	doc := "duration_days: \"4\"\nday_of_week: \"Tuesday\"\nregular_time: \"3:15\"\nbare: naked\n\nbody text\n"

	tests := []struct {
		name   string
		key    string
		want   string
		wantOK bool
	}{
		{"first field", "duration_days", "4", true},
		{"middle field", "day_of_week", "Tuesday", true},
		{"time field", "regular_time", "3:15", true},
		{"unquoted value fails soft", "bare", "", false},
		{"missing key", "testing_day_time", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ScalarField(doc, tt.key)

			if ok != tt.wantOK {
				t.Fatalf("ScalarField(%q) ok = %v, want %v", tt.key, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("ScalarField(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestListField(t *testing.T) {
	tests := []struct {
		name   string
		doc    string
		key    string
		want   []string
		wantOK bool
	}{
		{
			name:   "two items",
			doc:    "active_classes: [\"Period 3\", \"Period 5\"]\n",
			key:    "active_classes",
			want:   []string{"Period 3", "Period 5"},
			wantOK: true,
		},
		{
			name:   "empty list",
			doc:    "current_units: []\n",
			key:    "current_units",
			want:   []string{},
			wantOK: true,
		},
		{
			name:   "unbracketed fails soft",
			doc:    "current_units: \"Fractions\"\n",
			key:    "current_units",
			want:   nil,
			wantOK: false,
		},
		{
			name:   "missing key",
			doc:    "other: [\"x\"]\n",
			key:    "current_units",
			want:   nil,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ListField(tt.doc, tt.key)

			if ok != tt.wantOK {
				t.Fatalf("ListField ok = %v, want %v", ok, tt.wantOK)
			}
			if tt.wantOK && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ListField = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUpsertListValue(t *testing.T) {
	t.Run("appends and sorts", func(t *testing.T) {
		doc := "name: \"Fractions\"\nactive_classes: [\"Period 5\"]\n\nbody\n"

		updated, changed := UpsertListValue(doc, "active_classes", "Period 3")
		if !changed {
			t.Fatal("expected change")
		}

		values, ok := ListField(updated, "active_classes")
		if !ok {
			t.Fatal("field missing after upsert")
		}
		want := []string{"Period 3", "Period 5"}
		if !reflect.DeepEqual(values, want) {
			t.Errorf("values = %v, want %v", values, want)
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		doc := "active_classes: [\"Period 3\"]\n"

		updated, changed := UpsertListValue(doc, "active_classes", "Period 3")
		if changed {
			t.Error("expected no change for existing value")
		}
		if updated != doc {
			t.Error("text must be untouched when value already present")
		}
	})

	t.Run("creates missing field in header block", func(t *testing.T) {
		doc := "name: \"Fractions\"\nduration_days: \"4\"\n\nbody text\n"

		updated, changed := UpsertListValue(doc, "active_classes", "Period 3")
		if !changed {
			t.Fatal("expected change")
		}

		values, ok := ListField(updated, "active_classes")
		if !ok || len(values) != 1 || values[0] != "Period 3" {
			t.Errorf("values = %v (ok=%v), want [Period 3]", values, ok)
		}

		// Body must survive untouched at the end.
		if updated[len(updated)-len("body text\n"):] != "body text\n" {
			t.Errorf("body clobbered: %q", updated)
		}
	})
}

func TestBulletedDates(t *testing.T) {
	doc := "# Holidays\n\n- 2025-01-20 MLK Day\n- 2025-02-17\n* 2025-03-14 conference day\nnot a bullet 2025-04-01\n- 2025-5-1 malformed\n"

	got := BulletedDates(doc)
	want := []string{"2025-01-20", "2025-02-17", "2025-03-14"}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("BulletedDates = %v, want %v", got, want)
	}
}
