package vault

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Field scraping for semi-structured vault documents. Each accepted
// grammar is deliberately narrow and validated on read; anything that
// does not match reads as absent rather than failing the caller.
//
// Accepted forms:
//
//	key: "value"                   quoted scalar
//	key: ["a", "b"]                bracketed comma-separated quoted list
//	- YYYY-MM-DD optional text     bulleted date line

var (
	quotedItemPattern = regexp.MustCompile(`"((?:[^"\\]|\\.)*)"`)
	bulletDatePattern = regexp.MustCompile(`^[-*]\s+(\d{4}-\d{2}-\d{2})\b`)
)

func fieldLinePattern(key string) *regexp.Regexp {
	return regexp.MustCompile(`^` + regexp.QuoteMeta(key) + `:\s*(.*)$`)
}

// ScalarField extracts a quoted scalar field from the document header.
// Returns the value and whether the field was present and well-formed.
func ScalarField(text, key string) (string, bool) {
	pattern := fieldLinePattern(key)

	for _, line := range strings.Split(text, "\n") {
		m := pattern.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}

		rest := strings.TrimSpace(m[1])
		if len(rest) >= 2 && strings.HasPrefix(rest, `"`) && strings.HasSuffix(rest, `"`) {
			return rest[1 : len(rest)-1], true
		}
		return "", false
	}

	return "", false
}

// ListField extracts a bracketed quoted-string list field. A present
// but malformed field reads as an empty list.
func ListField(text, key string) ([]string, bool) {
	pattern := fieldLinePattern(key)

	for _, line := range strings.Split(text, "\n") {
		m := pattern.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}

		rest := strings.TrimSpace(m[1])
		if !strings.HasPrefix(rest, "[") || !strings.HasSuffix(rest, "]") {
			return nil, false
		}

		values := []string{}
		for _, item := range quotedItemPattern.FindAllStringSubmatch(rest, -1) {
			values = append(values, item[1])
		}
		return values, true
	}

	return nil, false
}

// FormatListField renders values as a bracketed quoted-string list line
// for the given key.
func FormatListField(key string, values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return fmt.Sprintf("%s: [%s]", key, strings.Join(quoted, ", "))
}

// UpsertListValue inserts value into the named list field, keeping the
// list alphabetically sorted with set semantics. A missing field is
// created at the end of the leading header block. Returns the updated
// text and whether anything changed.
func UpsertListValue(text, key, value string) (string, bool) {
	values, present := ListField(text, key)

	if present {
		for _, v := range values {
			if v == value {
				return text, false
			}
		}
	}

	values = append(values, value)
	sort.Strings(values)
	fieldLine := FormatListField(key, values)

	lines := strings.Split(text, "\n")

	if present {
		pattern := fieldLinePattern(key)
		for i, line := range lines {
			if pattern.MatchString(strings.TrimSpace(line)) {
				lines[i] = fieldLine
				return strings.Join(lines, "\n"), true
			}
		}
	}

	// Field absent: insert at the end of the leading header block,
	// i.e. before the first blank line.
	insertAt := len(lines)
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			insertAt = i
			break
		}
	}

	updated := make([]string, 0, len(lines)+1)
	updated = append(updated, lines[:insertAt]...)
	updated = append(updated, fieldLine)
	updated = append(updated, lines[insertAt:]...)

	return strings.Join(updated, "\n"), true
}

// BulletDate extracts the date from a bulleted date line. Returns the
// YYYY-MM-DD key and whether the line matched.
func BulletDate(line string) (string, bool) {
	m := bulletDatePattern.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return "", false
	}
	return m[1], true
}

// BulletedDates extracts every bulleted date from the text, in order.
func BulletedDates(text string) []string {
	dates := []string{}
	for _, line := range strings.Split(text, "\n") {
		if date, ok := BulletDate(line); ok {
			dates = append(dates, date)
		}
	}
	return dates
}
