package utils

import (
	"strings"
	"time"
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTimestamp accepts the timestamp shapes the backend emits.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DisplayDateTime formats backend timestamps for documents, keeping the
// original offset. Unparseable values are returned unchanged.
func DisplayDateTime(s string) string {
	t, ok := ParseTimestamp(s)
	if !ok {
		return strings.TrimSpace(s)
	}
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && !strings.Contains(s, ":") {
		return t.Format("02 Jan 2006")
	}
	return t.Format("02 Jan 2006 15:04")
}
