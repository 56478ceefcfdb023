package timeindex

import (
	"fmt"
	"strings"
	"time"
)

// Layout is the layout used when printing timestamps without zone
const Layout = "2006-01-02 15:04:05.999999999"

var layouts = []string{
	time.RFC3339Nano,
	Layout,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTimestamp parses a timestamp. Timestamps without zone are in loc, nil
// loc means UTC.
func ParseTimestamp(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	s = strings.TrimSpace(s)
	for _, l := range layouts {
		if t, err := time.ParseInLocation(l, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unknown timestamp format %q", s)
}

// ParseIndex parses a list of timestamps, see ParseTimestamp
func ParseIndex(ss []string, loc *time.Location) ([]time.Time, error) {
	ts := make([]time.Time, 0, len(ss))
	for _, s := range ss {
		t, err := ParseTimestamp(s, loc)
		if err != nil {
			return nil, err
		}
		ts = append(ts, t)
	}
	return ts, nil
}
