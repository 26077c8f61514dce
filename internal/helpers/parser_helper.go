package helpers

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

func StringToInt(s string) (int, error) {
	return strconv.Atoi(s)
}

// ParseStringSlice decodes a JSON-encoded string array embedded as a plain
// form field, e.g. `eventTypes=["Hackathon","Workshop"]`. An empty field
// yields an empty slice.
func ParseStringSlice(raw string) ([]string, error) {
	if raw == "" {
		return []string{}, nil
	}

	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, fmt.Errorf("expected a JSON array of strings: %v", err)
	}
	return values, nil
}

// ParseDate parses a date-only form field (YYYY-MM-DD).
func ParseDate(raw string) (time.Time, error) {
	return time.Parse("2006-01-02", raw)
}
