package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// OptionalTime records whether a timestamp was sent at all, so that an
// update can tell "clear it" (null) apart from "leave it" (absent).
type OptionalTime struct {
	Set   bool       `json:"-"`
	Value *time.Time `json:"-"`
}

func (ot *OptionalTime) UnmarshalJSON(data []byte) error {
	if ot == nil {
		return fmt.Errorf("optional time receiver is nil")
	}

	ot.Set = true

	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || strings.EqualFold(trimmed, "null") {
		ot.Value = nil
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("expected a date string: %w", err)
	}

	parsed, err := parseDate(raw)
	if err != nil {
		return err
	}
	ot.Value = parsed
	return nil
}

// parseDate accepts RFC3339 timestamps and plain dates such as 2025-12-31.
func parseDate(value string) (*time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}

	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			normalized := parsed.UTC()
			return &normalized, nil
		}
	}
	return nil, fmt.Errorf("invalid date %q", value)
}
