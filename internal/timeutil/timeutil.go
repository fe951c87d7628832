// Package timeutil coerces client-supplied timestamps into UTC.
package timeutil

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Layouts accepted by EnsureUTC. All of them carry an explicit offset; the
// space-separated variants cover clients that do not use the 'T' separator.
var acceptedLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
}

// Layouts used only to recognise offset-less input so it can be rejected with
// a clearer message than a generic parse failure.
var naiveLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999999999",
}

// EnsureUTC parses value as an RFC 3339 timestamp with an explicit UTC or
// numeric offset and returns the instant converted to UTC. Empty, offset-less
// and malformed input is rejected.
func EnsureUTC(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("timestamp must not be empty")
	}

	for _, layout := range acceptedLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}

	for _, layout := range naiveLayouts {
		if _, err := time.Parse(layout, value); err == nil {
			return time.Time{}, fmt.Errorf("timestamp %q has no timezone offset; use RFC 3339 with 'Z' or a numeric offset", value)
		}
	}

	return time.Time{}, fmt.Errorf("invalid timestamp %q; use RFC 3339 format with a timezone offset", value)
}

// UTCTime is a time.Time that normalizes to UTC when decoded from JSON,
// rejecting offset-less input at the transport boundary.
type UTCTime struct {
	time.Time
}

func (t *UTCTime) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("timestamp must be a JSON string: %w", err)
	}
	parsed, err := EnsureUTC(raw)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

func (t UTCTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.UTC().Format(time.RFC3339Nano))
}
