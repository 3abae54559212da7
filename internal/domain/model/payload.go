package model

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// FieldErrors maps a field name to a human readable problem with it.
// An empty map means the payload passed validation.
type FieldErrors map[string]string

// dateLayouts accepted for date fields, tried in order.
var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// stringField pulls a string out of a decoded JSON payload. Returns
// ok=false when the key is absent; a present non-string value reports
// a field error.
func stringField(data map[string]any, key string, errs FieldErrors) (string, bool) {
	raw, ok := data[key]
	if !ok || raw == nil {
		return "", false
	}
	s, ok := raw.(string)
	if !ok {
		errs[key] = "must be a string"
		return "", false
	}
	return strings.TrimSpace(s), true
}

// intField pulls an integer out of a decoded JSON payload, tolerating
// the json.Number and string forms that arrive from JSON bodies and
// form encodings respectively.
func intField(data map[string]any, key string, errs FieldErrors) (int, bool) {
	raw, ok := data[key]
	if !ok || raw == nil {
		return 0, false
	}
	switch v := raw.(type) {
	case json.Number:
		n, err := strconv.Atoi(v.String())
		if err != nil {
			errs[key] = "must be an integer"
			return 0, false
		}
		return n, true
	case float64:
		return int(v), true
	case int:
		return v, true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			errs[key] = "must be an integer"
			return 0, false
		}
		return n, true
	default:
		errs[key] = "must be an integer"
		return 0, false
	}
}

// dateField pulls a timestamp out of a decoded JSON payload, accepting
// RFC3339 or a bare calendar date.
func dateField(data map[string]any, key string, errs FieldErrors) (time.Time, bool) {
	s, ok := stringField(data, key, errs)
	if !ok || s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	errs[key] = "must be an RFC3339 timestamp or YYYY-MM-DD date"
	return time.Time{}, false
}
