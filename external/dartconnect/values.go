package dartconnect

import (
	"math"
	"strconv"
	"strings"
	"time"
)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"Mon, Jan 2, 2006",
	"Monday, January 2, 2006",
	"Mon Jan 2, 2006",
}

// parseDate accepts the date formats the platform renders and returns the
// calendar day in UTC.
func parseDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		parsed, err := time.Parse(layout, raw)
		if err != nil {
			continue
		}
		day := time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
		return &day
	}
	return nil
}

func getMap(src map[string]any, keys ...string) map[string]any {
	for _, key := range keys {
		if value, ok := src[key].(map[string]any); ok {
			return value
		}
	}
	return nil
}

func getSlice(src map[string]any, keys ...string) []any {
	for _, key := range keys {
		if value, ok := src[key].([]any); ok {
			return value
		}
	}
	return nil
}

// getString returns the first non-empty value among keys; numbers are
// rendered without a fractional part when integral.
func getString(src map[string]any, keys ...string) string {
	for _, key := range keys {
		if value := asString(src[key]); value != "" {
			return value
		}
	}
	return ""
}

func asString(raw any) string {
	switch typed := raw.(type) {
	case string:
		return strings.TrimSpace(typed)
	case float64:
		if typed == math.Trunc(typed) {
			return strconv.FormatInt(int64(typed), 10)
		}
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case int:
		return strconv.Itoa(typed)
	case int64:
		return strconv.FormatInt(typed, 10)
	default:
		return ""
	}
}

func getInt64(src map[string]any, keys ...string) int64 {
	value, _ := lookupInt64(src, keys...)
	return value
}

func getInt(src map[string]any, keys ...string) int {
	return int(getInt64(src, keys...))
}

// lookupInt64 reports whether any of keys held a numeric value.
func lookupInt64(src map[string]any, keys ...string) (int64, bool) {
	for _, key := range keys {
		raw, ok := src[key]
		if !ok || raw == nil {
			continue
		}
		switch typed := raw.(type) {
		case float64:
			return int64(typed), true
		case int:
			return int64(typed), true
		case int64:
			return typed, true
		case string:
			parsed, err := strconv.ParseInt(strings.TrimSpace(typed), 10, 64)
			if err == nil {
				return parsed, true
			}
		}
	}
	return 0, false
}

func optionalInt(src map[string]any, keys ...string) *int {
	value, ok := lookupInt64(src, keys...)
	if !ok {
		return nil
	}
	v := int(value)
	return &v
}

func getFloat(src map[string]any, keys ...string) float64 {
	for _, key := range keys {
		switch typed := src[key].(type) {
		case float64:
			return typed
		case int:
			return float64(typed)
		case string:
			parsed, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
			if err == nil {
				return parsed
			}
		}
	}
	return 0
}

func getBool(src map[string]any, keys ...string) bool {
	for _, key := range keys {
		switch typed := src[key].(type) {
		case bool:
			if typed {
				return true
			}
		case float64:
			if typed != 0 {
				return true
			}
		case string:
			parsed, err := strconv.ParseBool(strings.TrimSpace(typed))
			if err == nil && parsed {
				return true
			}
		}
	}
	return false
}

func hasAny(src map[string]any, keys ...string) bool {
	for _, key := range keys {
		if raw, ok := src[key]; ok && raw != nil {
			return true
		}
	}
	return false
}

// objects keeps the map elements of a JSON array.
func objects(items []any) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			out = append(out, obj)
		}
	}
	return out
}

// rowsOf finds a row list either directly or one level under "data".
func rowsOf(src map[string]any, keys ...string) []map[string]any {
	if rows := getSlice(src, keys...); rows != nil {
		return objects(rows)
	}
	if data := getMap(src, "data"); data != nil {
		if rows := getSlice(data, keys...); rows != nil {
			return objects(rows)
		}
	}
	if rows := getSlice(src, "data"); rows != nil {
		return objects(rows)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, item := range values {
		if strings.TrimSpace(item) != "" {
			return strings.TrimSpace(item)
		}
	}
	return ""
}

func maxInt(left, right int) int {
	if left > right {
		return left
	}
	return right
}
