package main

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidValue = errors.New("invalid value")

var timeFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05-07:00",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
}

const (
	displayTimeLayout = "2006-01-02 15:04"
	inputTimeLayout   = time.RFC3339
)

// ParseCellInput turns text typed into the grid into a value for col,
// enforcing the widget's constraints (option set, numeric bounds).
func ParseCellInput(col Column, input string) (interface{}, error) {
	if col.ReadOnly {
		return nil, fmt.Errorf("%w: %q", ErrReadOnlyColumn, col.Name)
	}

	trimmed := strings.TrimSpace(input)
	if trimmed == "" || strings.EqualFold(trimmed, "null") {
		if col.Required {
			return nil, fmt.Errorf("%w: %s is required", ErrInvalidValue, col.Label)
		}
		return nil, nil
	}

	switch col.Kind {
	case KindBool:
		b, ok := parseBool(trimmed)
		if !ok {
			return nil, fmt.Errorf("%w: %q is not true/false", ErrInvalidValue, trimmed)
		}
		return b, nil
	case KindEnum:
		choice := strings.ToLower(trimmed)
		if !col.HasOption(choice) {
			return nil, fmt.Errorf("%w: %s must be one of %s", ErrInvalidValue, col.Label, strings.Join(col.Options, "|"))
		}
		return choice, nil
	case KindInt:
		i, err := strconv.ParseInt(trimmed, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a whole number", ErrInvalidValue, trimmed)
		}
		if col.Min != nil && i < *col.Min {
			return nil, fmt.Errorf("%w: %s must be >= %d", ErrInvalidValue, col.Label, *col.Min)
		}
		if col.Max != nil && i > *col.Max {
			return nil, fmt.Errorf("%w: %s must be <= %d", ErrInvalidValue, col.Label, *col.Max)
		}
		return i, nil
	case KindTimestamp:
		t, ok := parseTime(trimmed)
		if !ok {
			return nil, fmt.Errorf("%w: %q is not a date/time (use YYYY-MM-DD HH:MM)", ErrInvalidValue, trimmed)
		}
		return t, nil
	default:
		return trimmed, nil
	}
}

// NormalizeValue converts whatever the driver scanned into the canonical
// Go type for the column kind.
func NormalizeValue(col Column, v interface{}) interface{} {
	if v == nil {
		return nil
	}
	if b, ok := v.([]byte); ok {
		v = string(b)
	}

	switch col.Kind {
	case KindBool:
		switch val := v.(type) {
		case bool:
			return val
		case int64:
			return val != 0
		case string:
			if b, ok := parseBool(val); ok {
				return b
			}
		}
	case KindInt, KindIdentifier:
		if i, ok := toInt64(v); ok {
			return i
		}
	case KindTimestamp:
		switch val := v.(type) {
		case time.Time:
			return val
		case string:
			if t, ok := parseTime(val); ok {
				return t
			}
		}
	default:
		if s, ok := v.(string); ok {
			return s
		}
		return fmt.Sprintf("%v", v)
	}
	return v
}

// FormatCell renders a value for the grid.
func FormatCell(col Column, v interface{}) string {
	if col.Kind == KindBool {
		if b, _ := v.(bool); b {
			return "[x]"
		}
		return "[ ]"
	}
	if v == nil {
		return ""
	}
	if t, ok := v.(time.Time); ok {
		return t.Format(displayTimeLayout)
	}
	return fmt.Sprintf("%v", v)
}

// FormatInput renders a value as editable text that ParseCellInput accepts.
func FormatInput(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case time.Time:
		return val.Format(inputTimeLayout)
	default:
		return fmt.Sprintf("%v", val)
	}
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "t", "yes", "y", "1", "x":
		return true, true
	case "false", "f", "no", "n", "0":
		return false, true
	}
	return false, false
}

func parseTime(s string) (time.Time, bool) {
	for _, layout := range timeFormats {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func toInt64(v interface{}) (int64, bool) {
	switch val := v.(type) {
	case int64:
		return val, true
	case int32:
		return int64(val), true
	case int:
		return int64(val), true
	case int16:
		return int64(val), true
	case float64:
		if math.IsInf(val, 0) || val != math.Trunc(val) {
			return 0, false
		}
		return int64(val), true
	case []byte:
		i, err := strconv.ParseInt(string(val), 10, 64)
		return i, err == nil
	case string:
		i, err := strconv.ParseInt(val, 10, 64)
		return i, err == nil
	}
	return 0, false
}

func formatInt(v int64) string {
	return strconv.FormatInt(v, 10)
}
