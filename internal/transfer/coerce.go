package transfer

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// timeLayouts are tried in order. Timestamps without a zone are UTC.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05Z07:00",
}

func timeValue(raw any) (time.Time, bool) {
	s, ok := raw.(string)
	if !ok {
		return time.Time{}, false
	}
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func stringValue(raw any) string {
	s, _ := raw.(string)
	return s
}

// textValue renders any scalar as text, the way older exports stored inputs.
func textValue(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// fitsInt reports whether f converts to int without overflow.
func fitsInt(f float64) bool {
	return !math.IsNaN(f) && f >= math.MinInt && f < math.MaxInt
}

func intValue(raw any) (int, bool) {
	switch v := raw.(type) {
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return int(i), true
		}
		if f, err := v.Float64(); err == nil && fitsInt(f) {
			return int(f), true
		}
	case float64:
		if fitsInt(v) {
			return int(v), true
		}
	case int:
		return v, true
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return i, true
		}
	}
	return 0, false
}

func floatValue(raw any) (float64, bool) {
	var f float64
	switch v := raw.(type) {
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case float64:
		f = v
	case int:
		f = float64(v)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// boolValue accepts booleans, 0/1 style numbers and the result names used
// by the current format.
func boolValue(raw any) (bool, bool) {
	switch v := raw.(type) {
	case bool:
		return v, true
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "correct", "true", "1", "yes":
			return true, true
		case "incorrect", "false", "0", "no":
			return false, true
		}
		return false, false
	}
	if i, ok := intValue(raw); ok {
		return i != 0, true
	}
	return false, false
}

func arrayOf(raw any) []any {
	arr, _ := raw.([]any)
	return arr
}
