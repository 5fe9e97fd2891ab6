package domain

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the calendar date format used for due dates and timestamps.
const DateLayout = "2006-01-02"

var (
	monthPattern = regexp.MustCompile(`^\d{1,2}$`)
	yearPattern  = regexp.MustCompile(`^\d{4}$`)
	datePattern  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// scalarString renders a decoded JSON value as text. Objects and arrays have
// no textual form and report false.
func scalarString(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		return val, true
	case bool:
		return strconv.FormatBool(val), true
	case json.Number:
		if f, err := val.Float64(); err == nil {
			return strconv.FormatFloat(f, 'f', -1, 64), true
		}
		return val.String(), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case int:
		return strconv.Itoa(val), true
	case int64:
		return strconv.FormatInt(val, 10), true
	default:
		return "", false
	}
}

// truthy reports whether v carries a usable value: null, false, zero and the
// empty string do not.
func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	case bool:
		return val
	case json.Number:
		f, err := val.Float64()
		return err != nil || (f != 0 && !math.IsNaN(f))
	case float64:
		return val != 0 && !math.IsNaN(val)
	case int:
		return val != 0
	case int64:
		return val != 0
	default:
		return true
	}
}

// firstTruthy returns the first truthy value, or nil.
func firstTruthy(values ...any) any {
	for _, v := range values {
		if truthy(v) {
			return v
		}
	}
	return nil
}

// isBlank reports whether v is absent, null or renders as whitespace only.
func isBlank(v any) bool {
	if v == nil {
		return true
	}
	s, ok := scalarString(v)
	if !ok {
		return false
	}
	return strings.TrimSpace(s) == ""
}

// Text converts a loosely typed value to trimmed text. Falsy values become
// the empty string.
func Text(v any) string {
	if !truthy(v) {
		return ""
	}
	s, _ := scalarString(v)
	return strings.TrimSpace(s)
}

// NormalizeMonth accepts "1".."12" with optional leading zero and returns
// the two-digit month.
func NormalizeMonth(v any) (string, bool) {
	text := Text(v)
	if text == "" || !monthPattern.MatchString(text) {
		return "", false
	}

	n, err := strconv.Atoi(text)
	if err != nil || n < 1 || n > 12 {
		return "", false
	}
	return twoDigits(n), true
}

// IsValidYear reports whether v is exactly four digits.
func IsValidYear(v any) bool {
	return yearPattern.MatchString(Text(v))
}

// NormalizeISODate returns v as YYYY-MM-DD when it names a real calendar day.
func NormalizeISODate(v any) (string, bool) {
	text := Text(v)
	if text == "" || !datePattern.MatchString(text) {
		return "", false
	}

	parsed, err := time.Parse(DateLayout, text)
	if err != nil {
		return "", false
	}
	if parsed.Format(DateLayout) != text {
		return "", false
	}
	return text, true
}

// NormalizePriority returns the priority for v. Blank input yields
// DefaultPriority; anything but an integer in 1..4 is rejected.
func NormalizePriority(v any) (int, bool) {
	if isBlank(v) {
		return DefaultPriority, true
	}

	var f float64
	switch val := v.(type) {
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	case json.Number:
		parsed, err := val.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case float64:
		f = val
	case int:
		f = float64(val)
	case int64:
		f = float64(val)
	case bool:
		if val {
			f = 1
		}
	default:
		return 0, false
	}

	if f != math.Trunc(f) || f < MinPriority || f > MaxPriority {
		return 0, false
	}
	return int(f), true
}

// NormalizeStatus maps v to a Status, case-insensitively.
func NormalizeStatus(v any) (Status, bool) {
	switch Status(strings.ToLower(Text(v))) {
	case StatusPending:
		return StatusPending, true
	case StatusCompleted:
		return StatusCompleted, true
	default:
		return "", false
	}
}

// NormalizeProjectName trims v and folds empty or "inbox" into DefaultProject.
func NormalizeProjectName(v any) string {
	name := Text(v)
	if name == "" || strings.EqualFold(name, "inbox") {
		return DefaultProject
	}
	return name
}

func twoDigits(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
