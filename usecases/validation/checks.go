package validation

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CheckFunc evaluates one field value. The value is a raw parsed scalar:
// string, float64 or nil.
type CheckFunc func(value any) (ok bool, message string)

// RowCheckFunc evaluates a whole mapped row, for rules spanning several fields.
type RowCheckFunc func(row map[string]any) (ok bool, message string)

func asNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		number, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return number, err == nil
	}
	return 0, false
}

func asString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func isBlank(value any) bool {
	if value == nil {
		return true
	}
	if s, ok := value.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

// Required fails on nil and blank string values.
func Required() CheckFunc {
	return func(value any) (bool, string) {
		if isBlank(value) {
			return false, "field is required"
		}
		return true, ""
	}
}

// IsNumber accepts numeric cells and numeric-looking strings; blank values pass
// (combine with Required when the field is mandatory).
func IsNumber() CheckFunc {
	return func(value any) (bool, string) {
		if isBlank(value) {
			return true, ""
		}
		if _, ok := asNumber(value); !ok {
			return false, "invalid number format"
		}
		return true, ""
	}
}

// NumberMin fails when the value parses as a number below min.
func NumberMin(min float64) CheckFunc {
	return func(value any) (bool, string) {
		if isBlank(value) {
			return true, ""
		}
		number, ok := asNumber(value)
		if !ok {
			return false, "invalid number format"
		}
		if number < min {
			return false, fmt.Sprintf("value must be >= %g", min)
		}
		return true, ""
	}
}

// NumberRange fails when the value parses as a number outside [min, max].
func NumberRange(min, max float64) CheckFunc {
	return func(value any) (bool, string) {
		if isBlank(value) {
			return true, ""
		}
		number, ok := asNumber(value)
		if !ok {
			return false, "invalid number format"
		}
		if number < min {
			return false, fmt.Sprintf("value must be >= %g", min)
		}
		if number > max {
			return false, fmt.Sprintf("value must be <= %g", max)
		}
		return true, ""
	}
}

// MaxLength fails on string values longer than max characters.
func MaxLength(max int) CheckFunc {
	return func(value any) (bool, string) {
		if s, ok := value.(string); ok && len([]rune(s)) > max {
			return false, fmt.Sprintf("string length exceeds maximum of %d", max)
		}
		return true, ""
	}
}

// OneOf fails when the value is not one of the allowed strings.
func OneOf(allowed ...string) CheckFunc {
	return func(value any) (bool, string) {
		if isBlank(value) {
			return true, ""
		}
		s := asString(value)
		for _, candidate := range allowed {
			if s == candidate {
				return true, ""
			}
		}
		return false, fmt.Sprintf("value must be one of: %s", strings.Join(allowed, ", "))
	}
}

var defaultDateLayouts = []string{"2006-01-02", "2006/01/02", "01/02/2006", "2006-01-02 15:04:05"}

// DateFormat fails when the value matches none of the given layouts
// (defaults cover the common export formats).
func DateFormat(layouts ...string) CheckFunc {
	if len(layouts) == 0 {
		layouts = defaultDateLayouts
	}
	return func(value any) (bool, string) {
		if isBlank(value) {
			return true, ""
		}
		if _, ok := parseDate(value, layouts); !ok {
			return false, fmt.Sprintf("date must match one of formats: %s", strings.Join(layouts, ", "))
		}
		return true, ""
	}
}

// DateOrder fails when both fields parse as dates and the second comes before
// the first. Rows where either side is blank or unparseable pass: format
// violations are the date-format rule's concern.
func DateOrder(startField, endField string, layouts ...string) RowCheckFunc {
	if len(layouts) == 0 {
		layouts = defaultDateLayouts
	}
	return func(row map[string]any) (bool, string) {
		start, okStart := parseDate(row[startField], layouts)
		end, okEnd := parseDate(row[endField], layouts)
		if !okStart || !okEnd {
			return true, ""
		}
		if end.Before(start) {
			return false, fmt.Sprintf("%s must not be before %s", endField, startField)
		}
		return true, ""
	}
}

func parseDate(value any, layouts []string) (time.Time, bool) {
	s := strings.TrimSpace(asString(value))
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
