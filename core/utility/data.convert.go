package utility

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// SafeFloat converts a cell value into a float, tolerating strings
// with comma decimal separators ("12,5") and stray whitespace.
// Returns nil when the value is empty or not numeric.
func SafeFloat(value interface{}) *float64 {
	if value == nil {
		return nil
	}

	switch v := value.(type) {
	case float64:
		return &v
	case float32:
		f := float64(v)
		return &f
	case int:
		f := float64(v)
		return &f
	case int64:
		f := float64(v)
		return &f
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return nil
		}
		s = strings.ReplaceAll(s, ",", ".")
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}

// SafeInt converts a cell value into an int, via SafeFloat semantics.
func SafeInt(value interface{}) *int {
	f := SafeFloat(value)
	if f == nil {
		return nil
	}
	i := int(*f)
	return &i
}

// SafeString trims the value rendered as a string, returning nil for
// empty results.
func SafeString(value interface{}) *string {
	if value == nil {
		return nil
	}
	s := strings.TrimSpace(fmt.Sprintf("%v", value))
	if s == "" {
		return nil
	}
	return &s
}

// Date layouts accepted by ParseDate.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
}

// ParseDate parses a date cell. Accepts ISO (YYYY-MM-DD) and
// Brazilian (DD/MM/YYYY) layouts, plus Excel serial numbers, which is
// how unstyled date cells surface when the sheet is read as strings.
// Only the first 10 characters of a string date are considered so
// datetime strings like "2025-03-01 00:00:00" still parse.
func ParseDate(value string) (time.Time, error) {
	s := strings.TrimSpace(value)
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		if serial <= 0 {
			return time.Time{}, fmt.Errorf("invalid excel date serial: %q", value)
		}
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid excel date serial: %q", value)
		}
		return t.UTC(), nil
	}
	if len(s) > 10 {
		s = s[:10]
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format: %q", value)
}

// NormalizeHeader lowercases a column header and replaces spaces with
// underscores so spreadsheet headers map onto BSON field names.
func NormalizeHeader(header string) string {
	h := strings.TrimSpace(strings.ToLower(header))
	return strings.ReplaceAll(h, " ", "_")
}
