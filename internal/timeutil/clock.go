package timeutil

import (
	"time"
)

// Local is the business time zone of the outlets (UTC+0, no DST).
var Local *time.Location

func init() {
	var err error
	Local, err = time.LoadLocation("Africa/Dakar")
	if err != nil {
		// Fallback: create fixed zone if tzdata is not available
		Local = time.FixedZone("GMT", 0)
	}
}

// DateLayout is the calendar date format used in requests and storage.
const DateLayout = "2006-01-02"

// Now returns the current time in the business time zone
func Now() time.Time {
	return time.Now().In(Local)
}

// ParseDate parses a strict YYYY-MM-DD calendar date
func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, value, Local)
}

// FormatDate renders a calendar date as YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// IsDate reports whether value is a valid YYYY-MM-DD date
func IsDate(value string) bool {
	_, err := ParseDate(value)
	return err == nil
}

// HoursSince returns the exact elapsed hours between t and now, without truncation
func HoursSince(t, now time.Time) float64 {
	return now.Sub(t).Hours()
}
