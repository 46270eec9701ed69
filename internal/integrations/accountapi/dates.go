package accountapi

import (
	"regexp"
	"time"
)

const (
	// ClientDateLayout is how dates are held on the client side
	ClientDateLayout = "2006-01-02"
	// BackendDateLayout is the day/month/two-digit-year form the backend expects.
	// Two-digit years 69-99 parse into the 1900s and 00-68 into the 2000s.
	BackendDateLayout = "02 01 06"
)

var clientDatePattern = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)

// ToBackendDate converts YYYY-MM-DD to "DD MM YY". Values that do not match the
// 4-2-2 digit pattern are returned unchanged.
func ToBackendDate(s string) string {
	m := clientDatePattern.FindStringSubmatch(s)
	if m == nil {
		return s
	}
	return m[3] + " " + m[2] + " " + m[1][2:]
}

// FromBackendDate converts "DD MM YY" back to YYYY-MM-DD. Values that are not a valid
// backend date are returned unchanged.
func FromBackendDate(s string) string {
	t, err := time.Parse(BackendDateLayout, s)
	if err != nil {
		return s
	}
	return t.Format(ClientDateLayout)
}

// ParseApplicationDate parses the dates the backend is known to return for an
// application's submission date.
func ParseApplicationDate(s string) (time.Time, bool) {
	for _, layout := range []string{ClientDateLayout, BackendDateLayout, time.RFC3339, "2006-01-02T15:04:05", "02-01-2006", "02/01/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
