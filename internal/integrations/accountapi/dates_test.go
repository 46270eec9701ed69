package accountapi

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestToBackendDate(t *testing.T) {
	tests := []struct {
		in, expected string
	}{
		{"1990-05-14", "14 05 90"},
		{"2001-12-31", "31 12 01"},
		{"2068-02-29", "29 02 68"},
		{"", ""},
		{"14 05 90", "14 05 90"},
		{"1990-5-14", "1990-5-14"},
		{"1990-05-14T00:00:00", "1990-05-14T00:00:00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, ToBackendDate(tt.in), "input %q", tt.in)
	}
}

func TestFromBackendDate(t *testing.T) {
	assert.Equal(t, "1990-05-14", FromBackendDate("14 05 90"))
	assert.Equal(t, "2001-12-31", FromBackendDate("31 12 01"))
	assert.Equal(t, "garbage", FromBackendDate("garbage"))
	assert.Equal(t, "31 02 90", FromBackendDate("31 02 90"), "invalid calendar dates pass through")
}

func TestBackendDate_RoundTripWithinCentury(t *testing.T) {
	for year := 1969; year <= 2068; year++ {
		for _, md := range [][2]int{{1, 1}, {6, 15}, {12, 31}} {
			d := time.Date(year, time.Month(md[0]), md[1], 0, 0, 0, 0, time.UTC).Format(ClientDateLayout)
			if got := FromBackendDate(ToBackendDate(d)); got != d {
				t.Fatalf("round trip of %s gave %s", d, got)
			}
		}
	}
}

func TestParseApplicationDate(t *testing.T) {
	for _, s := range []string{"2025-03-07", "07 03 25", "2025-03-07T10:00:00Z", "2025-03-07T10:00:00", "07-03-2025", "07/03/2025"} {
		got, ok := ParseApplicationDate(s)
		if assert.True(t, ok, "expected %q to parse", s) {
			assert.Equal(t, 2025, got.Year())
			assert.Equal(t, time.March, got.Month())
			assert.Equal(t, 7, got.Day())
		}
	}

	_, ok := ParseApplicationDate("yesterday")
	assert.False(t, ok)
}
