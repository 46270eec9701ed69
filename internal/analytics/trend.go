package analytics

import (
	"time"

	"github.com/array/applications-console/internal/integrations/accountapi"
)

const targetHeadroom = 5

// monthlyTrend buckets apps by the month of their date, January through the month of now.
// Applications dated outside that window are not bucketed; undated ones are counted separately.
func monthlyTrend(apps []accountapi.AccountApplication, now time.Time) ([]MonthBucket, int) {
	months := int(now.Month())
	target := len(apps)/months + targetHeadroom

	buckets := make([]MonthBucket, months)
	for i := range buckets {
		buckets[i] = MonthBucket{
			Month:  time.Month(i + 1).String()[:3],
			Target: target,
		}
	}

	undated := 0
	for i := range apps {
		if apps[i].Date == nil {
			undated++
			continue
		}
		d, ok := accountapi.ParseApplicationDate(*apps[i].Date)
		if !ok {
			undated++
			continue
		}
		if d.Year() != now.Year() || int(d.Month()) > months {
			continue
		}
		buckets[d.Month()-1].Applications++
	}
	return buckets, undated
}
