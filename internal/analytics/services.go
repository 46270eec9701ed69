package analytics

import (
	"math"

	"github.com/array/applications-console/internal/integrations/accountapi"
)

type serviceFlag struct {
	key   string
	name  string
	color string
	flag  func(*accountapi.AccountApplication) *bool
}

var serviceFlags = []serviceFlag{
	{"internet_banking", "Internet Banking", ColorPrimary, func(a *accountapi.AccountApplication) *bool { return a.InternetBanking }},
	{"mobile_banking", "Mobile Banking", ColorSecondary, func(a *accountapi.AccountApplication) *bool { return a.MobileBanking }},
	{"check_book", "Check Book", ColorAccent, func(a *accountapi.AccountApplication) *bool { return a.CheckBook }},
	{"sms_alerts", "SMS Alerts", ColorWarning, func(a *accountapi.AccountApplication) *bool { return a.SMSAlerts }},
	{"zakat_deduction", "Zakat Deduction", ColorInfo, func(a *accountapi.AccountApplication) *bool { return a.ZakatDeduction }},
}

func serviceAdoption(apps []accountapi.AccountApplication) []ServiceAdoption {
	out := make([]ServiceAdoption, 0, len(serviceFlags))
	for _, sf := range serviceFlags {
		count := 0
		for i := range apps {
			if isTrue(sf.flag(&apps[i])) {
				count++
			}
		}
		out = append(out, ServiceAdoption{
			Key:        sf.key,
			Service:    sf.name,
			Count:      count,
			Percentage: Percent(count, len(apps)),
			Color:      sf.color,
		})
	}
	return out
}

// Percent returns round(100*part/whole) with halves rounded up, or 0 when whole is 0
func Percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Floor(float64(part)*100/float64(whole) + 0.5))
}

func isTrue(b *bool) bool {
	return b != nil && *b
}
