package analytics

import (
	"strings"

	"github.com/array/applications-console/internal/integrations/accountapi"
	"github.com/shopspring/decimal"
)

var (
	avgCeiling = decimal.NewFromInt(100_000)
	maxCeiling = decimal.NewFromInt(500_000)
	hundred    = decimal.NewFromInt(100)
)

const diversityStep = 20

func turnover(apps []accountapi.AccountApplication) Turnover {
	t := Turnover{
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
		AvgDebit:    decimal.Zero,
		AvgCredit:   decimal.Zero,
		MaxDebit:    decimal.Zero,
		MaxCredit:   decimal.Zero,
	}
	for i, app := range apps {
		dr := amount(app.ExpectedMonthlyTurnoverDr)
		cr := amount(app.ExpectedMonthlyTurnoverCr)
		t.TotalDebit = t.TotalDebit.Add(dr)
		t.TotalCredit = t.TotalCredit.Add(cr)
		if i == 0 || dr.GreaterThan(t.MaxDebit) {
			t.MaxDebit = dr
		}
		if i == 0 || cr.GreaterThan(t.MaxCredit) {
			t.MaxCredit = cr
		}
	}
	if n := len(apps); n > 0 {
		count := decimal.NewFromInt(int64(n))
		t.AvgDebit = t.TotalDebit.Div(count).Round(2)
		t.AvgCredit = t.TotalCredit.Div(count).Round(2)
	}
	return t
}

func amount(v *float64) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return decimal.NewFromFloat(*v)
}

// scaled maps v onto 0-100 against ceiling, clamped at both ends
func scaled(v, ceiling decimal.Decimal) float64 {
	s := v.Div(ceiling).Mul(hundred)
	switch {
	case s.IsNegative():
		s = decimal.Zero
	case s.GreaterThan(hundred):
		s = hundred
	}
	return s.Round(2).InexactFloat64()
}

// distinctAccountTypes counts the account_type values as submitted, without
// folding unrecognised ones into a shared bucket. Missing values count once as UNKNOWN.
func distinctAccountTypes(apps []accountapi.AccountApplication) int {
	seen := make(map[string]struct{})
	for i := range apps {
		key := BucketUnknown
		if at := apps[i].AccountType; at != nil {
			if v := strings.ToUpper(strings.TrimSpace(string(*at))); v != "" {
				key = v
			}
		}
		seen[key] = struct{}{}
	}
	return len(seen)
}

func financialRadar(apps []accountapi.AccountApplication, t Turnover, clampDiversity bool) []RadarPoint {
	diversity := float64(distinctAccountTypes(apps) * diversityStep)
	if clampDiversity && diversity > 100 {
		diversity = 100
	}

	digital := 0
	for i := range apps {
		if isTrue(apps[i].InternetBanking) || isTrue(apps[i].MobileBanking) {
			digital++
		}
	}

	return []RadarPoint{
		{Metric: "Avg Debit", Value: scaled(t.AvgDebit, avgCeiling), FullMark: 100},
		{Metric: "Avg Credit", Value: scaled(t.AvgCredit, avgCeiling), FullMark: 100},
		{Metric: "Max Debit", Value: scaled(t.MaxDebit, maxCeiling), FullMark: 100},
		{Metric: "Max Credit", Value: scaled(t.MaxCredit, maxCeiling), FullMark: 100},
		{Metric: "Diversity", Value: diversity, FullMark: 100},
		{Metric: "Digital", Value: float64(Percent(digital, len(apps))), FullMark: 100},
	}
}
