package analytics

import (
	"time"

	"github.com/array/applications-console/internal/integrations/accountapi"
)

type config struct {
	now            func() time.Time
	clampDiversity bool
}

// Option configures Compute
type Option func(*config)

// WithNow sets the clock used for the monthly trend window and GeneratedAt
func WithNow(now func() time.Time) Option {
	return func(c *config) {
		if now != nil {
			c.now = now
		}
	}
}

// WithUnclampedDiversity reports diversity as buckets x 20 even when that exceeds 100
func WithUnclampedDiversity() Option {
	return func(c *config) {
		c.clampDiversity = false
	}
}

// WithClampedDiversity sets whether diversity is capped at 100
func WithClampedDiversity(clamp bool) Option {
	return func(c *config) {
		c.clampDiversity = clamp
	}
}

// Compute derives every analytics projection from apps. It never fails: nil or empty
// input yields a report with Empty set and every projection empty.
func Compute(apps []accountapi.AccountApplication, opts ...Option) *Report {
	cfg := config{now: time.Now, clampDiversity: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	now := cfg.now()

	if len(apps) == 0 {
		return emptyReport(now)
	}

	r := &Report{
		Total:               len(apps),
		GeneratedAt:         now,
		AccountTypes:        accountTypeDistribution(apps),
		Genders:             genderDistribution(apps),
		MaritalStatuses:     maritalDistribution(apps),
		Occupations:         occupationDistribution(apps),
		ResidentialStatuses: residentialDistribution(apps),
		CardTypes:           cardTypeDistribution(apps),
		CardNetworks:        cardNetworkDistribution(apps),
		Cities:              cityRanking(apps),
		Branches:            branchRanking(apps),
		Services:            serviceAdoption(apps),
		Turnover:            turnover(apps),
	}
	r.Radar = financialRadar(apps, r.Turnover, cfg.clampDiversity)
	r.Monthly, r.Undated = monthlyTrend(apps, now)
	return r
}
