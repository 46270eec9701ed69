package analytics

import (
	"time"

	"github.com/shopspring/decimal"
)

// Slice is one bucket of a categorical distribution
type Slice struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Count int    `json:"count"`
	Color string `json:"color"`

	// FullLabel is set when Label was shortened for display
	FullLabel string `json:"full_label,omitempty"`
}

// RankedEntry is one row of a top-N ranking
type RankedEntry struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Count int    `json:"count"`
	Color string `json:"color"`
}

// ServiceAdoption is the uptake of one banking service
type ServiceAdoption struct {
	Key        string `json:"key"`
	Service    string `json:"service"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
	Color      string `json:"color"`
}

// RadarPoint is one axis of the financial radar, on a 0-100 scale
type RadarPoint struct {
	Metric   string  `json:"metric"`
	Value    float64 `json:"value"`
	FullMark int     `json:"full_mark"`
}

// MonthBucket counts applications dated in one calendar month
type MonthBucket struct {
	Month        string `json:"month"`
	Applications int    `json:"applications"`
	Target       int    `json:"target"`
}

// Turnover holds the monetary aggregates behind the radar
type Turnover struct {
	TotalDebit  decimal.Decimal `json:"total_debit"`
	TotalCredit decimal.Decimal `json:"total_credit"`
	AvgDebit    decimal.Decimal `json:"avg_debit"`
	AvgCredit   decimal.Decimal `json:"avg_credit"`
	MaxDebit    decimal.Decimal `json:"max_debit"`
	MaxCredit   decimal.Decimal `json:"max_credit"`
}

// Report is every projection computed over one list of applications
type Report struct {
	Total       int       `json:"total"`
	Empty       bool      `json:"empty"`
	GeneratedAt time.Time `json:"generated_at"`

	AccountTypes        []Slice `json:"account_types"`
	Genders             []Slice `json:"genders"`
	MaritalStatuses     []Slice `json:"marital_statuses"`
	Occupations         []Slice `json:"occupations"`
	ResidentialStatuses []Slice `json:"residential_statuses"`
	CardTypes           []Slice `json:"card_types"`
	CardNetworks        []Slice `json:"card_networks"`

	Cities   []RankedEntry `json:"cities"`
	Branches []RankedEntry `json:"branches"`

	Services []ServiceAdoption `json:"services"`
	Radar    []RadarPoint      `json:"radar"`
	Turnover Turnover          `json:"turnover"`

	Monthly []MonthBucket `json:"monthly"`
	// Undated counts applications whose date is missing or unparseable
	Undated int `json:"undated"`
}

func emptyReport(now time.Time) *Report {
	return &Report{
		Empty:               true,
		GeneratedAt:         now,
		AccountTypes:        []Slice{},
		Genders:             []Slice{},
		MaritalStatuses:     []Slice{},
		Occupations:         []Slice{},
		ResidentialStatuses: []Slice{},
		CardTypes:           []Slice{},
		CardNetworks:        []Slice{},
		Cities:              []RankedEntry{},
		Branches:            []RankedEntry{},
		Services:            []ServiceAdoption{},
		Radar:               []RadarPoint{},
		Turnover: Turnover{
			TotalDebit:  decimal.Zero,
			TotalCredit: decimal.Zero,
			AvgDebit:    decimal.Zero,
			AvgCredit:   decimal.Zero,
			MaxDebit:    decimal.Zero,
			MaxCredit:   decimal.Zero,
		},
		Monthly: []MonthBucket{},
	}
}
