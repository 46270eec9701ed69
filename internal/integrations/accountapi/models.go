package accountapi

import (
	"encoding/json"
	"fmt"
	"strings"
)

// --- Request Models ---

// ApplicationPayload holds every field a client may supply for an account application.
// Identity fields (id, account_no, iban) are deliberately absent: they are minted by the backend.
// Fields carry no omitempty so that nil is transmitted as an explicit null.
type ApplicationPayload struct {
	Date       *string `json:"date"`
	BranchCity *string `json:"branch_city" normalize:"upper"`
	BranchCode *string `json:"branch_code" normalize:"upper"`
	SBPCode    *string `json:"sbp_code" normalize:"upper"`

	AccountType    *AccountType `json:"account_type" normalize:"upper" validate:"omitempty,account_type"`
	TitleOfAccount *string      `json:"title_of_account" normalize:"upper" validate:"required"`
	Name           *string      `json:"name" normalize:"upper" validate:"required"`
	NameOnCard     *string      `json:"name_on_card" normalize:"upper"`
	CNICNo         *string      `json:"cnic_no" validate:"required"`

	FathersHusbandsName *string        `json:"fathers_husbands_name" normalize:"upper"`
	MothersName         *string        `json:"mothers_name" normalize:"upper"`
	MaritalStatus       *MaritalStatus `json:"marital_status" normalize:"upper" validate:"omitempty,marital_status"`
	Gender              *Gender        `json:"gender" normalize:"upper" validate:"omitempty,gender"`
	Nationality         *string        `json:"nationality" normalize:"upper"`
	PlaceOfBirth        *string        `json:"place_of_birth" normalize:"upper"`
	DateOfBirth         *string        `json:"date_of_birth" normalize:"date"`
	CNICExpiryDate      *string        `json:"cnic_expiry_date" normalize:"date"`

	HouseNoBlockStreet *string `json:"house_no_block_street" normalize:"upper"`
	AreaLocation       *string `json:"area_location" normalize:"upper"`
	City               *string `json:"city" normalize:"upper"`
	PostalCode         *string `json:"postal_code"`

	Occupation                *Occupation        `json:"occupation" normalize:"upper" validate:"omitempty,occupation"`
	OccupationOther           *string            `json:"occupation_other"`
	PurposeOfAccount          *string            `json:"purpose_of_account" normalize:"upper"`
	SourceOfIncome            *string            `json:"source_of_income" normalize:"upper"`
	ExpectedMonthlyTurnoverDr *float64           `json:"expected_monthly_turnover_dr" validate:"omitempty,gte=0"`
	ExpectedMonthlyTurnoverCr *float64           `json:"expected_monthly_turnover_cr" validate:"omitempty,gte=0"`
	ResidentialStatus         *ResidentialStatus `json:"residential_status" normalize:"upper" validate:"omitempty,residential_status"`
	ResidentialStatusOther    *string            `json:"residential_status_other"`
	ResidingSince             *string            `json:"residing_since" normalize:"date"`

	HasNextOfKin           *bool   `json:"has_next_of_kin"`
	NextOfKinName          *string `json:"next_of_kin_name" normalize:"upper"`
	NextOfKinRelation      *string `json:"next_of_kin_relation" normalize:"upper"`
	NextOfKinCNIC          *string `json:"next_of_kin_cnic"`
	NextOfKinRelationship  *string `json:"next_of_kin_relationship" normalize:"upper"`
	NextOfKinContactNo     *string `json:"next_of_kin_contact_no"`
	NextOfKinAddress       *string `json:"next_of_kin_address" normalize:"upper"`
	NextOfKinEmail         *string `json:"next_of_kin_email" validate:"omitempty,email"`

	InternetBanking *bool `json:"internet_banking"`
	MobileBanking   *bool `json:"mobile_banking"`
	CheckBook       *bool `json:"check_book"`
	SMSAlerts       *bool `json:"sms_alerts"`
	ZakatDeduction  *bool `json:"zakat_deduction"`

	CardType    *CardType    `json:"card_type" normalize:"upper" validate:"omitempty,card_type"`
	CardNetwork *CardNetwork `json:"card_network" normalize:"upper" validate:"omitempty,card_network"`
}

// --- Response Models ---

// AccountApplication is an application record as stored by the backend
type AccountApplication struct {
	ID        int    `json:"id"`
	AccountNo string `json:"account_no,omitempty"`
	IBAN      string `json:"iban,omitempty"`
	ApplicationPayload
}

// APIStatus is the backend root health descriptor
type APIStatus struct {
	Message string `json:"message"`
	Status  string `json:"status"`
	Version string `json:"version"`
}

// Online reports whether the backend declared itself running
func (s *APIStatus) Online() bool {
	return s != nil && s.Status == "API is running"
}

// CountResponse is returned by /account-applications/count
type CountResponse struct {
	TotalApplications int `json:"total_applications"`
}

// APIErrorResponse is the FastAPI error envelope. Detail is either a string or a list of issues.
type APIErrorResponse struct {
	Detail json.RawMessage `json:"detail,omitempty"`
}

// ValidationIssue is one entry of a FastAPI validation error
type ValidationIssue struct {
	Location []any  `json:"loc"`
	Message  string `json:"msg"`
	Type     string `json:"type,omitempty"`
}

// Path joins the issue location with dots, e.g. body.cnic_no
func (i ValidationIssue) Path() string {
	parts := make([]string, 0, len(i.Location))
	for _, p := range i.Location {
		switch v := p.(type) {
		case string:
			parts = append(parts, v)
		case float64:
			parts = append(parts, fmt.Sprintf("%g", v))
		default:
			parts = append(parts, fmt.Sprint(v))
		}
	}
	return strings.Join(parts, ".")
}

func (i ValidationIssue) String() string {
	if p := i.Path(); p != "" {
		return p + ": " + i.Message
	}
	return i.Message
}

// --- Server-side analytics ---

// Breakdown names a single-dimension analytics endpoint
type Breakdown string

const (
	BreakdownAccountTypes      Breakdown = "account-types"
	BreakdownCities            Breakdown = "cities"
	BreakdownGender            Breakdown = "gender"
	BreakdownOccupation        Breakdown = "occupation"
	BreakdownCardTypes         Breakdown = "card-types"
	BreakdownCardNetworks      Breakdown = "card-networks"
	BreakdownMaritalStatus     Breakdown = "marital-status"
	BreakdownResidentialStatus Breakdown = "residential-status"
	BreakdownNextOfKin         Breakdown = "next-of-kin"
)

var Breakdowns = []Breakdown{
	BreakdownAccountTypes, BreakdownCities, BreakdownGender, BreakdownOccupation,
	BreakdownCardTypes, BreakdownCardNetworks, BreakdownMaritalStatus,
	BreakdownResidentialStatus, BreakdownNextOfKin,
}

func (b Breakdown) Valid() bool { return contains(Breakdowns, b) }

// AnalyticsBreakdown is the response of every /analytics/{breakdown} endpoint
type AnalyticsBreakdown struct {
	Total       int                `json:"total"`
	Breakdown   map[string]int     `json:"breakdown"`
	Percentages map[string]float64 `json:"percentages"`
}

// ServiceCounts counts applications with each banking service enabled
type ServiceCounts struct {
	InternetBanking int `json:"internet_banking"`
	MobileBanking   int `json:"mobile_banking"`
	CheckBook       int `json:"check_book"`
	SMSAlerts       int `json:"sms_alerts"`
	ZakatDeduction  int `json:"zakat_deduction"`
}

// ServicesAnalytics is the response of /analytics/services
type ServicesAnalytics struct {
	TotalApplications int                `json:"total_applications"`
	Services          ServiceCounts      `json:"services"`
	Percentages       map[string]float64 `json:"percentages"`
}

// DashboardSummary is the response of /analytics/dashboard
type DashboardSummary struct {
	TotalApplications  int            `json:"total_applications"`
	AccountTypes       map[string]int `json:"account_types"`
	GenderDistribution map[string]int `json:"gender_distribution"`
	CardTypes          map[string]int `json:"card_types"`
	CardNetworks       map[string]int `json:"card_networks"`
	TopCities          map[string]int `json:"top_cities"`
	ServicesAdoption   ServiceCounts  `json:"services_adoption"`
	KinStats           struct {
		WithNextOfKin    int `json:"with_next_of_kin"`
		WithoutNextOfKin int `json:"without_next_of_kin"`
	} `json:"kin_stats"`
}

// ExecutiveSummary is the response of /analytics/executive-summary
type ExecutiveSummary struct {
	KeyMetrics struct {
		TotalCustomers               int     `json:"total_customers"`
		TotalExpectedMonthlyDeposits float64 `json:"total_expected_monthly_deposits"`
		AverageCustomerValue         float64 `json:"average_customer_value"`
		DigitalAdoptionRate          float64 `json:"digital_adoption_rate"`
		ServiceEngagementScore       float64 `json:"service_engagement_score"`
		ProfileCompleteness          float64 `json:"profile_completeness"`
	} `json:"key_metrics"`
	HealthIndicators struct {
		DigitalMaturity    string `json:"digital_maturity"`
		DataQuality        string `json:"data_quality"`
		CustomerEngagement string `json:"customer_engagement"`
	} `json:"health_indicators"`
	TopInsights     []string `json:"top_insights"`
	Recommendations []string `json:"recommendations"`
}

// TurnoverSummary aggregates one side of expected monthly turnover
type TurnoverSummary struct {
	Average float64 `json:"average"`
	Minimum float64 `json:"minimum"`
	Maximum float64 `json:"maximum"`
	Total   float64 `json:"total"`
}

// FinancialInsights is the response of /analytics/financial-insights
type FinancialInsights struct {
	Summary struct {
		DebitTurnover  TurnoverSummary `json:"debit_turnover"`
		CreditTurnover TurnoverSummary `json:"credit_turnover"`
	} `json:"summary"`
	Insights struct {
		AverageNetMonthlyFlow           float64 `json:"average_net_monthly_flow"`
		FlowDirection                   string  `json:"flow_direction"`
		TotalExpectedMonthlyDeposits    float64 `json:"total_expected_monthly_deposits"`
		TotalExpectedMonthlyWithdrawals float64 `json:"total_expected_monthly_withdrawals"`
		HighestSingleDepositExpectation float64 `json:"highest_single_deposit_expectation"`
		TotalApplicationsAnalyzed       int     `json:"total_applications_analyzed"`
	} `json:"insights"`
}

// CityStats is one row of the city performance table
type CityStats struct {
	City               string  `json:"city"`
	TotalApplications  int     `json:"total_applications"`
	AvgMonthlyCredit   float64 `json:"avg_monthly_credit"`
	TotalMonthlyCredit float64 `json:"total_monthly_credit"`
}

// CityPerformance is the response of /analytics/city-performance
type CityPerformance struct {
	CityPerformance []CityStats `json:"city_performance"`
	Rankings        struct {
		ByApplicationVolume    []string `json:"by_application_volume"`
		ByTotalCreditValue     []string `json:"by_total_credit_value"`
		ByAverageCustomerValue []string `json:"by_average_customer_value"`
	} `json:"rankings"`
	Insights struct {
		HighestVolumeCity           *string `json:"highest_volume_city"`
		HighestValueCity            *string `json:"highest_value_city"`
		HighestAvgCustomerValueCity *string `json:"highest_avg_customer_value_city"`
		TotalCities                 int     `json:"total_cities"`
	} `json:"insights"`
}

// SegmentStats is the size of one customer segment
type SegmentStats struct {
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// CustomerSegmentation is the response of /analytics/customer-segments
type CustomerSegmentation struct {
	SegmentationData struct {
		TotalCustomers int                     `json:"total_customers"`
		Segments       map[string]SegmentStats `json:"segments"`
	} `json:"segmentation_data"`
	Insights struct {
		LargestSegment    *string `json:"largest_segment"`
		SmallestSegment   *string `json:"smallest_segment"`
		GrowthOpportunity *string `json:"growth_opportunity"`
	} `json:"insights"`
	SegmentRecommendations map[string]string `json:"segment_recommendations"`
}

// DigitalBankingInsights is the response of /analytics/digital-banking
type DigitalBankingInsights struct {
	AdoptionData struct {
		TotalCustomers       int            `json:"total_customers"`
		FullDigitalCustomers int            `json:"full_digital_customers"`
		InternetOnly         int            `json:"internet_only"`
		MobileOnly           int            `json:"mobile_only"`
		NoDigital            int            `json:"no_digital"`
		DigitalAdoptionRate  float64        `json:"digital_adoption_rate"`
		AnyDigitalRate       float64        `json:"any_digital_rate"`
		DigitalByAccountType map[string]int `json:"digital_by_account_type"`
	} `json:"adoption_data"`
	Insights struct {
		DigitalMaturityScore  float64 `json:"digital_maturity_score"`
		DigitalMaturityLevel  string  `json:"digital_maturity_level"`
		NonDigitalOpportunity int     `json:"non_digital_opportunity"`
		Recommendation        string  `json:"recommendation"`
	} `json:"insights"`
}

// ProfileCompletenessAnalysis is the response of /analytics/profile-completeness
type ProfileCompletenessAnalysis struct {
	CompletenessData struct {
		TotalApplications             int                `json:"total_applications"`
		AverageCompletenessPercentage float64            `json:"average_completeness_percentage"`
		FullyCompleteProfiles         int                `json:"fully_complete_profiles"`
		Above80Percent                int                `json:"above_80_percent"`
		Below50Percent                int                `json:"below_50_percent"`
		FieldCompletionRates          map[string]float64 `json:"field_completion_rates"`
	} `json:"completeness_data"`
	Insights struct {
		OverallHealth       string   `json:"overall_health"`
		WeakestFields       []string `json:"weakest_fields"`
		StrongestFields     []string `json:"strongest_fields"`
		ImprovementPriority *string  `json:"improvement_priority"`
		FullyCompleteRate   float64  `json:"fully_complete_rate"`
	} `json:"insights"`
}
