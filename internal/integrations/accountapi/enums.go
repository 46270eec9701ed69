package accountapi

// AccountType is the kind of account being applied for
type AccountType string

const (
	AccountTypeCurrent AccountType = "CURRENT"
	AccountTypeSavings AccountType = "SAVINGS"
	AccountTypeAhuLat  AccountType = "AHU_LAT"
)

// AccountTypes lists every account type the backend accepts
var AccountTypes = []AccountType{AccountTypeCurrent, AccountTypeSavings, AccountTypeAhuLat}

// Valid reports whether t is a known account type
func (t AccountType) Valid() bool { return contains(AccountTypes, t) }

// Occupation is the applicant's declared occupation
type Occupation string

const (
	OccupationServiceGovt    Occupation = "SERVICE_GOVT"
	OccupationServicePrivate Occupation = "SERVICE_PRIVATE"
	OccupationBusiness       Occupation = "BUSINESS"
	OccupationSelfEmployed   Occupation = "SELF_EMPLOYED"
	OccupationFarmer         Occupation = "FARMER"
	OccupationHouseWife      Occupation = "HOUSE_WIFE"
	OccupationStudent        Occupation = "STUDENT"
	OccupationRetired        Occupation = "RETIRED"
	OccupationDoctor         Occupation = "DOCTOR"
	OccupationEngineer       Occupation = "ENGINEER"
	OccupationTeacher        Occupation = "TEACHER"
	OccupationLawyer         Occupation = "LAWYER"
	OccupationAccountant     Occupation = "ACCOUNTANT"
	OccupationITProfessional Occupation = "IT_PROFESSIONAL"
	OccupationBanker         Occupation = "BANKER"
	OccupationUnemployed     Occupation = "UNEMPLOYED"
	OccupationOther          Occupation = "OTHER"
)

var Occupations = []Occupation{
	OccupationServiceGovt, OccupationServicePrivate, OccupationBusiness, OccupationSelfEmployed,
	OccupationFarmer, OccupationHouseWife, OccupationStudent, OccupationRetired,
	OccupationDoctor, OccupationEngineer, OccupationTeacher, OccupationLawyer,
	OccupationAccountant, OccupationITProfessional, OccupationBanker, OccupationUnemployed,
	OccupationOther,
}

func (o Occupation) Valid() bool { return contains(Occupations, o) }

// Gender of the applicant
type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderOther  Gender = "OTHER"
)

var Genders = []Gender{GenderMale, GenderFemale, GenderOther}

func (g Gender) Valid() bool { return contains(Genders, g) }

// MaritalStatus of the applicant
type MaritalStatus string

const (
	MaritalStatusSingle   MaritalStatus = "SINGLE"
	MaritalStatusMarried  MaritalStatus = "MARRIED"
	MaritalStatusDivorced MaritalStatus = "DIVORCED"
	MaritalStatusWidowed  MaritalStatus = "WIDOWED"
)

var MaritalStatuses = []MaritalStatus{MaritalStatusSingle, MaritalStatusMarried, MaritalStatusDivorced, MaritalStatusWidowed}

func (m MaritalStatus) Valid() bool { return contains(MaritalStatuses, m) }

// ResidentialStatus describes how the applicant occupies their residence
type ResidentialStatus string

const (
	ResidentialStatusHouseOwned ResidentialStatus = "HOUSE_OWNED"
	ResidentialStatusRental     ResidentialStatus = "RENTAL"
	ResidentialStatusFamily     ResidentialStatus = "FAMILY"
	ResidentialStatusOther      ResidentialStatus = "OTHER"
)

var ResidentialStatuses = []ResidentialStatus{ResidentialStatusHouseOwned, ResidentialStatusRental, ResidentialStatusFamily, ResidentialStatusOther}

func (r ResidentialStatus) Valid() bool { return contains(ResidentialStatuses, r) }

// CardType is the debit card tier requested with the account
type CardType string

const (
	CardTypeClassic   CardType = "CLASSIC"
	CardTypeGold      CardType = "GOLD"
	CardTypeTitanium  CardType = "TITANIUM"
	CardTypePlatinum  CardType = "PLATINUM"
	CardTypeSignature CardType = "SIGNATURE"
	CardTypeInfinite  CardType = "INFINITE"
)

var CardTypes = []CardType{CardTypeClassic, CardTypeGold, CardTypeTitanium, CardTypePlatinum, CardTypeSignature, CardTypeInfinite}

func (c CardType) Valid() bool { return contains(CardTypes, c) }

// CardNetwork is the card scheme
type CardNetwork string

const (
	CardNetworkVisa       CardNetwork = "VISA"
	CardNetworkMastercard CardNetwork = "MASTERCARD"
)

var CardNetworks = []CardNetwork{CardNetworkVisa, CardNetworkMastercard}

func (c CardNetwork) Valid() bool { return contains(CardNetworks, c) }

func contains[T comparable](set []T, v T) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// SearchKind names one of the lookup endpoints under /account-applications/search
type SearchKind string

const (
	SearchKindCNIC          SearchKind = "cnic"
	SearchKindAccountNumber SearchKind = "account-number"
	SearchKindIBAN          SearchKind = "iban"
	SearchKindCity          SearchKind = "city"
	SearchKindAccountType   SearchKind = "account-type"
)

var SearchKinds = []SearchKind{SearchKindCNIC, SearchKindAccountNumber, SearchKindIBAN, SearchKindCity, SearchKindAccountType}

func (k SearchKind) Valid() bool { return contains(SearchKinds, k) }

// Single reports whether the lookup yields at most one record
func (k SearchKind) Single() bool {
	return k == SearchKindCNIC || k == SearchKindAccountNumber || k == SearchKindIBAN
}
