package seed

import (
	"fmt"
	"strings"
	"time"

	"github.com/array/applications-console/internal/integrations/accountapi"
	"github.com/brianvoe/gofakeit/v7"
)

var cities = []string{
	"LAHORE", "KARACHI", "ISLAMABAD", "RAWALPINDI", "FAISALABAD",
	"MULTAN", "PESHAWAR", "QUETTA", "SIALKOT", "HYDERABAD",
}

var relations = []string{"FATHER", "MOTHER", "SPOUSE", "BROTHER", "SISTER", "SON", "DAUGHTER"}

// Generator produces realistic fake account applications
type Generator struct {
	faker *gofakeit.Faker
	now   func() time.Time
}

// NewGenerator creates a generator. A zero seed draws a random one.
func NewGenerator(seed uint64) *Generator {
	return &Generator{faker: gofakeit.New(seed), now: time.Now}
}

// WithClock fixes the reference time used for application dates
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Payload returns a form-side payload: mixed-case text and YYYY-MM-DD dates, as a user
// would submit it before normalization.
func (g *Generator) Payload() accountapi.ApplicationPayload {
	f := g.faker
	now := g.now()
	first, last := f.FirstName(), f.LastName()
	name := first + " " + last
	city := pick(f, cities)
	branchCity := pick(f, cities)
	yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)

	p := accountapi.ApplicationPayload{
		Date:                      str(f.DateRange(yearStart, now).Format(accountapi.ClientDateLayout)),
		BranchCity:                str(branchCity),
		BranchCode:                str(fmt.Sprintf("%04d", f.Number(1, 9999))),
		SBPCode:                   str(f.Numerify("SBP-###")),
		AccountType:               ptr(pick(f, accountapi.AccountTypes)),
		TitleOfAccount:            str(name),
		Name:                      str(name),
		NameOnCard:                str(strings.ToUpper(first[:1]) + " " + last),
		CNICNo:                    str(f.Numerify("#####-#######-#")),
		FathersHusbandsName:       str(f.FirstName() + " " + last),
		MothersName:               str(f.FirstName() + " " + f.LastName()),
		MaritalStatus:             ptr(pick(f, accountapi.MaritalStatuses)),
		Gender:                    ptr(pick(f, accountapi.Genders)),
		Nationality:               str("Pakistani"),
		PlaceOfBirth:              str(pick(f, cities)),
		DateOfBirth:               str(f.DateRange(now.AddDate(-70, 0, 0), now.AddDate(-18, 0, 0)).Format(accountapi.ClientDateLayout)),
		CNICExpiryDate:            str(f.DateRange(now, now.AddDate(10, 0, 0)).Format(accountapi.ClientDateLayout)),
		HouseNoBlockStreet:        str(f.Street()),
		AreaLocation:              str(f.LastName() + " Town"),
		City:                      str(city),
		PostalCode:                str(f.Numerify("#####")),
		Occupation:                ptr(pick(f, accountapi.Occupations)),
		PurposeOfAccount:          str(pick(f, []string{"Salary", "Savings", "Business", "Investment"})),
		SourceOfIncome:            str(pick(f, []string{"Salary", "Business", "Pension", "Rental"})),
		ExpectedMonthlyTurnoverDr: ptr(float64(f.Number(5, 400)) * 1000),
		ExpectedMonthlyTurnoverCr: ptr(float64(f.Number(5, 600)) * 1000),
		ResidentialStatus:         ptr(pick(f, accountapi.ResidentialStatuses)),
		ResidingSince:             str(f.DateRange(now.AddDate(-30, 0, 0), now).Format(accountapi.ClientDateLayout)),
		InternetBanking:           ptr(f.Bool()),
		MobileBanking:             ptr(f.Bool()),
		CheckBook:                 ptr(f.Bool()),
		SMSAlerts:                 ptr(f.Bool()),
		ZakatDeduction:            ptr(f.Bool()),
	}

	if *p.Occupation == accountapi.OccupationOther {
		p.OccupationOther = str(f.JobTitle())
	}
	if *p.ResidentialStatus == accountapi.ResidentialStatusOther {
		p.ResidentialStatusOther = str("Hostel")
	}

	hasKin := f.Bool()
	p.HasNextOfKin = ptr(hasKin)
	if hasKin {
		relation := pick(f, relations)
		p.NextOfKinName = str(f.FirstName() + " " + last)
		p.NextOfKinRelation = str(relation)
		p.NextOfKinRelationship = str(relation)
		p.NextOfKinCNIC = str(f.Numerify("#####-#######-#"))
		p.NextOfKinContactNo = str(f.Numerify("03##-#######"))
		p.NextOfKinAddress = str(f.Street() + ", " + city)
		p.NextOfKinEmail = str(f.Email())
	}

	if f.Number(0, 3) > 0 {
		p.CardType = ptr(pick(f, accountapi.CardTypes))
		p.CardNetwork = ptr(pick(f, accountapi.CardNetworks))
	}
	return p
}

// Application returns a stored record as the backend would return it
func (g *Generator) Application(id int) accountapi.AccountApplication {
	return accountapi.AccountApplication{
		ID:                 id,
		AccountNo:          fmt.Sprintf("ACC%06d", id),
		IBAN:               fmt.Sprintf("PK%02dSCBL%016d", g.faker.Number(10, 99), id),
		ApplicationPayload: accountapi.Normalize(g.Payload()),
	}
}

// Applications returns n stored records with ids 1..n
func (g *Generator) Applications(n int) []accountapi.AccountApplication {
	out := make([]accountapi.AccountApplication, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, g.Application(i))
	}
	return out
}

func pick[T any](f *gofakeit.Faker, values []T) T {
	return values[f.Number(0, len(values)-1)]
}

func str(s string) *string { return &s }

func ptr[T any](v T) *T { return &v }
