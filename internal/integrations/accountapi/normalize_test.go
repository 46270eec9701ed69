package accountapi

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_EmptyAndNilBecomeNull(t *testing.T) {
	p := ApplicationPayload{
		City:   ptr(""),
		Name:   nil,
		CNICNo: ptr("12345"),
	}

	raw, err := json.Marshal(Normalize(p))
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body))

	city, ok := body["city"]
	assert.True(t, ok, "city must be present")
	assert.Nil(t, city)
	name, ok := body["name"]
	assert.True(t, ok, "name must be present")
	assert.Nil(t, name)
	assert.Equal(t, "12345", body["cnic_no"])
	assert.NotContains(t, body, "id")
	assert.NotContains(t, body, "account_no")
	assert.NotContains(t, body, "iban")
}

func TestNormalize_UpperCasesAndConvertsDates(t *testing.T) {
	p := ApplicationPayload{
		Name:           ptr("sara ahmed"),
		City:           ptr("islamabad"),
		CNICNo:         ptr("abc-1"),
		DateOfBirth:    ptr("1990-05-14"),
		CNICExpiryDate: ptr("2031-01-09"),
		ResidingSince:  ptr("14/05/1990"),
		NextOfKinEmail: ptr("Kin@Example.com"),
	}

	out := Normalize(p)

	assert.Equal(t, "SARA AHMED", *out.Name)
	assert.Equal(t, "ISLAMABAD", *out.City)
	assert.Equal(t, "abc-1", *out.CNICNo, "cnic is not case-normalized")
	assert.Equal(t, "14 05 90", *out.DateOfBirth)
	assert.Equal(t, "09 01 31", *out.CNICExpiryDate)
	assert.Equal(t, "14/05/1990", *out.ResidingSince, "non-matching dates pass through")
	assert.Equal(t, "Kin@Example.com", *out.NextOfKinEmail)
}

func TestNormalize_DoesNotMutateInput(t *testing.T) {
	city := "lahore"
	empty := ""
	p := ApplicationPayload{City: &city, MothersName: &empty}

	out := Normalize(p)

	assert.Equal(t, "lahore", city)
	assert.Equal(t, "LAHORE", *out.City)
	assert.NotNil(t, p.MothersName)
	assert.Nil(t, out.MothersName)
}

func TestNormalize_EmptyEnumBecomesNull(t *testing.T) {
	out := Normalize(ApplicationPayload{Gender: ptr(Gender("")), CardType: ptr(CardTypeGold), Occupation: ptr(Occupation("doctor"))})
	assert.Nil(t, out.Gender)
	assert.Equal(t, CardTypeGold, *out.CardType)
	assert.Equal(t, OccupationDoctor, *out.Occupation)
}

func TestPayloadFromApplication_MapsDatesBack(t *testing.T) {
	app := AccountApplication{
		ID:        4,
		AccountNo: "ACC004",
		IBAN:      "PK00TEST",
		ApplicationPayload: ApplicationPayload{
			Name:          ptr("ALI"),
			DateOfBirth:   ptr("14 05 90"),
			ResidingSince: ptr("not a date"),
		},
	}

	p := PayloadFromApplication(app)

	assert.Equal(t, "1990-05-14", *p.DateOfBirth)
	assert.Equal(t, "not a date", *p.ResidingSince)
	assert.Nil(t, p.CNICExpiryDate)
	assert.Equal(t, "14 05 90", *app.DateOfBirth, "source record is untouched")
}

func TestWithField(t *testing.T) {
	base := ApplicationPayload{Name: ptr("ALI"), City: ptr("LAHORE")}

	t.Run("sets string field", func(t *testing.T) {
		out, err := WithField(base, "city", "KARACHI")
		require.NoError(t, err)
		assert.Equal(t, "KARACHI", *out.City)
		assert.Equal(t, "LAHORE", *base.City)
	})

	t.Run("sets enum field", func(t *testing.T) {
		out, err := WithField(base, "account_type", "CURRENT")
		require.NoError(t, err)
		assert.Equal(t, AccountTypeCurrent, *out.AccountType)
	})

	t.Run("sets bool field", func(t *testing.T) {
		out, err := WithField(base, "sms_alerts", true)
		require.NoError(t, err)
		assert.True(t, *out.SMSAlerts)
	})

	t.Run("sets number field from int", func(t *testing.T) {
		out, err := WithField(base, "expected_monthly_turnover_cr", 250000)
		require.NoError(t, err)
		assert.Equal(t, 250000.0, *out.ExpectedMonthlyTurnoverCr)
	})

	t.Run("nil clears field", func(t *testing.T) {
		out, err := WithField(base, "name", nil)
		require.NoError(t, err)
		assert.Nil(t, out.Name)
		assert.NotNil(t, base.Name)
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := WithField(base, "account_no", "ACC1")
		assert.True(t, errors.Is(err, ErrUnknownField))
	})

	t.Run("wrong type", func(t *testing.T) {
		_, err := WithField(base, "check_book", "yes")
		assert.True(t, errors.Is(err, ErrInvalidFieldType))
		_, err = WithField(base, "name", 12)
		assert.True(t, errors.Is(err, ErrInvalidFieldType))
		_, err = WithField(base, "expected_monthly_turnover_dr", "lots")
		assert.True(t, errors.Is(err, ErrInvalidFieldType))
	})
}

func TestValidatePayload(t *testing.T) {
	v := newPayloadValidator()

	t.Run("valid payload", func(t *testing.T) {
		assert.NoError(t, validatePayload(v, Normalize(validPayload())))
	})

	t.Run("enum values are checked case-insensitively", func(t *testing.T) {
		p := validPayload()
		p.Occupation = ptr(Occupation("doctor"))
		assert.NoError(t, validatePayload(v, p))
	})

	t.Run("negative turnover", func(t *testing.T) {
		p := validPayload()
		p.ExpectedMonthlyTurnoverDr = ptr(-1.0)
		err := validatePayload(v, p)
		require.Error(t, err)
		issues := IssuesOf(err)
		require.Len(t, issues, 1)
		assert.Equal(t, "body.expected_monthly_turnover_dr", issues[0].Path())
		assert.Equal(t, "must be greater than or equal to 0", issues[0].Message)
	})

	t.Run("bad email and card network", func(t *testing.T) {
		p := validPayload()
		p.NextOfKinEmail = ptr("not-an-email")
		p.CardNetwork = ptr(CardNetwork("AMEX"))
		err := validatePayload(v, p)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrValidation))
		assert.Len(t, IssuesOf(err), 2)
		assert.Contains(t, err.Error(), "body.card_network")
		assert.Contains(t, err.Error(), "body.next_of_kin_email")
	})

	t.Run("missing required fields", func(t *testing.T) {
		err := validatePayload(v, ApplicationPayload{})
		require.Error(t, err)
		assert.Len(t, IssuesOf(err), 3)
		assert.Contains(t, err.Error(), "body.title_of_account: field required")
	})
}

func TestAPIError(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		sentinel error
		message  string
	}{
		{"not found with detail", 404, `{"detail":"Not found"}`, ErrNotFound, "account api error (HTTP 404): Not found"},
		{"not found without body", 404, ``, ErrNotFound, "account api error (HTTP 404): application not found"},
		{"string detail", 400, `{"detail":"CNIC already registered"}`, ErrValidation, "account api error (HTTP 400): CNIC already registered"},
		{"issue list", 422, `{"detail":[{"loc":["body","name"],"msg":"field required"}]}`, ErrValidation, "Validation Error: body.name: field required"},
		{"numeric location", 422, `{"detail":[{"loc":["body","items",0],"msg":"bad"}]}`, ErrValidation, "Validation Error: body.items.0: bad"},
		{"server error", 500, `{"detail":"boom"}`, ErrUnknownServer, "account api error (HTTP 500): boom"},
		{"unparseable", 418, `teapot`, ErrUnknownServer, "account api error (HTTP 418): teapot"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := newAPIError(tt.status, []byte(tt.body))
			assert.True(t, errors.Is(err, tt.sentinel), "expected %v", tt.sentinel)
			assert.Equal(t, tt.message, err.Error())
		})
	}
}
