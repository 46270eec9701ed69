package accountapi

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// enumTags maps validation tags to the closed value sets they enforce
var enumTags = map[string]func(string) bool{
	"account_type":       func(s string) bool { return AccountType(s).Valid() },
	"occupation":         func(s string) bool { return Occupation(s).Valid() },
	"gender":             func(s string) bool { return Gender(s).Valid() },
	"marital_status":     func(s string) bool { return MaritalStatus(s).Valid() },
	"residential_status": func(s string) bool { return ResidentialStatus(s).Valid() },
	"card_type":          func(s string) bool { return CardType(s).Valid() },
	"card_network":       func(s string) bool { return CardNetwork(s).Valid() },
}

// RegisterValidations installs the enum tags used by ApplicationPayload on v and makes
// v report fields by their JSON names.
func RegisterValidations(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	for tag, valid := range enumTags {
		valid := valid
		if err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return valid(strings.ToUpper(fl.Field().String()))
		}); err != nil {
			return fmt.Errorf("failed to register %s validation: %w", tag, err)
		}
	}
	return nil
}

func newPayloadValidator() *validator.Validate {
	v := validator.New()
	if err := RegisterValidations(v); err != nil {
		panic(err)
	}
	return v
}

// validatePayload checks p against its struct tags and converts failures to a *ValidationError
func validatePayload(v *validator.Validate, p ApplicationPayload) error {
	err := v.Struct(p)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate payload: %w", err)
	}
	issues := make([]ValidationIssue, 0, len(verrs))
	for _, fe := range verrs {
		issues = append(issues, ValidationIssue{
			Location: []any{"body", fe.Field()},
			Message:  issueMessage(fe),
			Type:     fe.Tag(),
		})
	}
	return &ValidationError{Issues: issues}
}

func issueMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field required"
	case "email":
		return "value is not a valid email address"
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	}
	if _, ok := enumTags[fe.Tag()]; ok {
		return fmt.Sprintf("value %q is not a valid %s", fmt.Sprint(fe.Value()), fe.Tag())
	}
	return "failed on " + fe.Tag()
}
