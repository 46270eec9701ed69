package validation

import (
	"regexp"
	"strings"
	"sync"

	"github.com/array/applications-console/internal/integrations/accountapi"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

var (
	instance *Validator
	mu       sync.Mutex

	ibanPattern = regexp.MustCompile(`^[A-Z]{2}[0-9]{2}[A-Z0-9]{10,30}$`)
	cnicPattern = regexp.MustCompile(`^(\d{5}-\d{7}-\d|\d{13})$`)
)

// Validator wraps go-playground validator with the console's custom tags
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator with the account application enum tags and the
// console's request tags registered.
func NewValidator() *Validator {
	v := validator.New()
	if err := accountapi.RegisterValidations(v); err != nil {
		panic(err)
	}
	tags := map[string]validator.Func{
		"search_kind": validateSearchKind,
		"iban":        validateIBAN,
		"cnic":        validateCNIC,
		"not_blank":   validateNotBlank,
	}
	for tag, fn := range tags {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}
	return &Validator{validate: v}
}

// GetValidator returns the process-wide validator
func GetValidator() *Validator {
	mu.Lock()
	defer mu.Unlock()
	if instance == nil {
		instance = NewValidator()
	}
	return instance
}

// GetValidate exposes the underlying validator, e.g. for the account API client
func (v *Validator) GetValidate() *validator.Validate {
	return v.validate
}

// Validate validates a struct against its validate tags
func (v *Validator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

// searchFormats holds the value format enforced per search kind. Kinds without
// an entry accept any non-blank query.
var searchFormats = map[accountapi.SearchKind]string{
	accountapi.SearchKindCNIC: "cnic",
	accountapi.SearchKindIBAN: "iban",
}

// ValidateSearchValue checks a search query against the format its kind requires
func (v *Validator) ValidateSearchValue(kind accountapi.SearchKind, value string) error {
	tag, ok := searchFormats[kind]
	if !ok {
		return nil
	}
	return v.validate.Var(value, tag)
}

type echoValidator struct {
	v *Validator
}

func (ev *echoValidator) Validate(i interface{}) error {
	return ev.v.Validate(i)
}

// EchoValidator adapts the shared validator to echo.Validator
func EchoValidator() echo.Validator {
	return &echoValidator{v: GetValidator()}
}

func validateSearchKind(fl validator.FieldLevel) bool {
	return accountapi.SearchKind(strings.ToLower(fl.Field().String())).Valid()
}

func validateIBAN(fl validator.FieldLevel) bool {
	s := strings.ToUpper(strings.ReplaceAll(fl.Field().String(), " ", ""))
	return ibanPattern.MatchString(s)
}

func validateCNIC(fl validator.FieldLevel) bool {
	return cnicPattern.MatchString(strings.TrimSpace(fl.Field().String()))
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
