package accountapi

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

var (
	ErrUnknownField     = errors.New("unknown application field")
	ErrInvalidFieldType = errors.New("invalid value for application field")
)

// Normalize returns a copy of p prepared for transmission: empty strings become nil,
// fields tagged normalize:"upper" are upper-cased and fields tagged normalize:"date"
// are converted from YYYY-MM-DD to the backend date form.
func Normalize(p ApplicationPayload) ApplicationPayload {
	v := reflect.ValueOf(&p).Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := v.Field(i)
		if f.Kind() != reflect.Ptr || f.IsNil() || f.Elem().Kind() != reflect.String {
			continue
		}
		s := f.Elem().String()
		if s == "" {
			f.Set(reflect.Zero(f.Type()))
			continue
		}
		switch t.Field(i).Tag.Get("normalize") {
		case "upper":
			s = strings.ToUpper(s)
		case "date":
			s = ToBackendDate(s)
		default:
			continue
		}
		nv := reflect.New(f.Type().Elem())
		nv.Elem().SetString(s)
		f.Set(nv)
	}
	return p
}

// PayloadFromApplication extracts the editable part of a stored record, mapping
// backend dates back to YYYY-MM-DD so the record can be edited and resubmitted.
func PayloadFromApplication(app AccountApplication) ApplicationPayload {
	p := app.ApplicationPayload
	for _, field := range []**string{&p.DateOfBirth, &p.CNICExpiryDate, &p.ResidingSince} {
		if *field != nil {
			s := FromBackendDate(**field)
			*field = &s
		}
	}
	return p
}

// WithField returns a copy of p with the field addressed by its JSON name set to value.
// A nil value clears the field. Strings, bools and numbers are accepted according to
// the field's type.
func WithField(p ApplicationPayload, key string, value any) (ApplicationPayload, error) {
	v := reflect.ValueOf(&p).Elem()
	idx, ok := payloadFields()[key]
	if !ok {
		return p, fmt.Errorf("%w: %s", ErrUnknownField, key)
	}
	f := v.Field(idx)
	if value == nil {
		f.Set(reflect.Zero(f.Type()))
		return p, nil
	}

	elem := f.Type().Elem()
	nv := reflect.New(elem)
	switch elem.Kind() {
	case reflect.String:
		s, ok := value.(string)
		if !ok {
			return p, fmt.Errorf("%w: %s expects a string", ErrInvalidFieldType, key)
		}
		nv.Elem().SetString(s)
	case reflect.Bool:
		b, ok := value.(bool)
		if !ok {
			return p, fmt.Errorf("%w: %s expects a boolean", ErrInvalidFieldType, key)
		}
		nv.Elem().SetBool(b)
	case reflect.Float64:
		n, ok := toFloat(value)
		if !ok {
			return p, fmt.Errorf("%w: %s expects a number", ErrInvalidFieldType, key)
		}
		nv.Elem().SetFloat(n)
	default:
		return p, fmt.Errorf("%w: %s", ErrInvalidFieldType, key)
	}
	f.Set(nv)
	return p, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// payloadFields maps JSON field names to struct field indexes
func payloadFields() map[string]int {
	t := reflect.TypeOf(ApplicationPayload{})
	fields := make(map[string]int, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		fields[name] = i
	}
	return fields
}
