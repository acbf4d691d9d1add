// Package validators provides the shared request validator together with
// payload sanitizing and email verification.
package validators

import (
	"reflect"
	"regexp"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/truemail-rb/truemail-go"
)

type Validator struct {
	Validate    *validator.Validate
	VerifyEmail func(email string) bool

	sanitizer *bluemonday.Policy
}

var instance *Validator
var once sync.Once
var configuration *truemail.Configuration

// GetValidator returns the process-wide validator instance.
func GetValidator() *Validator {
	once.Do(func() {
		configuration, _ = truemail.NewConfiguration(truemail.ConfigurationAttr{
			VerifierEmail:         "team@mail.adoption-server.tech",
			ValidationTypeDefault: "mx",
			SmtpFailFast:          true,
		})

		instance = &Validator{
			Validate:    validator.New(validator.WithRequiredStructEnabled()),
			VerifyEmail: validateEmail,
			sanitizer:   bluemonday.StrictPolicy(),
		}

		registerCustomValidators(instance.Validate)
	})

	return instance
}

// SanitizeData strips markup from every string field of the given struct
// pointer, including nested structs.
func (v *Validator) SanitizeData(obj interface{}) error {
	value := reflect.ValueOf(obj)
	if value.Kind() != reflect.Ptr || value.Elem().Kind() != reflect.Struct {
		return nil
	}

	v.sanitizeStruct(value.Elem())
	return nil
}

func (v *Validator) sanitizeStruct(value reflect.Value) {
	for i := 0; i < value.NumField(); i++ {
		field := value.Field(i)
		if !field.CanSet() {
			continue
		}

		switch field.Kind() {
		case reflect.String:
			field.SetString(v.sanitizer.Sanitize(field.String()))
		case reflect.Struct:
			v.sanitizeStruct(field)
		case reflect.Ptr:
			if !field.IsNil() && field.Elem().Kind() == reflect.Struct {
				v.sanitizeStruct(field.Elem())
			}
		}
	}
}

func validateEmail(email string) bool {
	return truemail.IsValid(email, configuration)
}

func registerCustomValidators(v *validator.Validate) {
	err := v.RegisterValidation("username_validation", usernameValidation)
	if err != nil {
		return
	}

	err = v.RegisterValidation("password_validation", passwordValidation)
	if err != nil {
		return
	}
}

func usernameValidation(fl validator.FieldLevel) bool {
	username := fl.Field().String()
	// The pattern allows a-z, A-Z, 0-9, ., -, and _
	pattern := `^[a-zA-Z0-9.\-_]+$`
	match, err := regexp.MatchString(pattern, username)
	if err != nil {
		return false
	}

	return match
}

func passwordValidation(fl validator.FieldLevel) bool {
	var upperLetter, lowerLetter, number, specialChar bool

	value := fl.Field().String()
	for _, r := range value {
		if r > unicode.MaxASCII {
			return false
		}

		switch {
		case unicode.IsUpper(r):
			upperLetter = true
		case unicode.IsLower(r):
			lowerLetter = true
		case unicode.IsNumber(r):
			number = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			specialChar = true
		}
	}

	return upperLetter && lowerLetter && number && specialChar
}
