package model

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// DefaultEmailDomain is the institutional suffix accepted for accounts.
const DefaultEmailDomain = "srmist.edu.in"

// Validator checks entities at the repository boundary.
type Validator struct {
	v      *validator.Validate
	emailR *regexp.Regexp
}

// NewValidator returns a validator that accepts account emails under domain.
func NewValidator(domain string) *Validator {
	if domain == "" {
		domain = DefaultEmailDomain
	}
	val := &Validator{
		v:      validator.New(validator.WithRequiredStructEnabled()),
		emailR: EmailPattern(domain),
	}

	// Registration only fails for empty tags or nil funcs.
	_ = val.v.RegisterValidation("campusemail", func(fl validator.FieldLevel) bool {
		return val.emailR.MatchString(fl.Field().String())
	})
	_ = val.v.RegisterValidation("itemdate", func(fl validator.FieldLevel) bool {
		_, err := ParseDate(fl.Field().String())
		return err == nil
	})
	_ = val.v.RegisterValidation("tracking", func(fl validator.FieldLevel) bool {
		return ValidTracking(fl.Field().String())
	})

	return val
}

// EmailPattern builds the account email regex for domain.
func EmailPattern(domain string) *regexp.Regexp {
	return regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@` + regexp.QuoteMeta(domain) + `$`)
}

// Struct validates s against its validate tags.
func (val *Validator) Struct(s any) error {
	return val.v.Struct(s)
}

// Email reports whether email is an acceptable account address.
func (val *Validator) Email(email string) bool {
	return val.emailR.MatchString(email)
}
