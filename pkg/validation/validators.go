package validation

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// emailPart matches a run without whitespace or @. RE2's \s is ASCII only, so
// vertical tab, Unicode separators and the BOM are listed explicitly.
const emailPart = `[^\s\v\p{Z}\x{FEFF}@]+`

// Regex patterns
var (
	// local@domain.tld: no whitespace or extra @ anywhere, at least one dot after the @
	contactEmailRegex = regexp.MustCompile(`^` + emailPart + `@` + emailPart + `\.` + emailPart + `$`)
)

// TagContactEmail is the struct tag registered for contact email addresses.
const TagContactEmail = "contact_email"

// New returns a validator with the custom rules registered.
func New() *validator.Validate {
	v := validator.New()
	RegisterValidators(v)
	return v
}

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation(TagContactEmail, ContactEmail)
}

// ContactEmail validates the loose address shape accepted by the contact form.
// It is deliberately looser than validator's built-in "email" tag.
func ContactEmail(fl validator.FieldLevel) bool {
	return IsContactEmail(fl.Field().String())
}

// IsContactEmail reports whether s looks like local@domain.tld.
func IsContactEmail(s string) bool {
	return contactEmailRegex.MatchString(s)
}
