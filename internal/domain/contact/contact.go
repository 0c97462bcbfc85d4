// Package contact validates the contact page form. Submissions are
// checked and discarded; nothing is stored or sent.
package contact

import (
	"strings"
	"unicode/utf8"

	"github.com/GriffinCanCode/ProductGallery/backend/internal/shared/utils"
)

// Messages shown for failed checks.
const (
	MsgNameTooShort     = "Name too short"
	MsgInvalidEmail     = "Invalid email"
	MsgPasswordMismatch = "Passwords do not match"
)

// Password rule fragments. Each failed rule is reported as its own
// "Password: <rule>" message.
const (
	RuleMinLength = "min 8 chars"
	RuleUppercase = "capital letter"
	RuleDigit     = "digit"
	RuleSpecial   = "special char"
)

// SpecialChars is the set a password must draw at least one character from.
const SpecialChars = "!@#$%^&*"

// Form holds one submission.
type Form struct {
	Name      string `json:"name" form:"name"`
	Email     string `json:"email" form:"email"`
	Password  string `json:"password" form:"password"`
	Password2 string `json:"password2" form:"password2"`
}

// Result lists every failed check. An empty list means success.
type Result struct {
	Errors []string `json:"errors"`
}

// OK reports whether the submission passed
func (r Result) OK() bool { return len(r.Errors) == 0 }

// Validate runs all checks and accumulates failures in a fixed order:
// name, email, password rules, confirmation.
func Validate(f Form) Result {
	errs := []string{}

	if utf8.RuneCountInString(strings.TrimSpace(f.Name)) < utils.MinNameLength {
		errs = append(errs, MsgNameTooShort)
	}
	if utils.ValidateEmail(f.Email) != nil {
		errs = append(errs, MsgInvalidEmail)
	}
	for _, rule := range PasswordRules(f.Password) {
		errs = append(errs, "Password: "+rule)
	}
	if f.Password != f.Password2 {
		errs = append(errs, MsgPasswordMismatch)
	}

	return Result{Errors: errs}
}

// PasswordRules returns the composition rules pw violates.
func PasswordRules(pw string) []string {
	var failed []string
	if utf8.RuneCountInString(pw) < utils.MinPasswordChars {
		failed = append(failed, RuleMinLength)
	}
	if !strings.ContainsFunc(pw, func(r rune) bool { return r >= 'A' && r <= 'Z' }) {
		failed = append(failed, RuleUppercase)
	}
	if !strings.ContainsFunc(pw, func(r rune) bool { return r >= '0' && r <= '9' }) {
		failed = append(failed, RuleDigit)
	}
	if !strings.ContainsAny(pw, SpecialChars) {
		failed = append(failed, RuleSpecial)
	}
	return failed
}
