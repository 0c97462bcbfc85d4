package contact

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/GriffinCanCode/ProductGallery/backend/internal/shared/utils"
)

func TestValidateSuccess(t *testing.T) {
	res := Validate(Form{Name: "Al", Email: "al@example.com", Password: "Secret1!", Password2: "Secret1!"})
	assert.True(t, res.OK())
	assert.Empty(t, res.Errors)
}

func TestValidateAccumulatesEverything(t *testing.T) {
	res := Validate(Form{Name: " a ", Email: "nope", Password: "abc", Password2: "abd"})
	assert.False(t, res.OK())
	assert.Equal(t, []string{
		"Name too short",
		"Invalid email",
		"Password: min 8 chars",
		"Password: capital letter",
		"Password: digit",
		"Password: special char",
		"Passwords do not match",
	}, res.Errors)
}

func TestValidateMatchingWeakPasswords(t *testing.T) {
	res := Validate(Form{Name: "A", Email: "bad", Password: "short", Password2: "short"})
	assert.False(t, res.OK())
	assert.GreaterOrEqual(t, len(res.Errors), 4)
	assert.Equal(t, []string{
		"Name too short",
		"Invalid email",
		"Password: min 8 chars",
		"Password: capital letter",
		"Password: digit",
		"Password: special char",
	}, res.Errors)
}

func TestValidateEmailLengthCap(t *testing.T) {
	local := strings.Repeat("a", utils.MaxEmailLength)
	res := Validate(Form{Name: "Jane", Email: local + "@example.com", Password: "Passw0rd#", Password2: "Passw0rd#"})
	assert.Equal(t, []string{MsgInvalidEmail}, res.Errors)
}

func TestValidateSingleFailures(t *testing.T) {
	base := Form{Name: "Jane", Email: "jane.doe@mail.example.org", Password: "Passw0rd#", Password2: "Passw0rd#"}

	tests := []struct {
		name   string
		mutate func(*Form)
		want   string
	}{
		{"short name", func(f *Form) { f.Name = "J" }, MsgNameTooShort},
		{"missing tld", func(f *Form) { f.Email = "jane@localhost" }, MsgInvalidEmail},
		{"long tld", func(f *Form) { f.Email = "jane@example.museum" }, MsgInvalidEmail},
		{"no uppercase", func(f *Form) { f.Password, f.Password2 = "passw0rd#", "passw0rd#" }, "Password: " + RuleUppercase},
		{"no digit", func(f *Form) { f.Password, f.Password2 = "Password#", "Password#" }, "Password: digit"},
		{"no special", func(f *Form) { f.Password, f.Password2 = "Passw0rd", "Passw0rd" }, "Password: special char"},
		{"too short", func(f *Form) { f.Password, f.Password2 = "Pa0#", "Pa0#" }, "Password: min 8 chars"},
		{"mismatch", func(f *Form) { f.Password2 = "Passw0rd$" }, MsgPasswordMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := base
			tt.mutate(&f)
			assert.Equal(t, []string{tt.want}, Validate(f).Errors)
		})
	}
}

func TestPasswordRulesSpecialSet(t *testing.T) {
	for _, c := range SpecialChars {
		assert.NotContains(t, PasswordRules("Abcdefg1"+string(c)), RuleSpecial)
	}
	assert.Contains(t, PasswordRules("Abcdefg1?"), RuleSpecial)
}
