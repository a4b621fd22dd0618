package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func fields(errs []FieldError) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Field)
	}
	return out
}

func TestValidateRegistration_Valid(t *testing.T) {
	errs := ValidateRegistration("Jane Cruz", "jane@example.com", "Password1!")
	assert.Empty(t, errs)
}

func TestValidateRegistration_AllFieldsMissing(t *testing.T) {
	errs := ValidateRegistration("", "", "")

	assert.Len(t, errs, 3)
	assert.Equal(t, []string{"fullName", "email", "password"}, fields(errs))
}

func TestValidateRegistration_CollectsEveryViolation(t *testing.T) {
	// Short name, malformed email, short all-lowercase password: the
	// response must itemize every broken rule, not stop at the first.
	errs := ValidateRegistration("ab", "not-an-email", "abc")

	got := fields(errs)
	assert.Contains(t, got, "fullName")
	assert.Contains(t, got, "email")
	count := 0
	for _, f := range got {
		if f == "password" {
			count++
		}
	}
	// too short + no uppercase + no digit + no symbol
	assert.Equal(t, 4, count)
}

func TestValidateRegistration_FullNameBounds(t *testing.T) {
	assert.Empty(t, ValidateRegistration("Ana", "a@b.co", "Password1!"))

	errs := ValidateRegistration(strings.Repeat("x", 51), "a@b.co", "Password1!")
	assert.Equal(t, "Full name cannot exceed 50 characters", errs[0].Message)
}

func TestValidateRegistration_PasswordRules(t *testing.T) {
	tests := []struct {
		name     string
		password string
		message  string
	}{
		{"too short", "Ab1!", "Password must be at least 8 characters"},
		{"too long", "Ab1!" + strings.Repeat("a", 30), "Password cannot exceed 30 characters"},
		{"no uppercase", "password1!", "Password must contain at least one uppercase letter"},
		{"no lowercase", "PASSWORD1!", "Password must contain at least one lowercase letter"},
		{"no digit", "Password!!", "Password must contain at least one number"},
		{"no symbol", "Password11", "Password must contain at least one special character (@$!%*?&)"},
		{"bad symbol", "Password1#", "Password may only contain letters, numbers and @$!%*?&"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateRegistration("Jane Cruz", "jane@example.com", tt.password)
			messages := make([]string, 0, len(errs))
			for _, e := range errs {
				messages = append(messages, e.Message)
			}
			assert.Contains(t, messages, tt.message)
		})
	}
}

func TestValidateRegistration_EmailShape(t *testing.T) {
	for _, bad := range []string{"plain", "a@b", "a b@c.co", "@no-local.com"} {
		errs := ValidateRegistration("Jane Cruz", bad, "Password1!")
		assert.NotEmpty(t, errs, "expected %q to be rejected", bad)
		assert.Equal(t, "email", errs[0].Field)
	}
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "jane@example.com", NormalizeEmail("  Jane@Example.COM "))
}
