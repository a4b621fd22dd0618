package validation

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// FieldError is one itemized violation in a 400 response body.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// PasswordSymbols is the fixed set of special characters a password
// may (and must, at least once) contain.
const PasswordSymbols = "@$!%*?&"

const (
	fullNameMinLen = 3
	fullNameMaxLen = 50
	passwordMinLen = 8
	passwordMaxLen = 30
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateRegistration checks every registration rule and returns ALL
// violations, one per rule, in declaration order. It never short-circuits:
// the client renders the full list next to the form fields.
func ValidateRegistration(fullName, email, password string) []FieldError {
	var errs []FieldError

	switch n := utf8.RuneCountInString(strings.TrimSpace(fullName)); {
	case n == 0:
		errs = append(errs, FieldError{"fullName", "Please provide your full name"})
	case n < fullNameMinLen:
		errs = append(errs, FieldError{"fullName", "Full name should be at least 3 characters"})
	case n > fullNameMaxLen:
		errs = append(errs, FieldError{"fullName", "Full name cannot exceed 50 characters"})
	}

	switch {
	case strings.TrimSpace(email) == "":
		errs = append(errs, FieldError{"email", "Email address is required"})
	case !emailPattern.MatchString(email):
		errs = append(errs, FieldError{"email", "Please enter a valid email address"})
	}

	errs = append(errs, validatePassword(password)...)

	return errs
}

func validatePassword(password string) []FieldError {
	if password == "" {
		return []FieldError{{"password", "Password is required"}}
	}

	var errs []FieldError

	if len(password) < passwordMinLen {
		errs = append(errs, FieldError{"password", "Password must be at least 8 characters"})
	}
	if len(password) > passwordMaxLen {
		errs = append(errs, FieldError{"password", "Password cannot exceed 30 characters"})
	}

	var hasUpper, hasLower, hasDigit, hasSymbol, hasInvalid bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r) && r <= unicode.MaxASCII:
			hasUpper = true
		case unicode.IsLower(r) && r <= unicode.MaxASCII:
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		case strings.ContainsRune(PasswordSymbols, r):
			hasSymbol = true
		default:
			hasInvalid = true
		}
	}

	if !hasUpper {
		errs = append(errs, FieldError{"password", "Password must contain at least one uppercase letter"})
	}
	if !hasLower {
		errs = append(errs, FieldError{"password", "Password must contain at least one lowercase letter"})
	}
	if !hasDigit {
		errs = append(errs, FieldError{"password", "Password must contain at least one number"})
	}
	if !hasSymbol {
		errs = append(errs, FieldError{"password", "Password must contain at least one special character (@$!%*?&)"})
	}
	if hasInvalid {
		errs = append(errs, FieldError{"password", "Password may only contain letters, numbers and @$!%*?&"})
	}

	return errs
}

// NormalizeEmail lowercases and trims an email address so the unique
// key on users.email is case-insensitive in effect.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
