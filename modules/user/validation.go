package user

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/example/task-manager/domain/apperror"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks an already normalized email. Any Unicode space
// rejects it, not only the ASCII ones the pattern knows.
func ValidateEmail(email string) error {
	if email == "" {
		return apperror.Validation("email is required")
	}
	if strings.IndexFunc(email, unicode.IsSpace) >= 0 || !emailPattern.MatchString(email) {
		return apperror.Validation("invalid email format")
	}
	return nil
}
