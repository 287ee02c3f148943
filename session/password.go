package session

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/electrostore/storefront/entities"
)

const minPasswordLength = 8

// checkPasswordStrength enforces the registration policy: minimum length
// plus one character from each of the upper, lower, digit and symbol
// classes.
func checkPasswordStrength(password string) error {
	var missing []string

	if len(password) < minPasswordLength {
		missing = append(missing, fmt.Sprintf("at least %d characters", minPasswordLength))
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool

	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSymbol = true
		}
	}

	if !hasUpper {
		missing = append(missing, "an upper-case letter")
	}

	if !hasLower {
		missing = append(missing, "a lower-case letter")
	}

	if !hasDigit {
		missing = append(missing, "a digit")
	}

	if !hasSymbol {
		missing = append(missing, "a symbol")
	}

	if len(missing) == 0 {
		return nil
	}

	return fmt.Errorf("%w: needs %s", entities.ErrWeakPassword, strings.Join(missing, ", "))
}
