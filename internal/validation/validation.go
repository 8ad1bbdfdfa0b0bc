// Package validation provides input validation for signup fields.
package validation

import (
	"fmt"
	"regexp"
	"unicode"
)

var (
	nicknameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	digitRegex    = regexp.MustCompile(`[0-9]`)
	specialRegex  = regexp.MustCompile(`[!@#$%^&*()_+\-=\[\]{};':"\\|,.<>\/?]`)
)

// reservedNicknames are names that collide with route segments or read as
// official accounts.
var reservedNicknames = map[string]struct{}{
	"admin":      {},
	"api":        {},
	"auth":       {},
	"users":      {},
	"posts":      {},
	"comments":   {},
	"breakdowns": {},
	"metrics":    {},
	"login":      {},
	"signup":     {},
	"me":         {},
}

// ValidateNickname checks nickname length, charset and reserved names.
func ValidateNickname(nickname string) error {
	if len(nickname) < 3 {
		return fmt.Errorf("nickname must be at least 3 characters long")
	}
	if len(nickname) > 30 {
		return fmt.Errorf("nickname must not exceed 30 characters")
	}
	if !nicknameRegex.MatchString(nickname) {
		return fmt.Errorf("nickname can only contain letters, numbers, underscores, and hyphens")
	}
	if nickname[0] == '_' || nickname[0] == '-' || nickname[len(nickname)-1] == '_' || nickname[len(nickname)-1] == '-' {
		return fmt.Errorf("nickname cannot start or end with underscore or hyphen")
	}
	if _, exists := reservedNicknames[nickname]; exists {
		return fmt.Errorf("nickname is reserved")
	}
	return nil
}

// ValidateEmail checks basic email format.
func ValidateEmail(email string) error {
	if len(email) > 254 {
		return fmt.Errorf("email must not exceed 254 characters")
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// ValidatePassword checks if a password meets security requirements.
func ValidatePassword(password string) error {
	if len(password) < 12 {
		return fmt.Errorf("password must be at least 12 characters long")
	}
	if len(password) > 128 {
		return fmt.Errorf("password must not exceed 128 characters")
	}

	hasUpper := false
	hasLower := false
	for _, r := range password {
		if unicode.IsUpper(r) {
			hasUpper = true
		}
		if unicode.IsLower(r) {
			hasLower = true
		}
	}
	if !hasUpper {
		return fmt.Errorf("password must contain at least one uppercase letter")
	}
	if !hasLower {
		return fmt.Errorf("password must contain at least one lowercase letter")
	}
	if !digitRegex.MatchString(password) {
		return fmt.Errorf("password must contain at least one digit")
	}
	if !specialRegex.MatchString(password) {
		return fmt.Errorf("password must contain at least one special character (!@#$%%^&*)")
	}
	return nil
}
