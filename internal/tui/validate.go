package tui

import (
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// minPasswordLen is the client-side minimum; the backend enforces its own.
const minPasswordLen = 6

// validateEmail returns an inline error message, or "" when valid.
func validateEmail(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return "Email is required"
	}
	if !emailPattern.MatchString(email) {
		return "Enter a valid email address"
	}
	return ""
}

// validatePassword returns an inline error message, or "" when valid.
func validatePassword(password string) string {
	if password == "" {
		return "Password is required"
	}
	if len(password) < minPasswordLen {
		return "Password must be at least 6 characters"
	}
	return ""
}

// validateName returns an inline error message, or "" when valid.
func validateName(name, label string) string {
	if strings.TrimSpace(name) == "" {
		return label + " is required"
	}
	return ""
}
