package service

import (
	"regexp"
	"strings"
	"unicode"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func validateName(name string) []string {
	var violations []string
	trimmed := strings.TrimSpace(name)
	if len(trimmed) < 2 || len(trimmed) > 30 {
		violations = append(violations, "name must be between 2 and 30 characters")
	}
	for _, r := range trimmed {
		if unicode.IsDigit(r) {
			violations = append(violations, "name must not contain digits")
			break
		}
	}
	return violations
}

func validateEmail(email string, allowedDomains []string) []string {
	var violations []string
	if !emailPattern.MatchString(email) {
		violations = append(violations, "email must be a valid email address")
		return violations
	}
	if len(allowedDomains) > 0 {
		domain := email[strings.LastIndex(email, "@")+1:]
		allowed := false
		for _, d := range allowedDomains {
			if strings.EqualFold(domain, d) {
				allowed = true
				break
			}
		}
		if !allowed {
			violations = append(violations, "email domain is not allowed")
		}
	}
	return violations
}

func validatePassword(password string) []string {
	var violations []string
	if len(password) < 8 || len(password) > 30 {
		violations = append(violations, "password must be between 8 and 30 characters")
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
		violations = append(violations, "password must contain an uppercase letter")
	}
	if !hasLower {
		violations = append(violations, "password must contain a lowercase letter")
	}
	if !hasDigit {
		violations = append(violations, "password must contain a digit")
	}
	if !hasSymbol {
		violations = append(violations, "password must contain a symbol")
	}
	return violations
}
