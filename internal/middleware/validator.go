package middleware

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	maxTickerLength   = 20
	maxUsernameLength = 64
	minPasswordLength = 8
	maxListLimit      = 100
	defaultListLimit  = 20
)

// Bloomberg-style symbols: "AAPL US", "7203 JT", "BRK.B US".
var tickerPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9 .\-]*$`)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.\-@]+$`)

// ValidateTicker trims and normalizes a ticker to upper case. Whitespace-only
// input is rejected the same as empty input.
func ValidateTicker(raw string) (string, error) {
	ticker := strings.ToUpper(strings.TrimSpace(raw))
	if ticker == "" {
		return "", fmt.Errorf("ticker is required")
	}
	if len(ticker) > maxTickerLength {
		return "", fmt.Errorf("ticker exceeds %d characters", maxTickerLength)
	}
	if !tickerPattern.MatchString(ticker) {
		return "", fmt.Errorf("ticker contains invalid characters")
	}
	return ticker, nil
}

// ValidateUsername checks a registration or login username.
func ValidateUsername(raw string) (string, error) {
	username := strings.TrimSpace(raw)
	if username == "" {
		return "", fmt.Errorf("username is required")
	}
	if len(username) > maxUsernameLength {
		return "", fmt.Errorf("username exceeds %d characters", maxUsernameLength)
	}
	if !usernamePattern.MatchString(username) {
		return "", fmt.Errorf("username contains invalid characters")
	}
	return username, nil
}

// ValidatePassword enforces the minimum length only. Composition rules are
// left to the user.
func ValidatePassword(raw string) error {
	if len(raw) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	return nil
}

// ValidateLimit parses a list page size, clamping to sane bounds.
func ValidateLimit(raw string) int {
	if raw == "" {
		return defaultListLimit
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}
