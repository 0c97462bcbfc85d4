package utils

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// String length limits
const (
	MaxIDLength      = 128
	MaxTitleLength   = 256
	MaxURLLength     = 2048
	MaxNameLength    = 256
	MaxEmailLength   = 255
	MinNameLength    = 2
	MinPasswordChars = 8

	// MaxBodySize bounds form and JSON request bodies
	MaxBodySize = 1 * 1024 * 1024
)

// Regular expressions for validation
var (
	// SafeIDPattern allows alphanumeric, hyphens, underscores
	SafeIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	// EmailPattern requires a local part, dotted domain labels and a 2-4 character top-level label
	EmailPattern = regexp.MustCompile(`^[\w\-.]+@([\w-]+\.)+[\w-]{2,4}$`)
)

// ValidateString validates a string field with length and content checks
func ValidateString(value, fieldName string, minLen, maxLen int, required bool) error {
	if required && value == "" {
		return fmt.Errorf("%s is required", fieldName)
	}

	if value == "" && !required {
		return nil
	}

	length := utf8.RuneCountInString(value)
	if length < minLen {
		return fmt.Errorf("%s must be at least %d characters", fieldName, minLen)
	}
	if length > maxLen {
		return fmt.Errorf("%s must not exceed %d characters", fieldName, maxLen)
	}

	if strings.Contains(value, "\x00") {
		return fmt.Errorf("%s contains invalid characters", fieldName)
	}

	return nil
}

// ValidateID validates an ID field
func ValidateID(id, fieldName string, required bool) error {
	if err := ValidateString(id, fieldName, 1, MaxIDLength, required); err != nil {
		return err
	}

	if id != "" && !SafeIDPattern.MatchString(id) {
		return fmt.Errorf("%s contains invalid characters (only alphanumeric, hyphens, and underscores allowed)", fieldName)
	}

	return nil
}

// ParsePrice parses a price string into a finite, non-negative number
func ParsePrice(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("price is required")
	}

	price, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("price must be a number")
	}

	return price, ValidatePrice(price)
}

// ValidatePrice checks that a price is finite and non-negative
func ValidatePrice(price float64) error {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return fmt.Errorf("price must be a number")
	}
	if price < 0 {
		return fmt.Errorf("price must not be negative")
	}
	return nil
}

// ValidateEmail reports whether email matches EmailPattern
func ValidateEmail(email string) error {
	if len(email) > MaxEmailLength || !EmailPattern.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}
