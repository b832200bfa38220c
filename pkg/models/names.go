package models

import (
	"errors"
	"strings"
)

// Name-related errors
var (
	ErrEmptyName        = errors.New("name cannot be empty")
	ErrNameTooLong      = errors.New("name cannot exceed 64 characters")
	ErrInvalidCharacter = errors.New("name contains invalid characters")
	ErrDuplicateField   = errors.New("duplicate field name")
)

// NormalizeName normalizes a table name for use as a file name or key
func NormalizeName(name string) string {
	// Convert to lowercase and trim spaces
	normalized := strings.ToLower(strings.TrimSpace(name))

	// Replace spaces with underscores
	normalized = strings.ReplaceAll(normalized, " ", "_")

	var result strings.Builder
	for _, r := range normalized {
		if isNameRune(r) {
			result.WriteRune(r)
		}
	}

	return result.String()
}

// ValidateName checks if a table or field name is valid
func ValidateName(name string) error {
	if name == "" {
		return ErrEmptyName
	}

	if len(name) > 64 {
		return ErrNameTooLong
	}

	for _, r := range name {
		if !isNameRune(r) && !(r >= 'A' && r <= 'Z') {
			return ErrInvalidCharacter
		}
	}

	return nil
}

func isNameRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-'
}
