package models

import (
	"testing"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercase", "People", "people"},
		{"trim spaces", "  people  ", "people"},
		{"replace spaces", "order lines", "order_lines"},
		{"remove invalid chars", "people@home!", "peoplehome"},
		{"keep hyphens", "q3-sales", "q3-sales"},
		{"drop slashes", "a/b", "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NormalizeName(tt.input)
			if result != tt.expected {
				t.Errorf("NormalizeName(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		errType error
	}{
		{"valid simple", "people", nil},
		{"valid mixed case", "firstName", nil},
		{"valid with underscore", "order_lines", nil},
		{"empty string", "", ErrEmptyName},
		{"too long", "a_very_long_table_name_that_goes_on_and_on_well_past_the_sixty_four_limit", ErrNameTooLong},
		{"spaces", "order lines", ErrInvalidCharacter},
		{"path separator", "../etc", ErrInvalidCharacter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if err != tt.errType {
				t.Errorf("ValidateName(%q) error = %v, want %v", tt.input, err, tt.errType)
			}
		})
	}
}
