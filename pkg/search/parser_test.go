package search

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	parser := NewParser()

	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "simple tokens",
			input:    "name:bob age:>30",
			expected: []string{"name:bob", "age:>30"},
		},
		{
			name:     "quoted value",
			input:    `name:"bob smith" city:oslo`,
			expected: []string{`name:"bob smith"`, "city:oslo"},
		},
		{
			name:     "logical operators",
			input:    "name:bob AND age:>30 OR city:oslo",
			expected: []string{"name:bob", "AND", "age:>30", "OR", "city:oslo"},
		},
		{
			name:     "extra whitespace",
			input:    "  bob \t alice  ",
			expected: []string{"bob", "alice"},
		},
		{
			name:     "empty",
			input:    "",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := parser.tokenize(tt.input)
			if err != nil {
				t.Fatalf("tokenize() error = %v", err)
			}
			if !reflect.DeepEqual(tokens, tt.expected) {
				t.Errorf("tokenize() = %q, want %q", tokens, tt.expected)
			}
		})
	}
}

func TestParse(t *testing.T) {
	parser := NewParser()

	tests := []struct {
		name        string
		input       string
		expectError bool
		conditions  []Condition
		logic       []Operator
	}{
		{
			name:       "bare word",
			input:      "bob",
			conditions: []Condition{{Operator: OperatorContains, Value: "bob"}},
			logic:      []Operator{},
		},
		{
			name:       "field contains",
			input:      "name:bo",
			conditions: []Condition{{Field: "name", Operator: OperatorContains, Value: "bo"}},
			logic:      []Operator{},
		},
		{
			name:  "comparison operators",
			input: "age:>30 age:<50 name:=bob state:!=done",
			conditions: []Condition{
				{Field: "age", Operator: OperatorGreaterThan, Value: "30"},
				{Field: "age", Operator: OperatorLessThan, Value: "50"},
				{Field: "name", Operator: OperatorEquals, Value: "bob"},
				{Field: "state", Operator: OperatorNotEquals, Value: "done"},
			},
			logic: []Operator{OperatorAND, OperatorAND, OperatorAND},
		},
		{
			name:  "explicit logic",
			input: "name:bob or NOT name:alice",
			conditions: []Condition{
				{Field: "name", Operator: OperatorContains, Value: "bob"},
				{Field: "name", Operator: OperatorContains, Value: "alice", Negate: true},
			},
			logic: []Operator{OperatorOR},
		},
		{
			name:       "quoted bare word",
			input:      `"bob smith"`,
			conditions: []Condition{{Operator: OperatorContains, Value: "bob smith"}},
			logic:      []Operator{},
		},
		{
			name:       "equals empty",
			input:      "name:=",
			conditions: []Condition{{Field: "name", Operator: OperatorEquals}},
			logic:      []Operator{},
		},
		{
			name:        "leading operator",
			input:       "AND name:bob",
			expectError: true,
		},
		{
			name:        "trailing operator",
			input:       "name:bob OR",
			expectError: true,
		},
		{
			name:        "dangling NOT",
			input:       "name:bob NOT",
			expectError: true,
		},
		{
			name:        "missing value",
			input:       "age:>",
			expectError: true,
		},
		{
			name:        "unterminated quote",
			input:       `name:"bob`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, err := parser.Parse(tt.input)

			if tt.expectError {
				if err == nil {
					t.Error("Expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if !reflect.DeepEqual(query.Conditions, tt.conditions) {
				t.Errorf("Conditions = %+v, want %+v", query.Conditions, tt.conditions)
			}
			if !reflect.DeepEqual(query.Logic, tt.logic) {
				t.Errorf("Logic = %v, want %v", query.Logic, tt.logic)
			}
			if query.Raw != tt.input {
				t.Errorf("Raw = %q, want %q", query.Raw, tt.input)
			}
		})
	}
}
