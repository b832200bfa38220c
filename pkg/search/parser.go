// Package search filters dataset rows with a small query language:
//
//	alice                 any visible column contains "alice"
//	name:ali              name contains "ali" (case-insensitive)
//	name:=alice           name equals "alice"
//	age:>30 age:<50       compared with the field's comparator
//	state:!=done          not equal
//	"two words"           quoted values keep their spaces
//	a OR b, NOT a, a AND b
//
// Conditions without an operator between them are ANDed. Operators are
// applied left to right without precedence.
package search

import (
	"fmt"
	"regexp"
	"strings"
)

// Operator represents a search operator
type Operator string

const (
	OperatorContains    Operator = "contains"
	OperatorEquals      Operator = "="
	OperatorNotEquals   Operator = "!="
	OperatorGreaterThan Operator = ">"
	OperatorLessThan    Operator = "<"
	OperatorAND         Operator = "AND"
	OperatorOR          Operator = "OR"
	OperatorNOT         Operator = "NOT"
)

// Condition represents a single search condition
type Condition struct {
	Field    string // empty searches every visible column
	Operator Operator
	Value    string
	Negate   bool
}

// Query represents a parsed search query
type Query struct {
	Conditions []Condition
	Logic      []Operator // Logic operators between conditions
	Raw        string     // Original query string
}

// Parser handles parsing of search queries
type Parser struct {
	fieldPattern  *regexp.Regexp
	quotedPattern *regexp.Regexp
}

// NewParser creates a new search query parser
func NewParser() *Parser {
	return &Parser{
		fieldPattern:  regexp.MustCompile(`^([A-Za-z0-9_-]+):(.*)$`),
		quotedPattern: regexp.MustCompile(`^"([^"]*)"$`),
	}
}

// Parse parses a search query string into a Query object
func (p *Parser) Parse(input string) (*Query, error) {
	query := &Query{
		Raw:        input,
		Conditions: []Condition{},
		Logic:      []Operator{},
	}

	tokens, err := p.tokenize(input)
	if err != nil {
		return nil, err
	}

	if err := p.parseTokens(tokens, query); err != nil {
		return nil, err
	}

	return query, nil
}

// tokenize splits the input on spaces outside quotes
func (p *Parser) tokenize(input string) ([]string, error) {
	var tokens []string
	var current strings.Builder
	inQuotes := false

	for _, r := range input {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			current.WriteRune(r)
		case (r == ' ' || r == '\t') && !inQuotes:
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}
	if inQuotes {
		return nil, fmt.Errorf("unterminated quote in %q", input)
	}
	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}

	return tokens, nil
}

// parseTokens parses tokens into conditions
func (p *Parser) parseTokens(tokens []string, query *Query) error {
	// pending is the operator read since the last condition, if any
	var pending Operator
	negate := false

	for _, token := range tokens {
		switch Operator(strings.ToUpper(token)) {
		case OperatorAND, OperatorOR:
			if len(query.Conditions) == 0 {
				return fmt.Errorf("unexpected operator %s at beginning of query", token)
			}
			if pending != "" || negate {
				return fmt.Errorf("unexpected operator %s", token)
			}
			pending = Operator(strings.ToUpper(token))
			continue
		case OperatorNOT:
			negate = !negate
			continue
		}

		cond, err := p.parseCondition(token)
		if err != nil {
			return err
		}
		cond.Negate = negate
		negate = false

		if len(query.Conditions) > 0 {
			if pending == "" {
				pending = OperatorAND
			}
			query.Logic = append(query.Logic, pending)
		}
		pending = ""
		query.Conditions = append(query.Conditions, cond)
	}

	if pending != "" {
		return fmt.Errorf("%s operator requires a condition", pending)
	}
	if negate {
		return fmt.Errorf("NOT operator requires a condition")
	}

	return nil
}

// parseCondition parses a field:value token or a bare word
func (p *Parser) parseCondition(token string) (Condition, error) {
	matches := p.fieldPattern.FindStringSubmatch(token)
	if matches == nil {
		return Condition{Operator: OperatorContains, Value: p.unquote(token)}, nil
	}

	cond := Condition{Field: matches[1], Operator: OperatorContains}
	value := matches[2]
	for _, op := range []Operator{OperatorNotEquals, OperatorEquals, OperatorGreaterThan, OperatorLessThan} {
		if strings.HasPrefix(value, string(op)) {
			cond.Operator = op
			value = strings.TrimPrefix(value, string(op))
			break
		}
	}
	cond.Value = p.unquote(value)

	if cond.Value == "" {
		switch cond.Operator {
		case OperatorContains, OperatorGreaterThan, OperatorLessThan:
			return cond, fmt.Errorf("missing value for field %s", cond.Field)
		}
	}

	return cond, nil
}

// unquote removes quotes from a string if present
func (p *Parser) unquote(s string) string {
	if matches := p.quotedPattern.FindStringSubmatch(s); len(matches) == 2 {
		return matches[1]
	}
	return s
}
