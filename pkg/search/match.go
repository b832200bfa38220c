package search

import (
	"fmt"
	"math"
	"strings"

	"github.com/pluqqy/gridkit/pkg/dataset"
)

// Matcher is a query bound to the fields of a dataset.
type Matcher struct {
	d     *dataset.Dataset
	query *Query
	conds []compiled
}

type compiled struct {
	Condition
	fields []*dataset.Field
	lower  string // Value lowered, for contains
	want   []any  // Value converted per field, nil where it does not convert
}

// parsedValue drops values a converter could not parse
func parsedValue(v any) any {
	if n, ok := v.(float64); ok && math.IsNaN(n) {
		return nil
	}
	return v
}

// Compile resolves the field names of q against d. Bare words search
// every field that is not hidden.
func Compile(q *Query, d *dataset.Dataset) (*Matcher, error) {
	m := &Matcher{d: d, query: q}
	var all []*dataset.Field
	for _, f := range d.Fields() {
		if !f.Hidden {
			all = append(all, f)
		}
	}

	for _, c := range q.Conditions {
		cc := compiled{Condition: c, lower: strings.ToLower(c.Value)}
		if c.Field == "" {
			cc.fields = all
		} else {
			f := d.Field(c.Field)
			if f == nil {
				return nil, fmt.Errorf("%w: %q", dataset.ErrUnknownField, c.Field)
			}
			cc.fields = []*dataset.Field{f}
		}
		for _, f := range cc.fields {
			cc.want = append(cc.want, parsedValue(d.ConvertVal(f, c.Value)))
		}
		m.conds = append(m.conds, cc)
	}
	return m, nil
}

// Match reports whether r satisfies the query. An empty query matches
// every row.
func (m *Matcher) Match(r *dataset.Row) bool {
	if len(m.conds) == 0 {
		return true
	}
	result := m.eval(m.conds[0], r)
	for i := 1; i < len(m.conds); i++ {
		next := m.eval(m.conds[i], r)
		switch m.query.Logic[i-1] {
		case OperatorOR:
			result = result || next
		default:
			result = result && next
		}
	}
	return result
}

func (m *Matcher) eval(c compiled, r *dataset.Row) bool {
	hit := false
	for i, f := range c.fields {
		if m.test(c, f, c.want[i], r) {
			hit = true
			break
		}
	}
	return hit != c.Negate
}

func (m *Matcher) test(c compiled, f *dataset.Field, want any, r *dataset.Row) bool {
	v := m.d.Val(r, f)
	text := dataset.Format(v)

	switch c.Operator {
	case OperatorContains:
		return strings.Contains(strings.ToLower(text), c.lower)
	case OperatorEquals, OperatorNotEquals:
		var equal bool
		if c.Value == "" {
			equal = text == ""
		} else {
			equal = strings.EqualFold(text, c.Value) || (v != nil && want != nil && m.d.Comparator(f)(v, want) == 0)
		}
		return equal == (c.Operator == OperatorEquals)
	case OperatorGreaterThan:
		return v != nil && want != nil && m.d.Comparator(f)(v, want) > 0
	case OperatorLessThan:
		return v != nil && want != nil && m.d.Comparator(f)(v, want) < 0
	}
	return false
}

// Filter parses and compiles query for d. An empty query yields a nil
// filter.
func Filter(d *dataset.Dataset, query string) (func(*dataset.Row) bool, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	q, err := NewParser().Parse(query)
	if err != nil {
		return nil, fmt.Errorf("invalid filter: %w", err)
	}
	m, err := Compile(q, d)
	if err != nil {
		return nil, fmt.Errorf("invalid filter: %w", err)
	}
	return m.Match, nil
}
