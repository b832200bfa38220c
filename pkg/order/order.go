// Package order holds the grid's multi-column sort: the order
// specification, its text form, and a stable sort over dataset rows.
package order

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pluqqy/gridkit/pkg/dataset"
)

// Direction of a sort key.
type Direction int

const (
	Asc Direction = iota
	Desc
)

func (d Direction) String() string {
	if d == Desc {
		return "desc"
	}
	return "asc"
}

// Flip returns the opposite direction.
func (d Direction) Flip() Direction {
	if d == Asc {
		return Desc
	}
	return Asc
}

// ParseDirection accepts "asc" or "desc" in any case.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(s) {
	case "asc":
		return Asc, nil
	case "desc":
		return Desc, nil
	}
	return Asc, fmt.Errorf("invalid sort direction %q (must be: asc or desc)", s)
}

// Key is one (field, direction) pair of a Spec.
type Key struct {
	Field *dataset.Field
	Dir   Direction
}

// Spec is an ordered list of sort keys with unique fields. The empty
// Spec means the dataset's natural row order.
type Spec []Key

// Dir returns the direction f is sorted in, if it is part of the spec.
func (s Spec) Dir(f *dataset.Field) (Direction, bool) {
	for _, k := range s {
		if k.Field == f {
			return k.Dir, true
		}
	}
	return Asc, false
}

// Has reports whether f is one of the sort keys.
func (s Spec) Has(f *dataset.Field) bool {
	_, ok := s.Dir(f)
	return ok
}

// Toggle flips f between ascending and descending, starting ascending.
// Without keepOthers every other key is dropped; with it, f keeps its
// position or is appended, which is how compound sorts are built.
func (s Spec) Toggle(f *dataset.Field, keepOthers bool) Spec {
	dir := Asc
	if cur, ok := s.Dir(f); ok {
		dir = cur.Flip()
	}
	if !keepOthers {
		return Spec{{Field: f, Dir: dir}}
	}
	out := make(Spec, 0, len(s)+1)
	found := false
	for _, k := range s {
		if k.Field == f {
			k.Dir = dir
			found = true
		}
		out = append(out, k)
	}
	if !found {
		out = append(out, Key{Field: f, Dir: dir})
	}
	return out
}

// Without returns the spec with f removed.
func (s Spec) Without(f *dataset.Field) Spec {
	out := make(Spec, 0, len(s))
	for _, k := range s {
		if k.Field != f {
			out = append(out, k)
		}
	}
	return out
}

// String formats the spec as "name, other:desc". Parse reads it back.
func (s Spec) String() string {
	parts := make([]string, len(s))
	for i, k := range s {
		parts[i] = k.Field.Name
		if k.Dir == Desc {
			parts[i] += ":desc"
		}
	}
	return strings.Join(parts, ", ")
}

// Parse reads an order specification: comma and/or space separated
// "name[:asc|:desc]" tokens. A bare "asc" or "desc" token right after a
// name applies to that name, so "name desc, other" is accepted too.
// Repeating a field keeps its first position and the last direction.
func Parse(s string, lookup func(name string) *dataset.Field) (Spec, error) {
	var spec Spec
	for _, segment := range strings.Split(s, ",") {
		last := -1 // index in spec of a key that may still take a bare direction
		for _, tok := range strings.Fields(segment) {
			if last >= 0 && lookup(tok) == nil {
				if dir, err := ParseDirection(tok); err == nil {
					spec[last].Dir = dir
					last = -1
					continue
				}
			}
			name, dirText, hasDir := strings.Cut(tok, ":")
			f := lookup(name)
			if f == nil {
				return nil, fmt.Errorf("%w: %q", dataset.ErrUnknownField, name)
			}
			dir := Asc
			if hasDir {
				d, err := ParseDirection(dirText)
				if err != nil {
					return nil, err
				}
				dir = d
			}
			spec, last = spec.set(f, dir)
			if hasDir {
				last = -1
			}
		}
	}
	return spec, nil
}

func (s Spec) set(f *dataset.Field, dir Direction) (Spec, int) {
	for i := range s {
		if s[i].Field == f {
			s[i].Dir = dir
			return s, i
		}
	}
	return append(s, Key{Field: f, Dir: dir}), len(s)
}

// Source supplies values and comparators; *dataset.Dataset implements it.
type Source interface {
	Val(r *dataset.Row, f *dataset.Field) any
	Comparator(f *dataset.Field) dataset.CompareFunc
}

// Flags exposes the per-row edit state used for tie-breaks.
type Flags interface {
	Invalid(r *dataset.Row) bool
	Modified(r *dataset.Row) bool
}

// Compare builds the comparison chain for spec: invalid rows first,
// then modified rows, then each key in order.
func Compare(spec Spec, src Source, flags Flags) func(a, b *dataset.Row) int {
	type step struct {
		f    *dataset.Field
		cmp  dataset.CompareFunc
		sign int
	}
	steps := make([]step, len(spec))
	for i, k := range spec {
		sign := 1
		if k.Dir == Desc {
			sign = -1
		}
		steps[i] = step{f: k.Field, cmp: src.Comparator(k.Field), sign: sign}
	}
	return func(a, b *dataset.Row) int {
		if flags != nil {
			if r := firstTrue(flags.Invalid(a), flags.Invalid(b)); r != 0 {
				return r
			}
			if r := firstTrue(flags.Modified(a), flags.Modified(b)); r != 0 {
				return r
			}
		}
		for _, s := range steps {
			if r := s.cmp(src.Val(a, s.f), src.Val(b, s.f)); r != 0 {
				return r * s.sign
			}
		}
		return 0
	}
}

func firstTrue(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return -1
	}
	return 1
}

// Sort returns rows ordered by spec. The input slice is not modified and
// rows that compare equal keep their relative order. An empty spec
// returns the rows in their original order.
func Sort(rows []*dataset.Row, spec Spec, src Source, flags Flags) []*dataset.Row {
	out := make([]*dataset.Row, len(rows))
	copy(out, rows)
	if len(spec) == 0 {
		return out
	}
	cmp := Compare(spec, src, flags)
	sort.SliceStable(out, func(i, j int) bool {
		return cmp(out[i], out[j]) < 0
	})
	return out
}
