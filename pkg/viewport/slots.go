package viewport

// Slots is a pool of renderable row slots. A row is always bound to slot
// row % len, so sliding the window by n rows rebinds at most n slots and
// never allocates once the pool has reached the window size.
type Slots[T any] struct {
	slots   []*T
	rows    []int // row bound to each slot, -1 when unbound
	newSlot func() *T
}

// NewSlots creates an empty pool that allocates slots with newSlot.
func NewSlots[T any](newSlot func() *T) *Slots[T] {
	return &Slots[T]{newSlot: newSlot}
}

// Len returns the pool size.
func (s *Slots[T]) Len() int { return len(s.slots) }

// Reserve grows the pool to at least n slots. Growing keeps the existing
// slots but forgets every binding; the pool never shrinks.
func (s *Slots[T]) Reserve(n int) {
	if n <= len(s.slots) {
		return
	}
	for len(s.slots) < n {
		s.slots = append(s.slots, s.newSlot())
	}
	s.rows = make([]int, n)
	s.Unbind()
}

// Bind makes rows [first, first+count) materialized, calling bind only for
// slots whose row changed. Slots holding rows outside the range are
// released. It returns the rows that were (re)bound.
func (s *Slots[T]) Bind(first, count int, bind func(slot *T, row int)) []int {
	s.Reserve(count)
	n := len(s.slots)
	if n == 0 {
		return nil
	}
	for i, r := range s.rows {
		if r >= 0 && (r < first || r >= first+count) {
			s.rows[i] = -1
		}
	}
	var rebound []int
	for r := first; r < first+count; r++ {
		i := r % n
		if s.rows[i] == r {
			continue
		}
		s.rows[i] = r
		bind(s.slots[i], r)
		rebound = append(rebound, r)
	}
	return rebound
}

// Slot returns the slot bound to row, if any.
func (s *Slots[T]) Slot(row int) (*T, bool) {
	if len(s.slots) == 0 || row < 0 {
		return nil, false
	}
	i := row % len(s.slots)
	if s.rows[i] != row {
		return nil, false
	}
	return s.slots[i], true
}

// Each calls fn for every bound slot in ascending row order.
func (s *Slots[T]) Each(fn func(slot *T, row int)) {
	if len(s.slots) == 0 {
		return
	}
	lo := -1
	for _, r := range s.rows {
		if r >= 0 && (lo < 0 || r < lo) {
			lo = r
		}
	}
	if lo < 0 {
		return
	}
	for r := lo; r < lo+len(s.slots); r++ {
		if slot, ok := s.Slot(r); ok {
			fn(slot, r)
		}
	}
}

// Unbind forgets every binding so the next Bind rebinds all slots.
func (s *Slots[T]) Unbind() {
	for i := range s.rows {
		s.rows[i] = -1
	}
}

// Release unbinds a single row, e.g. one that left the dataset.
func (s *Slots[T]) Release(row int) {
	if _, ok := s.Slot(row); ok {
		s.rows[row%len(s.slots)] = -1
	}
}
