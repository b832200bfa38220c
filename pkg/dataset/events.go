package dataset

// EventKind identifies a dataset change notification.
type EventKind int

const (
	ValueChanged EventKind = iota // a cell was committed
	RowAdded                      // a row was appended
	RowRemoved                    // a row was soft- or hard-deleted
	Reload                        // fields and/or rows were replaced in bulk
)

func (k EventKind) String() string {
	switch k {
	case ValueChanged:
		return "value_changed"
	case RowAdded:
		return "row_added"
	case RowRemoved:
		return "row_removed"
	case Reload:
		return "reload"
	}
	return "unknown"
}

// Event is delivered to subscribers synchronously, before the mutating
// call that produced it returns.
type Event struct {
	Kind  EventKind
	Row   *Row
	Field *Field
	Value any
}

type subscription struct {
	fn      func(Event)
	dropped bool
}

// Subscribe registers fn for all future events and returns a function
// that removes it again. Removing during delivery is allowed.
func (d *Dataset) Subscribe(fn func(Event)) (unsubscribe func()) {
	s := &subscription{fn: fn}
	d.subs = append(d.subs, s)
	return func() {
		if s.dropped {
			return
		}
		s.dropped = true
		for i, x := range d.subs {
			if x == s {
				d.subs = append(d.subs[:i:i], d.subs[i+1:]...)
				break
			}
		}
	}
}

func (d *Dataset) emit(e Event) {
	subs := make([]*subscription, len(d.subs))
	copy(subs, d.subs)
	for _, s := range subs {
		if !s.dropped {
			s.fn(e)
		}
	}
}
