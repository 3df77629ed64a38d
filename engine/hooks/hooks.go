// Package hooks implements ordered callback lists that tolerate mutation
// while they are being run.
//
// A pass visits the hooks registered when it began, in order. A hook added
// during the pass waits for the next pass. A hook removed during the pass
// is skipped if its turn has not come yet, so removing a hook always stops
// it from running again.
package hooks

// Handle identifies a registered hook so it can be removed later.
type Handle uint64

type entry[F any] struct {
	handle Handle
	fn     F
}

// List is an ordered list of hooks of type F. The zero value is ready to use.
type List[F any] struct {
	entries []entry[F]
	next    Handle
}

// Add appends fn and returns its handle.
func (l *List[F]) Add(fn F) Handle {
	l.next++
	l.entries = append(l.entries, entry[F]{handle: l.next, fn: fn})
	return l.next
}

// Prepend inserts fn before every registered hook and returns its handle.
func (l *List[F]) Prepend(fn F) Handle {
	l.next++
	l.entries = append([]entry[F]{{handle: l.next, fn: fn}}, l.entries...)
	return l.next
}

// Remove unregisters the hook with handle h. Returns false if it was not
// registered.
func (l *List[F]) Remove(h Handle) bool {
	for i, e := range l.entries {
		if e.handle == h {
			l.entries = append(l.entries[:i:i], l.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of registered hooks.
func (l *List[F]) Len() int {
	return len(l.entries)
}

// Each calls visit for every hook registered when Each was called, in
// registration order. Hooks added during the pass are not visited until the
// next pass. Hooks removed during the pass are skipped if not yet visited.
func (l *List[F]) Each(visit func(F)) {
	snapshot := make([]entry[F], len(l.entries))
	copy(snapshot, l.entries)
	for _, e := range snapshot {
		if !l.has(e.handle) {
			continue
		}
		visit(e.fn)
	}
}

func (l *List[F]) has(h Handle) bool {
	for _, e := range l.entries {
		if e.handle == h {
			return true
		}
	}
	return false
}
