// Package timer provides frame-counted delayed callbacks.
package timer

// Timer counts frames up to a target and then runs its callback.
type Timer struct {
	frames   int
	target   int
	callback func()
}

// New creates a timer that is done after frames calls to Advance.
func New(frames int, callback func()) *Timer {
	return &Timer{target: frames, callback: callback}
}

// Advance counts one frame.
func (t *Timer) Advance() {
	t.frames++
}

// IsDone reports whether the timer has counted its frames.
func (t *Timer) IsDone() bool {
	return t.frames >= t.target
}

// Elapsed returns the frames counted so far.
func (t *Timer) Elapsed() int {
	return t.frames
}

// Fire runs the callback, if there is one.
func (t *Timer) Fire() {
	if t.callback != nil {
		t.callback()
	}
}

// Queue holds pending timers and advances them together once per frame.
// The zero value is ready to use.
type Queue struct {
	timers []*Timer
	due    []*Timer // done this frame, not yet fired
}

// After schedules callback to run once frames frames have been advanced.
func (q *Queue) After(frames int, callback func()) *Timer {
	t := New(frames, callback)
	q.Add(t)
	return t
}

// Add schedules t.
func (q *Queue) Add(t *Timer) {
	q.timers = append(q.timers, t)
}

// Cancel removes t without firing it. A timer that is due this frame can
// still be cancelled by an earlier callback. Returns false if t was not
// pending.
func (q *Queue) Cancel(t *Timer) bool {
	var ok bool
	if q.timers, ok = remove(q.timers, t); ok {
		return true
	}
	q.due, ok = remove(q.due, t)
	return ok
}

func remove(timers []*Timer, t *Timer) ([]*Timer, bool) {
	for i, p := range timers {
		if p == t {
			return append(timers[:i:i], timers[i+1:]...), true
		}
	}
	return timers, false
}

// Len returns the number of pending timers.
func (q *Queue) Len() int {
	return len(q.timers) + len(q.due)
}

// Advance counts one frame on every pending timer, then fires and removes
// the ones that are done, in the order they were scheduled. A callback that
// cancels a timer due in the same frame stops it from firing. Timers
// scheduled by a callback start counting on the next Advance.
func (q *Queue) Advance() {
	current := q.timers
	q.timers = nil
	for _, t := range current {
		t.Advance()
		if t.IsDone() {
			q.due = append(q.due, t)
		} else {
			q.timers = append(q.timers, t)
		}
	}
	for len(q.due) > 0 {
		t := q.due[0]
		q.due = q.due[1:]
		t.Fire()
	}
}
