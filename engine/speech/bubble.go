// Package speech implements the speech bubble NPCs use for short on-screen
// chatter. A bubble shows one message for a fixed number of frames and runs
// hooks when a message starts and when it runs out.
package speech

import "github.com/nathoo/dirt/engine/hooks"

// DefaultTicks is how many frames a message stays up.
const DefaultTicks = 30

// Bubble is one NPC's speech bubble.
type Bubble struct {
	ticks int

	text      string
	remaining int
	closing   bool

	start hooks.List[func()]
	stop  hooks.List[func()]
}

// New creates a bubble whose messages last ticks frames. Non-positive
// values use DefaultTicks.
func New(ticks int) *Bubble {
	if ticks <= 0 {
		ticks = DefaultTicks
	}
	return &Bubble{ticks: ticks}
}

// Say shows text with a fresh timer and runs the start hooks.
func (b *Bubble) Say(text string) {
	b.text = text
	b.remaining = b.ticks
	b.start.Each(func(fn func()) { fn() })
}

// Farewell says text and marks the bubble as closing, so IsDone reports
// true once the message has run out.
func (b *Bubble) Farewell(text string) {
	b.Say(text)
	b.closing = true
}

// Tick counts the current message down. The stop hooks run on the tick that
// reaches zero. Hooks registered while they run wait for the next message.
func (b *Bubble) Tick() {
	if b.remaining <= 0 {
		return
	}
	b.remaining--
	if b.remaining == 0 {
		b.stop.Each(func(fn func()) { fn() })
	}
}

// IsDone reports whether a farewell has been said and has run out.
func (b *Bubble) IsDone() bool {
	return b.remaining == 0 && b.closing
}

// Visible reports whether a message is showing.
func (b *Bubble) Visible() bool { return b.remaining > 0 }

// Text returns the current message.
func (b *Bubble) Text() string { return b.text }

// Remaining returns the frames left on the current message.
func (b *Bubble) Remaining() int { return b.remaining }

// Closing reports whether Farewell has been called.
func (b *Bubble) Closing() bool { return b.closing }

// OnStart registers fn to run whenever a message starts.
func (b *Bubble) OnStart(fn func()) hooks.Handle { return b.start.Add(fn) }

// OnStop registers fn to run whenever a message runs out.
func (b *Bubble) OnStop(fn func()) hooks.Handle { return b.stop.Add(fn) }

// RemoveStart unregisters a start hook.
func (b *Bubble) RemoveStart(h hooks.Handle) bool { return b.start.Remove(h) }

// RemoveStop unregisters a stop hook.
func (b *Bubble) RemoveStop(h hooks.Handle) bool { return b.stop.Remove(h) }

// SayMultiple says lines one after another, each starting when the previous
// one runs out. It leaves the bubble's other stop hooks in place.
func SayMultiple(b *Bubble, lines ...string) {
	if len(lines) == 0 {
		return
	}
	var next func(i int)
	next = func(i int) {
		var h hooks.Handle
		h = b.OnStop(func() {
			b.RemoveStop(h)
			if i < len(lines)-1 {
				next(i + 1)
			}
			b.Say(lines[i])
		})
	}
	if len(lines) > 1 {
		next(1)
	}
	b.Say(lines[0])
}
