package engine

import (
	"fmt"

	"github.com/nathoo/dirt/engine/state"
)

// Night runs from 19:00 until 6:00.
const (
	dawnMinute = 60 * 6
	duskMinute = 60 * 19
)

// Clock is the in-game time of day, in minutes since midnight.
type Clock struct {
	minute int
}

// NewClock creates a clock set to minute, wrapped into one day.
func NewClock(minute int) *Clock {
	c := &Clock{}
	c.Set(minute)
	return c
}

// Minute returns minutes since midnight.
func (c *Clock) Minute() int { return c.minute }

// Set moves the clock to minute, wrapped into one day.
func (c *Clock) Set(minute int) {
	c.minute = ((minute % state.MinutesPerDay) + state.MinutesPerDay) % state.MinutesPerDay
}

// Advance moves the clock forward one minute.
func (c *Clock) Advance() {
	c.Set(c.minute + 1)
}

// IsNight reports whether it is before dawn or after dusk.
func (c *Clock) IsNight() bool {
	return c.minute < dawnMinute || c.minute >= duskMinute
}

// String formats the time on a 12-hour clock, e.g. "5:00 AM".
func (c *Clock) String() string {
	hour := c.minute / 60
	indicator := "AM"
	if hour >= 12 {
		indicator = "PM"
		hour -= 12
	}
	if hour == 0 {
		hour = 12
	}
	return fmt.Sprintf("%d:%02d %s", hour, c.minute%60, indicator)
}
