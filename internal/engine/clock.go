package engine

import "math"

// Clock numbers scheduler ticks and sums the simulated seconds they cover.
// It is owned by one Scheduler and, like it, is not safe for concurrent use.
type Clock struct {
	tick    int64
	elapsed float64
}

// NewClock returns a clock at tick 0.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt returns a clock whose next tick is start+1.
func NewClockAt(start int64) *Clock {
	return &Clock{tick: start}
}

// Current returns the last tick handed out.
func (c *Clock) Current() int64 {
	return c.tick
}

// Advance records a frame of dt seconds and returns its tick number.
// Only finite positive deltas add time; every call still takes a tick.
func (c *Clock) Advance(dt float64) int64 {
	if dt > 0 && !math.IsInf(dt, 1) {
		c.elapsed += dt
	}
	c.tick++
	return c.tick
}

// Elapsed returns the simulated seconds recorded so far.
func (c *Clock) Elapsed() float64 {
	return c.elapsed
}
