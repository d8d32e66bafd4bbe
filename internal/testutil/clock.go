package testutil

import "sync"

// StepClock numbers the steps of a scenario run, starting at 1.
//
// Unlike engine.Clock it can be reset, so running the same scenario twice
// yields identical step numbers.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type StepClock struct {
	mu   sync.Mutex
	step int
}

// NewStepClock creates a clock before its first step.
func NewStepClock() *StepClock {
	return &StepClock{}
}

// Step advances to and returns the next step number.
func (c *StepClock) Step() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.step++
	return c.step
}

// Current returns the last step number, 0 before the first step.
func (c *StepClock) Current() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step
}

// Reset returns the clock to before its first step.
func (c *StepClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.step = 0
}
