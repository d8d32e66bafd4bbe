package engine

import (
	"log/slog"
	"sync"
)

// PollFunc is polled once per tick until it returns true.
type PollFunc func(tick int64) bool

// PollerState is the lifecycle state of a poller. It only moves away from
// PollerUnresolved, never back.
type PollerState int

const (
	PollerUnresolved PollerState = iota
	PollerResolved
	PollerAbandoned
)

func (s PollerState) String() string {
	switch s {
	case PollerResolved:
		return "resolved"
	case PollerAbandoned:
		return "abandoned"
	default:
		return "unresolved"
	}
}

type poller struct {
	name  string
	fn    PollFunc
	state PollerState
	polls int
}

// Scheduler polls registered pollers on every tick.
//
// Pollers are polled in registration order. A poller registered during a
// tick is first polled on the next tick.
type Scheduler struct {
	clock  *Clock
	logger *slog.Logger
	limit  int

	mu      sync.Mutex
	pollers []*poller
	byName  map[string]*poller
	faults  []error
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithClock sets the clock, e.g. to resume from a known tick.
func WithClock(c *Clock) SchedulerOption {
	return func(s *Scheduler) {
		s.clock = c
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) SchedulerOption {
	return func(s *Scheduler) {
		s.logger = l
	}
}

// WithPollLimit abandons pollers after limit polls. Zero means unlimited.
func WithPollLimit(limit int) SchedulerOption {
	return func(s *Scheduler) {
		s.limit = limit
	}
}

// NewScheduler creates an empty scheduler.
func NewScheduler(opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		clock:  NewClock(),
		logger: slog.Default(),
		byName: make(map[string]*poller),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Clock returns the scheduler's clock.
func (s *Scheduler) Clock() *Clock {
	return s.clock
}

// Register adds a poller. Names are unique for the scheduler's lifetime,
// including resolved pollers.
func (s *Scheduler) Register(name string, fn PollFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byName[name]; ok {
		return NewDuplicatePollerError(name)
	}
	p := &poller{name: name, fn: fn}
	s.pollers = append(s.pollers, p)
	s.byName[name] = p
	return nil
}

// Tick advances the clock by dt seconds and polls every unresolved poller
// once. It returns the number of pollers still unresolved.
func (s *Scheduler) Tick(dt float64) int {
	tick := s.clock.Advance(dt)

	s.mu.Lock()
	due := make([]*poller, 0, len(s.pollers))
	for _, p := range s.pollers {
		if p.state == PollerUnresolved {
			due = append(due, p)
		}
	}
	s.mu.Unlock()

	for _, p := range due {
		done := s.poll(p, tick)

		s.mu.Lock()
		p.polls++
		switch {
		case done:
			p.state = PollerResolved
			s.logger.Debug("poller resolved", "poller", p.name, "tick", tick, "polls", p.polls)
		case s.limit > 0 && p.polls >= s.limit:
			p.state = PollerAbandoned
			err := &QuotaExceededError{Poller: p.name, Polls: p.polls, Limit: s.limit}
			s.faults = append(s.faults, err)
			s.logger.Warn("poller abandoned", "poller", p.name, "error", err)
		}
		s.mu.Unlock()
	}
	return s.Pending()
}

func (s *Scheduler) poll(p *poller, tick int64) (done bool) {
	defer func() {
		if r := recover(); r != nil {
			err := NewPollerFaultError(p.name, r)
			s.mu.Lock()
			s.faults = append(s.faults, err)
			s.mu.Unlock()
			s.logger.Warn("poller faulted", "poller", p.name, "error", err)
			done = false
		}
	}()
	return p.fn(tick)
}

// Pending returns the number of unresolved pollers.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, p := range s.pollers {
		if p.state == PollerUnresolved {
			n++
		}
	}
	return n
}

// State returns a poller's state and poll count.
func (s *Scheduler) State(name string) (PollerState, int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byName[name]
	if !ok {
		return PollerUnresolved, 0, false
	}
	return p.state, p.polls, true
}

// Faults returns poller panics and quota abandonments in order.
func (s *Scheduler) Faults() []error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]error(nil), s.faults...)
}
