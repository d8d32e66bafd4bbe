// Package killtally counts player-attributed kills during a mission.
package killtally

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/roach88/necroqol/internal/campaign"
)

// Mode selects which removal states count as kills.
type Mode int

const (
	// ModeHardKill counts killed agents only.
	ModeHardKill Mode = iota
	// ModeIncludeIncapacitated also counts unconscious agents.
	ModeIncludeIncapacitated
)

func (m Mode) String() string {
	switch m {
	case ModeHardKill:
		return "hard-kill"
	case ModeIncludeIncapacitated:
		return "include-incapacitated"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Counts reports whether an agent removed in state counts under m.
func (m Mode) Counts(state campaign.AgentState) bool {
	switch state {
	case campaign.AgentKilled:
		return true
	case campaign.AgentUnconscious:
		return m == ModeIncludeIncapacitated
	default:
		return false
	}
}

// Tally counts kills attributed to the player in the current mission and
// keeps the count of the last finished mission.
type Tally struct {
	mode   Mode
	logger *slog.Logger

	mu      sync.Mutex
	player  *campaign.Hero
	current int
	last    int
}

// Option configures a Tally.
type Option func(*Tally)

// WithMode sets the counting mode.
func WithMode(m Mode) Option {
	return func(t *Tally) {
		t.mode = m
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(t *Tally) {
		t.logger = l
	}
}

// New creates a tally for the player's hero.
func New(player *campaign.Hero, opts ...Option) *Tally {
	t := &Tally{player: player, logger: slog.Default()}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Mode returns the counting mode.
func (t *Tally) Mode() Mode {
	return t.mode
}

// SetPlayer replaces the player's hero, e.g. when a new session starts.
func (t *Tally) SetPlayer(h *campaign.Hero) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.player = h
}

// IsPlayerKill applies the attribution rule to one removal event:
// the victim is human, the state counts under the mode, the killer (its
// rider, for a mount) is player-controlled or is the player's hero, and the
// two teams are not allied.
func (t *Tally) IsPlayerKill(victim, killer *campaign.Agent, state campaign.AgentState) bool {
	t.mu.Lock()
	player := t.player
	t.mu.Unlock()
	return isPlayerKill(t.mode, player, victim, killer, state)
}

func isPlayerKill(mode Mode, player *campaign.Hero, victim, killer *campaign.Agent, state campaign.AgentState) bool {
	if victim == nil || killer == nil || !victim.Human || !mode.Counts(state) {
		return false
	}
	if killer.Mount && killer.Rider != nil {
		killer = killer.Rider
	}
	isPlayer := killer.PlayerControlled || (player != nil && killer.Hero == player)
	if !isPlayer {
		return false
	}
	// Unknown teams count; known allied teams are friendly fire.
	if victim.Team != nil && killer.Team != nil && !victim.Team.IsEnemyOf(killer.Team) {
		return false
	}
	return true
}

// OnAgentRemoved records a removal event and reports whether it counted.
func (t *Tally) OnAgentRemoved(victim, killer *campaign.Agent, state campaign.AgentState) bool {
	if !t.IsPlayerKill(victim, killer, state) {
		return false
	}
	t.mu.Lock()
	t.current++
	n := t.current
	t.mu.Unlock()
	t.logger.Debug("player kill", "state", state.String(), "total", n)
	return true
}

// Current returns the kills of the running mission.
func (t *Tally) Current() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// OnMissionEnded snapshots the running count as the last mission's kills and
// starts a new mission at zero.
func (t *Tally) OnMissionEnded() int {
	t.mu.Lock()
	t.last, t.current = t.current, 0
	n := t.last
	t.mu.Unlock()
	t.logger.Info("mission ended", "player_kills", n, "mode", t.mode.String())
	return n
}

// LastMissionKills returns the snapshot taken at the last mission end.
func (t *Tally) LastMissionKills() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.last
}

// Consume returns the last mission's kills and clears the snapshot so the
// same kills are not credited twice.
func (t *Tally) Consume() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := t.last
	t.last = 0
	return n
}
