package killtally

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/necroqol/internal/campaign"
)

var (
	attackers = &campaign.Team{Side: "attacker"}
	defenders = &campaign.Team{Side: "defender"}
)

func newTally(player *campaign.Hero, opts ...Option) *Tally {
	opts = append(opts, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	return New(player, opts...)
}

func TestIsPlayerKill(t *testing.T) {
	player := &campaign.Hero{StringID: "main_hero"}
	rider := &campaign.Agent{Index: 1, Human: true, Hero: player, Team: attackers}
	horse := &campaign.Agent{Index: 2, Mount: true, Rider: rider, Team: attackers}
	enemy := &campaign.Agent{Index: 3, Human: true, Team: defenders}
	ally := &campaign.Agent{Index: 4, Human: true, Team: attackers}
	controlled := &campaign.Agent{Index: 5, Human: true, PlayerControlled: true, Team: attackers}
	stranger := &campaign.Agent{Index: 6, Human: true, Hero: &campaign.Hero{StringID: "main_hero"}, Team: attackers}
	enemyHorse := &campaign.Agent{Index: 7, Mount: true, Team: defenders}
	riderless := &campaign.Agent{Index: 8, Mount: true, Team: attackers}
	unknownTeam := &campaign.Agent{Index: 9, Human: true}

	tests := []struct {
		name   string
		victim *campaign.Agent
		killer *campaign.Agent
		state  campaign.AgentState
		want   bool
	}{
		{"mount trample credits the rider", enemy, horse, campaign.AgentKilled, true},
		{"same side is friendly fire", ally, horse, campaign.AgentKilled, false},
		{"player-controlled agent", enemy, controlled, campaign.AgentKilled, true},
		{"player hero identity", enemy, rider, campaign.AgentKilled, true},
		{"hero identity is by pointer", enemy, stranger, campaign.AgentKilled, false},
		{"victim must be human", enemyHorse, rider, campaign.AgentKilled, false},
		{"unconscious is not a hard kill", enemy, rider, campaign.AgentUnconscious, false},
		{"routed never counts", enemy, rider, campaign.AgentRouted, false},
		{"riderless mount", enemy, riderless, campaign.AgentKilled, false},
		{"no killer", enemy, nil, campaign.AgentKilled, false},
		{"no victim", nil, rider, campaign.AgentKilled, false},
		{"unknown team counts", unknownTeam, rider, campaign.AgentKilled, true},
	}
	tally := newTally(player)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tally.IsPlayerKill(tt.victim, tt.killer, tt.state))
		})
	}
}

func TestModeIncludeIncapacitated(t *testing.T) {
	player := &campaign.Hero{StringID: "main_hero"}
	killer := &campaign.Agent{Human: true, Hero: player, Team: attackers}
	victim := &campaign.Agent{Human: true, Team: defenders}

	tally := newTally(player, WithMode(ModeIncludeIncapacitated))
	assert.True(t, tally.IsPlayerKill(victim, killer, campaign.AgentUnconscious))
	assert.True(t, tally.IsPlayerKill(victim, killer, campaign.AgentKilled))
	assert.False(t, tally.IsPlayerKill(victim, killer, campaign.AgentRouted))
	assert.Equal(t, "include-incapacitated", tally.Mode().String())
}

func TestTally_MissionLifecycle(t *testing.T) {
	player := &campaign.Hero{StringID: "main_hero"}
	killer := &campaign.Agent{Human: true, PlayerControlled: true, Team: attackers}
	victim := &campaign.Agent{Human: true, Team: defenders}
	tally := newTally(player)

	assert.True(t, tally.OnAgentRemoved(victim, killer, campaign.AgentKilled))
	assert.True(t, tally.OnAgentRemoved(victim, killer, campaign.AgentKilled))
	assert.False(t, tally.OnAgentRemoved(victim, killer, campaign.AgentUnconscious))
	assert.Equal(t, 2, tally.Current())
	assert.Equal(t, 0, tally.LastMissionKills())

	assert.Equal(t, 2, tally.OnMissionEnded())
	assert.Equal(t, 0, tally.Current())
	assert.Equal(t, 2, tally.LastMissionKills())

	assert.Equal(t, 2, tally.Consume())
	assert.Equal(t, 0, tally.Consume())
}

func TestTally_SetPlayer(t *testing.T) {
	first := &campaign.Hero{StringID: "a"}
	second := &campaign.Hero{StringID: "b"}
	victim := &campaign.Agent{Human: true, Team: defenders}
	killer := &campaign.Agent{Human: true, Hero: second, Team: attackers}

	tally := newTally(first)
	assert.False(t, tally.IsPlayerKill(victim, killer, campaign.AgentKilled))
	tally.SetPlayer(second)
	assert.True(t, tally.IsPlayerKill(victim, killer, campaign.AgentKilled))
}
