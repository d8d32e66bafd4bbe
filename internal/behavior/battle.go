package behavior

import (
	"github.com/roach88/necroqol/internal/campaign"
	"github.com/roach88/necroqol/internal/coerce"
	"github.com/roach88/necroqol/internal/economy"
)

// OnAgentRemoved feeds the kill tally and reports whether the removal
// counted as a player kill.
func (b *Behavior) OnAgentRemoved(victim, killer *campaign.Agent, state campaign.AgentState) (counted bool) {
	defer b.guard("agent-removed")
	return b.tally.OnAgentRemoved(victim, killer, state)
}

// OnMissionEnded snapshots the mission's player kills.
func (b *Behavior) OnMissionEnded() (kills int) {
	defer b.guard("mission-ended")
	kills = b.tally.OnMissionEnded()
	b.record(KindMissionEnded, map[string]any{"player_kills": kills, "mode": b.tally.Mode().String()})
	return kills
}

// OnEncounterEnded grants the battle gain of enc when the main party fought
// in it. The module's calculation is used when it yields a readable amount,
// the fallback economy otherwise; the kill bonus is added on top either way.
// It returns the granted amount and false when nothing was granted.
func (b *Behavior) OnEncounterEnded(enc *campaign.Encounter) (gain coerce.Amount, granted bool) {
	defer b.guard("encounter-ended")

	b.mu.Lock()
	host := b.host
	b.mu.Unlock()

	if !economy.PlayerInvolved(enc, host.MainParty) {
		b.logger.Debug("encounter without player party", "encounter", encounterID(enc))
		return coerce.Amount{}, false
	}

	casualties := economy.CountCasualties(enc)
	kills := b.tally.Consume()

	var base *coerce.Amount
	amt, err := b.bridge.BattleGain(enc, host.Player, host.MainParty)
	if err != nil {
		b.logFault("battle-gain", err)
	} else {
		base = &amt
	}
	gain = b.economy.Gain(base, casualties, kills)

	b.record(KindBattleGain, map[string]any{
		"encounter":    encounterID(enc),
		"casualties":   casualties,
		"player_kills": kills,
		"value":        gain.Value,
		"provenance":   string(gain.Provenance),
	})
	b.logger.Info("battle gain",
		"encounter", encounterID(enc),
		"casualties", casualties,
		"player_kills", kills,
		"gain", gain.String(),
	)

	if gain.Value <= 0 {
		return gain, false
	}
	b.grant("battle", gain)
	return gain, true
}

func encounterID(enc *campaign.Encounter) string {
	if enc == nil {
		return ""
	}
	return enc.ID
}
