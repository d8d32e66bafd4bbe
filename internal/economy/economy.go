package economy

import (
	"github.com/roach88/necroqol/internal/campaign"
	"github.com/roach88/necroqol/internal/coerce"
)

// Defaults for Engine.
const (
	DefaultCasualtyRate = 1.0
	DefaultKillBonus    = 5.0
)

// Engine computes fallback gains.
type Engine struct {
	// CasualtyRate is the gain per casualty on either side.
	CasualtyRate float64
	// KillBonus is the gain per player-attributed kill.
	KillBonus float64
	// Subject labels produced amounts.
	Subject string
}

// NewEngine returns an engine with the default rates.
func NewEngine() *Engine {
	return &Engine{CasualtyRate: DefaultCasualtyRate, KillBonus: DefaultKillBonus, Subject: "dark-energy"}
}

// FallbackGain is casualties times the casualty rate plus playerKills times
// the kill bonus. Negative inputs count as zero.
func (e *Engine) FallbackGain(casualties, playerKills int) coerce.Amount {
	base := float64(max(casualties, 0)) * e.CasualtyRate
	return coerce.NewAmount(base, e.Subject, coerce.ProvenanceFallback).Add(e.Bonus(playerKills))
}

// Bonus is the kill bonus for playerKills.
func (e *Engine) Bonus(playerKills int) float64 {
	return float64(max(playerKills, 0)) * e.KillBonus
}

// Gain adds the kill bonus to the bridge amount, or to the fallback baseline
// when the bridge produced nothing.
func (e *Engine) Gain(bridge *coerce.Amount, casualties, playerKills int) coerce.Amount {
	if bridge == nil {
		return e.FallbackGain(casualties, playerKills)
	}
	return bridge.Add(e.Bonus(playerKills))
}

// CountCasualties counts the killed units of both sides. Each side's total
// is clamped at zero.
func CountCasualties(enc *campaign.Encounter) int {
	if enc == nil {
		return 0
	}
	total := 0
	for _, side := range enc.Sides() {
		n := 0
		for _, c := range side.Casualties {
			n += c.Killed
		}
		total += max(n, 0)
	}
	return total
}

// PlayerInvolved reports whether party fought on either side.
func PlayerInvolved(enc *campaign.Encounter, party *campaign.Party) bool {
	if enc == nil || party == nil {
		return false
	}
	for _, side := range enc.Sides() {
		for _, p := range side.Parties {
			if p == party {
				return true
			}
		}
	}
	return false
}
