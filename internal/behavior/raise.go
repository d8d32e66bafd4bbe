package behavior

import (
	"fmt"
	"strconv"

	"github.com/roach88/necroqol/internal/campaign"
	"github.com/roach88/necroqol/internal/coerce"
	"github.com/roach88/necroqol/internal/patch"
	"github.com/roach88/necroqol/internal/roster"
	"github.com/roach88/necroqol/internal/ui"
)

// interceptor snapshots the party before the module's raise callback runs
// and pulls the raised units back out afterwards, so the player decides
// which of them to keep.
func (b *Behavior) interceptor() patch.Interceptor {
	return patch.Funcs{
		ObserveFn: func(args any) any {
			return roster.Snapshot(b.partyOf(args))
		},
		InterceptFn: func(args any, observation any) {
			before, ok := observation.(roster.Roster)
			if !ok {
				return
			}
			party := b.partyOf(args)
			raised := roster.Diff(before, roster.Snapshot(party))
			if raised.Empty() {
				b.logger.Debug("raise callback added no units")
				return
			}
			b.offer(party, roster.Remove(party, raised), "menu")
		},
	}
}

func (b *Behavior) partyOf(args any) *campaign.Party {
	if p, ok := args.(*campaign.Party); ok && p != nil {
		return p
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.host.MainParty
}

// RaiseAtSettlement raises the dead at the main party's current graveyard
// through the module's raise-dead model, starts the graveyard cooldown and
// opens the keep/sacrifice dialog. It reports whether a dialog was opened.
func (b *Behavior) RaiseAtSettlement() (opened bool) {
	defer b.guard("raise")

	b.mu.Lock()
	host := b.host
	b.mu.Unlock()

	party := host.MainParty
	if party == nil || party.CurrentSettlement == nil || !party.CurrentSettlement.IsGraveyard {
		b.presenter.Toast("No graveyard here.")
		return false
	}
	settlement := party.CurrentSettlement

	units, err := b.bridge.RaiseUnits(settlement, host.Player, party)
	if err != nil {
		b.logFault("raise-units", err)
		return false
	}
	if units.Empty() {
		b.presenter.Toast("The dead do not answer.")
		return false
	}
	if err := b.bridge.StartCooldown(settlement); err != nil {
		b.logFault("raise-cooldown", err)
	}
	b.offer(party, units, "graveyard")
	return true
}

// offer asks the player which candidate units to keep.
func (b *Behavior) offer(party *campaign.Party, candidate roster.Roster, source string) {
	capacity := roster.PartyCapacity(party)
	b.record(KindRaise, map[string]any{
		"source":   source,
		"units":    candidate.String(),
		"capacity": capacity.String(),
	})

	entries := make([]ui.Entry, len(candidate))
	for i, e := range candidate {
		entries[i] = ui.Entry{
			ID:      strconv.Itoa(i),
			Label:   fmt.Sprintf("%s x%d", e.Kind, e.Count),
			Enabled: e.Valid(),
		}
	}

	done := false
	settle := func(res roster.Result) {
		if done {
			return
		}
		done = true
		b.settle(party, res)
	}
	b.presenter.ShowMultiSelect(ui.MultiSelectRequest{
		Title:       "Raise the dead",
		Description: fmt.Sprintf("Choose the units to keep (room for %s). The rest are sacrificed for dark energy.", capacity),
		Entries:     entries,
		Min:         0,
		Max:         len(entries),
		OnAccept: func(selected []string) {
			settle(roster.Commit(candidate, roster.PartyCapacity(party), indices(selected)))
		},
		OnReject: func() {
			settle(roster.RejectAll(candidate))
		},
	})
}

// settle applies a commit: kept units join the party, discarded units are
// converted into dark energy.
func (b *Behavior) settle(party *campaign.Party, res roster.Result) {
	defer b.guard("commit")

	roster.Merge(party, res.Kept)
	gain := b.sacrificeGain(party, res.Discarded)

	b.record(KindCommit, map[string]any{
		"kept":       res.Kept.String(),
		"discarded":  res.Discarded.String(),
		"trimmed":    res.Trimmed,
		"value":      gain.Value,
		"provenance": string(gain.Provenance),
	})
	b.logger.Info("raise committed",
		"kept", res.Kept.String(),
		"discarded", res.Discarded.String(),
		"trimmed", res.Trimmed,
	)
	if res.Trimmed {
		b.presenter.Toast(fmt.Sprintf("Party full: %d units sacrificed.", res.Discarded.Total()))
	}
	b.grant("sacrifice", gain)
}

// sacrificeGain values discarded units as the casualties of a one-sided
// encounter fought by party, bridge-first with the fallback economy as
// substitute.
func (b *Behavior) sacrificeGain(party *campaign.Party, discarded roster.Roster) coerce.Amount {
	total := discarded.Total()
	if total == 0 {
		return coerce.Amount{}
	}

	b.mu.Lock()
	b.sacrifices++
	id := fmt.Sprintf("sacrifice-%d", b.sacrifices)
	player := b.host.Player
	b.mu.Unlock()

	casualties := make([]campaign.Casualty, 0, len(discarded))
	for _, e := range discarded {
		if e.Valid() {
			casualties = append(casualties, campaign.Casualty{Kind: e.Kind, Killed: e.Count})
		}
	}
	enc := &campaign.Encounter{
		ID:       id,
		Attacker: &campaign.Side{Parties: []*campaign.Party{party}, Casualties: casualties},
	}
	if party != nil {
		enc.Settlement = party.CurrentSettlement
	}

	var base *coerce.Amount
	amt, err := b.bridge.BattleGain(enc, player, party)
	if err != nil {
		b.logFault("sacrifice-gain", err)
	} else {
		base = &amt
	}
	return b.economy.Gain(base, total, 0)
}

func indices(ids []string) []int {
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if i, err := strconv.Atoi(id); err == nil {
			out = append(out, i)
		}
	}
	return out
}
