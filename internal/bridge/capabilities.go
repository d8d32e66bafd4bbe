package bridge

import (
	"github.com/roach88/necroqol/internal/campaign"
	"github.com/roach88/necroqol/internal/capability"
	"github.com/roach88/necroqol/internal/coerce"
	"github.com/roach88/necroqol/internal/roster"
)

// DarkEnergySubject identifies the hero's dark energy in keyed results.
func DarkEnergySubject(hero *campaign.Hero) coerce.Subject {
	s := coerce.Subject{Tokens: DarkEnergyTokens, Label: DarkEnergyLabel}
	if hero != nil {
		s.Value = hero
	}
	return s
}

func amountAccept(subject coerce.Subject) capability.Accept {
	return func(v any) bool {
		_, ok := coerce.CoerceAmount(v, subject)
		return ok
	}
}

func clanOf(h *campaign.Hero) *campaign.Clan {
	if h == nil {
		return nil
	}
	return h.Clan
}

// BattleGain asks the module how much dark energy hero earns from enc.
func (b *Bridge) BattleGain(enc *campaign.Encounter, hero *campaign.Hero, party *campaign.Party) (amt coerce.Amount, err error) {
	const op = "battle-gain"
	defer b.guard(op, &err)

	var settlement *campaign.Settlement
	if enc != nil {
		settlement = enc.Settlement
	}
	subject := DarkEnergySubject(hero)
	pool := capability.NewPool(enc, hero, party, clanOf(hero), settlement)
	res, err := b.invoke(op, capability.QueryCalcBattleGain, pool, amountAccept(subject))
	if err != nil {
		return coerce.Amount{}, err
	}
	amt, ok := coerce.CoerceAmount(res.Value, subject)
	if !ok {
		return coerce.Amount{}, NewFault(CodeShapeMismatch, op, "battle gain not recognized", nil)
	}
	return amt, nil
}

// GrantResource adds amount dark energy to hero through the module. The
// amount is adapted to the numeric type the module declares.
func (b *Bridge) GrantResource(hero *campaign.Hero, amount coerce.Amount) (err error) {
	const op = "grant-resource"
	defer b.guard(op, &err)

	if hero == nil {
		return NewFault(CodeAbsent, op, "no hero to grant to", nil)
	}
	pool := capability.NewPool(hero, clanOf(hero), amount.Value)
	_, err = b.invoke(op, capability.QueryGrantResource, pool, nil)
	return err
}

// ResourceValue reads hero's current dark energy.
func (b *Bridge) ResourceValue(hero *campaign.Hero) (amt coerce.Amount, err error) {
	const op = "resource-value"
	defer b.guard(op, &err)

	subject := DarkEnergySubject(hero)
	res, err := b.invoke(op, capability.QueryResourceValue, capability.NewPool(hero, clanOf(hero)), amountAccept(subject))
	if err != nil {
		return coerce.Amount{}, err
	}
	amt, _ = coerce.CoerceAmount(res.Value, subject)
	return amt, nil
}

// DarkEnergyResource returns the module's dark energy catalog entry.
func (b *Bridge) DarkEnergyResource() (resource any, err error) {
	const op = "resource-catalog"
	defer b.guard(op, &err)

	res, err := b.invoke(op, capability.QueryResourceCatalog, capability.NewPool(), nil)
	if err != nil {
		return nil, err
	}
	for _, item := range items(res.Value) {
		if coerce.ContainsAll(coerce.TextualID(item), DarkEnergyTokens) {
			return item, nil
		}
	}
	return nil, NewFault(CodeShapeMismatch, op, "no dark energy resource in catalog", nil)
}

// RaiseUnits asks the module which units a graveyard raise yields.
func (b *Bridge) RaiseUnits(settlement *campaign.Settlement, hero *campaign.Hero, party *campaign.Party) (units roster.Roster, err error) {
	const op = "raise-units"
	defer b.guard(op, &err)

	pool := capability.NewPool(settlement, hero, party, clanOf(hero))
	res, err := b.invoke(op, capability.QueryRaiseUnits, pool, func(v any) bool {
		_, ok := Units(v)
		return ok
	})
	if err != nil {
		return nil, err
	}
	units, _ = Units(res.Value)
	return units, nil
}

// StartCooldown puts the graveyard on the module's raise cooldown.
func (b *Bridge) StartCooldown(settlement *campaign.Settlement) (err error) {
	const op = "raise-cooldown"
	defer b.guard(op, &err)

	if settlement == nil {
		return NewFault(CodeAbsent, op, "no settlement", nil)
	}
	_, err = b.invoke(op, capability.QueryRaiseCooldown, capability.NewPool(settlement), nil)
	return err
}
