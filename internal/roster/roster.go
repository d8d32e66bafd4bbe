package roster

import (
	"fmt"
	"strings"

	"github.com/roach88/necroqol/internal/campaign"
)

// Entry is one unit kind and its count.
type Entry struct {
	Kind  campaign.UnitKind `json:"kind" yaml:"kind"`
	Count int               `json:"count" yaml:"count"`
}

// Valid reports whether the entry names a kind and holds at least one unit.
func (e Entry) Valid() bool {
	return e.Kind != "" && e.Count > 0
}

// Roster is an ordered sequence of entries.
type Roster []Entry

// FromStacks converts troop stacks, dropping invalid ones.
func FromStacks(stacks []campaign.TroopStack) Roster {
	var r Roster
	for _, s := range stacks {
		e := Entry{Kind: s.Kind, Count: s.Count}
		if e.Valid() {
			r = append(r, e)
		}
	}
	return r
}

// Snapshot copies a party's troops.
func Snapshot(p *campaign.Party) Roster {
	if p == nil {
		return nil
	}
	return FromStacks(p.Troops)
}

// Stacks converts the valid entries back into troop stacks.
func (r Roster) Stacks() []campaign.TroopStack {
	var out []campaign.TroopStack
	for _, e := range r {
		if e.Valid() {
			out = append(out, campaign.TroopStack{Kind: e.Kind, Count: e.Count})
		}
	}
	return out
}

// Total sums the valid entries.
func (r Roster) Total() int {
	n := 0
	for _, e := range r {
		if e.Valid() {
			n += e.Count
		}
	}
	return n
}

// Count returns the units of kind across valid entries.
func (r Roster) Count(kind campaign.UnitKind) int {
	n := 0
	for _, e := range r {
		if e.Valid() && e.Kind == kind {
			n += e.Count
		}
	}
	return n
}

// Empty reports whether the roster holds no units.
func (r Roster) Empty() bool {
	return r.Total() == 0
}

// Counts returns the per-kind totals.
func (r Roster) Counts() map[campaign.UnitKind]int {
	out := make(map[campaign.UnitKind]int)
	for _, e := range r {
		if e.Valid() {
			out[e.Kind] += e.Count
		}
	}
	return out
}

// add appends count units of kind, folding into an existing entry.
func (r Roster) add(kind campaign.UnitKind, count int) Roster {
	if kind == "" || count <= 0 {
		return r
	}
	for i := range r {
		if r[i].Kind == kind {
			r[i].Count += count
			return r
		}
	}
	return append(r, Entry{Kind: kind, Count: count})
}

func (r Roster) String() string {
	parts := make([]string, 0, len(r))
	for _, e := range r {
		if e.Valid() {
			parts = append(parts, fmt.Sprintf("%s:%d", e.Kind, e.Count))
		}
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Diff returns the units present in after but not in before, per kind, in
// the entry order of after.
func Diff(before, after Roster) Roster {
	had := before.Counts()
	var out Roster
	for _, e := range after {
		if !e.Valid() {
			continue
		}
		gained := e.Count - had[e.Kind]
		if gained <= 0 {
			had[e.Kind] -= e.Count
			continue
		}
		had[e.Kind] = 0
		out = out.add(e.Kind, gained)
	}
	return out
}

// Merge adds every unit of r to the party.
func Merge(p *campaign.Party, r Roster) {
	if p == nil {
		return
	}
	for _, e := range r {
		if e.Valid() {
			p.Add(e.Kind, e.Count)
		}
	}
}

// Remove takes the units of r out of the party and returns what was actually
// removed.
func Remove(p *campaign.Party, r Roster) Roster {
	if p == nil {
		return nil
	}
	var out Roster
	for _, e := range r {
		if !e.Valid() {
			continue
		}
		out = out.add(e.Kind, p.Remove(e.Kind, e.Count))
	}
	return out
}
