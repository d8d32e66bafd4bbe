package campaign

// UnitKind identifies a troop type, e.g. "skeleton_warrior".
type UnitKind string

// TroopStack is a count of one unit kind inside a party.
type TroopStack struct {
	Kind  UnitKind
	Count int
}

// ExplainedNumber is the host's annotated number: a final value plus the
// explanation lines that produced it.
type ExplainedNumber struct {
	ResultNumber float32
	Lines        []string
}

// Party is a mobile party on the campaign map.
type Party struct {
	StringID string
	Name     string
	Leader   *Hero
	// SizeLimit is the host's party size limit. Nil when the host could not
	// compute it.
	SizeLimit *ExplainedNumber
	Troops    []TroopStack
	// CurrentSettlement is where the party is parked, nil on the open map.
	CurrentSettlement *Settlement
}

// TotalCount returns the number of troops in the party.
func (p *Party) TotalCount() int {
	total := 0
	for _, t := range p.Troops {
		if t.Count > 0 {
			total += t.Count
		}
	}
	return total
}

// Add adds count units of kind, appending a new stack when needed.
// Non-positive counts are ignored.
func (p *Party) Add(kind UnitKind, count int) {
	if count <= 0 || kind == "" {
		return
	}
	for i := range p.Troops {
		if p.Troops[i].Kind == kind {
			p.Troops[i].Count += count
			return
		}
	}
	p.Troops = append(p.Troops, TroopStack{Kind: kind, Count: count})
}

// Remove removes up to count units of kind and returns how many were removed.
// Emptied stacks are dropped.
func (p *Party) Remove(kind UnitKind, count int) int {
	if count <= 0 {
		return 0
	}
	for i := range p.Troops {
		if p.Troops[i].Kind != kind {
			continue
		}
		n := min(count, p.Troops[i].Count)
		p.Troops[i].Count -= n
		if p.Troops[i].Count <= 0 {
			p.Troops = append(p.Troops[:i], p.Troops[i+1:]...)
		}
		return n
	}
	return 0
}

// Count returns the number of units of kind in the party.
func (p *Party) Count(kind UnitKind) int {
	for _, t := range p.Troops {
		if t.Kind == kind {
			return t.Count
		}
	}
	return 0
}
