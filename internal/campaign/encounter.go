package campaign

// Casualty records losses of one unit kind on one side of an encounter.
type Casualty struct {
	Kind    UnitKind
	Killed  int
	Wounded int
}

// Side is one side (attacker or defender) of an encounter.
type Side struct {
	Parties    []*Party
	Casualties []Casualty
}

// Encounter is a finished or running map event (battle, raid, siege).
type Encounter struct {
	ID         string
	Attacker   *Side
	Defender   *Side
	Settlement *Settlement
}

// Sides returns the non-nil sides, attacker first.
func (e *Encounter) Sides() []*Side {
	if e == nil {
		return nil
	}
	var sides []*Side
	if e.Attacker != nil {
		sides = append(sides, e.Attacker)
	}
	if e.Defender != nil {
		sides = append(sides, e.Defender)
	}
	return sides
}
