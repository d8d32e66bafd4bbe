package campaign

// Hero is a persistent character of the campaign.
//
// Identity is by pointer: the same hero is represented by the same *Hero for
// the whole session.
type Hero struct {
	StringID string
	Name     string
	Clan     *Clan
	// Culture is the hero's culture id, e.g. "vlandia" or "mousillon".
	Culture string
}

// Clan groups heroes.
type Clan struct {
	StringID string
	Name     string
	Leader   *Hero
}

// Settlement is a map location. Graveyards are settlements too.
type Settlement struct {
	StringID    string
	Name        string
	IsGraveyard bool
}
