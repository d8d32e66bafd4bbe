package roster

// Result is the outcome of a commit.
type Result struct {
	Kept      Roster `json:"kept"`
	Discarded Roster `json:"discarded"`
	// Trimmed is set when kept units were moved to Discarded to fit the
	// capacity.
	Trimmed bool `json:"trimmed"`
}

// Commit splits candidate into kept and discarded rosters.
//
// selection holds the indices of candidate entries to keep; out-of-range
// indices are ignored. Invalid entries are skipped entirely. When the kept
// total exceeds capacity, units are trimmed from the last kept entries first
// and added to Discarded.
func Commit(candidate Roster, capacity Capacity, selection []int) Result {
	keep := make(map[int]bool, len(selection))
	for _, i := range selection {
		keep[i] = true
	}

	var res Result
	for i, e := range candidate {
		if !e.Valid() {
			continue
		}
		if keep[i] {
			res.Kept = append(res.Kept, e)
		} else {
			res.Discarded = res.Discarded.add(e.Kind, e.Count)
		}
	}

	limit, bounded := capacity.Value()
	excess := res.Kept.Total() - limit
	if !bounded || excess <= 0 {
		return res
	}
	res.Trimmed = true
	for i := len(res.Kept) - 1; i >= 0 && excess > 0; i-- {
		take := min(excess, res.Kept[i].Count)
		res.Kept[i].Count -= take
		res.Discarded = res.Discarded.add(res.Kept[i].Kind, take)
		excess -= take
	}
	kept := res.Kept[:0]
	for _, e := range res.Kept {
		if e.Count > 0 {
			kept = append(kept, e)
		}
	}
	res.Kept = kept
	return res
}

// RejectAll discards every valid entry of candidate.
func RejectAll(candidate Roster) Result {
	var res Result
	for _, e := range candidate {
		if e.Valid() {
			res.Discarded = res.Discarded.add(e.Kind, e.Count)
		}
	}
	return res
}

// SelectAll returns the indices of every valid entry.
func SelectAll(candidate Roster) []int {
	var out []int
	for i, e := range candidate {
		if e.Valid() {
			out = append(out, i)
		}
	}
	return out
}
