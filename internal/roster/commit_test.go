package roster

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/necroqol/internal/campaign"
)

const (
	infantry campaign.UnitKind = "Infantry"
	archer   campaign.UnitKind = "Archer"
	cavalry  campaign.UnitKind = "Cavalry"
)

func TestCommit_TrimsFromLaterEntry(t *testing.T) {
	candidate := Roster{{Kind: infantry, Count: 6}, {Kind: archer, Count: 4}}

	res := Commit(candidate, Limit(7), []int{0, 1})

	assert.Equal(t, Roster{{Kind: infantry, Count: 6}, {Kind: archer, Count: 1}}, res.Kept)
	assert.Equal(t, Roster{{Kind: archer, Count: 3}}, res.Discarded)
	assert.True(t, res.Trimmed)
	// The candidate is not mutated.
	assert.Equal(t, 4, candidate[1].Count)
}

func TestCommit_TrimsAcrossEntries(t *testing.T) {
	candidate := Roster{{Kind: infantry, Count: 6}, {Kind: archer, Count: 2}, {Kind: cavalry, Count: 1}}

	res := Commit(candidate, Limit(4), []int{0, 1, 2})

	assert.Equal(t, Roster{{Kind: infantry, Count: 4}}, res.Kept)
	assert.Equal(t, Roster{{Kind: cavalry, Count: 1}, {Kind: archer, Count: 2}, {Kind: infantry, Count: 2}}, res.Discarded)
	assert.True(t, res.Trimmed)
}

func TestCommit_UnselectedAreDiscarded(t *testing.T) {
	candidate := Roster{{Kind: infantry, Count: 6}, {Kind: archer, Count: 4}}

	res := Commit(candidate, Unbounded, []int{1, 9, -1})

	assert.Equal(t, Roster{{Kind: archer, Count: 4}}, res.Kept)
	assert.Equal(t, Roster{{Kind: infantry, Count: 6}}, res.Discarded)
	assert.False(t, res.Trimmed)
}

func TestCommit_SkipsInvalidEntries(t *testing.T) {
	candidate := Roster{{Kind: "", Count: 3}, {Kind: infantry, Count: 0}, {Kind: archer, Count: -2}, {Kind: cavalry, Count: 2}}

	res := Commit(candidate, Unbounded, []int{0, 1, 2})

	assert.Empty(t, res.Kept)
	assert.Equal(t, Roster{{Kind: cavalry, Count: 2}}, res.Discarded)
}

func TestCommit_ZeroCapacity(t *testing.T) {
	res := Commit(Roster{{Kind: infantry, Count: 2}}, Limit(0), []int{0})

	assert.Empty(t, res.Kept)
	assert.Equal(t, Roster{{Kind: infantry, Count: 2}}, res.Discarded)
	assert.True(t, res.Trimmed)
}

func TestRejectAll(t *testing.T) {
	candidate := Roster{{Kind: infantry, Count: 6}, {Kind: "", Count: 1}, {Kind: archer, Count: 4}}

	res := RejectAll(candidate)

	assert.Empty(t, res.Kept)
	assert.Equal(t, Roster{{Kind: infantry, Count: 6}, {Kind: archer, Count: 4}}, res.Discarded)
	assert.False(t, res.Trimmed)
}

func TestSelectAll(t *testing.T) {
	candidate := Roster{{Kind: infantry, Count: 6}, {Kind: "", Count: 1}, {Kind: archer, Count: 4}}
	assert.Equal(t, []int{0, 2}, SelectAll(candidate))
}

func TestCommit_ConservesUnitsAndRespectsCapacity(t *testing.T) {
	kinds := []campaign.UnitKind{infantry, archer, cavalry, ""}
	rng := rand.New(rand.NewPCG(7, 11))

	for iter := 0; iter < 500; iter++ {
		var candidate Roster
		for n := rng.IntN(6); n > 0; n-- {
			candidate = append(candidate, Entry{Kind: kinds[rng.IntN(len(kinds))], Count: rng.IntN(12) - 2})
		}
		var selection []int
		for i := range candidate {
			if rng.IntN(2) == 0 {
				selection = append(selection, i)
			}
		}
		capacity := Unbounded
		if rng.IntN(4) > 0 {
			capacity = Limit(rng.IntN(20))
		}

		res := Commit(candidate, capacity, selection)

		require.True(t, capacity.Allows(res.Kept.Total()), "iter %d: kept %s over %s", iter, res.Kept, capacity)
		for kind, want := range candidate.Counts() {
			got := res.Kept.Count(kind) + res.Discarded.Count(kind)
			require.Equal(t, want, got, "iter %d kind %s", iter, kind)
		}
		require.Equal(t, candidate.Total(), res.Kept.Total()+res.Discarded.Total(), "iter %d", iter)
	}
}
