package roster

import (
	"math"
	"strconv"

	"github.com/roach88/necroqol/internal/campaign"
	"github.com/roach88/necroqol/internal/coerce"
)

// Capacity is the number of units a party can still take. The zero value is
// unbounded.
type Capacity struct {
	limit   int
	bounded bool
}

// Unbounded places no ceiling on kept units.
var Unbounded = Capacity{}

// Limit returns a bounded capacity; negative values clamp to zero.
func Limit(n int) Capacity {
	if n < 0 {
		n = 0
	}
	return Capacity{limit: n, bounded: true}
}

// Bounded reports whether the capacity has a ceiling.
func (c Capacity) Bounded() bool {
	return c.bounded
}

// Value returns the ceiling and whether there is one.
func (c Capacity) Value() (int, bool) {
	return c.limit, c.bounded
}

// Allows reports whether n units fit.
func (c Capacity) Allows(n int) bool {
	return !c.bounded || n <= c.limit
}

func (c Capacity) String() string {
	if !c.bounded {
		return "unbounded"
	}
	return strconv.Itoa(c.limit)
}

// PartyCapacity is the free room in the party: its size limit minus the
// units it holds. It is Unbounded when the limit cannot be read.
func PartyCapacity(p *campaign.Party) Capacity {
	if p == nil || p.SizeLimit == nil {
		return Unbounded
	}
	limit, ok := coerce.ExplainedInt(p.SizeLimit)
	if !ok || limit >= math.MaxInt32 {
		return Unbounded
	}
	return Limit(limit - p.TotalCount())
}
