package capability

import (
	_ "embed"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/necroqol/internal/extension"
)

// Query IDs of the fixed capability catalog.
const (
	QueryCalcBattleGain  = "calc-battle-gain"
	QueryGrantResource   = "grant-resource"
	QueryResourceValue   = "resource-value"
	QueryResourceCatalog = "resource-catalog"
	QueryRaiseUnits      = "raise-units"
	QueryRaiseCooldown   = "raise-cooldown"
)

//go:embed catalog.cue
var catalogSource []byte

// querySpec mirrors #Query in catalog.cue.
type querySpec struct {
	ID        string     `json:"id"`
	Type      string     `json:"type"`
	Category  string     `json:"category"`
	Exact     []string   `json:"exact"`
	Tokens    [][]string `json:"tokens"`
	Arity     int        `json:"arity"`
	EnumHints []EnumHint `json:"enumHints"`
}

// Catalog is an ordered, ID-indexed set of queries.
type Catalog struct {
	queries []Query
	byID    map[string]int
}

// LoadCatalog compiles a CUE catalog. The source must define a concrete
// `queries` list conforming to #Query.
func LoadCatalog(src []byte) (*Catalog, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(src, cue.Filename("catalog.cue"))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("compile catalog: %w", err)
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("validate catalog: %w", err)
	}

	var specs []querySpec
	if err := v.LookupPath(cue.ParsePath("queries")).Decode(&specs); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	c := &Catalog{byID: make(map[string]int, len(specs))}
	for _, s := range specs {
		if s.ID == "" {
			return nil, fmt.Errorf("catalog: query without id")
		}
		if _, dup := c.byID[s.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate query %q", s.ID)
		}
		kind, err := extension.ParseMemberKind(s.Category)
		if err != nil {
			return nil, fmt.Errorf("catalog: query %q: %w", s.ID, err)
		}
		c.byID[s.ID] = len(c.queries)
		c.queries = append(c.queries, Query{
			ID:         s.ID,
			TypeName:   s.Type,
			Category:   kind,
			ExactNames: s.Exact,
			Tokens:     s.Tokens,
			Arity:      s.Arity,
			EnumHints:  s.EnumHints,
		})
	}
	return c, nil
}

var defaultCatalog = sync.OnceValues(func() (*Catalog, error) {
	return LoadCatalog(catalogSource)
})

// DefaultCatalog returns the embedded catalog.
func DefaultCatalog() (*Catalog, error) {
	return defaultCatalog()
}

// Query returns the query with id.
func (c *Catalog) Query(id string) (Query, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Query{}, false
	}
	return c.queries[i], true
}

// Queries returns all queries in declaration order.
func (c *Catalog) Queries() []Query {
	return append([]Query(nil), c.queries...)
}
