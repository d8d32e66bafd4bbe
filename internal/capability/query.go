package capability

import (
	"fmt"
	"strings"

	"github.com/roach88/necroqol/internal/extension"
)

// EnumHint selects enum members by name for enum-typed parameters whose type
// name contains TypeToken.
type EnumHint struct {
	TypeToken string `json:"typeToken"`
	Member    string `json:"member"`
}

// Query declares a capability to find inside the extension module.
type Query struct {
	ID       string               `json:"id"`
	TypeName string               `json:"type"`
	Category extension.MemberKind `json:"-"`
	// ExactNames are matched verbatim (fast path).
	ExactNames []string `json:"exact,omitempty"`
	// Tokens are lower-case name tokens; every group must have at least one
	// token contained in the member name.
	Tokens [][]string `json:"tokens,omitempty"`
	// Arity is the required parameter count, -1 for any.
	Arity     int        `json:"arity"`
	EnumHints []EnumHint `json:"enumHints,omitempty"`
}

// Key identifies the query for caching.
func (q Query) Key() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s|%s|%s|%d|", q.ID, q.TypeName, q.Category, q.Arity)
	b.WriteString(strings.Join(q.ExactNames, ","))
	b.WriteByte('|')
	for _, g := range q.Tokens {
		b.WriteString(strings.Join(g, "/"))
		b.WriteByte(';')
	}
	b.WriteByte('|')
	for _, h := range q.EnumHints {
		fmt.Fprintf(&b, "%s=%s;", h.TypeToken, h.Member)
	}
	return b.String()
}

func (q Query) isExact(name string) bool {
	for _, n := range q.ExactNames {
		if n == name {
			return true
		}
	}
	return false
}

func (q Query) tokensMatch(name string) bool {
	if len(q.Tokens) == 0 {
		return false
	}
	for _, group := range q.Tokens {
		if !anyContained(name, group) {
			return false
		}
	}
	return true
}

func (q Query) arityMatches(n int) bool {
	return q.Arity < 0 || q.Arity == n
}

// hintsFor returns the enum hint per parameter position.
func (q Query) hintsFor(params []extension.Param) map[int]string {
	if len(q.EnumHints) == 0 {
		return nil
	}
	hints := make(map[int]string)
	for i, p := range params {
		if p.Enum == nil {
			continue
		}
		for _, h := range q.EnumHints {
			if containsFold(p.Enum.Name, h.TypeToken) || containsFold(p.Type.Name(), h.TypeToken) {
				hints[i] = h.Member
				break
			}
		}
	}
	return hints
}
