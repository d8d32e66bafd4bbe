package patch

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/roach88/necroqol/internal/coerce"
)

// Target describes a registered action for matching.
type Target struct {
	Group  string
	Action string
	Owner  string
	Name   string
}

// OwnerHas reports whether the callback owner contains token, ignoring case.
func (t Target) OwnerHas(token string) bool {
	return coerce.ContainsFold(t.Owner, token)
}

// NameHas reports whether the callback name contains token, ignoring case.
func (t Target) NameHas(token string) bool {
	return coerce.ContainsFold(t.Name, token)
}

// Matcher selects the action to intercept.
type Matcher interface {
	Match(Target) bool
}

// MatchFunc adapts a function to Matcher.
type MatchFunc func(Target) bool

// Match implements Matcher.
func (f MatchFunc) Match(t Target) bool { return f(t) }

// OwnerNameMatcher matches callbacks whose owner contains any of ownerTokens
// and whose name contains any of nameTokens. An empty token list matches
// nothing.
func OwnerNameMatcher(ownerTokens, nameTokens []string) Matcher {
	return MatchFunc(func(t Target) bool {
		return anyToken(t.OwnerHas, ownerTokens) && anyToken(t.NameHas, nameTokens)
	})
}

func anyToken(has func(string) bool, tokens []string) bool {
	for _, tok := range tokens {
		if has(tok) {
			return true
		}
	}
	return false
}

// ExprMatcher evaluates a compiled boolean expression over a Target.
type ExprMatcher struct {
	src     string
	program *vm.Program
}

// CompileExprMatcher compiles src, e.g.
//
//	OwnerHas("graveyard") && NameHas("raise")
//
// The expression sees the Target fields and methods and must be boolean.
func CompileExprMatcher(src string) (*ExprMatcher, error) {
	prog, err := expr.Compile(src, expr.Env(Target{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile matcher %q: %w", src, err)
	}
	return &ExprMatcher{src: src, program: prog}, nil
}

// Match implements Matcher. Evaluation errors do not match.
func (m *ExprMatcher) Match(t Target) bool {
	out, err := vm.Run(m.program, t)
	if err != nil {
		return false
	}
	ok, _ := out.(bool)
	return ok
}

func (m *ExprMatcher) String() string {
	return m.src
}
