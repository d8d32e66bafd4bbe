package bridge

import (
	"reflect"

	"github.com/roach88/necroqol/internal/campaign"
	"github.com/roach88/necroqol/internal/coerce"
	"github.com/roach88/necroqol/internal/roster"
)

var (
	kindAccessors  = []string{"Kind", "Troop", "Character", "Key"}
	countAccessors = []string{"Count", "Number", "Value"}
)

// Units reads a unit roster from a module result: a slice of troop stacks,
// or of items exposing a kind (Kind, Troop, Character, Key) and a count
// (Count, Number, Value). A nil slice is an empty roster.
func Units(v any) (roster.Roster, bool) {
	if stacks, ok := v.([]campaign.TroopStack); ok {
		return roster.FromStacks(stacks), true
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil, false
	}
	var out roster.Roster
	for i := 0; i < rv.Len(); i++ {
		item := rv.Index(i).Interface()
		kind, ok := coerce.Accessor(item, kindAccessors...)
		if !ok {
			return nil, false
		}
		count, ok := coerce.Accessor(item, countAccessors...)
		if !ok {
			return nil, false
		}
		n, ok := coerce.ExplainedInt(count)
		if !ok {
			return nil, false
		}
		e := roster.Entry{Kind: unitKind(kind), Count: n}
		if e.Valid() {
			out = append(out, e)
		}
	}
	return out, true
}

func unitKind(v any) campaign.UnitKind {
	switch k := v.(type) {
	case campaign.UnitKind:
		return k
	case string:
		return campaign.UnitKind(k)
	default:
		return campaign.UnitKind(coerce.TextualID(v))
	}
}

// items flattens a slice or array result.
func items(v any) []any {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}
