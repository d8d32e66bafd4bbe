package coerce

import (
	"math"
	"reflect"
	"sort"
)

// wrapperAccessors unwrap one level of "explained" results.
var wrapperAccessors = []string{"ResultNumber", "Value"}

// CoerceAmount normalizes v into an amount for subject.
//
// Recognized shapes, in order:
//   - a raw number;
//   - an object with a numeric ResultNumber or Value (method or field),
//     unwrapped one level only;
//   - a sequence of pairs with Key and Value, or a map, scanned for the key
//     matching subject;
//   - a lookup object with TryGetValue(key) (value, bool).
//
// Negative amounts are clamped to zero. ok is false when no shape applies or
// the matching entry is not numeric.
func CoerceAmount(v any, subject Subject) (Amount, bool) {
	f, ok := coerceValue(reflect.ValueOf(v), subject)
	if !ok {
		return Amount{}, false
	}
	return NewAmount(f, subject.String(), ProvenanceBridge), true
}

// Number coerces a raw numeric value or one-level explained number.
func Number(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	if f, ok := number(rv); ok {
		return f, true
	}
	return unwrap(rv)
}

// ExplainedInt floors a raw or explained number into an int.
func ExplainedInt(v any) (int, bool) {
	f, ok := Number(v)
	if !ok || math.IsNaN(f) {
		return 0, false
	}
	if f >= math.MaxInt32 {
		return math.MaxInt32, true
	}
	if f <= math.MinInt32 {
		return math.MinInt32, true
	}
	return int(math.Floor(f)), true
}

func coerceValue(v reflect.Value, s Subject) (float64, bool) {
	if !v.IsValid() {
		return 0, false
	}
	if f, ok := number(v); ok {
		return f, true
	}
	if f, ok := unwrap(v); ok {
		return f, true
	}
	if f, ok, applies := fromPairs(v, s); applies {
		return f, ok
	}
	return fromLookup(v, s)
}

func unwrap(v reflect.Value) (float64, bool) {
	for _, name := range wrapperAccessors {
		inner, ok := accessor(v, name)
		if !ok {
			continue
		}
		if f, ok := number(inner); ok {
			return f, true
		}
	}
	return 0, false
}

// fromPairs handles slices, arrays and maps. applies reports whether v had a
// pair shape at all, so lookup objects that happen to be slices are not
// tried twice.
func fromPairs(v reflect.Value, s Subject) (f float64, ok, applies bool) {
	base := deref(v)
	if !base.IsValid() {
		return 0, false, false
	}
	switch base.Kind() {
	case reflect.Map:
		f, ok = fromMap(base, s)
		return f, ok, true
	case reflect.Slice, reflect.Array:
		if base.Len() == 0 {
			return 0, false, true
		}
		for i := 0; i < base.Len(); i++ {
			item := base.Index(i)
			key, hasKey := accessor(item, "Key")
			val, hasVal := accessor(item, "Value")
			if !hasKey || !hasVal {
				return 0, false, false
			}
			if keyMatches(key, s) {
				f, ok = number(val)
				return f, ok, true
			}
		}
		return 0, false, true
	default:
		return 0, false, false
	}
}

func fromMap(m reflect.Value, s Subject) (float64, bool) {
	if s.Value != nil {
		sv := reflect.ValueOf(s.Value)
		if sv.Type().AssignableTo(m.Type().Key()) && sv.Comparable() {
			if val := m.MapIndex(sv); val.IsValid() {
				return number(val)
			}
		}
	}
	if len(s.Tokens) == 0 {
		return 0, false
	}
	keys := m.MapKeys()
	ids := make([]string, len(keys))
	for i, k := range keys {
		ids[i] = textualID(k)
	}
	idx := make([]int, len(keys))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return ids[idx[a]] < ids[idx[b]] })
	for _, i := range idx {
		if ContainsAll(ids[i], s.Tokens) {
			return number(m.MapIndex(keys[i]))
		}
	}
	return 0, false
}

func keyMatches(key reflect.Value, s Subject) bool {
	if sameKey(key, s.Value) {
		return true
	}
	if len(s.Tokens) == 0 {
		return false
	}
	return ContainsAll(textualID(key), s.Tokens)
}

func fromLookup(v reflect.Value, s Subject) (f float64, ok bool) {
	if s.Value == nil {
		return 0, false
	}
	m := v.MethodByName("TryGetValue")
	if !m.IsValid() {
		return 0, false
	}
	mt := m.Type()
	if mt.NumIn() != 1 || mt.NumOut() != 2 || mt.Out(1).Kind() != reflect.Bool {
		return 0, false
	}
	key := reflect.ValueOf(s.Value)
	if !key.Type().AssignableTo(mt.In(0)) {
		return 0, false
	}
	defer func() {
		if r := recover(); r != nil {
			f, ok = 0, false
		}
	}()
	out := m.Call([]reflect.Value{key})
	if !out[1].Bool() {
		return 0, false
	}
	return number(out[0])
}
