package capability

import (
	"errors"
	"fmt"
	"math"
	"reflect"

	"github.com/roach88/necroqol/internal/extension"
)

// ErrUnbindable is returned when a parameter has no candidate argument.
var ErrUnbindable = errors.New("argument not bindable")

// Entry is one well-known domain object in a Pool.
type Entry struct {
	Type  reflect.Type
	Value reflect.Value
}

// Pool is an ordered set of domain objects available at a call site.
// Order is binding priority: the first compatible entry wins.
type Pool struct {
	entries []Entry
}

// NewPool builds a pool from values in priority order. Nil values, including
// typed nil pointers, are skipped.
func NewPool(values ...any) Pool {
	var p Pool
	for _, v := range values {
		p = p.With(v)
	}
	return p
}

// With returns a copy of the pool with v appended at the lowest priority.
// A value whose exact type is already present is ignored.
func (p Pool) With(v any) Pool {
	if isNil(v) {
		return p
	}
	rv := reflect.ValueOf(v)
	for _, e := range p.entries {
		if e.Type == rv.Type() {
			return p
		}
	}
	entries := make([]Entry, len(p.entries), len(p.entries)+1)
	copy(entries, p.entries)
	entries = append(entries, Entry{Type: rv.Type(), Value: rv})
	return Pool{entries: entries}
}

// Entries returns the pool entries in priority order.
func (p Pool) Entries() []Entry {
	return append([]Entry(nil), p.entries...)
}

// Len returns the number of entries.
func (p Pool) Len() int {
	return len(p.entries)
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// Bind produces an argument list for params from pool.
//
// For each position: an enum parameter with a hint takes the first enum
// member whose name contains the hint; any other parameter takes the first
// pool entry assignable to it, then the first builtin numeric entry converted
// to a builtin numeric parameter. Enum parameters never take a converted
// number. Any unsatisfied position fails the whole bind.
func Bind(params []extension.Param, pool Pool, hints map[int]string) ([]reflect.Value, error) {
	args := make([]reflect.Value, len(params))
	for i, p := range params {
		v, ok := bindOne(i, p, pool, hints)
		if !ok {
			return nil, fmt.Errorf("parameter %d (%s): %w", i, p.Type, ErrUnbindable)
		}
		args[i] = v
	}
	return args, nil
}

func bindOne(i int, p extension.Param, pool Pool, hints map[int]string) (reflect.Value, bool) {
	if p.Enum != nil {
		if hint, ok := hints[i]; ok {
			for _, m := range p.Enum.Members {
				if containsFold(m.Name, hint) {
					return reflect.ValueOf(m.Value), true
				}
			}
			return reflect.Value{}, false
		}
	}
	for _, e := range pool.entries {
		if e.Type.AssignableTo(p.Type) {
			return e.Value, true
		}
	}
	if p.Enum == nil && isNumeric(p.Type) {
		for _, e := range pool.entries {
			if isNumeric(e.Type) {
				return convertNumber(e.Value, p.Type), true
			}
		}
	}
	return reflect.Value{}, false
}

// isNumeric reports whether t is a predeclared number type. Named types such
// as enums carry meaning beyond their width and are excluded.
func isNumeric(t reflect.Type) bool {
	if t.PkgPath() != "" {
		return false
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// convertNumber converts v to t, rounding to nearest for integer targets and
// clamping negatives to zero for unsigned targets.
func convertNumber(v reflect.Value, t reflect.Type) reflect.Value {
	var f float64
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		f = v.Float()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		f = float64(v.Uint())
	default:
		f = float64(v.Int())
	}
	switch t.Kind() {
	case reflect.Float32, reflect.Float64:
		return reflect.ValueOf(f).Convert(t)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return reflect.ValueOf(uint64(math.Max(0, math.Round(f)))).Convert(t)
	default:
		return reflect.ValueOf(int64(math.Round(f))).Convert(t)
	}
}
