package coerce

import (
	"math"
	"reflect"
)

// deref strips interfaces and pointers. It returns the zero Value for nil.
func deref(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Interface || v.Kind() == reflect.Pointer) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

// accessor reads a zero-argument method or an exported field named name.
// Methods are looked up on v as given (so pointer receivers are visible)
// before fields on the dereferenced struct. Panics inside the method are
// reported as a missing accessor.
func accessor(v reflect.Value, name string) (out reflect.Value, ok bool) {
	if !v.IsValid() {
		return reflect.Value{}, false
	}
	for cur := v; cur.IsValid(); {
		if cur.Kind() == reflect.Interface {
			if cur.IsNil() {
				return reflect.Value{}, false
			}
			cur = cur.Elem()
			continue
		}
		if m := cur.MethodByName(name); m.IsValid() && m.Type().NumIn() == 0 && m.Type().NumOut() >= 1 {
			return callAccessor(m)
		}
		if cur.Kind() != reflect.Pointer || cur.IsNil() {
			break
		}
		cur = cur.Elem()
	}
	base := deref(v)
	if base.IsValid() && base.Kind() == reflect.Struct {
		if sf, found := base.Type().FieldByName(name); found && sf.IsExported() {
			return base.FieldByIndex(sf.Index), true
		}
	}
	return reflect.Value{}, false
}

func callAccessor(m reflect.Value) (out reflect.Value, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			out, ok = reflect.Value{}, false
		}
	}()
	res := m.Call(nil)
	return res[0], true
}

// number converts a numeric value to float64.
func number(v reflect.Value) (float64, bool) {
	v = deref(v)
	if !v.IsValid() {
		return 0, false
	}
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(v.Uint()), true
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		return f, !math.IsNaN(f)
	default:
		return 0, false
	}
}

func sameKey(key reflect.Value, subject any) bool {
	if subject == nil {
		return false
	}
	sv := reflect.ValueOf(subject)
	for key.IsValid() && key.Kind() == reflect.Interface {
		if key.IsNil() {
			return false
		}
		key = key.Elem()
	}
	// Value.Comparable looks through interface fields, which Type.Comparable
	// does not.
	if !key.IsValid() || key.Type() != sv.Type() || !key.Comparable() || !sv.Comparable() {
		return false
	}
	return key.Equal(sv)
}

// Accessor returns the first of names readable on v as a zero-argument
// method or exported field.
func Accessor(v any, names ...string) (any, bool) {
	rv := reflect.ValueOf(v)
	for _, name := range names {
		if out, ok := accessor(rv, name); ok && out.IsValid() && out.CanInterface() {
			return out.Interface(), true
		}
	}
	return nil, false
}
