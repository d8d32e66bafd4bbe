package extension

import (
	"fmt"
	"go/token"
	"reflect"
)

// MemberKind distinguishes callable methods from readable properties.
type MemberKind int

const (
	KindMethod MemberKind = iota + 1
	KindProperty
)

func (k MemberKind) String() string {
	switch k {
	case KindMethod:
		return "method"
	case KindProperty:
		return "property"
	default:
		return "unknown"
	}
}

// ParseMemberKind parses "method" or "property".
func ParseMemberKind(s string) (MemberKind, error) {
	switch s {
	case "method", "":
		return KindMethod, nil
	case "property":
		return KindProperty, nil
	default:
		return 0, fmt.Errorf("unknown member kind %q", s)
	}
}

// EnumValue is one named value of an enumerated type.
type EnumValue struct {
	Name  string
	Value any
}

// Enum describes an enumerated type of the module.
type Enum struct {
	Name    string
	Type    reflect.Type
	Members []EnumValue
}

// Param describes one parameter of a member.
type Param struct {
	Type reflect.Type
	// Enum is set when Type is an enumerated type registered with the module.
	Enum *Enum
}

// Member is a method or property of a module type.
type Member struct {
	Name     string
	Kind     MemberKind
	Static   bool
	Exported bool
	Owner    *Type

	in    []reflect.Type
	out   []reflect.Type
	fn    reflect.Value
	field []int
}

// Params returns the member's parameter descriptors in order.
func (m *Member) Params() []Param {
	params := make([]Param, len(m.in))
	for i, t := range m.in {
		params[i] = Param{Type: t}
		if m.Owner != nil && m.Owner.module != nil {
			params[i].Enum = m.Owner.module.EnumFor(t)
		}
	}
	return params
}

// Results returns the member's result types.
func (m *Member) Results() []reflect.Type {
	return append([]reflect.Type(nil), m.out...)
}

// Invoke calls the member. recv is ignored for static members. Panics raised
// by the member propagate to the caller.
func (m *Member) Invoke(recv reflect.Value, args []reflect.Value) []reflect.Value {
	switch {
	case m.field != nil:
		v := recv
		if v.Kind() == reflect.Pointer {
			v = v.Elem()
		}
		return []reflect.Value{v.FieldByIndex(m.field)}
	case m.Static:
		return m.fn.Call(args)
	default:
		return m.fn.Call(append([]reflect.Value{recv}, args...))
	}
}

// Signature renders the member for diagnostics, e.g. "static Calc(*campaign.Encounter) float32".
func (m *Member) Signature() string {
	s := m.Name + "("
	for i, t := range m.in {
		if i > 0 {
			s += ", "
		}
		s += t.String()
	}
	s += ")"
	if len(m.out) == 1 {
		s += " " + m.out[0].String()
	} else if len(m.out) > 1 {
		s += " ("
		for i, t := range m.out {
			if i > 0 {
				s += ", "
			}
			s += t.String()
		}
		s += ")"
	}
	if m.Static {
		return "static " + s
	}
	return s
}

// Type is a named type inside a module.
type Type struct {
	FullName string
	Enum     *Enum

	module  *Module
	newFn   func() any
	members []*Member
}

// Members returns the members of the requested kind in descriptor order.
func (t *Type) Members(kind MemberKind) []*Member {
	var out []*Member
	for _, m := range t.members {
		if m.Kind == kind {
			out = append(out, m)
		}
	}
	return out
}

// AllMembers returns every member in descriptor order.
func (t *Type) AllMembers() []*Member {
	return append([]*Member(nil), t.members...)
}

// NewInstance creates a receiver for instance members.
func (t *Type) NewInstance() (reflect.Value, bool) {
	if t.newFn == nil {
		return reflect.Value{}, false
	}
	v := t.newFn()
	if v == nil {
		return reflect.Value{}, false
	}
	return reflect.ValueOf(v), true
}

// Module is a loaded extension module.
type Module struct {
	Name    string
	Version string

	types map[string]*Type
	order []string
	enums map[reflect.Type]*Enum
}

// NewModule creates an empty module descriptor.
func NewModule(name, version string) *Module {
	return &Module{
		Name:    name,
		Version: version,
		types:   make(map[string]*Type),
		enums:   make(map[reflect.Type]*Enum),
	}
}

// Lookup returns the type registered under the fully qualified name.
func (m *Module) Lookup(fullName string) (*Type, bool) {
	t, ok := m.types[fullName]
	return t, ok
}

// Types returns all types in registration order.
func (m *Module) Types() []*Type {
	out := make([]*Type, 0, len(m.order))
	for _, name := range m.order {
		out = append(out, m.types[name])
	}
	return out
}

// EnumFor returns the enum registered for t, or nil.
func (m *Module) EnumFor(t reflect.Type) *Enum {
	if m == nil || t == nil {
		return nil
	}
	return m.enums[t]
}

func (m *Module) typeNamed(fullName string) *Type {
	if t, ok := m.types[fullName]; ok {
		return t
	}
	t := &Type{FullName: fullName, module: m}
	m.types[fullName] = t
	m.order = append(m.order, fullName)
	return t
}

// Static registers fn as a static method of typeName.
// It panics if fn is not a function, which is a descriptor bug.
func (m *Module) Static(typeName, name string, fn any) *Module {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		panic(fmt.Sprintf("extension: static %s.%s is %T, not a func", typeName, name, fn))
	}
	ft := v.Type()
	t := m.typeNamed(typeName)
	t.members = append(t.members, &Member{
		Name:     name,
		Kind:     KindMethod,
		Static:   true,
		Exported: token.IsExported(name),
		Owner:    t,
		in:       funcIn(ft, 0),
		out:      funcOut(ft),
		fn:       v,
	})
	return m
}

// StaticProperty registers a zero-argument getter as a static property.
func (m *Module) StaticProperty(typeName, name string, getter any) *Module {
	v := reflect.ValueOf(getter)
	if v.Kind() != reflect.Func || v.Type().NumIn() != 0 || v.Type().NumOut() != 1 {
		panic(fmt.Sprintf("extension: property %s.%s must be func() T", typeName, name))
	}
	t := m.typeNamed(typeName)
	t.members = append(t.members, &Member{
		Name:     name,
		Kind:     KindProperty,
		Static:   true,
		Exported: token.IsExported(name),
		Owner:    t,
		out:      funcOut(v.Type()),
		fn:       v,
	})
	return m
}

// Instance registers a type whose exported methods become instance members
// and whose exported struct fields become instance properties. newFn creates
// a fresh receiver each time an instance member is resolved.
func (m *Module) Instance(typeName string, newFn func() any) *Module {
	sample := newFn()
	rt := reflect.TypeOf(sample)
	if rt == nil {
		panic(fmt.Sprintf("extension: instance %s has nil sample", typeName))
	}
	t := m.typeNamed(typeName)
	t.newFn = newFn

	// reflect lists methods in lexicographic order; that is the descriptor
	// order for reflected types.
	for i := 0; i < rt.NumMethod(); i++ {
		meth := rt.Method(i)
		t.members = append(t.members, &Member{
			Name:     meth.Name,
			Kind:     KindMethod,
			Exported: true,
			Owner:    t,
			in:       funcIn(meth.Type, 1),
			out:      funcOut(meth.Type),
			fn:       meth.Func,
		})
	}

	st := rt
	if st.Kind() == reflect.Pointer {
		st = st.Elem()
	}
	if st.Kind() == reflect.Struct {
		for i := 0; i < st.NumField(); i++ {
			f := st.Field(i)
			if !f.IsExported() {
				continue
			}
			t.members = append(t.members, &Member{
				Name:     f.Name,
				Kind:     KindProperty,
				Exported: true,
				Owner:    t,
				out:      []reflect.Type{f.Type},
				field:    f.Index,
			})
		}
	}
	return m
}

// AddEnum registers an enumerated type. All values must share one Go type.
func (m *Module) AddEnum(typeName string, values ...EnumValue) *Module {
	if len(values) == 0 {
		panic(fmt.Sprintf("extension: enum %s has no values", typeName))
	}
	rt := reflect.TypeOf(values[0].Value)
	for _, v := range values[1:] {
		if reflect.TypeOf(v.Value) != rt {
			panic(fmt.Sprintf("extension: enum %s mixes %s and %T", typeName, rt, v.Value))
		}
	}
	e := &Enum{Name: typeName, Type: rt, Members: append([]EnumValue(nil), values...)}
	t := m.typeNamed(typeName)
	t.Enum = e
	m.enums[rt] = e
	return m
}

func funcIn(ft reflect.Type, skip int) []reflect.Type {
	var in []reflect.Type
	for i := skip; i < ft.NumIn(); i++ {
		in = append(in, ft.In(i))
	}
	return in
}

func funcOut(ft reflect.Type) []reflect.Type {
	var out []reflect.Type
	for i := 0; i < ft.NumOut(); i++ {
		out = append(out, ft.Out(i))
	}
	return out
}
