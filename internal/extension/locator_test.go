package extension

import (
	"io"
	"log/slog"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLocator_ExactNameOnly(t *testing.T) {
	core := NewModule("TOR_Core", "1.4.0")
	cat := StaticCatalog{NewModule("TOR_Core_Addons", "1.0"), core}
	loc := NewLocator(cat, WithLocatorLogger(quietLogger()))

	assert.Same(t, core, loc.Locate("TOR_Core"))
	assert.Nil(t, loc.Locate("tor_core"))
	assert.Nil(t, loc.Locate("TOR"))
}

func TestLocator_CachesHitsAndMisses(t *testing.T) {
	var loaded []*Module
	scans := 0
	cat := CatalogFunc(func() []*Module {
		scans++
		return loaded
	})
	loc := NewLocator(cat, WithLocatorLogger(quietLogger()))

	assert.False(t, loc.Resolved(DefaultModuleName))
	assert.Nil(t, loc.Locate(DefaultModuleName))
	assert.True(t, loc.Resolved(DefaultModuleName))

	// A module loaded later is not picked up: the first answer is final.
	loaded = append(loaded, NewModule(DefaultModuleName, "1"))
	assert.Nil(t, loc.Locate(DefaultModuleName))
	assert.Equal(t, 1, scans)
}

func TestLocator_CatalogPanicIsMiss(t *testing.T) {
	cat := CatalogFunc(func() []*Module { panic("assembly load failed") })
	loc := NewLocator(cat, WithLocatorLogger(quietLogger()))
	assert.Nil(t, loc.Locate(DefaultModuleName))
}

func TestLocator_NilCatalog(t *testing.T) {
	loc := NewLocator(nil, WithLocatorLogger(quietLogger()))
	assert.Nil(t, loc.Locate(DefaultModuleName))
}

type widget struct {
	Size int
}

func (w *widget) Grow(n int) int { return w.Size + n }
func (w *widget) Area() int      { return w.Size * w.Size }

type color int

func TestModule_InstanceReflection(t *testing.T) {
	m := NewModule("Ext", "1")
	m.Instance("Ext.Widget", func() any { return &widget{Size: 3} })

	typ, ok := m.Lookup("Ext.Widget")
	require.True(t, ok)

	methods := typ.Members(KindMethod)
	require.Len(t, methods, 2)
	assert.Equal(t, "Area", methods[0].Name)
	assert.Equal(t, "Grow", methods[1].Name)
	assert.Equal(t, "Grow(int) int", methods[1].Signature())

	props := typ.Members(KindProperty)
	require.Len(t, props, 1)
	assert.Equal(t, "Size", props[0].Name)

	recv, ok := typ.NewInstance()
	require.True(t, ok)
	out := methods[1].Invoke(recv, []reflect.Value{reflect.ValueOf(4)})
	assert.Equal(t, 7, out[0].Interface())
	assert.Equal(t, 3, props[0].Invoke(recv, nil)[0].Interface())
}

func TestModule_StaticAndEnum(t *testing.T) {
	m := NewModule("Ext", "1")
	m.AddEnum("Ext.Color", EnumValue{Name: "Red", Value: color(0)}, EnumValue{Name: "Blue", Value: color(1)})
	m.Static("Ext.Paint", "Mix", func(a, b color) color { return a + b })

	typ, ok := m.Lookup("Ext.Paint")
	require.True(t, ok)
	mix := typ.Members(KindMethod)[0]
	assert.True(t, mix.Static)
	assert.Equal(t, "static Mix(extension.color, extension.color) extension.color", mix.Signature())

	params := mix.Params()
	require.Len(t, params, 2)
	require.NotNil(t, params[0].Enum)
	assert.Equal(t, "Ext.Color", params[0].Enum.Name)

	names := make([]string, 0)
	for _, ty := range m.Types() {
		names = append(names, ty.FullName)
	}
	assert.Equal(t, []string{"Ext.Color", "Ext.Paint"}, names)
}

func TestModule_DescriptorBugsPanic(t *testing.T) {
	m := NewModule("Ext", "1")
	assert.Panics(t, func() { m.Static("Ext.T", "NotAFunc", 3) })
	assert.Panics(t, func() { m.StaticProperty("Ext.T", "Bad", func(int) int { return 0 }) })
	assert.Panics(t, func() { m.AddEnum("Ext.Empty") })
	assert.Panics(t, func() {
		m.AddEnum("Ext.Mixed", EnumValue{Name: "A", Value: color(0)}, EnumValue{Name: "B", Value: 1})
	})
}

func TestParseMemberKind(t *testing.T) {
	k, err := ParseMemberKind("")
	require.NoError(t, err)
	assert.Equal(t, KindMethod, k)

	k, err = ParseMemberKind("property")
	require.NoError(t, err)
	assert.Equal(t, KindProperty, k)
	assert.Equal(t, "property", k.String())

	_, err = ParseMemberKind("event")
	assert.Error(t, err)
}
