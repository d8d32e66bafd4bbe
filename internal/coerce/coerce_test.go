package coerce

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type resource struct {
	StringID string
	Name     string
}

type pair struct {
	Key   any
	Value any
}

type explained struct {
	ResultNumber float32
}

type valueMethod struct{ v int }

func (v valueMethod) Value() int { return v.v }

type nested struct {
	Value explained
}

type opaque struct {
	Summary string
}

type hero struct{ Name string }

type gainTable struct {
	gains map[*hero]float32
}

func (g *gainTable) TryGetValue(h *hero) (float32, bool) {
	v, ok := g.gains[h]
	return v, ok
}

var darkEnergy = Subject{Tokens: []string{"dark", "energy"}, Label: "dark-energy"}

func TestCoerceAmount_RawNumbers(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
	}{
		{"int", 12, 12},
		{"int64", int64(3), 3},
		{"uint8", uint8(9), 9},
		{"float32", float32(2.5), 2.5},
		{"float64", 7.25, 7.25},
		{"negative clamps", -4, 0},
		{"pointer", ptr(11.0), 11},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CoerceAmount(tt.in, darkEnergy)
			require.True(t, ok)
			assert.Equal(t, tt.want, got.Value)
			assert.Equal(t, ProvenanceBridge, got.Provenance)
			assert.Equal(t, "dark-energy", got.Subject)
		})
	}
}

func TestCoerceAmount_ExplainedNumbers(t *testing.T) {
	got, ok := CoerceAmount(explained{ResultNumber: 12.75}, darkEnergy)
	require.True(t, ok)
	assert.Equal(t, 12.75, got.Value)
	assert.Equal(t, 12, got.Units())

	got, ok = CoerceAmount(&explained{ResultNumber: 3}, darkEnergy)
	require.True(t, ok)
	assert.Equal(t, 3.0, got.Value)

	got, ok = CoerceAmount(valueMethod{v: 8}, darkEnergy)
	require.True(t, ok)
	assert.Equal(t, 8.0, got.Value)
}

func TestCoerceAmount_UnwrapsOneLevelOnly(t *testing.T) {
	_, ok := CoerceAmount(nested{Value: explained{ResultNumber: 4}}, darkEnergy)
	assert.False(t, ok)
}

func TestCoerceAmount_PairSequenceByTokens(t *testing.T) {
	pairs := []pair{
		{Key: resource{StringID: "ResourceA"}, Value: 2},
		{Key: resource{StringID: "DarkEnergy"}, Value: 7},
	}
	got, ok := CoerceAmount(pairs, darkEnergy)
	require.True(t, ok)
	assert.Equal(t, 7.0, got.Value)
}

func TestCoerceAmount_PairSequenceByIdentity(t *testing.T) {
	a, b := &hero{Name: "a"}, &hero{Name: "b"}
	pairs := []pair{{Key: a, Value: 1.5}, {Key: b, Value: 9}}

	got, ok := CoerceAmount(pairs, Subject{Value: b})
	require.True(t, ok)
	assert.Equal(t, 9.0, got.Value)
}

func TestCoerceAmount_PairSequenceWithoutMatch(t *testing.T) {
	pairs := []pair{{Key: resource{StringID: "Gold"}, Value: 2}}
	_, ok := CoerceAmount(pairs, darkEnergy)
	assert.False(t, ok)
}

func TestCoerceAmount_PairValueNotNumeric(t *testing.T) {
	pairs := []pair{{Key: resource{StringID: "DarkEnergy"}, Value: "lots"}}
	_, ok := CoerceAmount(pairs, darkEnergy)
	assert.False(t, ok)
}

func TestCoerceAmount_Maps(t *testing.T) {
	h := &hero{Name: "vlad"}
	byHero := map[*hero]float32{h: 6, {Name: "other"}: 1}
	got, ok := CoerceAmount(byHero, Subject{Value: h})
	require.True(t, ok)
	assert.Equal(t, 6.0, got.Value)

	byName := map[string]int{"Gold": 100, "dark_energy": 14}
	got, ok = CoerceAmount(byName, darkEnergy)
	require.True(t, ok)
	assert.Equal(t, 14.0, got.Value)

	_, ok = CoerceAmount(map[string]int{"Gold": 1}, darkEnergy)
	assert.False(t, ok)
}

func TestCoerceAmount_Lookup(t *testing.T) {
	h := &hero{Name: "vlad"}
	table := &gainTable{gains: map[*hero]float32{h: -3}}

	got, ok := CoerceAmount(table, Subject{Value: h})
	require.True(t, ok)
	assert.Equal(t, 0.0, got.Value, "negative gains clamp to zero")

	_, ok = CoerceAmount(table, Subject{Value: &hero{}})
	assert.False(t, ok, "missing key is undetermined")
}

func TestCoerceAmount_Undetermined(t *testing.T) {
	for _, in := range []any{nil, opaque{Summary: "x"}, "12", true, (*explained)(nil)} {
		_, ok := CoerceAmount(in, darkEnergy)
		assert.False(t, ok, "%#v", in)
	}
}

func TestCoerceAmount_NeverNegative(t *testing.T) {
	for _, in := range []any{-1, -0.5, float32(-100), explained{ResultNumber: -2}} {
		got, ok := CoerceAmount(in, darkEnergy)
		require.True(t, ok)
		assert.GreaterOrEqual(t, got.Value, 0.0)
	}
}

func TestExplainedInt(t *testing.T) {
	n, ok := ExplainedInt(explained{ResultNumber: 41.9})
	require.True(t, ok)
	assert.Equal(t, 41, n)

	n, ok = ExplainedInt(17)
	require.True(t, ok)
	assert.Equal(t, 17, n)

	_, ok = ExplainedInt(opaque{})
	assert.False(t, ok)
}

func TestTextualID_Priority(t *testing.T) {
	assert.Equal(t, "DarkEnergy", TextualID(resource{StringID: "DarkEnergy", Name: "Dark Energy"}))
	assert.Equal(t, "Dark Energy", TextualID(resource{Name: "Dark Energy"}))
	assert.Equal(t, "plain", TextualID("plain"))
	assert.Equal(t, "", TextualID(nil))
}

func TestAmount_Add(t *testing.T) {
	a := NewAmount(10, "dark-energy", ProvenanceFallback)
	assert.Equal(t, 25.0, a.Add(15).Value)
	assert.Equal(t, 0.0, a.Add(-50).Value)
	assert.Equal(t, ProvenanceFallback, a.Add(1).Provenance)
}

func TestContainsAll(t *testing.T) {
	assert.True(t, ContainsAll("TOR_DarkEnergy", []string{"dark", "energy"}))
	assert.False(t, ContainsAll("DarkMagic", []string{"dark", "energy"}))
	assert.False(t, ContainsAll("anything", nil))
}

func ptr[T any](v T) *T { return &v }

func TestAccessor(t *testing.T) {
	v, ok := Accessor(valueMethod{v: 4}, "Missing", "Value")
	require.True(t, ok)
	assert.Equal(t, 4, v)

	v, ok = Accessor(&resource{StringID: "DarkEnergy"}, "StringID")
	require.True(t, ok)
	assert.Equal(t, "DarkEnergy", v)

	_, ok = Accessor(nil, "Value")
	assert.False(t, ok)
	_, ok = Accessor(opaque{}, "Value")
	assert.False(t, ok)
}

func TestCoerceAmount_NaNIsUndetermined(t *testing.T) {
	nan := math.NaN()
	for _, in := range []any{nan, float32(nan), explained{ResultNumber: float32(nan)}, []pair{{Key: resource{StringID: "DarkEnergy"}, Value: nan}}} {
		_, ok := CoerceAmount(in, darkEnergy)
		assert.False(t, ok, "%#v", in)
	}
}

type taggedKey struct{ Tag any }

func TestCoerceAmount_UncomparableKeyIsNoMatch(t *testing.T) {
	pairs := []pair{
		{Key: taggedKey{Tag: []string{"dark"}}, Value: 3},
		{Key: taggedKey{Tag: "energy"}, Value: 5},
	}

	got, ok := CoerceAmount(pairs, Subject{Value: taggedKey{Tag: "energy"}})
	require.True(t, ok)
	assert.Equal(t, 5.0, got.Value)

	var found bool
	assert.NotPanics(t, func() {
		_, found = CoerceAmount(pairs[:1], Subject{Value: taggedKey{Tag: "energy"}})
	})
	assert.False(t, found)
}

func TestCoerceAmount_UncomparableMapSubject(t *testing.T) {
	gains := map[taggedKey]int{{Tag: "energy"}: 4}
	var found bool
	assert.NotPanics(t, func() {
		_, found = CoerceAmount(gains, Subject{Value: taggedKey{Tag: []int{1}}})
	})
	assert.False(t, found)
}
