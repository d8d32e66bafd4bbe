package capability

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/necroqol/internal/extension"
)

type encounter struct{ ID string }

type hero struct{ Name string }

type source int

const (
	srcBattlefield source = iota
	srcGraveyard
)

type calcInstance struct{}

func (calcInstance) Calc(e *encounter) int { return 2 }

func quietResolver() *Resolver {
	return NewResolver(WithResolverLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
}

func gainQuery() Query {
	return Query{
		ID:         "gain",
		TypeName:   "T.Mgr",
		Category:   extension.KindMethod,
		ExactNames: []string{"CalculateGain"},
		Tokens:     [][]string{{"battle"}, {"gain", "reward"}},
		Arity:      1,
	}
}

func TestResolver_ExactStaticBeforeExactInstance(t *testing.T) {
	mod := extension.NewModule("Ext", "1")
	mod.Instance("T.Both", func() any { return calcInstance{} })
	mod.Static("T.Both", "Calc", func(e *encounter) int { return 1 })

	q := Query{ID: "calc", TypeName: "T.Both", Category: extension.KindMethod, ExactNames: []string{"Calc"}, Arity: 1}
	res, err := quietResolver().Invoke(mod, q, NewPool(&encounter{ID: "e1"}), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Value)
	assert.True(t, res.Resolved.Static)
}

func TestResolver_ExactInstance(t *testing.T) {
	mod := extension.NewModule("Ext", "1")
	mod.Instance("T.Both", func() any { return calcInstance{} })

	q := Query{ID: "calc", TypeName: "T.Both", Category: extension.KindMethod, ExactNames: []string{"Calc"}, Arity: 1}
	res, err := quietResolver().Invoke(mod, q, NewPool(&encounter{ID: "e1"}), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Value)
	assert.False(t, res.Resolved.Static)
	assert.Equal(t, "T.Both.Calc", res.Resolved.Name())
}

func TestResolver_HeuristicInDescriptorOrder(t *testing.T) {
	mod := extension.NewModule("Ext", "1")
	mod.Static("T.Mgr", "BattleGainsTotal", func() int { return 99 })
	mod.Static("T.Mgr", "BattleRewardFor", func(e *encounter) int { return 5 })
	mod.Static("T.Mgr", "BattleGainFor", func(e *encounter) int { return 6 })

	r := quietResolver()
	res := r.Resolve(mod, gainQuery(), NewPool(&encounter{}))
	require.NotNil(t, res)
	assert.Equal(t, "T.Mgr.BattleRewardFor", res.Name())

	out, err := r.Invoke(mod, gainQuery(), NewPool(&encounter{}), nil)
	require.NoError(t, err)
	assert.Equal(t, 5, out.Value)
}

func TestResolver_SkipsFaultingCandidateAndCachesWinner(t *testing.T) {
	exactCalls, fallbackCalls := 0, 0
	mod := extension.NewModule("Ext", "1")
	mod.Static("T.Mgr", "CalculateGain", func(e *encounter) int {
		exactCalls++
		panic("manager not initialized")
	})
	mod.Static("T.Mgr", "BattleGainFor", func(e *encounter) int {
		fallbackCalls++
		return 4
	})

	r := quietResolver()
	for i := 0; i < 3; i++ {
		res, err := r.Invoke(mod, gainQuery(), NewPool(&encounter{}), nil)
		require.NoError(t, err)
		assert.Equal(t, 4, res.Value)
		assert.Equal(t, "BattleGainFor", res.Resolved.Member.Name)
	}
	assert.Equal(t, 1, exactCalls)
	assert.Equal(t, 3, fallbackCalls)
}

func TestResolver_AllCandidatesFault(t *testing.T) {
	mod := extension.NewModule("Ext", "1")
	mod.Static("T.Mgr", "CalculateGain", func(e *encounter) (int, error) {
		return 0, errors.New("no campaign")
	})

	_, err := quietResolver().Invoke(mod, gainQuery(), NewPool(&encounter{}), nil)
	var invErr *InvocationError
	require.ErrorAs(t, err, &invErr)
	assert.Equal(t, "CalculateGain", invErr.Member)
	assert.EqualError(t, invErr.Unwrap(), "no campaign")
}

func TestResolver_TypeAbsentIsCachedMiss(t *testing.T) {
	mod := extension.NewModule("Ext", "1")
	r := quietResolver()

	_, err := r.Invoke(mod, gainQuery(), NewPool(&encounter{}), nil)
	assert.ErrorIs(t, err, ErrNotFound)

	// Registering the type later does not revive a cached miss.
	mod.Static("T.Mgr", "CalculateGain", func(e *encounter) int { return 1 })
	_, err = r.Invoke(mod, gainQuery(), NewPool(&encounter{}), nil)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, r.Resolve(extension.NewModule("Ext", "1"), gainQuery(), NewPool()))
}

func TestResolver_UnbindableIsNotFound(t *testing.T) {
	mod := extension.NewModule("Ext", "1")
	mod.Static("T.Mgr", "CalculateGain", func(e *encounter) int { return 1 })

	_, err := quietResolver().Invoke(mod, gainQuery(), NewPool(&hero{}), nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolver_RejectedResultIsNotCached(t *testing.T) {
	mod := extension.NewModule("Ext", "1")
	mod.Static("T.Mgr", "CalculateGain", func(e *encounter) int { return 1 })
	r := quietResolver()

	_, err := r.Invoke(mod, gainQuery(), NewPool(&encounter{}), func(any) bool { return false })
	assert.ErrorIs(t, err, ErrUnusable)

	res, err := r.Invoke(mod, gainQuery(), NewPool(&encounter{}), AcceptAny)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Value)
}

func TestResolver_NilModule(t *testing.T) {
	r := quietResolver()
	assert.Nil(t, r.Resolve(nil, gainQuery(), NewPool()))
	_, err := r.Invoke(nil, gainQuery(), NewPool(), nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolver_EnumHint(t *testing.T) {
	mod := extension.NewModule("Ext", "1")
	mod.AddEnum("T.RaiseSource",
		extension.EnumValue{Name: "Battlefield", Value: srcBattlefield},
		extension.EnumValue{Name: "Graveyard", Value: srcGraveyard},
	)
	mod.Static("T.Raise", "CalculateGraveyardRaise", func(h *hero, s source) source { return s })

	q := Query{
		ID:        "raise",
		TypeName:  "T.Raise",
		Category:  extension.KindMethod,
		Tokens:    [][]string{{"grave"}, {"raise"}},
		Arity:     -1,
		EnumHints: []EnumHint{{TypeToken: "source", Member: "graveyard"}},
	}
	res, err := quietResolver().Invoke(mod, q, NewPool(&hero{}, srcBattlefield), nil)
	require.NoError(t, err)
	assert.Equal(t, srcGraveyard, res.Value)
}

func TestResolver_NumericAdaptation(t *testing.T) {
	var got int
	mod := extension.NewModule("Ext", "1")
	mod.Static("T.Ext", "AddResource", func(h *hero, amount int) { got = amount })

	q := Query{ID: "grant", TypeName: "T.Ext", Category: extension.KindMethod, ExactNames: []string{"AddResource"}, Arity: 2}
	res, err := quietResolver().Invoke(mod, q, NewPool(&hero{}, float32(2.6)), nil)
	require.NoError(t, err)
	assert.Nil(t, res.Value)
	assert.Equal(t, 3, got)
}

func TestResolver_Properties(t *testing.T) {
	type settings struct{ Limit int }
	mod := extension.NewModule("Ext", "1")
	mod.Instance("T.Settings", func() any { return &settings{Limit: 12} })
	mod.StaticProperty("T.Settings", "Default", func() int { return 3 })

	q := Query{ID: "limit", TypeName: "T.Settings", Category: extension.KindProperty, ExactNames: []string{"Limit"}, Arity: 0}
	res, err := quietResolver().Invoke(mod, q, NewPool(), nil)
	require.NoError(t, err)
	assert.Equal(t, 12, res.Value)
}

func TestQuery_KeyDistinguishesShape(t *testing.T) {
	a := gainQuery()
	b := gainQuery()
	b.Arity = 2
	assert.NotEqual(t, a.Key(), b.Key())
	assert.Equal(t, a.Key(), gainQuery().Key())
}

func TestResolver_EnumParameterDoesNotSwallowAmount(t *testing.T) {
	called := false
	mod := extension.NewModule("Ext", "1")
	mod.AddEnum("T.Source", extension.EnumValue{Name: "Battlefield", Value: srcBattlefield})
	mod.Static("T.Ext", "AddCustomResource", func(h *hero, s source) { called = true })

	q := Query{
		ID:       "grant",
		TypeName: "T.Ext",
		Category: extension.KindMethod,
		Tokens:   [][]string{{"add"}, {"resource"}},
		Arity:    2,
	}
	_, err := quietResolver().Invoke(mod, q, NewPool(&hero{}, 7.6), nil)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, called)
}
