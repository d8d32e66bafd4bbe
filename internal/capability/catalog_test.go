package capability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/necroqol/internal/extension"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := DefaultCatalog()
	require.NoError(t, err)

	var ids []string
	for _, q := range c.Queries() {
		ids = append(ids, q.ID)
		assert.Equal(t, extension.KindMethod, q.Category, q.ID)
		assert.NotEmpty(t, q.ExactNames, q.ID)
		assert.NotEmpty(t, q.Tokens, q.ID)
	}
	assert.Equal(t, []string{
		QueryCalcBattleGain,
		QueryGrantResource,
		QueryResourceValue,
		QueryResourceCatalog,
		QueryRaiseUnits,
		QueryRaiseCooldown,
	}, ids)

	raise, ok := c.Query(QueryRaiseUnits)
	require.True(t, ok)
	assert.Equal(t, -1, raise.Arity)
	assert.Equal(t, []EnumHint{{TypeToken: "source", Member: "graveyard"}}, raise.EnumHints)
	assert.Equal(t, "TOR_Core.CampaignMechanics.RaiseDead.GraveyardRaiseDeadModel", raise.TypeName)

	grant, ok := c.Query(QueryGrantResource)
	require.True(t, ok)
	assert.Equal(t, []string{"AddCultureSpecificCustomResource"}, grant.ExactNames)
	assert.Equal(t, 2, grant.Arity)

	_, ok = c.Query("missing")
	assert.False(t, ok)
}

func TestLoadCatalog_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "syntax",
			src:  `queries: [`,
			want: "compile catalog",
		},
		{
			name: "incomplete",
			src:  `queries: [{id: "a", type: string, category: "method", arity: 0}]`,
			want: "validate catalog",
		},
		{
			name: "duplicate",
			src: `queries: [
	{id: "a", type: "T", category: "method", arity: 0},
	{id: "a", type: "T", category: "method", arity: 0},
]`,
			want: `duplicate query "a"`,
		},
		{
			name: "category",
			src:  `queries: [{id: "a", type: "T", category: "field", arity: 0}]`,
			want: `unknown member kind "field"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCatalog([]byte(tt.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadCatalog_Minimal(t *testing.T) {
	c, err := LoadCatalog([]byte(`queries: [{id: "p", type: "T", category: "property", exact: ["Limit"], arity: 0}]`))
	require.NoError(t, err)
	q, ok := c.Query("p")
	require.True(t, ok)
	assert.Equal(t, extension.KindProperty, q.Category)
	assert.Equal(t, []string{"Limit"}, q.ExactNames)
}
