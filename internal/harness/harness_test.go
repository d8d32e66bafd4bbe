package harness

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/necroqol/internal/config"
	"github.com/roach88/necroqol/internal/roster"
	"github.com/roach88/necroqol/internal/store"
)

func mustParse(t *testing.T, content string) *Scenario {
	t.Helper()
	sc, err := ParseScenario([]byte(content))
	require.NoError(t, err)
	return sc
}

func TestRun_SessionToken(t *testing.T) {
	sc := mustParse(t, `
name: token
session_token: fixed-token
steps:
  - tick: 0.016
`)
	result, err := Run(sc)
	require.NoError(t, err)
	assert.Equal(t, "fixed-token", result.Session)
	assert.Equal(t, "none", result.Module)
	require.NotEmpty(t, result.Journal)
	assert.Equal(t, "fixed-token", result.Journal[0].Session)
}

func TestRun_KeepPolicy(t *testing.T) {
	sc := mustParse(t, `
name: keep_first
module:
  raised:
    - kind: skeleton
      count: 3
    - kind: ghoul
      count: 2
party:
  at_graveyard: true
dialog:
  policy: keep
  keep: ["0"]
steps:
  - raise: true
  - raise: true
assertions:
  - type: party
    troops:
      - kind: skeleton
        count: 3
  - type: journal_count
    kind: raise
    count: 1
`)
	result, err := Run(sc)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)

	require.Len(t, result.Trace, 2)
	assert.Equal(t, "opened=true party={skeleton:3}", result.Trace[0].Detail)
	// The graveyard is on cooldown after the first raise.
	assert.Equal(t, "opened=false party={skeleton:3}", result.Trace[1].Detail)
	assert.Contains(t, result.Toasts, "The dead do not answer.")
	// Two ghouls sacrificed at 2 per casualty.
	assert.Equal(t, 4.0, result.Balance)
}

func TestRun_NoGraveyard(t *testing.T) {
	sc := mustParse(t, `
name: no_graveyard
module: {}
steps:
  - raise: true
`)
	result, err := Run(sc)
	require.NoError(t, err)
	assert.Equal(t, []string{"No graveyard here."}, result.Toasts)
	assert.Equal(t, "opened=false party={}", result.Trace[0].Detail)
}

func TestRun_MenuRaiseWithoutModule(t *testing.T) {
	sc := mustParse(t, `
name: no_menu
steps:
  - menu_raise: true
`)
	result, err := Run(sc)
	require.NoError(t, err)
	require.Len(t, result.Trace, 1)
	assert.Equal(t, "menu_raise", result.Trace[0].Op)
	assert.Contains(t, result.Trace[0].Detail, "error=dispatch tor_graveyard_menu/graveyard_raise_dead: no such option")
}

func TestRun_FailedAssertionsReported(t *testing.T) {
	sc := mustParse(t, `
name: failing
steps:
  - tick: 0.016
assertions:
  - type: balance
    value: 99
  - type: installed
    installed: true
`)
	result, err := Run(sc)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Len(t, result.Errors, 2)
}

func TestRun_InvalidMatcher(t *testing.T) {
	sc := mustParse(t, `
name: bad_matcher
config:
  matcher: "OwnerHas("
steps:
  - tick: 0.016
`)
	_, err := Run(sc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compile matcher")
}

func TestRun_KillModes(t *testing.T) {
	steps := `
steps:
  - kill:
      by: player
      state: unconscious
  - kill:
      by: player
      victim: animal
  - mission_ended: true
`
	hard, err := Run(mustParse(t, "name: hard\n"+steps))
	require.NoError(t, err)
	assert.Equal(t, "player_kills=0", hard.Trace[2].Detail)

	soft, err := Run(mustParse(t, "name: soft\nconfig:\n  count_incapacitated: true\n"+steps))
	require.NoError(t, err)
	assert.Equal(t, "player_kills=1", soft.Trace[2].Detail)
}

func TestCasualties(t *testing.T) {
	got := casualties(roster.Roster{{Kind: "a", Count: 2}, {Kind: "b", Count: 5}})
	require.Len(t, got, 2)
	assert.Equal(t, 5, got[1].Killed)
	assert.Empty(t, casualties(nil))
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "0.016", formatFloat(0.016))
	assert.Equal(t, "20", formatFloat(20))
}

func TestRun_WithConfig(t *testing.T) {
	sc := mustParse(t, `
name: base_config
steps:
  - encounter:
      id: e1
      defender_casualties:
        - kind: looter
          count: 4
`)
	cfg := config.Default()
	cfg.CasualtyRate = 3
	result, err := Run(sc, WithConfig(cfg))
	require.NoError(t, err)
	assert.Equal(t, 12.0, result.Banked)

	// Scenario overrides win over the base configuration.
	sc.Config.CasualtyRate = ptr(0.5)
	result, err = Run(sc, WithConfig(cfg))
	require.NoError(t, err)
	assert.Equal(t, 2.0, result.Banked)
}

func TestRun_WithJournalPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	sc := mustParse(t, `
name: persisted
session_token: persisted-1
steps:
  - mission_ended: true
`)
	_, err := Run(sc, WithJournalPath(path))
	require.NoError(t, err)

	st, err := store.Open(path)
	require.NoError(t, err)
	defer st.Close()

	sessions, err := st.ReadSessions(context.Background())
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "persisted-1", sessions[0].Token)

	entries, err := st.ReadEntries(context.Background(), "persisted-1", "")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "mission-ended", entries[1].Kind)
}
