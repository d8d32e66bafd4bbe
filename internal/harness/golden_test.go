package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScenarios runs every scenario under testdata/scenarios and compares
// it with its golden snapshot.
//
// Regenerate snapshots with:
//
//	go test ./internal/harness -run TestScenarios -update
func TestScenarios(t *testing.T) {
	scenarios, err := LoadScenarios("testdata/scenarios")
	require.NoError(t, err)
	require.NotEmpty(t, scenarios)

	for _, sc := range scenarios {
		t.Run(sc.Name, func(t *testing.T) {
			result, err := RunWithGolden(t, sc)
			require.NoError(t, err)
			assert.True(t, result.Pass, "assertion failures: %v", result.Errors)
		})
	}
}

func TestRender_Deterministic(t *testing.T) {
	sc, err := LoadScenario("testdata/scenarios/trim_to_capacity.yaml")
	require.NoError(t, err)

	first, err := Run(sc)
	require.NoError(t, err)
	second, err := Run(sc)
	require.NoError(t, err)

	assert.Equal(t, string(Render(sc.Name, first)), string(Render(sc.Name, second)))
}

func TestRender_Errors(t *testing.T) {
	r := NewResult()
	r.Session = "s"
	r.Module = "none"
	r.AddError("assertion failed: balance: expected 5, actual 0")

	out := string(Render("failing", r))
	assert.Contains(t, out, "scenario: failing\n")
	assert.Contains(t, out, "  pass: false\n")
	assert.Contains(t, out, "  error: assertion failed: balance: expected 5, actual 0\n")
}
