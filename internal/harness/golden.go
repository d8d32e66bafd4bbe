package harness

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Render formats a result as the deterministic text snapshot compared
// against golden files.
func Render(name string, r *Result) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "scenario: %s\n", name)
	fmt.Fprintf(&b, "session: %s\n", r.Session)
	fmt.Fprintf(&b, "module: %s\n", r.Module)

	b.WriteString("trace:\n")
	for _, e := range r.Trace {
		fmt.Fprintf(&b, "  %d %s %s\n", e.Step, e.Op, e.Detail)
	}
	b.WriteString("toasts:\n")
	for _, t := range r.Toasts {
		fmt.Fprintf(&b, "  - %s\n", t)
	}
	b.WriteString("journal:\n")
	for _, e := range r.Journal {
		fmt.Fprintf(&b, "  %d %s %s\n", e.Seq, e.Kind, e.Payload)
	}
	b.WriteString("state:\n")
	fmt.Fprintf(&b, "  party: %s\n", r.Party)
	fmt.Fprintf(&b, "  balance: %s\n", formatFloat(r.Balance))
	fmt.Fprintf(&b, "  banked: %s\n", formatFloat(r.Banked))
	fmt.Fprintf(&b, "  installed: %t\n", r.Installed)
	fmt.Fprintf(&b, "  pass: %t\n", r.Pass)
	for _, e := range r.Errors {
		fmt.Fprintf(&b, "  error: %s\n", e)
	}
	return []byte(b.String())
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	AssertGolden(t, scenario.Name, result)
	return result, nil
}

// AssertGolden compares an existing result against its golden file.
func AssertGolden(t *testing.T, name string, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, Render(name, result))
}
