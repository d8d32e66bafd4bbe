package harness

import (
	"fmt"
	"strings"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	return fmt.Sprintf("assertion failed: %s: expected %s, actual %s", e.Type, e.Expected, e.Actual)
}

// EvaluateAssertions checks every assertion against result and returns the
// failure messages.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	for _, a := range assertions {
		if err := evaluate(result, a); err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}

func evaluate(r *Result, a Assertion) error {
	switch a.Type {
	case AssertBalance:
		return compareFloat(a.Type, *a.Value, r.Balance)
	case AssertBanked:
		return compareFloat(a.Type, *a.Value, r.Banked)
	case AssertParty:
		if want, got := a.Troops.String(), r.Party.String(); want != got {
			return &AssertionError{Type: a.Type, Expected: want, Actual: got}
		}
	case AssertToastContains:
		for _, t := range r.Toasts {
			if strings.Contains(t, a.Text) {
				return nil
			}
		}
		return &AssertionError{Type: a.Type, Expected: fmt.Sprintf("a toast containing %q", a.Text), Actual: fmt.Sprintf("%q", r.Toasts)}
	case AssertJournalKinds:
		got := make([]string, len(r.Journal))
		for i, e := range r.Journal {
			got[i] = e.Kind
		}
		if strings.Join(got, ",") != strings.Join(a.Kinds, ",") {
			return &AssertionError{Type: a.Type, Expected: fmt.Sprint(a.Kinds), Actual: fmt.Sprint(got)}
		}
	case AssertJournalCount:
		n := 0
		for _, e := range r.Journal {
			if e.Kind == a.Kind {
				n++
			}
		}
		if n != a.Count {
			return &AssertionError{Type: a.Type, Expected: fmt.Sprintf("%d %s entries", a.Count, a.Kind), Actual: fmt.Sprintf("%d", n)}
		}
	case AssertInstalled:
		if *a.Installed != r.Installed {
			return &AssertionError{Type: a.Type, Expected: fmt.Sprint(*a.Installed), Actual: fmt.Sprint(r.Installed)}
		}
	default:
		return &AssertionError{Type: a.Type, Expected: "a known assertion type", Actual: a.Type}
	}
	return nil
}

func compareFloat(typ string, want, got float64) error {
	if want != got {
		return &AssertionError{Type: typ, Expected: formatFloat(want), Actual: formatFloat(got)}
	}
	return nil
}
