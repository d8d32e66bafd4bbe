package coerce

import (
	"fmt"
	"reflect"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Fold normalizes s for case-insensitive comparison: NFC, then Unicode case
// folding.
func Fold(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}

// ContainsFold reports whether s contains token, ignoring case.
func ContainsFold(s, token string) bool {
	return strings.Contains(Fold(s), Fold(token))
}

// ContainsAll reports whether s contains every token, ignoring case. An empty
// token list never matches.
func ContainsAll(s string, tokens []string) bool {
	if len(tokens) == 0 {
		return false
	}
	f := Fold(s)
	for _, t := range tokens {
		if !strings.Contains(f, Fold(t)) {
			return false
		}
	}
	return true
}

// idAccessors are tried in priority order when deriving a textual identifier.
var idAccessors = []string{"StringID", "StringId", "ID", "Id", "Name"}

// TextualID returns an identifier for v: the first non-empty string accessor
// among StringID, StringId, ID, Id and Name, else the default formatting.
func TextualID(v any) string {
	if v == nil {
		return ""
	}
	return textualID(reflect.ValueOf(v))
}

func textualID(v reflect.Value) string {
	if !v.IsValid() {
		return ""
	}
	for _, name := range idAccessors {
		if s, ok := stringAccessor(v, name); ok && s != "" {
			return s
		}
	}
	if v.CanInterface() {
		return fmt.Sprint(v.Interface())
	}
	return v.String()
}

func stringAccessor(v reflect.Value, name string) (string, bool) {
	out, ok := accessor(v, name)
	if !ok {
		return "", false
	}
	out = deref(out)
	if !out.IsValid() || out.Kind() != reflect.String {
		return "", false
	}
	return out.String(), true
}
