package coerce

import (
	"fmt"
	"math"
	"strings"
)

// Provenance records where an amount came from.
type Provenance string

const (
	ProvenanceBridge   Provenance = "bridge"
	ProvenanceFallback Provenance = "fallback"
)

// Amount is a canonical, non-negative resource amount for one subject.
type Amount struct {
	Value      float64    `json:"value"`
	Subject    string     `json:"subject"`
	Provenance Provenance `json:"provenance"`
}

// NewAmount builds an Amount, clamping negative and NaN values to zero.
func NewAmount(value float64, subject string, p Provenance) Amount {
	if math.IsNaN(value) || value < 0 {
		value = 0
	}
	if math.IsInf(value, 1) {
		value = math.MaxFloat64
	}
	return Amount{Value: value, Subject: subject, Provenance: p}
}

// Units floors the amount into a whole unit count.
func (a Amount) Units() int {
	if a.Value >= math.MaxInt32 {
		return math.MaxInt32
	}
	return int(math.Floor(a.Value))
}

// Add returns a + n under the same subject and provenance, clamped at zero.
func (a Amount) Add(n float64) Amount {
	return NewAmount(a.Value+n, a.Subject, a.Provenance)
}

func (a Amount) String() string {
	return fmt.Sprintf("%g %s (%s)", a.Value, a.Subject, a.Provenance)
}

// Subject identifies whose amount is wanted in a keyed result.
//
// A key matches when it is identical to Value, or when its folded textual
// identifier contains every token in Tokens.
type Subject struct {
	Value  any
	Tokens []string
	Label  string
}

func (s Subject) String() string {
	if s.Label != "" {
		return s.Label
	}
	if len(s.Tokens) > 0 {
		return strings.Join(s.Tokens, "-")
	}
	if s.Value != nil {
		return TextualID(s.Value)
	}
	return ""
}
