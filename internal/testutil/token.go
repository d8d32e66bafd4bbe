package testutil

import "github.com/roach88/necroqol/internal/engine"

// FixedTokenGenerator returns the same session token every time.
//
// Unlike engine.FixedGenerator, which hands out tokens in sequence and
// panics when exhausted, this generator never runs out. Scenario runs use it
// so that journals and golden snapshots are byte-identical across runs.
//
// Thread-safety: FixedTokenGenerator is stateless and safe for concurrent use.
type FixedTokenGenerator struct {
	token string
}

var _ engine.TokenGenerator = (*FixedTokenGenerator)(nil)

// NewFixedTokenGenerator creates a fixed generator. An empty token becomes
// "test-session-default".
func NewFixedTokenGenerator(token string) *FixedTokenGenerator {
	if token == "" {
		token = "test-session-default"
	}
	return &FixedTokenGenerator{token: token}
}

// Generate returns the fixed token.
func (g *FixedTokenGenerator) Generate() string {
	return g.token
}
