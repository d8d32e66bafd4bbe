package capability

import (
	"strings"

	"github.com/roach88/necroqol/internal/coerce"
)

func containsFold(s, token string) bool {
	if token == "" {
		return false
	}
	return strings.Contains(coerce.Fold(s), coerce.Fold(token))
}

func anyContained(s string, tokens []string) bool {
	for _, t := range tokens {
		if containsFold(s, t) {
			return true
		}
	}
	return false
}
