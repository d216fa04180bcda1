// Package match classifies how well a candidate item name matches a query.
// It is a stateless set of pure functions over fields precomputed at
// ingestion time, so per-query cost is a handful of string scans.
package match

import (
	"strings"

	"github.com/lexandro/launchdex/catalog"
)

// Tier is a discrete match-quality classification. Lower values are more
// exact and rank first.
type Tier int

const (
	TierExact    Tier = iota // lowercase name equals the query
	TierPrefix               // lowercase name starts with the query
	TierContains             // lowercase name contains the query
	TierPhonetic             // query matches the phonetic acronym or rendering
	TierNoMatch
)

// String returns the tier name for logging and test output.
func (t Tier) String() string {
	switch t {
	case TierExact:
		return "exact"
	case TierPrefix:
		return "prefix"
	case TierContains:
		return "contains"
	case TierPhonetic:
		return "phonetic"
	default:
		return "nomatch"
	}
}

// Classify returns the best tier at which the item matches lowerQuery.
// lowerQuery must already be lowercased; queryASCII must report whether it
// is pure ASCII. The phonetic comparison is only attempted when the item
// carries phonetic fields and the query is ASCII: a non-ASCII query cannot
// sensibly match a Latin transliteration, and items with ASCII names have
// no phonetic fields at all.
func Classify(it *catalog.Item, lowerQuery string, queryASCII bool) Tier {
	switch {
	case it.LowerName == lowerQuery:
		return TierExact
	case strings.HasPrefix(it.LowerName, lowerQuery):
		return TierPrefix
	case strings.Contains(it.LowerName, lowerQuery):
		return TierContains
	}

	if it.Phonetic == nil || !queryASCII {
		return TierNoMatch
	}
	if strings.Contains(it.Phonetic.Acronym, lowerQuery) ||
		strings.Contains(it.Phonetic.Full, lowerQuery) {
		return TierPhonetic
	}
	return TierNoMatch
}

// IsASCII reports whether s contains only ASCII bytes.
func IsASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}
