package store

import (
	"math"

	"github.com/mnemo-dev/mnemo/internal/model"
)

// Relevance weights. Calibrated constants, not caller-configurable; they sum
// to 1.0 so scores stay comparable across queries.
const (
	overlapWeight    = 0.55
	recencyWeight    = 0.25
	importanceWeight = 0.20
)

// recencyHalfLife is the interval over which a record's recency contribution
// halves without access.
const recencyHalfLife = 10 * 24 * 3600.0 // seconds

// score ranks a record against a query token set at the given time.
//
// Recency decays from last_access, not created_at: a record that keeps
// getting recalled stays buoyant however old it is. That reinforcement is
// deliberate.
func score(queryTokens map[string]bool, rec *model.Record, now float64) float64 {
	overlap := jaccard(queryTokens, rec.Tokens)

	age := now - rec.LastAccess
	if age < 1 {
		age = 1
	}
	recency := math.Pow(0.5, age/recencyHalfLife)

	return overlapWeight*overlap + recencyWeight*recency + importanceWeight*rec.Importance
}

// jaccard computes |q ∩ r| / |q ∪ r| over the two term sets. A record with
// no tokens scores zero.
func jaccard(query map[string]bool, recTokens []string) float64 {
	if len(recTokens) == 0 {
		return 0
	}
	inter := 0
	union := len(query)
	for _, t := range recTokens {
		if query[t] {
			inter++
		} else {
			union++
		}
	}
	if union < 1 {
		union = 1
	}
	return float64(inter) / float64(union)
}

// tokenSet converts an ordered token list into a membership set.
func tokenSet(tokens []string) map[string]bool {
	set := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		set[t] = true
	}
	return set
}
