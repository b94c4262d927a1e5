package store

import (
	"sort"

	"github.com/mnemo-dev/mnemo/internal/model"
	"github.com/mnemo-dev/mnemo/internal/token"
)

// DefaultRecallK is used when RecallParams.K is zero or negative.
const DefaultRecallK = 5

// RecallParams holds parameters for ranked retrieval.
type RecallParams struct {
	Query          string
	K              int      // <= 0 means DefaultRecallK
	AnyTag         []string // keep records sharing at least one of these tags
	MustTags       []string // keep records carrying all of these tags
	IncludeExpired bool
	NoTouch        bool // skip the last_access refresh on returned records
}

// Recall returns the top-k records most relevant to the query, best first.
// Unless NoTouch is set, returned records get their last_access refreshed and
// that change is persisted — a read that writes. The returned records are
// copies; mutate them freely, the store is unaffected.
func (s *Store) Recall(p RecallParams) ([]model.Record, error) {
	k := p.K
	if k <= 0 {
		k = DefaultRecallK
	}
	qtokens := tokenSet(token.Normalize(p.Query))
	anyTag := normalizeTags(p.AnyTag)
	mustTags := normalizeTags(p.MustTags)
	now := nowEpoch()

	// A touching recall mutates shared state, so it takes the write lock up
	// front rather than upgrading later.
	if p.NoTouch {
		s.mu.RLock()
		defer s.mu.RUnlock()
	} else {
		s.mu.Lock()
		defer s.mu.Unlock()
	}

	type candidate struct {
		rec   *model.Record
		score float64
	}
	var candidates []candidate
	for _, rec := range s.records {
		if !p.IncludeExpired && rec.Expired(now) {
			continue
		}
		if len(mustTags) > 0 && !hasAllTags(rec, mustTags) {
			continue
		}
		if len(anyTag) > 0 && !hasAnyTag(rec, anyTag) {
			continue
		}
		candidates = append(candidates, candidate{rec, score(qtokens, rec, now)})
	}

	// Ties break by creation stamp, then id. Both survive the document
	// round-trip, so the order is deterministic across restarts — which the
	// in-memory map's iteration order is not.
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		if candidates[i].rec.CreatedAt != candidates[j].rec.CreatedAt {
			return candidates[i].rec.CreatedAt < candidates[j].rec.CreatedAt
		}
		return candidates[i].rec.ID < candidates[j].rec.ID
	})

	if len(candidates) > k {
		candidates = candidates[:k]
	}

	if !p.NoTouch && len(candidates) > 0 {
		ts := nowEpoch()
		for _, c := range candidates {
			c.rec.LastAccess = ts
		}
		if err := s.persist(); err != nil {
			return nil, err
		}
	}

	out := make([]model.Record, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.rec.Clone())
	}
	return out, nil
}

func hasAllTags(rec *model.Record, tags []string) bool {
	for _, t := range tags {
		if !hasTag(rec, t) {
			return false
		}
	}
	return true
}

func hasAnyTag(rec *model.Record, tags []string) bool {
	for _, t := range tags {
		if hasTag(rec, t) {
			return true
		}
	}
	return false
}
