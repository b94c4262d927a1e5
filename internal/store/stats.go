package store

// Stats is a point-in-time census of the store.
type Stats struct {
	Total   int `json:"total"`
	Expired int `json:"expired"`
	Active  int `json:"active"`
}

// Stats counts records without mutating or persisting anything. Expired
// records still count toward Total until a prune removes them.
func (s *Store) Stats() Stats {
	now := nowEpoch()

	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{Total: len(s.records)}
	for _, rec := range s.records {
		if rec.Expired(now) {
			st.Expired++
		}
	}
	st.Active = st.Total - st.Expired
	return st
}
