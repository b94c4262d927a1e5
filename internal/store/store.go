// Package store implements the associative memory store: CRUD plus ranked
// recall over a JSON document persisted with atomic replace.
package store

import (
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/mnemo-dev/mnemo/internal/model"
	"github.com/mnemo-dev/mnemo/internal/token"
)

// DefaultImportance is used when RememberParams.Importance is nil.
const DefaultImportance = 0.5

// Options configures a Store at open time.
type Options struct {
	// DisableAutosave defers all writes to explicit Save() calls.
	DisableAutosave bool
	// ArchivePath, when set, opens a SQLite tombstone archive that records
	// every removed memory.
	ArchivePath string
}

// Store owns the in-memory record map and drives persistence. A single
// RWMutex guards both the map and the write-then-rename step: every mutation
// already pays a full-document write, so finer locking buys nothing.
type Store struct {
	mu       sync.RWMutex
	path     string
	autosave bool
	records  map[string]*model.Record
	archive  *Archive
	entropy  *rand.Rand
}

// Open loads the document at path if it exists, otherwise starts empty and
// immediately writes an empty document.
func Open(path string, opts Options) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}

	s := &Store{
		path:     path,
		autosave: !opts.DisableAutosave,
		records:  map[string]*model.Record{},
		entropy:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	if err := s.load(); err != nil {
		return nil, err
	}

	if opts.ArchivePath != "" {
		a, err := OpenArchive(opts.ArchivePath)
		if err != nil {
			return nil, fmt.Errorf("open archive: %w", err)
		}
		s.archive = a
	}
	return s, nil
}

// Close closes the tombstone archive, if any. The document itself needs no
// teardown; with autosave off, call Save first.
func (s *Store) Close() error {
	if s.archive == nil {
		return nil
	}
	return s.archive.Close()
}

// Path returns the document path the store was opened with.
func (s *Store) Path() string { return s.path }

// Archive returns the tombstone archive, or nil when none is configured.
func (s *Store) Archive() *Archive { return s.archive }

func (s *Store) newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

func nowEpoch() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Second)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// normalizeTags lowercases, dedupes, and sorts tag labels.
func normalizeTags(tags []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// RememberParams holds parameters for storing a memory.
type RememberParams struct {
	Text       string
	Tags       []string
	Importance *float64      // nil means DefaultImportance; clamped to [0,1]
	TTL        time.Duration // 0 means never expires
	Meta       map[string]any
}

// Remember inserts a new record and returns its id. It never fails on
// well-formed input; the only error source is persistence.
func (s *Store) Remember(p RememberParams) (string, error) {
	importance := DefaultImportance
	if p.Importance != nil {
		importance = *p.Importance
	}

	var ttl *int64
	if p.TTL > 0 {
		secs := int64(p.TTL / time.Second)
		ttl = &secs
	}

	meta := p.Meta
	if meta == nil {
		meta = map[string]any{}
	}

	now := nowEpoch()
	rec := &model.Record{
		ID:         s.newID(),
		Text:       strings.TrimSpace(p.Text),
		Tokens:     token.Normalize(p.Text),
		Tags:       normalizeTags(p.Tags),
		Importance: clamp01(importance),
		CreatedAt:  now,
		LastAccess: now,
		TTLSeconds: ttl,
		Meta:       meta,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[rec.ID] = rec
	if err := s.persist(); err != nil {
		return "", err
	}
	return rec.ID, nil
}

// UpdateParams holds field-level changes. Nil fields are left unchanged.
type UpdateParams struct {
	Text       *string
	Tags       []string       // nil = unchanged; empty slice clears
	Importance *float64       // re-clamped to [0,1]
	TTL        *time.Duration // 0 clears the expiry
	Meta       map[string]any // nil = unchanged
}

// Update applies field changes to a record. Changing Text recomputes the
// token set. Returns false (no error) for an unknown id.
func (s *Store) Update(id string, p UpdateParams) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		return false, nil
	}

	if p.Text != nil {
		rec.Text = strings.TrimSpace(*p.Text)
		rec.Tokens = token.Normalize(rec.Text)
	}
	if p.Tags != nil {
		rec.Tags = normalizeTags(p.Tags)
	}
	if p.Importance != nil {
		rec.Importance = clamp01(*p.Importance)
	}
	if p.TTL != nil {
		if *p.TTL > 0 {
			secs := int64(*p.TTL / time.Second)
			rec.TTLSeconds = &secs
		} else {
			rec.TTLSeconds = nil
		}
	}
	if p.Meta != nil {
		rec.Meta = p.Meta
	}

	if err := s.persist(); err != nil {
		return true, err
	}
	return true, nil
}

// Forget removes a record. Returns false if the id is unknown.
func (s *Store) Forget(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		return false, nil
	}
	s.tombstone(rec, "forget")
	delete(s.records, id)
	if err := s.persist(); err != nil {
		return true, err
	}
	return true, nil
}

// ForgetWhereParams holds predicates for bulk removal. Supplied predicates
// are ANDed; with neither supplied every record matches.
type ForgetWhereParams struct {
	Tag      string // tag membership
	Contains string // case-insensitive substring of text
}

// ForgetWhere removes every record matching all supplied predicates and
// returns the number removed.
func (s *Store) ForgetWhere(p ForgetWhereParams) (int, error) {
	tag := strings.ToLower(p.Tag)
	needle := strings.ToLower(p.Contains)

	s.mu.Lock()
	defer s.mu.Unlock()

	var doomed []string
	for id, rec := range s.records {
		if tag != "" && !hasTag(rec, tag) {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(rec.Text), needle) {
			continue
		}
		doomed = append(doomed, id)
	}
	for _, id := range doomed {
		s.tombstone(s.records[id], "forget_where")
		delete(s.records, id)
	}
	if len(doomed) > 0 {
		if err := s.persist(); err != nil {
			return len(doomed), err
		}
	}
	return len(doomed), nil
}

// Get returns a copy of a record by id.
func (s *Store) Get(id string) (model.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return model.Record{}, false
	}
	return rec.Clone(), true
}

// All returns copies of every record, oldest first. Used by list/export.
func (s *Store) All() []model.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Record, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt < out[j].CreatedAt
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// PruneExpired removes every record whose TTL has elapsed and returns the
// count. Expiration is cooperative: nothing is removed until this runs.
func (s *Store) PruneExpired() (int, error) {
	now := nowEpoch()

	s.mu.Lock()
	defer s.mu.Unlock()

	var doomed []string
	for id, rec := range s.records {
		if rec.Expired(now) {
			doomed = append(doomed, id)
		}
	}
	for _, id := range doomed {
		s.tombstone(s.records[id], "prune")
		delete(s.records, id)
	}
	if len(doomed) > 0 {
		if err := s.persist(); err != nil {
			return len(doomed), err
		}
	}
	return len(doomed), nil
}

// tombstone archives a record about to be removed. Best-effort: the archive
// is an audit trail, not a durability requirement, so a failure logs a
// warning instead of blocking the removal.
func (s *Store) tombstone(rec *model.Record, reason string) {
	if s.archive == nil {
		return
	}
	if err := s.archive.Put(rec, reason); err != nil {
		slog.Warn("archive write failed", "id", rec.ID, "reason", reason, "err", err)
	}
}

func hasTag(rec *model.Record, tag string) bool {
	for _, t := range rec.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
