package store

import (
	"math"
	"testing"

	"github.com/mnemo-dev/mnemo/internal/model"
	"github.com/mnemo-dev/mnemo/internal/token"
)

func TestWeightsSumToOne(t *testing.T) {
	if sum := overlapWeight + recencyWeight + importanceWeight; math.Abs(sum-1.0) > 1e-9 {
		t.Fatalf("weights sum to %v, want 1.0", sum)
	}
}

func TestJaccard(t *testing.T) {
	tests := []struct {
		name   string
		query  []string
		record []string
		want   float64
	}{
		{"identical", []string{"a", "b"}, []string{"a", "b"}, 1.0},
		{"disjoint", []string{"a", "b"}, []string{"c", "d"}, 0.0},
		{"half overlap", []string{"a", "b"}, []string{"b", "c"}, 1.0 / 3.0},
		{"record empty scores zero", []string{"a"}, nil, 0.0},
		{"query empty", nil, []string{"a", "b"}, 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := jaccard(tokenSet(tt.query), tt.record)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("jaccard = %v, want %v", got, tt.want)
			}
		})
	}
}

// Recency decays from last_access, not created_at. A record that keeps being
// recalled stays buoyant even if it was written long ago — that reinforcement
// is the intended behavior, not a staleness bug.
func TestRecencyFollowsLastAccess(t *testing.T) {
	now := nowEpoch()
	tokens := token.Normalize("identical text for both")

	old := &model.Record{
		Tokens:     tokens,
		Importance: 0.5,
		CreatedAt:  now - 365*24*3600, // a year old...
		LastAccess: now - 60,          // ...but recalled a minute ago
	}
	fresh := &model.Record{
		Tokens:     tokens,
		Importance: 0.5,
		CreatedAt:  now - 3600, // an hour old...
		LastAccess: now - 30*24*3600, // ...never recalled in a month
	}

	q := tokenSet(token.Normalize("identical text"))
	if score(q, old, now) <= score(q, fresh, now) {
		t.Error("recently accessed record should outscore recently created one")
	}
}

func TestScoreMonotonicInRecency(t *testing.T) {
	now := nowEpoch()
	tokens := []string{"alpha", "beta"}

	recent := &model.Record{Tokens: tokens, Importance: 0.5, LastAccess: now - 3600}
	stale := &model.Record{Tokens: tokens, Importance: 0.5, LastAccess: now - 20*24*3600}

	q := tokenSet([]string{"alpha"})
	if score(q, recent, now) < score(q, stale, now) {
		t.Error("with identical overlap and importance, more recent access must score >=")
	}
}

func TestRecencyHalfLife(t *testing.T) {
	now := nowEpoch()
	rec := &model.Record{Importance: 0, LastAccess: now - recencyHalfLife}

	// No tokens, zero importance: the score is the recency term alone.
	got := score(tokenSet(nil), rec, now)
	want := recencyWeight * 0.5
	if math.Abs(got-want) > 1e-6 {
		t.Errorf("score at one half-life = %v, want %v", got, want)
	}
}

func TestScoreUsesImportanceAsIs(t *testing.T) {
	now := nowEpoch()
	low := &model.Record{Tokens: []string{"x"}, Importance: 0.1, LastAccess: now}
	high := &model.Record{Tokens: []string{"x"}, Importance: 0.9, LastAccess: now}

	q := tokenSet([]string{"x"})
	diff := score(q, high, now) - score(q, low, now)
	if math.Abs(diff-importanceWeight*0.8) > 1e-9 {
		t.Errorf("importance contribution = %v, want %v", diff, importanceWeight*0.8)
	}
}
