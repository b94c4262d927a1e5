package store

import (
	"sort"
	"testing"

	"github.com/mnemo-dev/mnemo/internal/model"
)

func TestRecallExactText(t *testing.T) {
	s := newTestStore(t)

	id, _ := s.Remember(RememberParams{Text: "the sky was purple last night"})

	got, err := s.Recall(RecallParams{Query: "the sky was purple last night", K: 1})
	if err != nil {
		t.Fatalf("recall: %v", err)
	}
	if len(got) != 1 || got[0].ID != id {
		t.Fatalf("expected the remembered record back, got %v", got)
	}
}

func TestRecallRanksByOverlap(t *testing.T) {
	s := newTestStore(t)

	codename, _ := s.Remember(RememberParams{
		Text:       "Project codename is 42",
		Tags:       []string{"project"},
		Importance: f64(0.9),
	})
	s.Remember(RememberParams{
		Text:       "User prefers dark mode",
		Tags:       []string{"preference"},
		Importance: f64(0.5),
	})

	got, _ := s.Recall(RecallParams{Query: "what is the project codename", K: 1})
	if len(got) != 1 {
		t.Fatalf("got %d records", len(got))
	}
	if got[0].ID != codename {
		t.Errorf("top hit = %q, want the codename record", got[0].Text)
	}
}

func TestRecallTruncatesToK(t *testing.T) {
	s := newTestStore(t)

	for i := 0; i < 10; i++ {
		s.Remember(RememberParams{Text: "common words everywhere"})
	}

	got, _ := s.Recall(RecallParams{Query: "common words", K: 3})
	if len(got) != 3 {
		t.Errorf("returned %d, want 3", len(got))
	}
}

func TestRecallDefaultK(t *testing.T) {
	s := newTestStore(t)

	for i := 0; i < 10; i++ {
		s.Remember(RememberParams{Text: "repeated filler text"})
	}

	got, _ := s.Recall(RecallParams{Query: "filler"})
	if len(got) != DefaultRecallK {
		t.Errorf("returned %d, want default %d", len(got), DefaultRecallK)
	}
}

func TestRecallTagFilters(t *testing.T) {
	s := newTestStore(t)

	both, _ := s.Remember(RememberParams{Text: "shared topic", Tags: []string{"work", "urgent"}})
	workOnly, _ := s.Remember(RememberParams{Text: "shared topic", Tags: []string{"work"}})
	s.Remember(RememberParams{Text: "shared topic", Tags: []string{"home"}})

	got, _ := s.Recall(RecallParams{Query: "topic", MustTags: []string{"work", "urgent"}})
	if len(got) != 1 || got[0].ID != both {
		t.Errorf("must_tags superset filter failed: %v", ids(got))
	}

	got, _ = s.Recall(RecallParams{Query: "topic", AnyTag: []string{"work", "urgent"}})
	if len(got) != 2 {
		t.Errorf("any_tag intersection filter returned %d, want 2", len(got))
	}

	// Both filters AND together.
	got, _ = s.Recall(RecallParams{Query: "topic", AnyTag: []string{"urgent", "home"}, MustTags: []string{"work"}})
	if len(got) != 1 || got[0].ID != both {
		t.Errorf("combined filters failed: %v", ids(got))
	}

	_ = workOnly
}

func TestRecallTouchRefreshesLastAccess(t *testing.T) {
	s := newTestStore(t)

	hit, _ := s.Remember(RememberParams{Text: "touched on recall"})
	miss, _ := s.Remember(RememberParams{Text: "unrelated other thing"})

	// Backdate both so a refresh is observable.
	s.records[hit].LastAccess -= 1000
	s.records[miss].LastAccess -= 1000

	before := s.records[hit].LastAccess

	got, _ := s.Recall(RecallParams{Query: "touched recall", K: 1})
	if len(got) != 1 || got[0].ID != hit {
		t.Fatalf("unexpected recall result: %v", ids(got))
	}
	if got[0].LastAccess <= before {
		t.Error("returned record's last_access not refreshed")
	}
	if s.records[hit].LastAccess <= before {
		t.Error("stored record's last_access not refreshed")
	}
	if s.records[miss].LastAccess != before {
		t.Error("non-returned record should keep its last_access")
	}

	// The touch is persisted: a fresh store sees the refreshed stamp.
	reopened, err := Open(s.path, Options{})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	rec, _ := reopened.Get(hit)
	if rec.LastAccess <= before {
		t.Error("touch was not persisted")
	}
}

func TestRecallNoTouch(t *testing.T) {
	s := newTestStore(t)

	id, _ := s.Remember(RememberParams{Text: "left alone"})
	s.records[id].LastAccess -= 1000
	before := s.records[id].LastAccess

	got, _ := s.Recall(RecallParams{Query: "left alone", NoTouch: true})
	if len(got) != 1 {
		t.Fatal("expected a hit")
	}
	if s.records[id].LastAccess != before {
		t.Error("no-touch recall must not refresh last_access")
	}
}

// Repeated recall keeps refreshing last_access, so a frequently recalled
// record outranks an untouched twin written at the same time. Deliberate
// reinforcement, see the scorer.
func TestRecallReinforcement(t *testing.T) {
	s := newTestStore(t)

	favored, _ := s.Remember(RememberParams{Text: "alpha beta gamma", Tags: []string{"pin"}})
	neglected, _ := s.Remember(RememberParams{Text: "alpha beta gamma"})

	// Both start equally stale.
	s.records[favored].LastAccess -= 30 * 24 * 3600
	s.records[neglected].LastAccess -= 30 * 24 * 3600

	// Touch only the favored one (tags filter the candidates but never
	// change the score).
	s.Recall(RecallParams{Query: "alpha", K: 1, MustTags: []string{"pin"}})

	// Now it must rank first outright.
	got, _ := s.Recall(RecallParams{Query: "alpha beta gamma", K: 2, NoTouch: true})
	if len(got) != 2 {
		t.Fatalf("got %d records", len(got))
	}
	if got[0].ID != favored {
		t.Error("recalled record should outrank its untouched twin")
	}
	_ = neglected
}

func TestRecallTieBreakIsDeterministic(t *testing.T) {
	s := newTestStore(t)

	var want []string
	for i := 0; i < 5; i++ {
		id, _ := s.Remember(RememberParams{Text: "identical text every time"})
		want = append(want, id)
	}
	// Force exact score ties; the order then falls back to created_at/id.
	ts := nowEpoch()
	for _, id := range want {
		s.records[id].LastAccess = ts
		s.records[id].CreatedAt = ts
	}
	sort.Strings(want)

	for run := 0; run < 3; run++ {
		got, _ := s.Recall(RecallParams{Query: "identical text", K: 5, NoTouch: true})
		for i := range want {
			if got[i].ID != want[i] {
				t.Fatalf("run %d: order %v, want %v", run, ids(got), want)
			}
		}
	}
}

func TestRecallEmptyStore(t *testing.T) {
	s := newTestStore(t)

	got, err := s.Recall(RecallParams{Query: "anything"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("got %d from empty store", len(got))
	}
}

func ids(records []model.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}
