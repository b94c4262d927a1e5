package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/mnemo-dev/mnemo/internal/model"
)

// Archive is a SQLite tombstone log for removed memories. The live document
// hard-deletes; the archive keeps what was removed, when, and why, so a
// forget or prune is auditable after the fact.
type Archive struct {
	db *sql.DB
}

// Tombstone is one archived removal.
type Tombstone struct {
	ID         string         `json:"id"`
	Text       string         `json:"text"`
	Tags       []string       `json:"tags,omitempty"`
	Importance float64        `json:"importance"`
	CreatedAt  float64        `json:"created_at"`
	LastAccess float64        `json:"last_access"`
	TTLSeconds *int64         `json:"ttl_seconds,omitempty"`
	Meta       map[string]any `json:"meta,omitempty"`
	RemovedAt  float64        `json:"removed_at"`
	Reason     string         `json:"reason"` // forget | forget_where | prune
}

// OpenArchive opens or creates the tombstone database at the given path.
func OpenArchive(path string) (*Archive, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create archive dir: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)")
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	a := &Archive{db: db}
	if err := a.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate archive: %w", err)
	}
	return a, nil
}

func (a *Archive) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS tombstones (
		id          TEXT PRIMARY KEY,
		text        TEXT NOT NULL,
		tags        TEXT,
		importance  REAL NOT NULL,
		created_at  REAL NOT NULL,
		last_access REAL NOT NULL,
		ttl_seconds INTEGER,
		meta        TEXT,
		removed_at  REAL NOT NULL,
		reason      TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_tombstones_removed ON tombstones(removed_at DESC);
	CREATE INDEX IF NOT EXISTS idx_tombstones_reason ON tombstones(reason);
	`
	_, err := a.db.Exec(schema)
	return err
}

// Put records a removal. Replaying a removal for the same id overwrites the
// earlier tombstone.
func (a *Archive) Put(rec *model.Record, reason string) error {
	var tagsJSON *string
	if len(rec.Tags) > 0 {
		b, _ := json.Marshal(rec.Tags)
		s := string(b)
		tagsJSON = &s
	}
	var metaJSON *string
	if len(rec.Meta) > 0 {
		b, _ := json.Marshal(rec.Meta)
		s := string(b)
		metaJSON = &s
	}

	_, err := a.db.Exec(
		`INSERT OR REPLACE INTO tombstones
		 (id, text, tags, importance, created_at, last_access, ttl_seconds, meta, removed_at, reason)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Text, tagsJSON, rec.Importance, rec.CreatedAt, rec.LastAccess,
		rec.TTLSeconds, metaJSON, nowEpoch(), reason)
	if err != nil {
		return fmt.Errorf("insert tombstone: %w", err)
	}
	return nil
}

// List returns tombstones, most recently removed first.
func (a *Archive) List(limit int) ([]Tombstone, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := a.db.Query(
		`SELECT id, text, tags, importance, created_at, last_access, ttl_seconds, meta, removed_at, reason
		 FROM tombstones ORDER BY removed_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Tombstone
	for rows.Next() {
		var (
			t                  Tombstone
			tagsJSON, metaJSON sql.NullString
			ttl                sql.NullInt64
		)
		err := rows.Scan(&t.ID, &t.Text, &tagsJSON, &t.Importance, &t.CreatedAt,
			&t.LastAccess, &ttl, &metaJSON, &t.RemovedAt, &t.Reason)
		if err != nil {
			return nil, err
		}
		if tagsJSON.Valid {
			json.Unmarshal([]byte(tagsJSON.String), &t.Tags)
		}
		if metaJSON.Valid {
			json.Unmarshal([]byte(metaJSON.String), &t.Meta)
		}
		if ttl.Valid {
			v := ttl.Int64
			t.TTLSeconds = &v
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Count returns the number of tombstones.
func (a *Archive) Count() (int, error) {
	var n int
	err := a.db.QueryRow(`SELECT COUNT(*) FROM tombstones`).Scan(&n)
	return n, err
}

// Close closes the underlying database.
func (a *Archive) Close() error {
	return a.db.Close()
}
