package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/mnemo-dev/mnemo/internal/model"
)

// load reads the document at s.path. A missing file is not an error: the
// store starts empty and writes an empty document right away so the path is
// valid from the first moment. An unparseable file is preserved as a
// timestamped backup before the store starts empty — never silent data loss.
func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return s.flush()
	}
	if err != nil {
		return fmt.Errorf("read store: %w", err)
	}

	var records map[string]*model.Record
	if err := json.Unmarshal(data, &records); err != nil {
		backup := fmt.Sprintf("%s.corrupt-%d", s.path, time.Now().Unix())
		if werr := os.WriteFile(backup, data, 0o644); werr != nil {
			slog.Warn("could not back up corrupt store", "path", s.path, "err", werr)
			backup = ""
		}
		slog.Warn("store document unreadable, starting empty",
			"path", s.path, "backup", backup, "err", err)
		return nil
	}

	for id, rec := range records {
		if rec == nil {
			delete(records, id)
			continue
		}
		if rec.Meta == nil {
			rec.Meta = map[string]any{}
		}
	}
	s.records = records
	return nil
}

// flush serializes the whole map to a temp file in the document's directory
// and renames it over the destination. Readers of the path only ever see the
// previous complete state or the new one.
func (s *Store) flush() error {
	data, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp store: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp store: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync temp store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp store: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace store: %w", err)
	}
	return nil
}

// persist flushes when autosave is on. Callers hold the write lock.
func (s *Store) persist() error {
	if !s.autosave {
		return nil
	}
	return s.flush()
}

// Save writes the document regardless of the autosave setting. This is the
// batch path when autosave is disabled.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flush()
}
