package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mnemo-dev/mnemo/internal/model"
	"github.com/mnemo-dev/mnemo/internal/store"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
		"uptime":  time.Since(s.started).Seconds(),
		"path":    s.store.Path(),
		"stats":   s.store.Stats(),
	})
}

func (s *Server) handleRemember(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text       string         `json:"text"`
		Tags       []string       `json:"tags"`
		Importance *float64       `json:"importance"`
		TTLSeconds *int64         `json:"ttl_seconds"`
		Meta       map[string]any `json:"meta"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text required")
		return
	}

	var ttl time.Duration
	if req.TTLSeconds != nil {
		ttl = time.Duration(*req.TTLSeconds) * time.Second
	}

	id, err := s.store.Remember(store.RememberParams{
		Text:       req.Text,
		Tags:       req.Tags,
		Importance: req.Importance,
		TTL:        ttl,
		Meta:       req.Meta,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	rec, _ := s.store.Get(id)
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, ok := s.store.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "memory not found")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req struct {
		Text       *string        `json:"text"`
		Tags       []string       `json:"tags"`
		Importance *float64       `json:"importance"`
		TTLSeconds *int64         `json:"ttl_seconds"`
		Meta       map[string]any `json:"meta"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	var ttl *time.Duration
	if req.TTLSeconds != nil {
		d := time.Duration(*req.TTLSeconds) * time.Second
		ttl = &d
	}

	ok, err := s.store.Update(id, store.UpdateParams{
		Text:       req.Text,
		Tags:       req.Tags,
		Importance: req.Importance,
		TTL:        ttl,
		Meta:       req.Meta,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "memory not found")
		return
	}

	rec, _ := s.store.Get(id)
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleForget(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ok, err := s.store.Forget(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "memory not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"forgotten": true, "id": id})
}

func (s *Server) handleForgetWhere(w http.ResponseWriter, r *http.Request) {
	tag := r.URL.Query().Get("tag")
	contains := r.URL.Query().Get("contains")
	if tag == "" && contains == "" {
		// Refuse the everything-matches case over HTTP.
		writeError(w, http.StatusBadRequest, "at least one of tag or contains is required")
		return
	}

	n, err := s.store.ForgetWhere(store.ForgetWhereParams{Tag: tag, Contains: contains})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"forgotten": n})
}

func (s *Server) handleRecall(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	k := 0
	if v := q.Get("k"); v != "" {
		var err error
		k, err = strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid k")
			return
		}
	}

	touch := true
	if v := q.Get("touch"); v != "" {
		touch = v != "false" && v != "0"
	}

	records, err := s.store.Recall(store.RecallParams{
		Query:          q.Get("q"),
		K:              k,
		AnyTag:         splitParam(q.Get("any_tag")),
		MustTags:       splitParam(q.Get("must_tag")),
		IncludeExpired: q.Get("include_expired") == "true",
		NoTouch:        !touch,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if records == nil {
		records = []model.Record{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handlePrune(w http.ResponseWriter, r *http.Request) {
	n, err := s.store.PruneExpired()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"pruned": n})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Stats())
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Save(); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"saved": true})
}

func splitParam(v string) []string {
	if v == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
