// Package model defines the core memory record type and its on-disk shape.
package model

import "time"

// Record is one remembered statement. The JSON field set is the on-disk
// document format: a store file is a single object mapping id -> Record.
// Timestamps are epoch seconds so the file stays inspectable by external
// tooling without a date parser.
type Record struct {
	ID         string         `json:"id"`
	Text       string         `json:"text"`
	Tokens     []string       `json:"tokens"`
	Tags       []string       `json:"tags"` // sorted, lowercase, unique
	Importance float64        `json:"importance"`
	CreatedAt  float64        `json:"created_at"`
	LastAccess float64        `json:"last_access"`
	TTLSeconds *int64         `json:"ttl_seconds"` // nil = never expires
	Meta       map[string]any `json:"meta"`
}

// Expired reports whether the record's TTL has elapsed at the given time
// (epoch seconds). TTL is measured from creation and is never reset by
// access.
func (r *Record) Expired(now float64) bool {
	if r.TTLSeconds == nil {
		return false
	}
	return now-r.CreatedAt > float64(*r.TTLSeconds)
}

// Clone returns a value-semantic copy. Read operations hand out clones so
// callers cannot corrupt store state by mutating results in place.
func (r *Record) Clone() Record {
	c := *r
	if r.Tokens != nil {
		c.Tokens = append([]string(nil), r.Tokens...)
	}
	if r.Tags != nil {
		c.Tags = append([]string(nil), r.Tags...)
	}
	if r.Meta != nil {
		c.Meta = make(map[string]any, len(r.Meta))
		for k, v := range r.Meta {
			c.Meta[k] = v
		}
	}
	if r.TTLSeconds != nil {
		ttl := *r.TTLSeconds
		c.TTLSeconds = &ttl
	}
	return c
}

// CreatedTime converts the creation stamp to a time.Time.
func (r *Record) CreatedTime() time.Time {
	return epochToTime(r.CreatedAt)
}

// LastAccessTime converts the last-access stamp to a time.Time.
func (r *Record) LastAccessTime() time.Time {
	return epochToTime(r.LastAccess)
}

func epochToTime(sec float64) time.Time {
	whole := int64(sec)
	frac := sec - float64(whole)
	return time.Unix(whole, int64(frac*float64(time.Second)))
}
