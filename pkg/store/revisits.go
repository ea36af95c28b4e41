package store

import (
	"encoding/json"
	"fmt"

	"plstrack/pkg/kv"
	"plstrack/pkg/logger"
)

const revisitsKey = "revisits"

// Revisits is the due-date schedule for revisit reminders: a single stored
// mapping of post id -> due timestamp (ms). Its key space is independent of
// the record index; a post may have a reminder without a record and vice
// versa.
type Revisits struct {
	kv kv.Store
}

func NewRevisits(s kv.Store) *Revisits {
	return &Revisits{kv: s}
}

// All returns the whole schedule. Missing or corrupt values read as empty.
func (q *Revisits) All() (map[string]int64, error) {
	out := map[string]int64{}
	v, ok, err := q.kv.Get(revisitsKey)
	if err != nil {
		return nil, fmt.Errorf("load revisits: %w", err)
	}
	if !ok {
		return out, nil
	}
	if err := json.Unmarshal([]byte(v), &out); err != nil {
		logger.Warn("mapping_corrupt", "key", revisitsKey, "error", err)
		return map[string]int64{}, nil
	}
	return out, nil
}

// Add schedules (or reschedules) a reminder for id at due. A second Add for
// the same id overwrites the due time.
func (q *Revisits) Add(id string, due int64) error {
	m, err := q.All()
	if err != nil {
		return err
	}
	m[id] = due
	if err := q.write(m); err != nil {
		logger.Error("revisit_save_failed", "id", id, "error", err)
		return err
	}
	logger.Info("revisit_saved", "id", id, "due", due)
	return nil
}

// Remove deletes the given ids from the schedule in a single write.
func (q *Revisits) Remove(ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	m, err := q.All()
	if err != nil {
		return err
	}
	for _, id := range ids {
		delete(m, id)
	}
	return q.write(m)
}

// ListDue returns every id whose due timestamp is at or before now (ms).
func (q *Revisits) ListDue(now int64) ([]string, error) {
	m, err := q.All()
	if err != nil {
		return nil, err
	}
	var out []string
	for id, due := range m {
		if due <= now {
			out = append(out, id)
		}
	}
	return out, nil
}

func (q *Revisits) write(m map[string]int64) error {
	b, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal revisits: %w", err)
	}
	return q.kv.Set(revisitsKey, string(b))
}
