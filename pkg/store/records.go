// Package store persists per-post request records and their secondary
// mappings on top of a kv.Store. Four logical keys exist: "post-<id>" for
// each record, "index" (id -> last save time) used by the retention sweep,
// "revisits" (id -> due time) and "requestIndex" (id -> last sent request).
package store

import (
	"encoding/json"
	"fmt"
	"time"

	"plstrack/pkg/kv"
	"plstrack/pkg/logger"
	"plstrack/pkg/models"
	"plstrack/pkg/telemetry"
)

const (
	recordKeyPrefix = "post-"
	indexKey        = "index"
	requestIndexKey = "requestIndex"
)

// Records owns record and index persistence. The zero value is not usable;
// construct with NewRecords.
type Records struct {
	kv  kv.Store
	now func() time.Time
}

func NewRecords(s kv.Store) *Records {
	return &Records{kv: s, now: time.Now}
}

// WithClock overrides the time source; tests use it for deterministic stamps.
func (r *Records) WithClock(now func() time.Time) *Records {
	r.now = now
	return r
}

func recordKey(id string) string { return recordKeyPrefix + id }

// Load fetches and deserializes the record for id. Absent entries and
// corrupt stored values both return (nil, nil); corruption is logged, not
// surfaced, so a bad blob can never wedge a caller.
func (r *Records) Load(id string) (*models.Record, error) {
	v, ok, err := r.kv.Get(recordKey(id))
	if err != nil {
		return nil, fmt.Errorf("load record %s: %w", id, err)
	}
	if !ok {
		return nil, nil
	}
	var rec models.Record
	if err := json.Unmarshal([]byte(v), &rec); err != nil {
		logger.Warn("record_corrupt", "id", id, "error", err)
		return nil, nil
	}
	return &rec, nil
}

// Save merges patch onto the stored record (or a fresh one), stamps it with
// the current time, writes it, and upserts the index entry in lockstep.
func (r *Records) Save(id string, patch models.Patch) (*models.Record, error) {
	rec, err := r.Load(id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		rec = &models.Record{ID: id}
	}
	patch.Apply(rec)
	rec.ID = id
	rec.Time = r.now().UnixMilli()

	b, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("marshal record %s: %w", id, err)
	}
	if err := r.kv.Set(recordKey(id), string(b)); err != nil {
		logger.Error("save_record_failed", "id", id, "error", err)
		return nil, err
	}
	if err := r.upsertIndex(id, rec.Time); err != nil {
		logger.Error("save_index_failed", "id", id, "error", err)
		return nil, err
	}
	telemetry.RecordSaves.Inc()
	logger.Info("record_saved", "id", id, "type", string(rec.Type), "request", rec.LastRequestType)
	return rec, nil
}

// Delete removes the record only. The index entry is intentionally left
// behind so ad-hoc deletes don't pay for an index read-modify-write; the
// sweeper rewrites the index itself in the same pass.
func (r *Records) Delete(id string) error {
	if err := r.kv.Delete(recordKey(id)); err != nil {
		logger.Error("delete_record_failed", "id", id, "error", err)
		return err
	}
	logger.Debug("record_deleted", "id", id)
	return nil
}

// Index returns the full id -> last-save-time mapping. A missing or corrupt
// index reads as empty.
func (r *Records) Index() (map[string]int64, error) {
	return r.loadInt64Map(indexKey)
}

// WriteIndex replaces the stored index in a single write.
func (r *Records) WriteIndex(idx map[string]int64) error {
	b, err := json.Marshal(idx)
	if err != nil {
		return fmt.Errorf("marshal index: %w", err)
	}
	if err := r.kv.Set(indexKey, string(b)); err != nil {
		return err
	}
	telemetry.IndexSize.Set(float64(len(idx)))
	return nil
}

func (r *Records) upsertIndex(id string, ts int64) error {
	idx, err := r.Index()
	if err != nil {
		return err
	}
	idx[id] = ts
	return r.WriteIndex(idx)
}

// LogSent records the type and time of a request that was actually sent.
// Independent of Save: a record can be saved without sending, but a send
// always lands here.
func (r *Records) LogSent(id, reqType string) error {
	idx, err := r.loadStampMap()
	if err != nil {
		return err
	}
	idx[id] = models.RequestStamp{Type: reqType, Time: r.now().UnixMilli()}
	b, err := json.Marshal(idx)
	if err != nil {
		return fmt.Errorf("marshal request index: %w", err)
	}
	if err := r.kv.Set(requestIndexKey, string(b)); err != nil {
		logger.Error("log_sent_failed", "id", id, "error", err)
		return err
	}
	logger.Info("request_logged", "id", id, "type", reqType)
	return nil
}

// LastSent returns the most recently sent request for id, or nil.
func (r *Records) LastSent(id string) (*models.RequestStamp, error) {
	idx, err := r.loadStampMap()
	if err != nil {
		return nil, err
	}
	if st, ok := idx[id]; ok {
		return &st, nil
	}
	return nil, nil
}

func (r *Records) loadInt64Map(key string) (map[string]int64, error) {
	out := map[string]int64{}
	v, ok, err := r.kv.Get(key)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	if !ok {
		return out, nil
	}
	if err := json.Unmarshal([]byte(v), &out); err != nil {
		logger.Warn("mapping_corrupt", "key", key, "error", err)
		return map[string]int64{}, nil
	}
	return out, nil
}

func (r *Records) loadStampMap() (map[string]models.RequestStamp, error) {
	out := map[string]models.RequestStamp{}
	v, ok, err := r.kv.Get(requestIndexKey)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", requestIndexKey, err)
	}
	if !ok {
		return out, nil
	}
	if err := json.Unmarshal([]byte(v), &out); err != nil {
		logger.Warn("mapping_corrupt", "key", requestIndexKey, "error", err)
		return map[string]models.RequestStamp{}, nil
	}
	return out, nil
}
