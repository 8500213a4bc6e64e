package gradient

import (
	"context"
	"encoding/json"
	"time"

	"github.com/julianstephens/photo-gallery-sub001/internal/infra/metastore"
)

const recordTTL = 30 * 24 * time.Hour

func recordKey(storageKey string) string {
	return "gradient:" + storageKey
}

// Meta is the GradientMeta accessor of spec §4.5: a state machine over
// per-object gradient records, keyed by storage key, refreshed on every
// read/write and treating unparseable records as absent.
type Meta struct {
	store metastore.MetaStore
}

func NewMeta(store metastore.MetaStore) *Meta {
	return &Meta{store: store}
}

// Get reads and refreshes the TTL of a record. A record present but
// unparseable (stale schema) is treated as absent, not an error.
func (m *Meta) Get(ctx context.Context, storageKey string) (*Record, error) {
	key := recordKey(storageKey)
	raw, ok, err := m.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var rec Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, nil
	}

	_ = m.store.Expire(ctx, key, recordTTL)
	return &rec, nil
}

// GetMany batch-reads records for the given storage keys.
func (m *Meta) GetMany(ctx context.Context, storageKeys []string) (map[string]*Record, error) {
	out := make(map[string]*Record, len(storageKeys))
	for _, key := range storageKeys {
		rec, err := m.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if rec != nil {
			out[key] = rec
		}
	}
	return out, nil
}

func (m *Meta) write(ctx context.Context, storageKey string, rec *Record) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return m.store.Set(ctx, recordKey(storageKey), string(raw), recordTTL)
}

// MarkPending creates/resets a record to pending. A no-op if the current
// status is already completed, so a re-enqueue never regresses a good
// record (spec §4.5, §8 "at-most-one completion regression").
func (m *Meta) MarkPending(ctx context.Context, storageKey string) error {
	existing, err := m.Get(ctx, storageKey)
	if err != nil {
		return err
	}
	if existing != nil && existing.Status == StatusCompleted {
		return nil
	}

	now := nowMillis()
	rec := &Record{Status: StatusPending, CreatedAt: now, UpdatedAt: now}
	if existing != nil {
		rec.CreatedAt = existing.CreatedAt
		rec.Attempts = existing.Attempts
	}
	return m.write(ctx, storageKey, rec)
}

// MarkProcessing transitions an existing record to processing. A no-op if
// no record exists.
func (m *Meta) MarkProcessing(ctx context.Context, storageKey string) error {
	existing, err := m.Get(ctx, storageKey)
	if err != nil {
		return err
	}
	if existing == nil {
		return nil
	}
	existing.Status = StatusProcessing
	existing.UpdatedAt = nowMillis()
	return m.write(ctx, storageKey, existing)
}

// MarkCompleted unconditionally records the computed gradient.
func (m *Meta) MarkCompleted(ctx context.Context, storageKey string, palette *Palette, attempts int) error {
	existing, err := m.Get(ctx, storageKey)
	if err != nil {
		return err
	}
	now := nowMillis()
	rec := &Record{Status: StatusCompleted, Gradient: palette, Attempts: attempts, UpdatedAt: now, CreatedAt: now}
	if existing != nil {
		rec.CreatedAt = existing.CreatedAt
	}
	return m.write(ctx, storageKey, rec)
}

// MarkFailed unconditionally records a terminal failure.
func (m *Meta) MarkFailed(ctx context.Context, storageKey string, attempts int, cause error) error {
	existing, err := m.Get(ctx, storageKey)
	if err != nil {
		return err
	}
	now := nowMillis()
	rec := &Record{Status: StatusFailed, Attempts: attempts, UpdatedAt: now, CreatedAt: now}
	if cause != nil {
		rec.LastError = cause.Error()
	}
	if existing != nil {
		rec.CreatedAt = existing.CreatedAt
	}
	return m.write(ctx, storageKey, rec)
}

// Delete removes a record outright.
func (m *Meta) Delete(ctx context.Context, storageKey string) error {
	return m.store.Del(ctx, recordKey(storageKey))
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}
