package gradient

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMetaStore is an in-memory stand-in for metastore.MetaStore, sufficient
// for exercising Meta's read-modify-write logic without a live Redis.
type fakeMetaStore struct {
	values map[string]string
}

func newFakeMetaStore() *fakeMetaStore {
	return &fakeMetaStore{values: make(map[string]string)}
}

func (f *fakeMetaStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, ok := f.values[key]
	return v, ok, nil
}

func (f *fakeMetaStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	f.values[key] = value
	return nil
}

func (f *fakeMetaStore) Del(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.values, k)
	}
	return nil
}

func (f *fakeMetaStore) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := f.values[key]
	return ok, nil
}

func (f *fakeMetaStore) Incr(ctx context.Context, key string) (int64, error) { return 0, nil }
func (f *fakeMetaStore) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return nil
}
func (f *fakeMetaStore) LPush(ctx context.Context, key string, values ...string) error { return nil }
func (f *fakeMetaStore) RPush(ctx context.Context, key string, values ...string) error { return nil }
func (f *fakeMetaStore) BRPopLPush(ctx context.Context, source, dest string, timeout time.Duration) (string, bool, error) {
	return "", false, nil
}
func (f *fakeMetaStore) LRem(ctx context.Context, key string, value string) error { return nil }
func (f *fakeMetaStore) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	return nil, nil
}
func (f *fakeMetaStore) ZAdd(ctx context.Context, key string, score float64, member string) error {
	return nil
}
func (f *fakeMetaStore) ZRangeByScore(ctx context.Context, key string, max float64) ([]string, error) {
	return nil, nil
}
func (f *fakeMetaStore) ZRem(ctx context.Context, key string, members ...string) error { return nil }
func (f *fakeMetaStore) PromoteDelayed(ctx context.Context, delayedKey, queueKey string, members []string) error {
	return nil
}
func (f *fakeMetaStore) Scan(ctx context.Context, pattern string) ([]string, error) { return nil, nil }
func (f *fakeMetaStore) Close() error                                              { return nil }
func (f *fakeMetaStore) GetGuildSettings(ctx context.Context, guildID string) (string, bool, error) {
	return "", false, nil
}
func (f *fakeMetaStore) PutGuildSettings(ctx context.Context, guildID, settingsJSON string) error {
	return nil
}

func TestMeta_MarkPending_CreatesRecord(t *testing.T) {
	store := newFakeMetaStore()
	m := NewMeta(store)

	require.NoError(t, m.MarkPending(context.Background(), "gallery/uploads/img.jpg"))

	rec, err := m.Get(context.Background(), "gallery/uploads/img.jpg")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, StatusPending, rec.Status)
}

func TestMeta_MarkPending_NoopsOnCompleted(t *testing.T) {
	store := newFakeMetaStore()
	m := NewMeta(store)
	key := "gallery/uploads/img.jpg"

	require.NoError(t, m.MarkCompleted(context.Background(), key, &Palette{Primary: "#fff"}, 1))
	require.NoError(t, m.MarkPending(context.Background(), key))

	rec, err := m.Get(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, rec.Status)
	assert.NotNil(t, rec.Gradient)
}

func TestMeta_MarkProcessing_NoopsWhenAbsent(t *testing.T) {
	store := newFakeMetaStore()
	m := NewMeta(store)

	require.NoError(t, m.MarkProcessing(context.Background(), "nonexistent"))
	rec, err := m.Get(context.Background(), "nonexistent")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestMeta_MarkFailed_RecordsLastError(t *testing.T) {
	store := newFakeMetaStore()
	m := NewMeta(store)
	key := "gallery/uploads/img.jpg"

	require.NoError(t, m.MarkPending(context.Background(), key))
	require.NoError(t, m.MarkFailed(context.Background(), key, 3, assert.AnError))

	rec, err := m.Get(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, rec.Status)
	assert.Equal(t, 3, rec.Attempts)
	assert.Equal(t, assert.AnError.Error(), rec.LastError)
}

func TestMeta_Get_TreatsUnparseableRecordAsAbsent(t *testing.T) {
	store := newFakeMetaStore()
	store.values[recordKey("bad")] = "not json"
	m := NewMeta(store)

	rec, err := m.Get(context.Background(), "bad")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestDeriveJobID_IsDeterministicAndPathSafe(t *testing.T) {
	id1 := deriveJobID("gallery/uploads/2026-07-30/a.jpg")
	id2 := deriveJobID("gallery/uploads/2026-07-30/a.jpg")
	assert.Equal(t, id1, id2)
	assert.NotContains(t, id1, "/")
}
