package metastore

import (
	"context"
	"runtime"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/julianstephens/photo-gallery-sub001/internal/config"
	"github.com/julianstephens/photo-gallery-sub001/internal/pkg/logger"
)

// MetaStore is the typed accessor over a key/value store (strings, lists,
// sorted sets, TTL, MULTI) that backs all durable state named in spec §6:
// guild settings, gradient records, and the gradient worker's queues.
type MetaStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)
	Incr(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error

	// Lists back gradient:queue and gradient:processing.
	LPush(ctx context.Context, key string, values ...string) error
	RPush(ctx context.Context, key string, values ...string) error
	BRPopLPush(ctx context.Context, source, dest string, timeout time.Duration) (string, bool, error)
	LRem(ctx context.Context, key string, value string) error
	LRange(ctx context.Context, key string, start, stop int64) ([]string, error)

	// Sorted sets back gradient:delayed (score = ready-at epoch ms).
	ZAdd(ctx context.Context, key string, score float64, member string) error
	ZRangeByScore(ctx context.Context, key string, max float64) ([]string, error)
	ZRem(ctx context.Context, key string, members ...string) error

	// Batch moves delayed jobs into the ready queue atomically in one
	// MULTI/EXEC, as spec §4.6's delayed-job promoter requires.
	PromoteDelayed(ctx context.Context, delayedKey, queueKey string, members []string) error

	Scan(ctx context.Context, pattern string) ([]string, error)
	Close() error

	// GetGuildSettings/PutGuildSettings are a minimal typed accessor over
	// `guilds:<guildId>:settings` (spec §6): an opaque JSON blob with a
	// 90-day TTL, refreshed on read and write.
	GetGuildSettings(ctx context.Context, guildID string) (string, bool, error)
	PutGuildSettings(ctx context.Context, guildID, settingsJSON string) error
}

// guildSettingsTTL is spec §6's 90-day TTL for guild settings records.
const guildSettingsTTL = 90 * 24 * time.Hour

func guildSettingsKey(guildID string) string {
	return "guilds:" + guildID + ":settings"
}

// RedisMetaStore implements MetaStore over go-redis.
type RedisMetaStore struct {
	client *redis.Client
	logger *logger.Logger
}

var _ MetaStore = (*RedisMetaStore)(nil)

// NewRedisMetaStore dials Redis and verifies connectivity, mirroring the
// teacher's NewRedisClient connection-pool tuning.
func NewRedisMetaStore(cfg *config.Config, log *logger.Logger) (*RedisMetaStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Addr,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     10 * runtime.GOMAXPROCS(0),
		MinIdleConns: 5,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolTimeout:  4 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	log.Info().Str("addr", cfg.Redis.Addr).Msg("MetaStore connection established")
	return &RedisMetaStore{client: client, logger: log}, nil
}

func (m *RedisMetaStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := m.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (m *RedisMetaStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return m.client.Set(ctx, key, value, ttl).Err()
}

func (m *RedisMetaStore) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return m.client.Del(ctx, keys...).Err()
}

func (m *RedisMetaStore) Exists(ctx context.Context, key string) (bool, error) {
	n, err := m.client.Exists(ctx, key).Result()
	return n > 0, err
}

func (m *RedisMetaStore) Incr(ctx context.Context, key string) (int64, error) {
	return m.client.Incr(ctx, key).Result()
}

func (m *RedisMetaStore) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return m.client.Expire(ctx, key, ttl).Err()
}

func (m *RedisMetaStore) LPush(ctx context.Context, key string, values ...string) error {
	args := make([]interface{}, len(values))
	for i, v := range values {
		args[i] = v
	}
	return m.client.LPush(ctx, key, args...).Err()
}

func (m *RedisMetaStore) RPush(ctx context.Context, key string, values ...string) error {
	args := make([]interface{}, len(values))
	for i, v := range values {
		args[i] = v
	}
	return m.client.RPush(ctx, key, args...).Err()
}

// BRPopLPush performs the blocking-pop-into-processing-list move the
// dispatch loop uses to atomically lease a job (spec §4.6 "Dispatch loop").
func (m *RedisMetaStore) BRPopLPush(ctx context.Context, source, dest string, timeout time.Duration) (string, bool, error) {
	val, err := m.client.BRPopLPush(ctx, source, dest, timeout).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (m *RedisMetaStore) LRem(ctx context.Context, key string, value string) error {
	return m.client.LRem(ctx, key, 0, value).Err()
}

func (m *RedisMetaStore) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	return m.client.LRange(ctx, key, start, stop).Result()
}

func (m *RedisMetaStore) ZAdd(ctx context.Context, key string, score float64, member string) error {
	return m.client.ZAdd(ctx, key, redis.Z{Score: score, Member: member}).Err()
}

func (m *RedisMetaStore) ZRangeByScore(ctx context.Context, key string, max float64) ([]string, error) {
	return m.client.ZRangeByScore(ctx, key, &redis.ZRangeBy{
		Min: "-inf",
		Max: strconv.FormatFloat(max, 'f', 0, 64),
	}).Result()
}

func (m *RedisMetaStore) ZRem(ctx context.Context, key string, members ...string) error {
	if len(members) == 0 {
		return nil
	}
	args := make([]interface{}, len(members))
	for i, v := range members {
		args[i] = v
	}
	return m.client.ZRem(ctx, key, args...).Err()
}

// PromoteDelayed moves members out of the delayed sorted set and onto the
// ready queue in a single transaction, so a crash mid-promotion can never
// duplicate or drop a job.
func (m *RedisMetaStore) PromoteDelayed(ctx context.Context, delayedKey, queueKey string, members []string) error {
	if len(members) == 0 {
		return nil
	}
	zremArgs := make([]interface{}, len(members))
	rpushArgs := make([]interface{}, len(members))
	for i, v := range members {
		zremArgs[i] = v
		rpushArgs[i] = v
	}

	_, err := m.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRem(ctx, delayedKey, zremArgs...)
		pipe.RPush(ctx, queueKey, rpushArgs...)
		return nil
	})
	return err
}

func (m *RedisMetaStore) Scan(ctx context.Context, pattern string) ([]string, error) {
	var (
		cursor uint64
		keys   []string
	)
	for {
		batch, next, err := m.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return nil, err
		}
		keys = append(keys, batch...)
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return keys, nil
}

func (m *RedisMetaStore) Close() error {
	m.logger.Info().Msg("Closing MetaStore connection")
	return m.client.Close()
}

// GetGuildSettings reads the guild settings blob and refreshes its TTL.
func (m *RedisMetaStore) GetGuildSettings(ctx context.Context, guildID string) (string, bool, error) {
	key := guildSettingsKey(guildID)
	val, ok, err := m.Get(ctx, key)
	if err != nil || !ok {
		return val, ok, err
	}
	if err := m.Expire(ctx, key, guildSettingsTTL); err != nil {
		m.logger.Warn().Err(err).Str("guild_id", guildID).Msg("failed to refresh guild settings TTL")
	}
	return val, true, nil
}

// PutGuildSettings writes the guild settings blob with a fresh 90-day TTL.
func (m *RedisMetaStore) PutGuildSettings(ctx context.Context, guildID, settingsJSON string) error {
	return m.Set(ctx, guildSettingsKey(guildID), settingsJSON, guildSettingsTTL)
}
