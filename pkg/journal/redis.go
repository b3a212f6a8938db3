package journal

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	tpcontext "github.com/vnykmshr/taskpool/pkg/common/context"
	tperrors "github.com/vnykmshr/taskpool/pkg/common/errors"
	"github.com/vnykmshr/taskpool/pkg/common/validation"
)

// KeyPrefix is prepended to the pool name to form the default stream key.
const KeyPrefix = "taskpool:journal:"

// RedisConfig configures a RedisJournal.
type RedisConfig struct {
	// Redis client used for the stream
	Redis redis.UniversalClient

	// Key is the stream key. Defaults to KeyPrefix + Pool.
	Key string

	// Pool names the pool whose outcomes are journaled.
	Pool string

	// MaxLen caps the stream length approximately (defaults to 10000)
	MaxLen int64

	// Timeout bounds every Redis call (defaults to 500ms)
	Timeout time.Duration
}

// DefaultRedisConfig returns sensible defaults for pool.
func DefaultRedisConfig(pool string) RedisConfig {
	return RedisConfig{
		Pool:    pool,
		MaxLen:  10000,
		Timeout: 500 * time.Millisecond,
	}
}

// RedisJournal appends entries to a Redis stream.
type RedisJournal struct {
	rdb     redis.UniversalClient
	key     string
	maxLen  int64
	timeout time.Duration
}

// RedisError wraps a failed Redis call.
type RedisError struct {
	Op  string
	Err error
}

func (e *RedisError) Error() string {
	return fmt.Sprintf("redis %s failed: %v", e.Op, e.Err)
}

func (e *RedisError) Unwrap() error {
	return e.Err
}

// NewRedis creates a journal writing to the configured stream.
func NewRedis(cfg RedisConfig) (*RedisJournal, error) {
	if err := validation.ValidateNotNil(module, "redis", cfg.Redis); err != nil {
		return nil, err
	}
	if cfg.Key == "" {
		if cfg.Pool == "" {
			return nil, tperrors.NewValidationError(module, "key", "", "cannot be empty").
				WithHint("set Key or Pool")
		}
		cfg.Key = KeyPrefix + cfg.Pool
	}
	if cfg.MaxLen <= 0 {
		cfg.MaxLen = 10000
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 500 * time.Millisecond
	}

	return &RedisJournal{
		rdb:     cfg.Redis,
		key:     cfg.Key,
		maxLen:  cfg.MaxLen,
		timeout: cfg.Timeout,
	}, nil
}

// Key returns the stream key.
func (r *RedisJournal) Key() string {
	return r.key
}

// Record appends e with XADD, trimming the stream to about MaxLen entries.
func (r *RedisJournal) Record(ctx context.Context, e Entry) error {
	ctx, cancel := tpcontext.WithTimeoutOrCancel(ctx, r.timeout)
	defer cancel()

	err := r.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: r.key,
		MaxLen: r.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			"id":         e.ID,
			"pool":       e.Pool,
			"task_id":    e.TaskID,
			"worker_id":  e.WorkerID,
			"status":     string(e.Status),
			"error":      e.Error,
			"queue_wait": int64(e.QueueWait),
			"duration":   int64(e.Duration),
			"at":         e.At.UnixNano(),
		},
	}).Err()
	if err != nil {
		return &RedisError{"xadd", err}
	}
	return nil
}

// Recent reads up to n entries newest first with XREVRANGE.
func (r *RedisJournal) Recent(ctx context.Context, n int) ([]Entry, error) {
	ctx, cancel := tpcontext.WithTimeoutOrCancel(ctx, r.timeout)
	defer cancel()

	if n <= 0 {
		n = int(r.maxLen)
	}

	msgs, err := r.rdb.XRevRangeN(ctx, r.key, "+", "-", int64(n)).Result()
	if err != nil {
		return nil, &RedisError{"xrevrange", err}
	}

	entries := make([]Entry, 0, len(msgs))
	for _, msg := range msgs {
		e, err := decode(msg.Values)
		if err != nil {
			return nil, fmt.Errorf("stream message %s: %w", msg.ID, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Clear deletes the stream.
func (r *RedisJournal) Clear(ctx context.Context) error {
	ctx, cancel := tpcontext.WithTimeoutOrCancel(ctx, r.timeout)
	defer cancel()

	if err := r.rdb.Del(ctx, r.key).Err(); err != nil {
		return &RedisError{"del", err}
	}
	return nil
}

func decode(values map[string]interface{}) (Entry, error) {
	str := func(k string) string {
		s, _ := values[k].(string)
		return s
	}
	num := func(k string) (int64, error) {
		n, err := strconv.ParseInt(str(k), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: field %s: %v", ErrInvalidEntry, k, err)
		}
		return n, nil
	}

	taskID, err := strconv.ParseUint(str("task_id"), 10, 64)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: field task_id: %v", ErrInvalidEntry, err)
	}
	worker, err := num("worker_id")
	if err != nil {
		return Entry{}, err
	}
	wait, err := num("queue_wait")
	if err != nil {
		return Entry{}, err
	}
	dur, err := num("duration")
	if err != nil {
		return Entry{}, err
	}
	at, err := num("at")
	if err != nil {
		return Entry{}, err
	}

	return Entry{
		ID:        str("id"),
		Pool:      str("pool"),
		TaskID:    taskID,
		WorkerID:  int(worker),
		Status:    Status(str("status")),
		Error:     str("error"),
		QueueWait: time.Duration(wait),
		Duration:  time.Duration(dur),
		At:        time.Unix(0, at),
	}, nil
}
