package journal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vnykmshr/taskpool/internal/testutil"
	tperrors "github.com/vnykmshr/taskpool/pkg/common/errors"
)

func redisClient(t *testing.T) *redis.Client {
	t.Helper()

	rdb := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   1, // Use a test database
	})
	t.Cleanup(func() { _ = rdb.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		t.Skip("Redis not available, skipping")
	}
	return rdb
}

func TestNewRedisValidation(t *testing.T) {
	_, err := NewRedis(RedisConfig{})
	if !tperrors.IsValidationError(err) {
		t.Errorf("missing client: expected validation error, got %v", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	defer func() { _ = rdb.Close() }()

	_, err = NewRedis(RedisConfig{Redis: rdb})
	if !tperrors.IsValidationError(err) {
		t.Errorf("missing key: expected validation error, got %v", err)
	}

	_, err = NewRedis(DefaultRedisConfig("encoder"))
	if err == nil {
		t.Fatal("DefaultRedisConfig carries no client")
	}

	cfg := DefaultRedisConfig("encoder")
	cfg.Redis = rdb
	j, err := NewRedis(cfg)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, j.Key(), "taskpool:journal:encoder")
}

func TestDecodeRejectsMalformedEntries(t *testing.T) {
	_, err := decode(map[string]interface{}{"task_id": "x"})
	testutil.AssertErrorIs(t, err, ErrInvalidEntry)

	_, err = decode(map[string]interface{}{"task_id": "1", "worker_id": "0", "queue_wait": "nope"})
	testutil.AssertErrorIs(t, err, ErrInvalidEntry)
}

func TestRedisJournal(t *testing.T) {
	rdb := redisClient(t)
	ctx := context.Background()

	cfg := DefaultRedisConfig("journal-test-" + time.Now().Format("150405.000000"))
	cfg.Redis = rdb
	cfg.MaxLen = 100
	j, err := NewRedis(cfg)
	testutil.AssertNoError(t, err)
	defer func() { _ = j.Clear(ctx) }()

	at := time.Now().Truncate(time.Microsecond)
	for i := uint64(1); i <= 3; i++ {
		testutil.AssertNoError(t, j.Record(ctx, Entry{
			ID:        "entry",
			Pool:      cfg.Pool,
			TaskID:    i,
			WorkerID:  int(i) - 1,
			Status:    StatusSucceeded,
			QueueWait: time.Millisecond,
			Duration:  2 * time.Millisecond,
			At:        at,
		}))
	}
	testutil.AssertNoError(t, j.Record(ctx, Entry{Pool: cfg.Pool, TaskID: 4, WorkerID: -1, Status: StatusCancelled, Error: "cancelled", At: at}))

	entries, err := j.Recent(ctx, 3)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(entries), 3)
	testutil.AssertEqual(t, entries[0].TaskID, uint64(4))
	testutil.AssertEqual(t, entries[0].Status, StatusCancelled)
	testutil.AssertEqual(t, entries[0].WorkerID, -1)
	testutil.AssertEqual(t, entries[1].TaskID, uint64(3))
	testutil.AssertEqual(t, entries[1].Duration, 2*time.Millisecond)
	if !entries[1].At.Equal(at) {
		t.Errorf("At = %v, want %v", entries[1].At, at)
	}
}

func TestRedisErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := &RedisError{"xadd", cause}
	testutil.AssertErrorIs(t, err, cause)
	testutil.AssertEqual(t, err.Error(), "redis xadd failed: connection refused")
}
