package testutil

import (
	"context"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// TestingTB is the subset of testing.TB the helpers need.
type TestingTB interface {
	Helper()
	Skipf(format string, args ...any)
	Fatalf(format string, args ...any)
	Logf(format string, args ...any)
	Cleanup(func())
}

func getEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(key string) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes", "y":
		return true
	}
	return false
}

// FixedTimeFunc returns a clock stuck at t.
func FixedTimeFunc(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// TestTime is the reference instant for fixtures.
func TestTime() time.Time {
	return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
}

// Clock is a settable time source for token and cache expiry tests.
type Clock struct {
	now time.Time
}

func NewClock(start time.Time) *Clock { return &Clock{now: start} }

func (c *Clock) Now() time.Time { return c.now }

func (c *Clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// TimePtr returns &t.
func TimePtr(t time.Time) *time.Time { return &t }

// DefaultTestRedisAddr is where `docker run -p 56379:6379 redis` listens.
const DefaultTestRedisAddr = "localhost:56379"

// redisCandidates lists the addresses tried in order: explicit env, CI service, local default.
func redisCandidates() []string {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		return []string{addr}
	}
	return []string{"redis:6379", "localhost:6379", getEnvOrDefault("TEST_REDIS_ADDR", DefaultTestRedisAddr)}
}

func ping(addr string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// SetupTestRedis returns a client on an emptied test database, closed when the test ends.
// The test is skipped when no Redis answers, unless TEST_REQUIRE_REDIS or TEST_REQUIRE_INFRA is set.
// TEST_REDIS_DB picks the database (default 9).
func SetupTestRedis(t TestingTB) *redis.Client {
	t.Helper()

	db, err := strconv.Atoi(getEnvOrDefault("TEST_REDIS_DB", "9"))
	if err != nil || db < 0 {
		t.Fatalf("invalid TEST_REDIS_DB %q", os.Getenv("TEST_REDIS_DB"))
	}

	var lastErr error
	for _, addr := range redisCandidates() {
		client, err := ping(addr, db)
		if err != nil {
			lastErr = err
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.FlushDB(ctx).Err(); err != nil {
			_ = client.Close()
			t.Fatalf("flush redis db %d at %s: %v", db, addr, err)
		}
		t.Cleanup(func() { _ = client.Close() })
		return client
	}

	if envBool("TEST_REQUIRE_REDIS") || envBool("TEST_REQUIRE_INFRA") {
		t.Fatalf("redis not available for testing: %v", lastErr)
	}
	t.Skipf("redis not available for testing: %v", lastErr)
	return nil
}
