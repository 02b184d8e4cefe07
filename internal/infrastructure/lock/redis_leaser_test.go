package lock

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestTickKey(t *testing.T) {
	t.Parallel()

	tick := time.Date(2024, 8, 17, 2, 0, 0, 0, time.FixedZone("WIB", 7*3600))
	got := TickKey("ingest-daily-fixtures", tick)
	want := "sports-data-service:tick:ingest-daily-fixtures:1723834800"
	if got != want {
		t.Fatalf("unexpected key:\nwant: %s\ngot:  %s", want, got)
	}
	if TickKey("ingest-leagues", tick) == got {
		t.Fatalf("different jobs must not share a lease")
	}
}

func TestNewRedisLeaser_RejectsBadURL(t *testing.T) {
	t.Parallel()

	if _, _, err := NewRedisLeaser(context.Background(), "not-a-redis-url", "replica-1"); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestRedisLeaser_AcquireSurfacesConnectionErrors(t *testing.T) {
	t.Parallel()

	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })

	ok, err := NewRedisLeaserWithClient(client, "replica-1").Acquire(context.Background(), "ingest-leagues", time.Now(), time.Minute)
	if err == nil || ok {
		t.Fatalf("expected failed acquire, got ok=%v err=%v", ok, err)
	}
}
