package lock

import (
	"context"
	"strconv"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "sports-data-service:tick:"

// RedisLeaser hands out one lease per key across replicas. Leases are never
// released; they lapse after their TTL, so a tick key wins at most once.
type RedisLeaser struct {
	client redis.Cmdable
	owner  string
}

// NewRedisLeaser connects to redisURL and verifies the connection.
func NewRedisLeaser(ctx context.Context, redisURL, owner string) (*RedisLeaser, func() error, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, nil, crerr.Wrap(err, "parse scheduler lock redis url")
	}

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, crerr.Wrap(err, "ping scheduler lock redis")
	}

	return NewRedisLeaserWithClient(client, owner), client.Close, nil
}

func NewRedisLeaserWithClient(client redis.Cmdable, owner string) *RedisLeaser {
	return &RedisLeaser{client: client, owner: owner}
}

// Acquire reports whether this process won the lease for the tick of job
// scheduled at tick.
func (l *RedisLeaser) Acquire(ctx context.Context, job string, tick time.Time, ttl time.Duration) (bool, error) {
	ok, err := l.client.SetNX(ctx, TickKey(job, tick), l.owner, ttl).Result()
	if err != nil {
		return false, crerr.Wrapf(err, "acquire lease job=%s", job)
	}
	return ok, nil
}

// TickKey names the lease for one scheduled firing.
func TickKey(job string, tick time.Time) string {
	return keyPrefix + job + ":" + strconv.FormatInt(tick.UTC().Unix(), 10)
}
