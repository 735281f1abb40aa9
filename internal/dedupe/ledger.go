package dedupe

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultKey = "intake:dedupe"

// Ledger records processed inbound message IDs in a Redis sorted set scored
// by the time they were first seen.
type Ledger struct {
	client redis.Cmdable
	key    string
	ttl    time.Duration
	now    func() time.Time
}

// NewLedger creates a ledger that forgets IDs older than ttl.
func NewLedger(client redis.Cmdable, ttl time.Duration) *Ledger {
	return &Ledger{client: client, key: defaultKey, ttl: ttl, now: time.Now}
}

// AlreadyHandled reports whether id was seen within the TTL and records it
// when it was not. Every call first purges expired entries.
//
// An empty id is never deduplicated. On Redis errors it fails open and the
// message is processed.
func (l *Ledger) AlreadyHandled(ctx context.Context, id string) bool {
	if id == "" {
		return false
	}

	now := l.now()
	cutoff := now.Add(-l.ttl).UnixMilli()

	pipe := l.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, l.key, "-inf", "("+strconv.FormatInt(cutoff, 10))
	added := pipe.ZAddNX(ctx, l.key, redis.Z{Score: float64(now.UnixMilli()), Member: id})
	pipe.Expire(ctx, l.key, l.ttl+time.Minute)
	if _, err := pipe.Exec(ctx); err != nil {
		slog.Warn("dedupe ledger: redis error, failing open", "error", err, "message_id", id)
		return false
	}
	return added.Val() == 0
}

// Forget removes id so a later delivery is processed again.
func (l *Ledger) Forget(ctx context.Context, id string) error {
	return l.client.ZRem(ctx, l.key, id).Err()
}

// Size returns the number of IDs currently held.
func (l *Ledger) Size(ctx context.Context) (int64, error) {
	return l.client.ZCard(ctx, l.key).Result()
}
