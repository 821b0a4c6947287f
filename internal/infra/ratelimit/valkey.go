package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/valkey-io/valkey-go"
)

// Valkey is a fixed window limiter shared by every instance pointing at the
// same server.
type Valkey struct {
	client valkey.Client
	prefix string
	limit  int64
	window time.Duration
	now    func() time.Time
}

// NewValkey builds a limiter allowing RequestsPerMinute per key and minute.
func NewValkey(client valkey.Client, prefix string, cfg Config) *Valkey {
	if prefix == "" {
		prefix = "ratelimit"
	}
	return &Valkey{
		client: client,
		prefix: prefix,
		limit:  int64(cfg.RequestsPerMinute),
		window: time.Minute,
		now:    time.Now,
	}
}

func (v *Valkey) Allow(ctx context.Context, key string) (bool, error) {
	slot := v.now().Unix() / int64(v.window/time.Second)
	windowKey := fmt.Sprintf("%s:%s:%s", v.prefix, key, strconv.FormatInt(slot, 10))

	// EXPIRE NX rides along on every call so a window key whose first expire
	// was lost still picks up a TTL on the next request.
	resps := v.client.DoMulti(ctx,
		v.client.B().Incr().Key(windowKey).Build(),
		v.client.B().Expire().Key(windowKey).Seconds(int64(v.window/time.Second)).Nx().Build(),
	)
	count, err := resps[0].AsInt64()
	if err != nil {
		return false, fmt.Errorf("increment rate window: %w", err)
	}
	if err := resps[1].Error(); err != nil {
		return false, fmt.Errorf("expire rate window: %w", err)
	}
	return count <= v.limit, nil
}

var _ Limiter = (*Valkey)(nil)
