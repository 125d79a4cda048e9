// Package cache keeps counter snapshots in Redis for the display endpoint.
package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"immat/internal/registration/models"
)

const keyPrefix = "seq:"

// setIfNewer keeps the highest counter version. Allocations commit in version
// order but their cache writes may land out of order.
var setIfNewer = redis.NewScript(`
local cur = redis.call('HGET', KEYS[1], 'version')
if cur and tonumber(cur) >= tonumber(ARGV[3]) then
	return 0
end
redis.call('HSET', KEYS[1], 'cursor', ARGV[1], 'suffix', ARGV[2], 'version', ARGV[3])
redis.call('PEXPIRE', KEYS[1], ARGV[4])
return 1
`)

// SequenceCache is a display cache only. The database counter stays the
// source of truth for allocation.
type SequenceCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewSequenceCache(client redis.Cmdable, ttl time.Duration) *SequenceCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &SequenceCache{client: client, ttl: ttl}
}

// Key is "seq:{department}:{class}".
func Key(k models.CounterKey) string {
	return keyPrefix + k.DepartmentID.String() + ":" + k.Class.String()
}

func (c *SequenceCache) Get(ctx context.Context, key models.CounterKey) (models.Counter, bool, error) {
	fields, err := c.client.HGetAll(ctx, Key(key)).Result()
	if err != nil {
		return models.Counter{}, false, fmt.Errorf("read sequence cache: %w", err)
	}
	if len(fields) == 0 {
		return models.Counter{}, false, nil
	}
	cursor, err := strconv.Atoi(fields["cursor"])
	if err != nil {
		return models.Counter{}, false, fmt.Errorf("sequence cache cursor: %w", err)
	}
	version, err := strconv.ParseInt(fields["version"], 10, 64)
	if err != nil {
		return models.Counter{}, false, fmt.Errorf("sequence cache version: %w", err)
	}
	suffix := fields["suffix"]
	if len(suffix) != 1 {
		return models.Counter{}, false, fmt.Errorf("sequence cache suffix %q", suffix)
	}
	counter := models.Counter{Key: key, Cursor: cursor, Suffix: suffix[0], Version: version}
	if err := counter.Validate(); err != nil {
		return models.Counter{}, false, err
	}
	return counter, true, nil
}

func (c *SequenceCache) Set(ctx context.Context, counter models.Counter) error {
	err := setIfNewer.Run(ctx, c.client, []string{Key(counter.Key)},
		counter.Cursor,
		string(counter.Suffix),
		counter.Version,
		c.ttl.Milliseconds(),
	).Err()
	if err != nil {
		return fmt.Errorf("write sequence cache: %w", err)
	}
	return nil
}
