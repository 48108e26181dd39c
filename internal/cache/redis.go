package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"narration-backend/internal/config"
)

// Cache keys
const (
	SettlementKeyFmt = "settlement:%d"
	CalendarHoldsKey = "calendar:holds"
)

var client *redis.Client

// Init initializes the Redis connection. The cache degrades gracefully:
// a nil client turns every operation into a no-op.
func Init(cfg *config.Config) error {
	client = redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		client = nil
		return err
	}
	return nil
}

// GetClient returns the Redis client (nil when the cache is down)
func GetClient() *redis.Client {
	return client
}

// GetCachedSettlement returns a cached settlement payload for an engagement
func GetCachedSettlement(ctx context.Context, engagementID int) ([]byte, bool) {
	if client == nil {
		return nil, false
	}
	data, err := client.Get(ctx, fmt.Sprintf(SettlementKeyFmt, engagementID)).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// CacheSettlement caches a settlement payload for 5 minutes
func CacheSettlement(ctx context.Context, engagementID int, data []byte) {
	if client == nil {
		return
	}
	client.Set(ctx, fmt.Sprintf(SettlementKeyFmt, engagementID), data, 5*time.Minute)
}

// InvalidateSettlement drops the cached settlement after an invoice or
// session-log write
func InvalidateSettlement(ctx context.Context, engagementID int) {
	if client == nil {
		return
	}
	client.Del(ctx, fmt.Sprintf(SettlementKeyFmt, engagementID))
}

// GetCachedHolds returns the cached calendar-hold payload
func GetCachedHolds(ctx context.Context) ([]byte, bool) {
	if client == nil {
		return nil, false
	}
	data, err := client.Get(ctx, CalendarHoldsKey).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// CacheHolds caches the calendar-hold payload for 1 minute. Short TTL:
// confirm-time collision checks never trust this cache, only the display
// path reads it.
func CacheHolds(ctx context.Context, data []byte) {
	if client == nil {
		return
	}
	client.Set(ctx, CalendarHoldsKey, data, time.Minute)
}

// InvalidateHolds drops the calendar cache after any engagement write
func InvalidateHolds(ctx context.Context) {
	if client == nil {
		return
	}
	client.Del(ctx, CalendarHoldsKey)
}
