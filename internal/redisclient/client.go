package redisclient

import (
	"context"
	_ "embed"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

//go:embed scripts/rate_limit.lua
var rateLimitScript string

const (
	stockCacheTTL  = 5 * time.Minute
	idempotencyTTL = 24 * time.Hour
)

type Client struct {
	rdb             *redis.Client
	rateLimitScript *redis.Script
}

// NewClient creates a new Redis client with Lua scripts loaded
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{
		rdb:             rdb,
		rateLimitScript: redis.NewScript(rateLimitScript),
	}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Allow runs the fixed-window rate limiter for a subject (IP+user).
// The counter is shared across instances, unlike an in-process map.
func (c *Client) Allow(ctx context.Context, subject string, max int, window time.Duration) (bool, error) {
	key := fmt.Sprintf("ratelimit:%s", subject)

	result, err := c.rateLimitScript.Run(ctx, c.rdb, []string{key}, max, int(window.Seconds())).Result()
	if err != nil {
		return false, fmt.Errorf("rate limit script failed: %w", err)
	}

	allowed, ok := result.(int64)
	if !ok {
		return false, fmt.Errorf("unexpected script result type")
	}
	return allowed == 1, nil
}

// CacheStock stores a product's live stock for the cart clamp fast path
func (c *Client) CacheStock(ctx context.Context, productID string, quantity int) error {
	key := fmt.Sprintf("stock:%s", productID)
	return c.rdb.Set(ctx, key, quantity, stockCacheTTL).Err()
}

// GetCachedStock retrieves cached stock. The second return is false on a miss.
func (c *Client) GetCachedStock(ctx context.Context, productID string) (int, bool, error) {
	key := fmt.Sprintf("stock:%s", productID)

	val, err := c.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	quantity, err := strconv.Atoi(val)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt stock cache entry: %w", err)
	}
	return quantity, true, nil
}

// InvalidateStock drops a product's cached stock after a write
func (c *Client) InvalidateStock(ctx context.Context, productID string) error {
	return c.rdb.Del(ctx, fmt.Sprintf("stock:%s", productID)).Err()
}

// SetIdempotencyKey records the order created for an idempotency key
func (c *Client) SetIdempotencyKey(ctx context.Context, key, orderID string) error {
	return c.rdb.Set(ctx, fmt.Sprintf("idempotency:%s", key), orderID, idempotencyTTL).Err()
}

// GetIdempotencyKey retrieves the order recorded for an idempotency key.
// The second return is false on a miss.
func (c *Client) GetIdempotencyKey(ctx context.Context, key string) (string, bool, error) {
	val, err := c.rdb.Get(ctx, fmt.Sprintf("idempotency:%s", key)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}
