package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	// defaultOperationTimeout is the timeout for individual Redis operations
	defaultOperationTimeout = 5 * time.Second

	documentListTTL = 10 * time.Minute
	configTTL       = time.Hour
)

var (
	ErrCacheMiss = errors.New("cache: key not found")
	ErrDisabled  = errors.New("cache: disabled")
)

type Cache struct {
	client  *redis.Client
	enabled bool
}

// NewCache connects to Redis at addr. addr may be a host:port pair or a
// redis:// URL. A disabled cache accepts writes and misses every read.
func NewCache(addr string, enable bool) (*Cache, error) {
	if !enable {
		return &Cache{enabled: false}, nil
	}

	opts, err := redis.ParseURL(addr)
	if err != nil {
		opts = &redis.Options{Addr: addr}
	}
	opts.PoolSize = 10
	opts.MinIdleConns = 5
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Cache{
		client:  client,
		enabled: true,
	}, nil
}

func (c *Cache) Enabled() bool {
	return c != nil && c.enabled
}

// operationContext bounds a Redis call by the caller's context and the
// default timeout, whichever ends first.
func (c *Cache) operationContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, defaultOperationTimeout)
}

func (c *Cache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if !c.Enabled() {
		return nil
	}

	ctx, cancel := c.operationContext(ctx)
	defer cancel()

	jsonData, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, jsonData, expiration).Err()
}

func (c *Cache) Get(ctx context.Context, key string, dest interface{}) error {
	if !c.Enabled() {
		return ErrDisabled
	}

	ctx, cancel := c.operationContext(ctx)
	defer cancel()

	val, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return ErrCacheMiss
	} else if err != nil {
		return err
	}
	return json.Unmarshal(val, dest)
}

func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if !c.Enabled() || len(keys) == 0 {
		return nil
	}

	ctx, cancel := c.operationContext(ctx)
	defer cancel()

	return c.client.Del(ctx, keys...).Err()
}

func (c *Cache) DeletePattern(ctx context.Context, pattern string) error {
	if !c.Enabled() {
		return nil
	}

	ctx, cancel := c.operationContext(ctx)
	defer cancel()

	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}

func DocumentsKey(userID uint, docType string) string {
	return fmt.Sprintf("docs:%d:%s", userID, docType)
}

// CacheDocuments stores the flattened list a user sees for one document type.
func (c *Cache) CacheDocuments(ctx context.Context, userID uint, docType string, docs interface{}) error {
	return c.Set(ctx, DocumentsKey(userID, docType), docs, documentListTTL)
}

func (c *Cache) GetCachedDocuments(ctx context.Context, userID uint, docType string, dest interface{}) error {
	return c.Get(ctx, DocumentsKey(userID, docType), dest)
}

func (c *Cache) InvalidateDocuments(ctx context.Context, userID uint, docType string) error {
	if docType == "" {
		return c.DeletePattern(ctx, fmt.Sprintf("docs:%d:*", userID))
	}
	return c.Delete(ctx, DocumentsKey(userID, docType))
}

func (c *Cache) CacheSystemConfig(ctx context.Context, cfg interface{}) error {
	return c.Set(ctx, "system:config", cfg, configTTL)
}

func (c *Cache) GetCachedSystemConfig(ctx context.Context, dest interface{}) error {
	return c.Get(ctx, "system:config", dest)
}

func (c *Cache) InvalidateSystemConfig(ctx context.Context) error {
	return c.Delete(ctx, "system:config")
}
